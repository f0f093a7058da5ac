// Package handler はconversionフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"fintools/internal/feature/conversion/domain/entity"
	"fintools/internal/feature/conversion/transport/http/dto"
)

// ResolveUsecase はISIN変換のユースケースインターフェースです。
type ResolveUsecase interface {
	Resolve(ctx context.Context, lines []string) (entity.SymbolMap, error)
}

// CacheReader は永続キャッシュの読み取りインターフェースです。
type CacheReader interface {
	Read(ctx context.Context) entity.SymbolMap
}

// ResolveHandler はISIN変換のHTTPリクエストを処理します。
type ResolveHandler struct {
	uc    ResolveUsecase
	cache CacheReader
}

// NewResolveHandler は ResolveHandler を生成します。
func NewResolveHandler(uc ResolveUsecase, cache CacheReader) *ResolveHandler {
	return &ResolveHandler{uc: uc, cache: cache}
}

// Resolve は入力行のISINをシンボルに変換して返します。
//
// エンドポイント例:
// POST /api/v1/resolve {"lines":["US0378331005;Apple"]}
func (h *ResolveHandler) Resolve(c *gin.Context) {
	var req dto.ResolveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	symbols, err := h.uc.Resolve(c.Request.Context(), req.Lines)
	if err != nil {
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: err.Error()})
		return
	}

	// 入力順で返す
	out := make([]dto.SymbolResponse, 0, len(symbols))
	for _, isin := range entity.ExtractIdentifiers(req.Lines) {
		sym, ok := symbols[isin]
		if !ok {
			continue
		}
		out = append(out, dto.SymbolResponse{ISIN: isin, Symbol: sym, Failed: entity.IsErrorSymbol(sym)})
	}

	c.JSON(http.StatusOK, dto.ResolveResponse{Symbols: out, Errors: symbols.Errors()})
}

// Cache は永続キャッシュの内容をシンボル順で返します。
//
// エンドポイント例:
// GET /api/v1/cache
func (h *ResolveHandler) Cache(c *gin.Context) {
	entries := h.cache.Read(c.Request.Context()).Entries()
	out := make([]dto.CacheEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, dto.CacheEntryResponse{ISIN: e.ISIN, Symbol: e.Symbol})
	}
	c.JSON(http.StatusOK, out)
}
