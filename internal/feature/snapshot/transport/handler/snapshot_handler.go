// Package handler はsnapshotフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/gin-gonic/gin"

	"fintools/internal/feature/snapshot/domain/entity"
	"fintools/internal/feature/snapshot/transport/http/dto"
	"fintools/internal/feature/snapshot/usecase"
)

// ExportUsecase はシンボル一覧エクスポートのユースケースインターフェースです。
type ExportUsecase interface {
	Export(ctx context.Context, lines []string, dir string) (*usecase.ExportResult, error)
}

// CompareUsecase はスナップショット比較のユースケースインターフェースです。
type CompareUsecase interface {
	Compare(ctx context.Context, files []string) (*entity.DiffReport, error)
	CompareLatest(ctx context.Context) (*entity.DiffReport, error)
}

// Catalog はスナップショット一覧のインターフェースです。
type Catalog interface {
	List(ctx context.Context, kind entity.Kind, limit int) ([]entity.Snapshot, error)
}

// SnapshotHandler はスナップショットのHTTPリクエストを処理します。
// ファイルはすべて出力ディレクトリ内のベース名で指定します。
type SnapshotHandler struct {
	export  ExportUsecase
	compare CompareUsecase
	catalog Catalog
	dir     string
}

// NewSnapshotHandler は SnapshotHandler を生成します。dir はシンボル一覧の出力ディレクトリです。
func NewSnapshotHandler(export ExportUsecase, compare CompareUsecase, catalog Catalog, dir string) *SnapshotHandler {
	return &SnapshotHandler{export: export, compare: compare, catalog: catalog, dir: dir}
}

// Export は入力行を解決してシンボル一覧ファイルを書き出します。
//
// エンドポイント例:
// POST /api/v1/exports {"lines":["US0378331005;Apple"]}
func (h *SnapshotHandler) Export(c *gin.Context) {
	var req dto.ExportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	res, err := h.export.Export(c.Request.Context(), req.Lines, "")
	if err != nil {
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: err.Error()})
		return
	}

	out := dto.ExportResponse{Resolved: len(res.Symbols), Errors: res.Symbols.Errors()}
	if res.Snapshot != nil {
		s := toSnapshotResponse(*res.Snapshot)
		out.Snapshot = &s
	}
	c.JSON(http.StatusCreated, out)
}

// Compare は2つのシンボル一覧を比較して差分レポートを書き出します。
//
// エンドポイント例:
// POST /api/v1/compare {"files":["stocks20240101000000.txt","stocks20240201000000.txt"]}
func (h *SnapshotHandler) Compare(c *gin.Context) {
	var req dto.CompareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	// 出力ディレクトリ外のパスは受け付けない
	files := make([]string, 0, len(req.Files))
	for _, f := range req.Files {
		files = append(files, filepath.Join(h.dir, filepath.Base(f)))
	}

	report, err := h.compare.Compare(c.Request.Context(), files)
	h.writeReport(c, report, err)
}

// CompareLatest は最新2件のシンボル一覧を比較します。
//
// エンドポイント例:
// POST /api/v1/compare/latest
func (h *SnapshotHandler) CompareLatest(c *gin.Context) {
	report, err := h.compare.CompareLatest(c.Request.Context())
	h.writeReport(c, report, err)
}

// List は書き出し済みファイルを新しい順に返します。
//
// エンドポイント例:
// GET /api/v1/snapshots?kind=stocklist&limit=20
func (h *SnapshotHandler) List(c *gin.Context) {
	kind := entity.Kind(c.DefaultQuery("kind", string(entity.KindStocklist)))
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil || limit < 0 {
		limit = 50
	}

	snaps, err := h.catalog.List(c.Request.Context(), kind, limit)
	if err != nil {
		c.JSON(statusFor(err), dto.ErrorResponse{Error: err.Error()})
		return
	}

	out := make([]dto.SnapshotResponse, 0, len(snaps))
	for _, s := range snaps {
		out = append(out, toSnapshotResponse(s))
	}
	c.JSON(http.StatusOK, out)
}

func (h *SnapshotHandler) writeReport(c *gin.Context, report *entity.DiffReport, err error) {
	if err != nil {
		c.JSON(statusFor(err), dto.ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, dto.DiffResponse{
		Newer:  report.Newer.Name,
		Older:  report.Older.Name,
		New:    report.New,
		Gone:   report.Gone,
		Report: filepath.Base(report.Path),
	})
}

// statusFor はユースケースのエラーをHTTPステータスに変換します。
func statusFor(err error) int {
	switch {
	case errors.Is(err, usecase.ErrInvalidArgument), errors.Is(err, usecase.ErrInvalidSnapshotName):
		return http.StatusBadRequest
	case errors.Is(err, usecase.ErrNotEnoughSnapshots):
		return http.StatusConflict
	case errors.Is(err, os.ErrNotExist):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func toSnapshotResponse(s entity.Snapshot) dto.SnapshotResponse {
	return dto.SnapshotResponse{
		Kind:      string(s.Kind),
		Name:      s.Name,
		Timestamp: s.Timestamp,
		Lines:     s.Lines,
	}
}
