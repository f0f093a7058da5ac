package dto

// ResolveRequest は変換対象の入力行です。各行の先頭フィールドがISINとして扱われます。
type ResolveRequest struct {
	Lines []string `json:"lines" binding:"required"`
}

// SymbolResponse は1件の変換結果です。
type SymbolResponse struct {
	ISIN   string `json:"isin"`
	Symbol string `json:"symbol"`
	Failed bool   `json:"failed"` // 解決できなかった場合 true
}

// ResolveResponse は変換結果の一覧です。
type ResolveResponse struct {
	Symbols []SymbolResponse `json:"symbols"`
	Errors  int              `json:"errors"`
}

// CacheEntryResponse は永続キャッシュの1件です。
type CacheEntryResponse struct {
	ISIN   string `json:"isin"`
	Symbol string `json:"symbol"`
}

// ErrorResponse はエラーレスポンスです。
type ErrorResponse struct {
	Error string `json:"error"`
}
