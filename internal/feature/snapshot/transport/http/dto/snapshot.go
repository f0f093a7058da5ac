package dto

// ExportRequest はエクスポート対象の入力行です。
type ExportRequest struct {
	Lines []string `json:"lines" binding:"required"`
}

// ExportResponse はエクスポート結果です。Snapshot は何も解決できなかった場合 null です。
type ExportResponse struct {
	Resolved int               `json:"resolved"`
	Errors   int               `json:"errors"`
	Snapshot *SnapshotResponse `json:"snapshot"`
}

// CompareRequest は比較する2つのスナップショットファイル名です。
type CompareRequest struct {
	Files []string `json:"files" binding:"required"`
}

// DiffResponse は差分レポートです。
type DiffResponse struct {
	Newer  string   `json:"newer"`
	Older  string   `json:"older"`
	New    []string `json:"new"`
	Gone   []string `json:"gone"`
	Report string   `json:"report"` // 書き出したレポートのファイル名
}

// SnapshotResponse は書き出し済みファイル1件です。
type SnapshotResponse struct {
	Kind      string `json:"kind"`
	Name      string `json:"name"`
	Timestamp string `json:"timestamp"`
	Lines     int    `json:"lines"`
}

// ErrorResponse はエラーレスポンスです。
type ErrorResponse struct {
	Error string `json:"error"`
}
