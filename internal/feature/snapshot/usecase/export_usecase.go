package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	convent "fintools/internal/feature/conversion/domain/entity"
	"fintools/internal/feature/snapshot/domain/entity"
	"fintools/internal/shared/timestamp"
)

// Resolver は入力行をシンボルに解決します。
type Resolver interface {
	Resolve(ctx context.Context, lines []string) (convent.SymbolMap, error)
}

// ExportResult はエクスポート1回分の結果です。
type ExportResult struct {
	Symbols  convent.SymbolMap
	Snapshot *entity.Snapshot // 何も解決できなかった場合は nil
}

// ExportUsecase は入力行を解決してシンボル一覧ファイルを書き出します。
type ExportUsecase struct {
	resolver Resolver
	catalog  *Catalog
	dir      string
	naming   entity.Naming
	now      timestamp.Clock
	logger   *slog.Logger
}

// NewExportUsecase は ExportUsecase を生成します。catalog は nil でもかまいません。
func NewExportUsecase(resolver Resolver, catalog *Catalog, dir string, naming entity.Naming, now timestamp.Clock, logger *slog.Logger) *ExportUsecase {
	if now == nil {
		now = timestamp.Now
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ExportUsecase{
		resolver: resolver,
		catalog:  catalog,
		dir:      dir,
		naming:   naming,
		now:      now,
		logger:   logger,
	}
}

// Export は lines を解決し、有効な識別子ごとに入力順でシンボルを1行ずつ書き出します。
// dir が空の場合は既定の出力ディレクトリを使います。
// キャッシュの永続化に失敗した場合も、ファイルを書き出したうえでそのエラーを返します。
func (u *ExportUsecase) Export(ctx context.Context, lines []string, dir string) (*ExportResult, error) {
	symbols, resolveErr := u.resolver.Resolve(ctx, lines)
	if symbols == nil {
		return nil, resolveErr
	}
	res := &ExportResult{Symbols: symbols}

	out := make([]string, 0, len(lines))
	for _, line := range lines {
		isin, ok := convent.ExtractIdentifier(line)
		if !ok {
			continue
		}
		if sym, ok := symbols[isin]; ok {
			out = append(out, sym)
		}
	}
	if len(out) == 0 {
		u.logger.Info("nothing resolved, export skipped")
		return res, resolveErr
	}

	if dir == "" {
		dir = u.dir
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	ts := timestamp.Format(u.now())
	name := u.naming.FileName(ts)
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(strings.Join(out, "\n")+"\n"), 0o644); err != nil {
		return nil, fmt.Errorf("write snapshot: %w", err)
	}

	snap := entity.Snapshot{
		Kind:      entity.KindStocklist,
		Name:      name,
		Path:      path,
		Timestamp: ts,
		Lines:     len(out),
		CreatedAt: u.now(),
	}
	u.catalog.record(ctx, snap)
	res.Snapshot = &snap

	u.logger.Info("snapshot exported", "path", path, "lines", len(out), "errors", symbols.Errors())
	return res, resolveErr
}
