package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"fintools/internal/feature/snapshot/domain/entity"
	"fintools/internal/shared/timestamp"
)

// CompareUsecase は2つのシンボル一覧を比較し、差分レポートを書き出します。
type CompareUsecase struct {
	catalog   *Catalog
	stocklist entity.Naming
	diff      entity.Naming
	diffDir   string
	now       timestamp.Clock
	logger    *slog.Logger
}

// NewCompareUsecase は CompareUsecase を生成します。
// catalog が nil の場合、レポートは索引に登録されず CompareLatest は使用できません。
func NewCompareUsecase(catalog *Catalog, stocklist entity.Naming, diff entity.Naming, diffDir string, now timestamp.Clock, logger *slog.Logger) *CompareUsecase {
	if now == nil {
		now = timestamp.Now
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &CompareUsecase{
		catalog:   catalog,
		stocklist: stocklist,
		diff:      diff,
		diffDir:   diffDir,
		now:       now,
		logger:    logger,
	}
}

// Compare は files の2ファイルを比較します。引数の順序は結果に影響しません。
func (u *CompareUsecase) Compare(ctx context.Context, files []string) (*entity.DiffReport, error) {
	if len(files) != 2 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidArgument, len(files))
	}

	snaps := make([]entity.Snapshot, 2)
	for i, f := range files {
		ts, ok := u.stocklist.Timestamp(f)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrInvalidSnapshotName, filepath.Base(f))
		}
		snaps[i] = entity.Snapshot{Kind: entity.KindStocklist, Name: filepath.Base(f), Path: f, Timestamp: ts}
	}
	newer, older := snaps[0], snaps[1]
	if entity.Newer(older, newer) {
		newer, older = older, newer
	}

	newerLines, err := os.ReadFile(newer.Path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	olderLines, err := os.ReadFile(older.Path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	report := &entity.DiffReport{Newer: newer, Older: older}
	report.New, report.Gone = entity.Diff(entity.LineSet(newerLines), entity.LineSet(olderLines))

	if err := os.MkdirAll(u.diffDir, 0o755); err != nil {
		return nil, fmt.Errorf("create diff dir: %w", err)
	}
	ts := timestamp.Format(u.now())
	name := u.diff.FileName(ts)
	report.Path = filepath.Join(u.diffDir, name)
	if err := os.WriteFile(report.Path, report.Render(), 0o644); err != nil {
		return nil, fmt.Errorf("write diff report: %w", err)
	}

	u.catalog.record(ctx, entity.Snapshot{
		Kind:      entity.KindDiff,
		Name:      name,
		Path:      report.Path,
		Timestamp: ts,
		Lines:     report.Lines(),
		CreatedAt: u.now(),
	})

	u.logger.Info("snapshots compared",
		"newer", newer.Name, "older", older.Name,
		"new", len(report.New), "gone", len(report.Gone), "report", report.Path)
	return report, nil
}

// CompareLatest は最新2件のシンボル一覧を比較します。
func (u *CompareUsecase) CompareLatest(ctx context.Context) (*entity.DiffReport, error) {
	if u.catalog == nil {
		return nil, ErrNotEnoughSnapshots
	}
	snaps, err := u.catalog.List(ctx, entity.KindStocklist, 2)
	if err != nil {
		return nil, err
	}
	if len(snaps) < 2 {
		return nil, ErrNotEnoughSnapshots
	}
	return u.Compare(ctx, []string{snaps[0].Path, snaps[1].Path})
}
