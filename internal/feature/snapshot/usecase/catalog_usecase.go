package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"fintools/internal/feature/snapshot/domain/entity"
)

// SnapshotIndex は書き出したファイルの索引です。
type SnapshotIndex interface {
	Record(ctx context.Context, s entity.Snapshot) error
	// Latest は kind のスナップショットを新しい順に最大 limit 件返します。limit <= 0 は全件。
	Latest(ctx context.Context, kind entity.Kind, limit int) ([]entity.Snapshot, error)
}

// Catalog はスナップショットの一覧を提供します。
// index が nil の場合はディレクトリを走査します。
type Catalog struct {
	index  SnapshotIndex
	dirs   map[entity.Kind]string
	naming map[entity.Kind]entity.Naming
	logger *slog.Logger
}

// NewCatalog は Catalog を生成します。
func NewCatalog(index SnapshotIndex, stocklistDir string, stocklist entity.Naming, diffDir string, diff entity.Naming, logger *slog.Logger) *Catalog {
	if logger == nil {
		logger = slog.Default()
	}
	return &Catalog{
		index:  index,
		dirs:   map[entity.Kind]string{entity.KindStocklist: stocklistDir, entity.KindDiff: diffDir},
		naming: map[entity.Kind]entity.Naming{entity.KindStocklist: stocklist, entity.KindDiff: diff},
		logger: logger,
	}
}

// List は kind のスナップショットを新しい順に返します。
func (c *Catalog) List(ctx context.Context, kind entity.Kind, limit int) ([]entity.Snapshot, error) {
	if _, ok := c.dirs[kind]; !ok {
		return nil, fmt.Errorf("%w: unknown kind %q", ErrInvalidArgument, kind)
	}
	if c.index != nil {
		return c.index.Latest(ctx, kind, limit)
	}
	out, err := ScanDir(c.dirs[kind], kind, c.naming[kind])
	if err != nil {
		return nil, err
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// record はインデックスへの登録を試みます。失敗は警告のみ。
func (c *Catalog) record(ctx context.Context, s entity.Snapshot) {
	if c == nil || c.index == nil {
		return
	}
	if err := c.index.Record(ctx, s); err != nil {
		c.logger.Warn("failed to record snapshot", "path", s.Path, "error", err)
	}
}

// ScanDir は dir 内で naming に一致するファイルを新しい順に返します。
func ScanDir(dir string, kind entity.Kind, naming entity.Naming) ([]entity.Snapshot, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []entity.Snapshot{}, nil
		}
		return nil, fmt.Errorf("scan %s: %w", dir, err)
	}

	out := make([]entity.Snapshot, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if !strings.HasSuffix(name, naming.Suffix) {
			continue
		}
		ts, ok := naming.Timestamp(name)
		if !ok {
			continue
		}
		s := entity.Snapshot{Kind: kind, Name: name, Path: filepath.Join(dir, name), Timestamp: ts}
		if info, err := e.Info(); err == nil {
			s.CreatedAt = info.ModTime()
		}
		out = append(out, s)
	}

	slices.SortFunc(out, func(a, b entity.Snapshot) int {
		switch {
		case entity.Newer(a, b):
			return -1
		case entity.Newer(b, a):
			return 1
		}
		return 0
	})
	return out, nil
}
