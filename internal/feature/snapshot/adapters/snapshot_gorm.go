// Package adapters はsnapshotフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"fintools/internal/feature/snapshot/domain/entity"
	"fintools/internal/feature/snapshot/usecase"
)

type snapshotGorm struct {
	db *gorm.DB
}

var _ usecase.SnapshotIndex = (*snapshotGorm)(nil)

// NewSnapshotRepository は指定されたDB接続でスナップショットインデックスを生成します。
func NewSnapshotRepository(db *gorm.DB) *snapshotGorm {
	return &snapshotGorm{db: db}
}

// SnapshotModel は snapshots テーブルの行です。
type SnapshotModel struct {
	ID        uint      `gorm:"primaryKey"`
	Kind      string    `gorm:"size:16;not null;index:snapshot_kind_ts,priority:1"`
	Timestamp string    `gorm:"size:32;not null;index:snapshot_kind_ts,priority:2"`
	Name      string    `gorm:"size:255;not null"`
	Path      string    `gorm:"size:1024;not null;uniqueIndex"`
	Lines     int       `gorm:"not null;default:0"`
	CreatedAt time.Time `gorm:"not null"`
}

func (SnapshotModel) TableName() string {
	return "snapshots"
}

func toModel(e entity.Snapshot) SnapshotModel {
	return SnapshotModel{
		Kind:      string(e.Kind),
		Timestamp: e.Timestamp,
		Name:      e.Name,
		Path:      e.Path,
		Lines:     e.Lines,
		CreatedAt: e.CreatedAt,
	}
}

func toEntity(m SnapshotModel) entity.Snapshot {
	return entity.Snapshot{
		Kind:      entity.Kind(m.Kind),
		Timestamp: m.Timestamp,
		Name:      m.Name,
		Path:      m.Path,
		Lines:     m.Lines,
		CreatedAt: m.CreatedAt,
	}
}

// Record はスナップショットを登録します。同じパスの行は上書きします。
func (r *snapshotGorm) Record(ctx context.Context, s entity.Snapshot) error {
	m := toModel(s)
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now()
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "path"}},
			DoUpdates: clause.AssignmentColumns([]string{"kind", "timestamp", "name", "lines", "created_at"}),
		}).
		Create(&m).Error
}

// Latest は kind のスナップショットを新しい順に返します。
func (r *snapshotGorm) Latest(ctx context.Context, kind entity.Kind, limit int) ([]entity.Snapshot, error) {
	var ms []SnapshotModel
	q := r.db.WithContext(ctx).
		Where("kind = ?", string(kind)).
		Order("LENGTH(timestamp) DESC").
		Order("timestamp DESC").
		Order("name DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&ms).Error; err != nil {
		return nil, err
	}

	out := make([]entity.Snapshot, 0, len(ms))
	for _, m := range ms {
		out = append(out, toEntity(m))
	}
	return out, nil
}
