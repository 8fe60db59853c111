package repos

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/scholargraph/scholargraph-backend/internal/platform/logger"
	"github.com/scholargraph/scholargraph-backend/internal/types"
)

type PaperRepo interface {
	Upsert(ctx context.Context, tx *gorm.DB, paper *types.Paper) error
	List(ctx context.Context, tx *gorm.DB) ([]*types.Paper, error)
	GetByID(ctx context.Context, tx *gorm.DB, paperID string) (*types.Paper, error)
	Count(ctx context.Context, tx *gorm.DB) (int64, error)
}

type paperRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPaperRepo(db *gorm.DB, baseLog *logger.Logger) PaperRepo {
	return &paperRepo{db: db, log: baseLog.With("repo", "PaperRepo")}
}

// Upsert creates the catalog row or overwrites it when the paper is
// re-ingested under the same id.
func (pr *paperRepo) Upsert(ctx context.Context, tx *gorm.DB, paper *types.Paper) error {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}
	return transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "paper_id"}},
			UpdateAll: true,
		}).
		Create(paper).Error
}

func (pr *paperRepo) List(ctx context.Context, tx *gorm.DB) ([]*types.Paper, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}
	var results []*types.Paper
	if err := transaction.WithContext(ctx).
		Order("upload_date DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (pr *paperRepo) GetByID(ctx context.Context, tx *gorm.DB, paperID string) (*types.Paper, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}
	var result types.Paper
	if err := transaction.WithContext(ctx).
		Where("paper_id = ?", paperID).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (pr *paperRepo) Count(ctx context.Context, tx *gorm.DB) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}
	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.Paper{}).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
