package repositories

import (
	"context"

	"github.com/MuhamadAgungGumelar/receipt-loyalty-be/internal/modules/loyalty/models"
	"gorm.io/gorm"
)

// PointsRepo is append-only: history rows are never updated
type PointsRepo interface {
	Append(ctx context.Context, entry *models.PointsHistory) error
	ListByCard(ctx context.Context, cardID int64) ([]models.PointsHistory, error)
}

type pointsRepo struct {
	db *gorm.DB
}

func NewPointsRepo(db *gorm.DB) PointsRepo {
	return &pointsRepo{db: db}
}

func (r *pointsRepo) Append(ctx context.Context, entry *models.PointsHistory) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *pointsRepo) ListByCard(ctx context.Context, cardID int64) ([]models.PointsHistory, error) {
	var entries []models.PointsHistory
	err := r.db.WithContext(ctx).
		Where("carte_id = ?", cardID).
		Order("historique_id").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}
