package repositories

import (
	"context"
	"fmt"

	"github.com/MuhamadAgungGumelar/receipt-loyalty-be/internal/modules/loyalty/models"
	"gorm.io/gorm"
)

type CardRepo interface {
	Create(ctx context.Context, card *models.LoyaltyCard) error
	GetActiveByClient(ctx context.Context, clientID int64) (*models.LoyaltyCard, error)
	AddPoints(ctx context.Context, cardID, delta int64) (*models.LoyaltyCard, error)
}

type cardRepo struct {
	db *gorm.DB
}

func NewCardRepo(db *gorm.DB) CardRepo {
	return &cardRepo{db: db}
}

func (r *cardRepo) Create(ctx context.Context, card *models.LoyaltyCard) error {
	return r.db.WithContext(ctx).Create(card).Error
}

// GetActiveByClient returns the oldest active card of the client.
func (r *cardRepo) GetActiveByClient(ctx context.Context, clientID int64) (*models.LoyaltyCard, error) {
	var card models.LoyaltyCard
	err := r.db.WithContext(ctx).
		Where("client_id = ? AND statut = ?", clientID, models.CardActive).
		Order("carte_id").
		First(&card).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &card, nil
}

// AddPoints shifts the card balance by delta in one statement and returns
// the updated card. The points_actuels CHECK rejects a negative result.
func (r *cardRepo) AddPoints(ctx context.Context, cardID, delta int64) (*models.LoyaltyCard, error) {
	db := r.db.WithContext(ctx)
	result := db.Model(&models.LoyaltyCard{}).
		Where("carte_id = ?", cardID).
		Update("points_actuels", gorm.Expr("points_actuels + ?", delta))
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, fmt.Errorf("card %d: %w", cardID, ErrNotFound)
	}

	var card models.LoyaltyCard
	if err := db.First(&card, "carte_id = ?", cardID).Error; err != nil {
		return nil, notFound(err)
	}
	return &card, nil
}
