package repositories

import (
	"context"
	"strings"

	"github.com/MuhamadAgungGumelar/receipt-loyalty-be/internal/modules/loyalty/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type StoreRepo interface {
	GetByID(ctx context.Context, id int64) (*models.Store, error)
	GetByKey(ctx context.Context, key string) (*models.Store, error)
	CreateIfAbsent(ctx context.Context, store *models.Store) error
	SearchByName(ctx context.Context, fragment string, limit int) ([]models.Store, error)
}

type storeRepo struct {
	db *gorm.DB
}

func NewStoreRepo(db *gorm.DB) StoreRepo {
	return &storeRepo{db: db}
}

func (r *storeRepo) GetByID(ctx context.Context, id int64) (*models.Store, error) {
	var store models.Store
	if err := r.db.WithContext(ctx).First(&store, "magasin_id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &store, nil
}

func (r *storeRepo) GetByKey(ctx context.Context, key string) (*models.Store, error) {
	var store models.Store
	if err := r.db.WithContext(ctx).Where("cle_dedup = ?", key).First(&store).Error; err != nil {
		return nil, notFound(err)
	}
	return &store, nil
}

// CreateIfAbsent inserts store unless its dedup key is already taken.
// store.ID stays zero when the row already existed.
func (r *storeRepo) CreateIfAbsent(ctx context.Context, store *models.Store) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "cle_dedup"}}, DoNothing: true}).
		Create(store).Error
}

// SearchByName returns stores whose name contains fragment, case-insensitive.
func (r *storeRepo) SearchByName(ctx context.Context, fragment string, limit int) ([]models.Store, error) {
	fragment = strings.ToLower(strings.TrimSpace(fragment))
	if fragment == "" {
		return nil, nil
	}

	var stores []models.Store
	query := r.db.WithContext(ctx).
		Where("LOWER(nom) LIKE ?", "%"+fragment+"%").
		Order("magasin_id")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&stores).Error; err != nil {
		return nil, err
	}
	return stores, nil
}
