package repositories

import (
	"context"

	"github.com/MuhamadAgungGumelar/receipt-loyalty-be/internal/modules/loyalty/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProductRepo interface {
	GetByID(ctx context.Context, id int64) (*models.Product, error)
	GetByKey(ctx context.Context, key string) (*models.Product, error)
	CreateIfAbsent(ctx context.Context, product *models.Product) error
}

type productRepo struct {
	db *gorm.DB
}

func NewProductRepo(db *gorm.DB) ProductRepo {
	return &productRepo{db: db}
}

func (r *productRepo) GetByID(ctx context.Context, id int64) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "produit_id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &product, nil
}

func (r *productRepo) GetByKey(ctx context.Context, key string) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).Where("cle_dedup = ?", key).First(&product).Error; err != nil {
		return nil, notFound(err)
	}
	return &product, nil
}

func (r *productRepo) CreateIfAbsent(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "cle_dedup"}}, DoNothing: true}).
		Create(product).Error
}

type CategoryRepo interface {
	Create(ctx context.Context, category *models.Category) error
	First(ctx context.Context) (*models.Category, error)
}

type categoryRepo struct {
	db *gorm.DB
}

func NewCategoryRepo(db *gorm.DB) CategoryRepo {
	return &categoryRepo{db: db}
}

func (r *categoryRepo) Create(ctx context.Context, category *models.Category) error {
	return r.db.WithContext(ctx).Create(category).Error
}

// First returns the category with the lowest id.
func (r *categoryRepo) First(ctx context.Context) (*models.Category, error) {
	var category models.Category
	if err := r.db.WithContext(ctx).Order("categorie_id").First(&category).Error; err != nil {
		return nil, notFound(err)
	}
	return &category, nil
}
