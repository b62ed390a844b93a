package repositories

import (
	"context"

	"github.com/MuhamadAgungGumelar/receipt-loyalty-be/internal/modules/loyalty/models"
	"gorm.io/gorm"
)

type TransactionRepo interface {
	Create(ctx context.Context, txn *models.Transaction) error
	CreateLines(ctx context.Context, lines []models.TransactionLine) error
	GetByID(ctx context.Context, id int64) (*models.Transaction, error)
	ListByClient(ctx context.Context, clientID int64) ([]models.Transaction, error)
}

type transactionRepo struct {
	db *gorm.DB
}

func NewTransactionRepo(db *gorm.DB) TransactionRepo {
	return &transactionRepo{db: db}
}

// Create inserts the transaction row only; lines go through CreateLines.
func (r *transactionRepo) Create(ctx context.Context, txn *models.Transaction) error {
	return r.db.WithContext(ctx).Omit("Lines").Create(txn).Error
}

func (r *transactionRepo) CreateLines(ctx context.Context, lines []models.TransactionLine) error {
	if len(lines) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&lines).Error
}

// GetByID loads a transaction with its lines
func (r *transactionRepo) GetByID(ctx context.Context, id int64) (*models.Transaction, error) {
	var txn models.Transaction
	err := r.db.WithContext(ctx).
		Preload("Lines", func(db *gorm.DB) *gorm.DB { return db.Order("detail_id") }).
		First(&txn, "transaction_id = ?", id).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &txn, nil
}

func (r *transactionRepo) ListByClient(ctx context.Context, clientID int64) ([]models.Transaction, error) {
	var txns []models.Transaction
	err := r.db.WithContext(ctx).
		Where("client_id = ?", clientID).
		Order("date_transaction DESC, transaction_id DESC").
		Find(&txns).Error
	if err != nil {
		return nil, err
	}
	return txns, nil
}
