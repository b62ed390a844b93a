package repositories

import (
	"context"

	"github.com/MuhamadAgungGumelar/receipt-loyalty-be/internal/modules/loyalty/models"
	"gorm.io/gorm"
)

type TicketRepo interface {
	Create(ctx context.Context, ticket *models.Ticket) error
	GetByTransaction(ctx context.Context, transactionID int64) (*models.Ticket, error)
}

type ticketRepo struct {
	db *gorm.DB
}

func NewTicketRepo(db *gorm.DB) TicketRepo {
	return &ticketRepo{db: db}
}

func (r *ticketRepo) Create(ctx context.Context, ticket *models.Ticket) error {
	return r.db.WithContext(ctx).Create(ticket).Error
}

func (r *ticketRepo) GetByTransaction(ctx context.Context, transactionID int64) (*models.Ticket, error) {
	var ticket models.Ticket
	if err := r.db.WithContext(ctx).Where("transaction_id = ?", transactionID).First(&ticket).Error; err != nil {
		return nil, notFound(err)
	}
	return &ticket, nil
}
