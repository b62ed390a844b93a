package repositories

import (
	"context"
	"strings"

	"github.com/MuhamadAgungGumelar/receipt-loyalty-be/internal/modules/loyalty/models"
	"gorm.io/gorm"
)

type ClientRepo interface {
	Create(ctx context.Context, client *models.Client) error
	GetByID(ctx context.Context, id int64) (*models.Client, error)
	FindByNameOrEmailDomain(ctx context.Context, name, domain string) (*models.Client, error)
}

type clientRepo struct {
	db *gorm.DB
}

func NewClientRepo(db *gorm.DB) ClientRepo {
	return &clientRepo{db: db}
}

func (r *clientRepo) Create(ctx context.Context, client *models.Client) error {
	return r.db.WithContext(ctx).Create(client).Error
}

func (r *clientRepo) GetByID(ctx context.Context, id int64) (*models.Client, error) {
	var client models.Client
	if err := r.db.WithContext(ctx).First(&client, "client_id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &client, nil
}

// FindByNameOrEmailDomain matches the exact normalized last name or an email
// under domain. Empty terms are ignored; with both empty nothing matches.
func (r *clientRepo) FindByNameOrEmailDomain(ctx context.Context, name, domain string) (*models.Client, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	domain = strings.ToLower(strings.TrimSpace(domain))

	var conds []string
	var args []any
	if name != "" {
		conds = append(conds, "LOWER(TRIM(nom)) = ?")
		args = append(args, name)
	}
	if domain != "" {
		conds = append(conds, "LOWER(email) LIKE ?")
		args = append(args, "%@"+domain)
	}
	if len(conds) == 0 {
		return nil, ErrNotFound
	}

	var client models.Client
	err := r.db.WithContext(ctx).
		Where(strings.Join(conds, " OR "), args...).
		Order("client_id").
		First(&client).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &client, nil
}
