package repositories

import (
	"errors"

	"gorm.io/gorm"
)

// ErrNotFound is returned by lookups that match no row
var ErrNotFound = errors.New("record not found")

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

// Repositories bundles every loyalty repository over one handle, typically
// the *gorm.DB of a running transaction.
type Repositories struct {
	Stores       StoreRepo
	Clients      ClientRepo
	Cards        CardRepo
	Categories   CategoryRepo
	Products     ProductRepo
	Transactions TransactionRepo
	Tickets      TicketRepo
	Points       PointsRepo
}

func New(db *gorm.DB) *Repositories {
	return &Repositories{
		Stores:       NewStoreRepo(db),
		Clients:      NewClientRepo(db),
		Cards:        NewCardRepo(db),
		Categories:   NewCategoryRepo(db),
		Products:     NewProductRepo(db),
		Transactions: NewTransactionRepo(db),
		Tickets:      NewTicketRepo(db),
		Points:       NewPointsRepo(db),
	}
}
