package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/samber/lo"
	"github.com/samber/mo"

	"github.com/MuhamadAgungGumelar/receipt-loyalty-be/internal/modules/loyalty/models"
	"github.com/MuhamadAgungGumelar/receipt-loyalty-be/internal/modules/loyalty/repositories"
)

// TransactionDetail is a recorded receipt as shown back to the client
type TransactionDetail struct {
	Transaction *models.Transaction
	Store       *models.Store
	Ticket      mo.Option[models.Ticket]
	Products    map[int64]models.Product // keyed by line product id
}

// ClientTransactions lists the client's transactions, most recent first.
func (r *Reconciler) ClientTransactions(ctx context.Context, clientID int64) ([]models.Transaction, error) {
	txns, err := repositories.NewTransactionRepo(r.db).ListByClient(ctx, clientID)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	return txns, nil
}

// PointsHistory lists the movements on the client's active card, oldest
// first. A client without a card has no history.
func (r *Reconciler) PointsHistory(ctx context.Context, clientID int64) ([]models.PointsHistory, error) {
	repos := repositories.New(r.db)

	card, err := repos.Cards.GetActiveByClient(ctx, clientID)
	if errors.Is(err, repositories.ErrNotFound) {
		return []models.PointsHistory{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load card: %w", err)
	}

	entries, err := repos.Points.ListByCard(ctx, card.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list points history: %w", err)
	}
	return entries, nil
}

// TransactionDetail loads a transaction with its store, its ticket and the
// products on its lines.
func (r *Reconciler) TransactionDetail(ctx context.Context, id int64) (*TransactionDetail, error) {
	repos := repositories.New(r.db)

	txn, err := repos.Transactions.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load transaction %d: %w", id, err)
	}

	store, err := repos.Stores.GetByID(ctx, txn.StoreID)
	if err != nil {
		return nil, fmt.Errorf("failed to load store %d: %w", txn.StoreID, err)
	}

	detail := &TransactionDetail{
		Transaction: txn,
		Store:       store,
		Ticket:      mo.None[models.Ticket](),
		Products:    make(map[int64]models.Product),
	}

	ticket, err := repos.Tickets.GetByTransaction(ctx, id)
	switch {
	case err == nil:
		detail.Ticket = mo.Some(*ticket)
	case !errors.Is(err, repositories.ErrNotFound):
		return nil, fmt.Errorf("failed to load ticket: %w", err)
	}

	for _, productID := range lo.Uniq(lo.Map(txn.Lines, func(l models.TransactionLine, _ int) int64 { return l.ProductID })) {
		product, err := repos.Products.GetByID(ctx, productID)
		if err != nil {
			return nil, fmt.Errorf("failed to load product %d: %w", productID, err)
		}
		detail.Products[productID] = *product
	}

	return detail, nil
}
