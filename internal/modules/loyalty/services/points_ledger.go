package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MuhamadAgungGumelar/receipt-loyalty-be/internal/modules/loyalty/models"
	"github.com/MuhamadAgungGumelar/receipt-loyalty-be/internal/modules/loyalty/repositories"
	"github.com/rs/zerolog/log"
)

var (
	ErrInsufficientPoints = errors.New("insufficient points")
	ErrInvalidPoints      = errors.New("points must be positive")
)

const cardValidity = 2 * 365 * 24 * time.Hour

// PointsLedger moves points on a client's active card and records every
// movement in the points history. Balances accumulate: each entry starts
// from the card's real balance.
type PointsLedger struct {
	cards   repositories.CardRepo
	history repositories.PointsRepo
	ph      Placeholders
	now     func() time.Time
	tier    string
}

// NewPointsLedger builds a ledger issuing cards at tier, normalized onto the
// allowed tiers.
func NewPointsLedger(cards repositories.CardRepo, history repositories.PointsRepo, ph Placeholders, now func() time.Time, tier string) *PointsLedger {
	if now == nil {
		now = time.Now
	}
	return &PointsLedger{cards: cards, history: history, ph: ph, now: now, tier: models.NormalizeTier(tier)}
}

// EnsureCard returns the client's active card, issuing one when none exists.
func (l *PointsLedger) EnsureCard(ctx context.Context, clientID int64) (*models.LoyaltyCard, error) {
	card, err := l.cards.GetActiveByClient(ctx, clientID)
	if err == nil {
		return card, nil
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		return nil, fmt.Errorf("failed to load card: %w", err)
	}
	return l.IssueCard(ctx, clientID)
}

// IssueCard creates a fresh card at the ledger's tier with an empty balance.
func (l *PointsLedger) IssueCard(ctx context.Context, clientID int64) (*models.LoyaltyCard, error) {
	now := l.now()
	expires := now.Add(cardValidity)
	card := &models.LoyaltyCard{
		ClientID:  clientID,
		Number:    fmt.Sprintf("CARD-%05d-%d", l.ph.CardSuffix(), clientID),
		IssuedAt:  now,
		ExpiresAt: &expires,
		Status:    models.CardActive,
		Tier:      l.tier,
	}
	if err := l.cards.Create(ctx, card); err != nil {
		return nil, fmt.Errorf("failed to issue card: %w", err)
	}

	log.Info().Int64("client_id", clientID).Str("card", card.Number).Msg("🎫 Loyalty card issued")
	return card, nil
}

// Gain credits points earned by a transaction. Every transaction gets a
// history entry, a zero-point one included.
func (l *PointsLedger) Gain(ctx context.Context, clientID, transactionID, points int64) (*models.PointsHistory, error) {
	if points < 0 {
		return nil, ErrInvalidPoints
	}

	card, err := l.EnsureCard(ctx, clientID)
	if err != nil {
		return nil, err
	}

	txnID := transactionID
	return l.move(ctx, card, models.OperationGain, points, &txnID,
		fmt.Sprintf("Points earned on transaction #%d", transactionID))
}

// Redeem spends points from the client's active card.
func (l *PointsLedger) Redeem(ctx context.Context, clientID, points int64, description string) (*models.PointsHistory, error) {
	if points <= 0 {
		return nil, ErrInvalidPoints
	}

	card, err := l.cards.GetActiveByClient(ctx, clientID)
	if err != nil {
		return nil, fmt.Errorf("failed to load card: %w", err)
	}
	if card.Points < points {
		return nil, fmt.Errorf("%w: balance %d, requested %d", ErrInsufficientPoints, card.Points, points)
	}

	if description == "" {
		description = "Points redeemed"
	}
	return l.move(ctx, card, models.OperationUse, points, nil, description)
}

// Balance is the active card balance, 0 when the client has no card.
func (l *PointsLedger) Balance(ctx context.Context, clientID int64) (int64, error) {
	card, err := l.cards.GetActiveByClient(ctx, clientID)
	if errors.Is(err, repositories.ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to load card: %w", err)
	}
	return card.Points, nil
}

func (l *PointsLedger) move(ctx context.Context, card *models.LoyaltyCard, op string, points int64, transactionID *int64, description string) (*models.PointsHistory, error) {
	delta := points
	if op == models.OperationUse {
		delta = -points
	}

	updated, err := l.cards.AddPoints(ctx, card.ID, delta)
	if err != nil {
		return nil, fmt.Errorf("failed to update balance: %w", err)
	}

	entry := &models.PointsHistory{
		ClientID:      card.ClientID,
		CardID:        card.ID,
		TransactionID: transactionID,
		Date:          l.now(),
		Operation:     op,
		Points:        points,
		Description:   description,
		BalanceBefore: updated.Points - delta,
		BalanceAfter:  updated.Points,
	}
	if err := l.history.Append(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to record points history: %w", err)
	}
	return entry, nil
}
