package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/MuhamadAgungGumelar/receipt-loyalty-be/internal/modules/loyalty/models"
	"github.com/MuhamadAgungGumelar/receipt-loyalty-be/internal/modules/loyalty/repositories"
	"github.com/rs/zerolog/log"
	"github.com/samber/mo"
)

const (
	placeholderAddress = "1 rue des exemples"
	placeholderCity    = "Paris"
	placeholderPhone   = "0123456789"
	clientSegment      = "standard"
	acquisitionChannel = "ticket_ocr"
)

// ClientResolver decides which client a receipt belongs to
type ClientResolver struct {
	clients           repositories.ClientRepo
	ledger            *PointsLedger
	ph                Placeholders
	now               func() time.Time
	defaultPostalCode string
	defaultCountry    string
}

func NewClientResolver(clients repositories.ClientRepo, ledger *PointsLedger, ph Placeholders, now func() time.Time, defaultPostalCode, defaultCountry string) *ClientResolver {
	if now == nil {
		now = time.Now
	}
	return &ClientResolver{
		clients:           clients,
		ledger:            ledger,
		ph:                ph,
		now:               now,
		defaultPostalCode: defaultPostalCode,
		defaultCountry:    defaultCountry,
	}
}

// Resolve picks, in order: the explicit client when it exists, a client
// matching the vendor name or website domain, or a synthesized client with
// a new loyalty card.
func (r *ClientResolver) Resolve(ctx context.Context, info VendorInfo, explicit mo.Option[int64]) (int64, error) {
	if id, ok := explicit.Get(); ok {
		client, err := r.clients.GetByID(ctx, id)
		switch {
		case err == nil:
			return client.ID, nil
		case errors.Is(err, repositories.ErrNotFound):
			log.Warn().Int64("client_id", id).Msg("⚠️ Explicit client not found, matching instead")
		default:
			return 0, fmt.Errorf("failed to load client %d: %w", id, err)
		}
	}

	client, err := r.clients.FindByNameOrEmailDomain(ctx, info.Name, info.EmailDomain())
	if err == nil {
		return client.ID, nil
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		return 0, fmt.Errorf("failed to match client: %w", err)
	}

	return r.synthesize(ctx)
}

func (r *ClientResolver) synthesize(ctx context.Context) (int64, error) {
	now := r.now()
	person := r.ph.Person(now)
	birth := person.BirthDate

	client := &models.Client{
		LastName:              person.LastName,
		FirstName:             person.FirstName,
		BirthDate:             &birth,
		Gender:                person.Gender,
		Address:               placeholderAddress,
		PostalCode:            r.defaultPostalCode,
		City:                  placeholderCity,
		Country:               r.defaultCountry,
		Phone:                 placeholderPhone,
		Email:                 strings.ToLower(person.FirstName + "." + person.LastName + "@example.com"),
		RegisteredAt:          now,
		MarketingConsent:      false,
		DataProcessingConsent: true,
		ConsentDate:           &now,
		Status:                models.ClientActive,
		Segment:               clientSegment,
		AcquisitionChannel:    acquisitionChannel,
	}
	if err := r.clients.Create(ctx, client); err != nil {
		return 0, fmt.Errorf("failed to create client: %w", err)
	}

	if _, err := r.ledger.IssueCard(ctx, client.ID); err != nil {
		return 0, err
	}

	log.Info().Int64("client_id", client.ID).Msg("👤 Client synthesized from receipt")
	return client.ID, nil
}

// ClientCard is a client with its active card, if any
type ClientCard struct {
	Client *models.Client
	Card   mo.Option[models.LoyaltyCard]
}

// GetWithCard loads a client and its active card.
func (r *ClientResolver) GetWithCard(ctx context.Context, clientID int64) (*ClientCard, error) {
	client, err := r.clients.GetByID(ctx, clientID)
	if err != nil {
		return nil, fmt.Errorf("failed to load client %d: %w", clientID, err)
	}

	view := &ClientCard{Client: client, Card: mo.None[models.LoyaltyCard]()}
	card, err := r.ledger.cards.GetActiveByClient(ctx, clientID)
	switch {
	case err == nil:
		view.Card = mo.Some(*card)
	case !errors.Is(err, repositories.ErrNotFound):
		return nil, fmt.Errorf("failed to load card: %w", err)
	}
	return view, nil
}
