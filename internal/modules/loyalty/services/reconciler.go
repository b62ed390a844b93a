package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MuhamadAgungGumelar/receipt-loyalty-be/internal/core/receipt"
	"github.com/MuhamadAgungGumelar/receipt-loyalty-be/internal/modules/loyalty/models"
	"github.com/MuhamadAgungGumelar/receipt-loyalty-be/internal/modules/loyalty/repositories"
	"github.com/MuhamadAgungGumelar/receipt-loyalty-be/internal/shared/config"
	"github.com/rs/zerolog/log"
	"github.com/samber/mo"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	msgRecorded = "transaction recorded"
	msgFailed   = "receipt reconciliation failed"
)

// Outcome reports how a receipt was reconciled
type Outcome struct {
	Success       bool
	TransactionID mo.Option[int64]
	Message       string
}

// Settings carries the reconciliation knobs
type Settings struct {
	VATRate           decimal.Decimal
	DefaultPostalCode string
	DefaultCountry    string
	DefaultTier       string

	// Now overrides the clock; nil means time.Now
	Now func() time.Time
}

// SettingsFromConfig maps the loaded configuration onto Settings.
func SettingsFromConfig(cfg *config.Config) Settings {
	return Settings{
		VATRate:           cfg.VATRate,
		DefaultPostalCode: cfg.DefaultPostalCode,
		DefaultCountry:    cfg.DefaultCountry,
		DefaultTier:       cfg.DefaultCardTier,
	}
}

// Reconciler turns receipt records into ledger rows. Each receipt runs in
// its own database transaction: either every row lands or none does.
type Reconciler struct {
	db       *gorm.DB
	settings Settings
	ph       Placeholders
}

func NewReconciler(db *gorm.DB, settings Settings, ph Placeholders) *Reconciler {
	if settings.Now == nil {
		settings.Now = time.Now
	}
	return &Reconciler{db: db, settings: settings, ph: ph}
}

// unit wires every service over one transaction handle
type unit struct {
	ledger  *PointsLedger
	stores  *StoreResolver
	clients *ClientResolver
	writer  *TransactionWriter
}

func (r *Reconciler) newUnit(tx *gorm.DB) *unit {
	s := r.settings
	repos := repositories.New(tx)
	ledger := NewPointsLedger(repos.Cards, repos.Points, r.ph, s.Now, s.DefaultTier)
	products := NewProductResolver(repos.Products, repos.Categories, r.ph)

	return &unit{
		ledger:  ledger,
		stores:  NewStoreResolver(repos.Stores, s.DefaultPostalCode, s.DefaultCountry),
		clients: NewClientResolver(repos.Clients, ledger, r.ph, s.Now, s.DefaultPostalCode, s.DefaultCountry),
		writer:  NewTransactionWriter(repos.Transactions, repos.Tickets, products, ledger, r.ph, s.VATRate, s.Now),
	}
}

func (r *Reconciler) inUnit(ctx context.Context, fn func(u *unit) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(r.newUnit(tx))
	})
}

// Process reconciles one receipt. explicit, when present, is the
// authenticated client; otherwise the record's own client id is tried.
// Failures roll back and come back as an unsuccessful Outcome, never as a
// panic.
func (r *Reconciler) Process(ctx context.Context, rec *receipt.Record, imageRef string, explicit mo.Option[int64]) (out Outcome) {
	defer func() {
		if p := recover(); p != nil {
			out = failed(fmt.Errorf("panic: %v", p))
		}
	}()

	if rec == nil {
		return failed(errors.New("empty receipt record"))
	}
	if explicit.IsAbsent() {
		explicit = rec.ClientID
	}

	var transactionID int64
	err := r.inUnit(ctx, func(u *unit) error {
		info := ExtractVendorInfo(rec)

		storeID, err := u.stores.Resolve(ctx, info)
		if err != nil {
			return err
		}

		clientID, err := u.clients.Resolve(ctx, info, explicit)
		if err != nil {
			return err
		}

		transactionID, err = u.writer.Write(ctx, WriteInput{
			ClientID: clientID,
			StoreID:  storeID,
			Record:   rec,
			ImageRef: imageRef,
		})
		return err
	})
	if err != nil {
		return failed(err)
	}

	return Outcome{
		Success:       true,
		TransactionID: mo.Some(transactionID),
		Message:       msgRecorded,
	}
}

// ProcessJSON parses a raw receipt payload and reconciles it.
func (r *Reconciler) ProcessJSON(ctx context.Context, raw []byte, imageRef string, explicit mo.Option[int64]) Outcome {
	rec, err := receipt.Parse(raw)
	if err != nil {
		return failed(err)
	}
	return r.Process(ctx, rec, imageRef, explicit)
}

// ProcessCombined reconciles the structured record with the OCR vendor
// payload before processing.
func (r *Reconciler) ProcessCombined(ctx context.Context, structured, ocrVendor []byte, imageRef string, explicit mo.Option[int64]) Outcome {
	rec, err := receipt.Combine(structured, ocrVendor)
	if err != nil {
		return failed(err)
	}
	return r.Process(ctx, rec, imageRef, explicit)
}

func failed(err error) Outcome {
	log.Error().Err(err).Msg("❌ Receipt reconciliation failed")
	return Outcome{
		Success:       false,
		TransactionID: mo.None[int64](),
		Message:       fmt.Sprintf("%s: %v", msgFailed, err),
	}
}

// Redeem spends points from the client's active card.
func (r *Reconciler) Redeem(ctx context.Context, clientID, points int64, description string) (*models.PointsHistory, error) {
	var entry *models.PointsHistory
	err := r.inUnit(ctx, func(u *unit) error {
		var err error
		entry, err = u.ledger.Redeem(ctx, clientID, points, description)
		return err
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// Balance returns the client's current points.
func (r *Reconciler) Balance(ctx context.Context, clientID int64) (int64, error) {
	ledger := NewPointsLedger(repositories.NewCardRepo(r.db), repositories.NewPointsRepo(r.db), r.ph, r.settings.Now, r.settings.DefaultTier)
	return ledger.Balance(ctx, clientID)
}

// ClientCard returns the client with its active card.
func (r *Reconciler) ClientCard(ctx context.Context, clientID int64) (*ClientCard, error) {
	u := r.newUnit(r.db)
	return u.clients.GetWithCard(ctx, clientID)
}

// SuggestStores lists existing stores resembling name.
func (r *Reconciler) SuggestStores(ctx context.Context, name string, limit int) ([]models.Store, error) {
	return NewStoreResolver(repositories.NewStoreRepo(r.db), r.settings.DefaultPostalCode, r.settings.DefaultCountry).
		Suggest(ctx, name, limit)
}

// Transaction loads a recorded transaction with its lines.
func (r *Reconciler) Transaction(ctx context.Context, id int64) (*models.Transaction, error) {
	return repositories.NewTransactionRepo(r.db).GetByID(ctx, id)
}
