package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/MuhamadAgungGumelar/receipt-loyalty-be/internal/core/pricing"
	"github.com/MuhamadAgungGumelar/receipt-loyalty-be/internal/core/receipt"
	"github.com/MuhamadAgungGumelar/receipt-loyalty-be/internal/modules/loyalty/models"
	"github.com/MuhamadAgungGumelar/receipt-loyalty-be/internal/modules/loyalty/repositories"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

const (
	salesChannel     = "magasin"
	validationSource = "ocr"
	metadataSource   = "ocr_automatic"
)

// WriteInput is a receipt whose store and client are already resolved
type WriteInput struct {
	ClientID int64
	StoreID  int64
	Record   *receipt.Record
	ImageRef string
}

// TransactionWriter persists the transaction, its lines, the ticket and the
// earned points. It must run on a unit-of-work handle.
type TransactionWriter struct {
	transactions repositories.TransactionRepo
	tickets      repositories.TicketRepo
	products     *ProductResolver
	ledger       *PointsLedger
	ph           Placeholders
	vatRate      decimal.Decimal
	now          func() time.Time
}

func NewTransactionWriter(
	transactions repositories.TransactionRepo,
	tickets repositories.TicketRepo,
	products *ProductResolver,
	ledger *PointsLedger,
	ph Placeholders,
	vatRate decimal.Decimal,
	now func() time.Time,
) *TransactionWriter {
	if now == nil {
		now = time.Now
	}
	return &TransactionWriter{
		transactions: transactions,
		tickets:      tickets,
		products:     products,
		ledger:       ledger,
		ph:           ph,
		vatRate:      vatRate,
		now:          now,
	}
}

// Write records the receipt and returns the new transaction id.
func (w *TransactionWriter) Write(ctx context.Context, in WriteInput) (int64, error) {
	rec := in.Record
	now := w.now()

	card, err := w.ledger.EnsureCard(ctx, in.ClientID)
	if err != nil {
		return 0, err
	}

	date := receipt.ParseDate(rec.Date, now, w.ph.TimeOfDay())
	total := rec.Total.Round(2)
	net, vat := pricing.SplitVAT(total, w.vatRate)
	points := pricing.Points(total)
	invoice := fmt.Sprintf("TICKET-%s-%04d", now.Format("20060102"), w.ph.InvoiceSuffix())
	cardID := card.ID

	txn := &models.Transaction{
		ClientID:         in.ClientID,
		CardID:           &cardID,
		StoreID:          in.StoreID,
		Date:             date,
		Total:            total,
		NetAmount:        net,
		VATAmount:        vat,
		PaymentMethod:    pricing.NormalizePayment(rec.PaymentMethod),
		InvoiceNumber:    invoice,
		SalesChannel:     salesChannel,
		PointsEarned:     points,
		ValidationSource: validationSource,
	}
	if err := w.transactions.Create(ctx, txn); err != nil {
		return 0, fmt.Errorf("failed to create transaction: %w", err)
	}

	lines, err := w.buildLines(ctx, txn.ID, rec, total)
	if err != nil {
		return 0, err
	}
	if err := w.transactions.CreateLines(ctx, lines); err != nil {
		return 0, fmt.Errorf("failed to create transaction lines: %w", err)
	}

	if err := w.createTicket(ctx, txn, rec, in.ImageRef, now); err != nil {
		return 0, err
	}

	if _, err := w.ledger.Gain(ctx, in.ClientID, txn.ID, points); err != nil {
		return 0, fmt.Errorf("failed to credit points: %w", err)
	}

	log.Info().
		Int64("transaction_id", txn.ID).
		Int64("client_id", in.ClientID).
		Int64("store_id", in.StoreID).
		Str("total", total.StringFixed(2)).
		Int64("points", points).
		Msg("🧾 Transaction written")

	return txn.ID, nil
}

// buildLines resolves one line per receipt item, or a single bulk line
// carrying the whole total when the receipt has none.
func (w *TransactionWriter) buildLines(ctx context.Context, transactionID int64, rec *receipt.Record, total decimal.Decimal) ([]models.TransactionLine, error) {
	items := rec.LineItems
	if len(items) == 0 {
		items = []receipt.LineItem{BulkPurchaseItem(rec.Vendor, total)}
	}

	lines := make([]models.TransactionLine, 0, len(items))
	for _, item := range items {
		productID, err := w.products.Resolve(ctx, item)
		if err != nil {
			return nil, err
		}
		lines = append(lines, models.TransactionLine{
			TransactionID:   transactionID,
			ProductID:       productID,
			Quantity:        item.Quantity.Round(3),
			UnitPrice:       item.Price.Round(2),
			DiscountPercent: item.DiscountPercent.Round(2),
			DiscountAmount:  item.DiscountAmount.Round(2),
			LineTotal:       pricing.LineTotal(item.Quantity, item.Price, item.DiscountAmount),
		})
	}
	return lines, nil
}

func (w *TransactionWriter) createTicket(ctx context.Context, txn *models.Transaction, rec *receipt.Record, imageRef string, now time.Time) error {
	meta, err := json.Marshal(models.TicketMetadata{
		Source:         metadataSource,
		ExtractionDate: now.Format(time.RFC3339),
		Confidence:     w.ph.OCRConfidence(),
		Tax:            rec.Tax.Round(2),
		Subtotal:       rec.Subtotal.Round(2),
		Category:       rec.Category,
		Siret:          rec.Siret,
		VATNumber:      rec.VATNumber,
		Cashier:        rec.Cashier,
	})
	if err != nil {
		return fmt.Errorf("failed to encode ticket metadata: %w", err)
	}

	invoice := rec.InvoiceNumber
	if invoice == "" {
		invoice = txn.InvoiceNumber
	}

	ticket := &models.Ticket{
		ClientID:         txn.ClientID,
		TransactionID:    txn.ID,
		StoreID:          txn.StoreID,
		UploadedAt:       now,
		TransactionDate:  txn.Date,
		InvoiceNumber:    invoice,
		Total:            txn.Total,
		ImagePath:        imageRef,
		Hash:             uuid.NewString(),
		ProcessingStatus: models.TicketProcessed,
		ValidationStatus: models.ValidationValidated,
		OCRText:          rec.Text(),
		Metadata:         datatypes.JSON(meta),
	}
	if err := w.tickets.Create(ctx, ticket); err != nil {
		return fmt.Errorf("failed to create ticket: %w", err)
	}
	return nil
}
