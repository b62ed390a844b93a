package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// Ticket processing statuses
const (
	TicketPending   = "pending"
	TicketProcessed = "processed"
	TicketRejected  = "rejected"
)

// Ticket validation statuses
const (
	ValidationPending   = "pending"
	ValidationValidated = "validated"
	ValidationRejected  = "rejected"
)

// Ticket archives the scanned receipt behind a transaction
type Ticket struct {
	ID               int64           `gorm:"column:ticket_id;primaryKey;autoIncrement" json:"ticket_id"`
	ClientID         int64           `gorm:"column:client_id;not null" json:"client_id"`
	TransactionID    int64           `gorm:"column:transaction_id;not null" json:"transaction_id"`
	StoreID          int64           `gorm:"column:magasin_id;not null" json:"magasin_id"`
	UploadedAt       time.Time       `gorm:"column:date_upload;not null" json:"date_upload"`
	TransactionDate  time.Time       `gorm:"column:date_transaction;not null" json:"date_transaction"`
	InvoiceNumber    string          `gorm:"column:numero_facture;not null" json:"numero_facture"`
	Total            decimal.Decimal `gorm:"column:montant_total;type:decimal(12,2);not null" json:"montant_total"`
	ImagePath        string          `gorm:"column:image_path" json:"image_path,omitempty"`
	Hash             string          `gorm:"column:ticket_hash;uniqueIndex;not null" json:"ticket_hash"`
	ProcessingStatus string          `gorm:"column:statut_traitement;not null" json:"statut_traitement"`
	ValidationStatus string          `gorm:"column:validation_status;not null" json:"validation_status"`
	OCRText          string          `gorm:"column:texte_ocr" json:"texte_ocr,omitempty"`
	Metadata         datatypes.JSON  `gorm:"column:metadonnees" json:"metadonnees,omitempty"`
}

func (Ticket) TableName() string {
	return "tickets_caisse"
}

// TicketMetadata is stored as JSON in Ticket.Metadata. It keeps the receipt
// fields that have no column of their own.
type TicketMetadata struct {
	Source         string          `json:"source"`
	ExtractionDate string          `json:"extraction_date"`
	Confidence     float64         `json:"confidence"`
	Tax            decimal.Decimal `json:"tax"`
	Subtotal       decimal.Decimal `json:"subtotal"`
	Category       string          `json:"category,omitempty"`
	Siret          string          `json:"siret,omitempty"`
	VATNumber      string          `json:"tva_number,omitempty"`
	Cashier        string          `json:"cashier,omitempty"`
}
