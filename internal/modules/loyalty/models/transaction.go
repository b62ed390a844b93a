package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is a purchase reconstructed from a receipt
type Transaction struct {
	ID               int64           `gorm:"column:transaction_id;primaryKey;autoIncrement" json:"transaction_id"`
	ClientID         int64           `gorm:"column:client_id;not null;index" json:"client_id"`
	CardID           *int64          `gorm:"column:carte_id" json:"carte_id,omitempty"`
	StoreID          int64           `gorm:"column:magasin_id;not null;index" json:"magasin_id"`
	Date             time.Time       `gorm:"column:date_transaction;not null" json:"date_transaction"`
	Total            decimal.Decimal `gorm:"column:montant_total;type:decimal(12,2);not null" json:"montant_total"`
	NetAmount        decimal.Decimal `gorm:"column:montant_ht;type:decimal(12,2);not null" json:"montant_ht"`
	VATAmount        decimal.Decimal `gorm:"column:tva_montant;type:decimal(12,2);not null" json:"tva_montant"`
	PaymentMethod    string          `gorm:"column:type_paiement;not null" json:"type_paiement"`
	InvoiceNumber    string          `gorm:"column:numero_facture;not null" json:"numero_facture"`
	SalesChannel     string          `gorm:"column:canal_vente;not null" json:"canal_vente"`
	PointsEarned     int64           `gorm:"column:points_gagnes;not null" json:"points_gagnes"`
	ValidationSource string          `gorm:"column:validation_source;not null" json:"validation_source"`
	CreatedAt        time.Time       `gorm:"column:created_at;autoCreateTime" json:"created_at"`

	Lines []TransactionLine `gorm:"foreignKey:TransactionID;references:ID" json:"lines,omitempty"`
}

func (Transaction) TableName() string {
	return "transactions"
}

// TransactionLine is one purchased product of a transaction
type TransactionLine struct {
	ID              int64           `gorm:"column:detail_id;primaryKey;autoIncrement" json:"detail_id"`
	TransactionID   int64           `gorm:"column:transaction_id;not null;index" json:"transaction_id"`
	ProductID       int64           `gorm:"column:produit_id;not null" json:"produit_id"`
	Quantity        decimal.Decimal `gorm:"column:quantite;type:decimal(12,3);not null" json:"quantite"`
	UnitPrice       decimal.Decimal `gorm:"column:prix_unitaire;type:decimal(12,2);not null" json:"prix_unitaire"`
	DiscountPercent decimal.Decimal `gorm:"column:remise_pourcentage;type:decimal(5,2);not null" json:"remise_pourcentage"`
	DiscountAmount  decimal.Decimal `gorm:"column:remise_montant;type:decimal(12,2);not null" json:"remise_montant"`
	LineTotal       decimal.Decimal `gorm:"column:montant_ligne;type:decimal(12,2);not null" json:"montant_ligne"`
}

func (TransactionLine) TableName() string {
	return "details_transactions"
}
