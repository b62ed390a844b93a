package models

import "github.com/shopspring/decimal"

// Category groups products
type Category struct {
	ID          int64  `gorm:"column:categorie_id;primaryKey;autoIncrement" json:"categorie_id"`
	Name        string `gorm:"column:nom;not null" json:"nom"`
	Description string `gorm:"column:description" json:"description,omitempty"`
}

func (Category) TableName() string {
	return "categories_produits"
}

// Product is a catalog entry. DedupKey is derived from the receipt description.
type Product struct {
	ID            int64           `gorm:"column:produit_id;primaryKey;autoIncrement" json:"produit_id"`
	Reference     string          `gorm:"column:reference;not null" json:"reference"`
	Name          string          `gorm:"column:nom;not null" json:"nom"`
	DedupKey      string          `gorm:"column:cle_dedup;uniqueIndex;not null" json:"-"`
	Description   string          `gorm:"column:description" json:"description,omitempty"`
	CategoryID    *int64          `gorm:"column:categorie_id" json:"categorie_id,omitempty"`
	StandardPrice decimal.Decimal `gorm:"column:prix_standard;type:decimal(12,2);not null" json:"prix_standard"`
}

func (Product) TableName() string {
	return "produits"
}
