package models

// Store statuses
const (
	StoreActive   = "active"
	StoreInactive = "inactive"
)

// Store is a point of sale. DedupKey identifies it across receipts.
type Store struct {
	ID         int64  `gorm:"column:magasin_id;primaryKey;autoIncrement" json:"magasin_id"`
	Name       string `gorm:"column:nom;not null" json:"nom"`
	DedupKey   string `gorm:"column:cle_dedup;uniqueIndex;not null" json:"-"`
	Type       string `gorm:"column:type;not null" json:"type"`
	Address    string `gorm:"column:adresse" json:"adresse,omitempty"`
	PostalCode string `gorm:"column:code_postal" json:"code_postal,omitempty"`
	City       string `gorm:"column:ville" json:"ville,omitempty"`
	Country    string `gorm:"column:pays" json:"pays,omitempty"`
	Phone      string `gorm:"column:telephone" json:"telephone,omitempty"`
	Email      string `gorm:"column:email" json:"email,omitempty"`
	Hours      string `gorm:"column:horaires" json:"horaires,omitempty"`
	Status     string `gorm:"column:statut;not null" json:"statut"`
}

func (Store) TableName() string {
	return "points_vente"
}
