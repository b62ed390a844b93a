package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Client statuses
const (
	ClientActive   = "active"
	ClientInactive = "inactive"
)

// Client is a loyalty program member
type Client struct {
	ID                    int64      `gorm:"column:client_id;primaryKey;autoIncrement" json:"client_id"`
	UUID                  string     `gorm:"column:uuid;type:varchar(36);uniqueIndex;not null" json:"uuid"`
	LastName              string     `gorm:"column:nom;not null" json:"nom"`
	FirstName             string     `gorm:"column:prenom;not null" json:"prenom"`
	BirthDate             *time.Time `gorm:"column:date_naissance" json:"date_naissance,omitempty"`
	Gender                string     `gorm:"column:genre" json:"genre,omitempty"`
	Address               string     `gorm:"column:adresse" json:"adresse,omitempty"`
	PostalCode            string     `gorm:"column:code_postal" json:"code_postal,omitempty"`
	City                  string     `gorm:"column:ville" json:"ville,omitempty"`
	Country               string     `gorm:"column:pays" json:"pays,omitempty"`
	Phone                 string     `gorm:"column:telephone" json:"telephone,omitempty"`
	Email                 string     `gorm:"column:email" json:"email,omitempty"`
	RegisteredAt          time.Time  `gorm:"column:date_inscription;not null" json:"date_inscription"`
	MarketingConsent      bool       `gorm:"column:consentement_marketing;not null" json:"consentement_marketing"`
	DataProcessingConsent bool       `gorm:"column:consentement_data_processing;not null" json:"consentement_data_processing"`
	ConsentDate           *time.Time `gorm:"column:date_consentement" json:"date_consentement,omitempty"`
	Status                string     `gorm:"column:statut;not null" json:"statut"`
	Segment               string     `gorm:"column:segment" json:"segment,omitempty"`
	AcquisitionChannel    string     `gorm:"column:canal_acquisition" json:"canal_acquisition,omitempty"`
	CreatedAt             time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (Client) TableName() string {
	return "clients"
}

// BeforeCreate sets UUID before creating
func (c *Client) BeforeCreate(tx *gorm.DB) error {
	if c.UUID == "" {
		c.UUID = uuid.NewString()
	}
	if c.Status == "" {
		c.Status = ClientActive
	}
	return nil
}
