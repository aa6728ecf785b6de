package postgresadapter

import (
	"time"

	"caravan/contexts/marketplace/listing-service/domain/entities"
	"caravan/internal/shared/outbox"
)

type listingModel struct {
	OrganisationID string `gorm:"column:organisation_id;primaryKey"`
	ListingID      string `gorm:"column:listing_id;primaryKey"`
	CategoryID     string `gorm:"column:category_id;index"`
	Status         string `gorm:"column:status"`
	ClientID       string `gorm:"column:client_id;index"`

	Title       string `gorm:"column:title"`
	Description string `gorm:"column:description"`

	ReservedByID   string `gorm:"column:reserved_by_id;index"`
	ReservedByName string `gorm:"column:reserved_by_name"`

	PriceAmount float64 `gorm:"column:price_amount"`
	Currency    string  `gorm:"column:currency"`

	DepartureAddress string     `gorm:"column:departure_address"`
	ArrivalAddress   string     `gorm:"column:arrival_address"`
	DepartureAt      *time.Time `gorm:"column:departure_at"`

	Version   int64     `gorm:"column:version"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (listingModel) TableName() string { return "listings" }

func (m listingModel) toEntity() entities.Listing {
	return entities.Listing{
		OrganisationID:   m.OrganisationID,
		ListingID:        m.ListingID,
		CategoryID:       m.CategoryID,
		Status:           entities.ListingStatus(m.Status),
		ClientID:         m.ClientID,
		Title:            m.Title,
		Description:      m.Description,
		ReservedByID:     m.ReservedByID,
		ReservedByName:   m.ReservedByName,
		PriceAmount:      m.PriceAmount,
		Currency:         m.Currency,
		DepartureAddress: m.DepartureAddress,
		ArrivalAddress:   m.ArrivalAddress,
		DepartureAt:      m.DepartureAt,
		Version:          m.Version,
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}
}

func fromEntity(l entities.Listing) listingModel {
	return listingModel{
		OrganisationID:   l.OrganisationID,
		ListingID:        l.ListingID,
		CategoryID:       l.CategoryID,
		Status:           string(l.Status),
		ClientID:         l.ClientID,
		Title:            l.Title,
		Description:      l.Description,
		ReservedByID:     l.ReservedByID,
		ReservedByName:   l.ReservedByName,
		PriceAmount:      l.PriceAmount,
		Currency:         l.Currency,
		DepartureAddress: l.DepartureAddress,
		ArrivalAddress:   l.ArrivalAddress,
		DepartureAt:      l.DepartureAt,
		Version:          l.Version,
		CreatedAt:        l.CreatedAt,
		UpdatedAt:        l.UpdatedAt,
	}
}

type outboxModel struct {
	OutboxID     string     `gorm:"column:outbox_id;primaryKey"`
	EventType    string     `gorm:"column:event_type"`
	PartitionKey string     `gorm:"column:partition_key"`
	Payload      []byte     `gorm:"column:payload"`
	Status       string     `gorm:"column:status;index"`
	RetryCount   int        `gorm:"column:retry_count"`
	CreatedAt    time.Time  `gorm:"column:created_at"`
	PublishedAt  *time.Time `gorm:"column:published_at"`
}

func (outboxModel) TableName() string { return "listing_outbox" }

func (m outboxModel) toMessage() outbox.Message {
	return outbox.Message{
		OutboxID:     m.OutboxID,
		EventType:    m.EventType,
		PartitionKey: m.PartitionKey,
		Payload:      m.Payload,
		Status:       m.Status,
		RetryCount:   m.RetryCount,
		CreatedAt:    m.CreatedAt,
		PublishedAt:  m.PublishedAt,
	}
}
