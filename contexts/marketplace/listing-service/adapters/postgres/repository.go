package postgresadapter

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	domainerrors "caravan/contexts/marketplace/listing-service/domain/errors"
	"caravan/contexts/marketplace/listing-service/domain/entities"
	"caravan/contexts/marketplace/listing-service/ports"
	"caravan/internal/shared/outbox"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{db: db, logger: logger}
}

func (r *Repository) CreateListing(ctx context.Context, listing entities.Listing) error {
	row := fromEntity(listing)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrInvalidRequest
		}
		return err
	}
	return nil
}

func (r *Repository) GetListing(ctx context.Context, organisationID string, listingID string) (entities.Listing, error) {
	var row listingModel
	err := r.db.WithContext(ctx).
		Where("organisation_id = ? AND listing_id = ?", organisationID, listingID).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Listing{}, domainerrors.ErrListingNotFound
		}
		return entities.Listing{}, err
	}
	return row.toEntity(), nil
}

// UpdateListing writes the row conditionally on the version it was loaded
// at. Zero affected rows means either the row vanished or a concurrent
// writer bumped the version first; the two are disambiguated with a
// follow-up read.
func (r *Repository) UpdateListing(ctx context.Context, listing entities.Listing, expectedVersion int64) error {
	// Zero values must overwrite here (a cancellation clears the
	// reservation columns), so the update is an explicit column map.
	result := r.db.WithContext(ctx).
		Model(&listingModel{}).
		Where("organisation_id = ? AND listing_id = ? AND version = ?",
			listing.OrganisationID, listing.ListingID, expectedVersion).
		Updates(map[string]any{
			"category_id":       listing.CategoryID,
			"status":            string(listing.Status),
			"title":             listing.Title,
			"description":       listing.Description,
			"reserved_by_id":    listing.ReservedByID,
			"reserved_by_name":  listing.ReservedByName,
			"price_amount":      listing.PriceAmount,
			"currency":          listing.Currency,
			"departure_address": listing.DepartureAddress,
			"arrival_address":   listing.ArrivalAddress,
			"departure_at":      listing.DepartureAt,
			"version":           listing.Version,
			"updated_at":        listing.UpdatedAt.UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		var count int64
		if err := r.db.WithContext(ctx).
			Model(&listingModel{}).
			Where("organisation_id = ? AND listing_id = ?", listing.OrganisationID, listing.ListingID).
			Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return domainerrors.ErrListingNotFound
		}
		return domainerrors.ErrVersionMismatch
	}
	return nil
}

func (r *Repository) DeleteListing(ctx context.Context, organisationID string, listingID string) error {
	result := r.db.WithContext(ctx).
		Where("organisation_id = ? AND listing_id = ?", organisationID, listingID).
		Delete(&listingModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrListingNotFound
	}
	return nil
}

func (r *Repository) ListByCategory(ctx context.Context, organisationID string, categoryID string) ([]entities.Listing, error) {
	return r.listWhere(ctx, "organisation_id = ? AND category_id = ?", organisationID, categoryID)
}

func (r *Repository) ListByClient(ctx context.Context, organisationID string, clientID string) ([]entities.Listing, error) {
	return r.listWhere(ctx, "organisation_id = ? AND client_id = ?", organisationID, clientID)
}

func (r *Repository) ListByReservedDriver(ctx context.Context, organisationID string, driverID string) ([]entities.Listing, error) {
	return r.listWhere(ctx, "organisation_id = ? AND reserved_by_id = ?", organisationID, driverID)
}

func (r *Repository) listWhere(ctx context.Context, clause string, args ...any) ([]entities.Listing, error) {
	var rows []listingModel
	if err := r.db.WithContext(ctx).
		Where(clause, args...).
		Order("created_at DESC, listing_id ASC").
		Find(&rows).
		Error; err != nil {
		return nil, err
	}
	items := make([]entities.Listing, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) AppendOutbox(ctx context.Context, envelope ports.EventEnvelope) error {
	payload, err := json.Marshal(envelope)
	if err != nil {
		return err
	}
	row := outboxModel{
		OutboxID:     envelope.EventID,
		EventType:    envelope.EventType,
		PartitionKey: envelope.PartitionKey,
		Payload:      payload,
		Status:       outbox.StatusPending,
		CreatedAt:    envelope.OccurredAtUTC,
	}
	if row.OutboxID == "" {
		row.OutboxID = uuid.NewString()
	}
	return r.db.WithContext(ctx).Create(&row).Error
}

func (r *Repository) ListPendingOutbox(ctx context.Context, limit int) ([]ports.OutboxMessage, error) {
	var rows []outboxModel
	if err := r.db.WithContext(ctx).
		Where("status = ?", outbox.StatusPending).
		Order("created_at ASC").
		Limit(limit).
		Find(&rows).
		Error; err != nil {
		return nil, err
	}
	items := make([]ports.OutboxMessage, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toMessage())
	}
	return items, nil
}

func (r *Repository) MarkOutboxPublished(ctx context.Context, outboxID string, publishedAt time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&outboxModel{}).
		Where("outbox_id = ?", outboxID).
		Updates(map[string]any{
			"status":       outbox.StatusPublished,
			"published_at": publishedAt.UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

func (r *Repository) MarkOutboxFailed(ctx context.Context, outboxID string) error {
	result := r.db.WithContext(ctx).
		Model(&outboxModel{}).
		Where("outbox_id = ?", outboxID).
		Updates(map[string]any{
			"status":      outbox.StatusFailed,
			"retry_count": gorm.Expr("retry_count + 1"),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
