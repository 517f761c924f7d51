package listing_repository

import (
	"context"
	"fmt"
	"housing_recommender/internal/domain"
	"housing_recommender/internal/repository"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ListingRepository struct {
	db  *pgxpool.Pool
	log *slog.Logger
}

func NewListingRepository(db *pgxpool.Pool, log *slog.Logger) *ListingRepository {
	return &ListingRepository{db: db, log: log}
}

// ActiveListings — все опубликованные объявления с агрегатами.
// Агрегаты читаются одним запросом, поэтому в пределах вызова они согласованы между собой.
func (r *ListingRepository) ActiveListings(ctx context.Context) ([]domain.Listing, error) {
	const op = "ListingRepository.ActiveListings"

	status := domain.ListingStatusActive
	listings, err := r.ListListings(ctx, domain.ListingFilter{Status: &status})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return listings, nil
}

// ListingByID — объявление по ID в любом статусе.
func (r *ListingRepository) ListingByID(ctx context.Context, id uuid.UUID) (domain.Listing, error) {
	const op = "ListingRepository.ListingByID"

	listings, err := r.ListListings(ctx, domain.ListingFilter{IDs: []uuid.UUID{id}})
	if err != nil {
		return domain.Listing{}, fmt.Errorf("%s: %w", op, err)
	}
	if len(listings) == 0 {
		return domain.Listing{}, fmt.Errorf("%s: %w", op, repository.ErrListingNotFound)
	}

	return listings[0], nil
}

// ListListings — объявления по фильтру, упорядоченные по ID.
func (r *ListingRepository) ListListings(ctx context.Context, filter domain.ListingFilter) ([]domain.Listing, error) {
	const op = "ListingRepository.ListListings"

	whereClauses := []string{}
	params := []interface{}{}
	paramCount := 1

	if filter.Status != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("ls.status = $%d", paramCount))
		params = append(params, (*filter.Status).String())
		paramCount++
	}
	if len(filter.IDs) > 0 {
		whereClauses = append(whereClauses, fmt.Sprintf("ls.listing_id = ANY($%d::uuid[])", paramCount))
		params = append(params, repository.UUIDsToStrings(filter.IDs))
		paramCount++
	}

	query := repository.ListingWithStats + `
		SELECT ` + repository.ListingColumns + `
		FROM ls
	`
	if len(whereClauses) > 0 {
		query += " WHERE " + strings.Join(whereClauses, " AND ")
	}
	query += " ORDER BY ls.listing_id"

	rows, err := r.db.Query(ctx, query, params...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	listings := []domain.Listing{}
	for rows.Next() {
		l, err := repository.ScanListing(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		listings = append(listings, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	r.log.Debug("listings loaded", slog.String("op", op), slog.Int("count", len(listings)))

	return listings, nil
}
