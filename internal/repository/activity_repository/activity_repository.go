package activity_repository

import (
	"context"
	"fmt"
	"housing_recommender/internal/domain"
	"housing_recommender/internal/repository"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ActivityRepository — чтение активности пользователей: сохранения, бронирования, отзывы.
type ActivityRepository struct {
	db  *pgxpool.Pool
	log *slog.Logger
}

func NewActivityRepository(db *pgxpool.Pool, log *slog.Logger) *ActivityRepository {
	return &ActivityRepository{db: db, log: log}
}

// SavedListingsOf — объявления, сохранённые пользователем (в порядке сохранения).
func (r *ActivityRepository) SavedListingsOf(ctx context.Context, userID uuid.UUID) ([]domain.Listing, error) {
	const op = "ActivityRepository.SavedListingsOf"

	query := repository.ListingWithStats + `
		SELECT ` + repository.ListingColumns + `
		FROM saved_listings sl
		JOIN ls ON ls.listing_id = sl.listing_id
		WHERE sl.user_id = $1
		ORDER BY sl.created_at, ls.listing_id
	`

	rows, err := r.db.Query(ctx, query, userID)
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

	return listings, nil
}

// ApprovedOrCompletedBookingsOf — одобренные и завершённые бронирования пользователя.
// Pending, rejected и cancelled в профиль не попадают.
func (r *ActivityRepository) ApprovedOrCompletedBookingsOf(ctx context.Context, userID uuid.UUID) ([]domain.Booking, error) {
	const op = "ActivityRepository.ApprovedOrCompletedBookingsOf"

	query := repository.ListingWithStats + `
		SELECT ` + repository.ListingColumns + `, b.rent_paid, b.status
		FROM bookings b
		JOIN ls ON ls.listing_id = b.listing_id
		WHERE b.user_id = $1 AND b.status IN ('approved', 'completed')
		ORDER BY b.created_at, b.booking_id
	`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	bookings := []domain.Booking{}
	for rows.Next() {
		var b domain.Booking
		var status string
		l, err := repository.ScanListing(rows, &b.RentPaid, &status)
		if err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		b.Listing = l
		b.Status = domain.BookingStatus(status)
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return bookings, nil
}

// UsersWhoSaved — для каждого объявления список сохранивших его пользователей (по возрастанию ID).
// Один запрос на весь набор объявлений.
func (r *ActivityRepository) UsersWhoSaved(ctx context.Context, listingIDs []uuid.UUID) (map[uuid.UUID][]uuid.UUID, error) {
	const op = "ActivityRepository.UsersWhoSaved"

	if len(listingIDs) == 0 {
		return map[uuid.UUID][]uuid.UUID{}, nil
	}

	query := `
		SELECT listing_id, user_id
		FROM saved_listings
		WHERE listing_id = ANY($1::uuid[])
		ORDER BY listing_id, user_id
	`

	rows, err := r.db.Query(ctx, query, repository.UUIDsToStrings(listingIDs))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	result, err := repository.ScanUUIDPairs(rows)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// SavedListingIDsOf — для каждого пользователя ID сохранённых им объявлений.
func (r *ActivityRepository) SavedListingIDsOf(ctx context.Context, userIDs []uuid.UUID) (map[uuid.UUID][]uuid.UUID, error) {
	const op = "ActivityRepository.SavedListingIDsOf"

	if len(userIDs) == 0 {
		return map[uuid.UUID][]uuid.UUID{}, nil
	}

	query := `
		SELECT user_id, listing_id
		FROM saved_listings
		WHERE user_id = ANY($1::uuid[])
		ORDER BY user_id, listing_id
	`

	rows, err := r.db.Query(ctx, query, repository.UUIDsToStrings(userIDs))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	result, err := repository.ScanUUIDPairs(rows)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// RecentActivity — активность по объявлениям начиная с since:
// бронирования (кроме отклонённых и отменённых), сохранения и одобренные отзывы.
func (r *ActivityRepository) RecentActivity(ctx context.Context, since time.Time) (map[uuid.UUID]domain.RecentActivity, error) {
	const op = "ActivityRepository.RecentActivity"

	query := `
		SELECT listing_id,
			SUM(bookings)::int8 AS bookings,
			SUM(saves)::int8    AS saves,
			SUM(reviews)::int8  AS reviews
		FROM (
			SELECT listing_id, COUNT(*) AS bookings, 0 AS saves, 0 AS reviews
			FROM bookings
			WHERE created_at >= $1 AND status NOT IN ('rejected', 'cancelled')
			GROUP BY listing_id
			UNION ALL
			SELECT listing_id, 0, COUNT(*), 0
			FROM saved_listings
			WHERE created_at >= $1
			GROUP BY listing_id
			UNION ALL
			SELECT listing_id, 0, 0, COUNT(*)
			FROM reviews
			WHERE created_at >= $1 AND status = 'approved'
			GROUP BY listing_id
		) activity
		GROUP BY listing_id
	`

	rows, err := r.db.Query(ctx, query, since)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	result := make(map[uuid.UUID]domain.RecentActivity)
	for rows.Next() {
		var id uuid.UUID
		var a domain.RecentActivity
		if err := rows.Scan(&id, &a.Bookings, &a.Saves, &a.ApprovedReviews); err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		result[id] = a
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	r.log.Debug("recent activity loaded",
		slog.String("op", op),
		slog.Time("since", since),
		slog.Int("listings", len(result)),
	)

	return result, nil
}
