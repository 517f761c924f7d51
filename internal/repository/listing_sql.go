package repository

import (
	"fmt"

	"housing_recommender/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ListingWithStats — объявления вместе с агрегатами (рейтинг и отзывы только по одобренным,
// бронирования только approved/completed). Используется как CTE "ls".
const ListingWithStats = `
	WITH ls AS (
		SELECT
			l.listing_id, l.title, l.price, l.location, l.listing_type,
			l.bedrooms, l.bathrooms, l.availability, l.status, l.created_at,
			COALESCE(r.avg_rating, 0)    AS rating,
			COALESCE(r.review_count, 0)  AS review_count,
			COALESCE(b.booking_count, 0) AS booking_count,
			COALESCE(s.save_count, 0)    AS save_count
		FROM listings l
		LEFT JOIN (
			SELECT listing_id, AVG(rating)::float8 AS avg_rating, COUNT(*) AS review_count
			FROM reviews
			WHERE status = 'approved'
			GROUP BY listing_id
		) r ON r.listing_id = l.listing_id
		LEFT JOIN (
			SELECT listing_id, COUNT(*) AS booking_count
			FROM bookings
			WHERE status IN ('approved', 'completed')
			GROUP BY listing_id
		) b ON b.listing_id = l.listing_id
		LEFT JOIN (
			SELECT listing_id, COUNT(*) AS save_count
			FROM saved_listings
			GROUP BY listing_id
		) s ON s.listing_id = l.listing_id
	)
`

// ListingColumns — колонки CTE "ls" в порядке, ожидаемом ScanListing.
const ListingColumns = `
	ls.listing_id, ls.title, ls.price, ls.location, ls.listing_type,
	ls.bedrooms, ls.bathrooms, ls.availability, ls.status, ls.created_at,
	ls.rating, ls.review_count, ls.booking_count, ls.save_count
`

// ScanListing читает объявление из строки результата; extra — дополнительные колонки после ListingColumns.
func ScanListing(row pgx.Row, extra ...any) (domain.Listing, error) {
	var l domain.Listing
	var listingType, availability, status string

	dest := []any{
		&l.ID,
		&l.Title,
		&l.Price,
		&l.Location,
		&listingType,
		&l.Bedrooms,
		&l.Bathrooms,
		&availability,
		&status,
		&l.CreatedAt,
		&l.Rating,
		&l.ReviewCount,
		&l.BookingCount,
		&l.SaveCount,
	}
	dest = append(dest, extra...)

	if err := row.Scan(dest...); err != nil {
		return domain.Listing{}, err
	}

	l.Type = domain.ListingType(listingType)
	l.Availability = domain.Availability(availability)
	l.Status = domain.ListingStatus(status)
	l.Location = domain.NormalizeLocation(l.Location)

	return l, nil
}

// UUIDsToStrings готовит массив идентификаторов для параметра вида $1::uuid[].
func UUIDsToStrings(ids []uuid.UUID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}

// ScanUUIDPairs читает строки вида (key, value) в map[key][]value с сохранением порядка строк.
func ScanUUIDPairs(rows pgx.Rows) (map[uuid.UUID][]uuid.UUID, error) {
	defer rows.Close()

	result := make(map[uuid.UUID][]uuid.UUID)
	for rows.Next() {
		var key, value uuid.UUID
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("scan pair: %w", err)
		}
		result[key] = append(result[key], value)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
