package trending

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"housing_recommender/internal/domain"
	"housing_recommender/internal/lib/logger/sl"
	"housing_recommender/internal/lib/metrics"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
)

// Веса активности в трендовом скоре.
const (
	BookingWeight = 3
	SaveWeight    = 2
	ReviewWeight  = 1
)

// DefaultWindow — окно трендов по умолчанию.
const DefaultWindow = 7 * 24 * time.Hour

const flightKey = "trending"

type ListingRepository interface {
	ActiveListings(ctx context.Context) ([]domain.Listing, error)
}

type ActivityRepository interface {
	RecentActivity(ctx context.Context, since time.Time) (map[uuid.UUID]domain.RecentActivity, error)
}

// Service — объявления с наибольшей активностью за последнее окно, без учёта профиля пользователя.
type Service struct {
	log          *slog.Logger
	listings     ListingRepository
	activity     ActivityRepository
	window       time.Duration
	defaultLimit int
	maxLimit     int
	now          func() time.Time
	metrics      *metrics.RecommendMetrics

	group singleflight.Group
}

func New(
	log *slog.Logger,
	listings ListingRepository,
	activity ActivityRepository,
	window time.Duration,
	defaultLimit, maxLimit int,
	m *metrics.RecommendMetrics,
) *Service {
	if window <= 0 {
		window = DefaultWindow
	}
	return &Service{
		log:          log,
		listings:     listings,
		activity:     activity,
		window:       window,
		defaultLimit: defaultLimit,
		maxLimit:     maxLimit,
		now:          time.Now,
		metrics:      m,
	}
}

// WithClock подменяет источник времени (начало окна). Вызывать до начала обработки запросов.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// GetTrending возвращает до limit трендовых объявлений.
// Одновременные запросы разделяют одно чтение из БД; каждый получает собственную копию результата.
func (s *Service) GetTrending(ctx context.Context, limit int) ([]domain.TrendingListing, error) {
	const op = "trending.Service.GetTrending"

	limit = domain.NormalizeLimit(limit, s.defaultLimit, s.maxLimit)

	var shared bool
	result, err := metrics.WrapWithMetrics(ctx, s.metrics, metrics.OpTrending, func(ctx context.Context) ([]domain.TrendingListing, error) {
		v, err, sh := s.group.Do(flightKey, func() (any, error) {
			return s.rankAll(ctx)
		})
		if err != nil {
			return nil, err
		}
		shared = sh

		ranked := v.([]domain.TrendingListing)
		out := make([]domain.TrendingListing, min(limit, len(ranked)))
		copy(out, ranked)
		return out, nil
	})
	if err != nil {
		s.log.Debug("failed to compute trending listings", slog.String("op", op), sl.Err(err))
		return []domain.TrendingListing{}, fmt.Errorf("%s: %w: %w", op, domain.ErrDataUnavailable, err)
	}

	s.log.Debug("trending listings computed",
		slog.String("op", op),
		slog.Int("count", len(result)),
		slog.Bool("shared", shared),
	)

	return result, nil
}

func (s *Service) rankAll(ctx context.Context) ([]domain.TrendingListing, error) {
	listings, err := s.listings.ActiveListings(ctx)
	if err != nil {
		return nil, fmt.Errorf("active listings: %w", err)
	}

	activity, err := s.activity.RecentActivity(ctx, s.now().Add(-s.window))
	if err != nil {
		return nil, fmt.Errorf("recent activity: %w", err)
	}

	return RankTrending(listings, activity), nil
}

// Score — трендовый скор по активности за окно.
func Score(a domain.RecentActivity) int {
	return BookingWeight*a.Bookings + SaveWeight*a.Saves + ReviewWeight*a.ApprovedReviews
}

// RankTrending оставляет объявления с положительным трендовым скором и сортирует их:
// скор по убыванию, затем более новые, затем по ID.
func RankTrending(listings []domain.Listing, activity map[uuid.UUID]domain.RecentActivity) []domain.TrendingListing {
	ranked := make([]domain.TrendingListing, 0, len(activity))
	for _, l := range listings {
		a := activity[l.ID]
		score := Score(a)
		if score <= 0 {
			continue
		}
		ranked = append(ranked, domain.TrendingListing{Listing: l, TrendScore: score, Activity: a})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.TrendScore != b.TrendScore {
			return a.TrendScore > b.TrendScore
		}
		if !a.Listing.CreatedAt.Equal(b.Listing.CreatedAt) {
			return a.Listing.CreatedAt.After(b.Listing.CreatedAt)
		}
		return domain.CompareIDs(a.Listing.ID, b.Listing.ID) < 0
	})

	return ranked
}
