package similar

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sort"

	"housing_recommender/internal/domain"
	"housing_recommender/internal/lib/logger/sl"
	"housing_recommender/internal/lib/metrics"
	"housing_recommender/internal/repository"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Веса признаков похожести.
const (
	LocationWeight  = 30
	TypeWeight      = 20
	PriceWeight     = 15
	BedroomsWeight  = 10
	BathroomsWeight = 5

	// PriceTolerance — допустимое отклонение цены от исходного объявления
	PriceTolerance = 0.20
)

type ListingRepository interface {
	ActiveListings(ctx context.Context) ([]domain.Listing, error)
	ListingByID(ctx context.Context, id uuid.UUID) (domain.Listing, error)
}

// Service подбирает объявления, похожие на заданное.
type Service struct {
	log          *slog.Logger
	repo         ListingRepository
	defaultLimit int
	maxLimit     int
	metrics      *metrics.RecommendMetrics
}

func New(log *slog.Logger, repo ListingRepository, defaultLimit, maxLimit int, m *metrics.RecommendMetrics) *Service {
	return &Service{
		log:          log,
		repo:         repo,
		defaultLimit: defaultLimit,
		maxLimit:     maxLimit,
		metrics:      m,
	}
}

// GetSimilarListings возвращает до limit активных объявлений, похожих на listingID.
// Неизвестное объявление даёт пустой результат без ошибки.
func (s *Service) GetSimilarListings(ctx context.Context, listingID uuid.UUID, limit int) ([]domain.SimilarListing, error) {
	const op = "similar.Service.GetSimilarListings"
	log := s.log.With(slog.String("op", op), slog.String("listing_id", listingID.String()))

	limit = domain.NormalizeLimit(limit, s.defaultLimit, s.maxLimit)

	var (
		source     domain.Listing
		candidates []domain.Listing
	)

	timer := s.metrics.StartTimer(metrics.OpSimilar)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		source, err = s.repo.ListingByID(gctx, listingID)
		return err
	})
	g.Go(func() error {
		var err error
		candidates, err = s.repo.ActiveListings(gctx)
		return err
	})

	if err := g.Wait(); err != nil {
		if errors.Is(err, repository.ErrListingNotFound) {
			timer.Stop(nil, 0)
			log.Debug("source listing not found")
			return []domain.SimilarListing{}, nil
		}
		timer.Stop(err, 0)
		log.Debug("failed to load listings", sl.Err(err))
		return []domain.SimilarListing{}, fmt.Errorf("%s: %w: %w", op, domain.ErrDataUnavailable, err)
	}

	result := Rank(source, candidates)
	if len(result) > limit {
		result = result[:limit]
	}

	timer.Stop(nil, len(result))
	return result, nil
}

// Similarity — аддитивный скор похожести кандидата на исходное объявление.
func Similarity(source, c domain.Listing) int {
	score := 0
	if domain.LocationsMatch(source.Location, c.Location) {
		score += LocationWeight
	}
	if source.Type != domain.ListingTypeUnspecified && source.Type == c.Type {
		score += TypeWeight
	}
	if priceWithin(source.Price, c.Price) {
		score += PriceWeight
	}
	if source.Bedrooms == c.Bedrooms {
		score += BedroomsWeight
	}
	if source.Bathrooms == c.Bathrooms {
		score += BathroomsWeight
	}
	return score
}

func priceWithin(source, candidate int64) bool {
	if source <= 0 {
		return false
	}
	return math.Abs(float64(candidate-source)) <= PriceTolerance*float64(source)
}

// Rank исключает исходное объявление и кандидатов с нулевой похожестью, затем сортирует:
// похожесть по убыванию, рейтинг по убыванию, ID по возрастанию.
func Rank(source domain.Listing, candidates []domain.Listing) []domain.SimilarListing {
	ranked := make([]domain.SimilarListing, 0, len(candidates))
	for _, c := range candidates {
		if c.ID == source.ID {
			continue
		}
		score := Similarity(source, c)
		if score <= 0 {
			continue
		}
		ranked = append(ranked, domain.SimilarListing{Listing: c, Similarity: score})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.Similarity != b.Similarity {
			return a.Similarity > b.Similarity
		}
		if a.Listing.Rating != b.Listing.Rating {
			return a.Listing.Rating > b.Listing.Rating
		}
		return domain.CompareIDs(a.Listing.ID, b.Listing.ID) < 0
	})

	return ranked
}
