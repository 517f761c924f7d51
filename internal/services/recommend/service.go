package recommend

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"housing_recommender/internal/config"
	"housing_recommender/internal/domain"
	"housing_recommender/internal/lib/logger/sl"
	"housing_recommender/internal/lib/metrics"
	"housing_recommender/internal/services/scoring"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// ListingRepository — источник кандидатов.
type ListingRepository interface {
	ActiveListings(ctx context.Context) ([]domain.Listing, error)
}

// ProfileBuilder строит профиль предпочтений пользователя.
type ProfileBuilder interface {
	Build(ctx context.Context, userID uuid.UUID) (domain.UserProfile, error)
}

// Service — персональные рекомендации.
type Service struct {
	log      *slog.Logger
	listings ListingRepository
	profiles ProfileBuilder
	finder   *SimilarUserFinder
	ranker   *Ranker
	cfg      config.RecommendConfig
	metrics  *metrics.RecommendMetrics
}

func New(
	log *slog.Logger,
	listings ListingRepository,
	profiles ProfileBuilder,
	cooccurrence CooccurrenceRepository,
	cfg config.RecommendConfig,
	m *metrics.RecommendMetrics,
) *Service {
	engine := scoring.NewEngine(cfg.Scoring)
	return &Service{
		log:      log,
		listings: listings,
		profiles: profiles,
		finder:   NewSimilarUserFinder(cooccurrence, cfg.SimilarUsersLimit),
		ranker:   NewRanker(engine, scoring.NewReasonGenerator(engine.Now)),
		cfg:      cfg,
		metrics:  m,
	}
}

// WithClock подменяет источник времени (свежесть и объяснения). Вызывать до начала обработки запросов.
func (s *Service) WithClock(now func() time.Time) *Service {
	engine := scoring.NewEngine(s.cfg.Scoring).WithClock(now)
	s.ranker = NewRanker(engine, scoring.NewReasonGenerator(now))
	return s
}

// RecommendForUser возвращает до limit рекомендаций для пользователя.
// При недоступности данных возвращается пустой срез и ошибка, оборачивающая domain.ErrDataUnavailable.
func (s *Service) RecommendForUser(ctx context.Context, userID uuid.UUID, limit int) ([]domain.ScoredCandidate, error) {
	const op = "recommend.Service.RecommendForUser"
	log := s.log.With(slog.String("op", op), slog.String("user_id", userID.String()))

	limit = domain.NormalizeLimit(limit, s.cfg.DefaultLimit, s.cfg.MaxLimit)

	timer := s.metrics.StartTimer(metrics.OpRecommend)
	result, err := s.recommend(ctx, userID, limit)
	timer.Stop(err, len(result))

	if err != nil {
		log.Debug("failed to build recommendations", sl.Err(err))
		return []domain.ScoredCandidate{}, fmt.Errorf("%s: %w: %w", op, domain.ErrDataUnavailable, err)
	}

	log.Debug("recommendations built", slog.Int("limit", limit), slog.Int("count", len(result)))
	return result, nil
}

func (s *Service) recommend(ctx context.Context, userID uuid.UUID, limit int) ([]domain.ScoredCandidate, error) {
	var (
		candidates []domain.Listing
		profile    domain.UserProfile
		collab     scoring.CollaborativeIndex
	)

	// Кандидаты читаются параллельно с цепочкой профиль → похожие пользователи → их сохранения
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		candidates, err = s.listings.ActiveListings(gctx)
		if err != nil {
			return fmt.Errorf("active listings: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		profile, err = s.profiles.Build(gctx, userID)
		if err != nil {
			return err
		}

		similar, err := s.finder.Find(gctx, userID, profile.SavedListingIDs())
		if err != nil {
			return err
		}

		collab, err = s.finder.CollaborativeIndex(gctx, similar)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return s.ranker.Rank(profile, candidates, collab, limit), nil
}

// BuildProfile строит профиль пользователя. Пользователь без активности получает пустой профиль.
func (s *Service) BuildProfile(ctx context.Context, userID uuid.UUID) (domain.UserProfile, error) {
	const op = "recommend.Service.BuildProfile"

	timer := s.metrics.StartTimer(metrics.OpProfile)
	p, err := s.profiles.Build(ctx, userID)
	timer.Stop(err, len(p.SavedListings)+len(p.BookedListings))

	if err != nil {
		s.log.Debug("failed to build profile", slog.String("op", op), slog.String("user_id", userID.String()), sl.Err(err))
		return domain.EmptyProfile(userID), fmt.Errorf("%s: %w: %w", op, domain.ErrDataUnavailable, err)
	}
	return p, nil
}
