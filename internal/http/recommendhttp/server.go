package recommendhttp

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"housing_recommender/internal/config"
	"housing_recommender/internal/domain"
	"housing_recommender/internal/lib/metrics"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	gobreaker "github.com/sony/gobreaker/v2"
)

// RecommendService описывает персональные рекомендации.
type RecommendService interface {
	RecommendForUser(ctx context.Context, userID uuid.UUID, limit int) ([]domain.ScoredCandidate, error)
	BuildProfile(ctx context.Context, userID uuid.UUID) (domain.UserProfile, error)
}

// TrendingService описывает трендовую выдачу.
type TrendingService interface {
	GetTrending(ctx context.Context, limit int) ([]domain.TrendingListing, error)
}

// SimilarService описывает поиск похожих объявлений.
type SimilarService interface {
	GetSimilarListings(ctx context.Context, listingID uuid.UUID, limit int) ([]domain.SimilarListing, error)
}

// StatsProvider отдаёт in-process статистику вызовов.
type StatsProvider interface {
	GetStats() metrics.Stats
}

// BreakerState — состояние circuit breaker для /v1/stats.
type BreakerState interface {
	Name() string
	State() gobreaker.State
}

type serverAPI struct {
	log       *slog.Logger
	recommend RecommendService
	trending  TrendingService
	similar   SimilarService
	stats     StatsProvider
	breakers  []BreakerState

	maxLimit    int
	secret      []byte
	disableAuth bool
	timeout     time.Duration
}

// ServerOption — опция для конфигурации сервера.
type ServerOption func(*serverAPI)

// WithStats добавляет источник статистики для /v1/stats.
func WithStats(stats StatsProvider) ServerOption {
	return func(s *serverAPI) {
		s.stats = stats
	}
}

// WithBreakers добавляет circuit breakers в /v1/stats.
func WithBreakers(breakers ...BreakerState) ServerOption {
	return func(s *serverAPI) {
		for _, b := range breakers {
			if b != nil && b.Name() != "" {
				s.breakers = append(s.breakers, b)
			}
		}
	}
}

// NewRouter собирает chi-роутер со всеми маршрутами и общим стеком middleware.
func NewRouter(
	log *slog.Logger,
	cfg *config.Config,
	recommend RecommendService,
	trending TrendingService,
	similar SimilarService,
	opts ...ServerOption,
) http.Handler {
	s := &serverAPI{
		log:         log,
		recommend:   recommend,
		trending:    trending,
		similar:     similar,
		maxLimit:    cfg.Recommend.MaxLimit,
		secret:      []byte(cfg.Secret),
		disableAuth: cfg.DisableAuth,
		timeout:     cfg.HTTP.RequestTimeout,
	}
	if s.maxLimit <= 0 {
		s.maxLimit = domain.MaxLimit
	}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(newRequestLogger(log))
	r.Use(middleware.Recoverer)
	r.Use(cors.New(cors.Options{
		AllowedOrigins: cfg.HTTP.CORSAllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type", userIDHeader},
		MaxAge:         300,
	}).Handler)

	r.Get("/healthz", s.health)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/v1", func(r chi.Router) {
		if cfg.HTTP.RateLimitRequests > 0 {
			r.Use(httprate.LimitByIP(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow))
		}

		r.Group(func(r chi.Router) {
			r.Use(s.authenticate)

			r.Get("/users/{userID}/recommendations", s.userRecommendations)
			r.Get("/users/{userID}/profile", s.userProfile)
			r.Get("/me/recommendations", s.myRecommendations)
		})

		r.Get("/listings/trending", s.trendingListings)
		r.Get("/listings/{listingID}/similar", s.similarListings)

		r.Get("/stats", s.statsHandler)
	})

	return r
}

// requestContext ограничивает время обработки запроса сервисами.
// По истечении таймаута сервис возвращает деградированную выдачу, ответ пишет сам обработчик.
func (s *serverAPI) requestContext(r *http.Request) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return context.WithCancel(r.Context())
	}
	return context.WithTimeout(r.Context(), s.timeout)
}

func (s *serverAPI) health(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
