package app

import (
	"log/slog"

	"housing_recommender/internal/config"
	"housing_recommender/internal/http/recommendhttp"
	"housing_recommender/internal/lib/metrics"
	"housing_recommender/internal/repository/activity_repository"
	"housing_recommender/internal/repository/listing_repository"
	"housing_recommender/internal/repository/resilient"
	"housing_recommender/internal/services/profile"
	"housing_recommender/internal/services/recommend"
	"housing_recommender/internal/services/similar"
	"housing_recommender/internal/services/trending"

	"github.com/jackc/pgx/v5/pgxpool"

	httpapp "housing_recommender/internal/app/http"
)

type App struct {
	HTTPServer *httpapp.App
	Metrics    *metrics.RecommendMetrics
}

func New(log *slog.Logger, pool *pgxpool.Pool, cfg *config.Config) *App {
	listingRepository := listing_repository.NewListingRepository(pool, log)
	activityRepository := activity_repository.NewActivityRepository(pool, log)

	// Circuit breakers вокруг БД (nil, если выключены)
	listingBreaker := resilient.NewBreaker("listings", cfg.Breaker, log)
	activityBreaker := resilient.NewBreaker("activity", cfg.Breaker, log)

	listings := resilient.NewListingRepository(listingRepository, listingBreaker)
	activity := resilient.NewActivityRepository(activityRepository, activityBreaker)

	recommendMetrics := metrics.GetRecommendMetrics(log)

	log.Info("recommendation engine initialized",
		slog.Bool("breaker_enabled", cfg.Breaker.Enabled),
		slog.Int("default_limit", cfg.Recommend.DefaultLimit),
		slog.Int("max_limit", cfg.Recommend.MaxLimit),
		slog.Int("similar_users", cfg.Recommend.SimilarUsersLimit),
		slog.Duration("trending_window", cfg.Recommend.TrendingWindow),
		slog.Bool("auth_disabled", cfg.DisableAuth),
	)

	profileBuilder := profile.New(log, activity)
	recommendService := recommend.New(log, listings, profileBuilder, activity, cfg.Recommend, recommendMetrics)
	trendingService := trending.New(log, listings, activity,
		cfg.Recommend.TrendingWindow, cfg.Recommend.DefaultLimit, cfg.Recommend.MaxLimit, recommendMetrics)
	similarService := similar.New(log, listings, cfg.Recommend.DefaultLimit, cfg.Recommend.MaxLimit, recommendMetrics)

	router := recommendhttp.NewRouter(log, cfg, recommendService, trendingService, similarService,
		recommendhttp.WithStats(recommendMetrics),
		recommendhttp.WithBreakers(listingBreaker, activityBreaker),
	)

	return &App{
		HTTPServer: httpapp.New(log, cfg.HTTP, router),
		Metrics:    recommendMetrics,
	}
}
