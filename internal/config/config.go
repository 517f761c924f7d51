package config

import (
	"errors"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Env         string          `yaml:"env" env:"ENV" env-default:"local"`
	DatabaseURL string          `yaml:"database_url" env:"DATABASE_URL" env-required:"true"`
	HTTP        HTTPConfig      `yaml:"http"`
	Secret      string          `yaml:"secret" env:"SECRET"`
	DisableAuth bool            `yaml:"disable_auth" env:"DISABLE_AUTH" env-default:"false"`
	Recommend   RecommendConfig `yaml:"recommend"`
	Breaker     BreakerConfig   `yaml:"breaker"`
}

type HTTPConfig struct {
	Address        string        `yaml:"address" env:"HTTP_ADDRESS" env-default:":8080"`
	ReadTimeout    time.Duration `yaml:"read_timeout" env:"HTTP_READ_TIMEOUT" env-default:"5s"`
	WriteTimeout   time.Duration `yaml:"write_timeout" env:"HTTP_WRITE_TIMEOUT" env-default:"15s"`
	IdleTimeout    time.Duration `yaml:"idle_timeout" env:"HTTP_IDLE_TIMEOUT" env-default:"60s"`
	RequestTimeout time.Duration `yaml:"request_timeout" env:"HTTP_REQUEST_TIMEOUT" env-default:"10s"`
	// CORSAllowedOrigins — список origin через запятую
	CORSAllowedOrigins []string `yaml:"cors_allowed_origins" env:"HTTP_CORS_ORIGINS" env-separator:"," env-default:"*"`
	// RateLimitRequests — запросов с одного IP за окно RateLimitWindow (0 — без ограничения)
	RateLimitRequests int           `yaml:"rate_limit_requests" env:"HTTP_RATE_LIMIT_REQUESTS" env-default:"120"`
	RateLimitWindow   time.Duration `yaml:"rate_limit_window" env:"HTTP_RATE_LIMIT_WINDOW" env-default:"1m"`
}

// RecommendConfig — параметры рекомендательного движка.
type RecommendConfig struct {
	DefaultLimit int `yaml:"default_limit" env:"RECOMMEND_DEFAULT_LIMIT" env-default:"10"`
	MaxLimit     int `yaml:"max_limit" env:"RECOMMEND_MAX_LIMIT" env-default:"50"`
	// SimilarUsersLimit — сколько похожих пользователей участвует в коллаборативном скоре
	SimilarUsersLimit int `yaml:"similar_users_limit" env:"RECOMMEND_SIMILAR_USERS" env-default:"5"`
	// TrendingWindow — окно, за которое считается трендовая активность
	TrendingWindow time.Duration `yaml:"trending_window" env:"RECOMMEND_TRENDING_WINDOW" env-default:"168h"`
	Scoring        ScoringConfig `yaml:"scoring"`
}

// ScoringConfig — константы формулы скоринга (номинальный максимум 40/25/20/10/5).
// Значения по умолчанию менять нельзя: от них зависит совместимость выдачи.
type ScoringConfig struct {
	// Контентная часть
	PriceMax      float64 `yaml:"price_max" env:"SCORE_PRICE_MAX" env-default:"15"`
	PriceNoBudget float64 `yaml:"price_no_budget" env:"SCORE_PRICE_NO_BUDGET" env-default:"10"`
	LocationMax   float64 `yaml:"location_max" env:"SCORE_LOCATION_MAX" env-default:"15"`
	LocationStep  float64 `yaml:"location_step" env:"SCORE_LOCATION_STEP" env-default:"3"`
	LocationFloor float64 `yaml:"location_floor" env:"SCORE_LOCATION_FLOOR" env-default:"5"`
	TypeMatch     float64 `yaml:"type_match" env:"SCORE_TYPE_MATCH" env-default:"10"`

	// Популярность
	RatingMax     float64 `yaml:"rating_max" env:"SCORE_RATING_MAX" env-default:"10"`
	ReviewWeight  float64 `yaml:"review_weight" env:"SCORE_REVIEW_WEIGHT" env-default:"0.5"`
	ReviewCap     float64 `yaml:"review_cap" env:"SCORE_REVIEW_CAP" env-default:"5"`
	BookingWeight float64 `yaml:"booking_weight" env:"SCORE_BOOKING_WEIGHT" env-default:"0.3"`
	BookingCap    float64 `yaml:"booking_cap" env:"SCORE_BOOKING_CAP" env-default:"5"`
	SaveWeight    float64 `yaml:"save_weight" env:"SCORE_SAVE_WEIGHT" env-default:"0.5"`
	SaveCap       float64 `yaml:"save_cap" env:"SCORE_SAVE_CAP" env-default:"5"`

	// Коллаборативная часть
	CollaborativePerUser float64 `yaml:"collaborative_per_user" env:"SCORE_COLLABORATIVE_PER_USER" env-default:"5"`
	CollaborativeCap     float64 `yaml:"collaborative_cap" env:"SCORE_COLLABORATIVE_CAP" env-default:"20"`

	// Свежесть: FreshnessMax - days/FreshnessDecayDays
	FreshnessMax       float64 `yaml:"freshness_max" env:"SCORE_FRESHNESS_MAX" env-default:"10"`
	FreshnessDecayDays float64 `yaml:"freshness_decay_days" env:"SCORE_FRESHNESS_DECAY_DAYS" env-default:"30"`

	AvailabilityBonus float64 `yaml:"availability_bonus" env:"SCORE_AVAILABILITY_BONUS" env-default:"5"`
}

// BreakerConfig — настройки circuit breaker вокруг репозиториев.
type BreakerConfig struct {
	Enabled      bool          `yaml:"enabled" env:"BREAKER_ENABLE" env-default:"true"`
	MaxRequests  uint32        `yaml:"max_requests" env:"BREAKER_MAX_REQUESTS" env-default:"3"`
	Interval     time.Duration `yaml:"interval" env:"BREAKER_INTERVAL" env-default:"1m"`
	Timeout      time.Duration `yaml:"timeout" env:"BREAKER_TIMEOUT" env-default:"30s"`
	MinRequests  uint32        `yaml:"min_requests" env:"BREAKER_MIN_REQUESTS" env-default:"10"`
	FailureRatio float64       `yaml:"failure_ratio" env:"BREAKER_FAILURE_RATIO" env-default:"0.6"`
}

// DefaultScoringConfig возвращает те же значения, что и env-default теги.
func DefaultScoringConfig() ScoringConfig {
	return ScoringConfig{
		PriceMax:             15,
		PriceNoBudget:        10,
		LocationMax:          15,
		LocationStep:         3,
		LocationFloor:        5,
		TypeMatch:            10,
		RatingMax:            10,
		ReviewWeight:         0.5,
		ReviewCap:            5,
		BookingWeight:        0.3,
		BookingCap:           5,
		SaveWeight:           0.5,
		SaveCap:              5,
		CollaborativePerUser: 5,
		CollaborativeCap:     20,
		FreshnessMax:         10,
		FreshnessDecayDays:   30,
		AvailabilityBonus:    5,
	}
}

// DefaultRecommendConfig — конфигурация движка по умолчанию.
func DefaultRecommendConfig() RecommendConfig {
	return RecommendConfig{
		DefaultLimit:      10,
		MaxLimit:          50,
		SimilarUsersLimit: 5,
		TrendingWindow:    7 * 24 * time.Hour,
		Scoring:           DefaultScoringConfig(),
	}
}

var ErrMissingSecret = errors.New("secret is required when auth is enabled")

// Validate проверяет зависимости между полями, которые не выразить тегами.
func (c *Config) Validate() error {
	if !c.DisableAuth && c.Secret == "" {
		return ErrMissingSecret
	}
	return nil
}

// MustLoad читает конфиг из файла CONFIG_PATH (если задан) или из переменных окружения.
func MustLoad() *Config {
	var cfg Config

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			panic("cannot read config file " + path + ": " + err.Error())
		}
	} else if err := cleanenv.ReadEnv(&cfg); err != nil {
		panic("cannot read config from environment: " + err.Error())
	}

	if err := cfg.Validate(); err != nil {
		panic("invalid config: " + err.Error())
	}
	return &cfg
}
