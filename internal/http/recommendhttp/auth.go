package recommendhttp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"housing_recommender/internal/lib/logger/sl"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const userIDHeader = "X-User-ID"

type ctxKey struct{}

var (
	errMissingToken  = errors.New("missing bearer token")
	errEmptySecret   = errors.New("token secret is not configured")
	errForeignUserID = errors.New("path user does not match token user")
)

// Claims — полезная нагрузка токена: uid — идентификатор пользователя.
type Claims struct {
	UserID string `json:"uid"`
	jwt.RegisteredClaims
}

// authenticate определяет пользователя по Bearer-токену (HS256).
// При DisableAuth пользователь берётся из заголовка X-User-ID.
func (s *serverAPI) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var (
			userID uuid.UUID
			err    error
		)

		if s.disableAuth {
			userID, err = uuid.Parse(r.Header.Get(userIDHeader))
			if err != nil {
				respondError(w, http.StatusUnauthorized, "invalid "+userIDHeader+" header")
				return
			}
		} else {
			userID, err = s.userFromToken(r)
			if err != nil {
				s.log.Debug("authentication failed", slog.String("path", r.URL.Path), sl.Err(err))
				respondError(w, http.StatusUnauthorized, "invalid or missing token")
				return
			}
		}

		ctx := context.WithValue(r.Context(), ctxKey{}, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *serverAPI) userFromToken(r *http.Request) (uuid.UUID, error) {
	header := r.Header.Get("Authorization")
	raw, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || strings.TrimSpace(raw) == "" {
		return uuid.Nil, errMissingToken
	}

	claims, err := ParseToken(strings.TrimSpace(raw), s.secret)
	if err != nil {
		return uuid.Nil, err
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid uid claim: %w", err)
	}
	return userID, nil
}

// ParseToken проверяет подпись и срок действия токена. Пустой секрет не принимается.
func ParseToken(token string, secret []byte) (*Claims, error) {
	if len(secret) == 0 {
		return nil, errEmptySecret
	}

	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}

func userIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(ctxKey{}).(uuid.UUID)
	return id, ok
}
