package recommendhttp

import (
	"errors"
	"log/slog"
	"net/http"

	"housing_recommender/internal/domain"
	"housing_recommender/internal/lib/logger/sl"

	"github.com/google/uuid"
)

func (s *serverAPI) userRecommendations(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.pathUser(w, r)
	if !ok {
		return
	}
	s.recommendationsFor(w, r, userID)
}

// pathUser читает {userID} из пути и сверяет его с аутентифицированным пользователем.
func (s *serverAPI) pathUser(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	userID, err := parseUUIDParam(r, "userID")
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return uuid.Nil, false
	}

	authed, ok := userIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "user is not authenticated")
		return uuid.Nil, false
	}
	if authed != userID {
		s.log.Debug("access to another user denied",
			slog.String("path", r.URL.Path),
			slog.String("user_id", authed.String()),
			sl.Err(errForeignUserID),
		)
		respondError(w, http.StatusForbidden, "access to another user's data is forbidden")
		return uuid.Nil, false
	}
	return userID, true
}

func (s *serverAPI) myRecommendations(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "user is not authenticated")
		return
	}
	s.recommendationsFor(w, r, userID)
}

func (s *serverAPI) recommendationsFor(w http.ResponseWriter, r *http.Request, userID uuid.UUID) {
	const op = "recommendhttp.recommendations"

	limit, err := s.parseLimit(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := s.requestContext(r)
	defer cancel()

	items, err := s.recommend.RecommendForUser(ctx, userID, limit)
	degraded := s.degraded(op, err)

	respondJSON(w, http.StatusOK, recommendationsResponse{
		UserID:   userID.String(),
		Items:    scoredCandidatesToDTO(items),
		Count:    len(items),
		Degraded: degraded,
	})
}

func (s *serverAPI) userProfile(w http.ResponseWriter, r *http.Request) {
	const op = "recommendhttp.userProfile"

	userID, ok := s.pathUser(w, r)
	if !ok {
		return
	}

	ctx, cancel := s.requestContext(r)
	defer cancel()

	p, err := s.recommend.BuildProfile(ctx, userID)
	degraded := s.degraded(op, err)

	respondJSON(w, http.StatusOK, profileResponse{
		Profile:  profileToDTO(p),
		Degraded: degraded,
	})
}

func (s *serverAPI) trendingListings(w http.ResponseWriter, r *http.Request) {
	const op = "recommendhttp.trendingListings"

	limit, err := s.parseLimit(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := s.requestContext(r)
	defer cancel()

	items, err := s.trending.GetTrending(ctx, limit)
	degraded := s.degraded(op, err)

	respondJSON(w, http.StatusOK, trendingResponse{
		Items:    trendingToDTO(items),
		Count:    len(items),
		Degraded: degraded,
	})
}

func (s *serverAPI) similarListings(w http.ResponseWriter, r *http.Request) {
	const op = "recommendhttp.similarListings"

	listingID, err := parseUUIDParam(r, "listingID")
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	limit, err := s.parseLimit(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := s.requestContext(r)
	defer cancel()

	items, err := s.similar.GetSimilarListings(ctx, listingID, limit)
	degraded := s.degraded(op, err)

	respondJSON(w, http.StatusOK, similarResponse{
		ListingID: listingID.String(),
		Items:     similarToDTO(items),
		Count:     len(items),
		Degraded:  degraded,
	})
}

func (s *serverAPI) statsHandler(w http.ResponseWriter, _ *http.Request) {
	resp := statsResponse{Breakers: make(map[string]string, len(s.breakers))}
	if s.stats != nil {
		resp.Operations = s.stats.GetStats()
	}
	for _, b := range s.breakers {
		resp.Breakers[b.Name()] = b.State().String()
	}
	respondJSON(w, http.StatusOK, resp)
}

// degraded логирует ошибку сервиса и сообщает, что выдача неполная.
// Ошибка сервиса не превращается в 5xx.
func (s *serverAPI) degraded(op string, err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, domain.ErrDataUnavailable) {
		s.log.Warn("serving degraded response", slog.String("op", op), sl.Err(err))
	} else {
		s.log.Error("unexpected service error", slog.String("op", op), sl.Err(err))
	}
	return true
}
