package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/jamietsang/courtlog/middleware"
	"github.com/jamietsang/courtlog/services"
)

type AnalyticsHandler struct {
	analytics services.AnalyticsService
}

func NewAnalyticsHandler(analytics services.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analytics: analytics}
}

// scope resolves the caller's user id as the aggregation scope.
func scope(r *http.Request) (*int, error) {
	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		return nil, err
	}
	return &userID, nil
}

func (h *AnalyticsHandler) GetPlayerStats(w http.ResponseWriter, r *http.Request) {
	userID, err := scope(r)
	if err != nil {
		unauthorizedResponse(w, r, err.Error())
		return
	}
	playerID, err := idParam(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	stats, err := h.analytics.PlayerStats(r.Context(), playerID, userID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"player": stats}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *AnalyticsHandler) GetAllPlayerStats(w http.ResponseWriter, r *http.Request) {
	userID, err := scope(r)
	if err != nil {
		unauthorizedResponse(w, r, err.Error())
		return
	}

	stats, err := h.analytics.AllPlayerStats(r.Context(), userID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"players": stats}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *AnalyticsHandler) GetTournamentStats(w http.ResponseWriter, r *http.Request) {
	userID, err := scope(r)
	if err != nil {
		unauthorizedResponse(w, r, err.Error())
		return
	}
	tournamentID, err := idParam(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	stats, err := h.analytics.TournamentStats(r.Context(), tournamentID, userID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"tournament": stats}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *AnalyticsHandler) GetAllTournamentStats(w http.ResponseWriter, r *http.Request) {
	userID, err := scope(r)
	if err != nil {
		unauthorizedResponse(w, r, err.Error())
		return
	}

	stats, err := h.analytics.AllTournamentStats(r.Context(), userID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"tournaments": stats}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *AnalyticsHandler) GetHeadToHead(w http.ResponseWriter, r *http.Request) {
	if _, err := scope(r); err != nil {
		unauthorizedResponse(w, r, err.Error())
		return
	}

	query := r.URL.Query()
	player1ID, err1 := strconv.Atoi(query.Get("player1"))
	player2ID, err2 := strconv.Atoi(query.Get("player2"))
	if err1 != nil || err2 != nil || player1ID <= 0 || player2ID <= 0 {
		badRequestResponse(w, r, errors.New("player1 and player2 query parameters are required"))
		return
	}

	h2h, err := h.analytics.HeadToHead(r.Context(), player1ID, player2ID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	// The limit truncates the presented match list only; the aggregate
	// totals always cover every qualifying match.
	if raw := query.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			badRequestResponse(w, r, errors.New("invalid limit parameter"))
			return
		}
		if limit < len(h2h.Matches) {
			h2h.Matches = h2h.Matches[:limit]
		}
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"head_to_head": h2h}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *AnalyticsHandler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	userID, err := scope(r)
	if err != nil {
		unauthorizedResponse(w, r, err.Error())
		return
	}

	dashboard, err := h.analytics.Dashboard(r.Context(), userID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"dashboard": dashboard}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
