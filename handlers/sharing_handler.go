package handlers

import (
	"errors"
	"net/http"

	"github.com/jamietsang/courtlog/middleware"
	"github.com/jamietsang/courtlog/services"
)

type SharingHandler struct {
	sharing services.SharingService
}

func NewSharingHandler(sharing services.SharingService) *SharingHandler {
	return &SharingHandler{sharing: sharing}
}

type shareRequest struct {
	TournamentID int    `json:"tournament_id"`
	User         string `json:"user"`
}

func (h *SharingHandler) Share(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, err.Error())
		return
	}

	var input shareRequest
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if input.TournamentID <= 0 || input.User == "" {
		badRequestResponse(w, r, errors.New("tournament_id and user are required"))
		return
	}

	share, err := h.sharing.ShareTournament(r.Context(), userID, input.TournamentID, input.User)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"share": share}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *SharingHandler) Unshare(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, err.Error())
		return
	}
	shareID, err := idParam(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.sharing.Unshare(r.Context(), shareID, userID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *SharingHandler) ListIncoming(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, err.Error())
		return
	}

	shares, err := h.sharing.ListIncoming(r.Context(), userID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"shares": shares}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *SharingHandler) ListOutgoing(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, err.Error())
		return
	}

	shares, err := h.sharing.ListOutgoing(r.Context(), userID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"shares": shares}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
