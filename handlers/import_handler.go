package handlers

import (
	"errors"
	"net/http"

	"github.com/jamietsang/courtlog/middleware"
	"github.com/jamietsang/courtlog/services"
)

const maxUploadBytes = 10 << 20 // 10MB

type ImportHandler struct {
	importService services.ImportService
}

func NewImportHandler(importService services.ImportService) *ImportHandler {
	return &ImportHandler{importService: importService}
}

// ImportPlayers accepts a multipart form with a "file" part: a roster CSV
// of one player name per row.
func (h *ImportHandler) ImportPlayers(w http.ResponseWriter, r *http.Request) {
	if _, err := middleware.GetUserIDFromContext(r.Context()); err != nil {
		unauthorizedResponse(w, r, err.Error())
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		badRequestResponse(w, r, errors.New("expected a multipart form upload"))
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		badRequestResponse(w, r, errors.New("missing file part"))
		return
	}
	defer file.Close()

	summary, err := h.importService.ImportPlayers(r.Context(), file, header.Filename)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"import": summary}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ImportResults accepts a multipart form: a "file" CSV part plus
// tournament_name, date and optional location fields.
func (h *ImportHandler) ImportResults(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, err.Error())
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		badRequestResponse(w, r, errors.New("expected a multipart form upload"))
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		badRequestResponse(w, r, errors.New("missing file part"))
		return
	}
	defer file.Close()

	input := services.ImportResultsInput{
		TournamentName: r.FormValue("tournament_name"),
		Date:           r.FormValue("date"),
		Location:       r.FormValue("location"),
		Filename:       header.Filename,
		UserID:         userID,
	}

	summary, err := h.importService.ImportResults(r.Context(), file, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"import": summary}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
