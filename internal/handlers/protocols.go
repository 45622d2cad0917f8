package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/wnddl111/organoid/internal/models"
	"github.com/wnddl111/organoid/internal/repository"
)

type ProtocolHandler struct {
	protocolRepo repository.ProtocolRepository
}

func NewProtocolHandler(protocolRepo repository.ProtocolRepository) *ProtocolHandler {
	return &ProtocolHandler{protocolRepo: protocolRepo}
}

func (handler *ProtocolHandler) List(w http.ResponseWriter, r *http.Request) {
	protocols, err := handler.protocolRepo.FindByTemplate(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		slog.Error("finding protocols", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load protocols")
		return
	}
	writeJSON(w, http.StatusOK, protocols)
}

// Get looks a protocol up by its (template, day) key. A missing protocol
// is a plain 404; visit references are weak and callers render "no
// protocol" instead of failing.
func (handler *ProtocolHandler) Get(w http.ResponseWriter, r *http.Request) {
	day, err := strconv.Atoi(chi.URLParam(r, "day"))
	if err != nil || day < 0 {
		writeError(w, http.StatusBadRequest, "day must be a non-negative integer")
		return
	}

	protocol, err := handler.protocolRepo.Find(r.Context(), chi.URLParam(r, "name"), day)
	if err != nil {
		writeError(w, http.StatusNotFound, "protocol not found")
		return
	}
	writeJSON(w, http.StatusOK, protocol)
}

type upsertProtocolRequest struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

func (handler *ProtocolHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	day, err := strconv.Atoi(chi.URLParam(r, "day"))
	if err != nil || day < 0 {
		writeError(w, http.StatusBadRequest, "day must be a non-negative integer")
		return
	}

	var request upsertProtocolRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if request.Title == "" {
		writeError(w, http.StatusBadRequest, "title is required")
		return
	}

	protocol := models.Protocol{
		TemplateName: chi.URLParam(r, "name"),
		Day:          day,
		Title:        request.Title,
		Body:         request.Body,
	}
	if err := handler.protocolRepo.Upsert(r.Context(), protocol); err != nil {
		slog.Error("upserting protocol", "template", protocol.TemplateName, "day", day, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to save protocol")
		return
	}
	writeJSON(w, http.StatusOK, protocol)
}

func (handler *ProtocolHandler) Delete(w http.ResponseWriter, r *http.Request) {
	day, err := strconv.Atoi(chi.URLParam(r, "day"))
	if err != nil || day < 0 {
		writeError(w, http.StatusBadRequest, "day must be a non-negative integer")
		return
	}

	if err := handler.protocolRepo.Delete(r.Context(), chi.URLParam(r, "name"), day); err != nil {
		slog.Error("deleting protocol", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete protocol")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
