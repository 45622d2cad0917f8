package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/wnddl111/organoid/internal/models"
	"github.com/wnddl111/organoid/internal/repository"
)

type PersonHandler struct {
	personRepo repository.PersonRepository
}

func NewPersonHandler(personRepo repository.PersonRepository) *PersonHandler {
	return &PersonHandler{personRepo: personRepo}
}

// List returns people in creation order together with their ordinal, the
// stable number used to tag visit assignments in the UI.
func (handler *PersonHandler) List(w http.ResponseWriter, r *http.Request) {
	people, err := handler.personRepo.FindAll(r.Context())
	if err != nil {
		slog.Error("finding people", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load people")
		return
	}

	type personWithOrdinal struct {
		models.Person
		Ordinal int `json:"ordinal"`
	}
	response := make([]personWithOrdinal, 0, len(people))
	for i, person := range people {
		response = append(response, personWithOrdinal{Person: person, Ordinal: i})
	}
	writeJSON(w, http.StatusOK, response)
}

type createPersonRequest struct {
	Name string `json:"name"`
	Note string `json:"note"`
}

func (handler *PersonHandler) Create(w http.ResponseWriter, r *http.Request) {
	var request createPersonRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if request.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	person, err := handler.personRepo.Create(r.Context(), models.Person{
		Name: request.Name,
		Note: request.Note,
	})
	if err != nil {
		slog.Error("creating person", "name", request.Name, "error", err)
		writeError(w, http.StatusConflict, "person name already exists")
		return
	}
	writeJSON(w, http.StatusCreated, person)
}

func (handler *PersonHandler) Delete(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if _, err := handler.personRepo.FindByName(r.Context(), name); err != nil {
		writeError(w, http.StatusNotFound, "person not found")
		return
	}
	if err := handler.personRepo.Delete(r.Context(), name); err != nil {
		slog.Error("deleting person", "name", name, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete person")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
