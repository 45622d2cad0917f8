package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/wnddl111/organoid/internal/models"
	"github.com/wnddl111/organoid/internal/repository"
	"github.com/wnddl111/organoid/internal/services"
)

type TemplateHandler struct {
	templateRepo repository.TemplateRepository
}

func NewTemplateHandler(templateRepo repository.TemplateRepository) *TemplateHandler {
	return &TemplateHandler{templateRepo: templateRepo}
}

func (handler *TemplateHandler) List(w http.ResponseWriter, r *http.Request) {
	templates, err := handler.templateRepo.FindAll(r.Context())
	if err != nil {
		slog.Error("finding templates", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load templates")
		return
	}
	writeJSON(w, http.StatusOK, templates)
}

func (handler *TemplateHandler) Get(w http.ResponseWriter, r *http.Request) {
	template, err := handler.templateRepo.FindByName(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		writeError(w, http.StatusNotFound, "template not found")
		return
	}
	writeJSON(w, http.StatusOK, template)
}

type createTemplateRequest struct {
	Name    string          `json:"name"`
	Periods []models.Period `json:"periods"`
}

func (handler *TemplateHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var request createTemplateRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	draft := services.NewTemplateDraft(request.Name)
	for _, period := range request.Periods {
		draft = services.AddPeriod(draft, period)
	}
	template, err := services.BuildTemplate(draft)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	if _, err := handler.templateRepo.FindByName(ctx, template.Name); err == nil {
		writeError(w, http.StatusConflict, "template name already exists")
		return
	} else if !errors.Is(err, sql.ErrNoRows) {
		slog.Error("checking template name", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create template")
		return
	}

	created, err := handler.templateRepo.Create(ctx, template)
	if err != nil {
		slog.Error("creating template", "name", template.Name, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create template")
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (handler *TemplateHandler) Delete(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if name == models.DefaultTemplateName {
		writeError(w, http.StatusForbidden, "the built-in template cannot be deleted")
		return
	}

	if _, err := handler.templateRepo.FindByName(r.Context(), name); err != nil {
		writeError(w, http.StatusNotFound, "template not found")
		return
	}

	if err := handler.templateRepo.Delete(r.Context(), name); err != nil {
		slog.Error("deleting template", "name", name, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete template")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Preview expands a template from a sample start date without persisting
// anything, so the operator can see visit totals before committing.
func (handler *TemplateHandler) Preview(w http.ResponseWriter, r *http.Request) {
	template, err := handler.templateRepo.FindByName(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		writeError(w, http.StatusNotFound, "template not found")
		return
	}

	start := time.Now().Truncate(24 * time.Hour)
	if raw := r.URL.Query().Get("start"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "start must be YYYY-MM-DD")
			return
		}
		start = parsed
	}

	visits, err := services.GenerateVisits(start, template)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"template":      template.Name,
		"start_date":    start.Format("2006-01-02"),
		"visits":        visits,
		"total_visits":  len(visits),
		"last_day":      visits[len(visits)-1].Day,
		"weekend_count": services.CountWeekendVisits(visits),
	})
}
