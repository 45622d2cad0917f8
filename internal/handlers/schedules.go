package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/wnddl111/organoid/internal/models"
	"github.com/wnddl111/organoid/internal/repository"
	"github.com/wnddl111/organoid/internal/services"
)

const defaultRecommendLimit = 5

type ScheduleHandler struct {
	scheduleRepo repository.ScheduleRepository
	templateRepo repository.TemplateRepository
}

func NewScheduleHandler(scheduleRepo repository.ScheduleRepository, templateRepo repository.TemplateRepository) *ScheduleHandler {
	return &ScheduleHandler{scheduleRepo: scheduleRepo, templateRepo: templateRepo}
}

func (handler *ScheduleHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := repository.ScheduleFilter{}
	if status := r.URL.Query().Get("status"); status != "" {
		s := models.ScheduleStatus(status)
		filter.Status = &s
	}

	schedules, err := handler.scheduleRepo.FindAll(r.Context(), filter)
	if err != nil {
		slog.Error("finding schedules", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load schedules")
		return
	}
	writeJSON(w, http.StatusOK, schedules)
}

func (handler *ScheduleHandler) Get(w http.ResponseWriter, r *http.Request) {
	schedule, err := handler.scheduleRepo.FindByName(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		writeError(w, http.StatusNotFound, "schedule not found")
		return
	}
	writeJSON(w, http.StatusOK, schedule)
}

type recommendRequest struct {
	TemplateName string `json:"template_name"`
	BaseDate     string `json:"base_date"`
	WindowDays   int    `json:"window_days"`
	Limit        int    `json:"limit"`
}

// Recommend ranks every start date in the requested window. The full
// ranking is computed engine-side; only presentation is truncated here.
func (handler *ScheduleHandler) Recommend(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var request recommendRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	baseDate, err := time.Parse("2006-01-02", request.BaseDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "base_date must be YYYY-MM-DD")
		return
	}

	template, err := handler.templateRepo.FindByName(ctx, request.TemplateName)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown template %q", request.TemplateName))
			return
		}
		slog.Error("finding template", "name", request.TemplateName, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load template")
		return
	}

	existing, err := handler.scheduleRepo.FindAll(ctx, repository.ScheduleFilter{})
	if err != nil {
		slog.Error("finding schedules", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load schedules")
		return
	}

	candidates, err := services.RecommendStartDates(baseDate, request.WindowDays, template, existing)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	limit := request.Limit
	if limit <= 0 {
		limit = defaultRecommendLimit
	}
	if limit > len(candidates) {
		limit = len(candidates)
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"window_days": request.WindowDays,
		"evaluated":   len(candidates),
		"candidates":  candidates[:limit],
	})
}

type createScheduleRequest struct {
	Name         string `json:"name"`
	TemplateName string `json:"template_name"`
	StartDate    string `json:"start_date"`
}

// Create commits a chosen start date: visits are generated, the weekend
// count is cached, and the schedule is persisted active in one step. The
// response carries a fresh overlap report against the other lines.
func (handler *ScheduleHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var request createScheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if request.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	startDate, err := time.Parse("2006-01-02", request.StartDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "start_date must be YYYY-MM-DD")
		return
	}

	template, err := handler.templateRepo.FindByName(ctx, request.TemplateName)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown template %q", request.TemplateName))
			return
		}
		slog.Error("finding template", "name", request.TemplateName, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load template")
		return
	}

	if _, err := handler.scheduleRepo.FindByName(ctx, request.Name); err == nil {
		writeError(w, http.StatusConflict, "schedule name already exists")
		return
	} else if !errors.Is(err, sql.ErrNoRows) {
		slog.Error("checking schedule name", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create schedule")
		return
	}

	visits, err := services.GenerateVisits(startDate, template)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	existing, err := handler.scheduleRepo.FindAll(ctx, repository.ScheduleFilter{})
	if err != nil {
		slog.Error("finding schedules", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load schedules")
		return
	}
	overlaps := services.FindOverlaps(visits, existing)

	created, err := handler.scheduleRepo.Create(ctx, models.Schedule{
		Name:         request.Name,
		TemplateName: template.Name,
		StartDate:    startDate,
		Status:       models.ScheduleStatusActive,
		WeekendCount: services.CountWeekendVisits(visits),
		Visits:       visits,
	})
	if err != nil {
		slog.Error("creating schedule", "name", request.Name, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create schedule")
		return
	}

	slog.Info("schedule created", "name", created.Name, "template", created.TemplateName, "start", request.StartDate, "visits", len(created.Visits))
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"schedule": created,
		"overlaps": overlaps,
	})
}

func (handler *ScheduleHandler) Complete(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if err := handler.scheduleRepo.Complete(r.Context(), name); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeError(w, http.StatusNotFound, "schedule not found")
			return
		}
		slog.Error("completing schedule", "name", name, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to complete schedule")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (handler *ScheduleHandler) Delete(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if _, err := handler.scheduleRepo.FindByName(r.Context(), name); err != nil {
		writeError(w, http.StatusNotFound, "schedule not found")
		return
	}
	if err := handler.scheduleRepo.Delete(r.Context(), name); err != nil {
		slog.Error("deleting schedule", "name", name, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete schedule")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Overlaps recomputes the overlap report for a stored schedule against the
// current set of other lines. Nothing is cached; deleted or completed
// lines drop out of the report immediately.
func (handler *ScheduleHandler) Overlaps(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	name := chi.URLParam(r, "name")

	schedule, err := handler.scheduleRepo.FindByName(ctx, name)
	if err != nil {
		writeError(w, http.StatusNotFound, "schedule not found")
		return
	}

	all, err := handler.scheduleRepo.FindAll(ctx, repository.ScheduleFilter{})
	if err != nil {
		slog.Error("finding schedules", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load schedules")
		return
	}

	others := make([]models.Schedule, 0, len(all))
	for _, other := range all {
		if other.Name != schedule.Name {
			others = append(others, other)
		}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"schedule": schedule.Name,
		"overlaps": services.FindOverlaps(schedule.Visits, others),
	})
}

type updateVisitRequest struct {
	Memo           *string  `json:"memo"`
	AssignedPeople []string `json:"assigned_people"`
	ProtocolDay    *int     `json:"protocol_day"`
	ClearProtocol  bool     `json:"clear_protocol"`
}

func (handler *ScheduleHandler) UpdateVisit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	name := chi.URLParam(r, "name")
	visitID := chi.URLParam(r, "visitID")

	var request updateVisitRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	schedule, err := handler.scheduleRepo.FindByName(ctx, name)
	if err != nil {
		writeError(w, http.StatusNotFound, "schedule not found")
		return
	}

	var visit *models.Visit
	for i := range schedule.Visits {
		if schedule.Visits[i].ID == visitID {
			visit = &schedule.Visits[i]
			break
		}
	}
	if visit == nil {
		writeError(w, http.StatusNotFound, "visit not found")
		return
	}

	if request.Memo != nil {
		visit.Memo = *request.Memo
	}
	if request.AssignedPeople != nil {
		visit.AssignedPeople = request.AssignedPeople
	}
	if request.ClearProtocol {
		visit.ProtocolDay = nil
	} else if request.ProtocolDay != nil {
		visit.ProtocolDay = request.ProtocolDay
	}

	if err := handler.scheduleRepo.UpdateVisit(ctx, name, *visit); err != nil {
		slog.Error("updating visit", "schedule", name, "visit", visitID, "error", err)
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, visit)
}
