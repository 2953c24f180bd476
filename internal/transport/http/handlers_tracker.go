package httptransport

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"tracker-gateway/internal/auth/guard"
	"tracker-gateway/internal/teamdeck"
	"tracker-gateway/internal/transport/httpjson"
	"tracker-gateway/pkg/domain"
	dErrors "tracker-gateway/pkg/domain-errors"
)

// requireSession resolves the authenticated resource or writes the uniform
// 401. Every guarded handler goes through here; the denial never says why.
func (h *Handler) requireSession(w http.ResponseWriter, r *http.Request) (domain.ResourceID, bool) {
	resourceID, err := guard.Check(r.Context())
	if err != nil {
		if h.metrics != nil {
			h.metrics.IncrementGuardRejections()
		}
		writeError(w, err)
		return 0, false
	}
	return resourceID, true
}

func (h *Handler) handleGetResource(w http.ResponseWriter, r *http.Request) {
	id, err := domain.ParseResourceID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	resource, err := h.tracker.GetResourceByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	httpjson.Write(w, http.StatusOK, resource)
}

func (h *Handler) handleListProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := h.tracker.GetProjects(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	httpjson.Write(w, http.StatusOK, projects)
}

func (h *Handler) handleListTags(w http.ResponseWriter, r *http.Request) {
	tags, err := h.tracker.GetTimeEntryTags(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	httpjson.Write(w, http.StatusOK, tags)
}

func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	resourceID, ok := h.requireSession(w, r)
	if !ok {
		return
	}

	resource, err := h.tracker.GetResourceByID(r.Context(), resourceID)
	if err != nil {
		writeError(w, err)
		return
	}
	httpjson.Write(w, http.StatusOK, resource)
}

func (h *Handler) handleListTimeEntries(w http.ResponseWriter, r *http.Request) {
	resourceID, ok := h.requireSession(w, r)
	if !ok {
		return
	}

	var date *teamdeck.Date
	if raw := r.URL.Query().Get("date"); raw != "" {
		parsed, err := teamdeck.ParseDate(raw)
		if err != nil {
			writeError(w, dErrors.New(dErrors.CodeInvalidInput, "date must be formatted as YYYY-MM-DD"))
			return
		}
		date = &parsed
	}

	entries, err := h.tracker.GetTimeEntries(r.Context(), resourceID, date)
	if err != nil {
		writeError(w, err)
		return
	}
	httpjson.Write(w, http.StatusOK, entries)
}

type createTimeEntryBody struct {
	ProjectID        domain.ProjectID `json:"project_id"`
	Minutes          uint64           `json:"minutes"`
	Description      *string          `json:"description"`
	StartDate        *teamdeck.Date   `json:"start_date"`
	EndDate          *teamdeck.Date   `json:"end_date"`
	WeekendBooking   *bool            `json:"weekend_booking"`
	HolidaysBooking  *bool            `json:"holidays_booking"`
	VacationsBooking *bool            `json:"vacations_booking"`
	TagIDs           []domain.TagID   `json:"tag_ids"`
}

func (h *Handler) handleCreateTimeEntry(w http.ResponseWriter, r *http.Request) {
	resourceID, ok := h.requireSession(w, r)
	if !ok {
		return
	}

	var body createTimeEntryBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, dErrors.New(dErrors.CodeInvalidInput, "invalid request body"))
		return
	}
	if body.ProjectID.IsZero() || body.StartDate == nil || body.EndDate == nil {
		writeError(w, dErrors.New(dErrors.CodeInvalidInput, "project_id, start_date and end_date are required"))
		return
	}

	// Creator and editor are pinned to the session; clients cannot book
	// time on behalf of another resource.
	entry, err := h.tracker.CreateTimeEntry(r.Context(), &teamdeck.CreateTimeEntryRequest{
		ResourceID:        resourceID,
		ProjectID:         body.ProjectID,
		Minutes:           body.Minutes,
		Description:       body.Description,
		StartDate:         *body.StartDate,
		EndDate:           *body.EndDate,
		WeekendBooking:    body.WeekendBooking,
		HolidaysBooking:   body.HolidaysBooking,
		VacationsBooking:  body.VacationsBooking,
		CreatorResourceID: resourceID,
		EditorResourceID:  resourceID,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	if body.TagIDs != nil {
		entry, err = h.tracker.UpdateTimeEntryTags(r.Context(), entry.ID, body.TagIDs)
		if err != nil {
			writeError(w, err)
			return
		}
	}
	httpjson.Write(w, http.StatusCreated, entry)
}

type updateTimeEntryBody struct {
	ProjectID        *domain.ProjectID `json:"project_id"`
	Minutes          *uint64           `json:"minutes"`
	Description      *string           `json:"description"`
	StartDate        *teamdeck.Date    `json:"start_date"`
	EndDate          *teamdeck.Date    `json:"end_date"`
	WeekendBooking   *bool             `json:"weekend_booking"`
	HolidaysBooking  *bool             `json:"holidays_booking"`
	VacationsBooking *bool             `json:"vacations_booking"`
	// TagIDs replaces the entry's tag set when present; nil leaves it alone.
	TagIDs []domain.TagID `json:"tag_ids"`
}

func (h *Handler) handleUpdateTimeEntry(w http.ResponseWriter, r *http.Request) {
	resourceID, ok := h.requireSession(w, r)
	if !ok {
		return
	}

	id, err := domain.ParseTimeEntryID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	var body updateTimeEntryBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, dErrors.New(dErrors.CodeInvalidInput, "invalid request body"))
		return
	}

	existing, err := h.tracker.GetTimeEntryByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	if existing.ResourceID != resourceID {
		writeError(w, dErrors.New(dErrors.CodeUnauthorized, "time entry belongs to another resource"))
		return
	}

	update := &teamdeck.UpdateTimeEntryRequest{
		ProjectID:        existing.ProjectID,
		Minutes:          existing.Minutes,
		Description:      existing.Description,
		StartDate:        existing.StartDate,
		EndDate:          existing.EndDate,
		EditorResourceID: resourceID,
	}
	if body.ProjectID != nil {
		update.ProjectID = *body.ProjectID
	}
	if body.Minutes != nil {
		update.Minutes = *body.Minutes
	}
	if body.Description != nil {
		update.Description = body.Description
	}
	if body.StartDate != nil {
		update.StartDate = *body.StartDate
	}
	if body.EndDate != nil {
		update.EndDate = *body.EndDate
	}
	update.WeekendBooking = body.WeekendBooking
	update.HolidaysBooking = body.HolidaysBooking
	update.VacationsBooking = body.VacationsBooking

	entry, err := h.tracker.UpdateTimeEntry(r.Context(), id, update)
	if err != nil {
		writeError(w, err)
		return
	}

	if body.TagIDs != nil {
		entry, err = h.tracker.UpdateTimeEntryTags(r.Context(), id, body.TagIDs)
		if err != nil {
			writeError(w, err)
			return
		}
	}
	httpjson.Write(w, http.StatusOK, entry)
}

func (h *Handler) handleCurrentTimer(w http.ResponseWriter, r *http.Request) {
	resourceID, ok := h.requireSession(w, r)
	if !ok {
		return
	}

	timer, err := h.tracker.GetCurrentTimer(r.Context(), resourceID)
	if err != nil {
		writeError(w, err)
		return
	}
	if timer == nil {
		writeError(w, dErrors.New(dErrors.CodeNotFound, "no timer is currently running"))
		return
	}
	httpjson.Write(w, http.StatusOK, timer)
}
