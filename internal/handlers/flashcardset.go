package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"flashpro-backend/internal/models"
	"flashpro-backend/internal/services"
	"flashpro-backend/internal/store"
)

type FlashcardSetHandler struct {
	store *store.Store
}

func NewFlashcardSetHandler(st *store.Store) *FlashcardSetHandler {
	return &FlashcardSetHandler{store: st}
}

// List returns the derived filtered/sorted view. Query parameters
// update the store's current criteria; omitted ones keep their last
// value.
func (h *FlashcardSetHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	if q.Has("search") {
		h.store.SetSearchTerm(q.Get("search"))
	}
	if q.Has("sort") {
		opt := store.SortOption(q.Get("sort"))
		if !opt.Valid() {
			writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", fmt.Sprintf("Unknown sort option %q", q.Get("sort")), r))
			return
		}
		h.store.SetSortBy(opt)
	}
	if q.Has("filter") {
		opt := store.FilterOption(q.Get("filter"))
		if !opt.Valid() {
			writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", fmt.Sprintf("Unknown filter option %q", q.Get("filter")), r))
			return
		}
		h.store.SetFilterBy(opt)
	}

	view := h.store.View()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"sets":  view,
		"total": h.store.Len(),
	})
}

// Grouped returns the whole collection partitioned by name, ignoring
// search, sort, and filter.
func (h *FlashcardSetHandler) Grouped(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"groups": h.store.Grouped(),
	})
}

// Create adds a set from caller-supplied cards (the manual path, no AI
// involved).
func (h *FlashcardSetHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateSetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	if strings.TrimSpace(req.Name) == "" {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "name is required", r))
		return
	}
	if req.Priority != "" && !req.Priority.Valid() {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "priority must be low, medium or high", r))
		return
	}

	set := h.store.Add(req.Name, req.Cards, req.Priority, req.IsRead)
	writeJSON(w, http.StatusCreated, map[string]interface{}{"set": set})
}

func (h *FlashcardSetHandler) Get(w http.ResponseWriter, r *http.Request) {
	set, ok := h.store.Get(chi.URLParam(r, "id"))
	if !ok {
		handleServiceError(w, r, &services.NotFoundError{Message: "Set not found"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"set": set})
}

// Update merges the supplied fields into the set. Absent fields stay
// untouched; a supplied cards list replaces the old one wholesale.
func (h *FlashcardSetHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateSetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	if req.Priority != nil && !req.Priority.Valid() {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "priority must be low, medium or high", r))
		return
	}
	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "name must not be empty", r))
		return
	}

	set, ok := h.store.Update(chi.URLParam(r, "id"), store.SetUpdate{
		Name:     req.Name,
		Cards:    req.Cards,
		Priority: req.Priority,
		IsRead:   req.IsRead,
	})
	if !ok {
		handleServiceError(w, r, &services.NotFoundError{Message: "Set not found"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"set": set})
}

func (h *FlashcardSetHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if !h.store.Remove(chi.URLParam(r, "id")) {
		handleServiceError(w, r, &services.NotFoundError{Message: "Set not found"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Set deleted"})
}

// Export streams one set as a plain-text download.
func (h *FlashcardSetHandler) Export(w http.ResponseWriter, r *http.Request) {
	set, ok := h.store.Get(chi.URLParam(r, "id"))
	if !ok {
		handleServiceError(w, r, &services.NotFoundError{Message: "Set not found"})
		return
	}

	filename := services.ExportFilename(set.Name)
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Write([]byte(services.RenderSetExport(set)))
}
