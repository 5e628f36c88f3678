package api

import (
	"net/http"

	"github.com/Drallee/genius-shop-editor/internal/activity"
	"github.com/Drallee/genius-shop-editor/internal/editor"
	"github.com/Drallee/genius-shop-editor/internal/model"
)

// ActivityHandler handles audit log and unsaved-change endpoints.
type ActivityHandler struct {
	Editor *editor.Editor
	Log    *activity.Log
}

type activityEntryResponse struct {
	model.ActivityLogEntry
	Summary string                 `json:"summary"`
	Changes []activity.FieldChange `json:"changes,omitempty"`
}

// List handles GET /api/activity.
func (h *ActivityHandler) List(w http.ResponseWriter, r *http.Request) {
	entries := h.Log.Entries()
	resp := make([]activityEntryResponse, len(entries))
	for i, e := range entries {
		resp[i] = activityEntryResponse{
			ActivityLogEntry: e,
			Summary:          activity.Summarize(e),
			Changes:          activity.Diff(e.Before, e.After),
		}
	}
	jsonResponse(w, http.StatusOK, resp)
}

// Rollback handles POST /api/activity/{id}/rollback.
func (h *ActivityHandler) Rollback(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())
	if err := h.Editor.Rollback(r.Context(), claims.Username, r.PathValue("id")); err != nil {
		editorError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, map[string]string{"message": "change reverted"})
}

// Clear handles DELETE /api/activity (admin only).
func (h *ActivityHandler) Clear(w http.ResponseWriter, r *http.Request) {
	if err := h.Log.Clear(r.Context()); err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to clear activity log")
		return
	}
	jsonResponse(w, http.StatusOK, map[string]string{"message": "activity log cleared"})
}

// Changes handles GET /api/changes.
func (h *ActivityHandler) Changes(w http.ResponseWriter, r *http.Request) {
	jsonResponse(w, http.StatusOK, map[string]any{
		"unsaved": h.Editor.HasUnsavedChanges(),
		"changes": h.Editor.PendingChanges(),
	})
}

// Save handles POST /api/save.
func (h *ActivityHandler) Save(w http.ResponseWriter, r *http.Request) {
	saved := h.Editor.SaveAll()
	jsonResponse(w, http.StatusOK, map[string]any{"saved": saved})
}

// Reload handles POST /api/reload.
func (h *ActivityHandler) Reload(w http.ResponseWriter, r *http.Request) {
	if err := h.Editor.Reload(); err != nil {
		jsonError(w, http.StatusInternalServerError, err.Error())
		return
	}
	jsonResponse(w, http.StatusOK, map[string]string{"message": "config reloaded"})
}
