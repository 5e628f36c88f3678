package api

import (
	"net/http"

	"github.com/Drallee/genius-shop-editor/internal/editor"
	"github.com/Drallee/genius-shop-editor/internal/model"
)

// MenuHandler handles main menu endpoints.
type MenuHandler struct {
	Editor *editor.Editor
}

type menuSettingsRequest struct {
	Title string `json:"title"`
	Rows  int    `json:"rows"`
}

// Get handles GET /api/menu.
func (h *MenuHandler) Get(w http.ResponseWriter, r *http.Request) {
	menu, err := h.Editor.MainMenu()
	if err != nil {
		editorError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, menu)
}

// UpdateSettings handles PUT /api/menu/settings.
func (h *MenuHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req menuSettingsRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	claims := GetClaims(r.Context())
	if err := h.Editor.UpdateMenuSettings(r.Context(), claims.Username, req.Title, req.Rows); err != nil {
		editorError(w, err)
		return
	}
	h.Get(w, r)
}

// CreateButton handles POST /api/menu/buttons.
func (h *MenuHandler) CreateButton(w http.ResponseWriter, r *http.Request) {
	var button model.MainMenuButton
	if err := decodeJSON(r, &button); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	claims := GetClaims(r.Context())
	if err := h.Editor.AddButton(r.Context(), claims.Username, button); err != nil {
		editorError(w, err)
		return
	}
	jsonResponse(w, http.StatusCreated, button)
}

// UpdateButton handles PUT /api/menu/buttons/{key}.
func (h *MenuHandler) UpdateButton(w http.ResponseWriter, r *http.Request) {
	var button model.MainMenuButton
	if err := decodeJSON(r, &button); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	claims := GetClaims(r.Context())
	key := r.PathValue("key")
	if err := h.Editor.UpdateButton(r.Context(), claims.Username, key, button); err != nil {
		editorError(w, err)
		return
	}
	button.Key = key
	jsonResponse(w, http.StatusOK, button)
}

// DeleteButton handles DELETE /api/menu/buttons/{key}.
func (h *MenuHandler) DeleteButton(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())
	if err := h.Editor.RemoveButton(r.Context(), claims.Username, r.PathValue("key")); err != nil {
		editorError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, map[string]string{"message": "button deleted"})
}
