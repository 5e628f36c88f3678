package api

import (
	"net/http"

	"github.com/Drallee/genius-shop-editor/internal/editor"
	"github.com/Drallee/genius-shop-editor/internal/model"
)

// TransactionHandler handles purchase/sell menu endpoints.
type TransactionHandler struct {
	Editor *editor.Editor
}

// Get handles GET /api/transaction/{kind}.
func (h *TransactionHandler) Get(w http.ResponseWriter, r *http.Request) {
	settings, err := h.Editor.TransactionSettings(r.PathValue("kind"))
	if err != nil {
		editorError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, settings)
}

// Update handles PUT /api/transaction/{kind}.
func (h *TransactionHandler) Update(w http.ResponseWriter, r *http.Request) {
	var settings model.TransactionMenuSettings
	if err := decodeJSON(r, &settings); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	claims := GetClaims(r.Context())
	kind := r.PathValue("kind")
	if err := h.Editor.UpdateTransactionSettings(r.Context(), claims.Username, kind, &settings); err != nil {
		editorError(w, err)
		return
	}

	updated, err := h.Editor.TransactionSettings(kind)
	if err != nil {
		editorError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, updated)
}
