package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/Drallee/genius-shop-editor/internal/editor"
	"github.com/Drallee/genius-shop-editor/internal/model"
)

// ShopsHandler handles shop file and shop item endpoints.
type ShopsHandler struct {
	Editor *editor.Editor
}

type shopListResponse struct {
	Files   []string `json:"files"`
	Current string   `json:"current,omitempty"`
	Legacy  bool     `json:"legacy"`
}

type createShopRequest struct {
	Filename string `json:"filename"`
	GUIName  string `json:"gui_name"`
}

type selectShopRequest struct {
	Filename string `json:"filename"`
}

type currentShopResponse struct {
	Filename string              `json:"filename"`
	Shop     *model.ShopDocument `json:"shop"`
}

// editorError maps editor package errors to HTTP responses.
func editorError(w http.ResponseWriter, err error) {
	var conflict *editor.SlotConflictError
	switch {
	case errors.As(err, &conflict):
		jsonError(w, http.StatusConflict, err.Error())
	case errors.Is(err, editor.ErrShopExists), errors.Is(err, editor.ErrButtonExists):
		jsonError(w, http.StatusConflict, err.Error())
	case errors.Is(err, editor.ErrShopNotFound),
		errors.Is(err, editor.ErrItemNotFound),
		errors.Is(err, editor.ErrButtonNotFound),
		errors.Is(err, editor.ErrEntryNotFound),
		errors.Is(err, editor.ErrTargetNotFound):
		jsonError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, editor.ErrRollbackUnsupported):
		jsonError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, editor.ErrNoShopSelected), errors.Is(err, editor.ErrNotLoaded):
		jsonError(w, http.StatusConflict, err.Error())
	default:
		jsonError(w, http.StatusBadRequest, err.Error())
	}
}

// List handles GET /api/shops.
func (h *ShopsHandler) List(w http.ResponseWriter, r *http.Request) {
	resp := shopListResponse{
		Files:  h.Editor.ShopFiles(),
		Legacy: h.Editor.LegacyMode(),
	}
	if name, _, err := h.Editor.CurrentShop(); err == nil {
		resp.Current = name
	}
	jsonResponse(w, http.StatusOK, resp)
}

// Create handles POST /api/shops.
func (h *ShopsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createShopRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	claims := GetClaims(r.Context())
	if err := h.Editor.CreateShop(r.Context(), claims.Username, req.Filename, req.GUIName); err != nil {
		editorError(w, err)
		return
	}
	jsonResponse(w, http.StatusCreated, map[string]string{"filename": req.Filename})
}

// Delete handles DELETE /api/shops/{name}.
func (h *ShopsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())
	if err := h.Editor.DeleteShop(r.Context(), claims.Username, r.PathValue("name")); err != nil {
		editorError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, map[string]string{"message": "shop deleted"})
}

// Current handles GET /api/shops/current.
func (h *ShopsHandler) Current(w http.ResponseWriter, r *http.Request) {
	name, doc, err := h.Editor.CurrentShop()
	if err != nil {
		editorError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, currentShopResponse{Filename: name, Shop: doc})
}

// Select handles PUT /api/shops/current.
func (h *ShopsHandler) Select(w http.ResponseWriter, r *http.Request) {
	var req selectShopRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.Editor.SwitchShop(req.Filename); err != nil {
		editorError(w, err)
		return
	}
	h.Current(w, r)
}

// UpdateSettings handles PUT /api/shops/current/settings.
func (h *ShopsHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req editor.ShopSettings
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	claims := GetClaims(r.Context())
	if err := h.Editor.UpdateShopSettings(r.Context(), claims.Username, req); err != nil {
		editorError(w, err)
		return
	}
	h.Current(w, r)
}

// CreateItem handles POST /api/shops/current/items.
func (h *ShopsHandler) CreateItem(w http.ResponseWriter, r *http.Request) {
	var item model.ShopItem
	if err := decodeJSON(r, &item); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	claims := GetClaims(r.Context())
	added, err := h.Editor.AddItem(r.Context(), claims.Username, item)
	if err != nil {
		editorError(w, err)
		return
	}
	jsonResponse(w, http.StatusCreated, added)
}

// UpdateItem handles PUT /api/shops/current/items/{id}.
func (h *ShopsHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	var item model.ShopItem
	if err := decodeJSON(r, &item); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	claims := GetClaims(r.Context())
	updated, err := h.Editor.UpdateItem(r.Context(), claims.Username, id, item)
	if err != nil {
		editorError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, updated)
}

// DeleteItem handles DELETE /api/shops/current/items/{id}.
func (h *ShopsHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	claims := GetClaims(r.Context())
	if err := h.Editor.RemoveItem(r.Context(), claims.Username, id); err != nil {
		editorError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, map[string]string{"message": "item deleted"})
}
