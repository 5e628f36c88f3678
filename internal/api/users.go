package api

import (
	"database/sql"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/Drallee/genius-shop-editor/internal/model"
	"github.com/Drallee/genius-shop-editor/internal/store"
)

// UsersHandler handles user management endpoints (admin only).
type UsersHandler struct {
	DB *sql.DB
}

type createUserRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type updateUserRequest struct {
	Role string `json:"role"`
}

type resetPasswordRequest struct {
	Password string `json:"password"`
}

func validRole(role string) bool {
	return role == model.RoleAdmin || role == model.RoleEditor || role == model.RoleViewer
}

// List handles GET /api/users.
func (h *UsersHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := store.ListUsers(r.Context(), h.DB)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to list users")
		return
	}
	jsonResponse(w, http.StatusOK, users)
}

// Create handles POST /api/users.
func (h *UsersHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" {
		jsonError(w, http.StatusBadRequest, "username required")
		return
	}
	if err := model.ValidPassword(req.Password); err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}
	if !validRole(req.Role) {
		jsonError(w, http.StatusBadRequest, "invalid role")
		return
	}

	existing, err := store.GetUserByUsername(r.Context(), h.DB, req.Username)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if existing != nil && existing.DeletedAt == nil {
		jsonError(w, http.StatusConflict, "username already taken")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to hash password")
		return
	}

	user, err := store.CreateUser(r.Context(), h.DB, req.Username, string(hash), req.Role)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to create user")
		return
	}

	slog.Info("user created", "user", user.Username, "role", user.Role, "by", GetClaims(r.Context()).Username)
	jsonResponse(w, http.StatusCreated, user)
}

// Get handles GET /api/users/{id}.
func (h *UsersHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	user, err := store.GetUser(r.Context(), h.DB, id)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if user == nil || user.DeletedAt != nil {
		jsonError(w, http.StatusNotFound, "user not found")
		return
	}
	jsonResponse(w, http.StatusOK, user)
}

// Update handles PUT /api/users/{id} (role changes).
func (h *UsersHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	var req updateUserRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if !validRole(req.Role) {
		jsonError(w, http.StatusBadRequest, "invalid role")
		return
	}

	user, err := store.GetUser(r.Context(), h.DB, id)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if user == nil || user.DeletedAt != nil {
		jsonError(w, http.StatusNotFound, "user not found")
		return
	}

	// Demoting the last admin would lock everyone out of user management.
	if user.Role == model.RoleAdmin && req.Role != model.RoleAdmin {
		admins, err := store.CountAdmins(r.Context(), h.DB)
		if err != nil {
			jsonError(w, http.StatusInternalServerError, "internal error")
			return
		}
		if admins <= 1 {
			jsonError(w, http.StatusConflict, "cannot demote the last admin")
			return
		}
	}

	if err := store.UpdateUser(r.Context(), h.DB, id, req.Role); err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to update user")
		return
	}

	updated, err := store.GetUser(r.Context(), h.DB, id)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}
	jsonResponse(w, http.StatusOK, updated)
}

// ResetPassword handles PUT /api/users/{id}/password.
func (h *UsersHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	var req resetPasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := model.ValidPassword(req.Password); err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	user, err := store.GetUser(r.Context(), h.DB, id)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if user == nil || user.DeletedAt != nil {
		jsonError(w, http.StatusNotFound, "user not found")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to hash password")
		return
	}
	if err := store.UpdateUserPassword(r.Context(), h.DB, id, string(hash)); err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to update password")
		return
	}

	slog.Info("password reset", "user", user.Username, "by", GetClaims(r.Context()).Username)
	jsonResponse(w, http.StatusOK, map[string]string{"message": "password updated"})
}

// Delete handles DELETE /api/users/{id}.
func (h *UsersHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	claims := GetClaims(r.Context())
	if claims.UserID == id {
		jsonError(w, http.StatusConflict, "cannot delete your own account")
		return
	}

	user, err := store.GetUser(r.Context(), h.DB, id)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if user == nil || user.DeletedAt != nil {
		jsonError(w, http.StatusNotFound, "user not found")
		return
	}
	if user.Role == model.RoleAdmin {
		admins, err := store.CountAdmins(r.Context(), h.DB)
		if err != nil {
			jsonError(w, http.StatusInternalServerError, "internal error")
			return
		}
		if admins <= 1 {
			jsonError(w, http.StatusConflict, "cannot delete the last admin")
			return
		}
	}

	if err := store.DeleteUser(r.Context(), h.DB, id); err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to delete user")
		return
	}

	slog.Info("user deleted", "user", user.Username, "by", claims.Username)
	jsonResponse(w, http.StatusOK, map[string]string{"message": "user deleted"})
}
