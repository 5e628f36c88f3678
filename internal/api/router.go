package api

import (
	"database/sql"
	"net/http"

	"github.com/Drallee/genius-shop-editor/internal/activity"
	"github.com/Drallee/genius-shop-editor/internal/editor"
	"github.com/Drallee/genius-shop-editor/internal/model"
)

// NewRouter creates the API router with all endpoints registered.
func NewRouter(db *sql.DB, jwtSecret string, ed *editor.Editor, log *activity.Log) http.Handler {
	mux := http.NewServeMux()

	authHandler := &AuthHandler{DB: db, JWTSecret: jwtSecret}
	usersHandler := &UsersHandler{DB: db}
	shopsHandler := &ShopsHandler{Editor: ed}
	menuHandler := &MenuHandler{Editor: ed}
	txHandler := &TransactionHandler{Editor: ed}
	activityHandler := &ActivityHandler{Editor: ed, Log: log}

	authMW := AuthMiddleware(jwtSecret, db)
	requireAdmin := RequireRole(model.RoleAdmin)
	requireEditor := RequireRole(model.RoleEditor)

	// Public: login.
	mux.HandleFunc("POST /api/auth/login", authHandler.Login)

	// Authenticated routes.
	mux.Handle("PUT /api/auth/password", authMW(http.HandlerFunc(authHandler.ChangePassword)))
	mux.Handle("POST /api/auth/logout", authMW(http.HandlerFunc(authHandler.Logout)))

	// Users (admin only).
	mux.Handle("GET /api/users", authMW(requireAdmin(http.HandlerFunc(usersHandler.List))))
	mux.Handle("POST /api/users", authMW(requireAdmin(http.HandlerFunc(usersHandler.Create))))
	mux.Handle("GET /api/users/{id}", authMW(requireAdmin(http.HandlerFunc(usersHandler.Get))))
	mux.Handle("PUT /api/users/{id}", authMW(requireAdmin(http.HandlerFunc(usersHandler.Update))))
	mux.Handle("PUT /api/users/{id}/password", authMW(requireAdmin(http.HandlerFunc(usersHandler.ResetPassword))))
	mux.Handle("DELETE /api/users/{id}", authMW(requireAdmin(http.HandlerFunc(usersHandler.Delete))))

	// Shop files: read (all roles), write (editor+), delete (admin).
	mux.Handle("GET /api/shops", authMW(http.HandlerFunc(shopsHandler.List)))
	mux.Handle("POST /api/shops", authMW(requireEditor(http.HandlerFunc(shopsHandler.Create))))
	mux.Handle("DELETE /api/shops/{name}", authMW(requireAdmin(http.HandlerFunc(shopsHandler.Delete))))
	mux.Handle("GET /api/shops/current", authMW(http.HandlerFunc(shopsHandler.Current)))
	mux.Handle("PUT /api/shops/current", authMW(requireEditor(http.HandlerFunc(shopsHandler.Select))))
	mux.Handle("PUT /api/shops/current/settings", authMW(requireEditor(http.HandlerFunc(shopsHandler.UpdateSettings))))

	// Shop items (editor+).
	mux.Handle("POST /api/shops/current/items", authMW(requireEditor(http.HandlerFunc(shopsHandler.CreateItem))))
	mux.Handle("PUT /api/shops/current/items/{id}", authMW(requireEditor(http.HandlerFunc(shopsHandler.UpdateItem))))
	mux.Handle("DELETE /api/shops/current/items/{id}", authMW(requireEditor(http.HandlerFunc(shopsHandler.DeleteItem))))

	// Main menu: read (all roles), write (editor+).
	mux.Handle("GET /api/menu", authMW(http.HandlerFunc(menuHandler.Get)))
	mux.Handle("PUT /api/menu/settings", authMW(requireEditor(http.HandlerFunc(menuHandler.UpdateSettings))))
	mux.Handle("POST /api/menu/buttons", authMW(requireEditor(http.HandlerFunc(menuHandler.CreateButton))))
	mux.Handle("PUT /api/menu/buttons/{key}", authMW(requireEditor(http.HandlerFunc(menuHandler.UpdateButton))))
	mux.Handle("DELETE /api/menu/buttons/{key}", authMW(requireEditor(http.HandlerFunc(menuHandler.DeleteButton))))

	// Transaction menus: read (all roles), write (editor+).
	mux.Handle("GET /api/transaction/{kind}", authMW(http.HandlerFunc(txHandler.Get)))
	mux.Handle("PUT /api/transaction/{kind}", authMW(requireEditor(http.HandlerFunc(txHandler.Update))))

	// Activity log and saving.
	mux.Handle("GET /api/activity", authMW(http.HandlerFunc(activityHandler.List)))
	mux.Handle("POST /api/activity/{id}/rollback", authMW(requireEditor(http.HandlerFunc(activityHandler.Rollback))))
	mux.Handle("DELETE /api/activity", authMW(requireAdmin(http.HandlerFunc(activityHandler.Clear))))
	mux.Handle("GET /api/changes", authMW(http.HandlerFunc(activityHandler.Changes)))
	mux.Handle("POST /api/save", authMW(requireEditor(http.HandlerFunc(activityHandler.Save))))
	mux.Handle("POST /api/reload", authMW(requireEditor(http.HandlerFunc(activityHandler.Reload))))

	return mux
}
