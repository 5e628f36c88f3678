package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/Drallee/genius-shop-editor/internal/activity"
	"github.com/Drallee/genius-shop-editor/internal/db"
	"github.com/Drallee/genius-shop-editor/internal/editor"
	"github.com/Drallee/genius-shop-editor/internal/files"
	"github.com/Drallee/genius-shop-editor/internal/model"
	"github.com/Drallee/genius-shop-editor/internal/store"
)

const testJWTSecret = "test-secret"

func setupTestServer(t *testing.T) (*httptest.Server, string) {
	t.Helper()
	database := db.NewTestDB(t)

	// Config directory with one shop file.
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, files.ShopsDir), 0o755); err != nil {
		t.Fatal(err)
	}
	shopText := "gui-name: '&8Blocks'\nrows: 2\nitems:\n  -\n    material: STONE\n    price: 10.0\n"
	if err := os.WriteFile(filepath.Join(root, files.ShopsDir, "blocks.yml"), []byte(shopText), 0o644); err != nil {
		t.Fatal(err)
	}

	source, err := files.NewDir(root)
	if err != nil {
		t.Fatalf("NewDir: %v", err)
	}
	log := activity.NewLog(store.ActivitySink{DB: database})
	// Long debounce so background auto-saves cannot drain the
	// unsaved-change queue mid-test; saves happen via /api/save.
	ed := editor.New(source, log, time.Minute)
	if err := ed.LoadAll(); err != nil {
		t.Fatalf("LoadAll: %v", err)
	}

	router := NewRouter(database, testJWTSecret, ed, log)
	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	t.Cleanup(ed.Flush)

	// Create admin user.
	ctx := context.Background()
	hash, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	store.CreateUser(ctx, database, "admin", string(hash), model.RoleAdmin)

	// Get token.
	body, _ := json.Marshal(map[string]string{"username": "admin", "password": "password123"})
	resp, err := http.Post(server.URL+"/api/auth/login", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("login request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login failed: %d", resp.StatusCode)
	}

	var loginResp map[string]string
	json.NewDecoder(resp.Body).Decode(&loginResp)
	token := loginResp["token"]
	if token == "" {
		t.Fatal("empty token from login")
	}

	return server, token
}

func authRequest(method, url, token string, body any) (*http.Request, error) {
	var bodyReader *bytes.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		bodyReader = bytes.NewReader(data)
	} else {
		bodyReader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, url, bodyReader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

func doJSON(t *testing.T, req *http.Request, wantStatus int, out any) {
	t.Helper()
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != wantStatus {
		t.Fatalf("%s %s: expected %d, got %d", req.Method, req.URL.Path, wantStatus, resp.StatusCode)
	}
	if out != nil {
		json.NewDecoder(resp.Body).Decode(out)
	}
}

func TestLoginEndpoint(t *testing.T) {
	server, _ := setupTestServer(t)

	// Invalid credentials.
	body, _ := json.Marshal(map[string]string{"username": "admin", "password": "wrong"})
	resp, _ := http.Post(server.URL+"/api/auth/login", "application/json", bytes.NewReader(body))
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected 401 for bad password, got %d", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestRequiresAuth(t *testing.T) {
	server, _ := setupTestServer(t)

	resp, _ := http.Get(server.URL + "/api/shops")
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected 401 without token, got %d", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestLogoutRevokesToken(t *testing.T) {
	server, token := setupTestServer(t)

	req, _ := authRequest("POST", server.URL+"/api/auth/logout", token, nil)
	doJSON(t, req, http.StatusOK, nil)

	req, _ = authRequest("GET", server.URL+"/api/shops", token, nil)
	resp, _ := http.DefaultClient.Do(req)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected 401 after logout, got %d", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestShopsAPIFlow(t *testing.T) {
	server, token := setupTestServer(t)

	// List shops.
	req, _ := authRequest("GET", server.URL+"/api/shops", token, nil)
	var list shopListResponse
	doJSON(t, req, http.StatusOK, &list)
	if len(list.Files) != 1 || list.Current != "blocks.yml" {
		t.Fatalf("shop list: %+v", list)
	}

	// Create another shop.
	req, _ = authRequest("POST", server.URL+"/api/shops", token, map[string]string{
		"filename": "ores.yml",
		"gui_name": "&8Ores",
	})
	doJSON(t, req, http.StatusCreated, nil)

	// Duplicate filename conflicts.
	req, _ = authRequest("POST", server.URL+"/api/shops", token, map[string]string{
		"filename": "ores.yml",
		"gui_name": "&8Ores",
	})
	resp, _ := http.DefaultClient.Do(req)
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("expected 409 for duplicate shop, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	// Switch to the new shop.
	req, _ = authRequest("PUT", server.URL+"/api/shops/current", token, map[string]string{
		"filename": "ores.yml",
	})
	var current currentShopResponse
	doJSON(t, req, http.StatusOK, &current)
	if current.Filename != "ores.yml" || current.Shop.GUIName != "&8Ores" {
		t.Errorf("current shop: %+v", current)
	}

	// Delete it.
	req, _ = authRequest("DELETE", server.URL+"/api/shops/ores.yml", token, nil)
	doJSON(t, req, http.StatusOK, nil)
}

func TestItemsAPIFlow(t *testing.T) {
	server, token := setupTestServer(t)

	// Create item.
	req, _ := authRequest("POST", server.URL+"/api/shops/current/items", token, model.ShopItem{
		Material: "DIAMOND",
		Name:     "&bShiny",
		Price:    100,
	})
	var created model.ShopItem
	doJSON(t, req, http.StatusCreated, &created)
	if created.ID == 0 {
		t.Fatal("expected assigned item ID")
	}

	// Update it.
	created.Price = 150
	req, _ = authRequest("PUT", server.URL+"/api/shops/current/items/2", token, created)
	var updated model.ShopItem
	doJSON(t, req, http.StatusOK, &updated)
	if updated.Price != 150 {
		t.Errorf("price not updated: %v", updated.Price)
	}

	// Delete it.
	req, _ = authRequest("DELETE", server.URL+"/api/shops/current/items/2", token, nil)
	doJSON(t, req, http.StatusOK, nil)

	// Missing item is a 404.
	req, _ = authRequest("DELETE", server.URL+"/api/shops/current/items/99", token, nil)
	resp, _ := http.DefaultClient.Do(req)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404 for missing item, got %d", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestMenuButtonsAndSlotConflict(t *testing.T) {
	server, token := setupTestServer(t)

	req, _ := authRequest("POST", server.URL+"/api/menu/buttons", token, model.MainMenuButton{
		Key:      "blocks",
		Slot:     10,
		Material: "STONE",
	})
	doJSON(t, req, http.StatusCreated, nil)

	// A second button on the same slot reports the occupant.
	req, _ = authRequest("POST", server.URL+"/api/menu/buttons", token, model.MainMenuButton{
		Key:      "ores",
		Slot:     10,
		Material: "IRON_ORE",
	})
	resp, _ := http.DefaultClient.Do(req)
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409, got %d", resp.StatusCode)
	}
	var errResp map[string]string
	json.NewDecoder(resp.Body).Decode(&errResp)
	resp.Body.Close()
	if errResp["error"] != "slot 10 is already used by button 'blocks'" {
		t.Errorf("conflict message: %q", errResp["error"])
	}
}

func TestTransactionMenuAPI(t *testing.T) {
	server, token := setupTestServer(t)

	req, _ := authRequest("GET", server.URL+"/api/transaction/purchase", token, nil)
	var settings model.TransactionMenuSettings
	doJSON(t, req, http.StatusOK, &settings)
	if settings.DisplaySlot != model.DefaultDisplaySlot {
		t.Errorf("display slot: %d", settings.DisplaySlot)
	}

	settings.TitlePrefix = "&8Buying: "
	settings.Confirm.Slot = 39
	settings.Cancel.Slot = 41
	settings.Back.Slot = 49
	req, _ = authRequest("PUT", server.URL+"/api/transaction/purchase", token, settings)
	var updated model.TransactionMenuSettings
	doJSON(t, req, http.StatusOK, &updated)
	if updated.TitlePrefix != "&8Buying: " {
		t.Errorf("title prefix: %q", updated.TitlePrefix)
	}

	req, _ = authRequest("GET", server.URL+"/api/transaction/refund", token, nil)
	resp, _ := http.DefaultClient.Do(req)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400 for unknown kind, got %d", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestActivityAndRollbackFlow(t *testing.T) {
	server, token := setupTestServer(t)

	// Delete the seeded item, then revert it through the activity log.
	req, _ := authRequest("DELETE", server.URL+"/api/shops/current/items/1", token, nil)
	doJSON(t, req, http.StatusOK, nil)

	req, _ = authRequest("GET", server.URL+"/api/activity", token, nil)
	var entries []activityEntryResponse
	doJSON(t, req, http.StatusOK, &entries)
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0].Summary != "Removed item STONE in blocks.yml" {
		t.Errorf("summary: %q", entries[0].Summary)
	}

	req, _ = authRequest("POST", server.URL+"/api/activity/"+entries[0].ID+"/rollback", token, nil)
	doJSON(t, req, http.StatusOK, nil)

	req, _ = authRequest("GET", server.URL+"/api/shops/current", token, nil)
	var current currentShopResponse
	doJSON(t, req, http.StatusOK, &current)
	if len(current.Shop.Items) != 1 || current.Shop.Items[0].Material != "STONE" {
		t.Errorf("item not restored: %+v", current.Shop.Items)
	}

	// The rollback added a second entry.
	req, _ = authRequest("GET", server.URL+"/api/activity", token, nil)
	doJSON(t, req, http.StatusOK, &entries)
	if len(entries) != 2 {
		t.Errorf("expected 2 entries after rollback, got %d", len(entries))
	}
}

func TestChangesAndSave(t *testing.T) {
	server, token := setupTestServer(t)

	req, _ := authRequest("PUT", server.URL+"/api/menu/settings", token, map[string]any{
		"title": "&8Shops",
		"rows":  6,
	})
	doJSON(t, req, http.StatusOK, nil)

	req, _ = authRequest("GET", server.URL+"/api/changes", token, nil)
	var changes struct {
		Unsaved bool                  `json:"unsaved"`
		Changes []model.UnsavedChange `json:"changes"`
	}
	doJSON(t, req, http.StatusOK, &changes)
	if !changes.Unsaved || len(changes.Changes) != 1 {
		t.Fatalf("changes: %+v", changes)
	}

	req, _ = authRequest("POST", server.URL+"/api/save", token, nil)
	doJSON(t, req, http.StatusOK, nil)

	req, _ = authRequest("GET", server.URL+"/api/changes", token, nil)
	doJSON(t, req, http.StatusOK, &changes)
	if changes.Unsaved {
		t.Error("changes not drained by save")
	}
}

func TestUsersAPIRequiresAdmin(t *testing.T) {
	server, token := setupTestServer(t)

	// Create a viewer and log in as them.
	req, _ := authRequest("POST", server.URL+"/api/users", token, map[string]string{
		"username": "viewer",
		"password": "password123",
		"role":     model.RoleViewer,
	})
	doJSON(t, req, http.StatusCreated, nil)

	body, _ := json.Marshal(map[string]string{"username": "viewer", "password": "password123"})
	resp, _ := http.Post(server.URL+"/api/auth/login", "application/json", bytes.NewReader(body))
	var login map[string]string
	json.NewDecoder(resp.Body).Decode(&login)
	resp.Body.Close()

	// Viewers can read but not mutate.
	req, _ = authRequest("GET", server.URL+"/api/shops", login["token"], nil)
	doJSON(t, req, http.StatusOK, nil)

	req, _ = authRequest("POST", server.URL+"/api/shops", login["token"], map[string]string{
		"filename": "x.yml",
	})
	resp, _ = http.DefaultClient.Do(req)
	if resp.StatusCode != http.StatusForbidden {
		t.Errorf("expected 403 for viewer mutation, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	req, _ = authRequest("GET", server.URL+"/api/users", login["token"], nil)
	resp, _ = http.DefaultClient.Do(req)
	if resp.StatusCode != http.StatusForbidden {
		t.Errorf("expected 403 for viewer user list, got %d", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestLastAdminGuard(t *testing.T) {
	server, token := setupTestServer(t)

	// Find the admin's ID.
	req, _ := authRequest("GET", server.URL+"/api/users", token, nil)
	var users []model.User
	doJSON(t, req, http.StatusOK, &users)
	if len(users) != 1 {
		t.Fatalf("expected 1 user, got %d", len(users))
	}

	// Demoting the only admin is rejected.
	req, _ = authRequest("PUT", server.URL+"/api/users/1", token, map[string]string{"role": model.RoleEditor})
	resp, _ := http.DefaultClient.Do(req)
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("expected 409 demoting last admin, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	// So is self-deletion.
	req, _ = authRequest("DELETE", server.URL+"/api/users/1", token, nil)
	resp, _ = http.DefaultClient.Do(req)
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("expected 409 deleting own account, got %d", resp.StatusCode)
	}
	resp.Body.Close()
}
