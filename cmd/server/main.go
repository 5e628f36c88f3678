package main

import (
	"context"
	"crypto/rand"
	"database/sql"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"math/big"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"

	"github.com/Drallee/genius-shop-editor/internal/activity"
	"github.com/Drallee/genius-shop-editor/internal/api"
	"github.com/Drallee/genius-shop-editor/internal/db"
	"github.com/Drallee/genius-shop-editor/internal/editor"
	"github.com/Drallee/genius-shop-editor/internal/files"
	"github.com/Drallee/genius-shop-editor/internal/model"
	"github.com/Drallee/genius-shop-editor/internal/store"
)

// levelRouter is a slog.Handler that routes INFO/WARN to stdout and ERROR+ to stderr.
type levelRouter struct {
	stdout slog.Handler
	stderr slog.Handler
}

func (lr *levelRouter) Enabled(_ context.Context, level slog.Level) bool {
	return level >= slog.LevelInfo
}

func (lr *levelRouter) Handle(ctx context.Context, r slog.Record) error {
	if r.Level >= slog.LevelError {
		return lr.stderr.Handle(ctx, r)
	}
	return lr.stdout.Handle(ctx, r)
}

func (lr *levelRouter) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &levelRouter{
		stdout: lr.stdout.WithAttrs(attrs),
		stderr: lr.stderr.WithAttrs(attrs),
	}
}

func (lr *levelRouter) WithGroup(name string) slog.Handler {
	return &levelRouter{
		stdout: lr.stdout.WithGroup(name),
		stderr: lr.stderr.WithGroup(name),
	}
}

// setupLogger configures structured logging. INFO/WARN go to stdout, ERROR goes
// to stderr. If logPath is non-empty, all levels are also written to that file.
// Returns a cleanup function that closes the log file (if opened).
func setupLogger(logPath string) (func(), error) {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}

	var cleanup func()

	stdoutW := io.Writer(os.Stdout)
	stderrW := io.Writer(os.Stderr)

	if logPath != "" {
		f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, fmt.Errorf("opening log file: %w", err)
		}
		cleanup = func() { f.Close() }
		stdoutW = io.MultiWriter(os.Stdout, f)
		stderrW = io.MultiWriter(os.Stderr, f)
	}

	handler := &levelRouter{
		stdout: slog.NewTextHandler(stdoutW, opts),
		stderr: slog.NewTextHandler(stderrW, opts),
	}
	slog.SetDefault(slog.New(handler))
	return cleanup, nil
}

// envDefault reads an environment variable with a fallback, so flags can be
// set from a .env file next to the binary.
func envDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	// Optional .env next to the binary; missing file is fine.
	_ = godotenv.Load()

	fs := flag.NewFlagSet("shop-editor", flag.ContinueOnError)

	var dbPath string
	fs.StringVar(&dbPath, "db", envDefault("SHOP_EDITOR_DB", "shop-editor.sqlite3"), "")
	fs.StringVar(&dbPath, "d", envDefault("SHOP_EDITOR_DB", "shop-editor.sqlite3"), "")

	var addr string
	fs.StringVar(&addr, "addr", envDefault("SHOP_EDITOR_ADDR", ":8080"), "")
	fs.StringVar(&addr, "a", envDefault("SHOP_EDITOR_ADDR", ":8080"), "")

	var configDir string
	fs.StringVar(&configDir, "config", envDefault("SHOP_EDITOR_CONFIG", "plugins/GeniusShop"), "")
	fs.StringVar(&configDir, "c", envDefault("SHOP_EDITOR_CONFIG", "plugins/GeniusShop"), "")

	var adminUser string
	fs.StringVar(&adminUser, "user", envDefault("SHOP_EDITOR_ADMIN", "Admin"), "")
	fs.StringVar(&adminUser, "u", envDefault("SHOP_EDITOR_ADMIN", "Admin"), "")

	var logPath string
	fs.StringVar(&logPath, "log", envDefault("SHOP_EDITOR_LOG", ""), "")
	fs.StringVar(&logPath, "l", envDefault("SHOP_EDITOR_LOG", ""), "")

	var saveDelay time.Duration
	fs.DurationVar(&saveDelay, "save-delay", editor.DefaultSaveDelay, "")

	fs.Usage = func() {
		fmt.Fprint(os.Stdout, `Usage: shop-editor [flags]

Flags:
  -d, -db <path>          SQLite database path (default: shop-editor.sqlite3)
  -a, -addr <host:port>   listen address (default: :8080)
  -c, -config <dir>       GeniusShop plugin config directory (default: plugins/GeniusShop)
  -u, -user <name>        admin username on first run (default: Admin)
  -l, -log <path>         log file path (default: no file, stdout/stderr only)
      -save-delay <dur>   auto-save debounce window (default: 2s)
  -h, -help               show this help and exit

Flags fall back to SHOP_EDITOR_DB, SHOP_EDITOR_ADDR, SHOP_EDITOR_CONFIG,
SHOP_EDITOR_ADMIN and SHOP_EDITOR_LOG (a .env file is read if present).
`)
	}

	if err := fs.Parse(os.Args[1:]); err != nil {
		if err == flag.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	if fs.NArg() > 0 {
		fmt.Fprintf(os.Stderr, "unexpected argument: %s\n", fs.Arg(0))
		fs.Usage()
		os.Exit(1)
	}

	closeLog, err := setupLogger(logPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	if closeLog != nil {
		defer closeLog()
	}

	// Check if DB exists, auto-init if not.
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		database, password, err := initDatabase(dbPath, adminUser)
		if err != nil {
			slog.Error("failed to initialize database", "error", err)
			os.Exit(1)
		}
		database.Close()

		printInitResult(dbPath, adminUser, password)
		fmt.Println()
	}

	database, err := db.Open(dbPath)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer database.Close()

	if err := db.Migrate(database); err != nil {
		slog.Error("failed to migrate database", "error", err)
		os.Exit(1)
	}

	slog.Info("database ready", "path", dbPath)

	// JWT secret lives in the database, auto-generated on first run.
	jwtSecret, err := store.JWTSecret(context.Background(), database)
	if err != nil {
		slog.Error("failed to get JWT secret", "error", err)
		os.Exit(1)
	}

	// Open the plugin config directory and load everything into the editor.
	source, err := files.NewDir(configDir)
	if err != nil {
		slog.Error("failed to open config directory", "dir", configDir, "error", err)
		os.Exit(1)
	}

	log := activity.NewLog(store.ActivitySink{DB: database})
	persisted, err := store.LoadActivityLog(context.Background(), database)
	if err != nil {
		slog.Error("failed to load activity log", "error", err)
		os.Exit(1)
	}
	log.Seed(persisted)

	ed := editor.New(source, log, saveDelay)
	if err := ed.LoadAll(); err != nil {
		slog.Error("failed to load plugin config", "dir", configDir, "error", err)
		os.Exit(1)
	}
	slog.Info("plugin config loaded", "dir", configDir,
		"shops", len(ed.ShopFiles()), "legacy", ed.LegacyMode())

	handler := api.LoggingMiddleware(api.NewRouter(database, jwtSecret, ed, log))

	server := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	// Graceful shutdown on SIGINT/SIGTERM.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-quit
		slog.Info("shutdown signal received", "signal", sig.String())

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			slog.Error("server forced to shutdown", "error", err)
		}
	}()

	slog.Info("server started", "addr", addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}

	// Pending edits must reach disk before the process exits.
	ed.Flush()
	slog.Info("server stopped, closing database")
}

// initDatabase creates a new database, runs migrations, and creates the admin user.
func initDatabase(path, adminUsername string) (*sql.DB, string, error) {
	database, err := db.Open(path)
	if err != nil {
		return nil, "", fmt.Errorf("opening database: %w", err)
	}

	if err := db.Migrate(database); err != nil {
		database.Close()
		os.Remove(path)
		return nil, "", fmt.Errorf("running migrations: %w", err)
	}

	password, err := generatePassword(16)
	if err != nil {
		database.Close()
		os.Remove(path)
		return nil, "", fmt.Errorf("generating password: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		database.Close()
		os.Remove(path)
		return nil, "", fmt.Errorf("hashing password: %w", err)
	}

	ctx := context.Background()
	_, err = store.CreateUser(ctx, database, adminUsername, string(hash), model.RoleAdmin)
	if err != nil {
		database.Close()
		os.Remove(path)
		return nil, "", fmt.Errorf("creating admin user: %w", err)
	}

	return database, password, nil
}

// printInitResult prints the database initialization result to stdout.
func printInitResult(dbPath, username, password string) {
	fmt.Printf("Database created: %s\n", dbPath)
	fmt.Println("Schema initialized.")
	fmt.Println()
	fmt.Println("Admin account created:")
	fmt.Printf("  Username: %s\n", username)
	fmt.Printf("  Password: %s\n", password)
	fmt.Println()
	fmt.Println("Save this password, it cannot be recovered.")
	fmt.Println("The admin can change it after logging in.")
}

// generatePassword creates a random password of the given length.
func generatePassword(length int) (string, error) {
	const charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789!@#$%&*"
	result := make([]byte, length)
	for i := range result {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(charset))))
		if err != nil {
			return "", err
		}
		result[i] = charset[n.Int64()]
	}
	return string(result), nil
}
