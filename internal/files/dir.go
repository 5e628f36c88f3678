package files

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Dir is a Source backed by a directory on disk, laid out the way the plugin
// expects it: menu files at the root and shop files under shops/.
type Dir struct {
	root string
}

// NewDir opens (creating if needed) a config directory.
func NewDir(root string) (*Dir, error) {
	if err := os.MkdirAll(filepath.Join(root, ShopsDir), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}
	return &Dir{root: root}, nil
}

// LoadAll reads every config file. Missing menu files yield empty strings so
// the caller can fall back to defaults.
func (d *Dir) LoadAll() (*Snapshot, error) {
	snap := &Snapshot{Shops: make(map[string]string)}

	entries, err := os.ReadDir(filepath.Join(d.root, ShopsDir))
	if err != nil {
		return nil, fmt.Errorf("failed to read shops directory: %w", err)
	}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yml") {
			continue
		}
		text, err := os.ReadFile(filepath.Join(d.root, ShopsDir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("failed to read shop file %q: %w", entry.Name(), err)
		}
		snap.Shops[entry.Name()] = string(text)
	}

	for name, dst := range map[string]*string{
		MainMenuFile:     &snap.MainMenu,
		PurchaseMenuFile: &snap.PurchaseMenu,
		SellMenuFile:     &snap.SellMenu,
		LegacyGUIFile:    &snap.LegacyGUI,
	} {
		text, err := os.ReadFile(filepath.Join(d.root, name))
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read %q: %w", name, err)
		}
		*dst = string(text)
	}

	return snap, nil
}

// Save writes a config file atomically: the text goes to a temp file in the
// same directory, then a rename replaces the target.
func (d *Dir) Save(name, text string) error {
	path, err := d.resolve(name)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.WriteString(text); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write %q: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to write %q: %w", name, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace %q: %w", name, err)
	}
	return nil
}

// Delete removes a config file.
func (d *Dir) Delete(name string) error {
	path, err := d.resolve(name)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("failed to delete %q: %w", name, err)
	}
	return nil
}

// resolve maps a source-relative name to an absolute path, rejecting names
// that would escape the config directory.
func (d *Dir) resolve(name string) (string, error) {
	if name == "" || !strings.HasSuffix(name, ".yml") {
		return "", fmt.Errorf("invalid config filename %q", name)
	}
	clean := filepath.Clean(filepath.FromSlash(name))
	if filepath.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("invalid config filename %q", name)
	}
	return filepath.Join(d.root, clean), nil
}
