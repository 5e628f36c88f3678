// Package editor holds the in-memory editing state for the plugin config:
// the loaded shop files, the menu documents, the audit trail and the
// debounced auto-save pipeline.
package editor

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Drallee/genius-shop-editor/internal/activity"
	"github.com/Drallee/genius-shop-editor/internal/files"
	"github.com/Drallee/genius-shop-editor/internal/model"
	"github.com/Drallee/genius-shop-editor/internal/shopyaml"
)

var (
	ErrNotLoaded           = errors.New("config files not loaded")
	ErrNoShopSelected      = errors.New("no shop file selected")
	ErrShopNotFound        = errors.New("shop file not found")
	ErrShopExists          = errors.New("shop file already exists")
	ErrItemNotFound        = errors.New("item not found")
	ErrButtonNotFound      = errors.New("menu button not found")
	ErrButtonExists        = errors.New("menu button with that key already exists")
	ErrEntryNotFound       = errors.New("activity entry not found")
	ErrRollbackUnsupported = errors.New("activity entry cannot be reverted")
	ErrTargetNotFound      = errors.New("rollback target no longer exists")
)

// SlotConflictError reports an inventory slot already taken by another
// element, naming the first occupant.
type SlotConflictError struct {
	Slot     int
	Occupant string
}

func (e *SlotConflictError) Error() string {
	return fmt.Sprintf("slot %d is already used by %s", e.Slot, e.Occupant)
}

// DefaultSaveDelay is the debounce window between an edit and the write it
// triggers.
const DefaultSaveDelay = 2 * time.Second

// Editor is the shared editing state. All exported methods are safe for
// concurrent use. Mutating methods record an activity entry, append an
// unsaved-change note and schedule a debounced write of the affected file.
type Editor struct {
	source files.Source
	log    *activity.Log
	saver  *saver

	mu     sync.Mutex
	loaded bool

	// shops maps shop filename to its last-saved text, used to skip
	// writes that would not change the file.
	shops       map[string]string
	currentFile string
	current     *model.ShopDocument
	nextItemID  int64

	menu     *model.MainMenuState
	purchase *model.TransactionMenuSettings
	sell     *model.TransactionMenuSettings

	// legacy is set when the config still uses the combined gui.yml.
	// legacyGUI carries the file's current text so edits splice into it
	// instead of rewriting it wholesale.
	legacy         bool
	legacyGUI      string
	legacyBaseline string

	menuBaseline     string
	purchaseBaseline string
	sellBaseline     string

	pending []model.UnsavedChange
}

// New creates an editor over the given source. A non-positive saveDelay
// falls back to DefaultSaveDelay.
func New(source files.Source, log *activity.Log, saveDelay time.Duration) *Editor {
	if saveDelay <= 0 {
		saveDelay = DefaultSaveDelay
	}
	e := &Editor{
		source: source,
		log:    log,
		shops:  make(map[string]string),
	}
	e.saver = newSaver(source.Save, saveDelay, e.markSaved, e.drainSaved)
	return e
}

// LoadAll reads every config file from the source and replaces the in-memory
// state. The alphabetically first shop file becomes the current one.
func (e *Editor) LoadAll() error {
	snap, err := e.source.LoadAll()
	if err != nil {
		return fmt.Errorf("failed to load config files: %w", err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.shops = make(map[string]string, len(snap.Shops))
	for name, text := range snap.Shops {
		e.shops[name] = text
	}

	e.currentFile = ""
	e.current = nil
	e.nextItemID = 1
	if names := sortedShopNames(e.shops); len(names) > 0 {
		e.selectShopLocked(names[0])
	}

	e.legacy = snap.LegacyGUI != ""
	if e.legacy {
		e.legacyGUI = snap.LegacyGUI
		e.legacyBaseline = snap.LegacyGUI
		e.menu, e.purchase, e.sell = shopyaml.ParseLegacyGUI(snap.LegacyGUI)
	} else {
		e.menu = shopyaml.ParseMainMenu(snap.MainMenu)
		e.purchase = shopyaml.ParsePurchaseMenu(snap.PurchaseMenu)
		e.sell = shopyaml.ParseSellMenu(snap.SellMenu)
		e.menuBaseline = snap.MainMenu
		e.purchaseBaseline = snap.PurchaseMenu
		e.sellBaseline = snap.SellMenu
	}

	e.pending = nil
	e.loaded = true
	return nil
}

// Reload flushes outstanding writes and re-reads everything from disk,
// picking up external edits to the config files.
func (e *Editor) Reload() error {
	e.saver.flush()
	return e.LoadAll()
}

// LegacyMode reports whether menus are stored in the combined gui.yml.
func (e *Editor) LegacyMode() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.legacy
}

// ShopFiles lists the known shop filenames in alphabetical order.
func (e *Editor) ShopFiles() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return sortedShopNames(e.shops)
}

// CurrentShop returns the selected shop filename and a copy of its document.
func (e *Editor) CurrentShop() (string, *model.ShopDocument, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.loaded {
		return "", nil, ErrNotLoaded
	}
	if e.current == nil {
		return "", nil, ErrNoShopSelected
	}
	return e.currentFile, e.current.Clone(), nil
}

// SwitchShop flushes pending writes for the current file and loads another
// shop file into the editor.
func (e *Editor) SwitchShop(filename string) error {
	e.saver.flush()

	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.loaded {
		return ErrNotLoaded
	}
	if filename == e.currentFile && e.current != nil {
		return nil
	}
	if _, ok := e.shops[filename]; !ok {
		return ErrShopNotFound
	}
	e.selectShopLocked(filename)
	return nil
}

// CreateShop adds a new, empty shop file and writes it immediately.
func (e *Editor) CreateShop(ctx context.Context, username, filename, guiName string) error {
	if err := validateShopFilename(filename); err != nil {
		return err
	}

	e.mu.Lock()
	if !e.loaded {
		e.mu.Unlock()
		return ErrNotLoaded
	}
	if _, ok := e.shops[filename]; ok {
		e.mu.Unlock()
		return ErrShopExists
	}

	doc := model.NewShopDocument(guiName)
	text := shopyaml.SerializeShop(doc)
	if err := e.source.Save(files.ShopPath(filename), text); err != nil {
		e.mu.Unlock()
		return fmt.Errorf("failed to create shop file: %w", err)
	}
	e.shops[filename] = text
	e.mu.Unlock()

	entry := e.log.Record(ctx, username, model.ActionCreated, model.TargetShopFile, nil, nil, filename)
	e.noteChange(entry)
	return nil
}

// DeleteShop removes a shop file from disk and from the editor. If it was
// the current shop, the alphabetically first remaining one is selected.
func (e *Editor) DeleteShop(ctx context.Context, username, filename string) error {
	e.saver.flush()

	e.mu.Lock()
	if !e.loaded {
		e.mu.Unlock()
		return ErrNotLoaded
	}
	if _, ok := e.shops[filename]; !ok {
		e.mu.Unlock()
		return ErrShopNotFound
	}
	if err := e.source.Delete(files.ShopPath(filename)); err != nil {
		e.mu.Unlock()
		return fmt.Errorf("failed to delete shop file: %w", err)
	}
	delete(e.shops, filename)
	if e.currentFile == filename {
		e.currentFile = ""
		e.current = nil
		if names := sortedShopNames(e.shops); len(names) > 0 {
			e.selectShopLocked(names[0])
		}
	}
	e.mu.Unlock()

	entry := e.log.Record(ctx, username, model.ActionDeleted, model.TargetShopFile, nil, nil, filename)
	e.noteChange(entry)
	return nil
}

// UpdateShopSettings replaces the current shop's header fields.
func (e *Editor) UpdateShopSettings(ctx context.Context, username string, settings ShopSettings) error {
	if settings.Rows < model.MinShopRows || settings.Rows > model.MaxShopRows {
		return fmt.Errorf("rows must be between %d and %d", model.MinShopRows, model.MaxShopRows)
	}

	e.mu.Lock()
	if e.current == nil {
		e.mu.Unlock()
		return ErrNoShopSelected
	}
	before := model.SnapshotShopSettings(e.current)
	e.current.GUIName = settings.GUIName
	e.current.Rows = settings.Rows
	e.current.Permission = settings.Permission
	e.current.AvailableTimes = append([]string(nil), settings.AvailableTimes...)
	e.current.ItemLore = settings.ItemLore
	after := model.SnapshotShopSettings(e.current)
	details := e.currentFile
	e.scheduleShopSaveLocked()
	e.mu.Unlock()

	entry := e.log.Record(ctx, username, model.ActionUpdated, model.TargetShopSettings, before, after, details)
	e.noteChange(entry)
	return nil
}

// ShopSettings are the header fields of a shop file, everything except the
// item list.
type ShopSettings struct {
	GUIName        string                 `json:"gui_name"`
	Rows           int                    `json:"rows"`
	Permission     string                 `json:"permission"`
	AvailableTimes []string               `json:"available_times"`
	ItemLore       model.ItemLoreSettings `json:"item_lore"`
}

// Flush waits for every scheduled write to reach disk.
func (e *Editor) Flush() {
	e.saver.flush()
}

// selectShopLocked parses a shop file into the editor. Caller holds e.mu.
func (e *Editor) selectShopLocked(filename string) {
	e.currentFile = filename
	e.current = shopyaml.ParseShop(e.shops[filename])
	e.nextItemID = int64(len(e.current.Items)) + 1
}

// scheduleShopSaveLocked serializes the current shop and queues a debounced
// write, unless the output matches the last-saved text. Caller holds e.mu.
func (e *Editor) scheduleShopSaveLocked() {
	text := shopyaml.SerializeShop(e.current)
	if text == e.shops[e.currentFile] {
		return
	}
	e.saver.schedule(files.ShopPath(e.currentFile), text)
}

// scheduleMenuSaveLocked queues a write of whichever file holds the menu
// documents. In legacy mode all three documents splice into gui.yml.
// Caller holds e.mu.
func (e *Editor) scheduleMenuSaveLocked(name string) {
	if e.legacy {
		spliced := shopyaml.SpliceLegacyGUI(e.legacyGUI, e.menu, e.purchase, e.sell)
		e.legacyGUI = spliced
		if spliced != e.legacyBaseline {
			e.saver.schedule(files.LegacyGUIFile, spliced)
		}
		return
	}

	var text, baseline string
	switch name {
	case files.MainMenuFile:
		text, baseline = shopyaml.SerializeMainMenu(e.menu), e.menuBaseline
	case files.PurchaseMenuFile:
		text, baseline = shopyaml.SerializePurchaseMenu(e.purchase), e.purchaseBaseline
	case files.SellMenuFile:
		text, baseline = shopyaml.SerializeSellMenu(e.sell), e.sellBaseline
	}
	if text != baseline {
		e.saver.schedule(name, text)
	}
}

// markSaved records the text that reached disk so later unchanged
// serializations can skip their write.
func (e *Editor) markSaved(name, text string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	switch name {
	case files.MainMenuFile:
		e.menuBaseline = text
	case files.PurchaseMenuFile:
		e.purchaseBaseline = text
	case files.SellMenuFile:
		e.sellBaseline = text
	case files.LegacyGUIFile:
		e.legacyBaseline = text
	default:
		if filename, ok := strings.CutPrefix(name, files.ShopsDir+"/"); ok {
			if _, known := e.shops[filename]; known {
				e.shops[filename] = text
			}
		}
	}
}

func validateShopFilename(filename string) error {
	if filename == "" || !strings.HasSuffix(filename, ".yml") ||
		strings.ContainsAny(filename, "/\\") || strings.Contains(filename, "..") {
		return fmt.Errorf("invalid shop filename %q", filename)
	}
	return nil
}

func sortedShopNames(shops map[string]string) []string {
	names := make([]string, 0, len(shops))
	for name := range shops {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
