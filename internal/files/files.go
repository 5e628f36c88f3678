// Package files abstracts the plugin's config directory: the per-shop YAML
// files plus the menu files, read as raw text and written back atomically.
package files

// Well-known config filenames inside the plugin directory.
const (
	MainMenuFile     = "main-menu.yml"
	PurchaseMenuFile = "purchase-menu.yml"
	SellMenuFile     = "sell-menu.yml"
	LegacyGUIFile    = "gui.yml"

	// ShopsDir is the subdirectory holding one YAML file per shop.
	ShopsDir = "shops"
)

// Snapshot is the raw text of every config file at load time. Missing files
// are represented by empty strings (LegacyGUI in particular is usually
// absent once a server has migrated to the split menu files).
type Snapshot struct {
	Shops        map[string]string
	MainMenu     string
	PurchaseMenu string
	SellMenu     string
	LegacyGUI    string
}

// Source reads and writes the config files. Names are relative to the config
// root: either a well-known filename or "shops/<file>.yml".
type Source interface {
	LoadAll() (*Snapshot, error)
	Save(name, text string) error
	Delete(name string) error
}

// ShopPath returns the source-relative name for a shop file.
func ShopPath(filename string) string {
	return ShopsDir + "/" + filename
}
