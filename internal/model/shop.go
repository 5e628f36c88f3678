package model

// ShopItem is one purchasable/sellable entry in a shop file.
//
// ID is assigned in memory when the item is created or parsed and is never
// written to disk. IDs restart from 1 whenever a different shop file is
// loaded, so they are only unique within the currently loaded shop.
type ShopItem struct {
	ID             int64          `json:"id"`
	Material       string         `json:"material"`
	Name           string         `json:"name"`
	Price          float64        `json:"price"`
	SellPrice      float64        `json:"sell_price"`
	Amount         int            `json:"amount"`
	Lore           []string       `json:"lore,omitempty"`
	SpawnerType    string         `json:"spawner_type,omitempty"`
	PotionType     string         `json:"potion_type,omitempty"`
	PotionLevel    int            `json:"potion_level,omitempty"`
	Enchantments   map[string]int `json:"enchantments,omitempty"`
	HideAttributes bool           `json:"hide_attributes,omitempty"`
	HideAdditional bool           `json:"hide_additional,omitempty"`
	RequireName    bool           `json:"require_name,omitempty"`
	RequireLore    bool           `json:"require_lore,omitempty"`
	UnstableTNT    bool           `json:"unstable_tnt,omitempty"`
}

// ItemLoreSettings controls the price/hint lines appended to item lore in-game.
type ItemLoreSettings struct {
	ShowBuyPrice  bool   `json:"show_buy_price"`
	BuyPriceLine  string `json:"buy_price_line,omitempty"`
	ShowBuyHint   bool   `json:"show_buy_hint"`
	BuyHintLine   string `json:"buy_hint_line,omitempty"`
	ShowSellPrice bool   `json:"show_sell_price"`
	SellPriceLine string `json:"sell_price_line,omitempty"`
	ShowSellHint  bool   `json:"show_sell_hint"`
	SellHintLine  string `json:"sell_hint_line,omitempty"`
}

// IsZero reports whether no lore setting has been set.
func (s ItemLoreSettings) IsZero() bool {
	return s == ItemLoreSettings{}
}

// ShopDocument is the full content of one shop YAML file.
type ShopDocument struct {
	GUIName        string           `json:"gui_name"`
	Rows           int              `json:"rows"`
	Permission     string           `json:"permission,omitempty"`
	AvailableTimes []string         `json:"available_times,omitempty"`
	ItemLore       ItemLoreSettings `json:"item_lore"`
	Items          []ShopItem       `json:"items"`
}

// Shop grid limits.
const (
	MinShopRows = 1
	MaxShopRows = 5
	MinMenuRows = 1
	MaxMenuRows = 6
	MinSlot     = 0
	MaxSlot     = 53
)

// DefaultShopRows is used when a shop file has a missing or unparsable rows value.
const DefaultShopRows = 3

// NewShopDocument returns an empty shop document with defaults applied.
func NewShopDocument(guiName string) *ShopDocument {
	return &ShopDocument{
		GUIName: guiName,
		Rows:    DefaultShopRows,
	}
}

// Clone returns a deep copy of the item.
func (i ShopItem) Clone() ShopItem {
	c := i
	c.Lore = cloneStrings(i.Lore)
	c.Enchantments = cloneIntMap(i.Enchantments)
	return c
}

// Clone returns a deep copy of the document.
func (d *ShopDocument) Clone() *ShopDocument {
	c := *d
	c.AvailableTimes = cloneStrings(d.AvailableTimes)
	c.Items = make([]ShopItem, len(d.Items))
	for i, item := range d.Items {
		c.Items[i] = item.Clone()
	}
	return &c
}

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	c := make([]string, len(s))
	copy(c, s)
	return c
}

func cloneIntMap(m map[string]int) map[string]int {
	if m == nil {
		return nil
	}
	c := make(map[string]int, len(m))
	for k, v := range m {
		c[k] = v
	}
	return c
}
