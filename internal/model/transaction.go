package model

// Transaction menu kinds.
const (
	MenuPurchase = "purchase"
	MenuSell     = "sell"
)

// ActionButton is a fixed, named button in a transaction menu (confirm,
// cancel, back, sell-all).
type ActionButton struct {
	Material string `json:"material"`
	Name     string `json:"name"`
	Slot     int    `json:"slot"`
}

// AmountButton is one entry in an open-ended amount-button group, keyed by
// the amount string it represents.
type AmountButton struct {
	Name string `json:"name"`
	Slot int    `json:"slot"`
}

// ButtonGroup is one of the add/remove/set groups: a shared material plus a
// mapping from amount key to button.
type ButtonGroup struct {
	Material string                  `json:"material"`
	Amounts  map[string]AmountButton `json:"amounts,omitempty"`
}

// TransactionMenuSettings describes the purchase or sell confirmation menu.
// SellAll is only meaningful for the sell menu and stays nil for purchase.
type TransactionMenuSettings struct {
	Kind            string        `json:"kind"`
	TitlePrefix     string        `json:"title_prefix"`
	DisplayMaterial string        `json:"display_material"`
	DisplaySlot     int           `json:"display_slot"`
	MaxAmount       int           `json:"max_amount"`
	Confirm         ActionButton  `json:"confirm"`
	Cancel          ActionButton  `json:"cancel"`
	Back            ActionButton  `json:"back"`
	SellAll         *ActionButton `json:"sell_all,omitempty"`
	Add             ButtonGroup   `json:"add"`
	Remove          ButtonGroup   `json:"remove"`
	Set             ButtonGroup   `json:"set"`
}

// Transaction menu parse fallbacks.
const (
	DefaultDisplaySlot = 22
	DefaultMaxAmount   = 64
)

// NewTransactionMenuSettings returns empty settings for the given kind with
// defaults applied. The sell menu gets a sell-all button slot.
func NewTransactionMenuSettings(kind string) *TransactionMenuSettings {
	s := &TransactionMenuSettings{
		Kind:        kind,
		DisplaySlot: DefaultDisplaySlot,
		MaxAmount:   DefaultMaxAmount,
	}
	if kind == MenuSell {
		s.SellAll = &ActionButton{}
	}
	return s
}

// Clone returns a deep copy of the group.
func (g ButtonGroup) Clone() ButtonGroup {
	c := g
	if g.Amounts != nil {
		c.Amounts = make(map[string]AmountButton, len(g.Amounts))
		for k, v := range g.Amounts {
			c.Amounts[k] = v
		}
	}
	return c
}

// Clone returns a deep copy of the settings.
func (s *TransactionMenuSettings) Clone() *TransactionMenuSettings {
	c := *s
	if s.SellAll != nil {
		btn := *s.SellAll
		c.SellAll = &btn
	}
	c.Add = s.Add.Clone()
	c.Remove = s.Remove.Clone()
	c.Set = s.Set.Clone()
	return &c
}
