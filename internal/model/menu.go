package model

// MainMenuButton is one entry in the main menu grid. Key is the YAML map key
// and must be unique within the menu; Slot must be unique across all buttons.
type MainMenuButton struct {
	Key            string   `json:"key"`
	Slot           int      `json:"slot"`
	Material       string   `json:"material"`
	Name           string   `json:"name"`
	Lore           []string `json:"lore,omitempty"`
	Shop           string   `json:"shop,omitempty"`
	Permission     string   `json:"permission,omitempty"`
	HideAttributes bool     `json:"hide_attributes,omitempty"`
	HideAdditional bool     `json:"hide_additional,omitempty"`
}

// MainMenuState is the main menu document: title, rows and the ordered button set.
type MainMenuState struct {
	Title   string           `json:"title"`
	Rows    int              `json:"rows"`
	Buttons []MainMenuButton `json:"buttons"`
}

// DefaultMenuRows is used when the main menu has a missing or unparsable rows value.
const DefaultMenuRows = 6

// NewMainMenuState returns an empty main menu with defaults applied.
func NewMainMenuState() *MainMenuState {
	return &MainMenuState{Rows: DefaultMenuRows}
}

// Clone returns a deep copy of the button.
func (b MainMenuButton) Clone() MainMenuButton {
	c := b
	c.Lore = cloneStrings(b.Lore)
	return c
}

// Clone returns a deep copy of the menu state.
func (m *MainMenuState) Clone() *MainMenuState {
	c := *m
	c.Buttons = make([]MainMenuButton, len(m.Buttons))
	for i, b := range m.Buttons {
		c.Buttons[i] = b.Clone()
	}
	return &c
}

// Button returns the button with the given key, or nil.
func (m *MainMenuState) Button(key string) *MainMenuButton {
	for i := range m.Buttons {
		if m.Buttons[i].Key == key {
			return &m.Buttons[i]
		}
	}
	return nil
}
