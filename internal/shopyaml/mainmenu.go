package shopyaml

import (
	"strconv"

	"github.com/Drallee/genius-shop-editor/internal/model"
)

// Column constants for the split-file main menu grammar.
const (
	menuColTop  = 0 // title, rows, buttons
	menuColKey  = 2 // button map keys
	menuColProp = 4 // button properties
	menuColLore = 6 // button lore entries
)

// ParseMainMenu reads the main menu file. Button order follows file order;
// duplicate keys or slots are kept as parsed (uniqueness is enforced at edit
// time, not parse time).
func ParseMainMenu(text string) *model.MainMenuState {
	m := model.NewMainMenuState()
	inButtons := false
	var cur *model.MainMenuButton
	inLore := false

	finalize := func() {
		if cur != nil {
			m.Buttons = append(m.Buttons, *cur)
			cur = nil
		}
	}

	for _, raw := range splitLines(text) {
		col, t := content(raw)
		if skippable(t) {
			continue
		}

		if col == menuColTop {
			finalize()
			inLore = false
			key, value, ok := splitKeyValue(t)
			if !ok {
				inButtons = false
				continue
			}
			switch key {
			case "title":
				m.Title = unquote(value)
				inButtons = false
			case "rows":
				m.Rows = parseIntOr(value, model.DefaultMenuRows)
				inButtons = false
			case "buttons":
				inButtons = true
			default:
				inButtons = false
			}
			continue
		}

		if !inButtons {
			continue
		}

		switch col {
		case menuColKey:
			if key, value, ok := splitKeyValue(t); ok && value == "" {
				finalize()
				cur = &model.MainMenuButton{Key: unquote(key)}
				inLore = false
			}
		case menuColProp:
			if cur == nil {
				continue
			}
			key, value, ok := splitKeyValue(t)
			if !ok {
				continue
			}
			if key == "lore" && value == "" {
				inLore = true
				continue
			}
			inLore = false
			setButtonField(cur, key, value)
		case menuColLore:
			if cur != nil && inLore && t[0] == '-' {
				cur.Lore = append(cur.Lore, dashValue(t))
			}
		}
	}
	finalize()

	return m
}

func setButtonField(b *model.MainMenuButton, key, value string) {
	switch key {
	case "slot":
		b.Slot = parseIntOr(value, 0)
	case "material":
		b.Material = unquote(value)
	case "name":
		b.Name = unquote(value)
	case "shop":
		b.Shop = unquote(value)
	case "permission":
		b.Permission = unquote(value)
	case "hide-attributes":
		b.HideAttributes = parseBoolOr(value, false)
	case "hide-additional":
		b.HideAdditional = parseBoolOr(value, false)
	}
}

// SerializeMainMenu renders the main menu to canonical text.
func SerializeMainMenu(m *model.MainMenuState) string {
	w := &writer{}
	w.kv(menuColTop, "title", quote(m.Title))
	w.kv(menuColTop, "rows", strconv.Itoa(m.Rows))
	if len(m.Buttons) > 0 {
		w.line(menuColTop, "buttons:")
		for _, b := range m.Buttons {
			writeMenuButton(w, b)
		}
	}
	return w.String()
}

func writeMenuButton(w *writer, b model.MainMenuButton) {
	w.line(menuColKey, b.Key+":")
	w.kv(menuColProp, "slot", strconv.Itoa(b.Slot))
	if b.Material != "" {
		w.kv(menuColProp, "material", b.Material)
	}
	if b.Name != "" {
		w.kv(menuColProp, "name", quote(b.Name))
	}
	if len(b.Lore) > 0 {
		w.line(menuColProp, "lore:")
		for _, l := range b.Lore {
			w.line(menuColLore, "- "+quote(l))
		}
	}
	if b.Shop != "" {
		w.kv(menuColProp, "shop", quote(b.Shop))
	}
	if b.Permission != "" {
		w.kv(menuColProp, "permission", quote(b.Permission))
	}
	if b.HideAttributes {
		w.kv(menuColProp, "hide-attributes", "true")
	}
	if b.HideAdditional {
		w.kv(menuColProp, "hide-additional", "true")
	}
}
