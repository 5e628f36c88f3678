package shopyaml

import (
	"reflect"
	"strings"
	"testing"

	"github.com/Drallee/genius-shop-editor/internal/model"
)

func TestParseMainMenu(t *testing.T) {
	text := strings.Join([]string{
		"title: '&8Shops'",
		"rows: 3",
		"buttons:",
		"  blocks:",
		"    slot: 10",
		"    material: STONE",
		"    name: '&7Blocks'",
		"    lore:",
		"      - '&7Click to open'",
		"      -",
		"    shop: 'blocks'",
		"    permission: 'shop.blocks'",
		"    hide-attributes: true",
		"  tools:",
		"    slot: 12",
		"    material: IRON_PICKAXE",
		"    name: '&7Tools'",
		"    shop: 'tools'",
		"",
	}, "\n")

	m := ParseMainMenu(text)
	if m.Title != "&8Shops" {
		t.Errorf("title: got %q", m.Title)
	}
	if m.Rows != 3 {
		t.Errorf("rows: got %d", m.Rows)
	}
	if len(m.Buttons) != 2 {
		t.Fatalf("expected 2 buttons, got %d", len(m.Buttons))
	}

	b := m.Buttons[0]
	if b.Key != "blocks" || b.Slot != 10 || b.Material != "STONE" || b.Shop != "blocks" {
		t.Errorf("first button: %+v", b)
	}
	if !reflect.DeepEqual(b.Lore, []string{"&7Click to open", ""}) {
		t.Errorf("first button lore: %v", b.Lore)
	}
	if !b.HideAttributes {
		t.Error("expected hide-attributes true")
	}
	if m.Buttons[1].Key != "tools" || m.Buttons[1].Slot != 12 {
		t.Errorf("second button: %+v", m.Buttons[1])
	}
}

func TestParseMainMenuRowsFallback(t *testing.T) {
	m := ParseMainMenu("title: 'x'\nrows: full\n")
	if m.Rows != model.DefaultMenuRows {
		t.Errorf("expected fallback rows %d, got %d", model.DefaultMenuRows, m.Rows)
	}
}

func TestParseMainMenuUnknownSectionEndsButtons(t *testing.T) {
	text := strings.Join([]string{
		"buttons:",
		"  blocks:",
		"    slot: 10",
		"something-else:",
		"  stray:",
		"    slot: 20",
		"",
	}, "\n")

	m := ParseMainMenu(text)
	if len(m.Buttons) != 1 {
		t.Fatalf("expected 1 button, got %d", len(m.Buttons))
	}
	if m.Buttons[0].Key != "blocks" {
		t.Errorf("got button %q", m.Buttons[0].Key)
	}
}

func TestMainMenuRoundTrip(t *testing.T) {
	m := &model.MainMenuState{
		Title: "&8Shops",
		Rows:  6,
		Buttons: []model.MainMenuButton{
			{
				Key:            "blocks",
				Slot:           10,
				Material:       "STONE",
				Name:           "&7Blocks",
				Lore:           []string{"&7Click", ""},
				Shop:           "blocks",
				Permission:     "shop.blocks",
				HideAttributes: true,
			},
			{Key: "decor", Slot: 0, Material: "FLOWER_POT", Name: "&dDecor", Shop: "decor"},
		},
	}

	parsed := ParseMainMenu(SerializeMainMenu(m))
	if !reflect.DeepEqual(parsed, m) {
		t.Errorf("round trip mismatch:\nwant %+v\ngot  %+v", m, parsed)
	}
}

func TestSerializeMainMenuDeterministic(t *testing.T) {
	m := model.NewMainMenuState()
	m.Title = "&8Shops"
	m.Buttons = []model.MainMenuButton{{Key: "a", Slot: 1}, {Key: "b", Slot: 2}}
	if SerializeMainMenu(m) != SerializeMainMenu(m) {
		t.Error("non-deterministic output")
	}
}
