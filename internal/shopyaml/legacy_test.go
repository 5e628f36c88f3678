package shopyaml

import (
	"reflect"
	"strings"
	"testing"

	"github.com/Drallee/genius-shop-editor/internal/model"
)

func legacyGUIText() string {
	return strings.Join([]string{
		"# GeniusShop GUI config (deprecated combined format)",
		"main:",
		"  title: '&8Shops'",
		"  rows: 6",
		"  buttons:",
		"    blocks:",
		"      slot: 10",
		"      material: STONE",
		"      name: '&7Blocks'",
		"      lore:",
		"        - '&7Click to open'",
		"      shop: 'blocks'",
		"purchase:",
		"  title-prefix: '&8Buying: '",
		"  display-slot: 22",
		"  max-amount: 64",
		"  confirm-button:",
		"    material: LIME_WOOL",
		"    name: '&aConfirm'",
		"    slot: 39",
		"  add-buttons:",
		"    material: LIME_STAINED_GLASS_PANE",
		"    amounts:",
		"      '1':",
		"        name: '&a+1'",
		"        slot: 24",
		"sell:",
		"  title-prefix: '&8Selling: '",
		"  sell-all-button:",
		"    material: HOPPER",
		"    name: '&6Sell All'",
		"    slot: 40",
		"messages:",
		"  no-permission: '&cYou cannot use this.'",
		"",
	}, "\n")
}

func TestParseLegacyGUI(t *testing.T) {
	menu, purchase, sell := ParseLegacyGUI(legacyGUIText())

	if menu.Title != "&8Shops" || menu.Rows != 6 {
		t.Errorf("menu header: %+v", menu)
	}
	if len(menu.Buttons) != 1 {
		t.Fatalf("expected 1 button, got %d", len(menu.Buttons))
	}
	b := menu.Buttons[0]
	if b.Key != "blocks" || b.Slot != 10 || b.Shop != "blocks" {
		t.Errorf("button: %+v", b)
	}
	if !reflect.DeepEqual(b.Lore, []string{"&7Click to open"}) {
		t.Errorf("button lore: %v", b.Lore)
	}

	if purchase.TitlePrefix != "&8Buying: " || purchase.DisplaySlot != 22 {
		t.Errorf("purchase: %+v", purchase)
	}
	if purchase.Confirm.Slot != 39 {
		t.Errorf("purchase confirm: %+v", purchase.Confirm)
	}
	if got := purchase.Add.Amounts["1"]; got != (model.AmountButton{Name: "&a+1", Slot: 24}) {
		t.Errorf("purchase add '1': %+v", got)
	}

	if sell.TitlePrefix != "&8Selling: " {
		t.Errorf("sell: %+v", sell)
	}
	if sell.SellAll == nil || sell.SellAll.Slot != 40 {
		t.Errorf("sell-all: %+v", sell.SellAll)
	}
}

func TestParseLegacyGUIRejectsSplitColumns(t *testing.T) {
	// Split-file indentation (one level shallower) must not be recognized
	// by the legacy scanner; the two grammars disagree on columns.
	text := "main:\ntitle: '&8Shops'\nrows: 2\n"
	menu, _, _ := ParseLegacyGUI(text)
	if menu.Title != "" {
		t.Errorf("split-depth title parsed by legacy scanner: %q", menu.Title)
	}
	if menu.Rows != model.DefaultMenuRows {
		t.Errorf("split-depth rows parsed by legacy scanner: %d", menu.Rows)
	}
}

func TestSpliceLegacyGUIPreservesUnknownSections(t *testing.T) {
	original := legacyGUIText()
	menu, purchase, sell := ParseLegacyGUI(original)
	menu.Title = "&8All Shops"

	spliced := SpliceLegacyGUI(original, menu, purchase, sell)

	if !strings.Contains(spliced, "title: '&8All Shops'") {
		t.Errorf("edited title missing:\n%s", spliced)
	}
	// The header comment and the unrelated messages section survive verbatim.
	if !strings.Contains(spliced, "# GeniusShop GUI config (deprecated combined format)") {
		t.Error("header comment dropped")
	}
	if !strings.Contains(spliced, "messages:\n  no-permission: '&cYou cannot use this.'") {
		t.Errorf("unrelated section altered:\n%s", spliced)
	}
}

func TestSpliceLegacyGUIStable(t *testing.T) {
	original := legacyGUIText()
	menu, purchase, sell := ParseLegacyGUI(original)

	once := SpliceLegacyGUI(original, menu, purchase, sell)
	twice := SpliceLegacyGUI(once, menu, purchase, sell)
	if once != twice {
		t.Errorf("splice not stable:\nfirst:\n%s\nsecond:\n%s", once, twice)
	}
}

func TestSpliceLegacyGUIAppendsMissingSections(t *testing.T) {
	original := "messages:\n  hello: 'hi'\n"
	menu := model.NewMainMenuState()
	menu.Title = "&8Shops"
	purchase := model.NewTransactionMenuSettings(model.MenuPurchase)
	sell := model.NewTransactionMenuSettings(model.MenuSell)

	spliced := SpliceLegacyGUI(original, menu, purchase, sell)
	for _, section := range []string{"main:", "purchase:", "sell:"} {
		if !strings.Contains(spliced, "\n"+section+"\n") {
			t.Errorf("missing section %q not appended:\n%s", section, spliced)
		}
	}
}

func TestLegacyRoundTripThroughSplice(t *testing.T) {
	original := legacyGUIText()
	menu, purchase, sell := ParseLegacyGUI(original)

	spliced := SpliceLegacyGUI(original, menu, purchase, sell)
	menu2, purchase2, sell2 := ParseLegacyGUI(spliced)

	if !reflect.DeepEqual(menu2, menu) {
		t.Errorf("menu round trip mismatch:\nwant %+v\ngot  %+v", menu, menu2)
	}
	if !reflect.DeepEqual(purchase2, purchase) {
		t.Errorf("purchase round trip mismatch:\nwant %+v\ngot  %+v", purchase, purchase2)
	}
	if !reflect.DeepEqual(sell2, sell) {
		t.Errorf("sell round trip mismatch:\nwant %+v\ngot  %+v", sell, sell2)
	}
}
