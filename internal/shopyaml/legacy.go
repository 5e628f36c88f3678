package shopyaml

import (
	"strings"

	"github.com/Drallee/genius-shop-editor/internal/model"
)

// Legacy combined-file support. The deprecated gui.yml nests the main,
// purchase and sell documents under top-level section keys, shifting every
// column of the split-file grammars right by one level. The constants
// disagree with the split-file ones for structurally identical data, so this
// scanner is kept as its own code path and must not be folded into the
// split-file parsers.

const (
	legColSection = 0 // main, purchase, sell
	legColTop     = 2 // section-level keys
	legColChild   = 4
	legColSub     = 6
	legColDeep    = 8
)

type legacySection int

const (
	legSecNone legacySection = iota
	legSecMain
	legSecPurchase
	legSecSell
)

// ParseLegacyGUI reads a deprecated combined gui.yml into the three menu
// documents. Sections missing from the file come back with defaults.
func ParseLegacyGUI(text string) (*model.MainMenuState, *model.TransactionMenuSettings, *model.TransactionMenuSettings) {
	menu := model.NewMainMenuState()
	purchase := model.NewTransactionMenuSettings(model.MenuPurchase)
	sell := model.NewTransactionMenuSettings(model.MenuSell)

	sec := legSecNone

	// Main menu sub-state.
	inButtons := false
	var curMenuBtn *model.MainMenuButton
	menuInLore := false

	finalizeMenuBtn := func() {
		if curMenuBtn != nil {
			menu.Buttons = append(menu.Buttons, *curMenuBtn)
			curMenuBtn = nil
		}
	}

	// Transaction sub-state, pointing into purchase or sell.
	var curTx *model.TransactionMenuSettings
	var curBtn *model.ActionButton
	var curGroup *model.ButtonGroup
	inAmounts := false
	curAmount := ""

	resetTx := func() {
		curBtn, curGroup = nil, nil
		inAmounts, curAmount = false, ""
	}

	for _, raw := range splitLines(text) {
		col, t := content(raw)
		if skippable(t) {
			continue
		}

		if col == legColSection {
			finalizeMenuBtn()
			resetTx()
			inButtons, menuInLore = false, false
			key, value, ok := splitKeyValue(t)
			if !ok || value != "" {
				sec = legSecNone
				continue
			}
			switch key {
			case "main":
				sec = legSecMain
			case "purchase":
				sec, curTx = legSecPurchase, purchase
			case "sell":
				sec, curTx = legSecSell, sell
			default:
				sec = legSecNone
			}
			continue
		}

		switch sec {
		case legSecMain:
			switch col {
			case legColTop:
				finalizeMenuBtn()
				menuInLore = false
				key, value, ok := splitKeyValue(t)
				if !ok {
					inButtons = false
					continue
				}
				switch key {
				case "title":
					menu.Title = unquote(value)
					inButtons = false
				case "rows":
					menu.Rows = parseIntOr(value, model.DefaultMenuRows)
					inButtons = false
				case "buttons":
					inButtons = true
				default:
					inButtons = false
				}
			case legColChild:
				if !inButtons {
					continue
				}
				if key, value, ok := splitKeyValue(t); ok && value == "" {
					finalizeMenuBtn()
					curMenuBtn = &model.MainMenuButton{Key: unquote(key)}
					menuInLore = false
				}
			case legColSub:
				if curMenuBtn == nil {
					continue
				}
				key, value, ok := splitKeyValue(t)
				if !ok {
					continue
				}
				if key == "lore" && value == "" {
					menuInLore = true
					continue
				}
				menuInLore = false
				setButtonField(curMenuBtn, key, value)
			case legColDeep:
				if curMenuBtn != nil && menuInLore && t[0] == '-' {
					curMenuBtn.Lore = append(curMenuBtn.Lore, dashValue(t))
				}
			}

		case legSecPurchase, legSecSell:
			switch col {
			case legColTop:
				resetTx()
				key, value, ok := splitKeyValue(t)
				if !ok {
					continue
				}
				switch key {
				case "title-prefix":
					curTx.TitlePrefix = unquote(value)
				case "display-material":
					curTx.DisplayMaterial = unquote(value)
				case "display-slot":
					curTx.DisplaySlot = parseIntOr(value, model.DefaultDisplaySlot)
				case "max-amount":
					curTx.MaxAmount = parseIntOr(value, model.DefaultMaxAmount)
				case "confirm-button":
					curBtn = &curTx.Confirm
				case "cancel-button":
					curBtn = &curTx.Cancel
				case "back-button":
					curBtn = &curTx.Back
				case "sell-all-button":
					if sec == legSecSell {
						if curTx.SellAll == nil {
							curTx.SellAll = &model.ActionButton{}
						}
						curBtn = curTx.SellAll
					}
				case "add-buttons":
					curGroup = &curTx.Add
				case "remove-buttons":
					curGroup = &curTx.Remove
				case "set-buttons":
					curGroup = &curTx.Set
				}
			case legColChild:
				key, value, ok := splitKeyValue(t)
				if !ok {
					continue
				}
				if curBtn != nil {
					setActionButtonField(curBtn, key, value)
					continue
				}
				if curGroup == nil {
					continue
				}
				switch {
				case key == "material":
					curGroup.Material = unquote(value)
					inAmounts = false
				case key == "amounts" && value == "":
					inAmounts = true
					curAmount = ""
				default:
					inAmounts = false
				}
			case legColSub:
				if curGroup == nil || !inAmounts {
					continue
				}
				if key, value, ok := splitKeyValue(t); ok && value == "" {
					curAmount = unquote(key)
					if curGroup.Amounts == nil {
						curGroup.Amounts = make(map[string]model.AmountButton)
					}
					curGroup.Amounts[curAmount] = model.AmountButton{}
				}
			case legColDeep:
				if curGroup == nil || !inAmounts || curAmount == "" {
					continue
				}
				key, value, ok := splitKeyValue(t)
				if !ok {
					continue
				}
				btn := curGroup.Amounts[curAmount]
				switch key {
				case "name":
					btn.Name = unquote(value)
				case "slot":
					btn.Slot = parseIntOr(value, 0)
				}
				curGroup.Amounts[curAmount] = btn
			}
		}
	}
	finalizeMenuBtn()

	return menu, purchase, sell
}

// SpliceLegacyGUI rewrites the main, purchase and sell sections of a
// previously loaded gui.yml with freshly serialized content, copying every
// other line through verbatim. Sections absent from the original are
// appended at the end.
func SpliceLegacyGUI(original string, menu *model.MainMenuState, purchase, sell *model.TransactionMenuSettings) string {
	sections := map[string]string{
		"main":     SerializeMainMenu(menu),
		"purchase": SerializePurchaseMenu(purchase),
		"sell":     SerializeSellMenu(sell),
	}
	order := []string{"main", "purchase", "sell"}

	var out []string
	emitted := make(map[string]bool)
	skipping := false

	for _, raw := range splitLines(original) {
		col, t := content(raw)
		// Any non-blank line back at column 0 (including a comment header
		// for the next section) ends the section being replaced.
		if col == legColSection && t != "" {
			skipping = false
			if key, value, ok := splitKeyValue(t); ok && value == "" && !strings.HasPrefix(t, "#") {
				if body, known := sections[key]; known {
					out = append(out, key+":")
					out = append(out, blockLines(body)...)
					emitted[key] = true
					skipping = true
					continue
				}
			}
		}
		if skipping {
			continue
		}
		out = append(out, raw)
	}

	for _, key := range order {
		if !emitted[key] {
			out = append(out, key+":")
			out = append(out, blockLines(sections[key])...)
		}
	}

	return strings.Join(out, "\n")
}

// blockLines indents a serialized split-file document one level and returns
// its lines, without the trailing blank.
func blockLines(body string) []string {
	lines := strings.Split(strings.TrimSuffix(indentBlock(body, 2), "\n"), "\n")
	return lines
}
