package shopyaml

import (
	"strconv"

	"github.com/Drallee/genius-shop-editor/internal/model"
)

// Column constants for the split-file transaction menu grammars.
const (
	txColTop       = 0 // scalar settings, named buttons, button groups
	txColChild     = 2 // named-button properties, group material/amounts
	txColAmountKey = 4 // amount map keys
	txColAmount    = 6 // amount button properties
)

type txSection int

const (
	txSecTop txSection = iota
	txSecButton
	txSecGroup
)

// ParsePurchaseMenu reads the purchase menu settings file.
func ParsePurchaseMenu(text string) *model.TransactionMenuSettings {
	return parseTransactionMenu(text, model.MenuPurchase)
}

// ParseSellMenu reads the sell menu settings file. It additionally
// recognizes the sell-all button, which the purchase grammar does not.
func ParseSellMenu(text string) *model.TransactionMenuSettings {
	return parseTransactionMenu(text, model.MenuSell)
}

func parseTransactionMenu(text, kind string) *model.TransactionMenuSettings {
	s := model.NewTransactionMenuSettings(kind)
	sec := txSecTop
	var curBtn *model.ActionButton
	var curGroup *model.ButtonGroup
	inAmounts := false
	curAmount := ""

	for _, raw := range splitLines(text) {
		col, t := content(raw)
		if skippable(t) {
			continue
		}

		if col == txColTop {
			sec = txSecTop
			curBtn, curGroup = nil, nil
			inAmounts, curAmount = false, ""
			key, value, ok := splitKeyValue(t)
			if !ok {
				continue
			}
			switch key {
			case "title-prefix":
				s.TitlePrefix = unquote(value)
			case "display-material":
				s.DisplayMaterial = unquote(value)
			case "display-slot":
				s.DisplaySlot = parseIntOr(value, model.DefaultDisplaySlot)
			case "max-amount":
				s.MaxAmount = parseIntOr(value, model.DefaultMaxAmount)
			case "confirm-button":
				sec, curBtn = txSecButton, &s.Confirm
			case "cancel-button":
				sec, curBtn = txSecButton, &s.Cancel
			case "back-button":
				sec, curBtn = txSecButton, &s.Back
			case "sell-all-button":
				if kind == model.MenuSell {
					if s.SellAll == nil {
						s.SellAll = &model.ActionButton{}
					}
					sec, curBtn = txSecButton, s.SellAll
				}
			case "add-buttons":
				sec, curGroup = txSecGroup, &s.Add
			case "remove-buttons":
				sec, curGroup = txSecGroup, &s.Remove
			case "set-buttons":
				sec, curGroup = txSecGroup, &s.Set
			}
			continue
		}

		switch sec {
		case txSecButton:
			if col != txColChild || curBtn == nil {
				continue
			}
			if key, value, ok := splitKeyValue(t); ok {
				setActionButtonField(curBtn, key, value)
			}

		case txSecGroup:
			if curGroup == nil {
				continue
			}
			switch col {
			case txColChild:
				key, value, ok := splitKeyValue(t)
				if !ok {
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
			case txColAmountKey:
				if !inAmounts {
					continue
				}
				if key, value, ok := splitKeyValue(t); ok && value == "" {
					curAmount = unquote(key)
					if curGroup.Amounts == nil {
						curGroup.Amounts = make(map[string]model.AmountButton)
					}
					curGroup.Amounts[curAmount] = model.AmountButton{}
				}
			case txColAmount:
				if !inAmounts || curAmount == "" {
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

	return s
}

func setActionButtonField(b *model.ActionButton, key, value string) {
	switch key {
	case "material":
		b.Material = unquote(value)
	case "name":
		b.Name = unquote(value)
	case "slot":
		b.Slot = parseIntOr(value, 0)
	}
}

// SerializePurchaseMenu renders purchase menu settings to canonical text.
func SerializePurchaseMenu(s *model.TransactionMenuSettings) string {
	return serializeTransactionMenu(s, false)
}

// SerializeSellMenu renders sell menu settings to canonical text, including
// the sell-all button when present.
func SerializeSellMenu(s *model.TransactionMenuSettings) string {
	return serializeTransactionMenu(s, true)
}

func serializeTransactionMenu(s *model.TransactionMenuSettings, withSellAll bool) string {
	w := &writer{}
	w.kv(txColTop, "title-prefix", quote(s.TitlePrefix))
	if s.DisplayMaterial != "" {
		w.kv(txColTop, "display-material", s.DisplayMaterial)
	}
	w.kv(txColTop, "display-slot", strconv.Itoa(s.DisplaySlot))
	w.kv(txColTop, "max-amount", strconv.Itoa(s.MaxAmount))
	writeActionButton(w, "confirm-button", s.Confirm)
	writeActionButton(w, "cancel-button", s.Cancel)
	writeActionButton(w, "back-button", s.Back)
	if withSellAll && s.SellAll != nil {
		writeActionButton(w, "sell-all-button", *s.SellAll)
	}
	writeButtonGroup(w, "add-buttons", s.Add)
	writeButtonGroup(w, "remove-buttons", s.Remove)
	writeButtonGroup(w, "set-buttons", s.Set)
	return w.String()
}

func writeActionButton(w *writer, key string, b model.ActionButton) {
	if b == (model.ActionButton{}) {
		return
	}
	w.line(txColTop, key+":")
	if b.Material != "" {
		w.kv(txColChild, "material", b.Material)
	}
	if b.Name != "" {
		w.kv(txColChild, "name", quote(b.Name))
	}
	w.kv(txColChild, "slot", strconv.Itoa(b.Slot))
}

func writeButtonGroup(w *writer, key string, g model.ButtonGroup) {
	if g.Material == "" && len(g.Amounts) == 0 {
		return
	}
	w.line(txColTop, key+":")
	if g.Material != "" {
		w.kv(txColChild, "material", g.Material)
	}
	if len(g.Amounts) > 0 {
		w.line(txColChild, "amounts:")
		for _, amount := range sortedAmountKeys(g.Amounts) {
			b := g.Amounts[amount]
			w.line(txColAmountKey, quote(amount)+":")
			if b.Name != "" {
				w.kv(txColAmount, "name", quote(b.Name))
			}
			w.kv(txColAmount, "slot", strconv.Itoa(b.Slot))
		}
	}
}
