package shopyaml

import (
	"strconv"

	"github.com/Drallee/genius-shop-editor/internal/model"
)

// Column constants for the split-file shop grammar.
const (
	shopColTop      = 0 // gui-name, rows, permission, section keys
	shopColNested   = 2 // available-times entries, item-lore children, item dashes
	shopColItemProp = 4 // item properties
	shopColItemSub  = 6 // item lore entries and enchantment pairs
)

type shopSection int

const (
	shopSecTop shopSection = iota
	shopSecTimes
	shopSecItemLore
	shopSecItems
)

// ParseShop reads one shop file. Parsing is best-effort: unrecognized or
// mis-indented lines are skipped, and malformed numeric values fall back to
// their defaults. Item IDs are assigned in parse order starting at 1.
func ParseShop(text string) *model.ShopDocument {
	doc := model.NewShopDocument("")
	sec := shopSecTop
	var cur *model.ShopItem
	inLore := false
	nextID := int64(1)

	finalize := func() {
		if cur == nil {
			return
		}
		cur.ID = nextID
		nextID++
		doc.Items = append(doc.Items, *cur)
		cur = nil
	}

	for _, raw := range splitLines(text) {
		col, t := content(raw)
		if skippable(t) {
			continue
		}

		// A key at the reset column ends whatever section was open.
		if col == shopColTop {
			finalize()
			inLore = false
			key, value, ok := splitKeyValue(t)
			if !ok {
				sec = shopSecTop
				continue
			}
			switch key {
			case "gui-name":
				doc.GUIName = unquote(value)
				sec = shopSecTop
			case "rows":
				doc.Rows = parseIntOr(value, model.DefaultShopRows)
				sec = shopSecTop
			case "permission":
				doc.Permission = unquote(value)
				sec = shopSecTop
			case "available-times":
				sec = shopSecTimes
			case "item-lore":
				sec = shopSecItemLore
			case "items":
				sec = shopSecItems
			default:
				sec = shopSecTop
			}
			continue
		}

		switch sec {
		case shopSecTimes:
			if col == shopColNested && t[0] == '-' {
				doc.AvailableTimes = append(doc.AvailableTimes, dashValue(t))
			}

		case shopSecItemLore:
			if col == shopColNested {
				if key, value, ok := splitKeyValue(t); ok {
					setItemLoreField(&doc.ItemLore, key, value)
				}
			}

		case shopSecItems:
			switch col {
			case shopColNested:
				// Two supported item starts: inline "- material: X" and a
				// bare "-" with properties on the following lines.
				if t == "-" {
					finalize()
					cur = newShopItem()
					inLore = false
				} else if len(t) > 2 && t[0] == '-' && t[1] == ' ' {
					finalize()
					cur = newShopItem()
					inLore = false
					if key, value, ok := splitKeyValue(t[2:]); ok {
						setItemField(cur, key, value)
					}
				}
			case shopColItemProp:
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
				setItemField(cur, key, value)
			case shopColItemSub:
				if cur == nil {
					continue
				}
				if inLore {
					if t[0] == '-' {
						cur.Lore = append(cur.Lore, dashValue(t))
					}
					continue
				}
				// Any key: number pair at this depth is an enchantment;
				// there is no other marker for the enchantments block.
				key, value, ok := splitKeyValue(t)
				if !ok {
					continue
				}
				if level, err := strconv.Atoi(unquote(value)); err == nil {
					if cur.Enchantments == nil {
						cur.Enchantments = make(map[string]int)
					}
					cur.Enchantments[unquote(key)] = level
				}
			}
		}
	}
	finalize()

	return doc
}

func newShopItem() *model.ShopItem {
	return &model.ShopItem{Amount: 1}
}

func setItemField(item *model.ShopItem, key, value string) {
	switch key {
	case "material":
		item.Material = unquote(value)
	case "name":
		item.Name = unquote(value)
	case "price":
		item.Price = parseFloatOr(value, 0)
	case "sell-price":
		item.SellPrice = parseFloatOr(value, 0)
	case "amount":
		item.Amount = parseIntOr(value, 1)
	case "spawner-type":
		item.SpawnerType = unquote(value)
	case "potion-type":
		item.PotionType = unquote(value)
	case "potion-level":
		item.PotionLevel = parseIntOr(value, 0)
	case "hide-attributes":
		item.HideAttributes = parseBoolOr(value, false)
	case "hide-additional":
		item.HideAdditional = parseBoolOr(value, false)
	case "require-name":
		item.RequireName = parseBoolOr(value, false)
	case "require-lore":
		item.RequireLore = parseBoolOr(value, false)
	case "unstable-tnt":
		item.UnstableTNT = parseBoolOr(value, false)
	}
}

func setItemLoreField(l *model.ItemLoreSettings, key, value string) {
	switch key {
	case "show-buy-price":
		l.ShowBuyPrice = parseBoolOr(value, false)
	case "buy-price-line":
		l.BuyPriceLine = unquote(value)
	case "show-buy-hint":
		l.ShowBuyHint = parseBoolOr(value, false)
	case "buy-hint-line":
		l.BuyHintLine = unquote(value)
	case "show-sell-price":
		l.ShowSellPrice = parseBoolOr(value, false)
	case "sell-price-line":
		l.SellPriceLine = unquote(value)
	case "show-sell-hint":
		l.ShowSellHint = parseBoolOr(value, false)
	case "sell-hint-line":
		l.SellHintLine = unquote(value)
	}
}

// SerializeShop renders a shop document to canonical text.
func SerializeShop(doc *model.ShopDocument) string {
	w := &writer{}
	w.kv(shopColTop, "gui-name", quote(doc.GUIName))
	w.kv(shopColTop, "rows", strconv.Itoa(doc.Rows))
	if doc.Permission != "" {
		w.kv(shopColTop, "permission", quote(doc.Permission))
	}
	if len(doc.AvailableTimes) > 0 {
		w.line(shopColTop, "available-times:")
		for _, t := range doc.AvailableTimes {
			w.line(shopColNested, "- "+quote(t))
		}
	}
	if !doc.ItemLore.IsZero() {
		w.line(shopColTop, "item-lore:")
		writeItemLore(w, doc.ItemLore)
	}
	if len(doc.Items) > 0 {
		w.line(shopColTop, "items:")
		for _, item := range doc.Items {
			writeShopItem(w, item)
		}
	}
	return w.String()
}

func writeItemLore(w *writer, l model.ItemLoreSettings) {
	if l.ShowBuyPrice {
		w.kv(shopColNested, "show-buy-price", "true")
	}
	if l.BuyPriceLine != "" {
		w.kv(shopColNested, "buy-price-line", quote(l.BuyPriceLine))
	}
	if l.ShowBuyHint {
		w.kv(shopColNested, "show-buy-hint", "true")
	}
	if l.BuyHintLine != "" {
		w.kv(shopColNested, "buy-hint-line", quote(l.BuyHintLine))
	}
	if l.ShowSellPrice {
		w.kv(shopColNested, "show-sell-price", "true")
	}
	if l.SellPriceLine != "" {
		w.kv(shopColNested, "sell-price-line", quote(l.SellPriceLine))
	}
	if l.ShowSellHint {
		w.kv(shopColNested, "show-sell-hint", "true")
	}
	if l.SellHintLine != "" {
		w.kv(shopColNested, "sell-hint-line", quote(l.SellHintLine))
	}
}

func writeShopItem(w *writer, item model.ShopItem) {
	if item.Material != "" {
		w.line(shopColNested, "- material: "+item.Material)
	} else {
		w.line(shopColNested, "-")
	}
	if item.Name != "" {
		w.kv(shopColItemProp, "name", quote(item.Name))
	}
	if item.Price != 0 {
		w.kv(shopColItemProp, "price", formatNumber(item.Price))
	}
	if item.SellPrice != 0 {
		w.kv(shopColItemProp, "sell-price", formatNumber(item.SellPrice))
	}
	if item.Amount != 1 {
		w.kv(shopColItemProp, "amount", strconv.Itoa(item.Amount))
	}
	if len(item.Lore) > 0 {
		w.line(shopColItemProp, "lore:")
		for _, l := range item.Lore {
			w.line(shopColItemSub, "- "+quote(l))
		}
	}
	if item.SpawnerType != "" {
		w.kv(shopColItemProp, "spawner-type", item.SpawnerType)
	}
	if item.PotionType != "" {
		w.kv(shopColItemProp, "potion-type", item.PotionType)
	}
	if item.PotionLevel != 0 {
		w.kv(shopColItemProp, "potion-level", strconv.Itoa(item.PotionLevel))
	}
	if len(item.Enchantments) > 0 {
		w.line(shopColItemProp, "enchantments:")
		for _, name := range sortedKeys(item.Enchantments) {
			w.kv(shopColItemSub, name, strconv.Itoa(item.Enchantments[name]))
		}
	}
	if item.HideAttributes {
		w.kv(shopColItemProp, "hide-attributes", "true")
	}
	if item.HideAdditional {
		w.kv(shopColItemProp, "hide-additional", "true")
	}
	if item.RequireName {
		w.kv(shopColItemProp, "require-name", "true")
	}
	if item.RequireLore {
		w.kv(shopColItemProp, "require-lore", "true")
	}
	if item.UnstableTNT {
		w.kv(shopColItemProp, "unstable-tnt", "true")
	}
}
