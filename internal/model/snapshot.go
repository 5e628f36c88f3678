package model

// Snapshot builders and readers. Builders produce the field maps stored in
// activity log entries; readers reconstruct typed values during rollback.
// Readers must tolerate JSON-decoded snapshots loaded from the durable log,
// where numbers arrive as float64 and collections as []any / map[string]any.

// SnapshotItem captures a shop item's fields.
func SnapshotItem(i ShopItem) Snapshot {
	s := Snapshot{
		"id":         i.ID,
		"material":   i.Material,
		"name":       i.Name,
		"price":      i.Price,
		"sell_price": i.SellPrice,
		"amount":     i.Amount,
	}
	if len(i.Lore) > 0 {
		s["lore"] = cloneStrings(i.Lore)
	}
	if i.SpawnerType != "" {
		s["spawner_type"] = i.SpawnerType
	}
	if i.PotionType != "" {
		s["potion_type"] = i.PotionType
	}
	if i.PotionLevel != 0 {
		s["potion_level"] = i.PotionLevel
	}
	if len(i.Enchantments) > 0 {
		s["enchantments"] = cloneIntMap(i.Enchantments)
	}
	if i.HideAttributes {
		s["hide_attributes"] = true
	}
	if i.HideAdditional {
		s["hide_additional"] = true
	}
	if i.RequireName {
		s["require_name"] = true
	}
	if i.RequireLore {
		s["require_lore"] = true
	}
	if i.UnstableTNT {
		s["unstable_tnt"] = true
	}
	return s
}

// ItemFromSnapshot rebuilds a shop item. The ID field is restored as
// recorded; callers that re-add the item must mint a fresh one.
func ItemFromSnapshot(s Snapshot) ShopItem {
	return ShopItem{
		ID:             snapInt64(s, "id"),
		Material:       snapString(s, "material"),
		Name:           snapString(s, "name"),
		Price:          snapFloat(s, "price"),
		SellPrice:      snapFloat(s, "sell_price"),
		Amount:         snapInt(s, "amount"),
		Lore:           snapStrings(s, "lore"),
		SpawnerType:    snapString(s, "spawner_type"),
		PotionType:     snapString(s, "potion_type"),
		PotionLevel:    snapInt(s, "potion_level"),
		Enchantments:   snapIntMap(s, "enchantments"),
		HideAttributes: snapBool(s, "hide_attributes"),
		HideAdditional: snapBool(s, "hide_additional"),
		RequireName:    snapBool(s, "require_name"),
		RequireLore:    snapBool(s, "require_lore"),
		UnstableTNT:    snapBool(s, "unstable_tnt"),
	}
}

// SnapshotButton captures a main menu button's fields.
func SnapshotButton(b MainMenuButton) Snapshot {
	s := Snapshot{
		"key":      b.Key,
		"slot":     b.Slot,
		"material": b.Material,
		"name":     b.Name,
	}
	if len(b.Lore) > 0 {
		s["lore"] = cloneStrings(b.Lore)
	}
	if b.Shop != "" {
		s["shop"] = b.Shop
	}
	if b.Permission != "" {
		s["permission"] = b.Permission
	}
	if b.HideAttributes {
		s["hide_attributes"] = true
	}
	if b.HideAdditional {
		s["hide_additional"] = true
	}
	return s
}

// ButtonFromSnapshot rebuilds a main menu button.
func ButtonFromSnapshot(s Snapshot) MainMenuButton {
	return MainMenuButton{
		Key:            snapString(s, "key"),
		Slot:           snapInt(s, "slot"),
		Material:       snapString(s, "material"),
		Name:           snapString(s, "name"),
		Lore:           snapStrings(s, "lore"),
		Shop:           snapString(s, "shop"),
		Permission:     snapString(s, "permission"),
		HideAttributes: snapBool(s, "hide_attributes"),
		HideAdditional: snapBool(s, "hide_additional"),
	}
}

// SnapshotShopSettings captures a shop document's non-item fields.
func SnapshotShopSettings(d *ShopDocument) Snapshot {
	s := Snapshot{
		"gui_name": d.GUIName,
		"rows":     d.Rows,
	}
	if d.Permission != "" {
		s["permission"] = d.Permission
	}
	if len(d.AvailableTimes) > 0 {
		s["available_times"] = cloneStrings(d.AvailableTimes)
	}
	s["item_lore"] = snapshotItemLore(d.ItemLore)
	return s
}

// ApplyShopSettings overwrites a shop document's non-item fields from a snapshot.
func ApplyShopSettings(d *ShopDocument, s Snapshot) {
	d.GUIName = snapString(s, "gui_name")
	d.Rows = snapInt(s, "rows")
	d.Permission = snapString(s, "permission")
	d.AvailableTimes = snapStrings(s, "available_times")
	d.ItemLore = itemLoreFromSnapshot(s["item_lore"])
}

func snapshotItemLore(l ItemLoreSettings) map[string]any {
	return map[string]any{
		"show_buy_price":  l.ShowBuyPrice,
		"buy_price_line":  l.BuyPriceLine,
		"show_buy_hint":   l.ShowBuyHint,
		"buy_hint_line":   l.BuyHintLine,
		"show_sell_price": l.ShowSellPrice,
		"sell_price_line": l.SellPriceLine,
		"show_sell_hint":  l.ShowSellHint,
		"sell_hint_line":  l.SellHintLine,
	}
}

func itemLoreFromSnapshot(v any) ItemLoreSettings {
	m, ok := v.(map[string]any)
	if !ok {
		return ItemLoreSettings{}
	}
	s := Snapshot(m)
	return ItemLoreSettings{
		ShowBuyPrice:  snapBool(s, "show_buy_price"),
		BuyPriceLine:  snapString(s, "buy_price_line"),
		ShowBuyHint:   snapBool(s, "show_buy_hint"),
		BuyHintLine:   snapString(s, "buy_hint_line"),
		ShowSellPrice: snapBool(s, "show_sell_price"),
		SellPriceLine: snapString(s, "sell_price_line"),
		ShowSellHint:  snapBool(s, "show_sell_hint"),
		SellHintLine:  snapString(s, "sell_hint_line"),
	}
}

// SnapshotMenuSettings captures the main menu's title and rows.
func SnapshotMenuSettings(m *MainMenuState) Snapshot {
	return Snapshot{
		"title": m.Title,
		"rows":  m.Rows,
	}
}

// ApplyMenuSettings overwrites the main menu's title and rows from a snapshot.
func ApplyMenuSettings(m *MainMenuState, s Snapshot) {
	m.Title = snapString(s, "title")
	m.Rows = snapInt(s, "rows")
}

// SnapshotTransactionSettings captures a transaction menu's full settings.
func SnapshotTransactionSettings(t *TransactionMenuSettings) Snapshot {
	s := Snapshot{
		"title_prefix":     t.TitlePrefix,
		"display_material": t.DisplayMaterial,
		"display_slot":     t.DisplaySlot,
		"max_amount":       t.MaxAmount,
		"confirm":          snapshotActionButton(t.Confirm),
		"cancel":           snapshotActionButton(t.Cancel),
		"back":             snapshotActionButton(t.Back),
		"add":              snapshotGroup(t.Add),
		"remove":           snapshotGroup(t.Remove),
		"set":              snapshotGroup(t.Set),
	}
	if t.SellAll != nil {
		s["sell_all"] = snapshotActionButton(*t.SellAll)
	}
	return s
}

// ApplyTransactionSettings overwrites transaction menu settings from a
// snapshot, preserving the live Kind.
func ApplyTransactionSettings(t *TransactionMenuSettings, s Snapshot) {
	t.TitlePrefix = snapString(s, "title_prefix")
	t.DisplayMaterial = snapString(s, "display_material")
	t.DisplaySlot = snapInt(s, "display_slot")
	t.MaxAmount = snapInt(s, "max_amount")
	t.Confirm = actionButtonFromSnapshot(s["confirm"])
	t.Cancel = actionButtonFromSnapshot(s["cancel"])
	t.Back = actionButtonFromSnapshot(s["back"])
	if v, ok := s["sell_all"]; ok {
		btn := actionButtonFromSnapshot(v)
		t.SellAll = &btn
	} else {
		t.SellAll = nil
	}
	t.Add = groupFromSnapshot(s["add"])
	t.Remove = groupFromSnapshot(s["remove"])
	t.Set = groupFromSnapshot(s["set"])
}

func snapshotActionButton(b ActionButton) map[string]any {
	return map[string]any{
		"material": b.Material,
		"name":     b.Name,
		"slot":     b.Slot,
	}
}

func actionButtonFromSnapshot(v any) ActionButton {
	m, ok := v.(map[string]any)
	if !ok {
		return ActionButton{}
	}
	s := Snapshot(m)
	return ActionButton{
		Material: snapString(s, "material"),
		Name:     snapString(s, "name"),
		Slot:     snapInt(s, "slot"),
	}
}

func snapshotGroup(g ButtonGroup) map[string]any {
	m := map[string]any{"material": g.Material}
	if len(g.Amounts) > 0 {
		amounts := make(map[string]any, len(g.Amounts))
		for k, b := range g.Amounts {
			amounts[k] = map[string]any{"name": b.Name, "slot": b.Slot}
		}
		m["amounts"] = amounts
	}
	return m
}

func groupFromSnapshot(v any) ButtonGroup {
	m, ok := v.(map[string]any)
	if !ok {
		return ButtonGroup{}
	}
	g := ButtonGroup{Material: snapString(Snapshot(m), "material")}
	amounts, ok := m["amounts"].(map[string]any)
	if !ok {
		return g
	}
	g.Amounts = make(map[string]AmountButton, len(amounts))
	for k, av := range amounts {
		am, ok := av.(map[string]any)
		if !ok {
			continue
		}
		g.Amounts[k] = AmountButton{
			Name: snapString(Snapshot(am), "name"),
			Slot: snapInt(Snapshot(am), "slot"),
		}
	}
	return g
}

// Tolerant snapshot readers.

func snapString(s Snapshot, key string) string {
	v, _ := s[key].(string)
	return v
}

func snapBool(s Snapshot, key string) bool {
	v, _ := s[key].(bool)
	return v
}

func snapFloat(s Snapshot, key string) float64 {
	switch v := s[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case int64:
		return float64(v)
	}
	return 0
}

func snapInt(s Snapshot, key string) int {
	return int(snapFloat(s, key))
}

func snapInt64(s Snapshot, key string) int64 {
	return int64(snapFloat(s, key))
}

func snapStrings(s Snapshot, key string) []string {
	switch v := s[key].(type) {
	case []string:
		return cloneStrings(v)
	case []any:
		out := make([]string, 0, len(v))
		for _, e := range v {
			str, _ := e.(string)
			out = append(out, str)
		}
		return out
	}
	return nil
}

func snapIntMap(s Snapshot, key string) map[string]int {
	switch v := s[key].(type) {
	case map[string]int:
		return cloneIntMap(v)
	case map[string]any:
		out := make(map[string]int, len(v))
		for k := range v {
			out[k] = snapInt(Snapshot(v), k)
		}
		return out
	}
	return nil
}
