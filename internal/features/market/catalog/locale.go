package catalog

import "strings"

// exteriorLabels translates exterior-wear qualifiers into the display
// locale. Unmapped values pass through unchanged.
var exteriorLabels = map[string]string{
	"Factory New":    "Прямо с завода",
	"Minimal Wear":   "Немного поношенное",
	"Field-Tested":   "После полевых испытаний",
	"Well-Worn":      "Поношенное",
	"Battle-Scarred": "Закалённое в боях",
}

// rarityLabels translates rarity tier names into the display locale.
var rarityLabels = map[string]string{
	"Covert":           "Тайное",
	"Classified":       "Засекреченное",
	"Restricted":       "Запрещённое",
	"Mil-Spec Grade":   "Армейское качество",
	"Industrial Grade": "Промышленное качество",
	"Consumer Grade":   "Ширпотреб",
}

// LocalizeExterior rewrites the parenthesized wear qualifier of a market
// hash name, e.g. "AWP | Asiimov (Field-Tested)".
func LocalizeExterior(name string) string {
	open := strings.LastIndex(name, "(")
	end := strings.LastIndex(name, ")")
	if open < 0 || end < open {
		return name
	}

	wear := name[open+1 : end]
	localized, ok := exteriorLabels[wear]
	if !ok {
		return name
	}
	return name[:open+1] + localized + name[end:]
}

// LocalizeRarity translates a rarity tier name, passing unmapped values
// through unchanged.
func LocalizeRarity(rarity string) string {
	if localized, ok := rarityLabels[rarity]; ok {
		return localized
	}
	return rarity
}
