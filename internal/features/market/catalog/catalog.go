// Package catalog holds the reference list of canonical skin names and
// rarities. Marketplace search is exact-match, so free-text queries are
// refined against this catalog before going remote, and results are
// enriched with rarity data the marketplace often omits.
package catalog

import "strings"

// Entry is one canonical skin with its rarity tier.
type Entry struct {
	Name        string
	RarityName  string
	RarityColor string
}

const (
	colorCovert     = "#eb4b4b"
	colorClassified = "#d32ce6"
	colorRestricted = "#8847ff"
	colorMilSpec    = "#4b69ff"
	colorIndustrial = "#5e98d9"
	colorConsumer   = "#b0c3d9"
)

// entries is the canonical catalog. Not exhaustive: it covers the skins
// actually given away, which is what the refinement hit rate depends on.
var entries = []Entry{
	{"AK-47 | Asiimov", "Covert", colorCovert},
	{"AK-47 | Redline", "Classified", colorClassified},
	{"AK-47 | Vulcan", "Covert", colorCovert},
	{"AWP | Dragon Lore", "Covert", colorCovert},
	{"AWP | Asiimov", "Covert", colorCovert},
	{"AWP | Neo-Noir", "Covert", colorCovert},
	{"M4A1-S | Printstream", "Covert", colorCovert},
	{"M4A1-S | Hyper Beast", "Covert", colorCovert},
	{"M4A4 | Howl", "Covert", colorCovert},
	{"M4A4 | Neo-Noir", "Covert", colorCovert},
	{"Desert Eagle | Blaze", "Restricted", colorRestricted},
	{"Desert Eagle | Printstream", "Covert", colorCovert},
	{"USP-S | Kill Confirmed", "Covert", colorCovert},
	{"USP-S | Neo-Noir", "Covert", colorCovert},
	{"Glock-18 | Fade", "Restricted", colorRestricted},
	{"Glock-18 | Water Elemental", "Restricted", colorRestricted},
	{"P250 | Sand Dune", "Consumer Grade", colorConsumer},
	{"Five-SeveN | Case Hardened", "Mil-Spec Grade", colorMilSpec},
	{"MP9 | Hypnotic", "Industrial Grade", colorIndustrial},
	{"Karambit | Doppler", "Covert", colorCovert},
	{"Butterfly Knife | Fade", "Covert", colorCovert},
}

// Normalize folds a skin name for matching: case, whitespace, hyphens and
// the pipe separator all vary between user input and the marketplace.
func Normalize(name string) string {
	replacer := strings.NewReplacer(" ", "", "\t", "", "-", "", "|", "")
	return strings.ToLower(replacer.Replace(name))
}

// Refine substitutes the canonical skin name for a free-text query when an
// exact or substring match exists; otherwise the query passes through
// unchanged. This is what makes the marketplace's exact-match search usable
// with human-typed queries.
func Refine(query string) string {
	normalized := Normalize(query)
	if normalized == "" {
		return query
	}

	for _, e := range entries {
		if Normalize(e.Name) == normalized {
			return e.Name
		}
	}
	for _, e := range entries {
		if strings.Contains(Normalize(e.Name), normalized) {
			return e.Name
		}
	}
	return query
}

// RarityByName resolves the rarity of a canonical skin. The base name is
// matched with exterior qualifiers stripped, so "AK-47 | Redline
// (Field-Tested)" still resolves.
func RarityByName(name string) (Entry, bool) {
	base := name
	if i := strings.Index(base, "("); i > 0 {
		base = base[:i]
	}
	normalized := Normalize(base)

	for _, e := range entries {
		if Normalize(e.Name) == normalized {
			return e, true
		}
	}
	return Entry{}, false
}
