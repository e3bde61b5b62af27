package catalog

import (
	"errors"
	"net/url"
	"strings"
)

// Category classifies a catalog item.
type Category string

// Known categories.
const (
	CategoryOptimization Category = "optimization"
	CategoryDimensions   Category = "dimensions"
	CategoryStructures   Category = "structures"
	CategoryCombat       Category = "combat"
	CategoryRPG          Category = "rpg"
	CategoryUtility      Category = "utility"
	CategoryStorage      Category = "storage"
	CategoryBiomes       Category = "biomes"
	CategoryDecoration   Category = "decoration"
	CategoryVisual       Category = "visual"
	CategoryFarming      Category = "farming"
	CategoryTech         Category = "tech"
	CategoryMultiplayer  Category = "multiplayer"
	CategoryLibrary      Category = "library"
	CategoryMisc         Category = "misc"
)

// ErrMissingName is returned when an item has no name.
var ErrMissingName = errors.New("catalog: item name is required")

// Item is a single catalog entry. All fields except Name are optional.
//
// Contract:
// - Ownership: items are owned by the catalog; the engine never mutates them.
// - Icon, when set, short-circuits all network resolution for the item.
type Item struct {
	// Name is the display name of the item.
	Name string

	// Category classifies the item. Unknown values are passed through.
	Category Category

	// Description is display-only text; the engine ignores it.
	Description string

	// Wiki is the static documentation URL the catalog shipped with.
	// It is the fallback doc link when no registry supplies a better one,
	// and it may itself encode a registry-B slug.
	Wiki string

	// Slug is the registry-A (bulk registry) identifier, if known.
	Slug string

	// CurseSlug is the registry-B (single-lookup registry) identifier,
	// if known.
	CurseSlug string

	// Icon is a preset icon URL. When non-empty the engine performs no
	// lookups for this item.
	Icon string

	// IsLibrary marks dependency-only items. The engine treats them like
	// any other item; the flag exists for the consumer's filtering.
	IsLibrary bool
}

// Validate reports whether the item is usable as engine input.
func (i Item) Validate() error {
	if strings.TrimSpace(i.Name) == "" {
		return ErrMissingName
	}
	return nil
}

// SecondarySlug returns the registry-B slug for the item: the explicit
// CurseSlug when set, otherwise a slug inferred from the item's Wiki URL.
func (i Item) SecondarySlug() (string, bool) {
	if i.CurseSlug != "" {
		return i.CurseSlug, true
	}
	return CurseSlugFromURL(i.Wiki)
}

// curseHosts are the registry-B hostnames a project URL may live under.
var curseHosts = map[string]bool{
	"curseforge.com":        true,
	"www.curseforge.com":    true,
	"legacy.curseforge.com": true,
}

// CurseSlugFromURL extracts a registry-B slug from a project page URL of
// the form https://www.curseforge.com/minecraft/mc-mods/<slug>. It returns
// false for any other URL shape.
func CurseSlugFromURL(raw string) (string, bool) {
	if raw == "" {
		return "", false
	}
	u, err := url.Parse(raw)
	if err != nil || !curseHosts[u.Hostname()] {
		return "", false
	}
	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	// Expect minecraft/mc-mods/<slug>, optionally with trailing segments.
	if len(parts) < 3 || parts[0] != "minecraft" || parts[1] != "mc-mods" {
		return "", false
	}
	slug := parts[2]
	if slug == "" {
		return "", false
	}
	return slug, true
}
