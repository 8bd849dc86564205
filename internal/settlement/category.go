package settlement

import "strings"

// Category decides how a material's value is split between the Green Scholar
// Fund and the customer's wallet.
type Category string

const (
	CategoryAluminum Category = "aluminum" // 100% wallet
	CategoryPET      Category = "pet"      // 100% Green Scholar Fund
	CategoryOther    Category = "other"    // 70% fund / 30% wallet
)

// Catalog display names that map onto a non-default category. Matching is
// exact and case-sensitive; anything else is CategoryOther.
var nameCategories = map[string]Category{
	"Aluminum Cans":         CategoryAluminum,
	"Aluminium Cans":        CategoryAluminum,
	"PET":                   CategoryPET,
	"PET Bottles":           CategoryPET,
	"Plastic Bottles (PET)": CategoryPET,
}

// ClassifyName derives a category from a catalog display name.
func ClassifyName(name string) Category {
	if c, ok := nameCategories[name]; ok {
		return c
	}
	return CategoryOther
}

// ParseCategory accepts the stored form of a category column.
func ParseCategory(s string) (Category, bool) {
	switch Category(strings.ToLower(strings.TrimSpace(s))) {
	case CategoryAluminum:
		return CategoryAluminum, true
	case CategoryPET:
		return CategoryPET, true
	case CategoryOther:
		return CategoryOther, true
	}
	return "", false
}

// ResolveCategory is called once when a catalog entry is loaded. An explicit
// category column wins; the display name is only a fallback for rows that
// predate the column.
func ResolveCategory(explicit, name string) Category {
	if c, ok := ParseCategory(explicit); ok {
		return c
	}
	return ClassifyName(name)
}

func (c Category) Valid() bool {
	_, ok := ParseCategory(string(c))
	return ok
}
