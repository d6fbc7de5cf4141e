package branch

import "strings"

// Prefix tables for branch classification. The lower-cased table covers the
// canonical spellings; the exact-case table keeps historically accepted
// mixed-case prefixes working. Some exact-case entries also collapse to a
// lower-cased match, but not all casings do, so both passes stay.
var (
	lowerPrefixes = map[string]Category{
		"feature/":  CategoryFeature,
		"feat/":     CategoryFeature,
		"features/": CategoryFeature,
		"bugfix/":   CategoryBugfix,
		"bug/":      CategoryBugfix,
		"fix/":      CategoryBugfix,
		"hotfix/":   CategoryHotfix,
	}

	exactPrefixes = map[string]Category{
		"Feature/": CategoryFeature,
		"FEATURE/": CategoryFeature,
		"BugFix/":  CategoryBugfix,
		"bugFix/":  CategoryBugfix,
		"Bug/":     CategoryBugfix,
		"Fix/":     CategoryBugfix,
		"BUGFIX/":  CategoryBugfix,
		"HotFix/":  CategoryHotfix,
		"hotFix/":  CategoryHotfix,
		"HOTFIX/":  CategoryHotfix,
	}
)

// Classify maps a branch name to its category from the naming convention.
// It is a pure function: identical input always yields the same category.
func Classify(name string) Category {
	for prefix, category := range exactPrefixes {
		if strings.HasPrefix(name, prefix) {
			return category
		}
	}

	lower := strings.ToLower(name)
	for prefix, category := range lowerPrefixes {
		if strings.HasPrefix(lower, prefix) {
			return category
		}
	}

	return CategoryOther
}
