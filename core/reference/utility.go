package reference

import (
	"sort"
	"strings"
)

// utilityRegions maps distribution company names, including common spellings,
// to region ids.
var utilityRegions = map[string]string{
	"edenor": "caba",
	"edesur": "caba",
	"eden":   "buenosaires",
	"edes":   "buenosaires",
	"edea":   "buenosaires",

	"epec": "cordoba",

	"epe":          "santafe",
	"epe santa fe": "santafe",
	"enersa":       "entrerios",
	"emsa":         "misiones",
	"dpec":         "corrientes",

	"edemsa":           "mendoza",
	"energia san juan": "sanjuan",
	"energía san juan": "sanjuan",
	"edesal":           "sanluis",

	"edesa":    "salta",
	"ejsed":    "jujuy",
	"edet":     "tucuman",
	"ec sapem": "catamarca",

	"epen":                  "neuquen",
	"edersa":                "rionegro",
	"servicios publicos se": "chubut",
	"servicios públicos se": "chubut",
}

// minPartialMatch is the shortest input accepted as a fragment of a known name
const minPartialMatch = 3

// utilityKeys holds the map keys longest first so the most specific name wins
var utilityKeys = func() []string {
	keys := make([]string, 0, len(utilityRegions))
	for k := range utilityRegions {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})
	return keys
}()

// RegionForUtility resolves a utility company name to a region id.
// Exact matches win; otherwise the input may contain a known name or be a fragment of one.
func RegionForUtility(name string) (string, bool) {
	normalized := strings.ToLower(strings.TrimSpace(name))
	if normalized == "" {
		return "", false
	}

	if id, ok := utilityRegions[normalized]; ok {
		return id, true
	}

	for _, key := range utilityKeys {
		if strings.Contains(normalized, key) {
			return utilityRegions[key], true
		}
	}
	if len([]rune(normalized)) >= minPartialMatch {
		for _, key := range utilityKeys {
			if strings.Contains(key, normalized) {
				return utilityRegions[key], true
			}
		}
	}

	return "", false
}

// UtilityNames returns the known utility names in upper case, sorted
func UtilityNames() []string {
	names := make([]string, 0, len(utilityRegions))
	for k := range utilityRegions {
		names = append(names, strings.ToUpper(k))
	}
	sort.Strings(names)
	return names
}
