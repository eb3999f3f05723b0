package grocery

import (
	"regexp"
	"strings"
)

// Heuristic line parser, the last resort for free-text list import when even
// the provider chain produced nothing usable. Confidence is scored well below
// what a model-parsed list would get.

var (
	bulletPrefix = regexp.MustCompile(`^\s*(?:[-*•]|\d+[.)])\s*`)
	leadingQty   = regexp.MustCompile(`^(\d+(?:\.\d+)?\s*(?:x|kg|g|l|ml|L)?)\s+(.+)$`)
)

var staples = []string{"Milk", "Bread", "Eggs"}

// ParseListHeuristic splits free text on newlines, commas, semicolons and
// " and ", strips bullets and numbering, and pulls a leading quantity off
// each entry.
func ParseListHeuristic(text string) ImportResult {
	normalized := strings.NewReplacer(",", "\n", ";", "\n", " and ", "\n").Replace(text)

	result := ImportResult{
		OriginalText: text,
		Items:        []ImportedItem{},
		Suggestions:  []string{},
	}

	seen := make(map[string]bool)
	for _, line := range strings.Split(normalized, "\n") {
		line = bulletPrefix.ReplaceAllString(strings.TrimSpace(line), "")
		if line == "" {
			continue
		}

		item := ImportedItem{Name: line}
		if m := leadingQty.FindStringSubmatch(line); m != nil {
			item.Quantity = strings.TrimSpace(m[1])
			item.Name = m[2]
		}
		item.Name = capitalize(strings.TrimSpace(item.Name))
		if item.Name == "" || seen[item.Name] {
			continue
		}
		seen[item.Name] = true
		result.Items = append(result.Items, item)
	}

	result.ParsedCount = len(result.Items)
	result.Confidence = heuristicConfidence(result.ParsedCount)
	result.Suggestions = missingStaples(seen)
	return result
}

func heuristicConfidence(count int) float64 {
	if count == 0 {
		return 0.1
	}
	conf := 0.3 + 0.05*float64(count)
	if conf > 0.7 {
		conf = 0.7
	}
	return conf
}

func missingStaples(have map[string]bool) []string {
	var out []string
	for _, s := range staples {
		if !have[s] {
			out = append(out, s)
		}
	}
	if out == nil {
		out = []string{}
	}
	return out
}
