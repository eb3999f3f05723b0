package grocery

import (
	"fmt"
	"strings"
	"time"
	"unicode"
)

// Coercion turns the untyped tree recovered from a model response into the
// typed caller-facing shape. It never errors: a missing or non-sequence top
// field degrades to an empty list, individually broken elements are dropped,
// and missing optional fields get their documented defaults.

// CoerceSuggestions accepts either {"suggestions": [...]} or a bare array.
// Non-string entries are dropped, survivors are trimmed and capitalized,
// deduplicated preserving first occurrence, and truncated to 8.
func CoerceSuggestions(payload any) []string {
	items := sequence(payload, "suggestions")

	result := make([]string, 0, maxSuggestions)
	seen := make(map[string]bool)
	for _, item := range items {
		s, ok := item.(string)
		if !ok {
			continue
		}
		s = capitalize(strings.TrimSpace(s))
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		result = append(result, s)
		if len(result) == maxSuggestions {
			break
		}
	}
	return result
}

// CoerceProducts validates each element against its anchor fields (name,
// price, imageHint); elements with broken anchors are rejected outright. IDs
// missing, non-numeric or already taken get a positional fallback, so the
// returned IDs are unique within the list.
func CoerceProducts(payload any) []Product {
	items := sequence(payload, "products")

	result := make([]Product, 0, maxProducts)
	seenIDs := make(map[int]bool)
	for _, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			continue
		}

		name := strings.TrimSpace(stringField(obj, "name"))
		price, priceOK := currencyField(obj, "price")
		hint := strings.TrimSpace(stringField(obj, "imageHint"))
		if name == "" || !priceOK || hint == "" {
			continue
		}

		p := Product{
			Name:      name,
			Price:     price,
			OnSpecial: boolField(obj, "onSpecial"),
			ImageHint: hint,
		}
		if orig, ok := currencyField(obj, "originalPrice"); ok {
			p.OriginalPrice = orig
		}
		id := 0
		if v, ok := numberField(obj, "id"); ok && v > 0 {
			id = int(v)
		}
		if id == 0 || seenIDs[id] {
			id = len(result) + 1
			for seenIDs[id] {
				id++
			}
		}
		seenIDs[id] = true
		p.ID = id

		result = append(result, p)
		if len(result) == maxProducts {
			break
		}
	}
	return result
}

// CoercePromotions never rejects an element wholesale: every field is
// defaultable, down to a synthesized "Special Offer N" title.
func CoercePromotions(payload any, now time.Time) []Promotion {
	items := sequence(payload, "promotions")

	var result []Promotion
	for i, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			obj = map[string]any{}
		}

		p := Promotion{
			Title:    strings.TrimSpace(stringField(obj, "title")),
			Store:    strings.TrimSpace(stringField(obj, "store")),
			Category: strings.TrimSpace(stringField(obj, "category")),
		}
		if p.Title == "" {
			p.Title = fmt.Sprintf("Special Offer %d", i+1)
		}
		if p.Store == "" {
			p.Store = defaultStore
		}
		if p.Category == "" {
			p.Category = defaultCategory
		}

		p.ImageHint = strings.TrimSpace(stringField(obj, "imageHint"))
		if p.ImageHint == "" {
			p.ImageHint = strings.ToLower(p.Category)
		}

		if pct, ok := numberField(obj, "discountPercent"); ok && pct >= 0 && pct <= 100 {
			p.DiscountPercent = &pct
		}
		if v, ok := currencyField(obj, "savingsAmount"); ok {
			p.SavingsAmount = v
		}
		if v, ok := currencyField(obj, "originalPrice"); ok {
			p.OriginalPrice = v
		}
		if v, ok := currencyField(obj, "currentPrice"); ok {
			p.CurrentPrice = v
		}

		p.PromotionType = stringField(obj, "promotionType")
		if !promotionTypes[p.PromotionType] {
			if p.DiscountPercent != nil {
				p.PromotionType = "percentage_discount"
			} else {
				p.PromotionType = "price_drop"
			}
		}

		p.ValidUntil = futureDate(stringField(obj, "validUntil"), now)

		result = append(result, p)
	}
	return result
}

// CoerceStoreEstimates keeps stores with a usable name and breakdown.
// Breakdown prices missing, non-numeric or negative read as 0. The model's
// totalPrice and isCheapest claims are ignored here; Recompute derives them.
func CoerceStoreEstimates(payload any) []StoreEstimate {
	items := sequence(payload, "stores")

	var result []StoreEstimate
	for _, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			continue
		}

		name := strings.TrimSpace(stringField(obj, "name"))
		rawBreakdown, isSeq := obj["priceBreakdown"].([]any)
		if name == "" || !isSeq {
			continue
		}

		breakdown := make([]PriceItem, 0, len(rawBreakdown))
		for _, entry := range rawBreakdown {
			row, ok := entry.(map[string]any)
			if !ok {
				continue
			}
			price, _ := numberField(row, "price")
			if price < 0 {
				price = 0
			}
			breakdown = append(breakdown, PriceItem{
				Item:  strings.TrimSpace(stringField(row, "item")),
				Price: price,
			})
		}

		distance := strings.TrimSpace(stringField(obj, "distance"))
		if distance == "" {
			distance = "nearby"
		}

		result = append(result, StoreEstimate{
			Name:           name,
			Distance:       distance,
			PriceBreakdown: breakdown,
		})
	}
	return result
}

// CoerceImport validates imported items (name is the anchor) and clamps
// confidence into [0, 1].
func CoerceImport(payload any, originalText string) ImportResult {
	result := ImportResult{
		OriginalText: originalText,
		Suggestions:  []string{},
		Items:        []ImportedItem{},
	}

	obj, ok := payload.(map[string]any)
	if !ok {
		return result
	}

	if items, ok := obj["items"].([]any); ok {
		for _, item := range items {
			row, ok := item.(map[string]any)
			if !ok {
				continue
			}
			name := capitalize(strings.TrimSpace(stringField(row, "name")))
			if name == "" {
				continue
			}
			result.Items = append(result.Items, ImportedItem{
				Name:     name,
				Quantity: strings.TrimSpace(stringField(row, "quantity")),
			})
		}
	}

	if conf, ok := numberField(obj, "confidence"); ok {
		result.Confidence = clamp01(conf)
	}

	if suggestions, ok := obj["suggestions"].([]any); ok {
		for _, s := range suggestions {
			if str, ok := s.(string); ok && strings.TrimSpace(str) != "" {
				result.Suggestions = append(result.Suggestions, capitalize(strings.TrimSpace(str)))
			}
		}
	}

	result.ParsedCount = len(result.Items)
	return result
}

// sequence pulls the named field out of an object payload, or accepts a bare
// top-level array. Anything else reads as empty.
func sequence(payload any, field string) []any {
	switch v := payload.(type) {
	case map[string]any:
		if items, ok := v[field].([]any); ok {
			return items
		}
		return nil
	case []any:
		return v
	default:
		return nil
	}
}

func stringField(obj map[string]any, key string) string {
	s, _ := obj[key].(string)
	return s
}

func boolField(obj map[string]any, key string) bool {
	b, _ := obj[key].(bool)
	return b
}

func numberField(obj map[string]any, key string) (float64, bool) {
	n, ok := obj[key].(float64)
	return n, ok
}

// currencyField accepts a currency string or a bare number, which gets
// formatted in rand.
func currencyField(obj map[string]any, key string) (string, bool) {
	switch v := obj[key].(type) {
	case string:
		s := strings.TrimSpace(v)
		return s, s != ""
	case float64:
		return fmt.Sprintf("R%.2f", v), true
	default:
		return "", false
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	runes := []rune(s)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

// futureDate keeps a parseable future date and replaces everything else with
// today + 7 days.
func futureDate(raw string, now time.Time) string {
	raw = strings.TrimSpace(raw)
	if raw != "" {
		for _, layout := range []string{"2006-01-02", time.RFC3339} {
			if t, err := time.Parse(layout, raw); err == nil {
				if t.After(now) {
					return t.Format("2006-01-02")
				}
				break
			}
		}
	}
	return now.AddDate(0, 0, 7).Format("2006-01-02")
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
