package llm

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Synthetic is the last provider in the chain. It never fails: it detects the
// request domain from the prompt text and returns a fixed schema-conformant
// payload, so the downstream pipeline always has something to parse.
type Synthetic struct{}

func NewSynthetic() *Synthetic { return &Synthetic{} }

func (s *Synthetic) Name() string { return "synthetic" }

func (s *Synthetic) Generate(_ context.Context, prompt Prompt) (string, error) {
	text := strings.ToLower(prompt.User)

	switch {
	case strings.Contains(text, "extract items"):
		return syntheticImport, nil
	case strings.Contains(text, "estimate prices") || strings.Contains(text, "price estimates"):
		return syntheticStores, nil
	case strings.Contains(text, "promotion"):
		return syntheticPromotions(), nil
	case strings.Contains(text, "store:") || strings.Contains(text, "product listing") || strings.Contains(text, "products"):
		return syntheticProducts, nil
	case strings.Contains(text, "suggest") || strings.Contains(text, "completion"):
		return syntheticSuggestions, nil
	default:
		return `{"results": []}`, nil
	}
}

const syntheticSuggestions = `{
  "suggestions": ["Milk", "Bread", "Eggs", "Butter", "Cheese", "Rice", "Sugar", "Coffee"]
}`

const syntheticProducts = `{
  "products": [
    {"id": 1, "name": "Full Cream Milk 2L", "price": "R32.99", "onSpecial": false, "imageHint": "milk bottle"},
    {"id": 2, "name": "White Bread 700g", "price": "R18.99", "onSpecial": true, "originalPrice": "R22.99", "imageHint": "bread loaf"},
    {"id": 3, "name": "Large Eggs 18 Pack", "price": "R54.99", "onSpecial": false, "imageHint": "eggs carton"},
    {"id": 4, "name": "Cheddar Cheese 450g", "price": "R89.99", "onSpecial": true, "originalPrice": "R104.99", "imageHint": "cheddar cheese"},
    {"id": 5, "name": "White Sugar 2.5kg", "price": "R49.99", "onSpecial": false, "imageHint": "sugar bag"},
    {"id": 6, "name": "Instant Coffee 200g", "price": "R74.99", "onSpecial": false, "imageHint": "instant coffee"}
  ]
}`

const syntheticStores = `{
  "stores": [
    {"name": "Shoprite", "distance": "1.8 km", "priceBreakdown": [{"item": "basket", "price": 145.50}], "totalPrice": 145.50, "isCheapest": true},
    {"name": "Checkers", "distance": "2.4 km", "priceBreakdown": [{"item": "basket", "price": 152.80}], "totalPrice": 152.80, "isCheapest": false},
    {"name": "Pick n Pay", "distance": "3.1 km", "priceBreakdown": [{"item": "basket", "price": 158.20}], "totalPrice": 158.20, "isCheapest": false},
    {"name": "Woolworths", "distance": "4.0 km", "priceBreakdown": [{"item": "basket", "price": 189.90}], "totalPrice": 189.90, "isCheapest": false}
  ]
}`

const syntheticImport = `{
  "items": [],
  "confidence": 0.2,
  "suggestions": []
}`

func syntheticPromotions() string {
	validUntil := time.Now().AddDate(0, 0, 7).Format("2006-01-02")
	return fmt.Sprintf(`{
  "promotions": [
    {"title": "25%% off all fresh produce", "store": "Checkers", "category": "Produce", "promotionType": "percentage_discount", "discountPercent": 25, "imageHint": "fresh vegetables", "validUntil": %[1]q},
    {"title": "Buy 2 get 1 free on bread", "store": "Shoprite", "category": "Bakery", "promotionType": "multibuy", "imageHint": "bread loaf", "validUntil": %[1]q},
    {"title": "Price drop on full cream milk", "store": "Pick n Pay", "category": "Dairy", "promotionType": "price_drop", "originalPrice": "R39.99", "currentPrice": "R32.99", "savingsAmount": "R7.00", "imageHint": "milk bottle", "validUntil": %[1]q},
    {"title": "Braai bundle special", "store": "Spar", "category": "Meat", "promotionType": "bundle", "savingsAmount": "R45.00", "imageHint": "braai meat", "validUntil": %[1]q}
  ]
}`, validUntil)
}
