package llm

import (
	"fmt"
	"strings"
)

const groceryAssistantSystem = `You are a South African grocery shopping assistant.

Rules:
- Output MUST be valid JSON.
- Output MUST contain ONLY JSON.
- NO explanations.
- NO markdown.
- NO comments.
- NO extra text.`

// Store profiles embedded in product and price prompts. Positioning drives
// the model's pricing: Woolworths premium, Shoprite/Boxer budget, the rest
// mid-range.
const storeProfiles = `Store profiles:
- Woolworths: premium quality, prices roughly 20-30% above average
- Checkers: mid-range, strong fresh produce, frequent specials
- Pick n Pay: mid-range, wide selection
- Spar: convenience, slightly above mid-range
- Shoprite: budget, lowest everyday prices
- Boxer: budget bulk buys`

func BuildSuggestionsPrompt(query string) Prompt {
	return Prompt{
		System: groceryAssistantSystem,
		User: fmt.Sprintf(`Suggest grocery item completions for the partial input %q.

Return up to 8 common grocery items that start with or relate to the input.
Each suggestion must be a short item name, capitalized.

Return ONLY valid JSON in exactly this shape:
{
  "suggestions": ["Milk", "Milk Tart", "Milo"]
}`, query),
	}
}

func BuildProductsPrompt(storeName string, existing []string) Prompt {
	exclusion := ""
	if len(existing) > 0 {
		exclusion = "\nDo NOT include these products already shown: " + strings.Join(existing, ", ") + "."
	}

	return Prompt{
		System: groceryAssistantSystem,
		User: fmt.Sprintf(`Generate a realistic product listing for this store.
Store: %s

%s

Return up to 10 products typical for the store, priced in South African rand
according to the store's positioning. Mark roughly a third as on special with
an originalPrice above the current price.%s

Return ONLY valid JSON in exactly this shape:
{
  "products": [
    {
      "id": 1,
      "name": "Full Cream Milk 2L",
      "price": "R32.99",
      "onSpecial": true,
      "originalPrice": "R39.99",
      "imageHint": "milk bottle"
    }
  ]
}`, storeName, storeProfiles, exclusion),
	}
}

func BuildPromotionsPrompt() Prompt {
	return Prompt{
		System: groceryAssistantSystem,
		User: `Generate 6 current grocery promotions across South African stores.

Each promotion has a promotionType of percentage_discount, multibuy,
price_drop or bundle, and a validUntil date within the next two weeks.

Return ONLY valid JSON in exactly this shape:
{
  "promotions": [
    {
      "title": "25% off all fresh produce",
      "store": "Checkers",
      "category": "Produce",
      "promotionType": "percentage_discount",
      "discountPercent": 25,
      "imageHint": "fresh vegetables",
      "validUntil": "2025-01-31"
    }
  ]
}`,
	}
}

func BuildPriceEstimatesPrompt(shoppingList []string) Prompt {
	return Prompt{
		System: groceryAssistantSystem,
		User: fmt.Sprintf(`Estimate prices for this shopping list at nearby stores.
Shopping list: %s

%s

Return 4 to 6 stores. For each store give a price per item in rand (numbers,
not strings), a totalPrice, a human distance like "1.2 km", and isCheapest on
the cheapest store.

Return ONLY valid JSON in exactly this shape:
{
  "stores": [
    {
      "name": "Shoprite",
      "distance": "1.2 km",
      "priceBreakdown": [
        {"item": "milk", "price": 28.99}
      ],
      "totalPrice": 28.99,
      "isCheapest": true
    }
  ]
}`, strings.Join(shoppingList, ", "), storeProfiles),
	}
}

func BuildListImportPrompt(text string) Prompt {
	return Prompt{
		System: groceryAssistantSystem,
		User: fmt.Sprintf(`Extract items from this free-text shopping list.

TEXT:
%s

Normalize each item to a short grocery item name with an optional quantity.
Also give a confidence between 0 and 1 for how clearly the text was a
shopping list, and up to 3 suggested additions that fit the list.

Return ONLY valid JSON in exactly this shape:
{
  "items": [
    {"name": "Milk", "quantity": "2L"},
    {"name": "Bread", "quantity": "1"}
  ],
  "confidence": 0.9,
  "suggestions": ["Butter", "Eggs"]
}`, text),
	}
}
