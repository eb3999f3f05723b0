package grocery

// Caller-facing shapes. Every required field is guaranteed present and typed
// after coercion; nothing loosely-typed leaks out of this package.

type Product struct {
	ID            int    `json:"id"`
	Name          string `json:"name"`
	Price         string `json:"price"`
	OnSpecial     bool   `json:"onSpecial"`
	OriginalPrice string `json:"originalPrice,omitempty"`
	Image         string `json:"image"`
	ImageHint     string `json:"imageHint"`
}

type Promotion struct {
	Title           string   `json:"title"`
	Store           string   `json:"store"`
	Image           string   `json:"image"`
	ImageHint       string   `json:"imageHint"`
	Category        string   `json:"category"`
	PromotionType   string   `json:"promotionType"`
	DiscountPercent *float64 `json:"discountPercent,omitempty"`
	SavingsAmount   string   `json:"savingsAmount,omitempty"`
	OriginalPrice   string   `json:"originalPrice,omitempty"`
	CurrentPrice    string   `json:"currentPrice,omitempty"`
	ValidUntil      string   `json:"validUntil"`
}

type PriceItem struct {
	Item  string  `json:"item"`
	Price float64 `json:"price"`
}

type StoreEstimate struct {
	Name           string      `json:"name"`
	Distance       string      `json:"distance"`
	PriceBreakdown []PriceItem `json:"priceBreakdown"`
	TotalPrice     float64     `json:"totalPrice"`
	IsCheapest     bool        `json:"isCheapest"`
}

type ImportedItem struct {
	Name     string `json:"name"`
	Quantity string `json:"quantity,omitempty"`
}

type ImportResult struct {
	Items        []ImportedItem `json:"items"`
	Confidence   float64        `json:"confidence"`
	OriginalText string         `json:"originalText"`
	ParsedCount  int            `json:"parsedCount"`
	Suggestions  []string       `json:"suggestions"`
}

const (
	maxSuggestions = 8
	maxProducts    = 10

	defaultStore    = "Supermarket"
	defaultCategory = "General"
)

var promotionTypes = map[string]bool{
	"percentage_discount": true,
	"multibuy":            true,
	"price_drop":          true,
	"bundle":              true,
}
