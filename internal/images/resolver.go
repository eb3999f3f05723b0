// Package images maps free-text hints to representative image URLs. A live
// image backend is consulted first when credentials are configured; otherwise
// resolution falls back to a static keyword table and, last of all, a generic
// placeholder. Resolution never fails.
package images

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

const (
	defaultWidth  = 400
	defaultHeight = 300

	genericFallbackURL = "https://images.unsplash.com/photo-1542838132-92c53300491e"
)

type keywordEntry struct {
	keyword string
	url     string
}

// keywordTable is grouped by domain category; order matters for the category
// tier, and within a tier the longest matching keyword wins.
var keywordTable = []struct {
	category string
	entries  []keywordEntry
}{
	{"dairy", []keywordEntry{
		{"full cream milk", "https://images.unsplash.com/photo-1550583724-b2692b85b150"},
		{"milk", "https://images.unsplash.com/photo-1550583724-b2692b85b150"},
		{"cheese", "https://images.unsplash.com/photo-1486297678162-eb2a19b0a32d"},
		{"yogurt", "https://images.unsplash.com/photo-1488477181946-6428a0291777"},
		{"butter", "https://images.unsplash.com/photo-1589985270826-4b7bb135bc9d"},
		{"eggs", "https://images.unsplash.com/photo-1506976785307-8732e854ad03"},
		{"cream", "https://images.unsplash.com/photo-1587657565520-6c0f9bff5f58"},
	}},
	{"bakery", []keywordEntry{
		{"whole wheat bread", "https://images.unsplash.com/photo-1598373182133-52452f7691ef"},
		{"bread", "https://images.unsplash.com/photo-1509440159596-0249088772ff"},
		{"croissant", "https://images.unsplash.com/photo-1555507036-ab1f4038808a"},
		{"bagel", "https://images.unsplash.com/photo-1585445490387-f47934b73b54"},
		{"cake", "https://images.unsplash.com/photo-1578985545062-69928b1d9587"},
		{"muffin", "https://images.unsplash.com/photo-1607958996333-41aef7caefaa"},
	}},
	{"produce", []keywordEntry{
		{"green apple", "https://images.unsplash.com/photo-1619546813926-a78fa6372cd2"},
		{"apple", "https://images.unsplash.com/photo-1560806887-1e4cd0b6cbd6"},
		{"banana", "https://images.unsplash.com/photo-1571771894821-ce9b6c11b08e"},
		{"orange", "https://images.unsplash.com/photo-1547514701-42782101795e"},
		{"tomato", "https://images.unsplash.com/photo-1546094096-0df4bcaaa337"},
		{"potato", "https://images.unsplash.com/photo-1518977676601-b53f82aba655"},
		{"onion", "https://images.unsplash.com/photo-1518977956812-cd3dbadaaf31"},
		{"carrot", "https://images.unsplash.com/photo-1598170845058-32b9d6a5da37"},
		{"lettuce", "https://images.unsplash.com/photo-1622206151226-18ca2c9ab4a1"},
		{"avocado", "https://images.unsplash.com/photo-1523049673857-eb18f1d7b578"},
		{"fruit", "https://images.unsplash.com/photo-1610832958506-aa56368176cf"},
		{"vegetable", "https://images.unsplash.com/photo-1540420773420-3366772f4999"},
	}},
	{"meat", []keywordEntry{
		{"chicken breast", "https://images.unsplash.com/photo-1604503468506-a8da13d82791"},
		{"chicken", "https://images.unsplash.com/photo-1587593810167-a84920ea0781"},
		{"beef", "https://images.unsplash.com/photo-1603048297172-c92544798d5a"},
		{"pork", "https://images.unsplash.com/photo-1602470520998-f4a52199a3d6"},
		{"fish", "https://images.unsplash.com/photo-1519708227418-c8fd9a32b7a2"},
		{"salmon", "https://images.unsplash.com/photo-1574781330855-d0db8cc6a79c"},
		{"bacon", "https://images.unsplash.com/photo-1528607929212-2636ec44253e"},
		{"sausage", "https://images.unsplash.com/photo-1597712679225-e1c80a3cf067"},
	}},
	{"pantry", []keywordEntry{
		{"olive oil", "https://images.unsplash.com/photo-1474979266404-7eaacbcd87c5"},
		{"peanut butter", "https://images.unsplash.com/photo-1566842600175-97dca489844f"},
		{"pasta", "https://images.unsplash.com/photo-1551462147-ff29053bfc14"},
		{"rice", "https://images.unsplash.com/photo-1586201375761-83865001e31c"},
		{"corn flakes", "https://images.unsplash.com/photo-1521483451569-e33803c0330c"},
		{"cereal", "https://images.unsplash.com/photo-1521483451569-e33803c0330c"},
		{"flour", "https://images.unsplash.com/photo-1627485937980-221c88ac04f9"},
		{"sugar", "https://images.unsplash.com/photo-1581441363689-1f3c3c414635"},
		{"salt", "https://images.unsplash.com/photo-1518110925495-5fe2fda0442c"},
		{"honey", "https://images.unsplash.com/photo-1587049352846-4a222e784d38"},
		{"corn", "https://images.unsplash.com/photo-1551754655-cd27e38d2076"},
		{"soup", "https://images.unsplash.com/photo-1547592166-23ac45744acd"},
		{"sauce", "https://images.unsplash.com/photo-1472476443507-c7a5948772fc"},
	}},
	{"beverages", []keywordEntry{
		{"orange juice", "https://images.unsplash.com/photo-1600271886742-f049cd451bba"},
		{"coffee", "https://images.unsplash.com/photo-1447933601403-0c6688de566e"},
		{"tea", "https://images.unsplash.com/photo-1544787219-7f47ccb76574"},
		{"juice", "https://images.unsplash.com/photo-1613478223719-2ab802602423"},
		{"water", "https://images.unsplash.com/photo-1548839140-29a749e1cf4d"},
		{"soda", "https://images.unsplash.com/photo-1581636625402-29b2a704ef13"},
		{"wine", "https://images.unsplash.com/photo-1510812431401-41d2bd2722f3"},
		{"beer", "https://images.unsplash.com/photo-1535958636474-b021ee887b13"},
	}},
	{"snacks", []keywordEntry{
		{"dark chocolate", "https://images.unsplash.com/photo-1606312619070-d48b4c652a52"},
		{"chocolate", "https://images.unsplash.com/photo-1549007994-cb92caebd54b"},
		{"chips", "https://images.unsplash.com/photo-1566478989037-eec170784d0b"},
		{"cookies", "https://images.unsplash.com/photo-1499636136210-6f4ee915583e"},
		{"crackers", "https://images.unsplash.com/photo-1590005354167-6da97870c757"},
		{"nuts", "https://images.unsplash.com/photo-1536591375315-f6bce9f5ae34"},
		{"candy", "https://images.unsplash.com/photo-1582058091505-f87a2e55a40f"},
		{"ice cream", "https://images.unsplash.com/photo-1497034825429-c343d7c6a68f"},
	}},
	{"household", []keywordEntry{
		{"toilet paper", "https://images.unsplash.com/photo-1584556812952-905ffd0c611a"},
		{"detergent", "https://images.unsplash.com/photo-1610557892470-55d9e80c0bce"},
		{"soap", "https://images.unsplash.com/photo-1600857544200-b2f666a9a2ec"},
		{"shampoo", "https://images.unsplash.com/photo-1631729371254-42c2892f0e6e"},
		{"cleaning", "https://images.unsplash.com/photo-1563453392212-326f5e854473"},
	}},
}

// specificProducts guards the category tier: when the primary text clearly
// names one of these, a generic category match must not override it.
var specificProducts = []string{
	"milk", "bread", "cheese", "chicken", "beef", "coffee", "chocolate",
	"apple", "banana", "eggs", "pasta", "rice",
	// products we have no image for but that are still clearly specific
	"granola", "tofu", "hummus", "oats", "quinoa", "couscous",
}

type Resolver struct {
	backendURL string
	backendKey string
	client     *http.Client
	logger     *zap.Logger

	mu   sync.Mutex
	memo map[string]string
}

func NewResolver(backendURL, backendKey string, logger *zap.Logger) *Resolver {
	return &Resolver{
		backendURL: backendURL,
		backendKey: backendKey,
		client:     &http.Client{Timeout: 15 * time.Second},
		logger:     logger,
		memo:       make(map[string]string),
	}
}

// Lookup resolves an image from the static keyword table alone. Deterministic
// for identical input and never empty.
func (r *Resolver) Lookup(title, hint, category string) string {
	return Lookup(title, hint, category)
}

// Lookup walks the priority tiers of keywordTable: title substring, hint
// substring, category substring (unless the title names a specific product),
// then per-word exact key match, then the generic fallback.
func Lookup(title, hint, category string) string {
	if url, ok := matchLongest(title); ok {
		return url
	}
	if url, ok := matchLongest(hint); ok {
		return url
	}
	if !containsSpecificProduct(title) {
		if url, ok := matchLongest(category); ok {
			return url
		}
	}
	if url, ok := matchWords(title); ok {
		return url
	}
	return genericFallbackURL
}

// Generate resolves an image for a bare hint, consulting the live backend
// first when configured, with a memoized result per normalized hint+size.
func (r *Resolver) Generate(ctx context.Context, hint string, width, height int) string {
	return r.Resolve(ctx, hint, "", "", width, height)
}

// Resolve is Generate with the full tier inputs: a primary text (title), a
// secondary hint and a category, all fed to the keyword table when the
// backend is unconfigured or fails.
func (r *Resolver) Resolve(ctx context.Context, title, hint, category string, width, height int) string {
	if width <= 0 {
		width = defaultWidth
	}
	if height <= 0 {
		height = defaultHeight
	}

	key := fmt.Sprintf("%s|%s|%s|%dx%d",
		strings.ToLower(strings.TrimSpace(title)),
		strings.ToLower(strings.TrimSpace(hint)),
		strings.ToLower(strings.TrimSpace(category)),
		width, height)

	r.mu.Lock()
	if url, ok := r.memo[key]; ok {
		r.mu.Unlock()
		return url
	}
	r.mu.Unlock()

	url := ""
	if r.backendURL != "" && r.backendKey != "" {
		url = r.fetchFromBackend(ctx, title, width, height)
	}
	if url == "" {
		url = Sized(Lookup(title, hint, category), width, height)
	}

	r.mu.Lock()
	r.memo[key] = url
	r.mu.Unlock()

	return url
}

// Sized appends crop parameters to a bare table URL.
func Sized(url string, width, height int) string {
	if strings.Contains(url, "?") {
		return url
	}
	return fmt.Sprintf("%s?w=%d&h=%d&fit=crop", url, width, height)
}

func (r *Resolver) fetchFromBackend(ctx context.Context, hint string, width, height int) string {
	payload, _ := json.Marshal(map[string]any{
		"prompt": hint,
		"width":  width,
		"height": height,
	})

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.backendURL, strings.NewReader(string(payload)))
	if err != nil {
		return ""
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+r.backendKey)

	resp, err := r.client.Do(req)
	if err != nil {
		r.logger.Warn("image backend unreachable", zap.Error(err))
		return ""
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil || resp.StatusCode != http.StatusOK {
		r.logger.Warn("image backend error", zap.Int("status", resp.StatusCode))
		return ""
	}

	var result struct {
		ImageURL string `json:"imageUrl"`
		URL      string `json:"url"`
	}
	if err := json.Unmarshal(raw, &result); err != nil {
		return ""
	}
	if result.ImageURL != "" {
		return result.ImageURL
	}
	return result.URL
}

func matchLongest(text string) (string, bool) {
	if strings.TrimSpace(text) == "" {
		return "", false
	}
	lower := strings.ToLower(text)

	bestURL := ""
	bestLen := 0
	for _, group := range keywordTable {
		for _, e := range group.entries {
			if strings.Contains(lower, e.keyword) && len(e.keyword) > bestLen {
				bestURL = e.url
				bestLen = len(e.keyword)
			}
		}
	}
	return bestURL, bestLen > 0
}

func containsSpecificProduct(text string) bool {
	lower := strings.ToLower(text)
	for _, p := range specificProducts {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}

func matchWords(text string) (string, bool) {
	for _, word := range strings.Fields(strings.ToLower(text)) {
		word = strings.Trim(word, ".,!?:;\"'()")
		if len(word) <= 3 {
			continue
		}
		for _, group := range keywordTable {
			for _, e := range group.entries {
				if e.keyword == word {
					return e.url, true
				}
			}
		}
	}
	return "", false
}
