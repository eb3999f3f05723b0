package grocery

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/NokoLucky/grocery-ai-api/internal/cache"
	"github.com/NokoLucky/grocery-ai-api/internal/images"
	"github.com/NokoLucky/grocery-ai-api/internal/jsonx"
	"github.com/NokoLucky/grocery-ai-api/internal/llm"
	"github.com/NokoLucky/grocery-ai-api/internal/metrics"
)

const promotionsCacheKey = "promotions"

// Generator is the provider chain seen from the service. Satisfied by
// llm.Chain and by test fakes.
type Generator interface {
	Generate(ctx context.Context, prompt llm.Prompt) (string, error)
}

type Service struct {
	gen      Generator
	resolver *images.Resolver
	cache    cache.Cache
	logger   *zap.Logger
	metrics  *metrics.Metrics
	now      func() time.Time
}

func NewService(gen Generator, resolver *images.Resolver, c cache.Cache, logger *zap.Logger, m *metrics.Metrics) *Service {
	if m == nil {
		m = metrics.New()
	}
	return &Service{
		gen:      gen,
		resolver: resolver,
		cache:    c,
		logger:   logger,
		metrics:  m,
		now:      time.Now,
	}
}

// Suggestions returns up to 8 completion suggestions for a partial item.
// Malformed model output degrades to an empty list.
func (s *Service) Suggestions(ctx context.Context, query string) []string {
	raw, err := s.gen.Generate(ctx, llm.BuildSuggestionsPrompt(query))
	if err != nil {
		s.logger.Error("suggestion generation failed", zap.Error(err))
		return []string{}
	}

	payload, ok := jsonx.Extract(raw)
	if !ok {
		s.logger.Warn("unrecoverable suggestion response", zap.String("raw", snippet(raw)))
		return []string{}
	}
	return CoerceSuggestions(decode(payload))
}

// Products generates a store listing and resolves every product image
// concurrently; one element's image resolution cannot fail the others.
func (s *Service) Products(ctx context.Context, storeName string, existing []string) []Product {
	raw, err := s.gen.Generate(ctx, llm.BuildProductsPrompt(storeName, existing))
	if err != nil {
		s.logger.Error("product generation failed", zap.Error(err))
		return []Product{}
	}

	payload, ok := jsonx.ExtractArrayField(raw, "products")
	if !ok {
		s.logger.Warn("unrecoverable product response", zap.String("raw", snippet(raw)))
		return []Product{}
	}

	products := CoerceProducts(decode(payload))
	s.attachProductImages(ctx, products)
	return products
}

// Promotions serves the cached list when fresh, regenerates otherwise, and
// falls back to a stale entry when regeneration fails. forceRefresh clears
// the entry unconditionally before regenerating.
func (s *Service) Promotions(ctx context.Context, forceRefresh bool) ([]Promotion, error) {
	if forceRefresh {
		s.cache.Invalidate(ctx, promotionsCacheKey)
	} else {
		if cached, ok := s.cachedPromotions(ctx, false); ok {
			s.metrics.CacheHits.Inc()
			return cached, nil
		}
		s.metrics.CacheMisses.Inc()
	}

	fresh, err := s.generatePromotions(ctx)
	if err != nil {
		if stale, ok := s.cachedPromotions(ctx, true); ok {
			s.metrics.CacheStaleServes.Inc()
			s.logger.Warn("serving stale promotions", zap.Error(err))
			return stale, nil
		}
		return nil, err
	}

	if data, err := json.Marshal(fresh); err == nil {
		s.cache.Set(ctx, promotionsCacheKey, data)
	}
	return fresh, nil
}

// PriceEstimates recomputes totals and the cheapest flag from the breakdown;
// an entirely unparseable response is a real error, because an empty store
// list would be indistinguishable from "no stores carry these items".
func (s *Service) PriceEstimates(ctx context.Context, shoppingList []string) ([]StoreEstimate, error) {
	raw, err := s.gen.Generate(ctx, llm.BuildPriceEstimatesPrompt(shoppingList))
	if err != nil {
		return nil, fmt.Errorf("price estimate generation failed: %w", err)
	}

	payload, ok := jsonx.ExtractArrayField(raw, "stores")
	if !ok {
		return nil, errors.New("could not parse store estimates from model response")
	}

	return Recompute(CoerceStoreEstimates(decode(payload))), nil
}

// GenerateImage resolves a representative image for a hint. Never fails.
func (s *Service) GenerateImage(ctx context.Context, hint string, width, height int) string {
	return s.resolver.Generate(ctx, hint, width, height)
}

// ImportList parses a free-text shopping list via the model, dropping to the
// heuristic line parser when the model output yields no items.
func (s *Service) ImportList(ctx context.Context, text string) ImportResult {
	raw, err := s.gen.Generate(ctx, llm.BuildListImportPrompt(text))
	if err == nil {
		if payload, ok := jsonx.ExtractArrayField(raw, "items"); ok {
			result := CoerceImport(decode(payload), text)
			if result.ParsedCount > 0 {
				return result
			}
		}
	}

	s.logger.Info("falling back to heuristic list parse")
	return ParseListHeuristic(text)
}

func (s *Service) cachedPromotions(ctx context.Context, acceptStale bool) ([]Promotion, bool) {
	data, stale, ok := s.cache.Get(ctx, promotionsCacheKey)
	if !ok || (stale && !acceptStale) {
		return nil, false
	}
	var promotions []Promotion
	if err := json.Unmarshal(data, &promotions); err != nil {
		return nil, false
	}
	return promotions, true
}

func (s *Service) generatePromotions(ctx context.Context) ([]Promotion, error) {
	raw, err := s.gen.Generate(ctx, llm.BuildPromotionsPrompt())
	if err != nil {
		return nil, fmt.Errorf("promotion generation failed: %w", err)
	}

	payload, ok := jsonx.ExtractArrayField(raw, "promotions")
	if !ok {
		return nil, errors.New("could not parse promotions from model response")
	}

	promotions := CoercePromotions(decode(payload), s.now())
	s.attachPromotionImages(ctx, promotions)
	return promotions, nil
}

func (s *Service) attachProductImages(ctx context.Context, products []Product) {
	var wg sync.WaitGroup
	for i := range products {
		wg.Add(1)
		go func(p *Product) {
			defer wg.Done()
			p.Image = s.resolver.Resolve(ctx, p.Name, p.ImageHint, "", 0, 0)
		}(&products[i])
	}
	wg.Wait()
}

func (s *Service) attachPromotionImages(ctx context.Context, promotions []Promotion) {
	var wg sync.WaitGroup
	for i := range promotions {
		wg.Add(1)
		go func(p *Promotion) {
			defer wg.Done()
			p.Image = s.resolver.Resolve(ctx, p.Title, p.ImageHint, p.Category, 0, 0)
		}(&promotions[i])
	}
	wg.Wait()
}

func decode(raw json.RawMessage) any {
	var payload any
	_ = json.Unmarshal(raw, &payload)
	return payload
}

func snippet(s string) string {
	if len(s) > 300 {
		return s[:300] + "..."
	}
	return s
}
