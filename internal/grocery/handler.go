package grocery

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	api := r.Group("/api")
	{
		api.GET("/suggestions", h.GetSuggestions)
		api.POST("/suggestions", h.PostSuggestions)

		api.GET("/products", h.GetProducts)
		api.POST("/products", h.PostProducts)

		api.GET("/promotions", h.GetPromotions)
		api.POST("/promotions", h.RefreshPromotions)

		api.POST("/price-estimates", h.PostPriceEstimates)

		api.GET("/generate-image", h.GetImage)
		api.POST("/generate-image", h.PostImage)

		api.POST("/parse-list", h.ParseList)
	}
}

// --------------------------------------------------
// Item-completion suggestions
// --------------------------------------------------

func (h *Handler) GetSuggestions(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		badRequest(c, "query is required", issue("q", "must be a non-empty string"))
		return
	}
	h.suggestions(c, query)
}

func (h *Handler) PostSuggestions(c *gin.Context) {
	var req struct {
		Query string `json:"query"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body", issue("body", "must be valid JSON"))
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		badRequest(c, "query is required", issue("query", "must be a non-empty string"))
		return
	}
	h.suggestions(c, strings.TrimSpace(req.Query))
}

func (h *Handler) suggestions(c *gin.Context, query string) {
	c.JSON(http.StatusOK, gin.H{
		"suggestions": h.service.Suggestions(c.Request.Context(), query),
	})
}

// --------------------------------------------------
// Store product listing
// --------------------------------------------------

func (h *Handler) GetProducts(c *gin.Context) {
	store := strings.TrimSpace(c.Query("store"))
	if store == "" {
		badRequest(c, "store is required", issue("store", "must be a non-empty string"))
		return
	}

	var existing []string
	if raw := c.Query("existingProducts"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &existing); err != nil {
			badRequest(c, "invalid existingProducts", issue("existingProducts", "must be a JSON string array"))
			return
		}
	}
	h.products(c, store, existing)
}

func (h *Handler) PostProducts(c *gin.Context) {
	var req struct {
		StoreName        string   `json:"storeName"`
		ExistingProducts []string `json:"existingProducts"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body", issue("body", "must be valid JSON"))
		return
	}
	if strings.TrimSpace(req.StoreName) == "" {
		badRequest(c, "storeName is required", issue("storeName", "must be a non-empty string"))
		return
	}
	h.products(c, strings.TrimSpace(req.StoreName), req.ExistingProducts)
}

func (h *Handler) products(c *gin.Context, store string, existing []string) {
	c.JSON(http.StatusOK, gin.H{
		"products": h.service.Products(c.Request.Context(), store, existing),
	})
}

// --------------------------------------------------
// Current promotions (GET cached, POST force refresh)
// --------------------------------------------------

func (h *Handler) GetPromotions(c *gin.Context) {
	h.promotions(c, false)
}

func (h *Handler) RefreshPromotions(c *gin.Context) {
	h.promotions(c, true)
}

func (h *Handler) promotions(c *gin.Context, forceRefresh bool) {
	promotions, err := h.service.Promotions(c.Request.Context(), forceRefresh)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"promotions": promotions})
}

// --------------------------------------------------
// Price estimates
// --------------------------------------------------

func (h *Handler) PostPriceEstimates(c *gin.Context) {
	var req struct {
		ShoppingList []string `json:"shoppingList"`
		Latitude     *float64 `json:"latitude"`
		Longitude    *float64 `json:"longitude"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body", issue("body", "must be valid JSON"))
		return
	}

	var items []string
	for _, item := range req.ShoppingList {
		if s := strings.TrimSpace(item); s != "" {
			items = append(items, s)
		}
	}
	if len(items) == 0 {
		c.JSON(http.StatusOK, gin.H{"stores": []StoreEstimate{}})
		return
	}

	stores, err := h.service.PriceEstimates(c.Request.Context(), items)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"stores": stores})
}

// --------------------------------------------------
// Product image
// --------------------------------------------------

func (h *Handler) GetImage(c *gin.Context) {
	hint := strings.TrimSpace(c.Query("hint"))
	if hint == "" {
		badRequest(c, "hint is required", issue("hint", "must be a non-empty string"))
		return
	}
	width, _ := strconv.Atoi(c.Query("width"))
	height, _ := strconv.Atoi(c.Query("height"))
	h.image(c, hint, width, height)
}

func (h *Handler) PostImage(c *gin.Context) {
	var req struct {
		DataAiHint string `json:"dataAiHint"`
		Width      int    `json:"width"`
		Height     int    `json:"height"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body", issue("body", "must be valid JSON"))
		return
	}
	if strings.TrimSpace(req.DataAiHint) == "" {
		badRequest(c, "dataAiHint is required", issue("dataAiHint", "must be a non-empty string"))
		return
	}
	h.image(c, strings.TrimSpace(req.DataAiHint), req.Width, req.Height)
}

func (h *Handler) image(c *gin.Context, hint string, width, height int) {
	c.JSON(http.StatusOK, gin.H{
		"imageUrl": h.service.GenerateImage(c.Request.Context(), hint, width, height),
	})
}

// --------------------------------------------------
// Free-text list import
// --------------------------------------------------

func (h *Handler) ParseList(c *gin.Context) {
	var req struct {
		Text string `json:"text"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body", issue("body", "must be valid JSON"))
		return
	}
	if len(req.Text) < 1 || len(req.Text) > 10000 {
		badRequest(c, "text must be between 1 and 10000 characters", issue("text", "length out of range"))
		return
	}

	c.JSON(http.StatusOK, h.service.ImportList(c.Request.Context(), req.Text))
}

// --------------------------------------------------

func badRequest(c *gin.Context, msg string, details ...gin.H) {
	c.JSON(http.StatusBadRequest, gin.H{"error": msg, "details": details})
}

func issue(field, problem string) gin.H {
	return gin.H{"field": field, "issue": problem}
}
