package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/nutrilog/backend/internal/domain"
	"github.com/nutrilog/backend/internal/usecase"
	"go.uber.org/zap"
)

// Version is reported by the health check
const Version = "1.0.0"

// Handler holds dependencies for HTTP handlers
type Handler struct {
	service *usecase.NutritionService
	logger  *zap.Logger
}

// NewHandler creates a new HTTP handler
func NewHandler(service *usecase.NutritionService, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{service: service, logger: logger.Named("http")}
}

type searchRequest struct {
	Query string `json:"query" binding:"required"`
}

// importRequest either names a query to search and store, or carries the
// foods to store directly.
type importRequest struct {
	Query string        `json:"query"`
	Foods []domain.Food `json:"foods"`
}

type weightedFoodRequest struct {
	Food        string   `json:"food" binding:"required"`
	WeightGrams *float64 `json:"weightGrams" binding:"required"`
}

type recipeRequest struct {
	Name string `json:"name" binding:"required"`
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "nutrilog-backend",
		"version": Version,
	})
}

// SearchFoods returns candidate foods for a free-text query without storing them
func (h *Handler) SearchFoods(c *gin.Context) {
	var req searchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	result, err := h.service.SearchFoods(c.Request.Context(), req.Query)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// ImportFoods stores the candidates of a query, or the foods in the body
func (h *Handler) ImportFoods(c *gin.Context) {
	var req importRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	ctx := c.Request.Context()
	switch {
	case req.Query != "":
		result, err := h.service.SearchAndImport(ctx, req.Query)
		if err != nil {
			h.respondImportError(c, err, result)
			return
		}
		c.JSON(http.StatusCreated, result)
	case len(req.Foods) > 0:
		ids, err := h.service.ImportFoods(ctx, req.Foods)
		if err != nil {
			h.respondImportError(c, err, &usecase.ImportResult{IDs: ids})
			return
		}
		c.JSON(http.StatusCreated, gin.H{"ids": ids})
	default:
		h.badRequest(c, errors.New("either query or foods is required"))
	}
}

// ListFoods returns every stored food. Rows that cannot be decoded are
// reported as a count instead of failing the whole listing.
func (h *Handler) ListFoods(c *gin.Context) {
	foods, err := h.service.ListFoods(c.Request.Context())
	skipped := 0
	if err != nil {
		if !errors.Is(err, domain.ErrDecode) {
			h.respondError(c, err)
			return
		}
		skipped = countErrors(err)
		h.logger.Warn("Skipped undecodable foods", zap.Int("skipped", skipped), zap.Error(err))
	}

	c.JSON(http.StatusOK, gin.H{"foods": foods, "skipped": skipped})
}

// AddPantryItem stocks a weight of a stored food
func (h *Handler) AddPantryItem(c *gin.Context) {
	var req weightedFoodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	id, err := h.service.AddPantryItem(c.Request.Context(), req.Food, *req.WeightGrams)
	if err != nil {
		h.respondFoodError(c, req.Food, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

// ListPantry returns every pantry item
func (h *Handler) ListPantry(c *gin.Context) {
	items, err := h.service.ListPantry(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

// CreateRecipe creates an empty recipe
func (h *Handler) CreateRecipe(c *gin.Context) {
	var req recipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	name := strings.TrimSpace(req.Name)
	id, err := h.service.CreateRecipe(c.Request.Context(), name)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, domain.Recipe{ID: id, Name: name})
}

// AddRecipeIngredient appends a food to a recipe
func (h *Handler) AddRecipeIngredient(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	var req weightedFoodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	if err := h.service.AddRecipeIngredient(c.Request.Context(), domain.RecipeID(id), req.Food, *req.WeightGrams); err != nil {
		h.respondFoodError(c, req.Food, err)
		return
	}
	c.Status(http.StatusCreated)
}

// ListRecipeIngredients returns a recipe's ingredients
func (h *Handler) ListRecipeIngredients(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	ingredients, err := h.service.RecipeIngredients(c.Request.Context(), domain.RecipeID(id))
	if err != nil && !errors.Is(err, domain.ErrDecode) {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ingredients": ingredients, "skipped": countErrors(err)})
}

// RecipeTotals returns the summed nutrients of a recipe
func (h *Handler) RecipeTotals(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	totals, err := h.service.RecipeTotals(c.Request.Context(), domain.RecipeID(id))
	if err != nil && !errors.Is(err, domain.ErrDecode) {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"totals": totals, "skipped": countErrors(err)})
}

// StartEntry opens a diary entry stamped now
func (h *Handler) StartEntry(c *gin.Context) {
	id, err := h.service.StartEntry(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

// AddEntryFood logs a food in an entry
func (h *Handler) AddEntryFood(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	var req weightedFoodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	if err := h.service.AddEntryFood(c.Request.Context(), domain.EntryID(id), req.Food, *req.WeightGrams); err != nil {
		h.respondFoodError(c, req.Food, err)
		return
	}
	c.Status(http.StatusCreated)
}

// ListEntryFoods returns the foods logged in an entry
func (h *Handler) ListEntryFoods(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	foods, err := h.service.EntryFoods(c.Request.Context(), domain.EntryID(id))
	if err != nil && !errors.Is(err, domain.ErrDecode) {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"foods": foods, "skipped": countErrors(err)})
}

// EntryTotals returns the summed nutrients of an entry
func (h *Handler) EntryTotals(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	totals, err := h.service.EntryTotals(c.Request.Context(), domain.EntryID(id))
	if err != nil && !errors.Is(err, domain.ErrDecode) {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"totals": totals, "skipped": countErrors(err)})
}

// pathID parses the :id segment, answering 400 when it is not a positive integer
func (h *Handler) pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		h.badRequest(c, errors.New("id must be a positive integer"))
		return 0, false
	}
	return id, true
}

func (h *Handler) badRequest(c *gin.Context, err error) {
	c.Error(err)
	c.JSON(http.StatusBadRequest, gin.H{"error": domain.ErrInvalidRequest.Error(), "detail": err.Error()})
}

// respondFoodError adds "did you mean" suggestions when the food name missed
func (h *Handler) respondFoodError(c *gin.Context, foodName string, err error) {
	if !errors.Is(err, domain.ErrNotFound) {
		h.respondError(c, err)
		return
	}

	suggestions, suggestErr := h.service.SuggestFoods(c.Request.Context(), foodName)
	if suggestErr != nil {
		h.logger.Warn("Suggesting foods failed", zap.Error(suggestErr))
	}
	c.Error(err)
	c.JSON(http.StatusNotFound, gin.H{
		"error":       domain.ErrNotFound.Error(),
		"detail":      err.Error(),
		"suggestions": suggestions,
	})
}

func (h *Handler) respondImportError(c *gin.Context, err error, partial *usecase.ImportResult) {
	status := statusFor(err)
	c.Error(err)
	body := gin.H{"error": publicMessage(err, status), "detail": err.Error()}
	if partial != nil {
		body["ids"] = partial.IDs
	}
	c.JSON(status, body)
}

func (h *Handler) respondError(c *gin.Context, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error("Request failed", zap.String("path", c.FullPath()), zap.Error(err))
	}
	c.Error(err)
	c.JSON(status, gin.H{"error": publicMessage(err, status), "detail": err.Error()})
}

// statusFor maps domain errors onto HTTP status codes. A failed external
// lookup reads as "not found" to the user.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidRequest):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrNetwork):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrDuplicateName), errors.Is(err, domain.ErrDuplicateIngredient):
		return http.StatusConflict
	case errors.Is(err, domain.ErrForeignKeyViolation):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func publicMessage(err error, status int) string {
	switch status {
	case http.StatusNotFound:
		return domain.ErrNotFound.Error()
	case http.StatusInternalServerError:
		return "internal server error"
	}
	for _, sentinel := range []error{
		domain.ErrInvalidRequest,
		domain.ErrDuplicateName,
		domain.ErrDuplicateIngredient,
		domain.ErrForeignKeyViolation,
	} {
		if errors.Is(err, sentinel) {
			return sentinel.Error()
		}
	}
	return http.StatusText(status)
}

// countErrors counts the errors joined into err
func countErrors(err error) int {
	if err == nil {
		return 0
	}
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		return len(joined.Unwrap())
	}
	return 1
}
