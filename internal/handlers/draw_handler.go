package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/birdieplay/birdieplay-backend/internal/models"
	"github.com/birdieplay/birdieplay-backend/internal/services"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// DrawHandler handles draw lifecycle HTTP requests
type DrawHandler struct {
	drawService services.DrawService
	eligibility services.EligibilityService
}

// NewDrawHandler creates a new DrawHandler
func NewDrawHandler(drawService services.DrawService, eligibility services.EligibilityService) *DrawHandler {
	return &DrawHandler{
		drawService: drawService,
		eligibility: eligibility,
	}
}

// scoreRange reads the optional min/max query parameters, falling back to
// the draw's stored range or the given defaults.
func scoreRange(c *gin.Context, defMin, defMax int) (int, int, error) {
	min, max := defMin, defMax
	if v := c.Query("min"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			return 0, 0, errors.New("invalid min parameter")
		}
		min = parsed
	}
	if v := c.Query("max"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			return 0, 0, errors.New("invalid max parameter")
		}
		max = parsed
	}
	if min > max {
		return 0, 0, errors.New("min must not exceed max")
	}
	return min, max, nil
}

// GetDrawByID handles GET /draws/:id
func (h *DrawHandler) GetDrawByID(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}
	draw, err := h.drawService.GetDrawByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Draw not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve draw: " + err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, draw)
}

// GetDraws handles GET /draws
func (h *DrawHandler) GetDraws(c *gin.Context) {
	draws, err := h.drawService.GetDraws(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve draws: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, draws)
}

// GetCurrentDraw handles GET /draws/current
func (h *DrawHandler) GetCurrentDraw(c *gin.Context) {
	draw, err := h.drawService.GetCurrentDraw(c.Request.Context())
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			c.JSON(http.StatusNotFound, gin.H{"error": "No draws exist yet"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve current draw: " + err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, draw)
}

// GetEntries handles GET /draws/:id/entries
func (h *DrawHandler) GetEntries(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}
	entries, err := h.drawService.GetEntriesByDrawID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve entries: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, entries)
}

// GetFrequencies handles GET /draws/frequencies
func (h *DrawHandler) GetFrequencies(c *gin.Context) {
	min, max, err := scoreRange(c, 10, 50)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	frequencies, err := h.drawService.GetScoreFrequencies(c.Request.Context(), min, max)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute frequencies: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, frequencies)
}

// CreateDrawRequest is the body for POST /draws
type CreateDrawRequest struct {
	MonthYear     string `json:"monthYear" binding:"required"` // e.g. "August 2026"
	DrawDate      string `json:"drawDate" binding:"required"`  // YYYY-MM-DD
	ScoreRangeMin int    `json:"scoreRangeMin"`
	ScoreRangeMax int    `json:"scoreRangeMax"`
}

// CreateDraw handles POST /draws
func (h *DrawHandler) CreateDraw(c *gin.Context) {
	var request CreateDrawRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	drawDate, err := time.Parse("2006-01-02", request.DrawDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid draw date format (YYYY-MM-DD)"})
		return
	}
	min, max := request.ScoreRangeMin, request.ScoreRangeMax
	if min == 0 && max == 0 {
		min, max = 10, 50
	}
	draw, err := h.drawService.CreateDraw(c.Request.Context(), request.MonthYear, drawDate, min, max)
	if err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Failed to create draw: " + err.Error()})
		return
	}
	c.JSON(http.StatusCreated, draw)
}

// SimulateDraw handles POST /draws/:id/simulate
func (h *DrawHandler) SimulateDraw(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}
	draw, err := h.drawService.GetDrawByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Draw not found"})
		return
	}
	min, max, err := scoreRange(c, draw.ScoreRangeMin, draw.ScoreRangeMax)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sim, err := h.drawService.SimulateDraw(c.Request.Context(), min, max, &id)
	if err != nil {
		h.respondDrawError(c, err, "Failed to simulate draw")
		return
	}
	c.JSON(http.StatusOK, sim)
}

// RunDraw handles POST /draws/:id/run
func (h *DrawHandler) RunDraw(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}
	draw, err := h.drawService.GetDrawByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Draw not found"})
		return
	}
	min, max, err := scoreRange(c, draw.ScoreRangeMin, draw.ScoreRangeMax)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.drawService.RunDraw(c.Request.Context(), id, min, max)
	if err != nil {
		// A partial result means the draw completed but a follow-up write
		// failed; surface both so the operator can remediate.
		if result != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error(), "result": result})
			return
		}
		h.respondDrawError(c, err, "Failed to run draw")
		return
	}
	c.JSON(http.StatusOK, result)
}

// PublishDraw handles POST /draws/:id/publish
func (h *DrawHandler) PublishDraw(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}
	if err := h.drawService.PublishDraw(c.Request.Context(), id); err != nil {
		h.respondDrawError(c, err, "Failed to publish draw")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Draw published"})
}

// ResetDraw handles POST /draws/:id/reset
func (h *DrawHandler) ResetDraw(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}
	if err := h.drawService.ResetDraw(c.Request.Context(), id); err != nil {
		h.respondDrawError(c, err, "Failed to reset draw")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Draw reset"})
}

// GetEligible handles GET /draws/:id/eligible. It returns the full enriched
// list so the operator can audit who qualifies, and why, before a run.
func (h *DrawHandler) GetEligible(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}
	eligible, err := h.eligibility.Resolve(c.Request.Context(), &id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve eligible users: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(eligible), "users": eligible})
}

// respondDrawError maps engine errors to HTTP statuses
func (h *DrawHandler) respondDrawError(c *gin.Context, err error, prefix string) {
	switch {
	case errors.Is(err, models.ErrInsufficientData),
		errors.Is(err, models.ErrNoEligibleParticipants):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, models.ErrInvalidTransition):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": prefix + ": " + err.Error()})
	}
}
