package handlers

import (
	"net/http"
	"time"

	"github.com/birdieplay/birdieplay-backend/internal/models"
	"github.com/birdieplay/birdieplay-backend/internal/services"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SubscriptionHandler handles subscription HTTP requests
type SubscriptionHandler struct {
	subscriptionService services.SubscriptionService
}

// NewSubscriptionHandler creates a new SubscriptionHandler
func NewSubscriptionHandler(subscriptionService services.SubscriptionService) *SubscriptionHandler {
	return &SubscriptionHandler{subscriptionService: subscriptionService}
}

// CreateSubscriptionRequest is the body for POST /subscriptions
type CreateSubscriptionRequest struct {
	Plan string `json:"plan" binding:"required"` // monthly or annual
}

// Create handles POST /subscriptions
func (h *SubscriptionHandler) Create(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid user identity"})
		return
	}
	var request CreateSubscriptionRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	periodEnd := h.subscriptionService.NextDrawDate(time.Now())
	if request.Plan == models.PlanAnnual {
		periodEnd = time.Now().AddDate(1, 0, 0)
	}

	sub, err := h.subscriptionService.Create(c.Request.Context(), userID, request.Plan, periodEnd)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, sub)
}

// GetMine handles GET /subscriptions/me
func (h *SubscriptionHandler) GetMine(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid user identity"})
		return
	}
	subs, err := h.subscriptionService.GetByUser(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve subscriptions: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, subs)
}

// AssignRequest is the body for POST /subscriptions/:id/assign
type AssignRequest struct {
	DrawID string `json:"drawId" binding:"required"`
}

// Assign handles POST /subscriptions/:id/assign (admin)
func (h *SubscriptionHandler) Assign(c *gin.Context) {
	subID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}
	var request AssignRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	drawID, err := primitive.ObjectIDFromHex(request.DrawID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid draw ID format"})
		return
	}
	if err := h.subscriptionService.AssignToDraw(c.Request.Context(), subID, drawID); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Subscription assigned"})
}

// Backfill handles POST /subscriptions/backfill (admin)
func (h *SubscriptionHandler) Backfill(c *gin.Context) {
	repaired, err := h.subscriptionService.BackfillAssignments(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Backfill failed: " + err.Error(), "repaired": repaired})
		return
	}
	c.JSON(http.StatusOK, gin.H{"repaired": repaired})
}
