package handlers

import (
	"errors"
	"net/http"

	"github.com/birdieplay/birdieplay-backend/internal/models"
	"github.com/birdieplay/birdieplay-backend/internal/services"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SettlementHandler handles winner and charity settlement HTTP requests
type SettlementHandler struct {
	settlementService services.SettlementService
}

// NewSettlementHandler creates a new SettlementHandler
func NewSettlementHandler(settlementService services.SettlementService) *SettlementHandler {
	return &SettlementHandler{settlementService: settlementService}
}

// ListPayableWinners handles GET /settlement/winners
func (h *SettlementHandler) ListPayableWinners(c *gin.Context) {
	winners, err := h.settlementService.ListPayableWinners(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list payable winners: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, winners)
}

// PayWinnerRequest is the body for POST /settlement/winners/:id/pay
type PayWinnerRequest struct {
	Reference string `json:"reference"`
}

// PayWinner handles POST /settlement/winners/:id/pay
func (h *SettlementHandler) PayWinner(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}
	var request PayWinnerRequest
	if err := c.ShouldBindJSON(&request); err != nil && err.Error() != "EOF" {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	adminID, _ := c.Get("userID")
	adminIDStr, _ := adminID.(string)

	if err := h.settlementService.MarkWinnerAsPaid(c.Request.Context(), id, request.Reference, adminIDStr); err != nil {
		if errors.Is(err, models.ErrNotPublished) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to pay winner: " + err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Winner paid"})
}

// VerifyEntryRequest is the body for POST /settlement/entries/:id/verify
type VerifyEntryRequest struct {
	Status string `json:"status" binding:"required"` // verified or rejected
}

// VerifyEntry handles POST /settlement/entries/:id/verify
func (h *SettlementHandler) VerifyEntry(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}
	var request VerifyEntryRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.settlementService.VerifyEntry(c.Request.Context(), id, request.Status); err != nil {
		if errors.Is(err, models.ErrAlreadySettled) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		} else {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Entry verification updated"})
}

// CreateCharityPayout handles POST /settlement/charities/:id/payout
func (h *SettlementHandler) CreateCharityPayout(c *gin.Context) {
	charityID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}
	payout, err := h.settlementService.CreateCharityPayout(c.Request.Context(), charityID)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, payout)
}

// PayCharityPayoutRequest is the body for POST /settlement/payouts/:id/pay
type PayCharityPayoutRequest struct {
	Reference string `json:"reference" binding:"required"`
}

// PayCharityPayout handles POST /settlement/payouts/:id/pay
func (h *SettlementHandler) PayCharityPayout(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}
	var request PayCharityPayoutRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.settlementService.MarkCharityPayoutAsPaid(c.Request.Context(), id, request.Reference); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to pay charity: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Charity payout paid"})
}

// RollbackCharityPayout handles POST /settlement/payouts/:id/rollback
func (h *SettlementHandler) RollbackCharityPayout(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}
	if err := h.settlementService.RollbackCharityPayout(c.Request.Context(), id); err != nil {
		if errors.Is(err, models.ErrAlreadySettled) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to roll back payout: " + err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Charity payout rolled back"})
}

// DonateRequest is the body for POST /donations
type DonateRequest struct {
	CharityID string  `json:"charityId" binding:"required"`
	Amount    float64 `json:"amount" binding:"required,gt=0"`
}

// Donate handles POST /donations
func (h *SettlementHandler) Donate(c *gin.Context) {
	var request DonateRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	charityID, err := primitive.ObjectIDFromHex(request.CharityID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid charity ID format"})
		return
	}
	userIDVal, _ := c.Get("userID")
	userIDStr, _ := userIDVal.(string)
	userID, err := primitive.ObjectIDFromHex(userIDStr)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid user identity"})
		return
	}

	donation, err := h.settlementService.RecordDirectDonation(c.Request.Context(), userID, charityID, request.Amount)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, donation)
}
