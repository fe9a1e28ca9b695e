package handlers

import (
	"errors"
	"net/http"

	"github.com/birdieplay/birdieplay-backend/internal/models"
	"github.com/birdieplay/birdieplay-backend/internal/services"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// CharityHandler handles charity directory HTTP requests
type CharityHandler struct {
	charityService services.CharityService
}

// NewCharityHandler creates a new CharityHandler
func NewCharityHandler(charityService services.CharityService) *CharityHandler {
	return &CharityHandler{charityService: charityService}
}

// List handles GET /charities. Players see verified charities only; pass
// ?all=true on an admin token to include unverified entries.
func (h *CharityHandler) List(c *gin.Context) {
	verifiedOnly := true
	if c.Query("all") == "true" {
		role, _ := c.Get("userRole")
		if role == models.RoleAdmin {
			verifiedOnly = false
		}
	}
	charities, err := h.charityService.List(c.Request.Context(), verifiedOnly)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list charities: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, charities)
}

// GetByID handles GET /charities/:id
func (h *CharityHandler) GetByID(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}
	charity, err := h.charityService.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Charity not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve charity: " + err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, charity)
}

// Create handles POST /charities (admin)
func (h *CharityHandler) Create(c *gin.Context) {
	var charity models.Charity
	if err := c.ShouldBindJSON(&charity); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.charityService.Create(c.Request.Context(), &charity); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, charity)
}

// Update handles PUT /charities/:id (admin)
func (h *CharityHandler) Update(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}
	var charity models.Charity
	if err := c.ShouldBindJSON(&charity); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	charity.ID = id
	if err := h.charityService.Update(c.Request.Context(), &charity); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, charity)
}

// Delete handles DELETE /charities/:id (admin)
func (h *CharityHandler) Delete(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}
	if err := h.charityService.Delete(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete charity: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Charity deleted"})
}
