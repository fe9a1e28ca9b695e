package handlers

import (
	"errors"
	"net/http"

	"github.com/birdieplay/birdieplay-backend/internal/services"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// UserHandler handles user profile HTTP requests
type UserHandler struct {
	userService services.UserService
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userService services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// callerID extracts the authenticated user's id from the gin context
func callerID(c *gin.Context) (primitive.ObjectID, bool) {
	v, _ := c.Get("userID")
	s, _ := v.(string)
	id, err := primitive.ObjectIDFromHex(s)
	if err != nil {
		return primitive.NilObjectID, false
	}
	return id, true
}

// GetMe handles GET /users/me
func (h *UserHandler) GetMe(c *gin.Context) {
	id, ok := callerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid user identity"})
		return
	}
	user, err := h.userService.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve user: " + err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, user)
}

// GetUsers handles GET /users (admin)
func (h *UserHandler) GetUsers(c *gin.Context) {
	users, err := h.userService.GetAll(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve users: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, users)
}

// DonationPreferencesRequest is the body for PUT /users/me/donation-preferences
type DonationPreferencesRequest struct {
	CharityID  string  `json:"charityId"`
	Percentage float64 `json:"percentage"`
}

// SetDonationPreferences handles PUT /users/me/donation-preferences
func (h *UserHandler) SetDonationPreferences(c *gin.Context) {
	id, ok := callerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid user identity"})
		return
	}
	var request DonationPreferencesRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	charityID := primitive.NilObjectID
	if request.CharityID != "" {
		parsed, err := primitive.ObjectIDFromHex(request.CharityID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid charity ID format"})
			return
		}
		charityID = parsed
	}
	if err := h.userService.SetDonationPreferences(c.Request.Context(), id, charityID, request.Percentage); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Donation preferences updated"})
}

// SubmitScoreRequest is the body for POST /scores
type SubmitScoreRequest struct {
	Score     int    `json:"score" binding:"min=0,max=60"`
	CourseRef string `json:"courseRef"`
}

// SubmitScore handles POST /scores
func (h *UserHandler) SubmitScore(c *gin.Context) {
	id, ok := callerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid user identity"})
		return
	}
	var request SubmitScoreRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	record, err := h.userService.SubmitScore(c.Request.Context(), id, request.Score, request.CourseRef)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, record)
}
