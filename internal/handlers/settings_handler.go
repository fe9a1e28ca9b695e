package handlers

import (
	"net/http"
	"strconv"

	"github.com/birdieplay/birdieplay-backend/internal/models"
	"github.com/birdieplay/birdieplay-backend/internal/services"
	"github.com/gin-gonic/gin"
)

// SettingsHandler handles prize-pool configuration and the audit log
type SettingsHandler struct {
	settingsService services.SettingsService
	auditService    services.AuditService
}

// NewSettingsHandler creates a new SettingsHandler
func NewSettingsHandler(settingsService services.SettingsService, auditService services.AuditService) *SettingsHandler {
	return &SettingsHandler{settingsService: settingsService, auditService: auditService}
}

// GetSettings handles GET /settings/draw
func (h *SettingsHandler) GetSettings(c *gin.Context) {
	settings, err := h.settingsService.GetDrawSettings(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve settings: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, settings)
}

// UpdateSettings handles PUT /settings/draw (admin)
func (h *SettingsHandler) UpdateSettings(c *gin.Context) {
	var settings models.DrawSettings
	if err := c.ShouldBindJSON(&settings); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	adminID, _ := c.Get("userID")
	adminIDStr, _ := adminID.(string)

	if err := h.settingsService.UpdateDrawSettings(c.Request.Context(), &settings, adminIDStr); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, settings)
}

// GetAuditLog handles GET /settings/audit (admin)
func (h *SettingsHandler) GetAuditLog(c *gin.Context) {
	limit := 100
	if v := c.Query("limit"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit parameter"})
			return
		}
		limit = parsed
	}
	events, err := h.auditService.Recent(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve audit log: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, events)
}
