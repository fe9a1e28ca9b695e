package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/birdieplay/birdieplay-backend/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type stubEligibilityService struct {
	users []services.EligibleUser
	err   error
}

func (s *stubEligibilityService) Resolve(_ context.Context, _ *primitive.ObjectID) ([]services.EligibleUser, error) {
	return s.users, s.err
}

func (s *stubEligibilityService) CountEligible(_ context.Context, _ *primitive.ObjectID) (int, error) {
	return len(s.users), s.err
}

func eligibleRouter(stub *stubEligibilityService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	handler := NewDrawHandler(nil, stub)
	router := gin.New()
	router.GET("/draws/:id/eligible", handler.GetEligible)
	return router
}

func TestGetEligibleReturnsEnrichedList(t *testing.T) {
	userID := primitive.NewObjectID()
	router := eligibleRouter(&stubEligibilityService{users: []services.EligibleUser{{
		ID:                 userID,
		Scores:             []int{31, 28, 27},
		DonationPercentage: 0.10,
		Rule:               "assigned-to-draw",
	}}})

	req := httptest.NewRequest(http.MethodGet, "/draws/"+primitive.NewObjectID().Hex()+"/eligible", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Count int                     `json:"count"`
		Users []services.EligibleUser `json:"users"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 1, body.Count)
	require.Len(t, body.Users, 1)
	assert.Equal(t, userID, body.Users[0].ID)
	assert.Equal(t, []int{31, 28, 27}, body.Users[0].Scores)
	assert.Equal(t, "assigned-to-draw", body.Users[0].Rule)
}

func TestGetEligibleRejectsBadID(t *testing.T) {
	router := eligibleRouter(&stubEligibilityService{})

	req := httptest.NewRequest(http.MethodGet, "/draws/not-an-id/eligible", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
