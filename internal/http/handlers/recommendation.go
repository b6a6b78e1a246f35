package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/giftwise/giftwise-backend/internal/http/middleware"
	"github.com/giftwise/giftwise-backend/internal/http/response"
	"github.com/giftwise/giftwise-backend/internal/services"
)

const defaultRecommendationCount = 5

type RecommendationHandler struct {
	contactService        services.ContactService
	extractionService     services.ExtractionService
	recommendationService services.RecommendationService
}

func NewRecommendationHandler(
	contactService services.ContactService,
	extractionService services.ExtractionService,
	recommendationService services.RecommendationService,
) *RecommendationHandler {
	return &RecommendationHandler{
		contactService:        contactService,
		extractionService:     extractionService,
		recommendationService: recommendationService,
	}
}

// Extract builds or refreshes the preference profile from the contact's notes.
func (rh *RecommendationHandler) Extract(c *gin.Context) {
	contactID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_contact_id", err)
		return
	}
	userID := middleware.UserID(c)
	contact, err := rh.contactService.Get(c.Request.Context(), userID, contactID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	extraction, err := rh.extractionService.Extract(c.Request.Context(), userID, contact)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, extraction)
}

func (rh *RecommendationHandler) Recommend(c *gin.Context) {
	var req struct {
		ContactID       string `json:"contact_id"`
		Count           int    `json:"count"`
		ExcludeDislikes bool   `json:"exclude_dislikes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	contactID, err := uuid.Parse(req.ContactID)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_contact_id", err)
		return
	}
	if req.Count <= 0 {
		req.Count = defaultRecommendationCount
	}
	userID := middleware.UserID(c)
	contact, err := rh.contactService.Get(c.Request.Context(), userID, contactID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	resp, err := rh.recommendationService.Recommend(c.Request.Context(), userID, contact, req.Count, req.ExcludeDislikes)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, resp)
}
