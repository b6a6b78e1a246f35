package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/giftwise/giftwise-backend/internal/http/middleware"
	"github.com/giftwise/giftwise-backend/internal/http/response"
	pkgerrors "github.com/giftwise/giftwise-backend/internal/pkg/errors"
	"github.com/giftwise/giftwise-backend/internal/services"
)

type ContactHandler struct {
	contactService services.ContactService
}

func NewContactHandler(contactService services.ContactService) *ContactHandler {
	return &ContactHandler{contactService: contactService}
}

func (ch *ContactHandler) Create(c *gin.Context) {
	var req services.ContactInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	contact, err := ch.contactService.Create(c.Request.Context(), middleware.UserID(c), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, contact)
}

func (ch *ContactHandler) Get(c *gin.Context) {
	contactID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_contact_id", err)
		return
	}
	contact, err := ch.contactService.Get(c.Request.Context(), middleware.UserID(c), contactID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, contact)
}

func (ch *ContactHandler) List(c *gin.Context) {
	contacts, err := ch.contactService.List(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"contacts": contacts})
}

func (ch *ContactHandler) Update(c *gin.Context) {
	contactID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_contact_id", err)
		return
	}
	var req services.ContactInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	contact, err := ch.contactService.Update(c.Request.Context(), middleware.UserID(c), contactID, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, contact)
}

func (ch *ContactHandler) Delete(c *gin.Context) {
	contactID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_contact_id", err)
		return
	}
	if err := ch.contactService.Delete(c.Request.Context(), middleware.UserID(c), contactID); err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}

func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, pkgerrors.ErrNotFound):
		response.RespondError(c, http.StatusNotFound, "not_found", err)
	case errors.Is(err, pkgerrors.ErrInvalidArgument):
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
	case errors.Is(err, pkgerrors.ErrUnauthorized):
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", err)
	default:
		response.RespondError(c, http.StatusInternalServerError, "internal_error", err)
	}
}
