package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/giftwise/giftwise-backend/internal/http/response"
	"github.com/giftwise/giftwise-backend/internal/services"
)

type AuthHandler struct {
	authService services.AuthService
	accessTTL   int
}

func NewAuthHandler(authService services.AuthService, accessTTLSeconds int) *AuthHandler {
	return &AuthHandler{authService: authService, accessTTL: accessTTLSeconds}
}

func (ah *AuthHandler) Signup(c *gin.Context) {
	var req struct {
		Email     string `json:"email"`
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
		Password  string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	user, token, err := ah.authService.Signup(c.Request.Context(), req.Email, req.Password, req.FirstName, req.LastName)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "signup_failed", err)
		return
	}
	response.RespondOK(c, gin.H{
		"user_id":      user.ID.String(),
		"access_token": token,
		"expires_in":   ah.accessTTL,
	})
}

func (ah *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	user, token, err := ah.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		response.RespondError(c, http.StatusUnauthorized, "invalid_credentials", err)
		return
	}
	response.RespondOK(c, gin.H{
		"user_id":      user.ID.String(),
		"access_token": token,
		"expires_in":   ah.accessTTL,
	})
}
