package controllers

import (
	"net/http"

	"github.com/aliavon/ExpenseBuddy-sub001/internal/authctx"
	"github.com/aliavon/ExpenseBuddy-sub001/internal/authz"
	"github.com/aliavon/ExpenseBuddy-sub001/internal/dtos"
	"github.com/aliavon/ExpenseBuddy-sub001/internal/services"
	"github.com/aliavon/ExpenseBuddy-sub001/internal/utils"
)

type AuthController struct {
	authService services.AuthService
}

func NewAuthController(authService services.AuthService) *AuthController {
	return &AuthController{authService: authService}
}

func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	var req dtos.LoginRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	user, access, refresh, err := c.authService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, dtos.LoginResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		User:         user,
	})
}

func (c *AuthController) RefreshToken(w http.ResponseWriter, r *http.Request) {
	var req dtos.RefreshTokenRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	access, refresh, err := c.authService.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, dtos.RefreshTokenResponse{
		AccessToken:  access,
		RefreshToken: refresh,
	})
}

func (c *AuthController) Logout(w http.ResponseWriter, r *http.Request) {
	authCtx := authctx.FromContext(r.Context())
	if err := authz.RequireAuthenticated(authCtx); err != nil {
		utils.HandleAppError(w, err)
		return
	}

	var req dtos.LogoutRequest
	// body is optional; a missing refresh token just means only the access
	// token gets revoked
	_ = decodeBody(r, &req)

	if err := c.authService.Logout(r.Context(), bearerToken(r), req.RefreshToken); err != nil {
		utils.HandleAppError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, dtos.MessageResponse{Message: "Logged out"})
}

func (c *AuthController) RequestEmailVerification(w http.ResponseWriter, r *http.Request) {
	authCtx := authctx.FromContext(r.Context())
	if err := authz.RequireAuthenticated(authCtx); err != nil {
		utils.HandleAppError(w, err)
		return
	}

	if err := c.authService.RequestEmailVerification(r.Context(), authCtx.User); err != nil {
		utils.HandleAppError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, dtos.MessageResponse{Message: "Verification email sent"})
}

func (c *AuthController) RequestPasswordReset(w http.ResponseWriter, r *http.Request) {
	var req dtos.PasswordResetRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	if err := c.authService.RequestPasswordReset(r.Context(), req.Email); err != nil {
		utils.HandleAppError(w, err)
		return
	}

	// Same response whether or not the address is registered.
	utils.RespondWithJSON(w, http.StatusOK, dtos.MessageResponse{Message: "If the address is registered, a reset email has been sent"})
}
