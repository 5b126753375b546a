package handlers

import (
	"net/http"

	"stallfinder/internal/middleware"
	"stallfinder/internal/services"
	"stallfinder/internal/utils"
	"stallfinder/internal/validators"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type AuthHandler struct {
	authService services.AuthService
}

func NewAuthHandler(authService services.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// SocialLogin signs a user in with a provider ID token, creating the
// account on first sign-in.
func (h *AuthHandler) SocialLogin(c *gin.Context) {
	var request services.SocialLoginRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	if errs := validators.ValidateStruct(&request); len(errs) > 0 {
		utils.ValidationErrorResponse(c, errs.ToMap())
		return
	}

	response, err := h.authService.SocialLogin(c.Request.Context(), &request)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	if response.IsNew {
		utils.CreatedResponse(c, "Account created", response)
		return
	}

	utils.SuccessResponse(c, "Signed in successfully", response)
}

// GoogleLogin starts the browser authorization-code flow, redirecting
// to the Google consent page with a state cookie for the callback.
func (h *AuthHandler) GoogleLogin(c *gin.Context) {
	state := uuid.NewString()

	url, err := h.authService.WebLoginURL(state)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.SetCookie("oauth_state", state, 300, "/", "", false, true)
	c.Redirect(http.StatusFound, url)
}

// GoogleCallback finishes the authorization-code flow and signs the
// user in.
func (h *AuthHandler) GoogleCallback(c *gin.Context) {
	state, _ := c.Cookie("oauth_state")
	if state == "" || state != c.Query("state") {
		utils.BadRequestResponse(c, "State mismatch")
		return
	}

	code := c.Query("code")
	if code == "" {
		utils.BadRequestResponse(c, "Authorization code required")
		return
	}

	response, err := h.authService.CompleteWebLogin(c.Request.Context(), code)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	if response.IsNew {
		utils.CreatedResponse(c, "Account created", response)
		return
	}

	utils.SuccessResponse(c, "Signed in successfully", response)
}

func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var request struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	response, err := h.authService.RefreshToken(c.Request.Context(), request.RefreshToken)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Token refreshed", response)
}

func (h *AuthHandler) Logout(c *gin.Context) {
	user, ok := middleware.RequireUser(c)
	if !ok {
		return
	}

	if err := h.authService.Logout(c.Request.Context(), user); err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Logged out successfully", nil)
}
