package handlers

import (
	"stallfinder/internal/middleware"
	"stallfinder/internal/services"
	"stallfinder/internal/utils"
	"stallfinder/internal/validators"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	userService services.UserService
}

func NewUserHandler(userService services.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

func (h *UserHandler) Profile(c *gin.Context) {
	user, ok := middleware.RequireUser(c)
	if !ok {
		return
	}

	profile, err := h.userService.GetProfile(c.Request.Context(), user)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Profile retrieved", profile)
}

// PublicProfile returns another user's profile. Private profiles are
// only served to their owner.
func (h *UserHandler) PublicProfile(c *gin.Context) {
	email := c.Param("email")
	if email == "" {
		utils.BadRequestResponse(c, "Email required")
		return
	}

	viewer := middleware.CurrentUser(c)

	profile, err := h.userService.PublicProfile(c.Request.Context(), viewer, email)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Profile retrieved", profile)
}

func (h *UserHandler) UpdateProfile(c *gin.Context) {
	user, ok := middleware.RequireUser(c)
	if !ok {
		return
	}

	var request services.UpdateProfileRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	if errs := validators.ValidateStruct(&request); len(errs) > 0 {
		utils.ValidationErrorResponse(c, errs.ToMap())
		return
	}

	updated, err := h.userService.UpdateProfile(c.Request.Context(), user, &request)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Profile updated", updated)
}

// SetPrivacy toggles whether the user's profile and review identity are
// hidden from other users.
func (h *UserHandler) SetPrivacy(c *gin.Context) {
	user, ok := middleware.RequireUser(c)
	if !ok {
		return
	}

	var request struct {
		Private *bool `json:"private" binding:"required"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	if err := h.userService.SetProfilePrivacy(c.Request.Context(), user, *request.Private); err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Privacy updated", nil)
}
