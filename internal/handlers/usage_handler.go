package handlers

import (
	"stallfinder/internal/middleware"
	"stallfinder/internal/services"
	"stallfinder/internal/utils"

	"github.com/gin-gonic/gin"
)

type UsageHandler struct {
	usageService services.UsageService
}

func NewUsageHandler(usageService services.UsageService) *UsageHandler {
	return &UsageHandler{
		usageService: usageService,
	}
}

// LogVisit increments the caller's usage counter for a bathroom and the
// bathroom's total in one step.
func (h *UsageHandler) LogVisit(c *gin.Context) {
	user, ok := middleware.RequireUser(c)
	if !ok {
		return
	}

	bathroomID, ok := bathroomIDParam(c)
	if !ok {
		return
	}

	usage, err := h.usageService.LogVisit(c.Request.Context(), user, bathroomID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Visit logged", usage)
}

func (h *UsageHandler) VisitHistory(c *gin.Context) {
	user, ok := middleware.RequireUser(c)
	if !ok {
		return
	}

	visits, err := h.usageService.VisitHistory(c.Request.Context(), user)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponseWithMeta(c, "Visit history retrieved", visits, &utils.Meta{Count: len(visits)})
}

func (h *UsageHandler) BathroomVisitCount(c *gin.Context) {
	user, ok := middleware.RequireUser(c)
	if !ok {
		return
	}

	bathroomID, ok := bathroomIDParam(c)
	if !ok {
		return
	}

	count, err := h.usageService.BathroomVisitCount(c.Request.Context(), user, bathroomID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Visit count retrieved", gin.H{"count": count})
}

func (h *UsageHandler) TotalUses(c *gin.Context) {
	user, ok := middleware.RequireUser(c)
	if !ok {
		return
	}

	total, err := h.usageService.TotalUserUses(c.Request.Context(), user)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Total uses retrieved", gin.H{"total": total})
}
