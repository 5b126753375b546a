package handlers

import (
	"stallfinder/internal/middleware"
	"stallfinder/internal/services"
	"stallfinder/internal/utils"
	"stallfinder/internal/validators"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ReviewHandler struct {
	reviewService services.ReviewService
}

func NewReviewHandler(reviewService services.ReviewService) *ReviewHandler {
	return &ReviewHandler{
		reviewService: reviewService,
	}
}

// Create records a review for a bathroom and refreshes its aggregates.
func (h *ReviewHandler) Create(c *gin.Context) {
	user, ok := middleware.RequireUser(c)
	if !ok {
		return
	}

	bathroomID, ok := bathroomIDParam(c)
	if !ok {
		return
	}

	var request services.CreateReviewRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	if errs := validators.ValidateStruct(&request); len(errs) > 0 {
		utils.ValidationErrorResponse(c, errs.ToMap())
		return
	}

	review, err := h.reviewService.RecordReview(c.Request.Context(), user, bathroomID, &request)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.CreatedResponse(c, "Review recorded", review)
}

func (h *ReviewHandler) Delete(c *gin.Context) {
	user, ok := middleware.RequireUser(c)
	if !ok {
		return
	}

	reviewID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid review ID")
		return
	}

	if err := h.reviewService.DeleteReview(c.Request.Context(), user, reviewID); err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Review deleted", nil)
}

func (h *ReviewHandler) ListForBathroom(c *gin.Context) {
	bathroomID, ok := bathroomIDParam(c)
	if !ok {
		return
	}

	viewer := middleware.CurrentUser(c)
	params := utils.GetPaginationParams(c)

	reviews, err := h.reviewService.BathroomReviews(c.Request.Context(), viewer, bathroomID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	total := len(reviews)
	start, end := params.Bounds(total)
	page := reviews[start:end]

	utils.SuccessResponseWithMeta(c, "Reviews retrieved", page, &utils.Meta{
		Count:      len(page),
		Pagination: utils.CreatePaginationMeta(params, int64(total)),
	})
}

// ListForUser returns reviews written by the given user. Anonymous
// reviews are only included when the viewer is that user.
func (h *ReviewHandler) ListForUser(c *gin.Context) {
	email := c.Param("email")
	if email == "" {
		utils.BadRequestResponse(c, "Email required")
		return
	}

	viewer := middleware.CurrentUser(c)

	reviews, err := h.reviewService.UserReviews(c.Request.Context(), viewer, email)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponseWithMeta(c, "Reviews retrieved", reviews, &utils.Meta{Count: len(reviews)})
}
