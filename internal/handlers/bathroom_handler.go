package handlers

import (
	"strconv"

	"stallfinder/internal/services"
	"stallfinder/internal/utils"
	"stallfinder/internal/validators"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type BathroomHandler struct {
	bathroomService services.BathroomService
}

func NewBathroomHandler(bathroomService services.BathroomService) *BathroomHandler {
	return &BathroomHandler{
		bathroomService: bathroomService,
	}
}

func (h *BathroomHandler) Create(c *gin.Context) {
	var request services.CreateBathroomRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	if errs := validators.ValidateStruct(&request); len(errs) > 0 {
		utils.ValidationErrorResponse(c, errs.ToMap())
		return
	}

	bathroom, err := h.bathroomService.AddBathroom(c.Request.Context(), &request)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.CreatedResponse(c, "Bathroom added", bathroom)
}

func (h *BathroomHandler) Get(c *gin.Context) {
	id, ok := bathroomIDParam(c)
	if !ok {
		return
	}

	bathroom, err := h.bathroomService.GetBathroom(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Bathroom retrieved", bathroom)
}

func (h *BathroomHandler) List(c *gin.Context) {
	gender := c.Query("gender")
	params := utils.GetPaginationParams(c)

	bathrooms, err := h.bathroomService.ListBathrooms(c.Request.Context(), gender)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	total := len(bathrooms)
	start, end := params.Bounds(total)
	page := bathrooms[start:end]

	utils.SuccessResponseWithMeta(c, "Bathrooms retrieved", page, &utils.Meta{
		Count:      len(page),
		Pagination: utils.CreatePaginationMeta(params, int64(total)),
	})
}

func (h *BathroomHandler) TopRated(c *gin.Context) {
	limit := intQuery(c, "limit", utils.DefaultLeaderboardSize)
	minReviews := intQuery(c, "min_reviews", utils.DefaultMinReviews)

	bathrooms, err := h.bathroomService.TopRated(c.Request.Context(), limit, minReviews)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponseWithMeta(c, "Top rated bathrooms retrieved", bathrooms, &utils.Meta{Count: len(bathrooms)})
}

func (h *BathroomHandler) MostUsed(c *gin.Context) {
	limit := intQuery(c, "limit", utils.DefaultLeaderboardSize)

	bathrooms, err := h.bathroomService.MostUsed(c.Request.Context(), limit)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponseWithMeta(c, "Most used bathrooms retrieved", bathrooms, &utils.Meta{Count: len(bathrooms)})
}

func (h *BathroomHandler) Nearest(c *gin.Context) {
	lat, err := strconv.ParseFloat(c.Query("lat"), 64)
	if err != nil {
		utils.BadRequestResponse(c, "Invalid latitude")
		return
	}

	lng, err := strconv.ParseFloat(c.Query("lng"), 64)
	if err != nil {
		utils.BadRequestResponse(c, "Invalid longitude")
		return
	}

	limit := intQuery(c, "limit", 0)

	ranked, err := h.bathroomService.Nearest(c.Request.Context(), utils.Point{Lat: lat, Lng: lng}, limit)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponseWithMeta(c, "Nearest bathrooms retrieved", ranked, &utils.Meta{Count: len(ranked)})
}

func (h *BathroomHandler) Clusters(c *gin.Context) {
	threshold, _ := strconv.ParseFloat(c.DefaultQuery("threshold_meters", "0"), 64)

	clusters, err := h.bathroomService.Cluster(c.Request.Context(), threshold)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponseWithMeta(c, "Bathroom clusters retrieved", clusters, &utils.Meta{Count: len(clusters)})
}

func bathroomIDParam(c *gin.Context) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid bathroom ID")
		return primitive.NilObjectID, false
	}
	return id, true
}

func intQuery(c *gin.Context, name string, defaultValue int) int {
	if raw := c.Query(name); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil {
			return value
		}
	}
	return defaultValue
}
