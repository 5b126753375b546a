package handlers

import (
	"stallfinder/internal/middleware"
	"stallfinder/internal/services"
	"stallfinder/internal/utils"

	"github.com/gin-gonic/gin"
)

type FavoriteHandler struct {
	favoriteService services.FavoriteService
}

func NewFavoriteHandler(favoriteService services.FavoriteService) *FavoriteHandler {
	return &FavoriteHandler{
		favoriteService: favoriteService,
	}
}

func (h *FavoriteHandler) Add(c *gin.Context) {
	user, ok := middleware.RequireUser(c)
	if !ok {
		return
	}

	bathroomID, ok := bathroomIDParam(c)
	if !ok {
		return
	}

	if err := h.favoriteService.AddFavorite(c.Request.Context(), user, bathroomID); err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Favorite added", nil)
}

func (h *FavoriteHandler) Remove(c *gin.Context) {
	user, ok := middleware.RequireUser(c)
	if !ok {
		return
	}

	bathroomID, ok := bathroomIDParam(c)
	if !ok {
		return
	}

	if err := h.favoriteService.RemoveFavorite(c.Request.Context(), user, bathroomID); err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Favorite removed", nil)
}

func (h *FavoriteHandler) Check(c *gin.Context) {
	user, ok := middleware.RequireUser(c)
	if !ok {
		return
	}

	bathroomID, ok := bathroomIDParam(c)
	if !ok {
		return
	}

	isFavorite, err := h.favoriteService.IsFavorite(c.Request.Context(), user, bathroomID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Favorite status retrieved", gin.H{"is_favorite": isFavorite})
}

func (h *FavoriteHandler) List(c *gin.Context) {
	user, ok := middleware.RequireUser(c)
	if !ok {
		return
	}

	bathrooms, err := h.favoriteService.FavoriteBathrooms(c.Request.Context(), user)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponseWithMeta(c, "Favorites retrieved", bathrooms, &utils.Meta{Count: len(bathrooms)})
}
