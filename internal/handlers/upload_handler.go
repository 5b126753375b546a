package handlers

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"stallfinder/internal/middleware"
	"stallfinder/internal/utils"
	"stallfinder/pkg/storage"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type UploadHandler struct {
	storage storage.Provider
}

func NewUploadHandler(provider storage.Provider) *UploadHandler {
	return &UploadHandler{
		storage: provider,
	}
}

// UploadImage stores a bathroom or review photo and returns its URL.
func (h *UploadHandler) UploadImage(c *gin.Context) {
	user, ok := middleware.RequireUser(c)
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		utils.BadRequestResponse(c, "Image file required")
		return
	}

	if fileHeader.Size > utils.MaxImageSize {
		utils.BadRequestResponse(c, "Image exceeds maximum size")
		return
	}

	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(fileHeader.Filename)), ".")
	if !allowedImageType(ext) {
		utils.BadRequestResponse(c, "Unsupported image type")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		utils.InternalServerErrorResponse(c)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		utils.InternalServerErrorResponse(c)
		return
	}

	data, err = utils.DownscalePhoto(data, ext, utils.PhotoMaxDimension)
	if err != nil {
		utils.BadRequestResponse(c, "Could not decode image")
		return
	}

	key := fmt.Sprintf("images/%s/%d-%s.%s", user.ID, time.Now().Unix(), uuid.NewString(), ext)

	response, err := h.storage.Upload(c.Request.Context(), &storage.UploadRequest{
		Key:         key,
		Reader:      bytes.NewReader(data),
		ContentType: fileHeader.Header.Get("Content-Type"),
		Size:        int64(len(data)),
		Metadata: map[string]string{
			"uploaded_by": user.ID,
		},
	})
	if err != nil {
		utils.InternalServerErrorResponse(c)
		return
	}

	utils.CreatedResponse(c, "Image uploaded", gin.H{
		"key": response.Key,
		"url": response.URL,
	})
}

func allowedImageType(ext string) bool {
	for _, allowed := range utils.AllowedImageTypes {
		if ext == allowed {
			return true
		}
	}
	return false
}
