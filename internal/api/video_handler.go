package api

import (
	"errors"
	"net/http"

	"vfcarvalho/meu-treino/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// VideoHandler covers the demo-video upload flow: the page's script asks
// for a presigned PUT URL, uploads straight to object storage, then
// confirms the object key. Both endpoints are JSON.
type VideoHandler struct {
	exerciseService service.ExerciseService
}

func NewVideoHandler(exerciseService service.ExerciseService) *VideoHandler {
	return &VideoHandler{exerciseService: exerciseService}
}

type videoUploadRequest struct {
	ContentType string `json:"contentType" binding:"required"`
}

type videoConfirmRequest struct {
	ObjectKey string `json:"objectKey" binding:"required"`
}

// RequestUpload returns a presigned upload URL for the exercise's video.
func (h *VideoHandler) RequestUpload(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "failed to resolve session user")
		return
	}

	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "invalid exercise id")
		return
	}

	var req videoUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "contentType is required")
		return
	}

	upload, err := h.exerciseService.RequestVideoUpload(c.Request.Context(), userID, id, req.ContentType)
	if err != nil {
		h.abortServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, upload)
}

// ConfirmUpload records the uploaded object key on the exercise.
func (h *VideoHandler) ConfirmUpload(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "failed to resolve session user")
		return
	}

	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "invalid exercise id")
		return
	}

	var req videoConfirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "objectKey is required")
		return
	}

	if err := h.exerciseService.AttachVideo(c.Request.Context(), userID, id, req.ObjectKey); err != nil {
		h.abortServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *VideoHandler) abortServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrVideoStorageDisabled):
		abortWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrExerciseNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrValidationFailed):
		abortWithError(c, http.StatusBadRequest, err.Error())
	default:
		abortWithError(c, http.StatusInternalServerError, "video operation failed")
	}
}
