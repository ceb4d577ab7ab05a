package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/suPer8Hu/chat-studio/internal/chat"
	"github.com/suPer8Hu/chat-studio/internal/common"
	"github.com/suPer8Hu/chat-studio/internal/observability"
	"github.com/suPer8Hu/chat-studio/internal/upload"
)

type Handler struct {
	Store         *chat.Store
	MaxUploadSize int64
}

func NewHandler(store *chat.Store) *Handler {
	return &Handler{Store: store, MaxUploadSize: upload.DefaultMaxSize}
}

func (h *Handler) Ping(c *gin.Context) {
	common.OK(c, gin.H{"pong": true})
}

// failErr maps store and upload errors onto the response envelope.
func failErr(c *gin.Context, op string, err error) {
	switch {
	case errors.Is(err, chat.ErrSessionNotFound):
		common.Fail(c, http.StatusNotFound, common.CodeSessionNotFound, "session not found")
	case errors.Is(err, chat.ErrEmptyMessage):
		common.Fail(c, http.StatusBadRequest, common.CodeEmptyMessage, "message is empty")
	case errors.Is(err, chat.ErrSendInProgress):
		common.Fail(c, http.StatusConflict, common.CodeSendInProgress, err.Error())
	case errors.Is(err, upload.ErrUnsupportedType),
		errors.Is(err, upload.ErrEmptyFile),
		errors.Is(err, upload.ErrTooLarge):
		common.Fail(c, http.StatusBadRequest, common.CodeUnsupportedUpload, err.Error())
	default:
		observability.FromContext(c.Request.Context()).Error(op+" failed", "err", err)
		common.Fail(c, http.StatusInternalServerError, common.CodeInternal, "internal error")
	}
}
