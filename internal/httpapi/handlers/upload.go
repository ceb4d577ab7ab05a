package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/suPer8Hu/chat-studio/internal/common"
	"github.com/suPer8Hu/chat-studio/internal/upload"
)

// UploadAttachment accepts one PDF or image in the "file" form field and
// attaches its extracted text to the session.
func (h *Handler) UploadAttachment(c *gin.Context) {
	sessionID := c.Param("session_id")
	if _, err := h.Store.Get(sessionID); err != nil {
		failErr(c, "upload attachment", err)
		return
	}

	fh, err := c.FormFile("file")
	if err != nil {
		common.Fail(c, http.StatusBadRequest, common.CodeUnsupportedUpload, upload.ErrEmptyFile.Error())
		return
	}
	f, err := fh.Open()
	if err != nil {
		failErr(c, "open upload", err)
		return
	}
	defer f.Close()

	res, err := upload.Process(fh.Filename, f, h.MaxUploadSize)
	if err != nil {
		failErr(c, "process upload", err)
		return
	}
	if err := h.Store.AttachContext(c.Request.Context(), sessionID, res.ExtractedText); err != nil {
		failErr(c, "attach context", err)
		return
	}
	common.OK(c, res)
}

func (h *Handler) ClearAttachment(c *gin.Context) {
	if err := h.Store.ClearContext(c.Request.Context(), c.Param("session_id")); err != nil {
		failErr(c, "clear attachment", err)
		return
	}
	common.OK(c, gin.H{"cleared": true})
}
