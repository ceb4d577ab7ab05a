package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/suPer8Hu/chat-studio/internal/common"
	"github.com/suPer8Hu/chat-studio/internal/format"
)

type renderReq struct {
	Text     string `json:"text"`
	Strategy string `json:"strategy"`
}

// Render formats arbitrary text without storing it.
func (h *Handler) Render(c *gin.Context) {
	var req renderReq
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, http.StatusBadRequest, common.CodeInvalidJSON, "invalid json")
		return
	}
	s, err := format.Resolve(req.Strategy, req.Text)
	if err != nil {
		common.Fail(c, http.StatusBadRequest, common.CodeInvalidStrategy, err.Error())
		return
	}
	blocks := s.Format(req.Text)
	if blocks == nil {
		blocks = []format.Block{}
	}
	common.OK(c, gin.H{
		"strategy": s.Name(),
		"blocks":   blocks,
		"html":     format.RenderHTML(blocks),
	})
}
