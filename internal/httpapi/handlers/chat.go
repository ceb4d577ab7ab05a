package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/suPer8Hu/chat-studio/internal/chat"
	"github.com/suPer8Hu/chat-studio/internal/common"
	"github.com/suPer8Hu/chat-studio/internal/format"
)

// messageView is a stored message plus, on request, its rendering.
type messageView struct {
	chat.Message
	Strategy string         `json:"strategy,omitempty"`
	Blocks   []format.Block `json:"blocks,omitempty"`
	HTML     string         `json:"html,omitempty"`
}

func renderMessages(msgs []chat.Message, render bool) []messageView {
	out := make([]messageView, 0, len(msgs))
	for _, m := range msgs {
		v := messageView{Message: m}
		if render {
			s := format.ForMessage(string(m.Role), string(m.Kind), m.Content)
			v.Strategy = s.Name()
			v.Blocks = s.Format(m.Content)
			v.HTML = format.RenderHTML(v.Blocks)
		}
		out = append(out, v)
	}
	return out
}

func wantRender(c *gin.Context) bool {
	switch c.Query("render") {
	case "1", "true", "yes":
		return true
	}
	return false
}

func (h *Handler) ListChatSessions(c *gin.Context) {
	sessions := h.Store.Sessions(c.Query("q"))
	common.OK(c, gin.H{
		"sessions":    sessions,
		"selected_id": h.Store.Selected(),
	})
}

func (h *Handler) CreateChatSession(c *gin.Context) {
	sess, err := h.Store.Create(c.Request.Context())
	if err != nil {
		failErr(c, "create session", err)
		return
	}
	common.OK(c, gin.H{"session": sess})
}

func (h *Handler) SelectChatSession(c *gin.Context) {
	if err := h.Store.Select(c.Request.Context(), c.Param("session_id")); err != nil {
		failErr(c, "select session", err)
		return
	}
	common.OK(c, gin.H{"selected_id": h.Store.Selected()})
}

type renameSessionReq struct {
	Title string `json:"title"`
}

func (h *Handler) RenameChatSession(c *gin.Context) {
	var req renameSessionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, http.StatusBadRequest, common.CodeInvalidJSON, "invalid json")
		return
	}
	sess, err := h.Store.Rename(c.Request.Context(), c.Param("session_id"), req.Title)
	if err != nil {
		failErr(c, "rename session", err)
		return
	}
	common.OK(c, gin.H{"session": sess})
}

func (h *Handler) DeleteChatSession(c *gin.Context) {
	selected, err := h.Store.Delete(c.Request.Context(), c.Param("session_id"))
	if err != nil {
		failErr(c, "delete session", err)
		return
	}
	common.OK(c, gin.H{"selected_id": selected})
}

func (h *Handler) ListChatMessages(c *gin.Context) {
	msgs, err := h.Store.Messages(c.Request.Context(), c.Param("session_id"))
	if err != nil {
		failErr(c, "list messages", err)
		return
	}
	common.OK(c, gin.H{"messages": renderMessages(msgs, wantRender(c))})
}

type sendMessageReq struct {
	SessionID string `json:"session_id" binding:"required"`
	Message   string `json:"message"`
}

// SendChatMessage blocks until the backend has answered and returns every
// message appended by this send.
func (h *Handler) SendChatMessage(c *gin.Context) {
	var req sendMessageReq
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, http.StatusBadRequest, common.CodeInvalidJSON, "invalid json")
		return
	}

	msgs, err := h.Store.SendUserText(c.Request.Context(), req.SessionID, req.Message)
	if err != nil {
		failErr(c, "send message", err)
		return
	}
	common.OK(c, gin.H{
		"session_id": req.SessionID,
		"messages":   renderMessages(msgs, wantRender(c)),
	})
}
