package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/suPer8Hu/chat-studio/internal/ai"
	"github.com/suPer8Hu/chat-studio/internal/observability"
)

var errEmptyResponse = errors.New("empty response")

// SendUserText appends the user's text to session id, sends it to the
// backend and appends the replies, one assistant message per non-empty
// reply fragment. A backend failure becomes a single assistant error
// message instead of an error return. Replies always land in the session
// the text was sent from; if that session is deleted meanwhile they are
// dropped and ErrSessionNotFound is returned.
//
// Once accepted the send is detached from ctx cancellation, so a caller
// going away does not lose the reply. The backend call is bounded by the
// store's send timeout.
func (s *Store) SendUserText(ctx context.Context, id, text string) ([]Message, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyMessage
	}

	s.mu.Lock()
	sess, ok := s.sessions[id]
	if !ok {
		s.mu.Unlock()
		return nil, ErrSessionNotFound
	}
	if sess.sending {
		s.mu.Unlock()
		return nil, ErrSendInProgress
	}
	sess.sending = true
	attached := sess.context
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		sess.sending = false
		s.mu.Unlock()
	}()

	ctx = context.WithoutCancel(ctx)
	log := observability.FromContext(ctx).With("session_id", id)
	out := make([]Message, 0, 4)

	userMsg, err := s.Append(ctx, id, Message{Role: RoleUser, Content: text})
	if err != nil && userMsg.ID == "" {
		return nil, err
	}
	out = append(out, userMsg)

	sendCtx, cancel := context.WithTimeout(ctx, s.sendTimeout)
	defer cancel()

	replies, err := s.send(sendCtx, ai.Request{Sender: id, Message: text, Context: attached})
	if err != nil {
		log.Warn("send failed", "err", err)
		replies = []Message{errorMessage(err)}
	}

	for _, m := range replies {
		appended, err := s.Append(ctx, id, m)
		if errors.Is(err, ErrSessionNotFound) {
			log.Warn("session deleted while sending, reply discarded", "kind", m.Kind)
			return out, ErrSessionNotFound
		}
		if err != nil && appended.ID == "" {
			return out, err
		}
		out = append(out, appended)
	}
	return out, nil
}

func (s *Store) send(ctx context.Context, req ai.Request) ([]Message, error) {
	if s.provider == nil {
		return nil, errors.New("no ai provider configured")
	}
	replies, err := s.provider.Send(ctx, req)
	if err != nil {
		return nil, err
	}
	msgs := SplitReplies(replies)
	if len(msgs) == 0 {
		return nil, errEmptyResponse
	}
	return msgs, nil
}

// SplitReplies turns backend reply fragments into assistant messages, one
// per non-blank fragment, classified by ClassifyReply.
func SplitReplies(replies []ai.Reply) []Message {
	msgs := make([]Message, 0, len(replies))
	for _, r := range replies {
		if strings.TrimSpace(r.Text) == "" {
			continue
		}
		msgs = append(msgs, Message{Role: RoleAssistant, Content: r.Text, Kind: ClassifyReply(r.Text)})
	}
	return msgs
}

// ClassifyReply recognises "searching..." progress notices and sources
// footers; everything else is text.
func ClassifyReply(text string) Kind {
	t := strings.TrimSpace(text)
	switch {
	case strings.HasPrefix(t, "🔍"), strings.HasPrefix(t, "Searching"):
		return KindSearchStatus
	case strings.HasPrefix(t, "📚"), strings.HasPrefix(t, "Sources:"), strings.HasPrefix(t, "Source:"):
		return KindSources
	default:
		return KindText
	}
}

func errorMessage(err error) Message {
	return Message{
		Role:    RoleAssistant,
		Kind:    KindText,
		Content: fmt.Sprintf("❌ Sorry, I encountered an error: %s. Please try again.", err),
	}
}
