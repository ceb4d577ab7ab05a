package ai

import (
	"context"
	"fmt"
	"strings"
)

// Message is one turn of an LLM conversation.
type Message struct {
	Role    string
	Content string
}

// Request is what the chat store hands to a backend: the user's text, an
// opaque context string (extracted attachment text) and the sender id.
type Request struct {
	Sender  string
	Message string
	Context string
}

// Reply is one reply fragment returned by a backend.
type Reply struct {
	Text string
}

// Provider sends a user message to a conversational backend and returns
// one or more reply fragments.
type Provider interface {
	Send(ctx context.Context, req Request) ([]Reply, error)
}

// StreamProvider is implemented by backends that stream tokens.
type StreamProvider interface {
	StreamChat(ctx context.Context, messages []Message) (<-chan string, <-chan error)
}

// StatusError is returned when a backend answers with a non-2xx status.
type StatusError struct {
	Backend string
	Code    int
	Body    string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s: status %d", e.Backend, e.Code)
	}
	return fmt.Sprintf("%s: status %d: %s", e.Backend, e.Code, e.Body)
}

const contextPrompt = "Use the following document context when it is relevant to the user's request.\n\n"

// buildMessages turns a request into LLM turns, placing the attachment
// context in a system message ahead of the user turn.
func buildMessages(req Request) []Message {
	msgs := make([]Message, 0, 2)
	if req.Context != "" {
		msgs = append(msgs, Message{Role: "system", Content: contextPrompt + req.Context})
	}
	return append(msgs, Message{Role: "user", Content: req.Message})
}

// collect drains a token stream into a single reply.
func collect(ctx context.Context, sp StreamProvider, messages []Message) ([]Reply, error) {
	chunks, errs := sp.StreamChat(ctx, messages)

	var b strings.Builder
	for c := range chunks {
		b.WriteString(c)
	}
	if err := <-errs; err != nil {
		return nil, err
	}
	return []Reply{{Text: b.String()}}, nil
}
