package dailyreport

import (
	"context"

	"github.com/yanqian/dailyreport/internal/infra/llm/chatgpt"
)

// EventSource fetches the raw events for a time window.
type EventSource interface {
	Fetch(ctx context.Context, window Window) ([]EventRecord, error)
}

// ChatClient issues completion requests to the language model.
type ChatClient interface {
	CreateChatCompletion(ctx context.Context, req chatgpt.ChatCompletionRequest) (chatgpt.ChatCompletionResponse, error)
}

// TokenCounter estimates the token length of a prompt.
type TokenCounter interface {
	Count(text string) int
}

// BlobStorage reads and overwrites whole objects.
type BlobStorage interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, data []byte, contentType string) error
}

// Message is a rendered email ready for delivery.
type Message struct {
	From    string
	To      string
	Subject string
	HTML    string
}

// Mailer delivers a message.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// Renderer converts Markdown to HTML.
type Renderer interface {
	Render(markdown string) (string, error)
}

// RunLock serializes report log read-append-write cycles across invocations.
type RunLock interface {
	Acquire(ctx context.Context) (release func(context.Context) error, err error)
}
