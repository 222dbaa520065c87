package dailyreport

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"

	"github.com/yanqian/dailyreport/internal/domain/runs"
	"github.com/yanqian/dailyreport/internal/infra/llm/chatgpt"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type stubEventSource struct {
	events     []EventRecord
	err        error
	calls      int
	lastWindow Window
}

func (s *stubEventSource) Fetch(ctx context.Context, window Window) ([]EventRecord, error) {
	s.calls++
	s.lastWindow = window
	if s.err != nil {
		return nil, s.err
	}
	return s.events, nil
}

type stubChatClient struct {
	content     string
	err         error
	noChoices   bool
	calls       int
	lastRequest chatgpt.ChatCompletionRequest
}

func (s *stubChatClient) CreateChatCompletion(ctx context.Context, req chatgpt.ChatCompletionRequest) (chatgpt.ChatCompletionResponse, error) {
	s.calls++
	s.lastRequest = req
	if s.err != nil {
		return chatgpt.ChatCompletionResponse{}, s.err
	}
	if s.noChoices {
		return chatgpt.ChatCompletionResponse{}, nil
	}
	return chatgpt.ChatCompletionResponse{
		Choices: []chatgpt.Choice{{Message: chatgpt.Message{Role: "assistant", Content: s.content}}},
		Usage:   chatgpt.Usage{PromptTokens: 100, CompletionTokens: 40, TotalTokens: 140},
	}, nil
}

type memoryBlobs struct {
	mu     sync.Mutex
	data   map[string][]byte
	putErr error
	getErr error
	puts   int
	lastCT string
}

func newMemoryBlobs() *memoryBlobs {
	return &memoryBlobs{data: make(map[string][]byte)}
}

func (m *memoryBlobs) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	data, ok := m.data[key]
	if !ok {
		return nil, ErrBlobNotFound
	}
	return append([]byte(nil), data...), nil
}

func (m *memoryBlobs) Put(ctx context.Context, key string, data []byte, contentType string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.putErr != nil {
		return m.putErr
	}
	m.puts++
	m.lastCT = contentType
	m.data[key] = append([]byte(nil), data...)
	return nil
}

type recordingMailer struct {
	sent []Message
	err  error
}

func (m *recordingMailer) Send(ctx context.Context, msg Message) error {
	m.sent = append(m.sent, msg)
	return m.err
}

type passthroughRenderer struct{}

func (passthroughRenderer) Render(markdown string) (string, error) {
	return "<p>" + markdown + "</p>", nil
}

type stubLock struct {
	held     bool
	err      error
	acquired int
	released int
}

func (l *stubLock) Acquire(ctx context.Context) (func(context.Context) error, error) {
	if l.held {
		return nil, ErrLockHeld
	}
	if l.err != nil {
		return nil, l.err
	}
	l.acquired++
	return func(context.Context) error {
		l.released++
		return nil
	}, nil
}

type memoryHistory struct {
	records []runs.Record
	err     error
}

func (h *memoryHistory) Save(ctx context.Context, record runs.Record) error {
	if h.err != nil {
		return h.err
	}
	h.records = append(h.records, record)
	return nil
}

func (h *memoryHistory) Recent(ctx context.Context, limit int) ([]runs.Record, error) {
	return h.records, nil
}

var errBoom = errors.New("boom")
