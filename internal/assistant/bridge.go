// Package assistant mediates natural-language questions about the
// task list to an external chat-completions endpoint.
package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ymatsuda/taskpad/internal/model"
)

const (
	defaultMaxTokens   = 150
	defaultTemperature = 0.7
	defaultTimeout     = 30 * time.Second

	// FallbackAnswer is the only failure text shown to the user;
	// the underlying error goes to the log instead.
	FallbackAnswer = "An error occurred. Please try again."
)

// Status is the lifecycle state of the current exchange.
type Status string

const (
	StatusIdle    Status = "idle"
	StatusPending Status = "pending"
	StatusDone    Status = "done"
	StatusError   Status = "error"
)

// Exchange is a snapshot of the current question and its outcome. It
// is transient: the next Ask supersedes it.
type Exchange struct {
	Query  string
	Status Status
	Answer string
}

// Config holds the settings needed to reach the assistant endpoint.
type Config struct {
	Endpoint    string
	APIKey      string
	MaxTokens   int
	Temperature float64
	Timeout     time.Duration
}

// Bridge issues one assistant request at a time. A new Ask while a
// call is in flight is not blocked; instead each call carries a
// sequence number and only the most recently issued call may update
// the exchange. Responses from superseded calls are discarded.
type Bridge struct {
	cfg    Config
	client *http.Client

	mu       sync.Mutex
	seq      uint64
	exchange Exchange
}

// New creates a bridge for the given configuration, filling in
// defaults for unset request parameters and the timeout.
func New(cfg Config) *Bridge {
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = defaultMaxTokens
	}
	if cfg.Temperature <= 0 {
		cfg.Temperature = defaultTemperature
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}

	return &Bridge{
		cfg:      cfg,
		client:   &http.Client{Timeout: cfg.Timeout},
		exchange: Exchange{Status: StatusIdle},
	}
}

// Exchange returns a snapshot of the current exchange.
func (b *Bridge) Exchange() Exchange {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.exchange
}

// Ask submits a question about the given task snapshot. A blank
// query is ignored and the bridge stays idle. The result is
// delivered through the exchange state, not a return value; the
// returned channel closes once this call has settled (including
// settling as superseded), which callers may use to refresh.
func (b *Bridge) Ask(
	ctx context.Context,
	query string,
	snapshot []model.Task,
) <-chan struct{} {
	settled := make(chan struct{})

	query = strings.TrimSpace(query)
	if query == "" {
		close(settled)
		return settled
	}

	// Request id for diagnostics only; it never reaches the UI.
	reqID := uuid.NewString()

	b.mu.Lock()
	b.seq++
	seq := b.seq
	b.exchange = Exchange{Query: query, Status: StatusPending}
	b.mu.Unlock()

	go func() {
		defer close(settled)

		answer, err := b.call(ctx, query, snapshot)

		b.mu.Lock()
		defer b.mu.Unlock()
		if seq != b.seq {
			// A newer Ask owns the exchange now.
			log.Printf("assistant request %s superseded, discarding response", reqID)
			return
		}

		if err != nil {
			log.Printf("assistant request %s failed: %v", reqID, err)
			b.exchange.Status = StatusError
			b.exchange.Answer = FallbackAnswer
			return
		}

		b.exchange.Status = StatusDone
		b.exchange.Answer = answer
	}()

	return settled
}

// call performs the single HTTP round trip for one question.
func (b *Bridge) call(
	ctx context.Context,
	query string,
	snapshot []model.Task,
) (string, error) {
	userMsg, err := buildUserMessage(query, snapshot)
	if err != nil {
		return "", err
	}

	reqBody := apiRequest{
		Messages: []apiMessage{
			{Role: "system", Content: "You are an expert at task management."},
			{Role: "user", Content: userMsg},
		},
		MaxTokens:   b.cfg.MaxTokens,
		Temperature: b.cfg.Temperature,
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost, b.cfg.Endpoint, bytes.NewReader(bodyBytes),
	)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("api-key", b.cfg.APIKey)

	resp, err := b.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("calling assistant endpoint: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("assistant endpoint returned %d: %s",
			resp.StatusCode, string(respBody))
	}

	var result apiResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", fmt.Errorf("decoding response: %w", err)
	}
	if len(result.Choices) == 0 {
		return "", fmt.Errorf("response contains no choices")
	}

	return result.Choices[0].Message.Content, nil
}

// buildUserMessage embeds the task schema explanation, the serialized
// snapshot, and the verbatim user query into one message.
func buildUserMessage(query string, snapshot []model.Task) (string, error) {
	taskJSON, err := json.Marshal(snapshot)
	if err != nil {
		return "", fmt.Errorf("marshaling task snapshot: %w", err)
	}

	var sb strings.Builder
	sb.WriteString("You are a task management assistant. ")
	sb.WriteString("Answer the user instruction below using the task list.\n\n")

	sb.WriteString("Task fields:\n")
	sb.WriteString("- id: unique identifier of the task\n")
	sb.WriteString("- title: title of the task\n")
	sb.WriteString("- description: detailed description\n")
	sb.WriteString("- dueDate: due date of the task\n")
	sb.WriteString("- completed: completion state\n\n")

	sb.WriteString("Task list:\n")
	sb.Write(taskJSON)
	sb.WriteString("\n\n")

	sb.WriteString("User instruction:\n")
	sb.WriteString(query)

	return sb.String(), nil
}

// --- endpoint wire types ---

type apiRequest struct {
	Messages    []apiMessage `json:"messages"`
	MaxTokens   int          `json:"max_tokens"`
	Temperature float64      `json:"temperature"`
}

type apiMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type apiResponse struct {
	Choices []struct {
		Message apiMessage `json:"message"`
	} `json:"choices"`
}
