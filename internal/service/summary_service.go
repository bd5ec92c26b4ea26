package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// ErrSummaryUnavailable covers every summarization failure: missing
// configuration, transport errors, bad responses. Callers degrade to
// "summary unavailable" and nothing else.
var ErrSummaryUnavailable = errors.New("summary unavailable")

// SummaryService asks an OpenAI-compatible chat-completions endpoint for a
// short conversation summary.
type SummaryService struct {
	client *resty.Client
	apiKey string
	model  string
}

func NewSummaryService(apiURL, apiKey, model string) *SummaryService {
	var client *resty.Client
	if apiURL != "" {
		client = resty.New().
			SetBaseURL(apiURL).
			SetTimeout(30 * time.Second)
	}
	return &SummaryService{
		client: client,
		apiKey: apiKey,
		model:  model,
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

func (s *SummaryService) Summarize(ctx context.Context, conversationLabel string, texts []string) (string, error) {
	if s.client == nil {
		return "", ErrSummaryUnavailable
	}
	if len(texts) == 0 {
		return "", fmt.Errorf("%w: no messages to summarize", ErrSummaryUnavailable)
	}

	prompt := fmt.Sprintf(
		"Summarize the following conversation in %q in a few sentences:\n\n%s",
		conversationLabel, strings.Join(texts, "\n"),
	)

	var out chatResponse
	resp, err := s.client.R().
		SetContext(ctx).
		SetAuthToken(s.apiKey).
		SetBody(chatRequest{
			Model: s.model,
			Messages: []chatMessage{
				{Role: "user", Content: prompt},
			},
		}).
		SetResult(&out).
		Post("/v1/chat/completions")
	if err != nil {
		log.Printf("summary request failed: %v", err)
		return "", ErrSummaryUnavailable
	}
	if resp.IsError() || len(out.Choices) == 0 {
		log.Printf("summary request rejected: status %d", resp.StatusCode())
		return "", ErrSummaryUnavailable
	}

	return strings.TrimSpace(out.Choices[0].Message.Content), nil
}
