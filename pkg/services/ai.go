package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// AIService talks to an OpenAI-compatible chat-completions endpoint. Both
// operations are single round trips with no retry; errors surface to the
// caller and the user re-triggers the action.
type AIService struct {
	client *http.Client
	apiURL string
	apiKey string
	model  string
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

func NewAIService(apiURL, apiKey, model string) *AIService {
	return &AIService{
		client: &http.Client{},
		apiURL: strings.TrimRight(apiURL, "/"),
		apiKey: apiKey,
		model:  model,
	}
}

// SuggestTopics asks the model for count article topics around theme and
// parses the structured JSON-array reply.
func (s *AIService) SuggestTopics(ctx context.Context, theme string, count int) ([]string, error) {
	if count <= 0 {
		count = 5
	}

	system := "You are a content creation expert helping a technology blog plan new articles."
	user := fmt.Sprintf(
		"Generate %d article topics based on the following themes: %s. "+
			"Make sure the topics are unique and non-obvious, engaging and relevant to current trends, "+
			"each concise and ideally less than 10 words. "+
			"Return the topics as a JSON array of strings. Do not include any other text.",
		count, theme,
	)

	out, err := s.chat(ctx, system, user)
	if err != nil {
		return nil, err
	}

	topics, err := parseStringArray(out)
	if err != nil {
		return nil, fmt.Errorf("parse topics: %w", err)
	}
	if len(topics) > count {
		topics = topics[:count]
	}
	return topics, nil
}

// Summarize produces a short summary of an article body. HTML content is
// reduced to text before it reaches the model.
func (s *AIService) Summarize(ctx context.Context, content string) (string, error) {
	text := stripHTML(content)

	system := "You summarize blog articles for readers who want a quick overview. " +
		"Reply with a single short paragraph, at most 120 words, and no preamble."
	summary, err := s.chat(ctx, system, text)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(summary), nil
}

func (s *AIService) chat(ctx context.Context, system, user string) (string, error) {
	if s.apiKey == "" {
		return "", fmt.Errorf("LLM API key not configured")
	}

	reqBody := chatRequest{
		Model: s.model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		s.apiURL+"/chat/completions", bytes.NewBuffer(jsonBody))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("LLM request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read LLM response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("LLM returned %d: %s", resp.StatusCode, string(body))
	}

	var chatResp chatResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return "", fmt.Errorf("decode LLM response: %w", err)
	}
	if len(chatResp.Choices) == 0 {
		return "", fmt.Errorf("no response from LLM")
	}
	return chatResp.Choices[0].Message.Content, nil
}

// parseStringArray extracts a JSON string array from a model reply, tolerating
// wrapping prose or markdown fences.
func parseStringArray(out string) ([]string, error) {
	start := strings.Index(out, "[")
	end := strings.LastIndex(out, "]")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("no JSON array in reply")
	}

	var items []string
	if err := json.Unmarshal([]byte(out[start:end+1]), &items); err != nil {
		return nil, err
	}
	return items, nil
}

// stripHTML reduces article HTML to plain text; non-HTML content passes
// through with whitespace collapsed. Tags are spaced out before parsing so
// adjacent blocks do not run their words together.
func stripHTML(content string) string {
	text := strings.ReplaceAll(content, "<", " <")
	if doc, err := goquery.NewDocumentFromReader(strings.NewReader(text)); err == nil {
		text = doc.Text()
	}
	return strings.Join(strings.Fields(text), " ")
}
