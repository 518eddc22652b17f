package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// fakeChatServer answers /chat/completions with reply, capturing the last
// request it saw.
func fakeChatServer(t *testing.T, reply string, lastReq *chatRequest) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			http.NotFound(w, r)
			return
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("Authorization = %q", got)
		}
		if err := json.NewDecoder(r.Body).Decode(lastReq); err != nil {
			t.Errorf("decode request: %v", err)
		}

		resp := chatResponse{}
		resp.Choices = []struct {
			Message chatMessage `json:"message"`
		}{{Message: chatMessage{Role: "assistant", Content: reply}}}
		json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestSuggestTopics(t *testing.T) {
	var req chatRequest
	reply := "Here are some ideas:\n```json\n[\"Edge AI on a budget\", \"RAG beyond chatbots\", \"CSS in 2026\"]\n```"
	srv := fakeChatServer(t, reply, &req)

	ai := NewAIService(srv.URL, "test-key", "test-model")
	topics, err := ai.SuggestTopics(context.Background(), "AI and web development", 3)
	if err != nil {
		t.Fatalf("SuggestTopics: %v", err)
	}

	want := []string{"Edge AI on a budget", "RAG beyond chatbots", "CSS in 2026"}
	if len(topics) != len(want) {
		t.Fatalf("topics = %v, want %v", topics, want)
	}
	for i := range want {
		if topics[i] != want[i] {
			t.Errorf("topics[%d] = %q, want %q", i, topics[i], want[i])
		}
	}

	if req.Model != "test-model" {
		t.Errorf("model = %q", req.Model)
	}
	if len(req.Messages) != 2 || !strings.Contains(req.Messages[1].Content, "AI and web development") {
		t.Errorf("prompt missing theme: %+v", req.Messages)
	}
}

func TestSuggestTopicsTruncates(t *testing.T) {
	var req chatRequest
	srv := fakeChatServer(t, `["a", "b", "c", "d"]`, &req)

	ai := NewAIService(srv.URL, "test-key", "test-model")
	topics, err := ai.SuggestTopics(context.Background(), "anything", 2)
	if err != nil {
		t.Fatalf("SuggestTopics: %v", err)
	}
	if len(topics) != 2 {
		t.Fatalf("topics = %v, want 2 entries", topics)
	}
}

func TestSuggestTopicsBadReply(t *testing.T) {
	var req chatRequest
	srv := fakeChatServer(t, "Sorry, I cannot help with that.", &req)

	ai := NewAIService(srv.URL, "test-key", "test-model")
	if _, err := ai.SuggestTopics(context.Background(), "anything", 3); err == nil {
		t.Fatal("expected error for reply without a JSON array")
	}
}

func TestSummarizeStripsHTML(t *testing.T) {
	var req chatRequest
	srv := fakeChatServer(t, "A tidy summary.", &req)

	ai := NewAIService(srv.URL, "test-key", "test-model")
	summary, err := ai.Summarize(context.Background(), "<h1>Title</h1><p>First  paragraph.</p><p>Second.</p>")
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if summary != "A tidy summary." {
		t.Errorf("summary = %q", summary)
	}

	sent := req.Messages[1].Content
	if strings.Contains(sent, "<") {
		t.Errorf("HTML tags reached the model: %q", sent)
	}
	if sent != "Title First paragraph. Second." {
		t.Errorf("stripped content = %q", sent)
	}
}

func TestChatRequiresAPIKey(t *testing.T) {
	ai := NewAIService("http://unused.invalid", "", "test-model")
	if _, err := ai.Summarize(context.Background(), "text"); err == nil {
		t.Fatal("expected error without an API key")
	}
}

func TestChatNonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	t.Cleanup(srv.Close)

	ai := NewAIService(srv.URL, "test-key", "test-model")
	_, err := ai.SuggestTopics(context.Background(), "anything", 3)
	if err == nil || !strings.Contains(err.Error(), "429") {
		t.Fatalf("err = %v, want status in message", err)
	}
}
