package app

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/Mizuri0x/contentblast/app/config"
	"github.com/Mizuri0x/contentblast/app/models"
)

const repurposeJSON = `{
	"twitter_threads": ["t1", "t2", "t3", "t4", "t5"],
	"linkedin_post": "linkedin",
	"instagram_captions": ["c1", "c2", "c3"],
	"email_newsletter": {"subject": "subj", "body": "body"},
	"tiktok_scripts": ["s1", "s2"],
	"youtube_description": "yt",
	"key_hashtags": ["h1", "h2", "h3", "h4", "h5"]
}`

func TestStripFences(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"bare", `{"a": 1}`, `{"a": 1}`},
		{"fenced", "```\n{\"a\": 1}\n```", `{"a": 1}`},
		{"fenced with json tag", "```json\n{\"a\": 1}\n```", `{"a": 1}`},
		{"json tag on own line", "```\njson\n{\"a\": 1}\n```", `{"a": 1}`},
		{"trailing fence same line", "```json\n{\"a\": 1}```", `{"a": 1}`},
		{"surrounding whitespace", "  \n{\"a\": 1}\n ", `{"a": 1}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := stripFences(tc.in); got != tc.want {
				t.Fatalf("stripFences(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestStripFencesRoundTrip(t *testing.T) {
	var bare, fenced models.RepurposeResult
	if err := json.Unmarshal([]byte(stripFences(repurposeJSON)), &bare); err != nil {
		t.Fatalf("bare parse error = %v", err)
	}
	wrapped := "```json\n" + repurposeJSON + "\n```"
	if err := json.Unmarshal([]byte(stripFences(wrapped)), &fenced); err != nil {
		t.Fatalf("fenced parse error = %v", err)
	}
	if !reflect.DeepEqual(bare, fenced) {
		t.Fatalf("fenced parse differs from bare:\n%+v\n%+v", fenced, bare)
	}
}

func TestEstimateCost(t *testing.T) {
	r := NewRepurposer(config.OpenAIConfig{APIKey: "k"})

	content := strings.Repeat("a", 400)
	est := r.EstimateCost(content)
	if want := 400/4 + 500 + 1500; est.EstimatedTokens != want {
		t.Fatalf("EstimatedTokens = %d, want %d", est.EstimatedTokens, want)
	}
	if est.EstimatedCostUSD != 0 {
		t.Fatalf("EstimatedCostUSD = %v, want 0", est.EstimatedCostUSD)
	}
}

func chatReply(content string, tokens int) string {
	b, _ := json.Marshal(map[string]any{
		"choices": []map[string]any{
			{"message": map[string]any{"role": "assistant", "content": content}},
		},
		"usage": map[string]any{"total_tokens": tokens},
	})
	return string(b)
}

func TestRepurposeSuccess(t *testing.T) {
	var gotAuth, gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path

		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("bad request body: %v", err)
		}
		if len(req.Messages) != 2 || req.Messages[0].Role != "system" {
			t.Errorf("unexpected messages: %+v", req.Messages)
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(chatReply("```json\n"+repurposeJSON+"\n```", 1234)))
	}))
	defer srv.Close()

	r := NewRepurposer(config.OpenAIConfig{APIKey: "test-key", BaseURL: srv.URL})
	result, tokens, err := r.Repurpose(context.Background(), strings.Repeat("content ", 10), "article")
	if err != nil {
		t.Fatalf("Repurpose error = %v", err)
	}
	if gotAuth != "Bearer test-key" {
		t.Fatalf("Authorization = %q", gotAuth)
	}
	if gotPath != "/chat/completions" {
		t.Fatalf("path = %q", gotPath)
	}
	if tokens != 1234 {
		t.Fatalf("tokens = %d, want 1234", tokens)
	}
	if len(result.TwitterThreads) != 5 || result.LinkedInPost != "linkedin" || result.EmailNewsletter.Subject != "subj" {
		t.Fatalf("unexpected result: %+v", result)
	}
}

func TestRepurposeMissingAPIKey(t *testing.T) {
	r := NewRepurposer(config.OpenAIConfig{})

	_, _, err := r.Repurpose(context.Background(), "some content", "article")
	var cerr ConfigError
	if !errors.As(err, &cerr) {
		t.Fatalf("error = %v, want ConfigError", err)
	}
	if cerr.Option != "OPENAI_API_KEY" {
		t.Fatalf("ConfigError.Option = %q", cerr.Option)
	}
}

func TestRepurposeMalformedReply(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(chatReply("this is not json at all", 10)))
	}))
	defer srv.Close()

	r := NewRepurposer(config.OpenAIConfig{APIKey: "k", BaseURL: srv.URL})
	_, _, err := r.Repurpose(context.Background(), "some content", "article")
	var merr MalformedResponseError
	if !errors.As(err, &merr) {
		t.Fatalf("error = %v, want MalformedResponseError", err)
	}
	if merr.Raw != "this is not json at all" {
		t.Fatalf("raw reply not preserved: %q", merr.Raw)
	}
}

func TestRepurposeNoChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices": []}`))
	}))
	defer srv.Close()

	r := NewRepurposer(config.OpenAIConfig{APIKey: "k", BaseURL: srv.URL})
	_, _, err := r.Repurpose(context.Background(), "some content", "article")
	var merr MalformedResponseError
	if !errors.As(err, &merr) {
		t.Fatalf("error = %v, want MalformedResponseError", err)
	}
}

func TestRepurposeBackendFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error": {"message": "rate limited"}}`))
	}))
	defer srv.Close()

	r := NewRepurposer(config.OpenAIConfig{APIKey: "k", BaseURL: srv.URL})
	_, _, err := r.Repurpose(context.Background(), "some content", "article")
	var berr backendError
	if !errors.As(err, &berr) {
		t.Fatalf("error = %v, want backendError", err)
	}
	if berr.Status != http.StatusTooManyRequests || berr.Body != "rate limited" {
		t.Fatalf("backendError = %+v", berr)
	}
}

func TestRepurposeTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	r := NewRepurposer(config.OpenAIConfig{APIKey: "k", BaseURL: srv.URL})
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, _, err := r.Repurpose(ctx, "some content", "article")
	if !errors.Is(err, ErrBackendTimeout) {
		t.Fatalf("error = %v, want ErrBackendTimeout", err)
	}
}
