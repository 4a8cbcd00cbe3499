package replicate

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"solo_adventure/internal/config"
	"solo_adventure/pkg/logger"
)

func testConfig(baseURL string) config.ReplicateConfig {
	return config.ReplicateConfig{
		BaseURL:         baseURL,
		APIToken:        "test-token",
		ModelVersion:    "test-model",
		MaxTokens:       350,
		Temperature:     0.7,
		TopP:            0.9,
		PollInterval:    time.Millisecond,
		MaxPollAttempts: 10,
	}
}

func TestGenerateSucceedsAfterPolling(t *testing.T) {
	var polls atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Token test-token" {
			t.Errorf("Authorization = %q, want Token test-token", got)
		}

		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/predictions":
			var req createRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				t.Fatalf("decode create request: %v", err)
			}
			if req.Version != "test-model" {
				t.Errorf("version = %q", req.Version)
			}
			if req.Input.Prompt != "tell a story" {
				t.Errorf("prompt = %q", req.Input.Prompt)
			}
			if req.Input.MaxTokens != 350 || req.Input.Temperature != 0.7 || req.Input.TopP != 0.9 {
				t.Errorf("sampling params = %+v", req.Input)
			}
			json.NewEncoder(w).Encode(Prediction{ID: "p1", Status: StatusStarting})

		case r.Method == http.MethodGet && r.URL.Path == "/predictions/p1":
			if polls.Add(1) < 3 {
				json.NewEncoder(w).Encode(Prediction{ID: "p1", Status: StatusProcessing})
				return
			}
			json.NewEncoder(w).Encode(Prediction{
				ID:     "p1",
				Status: StatusSucceeded,
				Output: []string{"Once upon ", "a time."},
			})

		default:
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL), logger.New("error"))

	text, err := client.Generate(context.Background(), "tell a story")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if text != "Once upon a time." {
		t.Errorf("text = %q, want joined output fragments", text)
	}
}

func TestGenerateFailedPrediction(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(Prediction{ID: "p1", Status: StatusFailed, Error: "NSFW content detected"})
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL), logger.New("error"))

	_, err := client.Generate(context.Background(), "prompt")
	if err == nil {
		t.Fatal("Generate succeeded for a failed prediction")
	}
	if !strings.Contains(err.Error(), "NSFW content detected") {
		t.Errorf("error = %v, want the upstream diagnostic", err)
	}
}

func TestGenerateNotConfigured(t *testing.T) {
	cfg := testConfig("http://localhost:0")
	cfg.APIToken = ""
	client := NewClient(cfg, logger.New("error"))

	if client.Configured() {
		t.Error("Configured() = true without a token")
	}
	if _, err := client.Generate(context.Background(), "prompt"); !errors.Is(err, ErrNotConfigured) {
		t.Errorf("Generate = %v, want ErrNotConfigured", err)
	}
}

func TestGeneratePollBudgetExhausted(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(Prediction{ID: "p1", Status: StatusProcessing})
	}))
	defer server.Close()

	cfg := testConfig(server.URL)
	cfg.MaxPollAttempts = 3
	client := NewClient(cfg, logger.New("error"))

	if _, err := client.Generate(context.Background(), "prompt"); !errors.Is(err, ErrPollExhausted) {
		t.Errorf("Generate = %v, want ErrPollExhausted", err)
	}
}

func TestGenerateContextCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(Prediction{ID: "p1", Status: StatusProcessing})
	}))
	defer server.Close()

	cfg := testConfig(server.URL)
	cfg.PollInterval = time.Hour
	client := NewClient(cfg, logger.New("error"))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if _, err := client.Generate(ctx, "prompt"); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Generate = %v, want context.DeadlineExceeded", err)
	}
}

func TestGenerateHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"detail": "invalid token"}`))
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL), logger.New("error"))

	_, err := client.Generate(context.Background(), "prompt")
	if err == nil {
		t.Fatal("Generate succeeded despite HTTP 401")
	}
	if !strings.Contains(err.Error(), "401") {
		t.Errorf("error = %v, want the HTTP status surfaced", err)
	}
}
