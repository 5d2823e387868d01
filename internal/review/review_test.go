// Marquee - Movie Catalog Synchronization and Discovery API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package review

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/marquee/internal/config"
	"github.com/tomtom215/marquee/internal/upstream"
)

func TestBuildPrompt(t *testing.T) {
	tests := []struct {
		name   string
		genres []GenreRef
		want   string
	}{
		{
			name:   "two genres",
			genres: []GenreRef{{Name: "Action"}, {Name: "Adventure"}, {Name: "Drama"}},
			want:   `Write a review for the Action Adventure movie "Heat" in one paragraph based on this overview: A heist.`,
		},
		{
			name:   "one genre",
			genres: []GenreRef{{Name: "Crime"}},
			want:   `Write a review for the Crime movie "Heat" in one paragraph based on this overview: A heist.`,
		},
		{
			name: "no genres",
			want: `Write a review for the movie "Heat" in one paragraph based on this overview: A heist.`,
		},
		{
			name:   "blank names are skipped",
			genres: []GenreRef{{Name: " "}, {Name: "Thriller"}},
			want:   `Write a review for the Thriller movie "Heat" in one paragraph based on this overview: A heist.`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := BuildPrompt(ReviewRequest{Title: "Heat", Overview: "A heist", Genres: tt.genres})
			if p.User != tt.want {
				t.Errorf("User =\n%s\nwant\n%s", p.User, tt.want)
			}
			if p.System != systemPrompt {
				t.Errorf("System = %q", p.System)
			}
			msgs := p.Messages()
			if len(msgs) != 2 || msgs[0].Role != "system" || msgs[1].Role != "user" {
				t.Errorf("Messages = %+v", msgs)
			}
		})
	}
}

func TestCacheKey(t *testing.T) {
	p := BuildPrompt(ReviewRequest{Title: "Heat", Overview: "A heist"})
	a := cacheKey("gpt-4o", p)
	if a != cacheKey("gpt-4o", p) {
		t.Error("cache key should be deterministic")
	}
	if a == cacheKey("gpt-4o-mini", p) {
		t.Error("cache key should depend on the model")
	}
	if !strings.HasPrefix(a, reviewKeyPrefix) || len(a) != len(reviewKeyPrefix)+64 {
		t.Errorf("key = %q", a)
	}
}

func newTestOpenAI(t *testing.T, handler http.HandlerFunc) *OpenAIClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewOpenAIClient(&config.OpenAIConfig{
		BaseURL:     srv.URL + "/v1",
		APIKey:      "sk-test",
		Model:       "gpt-4o",
		Temperature: 0.7,
		MaxTokens:   400,
		Timeout:     5 * time.Second,
	})
}

func TestOpenAIClient_Complete(t *testing.T) {
	client := newTestOpenAI(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/v1/chat/completions" {
			t.Errorf("%s %s", r.Method, r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer sk-test" {
			t.Errorf("Authorization = %q", r.Header.Get("Authorization"))
		}
		body, _ := io.ReadAll(r.Body)
		var req chatRequest
		if err := json.Unmarshal(body, &req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.Model != "gpt-4o" || req.Temperature != 0.7 || req.MaxTokens != 400 || len(req.Messages) != 2 {
			t.Errorf("request = %+v", req)
		}
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"  A taut thriller.  "}}]}`))
	})

	got, err := client.Complete(context.Background(), BuildPrompt(ReviewRequest{Title: "Heat", Overview: "x"}).Messages())
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if got != "A taut thriller." {
		t.Errorf("content = %q", got)
	}
}

func TestOpenAIClient_Errors(t *testing.T) {
	t.Run("api error", func(t *testing.T) {
		client := newTestOpenAI(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":{"message":"Incorrect API key provided"}}`))
		})
		_, err := client.Complete(context.Background(), nil)
		var ue *upstream.UpstreamError
		if !errors.As(err, &ue) || ue.StatusCode != 401 || ue.Message != "Incorrect API key provided" {
			t.Errorf("err = %v", err)
		}
	})

	t.Run("empty choices", func(t *testing.T) {
		client := newTestOpenAI(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"choices":[]}`))
		})
		_, err := client.Complete(context.Background(), nil)
		if !errors.Is(err, ErrEmptyCompletion) {
			t.Errorf("err = %v, want ErrEmptyCompletion", err)
		}
	})
}

type fakeCompleter struct {
	calls atomic.Int32
	text  string
	err   error
}

func (f *fakeCompleter) Complete(context.Context, []Message) (string, error) {
	f.calls.Add(1)
	return f.text, f.err
}

func openTestCache(t *testing.T) *BadgerCache {
	t.Helper()
	c, err := OpenBadgerCache("", time.Hour)
	if err != nil {
		t.Fatalf("OpenBadgerCache: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestService_GenerateCachesReviews(t *testing.T) {
	completer := &fakeCompleter{text: "Great film."}
	svc := NewService(completer, "gpt-4o", openTestCache(t))
	req := ReviewRequest{Title: "Heat", Overview: "A heist", Genres: []GenreRef{{Name: "Crime"}}}

	for i := 0; i < 3; i++ {
		got, err := svc.Generate(context.Background(), req)
		if err != nil {
			t.Fatalf("Generate: %v", err)
		}
		if got != "Great film." {
			t.Errorf("review = %q", got)
		}
	}
	if completer.calls.Load() != 1 {
		t.Errorf("backend called %d times, want 1", completer.calls.Load())
	}

	req.Title = "Ronin"
	if _, err := svc.Generate(context.Background(), req); err != nil {
		t.Fatal(err)
	}
	if completer.calls.Load() != 2 {
		t.Error("a different prompt should miss the cache")
	}
}

func TestService_GenerateWrapsBackendFailure(t *testing.T) {
	backendErr := &upstream.UpstreamError{Service: "openai", StatusCode: 500, Message: "oops"}
	svc := NewService(&fakeCompleter{err: backendErr}, "gpt-4o", nil)

	_, err := svc.Generate(context.Background(), ReviewRequest{Title: "Heat", Overview: "A heist"})
	var ge *GenerationError
	if !errors.As(err, &ge) {
		t.Fatalf("err = %T, want *GenerationError", err)
	}
	if !errors.Is(err, backendErr) {
		t.Error("GenerationError should unwrap to the backend error")
	}

	_, err = NewService(&fakeCompleter{}, "gpt-4o", nil).Generate(context.Background(), ReviewRequest{Title: "x", Overview: "y"})
	if !errors.Is(err, ErrEmptyCompletion) {
		t.Errorf("empty text = %v, want ErrEmptyCompletion", err)
	}
}

func TestBadgerCache_TTL(t *testing.T) {
	c, err := OpenBadgerCache(t.TempDir(), time.Second)
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	if _, ok, err := c.Get("review:missing"); ok || err != nil {
		t.Errorf("missing key = %v, %v", ok, err)
	}
	if err := c.Set("review:k", "gpt-4o", "stored"); err != nil {
		t.Fatal(err)
	}
	got, ok, err := c.Get("review:k")
	if err != nil || !ok || got != "stored" {
		t.Errorf("Get = %q, %v, %v", got, ok, err)
	}

	time.Sleep(1100 * time.Millisecond)
	if _, ok, _ := c.Get("review:k"); ok {
		t.Error("entry should expire after the TTL")
	}
}
