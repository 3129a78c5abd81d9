package gemini

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/your-org/chat-fusion/pkg/adapters"
)

func TestGenerate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.URL.String(), "key=test-key") {
			t.Errorf("missing API key query param: %s", r.URL.String())
		}
		body, _ := io.ReadAll(r.Body)
		if !strings.Contains(string(body), "hello") {
			t.Errorf("request body missing prompt: %s", string(body))
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"world"}]}},{"content":{"parts":[{"text":"ignored"}]}}],"usageMetadata":{"promptTokenCount":7,"candidatesTokenCount":8}}`))
	}))
	defer srv.Close()

	c := NewClient("test-key", srv.Client(), srv.URL)
	resp, err := c.Generate(context.Background(), adapters.GenerateRequest{Prompt: "hello"})
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if resp.Text != "world" {
		t.Fatalf("expected first candidate only, got %q", resp.Text)
	}
	if resp.InputTokens != 7 || resp.OutputTokens != 8 {
		t.Fatalf("unexpected usage: %+v", resp)
	}
}

func TestGenerateMissingKeySkipsNetwork(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewClient("", srv.Client(), srv.URL)
	_, err := c.Generate(context.Background(), adapters.GenerateRequest{Prompt: "hello"})
	if !errors.Is(err, adapters.ErrMissingAPIKey) {
		t.Fatalf("expected ErrMissingAPIKey, got %v", err)
	}
	if called {
		t.Fatal("adapter reached the network without a credential")
	}
}

func TestGenerateEmptyPromptPassedThrough(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		if !strings.Contains(string(body), `"text":""`) {
			t.Errorf("empty prompt not forwarded: %s", string(body))
		}
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"message":"empty prompt"}}`))
	}))
	defer srv.Close()

	c := NewClient("test-key", srv.Client(), srv.URL)
	_, err := c.Generate(context.Background(), adapters.GenerateRequest{Prompt: ""})
	var se *adapters.StatusError
	if !errors.As(err, &se) {
		t.Fatalf("expected StatusError from upstream rejection, got %v", err)
	}
	if se.StatusCode != http.StatusBadRequest || !strings.Contains(string(se.Body), "empty prompt") {
		t.Fatalf("status error lost upstream detail: %v", se)
	}
}

func TestGenerateMalformedShapeKeepsRaw(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"unexpected":"shape"}`))
	}))
	defer srv.Close()

	c := NewClient("test-key", srv.Client(), srv.URL)
	resp, err := c.Generate(context.Background(), adapters.GenerateRequest{Prompt: "hello"})
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if resp.Text != "" {
		t.Fatalf("expected empty extracted text, got %q", resp.Text)
	}
	if string(resp.Raw) != `{"unexpected":"shape"}` {
		t.Fatalf("raw payload not preserved: %s", resp.Raw)
	}
}
