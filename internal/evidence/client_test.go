package evidence

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/akorchak/privascope/internal/model"
)

func TestClientExtract(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/extract" {
			t.Errorf("path = %q", r.URL.Path)
		}

		var req map[string]any
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("bad request: %v", err)
		}
		if req["top_k"] != float64(2) {
			t.Errorf("top_k = %v", req["top_k"])
		}

		_ = json.NewEncoder(w).Encode(map[string]any{
			"Security Practices": []map[string]any{
				{"text": "We use TLS.", "start": 0, "end": 11, "score": 0.8},
				{"text": "Encrypted at rest.", "start": 12, "end": 30, "score": 1.7},
				{"text": "Audited yearly.", "start": 31, "end": 46, "score": 0.4},
			},
			"Made Up Category": []map[string]any{
				{"text": "x", "score": 0.5},
			},
		})
	}))
	defer srv.Close()

	c := NewClient(ClientConfig{APIURL: srv.URL})

	out, err := c.Extract(context.Background(), "policy text", 2)
	if err != nil {
		t.Fatal(err)
	}

	snippets := out[model.CatSecurity]
	if len(snippets) != 2 {
		t.Fatalf("got %d snippets, want topK cap of 2", len(snippets))
	}
	if snippets[1].Score != 1.0 {
		t.Errorf("score = %v, want clamp to 1.0", snippets[1].Score)
	}
	if len(out) != 1 {
		t.Errorf("unknown category should be dropped: %v", out)
	}
}

func TestClientScores(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/scores" {
			t.Errorf("path = %q", r.URL.Path)
		}
		_ = json.NewEncoder(w).Encode(map[string]float64{
			"Security Practices":   0.9,
			"Retention & Deletion": -0.3,
			"Bogus":                0.5,
		})
	}))
	defer srv.Close()

	c := NewClient(ClientConfig{APIURL: srv.URL})

	out, err := c.Scores(context.Background(), "policy text")
	if err != nil {
		t.Fatal(err)
	}
	if out[model.CatSecurity] != 0.9 {
		t.Errorf("security = %v", out[model.CatSecurity])
	}
	if out[model.CatRetention] != 0 {
		t.Errorf("negative score = %v, want clamp to 0", out[model.CatRetention])
	}
	if len(out) != 2 {
		t.Errorf("unknown category should be dropped: %v", out)
	}
}

func TestClientHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(ClientConfig{APIURL: srv.URL})
	if _, err := c.Extract(context.Background(), "text", 3); err == nil {
		t.Error("server error should surface")
	}
	if _, err := c.Scores(context.Background(), "text"); err == nil {
		t.Error("server error should surface")
	}
}

func TestClientTrailingSlash(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/extract" {
			t.Errorf("path = %q, base URL slash not trimmed", r.URL.Path)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{})
	}))
	defer srv.Close()

	c := NewClient(ClientConfig{APIURL: srv.URL + "/"})
	if _, err := c.Extract(context.Background(), "text", 3); err != nil {
		t.Fatal(err)
	}
}
