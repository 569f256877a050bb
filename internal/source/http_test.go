package source

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/five82/logscope/internal/logentry"
)

func TestHTTPSource_SendsQueryAndDecodes(t *testing.T) {
	var gotQuery map[string][]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/entries" {
			http.NotFound(w, r)
			return
		}
		gotQuery = r.URL.Query()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"entries":[
			{"time":"2025-10-08T21:00:01Z","level":"info","subsystem":"a","sender":"S","message":"one"},
			{"ts":"2025-10-08T21:00:02Z","level":4,"sender":"Main","msg":"two"},
			{"time":"2025-10-08T21:00:03Z","level":"debug","subsystem":"a","message":"three"}
		]}`))
	}))
	defer srv.Close()

	src, err := NewHTTPSource(srv.URL, 2)
	if err != nil {
		t.Fatalf("NewHTTPSource returned error: %v", err)
	}
	got, err := src.Entries(context.Background(), Query{
		Since:     at(1),
		Predicate: SubsystemIn([]string{"a", "b"}, true),
	})
	if err != nil {
		t.Fatalf("Entries returned error: %v", err)
	}

	if s := gotQuery["since"]; len(s) != 1 || s[0] != "2025-10-08T21:00:01Z" {
		t.Fatalf("since = %v, want RFC3339 lower bound", s)
	}
	if subs := gotQuery["subsystem"]; len(subs) != 2 || subs[0] != "a" || subs[1] != "b" {
		t.Fatalf("subsystem = %v, want [a b]", subs)
	}
	if u := gotQuery["unset"]; len(u) != 1 || u[0] != "1" {
		t.Fatalf("unset = %v, want [1]", u)
	}
	if l := gotQuery["limit"]; len(l) != 1 || l[0] != "2" {
		t.Fatalf("limit = %v, want [2]", l)
	}

	if len(got) != 2 {
		t.Fatalf("Entries = %d entries, want newest 2", len(got))
	}
	if got[0].Message != "two" || got[0].Level != logentry.LevelError || got[0].Subsystem != "" {
		t.Fatalf("got[0] = %#v, want decoded alias fields", got[0])
	}
	if got[1].Message != "three" {
		t.Fatalf("got[1].Message = %q, want three", got[1].Message)
	}
}

func TestHTTPSource_SkipsMalformedRecords(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"entries":[
			{"time":"2025-10-08T21:00:01Z","message":"one"},
			{"message":"no timestamp"},
			"not an object",
			{"time":"2025-10-08T21:00:02Z","message":"two"}
		]}`))
	}))
	defer srv.Close()

	src, err := NewHTTPSource(srv.URL, 0)
	if err != nil {
		t.Fatalf("NewHTTPSource returned error: %v", err)
	}
	got, err := src.Entries(context.Background(), Query{})
	if err != nil {
		t.Fatalf("Entries returned error: %v", err)
	}
	if len(got) != 2 || got[0].Message != "one" || got[1].Message != "two" {
		t.Fatalf("Entries = %#v, want the two valid records", got)
	}
}

func TestHTTPSource_StatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	src, err := NewHTTPSource(srv.URL, 0)
	if err != nil {
		t.Fatalf("NewHTTPSource returned error: %v", err)
	}
	if _, err := src.Entries(context.Background(), Query{}); err == nil {
		t.Fatalf("Entries returned nil error, want status error")
	}
}

func TestHTTPSource_OmitsEmptyParameters(t *testing.T) {
	var raw string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw = r.URL.RawQuery
		_ = json.NewEncoder(w).Encode(map[string]any{"entries": []any{}})
	}))
	defer srv.Close()

	src, _ := NewHTTPSource(srv.URL, 10)
	if _, err := src.Entries(context.Background(), Query{}); err != nil {
		t.Fatalf("Entries returned error: %v", err)
	}
	if raw != "limit=10" {
		t.Fatalf("query = %q, want limit only", raw)
	}
}

func TestParseBaseURL(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", "http://127.0.0.1:7488"},
		{"localhost:9000", "http://localhost:9000"},
		{"https://logs.example.com/ignored?x=1", "https://logs.example.com"},
	}
	for _, tt := range tests {
		u, err := parseBaseURL(tt.in)
		if err != nil {
			t.Fatalf("parseBaseURL(%q) returned error: %v", tt.in, err)
		}
		if u.String() != tt.want {
			t.Fatalf("parseBaseURL(%q) = %q, want %q", tt.in, u.String(), tt.want)
		}
	}
}
