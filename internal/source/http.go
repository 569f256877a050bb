package source

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/five82/logscope/internal/logentry"
)

const (
	defaultEndpoint  = "127.0.0.1:7488"
	defaultUserAgent = "logscope/0.1"
	requestTimeout   = 5 * time.Second
	entriesPath      = "/api/entries"
)

// HTTPSource fetches entries from a remote log endpoint. The lower bound and
// the subsystem predicate travel as query parameters:
//
//	GET /api/entries?since=<RFC3339Nano>&subsystem=a&subsystem=b&unset=1&limit=N
//
// The response is {"entries": [...]}, each entry in the JSON-lines record format.
type HTTPSource struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
	window    int
}

// entriesResponse mirrors the /api/entries payload.
type entriesResponse struct {
	Entries []json.RawMessage `json:"entries"`
}

// NewHTTPSource builds an HTTPSource for a host:port or URL.
func NewHTTPSource(endpoint string, window int) (*HTTPSource, error) {
	base, err := parseBaseURL(endpoint)
	if err != nil {
		return nil, err
	}
	if window <= 0 {
		window = DefaultWindow
	}
	return &HTTPSource{
		baseURL:   base,
		http:      &http.Client{Timeout: requestTimeout},
		userAgent: defaultUserAgent,
		window:    window,
	}, nil
}

// Entries implements Source.
func (s *HTTPSource) Entries(ctx context.Context, q Query) ([]logentry.Entry, error) {
	if s == nil {
		return nil, fmt.Errorf("source is nil")
	}
	values := url.Values{}
	if !q.Since.IsZero() {
		values.Set("since", q.Since.UTC().Format(time.RFC3339Nano))
	}
	for _, sub := range q.Predicate.Subsystems {
		values.Add("subsystem", sub)
	}
	if q.Predicate.OrUnset {
		values.Set("unset", "1")
	}
	values.Set("limit", strconv.Itoa(s.window))

	rel := &url.URL{Path: entriesPath, RawQuery: values.Encode()}
	var payload entriesResponse
	if err := s.doURL(ctx, http.MethodGet, rel, &payload); err != nil {
		return nil, err
	}

	entries := make([]logentry.Entry, 0, len(payload.Entries))
	skipped := 0
	for _, raw := range payload.Entries {
		e, err := logentry.Decode(raw)
		if err != nil {
			skipped++
			continue
		}
		entries = append(entries, e)
	}
	if skipped > 0 {
		log.Printf("skipped %d malformed records from %s", skipped, s.baseURL.Host)
	}
	return keepRecent(entries, s.window), nil
}

func (s *HTTPSource) doURL(ctx context.Context, method string, rel *url.URL, dest any) error {
	reqURL := s.baseURL.ResolveReference(rel)
	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", s.userAgent)

	resp, err := s.http.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("api %s returned status %d", rel.Path, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func parseBaseURL(endpoint string) (*url.URL, error) {
	trimmed := strings.TrimSpace(endpoint)
	if trimmed == "" {
		trimmed = defaultEndpoint
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse endpoint %q: %w", endpoint, err)
	}
	u.Path = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
