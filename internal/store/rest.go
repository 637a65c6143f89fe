package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/nhle/sadhana/internal/model"
)

// pgrstNoRows is PostgREST's code for a single-object request that
// matched zero rows.
const pgrstNoRows = "PGRST116"

// singleObject asks PostgREST for exactly one row instead of an array.
const singleObject = "application/vnd.pgrst.object+json"

// APIError is a non-2xx PostgREST response.
type APIError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details"`
	Hint    string `json:"hint"`
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("postgrest error (%d): %s", e.Status, e.Message)
	}
	return fmt.Sprintf("postgrest error (%d %s): %s", e.Status, e.Code, e.Message)
}

// RESTStore implements Store over a PostgREST API such as Supabase's
// /rest/v1 endpoint.
type RESTStore struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewRESTStore creates a client for the project at baseURL
// (e.g. https://abc.supabase.co). apiKey is sent both as the apikey header
// and as a bearer token.
func NewRESTStore(baseURL, apiKey string, httpClient *http.Client) *RESTStore {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &RESTStore{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: httpClient,
	}
}

func (s *RESTStore) tableURL(query url.Values) string {
	u := s.baseURL + "/rest/v1/" + TableName
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

// FetchByDate requests the single row for day.
func (s *RESTStore) FetchByDate(ctx context.Context, day model.Day) (model.SadhanaLog, error) {
	q := url.Values{}
	q.Set("select", "*")
	q.Set("date", "eq."+day.String())

	status, body, err := s.do(ctx, http.MethodGet, s.tableURL(q), nil, func(h http.Header) {
		h.Set("Accept", singleObject)
	})
	if err != nil {
		return model.SadhanaLog{}, &Error{Op: "fetch", Day: day, Err: err}
	}

	if status != http.StatusOK {
		apiErr := decodeAPIError(status, body)
		if apiErr.Code == pgrstNoRows {
			return model.SadhanaLog{}, ErrNotFound
		}
		return model.SadhanaLog{}, &Error{Op: "fetch", Day: day, Err: apiErr}
	}

	var log model.SadhanaLog
	if err := json.Unmarshal(body, &log); err != nil {
		return model.SadhanaLog{}, &Error{Op: "fetch", Day: day, Err: fmt.Errorf("decoding row: %w", err)}
	}
	return log, nil
}

// UpsertByDate posts the record with merge-duplicates resolution on date.
func (s *RESTStore) UpsertByDate(ctx context.Context, log model.SadhanaLog) error {
	payload, err := json.Marshal(log)
	if err != nil {
		return fmt.Errorf("marshaling log: %w", err)
	}

	q := url.Values{}
	q.Set("on_conflict", "date")

	status, body, err := s.do(ctx, http.MethodPost, s.tableURL(q), payload, func(h http.Header) {
		h.Set("Content-Type", "application/json")
		h.Set("Prefer", "resolution=merge-duplicates,return=minimal")
	})
	if err != nil {
		return &Error{Op: "upsert", Day: log.Date, Err: err}
	}
	if status < 200 || status >= 300 {
		return &Error{Op: "upsert", Day: log.Date, Err: decodeAPIError(status, body)}
	}
	return nil
}

// Close drops idle keep-alive connections.
func (s *RESTStore) Close() error {
	s.httpClient.CloseIdleConnections()
	return nil
}

// do sends one request with auth headers and returns status and body.
// Requests are not retried.
func (s *RESTStore) do(
	ctx context.Context,
	method string,
	target string,
	payload []byte,
	headers func(http.Header),
) (int, []byte, error) {
	var bodyReader io.Reader
	if payload != nil {
		bodyReader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, bodyReader)
	if err != nil {
		return 0, nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("apikey", s.apiKey)
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	if headers != nil {
		headers(req.Header)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("executing request %s %s: %w", method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("reading response body: %w", err)
	}
	return resp.StatusCode, body, nil
}

func decodeAPIError(status int, body []byte) *APIError {
	apiErr := &APIError{Status: status}
	if json.Unmarshal(body, apiErr) != nil || apiErr.Message == "" {
		apiErr.Message = strings.TrimSpace(string(body))
	}
	return apiErr
}
