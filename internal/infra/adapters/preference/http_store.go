// File: internal/infra/adapters/preference/http_store.go
package preference

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"telegram-gita-bot/internal/domain/model"
	"telegram-gita-bot/internal/domain/ports/adapter"
	"telegram-gita-bot/internal/infra/metrics"
)

var _ adapter.PreferenceStore = (*HTTPStore)(nil)

const (
	opQuery  = "query"
	opCreate = "create"
	opDelete = "delete"

	// cap on how much of an error body ends up in logs
	maxLoggedBody = 512
)

// HTTPStore implements adapter.PreferenceStore against the preference service
// REST API (GET /query, POST /create, DELETE /delete) with Basic-Auth.
type HTTPStore struct {
	baseURL  string
	username string
	password string
	client   *http.Client
	log      *zerolog.Logger
}

// NewHTTPStore builds a store client. A zero timeout keeps the client's own default.
func NewHTTPStore(baseURL, username, password string, timeout time.Duration, logger *zerolog.Logger) (*HTTPStore, error) {
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, fmt.Errorf("invalid preference service url: %w", err)
	}
	if username == "" || password == "" {
		return nil, errors.New("preference service credentials empty")
	}
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &HTTPStore{
		baseURL:  strings.TrimRight(baseURL, "/"),
		username: username,
		password: password,
		client:   &http.Client{Timeout: timeout},
		log:      logger,
	}, nil
}

// WithHTTPClient swaps the underlying client (tests, custom transports).
func (s *HTTPStore) WithHTTPClient(c *http.Client) *HTTPStore {
	if c != nil {
		s.client = c
	}
	return s
}

type queryResponse struct {
	UserType string `json:"usertype"`
}

type createRequest struct {
	Username string `json:"username"`
	UserType string `json:"usertype"`
	ChatID   int64  `json:"chatID"`
	Time     string `json:"time"`
}

type deleteRequest struct {
	Username string `json:"username"`
	UserType string `json:"usertype"`
}

// Query returns the stored mode for username. Any failure, including an
// unrecognized usertype, is StatusQueryFailed.
func (s *HTTPStore) Query(ctx context.Context, username string) model.PreferenceStatus {
	start := time.Now()
	q := url.Values{"username": []string{username}}
	req, err := s.newRequest(ctx, http.MethodGet, "/query?"+q.Encode(), nil)
	if err != nil {
		s.fail(opQuery, "transport_error", start, err)
		return model.StatusQueryFailed
	}

	resp, err := s.client.Do(req)
	if err != nil {
		s.fail(opQuery, "transport_error", start, err)
		return model.StatusQueryFailed
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		s.failStatus(opQuery, start, resp)
		return model.StatusQueryFailed
	}

	var out queryResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil && !errors.Is(err, io.EOF) {
		s.fail(opQuery, "decode_error", start, err)
		return model.StatusQueryFailed
	}

	status := model.StatusFromUserType(strings.TrimSpace(out.UserType))
	switch status {
	case model.StatusQueryFailed:
		s.fail(opQuery, "unknown_status", start, fmt.Errorf("unrecognized usertype %q", out.UserType))
	case model.StatusNone:
		metrics.ObservePreferenceCall(opQuery, "none", time.Since(start))
	default:
		metrics.ObservePreferenceCall(opQuery, "ok", time.Since(start))
	}
	return status
}

// Create inserts a record; true only on HTTP 200.
func (s *HTTPStore) Create(ctx context.Context, pref model.UserPreference) bool {
	return s.mutate(ctx, opCreate, http.MethodPost, "/create", createRequest{
		Username: pref.Username,
		UserType: pref.UserType.String(),
		ChatID:   pref.ChatID,
		Time:     pref.Time,
	})
}

// Delete removes the record of the given mode; true only on HTTP 200.
func (s *HTTPStore) Delete(ctx context.Context, username string, usertype model.UserType) bool {
	return s.mutate(ctx, opDelete, http.MethodDelete, "/delete", deleteRequest{
		Username: username,
		UserType: usertype.String(),
	})
}

func (s *HTTPStore) mutate(ctx context.Context, op, method, path string, payload any) bool {
	start := time.Now()
	b, err := json.Marshal(payload)
	if err != nil {
		s.fail(op, "encode_error", start, err)
		return false
	}
	req, err := s.newRequest(ctx, method, path, bytes.NewReader(b))
	if err != nil {
		s.fail(op, "transport_error", start, err)
		return false
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		s.fail(op, "transport_error", start, err)
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		s.failStatus(op, start, resp)
		return false
	}
	// drain so the connection can be reused
	_, _ = io.Copy(io.Discard, resp.Body)
	metrics.ObservePreferenceCall(op, "ok", time.Since(start))
	return true
}

func (s *HTTPStore) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	req.SetBasicAuth(s.username, s.password)
	req.Header.Set("Accept", "application/json")
	return req, nil
}

func (s *HTTPStore) fail(op, result string, start time.Time, err error) {
	metrics.ObservePreferenceCall(op, result, time.Since(start))
	s.log.Warn().Err(err).Str("op", op).Str("result", result).Msg("preference service call failed")
}

func (s *HTTPStore) failStatus(op string, start time.Time, resp *http.Response) {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxLoggedBody))
	metrics.ObservePreferenceCall(op, "http_error", time.Since(start))
	s.log.Warn().
		Str("op", op).
		Int("status", resp.StatusCode).
		Str("body", strings.TrimSpace(string(body))).
		Msg("preference service returned non-success status")
}
