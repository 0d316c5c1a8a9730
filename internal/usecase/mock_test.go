//go:build !integration

package usecase_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/rs/zerolog"

	"telegram-gita-bot/internal/domain/model"
	"telegram-gita-bot/internal/domain/ports/adapter"
)

// =============================
// Adapters
// =============================

// ---- Mock PreferenceStore ----

// storeCall records one call made against the mock store, in order.
type storeCall struct {
	Op       string // query, create, delete
	Username string
	UserType model.UserType
	Pref     model.UserPreference
}

func (c storeCall) String() string {
	switch c.Op {
	case "create":
		return fmt.Sprintf("create(%s,%s,%d,%s)", c.Pref.Username, c.Pref.UserType, c.Pref.ChatID, c.Pref.Time)
	case "delete":
		return fmt.Sprintf("delete(%s,%s)", c.Username, c.UserType)
	default:
		return fmt.Sprintf("query(%s)", c.Username)
	}
}

// MockPreferenceStore keeps records in memory and records every call.
// The Func fields override the default behavior for a single test.
type MockPreferenceStore struct {
	mu      sync.Mutex
	records map[string]model.UserPreference
	Calls   []storeCall

	QueryFunc  func(ctx context.Context, username string) model.PreferenceStatus
	CreateFunc func(ctx context.Context, pref model.UserPreference) bool
	DeleteFunc func(ctx context.Context, username string, usertype model.UserType) bool
}

var _ adapter.PreferenceStore = (*MockPreferenceStore)(nil)

func NewMockPreferenceStore() *MockPreferenceStore {
	return &MockPreferenceStore{records: make(map[string]model.UserPreference)}
}

func (m *MockPreferenceStore) Seed(pref model.UserPreference) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[pref.Username] = pref
}

func (m *MockPreferenceStore) Record(username string) (model.UserPreference, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.records[username]
	return p, ok
}

func (m *MockPreferenceStore) CallLog() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.Calls))
	for i, c := range m.Calls {
		out[i] = c.String()
	}
	return out
}

func (m *MockPreferenceStore) record(c storeCall) {
	m.mu.Lock()
	m.Calls = append(m.Calls, c)
	m.mu.Unlock()
}

func (m *MockPreferenceStore) Query(ctx context.Context, username string) model.PreferenceStatus {
	m.record(storeCall{Op: "query", Username: username})
	if m.QueryFunc != nil {
		return m.QueryFunc(ctx, username)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.records[username]
	if !ok {
		return model.StatusNone
	}
	return model.StatusFromUserType(string(p.UserType))
}

func (m *MockPreferenceStore) Create(ctx context.Context, pref model.UserPreference) bool {
	m.record(storeCall{Op: "create", Username: pref.Username, UserType: pref.UserType, Pref: pref})
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, pref)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.records[pref.Username]; exists {
		return false
	}
	m.records[pref.Username] = pref
	return true
}

func (m *MockPreferenceStore) Delete(ctx context.Context, username string, usertype model.UserType) bool {
	m.record(storeCall{Op: "delete", Username: username, UserType: usertype})
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, username, usertype)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.records[username]
	if !ok || p.UserType != usertype {
		return false
	}
	delete(m.records, username)
	return true
}

// ---- Mock VerseContent ----

type MockVerseContent struct {
	mu      sync.Mutex
	Removed []string

	GetVerseFunc   func(ctx context.Context, ref model.VerseRef) (*model.Verse, error)
	FetchAudioFunc func(ctx context.Context, ref model.VerseRef) (string, error)
	RemoveErr      error
}

var _ adapter.VerseContent = (*MockVerseContent)(nil)

func (m *MockVerseContent) GetVerse(ctx context.Context, ref model.VerseRef) (*model.Verse, error) {
	if m.GetVerseFunc != nil {
		return m.GetVerseFunc(ctx, ref)
	}
	return &model.Verse{
		OriginalVerse: fmt.Sprintf("verse %s", ref),
		Translation:   "translation",
	}, nil
}

func (m *MockVerseContent) FetchAudio(ctx context.Context, ref model.VerseRef) (string, error) {
	if m.FetchAudioFunc != nil {
		return m.FetchAudioFunc(ctx, ref)
	}
	return fmt.Sprintf("/tmp/%d-%d.mp3", ref.Chapter, ref.Verse), nil
}

func (m *MockVerseContent) RemoveAudio(path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Removed = append(m.Removed, path)
	return m.RemoveErr
}

var errContentDown = errors.New("content service down")

// --- Logger

func newTestLogger() *zerolog.Logger {
	logger := zerolog.New(io.Discard)
	return &logger
}
