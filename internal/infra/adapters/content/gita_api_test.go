//go:build !integration

package content

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"telegram-gita-bot/internal/domain/model"
)

const verseJSON = `{"originalVerse":"karmaṇy evādhikāras te","transliteration":"karmany evadhikaras te","translation":"You have a right to action alone","commentary":"...","wordMeanings":"karmaṇi: in action"}`

type memCache struct {
	data   map[model.VerseRef]*model.Verse
	getErr error
	sets   int
}

func (m *memCache) Get(ctx context.Context, ref model.VerseRef) (*model.Verse, bool, error) {
	if m.getErr != nil {
		return nil, false, m.getErr
	}
	v, ok := m.data[ref]
	return v, ok, nil
}

func (m *memCache) Set(ctx context.Context, ref model.VerseRef, v *model.Verse) error {
	m.sets++
	m.data[ref] = v
	return nil
}

func newContentServer(t *testing.T, hits *int32) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits != nil {
			atomic.AddInt32(hits, 1)
		}
		q := r.URL.Query()
		if q.Get("chapter") != "2" || q.Get("verse") != "47" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		switch r.URL.Path {
		case "/verse":
			_, _ = io.WriteString(w, verseJSON)
		case "/audio":
			w.Header().Set("Content-Type", "audio/mpeg")
			_, _ = w.Write([]byte("ID3-fake-mp3"))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
}

func TestGitaAPI_GetVerse(t *testing.T) {
	ctx := context.Background()
	ref := model.VerseRef{Chapter: 2, Verse: 47}

	t.Run("should decode the verse payload", func(t *testing.T) {
		ts := newContentServer(t, nil)
		defer ts.Close()
		api, err := NewGitaAPI(ts.URL, t.TempDir(), time.Second, nil, nil)
		if err != nil {
			t.Fatalf("NewGitaAPI: %v", err)
		}

		v, err := api.GetVerse(ctx, ref)
		if err != nil {
			t.Fatalf("GetVerse: %v", err)
		}
		if v.Translation != "You have a right to action alone" || v.WordMeanings != "karmaṇi: in action" {
			t.Errorf("unexpected verse %+v", v)
		}
	})

	t.Run("should fail on non-200", func(t *testing.T) {
		ts := newContentServer(t, nil)
		defer ts.Close()
		api, _ := NewGitaAPI(ts.URL, t.TempDir(), time.Second, nil, nil)

		if _, err := api.GetVerse(ctx, model.VerseRef{Chapter: 1, Verse: 1}); err == nil {
			t.Fatal("expected error")
		}
	})

	t.Run("should read through the cache", func(t *testing.T) {
		var hits int32
		ts := newContentServer(t, &hits)
		defer ts.Close()
		cache := &memCache{data: map[model.VerseRef]*model.Verse{}}
		api, _ := NewGitaAPI(ts.URL, t.TempDir(), time.Second, cache, nil)

		for i := 0; i < 3; i++ {
			if _, err := api.GetVerse(ctx, ref); err != nil {
				t.Fatalf("GetVerse #%d: %v", i, err)
			}
		}
		if n := atomic.LoadInt32(&hits); n != 1 {
			t.Errorf("content service hit %d times, want 1", n)
		}
		if cache.sets != 1 {
			t.Errorf("cache sets = %d, want 1", cache.sets)
		}
	})

	t.Run("should fall back to the service when the cache errors", func(t *testing.T) {
		ts := newContentServer(t, nil)
		defer ts.Close()
		cache := &memCache{data: map[model.VerseRef]*model.Verse{}, getErr: errors.New("redis down")}
		api, _ := NewGitaAPI(ts.URL, t.TempDir(), time.Second, cache, nil)

		if _, err := api.GetVerse(ctx, ref); err != nil {
			t.Fatalf("GetVerse: %v", err)
		}
	})
}

func TestGitaAPI_Audio(t *testing.T) {
	ctx := context.Background()
	ref := model.VerseRef{Chapter: 2, Verse: 47}
	ts := newContentServer(t, nil)
	defer ts.Close()
	dir := t.TempDir()
	api, err := NewGitaAPI(ts.URL, dir, time.Second, nil, nil)
	if err != nil {
		t.Fatalf("NewGitaAPI: %v", err)
	}

	t.Run("should write unique files per fetch", func(t *testing.T) {
		p1, err := api.FetchAudio(ctx, ref)
		if err != nil {
			t.Fatalf("FetchAudio: %v", err)
		}
		p2, err := api.FetchAudio(ctx, ref)
		if err != nil {
			t.Fatalf("FetchAudio: %v", err)
		}
		if p1 == p2 {
			t.Fatal("expected distinct file names")
		}
		if filepath.Dir(p1) != dir || !strings.HasPrefix(filepath.Base(p1), "2-47-") || filepath.Ext(p1) != AudioExt {
			t.Errorf("unexpected path %q", p1)
		}
		b, _ := os.ReadFile(p1)
		if string(b) != "ID3-fake-mp3" {
			t.Errorf("file content = %q", b)
		}

		if err := api.RemoveAudio(p1); err != nil {
			t.Fatalf("RemoveAudio: %v", err)
		}
		if _, err := os.Stat(p1); !os.IsNotExist(err) {
			t.Error("file should be removed")
		}
		if err := api.RemoveAudio(p1); err != nil {
			t.Errorf("removing a missing file should not fail: %v", err)
		}
		_ = api.RemoveAudio(p2)
	})

	t.Run("should not leave a file behind on failure", func(t *testing.T) {
		if _, err := api.FetchAudio(ctx, model.VerseRef{Chapter: 3, Verse: 1}); err == nil {
			t.Fatal("expected error")
		}
		entries, _ := os.ReadDir(dir)
		if len(entries) != 0 {
			t.Errorf("audio dir should be empty, has %d entries", len(entries))
		}
	})
}
