// File: internal/infra/adapters/content/gita_api.go
package content

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"

	"telegram-gita-bot/internal/domain/model"
	"telegram-gita-bot/internal/domain/ports/adapter"
	"telegram-gita-bot/internal/infra/metrics"
)

var _ adapter.VerseContent = (*GitaAPI)(nil)

// AudioExt is the extension of every narration file written by FetchAudio.
const AudioExt = ".mp3"

// VerseCache is an optional read-through cache for verse payloads.
type VerseCache interface {
	Get(ctx context.Context, ref model.VerseRef) (*model.Verse, bool, error)
	Set(ctx context.Context, ref model.VerseRef, v *model.Verse) error
}

// GitaAPI talks to the verse content service (GET /verse, GET /audio).
type GitaAPI struct {
	baseURL  string
	audioDir string
	client   *http.Client
	cache    VerseCache
	log      *zerolog.Logger
}

// NewGitaAPI creates the audio directory if needed. cache may be nil.
func NewGitaAPI(baseURL, audioDir string, timeout time.Duration, cache VerseCache, logger *zerolog.Logger) (*GitaAPI, error) {
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, fmt.Errorf("invalid content service url: %w", err)
	}
	if audioDir == "" {
		return nil, errors.New("audio dir empty")
	}
	if err := os.MkdirAll(audioDir, 0o755); err != nil {
		return nil, fmt.Errorf("create audio dir: %w", err)
	}
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &GitaAPI{
		baseURL:  strings.TrimRight(baseURL, "/"),
		audioDir: audioDir,
		client:   &http.Client{Timeout: timeout},
		cache:    cache,
		log:      logger,
	}, nil
}

func (g *GitaAPI) AudioDir() string { return g.audioDir }

func (g *GitaAPI) endpoint(path string, ref model.VerseRef) string {
	q := url.Values{}
	q.Set("chapter", strconv.Itoa(ref.Chapter))
	q.Set("verse", strconv.Itoa(ref.Verse))
	return g.baseURL + path + "?" + q.Encode()
}

// GetVerse returns the verse, consulting the cache first when configured.
// Cache failures are logged and never fail the request.
func (g *GitaAPI) GetVerse(ctx context.Context, ref model.VerseRef) (*model.Verse, error) {
	if g.cache != nil {
		v, ok, err := g.cache.Get(ctx, ref)
		switch {
		case err != nil:
			metrics.IncVerseCache("error")
			g.log.Warn().Err(err).Str("verse", ref.String()).Msg("verse cache read failed")
		case ok:
			metrics.IncVerseCache("hit")
			return v, nil
		default:
			metrics.IncVerseCache("miss")
		}
	}

	v, err := g.fetchVerse(ctx, ref)
	if err != nil {
		return nil, err
	}
	if g.cache != nil {
		if err := g.cache.Set(ctx, ref, v); err != nil {
			g.log.Warn().Err(err).Str("verse", ref.String()).Msg("verse cache write failed")
		}
	}
	return v, nil
}

func (g *GitaAPI) fetchVerse(ctx context.Context, ref model.VerseRef) (v *model.Verse, err error) {
	start := time.Now()
	defer func() { metrics.ObserveContentCall("verse", err == nil, time.Since(start)) }()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.endpoint("/verse", ref), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("verse request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("verse request: http %d", resp.StatusCode)
	}

	var out model.Verse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode verse: %w", err)
	}
	if out.IsZero() {
		return nil, fmt.Errorf("verse %s: empty payload", ref)
	}
	return &out, nil
}

// FetchAudio streams the narration into <audioDir>/<chapter>-<verse>-<ulid>.mp3.
// The unique suffix keeps concurrent requests for the same verse apart.
func (g *GitaAPI) FetchAudio(ctx context.Context, ref model.VerseRef) (path string, err error) {
	start := time.Now()
	defer func() { metrics.ObserveContentCall("audio", err == nil, time.Since(start)) }()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.endpoint("/audio", ref), nil)
	if err != nil {
		return "", err
	}
	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("audio request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("audio request: http %d", resp.StatusCode)
	}

	name := fmt.Sprintf("%d-%d-%s%s", ref.Chapter, ref.Verse, ulid.Make().String(), AudioExt)
	path = filepath.Join(g.audioDir, name)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create audio file: %w", err)
	}
	n, copyErr := io.Copy(f, resp.Body)
	closeErr := f.Close()
	if copyErr == nil && n == 0 {
		copyErr = errors.New("empty audio payload")
	}
	if err := errors.Join(copyErr, closeErr); err != nil {
		_ = os.Remove(path)
		return "", fmt.Errorf("write audio file: %w", err)
	}
	return path, nil
}

// RemoveAudio deletes a file written by FetchAudio. A missing file is not an error.
func (g *GitaAPI) RemoveAudio(path string) error {
	if path == "" {
		return nil
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
