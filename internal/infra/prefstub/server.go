// Package prefstub is an in-memory stand-in for the remote preference
// service. It serves the same three endpoints and is used for local runs
// (cmd/prefstub) and client tests.
package prefstub

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

// Record is one stored preference, keyed by Username.
type Record struct {
	Username string `json:"username"`
	UserType string `json:"usertype"`
	ChatID   int64  `json:"chatID"`
	Time     string `json:"time"`
}

type Server struct {
	username string
	password string
	log      *zerolog.Logger

	mu      sync.Mutex
	records map[string]Record
}

func NewServer(username, password string, logger *zerolog.Logger) *Server {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &Server{
		username: username,
		password: password,
		log:      logger,
		records:  make(map[string]Record),
	}
}

// Handler returns the chi router for the service.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	r.Group(func(r chi.Router) {
		r.Use(s.basicAuth)
		r.Get("/query", s.handleQuery)
		r.Post("/create", s.handleCreate)
		r.Delete("/delete", s.handleDelete)
	})
	return r
}

// Seed stores rec unconditionally.
func (s *Server) Seed(rec Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[rec.Username] = rec
}

// Get returns the stored record for username.
func (s *Server) Get(username string) (Record, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[username]
	return rec, ok
}

// Len returns the number of stored records.
func (s *Server) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

func (s *Server) basicAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, p, ok := r.BasicAuth()
		if !ok ||
			subtle.ConstantTimeCompare([]byte(u), []byte(s.username)) != 1 ||
			subtle.ConstantTimeCompare([]byte(p), []byte(s.password)) != 1 {
			w.Header().Set("WWW-Authenticate", `Basic realm="preferences"`)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	username := r.URL.Query().Get("username")
	if username == "" {
		http.Error(w, "username is required", http.StatusBadRequest)
		return
	}
	rec, ok := s.Get(username)
	resp := map[string]string{}
	if ok {
		resp["usertype"] = rec.UserType
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var rec Record
	if err := json.NewDecoder(r.Body).Decode(&rec); err != nil {
		http.Error(w, "malformed body", http.StatusBadRequest)
		return
	}
	if rec.Username == "" || (rec.UserType != "random" && rec.UserType != "sequential") || rec.Time == "" {
		http.Error(w, "username, usertype and time are required", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.records[rec.Username]; exists {
		http.Error(w, "record already exists", http.StatusConflict)
		return
	}
	s.records[rec.Username] = rec
	s.log.Debug().Str("username", rec.Username).Str("usertype", rec.UserType).Msg("preference created")
	writeJSON(w, http.StatusOK, map[string]string{"status": "created"})
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Username string `json:"username"`
		UserType string `json:"usertype"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "malformed body", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[in.Username]
	if !ok || rec.UserType != in.UserType {
		http.Error(w, "record not found", http.StatusNotFound)
		return
	}
	delete(s.records, in.Username)
	s.log.Debug().Str("username", in.Username).Msg("preference deleted")
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
