// Package apitest provides an in-memory stand-in for the marketplace backend
// so controllers, commands and screens can be exercised end to end.
package apitest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/marketdesk/marketdesk-terminal/pkg/api"
)

const (
	// BasePath is the API root served by the fake backend
	BasePath = "/api"
	// Token is the session credential the fake backend accepts
	Token = "test-admin-token"
)

// Request records one call received by the fake backend
type Request struct {
	Method string
	Path   string
	Body   map[string]any
}

type override struct {
	status int
	body   string
}

type hold struct {
	arrived chan struct{}
	release <-chan struct{}
}

// Server is a fake backend keyed by collection name ("users", "items", ...)
type Server struct {
	t           *testing.T
	srv         *httptest.Server
	mu          sync.Mutex
	collections map[string][]map[string]any
	me          map[string]any
	overrides   map[string]override
	holds       map[string]hold
	requests    []Request
	nextID      int
}

// NewServer starts a fake backend that is closed when the test ends
func NewServer(t *testing.T) *Server {
	t.Helper()

	s := &Server{
		t:           t,
		collections: make(map[string][]map[string]any),
		overrides:   make(map[string]override),
		holds:       make(map[string]hold),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET "+BasePath+"/admin/me", s.handleMe)
	mux.HandleFunc("GET "+BasePath+"/{collection}", s.handleList)
	mux.HandleFunc("POST "+BasePath+"/{collection}", s.handleCreate)
	mux.HandleFunc("DELETE "+BasePath+"/{collection}", s.handleDeleteAll)
	mux.HandleFunc("GET "+BasePath+"/{collection}/{id}", s.handleGet)
	mux.HandleFunc("PUT "+BasePath+"/{collection}/{id}", s.handleUpdate)
	mux.HandleFunc("DELETE "+BasePath+"/{collection}/{id}", s.handleDelete)

	s.srv = httptest.NewServer(s.middleware(mux))
	t.Cleanup(s.srv.Close)
	return s
}

// URL returns the API base URL including BasePath
func (s *Server) URL() string {
	return s.srv.URL + BasePath
}

// Config returns a client config pointed at this backend with a valid token
func (s *Server) Config() api.Config {
	return api.Config{
		BaseURL:       s.URL(),
		SessionCookie: "adminToken",
		SessionToken:  Token,
	}
}

// Client returns a ready client authenticated against this backend
func (s *Server) Client(opts ...api.Option) *api.Client {
	s.t.Helper()
	c, err := api.New(s.Config(), opts...)
	if err != nil {
		s.t.Fatalf("Failed to create API client: %v", err)
	}
	return c
}

// Seed appends records to a collection. Records without "_id" get one.
func (s *Server) Seed(collection string, records ...map[string]any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range records {
		if _, ok := r["_id"]; !ok {
			r["_id"] = s.newID()
		}
		s.collections[collection] = append(s.collections[collection], r)
	}
}

// SetMe sets the record returned by /admin/me
func (s *Server) SetMe(admin map[string]any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.me = admin
}

// Respond makes every following "METHOD path" call answer with status and a
// raw body. path is relative to BasePath, e.g. "/items".
func (s *Server) Respond(method, path string, status int, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.overrides[method+" "+BasePath+path] = override{status: status, body: body}
}

// Hold makes "METHOD path" calls wait until release is closed. The returned
// channel receives once for every held call as it arrives.
func (s *Server) Hold(method, path string, release <-chan struct{}) <-chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	h := hold{arrived: make(chan struct{}, 16), release: release}
	s.holds[method+" "+BasePath+path] = h
	return h.arrived
}

// Records returns a copy of a collection
func (s *Server) Records(collection string) []map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]map[string]any, len(s.collections[collection]))
	copy(out, s.collections[collection])
	return out
}

// Requests returns every call received so far
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Request, len(s.requests))
	copy(out, s.requests)
	return out
}

// CountRequests counts calls matching method and path (relative to BasePath)
func (s *Server) CountRequests(method, path string) int {
	n := 0
	for _, r := range s.Requests() {
		if r.Method == method && r.Path == BasePath+path {
			n++
		}
	}
	return n
}

func (s *Server) newID() string {
	s.nextID++
	return fmt.Sprintf("id-%03d", s.nextID)
}

func (s *Server) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req := Request{Method: r.Method, Path: r.URL.Path}
		if r.Body != nil {
			data, _ := io.ReadAll(r.Body)
			if len(data) > 0 {
				_ = json.Unmarshal(data, &req.Body)
			}
			r.Body = io.NopCloser(bytes.NewReader(data))
		}

		s.mu.Lock()
		s.requests = append(s.requests, req)
		ov, hasOverride := s.overrides[r.Method+" "+r.URL.Path]
		h, held := s.holds[r.Method+" "+r.URL.Path]
		s.mu.Unlock()

		if held {
			select {
			case h.arrived <- struct{}{}:
			default:
			}
			<-h.release
		}

		if hasOverride {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(ov.status)
			io.WriteString(w, ov.body)
			return
		}

		cookie, err := r.Cookie("adminToken")
		if err != nil || cookie.Value != Token {
			writeJSON(w, http.StatusUnauthorized, map[string]any{"message": "Not authorized, no token"})
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	me := s.me
	s.mu.Unlock()
	if me == nil {
		writeJSON(w, http.StatusNotFound, map[string]any{"message": "Admin not found"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "admin": me})
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Records(r.PathValue("collection")))
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, _ := s.find(r.PathValue("collection"), r.PathValue("id"))
	if rec == nil {
		writeJSON(w, http.StatusNotFound, map[string]any{"message": "Not found"})
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var body map[string]any
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"message": "Invalid JSON"})
		return
	}
	s.mu.Lock()
	body["_id"] = s.newID()
	collection := r.PathValue("collection")
	s.collections[collection] = append(s.collections[collection], body)
	s.mu.Unlock()
	writeJSON(w, http.StatusCreated, body)
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	var body map[string]any
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"message": "Invalid JSON"})
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, _ := s.find(r.PathValue("collection"), r.PathValue("id"))
	if rec == nil {
		writeJSON(w, http.StatusNotFound, map[string]any{"message": "Not found"})
		return
	}
	for k, v := range body {
		if k != "_id" {
			rec[k] = v
		}
	}
	if r.PathValue("collection") == "admin" {
		if s.me != nil && s.me["_id"] == rec["_id"] {
			s.me = rec
		}
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "admin": rec})
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	collection := r.PathValue("collection")
	_, idx := s.find(collection, r.PathValue("id"))
	if idx < 0 {
		writeJSON(w, http.StatusNotFound, map[string]any{"message": "Not found"})
		return
	}
	records := s.collections[collection]
	s.collections[collection] = append(records[:idx:idx], records[idx+1:]...)
	writeJSON(w, http.StatusOK, map[string]any{"message": "Record removed"})
}

func (s *Server) handleDeleteAll(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	collection := r.PathValue("collection")
	n := len(s.collections[collection])
	s.collections[collection] = nil
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "deletedCount": n})
}

func (s *Server) find(collection, id string) (map[string]any, int) {
	for i, rec := range s.collections[collection] {
		if rec["_id"] == id {
			return rec, i
		}
	}
	return nil, -1
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
