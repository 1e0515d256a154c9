package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/fwojciec/heads"
)

// ShutdownTimeout is how long in-flight requests get to finish once the
// server context ends.
const ShutdownTimeout = 5 * time.Second

// SnapshotSource provides the snapshot currently served.
type SnapshotSource interface {
	// Current returns the active snapshot, or nil when none is loaded.
	Current() *heads.Snapshot
}

// SnapshotSourceFunc adapts a function to SnapshotSource.
type SnapshotSourceFunc func() *heads.Snapshot

// Current implements SnapshotSource.
func (f SnapshotSourceFunc) Current() *heads.Snapshot { return f() }

// Server serves the active store as JSON.
//
//	GET  /heads          the whole store, {} before the first snapshot
//	GET  /heads/{state}  the leaders of one state
//	GET  /snapshots      saved snapshots, newest first
//	POST /refresh        rebuild the store from the source page
type Server struct {
	source    SnapshotSource
	refresher heads.Refresher
	snapshots heads.SnapshotService
	limiter   *ClientLimiter
	logger    *slog.Logger

	mux *http.ServeMux
}

// ServerOption configures a Server.
type ServerOption func(*Server)

// WithSnapshotService enables GET /snapshots.
func WithSnapshotService(s heads.SnapshotService) ServerOption {
	return func(srv *Server) {
		srv.snapshots = s
	}
}

// WithRefreshLimiter replaces the default refresh throttle.
func WithRefreshLimiter(l *ClientLimiter) ServerOption {
	return func(srv *Server) {
		srv.limiter = l
	}
}

// WithLogger sets the request logger.
func WithLogger(l *slog.Logger) ServerOption {
	return func(srv *Server) {
		srv.logger = l
	}
}

// NewServer creates a Server reading from source and refreshing through
// refresher.
func NewServer(source SnapshotSource, refresher heads.Refresher, opts ...ServerOption) *Server {
	s := &Server{
		source:    source,
		refresher: refresher,
		limiter:   NewClientLimiter(DefaultRefreshInterval, 1),
		logger:    slog.New(slog.DiscardHandler),
		mux:       http.NewServeMux(),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.mux.HandleFunc("GET /heads", s.handleStore)
	s.mux.HandleFunc("GET /heads/{state}", s.handleState)
	s.mux.HandleFunc("POST /refresh", s.handleRefresh)
	if s.snapshots != nil {
		s.mux.HandleFunc("GET /snapshots", s.handleSnapshots)
	}
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
	s.mux.ServeHTTP(rec, r)
	s.logger.Debug("request",
		"method", r.Method,
		"path", r.URL.Path,
		"status", rec.status,
		"duration", time.Since(start),
	)
}

// ListenAndServe serves on addr until ctx is done, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is done.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.Serve(ln) }()
	s.logger.Info("listening", "addr", ln.Addr().String())

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) handleStore(w http.ResponseWriter, r *http.Request) {
	snap := s.source.Current()
	if snap == nil || snap.Store == nil {
		s.writeJSON(w, http.StatusOK, struct{}{})
		return
	}
	setSnapshotHeaders(w, snap)
	s.writeJSON(w, http.StatusOK, snap.Store)
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("state")

	snap := s.source.Current()
	if snap == nil || snap.Store == nil {
		s.writeError(w, r, heads.Errorf(heads.ENOTFOUND, "state %q not found", name))
		return
	}
	state, ok := snap.Store.States[name]
	if !ok {
		s.writeError(w, r, heads.Errorf(heads.ENOTFOUND, "state %q not found", name))
		return
	}
	setSnapshotHeaders(w, snap)
	s.writeJSON(w, http.StatusOK, state)
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	if !s.limiter.Allow(clientKey(r)) {
		w.Header().Set("Retry-After", "60")
		s.writeJSON(w, http.StatusTooManyRequests, errorResponse{Error: "refresh rate limit exceeded"})
		return
	}

	snap, err := s.refresher.Sync(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, newSnapshotResponse(snap))
}

func (s *Server) handleSnapshots(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			s.writeError(w, r, heads.Errorf(heads.EINVALID, "invalid limit %q", v))
			return
		}
		limit = n
	}

	snaps, err := s.snapshots.FindSnapshots(r.Context(), limit)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	out := make([]snapshotResponse, 0, len(snaps))
	for _, snap := range snaps {
		out = append(out, newSnapshotResponse(snap))
	}
	s.writeJSON(w, http.StatusOK, out)
}

// snapshotResponse describes a snapshot without its store.
type snapshotResponse struct {
	ID         string    `json:"id"`
	SourceURL  string    `json:"sourceUrl"`
	SourceHash string    `json:"sourceHash"`
	CreatedAt  time.Time `json:"createdAt"`
	States     int       `json:"states"`
}

func newSnapshotResponse(snap *heads.Snapshot) snapshotResponse {
	resp := snapshotResponse{
		ID:         snap.ID,
		SourceURL:  snap.SourceURL,
		SourceHash: snap.SourceHash,
		CreatedAt:  snap.CreatedAt,
	}
	if snap.Store != nil {
		resp.States = snap.Store.Len()
	}
	return resp
}

type errorResponse struct {
	Error string `json:"error"`
}

// errorStatus maps application error codes to HTTP status codes.
var errorStatus = map[string]int{
	heads.EINVALID:   http.StatusBadRequest,
	heads.ENOTFOUND:  http.StatusNotFound,
	heads.EMALFORMED: http.StatusBadGateway,
	heads.EINTERNAL:  http.StatusInternalServerError,
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := heads.ErrorCode(err)
	status, ok := errorStatus[code]
	if !ok {
		status = http.StatusInternalServerError
	}
	if code == heads.EINTERNAL {
		s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "err", err)
	}
	s.writeJSON(w, status, errorResponse{Error: heads.ErrorMessage(err)})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Warn("failed to write response", "err", err)
	}
}

func setSnapshotHeaders(w http.ResponseWriter, snap *heads.Snapshot) {
	if snap.ID != "" {
		w.Header().Set("X-Snapshot-Id", snap.ID)
	}
	if !snap.CreatedAt.IsZero() {
		w.Header().Set("Last-Modified", snap.CreatedAt.UTC().Format(http.TimeFormat))
	}
}

func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
