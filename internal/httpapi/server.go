package httpapi

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"gatelog/internal/gatelog/service"
	"gatelog/internal/hub"
)

type Dependencies struct {
	Logger    *slog.Logger
	Addr      string
	Ingest    *service.IngestService
	Query     *service.QueryService
	AllowList *service.AllowListService
	Hub       *hub.Hub

	// SendBuffer is the per-observer outbound buffer passed to new
	// websocket connections.
	SendBuffer int
}

type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
	mux        *http.ServeMux
	ingest     *service.IngestService
	query      *service.QueryService
	allowList  *service.AllowListService
	hub        *hub.Hub
	sendBuffer int
}

func NewServer(d Dependencies) *Server {
	mux := http.NewServeMux()

	s := &Server{
		logger:     d.Logger,
		mux:        mux,
		ingest:     d.Ingest,
		query:      d.Query,
		allowList:  d.AllowList,
		hub:        d.Hub,
		sendBuffer: d.SendBuffer,
	}

	mux.HandleFunc("POST /upload", s.handleUpload)
	mux.HandleFunc("GET /ws", s.handleWS)
	mux.HandleFunc("GET /api/logs", s.handleLogs)
	mux.HandleFunc("GET /api/stats", s.handleStats)
	mux.HandleFunc("GET /api/unique-uids", s.handleUniqueUIDs)
	mux.HandleFunc("GET /api/unauthorized-uids", s.handleUnauthorizedUIDs)
	mux.HandleFunc("GET /api/authorized", s.handleListAuthorized)
	mux.HandleFunc("POST /api/authorized", s.handleAddAuthorized)
	mux.HandleFunc("PUT /api/authorized/{uid}", s.handleRenameAuthorized)
	mux.HandleFunc("DELETE /api/authorized/{uid}", s.handleDeleteAuthorized)

	handler := loggingMiddleware(d.Logger, mux)

	s.httpServer = &http.Server{
		Addr:              d.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	return s
}

func (s *Server) Handler() http.Handler { return s.httpServer.Handler }

func (s *Server) Start() error {
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
