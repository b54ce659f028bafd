package daemon

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"horsetab/config"
	herrors "horsetab/errors"
	"horsetab/logging"
)

// Server serves horsetab's HTTP control surface: the read endpoints a
// CLI polls, the re-install and send-sequence write endpoints, and
// /metrics for Prometheus scraping. A small struct wrapping
// *http.Server with its own mux, started non-blocking and stopped via
// graceful Shutdown.
type Server struct {
	httpServer *http.Server
	coord      *Coordinator
}

// NewServer builds the HTTP surface bound to addr (e.g. "127.0.0.1:0"
// or a fixed configured address).
func NewServer(addr string, coord *Coordinator) *Server {
	mux := http.NewServeMux()
	s := &Server{coord: coord}

	mux.HandleFunc("GET /current-config-file-content", s.handleConfigFileContent)
	mux.HandleFunc("GET /current-installed-commands", s.handleInstalledCommands)
	mux.HandleFunc("GET /tcp-port", s.handleTCPPort)
	mux.HandleFunc("GET /ps", s.handlePs)
	mux.HandleFunc("PUT /re-install", s.handleReinstall)
	mux.HandleFunc("POST /send-sequence", s.handleSendSequence)
	mux.Handle("GET /metrics", promhttp.HandlerFor(coord.Metrics().Registry, promhttp.HandlerOpts{}))

	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Addr returns the server's configured bind address.
func (s *Server) Addr() string { return s.httpServer.Addr }

// Start begins serving in the background, the way the pack's metrics
// server does; callers should arrange for Stop on shutdown.
func (s *Server) Start() {
	go func() {
		logging.Default().Infow("http server starting", "addr", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.Default().Errorw("http server error", "error", err)
		}
	}()
}

// Stop gracefully shuts the server down.
func (s *Server) Stop(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handleConfigFileContent(w http.ResponseWriter, r *http.Request) {
	data, err := os.ReadFile(s.coord.configPath)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write(data)
}

func (s *Server) handleInstalledCommands(w http.ResponseWriter, r *http.Request) {
	commands := s.coord.CurrentCommands()
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	io.WriteString(w, config.Serialize(commands))
}

func (s *Server) handleTCPPort(w http.ResponseWriter, r *http.Request) {
	fmt.Fprintf(w, "%d", s.coord.Bus().Port())
}

func (s *Server) handlePs(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	io.WriteString(w, s.coord.Processes().FormatInformation())
}

func (s *Server) handleReinstall(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := os.WriteFile(s.coord.configPath, body, 0o644); err != nil {
		werr := herrors.WrapSentinel(herrors.ErrConfigNotWritable, "write config", err)
		http.Error(w, werr.Error(), http.StatusInternalServerError)
		return
	}

	cfg := s.coord.Reinstall(string(body))

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	io.WriteString(w, installSummary(cfg))
}

// installSummary renders the human-readable reinstall result: a
// command count, plus an unreachable-sequence list when non-empty.
func installSummary(cfg *config.Configuration) string {
	summary := fmt.Sprintf("Installed %d commands", len(cfg.Commands))
	if len(cfg.UnreachableSequences) == 0 {
		return summary
	}
	return summary + "\nUnreachable sequences: " + strings.Join(cfg.UnreachableSequences, ", ")
}

func (s *Server) handleSendSequence(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if len(body) == 0 {
		http.Error(w, herrors.ErrEmptySequence.Error(), http.StatusBadRequest)
		return
	}
	s.coord.InjectSequence(string(body))
	w.WriteHeader(http.StatusNoContent)
}
