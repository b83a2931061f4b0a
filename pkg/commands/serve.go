package commands

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"HostFacts/pkg/collecting"
	"HostFacts/pkg/exporting"
	"HostFacts/pkg/failure"
	"HostFacts/pkg/graphing"
	"HostFacts/pkg/platform"
)

var serveAddr string

// NewServeCmd creates the serve subcommand.
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "serve",
		Aliases: []string{"s"},
		Short:   "Run HTTP server exposing host facts",
		Long: `Run an HTTP server that reads host facts on every request.

Endpoints:
  /                   Status page with links
  /snapshot           Record of every section (?format=json|yaml|cbor|...)
  /sections/{name}    One section as JSON
  /report             HTML report of the current host

Example:
  hostfacts serve --addr :8080
  hostfacts serve --addr 127.0.0.1:9090`,
		Args: cobra.NoArgs,
		RunE: runServe,
	}

	cmd.Flags().StringVar(&serveAddr, "addr", ":8080", "Listen address")

	return cmd
}

type factsServer struct {
	manager *collecting.Manager
}

func runServe(cmd *cobra.Command, args []string) error {
	manager, err := newManager()
	if err != nil {
		return err
	}
	server := &factsServer{manager: manager}

	httpServer := &http.Server{
		Addr:              serveAddr,
		Handler:           server.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errChan := make(chan error, 1)
	go func() {
		logger.Info("starting facts server", "addr", serveAddr)
		errChan <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errChan:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
		logger.Info("shutting down facts server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	}
}

func (s *factsServer) routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /snapshot", s.handleSnapshot)
	mux.HandleFunc("GET /sections/{name}", s.handleSection)
	mux.HandleFunc("GET /report", s.handleReport)
	return mux
}

func (s *factsServer) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprint(w, `<!DOCTYPE html>
<html>
<head><title>hostfacts</title></head>
<body>
<h1>hostfacts</h1>
<ul>
<li><a href="/snapshot">Snapshot</a> - Every section</li>
<li><a href="/report">Report</a> - Charts of the current host</li>
`)
	for _, name := range platform.Sections {
		fmt.Fprintf(w, "<li><a href=\"/sections/%s\">%s</a></li>\n", name, name)
	}
	fmt.Fprint(w, `</ul>
</body>
</html>`)
}

func (s *factsServer) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = "json"
	}
	if _, ok := exporting.Get(format); !ok {
		http.Error(w, fmt.Sprintf("unsupported format: %s (valid: %s)", format, strings.Join(exporting.Names(), ", ")),
			http.StatusBadRequest)
		return
	}

	record := sample(s.manager)
	var buf bytes.Buffer
	if err := exporting.Encode(&buf, format, record); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", contentType(format))
	w.Write(buf.Bytes())
}

func (s *factsServer) handleSection(w http.ResponseWriter, r *http.Request) {
	collectors, err := platform.Collectors(facts, []string{r.PathValue("name")})
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	value, err := collectors[0].Collect()
	if err != nil {
		status := http.StatusInternalServerError
		if failure.IsKind(err, failure.UnsupportedPlatform) {
			status = http.StatusNotImplemented
		}
		http.Error(w, err.Error(), status)
		return
	}
	writeJSONResponse(w, value)
}

func (s *factsServer) handleReport(w http.ResponseWriter, r *http.Request) {
	gen, err := graphing.NewGenerator([]exporting.Record{sample(s.manager)}, logger)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	var buf strings.Builder
	if err := gen.Generate(&buf); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprint(w, buf.String())
}

func writeJSONResponse(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	if err := writeJSON(w, data); err != nil {
		http.Error(w, fmt.Sprintf("JSON error: %v", err), http.StatusInternalServerError)
	}
}

func contentType(format string) string {
	switch format {
	case "json":
		return "application/json"
	case "jsonl":
		return "application/x-ndjson"
	case "yaml":
		return "application/yaml"
	case "cbor":
		return "application/cbor"
	case "csv":
		return "text/csv"
	case "tsv":
		return "text/tab-separated-values"
	default:
		return "application/octet-stream"
	}
}
