package cli

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"

	"github.com/formdeck/formdeck/pkg/cache"
	"github.com/formdeck/formdeck/pkg/errors"
	"github.com/formdeck/formdeck/pkg/export"
	"github.com/formdeck/formdeck/pkg/form"
	"github.com/formdeck/formdeck/pkg/store"
)

// serveCommand creates the "serve" command running the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve documents over HTTP",
		Long: `Serve runs the formdeck HTTP API:

  GET    /api/documents            list documents
  GET    /api/documents/{id}        fetch a document
  PUT    /api/documents/{id}        create or replace a document
  DELETE /api/documents/{id}        delete a document
  GET    /api/documents/{id}/export render a document (?format=html|dot|svg)
  GET    /healthz                   liveness probe`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}

			st, err := c.newStore(cmd, cfg)
			if err != nil {
				return err
			}
			defer st.Close()

			ar := c.newCache(cmd, cfg)
			defer ar.Close()

			srv := &apiServer{
				store:  st,
				cache:  ar,
				keyer:  cache.NewDefaultKeyer(),
				ttl:    cfg.Cache.TTL(),
				logger: c.Logger,
			}
			return srv.run(cmd.Context(), cfg.Server.Addr)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "", "listen address (overrides config)")
	return cmd
}

// apiServer holds the handler dependencies.
type apiServer struct {
	store  store.Store
	cache  cache.Cache
	keyer  cache.Keyer
	ttl    time.Duration
	logger *log.Logger
}

func (s *apiServer) run(ctx context.Context, addr string) error {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Route("/api/documents", func(r chi.Router) {
		r.Get("/", s.handleList)
		r.Get("/{id}", s.handleGet)
		r.Put("/{id}", s.handlePut)
		r.Delete("/{id}", s.handleDelete)
		r.Get("/{id}/export", s.handleExport)
	})

	httpSrv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- httpSrv.ListenAndServe() }()
	s.logger.Info("listening", "addr", addr)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return httpSrv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

func (s *apiServer) handleList(w http.ResponseWriter, r *http.Request) {
	sums, err := s.store.List(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, sums)
}

func (s *apiServer) handleGet(w http.ResponseWriter, r *http.Request) {
	doc, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, doc)
}

func (s *apiServer) handlePut(w http.ResponseWriter, r *http.Request) {
	doc, err := form.Read(r.Body)
	if err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeInvalidDocument, err, "parse body"))
		return
	}
	doc.ID = chi.URLParam(r, "id")
	if err := s.store.Put(r.Context(), doc); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"id": doc.ID})
}

func (s *apiServer) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *apiServer) handleExport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	formatStr := r.URL.Query().Get("format")
	if formatStr == "" {
		formatStr = "html"
	}
	format, err := export.ParseFormat(formatStr)
	if err != nil {
		s.writeError(w, err)
		return
	}

	doc, err := s.store.Get(ctx, chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}

	raw, err := form.Marshal(doc)
	if err != nil {
		s.writeError(w, err)
		return
	}
	key := s.keyer.ExportKey(cache.Hash(raw), cache.ExportKeyOpts{Format: string(format)})

	data, hit, err := s.cache.Get(ctx, key)
	if err != nil {
		s.logger.Debug("cache read failed", "err", err)
	}
	if !hit {
		data, err = export.Export(doc, format)
		if err != nil {
			s.writeError(w, err)
			return
		}
		if err := s.cache.Set(ctx, key, data, s.ttl); err != nil {
			s.logger.Debug("cache write failed", "err", err)
		}
	}

	w.Header().Set("Content-Type", contentType(format))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func contentType(format export.Format) string {
	switch format {
	case export.FormatHTML:
		return "text/html; charset=utf-8"
	case export.FormatSVG:
		return "image/svg+xml"
	default:
		return "text/plain; charset=utf-8"
	}
}

func (s *apiServer) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("encode response", "err", err)
	}
}

// writeError maps structured error codes to HTTP statuses and serves a
// small JSON body with the machine-readable code.
func (s *apiServer) writeError(w http.ResponseWriter, err error) {
	status := errors.HTTPStatus(err)
	if status >= 500 {
		s.logger.Error("request failed", "err", err)
	}
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	s.writeJSON(w, status, map[string]string{
		"code":  string(code),
		"error": errors.UserMessage(err),
	})
}
