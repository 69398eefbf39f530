package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/shindo-cli/pkg/shindo"
)

var (
	servePort    int
	servePreload bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the database as a local JSON gateway",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if err := cfg.Validate("serve"); err != nil {
			return err
		}

		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

		client, err := newClient(shindo.WithMetrics(shindo.NewMetrics(reg)))
		if err != nil {
			return err
		}

		if servePreload {
			if err := client.Resolver().Preload(ctx); err != nil {
				return eris.Wrap(err, "serve: preload code tables")
			}
			zap.L().Info("code tables preloaded")
		}

		router := buildRouter(client, reg, cfg.Server.AllowedOrigins)
		return startServer(ctx, router, resolvePort(servePort, cfg.Server.Port))
	},
}

// resolvePort prefers the flag value over the configured port.
func resolvePort(flag, configured int) int {
	if flag != 0 {
		return flag
	}
	return configured
}

func startServer(ctx context.Context, handler http.Handler, port int) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		<-ctx.Done()
		zap.L().Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	zap.L().Info("starting server", zap.Int("port", port))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return eris.Wrap(err, "server listen")
	}
	return nil
}

const requestIDHeader = "X-Request-Id"

// requestID tags each request with a UUID, reusing the caller's if present.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)
		ctx := context.WithValue(r.Context(), middleware.RequestIDKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		zap.L().Debug("request",
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("elapsed", time.Since(start)),
		)
	})
}

func buildRouter(client shindo.Client, gatherer prometheus.Gatherer, origins []string) http.Handler {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(accessLog)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		ExposedHeaders: []string{requestIDHeader},
		MaxAge:         300,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	h := &gateway{client: client}
	r.Route("/v1", func(r chi.Router) {
		r.Get("/earthquakes", h.earthquakes)
		r.Get("/statistics", h.statistics)
		r.Get("/intensity/{id}", h.intensity)
		r.Get("/codes/{table}", h.codes)
	})
	return r
}

type gateway struct {
	client shindo.Client
}

func (g *gateway) earthquakes(w http.ResponseWriter, r *http.Request) {
	in := queryFromValues(r.URL.Query())
	q, err := in.query()
	if err != nil {
		writeError(w, r, err)
		return
	}
	eqs, err := g.client.SearchEarthquakes(r.Context(), shindo.SearchParams{
		Query: q,
		Sort:  shindo.SortOrder(r.URL.Query().Get("sort")),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"count":       len(eqs),
		"truncated":   len(eqs) >= shindo.MaxRows,
		"earthquakes": nonNil(eqs),
	})
}

func (g *gateway) statistics(w http.ResponseWriter, r *http.Request) {
	in := queryFromValues(r.URL.Query())
	q, err := in.query()
	if err != nil {
		writeError(w, r, err)
		return
	}
	buckets, summary, err := g.client.Statistics(r.Context(), shindo.StatisticsParams{
		Query:       q,
		Aggregation: shindo.Aggregation(r.URL.Query().Get("method")),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"buckets": nonNil(buckets),
		"summary": summary,
	})
}

func (g *gateway) intensity(w http.ResponseWriter, r *http.Request) {
	obs, eq, err := g.client.Intensities(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"earthquake":   eq,
		"observations": nonNil(obs),
	})
}

func (g *gateway) codes(w http.ResponseWriter, r *http.Request) {
	t, err := parseTable(chi.URLParam(r, "table"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	var code int
	if s := r.URL.Query().Get("code"); s != "" {
		if code, err = strconv.Atoi(s); err != nil {
			writeError(w, r, eris.Wrapf(shindo.ErrInvalidParams, "code %q is not an integer", s))
			return
		}
	}
	entries, err := lookupCodes(r.Context(), g.client.Resolver(), t, r.URL.Query().Get("name"), code)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"table":   t,
		"entries": entries,
	})
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

// statusFor maps client errors onto gateway responses.
func statusFor(err error) int {
	switch {
	case shindo.IsBadRequest(err), errors.Is(err, shindo.ErrInvalidParams):
		return http.StatusBadRequest
	case errors.Is(err, shindo.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusBadGateway
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		zap.L().Error("gateway request failed",
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	serveCmd.Flags().BoolVar(&servePreload, "preload", false, "fetch the city, station and region tables before listening")
	rootCmd.AddCommand(serveCmd)
}
