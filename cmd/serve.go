package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/shanewin/falkor-rentalintel/internal/cache"
	"github.com/shanewin/falkor-rentalintel/internal/matcher"
	"github.com/shanewin/falkor-rentalintel/internal/model"
	"github.com/shanewin/falkor-rentalintel/internal/risk"
	"github.com/shanewin/falkor-rentalintel/internal/store"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the scoring API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		engine, err := matcher.NewEngine(cfg.Match)
		if err != nil {
			return err
		}
		scorer, err := risk.NewScorer(cfg.Risk)
		if err != nil {
			return err
		}

		st, err := store.Open(ctx, cfg.Store)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck
		if err := st.Migrate(ctx); err != nil {
			return err
		}

		api := &apiServer{
			engine: engine,
			scorer: scorer,
			store:  st,
			cache:  cache.New(),
		}

		r := chi.NewRouter()
		r.Use(middleware.RequestID)
		r.Use(middleware.RealIP)
		r.Use(middleware.Recoverer)
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: cfg.Server.AllowedOrigins,
			AllowedMethods: []string{"GET", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Content-Type"},
			MaxAge:         300,
		}))
		r.Use(rateLimit(rate.Limit(cfg.Server.RatePerSecond), cfg.Server.RateBurst))

		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		})
		r.Route("/v1/applicants/{id}", func(r chi.Router) {
			r.Get("/matches", api.handleMatches)
			r.Get("/insights", api.handleInsights)
		})

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           r,
			ReadHeaderTimeout: 10 * time.Second,
		}

		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}

type apiServer struct {
	engine *matcher.Engine
	scorer *risk.Scorer
	store  store.Store
	cache  *cache.ResultCache
}

func (s *apiServer) handleMatches(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	applicant, err := s.store.GetApplicant(r.Context(), id)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	listings, err := s.store.ListListings(r.Context(), store.ListingFilter{Status: model.ListingAvailable})
	if err != nil {
		writeStoreError(w, err)
		return
	}

	prefs := matcher.Normalize(applicant)
	key := matcher.CacheKey(&prefs, listings)
	results := s.cache.GetOrCompute(key, func() []model.MatchResult {
		return s.engine.Match(prefs, listings)
	})

	writeJSON(w, http.StatusOK, map[string]any{
		"applicant_id": id,
		"count":        len(results),
		"matches":      results,
	})
}

func (s *apiServer) handleInsights(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	applicant, err := s.store.GetApplicant(r.Context(), id)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	report := s.scorer.Assess(applicant)
	writeJSON(w, http.StatusOK, report)
}

// rateLimit keys one token bucket per client IP (RealIP runs earlier in the
// chain). Requests over the limit get 429 rather than queueing.
func rateLimit(limit rate.Limit, burst int) func(http.Handler) http.Handler {
	var mu sync.Mutex
	limiters := make(map[string]*rate.Limiter)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			host, _, err := net.SplitHostPort(r.RemoteAddr)
			if err != nil {
				host = r.RemoteAddr
			}

			mu.Lock()
			limiter, ok := limiters[host]
			if !ok {
				limiter = rate.NewLimiter(limit, burst)
				limiters[host] = limiter
			}
			mu.Unlock()

			if !limiter.Allow() {
				writeJSON(w, http.StatusTooManyRequests, map[string]string{"error": "rate limit exceeded"})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeStoreError(w http.ResponseWriter, err error) {
	if eris.Is(err, store.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
		return
	}
	zap.L().Error("store error", zap.Error(err))
	writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
}
