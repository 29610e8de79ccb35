package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os/signal"
	"sort"
	"sync"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/employer-resolve/internal/employer"
	"github.com/sells-group/employer-resolve/internal/match"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP matching and resolution API",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate("serve"); err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		resolver := employer.NewResolver(st, matchConfig(), cfg.Match.Threshold)
		if err := resolver.Load(ctx); err != nil {
			return err
		}

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: newRouter(resolver),
		}

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			srv.Shutdown(ctx) //nolint:errcheck
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

// newRouter builds the API routes. The resolver is single-writer, so
// resolve requests are serialized behind a mutex.
func newRouter(resolver *employer.Resolver) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
	}))

	var resolveMu sync.Mutex

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Post("/match", func(w http.ResponseWriter, req *http.Request) {
		var body struct {
			NameA     string  `json:"name_a"`
			NameB     string  `json:"name_b"`
			Threshold float64 `json:"threshold"`
		}
		if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if body.NameA == "" || body.NameB == "" {
			writeError(w, http.StatusBadRequest, "name_a and name_b are required")
			return
		}
		threshold := body.Threshold
		if threshold <= 0 {
			threshold = cfg.Match.Threshold
		}

		out := matchOutput{
			Hybrid:  match.HybridMatch(body.NameA, body.NameB, threshold),
			Blocked: match.AreBlockingCandidates(body.NameA, body.NameB, matchConfig()),
		}
		for _, gen := range match.KeyGenerators() {
			out.Keys = append(out.Keys, match.MatchByKey(body.NameA, body.NameB, gen))
		}
		for _, scorer := range match.SimilarityScorers() {
			out.Scores = append(out.Scores, match.MatchByScore(body.NameA, body.NameB, scorer, threshold))
		}
		writeJSON(w, http.StatusOK, out)
	})

	r.Post("/candidates", func(w http.ResponseWriter, req *http.Request) {
		var body struct {
			Name  string   `json:"name"`
			Names []string `json:"names"`
		}
		if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if body.Name == "" || len(body.Names) == 0 {
			writeError(w, http.StatusBadRequest, "name and names are required")
			return
		}

		idx := match.BuildIndex(body.Names, matchConfig())
		candidates := make([]string, 0)
		for candidate := range idx.FindCandidates(body.Name) {
			candidates = append(candidates, candidate)
		}
		sort.Strings(candidates)
		writeJSON(w, http.StatusOK, map[string]any{
			"name":       body.Name,
			"candidates": candidates,
		})
	})

	r.Post("/resolve", func(w http.ResponseWriter, req *http.Request) {
		var body struct {
			Names  []string `json:"names"`
			Source string   `json:"source"`
		}
		if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if len(body.Names) == 0 {
			writeError(w, http.StatusBadRequest, "names is required")
			return
		}
		if body.Source == "" {
			body.Source = "api"
		}

		resolveMu.Lock()
		result, err := resolver.ResolveBatch(req.Context(), body.Names, body.Source)
		resolveMu.Unlock()
		if err != nil {
			zap.L().Error("api resolve failed", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "resolve failed")
			return
		}
		writeJSON(w, http.StatusOK, result)
	})

	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
