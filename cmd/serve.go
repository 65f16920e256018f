package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/openforis/whisp-go/internal/model"
	"github.com/openforis/whisp-go/internal/risk"
	"github.com/openforis/whisp-go/internal/store"
	"github.com/openforis/whisp-go/internal/table"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the classification pipeline over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		params, err := riskParams(cfg.Risk)
		if err != nil {
			return err
		}

		ledger, err := openLedger(ctx)
		if err != nil {
			return err
		}
		defer func() { _ = ledger.Close() }()

		r := chi.NewRouter()
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: cfg.Server.AllowedOrigins,
			AllowedMethods: []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders: []string{"Content-Type"},
		}))
		r.Use(rateLimit(rate.Limit(cfg.Server.RateLimit), cfg.Server.RateBurst))

		r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		})

		r.Post("/v1/risk", func(w http.ResponseWriter, req *http.Request) {
			handleRisk(w, req, params, ledger)
		})

		r.Get("/v1/runs", func(w http.ResponseWriter, req *http.Request) {
			runs, err := ledger.ListRuns(req.Context(), store.RunFilter{Limit: 50})
			if err != nil {
				zap.L().Error("serve: list runs", zap.Error(err))
				writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "list runs failed"})
				return
			}
			writeJSON(w, http.StatusOK, runs)
		})

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: r,
		}

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			srv.Shutdown(ctx)
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

// handleRisk classifies a CSV table posted in the request body and
// returns the classified table as CSV.
func handleRisk(w http.ResponseWriter, req *http.Request, params risk.Params, ledger store.Store) {
	t, err := table.ReadCSV(req.Body)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": eris.ToString(err, false)})
		return
	}

	classified, err := risk.Classify(t, params)
	if err != nil {
		if eris.Is(err, risk.ErrThresholdRange) {
			writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": eris.ToString(err, false)})
			return
		}
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": eris.ToString(err, false)})
		return
	}

	source := "http"
	if name := req.Header.Get("X-Source-Name"); name != "" {
		source = filepath.Base(name)
	}

	low, moreInfo, high, err := risk.Distribution(classified)
	if err == nil {
		run := &model.Run{
			Input:    source,
			Rows:     classified.NumRows(),
			UnitMode: string(params.UnitMode),
			Low:      low,
			MoreInfo: moreInfo,
			High:     high,
		}
		for i, ind := range params.Indicators {
			run.Thresholds[i] = ind.Threshold
		}
		if saveErr := ledger.SaveRun(req.Context(), run); saveErr != nil {
			zap.L().Warn("serve: record run", zap.Error(saveErr))
		}
	}

	w.Header().Set("Content-Type", "text/csv")
	w.WriteHeader(http.StatusOK)
	if err := classified.WriteCSV(w); err != nil {
		zap.L().Error("serve: write response", zap.Error(err))
	}
}

// rateLimit rejects requests beyond the configured request rate with 429.
func rateLimit(limit rate.Limit, burst int) func(http.Handler) http.Handler {
	limiter := rate.NewLimiter(limit, burst)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			if !limiter.Allow() {
				writeJSON(w, http.StatusTooManyRequests, map[string]string{"error": "rate limit exceeded"})
				return
			}
			next.ServeHTTP(w, req)
		})
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
