// Package handler is the Vercel Go runtime entry point for the edge variant.
package handler

import (
	"net/http"
	"os"

	"go.uber.org/zap"

	"github.com/JakeFAU/gplay-api/internal/config"
	"github.com/JakeFAU/gplay-api/internal/edge"
	"github.com/JakeFAU/gplay-api/internal/httpio"
	"github.com/JakeFAU/gplay-api/internal/logging"
)

var defaultHandler http.Handler

func init() {
	cfg, err := config.Load(os.Getenv("GPLAY_CONFIG"))
	if err != nil {
		logging.MustNew(false).Error("edge config load failed", zap.Error(err))
		defaultHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			httpio.WriteError(w, http.StatusInternalServerError, "service misconfigured")
		})
		return
	}
	logger := logging.MustNew(cfg.Logging.Development)
	zap.ReplaceGlobals(logger)
	defaultHandler = edge.NewFromConfig(cfg, logger)
}

// Handler is the entry point for Vercel's Go runtime.
func Handler(w http.ResponseWriter, r *http.Request) {
	defaultHandler.ServeHTTP(w, r)
}
