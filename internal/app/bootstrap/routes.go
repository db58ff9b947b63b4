// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	healthfeature "github.com/dalemusser/clanboard/internal/app/features/health"
	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// The bot's real work happens over the Discord gateway; HTTP exists only
// for operational probes. The health endpoints report MongoDB
// connectivity plus the gateway session state.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)

	healthHandler := healthfeature.NewHandler(deps.MongoClient, gatewayConnected, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))
	healthfeature.MountRootEndpoints(r, healthHandler)

	return r, nil
}

// gatewayConnected reports the bot's gateway state for the health
// endpoints. The bot is built in Startup, which runs before
// BuildHandler, but the probe still tolerates a nil bot.
func gatewayConnected() bool {
	return bot != nil && bot.Connected()
}
