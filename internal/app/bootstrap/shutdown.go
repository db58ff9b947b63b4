// internal/app/bootstrap/shutdown.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// Shutdown is invoked during WAFFLE's shutdown phase, after the HTTP
// server has stopped accepting new requests.
//
// Order matters: close the gateway first so no new commands arrive,
// then drain the scheduler (which may still be deleting ephemeral
// messages), and disconnect MongoDB last.
func Shutdown(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	var firstErr error

	if bot != nil {
		logger.Info("closing discord gateway")
		if err := bot.Stop(); err != nil {
			logger.Warn("discord gateway did not close cleanly", zap.Error(err))
			if firstErr == nil {
				firstErr = err
			}
		}
	}

	if scheduler != nil {
		logger.Info("stopping background scheduler")
		if err := scheduler.Stop(ctx); err != nil {
			logger.Warn("background scheduler did not stop cleanly", zap.Error(err))
			if firstErr == nil {
				firstErr = err
			}
		}
	}

	if deps.MongoClient != nil {
		logger.Info("disconnecting MongoDB client")
		if err := deps.MongoClient.Disconnect(ctx); err != nil {
			logger.Error("MongoDB disconnect failed", zap.Error(err))
			if firstErr == nil {
				firstErr = err
			}
		}
	}

	return firstErr
}
