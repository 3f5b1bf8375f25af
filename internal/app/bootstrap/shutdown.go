// internal/app/bootstrap/shutdown.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// Shutdown stops background workers and tears down DB connections.
//
// Workers stop first so no distribution run starts against a client
// that is about to disconnect. Stop waits for an in-flight run to
// finish, so balances are never left half-credited by shutdown.
func Shutdown(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if scheduler != nil {
		logger.Info("stopping distribution scheduler")
		scheduler.Stop()
	}
	if jobRunner != nil {
		logger.Info("stopping background jobs")
		jobRunner.Stop()
	}

	if deps.YieldHubMongoClient != nil {
		logger.Info("disconnecting YieldHub MongoDB client")
		if err := deps.YieldHubMongoClient.Disconnect(ctx); err != nil {
			logger.Error("MongoDB disconnect failed", zap.Error(err))
			return err
		}
	}
	return nil
}
