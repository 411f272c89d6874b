// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"
	"time"

	"github.com/dalemusser/lexhub/internal/app/store/oauthstate"
	"github.com/dalemusser/lexhub/internal/app/system/workers"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// stateCleanup is started here and stopped from Shutdown.
var stateCleanup *workers.StateCleanup

// Startup runs one-time application initialization after DB connections and
// schema setup are complete, but before the HTTP handler is built. LexHub
// has no caches to warm; all per-request state is resolved from MongoDB.
// The only background work is the OAuth state sweeper.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	stateCleanup = workers.NewStateCleanup(
		oauthstate.New(deps.LexHubMongoDatabase), logger, 5*time.Minute)
	stateCleanup.Start()
	return nil
}
