// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	authgooglefeature "github.com/dalemusser/lexhub/internal/app/features/authgoogle"
	casesfeature "github.com/dalemusser/lexhub/internal/app/features/cases"
	grantsfeature "github.com/dalemusser/lexhub/internal/app/features/grants"
	healthfeature "github.com/dalemusser/lexhub/internal/app/features/health"
	loginfeature "github.com/dalemusser/lexhub/internal/app/features/login"
	logoutfeature "github.com/dalemusser/lexhub/internal/app/features/logout"
	teamsfeature "github.com/dalemusser/lexhub/internal/app/features/teams"
	userinfofeature "github.com/dalemusser/lexhub/internal/app/features/userinfo"
	auditstore "github.com/dalemusser/lexhub/internal/app/store/audit"
	userstore "github.com/dalemusser/lexhub/internal/app/store/users"
	"github.com/dalemusser/lexhub/internal/app/system/access"
	"github.com/dalemusser/lexhub/internal/app/system/auditlog"
	"github.com/dalemusser/lexhub/internal/app/system/auth"
	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed. At this point you have access to:
//   - coreCfg: WAFFLE core configuration (ports, env, timeouts, etc.)
//   - appCfg: app-specific configuration defined in AppConfig
//   - deps: any DB or backend clients bundled in DBDeps
//   - logger: the fully configured zap.Logger for this app
//
// LexHub initializes the session store, builds the access guard and the
// audit logger, and mounts the JSON feature routers: health, userinfo,
// authentication, cases (with nested grant administration), and teams.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	db := deps.LexHubMongoDatabase

	// Session cookies. Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	if err := auth.InitSessionStore(appCfg.SessionKey, appCfg.SessionDomain, secure, logger); err != nil {
		logger.Error("session store init failed", zap.Error(err))
		return nil, err
	}

	// Refresh the session user from the database on each request so
	// disabled accounts and renames take effect immediately.
	auth.SetUserFetcher(userstore.NewFetcher(db))

	// Access guard: the one authorization path every case endpoint uses.
	guard := access.NewGuard(db, logger)

	// Audit logger (MongoDB + zap, levels per config).
	audit := auditlog.New(auditstore.New(db), logger, auditlog.Config{
		Auth:   appCfg.AuditLogAuth,
		Access: appCfg.AuditLogAccess,
	})

	r := chi.NewRouter()

	// Global auth middleware: loads SessionUser into context if logged in.
	r.Use(auth.LoadSessionUser)

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.LexHubMongoClient, logger)
	r.Get("/health", healthHandler.Serve)

	// Session introspection
	userinfoHandler := userinfofeature.NewHandler()
	r.Get("/userinfo", userinfoHandler.ServeUserInfo)

	// Authentication
	loginHandler := loginfeature.NewHandler(db, audit, logger)
	r.Mount("/login", loginfeature.Routes(loginHandler))

	logoutHandler := logoutfeature.NewHandler(audit, logger)
	r.Mount("/logout", logoutfeature.Routes(logoutHandler))

	googleHandler := authgooglefeature.NewHandler(db, audit,
		appCfg.GoogleClientID, appCfg.GoogleClientSecret, appCfg.BaseURL, logger)
	r.Mount("/auth/google", authgooglefeature.Routes(googleHandler))

	// Cases, with grant administration nested under each case
	grantsHandler := grantsfeature.NewHandler(db, guard, audit, logger)
	casesHandler := casesfeature.NewHandler(db, guard, audit, logger)
	r.Mount("/cases", casesfeature.Routes(casesHandler, grantsHandler))

	// Teams and membership
	teamsHandler := teamsfeature.NewHandler(db, audit, logger)
	r.Mount("/teams", teamsfeature.Routes(teamsHandler))

	return r, nil
}
