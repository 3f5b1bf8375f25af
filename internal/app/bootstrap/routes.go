// internal/app/bootstrap/routes.go
package bootstrap

import (
	"context"
	"net/http"
	"time"

	"github.com/dalemusser/waffle/config"
	adminfeature "github.com/dalemusser/yieldhub/internal/app/features/admin"
	depositsfeature "github.com/dalemusser/yieldhub/internal/app/features/deposits"
	earningsfeature "github.com/dalemusser/yieldhub/internal/app/features/earnings"
	healthfeature "github.com/dalemusser/yieldhub/internal/app/features/health"
	investmentsfeature "github.com/dalemusser/yieldhub/internal/app/features/investments"
	loginfeature "github.com/dalemusser/yieldhub/internal/app/features/login"
	logoutfeature "github.com/dalemusser/yieldhub/internal/app/features/logout"
	plansfeature "github.com/dalemusser/yieldhub/internal/app/features/plans"
	signupfeature "github.com/dalemusser/yieldhub/internal/app/features/signup"
	withdrawalsfeature "github.com/dalemusser/yieldhub/internal/app/features/withdrawals"
	auditstore "github.com/dalemusser/yieldhub/internal/app/store/audit"
	commissionstore "github.com/dalemusser/yieldhub/internal/app/store/commissions"
	investmentstore "github.com/dalemusser/yieldhub/internal/app/store/investments"
	profitstore "github.com/dalemusser/yieldhub/internal/app/store/profits"
	referralstore "github.com/dalemusser/yieldhub/internal/app/store/referrals"
	settingsstore "github.com/dalemusser/yieldhub/internal/app/store/settings"
	userstore "github.com/dalemusser/yieldhub/internal/app/store/users"
	"github.com/dalemusser/yieldhub/internal/app/system/auditlog"
	"github.com/dalemusser/yieldhub/internal/app/system/auth"
	"github.com/dalemusser/yieldhub/internal/app/system/distribution"
	"github.com/dalemusser/yieldhub/internal/app/system/tasks"
	"github.com/dalemusser/yieldhub/internal/app/system/txn"
	"github.com/dalemusser/yieldhub/internal/app/system/workers"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Background workers started in BuildHandler and stopped in Shutdown.
var (
	scheduler *workers.DistributionScheduler
	jobRunner *workers.JobRunner
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
// YieldHub builds the distribution engine here too, because both the HTTP
// surface (manual trigger) and the background scheduler drive the same
// engine instance.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	db := deps.YieldHubMongoDatabase
	client := deps.YieldHubMongoClient

	// Create the session manager using app config.
	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	// Set up the UserFetcher so LoadSessionUser fetches fresh user data on
	// each request. Role changes and disabled accounts take effect
	// immediately instead of at next login.
	sessionMgr.SetUserFetcher(userstore.NewFetcher(db))

	// Audit logger shared by auth, admin, and distribution surfaces.
	audit := auditlog.New(auditstore.New(db), logger, auditlog.Config{
		Auth:         appCfg.AuditLogAuth,
		Admin:        appCfg.AuditLogAdmin,
		Distribution: appCfg.AuditLogDistribution,
	})

	// Validated at startup; LoadLocation cannot fail here.
	loc, err := time.LoadLocation(appCfg.DistributionTimezone)
	if err != nil {
		return nil, err
	}

	usersStore := userstore.New(db)
	invStore := investmentstore.New(db)
	profStore := profitstore.New(db)

	engine := distribution.NewEngine(distribution.Deps{
		Investments: invStore,
		Profits:     profStore,
		Balances:    usersStore,
		Referrals:   referralstore.New(db),
		Commissions: commissionstore.New(db),
		Settings:    settingsstore.New(db),
		Txn: func(ctx context.Context, fn func(ctx context.Context) error) error {
			return txn.WithTransaction(ctx, client, logger, fn)
		},
		Location: loc,
	}, logger)

	// In-process daily scheduler. Disabled deployments trigger runs
	// through POST /admin/distributions instead.
	if appCfg.DistributionEnabled {
		scheduler = workers.NewDistributionScheduler(engine, audit, logger, appCfg.DistributionHour, appCfg.DistributionMinute, loc)
		scheduler.Start()
	}

	// Periodic reconciliation of the day's profit ledger.
	if appCfg.ReconcileInterval != "" {
		interval, err := time.ParseDuration(appCfg.ReconcileInterval)
		if err != nil {
			return nil, err
		}
		jobRunner = workers.NewJobRunner(logger,
			tasks.DistributionReconcileJob(invStore, profStore, logger, loc, interval))
		jobRunner.Start()
	}

	r := chi.NewRouter()

	// Global auth middleware: loads SessionUser into context if logged in.
	// This makes the current user available to all handlers via auth.CurrentUser(r).
	r.Use(sessionMgr.LoadSessionUser)

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(client, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Public: investment plan catalog
	plansHandler := plansfeature.NewHandler(logger)
	r.Mount("/plans", plansfeature.Routes(plansHandler))

	// Authentication
	signupHandler := signupfeature.NewHandler(db, sessionMgr, audit, logger)
	r.Mount("/signup", signupfeature.Routes(signupHandler))

	loginHandler := loginfeature.NewHandler(db, sessionMgr, audit, logger)
	r.Mount("/login", loginfeature.Routes(loginHandler))

	logoutHandler := logoutfeature.NewHandler(sessionMgr, audit, logger)
	r.Mount("/logout", logoutfeature.Routes(logoutHandler))

	// Investor surfaces
	invHandler := investmentsfeature.NewHandler(db, logger)
	r.Mount("/investments", investmentsfeature.Routes(invHandler, sessionMgr))

	earningsHandler := earningsfeature.NewHandler(db, appCfg.BaseURL, logger)
	r.Mount("/earnings", earningsfeature.Routes(earningsHandler, sessionMgr))

	depositsHandler := depositsfeature.NewHandler(db, audit, logger)
	r.Mount("/deposits", depositsfeature.Routes(depositsHandler, sessionMgr))

	withdrawalsHandler := withdrawalsfeature.NewHandler(db, client, audit, logger)
	r.Mount("/withdrawals", withdrawalsfeature.Routes(withdrawalsHandler, sessionMgr))

	// Admin surfaces: review queues, user management, manual distribution
	adminHandler := adminfeature.NewHandler(db, client, engine, audit, logger)
	r.Mount("/admin", adminfeature.Routes(adminHandler, sessionMgr))

	return r, nil
}
