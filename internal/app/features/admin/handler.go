// internal/app/features/admin/handler.go
package admin

import (
	auditstore "github.com/dalemusser/yieldhub/internal/app/store/audit"
	depositstore "github.com/dalemusser/yieldhub/internal/app/store/deposits"
	investmentstore "github.com/dalemusser/yieldhub/internal/app/store/investments"
	profitstore "github.com/dalemusser/yieldhub/internal/app/store/profits"
	settingsstore "github.com/dalemusser/yieldhub/internal/app/store/settings"
	userstore "github.com/dalemusser/yieldhub/internal/app/store/users"
	withdrawalstore "github.com/dalemusser/yieldhub/internal/app/store/withdrawals"
	"github.com/dalemusser/yieldhub/internal/app/system/auditlog"
	"github.com/dalemusser/yieldhub/internal/app/system/distribution"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves the admin console: review queues, user management,
// and the manual distribution trigger.
type Handler struct {
	Users       *userstore.Store
	Investments *investmentstore.Store
	Profits     *profitstore.Store
	Deposits    *depositstore.Store
	Withdrawals *withdrawalstore.Store
	Settings    *settingsstore.Store
	Audit       *auditstore.Store
	Engine      *distribution.Engine
	Client      *mongo.Client
	AuditLog    *auditlog.Logger
	Log         *zap.Logger
}

func NewHandler(db *mongo.Database, client *mongo.Client, engine *distribution.Engine, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		Users:       userstore.New(db),
		Investments: investmentstore.New(db),
		Profits:     profitstore.New(db),
		Deposits:    depositstore.New(db),
		Withdrawals: withdrawalstore.New(db),
		Settings:    settingsstore.New(db),
		Audit:       auditstore.New(db),
		Engine:      engine,
		Client:      client,
		AuditLog:    audit,
		Log:         logger,
	}
}
