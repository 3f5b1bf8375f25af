// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dalemusser/waffle/config"
	userstore "github.com/dalemusser/yieldhub/internal/app/store/users"
	"github.com/dalemusser/yieldhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// Startup runs one-time application initialization after DB connections and
// schema setup are complete, but before the HTTP handler is built.
//
// YieldHub uses it to make sure the configured admin account exists, so a
// fresh deployment has someone who can approve deposits and trigger
// distributions.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if appCfg.AdminEmail != "" {
		if err := ensureAdmin(ctx, deps, appCfg.AdminEmail, appCfg.AdminPassword, logger); err != nil {
			return err
		}
	}
	return nil
}

// ensureAdmin promotes an existing account to admin, or creates one when
// no account with the configured email exists yet. Creation requires a
// password; promotion does not.
func ensureAdmin(ctx context.Context, deps DBDeps, email, password string, logger *zap.Logger) error {
	store := userstore.New(deps.YieldHubMongoDatabase)

	existing, err := store.GetByEmail(ctx, email)
	switch {
	case err == nil:
		if existing.IsAdmin() {
			return nil
		}
		if err := store.SetRole(ctx, existing.ID, models.RoleAdmin); err != nil {
			return fmt.Errorf("promote admin: %w", err)
		}
		logger.Info("promoted existing user to admin", zap.String("email", existing.Email))
		return nil

	case errors.Is(err, mongo.ErrNoDocuments):
		if password == "" {
			logger.Warn("admin_email set but account does not exist and admin_password is empty; skipping bootstrap",
				zap.String("email", email))
			return nil
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("hash admin password: %w", err)
		}
		now := time.Now().UTC()
		_, err = store.Create(ctx, models.User{
			FullName:     "Administrator",
			Email:        email,
			PasswordHash: string(hash),
			Role:         models.RoleAdmin,
			Status:       "active",
			ReferralCode: userstore.NewReferralCode(),
			CreatedAt:    now,
			UpdatedAt:    now,
		})
		if err != nil {
			return fmt.Errorf("create admin: %w", err)
		}
		logger.Info("created bootstrap admin account", zap.String("email", email))
		return nil

	default:
		return fmt.Errorf("lookup admin: %w", err)
	}
}
