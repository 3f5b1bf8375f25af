// internal/app/features/withdrawals/handler.go
package withdrawals

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	depositsfeature "github.com/dalemusser/yieldhub/internal/app/features/deposits"
	userstore "github.com/dalemusser/yieldhub/internal/app/store/users"
	withdrawalstore "github.com/dalemusser/yieldhub/internal/app/store/withdrawals"
	"github.com/dalemusser/yieldhub/internal/app/system/auditlog"
	"github.com/dalemusser/yieldhub/internal/app/system/authz"
	"github.com/dalemusser/yieldhub/internal/app/system/normalize"
	"github.com/dalemusser/yieldhub/internal/app/system/respond"
	"github.com/dalemusser/yieldhub/internal/app/system/timeouts"
	"github.com/dalemusser/yieldhub/internal/app/system/txn"
	"github.com/dalemusser/yieldhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// MinWithdrawal keeps dust requests out of the review queue.
const MinWithdrawal = 10.0

type Handler struct {
	Users       *userstore.Store
	Withdrawals *withdrawalstore.Store
	Client      *mongo.Client
	AuditLog    *auditlog.Logger
	Log         *zap.Logger
}

func NewHandler(db *mongo.Database, client *mongo.Client, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		Users:       userstore.New(db),
		Withdrawals: withdrawalstore.New(db),
		Client:      client,
		AuditLog:    audit,
		Log:         logger,
	}
}

type createRequest struct {
	Amount  float64 `json:"amount"`
	Address string  `json:"address"`
	Note    string  `json:"note,omitempty"`
}

// Create handles POST /withdrawals.
//
// The amount is reserved out of the available balance up front, with a
// guarded decrement that fails when funds are short. Reserve and
// request document are written in one transaction where the deployment
// supports it, so a crash cannot strand a reservation without a
// request to release it.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := authz.CurrentUserID(r)
	if !ok {
		respond.Unauthorized(w)
		return
	}

	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Amount < MinWithdrawal {
		respond.Error(w, http.StatusBadRequest, "amount is below the minimum withdrawal")
		return
	}
	address := strings.TrimSpace(req.Address)
	if address == "" {
		respond.Error(w, http.StatusBadRequest, "address is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	now := time.Now().UTC()
	var created models.Withdrawal
	err := txn.WithTransaction(ctx, h.Client, h.Log, func(ctx context.Context) error {
		if err := h.Users.ReserveWithdrawal(ctx, userID, req.Amount); err != nil {
			return err
		}
		var err error
		created, err = h.Withdrawals.Create(ctx, models.Withdrawal{
			UserID:    userID,
			Amount:    req.Amount,
			Address:   address,
			Note:      normalize.Text(req.Note),
			Reference: depositsfeature.NewReference("WDL"),
			CreatedAt: now,
			UpdatedAt: now,
		})
		return err
	})
	if errors.Is(err, userstore.ErrInsufficientFunds) {
		respond.Error(w, http.StatusUnprocessableEntity, "insufficient available balance")
		return
	}
	if err != nil {
		h.Log.Error("withdrawals: create failed", zap.Error(err))
		respond.Internal(w)
		return
	}

	respond.JSON(w, http.StatusCreated, created)
}

// List handles GET /withdrawals: the caller's own requests, newest first.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := authz.CurrentUserID(r)
	if !ok {
		respond.Unauthorized(w)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	ws, err := h.Withdrawals.ListByUser(ctx, userID)
	if err != nil {
		h.Log.Error("withdrawals: list failed", zap.Error(err))
		respond.Internal(w)
		return
	}
	respond.JSON(w, http.StatusOK, ws)
}
