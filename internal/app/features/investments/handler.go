// internal/app/features/investments/handler.go
package investments

import (
	"context"
	"errors"
	"net/http"

	"github.com/dalemusser/yieldhub/internal/app/policy/reviewpolicy"
	investmentstore "github.com/dalemusser/yieldhub/internal/app/store/investments"
	profitstore "github.com/dalemusser/yieldhub/internal/app/store/profits"
	"github.com/dalemusser/yieldhub/internal/app/system/authz"
	"github.com/dalemusser/yieldhub/internal/app/system/respond"
	"github.com/dalemusser/yieldhub/internal/app/system/timeouts"
	"github.com/dalemusser/yieldhub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

const profitHistoryLimit = 90

type Handler struct {
	Investments *investmentstore.Store
	Profits     *profitstore.Store
	Log         *zap.Logger
}

func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{
		Investments: investmentstore.New(db),
		Profits:     profitstore.New(db),
		Log:         logger,
	}
}

// List handles GET /investments. Users see their own investments.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := authz.CurrentUserID(r)
	if !ok {
		respond.Unauthorized(w)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	invs, err := h.Investments.ListByUser(ctx, userID)
	if err != nil {
		h.Log.Error("investments: list failed", zap.Error(err))
		respond.Internal(w)
		return
	}
	respond.JSON(w, http.StatusOK, invs)
}

// Get handles GET /investments/{investmentID}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	inv, ok := h.loadOwned(w, r)
	if !ok {
		return
	}
	respond.JSON(w, http.StatusOK, inv)
}

// ProfitHistory handles GET /investments/{investmentID}/profits,
// returning the investment's daily profit records, newest first.
func (h *Handler) ProfitHistory(w http.ResponseWriter, r *http.Request) {
	inv, ok := h.loadOwned(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	recs, err := h.Profits.ListByInvestment(ctx, inv.ID, profitHistoryLimit)
	if err != nil {
		h.Log.Error("investments: profit history failed", zap.Error(err))
		respond.Internal(w)
		return
	}
	respond.JSON(w, http.StatusOK, recs)
}

// loadOwned fetches the investment in the URL and enforces ownership.
// It writes the error response itself when the second return is false.
func (h *Handler) loadOwned(w http.ResponseWriter, r *http.Request) (*models.Investment, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "investmentID"))
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid investment id")
		return nil, false
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	inv, err := h.Investments.GetByID(ctx, id)
	if errors.Is(err, mongo.ErrNoDocuments) {
		respond.Error(w, http.StatusNotFound, "investment not found")
		return nil, false
	}
	if err != nil {
		h.Log.Error("investments: load failed", zap.Error(err))
		respond.Internal(w)
		return nil, false
	}

	if !reviewpolicy.CanViewAccount(r, inv.UserID) {
		respond.Forbidden(w)
		return nil, false
	}
	return inv, true
}
