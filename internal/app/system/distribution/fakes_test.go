package distribution

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/yieldhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// In-memory stand-ins for the Mongo stores. Each fake keeps just enough
// state to assert on and can be told to fail specific operations.

type fakeInvestments struct {
	eligible  []models.Investment
	applied   map[primitive.ObjectID]float64 // id -> summed profit
	selectErr error
	applyErr  map[primitive.ObjectID]error
}

func newFakeInvestments(eligible ...models.Investment) *fakeInvestments {
	return &fakeInvestments{
		eligible: eligible,
		applied:  make(map[primitive.ObjectID]float64),
		applyErr: make(map[primitive.ObjectID]error),
	}
}

func (f *fakeInvestments) EligibleForDistribution(ctx context.Context) ([]models.Investment, error) {
	if f.selectErr != nil {
		return nil, f.selectErr
	}
	return f.eligible, nil
}

func (f *fakeInvestments) ApplyProfit(ctx context.Context, id primitive.ObjectID, profit float64, at time.Time) error {
	if err := f.applyErr[id]; err != nil {
		return err
	}
	f.applied[id] += profit
	return nil
}

type fakeProfits struct {
	records   []models.DailyProfitRecord
	createErr error
}

func (f *fakeProfits) ExistsForDate(ctx context.Context, investmentID primitive.ObjectID, date string) (bool, error) {
	for _, r := range f.records {
		if r.InvestmentID == investmentID && r.Date == date {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeProfits) Create(ctx context.Context, rec models.DailyProfitRecord) (models.DailyProfitRecord, error) {
	if f.createErr != nil {
		return models.DailyProfitRecord{}, f.createErr
	}
	rec.ID = primitive.NewObjectID()
	f.records = append(f.records, rec)
	return rec, nil
}

type credit struct {
	userID primitive.ObjectID
	amount float64
}

type fakeBalances struct {
	profits       []credit
	commissions   []credit
	commissionErr map[primitive.ObjectID]error
}

func newFakeBalances() *fakeBalances {
	return &fakeBalances{commissionErr: make(map[primitive.ObjectID]error)}
}

func (f *fakeBalances) CreditProfit(ctx context.Context, userID primitive.ObjectID, amount float64, at time.Time) error {
	f.profits = append(f.profits, credit{userID, amount})
	return nil
}

func (f *fakeBalances) CreditCommission(ctx context.Context, userID primitive.ObjectID, amount float64, at time.Time) error {
	if err := f.commissionErr[userID]; err != nil {
		return err
	}
	f.commissions = append(f.commissions, credit{userID, amount})
	return nil
}

func (f *fakeBalances) commissionTotalFor(userID primitive.ObjectID) float64 {
	var sum float64
	for _, c := range f.commissions {
		if c.userID == userID {
			sum += c.amount
		}
	}
	return sum
}

// fakeReferrals holds referred -> referrer edges.
type fakeReferrals struct {
	parent map[primitive.ObjectID]primitive.ObjectID
}

func newFakeReferrals() *fakeReferrals {
	return &fakeReferrals{parent: make(map[primitive.ObjectID]primitive.ObjectID)}
}

// refer records that referrer referred referred.
func (f *fakeReferrals) refer(referrer, referred primitive.ObjectID) {
	f.parent[referred] = referrer
}

func (f *fakeReferrals) ReferrerOf(ctx context.Context, referredID primitive.ObjectID) (*models.ReferralEdge, error) {
	referrer, ok := f.parent[referredID]
	if !ok {
		return nil, nil
	}
	return &models.ReferralEdge{
		ReferrerID: referrer,
		ReferredID: referredID,
		Level:      1,
	}, nil
}

type fakeCommissions struct {
	records   []models.ReferralCommissionRecord
	createErr error
}

func (f *fakeCommissions) Create(ctx context.Context, rec models.ReferralCommissionRecord) (models.ReferralCommissionRecord, error) {
	if f.createErr != nil {
		return models.ReferralCommissionRecord{}, f.createErr
	}
	rec.ID = primitive.NewObjectID()
	f.records = append(f.records, rec)
	return rec, nil
}

type fakeSettings struct {
	marks []string // run IDs
}

func (f *fakeSettings) MarkDistribution(ctx context.Context, runID string, at time.Time) error {
	f.marks = append(f.marks, runID)
	return nil
}

// harness bundles the fakes with a ready engine.
type harness struct {
	investments *fakeInvestments
	profits     *fakeProfits
	balances    *fakeBalances
	referrals   *fakeReferrals
	commissions *fakeCommissions
	settings    *fakeSettings
	engine      *Engine
}

func newHarness(eligible ...models.Investment) *harness {
	h := &harness{
		investments: newFakeInvestments(eligible...),
		profits:     &fakeProfits{},
		balances:    newFakeBalances(),
		referrals:   newFakeReferrals(),
		commissions: &fakeCommissions{},
		settings:    &fakeSettings{},
	}
	h.engine = NewEngine(Deps{
		Investments: h.investments,
		Profits:     h.profits,
		Balances:    h.balances,
		Referrals:   h.referrals,
		Commissions: h.commissions,
		Settings:    h.settings,
	}, zapNop())
	return h
}

var errBoom = errors.New("boom")
