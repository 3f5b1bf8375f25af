// internal/domain/models/plan.go
package models

// Plan is an investment tier with a fixed daily rate. Plans are a small
// fixed table, so they live in code rather than a collection.
type Plan struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	DailyRate float64 `json:"daily_rate"` // percent per day
	MinAmount float64 `json:"min_amount"`
	MaxAmount float64 `json:"max_amount"` // 0 means no cap
}

var plans = []Plan{
	{ID: "starter", Name: "Starter", DailyRate: 0.5, MinAmount: 50, MaxAmount: 999},
	{ID: "growth", Name: "Growth", DailyRate: 0.85, MinAmount: 1000, MaxAmount: 9999},
	{ID: "premium", Name: "Premium", DailyRate: 1.5, MinAmount: 10000, MaxAmount: 0},
}

// Plans returns all investment tiers in display order.
func Plans() []Plan {
	out := make([]Plan, len(plans))
	copy(out, plans)
	return out
}

// PlanByID returns the plan with the given ID and whether it exists.
func PlanByID(id string) (Plan, bool) {
	for _, p := range plans {
		if p.ID == id {
			return p, true
		}
	}
	return Plan{}, false
}

// Accepts reports whether amount falls within the plan's bounds.
func (p Plan) Accepts(amount float64) bool {
	if amount < p.MinAmount {
		return false
	}
	if p.MaxAmount > 0 && amount > p.MaxAmount {
		return false
	}
	return true
}
