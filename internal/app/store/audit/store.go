// internal/app/store/audit/store.go
package audit

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Event categories
const (
	CategoryAuth         = "auth"
	CategoryAdmin        = "admin"
	CategoryDistribution = "distribution"
)

// Auth event types
const (
	EventLoginSuccess             = "login_success"
	EventLoginFailedUserNotFound  = "login_failed_user_not_found"
	EventLoginFailedWrongPassword = "login_failed_wrong_password"
	EventLoginFailedUserDisabled  = "login_failed_user_disabled"
	EventLogout                   = "logout"
	EventAccountRegistered        = "account_registered"
)

// Admin event types
const (
	EventDepositApproved       = "deposit_approved"
	EventDepositRejected       = "deposit_rejected"
	EventWithdrawalApproved    = "withdrawal_approved"
	EventWithdrawalRejected    = "withdrawal_rejected"
	EventInvestmentConfirmed   = "investment_confirmed"
	EventInvestmentRejected    = "investment_rejected"
	EventInvestmentDeactivated = "investment_deactivated"
	EventUserDisabled          = "user_disabled"
	EventUserEnabled           = "user_enabled"
)

// Distribution event types
const (
	EventDistributionStarted   = "distribution_started"
	EventDistributionCompleted = "distribution_completed"
	EventDistributionFailed    = "distribution_failed"
	EventManualDistribution    = "manual_distribution_triggered"
)

// Event represents an audit event.
type Event struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Timestamp time.Time          `bson:"timestamp"`

	// Event classification
	Category  string `bson:"category"`
	EventType string `bson:"event_type"`

	// Who
	UserID  *primitive.ObjectID `bson:"user_id,omitempty"`  // affected user
	ActorID *primitive.ObjectID `bson:"actor_id,omitempty"` // who performed the action

	// Context
	IP        string `bson:"ip,omitempty"`
	UserAgent string `bson:"user_agent,omitempty"`

	// Outcome
	Success       bool   `bson:"success"`
	FailureReason string `bson:"failure_reason,omitempty"`

	// Additional details (varies by event type)
	Details map[string]string `bson:"details,omitempty"`
}

// Store provides access to the audit_events collection.
type Store struct {
	c *mongo.Collection
}

// New creates a new audit store.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("audit_events")}
}

// Log writes one audit event. The timestamp is set if the caller left
// it zero.
func (s *Store) Log(ctx context.Context, event Event) error {
	if event.ID.IsZero() {
		event.ID = primitive.NewObjectID()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	_, err := s.c.InsertOne(ctx, event)
	return err
}

// ListRecent returns the most recent events for a category, newest first.
func (s *Store) ListRecent(ctx context.Context, category string, limit int64) ([]Event, error) {
	filter := bson.M{}
	if category != "" {
		filter["category"] = category
	}
	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []Event
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
