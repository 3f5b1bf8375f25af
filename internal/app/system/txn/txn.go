// Package txn wraps multi-document MongoDB transactions with a fallback
// for deployments that do not support them (standalone servers, some
// managed DocumentDB tiers). Callers pass a function that performs the
// writes; when transactions are unavailable the writes run sequentially
// outside a session, which is why write order inside fn matters (audit
// record first, then investment, then balance).
package txn

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// WithTransaction runs fn inside a multi-document transaction when the
// deployment supports it. If the server rejects sessions/transactions,
// it re-runs fn without one and logs the downgrade once per call. Any
// other error from fn is returned as-is.
func WithTransaction(ctx context.Context, client *mongo.Client, log *zap.Logger, fn func(ctx context.Context) error) error {
	sess, err := client.StartSession()
	if err != nil {
		if IsNotSupported(err) {
			log.Debug("sessions unavailable, running writes without transaction")
			return fn(ctx)
		}
		return err
	}
	defer sess.EndSession(ctx)

	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	if err != nil && IsNotSupported(err) {
		log.Debug("transactions unavailable, running writes without transaction")
		return fn(ctx)
	}
	return err
}

// Mongo error codes returned when the topology cannot run transactions.
const (
	codeTransactionNumbers = 20  // "Transaction numbers are only allowed on a replica set member"
	codeIllegalOperation   = 51
	codeNoSuchTransaction  = 263
)

// IsNotSupported reports whether err indicates the deployment cannot run
// multi-document transactions, as opposed to a transaction that failed.
func IsNotSupported(err error) bool {
	if err == nil {
		return false
	}

	var ce mongo.CommandError
	if errors.As(err, &ce) {
		switch ce.Code {
		case codeTransactionNumbers, codeIllegalOperation, codeNoSuchTransaction:
			return true
		}
	}

	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "transaction") && strings.Contains(msg, "replica set") {
		return true
	}
	if strings.Contains(msg, "session") && strings.Contains(msg, "not supported") {
		return true
	}
	return false
}
