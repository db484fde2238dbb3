package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jonathan/resume-builder/internal/types"
)

// GetEntitlement returns the billing state of a user. Returns nil, nil when the user
// does not exist.
func (db *DB) GetEntitlement(ctx context.Context, userID uuid.UUID) (*types.Entitlement, error) {
	ent := types.Entitlement{UserID: userID}
	var customerID, subscriptionID *string
	err := db.pool.QueryRow(ctx,
		`SELECT is_pro, stripe_customer_id, stripe_subscription_id, subscription_status
		 FROM users WHERE id = $1`,
		userID,
	).Scan(&ent.IsPro, &customerID, &subscriptionID, &ent.SubscriptionStatus)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get entitlement: %w", err)
	}
	if customerID != nil {
		ent.CustomerID = *customerID
	}
	if subscriptionID != nil {
		ent.SubscriptionID = *subscriptionID
	}
	return &ent, nil
}

// FindUserByCustomer returns the user linked to a payment customer id, or uuid.Nil
func (db *DB) FindUserByCustomer(ctx context.Context, customerID string) (uuid.UUID, error) {
	if customerID == "" {
		return uuid.Nil, nil
	}
	var id uuid.UUID
	err := db.pool.QueryRow(ctx, `SELECT id FROM users WHERE stripe_customer_id = $1`, customerID).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return uuid.Nil, nil
		}
		return uuid.Nil, fmt.Errorf("failed to find user by customer: %w", err)
	}
	return id, nil
}

// SetEntitlement overwrites the billing columns of the user
func (db *DB) SetEntitlement(ctx context.Context, ent types.Entitlement) error {
	_, err := db.pool.Exec(ctx,
		`UPDATE users
		 SET is_pro = $2, stripe_customer_id = $3, stripe_subscription_id = $4,
		     subscription_status = $5, updated_at = NOW()
		 WHERE id = $1`,
		ent.UserID, ent.IsPro, nullable(ent.CustomerID), nullable(ent.SubscriptionID), ent.SubscriptionStatus,
	)
	if err != nil {
		return fmt.Errorf("failed to set entitlement: %w", err)
	}
	return nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
