package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/layer-3/amicbridge/core"
)

// Querier is the subset of pgxpool.Pool used by PostgresStore
type Querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresStore is a PostgreSQL implementation of the TrustRecordStore interface.
// It reads from the trust_records table owned by the user history service.
type PostgresStore struct {
	db Querier
}

// NewPostgresStore creates a new Postgres trust record store
func NewPostgresStore(db Querier) *PostgresStore {
	return &PostgresStore{db: db}
}

const selectTrustRecord = `
	SELECT wallet_address, verified_wallet, verified_id, completed_loans, late_repayments, defaults
	FROM trust_records
	WHERE lower(wallet_address) = $1`

// GetTrustRecord loads the record stored for walletAddress
func (s *PostgresStore) GetTrustRecord(ctx context.Context, walletAddress string) (core.TrustRecord, error) {
	var r core.TrustRecord
	err := s.db.QueryRow(ctx, selectTrustRecord, walletKey(walletAddress)).Scan(
		&r.WalletAddress, &r.VerifiedWallet, &r.VerifiedID, &r.CompletedLoans, &r.LateRepayments, &r.Defaults,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return core.TrustRecord{}, core.ErrRecordNotFound
		}
		return core.TrustRecord{}, fmt.Errorf("failed to query trust record: %w", err)
	}

	return r, nil
}

// NewPostgresPool configures a connection pool and verifies connectivity
func NewPostgresPool(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse postgres config: %w", err)
	}

	cfg.MaxConns = 10
	cfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	return pool, nil
}
