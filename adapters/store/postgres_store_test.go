package store

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/layer-3/amicbridge/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRow struct {
	record core.TrustRecord
	err    error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	*dest[0].(*string) = r.record.WalletAddress
	*dest[1].(*bool) = r.record.VerifiedWallet
	*dest[2].(*bool) = r.record.VerifiedID
	*dest[3].(*int) = r.record.CompletedLoans
	*dest[4].(*int) = r.record.LateRepayments
	*dest[5].(*int) = r.record.Defaults
	return nil
}

type fakeQuerier struct {
	row  fakeRow
	args []any
}

func (q *fakeQuerier) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	q.args = args
	return q.row
}

func TestPostgresStoreFound(t *testing.T) {
	record := core.TrustRecord{WalletAddress: "0xAbC", VerifiedWallet: true, CompletedLoans: 2, Defaults: 1}
	q := &fakeQuerier{row: fakeRow{record: record}}

	got, err := NewPostgresStore(q).GetTrustRecord(context.Background(), "0xABC")
	require.NoError(t, err)
	assert.Equal(t, record, got)
	assert.Equal(t, []any{"0xabc"}, q.args)
}

func TestPostgresStoreNotFound(t *testing.T) {
	q := &fakeQuerier{row: fakeRow{err: pgx.ErrNoRows}}

	_, err := NewPostgresStore(q).GetTrustRecord(context.Background(), "0xabc")
	assert.ErrorIs(t, err, core.ErrRecordNotFound)
}

func TestPostgresStoreQueryError(t *testing.T) {
	boom := errors.New("connection reset")
	q := &fakeQuerier{row: fakeRow{err: boom}}

	_, err := NewPostgresStore(q).GetTrustRecord(context.Background(), "0xabc")
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, core.ErrRecordNotFound)
}
