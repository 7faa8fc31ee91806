package repository

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/translab/translab-api/pkg/apperror"
)

func TestTranslateLedgerError_LockTimeout(t *testing.T) {
	lockErr := &pgconn.PgError{Code: pgLockNotAvailable, Message: "canceling statement due to lock timeout"}

	// Bare and wrapped driver errors both surface as a retryable
	// concurrency failure, never as a silent no-op.
	for _, err := range []error{lockErr, fmt.Errorf("ledger: %w", lockErr)} {
		got := translateLedgerError(err)
		require.Error(t, got)
		assert.Equal(t, apperror.ErrConcurrency, got)
		assert.True(t, apperror.IsRetryable(got))
	}
}

func TestTranslateLedgerError_Passthrough(t *testing.T) {
	assert.NoError(t, translateLedgerError(nil))

	// Domain errors raised inside the transaction come back untouched.
	paymentErr := apperror.NewPaymentError("shortfall")
	assert.Equal(t, paymentErr, translateLedgerError(paymentErr))
	assert.False(t, apperror.IsRetryable(translateLedgerError(paymentErr)))

	// Other Postgres errors are not concurrency failures.
	uniqueErr := &pgconn.PgError{Code: "23505"}
	assert.Equal(t, uniqueErr, translateLedgerError(uniqueErr))

	plain := errors.New("connection reset")
	assert.Equal(t, plain, translateLedgerError(plain))
}
