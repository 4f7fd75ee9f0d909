package txmanager

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/HMS-AppointmentService/pkg/dbmetrics"
)

type fakeTx struct {
	commitErrs []error // По ошибке на попытку; исчерпание = успех
	attempt    *int
	rollbacks  *int
}

func (t *fakeTx) ExecContext(context.Context, string, ...interface{}) (sql.Result, error) {
	return nil, nil
}

func (t *fakeTx) QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error) {
	return nil, nil
}

func (t *fakeTx) QueryRowContext(context.Context, string, ...interface{}) *sql.Row {
	return nil
}

func (t *fakeTx) Commit() error {
	i := *t.attempt
	*t.attempt++
	if i < len(t.commitErrs) {
		return t.commitErrs[i]
	}
	return nil
}

func (t *fakeTx) Rollback() error {
	*t.rollbacks++
	return nil
}

type fakeBeginner struct {
	tx     *fakeTx
	begins int
}

func (b *fakeBeginner) BeginTx(context.Context, *sql.TxOptions) (dbmetrics.TxExecutor, error) {
	b.begins++
	return b.tx, nil
}

func serializationErr() error {
	return &pq.Error{Code: "40001", Message: "could not serialize access due to concurrent update"}
}

func newFakeBeginner(commitErrs ...error) (*fakeBeginner, *int, *int) {
	attempt, rollbacks := 0, 0
	tx := &fakeTx{commitErrs: commitErrs, attempt: &attempt, rollbacks: &rollbacks}
	return &fakeBeginner{tx: tx}, &attempt, &rollbacks
}

func TestDoSerializable_RetriesSerializationFailureAtCommit(t *testing.T) {
	beginner, attempts, _ := newFakeBeginner(serializationErr())
	m := NewTransactionManager(beginner)

	calls := 0
	err := m.DoSerializable(context.Background(), func(ctx context.Context) error {
		calls++
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 2, *attempts)
	assert.Equal(t, 2, calls)
}

func TestDoSerializable_GivesUpAfterMaxRetries(t *testing.T) {
	beginner, attempts, _ := newFakeBeginner(
		serializationErr(), serializationErr(), serializationErr(), serializationErr(),
	)
	m := NewTransactionManager(beginner)

	err := m.DoSerializable(context.Background(), func(ctx context.Context) error {
		return nil
	})

	require.Error(t, err)
	assert.Equal(t, maxSerializableRetries, *attempts)
	assert.ErrorIs(t, err, ErrTransaction)

	// Цепочка ошибок сохраняет *pq.Error, иначе retry-логика слепнет
	var pqErr *pq.Error
	require.True(t, errors.As(err, &pqErr))
	assert.Equal(t, pq.ErrorCode("40001"), pqErr.Code)
}

func TestDoSerializable_NonSerializationCommitErrorNotRetried(t *testing.T) {
	beginner, attempts, _ := newFakeBeginner(errors.New("connection reset"))
	m := NewTransactionManager(beginner)

	err := m.DoSerializable(context.Background(), func(ctx context.Context) error {
		return nil
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTransaction)
	assert.Equal(t, 1, *attempts)
}

func TestDoSerializable_RetriesSerializationFailureFromCallback(t *testing.T) {
	beginner, _, rollbacks := newFakeBeginner()
	m := NewTransactionManager(beginner)

	// Репозитории оборачивают ошибку драйвера через %w,
	// поэтому 40001 изнутри колбэка тоже должен уходить в повтор
	calls := 0
	err := m.DoSerializable(context.Background(), func(ctx context.Context) error {
		calls++
		if calls == 1 {
			return fmt.Errorf("repository: execute query: %w", serializationErr())
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	assert.Equal(t, 1, *rollbacks)
}

func TestDoSerializable_CallbackErrorPassedThrough(t *testing.T) {
	beginner, attempts, rollbacks := newFakeBeginner()
	m := NewTransactionManager(beginner)

	sentinel := errors.New("business rule violated")
	err := m.DoSerializable(context.Background(), func(ctx context.Context) error {
		return sentinel
	})

	assert.ErrorIs(t, err, sentinel)
	assert.Equal(t, 0, *attempts)
	assert.Equal(t, 1, *rollbacks)
}

func TestRun_ExecutorReachesCallbackContext(t *testing.T) {
	beginner, _, _ := newFakeBeginner()
	m := NewTransactionManager(beginner)

	err := m.Do(context.Background(), func(ctx context.Context) error {
		if !dbmetrics.IsInTransaction(ctx) {
			return errors.New("transaction executor missing from context")
		}
		return nil
	})
	require.NoError(t, err)
}
