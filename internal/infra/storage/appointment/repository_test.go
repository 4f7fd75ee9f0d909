package appointment

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/HMS-AppointmentService/internal/domain"
	"github.com/m04kA/HMS-AppointmentService/pkg/dbmetrics"
)

// captureExecutor перехватывает SQL вместо выполнения
// Возвращаемая ошибка обрывает запрос после захвата текста
type captureExecutor struct {
	queries []string
	args    [][]interface{}
	err     error
}

func (c *captureExecutor) ExecContext(_ context.Context, query string, args ...interface{}) (sql.Result, error) {
	c.queries = append(c.queries, query)
	c.args = append(c.args, args)
	return nil, c.err
}

func (c *captureExecutor) QueryContext(_ context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	c.queries = append(c.queries, query)
	c.args = append(c.args, args)
	return nil, c.err
}

func (c *captureExecutor) QueryRowContext(_ context.Context, query string, args ...interface{}) *sql.Row {
	c.queries = append(c.queries, query)
	c.args = append(c.args, args)
	return nil
}

type captureTxExecutor struct {
	captureExecutor
}

func (c *captureTxExecutor) Commit() error   { return nil }
func (c *captureTxExecutor) Rollback() error { return nil }

func interval() (time.Time, time.Time) {
	return time.Date(2026, 9, 9, 10, 0, 0, 0, time.UTC),
		time.Date(2026, 9, 10, 10, 0, 0, 0, time.UTC)
}

func TestRepository_GetByDoctorForInterval_SelectsByOverlapPredicate(t *testing.T) {
	executor := &captureExecutor{err: errors.New("stop after capture")}
	repo := NewRepository(executor)

	from, to := interval()
	_, err := repo.GetByDoctorForInterval(context.Background(), "doc-1", from, to, domain.ConflictStatuses)
	require.ErrorIs(t, err, ErrExecQuery)

	require.Len(t, executor.queries, 1)
	query := executor.queries[0]

	// Условие - пересечение с [from, to), а не попадание start_time в интервал:
	// запись из другой таймзоны может начинаться до границы и пересекаться
	assert.Contains(t, query, "start_time < $")
	assert.Contains(t, query, "end_time > $")
	assert.NotContains(t, query, "start_time >=")
	assert.Contains(t, executor.args[0], from)
	assert.Contains(t, executor.args[0], to)

	// Вне транзакции блокировка не нужна
	assert.NotContains(t, query, "FOR UPDATE")
}

func TestRepository_GetByDoctorForInterval_LocksRowsInsideTransaction(t *testing.T) {
	fallback := &captureExecutor{}
	tx := &captureTxExecutor{captureExecutor{err: errors.New("stop after capture")}}
	repo := NewRepository(fallback)

	ctx := dbmetrics.WithExecutor(context.Background(), tx)
	from, to := interval()
	_, err := repo.GetByDoctorForInterval(ctx, "doc-1", from, to, domain.ConflictStatuses)
	require.ErrorIs(t, err, ErrExecQuery)

	// Запрос ушёл в транзакционный исполнитель и заблокировал строки
	require.Len(t, tx.queries, 1)
	assert.Empty(t, fallback.queries)
	assert.True(t, strings.HasSuffix(tx.queries[0], "FOR UPDATE"), tx.queries[0])
}

func TestRepository_ErrorsPreserveDriverChain(t *testing.T) {
	// Ошибка драйвера должна доходить до txmanager через errors.As,
	// иначе повтор сериализуемой транзакции по коду 40001 не сработает
	executor := &captureExecutor{err: &pq.Error{Code: "40001"}}
	repo := NewRepository(executor)

	from, to := interval()
	_, err := repo.GetByDoctorForInterval(context.Background(), "doc-1", from, to, domain.ConflictStatuses)
	require.ErrorIs(t, err, ErrExecQuery)

	var pqErr *pq.Error
	require.True(t, errors.As(err, &pqErr))
	assert.Equal(t, pq.ErrorCode("40001"), pqErr.Code)
}
