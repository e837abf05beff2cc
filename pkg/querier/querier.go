package querier

import (
	"context"
	"strings"
	"time"

	"github.com/avito-tech/go-transaction-manager/pgxv5"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var QueryDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "db_query_duration_seconds",
		Help:    "Duration of database queries by statement kind",
		Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
	},
	[]string{"kind", "in_tx"},
)

// Querier выполняет запрос в транзакции из контекста, если она есть, иначе в пуле.
type Querier struct {
	pool   *pgxpool.Pool
	getter *pgxv5.CtxGetter
}

func New(pool *pgxpool.Pool, getter *pgxv5.CtxGetter) *Querier {
	return &Querier{
		pool:   pool,
		getter: getter,
	}
}

func (q *Querier) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	executor, inTx := q.get(ctx)
	defer observe(sql, inTx, time.Now())
	return executor.Exec(ctx, sql, args...)
}

func (q *Querier) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	executor, inTx := q.get(ctx)
	defer observe(sql, inTx, time.Now())
	return executor.Query(ctx, sql, args...)
}

func (q *Querier) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	executor, inTx := q.get(ctx)
	defer observe(sql, inTx, time.Now())
	return executor.QueryRow(ctx, sql, args...)
}

func (q *Querier) get(ctx context.Context) (pgxv5.Tr, bool) {
	if tr := q.getter.DefaultTrOrDB(ctx, nil); tr != nil {
		return tr, true
	}
	return q.pool, false
}

func observe(sql string, inTx bool, start time.Time) {
	label := "false"
	if inTx {
		label = "true"
	}
	QueryDuration.WithLabelValues(statementKind(sql), label).Observe(time.Since(start).Seconds())
}

// statementKind первое слово запроса: select, insert, update...
func statementKind(sql string) string {
	sql = strings.TrimSpace(sql)
	if i := strings.IndexAny(sql, " \n\t("); i > 0 {
		sql = sql[:i]
	}
	return strings.ToLower(sql)
}
