package common

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// uniqueViolation — код ошибки PostgreSQL при нарушении уникального индекса.
const uniqueViolation = "23505"

// GetOne выполняет запрос, который должен вернуть ровно одну строку.
// Отсутствие строки превращается в notFoundErr.
func GetOne[T any](ctx context.Context, q sqlx.QueryerContext, notFoundErr error, query string, args ...interface{}) (*T, error) {
	var entity T
	if err := sqlx.GetContext(ctx, q, &entity, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notFoundErr
		}
		return nil, err
	}
	return &entity, nil
}

// IsUniqueViolation сообщает, что ошибка вызвана нарушением уникальности.
func IsUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation
}

// BatchInserter накапливает строки и вставляет их одним запросом.
type BatchInserter struct {
	tx          *sqlx.Tx
	query       string
	batchSize   int
	values      []interface{}
	rowCount    int
	fieldsCount int
}

// NewBatchInserter создаёт вставщик. baseQuery — "INSERT INTO t (a, b)" без VALUES.
func NewBatchInserter(tx *sqlx.Tx, baseQuery string, fieldsCount int, batchSize int) *BatchInserter {
	if batchSize <= 0 {
		batchSize = 100
	}
	return &BatchInserter{
		tx:          tx,
		query:       baseQuery,
		batchSize:   batchSize,
		values:      make([]interface{}, 0, batchSize*fieldsCount),
		fieldsCount: fieldsCount,
	}
}

// Add добавляет строку; при заполнении батча он сразу сбрасывается.
func (bi *BatchInserter) Add(ctx context.Context, rowValues ...interface{}) error {
	if len(rowValues) != bi.fieldsCount {
		return fmt.Errorf("batch insert: ожидалось %d полей, получено %d", bi.fieldsCount, len(rowValues))
	}

	bi.values = append(bi.values, rowValues...)
	bi.rowCount++

	if bi.rowCount >= bi.batchSize {
		return bi.Flush(ctx)
	}
	return nil
}

// Flush вставляет накопленные строки.
func (bi *BatchInserter) Flush(ctx context.Context) error {
	if bi.rowCount == 0 {
		return nil
	}

	var sb strings.Builder
	sb.WriteString(bi.query)
	sb.WriteString(" VALUES ")
	for i := 0; i < bi.rowCount; i++ {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteByte('(')
		for j := 0; j < bi.fieldsCount; j++ {
			if j > 0 {
				sb.WriteString(", ")
			}
			fmt.Fprintf(&sb, "$%d", i*bi.fieldsCount+j+1)
		}
		sb.WriteByte(')')
	}

	if _, err := bi.tx.ExecContext(ctx, sb.String(), bi.values...); err != nil {
		return fmt.Errorf("batch insert: %w", err)
	}

	bi.values = bi.values[:0]
	bi.rowCount = 0
	return nil
}

// WithTransaction выполняет fn в транзакции. Ошибка или паника откатывают её.
func WithTransaction(ctx context.Context, db *sqlx.DB, fn func(*sqlx.Tx) error) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("tx error: %w, rollback error: %v", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
