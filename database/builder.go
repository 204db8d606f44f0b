package database

import (
	"context"
	"fmt"
	"time"

	"github.com/uptrace/bun"
)

// OrderDirection represents sort direction
type OrderDirection string

const (
	ASC  OrderDirection = "ASC"
	DESC OrderDirection = "DESC"
)

// whereClause is a rendered WHERE fragment with its bind args
type whereClause struct {
	sql  string
	args []any
}

// QueryBuilder provides a fluent, type-safe API for building database queries
type QueryBuilder[T any] struct {
	db        *DB
	tableName string

	wheres    []whereClause
	orders    []string
	relations []string
	limitVal  *int
	offsetVal *int

	distinct  bool
	forUpdate bool

	timeout time.Duration
}

// Query creates a new QueryBuilder instance
func Query[T any](db *DB) *QueryBuilder[T] {
	return &QueryBuilder[T]{
		db:        db,
		wheres:    []whereClause{},
		orders:    []string{},
		relations: []string{},
	}
}

// Table sets the table name explicitly
func (q *QueryBuilder[T]) Table(name string) *QueryBuilder[T] {
	q.tableName = name
	return q
}

// Distinct adds DISTINCT to the query
func (q *QueryBuilder[T]) Distinct() *QueryBuilder[T] {
	q.distinct = true
	return q
}

// Where adds a simple WHERE condition (column = value)
func (q *QueryBuilder[T]) Where(column string, value any) *QueryBuilder[T] {
	q.wheres = append(q.wheres, whereClause{
		sql:  fmt.Sprintf("%s = ?", column),
		args: []any{value},
	})
	return q
}

// WhereOp adds a WHERE condition with a custom operator
func (q *QueryBuilder[T]) WhereOp(column, operator string, value any) *QueryBuilder[T] {
	q.wheres = append(q.wheres, whereClause{
		sql:  fmt.Sprintf("%s %s ?", column, operator),
		args: []any{value},
	})
	return q
}

// WhereIn adds a WHERE IN condition
func (q *QueryBuilder[T]) WhereIn(column string, values []any) *QueryBuilder[T] {
	q.wheres = append(q.wheres, whereClause{
		sql:  fmt.Sprintf("%s IN (?)", column),
		args: []any{bun.In(values)},
	})
	return q
}

// WhereNull adds a WHERE IS NULL condition
func (q *QueryBuilder[T]) WhereNull(column string) *QueryBuilder[T] {
	q.wheres = append(q.wheres, whereClause{
		sql: fmt.Sprintf("%s IS NULL", column),
	})
	return q
}

// WhereNotNull adds a WHERE IS NOT NULL condition
func (q *QueryBuilder[T]) WhereNotNull(column string) *QueryBuilder[T] {
	q.wheres = append(q.wheres, whereClause{
		sql: fmt.Sprintf("%s IS NOT NULL", column),
	})
	return q
}

// WhereLike adds a WHERE ILIKE condition
func (q *QueryBuilder[T]) WhereLike(column, pattern string) *QueryBuilder[T] {
	q.wheres = append(q.wheres, whereClause{
		sql:  fmt.Sprintf("%s ILIKE ?", column),
		args: []any{pattern},
	})
	return q
}

// WhereRaw adds a raw WHERE condition
func (q *QueryBuilder[T]) WhereRaw(sql string, args ...any) *QueryBuilder[T] {
	q.wheres = append(q.wheres, whereClause{sql: sql, args: args})
	return q
}

// OrderBy adds an ORDER BY clause
func (q *QueryBuilder[T]) OrderBy(column string, direction OrderDirection) *QueryBuilder[T] {
	q.orders = append(q.orders, fmt.Sprintf("%s %s", column, direction))
	return q
}

// Limit sets the LIMIT clause
func (q *QueryBuilder[T]) Limit(limit int) *QueryBuilder[T] {
	q.limitVal = &limit
	return q
}

// Offset sets the OFFSET clause
func (q *QueryBuilder[T]) Offset(offset int) *QueryBuilder[T] {
	q.offsetVal = &offset
	return q
}

// With specifies a relation to preload
func (q *QueryBuilder[T]) With(relation string) *QueryBuilder[T] {
	q.relations = append(q.relations, relation)
	return q
}

// ForUpdate adds FOR UPDATE clause (for row locking)
func (q *QueryBuilder[T]) ForUpdate() *QueryBuilder[T] {
	q.forUpdate = true
	return q
}

// Timeout sets a timeout for the query
func (q *QueryBuilder[T]) Timeout(duration time.Duration) *QueryBuilder[T] {
	q.timeout = duration
	return q
}

// buildSelect assembles a bun SELECT query over the given model pointer
func (q *QueryBuilder[T]) buildSelect(model any) *bun.SelectQuery {
	query := q.db.NewSelect().Model(model)

	if q.tableName != "" {
		query = query.ModelTableExpr(q.tableName)
	}
	if q.distinct {
		query = query.Distinct()
	}
	for _, rel := range q.relations {
		query = query.Relation(rel)
	}
	for _, w := range q.wheres {
		query = query.Where(w.sql, w.args...)
	}
	for _, order := range q.orders {
		query = query.Order(order)
	}
	if q.limitVal != nil {
		query = query.Limit(*q.limitVal)
	}
	if q.offsetVal != nil {
		query = query.Offset(*q.offsetVal)
	}
	if q.forUpdate {
		query = query.For("UPDATE")
	}

	return query
}

// applyWheres copies the accumulated WHERE conditions onto an UPDATE query
func (q *QueryBuilder[T]) applyWheresToUpdate(query *bun.UpdateQuery) *bun.UpdateQuery {
	for _, w := range q.wheres {
		query = query.Where(w.sql, w.args...)
	}
	return query
}

// applyWheresToDelete copies the accumulated WHERE conditions onto a DELETE query
func (q *QueryBuilder[T]) applyWheresToDelete(query *bun.DeleteQuery) *bun.DeleteQuery {
	for _, w := range q.wheres {
		query = query.Where(w.sql, w.args...)
	}
	return query
}

// scopedCtx applies the builder timeout, if any
func (q *QueryBuilder[T]) scopedCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if q.timeout > 0 {
		return context.WithTimeout(ctx, q.timeout)
	}
	return ctx, func() {}
}
