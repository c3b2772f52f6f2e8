package postgres

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"

	"essenceflow/internal/core/apperror"
	"essenceflow/internal/core/id"
	"essenceflow/internal/domain"
)

// UniqueKey describes a unique constraint for DUPLICATE_ENTRY errors.
type UniqueKey struct {
	Column string // column holding the duplicated value
	Field  string // API field name used in the error message
}

// TableConfig describes the table behind a BaseRepo.
type TableConfig struct {
	Table string
	// Entity is the display name used in errors, e.g. "Product" -> "Product not found".
	Entity string
	// Search lists the columns matched by ListFilter.Search (ILIKE).
	Search []string
	// OrderBy is the default list order.
	OrderBy []string
	// Unique maps constraint names to the key they protect.
	Unique map[string]UniqueKey
}

// BaseRepo provides CRUD over one table for row type R.
// R is a flat struct with "db" tags; entity repositories map it to domain types.
type BaseRepo[R any] struct {
	txm  *TxManager
	cfg  TableConfig
	cols []string
}

// NewBaseRepo creates a base repository. Columns are taken from R's db tags.
func NewBaseRepo[R any](txm *TxManager, cfg TableConfig) *BaseRepo[R] {
	return &BaseRepo[R]{
		txm:  txm,
		cfg:  cfg,
		cols: ExtractDBColumns[R](),
	}
}

// Builder returns a squirrel builder with $N placeholders.
func (r *BaseRepo[R]) Builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// Querier returns the transaction in ctx or the pool.
func (r *BaseRepo[R]) Querier(ctx context.Context) Querier {
	return r.txm.GetQuerier(ctx)
}

// Columns returns the selected column list.
func (r *BaseRepo[R]) Columns() []string {
	return r.cols
}

// SelectQuery returns SELECT <cols> FROM <table>.
func (r *BaseRepo[R]) SelectQuery() squirrel.SelectBuilder {
	return r.Builder().Select(r.cols...).From(r.cfg.Table)
}

// Insert stores a new row.
func (r *BaseRepo[R]) Insert(ctx context.Context, row *R) error {
	data := StructToMap(row)
	if len(data) == 0 {
		return fmt.Errorf("no db tags found in %T", row)
	}

	sql, args, err := r.Builder().Insert(r.cfg.Table).SetMap(data).ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.Querier(ctx).Exec(ctx, sql, args...); err != nil {
		return r.writeErr(err, data, "insert")
	}
	return nil
}

// UpdateQuery builds the optimistic UPDATE for row: every column except
// id and the audit/version columns is overwritten, version is bumped, and
// the statement only matches when the stored version equals version.
func (r *BaseRepo[R]) UpdateQuery(rowID uuid.UUID, version int, row *R) (squirrel.UpdateBuilder, map[string]any) {
	data := StructToMap(row, "id", "version", "created_at", "updated_at")
	q := r.Builder().
		Update(r.cfg.Table).
		SetMap(data).
		Set("version", squirrel.Expr("version + 1")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": rowID}).
		Where(squirrel.Eq{"version": version})
	return q, data
}

// Update overwrites the row with optimistic locking.
// Returns CONCURRENT_MODIFICATION when the stored version differs.
func (r *BaseRepo[R]) Update(ctx context.Context, rowID uuid.UUID, version int, row *R) error {
	q, data := r.UpdateQuery(rowID, version, row)
	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	result, err := r.Querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return r.writeErr(err, data, "update")
	}
	if result.RowsAffected() == 0 {
		exists, err := r.Exists(ctx, rowID)
		if err != nil {
			return err
		}
		if !exists {
			return apperror.NewNotFound(r.cfg.Entity, rowID)
		}
		return apperror.NewConcurrentModification(r.cfg.Entity, rowID).
			WithDetail("expectedVersion", version)
	}
	return nil
}

// SetColumns overwrites the given columns, bumps the version and updated_at.
// Used for the engine's stock and running-total writes, which happen under
// a row lock taken by GetForUpdate.
func (r *BaseRepo[R]) SetColumns(ctx context.Context, rowID uuid.UUID, values map[string]any) error {
	q := r.Builder().
		Update(r.cfg.Table).
		SetMap(values).
		Set("version", squirrel.Expr("version + 1")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": rowID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build set: %w", err)
	}

	result, err := r.Querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return r.writeErr(err, values, "update")
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound(r.cfg.Entity, rowID)
	}
	return nil
}

// Get retrieves a row by id. With lock the row stays locked
// (SELECT ... FOR UPDATE) until the enclosing transaction ends.
func (r *BaseRepo[R]) Get(ctx context.Context, rowID uuid.UUID, lock bool) (*R, error) {
	return r.GetWhere(ctx, squirrel.Eq{"id": rowID}, rowID, lock)
}

// GetWhere retrieves the single row matching where; key is reported in NOT_FOUND.
func (r *BaseRepo[R]) GetWhere(ctx context.Context, where any, key any, lock bool) (*R, error) {
	q := r.SelectQuery().Where(where).Limit(1)
	if lock {
		q = q.Suffix("FOR UPDATE")
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	var row R
	if err := pgxscan.Get(ctx, r.Querier(ctx), &row, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound(r.cfg.Entity, key)
		}
		return nil, fmt.Errorf("get %s: %w", r.cfg.Table, err)
	}
	return &row, nil
}

// Select runs q and scans every row.
func (r *BaseRepo[R]) Select(ctx context.Context, q squirrel.SelectBuilder) ([]*R, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	var rows []*R
	if err := pgxscan.Select(ctx, r.Querier(ctx), &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("select %s: %w", r.cfg.Table, err)
	}
	return rows, nil
}

// SelectWhere returns all rows matching where (nil for all) in the default order.
func (r *BaseRepo[R]) SelectWhere(ctx context.Context, where any) ([]*R, error) {
	q := r.SelectQuery().OrderBy(r.cfg.OrderBy...)
	if where != nil {
		q = q.Where(where)
	}
	return r.Select(ctx, q)
}

// ListQueries builds the page and count queries for filter.
func (r *BaseRepo[R]) ListQueries(filter domain.ListFilter) (page, count squirrel.SelectBuilder) {
	page = r.SelectQuery()
	count = r.Builder().Select("COUNT(*)").From(r.cfg.Table)

	if cond := r.searchCondition(filter.Search); cond != nil {
		page = page.Where(cond)
		count = count.Where(cond)
	}

	page = page.OrderBy(r.cfg.OrderBy...)
	if filter.Limit > 0 {
		page = page.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		page = page.Offset(uint64(filter.Offset))
	}
	return page, count
}

func (r *BaseRepo[R]) searchCondition(search string) squirrel.Sqlizer {
	if search == "" || len(r.cfg.Search) == 0 {
		return nil
	}
	pattern := "%" + search + "%"
	or := make(squirrel.Or, 0, len(r.cfg.Search))
	for _, col := range r.cfg.Search {
		or = append(or, squirrel.ILike{col: pattern})
	}
	return or
}

// List returns one page of rows plus the total number of matches.
func (r *BaseRepo[R]) List(ctx context.Context, filter domain.ListFilter) ([]*R, int64, error) {
	page, count := r.ListQueries(filter)

	countSQL, countArgs, err := count.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build count: %w", err)
	}
	var total int64
	if err := r.Querier(ctx).QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count %s: %w", r.cfg.Table, err)
	}

	rows, err := r.Select(ctx, page)
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// Exists reports whether a row with rowID exists.
func (r *BaseRepo[R]) Exists(ctx context.Context, rowID uuid.UUID) (bool, error) {
	return r.ExistsWhere(ctx, squirrel.Eq{"id": rowID})
}

// ExistsWhere reports whether any row matches where.
func (r *BaseRepo[R]) ExistsWhere(ctx context.Context, where any) (bool, error) {
	sql, args, err := r.Builder().
		Select("1").
		Prefix("SELECT EXISTS (").
		From(r.cfg.Table).
		Where(where).
		Suffix(")").
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build exists: %w", err)
	}

	var exists bool
	if err := r.Querier(ctx).QueryRow(ctx, sql, args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("exists %s: %w", r.cfg.Table, err)
	}
	return exists, nil
}

// Delete physically removes the row.
func (r *BaseRepo[R]) Delete(ctx context.Context, rowID uuid.UUID) error {
	sql, args, err := r.Builder().
		Delete(r.cfg.Table).
		Where(squirrel.Eq{"id": rowID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	result, err := r.Querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("delete %s: %w", r.cfg.Table, err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound(r.cfg.Entity, rowID)
	}
	return nil
}

func (r *BaseRepo[R]) writeErr(err error, data map[string]any, op string) error {
	if constraint, ok := UniqueViolation(err); ok {
		if key, known := r.cfg.Unique[constraint]; known {
			return apperror.NewDuplicate(r.cfg.Entity, key.Field, fmt.Sprint(data[key.Column])).WithCause(err)
		}
		return apperror.NewDuplicate(r.cfg.Entity, "id", fmt.Sprint(data["id"])).WithCause(err)
	}
	return fmt.Errorf("%s %s: %w", op, r.cfg.Table, err)
}

// ToListResult converts a page of rows into a domain list result.
func ToListResult[R, T any](rows []*R, total int64, filter domain.ListFilter, conv func(*R) T) domain.ListResult[T] {
	return domain.ListResult[T]{
		Items:      MapRows(rows, conv),
		TotalCount: total,
		Limit:      filter.Limit,
		Offset:     filter.Offset,
	}
}

// MapRows converts rows to domain values. Never returns nil.
func MapRows[R, T any](rows []*R, conv func(*R) T) []T {
	out := make([]T, 0, len(rows))
	for _, row := range rows {
		out = append(out, conv(row))
	}
	return out
}

// RefPtr converts an optional typed reference to a nullable column value.
func RefPtr[K any](ref *id.Of[K]) *uuid.UUID {
	if ref == nil {
		return nil
	}
	raw := ref.Raw()
	return &raw
}

// RefOf is the inverse of RefPtr.
func RefOf[K any](raw *uuid.UUID) *id.Of[K] {
	if raw == nil {
		return nil
	}
	ref := id.From[K](*raw)
	return &ref
}
