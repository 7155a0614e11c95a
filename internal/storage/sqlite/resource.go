package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/mattn/go-sqlite3"

	"github.com/GustavoCaso/spadesk/internal/listquery"
	"github.com/GustavoCaso/spadesk/internal/storage"
	"github.com/GustavoCaso/spadesk/internal/util"
)

// field maps a JSON field name to its column.
type field struct {
	name    string
	column  string
	integer bool
}

type scanFunc func(dest ...any) error

// schema describes how one entity is stored. Field names in searchable, filterable,
// sortable and dateField are JSON names and must be present in columns, or be "id" or
// "createdAt".
type schema[T any] struct {
	table      string
	columns    []field
	createdAt  bool
	dateField  string
	searchable []string
	filterable []string
	sortable   []string
	foreignKey string

	scan   func(scan scanFunc) (T, error)
	values func(record T) []any
}

func (s schema[T]) lookup(name string) (field, bool) {
	switch {
	case name == "id":
		return field{name: "id", column: "id", integer: true}, true
	case name == "createdAt" && s.createdAt:
		return field{name: "createdAt", column: "created_at", integer: true}, true
	}

	for _, f := range s.columns {
		if f.name == name {
			return f, true
		}
	}
	return field{}, false
}

func (s schema[T]) allowed(names []string, name string) (field, bool) {
	for _, n := range names {
		if n == name {
			return s.lookup(name)
		}
	}
	return field{}, false
}

func (s schema[T]) selectColumns() string {
	columns := make([]string, 0, len(s.columns)+2)
	columns = append(columns, "id")
	for _, f := range s.columns {
		columns = append(columns, f.column)
	}
	if s.createdAt {
		columns = append(columns, "created_at")
	}
	return strings.Join(columns, ", ")
}

type resource[T any] struct {
	db     *sql.DB
	loc    *time.Location
	schema schema[T]
}

func newResource[T any](db *sql.DB, loc *time.Location, s schema[T]) *resource[T] {
	return &resource[T]{db: db, loc: loc, schema: s}
}

func (r *resource[T]) Get(ctx context.Context, id int64) (T, error) {
	row := r.db.QueryRowContext(ctx,
		fmt.Sprintf("SELECT %s FROM %s WHERE id = ?", r.schema.selectColumns(), r.schema.table),
		id,
	)

	record, err := r.schema.scan(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return record, &storage.NotFoundError{}
		}
		return record, fmt.Errorf("failed to scan %s: %w", r.schema.table, err)
	}
	return record, nil
}

func (r *resource[T]) Create(ctx context.Context, record T) (int64, error) {
	if err := storage.Validate(record); err != nil {
		return 0, err
	}

	columns := make([]string, 0, len(r.schema.columns)+1)
	for _, f := range r.schema.columns {
		columns = append(columns, f.column)
	}
	args := r.schema.values(record)
	if r.schema.createdAt {
		columns = append(columns, "created_at")
		args = append(args, time.Now().Unix())
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(columns)), ", ")
	result, err := r.db.ExecContext(ctx,
		fmt.Sprintf("INSERT INTO %s(%s) VALUES(%s)", r.schema.table, strings.Join(columns, ", "), placeholders),
		args...,
	)
	if err != nil {
		return 0, r.constraintError(err)
	}

	return result.LastInsertId()
}

func (r *resource[T]) Update(ctx context.Context, id int64, record T) error {
	if err := storage.Validate(record); err != nil {
		return err
	}

	assignments := make([]string, 0, len(r.schema.columns))
	for _, f := range r.schema.columns {
		assignments = append(assignments, f.column+" = ?")
	}
	args := append(r.schema.values(record), id)

	result, err := r.db.ExecContext(ctx,
		fmt.Sprintf("UPDATE %s SET %s WHERE id = ?", r.schema.table, strings.Join(assignments, ", ")),
		args...,
	)
	if err != nil {
		return r.constraintError(err)
	}

	return expectAffected(result)
}

func (r *resource[T]) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx,
		fmt.Sprintf("DELETE FROM %s WHERE id = ?", r.schema.table),
		id,
	)
	if err != nil {
		return fmt.Errorf("failed to delete from %s: %w", r.schema.table, err)
	}

	return expectAffected(result)
}

// Paginate returns one page of records matching req. Unknown search, filter and sort
// fields are ignored.
func (r *resource[T]) Paginate(ctx context.Context, req listquery.Request) (listquery.Page[T], error) {
	if req.Limit <= 0 {
		req.Limit = listquery.DefaultLimit
	}

	where, args := r.where(req)

	var total int
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s%s", r.schema.table, where)
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return listquery.Page[T]{}, fmt.Errorf("failed to count %s: %w", r.schema.table, err)
	}

	query := fmt.Sprintf("SELECT %s FROM %s%s ORDER BY %s LIMIT ? OFFSET ?",
		r.schema.selectColumns(), r.schema.table, where, r.orderBy(req.Sort))

	rows, err := r.db.QueryContext(ctx, query, append(args, req.Limit, req.Offset())...)
	if err != nil {
		return listquery.Page[T]{}, fmt.Errorf("failed to query %s: %w", r.schema.table, err)
	}
	defer rows.Close()

	records := []T{}
	for rows.Next() {
		record, scanErr := r.schema.scan(rows.Scan)
		if scanErr != nil {
			return listquery.Page[T]{}, fmt.Errorf("failed to scan %s: %w", r.schema.table, scanErr)
		}
		records = append(records, record)
	}
	if err = rows.Err(); err != nil {
		return listquery.Page[T]{}, err
	}

	return listquery.NewPage(records, total, req.Limit), nil
}

func (r *resource[T]) where(req listquery.Request) (string, []any) {
	var conditions []string
	var args []any

	if req.SearchValue != "" {
		searchIn := req.SearchIn
		if len(searchIn) == 0 {
			searchIn = r.schema.searchable
		}

		var likes []string
		pattern := "%" + escapeLike(req.SearchValue) + "%"
		for _, name := range searchIn {
			f, ok := r.schema.allowed(r.schema.searchable, name)
			if !ok {
				continue
			}
			likes = append(likes, f.column+` LIKE ? ESCAPE '\'`)
			args = append(args, pattern)
		}
		if len(likes) > 0 {
			conditions = append(conditions, "("+strings.Join(likes, " OR ")+")")
		}
	}

	for _, filter := range req.FilterBy {
		f, ok := r.schema.allowed(r.schema.filterable, filter.FieldName)
		if !ok {
			continue
		}

		values := filterArgs(f, filter.Value)
		if len(values) == 0 {
			// None of the values can match the column type.
			conditions = append(conditions, "1 = 0")
			continue
		}

		placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(values)), ", ")
		conditions = append(conditions, fmt.Sprintf("%s IN (%s)", f.column, placeholders))
		args = append(args, values...)
	}

	if f, ok := r.schema.lookup(r.schema.dateField); ok {
		if start, err := util.ParseDate(req.StartDate, r.loc); err == nil {
			conditions = append(conditions, f.column+" >= ?")
			args = append(args, start.Unix())
		}
		if end, err := util.ParseDate(req.EndDate, r.loc); err == nil {
			_, endOfDay := util.DayBounds(end, r.loc)
			conditions = append(conditions, f.column+" <= ?")
			args = append(args, endOfDay.Unix())
		}
	}

	if len(conditions) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conditions, " AND "), args
}

func (r *resource[T]) orderBy(sort *listquery.Sort) string {
	if sort == nil {
		return "id DESC"
	}

	f, ok := r.schema.allowed(r.schema.sortable, sort.Field)
	if !ok {
		return "id DESC"
	}

	direction := "ASC"
	if sort.Direction == listquery.Desc {
		direction = "DESC"
	}

	if f.column == "id" {
		return "id " + direction
	}
	return fmt.Sprintf("%s %s, id %s", f.column, direction, direction)
}

// constraintError turns sqlite constraint violations into validation errors.
func (r *resource[T]) constraintError(err error) error {
	var sqliteErr sqlite3.Error
	if !errors.As(err, &sqliteErr) {
		return fmt.Errorf("failed to write %s: %w", r.schema.table, err)
	}

	switch sqliteErr.ExtendedCode {
	case sqlite3.ErrConstraintUnique:
		fields := map[string]string{}
		for _, column := range uniqueColumns(sqliteErr.Error()) {
			for _, f := range r.schema.columns {
				if f.column == column {
					fields[f.name] = "already exists"
				}
			}
		}
		if len(fields) > 0 {
			return &storage.ValidationError{Fields: fields}
		}
	case sqlite3.ErrConstraintForeignKey:
		if r.schema.foreignKey != "" {
			return &storage.ValidationError{Fields: map[string]string{r.schema.foreignKey: "does not exist"}}
		}
	}

	return fmt.Errorf("failed to write %s: %w", r.schema.table, err)
}

// uniqueColumns extracts the column names from "UNIQUE constraint failed: t.a, t.b".
func uniqueColumns(msg string) []string {
	_, list, found := strings.Cut(msg, "failed: ")
	if !found {
		return nil
	}

	var columns []string
	for _, qualified := range strings.Split(list, ", ") {
		_, column, _ := strings.Cut(qualified, ".")
		columns = append(columns, strings.TrimSpace(column))
	}
	return columns
}

func filterArgs(f field, values listquery.FilterValue) []any {
	args := make([]any, 0, len(values))
	for _, v := range values {
		if !f.integer {
			args = append(args, v)
			continue
		}
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			continue
		}
		args = append(args, n)
	}
	return args
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func expectAffected(result sql.Result) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return &storage.NotFoundError{}
	}

	return nil
}

func unixTime(seconds int64) time.Time {
	return time.Unix(seconds, 0).UTC()
}
