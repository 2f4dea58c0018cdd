// Package dao provides a generic persistence-operation abstraction over GORM
// with convention-based soft deletion. The soft-delete flag is a plain boolean
// column named by the schema config, not gorm.DeletedAt, so visibility rules
// stay explicit and restorable.
package dao

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/PrjctQ/qcore/pkg/database"
	"github.com/PrjctQ/qcore/pkg/schema"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrSoftDeleteUnsupported is returned by Restore when the entity does not
// declare a soft-delete field.
var ErrSoftDeleteUnsupported = errors.New("dao: entity does not support soft delete")

// QueryOptions tunes list and lookup queries.
type QueryOptions struct {
	Limit int
	Skip  int
	// Sort maps field name to "asc" or "desc". Keys are checked against the
	// schema field whitelist.
	Sort map[string]string
	// IncludeDeleted disables the implicit soft-delete filter.
	IncludeDeleted bool
}

// DAO is a generic CRUD gateway for one entity type.
type DAO[T any] struct {
	db  *gorm.DB
	cfg schema.Config
}

// New creates a DAO bound to a database handle and a schema config.
func New[T any](db *gorm.DB, cfg schema.Config) *DAO[T] {
	return &DAO[T]{db: db, cfg: cfg}
}

// DB exposes the underlying handle for custom queries.
func (d *DAO[T]) DB() *gorm.DB {
	return d.db
}

// FindAll returns all records matching the filter. Soft-deleted records are
// excluded unless opts.IncludeDeleted is set.
func (d *DAO[T]) FindAll(ctx context.Context, filter map[string]any, opts QueryOptions) ([]T, error) {
	q, err := d.query(ctx, filter, opts)
	if err != nil {
		return nil, err
	}

	if opts.Limit > 0 {
		q = q.Limit(opts.Limit)
	}
	if opts.Skip > 0 {
		q = q.Offset(opts.Skip)
	}

	var records []T
	if err := q.Find(&records).Error; err != nil {
		return nil, fmt.Errorf("dao: find all: %w", err)
	}
	return records, nil
}

// FindOne returns the first record matching the filter, or nil when no record
// matches.
func (d *DAO[T]) FindOne(ctx context.Context, filter map[string]any, opts QueryOptions) (*T, error) {
	q, err := d.query(ctx, filter, opts)
	if err != nil {
		return nil, err
	}

	var record T
	if err := q.First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("dao: find one: %w", err)
	}
	return &record, nil
}

// FindByID looks a record up by its identifier field.
func (d *DAO[T]) FindByID(ctx context.Context, id any, opts QueryOptions) (*T, error) {
	return d.FindOne(ctx, map[string]any{d.cfg.IDField: id}, opts)
}

// Insert persists a validated entity. GORM backfills the identifier and
// auto-managed timestamps on the passed record.
func (d *DAO[T]) Insert(ctx context.Context, record *T) error {
	if err := d.db.WithContext(ctx).Create(record).Error; err != nil {
		return fmt.Errorf("dao: insert: %w", err)
	}
	return nil
}

// Update applies a partial patch by identifier and returns the updated
// record, or nil when no record matched.
func (d *DAO[T]) Update(ctx context.Context, id any, patch map[string]any) (*T, error) {
	res := d.db.WithContext(ctx).
		Model(new(T)).
		Where(map[string]any{d.cfg.IDField: id}).
		Updates(patch)
	if res.Error != nil {
		return nil, fmt.Errorf("dao: update: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, nil
	}
	return d.FindByID(ctx, id, QueryOptions{IncludeDeleted: true})
}

// Delete removes a record. When the entity declares a soft-delete field the
// flag is flipped instead of removing the row; otherwise the delete is
// permanent. Returns the affected record, or nil when it does not exist.
func (d *DAO[T]) Delete(ctx context.Context, id any) (*T, error) {
	if d.cfg.SoftDeleteField == "" {
		return d.HardDelete(ctx, id)
	}

	record, err := d.FindByID(ctx, id, QueryOptions{IncludeDeleted: true})
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, nil
	}

	res := d.db.WithContext(ctx).
		Model(new(T)).
		Where(map[string]any{d.cfg.IDField: id}).
		Update(d.cfg.SoftDeleteField, true)
	if res.Error != nil {
		return nil, fmt.Errorf("dao: soft delete: %w", res.Error)
	}
	return d.FindByID(ctx, id, QueryOptions{IncludeDeleted: true})
}

// HardDelete permanently removes a record regardless of soft-delete support.
// Returns the removed record, or nil when it does not exist.
func (d *DAO[T]) HardDelete(ctx context.Context, id any) (*T, error) {
	record, err := d.FindByID(ctx, id, QueryOptions{IncludeDeleted: true})
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, nil
	}

	if err := d.db.WithContext(ctx).
		Where(map[string]any{d.cfg.IDField: id}).
		Delete(new(T)).Error; err != nil {
		return nil, fmt.Errorf("dao: hard delete: %w", err)
	}
	return record, nil
}

// Restore flips the soft-delete flag back. It fails when the entity has no
// soft-delete field and returns nil when the record does not exist or was
// hard-deleted.
func (d *DAO[T]) Restore(ctx context.Context, id any) (*T, error) {
	if d.cfg.SoftDeleteField == "" {
		return nil, ErrSoftDeleteUnsupported
	}

	res := d.db.WithContext(ctx).
		Model(new(T)).
		Where(map[string]any{d.cfg.IDField: id}).
		Update(d.cfg.SoftDeleteField, false)
	if res.Error != nil {
		return nil, fmt.Errorf("dao: restore: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, nil
	}
	return d.FindByID(ctx, id, QueryOptions{})
}

// WithTransaction executes fn against a transaction-scoped DAO. An error from
// fn rolls the transaction back; nil commits it.
func (d *DAO[T]) WithTransaction(ctx context.Context, fn func(tx *DAO[T]) error) error {
	if fn == nil {
		return errors.New("dao: transaction function is nil")
	}

	return database.WithTransaction(ctx, d.db, func(tx *gorm.DB) error {
		return fn(&DAO[T]{db: tx, cfg: d.cfg})
	})
}

// query builds the base query with filter, soft-delete exclusion and
// whitelisted ordering applied.
func (d *DAO[T]) query(ctx context.Context, filter map[string]any, opts QueryOptions) (*gorm.DB, error) {
	q := d.db.WithContext(ctx).Model(new(T))

	if len(filter) > 0 {
		q = q.Where(filter)
	}
	if d.cfg.SoftDeleteField != "" && !opts.IncludeDeleted {
		if _, filtered := filter[d.cfg.SoftDeleteField]; !filtered {
			q = q.Where(map[string]any{d.cfg.SoftDeleteField: false})
		}
	}

	for _, field := range sortedKeys(opts.Sort) {
		if _, ok := d.cfg.Fields[field]; !ok {
			return nil, fmt.Errorf("dao: cannot sort by unknown field %q", field)
		}
		dir := opts.Sort[field]
		if dir != "asc" && dir != "desc" {
			return nil, fmt.Errorf("dao: invalid sort direction %q for field %q", dir, field)
		}
		q = q.Order(clause.OrderByColumn{
			Column: clause.Column{Name: field},
			Desc:   dir == "desc",
		})
	}

	return q, nil
}

// sortedKeys keeps ORDER BY clauses deterministic across requests.
func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
