package memory

import (
	"context"

	"essenceflow/internal/core/id"
	"essenceflow/internal/domain"
)

type versionedEntity[K any] interface {
	domain.Entity[K]
	GetVersion() int
	SetVersion(n int)
}

// catalogRepo implements domain.CatalogRepository over one table.
type catalogRepo[T versionedEntity[K], K any] struct {
	store  *Store
	table  func(d *dataset) *table[T]
	fields func(T) []string
	less   func(a, b T) bool
	// unique rejects v when it collides with another row on a natural key.
	unique func(d *dataset, v T) error
}

func (r *catalogRepo[T, K]) Create(ctx context.Context, v T) error {
	return r.store.do(ctx, func(d *dataset) error {
		if r.unique != nil {
			if err := r.unique(d, v); err != nil {
				return err
			}
		}
		return r.table(d).insert(v.GetID().Raw(), v)
	})
}

func (r *catalogRepo[T, K]) GetByID(ctx context.Context, entityID id.Of[K]) (T, error) {
	var out T
	err := r.store.do(ctx, func(d *dataset) error {
		var err error
		out, err = r.table(d).get(entityID.Raw())
		return err
	})
	return out, err
}

func (r *catalogRepo[T, K]) Update(ctx context.Context, v T) error {
	return r.store.do(ctx, func(d *dataset) error {
		t := r.table(d)
		stored, err := t.ref(v.GetID().Raw())
		if err != nil {
			return err
		}
		if err := checkVersion(t.entity, v.GetID().Raw(), stored.GetVersion(), v.GetVersion()); err != nil {
			return err
		}
		if r.unique != nil {
			if err := r.unique(d, v); err != nil {
				return err
			}
		}
		v.SetVersion(v.GetVersion() + 1)
		t.put(v.GetID().Raw(), v)
		return nil
	})
}

func (r *catalogRepo[T, K]) Delete(ctx context.Context, entityID id.Of[K]) error {
	return r.store.do(ctx, func(d *dataset) error {
		return r.table(d).remove(entityID.Raw())
	})
}

func (r *catalogRepo[T, K]) List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[T], error) {
	var out domain.ListResult[T]
	err := r.store.do(ctx, func(d *dataset) error {
		out = listOf(r.table(d), filter, r.fields, r.less)
		return nil
	})
	return out, err
}

func (r *catalogRepo[T, K]) all(ctx context.Context) ([]T, error) {
	var out []T
	err := r.store.do(ctx, func(d *dataset) error {
		out = r.table(d).selectRows(nil, r.less)
		return nil
	})
	return out, err
}
