// Package memory is an in-process transactional store implementing every
// repository contract. Transactions are serialized by a store-wide mutex and
// rolled back by restoring a snapshot taken at BEGIN.
//
// Used by the domain tests and by the server when storage.driver=memory.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"essenceflow/internal/core/apperror"
	"essenceflow/internal/core/tx"
	"essenceflow/internal/domain"
	"essenceflow/internal/domain/auth"
	"essenceflow/internal/domain/catalogs/customer"
	"essenceflow/internal/domain/catalogs/inventory"
	"essenceflow/internal/domain/catalogs/product"
	"essenceflow/internal/domain/catalogs/vendor"
	"essenceflow/internal/domain/documents/expense"
	"essenceflow/internal/domain/documents/purchase"
	"essenceflow/internal/domain/documents/sale"
	"essenceflow/internal/domain/documents/wastage"
	"essenceflow/internal/domain/settings"
	"essenceflow/pkg/logger"
)

// Store holds all collections.
type Store struct {
	txMu sync.Mutex
	data *dataset
}

type dataset struct {
	items     *table[*inventory.Item]
	products  *table[*product.Product]
	vendors   *table[*vendor.Vendor]
	customers *table[*customer.Customer]
	sales     *table[*sale.Sale]
	purchases *table[*purchase.Purchase]
	wastage   *table[*wastage.Wastage]
	expenses  *table[*expense.Expense]
	users     *table[*auth.User]
	settings  *settings.BusinessSettings
	sequences map[string]int64
}

// New creates an empty store.
func New() *Store {
	return &Store{
		data: &dataset{
			items:     newTable("Inventory item", cloneItem),
			products:  newTable("Product", cloneProduct),
			vendors:   newTable("Vendor", cloneVendor),
			customers: newTable("Customer", cloneCustomer),
			sales:     newTable("Sale", cloneSale),
			purchases: newTable("Purchase", clonePurchase),
			wastage:   newTable("Wastage record", cloneWastage),
			expenses:  newTable("Expense", cloneExpense),
			users:     newTable("User", cloneUser),
			sequences: make(map[string]int64),
		},
	}
}

func (d *dataset) snapshot() *dataset {
	seq := make(map[string]int64, len(d.sequences))
	for k, v := range d.sequences {
		seq[k] = v
	}
	return &dataset{
		items:     d.items.copy(),
		products:  d.products.copy(),
		vendors:   d.vendors.copy(),
		customers: d.customers.copy(),
		sales:     d.sales.copy(),
		purchases: d.purchases.copy(),
		wastage:   d.wastage.copy(),
		expenses:  d.expenses.copy(),
		users:     d.users.copy(),
		settings:  cloneSettings(d.settings),
		sequences: seq,
	}
}

// --- Transactions ---

type txKey struct{}

var _ tx.ReadOnlyManager = (*Store)(nil)

func (s *Store) inTx(ctx context.Context) bool {
	owner, _ := ctx.Value(txKey{}).(*Store)
	return owner == s
}

// RunInTransaction implements tx.Manager. Nested calls reuse the outer
// transaction; an error or panic restores the state from BEGIN.
func (s *Store) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	if s.inTx(ctx) {
		return fn(ctx)
	}

	s.txMu.Lock()
	defer s.txMu.Unlock()

	saved := s.data.snapshot()
	defer func() {
		if p := recover(); p != nil {
			s.data = saved
			logger.Error(ctx, "transaction panic, rolled back", "panic", p)
			panic(p)
		}
		if err != nil {
			s.data = saved
		}
	}()

	return fn(context.WithValue(ctx, txKey{}, s))
}

// ReadOnly implements tx.ReadOnlyManager. No snapshot is taken.
func (s *Store) ReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	if s.inTx(ctx) {
		return fn(ctx)
	}
	s.txMu.Lock()
	defer s.txMu.Unlock()
	return fn(context.WithValue(ctx, txKey{}, s))
}

// do runs a single repository call, joining the caller's transaction or
// taking the store lock for its duration.
func (s *Store) do(ctx context.Context, fn func(d *dataset) error) error {
	if s.inTx(ctx) {
		return fn(s.data)
	}
	s.txMu.Lock()
	defer s.txMu.Unlock()
	return fn(s.data)
}

// --- Generic table ---

type table[T any] struct {
	entity string
	rows   map[uuid.UUID]T
	clone  func(T) T
}

func newTable[T any](entityName string, clone func(T) T) *table[T] {
	return &table[T]{entity: entityName, rows: make(map[uuid.UUID]T), clone: clone}
}

func (t *table[T]) copy() *table[T] {
	out := newTable(t.entity, t.clone)
	for k, v := range t.rows {
		out.rows[k] = t.clone(v)
	}
	return out
}

func (t *table[T]) get(key uuid.UUID) (T, error) {
	v, ok := t.rows[key]
	if !ok {
		var zero T
		return zero, apperror.NewNotFound(t.entity, key)
	}
	return t.clone(v), nil
}

// ref returns the stored row itself for in-place mutation.
func (t *table[T]) ref(key uuid.UUID) (T, error) {
	v, ok := t.rows[key]
	if !ok {
		var zero T
		return zero, apperror.NewNotFound(t.entity, key)
	}
	return v, nil
}

func (t *table[T]) insert(key uuid.UUID, v T) error {
	if _, exists := t.rows[key]; exists {
		return apperror.NewDuplicate(t.entity, "id", key.String())
	}
	t.rows[key] = t.clone(v)
	return nil
}

func (t *table[T]) put(key uuid.UUID, v T) {
	t.rows[key] = t.clone(v)
}

func (t *table[T]) remove(key uuid.UUID) error {
	if _, ok := t.rows[key]; !ok {
		return apperror.NewNotFound(t.entity, key)
	}
	delete(t.rows, key)
	return nil
}

// selectRows returns clones of rows accepted by keep, ordered by less.
func (t *table[T]) selectRows(keep func(T) bool, less func(a, b T) bool) []T {
	out := make([]T, 0, len(t.rows))
	for _, v := range t.rows {
		if keep == nil || keep(v) {
			out = append(out, t.clone(v))
		}
	}
	if less != nil {
		sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	}
	return out
}

// checkVersion enforces optimistic locking: stored must equal expected.
func checkVersion(entityName string, key uuid.UUID, stored, expected int) error {
	if stored != expected {
		return apperror.NewConcurrentModification(entityName, key).
			WithDetail("expectedVersion", expected).
			WithDetail("actualVersion", stored)
	}
	return nil
}

// matches reports whether any field contains search, case-insensitively.
func matches(search string, fields ...string) bool {
	if search == "" {
		return true
	}
	needle := strings.ToLower(search)
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), needle) {
			return true
		}
	}
	return false
}

func listOf[T any](t *table[T], filter domain.ListFilter, fields func(T) []string, less func(a, b T) bool) domain.ListResult[T] {
	rows := t.selectRows(func(v T) bool {
		return matches(filter.Search, fields(v)...)
	}, less)
	return domain.Paginate(rows, filter)
}
