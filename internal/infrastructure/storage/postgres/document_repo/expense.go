package document_repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"essenceflow/internal/core/entity"
	"essenceflow/internal/core/id"
	"essenceflow/internal/domain"
	"essenceflow/internal/domain/documents/expense"
	"essenceflow/internal/infrastructure/storage/postgres"
)

const expenseTable = "expenses"

type expenseRow struct {
	ID          uuid.UUID       `db:"id"`
	Category    string          `db:"category"`
	Description string          `db:"description"`
	Amount      decimal.Decimal `db:"amount"`
	Date        time.Time       `db:"date"`
	entity.Versioned
	entity.Audit
}

func toExpenseRow(e *expense.Expense) *expenseRow {
	return &expenseRow{
		ID:          e.ID.Raw(),
		Category:    e.Category,
		Description: e.Description,
		Amount:      e.Amount,
		Date:        e.Date,
		Versioned:   e.Versioned,
		Audit:       e.Audit,
	}
}

func (r *expenseRow) toDomain() *expense.Expense {
	return &expense.Expense{
		ID:          id.From[expense.Expense](r.ID),
		Category:    r.Category,
		Description: r.Description,
		Amount:      r.Amount,
		Date:        r.Date.UTC(),
		Versioned:   r.Versioned,
		Audit:       r.Audit,
	}
}

// ExpenseRepo implements expense.Repository.
type ExpenseRepo struct {
	base *postgres.BaseRepo[expenseRow]
}

var _ expense.Repository = (*ExpenseRepo)(nil)

// NewExpenseRepo creates a new expense repository.
func NewExpenseRepo(txm *postgres.TxManager) *ExpenseRepo {
	return &ExpenseRepo{
		base: postgres.NewBaseRepo[expenseRow](txm, postgres.TableConfig{
			Table:   expenseTable,
			Entity:  "Expense",
			Search:  []string{"category", "description"},
			OrderBy: []string{"date DESC", "id DESC"},
		}),
	}
}

func (r *ExpenseRepo) Create(ctx context.Context, e *expense.Expense) error {
	return r.base.Insert(ctx, toExpenseRow(e))
}

func (r *ExpenseRepo) GetByID(ctx context.Context, expenseID expense.ID) (*expense.Expense, error) {
	row, err := r.base.Get(ctx, expenseID.Raw(), false)
	if err != nil {
		return nil, err
	}
	return row.toDomain(), nil
}

func (r *ExpenseRepo) Update(ctx context.Context, e *expense.Expense) error {
	if err := r.base.Update(ctx, e.ID.Raw(), e.Version, toExpenseRow(e)); err != nil {
		return err
	}
	e.SetVersion(e.Version + 1)
	return nil
}

func (r *ExpenseRepo) Delete(ctx context.Context, expenseID expense.ID) error {
	return r.base.Delete(ctx, expenseID.Raw())
}

func (r *ExpenseRepo) List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*expense.Expense], error) {
	rows, total, err := r.base.List(ctx, filter)
	if err != nil {
		return domain.ListResult[*expense.Expense]{}, err
	}
	return postgres.ToListResult(rows, total, filter, (*expenseRow).toDomain), nil
}

// ListAll returns every expense, newest first.
func (r *ExpenseRepo) ListAll(ctx context.Context) ([]*expense.Expense, error) {
	rows, err := r.base.SelectWhere(ctx, nil)
	if err != nil {
		return nil, err
	}
	return postgres.MapRows(rows, (*expenseRow).toDomain), nil
}
