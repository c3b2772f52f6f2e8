package postgres

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"essenceflow/internal/core/entity"
)

type sampleRow struct {
	ID       uuid.UUID       `db:"id"`
	Name     string          `db:"name"`
	Quantity decimal.Decimal `db:"quantity"`
	Expiry   *time.Time      `db:"expiry_date"`
	Note     string
	Ignored  string `db:"-"`
	entity.Versioned
	entity.Audit
}

func TestExtractDBColumns_Embedded(t *testing.T) {
	cols := ExtractDBColumns[sampleRow]()

	assert.Equal(t, []string{
		"id", "name", "quantity", "expiry_date", "version", "created_at", "updated_at",
	}, cols)
}

func TestExtractDBColumns_Pointer(t *testing.T) {
	assert.Equal(t, ExtractDBColumns[sampleRow](), ExtractDBColumns[*sampleRow]())
}

func TestStructToMap(t *testing.T) {
	now := time.Now().UTC()
	row := sampleRow{
		ID:        uuid.New(),
		Name:      "Oud Oil",
		Quantity:  decimal.NewFromInt(100),
		Expiry:    &now,
		Note:      "not stored",
		Versioned: entity.Versioned{Version: 3},
		Audit:     entity.Audit{CreatedAt: now, UpdatedAt: now},
	}

	m := StructToMap(&row)

	assert.Len(t, m, 7)
	assert.Equal(t, row.ID, m["id"])
	assert.Equal(t, "Oud Oil", m["name"])
	assert.Equal(t, row.Quantity, m["quantity"])
	assert.Equal(t, &now, m["expiry_date"])
	assert.Equal(t, 3, m["version"])
	assert.Equal(t, now, m["created_at"])
	assert.NotContains(t, m, "Note")
}

func TestStructToMap_Omit(t *testing.T) {
	m := StructToMap(sampleRow{Name: "x"}, "id", "version", "created_at")

	assert.NotContains(t, m, "id")
	assert.NotContains(t, m, "version")
	assert.NotContains(t, m, "created_at")
	assert.Contains(t, m, "updated_at")
	assert.Equal(t, "x", m["name"])
}

func TestStructToMap_NotStruct(t *testing.T) {
	assert.Nil(t, StructToMap(42))
}
