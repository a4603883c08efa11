package postgres

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"garmentpos/internal/core/entity"
	"garmentpos/internal/core/id"
)

type MockCatalog struct {
	entity.Catalog
	GarmentType string `db:"garment_type" json:"garmentType"`
	Internal    string `db:"-" json:"-"`
}

func TestExtractDBColumns(t *testing.T) {
	cols := ExtractDBColumns[MockCatalog]()

	expectedCols := []string{
		"id", "deletion_mark", "created_at", "updated_at",
		"code", "name", "is_active", "garment_type",
	}

	for _, expected := range expectedCols {
		assert.Contains(t, cols, expected)
	}

	assert.NotContains(t, cols, "-")
}

func TestStructToMap(t *testing.T) {
	now := time.Now().UTC()
	cat := MockCatalog{
		Catalog: entity.Catalog{
			BaseEntity: entity.BaseEntity{
				ID:           id.New(),
				DeletionMark: true,
				CreatedAt:    now,
				UpdatedAt:    now,
			},
			Code:     "PR-00042",
			Name:     "Denim Jacket",
			IsActive: true,
		},
		GarmentType: "Jacket",
		Internal:    "dropped",
	}

	m := StructToMap(cat)

	assert.Equal(t, cat.ID, m["id"])
	assert.Equal(t, true, m["deletion_mark"])
	assert.Equal(t, "PR-00042", m["code"])
	assert.Equal(t, "Denim Jacket", m["name"])
	assert.Equal(t, true, m["is_active"])
	assert.Equal(t, "Jacket", m["garment_type"])
	assert.NotContains(t, m, "-")
	assert.NotContains(t, m, "Internal")
}

func TestStructToMap_Pointer(t *testing.T) {
	cat := &MockCatalog{
		Catalog:     entity.NewCatalog("PR-00001", "Kurta"),
		GarmentType: "Kurta",
	}

	m := StructToMap(cat)

	assert.Equal(t, "PR-00001", m["code"])
	assert.Equal(t, "Kurta", m["name"])
}
