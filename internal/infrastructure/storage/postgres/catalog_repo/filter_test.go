package catalog_repo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"garmentpos/internal/core/apperror"
)

func TestParseOrderBy(t *testing.T) {
	repo := NewBaseCatalogRepo[any](nil, "test_table", []string{"id", "garment_type"}, func() any { return nil })

	tests := []struct {
		name    string
		orderBy string
		want    string
		wantErr bool
	}{
		{name: "empty defaults to name", orderBy: "", want: "name ASC"},
		{name: "plain field", orderBy: "code", want: "code ASC"},
		{name: "explicit ascending", orderBy: "+created_at", want: "created_at ASC"},
		{name: "descending", orderBy: "-updated_at", want: "updated_at DESC"},
		{name: "column from select list", orderBy: "garment_type", want: "garment_type ASC"},
		{name: "unknown column", orderBy: "password_hash", wantErr: true},
		{name: "injection attempt", orderBy: "name; DROP TABLE test_table", wantErr: true},
		{name: "bare minus", orderBy: "-", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.parseOrderBy(tt.orderBy)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, apperror.HasCode(err, apperror.CodeValidation))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
