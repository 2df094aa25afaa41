package errs

import (
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorsIsMatchesByCode(t *testing.T) {
	err := NewInsufficientDataError("need 2 pairs, got 0")
	wrapped := fmt.Errorf("cv vs interview: %w", err)

	assert.True(t, errors.Is(wrapped, ErrInsufficientData))
	assert.False(t, errors.Is(wrapped, ErrEmptyGroup))
	assert.Equal(t, CodeInsufficientData, CodeOf(wrapped))
}

func TestDataSourceErrorUnwrapsCause(t *testing.T) {
	err := NewDataSourceError("read Candidatures.CSV", io.ErrUnexpectedEOF)

	assert.True(t, errors.Is(err, ErrDataSource))
	assert.True(t, errors.Is(err, io.ErrUnexpectedEOF))
	assert.Contains(t, err.Error(), "Candidatures.CSV")
	assert.Contains(t, err.Error(), string(CodeDataSource))
}

func TestIsFatal(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"data source", NewDataSourceError("x", nil), true},
		{"schema mismatch", NewSchemaMismatchError("costs", "total_cost"), false},
		{"empty group", NewEmptyGroupError("x"), false},
		{"insufficient data", fmt.Errorf("wrap: %w", NewInsufficientDataError("x")), false},
		{"unclassified", errors.New("boom"), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsFatal(tt.err))
		})
	}
}

func TestIsNoData(t *testing.T) {
	assert.True(t, IsNoData(NewEmptyGroupError("x")))
	assert.True(t, IsNoData(NewInsufficientDataError("x")))
	assert.False(t, IsNoData(NewDataSourceError("x", nil)))
	assert.False(t, IsNoData(nil))
}

func TestWithCopiesMetadata(t *testing.T) {
	base := NewSchemaMismatchError("positions", "department")
	extended := base.With("file", "postes.CSV")

	assert.Equal(t, "postes.CSV", extended.Metadata["file"])
	_, leaked := base.Metadata["file"]
	assert.False(t, leaked)
}
