package validation

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"site-catalog/internal/domain"
)

type sample struct {
	Name       string `json:"name" validate:"nonblank,max=10"`
	URL        string `json:"url" validate:"nonblank"`
	CategoryID int64  `json:"category_id" validate:"required,gt=0"`
}

func TestStruct_Valid(t *testing.T) {
	err := Struct(sample{Name: "Lib", URL: "lib.com", CategoryID: 1})
	assert.NoError(t, err)
}

func TestStruct_CollectsEveryField(t *testing.T) {
	err := Struct(sample{Name: "   ", URL: ""})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrValidation))

	var vErr *domain.ValidationError
	require.True(t, errors.As(err, &vErr))
	assert.Equal(t, "The name field is required.", vErr.Fields["name"])
	assert.Equal(t, "The url field is required.", vErr.Fields["url"])
	assert.Equal(t, "The category id field is required.", vErr.Fields["category_id"])
}

func TestStruct_MaxLength(t *testing.T) {
	err := Struct(sample{Name: strings.Repeat("x", 11), URL: "u", CategoryID: 2})

	var vErr *domain.ValidationError
	require.True(t, errors.As(err, &vErr))
	assert.Len(t, vErr.Fields, 1)
	assert.Contains(t, vErr.Fields["name"], "10 characters")
}

func TestStruct_NegativeReference(t *testing.T) {
	err := Struct(sample{Name: "a", URL: "u", CategoryID: -4})

	var vErr *domain.ValidationError
	require.True(t, errors.As(err, &vErr))
	assert.Equal(t, "The category id field must reference an existing record.", vErr.Fields["category_id"])
}
