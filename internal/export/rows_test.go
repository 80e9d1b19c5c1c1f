package export

import (
	"testing"

	"cloud.google.com/go/civil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moumensaid/smartfin/internal/domain"
)

func TestNullDate(t *testing.T) {
	got := nullDate(domain.String("2024-01-31"))
	require.True(t, got.Valid)
	assert.Equal(t, civil.Date{Year: 2024, Month: 1, Day: 31}, got.Date)

	assert.False(t, nullDate(nil).Valid)
	assert.False(t, nullDate(domain.String("31/01/2024")).Valid, "non-ISO dates export as NULL")
	assert.False(t, nullDate(domain.String("")).Valid)
}

func TestNullString(t *testing.T) {
	got := nullString(domain.String("MAD"))
	require.True(t, got.Valid)
	assert.Equal(t, "MAD", got.StringVal)
	assert.False(t, nullString(nil).Valid)
}

func TestNullFloat(t *testing.T) {
	got := nullFloat(domain.Float(1234.5))
	require.True(t, got.Valid)
	assert.Equal(t, 1234.5, got.Float64)
	assert.False(t, nullFloat(nil).Valid)
}
