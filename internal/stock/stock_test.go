package stock

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"teakspice-catalog/internal/apperr"
)

func TestClamp_Range(t *testing.T) {
	for available := 1; available <= 20; available++ {
		for requested := 1; requested <= 40; requested++ {
			q := Clamp(requested, available)
			require.GreaterOrEqual(t, q, 1)
			require.LessOrEqual(t, q, available)
		}
	}
}

func TestClamp_Cases(t *testing.T) {
	assert.Equal(t, 3, Clamp(3, 10))
	assert.Equal(t, 10, Clamp(15, 10))
	assert.Equal(t, 1, Clamp(0, 10))
	assert.Equal(t, 1, Clamp(-4, 10))
	assert.Equal(t, 1, Clamp(5, 0))
}

func TestCanInitiateAdd(t *testing.T) {
	assert.NoError(t, CanInitiateAdd(1))

	err := CanInitiateAdd(0)
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindOutOfStock))

	assert.True(t, apperr.Is(CanInitiateAdd(-2), apperr.KindOutOfStock))
}

func TestAdjust(t *testing.T) {
	adj := Adjust(8, 5)
	assert.Equal(t, Adjustment{Quantity: 5, Limited: true}, adj)

	adj = Adjust(5, 5)
	assert.Equal(t, Adjustment{Quantity: 5, Limited: false}, adj)

	adj = Adjust(2, 5)
	assert.Equal(t, Adjustment{Quantity: 2, Limited: false}, adj)
}

func TestNotice(t *testing.T) {
	assert.Nil(t, Notice(Adjust(2, 5), 5))

	n := Notice(Adjust(9, 3), 3)
	require.NotNil(t, n)
	assert.Equal(t, apperr.KindLimitExceeded, n.Kind)
	assert.Equal(t, "only 3 left", n.Message)

	n = Notice(Adjust(2, 0), 0)
	require.NotNil(t, n)
	assert.Equal(t, apperr.KindOutOfStock, n.Kind)
}

func TestValidateLevel(t *testing.T) {
	assert.NoError(t, ValidateLevel(0))
	assert.NoError(t, ValidateLevel(12))
	assert.True(t, apperr.Is(ValidateLevel(-1), apperr.KindValidation))
}
