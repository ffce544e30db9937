package money_test

import (
	"testing"

	"go-payroll/internal/shared/money"

	"github.com/stretchr/testify/assert"
)

func TestDivRoundHalfUp(t *testing.T) {
	assert.Equal(t, int64(3), money.DivRoundHalfUp(5, 2))
	assert.Equal(t, int64(2), money.DivRoundHalfUp(5, 3))
	assert.Equal(t, int64(0), money.DivRoundHalfUp(0, 7))
	assert.Equal(t, int64(-2), money.DivRoundHalfUp(-5, 3))
	assert.Equal(t, int64(50000), money.DivRoundHalfUp(600000, 12))
}

func TestMulFracRoundHalfUp(t *testing.T) {
	// 50,000 * 20/22 rounds half-up to 45,455.
	assert.Equal(t, int64(45455), money.MulFracRoundHalfUp(50000, 20, 22))
	// Basis-point rate: 5% of 250,000.
	assert.Equal(t, int64(12500), money.MulFracRoundHalfUp(250000, 500, 10000))
}
