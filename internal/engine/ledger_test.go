package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshsymonds/degree-audit/internal/model"
)

func TestCourseLedger(t *testing.T) {
	ledger := NewCourseLedger([]model.Course{
		{Code: "MATH 161", Credits: 3},
		{Code: "BIOL 301", Credits: 4},
	})

	require.Equal(t, 2, ledger.Len())
	assert.InDelta(t, 3, ledger.Remaining(0), 0.001)
	assert.False(t, ledger.Exhausted(0))

	require.NoError(t, ledger.Consume(0, 2))
	assert.InDelta(t, 1, ledger.Remaining(0), 0.001)

	require.NoError(t, ledger.Consume(0, 1))
	assert.True(t, ledger.Exhausted(0))

	err := ledger.Consume(0, 0.5)
	assert.Error(t, err, "consuming past the balance must fail")

	err = ledger.Consume(1, -1)
	assert.Error(t, err, "negative consumption must fail")
	assert.InDelta(t, 4, ledger.Remaining(1), 0.001)
}
