package ratio_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"findata/internal/ratio"
)

func f(v float64) *float64 { return &v }

func TestSafeDivide(t *testing.T) {
	t.Parallel()

	got := ratio.SafeDivide(f(10), f(4))
	require.NotNil(t, got)
	require.InEpsilon(t, 2.5, *got, 0.0001)

	require.Nil(t, ratio.SafeDivide(nil, f(4)))
	require.Nil(t, ratio.SafeDivide(f(10), nil))
	require.Nil(t, ratio.SafeDivide(nil, nil))
	require.Nil(t, ratio.SafeDivide(f(10), f(0)))

	// zero numerator is a real zero, not a null
	got = ratio.SafeDivide(f(0), f(4))
	require.NotNil(t, got)
	require.Zero(t, *got)
}

func TestSafeDivide_NegativeDenominator(t *testing.T) {
	t.Parallel()

	got := ratio.SafeDivide(f(10), f(-4))
	require.NotNil(t, got)
	require.InEpsilon(t, -2.5, *got, 0.0001)
}

func TestSub(t *testing.T) {
	t.Parallel()

	got := ratio.Sub(f(7), f(3))
	require.NotNil(t, got)
	require.InEpsilon(t, 4.0, *got, 0.0001)

	require.Nil(t, ratio.Sub(nil, f(3)))
	require.Nil(t, ratio.Sub(f(7), nil))
}

func TestSub_ThenDivide(t *testing.T) {
	t.Parallel()

	// a composite numerator with a missing term poisons the whole ratio
	require.Nil(t, ratio.SafeDivide(ratio.Sub(f(7), nil), f(2)))
}
