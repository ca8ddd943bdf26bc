package atomstore

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/molkit/atomstore/bond"
	"github.com/molkit/atomstore/field"
)

func TestMerge(t *testing.T) {
	a := NewGroup("left")
	require.NoError(t, a.SetCoords(frame(0, 2)))
	require.NoError(t, a.SetData("names", field.Strings([]string{"A1", "A2"})))
	require.NoError(t, a.SetBonds([]bond.Pair{{I: 0, J: 1}}))

	b := NewGroup("right")
	require.NoError(t, b.SetCoords(frame(10, 3)))
	require.NoError(t, b.SetData("names", field.Strings([]string{"B1", "B2", "B3"})))
	require.NoError(t, b.SetBonds([]bond.Pair{{I: 1, J: 2}}))

	m, err := a.Merge(b)
	require.NoError(t, err)
	assert.Equal(t, "left + right", m.Title())
	assert.Equal(t, 5, m.NumAtoms())
	assert.Equal(t, []string{"A1", "A2", "B1", "B2", "B3"}, m.GetData("names").StringSlice())

	// Coordinates concatenate in (a, b) order.
	want := append(frame(0, 2), frame(10, 3)...)
	assert.Equal(t, want, m.Coords())

	// Bonds from b are offset by a's atom count.
	assert.Equal(t, []bond.Pair{{I: 0, J: 1}, {I: 3, J: 4}}, m.BondPairs())
	assert.Equal(t, []int64{1, 1, 0, 1, 1}, m.GetData("numbonds").IntSlice())
}

func TestMergeZeroFillsMissingFields(t *testing.T) {
	a := NewGroup("a")
	require.NoError(t, a.SetCoords(frame(0, 2)))
	require.NoError(t, a.SetData("betas", field.Floats([]float64{1.5, 2.5})))

	b := NewGroup("b")
	require.NoError(t, b.SetCoords(frame(0, 1)))
	require.NoError(t, b.SetData("names", field.Strings([]string{"X"})))

	m, err := a.Merge(b)
	require.NoError(t, err)
	assert.Equal(t, []float64{1.5, 2.5, 0}, m.GetData("betas").FloatSlice())
	assert.Equal(t, []string{"", "", "X"}, m.GetData("names").StringSlice())
}

func TestMergePairwiseCoordsets(t *testing.T) {
	a := NewGroup("a")
	require.NoError(t, a.SetCoordsets([][]float64{frame(0, 1), frame(1, 1)}))
	b := NewGroup("b")
	require.NoError(t, b.SetCoordsets([][]float64{frame(10, 1), frame(11, 1)}))

	m, err := a.Merge(b)
	require.NoError(t, err)
	assert.Equal(t, 2, m.NumCoordsets())

	sets, err := m.Coordsets()
	require.NoError(t, err)
	assert.Equal(t, append(frame(0, 1), frame(10, 1)...), sets[0])
	assert.Equal(t, append(frame(1, 1), frame(11, 1)...), sets[1])
}

func TestMergeCoordsetCountMismatch(t *testing.T) {
	a := NewGroup("a", WithLogger(NoopLogger()))
	require.NoError(t, a.SetCoordsets([][]float64{frame(0, 1), frame(1, 1)}))
	b := NewGroup("b")
	require.NoError(t, b.SetCoords(frame(10, 1)))

	// Only the first set of each side survives.
	m, err := a.Merge(b)
	require.NoError(t, err)
	assert.Equal(t, 1, m.NumCoordsets())
	assert.Equal(t, append(frame(0, 1), frame(10, 1)...), m.Coords())
}

func TestMergeRequiresCoordinatesOnMismatch(t *testing.T) {
	a := NewGroup("a", WithLogger(NoopLogger()))
	require.NoError(t, a.SetCoords(frame(0, 1)))
	b := NewGroup("b")
	require.NoError(t, b.SetData("names", field.Strings([]string{"X"})))

	_, err := a.Merge(b)
	assert.True(t, errors.Is(err, ErrIncompatible))
}

func TestMergeNilOperand(t *testing.T) {
	a := NewGroup("a")
	_, err := a.Merge(nil)
	assert.True(t, errors.Is(err, ErrIncompatible))
}

func TestMergeSkipsDerivedFields(t *testing.T) {
	a := NewGroup("a")
	require.NoError(t, a.SetCoords(frame(0, 2)))
	require.NoError(t, a.SetBonds([]bond.Pair{{I: 0, J: 1}}))

	b := NewGroup("b")
	require.NoError(t, b.SetCoords(frame(0, 1)))

	m, err := a.Merge(b)
	require.NoError(t, err)

	// numbonds on the merged group reflects the merged topology, not a
	// concatenation of the operands' derived columns.
	assert.Equal(t, []int64{1, 1, 0}, m.GetData("numbonds").IntSlice())
}
