package persist

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/molkit/atomstore"
	"github.com/molkit/atomstore/bond"
	"github.com/molkit/atomstore/field"
)

func snapshotGroup(t *testing.T) *atomstore.Group {
	t.Helper()
	g := atomstore.NewGroup("snapshot")
	require.NoError(t, g.SetCoordsets([][]float64{
		{0, 0, 0, 1, 0, 0, 0, 1, 0},
		{0, 0, 1, 1, 0, 1, 0, 1, 1},
	}))
	require.NoError(t, g.SetCSLabels([]string{"model 1", "model 2"}))
	require.NoError(t, g.SetACSIndex(1))
	require.NoError(t, g.SetData("names", field.Strings([]string{"O", "H1", "H2"})))
	require.NoError(t, g.SetData("serials", field.Ints([]int64{10, 5, 7})))
	require.NoError(t, g.SetData("betas", field.Floats([]float64{0.5, 1.5, 2.5})))
	require.NoError(t, g.SetData("hetero", field.Bools([]bool{false, true, false})))
	require.NoError(t, g.SetData("custom_tag", field.Strings([]string{"a", "b", "c"})))
	require.NoError(t, g.SetBonds([]bond.Pair{{I: 0, J: 1}, {I: 0, J: 2}}))
	return g
}

func assertGroupsEqual(t *testing.T, want, got *atomstore.Group) {
	t.Helper()
	assert.Equal(t, want.Title(), got.Title())
	assert.Equal(t, want.NumAtoms(), got.NumAtoms())
	assert.Equal(t, want.NumCoordsets(), got.NumCoordsets())
	assert.Equal(t, want.ACSIndex(), got.ACSIndex())
	assert.Equal(t, want.CSLabels(), got.CSLabels())
	assert.Equal(t, want.DataLabels(), got.DataLabels())
	for _, label := range want.DataLabels() {
		assert.True(t, want.GetData(label).Equal(got.GetData(label)), "column %q differs", label)
	}
	wantSets, err := want.Coordsets()
	require.NoError(t, err)
	gotSets, err := got.Coordsets()
	require.NoError(t, err)
	assert.Equal(t, wantSets, gotSets)
	assert.Equal(t, want.BondPairs(), got.BondPairs())
}

func TestRoundTrip(t *testing.T) {
	tests := []struct {
		name        string
		compression CompressionType
	}{
		{name: "none", compression: CompressionNone},
		{name: "lz4", compression: CompressionLZ4},
		{name: "zstd", compression: CompressionZSTD},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := snapshotGroup(t)

			var buf bytes.Buffer
			require.NoError(t, Save(&buf, g, tt.compression))

			got, err := Load(&buf)
			require.NoError(t, err)
			assertGroupsEqual(t, g, got)
		})
	}
}

func TestRoundTripCoordless(t *testing.T) {
	g := atomstore.NewGroup("fields only")
	require.NoError(t, g.SetData("resnums", field.Ints([]int64{1, 1, 2})))
	require.NoError(t, g.SetData("custom_tag", field.Strings([]string{"x", "y", "z"})))

	var buf bytes.Buffer
	require.NoError(t, Save(&buf, g, CompressionZSTD))

	got, err := Load(&buf)
	require.NoError(t, err)
	assert.Equal(t, 3, got.NumAtoms())
	assert.Equal(t, 0, got.NumCoordsets())
	assertGroupsEqual(t, g, got)
}

func TestRoundTripAfterCoordsetDeletion(t *testing.T) {
	// Deleting every coordinate set leaves the atom count fixed with no
	// coordinates and no registered columns to re-derive it from; the stored
	// count must carry custom columns through the round trip.
	g := atomstore.NewGroup("stripped")
	require.NoError(t, g.SetCoords(make([]float64, 6)))
	require.NoError(t, g.DelCoordset(0))
	require.NoError(t, g.SetData("mycol", field.Strings([]string{"a", "b"})))

	var buf bytes.Buffer
	require.NoError(t, Save(&buf, g, CompressionNone))

	got, err := Load(&buf)
	require.NoError(t, err)
	assert.Equal(t, 2, got.NumAtoms())
	assert.Equal(t, 0, got.NumCoordsets())
	require.NotNil(t, got.GetData("mycol"))
	assert.Equal(t, []string{"a", "b"}, got.GetData("mycol").StringSlice())
}

func TestRoundTripEmptyGroup(t *testing.T) {
	g := atomstore.NewGroup("empty")

	var buf bytes.Buffer
	require.NoError(t, Save(&buf, g, CompressionNone))

	got, err := Load(&buf)
	require.NoError(t, err)
	assert.Equal(t, "empty", got.Title())
	assert.Equal(t, 0, got.NumAtoms())
}

func TestLoadRejectsBadMagic(t *testing.T) {
	_, err := Load(bytes.NewReader([]byte("NOTASNAPSHOT")))
	assert.ErrorIs(t, err, ErrBadMagic)
}

func TestLoadRejectsUnknownVersion(t *testing.T) {
	g := atomstore.NewGroup("g")
	var buf bytes.Buffer
	require.NoError(t, Save(&buf, g, CompressionNone))

	data := buf.Bytes()
	data[4] = 99 // version byte follows the magic
	_, err := Load(bytes.NewReader(data))
	assert.ErrorIs(t, err, ErrBadVersion)
}

func TestLoadRejectsTruncatedInput(t *testing.T) {
	g := snapshotGroup(t)
	var buf bytes.Buffer
	require.NoError(t, Save(&buf, g, CompressionNone))

	data := buf.Bytes()
	_, err := Load(bytes.NewReader(data[:len(data)/2]))
	assert.Error(t, err)
}

func TestSaveRejectsUnknownCompression(t *testing.T) {
	g := atomstore.NewGroup("g")
	var buf bytes.Buffer
	assert.Error(t, Save(&buf, g, CompressionType(42)))
}
