package artifact

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteReadJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "share.json")

	want := ShareRecord{CurveID: "secp256k1", ID: 1, Value: "aa", Commitment: "bb", Randomness: "cc"}
	require.NoError(t, Write(path, want))

	var got ShareRecord
	require.NoError(t, Read(path, &got))
	assert.Equal(t, want, got)
}

func TestWriteReadYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "reconstruction.yaml")

	want := ReconstructionRecord{CurveID: "ed25519", Secret: "dd", ParticipantsUsed: []uint32{1, 2, 3}}
	require.NoError(t, Write(path, want))

	var got ReconstructionRecord
	require.NoError(t, Read(path, &got))
	assert.Equal(t, want, got)
}
