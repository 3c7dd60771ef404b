package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/z-mpc/z-mpc-go/internal/curve"
)

func TestLoadSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "session.yaml")

	s := Session{Curve: "k1", Threshold: 3, Participants: 5, SelfID: 1, IsDealer: false, Listen: ":9000", Peers: []string{"127.0.0.1:9001"}}
	require.NoError(t, Save(path, s))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, s.Threshold, loaded.Threshold)
	assert.Equal(t, s.Participants, loaded.Participants)
	assert.Equal(t, s.SelfID, loaded.SelfID)

	id, err := loaded.CurveID()
	require.NoError(t, err)
	assert.Equal(t, curve.Secp256k1, id)
}

func TestValidateRejectsLowThreshold(t *testing.T) {
	s := Session{Curve: "k1", Threshold: 1, Participants: 5}
	assert.Error(t, s.Validate())
}

func TestValidateRejectsShareholderWithoutSelfID(t *testing.T) {
	s := Session{Curve: "k1", Threshold: 2, Participants: 3, IsDealer: false, SelfID: 0}
	assert.Error(t, s.Validate())
}

func TestValidateRejectsUnknownCurve(t *testing.T) {
	s := Session{Curve: "bn254", Threshold: 2, Participants: 3, IsDealer: true}
	assert.Error(t, s.Validate())
}
