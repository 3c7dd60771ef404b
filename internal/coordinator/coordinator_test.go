package coordinator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/z-mpc/z-mpc-go/internal/curve"
	"github.com/z-mpc/z-mpc-go/internal/zmpcerr"
	"github.com/z-mpc/z-mpc-go/pkg/envelope"
)

func dealerConfig() Config {
	return Config{CurveID: curve.Secp256k1, Threshold: 3, Participants: 5, SelfID: 0, IsDealer: true}
}

func shareholderConfig(selfID uint32) Config {
	return Config{CurveID: curve.Secp256k1, Threshold: 3, Participants: 5, SelfID: selfID, IsDealer: false}
}

func TestDistributeRequiresInitialise(t *testing.T) {
	co := New(dealerConfig(), zap.NewNop())
	_, err := co.Distribute()
	var outOfOrder *zmpcerr.OutOfOrder
	require.ErrorAs(t, err, &outOfOrder)
}

func TestIngestRequiresInitialise(t *testing.T) {
	shareholder := New(shareholderConfig(1), zap.NewNop())
	env := envelope.NewShareDistribution(0, envelope.ShareDistribution{CurveID: curve.Secp256k1.String()})
	err := shareholder.Ingest(env)
	var outOfOrder *zmpcerr.OutOfOrder
	require.ErrorAs(t, err, &outOfOrder)
}

func TestDealerDistributeAndShareholderIngestRoundTrip(t *testing.T) {
	dealer := New(dealerConfig(), zap.NewNop())
	require.NoError(t, dealer.Initialize())

	env, err := dealer.Distribute()
	require.NoError(t, err)
	assert.Equal(t, Dealt, dealer.State())
	assert.Len(t, env.ShareDistribution.Commitments, 5)

	shareholder := New(shareholderConfig(1), zap.NewNop())
	require.NoError(t, shareholder.Initialize())
	require.NoError(t, shareholder.Ingest(*env))
	assert.Equal(t, Verified, shareholder.State())
	assert.Equal(t, 5, shareholder.Table().Len())

	result, err := dealer.Reconstruct([]uint32{1, 2, 3})
	require.NoError(t, err)
	assert.True(t, result.Valid)
	assert.Equal(t, Reconstructed, dealer.State())

	result2, err := shareholder.Reconstruct([]uint32{1, 2, 3})
	require.NoError(t, err)
	assert.Equal(t, result.Secret, result2.Secret)
}

func TestIngestDetectsTamperedCommitment(t *testing.T) {
	dealer := New(dealerConfig(), zap.NewNop())
	require.NoError(t, dealer.Initialize())
	env, err := dealer.Distribute()
	require.NoError(t, err)

	raw, err := envelope.HexDecode(env.ShareDistribution.Commitments[0].Commitment)
	require.NoError(t, err)
	raw[0] ^= 0xff
	env.ShareDistribution.Commitments[0].Commitment = envelope.HexEncode(raw)

	shareholder := New(shareholderConfig(2), zap.NewNop())
	require.NoError(t, shareholder.Initialize())
	err = shareholder.Ingest(*env)
	require.Error(t, err)

	record, ok := shareholder.Table().Get(env.ShareDistribution.Commitments[0].Share.ID)
	require.True(t, ok)
	assert.False(t, record.CommitmentVerified)
}

func TestReconstructRequiresThreshold(t *testing.T) {
	dealer := New(dealerConfig(), zap.NewNop())
	require.NoError(t, dealer.Initialize())
	_, err := dealer.Distribute()
	require.NoError(t, err)

	_, err = dealer.Reconstruct([]uint32{1})
	var insufficient *zmpcerr.InsufficientShares
	require.ErrorAs(t, err, &insufficient)
}
