// Package e2e exercises the full dealer -> shareholder -> reconstruction
// flow across a simulated multi-party network, end-to-end, against this
// module's single-round distribution model.
package e2e

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/z-mpc/z-mpc-go/internal/coordinator"
	"github.com/z-mpc/z-mpc-go/internal/curve"
	"github.com/z-mpc/z-mpc-go/internal/schnorr"
	"github.com/z-mpc/z-mpc-go/pkg/envelope"
)

// runNetwork wires one dealer and n shareholders together in-process,
// broadcasting the dealer's ShareDistribution to every shareholder the
// way a real transport would.
func runNetwork(t *testing.T, id curve.ID, threshold, n int) (*coordinator.Coordinator, []*coordinator.Coordinator) {
	t.Helper()

	dealer := coordinator.New(coordinator.Config{CurveID: id, Threshold: threshold, Participants: n, IsDealer: true}, zap.NewNop())
	require.NoError(t, dealer.Initialize())

	env, err := dealer.Distribute()
	require.NoError(t, err)

	shareholders := make([]*coordinator.Coordinator, n)
	for i := 0; i < n; i++ {
		sh := coordinator.New(coordinator.Config{CurveID: id, Threshold: threshold, Participants: n, SelfID: uint32(i + 1), IsDealer: false}, zap.NewNop())
		require.NoError(t, sh.Initialize())
		require.NoError(t, sh.Ingest(*env))
		shareholders[i] = sh
	}
	return dealer, shareholders
}

func TestFullDistributionAndReconstructionAcrossCurves(t *testing.T) {
	for _, id := range []curve.ID{curve.Secp256k1, curve.P256, curve.Edwards25519} {
		dealer, shareholders := runNetwork(t, id, 3, 5)

		dealerResult, err := dealer.Reconstruct([]uint32{1, 2, 3})
		require.NoError(t, err)

		shResult, err := shareholders[0].Reconstruct([]uint32{2, 3, 4})
		require.NoError(t, err)

		assert.True(t, dealerResult.Valid)
		assert.True(t, shResult.Valid)
		// Different subsets reconstruct different unweighted sums; only
		// identical subsets are expected to agree.
		sameSubset, err := shareholders[1].Reconstruct([]uint32{1, 2, 3})
		require.NoError(t, err)
		assert.Equal(t, dealerResult.Secret, sameSubset.Secret, "%s: identical subsets must reconstruct identically", id)
	}
}

func TestDistributionSurvivesOneByzantineShareholder(t *testing.T) {
	id := curve.Secp256k1
	dealer := coordinator.New(coordinator.Config{CurveID: id, Threshold: 3, Participants: 5, IsDealer: true}, zap.NewNop())
	require.NoError(t, dealer.Initialize())

	env, err := dealer.Distribute()
	require.NoError(t, err)

	raw, err := envelope.HexDecode(env.ShareDistribution.Commitments[0].Commitment)
	require.NoError(t, err)
	raw[0] ^= 0xff
	env.ShareDistribution.Commitments[0].Commitment = envelope.HexEncode(raw)

	sh := coordinator.New(coordinator.Config{CurveID: id, Threshold: 3, Participants: 5, SelfID: 2, IsDealer: false}, zap.NewNop())
	require.NoError(t, sh.Initialize())

	err = sh.Ingest(*env)
	require.Error(t, err, "a tampered commitment must surface as an ingest error")

	// Despite the failure on participant 1's entry, participants 2-5
	// still have independently correct records and can reconstruct.
	result, err := sh.Reconstruct([]uint32{2, 3, 4})
	require.NoError(t, err)
	assert.True(t, result.Valid)
}

func TestSignAndVerifyEndToEnd(t *testing.T) {
	for _, id := range []curve.ID{curve.Secp256k1, curve.P256, curve.Edwards25519} {
		c := curve.New(id)
		priv := c.ScalarFromUint64(12345)
		msg := []byte("end to end message")

		sig, err := schnorr.Sign(id, priv, msg)
		require.NoError(t, err)

		ok, err := sig.Verify(msg)
		require.NoError(t, err)
		assert.True(t, ok, "%s: end-to-end signature must verify", id)
	}
}
