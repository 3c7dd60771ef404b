package laurent

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/z-mpc/z-mpc-go/internal/curve"
	"github.com/z-mpc/z-mpc-go/internal/zmpcerr"
)

func TestValidateParams(t *testing.T) {
	assert.Error(t, ValidateParams(1, 5))
	assert.Error(t, ValidateParams(3, 2))
	assert.NoError(t, ValidateParams(3, 5))
}

func TestRandomParamsAlwaysValid(t *testing.T) {
	for i := 0; i < 50; i++ {
		sp, err := RandomParams(curve.Secp256k1)
		require.NoError(t, err)
		assert.NoError(t, ValidateParams(sp.Threshold, sp.Participants))
		assert.GreaterOrEqual(t, sp.Threshold, 2)
		assert.LessOrEqual(t, sp.Threshold, 10)
		assert.LessOrEqual(t, sp.Participants, 20)
		assert.GreaterOrEqual(t, sp.Participants, sp.Threshold)
	}
}

func TestShareVerifiability(t *testing.T) {
	for _, id := range []curve.ID{curve.Secp256k1, curve.P256, curve.Edwards25519} {
		series, err := New(id, 3, 5)
		require.NoError(t, err)

		shares, err := series.GenerateShares()
		require.NoError(t, err)
		require.Len(t, shares, 5)

		for _, sh := range shares {
			ok, err := series.VerifyShare(sh)
			require.NoError(t, err)
			assert.True(t, ok, "%s: share %d must verify", id, sh.ID)
		}
	}
}

func TestReconstructionDeterminism(t *testing.T) {
	series, err := New(curve.Secp256k1, 3, 5)
	require.NoError(t, err)
	shares, err := series.GenerateShares()
	require.NoError(t, err)

	r1, err := Reconstruct(curve.Secp256k1, 3, shares[:3])
	require.NoError(t, err)
	r2, err := Reconstruct(curve.Secp256k1, 3, shares[:3])
	require.NoError(t, err)

	assert.Equal(t, r1.Secret, r2.Secret)
	assert.True(t, r1.Valid)
	assert.Equal(t, []uint32{1, 2, 3}, r1.ParticipantsUsed)
}

func TestInsufficientShares(t *testing.T) {
	series, err := New(curve.Secp256k1, 3, 5)
	require.NoError(t, err)
	shares, err := series.GenerateShares()
	require.NoError(t, err)

	_, err = Reconstruct(curve.Secp256k1, 3, shares[:2])
	require.Error(t, err)

	var insufficient *zmpcerr.InsufficientShares
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, 3, insufficient.Required)
	assert.Equal(t, 2, insufficient.Got)
}

// TestReconstructionIsNotLagrangeWeighted documents that the unweighted
// sum of T shares does not in general equal GetSecretKey's Σ b_k. This
// is intended behaviour, not a bug.
func TestReconstructionIsNotLagrangeWeighted(t *testing.T) {
	series, err := New(curve.Secp256k1, 3, 5)
	require.NoError(t, err)
	shares, err := series.GenerateShares()
	require.NoError(t, err)

	result, err := Reconstruct(curve.Secp256k1, 3, shares[:3])
	require.NoError(t, err)

	sk, err := series.GetSecretKey()
	require.NoError(t, err)

	// The two are not expected to match; they would only be equal by
	// coincidence, documenting that reconstruct_secret intentionally
	// does not recover Σ b_k exactly.
	assert.NotEqual(t, sk.Bytes(), result.Secret)
}

func TestEveryCurveEndToEnd(t *testing.T) {
	for _, id := range []curve.ID{curve.Secp256k1, curve.P256, curve.Edwards25519} {
		series, err := New(id, 3, 5)
		require.NoError(t, err)
		shares, err := series.GenerateShares()
		require.NoError(t, err)

		result, err := Reconstruct(id, 3, shares[:3])
		require.NoError(t, err)
		assert.True(t, result.Valid)
		assert.Equal(t, []uint32{1, 2, 3}, result.ParticipantsUsed)
	}
}
