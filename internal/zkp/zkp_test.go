package zkp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/z-mpc/z-mpc-go/internal/curve"
	"github.com/z-mpc/z-mpc-go/internal/pedersen"
)

func TestProveVerifyCompleteness(t *testing.T) {
	for _, id := range []curve.ID{curve.Secp256k1, curve.P256, curve.Edwards25519} {
		params, err := pedersen.NewParams(id)
		require.NoError(t, err)
		c := curve.New(id)

		value := c.ScalarFromUint64(42)
		randomness, err := pedersen.GenerateRandomness()
		require.NoError(t, err)

		proof, err := Prove(params, value, randomness)
		require.NoError(t, err)

		ok, err := proof.Verify(params)
		require.NoError(t, err)
		assert.True(t, ok, "%s: valid proof must verify", id)
	}
}

func TestProveVerifySoundness(t *testing.T) {
	id := curve.Secp256k1
	params, err := pedersen.NewParams(id)
	require.NoError(t, err)
	c := curve.New(id)

	value := c.ScalarFromUint64(7)
	randomness, err := pedersen.GenerateRandomness()
	require.NoError(t, err)

	base, err := Prove(params, value, randomness)
	require.NoError(t, err)

	tamper := func(mutate func(*Proof)) bool {
		p := *base
		p.Commitment = append([]byte{}, base.Commitment...)
		p.Challenge = append([]byte{}, base.Challenge...)
		p.S1 = append([]byte{}, base.S1...)
		p.S2 = append([]byte{}, base.S2...)
		p.A = append([]byte{}, base.A...)
		mutate(&p)
		ok, err := p.Verify(params)
		require.NoError(t, err)
		return ok
	}

	// Flipping the SEC1 prefix parity bit (0x02 <-> 0x03) negates the point
	// while keeping a well-formed encoding; a malformed encoding is a
	// decoding error rather than a failed verification.
	assert.False(t, tamper(func(p *Proof) { p.Commitment[0] ^= 0x01 }))
	assert.False(t, tamper(func(p *Proof) { p.Challenge[0] ^= 0xff }))
	assert.False(t, tamper(func(p *Proof) { p.S1[0] ^= 0xff }))
	assert.False(t, tamper(func(p *Proof) { p.S2[0] ^= 0xff }))
	assert.False(t, tamper(func(p *Proof) { p.A[0] ^= 0x01 }))
}

func TestVerifyRejectsWrongResponseLength(t *testing.T) {
	id := curve.Secp256k1
	params, err := pedersen.NewParams(id)
	require.NoError(t, err)
	c := curve.New(id)

	value := c.ScalarFromUint64(7)
	randomness, err := pedersen.GenerateRandomness()
	require.NoError(t, err)

	proof, err := Prove(params, value, randomness)
	require.NoError(t, err)

	proof.S1 = proof.S1[:31]
	_, err = proof.Verify(params)
	assert.Error(t, err)
}

// TestCrossCurveVerificationFails is scenario S6: a proof built for
// secp256k1 must fail (not error) when checked against P-256 params.
func TestCrossCurveVerificationFails(t *testing.T) {
	k1Params, err := pedersen.NewParams(curve.Secp256k1)
	require.NoError(t, err)
	p256Params, err := pedersen.NewParams(curve.P256)
	require.NoError(t, err)

	c := curve.New(curve.Secp256k1)
	value := c.ScalarFromUint64(7)
	randomness, err := pedersen.GenerateRandomness()
	require.NoError(t, err)

	proof, err := Prove(k1Params, value, randomness)
	require.NoError(t, err)

	ok, err := proof.Verify(p256Params)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestBatchVerifyShortCircuits(t *testing.T) {
	id := curve.Secp256k1
	params, err := pedersen.NewParams(id)
	require.NoError(t, err)
	c := curve.New(id)

	var proofs []*Proof
	for i := uint64(0); i < 3; i++ {
		r, err := pedersen.GenerateRandomness()
		require.NoError(t, err)
		p, err := Prove(params, c.ScalarFromUint64(i), r)
		require.NoError(t, err)
		proofs = append(proofs, p)
	}

	ok, err := BatchVerify(proofs, params)
	require.NoError(t, err)
	assert.True(t, ok)

	proofs[1].Challenge[0] ^= 0xff
	ok, err = BatchVerify(proofs, params)
	require.NoError(t, err)
	assert.False(t, ok)
}
