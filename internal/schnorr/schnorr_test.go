package schnorr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/z-mpc/z-mpc-go/internal/curve"
)

// TestSignVerify is scenario S3: sign "hello" with private key 1, verify
// with the derived public key, then flip the last byte of the response
// and confirm verification fails.
func TestSignVerify(t *testing.T) {
	for _, id := range []curve.ID{curve.Secp256k1, curve.P256, curve.Edwards25519} {
		c := curve.New(id)
		priv := c.ScalarFromUint64(1)
		msg := []byte("hello")

		sig, err := Sign(id, priv, msg)
		require.NoError(t, err)

		ok, err := sig.Verify(msg)
		require.NoError(t, err)
		assert.True(t, ok, "%s: valid signature must verify", id)

		tampered := *sig
		tampered.Response = append([]byte{}, sig.Response...)
		tampered.Response[len(tampered.Response)-1] ^= 0xff

		ok, err = tampered.Verify(msg)
		require.NoError(t, err)
		assert.False(t, ok, "%s: tampered response must fail verification", id)
	}
}

func TestVerifyRejectsTamperedMessage(t *testing.T) {
	id := curve.Secp256k1
	c := curve.New(id)
	priv := c.ScalarFromUint64(1)
	msg := []byte("hello")

	sig, err := Sign(id, priv, msg)
	require.NoError(t, err)

	ok, err := sig.Verify([]byte("hellp"))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestVerifyRejectsTamperedPublicKey(t *testing.T) {
	id := curve.Secp256k1
	c := curve.New(id)
	priv := c.ScalarFromUint64(1)
	msg := []byte("hello")

	sig, err := Sign(id, priv, msg)
	require.NoError(t, err)

	otherPriv := c.ScalarFromUint64(2)
	g := c.Generator()
	otherPub, err := g.ScalarMul(otherPriv)
	require.NoError(t, err)

	tampered := *sig
	tampered.PublicKey = otherPub.Compressed()

	ok, err := tampered.Verify(msg)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestNonceIsFreshPerSignature(t *testing.T) {
	id := curve.Secp256k1
	c := curve.New(id)
	priv := c.ScalarFromUint64(5)
	msg := []byte("hello")

	sig1, err := Sign(id, priv, msg)
	require.NoError(t, err)
	sig2, err := Sign(id, priv, msg)
	require.NoError(t, err)

	assert.NotEqual(t, sig1.Response, sig2.Response, "nonces must differ across signing calls")
}
