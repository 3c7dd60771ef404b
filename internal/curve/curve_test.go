package curve

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func allCurves() []ID {
	return []ID{Secp256k1, P256, Edwards25519}
}

func TestParseID(t *testing.T) {
	cases := map[string]ID{
		"k1":           Secp256k1,
		"secp256k1":    Secp256k1,
		"r1":           P256,
		"p256":         P256,
		"ed25519":      Edwards25519,
		"edwards25519": Edwards25519,
		"ED25519":      Edwards25519,
	}
	for in, want := range cases {
		got, err := ParseID(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := ParseID("bn254")
	assert.Error(t, err)
}

func TestScalarFromBytesReducesModQ(t *testing.T) {
	for _, id := range allCurves() {
		c := New(id)
		order := c.Order()
		overflow := make([]byte, 64)
		for i := range overflow {
			overflow[i] = 0xff
		}
		s, err := c.ScalarFromBytes(overflow)
		require.NoError(t, err)
		assert.True(t, s.BigInt().Cmp(order) < 0, "%s: scalar must be reduced below order", id)
		assert.Len(t, s.Bytes(), 32)
	}
}

func TestScalarInvert(t *testing.T) {
	for _, id := range allCurves() {
		c := New(id)
		s, err := c.ScalarFromBytes([]byte{0, 0, 0, 7})
		require.NoError(t, err)
		inv, err := s.Invert()
		require.NoError(t, err)
		prod, err := s.Mul(inv)
		require.NoError(t, err)
		one := c.ScalarFromUint64(1)
		assert.True(t, prod.Equal(one), "%s: s * s^-1 must equal 1", id)
	}
}

func TestScalarInvertZeroFails(t *testing.T) {
	for _, id := range allCurves() {
		c := New(id)
		zero := c.ScalarFromUint64(0)
		_, err := zero.Invert()
		assert.Error(t, err)
	}
}

func TestGeneratorRoundTripsThroughCompressed(t *testing.T) {
	for _, id := range allCurves() {
		c := New(id)
		g := c.Generator()
		compressed := g.Compressed()
		back, err := c.PointFromCompressed(compressed)
		require.NoError(t, err)
		assert.True(t, g.Equal(back), "%s: generator must round-trip", id)
	}
}

func TestPointScalarMulDistributesOverAdd(t *testing.T) {
	for _, id := range allCurves() {
		c := New(id)
		g := c.Generator()
		two := c.ScalarFromUint64(2)
		three := c.ScalarFromUint64(3)
		five := c.ScalarFromUint64(5)

		lhs, err := g.ScalarMul(five)
		require.NoError(t, err)

		gTwo, err := g.ScalarMul(two)
		require.NoError(t, err)
		gThree, err := g.ScalarMul(three)
		require.NoError(t, err)
		rhs, err := gTwo.Add(gThree)
		require.NoError(t, err)

		assert.True(t, lhs.Equal(rhs), "%s: 5G must equal 2G+3G", id)
	}
}

func TestCrossCurveScalarOpsFail(t *testing.T) {
	k1 := New(Secp256k1)
	ed := New(Edwards25519)

	a := k1.ScalarFromUint64(1)
	b := ed.ScalarFromUint64(1)

	_, err := a.Add(b)
	assert.Error(t, err)
	_, err = a.Mul(b)
	assert.Error(t, err)
}

func TestCrossCurvePointOpsFail(t *testing.T) {
	k1 := New(Secp256k1)
	p256 := New(P256)

	gk1 := k1.Generator()
	gp256 := p256.Generator()

	_, err := gk1.Add(gp256)
	assert.Error(t, err)

	s := p256.ScalarFromUint64(2)
	_, err = gk1.ScalarMul(s)
	assert.Error(t, err)
}
