package curve

import (
	"crypto/rand"
	"math/big"

	"filippo.io/edwards25519"

	"github.com/z-mpc/z-mpc-go/internal/zmpcerr"
)

// edwards25519Curve wraps filippo.io/edwards25519 to satisfy the Curve
// interface, reducing arbitrary-length input mod the group order rather
// than requiring canonical bytes.
type edwards25519Curve struct{}

func newEdwards25519() Curve { return edwards25519Curve{} }

func (edwards25519Curve) ID() ID { return Edwards25519 }

// order is l = 2^252 + 27742317777372353535851937790883648493.
func (edwards25519Curve) Order() *big.Int {
	s, _ := new(big.Int).SetString("7237005577332262213973186563042994240857116359379907606001950938285454250989", 10)
	return s
}

func (edwards25519Curve) FieldModulus() *big.Int {
	// 2^255 - 19
	p := new(big.Int).Lsh(big.NewInt(1), 255)
	p.Sub(p, big.NewInt(19))
	return p
}

func (edwards25519Curve) RandomScalar() (Scalar, error) {
	var b [64]byte
	if _, err := rand.Read(b[:]); err != nil {
		return nil, zmpcerr.CurveWrap(err, "edwards25519: random scalar")
	}
	s, err := edwards25519.NewScalar().SetUniformBytes(b[:])
	if err != nil {
		return nil, zmpcerr.CurveWrap(err, "edwards25519: random scalar")
	}
	return edwards25519Scalar{s: s}, nil
}

// ScalarFromBytes interprets b as a big-endian integer and reduces it mod
// the group order before converting to the library's little-endian
// canonical form, so arbitrary-length bytes (not just canonical scalars)
// are accepted and always reduced mod q.
func (c edwards25519Curve) ScalarFromBytes(b []byte) (Scalar, error) {
	n := new(big.Int).SetBytes(b)
	n.Mod(n, c.Order())
	return c.scalarFromBigInt(n), nil
}

func (edwards25519Curve) ScalarFromUint64(v uint64) Scalar {
	n := new(big.Int).SetUint64(v)
	return edwards25519Curve{}.scalarFromBigInt(n)
}

func (edwards25519Curve) scalarFromBigInt(n *big.Int) Scalar {
	le := make([]byte, 32)
	be := n.Bytes()
	for i := 0; i < len(be); i++ {
		le[i] = be[len(be)-1-i]
	}
	s, err := edwards25519.NewScalar().SetCanonicalBytes(le)
	if err != nil {
		// n was already reduced mod the order, so this cannot happen.
		panic("curve: edwards25519 scalar reduction invariant violated: " + err.Error())
	}
	return edwards25519Scalar{s: s}
}

func (edwards25519Curve) Generator() Point {
	return edwards25519Point{p: edwards25519.NewGeneratorPoint()}
}

func (edwards25519Curve) PointFromCompressed(b []byte) (Point, error) {
	p, err := edwards25519.NewIdentityPoint().SetBytes(b)
	if err != nil {
		return nil, zmpcerr.CurveWrap(err, "edwards25519: invalid compressed point")
	}
	return edwards25519Point{p: p}, nil
}

type edwards25519Scalar struct {
	s *edwards25519.Scalar
}

func (edwards25519Scalar) CurveID() ID { return Edwards25519 }

func (s edwards25519Scalar) Bytes() []byte {
	b := s.s.Bytes()
	out := make([]byte, 32)
	for i := 0; i < 32; i++ {
		out[i] = b[31-i]
	}
	return out
}

func (s edwards25519Scalar) BigInt() *big.Int {
	return new(big.Int).SetBytes(s.Bytes())
}

func (s edwards25519Scalar) IsZero() bool {
	var zero [32]byte
	return s.s.Equal(mustScalar(zero[:])) == 1
}

func mustScalar(canonicalLE []byte) *edwards25519.Scalar {
	s, err := edwards25519.NewScalar().SetCanonicalBytes(canonicalLE)
	if err != nil {
		panic("curve: edwards25519 invariant violated: " + err.Error())
	}
	return s
}

func (s edwards25519Scalar) Equal(other Scalar) bool {
	o, ok := other.(edwards25519Scalar)
	if !ok {
		return false
	}
	return s.s.Equal(o.s) == 1
}

func (s edwards25519Scalar) Add(other Scalar) (Scalar, error) {
	o, ok := other.(edwards25519Scalar)
	if !ok {
		return nil, zmpcerr.Curve("edwards25519: cannot add scalar from a different curve")
	}
	return edwards25519Scalar{s: edwards25519.NewScalar().Add(s.s, o.s)}, nil
}

func (s edwards25519Scalar) Mul(other Scalar) (Scalar, error) {
	o, ok := other.(edwards25519Scalar)
	if !ok {
		return nil, zmpcerr.Curve("edwards25519: cannot multiply scalar from a different curve")
	}
	return edwards25519Scalar{s: edwards25519.NewScalar().Multiply(s.s, o.s)}, nil
}

func (s edwards25519Scalar) Invert() (Scalar, error) {
	if s.IsZero() {
		return nil, zmpcerr.Curve("edwards25519: cannot invert zero scalar")
	}
	return edwards25519Scalar{s: edwards25519.NewScalar().Invert(s.s)}, nil
}

type edwards25519Point struct {
	p *edwards25519.Point
}

func (edwards25519Point) CurveID() ID { return Edwards25519 }

func (p edwards25519Point) Compressed() []byte {
	return p.p.Bytes()
}

func (p edwards25519Point) IsIdentity() bool {
	return p.p.Equal(edwards25519.NewIdentityPoint()) == 1
}

func (p edwards25519Point) Equal(other Point) bool {
	o, ok := other.(edwards25519Point)
	if !ok {
		return false
	}
	return p.p.Equal(o.p) == 1
}

func (p edwards25519Point) Add(other Point) (Point, error) {
	o, ok := other.(edwards25519Point)
	if !ok {
		return nil, zmpcerr.Curve("edwards25519: cannot add point from a different curve")
	}
	return edwards25519Point{p: edwards25519.NewIdentityPoint().Add(p.p, o.p)}, nil
}

func (p edwards25519Point) ScalarMul(scalar Scalar) (Point, error) {
	s, ok := scalar.(edwards25519Scalar)
	if !ok {
		return nil, zmpcerr.Curve("edwards25519: cannot multiply point by scalar from a different curve")
	}
	return edwards25519Point{p: edwards25519.NewIdentityPoint().ScalarMult(s.s, p.p)}, nil
}
