package curve

import (
	crand "crypto/rand"
	"crypto/elliptic"
	"math/big"

	"github.com/z-mpc/z-mpc-go/internal/zmpcerr"
)

// p256Curve implements Curve over NIST P-256 using the standard library's
// crypto/elliptic, whose points are big.Int (x, y) pairs driven through
// its ScalarMult/Add methods. See DESIGN.md for the standard-library
// justification.
type p256Curve struct {
	c elliptic.Curve
}

func newP256() Curve { return p256Curve{c: elliptic.P256()} }

func (p256Curve) ID() ID { return P256 }

func (p p256Curve) Order() *big.Int {
	return new(big.Int).Set(p.c.Params().N)
}

func (p p256Curve) FieldModulus() *big.Int {
	return new(big.Int).Set(p.c.Params().P)
}

func (p p256Curve) RandomScalar() (Scalar, error) {
	k, err := crand.Int(crand.Reader, p.Order())
	if err != nil {
		return nil, zmpcerr.CurveWrap(err, "p256: random scalar")
	}
	return p256Scalar{v: k}, nil
}

func (p p256Curve) ScalarFromBytes(b []byte) (Scalar, error) {
	v := new(big.Int).SetBytes(b)
	v.Mod(v, p.Order())
	return p256Scalar{v: v}, nil
}

func (p p256Curve) ScalarFromUint64(v uint64) Scalar {
	return p256Scalar{v: new(big.Int).SetUint64(v)}
}

func (p p256Curve) Generator() Point {
	params := p.c.Params()
	return p256Point{curve: p.c, x: new(big.Int).Set(params.Gx), y: new(big.Int).Set(params.Gy)}
}

func (p p256Curve) PointFromCompressed(b []byte) (Point, error) {
	if len(b) == 33 && isAllZero(b) {
		return p256Point{curve: p.c, infinity: true}, nil
	}
	x, y := elliptic.UnmarshalCompressed(p.c, b)
	if x == nil {
		return nil, zmpcerr.Curve("p256: invalid compressed point")
	}
	return p256Point{curve: p.c, x: x, y: y}, nil
}

type p256Scalar struct {
	v *big.Int
}

func (p256Scalar) CurveID() ID { return P256 }

func (s p256Scalar) order() *big.Int {
	return elliptic.P256().Params().N
}

func (s p256Scalar) Bytes() []byte {
	out := make([]byte, 32)
	b := s.v.Bytes()
	copy(out[32-len(b):], b)
	return out
}

func (s p256Scalar) BigInt() *big.Int {
	return new(big.Int).Set(s.v)
}

func (s p256Scalar) IsZero() bool {
	return s.v.Sign() == 0
}

func (s p256Scalar) Equal(other Scalar) bool {
	o, ok := other.(p256Scalar)
	if !ok {
		return false
	}
	return s.v.Cmp(o.v) == 0
}

func (s p256Scalar) Add(other Scalar) (Scalar, error) {
	o, ok := other.(p256Scalar)
	if !ok {
		return nil, zmpcerr.Curve("p256: cannot add scalar from a different curve")
	}
	r := new(big.Int).Add(s.v, o.v)
	r.Mod(r, s.order())
	return p256Scalar{v: r}, nil
}

func (s p256Scalar) Mul(other Scalar) (Scalar, error) {
	o, ok := other.(p256Scalar)
	if !ok {
		return nil, zmpcerr.Curve("p256: cannot multiply scalar from a different curve")
	}
	r := new(big.Int).Mul(s.v, o.v)
	r.Mod(r, s.order())
	return p256Scalar{v: r}, nil
}

func (s p256Scalar) Invert() (Scalar, error) {
	if s.IsZero() {
		return nil, zmpcerr.Curve("p256: cannot invert zero scalar")
	}
	r := new(big.Int).ModInverse(s.v, s.order())
	if r == nil {
		return nil, zmpcerr.Curve("p256: scalar has no inverse")
	}
	return p256Scalar{v: r}, nil
}

type p256Point struct {
	curve    elliptic.Curve
	x, y     *big.Int
	infinity bool
}

func (p256Point) CurveID() ID { return P256 }

func (p p256Point) Compressed() []byte {
	if p.infinity {
		return make([]byte, 33)
	}
	return elliptic.MarshalCompressed(p.curve, p.x, p.y)
}

func (p p256Point) IsIdentity() bool {
	return p.infinity || (p.x.Sign() == 0 && p.y.Sign() == 0)
}

func (p p256Point) Equal(other Point) bool {
	o, ok := other.(p256Point)
	if !ok {
		return false
	}
	if p.IsIdentity() || o.IsIdentity() {
		return p.IsIdentity() == o.IsIdentity()
	}
	return p.x.Cmp(o.x) == 0 && p.y.Cmp(o.y) == 0
}

func (p p256Point) Add(other Point) (Point, error) {
	o, ok := other.(p256Point)
	if !ok {
		return nil, zmpcerr.Curve("p256: cannot add point from a different curve")
	}
	if p.IsIdentity() {
		return o, nil
	}
	if o.IsIdentity() {
		return p, nil
	}
	x, y := p.curve.Add(p.x, p.y, o.x, o.y)
	return p256Point{curve: p.curve, x: x, y: y}, nil
}

func (p p256Point) ScalarMul(scalar Scalar) (Point, error) {
	s, ok := scalar.(p256Scalar)
	if !ok {
		return nil, zmpcerr.Curve("p256: cannot multiply point by scalar from a different curve")
	}
	if p.IsIdentity() || s.IsZero() {
		return p256Point{curve: p.curve, infinity: true}, nil
	}
	x, y := p.curve.ScalarMult(p.x, p.y, s.v.Bytes())
	return p256Point{curve: p.curve, x: x, y: y}, nil
}
