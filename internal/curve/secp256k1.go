package curve

import (
	crand "crypto/rand"
	"math/big"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"

	"github.com/z-mpc/z-mpc-go/internal/zmpcerr"
)

// secp256k1Curve wraps decred's field and scalar arithmetic for Jacobian
// point operations. Scalar addition and multiplication use the library's
// constant-time ModNScalar; point multiplication and scalar inversion use
// its non-constant-time variants (ScalarMultNonConst, InverseNonConst).
type secp256k1Curve struct{}

func newSecp256k1() Curve { return secp256k1Curve{} }

func (secp256k1Curve) ID() ID { return Secp256k1 }

func (secp256k1Curve) Order() *big.Int {
	return new(big.Int).Set(secp256k1.S256().N)
}

func (secp256k1Curve) FieldModulus() *big.Int {
	return new(big.Int).Set(secp256k1.S256().P)
}

func (c secp256k1Curve) RandomScalar() (Scalar, error) {
	n := c.Order()
	k, err := crand.Int(crand.Reader, n)
	if err != nil {
		return nil, zmpcerr.CurveWrap(err, "secp256k1: random scalar")
	}
	var s secp256k1.ModNScalar
	s.SetByteSlice(k.Bytes())
	return secp256k1Scalar{s: s}, nil
}

func (secp256k1Curve) ScalarFromBytes(b []byte) (Scalar, error) {
	var s secp256k1.ModNScalar
	s.SetByteSlice(b) // reduces mod N; overflow is expected and allowed
	return secp256k1Scalar{s: s}, nil
}

func (secp256k1Curve) ScalarFromUint64(v uint64) Scalar {
	var s secp256k1.ModNScalar
	buf := new(big.Int).SetUint64(v).Bytes()
	s.SetByteSlice(buf)
	return secp256k1Scalar{s: s}
}

func (secp256k1Curve) Generator() Point {
	var k secp256k1.ModNScalar
	k.SetInt(1)
	var r secp256k1.JacobianPoint
	secp256k1.ScalarBaseMultNonConst(&k, &r)
	r.ToAffine()
	return secp256k1Point{p: r}
}

func (secp256k1Curve) PointFromCompressed(b []byte) (Point, error) {
	if len(b) == 33 && isAllZero(b) {
		return secp256k1Point{infinity: true}, nil
	}
	pk, err := secp256k1.ParsePubKey(b)
	if err != nil {
		return nil, zmpcerr.CurveWrap(err, "secp256k1: invalid compressed point")
	}
	var j secp256k1.JacobianPoint
	pk.AsJacobian(&j)
	j.ToAffine()
	return secp256k1Point{p: j}, nil
}

func isAllZero(b []byte) bool {
	for _, v := range b {
		if v != 0 {
			return false
		}
	}
	return true
}

type secp256k1Scalar struct {
	s secp256k1.ModNScalar
}

func (secp256k1Scalar) CurveID() ID { return Secp256k1 }

func (s secp256k1Scalar) Bytes() []byte {
	b := s.s.Bytes()
	out := make([]byte, 32)
	copy(out, b[:])
	return out
}

func (s secp256k1Scalar) BigInt() *big.Int {
	return new(big.Int).SetBytes(s.Bytes())
}

func (s secp256k1Scalar) IsZero() bool {
	return s.s.IsZero()
}

func (s secp256k1Scalar) Equal(other Scalar) bool {
	o, ok := other.(secp256k1Scalar)
	if !ok {
		return false
	}
	return s.s.Equals(&o.s)
}

func (s secp256k1Scalar) Add(other Scalar) (Scalar, error) {
	o, ok := other.(secp256k1Scalar)
	if !ok {
		return nil, zmpcerr.Curve("secp256k1: cannot add scalar from a different curve")
	}
	var r secp256k1.ModNScalar
	r.Add2(&s.s, &o.s)
	return secp256k1Scalar{s: r}, nil
}

func (s secp256k1Scalar) Mul(other Scalar) (Scalar, error) {
	o, ok := other.(secp256k1Scalar)
	if !ok {
		return nil, zmpcerr.Curve("secp256k1: cannot multiply scalar from a different curve")
	}
	var r secp256k1.ModNScalar
	r.Mul2(&s.s, &o.s)
	return secp256k1Scalar{s: r}, nil
}

func (s secp256k1Scalar) Invert() (Scalar, error) {
	if s.s.IsZero() {
		return nil, zmpcerr.Curve("secp256k1: cannot invert zero scalar")
	}
	r := s.s
	r.InverseNonConst()
	return secp256k1Scalar{s: r}, nil
}

type secp256k1Point struct {
	p        secp256k1.JacobianPoint
	infinity bool
}

func (secp256k1Point) CurveID() ID { return Secp256k1 }

func (p secp256k1Point) Compressed() []byte {
	if p.infinity {
		return make([]byte, 33)
	}
	pk := secp256k1.NewPublicKey(&p.p.X, &p.p.Y)
	return pk.SerializeCompressed()
}

func (p secp256k1Point) IsIdentity() bool {
	return p.infinity || p.p.Z.IsZero()
}

func (p secp256k1Point) Equal(other Point) bool {
	o, ok := other.(secp256k1Point)
	if !ok {
		return false
	}
	if p.IsIdentity() || o.IsIdentity() {
		return p.IsIdentity() == o.IsIdentity()
	}
	return p.p.X.Equals(&o.p.X) && p.p.Y.Equals(&o.p.Y)
}

func (p secp256k1Point) Add(other Point) (Point, error) {
	o, ok := other.(secp256k1Point)
	if !ok {
		return nil, zmpcerr.Curve("secp256k1: cannot add point from a different curve")
	}
	if p.IsIdentity() {
		return o, nil
	}
	if o.IsIdentity() {
		return p, nil
	}
	var r secp256k1.JacobianPoint
	secp256k1.AddNonConst(&p.p, &o.p, &r)
	r.ToAffine()
	return secp256k1Point{p: r}, nil
}

func (p secp256k1Point) ScalarMul(scalar Scalar) (Point, error) {
	s, ok := scalar.(secp256k1Scalar)
	if !ok {
		return nil, zmpcerr.Curve("secp256k1: cannot multiply point by scalar from a different curve")
	}
	if p.IsIdentity() || s.IsZero() {
		return secp256k1Point{infinity: true}, nil
	}
	var r secp256k1.JacobianPoint
	secp256k1.ScalarMultNonConst(&s.s, &p.p, &r)
	r.ToAffine()
	return secp256k1Point{p: r}, nil
}
