// Package curve provides a uniform scalar/point API over the three prime
// order curves z-mpc-go supports: secp256k1, NIST P-256 and Edwards25519.
// Dispatch is by ID tag; operations mixing two objects with different IDs
// return a typed error instead of silently coercing.
package curve

import (
	"math/big"
	"strings"

	"github.com/z-mpc/z-mpc-go/internal/zmpcerr"
)

// ID is a tagged choice of the three supported curves. It is carried on
// every Scalar, Point, commitment and proof so that cross-curve mistakes
// are caught rather than silently miscomputed.
type ID int

const (
	Secp256k1 ID = iota
	P256
	Edwards25519
)

func (id ID) String() string {
	switch id {
	case Secp256k1:
		return "secp256k1"
	case P256:
		return "p256"
	case Edwards25519:
		return "ed25519"
	default:
		return "unknown"
	}
}

// ParseID accepts both the short CLI aliases (k1, r1, ed25519) and the
// canonical names, case-insensitively.
func ParseID(s string) (ID, error) {
	switch strings.ToLower(s) {
	case "k1", "secp256k1":
		return Secp256k1, nil
	case "r1", "p256":
		return P256, nil
	case "ed25519", "edwards25519":
		return Edwards25519, nil
	default:
		return 0, zmpcerr.InvalidInput("unknown curve id %q", s)
	}
}

// Scalar is an element of Z/qZ for the curve's group order q, represented
// canonically as 32 big-endian bytes.
type Scalar interface {
	CurveID() ID
	Bytes() []byte
	BigInt() *big.Int
	IsZero() bool
	Equal(other Scalar) bool
	Add(other Scalar) (Scalar, error)
	Mul(other Scalar) (Scalar, error)
	// Invert returns the modular inverse. Inverting the zero scalar is a
	// defined error; it never silently yields zero.
	Invert() (Scalar, error)
}

// Point is an element of the curve group, serialised as SEC1 compressed
// bytes for the Weierstrass curves and as 32-byte compressed Edwards-y
// for Edwards25519.
type Point interface {
	CurveID() ID
	Compressed() []byte
	IsIdentity() bool
	Equal(other Point) bool
	Add(other Point) (Point, error)
	ScalarMul(s Scalar) (Point, error)
}

// Curve is the capability set every supported curve implements.
type Curve interface {
	ID() ID
	RandomScalar() (Scalar, error)
	ScalarFromBytes(b []byte) (Scalar, error)
	ScalarFromUint64(v uint64) Scalar
	Generator() Point
	PointFromCompressed(b []byte) (Point, error)
	Order() *big.Int
	FieldModulus() *big.Int
}

// New returns the Curve implementation for id.
func New(id ID) Curve {
	switch id {
	case Secp256k1:
		return newSecp256k1()
	case P256:
		return newP256()
	case Edwards25519:
		return newEdwards25519()
	default:
		panic("curve: unknown id " + id.String())
	}
}
