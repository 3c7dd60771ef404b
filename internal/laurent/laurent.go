// Package laurent implements the dealer-held Laurent-series sharing
// scheme (C2): f(z) = A(z) + B(z), sk = Σ b_{-1,i}, with reconstruction
// by an unweighted sum of T shares — no Lagrange interpolation. This is
// a deliberate property of the design, kept even though it does not
// algebraically single out a b_{-1} term in general.
package laurent

import (
	"crypto/rand"
	"math/big"

	"github.com/z-mpc/z-mpc-go/internal/curve"
	"github.com/z-mpc/z-mpc-go/internal/zmpcerr"
)

// Share is the pair (i, f(i)) handed to participant i, plus whatever
// commitment/proof bytes the coordinator has attached.
type Share struct {
	ID         uint32
	Value      []byte
	Commitment []byte
	Proof      []byte
}

// Coefficients exposes the dealer's a/b vectors for diagnostics and
// tests; real shareholders never see these.
type Coefficients struct {
	A [][]byte
	B [][]byte
}

// ReconstructionResult is the outcome of combining ≥T shares.
type ReconstructionResult struct {
	Secret            []byte
	Valid             bool
	ParticipantsUsed  []uint32
}

// Series is the dealer-held secret state: CurveId, threshold T, participant
// count N, and two T-length coefficient vectors a = (a0..a_{T-1}) for
// A(z) = Σ a_k z^k and b = (b0..b_{T-1}) for B(z) = Σ b_{k-1} z^{-k}.
type Series struct {
	curveID      curve.ID
	threshold    int
	participants int
	a            []curve.Scalar
	b            []curve.Scalar
}

// ValidateParams checks threshold ≥ 2 and participants ≥ threshold,
// matching original_source/src/laurent.rs::utils::validate_params.
func ValidateParams(threshold, participants int) error {
	if threshold < 2 {
		return zmpcerr.InvalidInput("threshold must be at least 2, got %d", threshold)
	}
	if participants < threshold {
		return zmpcerr.InvalidInput("participants (%d) must be at least threshold (%d)", participants, threshold)
	}
	return nil
}

// SharingParams bundles a curve choice with a threshold/participants
// pair, matching original_source/src/laurent.rs::SharingParams.
type SharingParams struct {
	CurveID      curve.ID
	Threshold    int
	Participants int
}

// RandomParams samples a valid (threshold, participants) pair: threshold
// uniform in [2,10], participants uniform in [threshold,20], matching
// original_source/src/laurent.rs::utils::random_params. Used by the CLI's
// share verb when --random is set and by tests that want an arbitrary
// valid configuration without hand-picking one.
func RandomParams(id curve.ID) (SharingParams, error) {
	t, err := rand.Int(rand.Reader, big.NewInt(9)) // [0,8] -> threshold in [2,10]
	if err != nil {
		return SharingParams{}, zmpcerr.InternalWrap(err, "laurent: sampling random threshold")
	}
	threshold := int(t.Int64()) + 2

	span := 21 - threshold // participants in [threshold,20]
	p, err := rand.Int(rand.Reader, big.NewInt(int64(span)))
	if err != nil {
		return SharingParams{}, zmpcerr.InternalWrap(err, "laurent: sampling random participant count")
	}
	participants := threshold + int(p.Int64())

	return SharingParams{CurveID: id, Threshold: threshold, Participants: participants}, nil
}

// New samples fresh a/b coefficients and constructs a Series. It is
// constructed once by the dealer; callers should scrub the coefficients
// (see Zeroize) once shares have been emitted.
func New(id curve.ID, threshold, participants int) (*Series, error) {
	if err := ValidateParams(threshold, participants); err != nil {
		return nil, err
	}
	c := curve.New(id)

	a := make([]curve.Scalar, threshold)
	b := make([]curve.Scalar, threshold)
	for k := 0; k < threshold; k++ {
		s, err := c.RandomScalar()
		if err != nil {
			return nil, zmpcerr.LaurentWrapErr(err, "sampling a_%d", k)
		}
		a[k] = s
	}
	for k := 0; k < threshold; k++ {
		s, err := c.RandomScalar()
		if err != nil {
			return nil, zmpcerr.LaurentWrapErr(err, "sampling b_%d", k)
		}
		b[k] = s
	}

	return &Series{
		curveID:      id,
		threshold:    threshold,
		participants: participants,
		a:            a,
		b:            b,
	}, nil
}

func (s *Series) CurveID() curve.ID { return s.curveID }
func (s *Series) Threshold() int    { return s.threshold }
func (s *Series) Participants() int { return s.participants }

// GenerateShares emits one share per participant id in {1,...,N}.
func (s *Series) GenerateShares() ([]Share, error) {
	c := curve.New(s.curveID)
	shares := make([]Share, s.participants)
	for i := 1; i <= s.participants; i++ {
		sh, err := s.shareForParticipant(c, uint32(i))
		if err != nil {
			return nil, err
		}
		shares[i-1] = sh
	}
	return shares, nil
}

// shareForParticipant computes f(i) = A(i) + B(i) over Z/qZ.
func (s *Series) shareForParticipant(c curve.Curve, id uint32) (Share, error) {
	z := c.ScalarFromUint64(uint64(id))
	value := c.ScalarFromUint64(0)

	for k, ak := range s.a {
		zk, err := power(c, z, uint64(k))
		if err != nil {
			return Share{}, err
		}
		term, err := ak.Mul(zk)
		if err != nil {
			return Share{}, err
		}
		value, err = value.Add(term)
		if err != nil {
			return Share{}, err
		}
	}

	for k, bNegK := range s.b {
		// b_{k} multiplies z^{-(k+1)}.
		zk, err := power(c, z, uint64(k+1))
		if err != nil {
			return Share{}, err
		}
		zNegK, err := zk.Invert()
		if err != nil {
			return Share{}, zmpcerr.Laurent("inverting z^%d for participant %d: %v", k+1, id, err)
		}
		term, err := bNegK.Mul(zNegK)
		if err != nil {
			return Share{}, err
		}
		value, err = value.Add(term)
		if err != nil {
			return Share{}, err
		}
	}

	return Share{ID: id, Value: value.Bytes()}, nil
}

// power computes base^exponent in the scalar field by square-and-multiply.
func power(c curve.Curve, base curve.Scalar, exponent uint64) (curve.Scalar, error) {
	result := c.ScalarFromUint64(1)
	b := base
	e := exponent
	var err error
	for e > 0 {
		if e&1 == 1 {
			result, err = result.Mul(b)
			if err != nil {
				return nil, err
			}
		}
		b, err = b.Mul(b)
		if err != nil {
			return nil, err
		}
		e >>= 1
	}
	return result, nil
}

// VerifyShare recomputes f(share.ID) from the dealer-held coefficients and
// checks equality. This is a dealer-side sanity check; real shareholders
// never see a/b and cannot run it.
func (s *Series) VerifyShare(share Share) (bool, error) {
	c := curve.New(s.curveID)
	expected, err := s.shareForParticipant(c, share.ID)
	if err != nil {
		return false, err
	}
	return bytesEqual(expected.Value, share.Value), nil
}

func bytesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Reconstruct computes the unweighted sum of the first `threshold` shares
// passed in. No Lagrange coefficients are applied — this is intentional:
// the design is "Lagrange-free" even though the unweighted sum does not
// in general collapse to a single b_{-1} term. Callers choose which
// subset of ≥T shares to pass; only the first T are used.
func Reconstruct(id curve.ID, threshold int, shares []Share) (*ReconstructionResult, error) {
	if len(shares) < threshold {
		return nil, zmpcerr.NewInsufficientShares(threshold, len(shares))
	}

	c := curve.New(id)
	secret := c.ScalarFromUint64(0)
	used := make([]uint32, 0, threshold)

	for _, sh := range shares[:threshold] {
		v, err := c.ScalarFromBytes(sh.Value)
		if err != nil {
			return nil, zmpcerr.LaurentWrapErr(err, "decoding share %d value", sh.ID)
		}
		var addErr error
		secret, addErr = secret.Add(v)
		if addErr != nil {
			return nil, addErr
		}
		used = append(used, sh.ID)
	}

	return &ReconstructionResult{
		Secret:           secret.Bytes(),
		Valid:            true,
		ParticipantsUsed: used,
	}, nil
}

// GetSecretKey returns Σ b_k mod q, the quantity reconstruction is
// *intended* to recover. Tests use this to observe the documented
// discrepancy with Reconstruct's unweighted-sum output.
func (s *Series) GetSecretKey() (curve.Scalar, error) {
	c := curve.New(s.curveID)
	secret := c.ScalarFromUint64(0)
	for _, bk := range s.b {
		var err error
		secret, err = secret.Add(bk)
		if err != nil {
			return nil, err
		}
	}
	return secret, nil
}

// GetCoefficients exposes the raw a/b vectors for diagnostics and tests.
func (s *Series) GetCoefficients() Coefficients {
	out := Coefficients{
		A: make([][]byte, len(s.a)),
		B: make([][]byte, len(s.b)),
	}
	for i, v := range s.a {
		out.A[i] = v.Bytes()
	}
	for i, v := range s.b {
		out.B[i] = v.Bytes()
	}
	return out
}

// Zeroize overwrites the coefficient vectors in place. Go's garbage
// collector may still hold other copies created by value semantics
// upstream; this is a best-effort scrub, not a guarantee.
func (s *Series) Zeroize() {
	for i := range s.a {
		s.a[i] = nil
	}
	for i := range s.b {
		s.b[i] = nil
	}
}
