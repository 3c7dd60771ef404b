// Package pedersen implements Pedersen commitments (C3) parameterised per
// curve: C = g·x + h·r, binding under discrete-log hardness when
// log_g(h) is unknown, and perfectly hiding.
package pedersen

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/binary"
	"io"

	"golang.org/x/crypto/hkdf"

	"github.com/z-mpc/z-mpc-go/internal/curve"
	"github.com/z-mpc/z-mpc-go/internal/laurent"
	"github.com/z-mpc/z-mpc-go/internal/zmpcerr"
)

// domainSeparator is the fixed tag hashed into the h-generator derivation.
const domainSeparator = "z-mpc/pedersen/h/"

// Params bundles the curve id and the two generators g, h used by a
// Pedersen commitment scheme. g is the canonical base point; h is
// derived deterministically (see DeriveH) so that no party — including
// the dealer who calls NewParams — ever learns log_g(h). Sampling h as a
// dealer-known random scalar multiple of g (the naive construction)
// preserves hiding but destroys binding.
type Params struct {
	CurveID curve.ID
	G       curve.Point
	H       curve.Point
}

// NewParams builds the Pedersen parameters for a curve.
func NewParams(id curve.ID) (*Params, error) {
	c := curve.New(id)
	h, err := DeriveH(id)
	if err != nil {
		return nil, err
	}
	return &Params{
		CurveID: id,
		G:       c.Generator(),
		H:       h,
	}, nil
}

// DeriveH derives the second Pedersen generator by nothing-up-my-sleeve
// hash-to-curve over the domain-separated tag, following a
// try-and-increment approach: hash the tag (plus a counter) with
// SHA-256, expand with HKDF, and decode the result as a compressed point
// (prefixed with 0x02 on the Weierstrass curves; cofactor-cleared on
// Edwards25519), retrying with an incremented counter until it decodes
// to a non-identity point. h is never computed as a scalar multiple of
// G, so no discrete log of h is known to anyone.
func DeriveH(id curve.ID) (curve.Point, error) {
	c := curve.New(id)
	tag := []byte(domainSeparator + id.String())

	for counter := uint32(0); counter < 1<<16; counter++ {
		var counterBytes [4]byte
		binary.BigEndian.PutUint32(counterBytes[:], counter)

		seed := sha256.Sum256(append(append([]byte{}, tag...), counterBytes[:]...))

		hk := hkdf.New(sha256.New, seed[:], nil, []byte("z-mpc/pedersen/h-expand"))
		expanded := make([]byte, 32)
		if _, err := io.ReadFull(hk, expanded); err != nil {
			return nil, zmpcerr.CurveWrap(err, "pedersen: expanding h candidate")
		}

		candidate := expanded
		if id != curve.Edwards25519 {
			candidate = append([]byte{0x02}, expanded...)
		}
		h, err := c.PointFromCompressed(candidate)
		if err != nil {
			continue
		}
		if id == curve.Edwards25519 {
			// Clear the cofactor so h lies in the prime-order subgroup.
			if h, err = h.ScalarMul(c.ScalarFromUint64(8)); err != nil {
				return nil, err
			}
		}
		if h.IsIdentity() {
			continue
		}
		return h, nil
	}

	return nil, zmpcerr.Internal("pedersen: exhausted hash-to-curve attempts for curve %s", id)
}

// GenerateRandomness returns 32 uniformly random bytes; callers reduce
// them mod q when interpreting as a scalar.
func GenerateRandomness() ([]byte, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return nil, zmpcerr.InternalWrap(err, "pedersen: generating randomness")
	}
	return buf, nil
}

// Commit computes C = g·x + h·r and returns its compressed bytes.
func (p *Params) Commit(value curve.Scalar, randomness []byte) ([]byte, error) {
	c := curve.New(p.CurveID)
	if value.CurveID() != p.CurveID {
		return nil, zmpcerr.Curve("pedersen: value is from a different curve")
	}
	r, err := c.ScalarFromBytes(randomness)
	if err != nil {
		return nil, zmpcerr.CommitmentWrapErr(err, "decoding randomness")
	}

	gv, err := p.G.ScalarMul(value)
	if err != nil {
		return nil, err
	}
	hr, err := p.H.ScalarMul(r)
	if err != nil {
		return nil, err
	}
	sum, err := gv.Add(hr)
	if err != nil {
		return nil, err
	}
	return sum.Compressed(), nil
}

// Verify recomputes the commitment and compares compressed bytes.
func (p *Params) Verify(commitment []byte, value curve.Scalar, randomness []byte) (bool, error) {
	recomputed, err := p.Commit(value, randomness)
	if err != nil {
		return false, err
	}
	return bytesEqual(commitment, recomputed), nil
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

// BatchCommit commits each value with its paired randomness.
func (p *Params) BatchCommit(values []curve.Scalar, randomness [][]byte) ([][]byte, error) {
	if len(values) != len(randomness) {
		return nil, zmpcerr.Commitment("batch_commit: values and randomness must have the same length (%d != %d)", len(values), len(randomness))
	}
	out := make([][]byte, len(values))
	for i := range values {
		c, err := p.Commit(values[i], randomness[i])
		if err != nil {
			return nil, err
		}
		out[i] = c
	}
	return out, nil
}

// BatchVerify verifies each (commitment, value, randomness) triple,
// short-circuiting on the first failure.
func (p *Params) BatchVerify(commitments [][]byte, values []curve.Scalar, randomness [][]byte) (bool, error) {
	if len(commitments) != len(values) || len(values) != len(randomness) {
		return false, zmpcerr.Commitment("batch_verify: all arrays must have the same length")
	}
	for i := range commitments {
		ok, err := p.Verify(commitments[i], values[i], randomness[i])
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}

// CommittedShare bundles one laurent.Share with the commitment it was
// published under and the randomness needed to re-open it.
type CommittedShare struct {
	ShareID    uint32
	ShareValue []byte
	Commitment []byte
	Randomness []byte
}

// CommitAllShares commits every share in shares under freshly sampled
// randomness, one per share, matching
// original_source/src/pedersen.rs::utils::commit_all_shares.
func (p *Params) CommitAllShares(shares []laurent.Share) ([]CommittedShare, error) {
	c := curve.New(p.CurveID)
	out := make([]CommittedShare, len(shares))
	for i, sh := range shares {
		randomness, err := GenerateRandomness()
		if err != nil {
			return nil, err
		}
		value, err := c.ScalarFromBytes(sh.Value)
		if err != nil {
			return nil, zmpcerr.LaurentWrapErr(err, "decoding share %d value", sh.ID)
		}
		commitment, err := p.Commit(value, randomness)
		if err != nil {
			return nil, err
		}
		out[i] = CommittedShare{ShareID: sh.ID, ShareValue: sh.Value, Commitment: commitment, Randomness: randomness}
	}
	return out, nil
}

// VerifyAllCommittedShares checks every entry in committed, short-
// circuiting on the first failure, matching
// original_source/src/pedersen.rs::utils::verify_all_committed_shares.
func (p *Params) VerifyAllCommittedShares(committed []CommittedShare) (bool, error) {
	c := curve.New(p.CurveID)
	for _, cs := range committed {
		value, err := c.ScalarFromBytes(cs.ShareValue)
		if err != nil {
			return false, zmpcerr.LaurentWrapErr(err, "decoding share %d value", cs.ShareID)
		}
		ok, err := p.Verify(cs.Commitment, value, cs.Randomness)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}
