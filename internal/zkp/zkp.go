// Package zkp implements the non-interactive zero-knowledge proof of
// knowledge of a Pedersen commitment opening (C4): a Fiat-Shamir
// transformed Pedersen Σ-protocol proving ∃ x, r: C = g·x + h·r.
package zkp

import (
	"crypto/sha256"

	"github.com/z-mpc/z-mpc-go/internal/curve"
	"github.com/z-mpc/z-mpc-go/internal/pedersen"
	"github.com/z-mpc/z-mpc-go/internal/zmpcerr"
)

// challengeDomainTag is the fixed Fiat-Shamir domain-separation tag.
const challengeDomainTag = "z-mpc-zkp"

// Proof is the wire shape: curve tag, commitment point, challenge
// scalar, two response scalars, and the auxiliary point A = g·α + h·β
// used to bind the challenge.
type Proof struct {
	CurveID    curve.ID
	Commitment []byte
	Challenge  []byte
	S1         []byte
	S2         []byte
	A          []byte
}

// Prove generates a proof that the caller knows (value, randomness) such
// that Commit(value, randomness) == the commitment it returns alongside
// the proof.
func Prove(params *pedersen.Params, value curve.Scalar, randomness []byte) (*Proof, error) {
	c := curve.New(params.CurveID)

	alpha, err := c.RandomScalar()
	if err != nil {
		return nil, zmpcerr.ZkProofWrap(err, "sampling alpha")
	}
	beta, err := c.RandomScalar()
	if err != nil {
		return nil, zmpcerr.ZkProofWrap(err, "sampling beta")
	}

	commitment, err := params.Commit(value, randomness)
	if err != nil {
		return nil, err
	}

	gAlpha, err := params.G.ScalarMul(alpha)
	if err != nil {
		return nil, err
	}
	hBeta, err := params.H.ScalarMul(beta)
	if err != nil {
		return nil, err
	}
	auxPoint, err := gAlpha.Add(hBeta)
	if err != nil {
		return nil, err
	}
	auxBytes := auxPoint.Compressed()

	challengeBytes := computeChallenge(params.CurveID, commitment, auxBytes)
	challengeScalar, err := c.ScalarFromBytes(challengeBytes)
	if err != nil {
		return nil, err
	}

	r, err := c.ScalarFromBytes(randomness)
	if err != nil {
		return nil, zmpcerr.ZkProofWrap(err, "decoding randomness")
	}

	cx, err := challengeScalar.Mul(value)
	if err != nil {
		return nil, err
	}
	s1, err := alpha.Add(cx)
	if err != nil {
		return nil, err
	}

	cr, err := challengeScalar.Mul(r)
	if err != nil {
		return nil, err
	}
	s2, err := beta.Add(cr)
	if err != nil {
		return nil, err
	}

	return &Proof{
		CurveID:    params.CurveID,
		Commitment: commitment,
		Challenge:  challengeScalar.Bytes(),
		S1:         s1.Bytes(),
		S2:         s2.Bytes(),
		A:          auxBytes,
	}, nil
}

// Verify checks A ?= g·s1 + h·s2 - c·C (equivalently g·s1 + h·s2 = A + c·C)
// and re-derives the challenge from the transcript to bind A to it — the
// recomputation is mandatory, not optional, since a proof that carries c
// without re-binding is malleable.
//
// A curve mismatch between the proof and the supplied params returns
// (false, nil) rather than an error: a failed verification is the
// correct outcome, not a typed failure, when curves differ but byte
// lengths happen to match.
func (p *Proof) Verify(params *pedersen.Params) (bool, error) {
	if p.CurveID != params.CurveID {
		return false, nil
	}
	if len(p.S1) != 32 || len(p.S2) != 32 {
		return false, zmpcerr.ZkProof("response must be exactly 64 bytes (32+32), got %d+%d", len(p.S1), len(p.S2))
	}

	c := curve.New(p.CurveID)

	s1, err := c.ScalarFromBytes(p.S1)
	if err != nil {
		return false, zmpcerr.ZkProofWrap(err, "decoding s1")
	}
	s2, err := c.ScalarFromBytes(p.S2)
	if err != nil {
		return false, zmpcerr.ZkProofWrap(err, "decoding s2")
	}
	challengeScalar, err := c.ScalarFromBytes(p.Challenge)
	if err != nil {
		return false, zmpcerr.ZkProofWrap(err, "decoding challenge")
	}

	commitmentPoint, err := c.PointFromCompressed(p.Commitment)
	if err != nil {
		return false, zmpcerr.ZkProofWrap(err, "decoding commitment point")
	}
	auxPoint, err := c.PointFromCompressed(p.A)
	if err != nil {
		return false, zmpcerr.ZkProofWrap(err, "decoding auxiliary point")
	}

	gs1, err := params.G.ScalarMul(s1)
	if err != nil {
		return false, err
	}
	hs2, err := params.H.ScalarMul(s2)
	if err != nil {
		return false, err
	}
	lhs, err := gs1.Add(hs2)
	if err != nil {
		return false, err
	}

	cC, err := commitmentPoint.ScalarMul(challengeScalar)
	if err != nil {
		return false, err
	}
	rhs, err := auxPoint.Add(cC)
	if err != nil {
		return false, err
	}

	if !lhs.Equal(rhs) {
		return false, nil
	}

	// Mandatory challenge re-derivation: bind A to the transcript. The
	// digest is reduced mod the group order exactly as Prove reduces it
	// into Challenge — comparing raw digest bytes against a reduced
	// scalar would reject most honest proofs on curves (Edwards25519)
	// whose order is far below 2^256.
	recomputed := computeChallenge(p.CurveID, p.Commitment, p.A)
	recomputedScalar, err := c.ScalarFromBytes(recomputed)
	if err != nil {
		return false, zmpcerr.ZkProofWrap(err, "reducing recomputed challenge")
	}
	return bytesEqual(recomputedScalar.Bytes(), p.Challenge), nil
}

func computeChallenge(id curve.ID, commitment, auxPoint []byte) []byte {
	h := sha256.New()
	h.Write([]byte(challengeDomainTag))
	h.Write([]byte(id.String()))
	h.Write(commitment)
	h.Write(auxPoint)
	return h.Sum(nil)
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

// BatchVerify verifies each proof in turn, short-circuiting on the first
// failure (mirrors pedersen.Params.BatchVerify and
// original_source/src/zkp.rs::utils::batch_verify_proofs).
func BatchVerify(proofs []*Proof, params *pedersen.Params) (bool, error) {
	for _, p := range proofs {
		ok, err := p.Verify(params)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}
