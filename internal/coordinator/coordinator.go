// Package coordinator implements the per-role session object (C6) that
// drives a dealer or a shareholder through the distribution/verification/
// reconstruction lifecycle. It owns no network
// transport of its own — internal/transport and cmd/zmpc feed it
// envelope.Envelope values and relay whatever it returns.
package coordinator

import (
	"sync"

	"go.uber.org/zap"

	"github.com/z-mpc/z-mpc-go/internal/curve"
	"github.com/z-mpc/z-mpc-go/internal/laurent"
	"github.com/z-mpc/z-mpc-go/internal/pedersen"
	"github.com/z-mpc/z-mpc-go/internal/zkp"
	"github.com/z-mpc/z-mpc-go/internal/zmpcerr"
	"github.com/z-mpc/z-mpc-go/pkg/envelope"
)

// Config is the session configuration a coordinator is initialised with.
// SelfID is 0 for a dealer-only coordinator that never holds a share of
// its own.
type Config struct {
	CurveID      curve.ID
	Threshold    int
	Participants int
	SelfID       uint32
	IsDealer     bool
}

// Coordinator is the stateful session object. A single instance plays
// either the dealer role (Distribute) or the shareholder role (Ingest),
// selected by Config.IsDealer; both roles share Reconstruct.
type Coordinator struct {
	mu     sync.Mutex
	state  State
	cfg    Config
	logger *zap.Logger

	params *pedersen.Params
	series *laurent.Series // non-nil only for a dealer after Initialize
	table  *ParticipantTable
}

// New constructs a Coordinator in the Uninitialised state.
func New(cfg Config, logger *zap.Logger) *Coordinator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Coordinator{
		state:  Uninitialised,
		cfg:    cfg,
		logger: logger.With(zap.Uint32("self_id", cfg.SelfID), zap.String("curve", cfg.CurveID.String())),
		table:  newParticipantTable(),
	}
}

// State reports the coordinator's current lifecycle position.
func (co *Coordinator) State() State {
	co.mu.Lock()
	defer co.mu.Unlock()
	return co.state
}

// Initialize derives the Pedersen parameters for the session and, for a
// dealer, samples the Laurent coefficients. It is the only valid
// transition out of Uninitialised.
func (co *Coordinator) Initialize() error {
	co.mu.Lock()
	defer co.mu.Unlock()
	if co.state != Uninitialised {
		return zmpcerr.NewOutOfOrder(Uninitialised.String(), co.state.String())
	}

	params, err := pedersen.NewParams(co.cfg.CurveID)
	if err != nil {
		return err
	}
	co.params = params

	if co.cfg.IsDealer {
		series, err := laurent.New(co.cfg.CurveID, co.cfg.Threshold, co.cfg.Participants)
		if err != nil {
			return err
		}
		co.series = series
	}

	co.state = Initialised
	co.logger.Info("coordinator initialised",
		zap.Int("threshold", co.cfg.Threshold),
		zap.Int("participants", co.cfg.Participants),
		zap.Bool("is_dealer", co.cfg.IsDealer),
	)
	return nil
}

// Distribute generates shares, commitments and proofs of knowledge for
// every participant and returns the envelope to broadcast. Dealer-only;
// requires Initialised.
func (co *Coordinator) Distribute() (*envelope.Envelope, error) {
	co.mu.Lock()
	defer co.mu.Unlock()
	if !co.cfg.IsDealer {
		return nil, zmpcerr.InvalidInput("distribute: only the dealer role may distribute shares")
	}
	if co.state != Initialised {
		return nil, zmpcerr.NewOutOfOrder(Initialised.String(), co.state.String())
	}

	shares, err := co.series.GenerateShares()
	if err != nil {
		return nil, err
	}

	committed, err := co.params.CommitAllShares(shares)
	if err != nil {
		return nil, err
	}

	// Dealer-side sanity check: every commitment this coordinator is
	// about to broadcast must itself re-verify before it ever reaches a
	// shareholder.
	selfOK, err := co.params.VerifyAllCommittedShares(committed)
	if err != nil {
		return nil, err
	}
	if !selfOK {
		return nil, zmpcerr.Commitment("distribute: a freshly generated commitment failed self-verification")
	}

	c := curve.New(co.cfg.CurveID)
	wireShares := make([]envelope.WireShare, 0, len(shares))
	wireCommitted := make([]envelope.WireCommittedShare, 0, len(shares))
	wireProofs := make([]envelope.WireZkProof, 0, len(shares))

	for _, cs := range committed {
		value, err := c.ScalarFromBytes(cs.ShareValue)
		if err != nil {
			return nil, zmpcerr.LaurentWrapErr(err, "decoding generated share %d", cs.ShareID)
		}
		proof, err := zkp.Prove(co.params, value, cs.Randomness)
		if err != nil {
			return nil, err
		}

		record := &Record{
			ID:                 cs.ShareID,
			ShareValue:         cs.ShareValue,
			Commitment:         cs.Commitment,
			Randomness:         cs.Randomness,
			CommitmentVerified: true,
			ProofVerified:      true,
		}
		co.table.Set(cs.ShareID, record)

		wireShares = append(wireShares, envelope.WireShare{
			ID:         cs.ShareID,
			Value:      envelope.HexEncode(cs.ShareValue),
			Commitment: envelope.HexEncode(cs.Commitment),
		})
		wireCommitted = append(wireCommitted, envelope.WireCommittedShare{
			Share:      envelope.WireShare{ID: cs.ShareID, Value: envelope.HexEncode(cs.ShareValue)},
			Commitment: envelope.HexEncode(cs.Commitment),
			Randomness: envelope.HexEncode(cs.Randomness),
		})
		wireProofs = append(wireProofs, envelope.WireZkProof{
			CurveID:    co.cfg.CurveID.String(),
			Commitment: envelope.HexEncode(proof.Commitment),
			Challenge:  envelope.HexEncode(proof.Challenge),
			S1:         envelope.HexEncode(proof.S1),
			S2:         envelope.HexEncode(proof.S2),
			A:          envelope.HexEncode(proof.A),
		})
	}

	co.state = Dealt
	co.logger.Info("shares distributed", zap.Int("count", len(shares)))

	env := envelope.NewShareDistribution(co.cfg.SelfID, envelope.ShareDistribution{
		Shares:      wireShares,
		Commitments: wireCommitted,
		Proofs:      wireProofs,
		CurveID:     co.cfg.CurveID.String(),
	})
	return &env, nil
}

// Ingest processes an inbound envelope. For a ShareDistribution, every
// commitment and proof is checked and every entry is recorded in the
// table with its verification flags; a failing entry is recorded as
// unverified and reported via the returned error, but does not mutate
// any other participant's record. The coordinator moves to Verified
// even when an entry fails.
func (co *Coordinator) Ingest(env envelope.Envelope) error {
	co.mu.Lock()
	defer co.mu.Unlock()

	switch env.Kind {
	case envelope.KindShareDistribution:
		return co.ingestShareDistribution(env)
	default:
		return zmpcerr.InvalidInput("ingest: unsupported envelope kind %q", env.Kind)
	}
}

func (co *Coordinator) ingestShareDistribution(env envelope.Envelope) error {
	if co.state != Initialised {
		return zmpcerr.NewOutOfOrder(Initialised.String(), co.state.String())
	}
	if env.ShareDistribution == nil {
		return zmpcerr.Serialization("ingest: share_distribution envelope missing its payload")
	}
	payload := env.ShareDistribution

	curveID, err := curve.ParseID(payload.CurveID)
	if err != nil {
		return err
	}
	if curveID != co.cfg.CurveID {
		return zmpcerr.Curve("ingest: distribution is for curve %s, session is %s", curveID, co.cfg.CurveID)
	}

	c := curve.New(curveID)
	anyFailed := false

	for i, committed := range payload.Commitments {
		var proof *envelope.WireZkProof
		if i < len(payload.Proofs) {
			proof = &payload.Proofs[i]
		}

		valueBytes, err := envelope.HexDecode(committed.Share.Value)
		if err != nil {
			return zmpcerr.SerializationWrap(err, "decoding share %d value", committed.Share.ID)
		}
		commitmentBytes, err := envelope.HexDecode(committed.Commitment)
		if err != nil {
			return zmpcerr.SerializationWrap(err, "decoding share %d commitment", committed.Share.ID)
		}
		randomnessBytes, err := envelope.HexDecode(committed.Randomness)
		if err != nil {
			return zmpcerr.SerializationWrap(err, "decoding share %d randomness", committed.Share.ID)
		}

		value, err := c.ScalarFromBytes(valueBytes)
		if err != nil {
			return zmpcerr.LaurentWrapErr(err, "decoding share %d value as scalar", committed.Share.ID)
		}

		commitOK, err := co.params.Verify(commitmentBytes, value, randomnessBytes)
		if err != nil {
			return err
		}

		proofOK := false
		if proof != nil {
			zp, err := decodeWireProof(curveID, *proof)
			if err != nil {
				return err
			}
			proofOK, err = zp.Verify(co.params)
			if err != nil {
				return err
			}
		}

		if !commitOK || !proofOK {
			anyFailed = true
			co.logger.Warn("share verification failed",
				zap.Uint32("participant_id", committed.Share.ID),
				zap.Bool("commitment_ok", commitOK),
				zap.Bool("proof_ok", proofOK),
			)
		}

		co.table.Set(committed.Share.ID, &Record{
			ID:                 committed.Share.ID,
			ShareValue:         valueBytes,
			Commitment:         commitmentBytes,
			Randomness:         randomnessBytes,
			CommitmentVerified: commitOK,
			ProofVerified:      proofOK,
		})
	}

	co.state = Verified
	co.logger.Info("share distribution ingested", zap.Int("count", len(payload.Commitments)), zap.Bool("any_failed", anyFailed))

	if anyFailed {
		return zmpcerr.Commitment("ingest: one or more shares failed commitment or proof verification")
	}
	return nil
}

func decodeWireProof(id curve.ID, wp envelope.WireZkProof) (*zkp.Proof, error) {
	commitment, err := envelope.HexDecode(wp.Commitment)
	if err != nil {
		return nil, zmpcerr.SerializationWrap(err, "decoding proof commitment")
	}
	challenge, err := envelope.HexDecode(wp.Challenge)
	if err != nil {
		return nil, zmpcerr.SerializationWrap(err, "decoding proof challenge")
	}
	s1, err := envelope.HexDecode(wp.S1)
	if err != nil {
		return nil, zmpcerr.SerializationWrap(err, "decoding proof s1")
	}
	s2, err := envelope.HexDecode(wp.S2)
	if err != nil {
		return nil, zmpcerr.SerializationWrap(err, "decoding proof s2")
	}
	a, err := envelope.HexDecode(wp.A)
	if err != nil {
		return nil, zmpcerr.SerializationWrap(err, "decoding proof aux point")
	}
	return &zkp.Proof{
		CurveID:    id,
		Commitment: commitment,
		Challenge:  challenge,
		S1:         s1,
		S2:         s2,
		A:          a,
	}, nil
}

// Reconstruct combines the requested subset of verified shares. It
// requires the Dealt (dealer), Verified (shareholder) or Reconstructed
// state and fails with
// zmpcerr.InsufficientShares if fewer than threshold ids resolve to a
// verified record.
func (co *Coordinator) Reconstruct(ids []uint32) (*laurent.ReconstructionResult, error) {
	co.mu.Lock()
	defer co.mu.Unlock()
	if co.state != Verified && co.state != Dealt && co.state != Reconstructed {
		return nil, zmpcerr.NewOutOfOrder(Verified.String(), co.state.String())
	}

	shares := make([]laurent.Share, 0, len(ids))
	for _, id := range ids {
		record, ok := co.table.Get(id)
		if !ok || !record.CommitmentVerified || !record.ProofVerified {
			continue
		}
		shares = append(shares, laurent.Share{ID: id, Value: record.ShareValue})
	}

	result, err := laurent.Reconstruct(co.cfg.CurveID, co.cfg.Threshold, shares)
	if err != nil {
		return nil, err
	}

	co.state = Reconstructed
	co.logger.Info("secret reconstructed", zap.Int("participants_used", len(result.ParticipantsUsed)))
	return result, nil
}

// Table exposes the participant table for transport/CLI callers that
// need to report per-participant verification status.
func (co *Coordinator) Table() *ParticipantTable {
	return co.table
}
