// Package envelope defines the wire-level message envelope (C7): a
// tagged union of message kinds exchanged between dealer and
// shareholders. Serialisation is JSON with hex-encoded scalars/points.
package envelope

import (
	"encoding/hex"

	"github.com/google/uuid"
)

// Kind tags which payload an Envelope carries.
type Kind string

const (
	KindShareDistribution               Kind = "share_distribution"
	KindCommitmentVerificationRequest    Kind = "commitment_verification_request"
	KindCommitmentVerificationResponse   Kind = "commitment_verification_response"
	KindProofVerificationRequest         Kind = "proof_verification_request"
	KindProofVerificationResponse        Kind = "proof_verification_response"
	KindSecretReconstructionRequest      Kind = "secret_reconstruction_request"
	KindSecretReconstructionResponse     Kind = "secret_reconstruction_response"
	KindHeartbeat                        Kind = "heartbeat"
	KindError                            Kind = "error"
)

// WireShare is a Share with its value hex-encoded for JSON transport.
//
// Broadcasting Value alongside a commitment destroys the commitment's
// hiding property; this struct still carries it for convenience, but a
// production deployment must strip it before broadcasting and deliver
// values over a private channel instead.
type WireShare struct {
	ID         uint32 `json:"id"`
	Value      string `json:"value"`
	Commitment string `json:"commitment,omitempty"`
	Proof      string `json:"proof,omitempty"`
}

// WireCommittedShare pairs a WireShare with its Pedersen commitment and
// the randomness used to produce it.
type WireCommittedShare struct {
	Share      WireShare `json:"share"`
	Commitment string    `json:"commitment"`
	Randomness string    `json:"randomness"`
}

// WireZkProof is a zkp.Proof with every field hex-encoded.
type WireZkProof struct {
	CurveID    string `json:"curve_id"`
	Commitment string `json:"commitment"`
	Challenge  string `json:"challenge"`
	S1         string `json:"s1"`
	S2         string `json:"s2"`
	A          string `json:"a"`
}

// ShareDistribution is the dealer-to-shareholders broadcast.
type ShareDistribution struct {
	Shares      []WireShare          `json:"shares"`
	Commitments []WireCommittedShare `json:"commitments"`
	Proofs      []WireZkProof        `json:"proofs"`
	CurveID     string               `json:"curve_id"`
}

// CommitmentVerificationRequest asks a peer to check a commitment opens
// to (value, randomness).
type CommitmentVerificationRequest struct {
	Commitment string `json:"commitment"`
	Value      string `json:"value"`
	Randomness string `json:"randomness"`
	CurveID    string `json:"curve_id"`
}

// CommitmentVerificationResponse answers a CommitmentVerificationRequest.
type CommitmentVerificationResponse struct {
	Commitment string `json:"commitment"`
	IsValid    bool   `json:"is_valid"`
}

// ProofVerificationRequest asks a peer to check a ZK proof.
type ProofVerificationRequest struct {
	Proof WireZkProof `json:"proof"`
}

// ProofVerificationResponse answers a ProofVerificationRequest.
type ProofVerificationResponse struct {
	ProofCommitment string `json:"proof_commitment"`
	IsValid         bool   `json:"is_valid"`
}

// SecretReconstructionRequest asks a peer (or the local coordinator) to
// reconstruct the secret from a share set.
type SecretReconstructionRequest struct {
	Shares  []WireShare `json:"shares"`
	CurveID string      `json:"curve_id"`
}

// SecretReconstructionResponse carries the reconstruction outcome.
type SecretReconstructionResponse struct {
	Secret           string   `json:"secret"`
	ParticipantsUsed []uint32 `json:"participants_used"`
	IsValid          bool     `json:"is_valid"`
}

// Heartbeat announces liveness.
type Heartbeat struct {
	TimestampUnixSeconds int64 `json:"timestamp_unix_seconds"`
}

// ErrorPayload carries a non-sensitive error message — never the
// offending scalar or randomness.
type ErrorPayload struct {
	Message string `json:"message"`
}

// Envelope is the tagged union wire message. Exactly one payload field is
// populated, matching Kind.
type Envelope struct {
	ID       string `json:"id"`
	Kind     Kind   `json:"kind"`
	SenderID uint32 `json:"sender_id"`

	ShareDistribution              *ShareDistribution              `json:"share_distribution,omitempty"`
	CommitmentVerificationRequest  *CommitmentVerificationRequest  `json:"commitment_verification_request,omitempty"`
	CommitmentVerificationResponse *CommitmentVerificationResponse `json:"commitment_verification_response,omitempty"`
	ProofVerificationRequest       *ProofVerificationRequest       `json:"proof_verification_request,omitempty"`
	ProofVerificationResponse      *ProofVerificationResponse      `json:"proof_verification_response,omitempty"`
	SecretReconstructionRequest    *SecretReconstructionRequest    `json:"secret_reconstruction_request,omitempty"`
	SecretReconstructionResponse   *SecretReconstructionResponse   `json:"secret_reconstruction_response,omitempty"`
	Heartbeat                      *Heartbeat                      `json:"heartbeat,omitempty"`
	Error                           *ErrorPayload                   `json:"error,omitempty"`
}

func newEnvelope(senderID uint32, kind Kind) Envelope {
	return Envelope{
		ID:       uuid.NewString(),
		Kind:     kind,
		SenderID: senderID,
	}
}

// NewShareDistribution builds a ShareDistribution envelope.
func NewShareDistribution(senderID uint32, payload ShareDistribution) Envelope {
	e := newEnvelope(senderID, KindShareDistribution)
	e.ShareDistribution = &payload
	return e
}

// NewCommitmentVerificationRequest builds a CommitmentVerificationRequest envelope.
func NewCommitmentVerificationRequest(senderID uint32, payload CommitmentVerificationRequest) Envelope {
	e := newEnvelope(senderID, KindCommitmentVerificationRequest)
	e.CommitmentVerificationRequest = &payload
	return e
}

// NewCommitmentVerificationResponse builds a CommitmentVerificationResponse envelope.
func NewCommitmentVerificationResponse(senderID uint32, payload CommitmentVerificationResponse) Envelope {
	e := newEnvelope(senderID, KindCommitmentVerificationResponse)
	e.CommitmentVerificationResponse = &payload
	return e
}

// NewProofVerificationRequest builds a ProofVerificationRequest envelope.
func NewProofVerificationRequest(senderID uint32, payload ProofVerificationRequest) Envelope {
	e := newEnvelope(senderID, KindProofVerificationRequest)
	e.ProofVerificationRequest = &payload
	return e
}

// NewProofVerificationResponse builds a ProofVerificationResponse envelope.
func NewProofVerificationResponse(senderID uint32, payload ProofVerificationResponse) Envelope {
	e := newEnvelope(senderID, KindProofVerificationResponse)
	e.ProofVerificationResponse = &payload
	return e
}

// NewSecretReconstructionRequest builds a SecretReconstructionRequest envelope.
func NewSecretReconstructionRequest(senderID uint32, payload SecretReconstructionRequest) Envelope {
	e := newEnvelope(senderID, KindSecretReconstructionRequest)
	e.SecretReconstructionRequest = &payload
	return e
}

// NewSecretReconstructionResponse builds a SecretReconstructionResponse envelope.
func NewSecretReconstructionResponse(senderID uint32, payload SecretReconstructionResponse) Envelope {
	e := newEnvelope(senderID, KindSecretReconstructionResponse)
	e.SecretReconstructionResponse = &payload
	return e
}

// NewHeartbeat builds a Heartbeat envelope.
func NewHeartbeat(senderID uint32, timestampUnixSeconds int64) Envelope {
	e := newEnvelope(senderID, KindHeartbeat)
	e.Heartbeat = &Heartbeat{TimestampUnixSeconds: timestampUnixSeconds}
	return e
}

// NewError builds an Error envelope. message must never contain the
// offending scalar or randomness.
func NewError(senderID uint32, message string) Envelope {
	e := newEnvelope(senderID, KindError)
	e.Error = &ErrorPayload{Message: message}
	return e
}

// HexEncode and HexDecode are small helpers used by the coordinator and
// transport packages when building/parsing wire payloads.
func HexEncode(b []byte) string { return hex.EncodeToString(b) }

func HexDecode(s string) ([]byte, error) { return hex.DecodeString(s) }
