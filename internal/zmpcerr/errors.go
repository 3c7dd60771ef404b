// Package zmpcerr defines the typed error taxonomy shared by every
// cryptographic component of z-mpc-go. Primitives never panic on
// adversarial input; they return one of these values instead.
package zmpcerr

import "fmt"

// Kind identifies which part of the taxonomy an Error belongs to.
type Kind string

const (
	KindCurve          Kind = "curve_error"
	KindLaurent        Kind = "laurent_error"
	KindCommitment     Kind = "commitment_error"
	KindZkProof        Kind = "zk_proof_error"
	KindInvalidInput   Kind = "invalid_input"
	KindSerialization  Kind = "serialization_error"
	KindInternal       Kind = "internal"
)

// Error is the common shape for every taxonomy kind except
// InsufficientShares, which carries its own structured fields.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newf(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func wrap(kind Kind, err error, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Err: err}
}

// Curve reports a malformed scalar/point, a cross-curve operand, a point
// not on the curve, or a point at infinity where one is forbidden.
func Curve(format string, args ...interface{}) *Error {
	return newf(KindCurve, format, args...)
}

func CurveWrap(err error, format string, args ...interface{}) *Error {
	return wrap(KindCurve, err, format, args...)
}

// Laurent reports a failure in the Laurent-series coefficient arithmetic.
func Laurent(format string, args ...interface{}) *Error {
	return newf(KindLaurent, format, args...)
}

func LaurentWrapErr(err error, format string, args ...interface{}) *Error {
	return wrap(KindLaurent, err, format, args...)
}

// Commitment reports a length mismatch in a batch operation or a
// commitment verification mismatch.
func Commitment(format string, args ...interface{}) *Error {
	return newf(KindCommitment, format, args...)
}

func CommitmentWrapErr(err error, format string, args ...interface{}) *Error {
	return wrap(KindCommitment, err, format, args...)
}

// ZkProof reports a malformed response length, a challenge-rederivation
// mismatch, or a point-decoding failure inside the ZK proof protocol.
func ZkProof(format string, args ...interface{}) *Error {
	return newf(KindZkProof, format, args...)
}

func ZkProofWrap(err error, format string, args ...interface{}) *Error {
	return wrap(KindZkProof, err, format, args...)
}

// InvalidInput reports a threshold below 2, fewer participants than the
// threshold, or a hex/byte decoding failure on caller-supplied input.
func InvalidInput(format string, args ...interface{}) *Error {
	return newf(KindInvalidInput, format, args...)
}

// Serialization reports a framing parse failure.
func Serialization(format string, args ...interface{}) *Error {
	return newf(KindSerialization, format, args...)
}

func SerializationWrap(err error, format string, args ...interface{}) *Error {
	return wrap(KindSerialization, err, format, args...)
}

// Internal reports an I/O or transport failure bubbling up from a
// collaborator outside the cryptographic core.
func Internal(format string, args ...interface{}) *Error {
	return newf(KindInternal, format, args...)
}

func InternalWrap(err error, format string, args ...interface{}) *Error {
	return wrap(KindInternal, err, format, args...)
}

// InsufficientShares is returned by reconstruction when fewer than the
// threshold number of shares were supplied.
type InsufficientShares struct {
	Required int
	Got      int
}

func (e *InsufficientShares) Error() string {
	return fmt.Sprintf("insufficient shares: required %d, got %d", e.Required, e.Got)
}

// NewInsufficientShares builds an InsufficientShares error.
func NewInsufficientShares(required, got int) *InsufficientShares {
	return &InsufficientShares{Required: required, Got: got}
}

// OutOfOrder is returned by the coordinator when a message arrives before
// a prerequisite message from the same dealer (e.g. a reconstruction
// request before the corresponding share distribution).
type OutOfOrder struct {
	Expected string
	Got      string
}

func (e *OutOfOrder) Error() string {
	return fmt.Sprintf("out-of-order message: expected %s before %s", e.Expected, e.Got)
}

func NewOutOfOrder(expected, got string) *OutOfOrder {
	return &OutOfOrder{Expected: expected, Got: got}
}
