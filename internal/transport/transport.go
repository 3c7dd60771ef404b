// Package transport exposes a Coordinator over HTTP, grounded on the
// route shape of original_source/src/network.rs's NetworkMessage enum:
// distribute, verify-commitment, verify-proof, reconstruct, heartbeat.
// Routing uses gorilla/mux. Handlers reply with a JSON envelope.Envelope
// (an Error envelope on failure), except a successful ingest, which
// replies 204 with no body; ingest failures and response-encoding
// failures are logged through the server's zap logger.
package transport

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/z-mpc/z-mpc-go/internal/coordinator"
	"github.com/z-mpc/z-mpc-go/internal/curve"
	"github.com/z-mpc/z-mpc-go/internal/pedersen"
	"github.com/z-mpc/z-mpc-go/internal/zkp"
	"github.com/z-mpc/z-mpc-go/pkg/envelope"
)

// Server wires a Coordinator to an HTTP router.
type Server struct {
	co     *coordinator.Coordinator
	params *pedersen.Params
	logger *zap.Logger
	router *mux.Router
}

// New builds a Server. params is used by the stateless
// verify-commitment/verify-proof routes, which check an opening or
// proof without touching the coordinator's session state.
func New(co *coordinator.Coordinator, params *pedersen.Params, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{co: co, params: params, logger: logger, router: mux.NewRouter()}
	s.routes()
	return s
}

// Router returns the underlying mux.Router for use with http.ListenAndServe.
func (s *Server) Router() *mux.Router { return s.router }

func (s *Server) routes() {
	s.router.HandleFunc("/v1/distribute", s.handleDistribute).Methods(http.MethodPost)
	s.router.HandleFunc("/v1/ingest", s.handleIngest).Methods(http.MethodPost)
	s.router.HandleFunc("/v1/verify-commitment", s.handleVerifyCommitment).Methods(http.MethodPost)
	s.router.HandleFunc("/v1/verify-proof", s.handleVerifyProof).Methods(http.MethodPost)
	s.router.HandleFunc("/v1/reconstruct", s.handleReconstruct).Methods(http.MethodPost)
	s.router.HandleFunc("/v1/heartbeat", s.handleHeartbeat).Methods(http.MethodGet)
}

func (s *Server) handleDistribute(w http.ResponseWriter, r *http.Request) {
	env, err := s.co.Distribute()
	if err != nil {
		s.writeError(w, http.StatusConflict, err)
		return
	}
	s.writeJSON(w, http.StatusOK, env)
}

func (s *Server) handleIngest(w http.ResponseWriter, r *http.Request) {
	var env envelope.Envelope
	if err := json.NewDecoder(r.Body).Decode(&env); err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := s.co.Ingest(env); err != nil {
		s.logger.Warn("ingest failed", zap.Error(err))
		s.writeError(w, http.StatusUnprocessableEntity, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleVerifyCommitment(w http.ResponseWriter, r *http.Request) {
	var req envelope.CommitmentVerificationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	curveID, err := curve.ParseID(req.CurveID)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	c := curve.New(curveID)

	valueBytes, err := envelope.HexDecode(req.Value)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	value, err := c.ScalarFromBytes(valueBytes)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	randomness, err := envelope.HexDecode(req.Randomness)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	commitment, err := envelope.HexDecode(req.Commitment)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	ok, err := s.params.Verify(commitment, value, randomness)
	if err != nil {
		s.writeError(w, http.StatusUnprocessableEntity, err)
		return
	}

	resp := envelope.NewCommitmentVerificationResponse(0, envelope.CommitmentVerificationResponse{
		Commitment: req.Commitment,
		IsValid:    ok,
	})
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleVerifyProof(w http.ResponseWriter, r *http.Request) {
	var req envelope.ProofVerificationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	curveID, err := curve.ParseID(req.Proof.CurveID)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	commitment, err := envelope.HexDecode(req.Proof.Commitment)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	challenge, err := envelope.HexDecode(req.Proof.Challenge)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	s1, err := envelope.HexDecode(req.Proof.S1)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	s2, err := envelope.HexDecode(req.Proof.S2)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	a, err := envelope.HexDecode(req.Proof.A)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	proof := &zkp.Proof{CurveID: curveID, Commitment: commitment, Challenge: challenge, S1: s1, S2: s2, A: a}
	ok, err := proof.Verify(s.params)
	if err != nil {
		s.writeError(w, http.StatusUnprocessableEntity, err)
		return
	}

	resp := envelope.NewProofVerificationResponse(0, envelope.ProofVerificationResponse{
		ProofCommitment: req.Proof.Commitment,
		IsValid:         ok,
	})
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleReconstruct(w http.ResponseWriter, r *http.Request) {
	var req envelope.SecretReconstructionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	ids := make([]uint32, 0, len(req.Shares))
	for _, sh := range req.Shares {
		ids = append(ids, sh.ID)
	}

	result, err := s.co.Reconstruct(ids)
	if err != nil {
		s.writeError(w, http.StatusUnprocessableEntity, err)
		return
	}

	resp := envelope.NewSecretReconstructionResponse(0, envelope.SecretReconstructionResponse{
		Secret:           envelope.HexEncode(result.Secret),
		ParticipantsUsed: result.ParticipantsUsed,
		IsValid:          result.Valid,
	})
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleHeartbeat(w http.ResponseWriter, r *http.Request) {
	resp := envelope.NewHeartbeat(0, time.Now().Unix())
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("failed to encode response", zap.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	resp := envelope.NewError(0, err.Error())
	s.writeJSON(w, status, resp)
}
