// Command zmpc is the CLI front-end for the threshold sharing,
// commitment, proof and signing primitives in this module: a persistent
// curve flag, one subcommand per operation, and JSON/YAML artifacts for
// anything that crosses a process boundary.
package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/z-mpc/z-mpc-go/internal/config"
	"github.com/z-mpc/z-mpc-go/internal/coordinator"
	"github.com/z-mpc/z-mpc-go/internal/curve"
	"github.com/z-mpc/z-mpc-go/internal/laurent"
	"github.com/z-mpc/z-mpc-go/internal/pedersen"
	"github.com/z-mpc/z-mpc-go/internal/schnorr"
	"github.com/z-mpc/z-mpc-go/internal/transport"
	"github.com/z-mpc/z-mpc-go/internal/zkp"
	"github.com/z-mpc/z-mpc-go/pkg/artifact"
	"github.com/z-mpc/z-mpc-go/pkg/envelope"
)

var (
	curveFlag    string
	threshold    int
	participants int
	outputDir    string
	outputFile   string
	inputFile    string
	valueFlag    uint64
	randomHex    string
	commitHex    string
	keyHex       string
	messageFlag  string
	shareFiles   []string
	configFile   string
	randomParams bool

	rootCmd = &cobra.Command{
		Use:   "zmpc",
		Short: "Threshold secret sharing, Pedersen commitments and Schnorr signatures",
		// main prints the single error line itself.
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	shareCmd = &cobra.Command{
		Use:   "share",
		Short: "Generate Laurent-series threshold shares with Pedersen commitments (no proofs)",
		RunE:  runShare,
	}

	commitCmd = &cobra.Command{
		Use:   "commit",
		Short: "Compute a Pedersen commitment to --value",
		RunE:  runCommit,
	}

	verifyCmd = &cobra.Command{
		Use:   "verify",
		Short: "Verify a Pedersen commitment opening",
		RunE:  runVerify,
	}

	combineCmd = &cobra.Command{
		Use:   "combine",
		Short: "Reconstruct the secret from a set of share artifacts",
		RunE:  runCombine,
	}

	proveCmd = &cobra.Command{
		Use:   "prove",
		Short: "Produce a zero-knowledge proof of a commitment opening",
		RunE:  runProve,
	}

	verifyProofCmd = &cobra.Command{
		Use:   "verify-proof",
		Short: "Verify a zero-knowledge proof artifact",
		RunE:  runVerifyProof,
	}

	signCmd = &cobra.Command{
		Use:   "sign",
		Short: "Produce a Schnorr signature over --message",
		RunE:  runSign,
	}

	verifySignatureCmd = &cobra.Command{
		Use:   "verify-signature",
		Short: "Verify a Schnorr signature artifact",
		RunE:  runVerifySignature,
	}

	networkCmd = &cobra.Command{
		Use:   "network",
		Short: "Serve the coordinator for this session over HTTP",
		RunE:  runNetwork,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&curveFlag, "curve", "c", "k1", "curve: k1 (secp256k1), r1 (P-256), ed25519")

	shareCmd.Flags().IntVarP(&threshold, "threshold", "t", 0, "threshold (required unless --random)")
	shareCmd.Flags().IntVarP(&participants, "participants", "N", 0, "total participants (required unless --random)")
	shareCmd.Flags().StringVarP(&outputDir, "output-dir", "o", "./shares", "directory to write share-<id>.json into")
	shareCmd.Flags().BoolVar(&randomParams, "random", false, "sample a random valid (threshold, participants) pair instead of using --threshold/--participants")

	commitCmd.Flags().Uint64VarP(&valueFlag, "value", "v", 0, "value to commit to")
	commitCmd.Flags().StringVarP(&randomHex, "randomness", "r", "", "hex randomness; generated if empty")
	commitCmd.Flags().StringVarP(&outputFile, "output", "o", "", "write the commitment artifact here (optional)")

	verifyCmd.Flags().StringVar(&commitHex, "commitment", "", "hex commitment (required)")
	verifyCmd.Flags().Uint64VarP(&valueFlag, "value", "v", 0, "claimed value")
	verifyCmd.Flags().StringVarP(&randomHex, "randomness", "r", "", "hex randomness (required)")
	verifyCmd.MarkFlagRequired("commitment")
	verifyCmd.MarkFlagRequired("randomness")

	combineCmd.Flags().IntVarP(&threshold, "threshold", "t", 0, "threshold (required)")
	combineCmd.Flags().StringSliceVarP(&shareFiles, "shares", "s", nil, "share artifact files (at least threshold)")
	combineCmd.MarkFlagRequired("threshold")
	combineCmd.MarkFlagRequired("shares")

	proveCmd.Flags().Uint64VarP(&valueFlag, "value", "v", 0, "value to prove knowledge of")
	proveCmd.Flags().StringVarP(&randomHex, "randomness", "r", "", "hex randomness; generated if empty")
	proveCmd.Flags().StringVarP(&outputFile, "output", "o", "proof.json", "where to write the proof artifact")

	verifyProofCmd.Flags().StringVarP(&inputFile, "input", "i", "", "proof artifact file (required)")
	verifyProofCmd.MarkFlagRequired("input")

	signCmd.Flags().StringVarP(&keyHex, "key", "k", "", "hex private scalar (required)")
	signCmd.Flags().StringVarP(&messageFlag, "message", "m", "", "message to sign (required)")
	signCmd.Flags().StringVarP(&outputFile, "output", "o", "signature.json", "where to write the signature artifact")
	signCmd.MarkFlagRequired("key")
	signCmd.MarkFlagRequired("message")

	verifySignatureCmd.Flags().StringVarP(&inputFile, "input", "i", "", "signature artifact file (required)")
	verifySignatureCmd.Flags().StringVarP(&messageFlag, "message", "m", "", "message that was signed (required)")
	verifySignatureCmd.MarkFlagRequired("input")
	verifySignatureCmd.MarkFlagRequired("message")

	networkCmd.Flags().StringVarP(&configFile, "config", "f", "", "session config YAML file (required)")
	networkCmd.MarkFlagRequired("config")

	rootCmd.AddCommand(shareCmd, commitCmd, verifyCmd, combineCmd, proveCmd, verifyProofCmd, signCmd, verifySignatureCmd, networkCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func resolveCurve() (curve.ID, error) {
	return curve.ParseID(curveFlag)
}

func runShare(cmd *cobra.Command, args []string) error {
	id, err := resolveCurve()
	if err != nil {
		return err
	}

	if randomParams {
		sp, err := laurent.RandomParams(id)
		if err != nil {
			return err
		}
		threshold, participants = sp.Threshold, sp.Participants
		fmt.Printf("sampled threshold=%d participants=%d\n", threshold, participants)
	} else if threshold == 0 || participants == 0 {
		return fmt.Errorf("share: --threshold and --participants are required unless --random is set")
	}

	series, err := laurent.New(id, threshold, participants)
	if err != nil {
		return err
	}
	params, err := pedersen.NewParams(id)
	if err != nil {
		return err
	}
	shares, err := series.GenerateShares()
	if err != nil {
		return err
	}
	committed, err := params.CommitAllShares(shares)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(outputDir, 0o700); err != nil {
		return err
	}

	for _, cs := range committed {
		record := artifact.ShareRecord{
			CurveID:    id.String(),
			ID:         cs.ShareID,
			Value:      envelope.HexEncode(cs.ShareValue),
			Commitment: envelope.HexEncode(cs.Commitment),
			Randomness: envelope.HexEncode(cs.Randomness),
		}
		path := fmt.Sprintf("%s/share-%d.json", outputDir, cs.ShareID)
		if err := artifact.Write(path, record); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", path)
	}
	return nil
}

func runCommit(cmd *cobra.Command, args []string) error {
	id, err := resolveCurve()
	if err != nil {
		return err
	}
	params, err := pedersen.NewParams(id)
	if err != nil {
		return err
	}
	c := curve.New(id)
	value := c.ScalarFromUint64(valueFlag)

	randomness, err := resolveOrGenerateRandomness()
	if err != nil {
		return err
	}

	commitment, err := params.Commit(value, randomness)
	if err != nil {
		return err
	}

	fmt.Printf("commitment: %s\n", envelope.HexEncode(commitment))
	fmt.Printf("randomness: %s\n", envelope.HexEncode(randomness))

	if outputFile != "" {
		record := artifact.ShareRecord{
			CurveID:    id.String(),
			Value:      envelope.HexEncode(value.Bytes()),
			Commitment: envelope.HexEncode(commitment),
			Randomness: envelope.HexEncode(randomness),
		}
		return artifact.Write(outputFile, record)
	}
	return nil
}

func runVerify(cmd *cobra.Command, args []string) error {
	id, err := resolveCurve()
	if err != nil {
		return err
	}
	params, err := pedersen.NewParams(id)
	if err != nil {
		return err
	}
	c := curve.New(id)
	value := c.ScalarFromUint64(valueFlag)

	randomness, err := envelope.HexDecode(randomHex)
	if err != nil {
		return err
	}
	commitment, err := envelope.HexDecode(commitHex)
	if err != nil {
		return err
	}

	ok, err := params.Verify(commitment, value, randomness)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Println("invalid")
		return fmt.Errorf("commitment does not open to the given value/randomness")
	}
	fmt.Println("valid")
	return nil
}

func runCombine(cmd *cobra.Command, args []string) error {
	id, err := resolveCurve()
	if err != nil {
		return err
	}

	shares := make([]laurent.Share, 0, len(shareFiles))
	for _, path := range shareFiles {
		var record artifact.ShareRecord
		if err := artifact.Read(path, &record); err != nil {
			return err
		}
		value, err := envelope.HexDecode(record.Value)
		if err != nil {
			return err
		}
		shares = append(shares, laurent.Share{ID: record.ID, Value: value})
	}

	result, err := laurent.Reconstruct(id, threshold, shares)
	if err != nil {
		return err
	}

	fmt.Printf("secret: %s\n", envelope.HexEncode(result.Secret))
	fmt.Printf("participants used: %v\n", result.ParticipantsUsed)
	return nil
}

func runProve(cmd *cobra.Command, args []string) error {
	id, err := resolveCurve()
	if err != nil {
		return err
	}
	params, err := pedersen.NewParams(id)
	if err != nil {
		return err
	}
	c := curve.New(id)
	value := c.ScalarFromUint64(valueFlag)

	randomness, err := resolveOrGenerateRandomness()
	if err != nil {
		return err
	}

	proof, err := zkp.Prove(params, value, randomness)
	if err != nil {
		return err
	}

	wire := envelope.WireZkProof{
		CurveID:    id.String(),
		Commitment: envelope.HexEncode(proof.Commitment),
		Challenge:  envelope.HexEncode(proof.Challenge),
		S1:         envelope.HexEncode(proof.S1),
		S2:         envelope.HexEncode(proof.S2),
		A:          envelope.HexEncode(proof.A),
	}
	if err := artifact.Write(outputFile, wire); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", outputFile)
	return nil
}

func runVerifyProof(cmd *cobra.Command, args []string) error {
	id, err := resolveCurve()
	if err != nil {
		return err
	}
	params, err := pedersen.NewParams(id)
	if err != nil {
		return err
	}

	var wire envelope.WireZkProof
	if err := artifact.Read(inputFile, &wire); err != nil {
		return err
	}

	proof, err := wireToProof(id, wire)
	if err != nil {
		return err
	}

	ok, err := proof.Verify(params)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Println("invalid")
		return fmt.Errorf("proof did not verify")
	}
	fmt.Println("valid")
	return nil
}

func wireToProof(id curve.ID, wire envelope.WireZkProof) (*zkp.Proof, error) {
	commitment, err := envelope.HexDecode(wire.Commitment)
	if err != nil {
		return nil, err
	}
	challenge, err := envelope.HexDecode(wire.Challenge)
	if err != nil {
		return nil, err
	}
	s1, err := envelope.HexDecode(wire.S1)
	if err != nil {
		return nil, err
	}
	s2, err := envelope.HexDecode(wire.S2)
	if err != nil {
		return nil, err
	}
	a, err := envelope.HexDecode(wire.A)
	if err != nil {
		return nil, err
	}
	return &zkp.Proof{CurveID: id, Commitment: commitment, Challenge: challenge, S1: s1, S2: s2, A: a}, nil
}

func runSign(cmd *cobra.Command, args []string) error {
	id, err := resolveCurve()
	if err != nil {
		return err
	}
	c := curve.New(id)

	keyBytes, err := envelope.HexDecode(keyHex)
	if err != nil {
		return err
	}
	priv, err := c.ScalarFromBytes(keyBytes)
	if err != nil {
		return err
	}

	sig, err := schnorr.Sign(id, priv, []byte(messageFlag))
	if err != nil {
		return err
	}

	wire := struct {
		CurveID   string `json:"curve_id" yaml:"curve_id"`
		PublicKey string `json:"public_key" yaml:"public_key"`
		Challenge string `json:"challenge" yaml:"challenge"`
		Response  string `json:"response" yaml:"response"`
	}{
		CurveID:   id.String(),
		PublicKey: envelope.HexEncode(sig.PublicKey),
		Challenge: envelope.HexEncode(sig.Challenge),
		Response:  envelope.HexEncode(sig.Response),
	}
	if err := artifact.Write(outputFile, wire); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", outputFile)
	return nil
}

func runVerifySignature(cmd *cobra.Command, args []string) error {
	id, err := resolveCurve()
	if err != nil {
		return err
	}

	var wire struct {
		CurveID   string `json:"curve_id" yaml:"curve_id"`
		PublicKey string `json:"public_key" yaml:"public_key"`
		Challenge string `json:"challenge" yaml:"challenge"`
		Response  string `json:"response" yaml:"response"`
	}
	if err := artifact.Read(inputFile, &wire); err != nil {
		return err
	}

	publicKey, err := envelope.HexDecode(wire.PublicKey)
	if err != nil {
		return err
	}
	challenge, err := envelope.HexDecode(wire.Challenge)
	if err != nil {
		return err
	}
	response, err := envelope.HexDecode(wire.Response)
	if err != nil {
		return err
	}

	sig := &schnorr.Signature{CurveID: id, PublicKey: publicKey, Challenge: challenge, Response: response}
	ok, err := sig.Verify([]byte(messageFlag))
	if err != nil {
		return err
	}
	if !ok {
		fmt.Println("invalid")
		return fmt.Errorf("signature did not verify")
	}
	fmt.Println("valid")
	return nil
}

func runNetwork(cmd *cobra.Command, args []string) error {
	session, err := config.Load(configFile)
	if err != nil {
		return err
	}
	curveID, err := session.CurveID()
	if err != nil {
		return err
	}

	logger, err := zap.NewProduction()
	if err != nil {
		return err
	}
	defer logger.Sync()

	co := coordinator.New(coordinator.Config{
		CurveID:      curveID,
		Threshold:    session.Threshold,
		Participants: session.Participants,
		SelfID:       session.SelfID,
		IsDealer:     session.IsDealer,
	}, logger)
	if err := co.Initialize(); err != nil {
		return err
	}

	params, err := pedersen.NewParams(curveID)
	if err != nil {
		return err
	}

	srv := transport.New(co, params, logger)
	logger.Info("listening", zap.String("addr", session.Listen))
	return http.ListenAndServe(session.Listen, srv.Router())
}

func resolveOrGenerateRandomness() ([]byte, error) {
	if randomHex == "" {
		return pedersen.GenerateRandomness()
	}
	return envelope.HexDecode(randomHex)
}
