// Package artifact persists the data a dealer or shareholder needs to
// keep across process restarts: a participant's own share, its
// commitment opening, and the reconstruction output — as JSON or YAML,
// selected by file extension.
package artifact

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/z-mpc/z-mpc-go/internal/zmpcerr"
)

// ShareRecord is what a single shareholder persists after a successful
// distribute/ingest round: its share, the commitment it opens to, and
// the randomness needed to re-open it.
type ShareRecord struct {
	CurveID    string `json:"curve_id" yaml:"curve_id"`
	ID         uint32 `json:"id" yaml:"id"`
	Value      string `json:"value" yaml:"value"`
	Commitment string `json:"commitment" yaml:"commitment"`
	Randomness string `json:"randomness" yaml:"randomness"`
}

// ReconstructionRecord is what gets written after a reconstruct
// operation, for audit trail purposes. Secret is deliberately the raw
// reconstructed value: callers writing this to shared storage are
// responsible for access control, same as any other secret-bearing file.
type ReconstructionRecord struct {
	CurveID          string   `json:"curve_id" yaml:"curve_id"`
	Secret           string   `json:"secret" yaml:"secret"`
	ParticipantsUsed []uint32 `json:"participants_used" yaml:"participants_used"`
}

// Write serialises v to path. The format is chosen by path's extension:
// ".json" for JSON, anything else (".yaml", ".yml") for YAML.
func Write(path string, v interface{}) error {
	var data []byte
	var err error

	if isJSON(path) {
		data, err = json.MarshalIndent(v, "", "  ")
	} else {
		data, err = yaml.Marshal(v)
	}
	if err != nil {
		return zmpcerr.SerializationWrap(err, "marshalling artifact for %s", path)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return zmpcerr.InternalWrap(err, "creating artifact directory %s", dir)
		}
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return zmpcerr.InternalWrap(err, "writing artifact %s", path)
	}
	return nil
}

// Read deserialises path into v, dispatching on the same extension rule
// as Write.
func Read(path string, v interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return zmpcerr.InternalWrap(err, "reading artifact %s", path)
	}
	if isJSON(path) {
		if err := json.Unmarshal(data, v); err != nil {
			return zmpcerr.SerializationWrap(err, "parsing artifact %s", path)
		}
		return nil
	}
	if err := yaml.Unmarshal(data, v); err != nil {
		return zmpcerr.SerializationWrap(err, "parsing artifact %s", path)
	}
	return nil
}

func isJSON(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".json")
}
