// Package config loads the YAML session configuration: curve choice,
// threshold/participant counts, the local party's id, the listen address
// that cmd/zmpc's network verb serves on, and a peer address list that is
// stored but not read by any other package.
package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/z-mpc/z-mpc-go/internal/curve"
	"github.com/z-mpc/z-mpc-go/internal/zmpcerr"
)

// Session is the on-disk shape of a session config file.
type Session struct {
	Curve        string   `yaml:"curve"`
	Threshold    int      `yaml:"threshold"`
	Participants int      `yaml:"participants"`
	SelfID       uint32   `yaml:"self_id"`
	IsDealer     bool     `yaml:"is_dealer"`
	Listen       string   `yaml:"listen,omitempty"`
	Peers        []string `yaml:"peers,omitempty"`
}

// CurveID parses the configured curve name.
func (s Session) CurveID() (curve.ID, error) {
	return curve.ParseID(s.Curve)
}

// Load reads and parses a session config file from path.
func Load(path string) (*Session, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, zmpcerr.InternalWrap(err, "reading config %s", path)
	}
	var s Session
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, zmpcerr.SerializationWrap(err, "parsing config %s", path)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate checks the structural invariants a session config must
// satisfy before a coordinator can be built from it.
func (s Session) Validate() error {
	if _, err := s.CurveID(); err != nil {
		return err
	}
	if s.Threshold < 2 {
		return zmpcerr.InvalidInput("config: threshold must be at least 2, got %d", s.Threshold)
	}
	if s.Participants < s.Threshold {
		return zmpcerr.InvalidInput("config: participants (%d) must be at least threshold (%d)", s.Participants, s.Threshold)
	}
	if !s.IsDealer && s.SelfID == 0 {
		return zmpcerr.InvalidInput("config: a shareholder must set self_id to its participant index (1..participants)")
	}
	return nil
}

// Save writes s to path as YAML, overwriting any existing file.
func Save(path string, s Session) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return zmpcerr.SerializationWrap(err, "marshalling config")
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return zmpcerr.InternalWrap(err, "writing config %s", path)
	}
	return nil
}
