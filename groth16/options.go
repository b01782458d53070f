package groth16

import (
	"crypto/rand"
	"fmt"
	"io"
	"runtime"
)

// ProverConfig is the configuration for the prover with the default values
// of a cryptographically secure randomness source and one MSM task per CPU.
type ProverConfig struct {
	Rng     io.Reader
	NbTasks int
}

// ProverOption defines option for altering the behavior of the prover.
// See the descriptions of functions returning instances of this type for
// implemented options.
type ProverOption func(*ProverConfig) error

// NewProverConfig returns a default ProverConfig with given prover options
// applied over the default values.
func NewProverConfig(opts ...ProverOption) (ProverConfig, error) {
	opt := ProverConfig{Rng: rand.Reader, NbTasks: runtime.NumCPU()}
	for _, option := range opts {
		if err := option(&opt); err != nil {
			return ProverConfig{}, err
		}
	}
	return opt, nil
}

// WithRandomSource replaces the source of the blinding scalars r and s.
// The reader must yield cryptographically secure bytes for the proof to be
// zero-knowledge; injecting a deterministic stream is meant for tests.
func WithRandomSource(rng io.Reader) ProverOption {
	return func(opt *ProverConfig) error {
		if rng == nil {
			return fmt.Errorf("groth16: nil randomness source")
		}
		opt.Rng = rng
		return nil
	}
}

// WithNbTasks sets the number of parallel workers the multi-scalar
// multiplications may use.
func WithNbTasks(nbTasks int) ProverOption {
	return func(opt *ProverConfig) error {
		if nbTasks < 1 {
			return fmt.Errorf("groth16: number of tasks must be at least 1, got %d", nbTasks)
		}
		opt.NbTasks = nbTasks
		return nil
	}
}
