package groth16

import "errors"

var (
	// ErrInvalidWitnessLength is returned by Prove when the witness vector
	// length does not match the key's number of variables.
	ErrInvalidWitnessLength = errors.New("groth16: witness length does not match the number of variables")

	// ErrInvalidProvingKey is returned when a structural check on the proving
	// key fails. Keys are checked at construction time, not at prove time.
	ErrInvalidProvingKey = errors.New("groth16: invalid proving key")
)
