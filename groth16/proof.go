package groth16

import (
	"encoding/json"
	"fmt"

	"github.com/consensys/gnark-crypto/ecc"
	curve "github.com/consensys/gnark-crypto/ecc/bn254"
)

// Proof is a Groth16 proof: two G1 commitments and one G2 commitment,
// normalised to affine form.
type Proof struct {
	A curve.G1Affine
	B curve.G2Affine
	C curve.G1Affine
}

// CurveID returns the curve the proof lives on.
func (proof *Proof) CurveID() ecc.ID {
	return ecc.BN254
}

// proofRaw is the snarkjs wire shape. Coordinates are decimal strings of the
// natural-form integer representatives; the third entry of each point is the
// literal affine Z coordinate, "1" in G1 and ("1","0") in G2, kept verbatim
// for interop with verifiers reading that format.
type proofRaw struct {
	PiA      [3]string    `json:"pi_a"`
	PiB      [3][2]string `json:"pi_b"`
	PiC      [3]string    `json:"pi_c"`
	Protocol string       `json:"protocol"`
}

// MarshalJSON implements json.Marshaler. The field order of the emitted
// object is fixed: pi_a, pi_b, pi_c, protocol.
func (proof *Proof) MarshalJSON() ([]byte, error) {
	var raw proofRaw
	raw.PiA = [3]string{proof.A.X.String(), proof.A.Y.String(), "1"}
	raw.PiB = [3][2]string{
		{proof.B.X.A0.String(), proof.B.X.A1.String()},
		{proof.B.Y.A0.String(), proof.B.Y.A1.String()},
		{"1", "0"},
	}
	raw.PiC = [3]string{proof.C.X.String(), proof.C.Y.String(), "1"}
	raw.Protocol = "groth16"
	return json.Marshal(&raw)
}

// UnmarshalJSON implements json.Unmarshaler for the snarkjs wire shape.
func (proof *Proof) UnmarshalJSON(data []byte) error {
	var raw proofRaw
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw.Protocol != "groth16" {
		return fmt.Errorf("groth16: unexpected protocol %q", raw.Protocol)
	}
	if _, err := proof.A.X.SetString(raw.PiA[0]); err != nil {
		return fmt.Errorf("groth16: pi_a: %w", err)
	}
	if _, err := proof.A.Y.SetString(raw.PiA[1]); err != nil {
		return fmt.Errorf("groth16: pi_a: %w", err)
	}
	if _, err := proof.B.X.A0.SetString(raw.PiB[0][0]); err != nil {
		return fmt.Errorf("groth16: pi_b: %w", err)
	}
	if _, err := proof.B.X.A1.SetString(raw.PiB[0][1]); err != nil {
		return fmt.Errorf("groth16: pi_b: %w", err)
	}
	if _, err := proof.B.Y.A0.SetString(raw.PiB[1][0]); err != nil {
		return fmt.Errorf("groth16: pi_b: %w", err)
	}
	if _, err := proof.B.Y.A1.SetString(raw.PiB[1][1]); err != nil {
		return fmt.Errorf("groth16: pi_b: %w", err)
	}
	if _, err := proof.C.X.SetString(raw.PiC[0]); err != nil {
		return fmt.Errorf("groth16: pi_c: %w", err)
	}
	if _, err := proof.C.Y.SetString(raw.PiC[1]); err != nil {
		return fmt.Errorf("groth16: pi_c: %w", err)
	}
	return nil
}

// ToJSONString returns the snarkjs JSON projection of the proof.
func (proof *Proof) ToJSONString() (string, error) {
	b, err := json.Marshal(proof)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
