package groth16

import (
	"fmt"
	"math/bits"

	"github.com/bits-and-blooms/bitset"
	curve "github.com/consensys/gnark-crypto/ecc/bn254"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr/fft"
)

// ProvingKey holds the output of a snarkjs trusted setup for one circuit:
// the verifying-key commitments, the MSM base tables and the R1CS coefficient
// stream. It is immutable once precomputed and shared by reference across
// Prove calls.
type ProvingKey struct {
	// NbVars counts all witness signals, including the constant one at index 0
	// and the NbPublic public inputs at indices 1..NbPublic.
	NbVars   uint32
	NbPublic uint32

	// DomainSize is the FFT domain cardinality, a power of two at least the
	// number of constraints.
	DomainSize uint32

	// [α]₁, [β]₁, [δ]₁ ; [A_i(τ)]₁, [B_i(τ)]₁ per signal, [C_i(τ)]₁ for the
	// non-public tail, and the quotient-commitment bases H.
	G1 struct {
		Alpha, Beta, Delta curve.G1Affine
		A, B, C, H         []curve.G1Affine
	}

	// [β]₂, [δ]₂ ; [B_i(τ)]₂ per signal.
	G2 struct {
		Beta, Delta curve.G2Affine
		B           []curve.G2Affine
	}

	Coefficients []Coefficient

	domain        *fft.Domain
	nbConstraints int

	// masks of the points at infinity in the base tables; signals absent
	// from a matrix are committed as the identity, and their scalars are
	// zeroed before the multi-exps so the bases are never dereferenced
	infinityA, infinityB, infinityC, infinityH         []bool
	nbInfinityA, nbInfinityB, nbInfinityC, nbInfinityH int
}

func infinityMaskG1(points []curve.G1Affine) ([]bool, int) {
	mask := make([]bool, len(points))
	nb := 0
	for i := range points {
		if points[i].IsInfinity() {
			mask[i] = true
			nb++
		}
	}
	return mask, nb
}

// NbConstraints returns the number of constraint rows referenced by the
// coefficient stream. Available after Precompute.
func (pk *ProvingKey) NbConstraints() int {
	return pk.nbConstraints
}

// Precompute validates the key structure and builds the evaluation domain.
// It must be called once after the exported fields are populated; it is a
// no-op on an already precomputed key.
func (pk *ProvingKey) Precompute() error {
	if pk.domain != nil {
		return nil
	}
	if pk.DomainSize == 0 || bits.OnesCount32(pk.DomainSize) != 1 {
		return fmt.Errorf("%w: domain size %d is not a power of two", ErrInvalidProvingKey, pk.DomainSize)
	}
	if pk.NbVars <= pk.NbPublic {
		return fmt.Errorf("%w: %d variables for %d public inputs", ErrInvalidProvingKey, pk.NbVars, pk.NbPublic)
	}
	if len(pk.G1.A) != int(pk.NbVars) || len(pk.G1.B) != int(pk.NbVars) || len(pk.G2.B) != int(pk.NbVars) {
		return fmt.Errorf("%w: A/B base tables must hold %d points", ErrInvalidProvingKey, pk.NbVars)
	}
	if len(pk.G1.C) != int(pk.NbVars-pk.NbPublic-1) {
		return fmt.Errorf("%w: C base table must hold %d points, has %d", ErrInvalidProvingKey, pk.NbVars-pk.NbPublic-1, len(pk.G1.C))
	}
	if len(pk.G1.H) != int(pk.DomainSize) {
		return fmt.Errorf("%w: H base table must hold %d points, has %d", ErrInvalidProvingKey, pk.DomainSize, len(pk.G1.H))
	}

	rows := bitset.New(uint(pk.DomainSize))
	for i := range pk.Coefficients {
		c := &pk.Coefficients[i]
		if c.Matrix > 1 {
			return fmt.Errorf("%w: coefficient %d selects matrix %d", ErrInvalidProvingKey, i, c.Matrix)
		}
		if c.Constraint >= pk.DomainSize {
			return fmt.Errorf("%w: coefficient %d targets constraint %d outside the domain", ErrInvalidProvingKey, i, c.Constraint)
		}
		if c.Signal >= pk.NbVars {
			return fmt.Errorf("%w: coefficient %d reads signal %d of %d", ErrInvalidProvingKey, i, c.Signal, pk.NbVars)
		}
		rows.Set(uint(c.Constraint))
	}
	pk.nbConstraints = int(rows.Count())

	pk.infinityA, pk.nbInfinityA = infinityMaskG1(pk.G1.A)
	pk.infinityC, pk.nbInfinityC = infinityMaskG1(pk.G1.C)
	pk.infinityH, pk.nbInfinityH = infinityMaskG1(pk.G1.H)
	pk.infinityB, pk.nbInfinityB = infinityMaskG1(pk.G1.B)
	for i := range pk.G2.B {
		if pk.G2.B[i].IsInfinity() && !pk.infinityB[i] {
			pk.infinityB[i] = true
			pk.nbInfinityB++
		}
	}

	// the quotient is committed through its evaluations on the coset g·H,
	// g a primitive (2·DomainSize)-th root of unity; the snarkjs H bases
	// absorb the (constant) vanishing factor on that coset.
	shift, err := fft.Generator(2 * uint64(pk.DomainSize))
	if err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidProvingKey, err)
	}
	pk.domain = fft.NewDomain(uint64(pk.DomainSize), fft.WithShift(shift))

	return nil
}
