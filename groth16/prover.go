package groth16

import (
	"context"
	"math/big"
	"sync"
	"time"

	"github.com/consensys/circom-groth16/internal/parallel"
	"github.com/consensys/circom-groth16/logger"
	"github.com/consensys/gnark-crypto/ecc"
	curve "github.com/consensys/gnark-crypto/ecc/bn254"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr/fft"
	"golang.org/x/sync/errgroup"
)

// nbLockStripes sizes the mutex bank guarding the coefficient scatter.
// Any bank a few times larger than the worker count keeps contention
// negligible; the value is not load-bearing.
const nbLockStripes = 1024

// Prover produces Groth16 proofs for the circuit a ProvingKey was set up for.
// It holds no per-proof state and is safe for concurrent use.
type Prover struct {
	pk *ProvingKey
}

// NewProver precomputes the proving key if needed and returns a reusable
// prover bound to it.
func NewProver(pk *ProvingKey) (*Prover, error) {
	if err := pk.Precompute(); err != nil {
		return nil, err
	}
	return &Prover{pk: pk}, nil
}

// Prove generates a proof for the given witness. The witness must hold
// exactly NbVars elements, with the constant one at index 0 followed by the
// public inputs; it is only read. The proof is randomized by two blinding
// scalars drawn from the configured randomness source.
func (p *Prover) Prove(witness []fr.Element, opts ...ProverOption) (*Proof, error) {
	opt, err := NewProverConfig(opts...)
	if err != nil {
		return nil, err
	}
	pk := p.pk
	if len(witness) != int(pk.NbVars) {
		return nil, ErrInvalidWitnessLength
	}

	log := logger.Logger().With().
		Str("curve", "bn254").
		Int("nbConstraints", pk.nbConstraints).
		Str("backend", "groth16").Logger()
	start := time.Now()

	// sample random r and s
	_r, err := sampleFr(opt.Rng)
	if err != nil {
		return nil, err
	}
	_s, err := sampleFr(opt.Rng)
	if err != nil {
		return nil, err
	}
	var _kr fr.Element
	_kr.Mul(&_r, &_s).Neg(&_kr)

	var r, s big.Int
	_r.BigInt(&r)
	_s.BigInt(&s)

	// computes r[δ], s[δ], -rs[δ]
	deltas := curve.BatchScalarMultiplicationG1(&pk.G1.Delta, []fr.Element{_r, _s, _kr})

	// the four witness multi-exps run as concurrent tasks while this
	// goroutine reduces the coefficient stream and evaluates the quotient;
	// splitting the CPU budget keeps them from starving each other.
	nbTasks := opt.NbTasks / 2
	if nbTasks < 1 {
		nbTasks = 1
	}

	var ar, bs1, krs1, krs2 curve.G1Jac
	var bs curve.G2Jac

	// the base tables commit signals absent from a matrix as the point at
	// infinity; zero the matching scalars so the multi-exps skip them
	witnessA := maskScalars(witness, pk.infinityA, pk.nbInfinityA)
	witnessB := maskScalars(witness, pk.infinityB, pk.nbInfinityB)

	g, _ := errgroup.WithContext(context.TODO())

	g.Go(func() error {
		startAr := time.Now()
		if _, err := ar.MultiExp(pk.G1.A, witnessA, ecc.MultiExpConfig{NbTasks: nbTasks}); err != nil {
			return err
		}
		log.Debug().Dur("took", time.Since(startAr)).Int("size", len(witnessA)).Msg("MSM A done")
		return nil
	})

	g.Go(func() error {
		startBs1 := time.Now()
		if _, err := bs1.MultiExp(pk.G1.B, witnessB, ecc.MultiExpConfig{NbTasks: nbTasks}); err != nil {
			return err
		}
		log.Debug().Dur("took", time.Since(startBs1)).Int("size", len(witnessB)).Msg("MSM B1 done")
		return nil
	})

	g.Go(func() error {
		startBs := time.Now()
		if _, err := bs.MultiExp(pk.G2.B, witnessB, ecc.MultiExpConfig{NbTasks: nbTasks}); err != nil {
			return err
		}
		log.Debug().Dur("took", time.Since(startBs)).Int("size", len(witnessB)).Msg("MSM B2 done")
		return nil
	})

	// the public prefix of the witness is committed by the verifier, not here
	privWitness := maskScalars(witness[pk.NbPublic+1:], pk.infinityC, pk.nbInfinityC)
	if len(privWitness) > 0 {
		g.Go(func() error {
			startKrs := time.Now()
			if _, err := krs1.MultiExp(pk.G1.C, privWitness, ecc.MultiExpConfig{NbTasks: nbTasks}); err != nil {
				return err
			}
			log.Debug().Dur("took", time.Since(startKrs)).Int("size", len(privWitness)).Msg("MSM C done")
			return nil
		})
	}

	// quotient evaluations on the coset (coefficient reduction / FFT part)
	startH := time.Now()
	h := p.computeH(witness)
	for i, inf := range pk.infinityH {
		if inf {
			h[i].SetZero()
		}
	}
	log.Debug().Dur("took", time.Since(startH)).Msg("computed h")

	startKrs2 := time.Now()
	if _, err := krs2.MultiExp(pk.G1.H, h, ecc.MultiExpConfig{NbTasks: opt.NbTasks}); err != nil {
		return nil, err
	}
	log.Debug().Dur("took", time.Since(startKrs2)).Int("size", len(h)).Msg("MSM H done")

	if err := g.Wait(); err != nil {
		return nil, err
	}

	proof := &Proof{}

	// A = [α]₁ + Σwᵢ[Aᵢ(τ)]₁ + r[δ]₁
	ar.AddMixed(&pk.G1.Alpha)
	ar.AddMixed(&deltas[0])
	proof.A.FromJacobian(&ar)

	// B = [β]₂ + Σwᵢ[Bᵢ(τ)]₂ + s[δ]₂
	var deltaS curve.G2Jac
	deltaS.FromAffine(&pk.G2.Delta)
	deltaS.ScalarMultiplication(&deltaS, &s)
	bs.AddAssign(&deltaS)
	bs.AddMixed(&pk.G2.Beta)
	proof.B.FromJacobian(&bs)

	// B1 = [β]₁ + Σwᵢ[Bᵢ(τ)]₁ + s[δ]₁, the G1 shadow of B
	bs1.AddMixed(&pk.G1.Beta)
	bs1.AddMixed(&deltas[1])

	// C = Σwᵢ[Cᵢ]₁ + Σhᵢ[Hᵢ]₁ + s·A + r·B1 - rs[δ]₁
	var p1 curve.G1Jac
	krs1.AddAssign(&krs2)
	p1.ScalarMultiplication(&ar, &s)
	krs1.AddAssign(&p1)
	p1.ScalarMultiplication(&bs1, &r)
	krs1.AddAssign(&p1)
	krs1.AddMixed(&deltas[2])
	proof.C.FromJacobian(&krs1)

	log.Debug().Dur("took", time.Since(start)).Msg("prover done")

	return proof, nil
}

// maskScalars returns scalars with zeroed entries wherever the mask is set;
// the input is left untouched. With nothing masked it returns the input as is.
func maskScalars(scalars []fr.Element, mask []bool, nbMasked int) []fr.Element {
	if nbMasked == 0 {
		return scalars
	}
	masked := make([]fr.Element, len(scalars))
	copy(masked, scalars)
	for i, m := range mask {
		if m {
			masked[i].SetZero()
		}
	}
	return masked
}

// computeH accumulates the witness-weighted coefficient stream into the A and
// B evaluation vectors, then evaluates A·B - C on the coset g·H:
//
//	1 - a_poly = ifft(a), b_poly = ifft(b), c_poly = ifft(a ∘ b)
//	2 - ca = fft_coset(a_poly), cb = fft_coset(b_poly), cc = fft_coset(c_poly)
//	3 - h = ca ∘ cb - cc
//
// The vanishing polynomial is a non-zero constant on the coset; its inverse
// is folded into the H base table by the setup, so h feeds the H multi-exp
// directly.
func (p *Prover) computeH(witness []fr.Element) []fr.Element {
	pk := p.pk
	n := int(pk.DomainSize)

	a := make([]fr.Element, n)
	b := make([]fr.Element, n)
	c := make([]fr.Element, n)

	// scatter-add into the shared evaluation vectors; rows are striped over a
	// fixed mutex bank, and field addition commutes, so any interleaving
	// yields the serial result
	var locks [nbLockStripes]sync.Mutex
	parallel.Execute(0, len(pk.Coefficients), func(start, end int) {
		var t fr.Element
		for i := start; i < end; i++ {
			coeff := &pk.Coefficients[i]
			target := a
			if coeff.Matrix == 1 {
				target = b
			}
			t.Mul(&witness[coeff.Signal], &coeff.Value)
			row := coeff.Constraint
			lock := &locks[row%nbLockStripes]
			lock.Lock()
			target[row].Add(&target[row], &t)
			lock.Unlock()
		}
	})

	// c = a ∘ b
	parallel.Execute(0, n, func(start, end int) {
		for i := start; i < end; i++ {
			c[i].Mul(&a[i], &b[i])
		}
	})

	var wg sync.WaitGroup
	wg.Add(3)
	cosetEval := func(v []fr.Element) {
		// point-value form -> coefficient form -> values on the coset
		pk.domain.FFTInverse(v, fft.DIF)
		pk.domain.FFT(v, fft.DIT, fft.OnCoset())
		wg.Done()
	}
	go cosetEval(a)
	go cosetEval(b)
	cosetEval(c)
	wg.Wait()

	// h = ca ∘ cb - cc, reusing a to avoid unnecessary memory allocation
	parallel.Execute(0, n, func(start, end int) {
		for i := start; i < end; i++ {
			a[i].Mul(&a[i], &b[i]).
				Sub(&a[i], &c[i])
		}
	})

	return a
}

