package groth16

import (
	"encoding/binary"
	"fmt"
	"io"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
)

// frModulus is the BN254 scalar-field modulus r, four 64-bit limbs in
// little-endian order.
var frModulus = [fr.Limbs]uint64{
	0x43E1F593F0000001,
	0x2833E84879B97091,
	0xB85045B68181585D,
	0x30644E72E131A029,
}

// frTopLimbMask truncates a candidate to 254 bits; the modulus is ~254 bits
// wide, so a masked draw is rejected with probability below 1/4.
const frTopLimbMask = 0x3FFFFFFFFFFFFFFF

// sampleFr draws a uniform scalar in [0, r) by rejection: 32 random bytes,
// read as four little-endian limbs, top two bits masked off, accepted when
// strictly below the modulus.
func sampleFr(rng io.Reader) (fr.Element, error) {
	var el fr.Element
	var buf [fr.Bytes]byte
	var limbs [fr.Limbs]uint64

	for {
		if _, err := io.ReadFull(rng, buf[:]); err != nil {
			return el, fmt.Errorf("groth16: sample blinding scalar: %w", err)
		}
		for i := range limbs {
			limbs[i] = binary.LittleEndian.Uint64(buf[i*8:])
		}
		limbs[fr.Limbs-1] &= frTopLimbMask
		if limbsBelowModulus(limbs) {
			break
		}
	}

	// big-endian byte order for big.Int
	var be [fr.Bytes]byte
	for i := range limbs {
		binary.BigEndian.PutUint64(be[(fr.Limbs-1-i)*8:], limbs[i])
	}
	var v big.Int
	el.SetBigInt(v.SetBytes(be[:]))
	return el, nil
}

func limbsBelowModulus(limbs [fr.Limbs]uint64) bool {
	for i := fr.Limbs - 1; i >= 0; i-- {
		switch {
		case limbs[i] < frModulus[i]:
			return true
		case limbs[i] > frModulus[i]:
			return false
		}
	}
	return false // equal to the modulus
}
