package groth16

import (
	"encoding/binary"
	"fmt"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
)

// Coefficient is one record of the R1CS coefficient stream. It scatters
// Value·witness[Signal] into row Constraint of the A evaluation vector
// (Matrix == 0) or the B evaluation vector (Matrix == 1).
type Coefficient struct {
	Matrix     uint32
	Constraint uint32
	Signal     uint32
	Value      fr.Element
}

// legacy pre-parsed buffer layout: a 4-byte count header followed by
// fixed-width records m:u32 | c:u32 | s:u32 | coef:[32]u8, all little-endian.
// The coefficient limbs are stored in Montgomery form, limb-wise.
const (
	coeffHeaderSize = 4
	coeffRecordSize = 44
)

// ParseCoefficients decodes a coefficient stream from the pre-parsed buffer
// format of the snarkjs zkey loader. The first 4 bytes are the record count.
func ParseCoefficients(buf []byte) ([]Coefficient, error) {
	if len(buf) < coeffHeaderSize {
		return nil, fmt.Errorf("groth16: coefficient buffer too short: %d bytes", len(buf))
	}
	n := binary.LittleEndian.Uint32(buf)
	if want := coeffHeaderSize + int(n)*coeffRecordSize; len(buf) < want {
		return nil, fmt.Errorf("groth16: coefficient buffer holds %d bytes, need %d for %d records", len(buf), want, n)
	}

	coefficients := make([]Coefficient, n)
	for i := range coefficients {
		rec := buf[coeffHeaderSize+i*coeffRecordSize:]
		c := &coefficients[i]
		c.Matrix = binary.LittleEndian.Uint32(rec[0:])
		c.Constraint = binary.LittleEndian.Uint32(rec[4:])
		c.Signal = binary.LittleEndian.Uint32(rec[8:])
		for j := 0; j < fr.Limbs; j++ {
			c.Value[j] = binary.LittleEndian.Uint64(rec[12+j*8:])
		}
	}
	return coefficients, nil
}
