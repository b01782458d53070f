package groth16

import (
	"bytes"
	"encoding/binary"
	"io"

	curve "github.com/consensys/gnark-crypto/ecc/bn254"
	"github.com/fxamacker/cbor/v2"
)

// Binary layout: a length-prefixed deterministic-cbor block with the scalar
// header and the coefficient stream, followed by the curve points in the
// gnark-crypto encoder format. The explicit length keeps the cbor decoder
// from reading into the point section.

type pkScalarBlock struct {
	NbVars       uint32
	NbPublic     uint32
	DomainSize   uint32
	Coefficients []Coefficient
}

// WriteTo writes the proving key to w. The key does not need to be
// precomputed.
func (pk *ProvingKey) WriteTo(w io.Writer) (int64, error) {
	em, err := cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		return 0, err
	}
	var blob bytes.Buffer
	if err := em.NewEncoder(&blob).Encode(pkScalarBlock{
		NbVars:       pk.NbVars,
		NbPublic:     pk.NbPublic,
		DomainSize:   pk.DomainSize,
		Coefficients: pk.Coefficients,
	}); err != nil {
		return 0, err
	}

	var n int64
	var lenBuf [8]byte
	binary.BigEndian.PutUint64(lenBuf[:], uint64(blob.Len()))
	written, err := w.Write(lenBuf[:])
	n += int64(written)
	if err != nil {
		return n, err
	}
	written, err = w.Write(blob.Bytes())
	n += int64(written)
	if err != nil {
		return n, err
	}

	enc := curve.NewEncoder(w)
	toEncode := []interface{}{
		&pk.G1.Alpha,
		&pk.G1.Beta,
		&pk.G1.Delta,
		&pk.G2.Beta,
		&pk.G2.Delta,
		pk.G1.A,
		pk.G1.B,
		pk.G2.B,
		pk.G1.C,
		pk.G1.H,
	}
	for _, v := range toEncode {
		if err := enc.Encode(v); err != nil {
			return n + enc.BytesWritten(), err
		}
	}
	return n + enc.BytesWritten(), nil
}

// ReadFrom reads a proving key from r and precomputes it.
func (pk *ProvingKey) ReadFrom(r io.Reader) (int64, error) {
	var n int64
	var lenBuf [8]byte
	read, err := io.ReadFull(r, lenBuf[:])
	n += int64(read)
	if err != nil {
		return n, err
	}
	blob := make([]byte, binary.BigEndian.Uint64(lenBuf[:]))
	read, err = io.ReadFull(r, blob)
	n += int64(read)
	if err != nil {
		return n, err
	}
	var scalars pkScalarBlock
	if err := cbor.Unmarshal(blob, &scalars); err != nil {
		return n, err
	}
	pk.NbVars = scalars.NbVars
	pk.NbPublic = scalars.NbPublic
	pk.DomainSize = scalars.DomainSize
	pk.Coefficients = scalars.Coefficients

	dec := curve.NewDecoder(r)
	toDecode := []interface{}{
		&pk.G1.Alpha,
		&pk.G1.Beta,
		&pk.G1.Delta,
		&pk.G2.Beta,
		&pk.G2.Delta,
		&pk.G1.A,
		&pk.G1.B,
		&pk.G2.B,
		&pk.G1.C,
		&pk.G1.H,
	}
	for _, v := range toDecode {
		if err := dec.Decode(v); err != nil {
			return n + dec.BytesRead(), err
		}
	}

	pk.domain = nil
	pk.nbConstraints = 0
	if err := pk.Precompute(); err != nil {
		return n + dec.BytesRead(), err
	}
	return n + dec.BytesRead(), nil
}

// WriteTo writes the proof to w in the gnark-crypto encoder format.
func (proof *Proof) WriteTo(w io.Writer) (int64, error) {
	enc := curve.NewEncoder(w)
	toEncode := []interface{}{&proof.A, &proof.B, &proof.C}
	for _, v := range toEncode {
		if err := enc.Encode(v); err != nil {
			return enc.BytesWritten(), err
		}
	}
	return enc.BytesWritten(), nil
}

// ReadFrom reads a proof from r.
func (proof *Proof) ReadFrom(r io.Reader) (int64, error) {
	dec := curve.NewDecoder(r)
	toDecode := []interface{}{&proof.A, &proof.B, &proof.C}
	for _, v := range toDecode {
		if err := dec.Decode(v); err != nil {
			return dec.BytesRead(), err
		}
	}
	return dec.BytesRead(), nil
}
