package groth16

import (
	"encoding/binary"
	"testing"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/stretchr/testify/require"
)

func encodeCoefficients(coefficients []Coefficient) []byte {
	buf := make([]byte, coeffHeaderSize+len(coefficients)*coeffRecordSize)
	binary.LittleEndian.PutUint32(buf, uint32(len(coefficients)))
	for i, c := range coefficients {
		rec := buf[coeffHeaderSize+i*coeffRecordSize:]
		binary.LittleEndian.PutUint32(rec[0:], c.Matrix)
		binary.LittleEndian.PutUint32(rec[4:], c.Constraint)
		binary.LittleEndian.PutUint32(rec[8:], c.Signal)
		for j := 0; j < fr.Limbs; j++ {
			binary.LittleEndian.PutUint64(rec[12+j*8:], c.Value[j])
		}
	}
	return buf
}

func TestParseCoefficients(t *testing.T) {
	want := []Coefficient{
		{Matrix: 0, Constraint: 3, Signal: 7, Value: fe(1)},
		{Matrix: 1, Constraint: 0, Signal: 2, Value: fe(-42)},
		{Matrix: 1, Constraint: 255, Signal: 0, Value: fe(123456789)},
	}

	got, err := ParseCoefficients(encodeCoefficients(want))
	require.NoError(t, err)
	require.Len(t, got, len(want))
	for i := range want {
		require.Equal(t, want[i].Matrix, got[i].Matrix, "record %d", i)
		require.Equal(t, want[i].Constraint, got[i].Constraint, "record %d", i)
		require.Equal(t, want[i].Signal, got[i].Signal, "record %d", i)
		require.True(t, want[i].Value.Equal(&got[i].Value), "record %d", i)
	}
}

func TestParseCoefficientsEmpty(t *testing.T) {
	got, err := ParseCoefficients(encodeCoefficients(nil))
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestParseCoefficientsSkipsHeader(t *testing.T) {
	// the 4-byte count header must not be decoded as record data
	want := []Coefficient{{Matrix: 1, Constraint: 9, Signal: 4, Value: fe(5)}}
	buf := encodeCoefficients(want)

	got, err := ParseCoefficients(buf)
	require.NoError(t, err)
	require.Equal(t, uint32(1), got[0].Matrix)
	require.Equal(t, uint32(9), got[0].Constraint)
	require.Equal(t, uint32(4), got[0].Signal)
}

func TestParseCoefficientsTruncated(t *testing.T) {
	_, err := ParseCoefficients(nil)
	require.Error(t, err)

	_, err = ParseCoefficients([]byte{1, 0})
	require.Error(t, err)

	buf := encodeCoefficients([]Coefficient{{Value: fe(1)}, {Value: fe(2)}})
	_, err = ParseCoefficients(buf[:len(buf)-1])
	require.Error(t, err)
}
