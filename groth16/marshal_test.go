package groth16

import (
	"bytes"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/require"
)

func TestProvingKeyBinaryRoundTrip(t *testing.T) {
	ts := buildToySetup(t, cubicCircuit())
	pk := ts.pk

	var buf bytes.Buffer
	written, err := pk.WriteTo(&buf)
	require.NoError(t, err)
	require.EqualValues(t, buf.Len(), written)

	var back ProvingKey
	read, err := back.ReadFrom(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	require.EqualValues(t, buf.Len(), read)

	if diff := cmp.Diff(pk, &back, cmpopts.IgnoreUnexported(ProvingKey{}), cmpopts.EquateEmpty()); diff != "" {
		t.Fatalf("proving key round trip mismatch (-want +got):\n%s", diff)
	}

	// the decoded key is precomputed and usable as is
	require.Equal(t, pk.NbConstraints(), back.NbConstraints())
	prover, err := NewProver(&back)
	require.NoError(t, err)
	witness := cubicCircuitWitness(2, 3)
	proof, err := prover.Prove(witness)
	require.NoError(t, err)
	require.True(t, ts.verify(t, proof, witness[:2]))
}

func TestProvingKeyReadFromTruncated(t *testing.T) {
	ts := buildToySetup(t, mulCircuit())

	var buf bytes.Buffer
	_, err := ts.pk.WriteTo(&buf)
	require.NoError(t, err)

	for _, n := range []int{0, 4, 12, buf.Len() / 2, buf.Len() - 1} {
		var back ProvingKey
		_, err := back.ReadFrom(bytes.NewReader(buf.Bytes()[:n]))
		require.Error(t, err, "truncated at %d", n)
	}
}

func TestProofBinaryRoundTrip(t *testing.T) {
	proof := sampleProof()

	var buf bytes.Buffer
	written, err := proof.WriteTo(&buf)
	require.NoError(t, err)
	require.EqualValues(t, buf.Len(), written)

	var back Proof
	read, err := back.ReadFrom(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	require.EqualValues(t, buf.Len(), read)

	require.True(t, proof.A.Equal(&back.A))
	require.True(t, proof.B.Equal(&back.B))
	require.True(t, proof.C.Equal(&back.C))
}
