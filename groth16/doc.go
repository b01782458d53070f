// Package groth16 implements a Groth16 zk-SNARK prover over the BN254 curve
// consuming circom/snarkjs-style proving keys.
//
// A proving key carries the verifying-key commitments, the R1CS coefficient
// stream and the multi-scalar-multiplication base tables produced by a snarkjs
// trusted setup. Prove takes a witness vector and returns a proof (A ∈ G1,
// B ∈ G2, C ∈ G1) that serializes to the snarkjs JSON format.
//
// The prover is safe for concurrent use; a single ProvingKey may back any
// number of Prove calls.
package groth16
