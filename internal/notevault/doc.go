// Package notevault implements anonymous possession proofs for committed
// notes.
//
// A note is a triple (amount, serial number, nonce). Its commitment is a
// MiMC hash of the three fields; published commitments sit in a fixed-depth
// Merkle tree whose root is the public anchor. A holder proves, in zero
// knowledge, that some leaf of the tree opens to a note they know in full,
// revealing only the serial number (and, in the disclosed variant, the
// amount). Verifiers learn nothing about the remaining fields or the leaf
// position, and the disclosed serial number lets them reject a note that is
// presented twice.
//
// Proofs are Groth16 zk-SNARKs. The three phases (Setup, Prove, Verify)
// share an immutable Params object pinning the pairing curve, the tree depth
// and the padding leaf; changing any of these defines a different relation
// with incompatible keys.
package notevault
