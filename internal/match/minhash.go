package match

import "math"

// Signature is a fixed-length MinHash fingerprint of a shingle set. For
// two signatures of equal length, the fraction of index-wise equal
// positions is an unbiased estimate of the Jaccard similarity of the
// underlying shingle sets.
type Signature []uint32

// ComputeSignature compresses a shingle set into a numHashes-length
// signature of per-seed minimum hash values. An empty shingle set yields
// a signature of all zeros. O(len(shingles) * numHashes).
func ComputeSignature(shingles ShingleSet, numHashes int) Signature {
	sig := make(Signature, numHashes)
	if len(shingles) == 0 {
		return sig
	}

	for i := range sig {
		sig[i] = math.MaxUint32
	}
	for s := range shingles {
		for i := range sig {
			if h := seededHash(s, uint32(i)); h < sig[i] {
				sig[i] = h
			}
		}
	}
	return sig
}

// seededHash is a murmur-style 32-bit string hash. The exact mixing
// sequence (seed xor length, per-rune xor, wrapping multiply by
// 0x5bd1e995, shift-xor by 15) is load-bearing: signatures computed in
// separate processes must be bit-for-bit comparable.
func seededHash(s string, seed uint32) uint32 {
	n := 0
	for range s {
		n++
	}
	h := seed ^ uint32(n)
	for _, r := range s {
		h ^= uint32(r)
		h *= 0x5bd1e995
		h ^= h >> 15
	}
	return h
}
