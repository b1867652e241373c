// Package rankcheck is a test-only oracle: an independent way to compute
// the rank of a set of coding vectors, used to cross-check the rlnc
// package's own online-RREF rank bookkeeping. It is grounded directly on
// the teacher's Peer.isInnovative method, which built a mat.Dense from
// accumulated coefficient rows and ran a thin SVD to decide whether a new
// row grew the rank — the same technique, now used to audit a decoder
// instead of gate a simulated gossip peer.
package rankcheck

import "gonum.org/v1/gonum/mat"

// rankThreshold is the teacher's own tolerance for treating a singular
// value as numerically zero.
const rankThreshold = 1e-6

// Rank returns the rank of the matrix whose rows are vectors, computed via
// thin SVD. Each byte is taken as a real number, so this is the rank over
// the reals, not over GF(2^8); the two can differ for the same vectors.
// vectors must all share the same length; an empty input has rank 0.
func Rank(vectors [][]byte) int {
	rows := len(vectors)
	if rows == 0 {
		return 0
	}
	cols := len(vectors[0])
	data := make([]float64, rows*cols)
	for i, v := range vectors {
		for j, b := range v {
			data[i*cols+j] = float64(b)
		}
	}

	m := mat.NewDense(rows, cols, data)
	var svd mat.SVD
	if !svd.Factorize(m, mat.SVDThin) {
		return 0
	}

	rank := 0
	for _, v := range svd.Values(nil) {
		if v > rankThreshold {
			rank++
		}
	}
	return rank
}
