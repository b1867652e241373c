package rlnc

import (
	"github.com/perfogic/rlnc-sub000/internal/parallel"
	"github.com/perfogic/rlnc-sub000/internal/rlncerr"
)

// Recoder holds a batch of already-coded pieces and mints fresh coded
// pieces as random linear combinations of them, without ever decoding.
// Recoder is immutable after construction and safe for concurrent use.
type Recoder struct {
	k, p, n int
	pieces  []byte // n*(k+p) bytes, row i is stored coded piece i
}

// NewRecoder builds a Recoder from a flat buffer of N coded pieces, each
// K+P bytes (coding vector ++ symbol vector), back to back.
//
// Fails with ErrInvalidPieceCount if k < 2, ErrEmptyData if codedPieces is
// empty, or ErrInvalidPieceLength if its length isn't a multiple of K+P or
// yields zero stored pieces.
func NewRecoder(codedPieces []byte, k, p int) (*Recoder, error) {
	if k < 2 {
		return nil, rlncerr.New(rlncerr.InvalidPieceCount, "rlnc: piece count %d < 2", k)
	}
	if len(codedPieces) == 0 {
		return nil, rlncerr.ErrEmptyData
	}
	stride := k + p
	if stride <= 0 || len(codedPieces)%stride != 0 {
		return nil, rlncerr.New(rlncerr.InvalidPieceLength, "rlnc: buffer length %d not a multiple of k+p=%d", len(codedPieces), stride)
	}
	n := len(codedPieces) / stride
	if n == 0 {
		return nil, rlncerr.New(rlncerr.InvalidPieceLength, "rlnc: buffer yields zero stored pieces")
	}

	buf := make([]byte, len(codedPieces))
	copy(buf, codedPieces)
	return &Recoder{k: k, p: p, n: n, pieces: buf}, nil
}

// NumPieces returns N, the number of stored coded pieces.
func (r *Recoder) NumPieces() int { return r.n }

// PieceCount returns K, the number of original pieces the stored coded
// pieces were generated from.
func (r *Recoder) PieceCount() int { return r.k }

// PieceByteLen returns P, the byte length of the symbol half of a coded
// piece.
func (r *Recoder) PieceByteLen() int { return r.p }

// CodedPieceByteLen returns K+P, the wire length of every coded piece this
// Recoder produces (same layout as a stored one).
func (r *Recoder) CodedPieceByteLen() int { return r.k + r.p }

// RecodeWithCodingVector produces a new coded piece as sum_i mix[i] * stored
// piece i, treating each stored (K+P)-byte coded piece as one vector — a
// single fused AXPY pass per stored piece over all K+P bytes, which
// automatically composes both the coding-vector half and the symbol half
// with the same coefficients. mix must have exactly N bytes, one per
// stored piece. Fails with ErrInvalidCodingVector otherwise.
func (r *Recoder) RecodeWithCodingVector(mix []byte) ([]byte, error) {
	if len(mix) != r.n {
		return nil, rlncerr.New(rlncerr.InvalidCodingVector, "rlnc: coding vector length %d, want %d", len(mix), r.n)
	}

	stride := r.k + r.p
	out := make([]byte, stride)

	parallel.Range(stride, func(start, end int) {
		accumulateRange(out[start:end], r.pieces, mix, r.n, stride, start)
	})
	return out, nil
}

// Recode draws N uniform random coefficients from rng and returns the
// resulting coded piece. Recoded pieces may turn out linearly dependent on
// what a given recipient already holds; that is a property of the algebra,
// not an error this layer detects.
func (r *Recoder) Recode(rng RandomSource) ([]byte, error) {
	mix := make([]byte, r.n)
	if err := fillRandom(rng, mix); err != nil {
		return nil, err
	}
	return r.RecodeWithCodingVector(mix)
}
