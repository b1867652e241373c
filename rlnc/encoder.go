package rlnc

import (
	"github.com/perfogic/rlnc-sub000/gf"
	"github.com/perfogic/rlnc-sub000/internal/parallel"
	"github.com/perfogic/rlnc-sub000/internal/rlncerr"
)

// Encoder owns the original K*P piece matrix and mints coded pieces — each a
// random (or caller-chosen) GF(2^8)-linear combination of the K original
// pieces, carrying its coding vector. Encoder is immutable after
// construction and safe for concurrent use by multiple goroutines.
type Encoder struct {
	k, p   int
	pieces []byte // k*p bytes, row i is piece i, piece i*p : i*p+p
}

// NewEncoder splits data into k equal pieces (zero-padding the last one) and
// returns an Encoder ready to mint coded pieces from it.
//
// Fails with ErrInvalidPieceCount if k < 2, ErrEmptyData if data is empty,
// or ErrDataTooLarge if k exceeds len(data) (each piece would be under a
// byte).
func NewEncoder(data []byte, k int) (*Encoder, error) {
	if k < 2 {
		return nil, rlncerr.New(rlncerr.InvalidPieceCount, "rlnc: piece count %d < 2", k)
	}
	if len(data) == 0 {
		return nil, rlncerr.ErrEmptyData
	}
	if k > len(data) {
		return nil, rlncerr.New(rlncerr.DataTooLarge, "rlnc: piece count %d exceeds data length %d", k, len(data))
	}

	p := (len(data) + k - 1) / k
	buf := make([]byte, k*p)
	copy(buf, data)

	return &Encoder{k: k, p: p, pieces: buf}, nil
}

// PieceCount returns K, the number of original pieces.
func (e *Encoder) PieceCount() int { return e.k }

// PieceByteLen returns P, the byte length of a single original piece.
func (e *Encoder) PieceByteLen() int { return e.p }

// CodedPieceByteLen returns K+P, the wire length of every coded piece this
// Encoder produces.
func (e *Encoder) CodedPieceByteLen() int { return e.k + e.p }

// CodeWithCodingVector produces the coded piece cv ++ sum(cv[i] * piece_i).
// cv must have exactly K bytes; a zero coefficient is a legal, common
// choice and contributes nothing. Fails with ErrInvalidCodingVector if cv
// has the wrong length.
func (e *Encoder) CodeWithCodingVector(cv []byte) ([]byte, error) {
	if len(cv) != e.k {
		return nil, rlncerr.New(rlncerr.InvalidCodingVector, "rlnc: coding vector length %d, want %d", len(cv), e.k)
	}

	out := make([]byte, e.k+e.p)
	copy(codingVector(out, e.k), cv)
	sym := symbolVector(out, e.k)

	parallel.Range(e.p, func(start, end int) {
		accumulateRange(sym[start:end], e.pieces, cv, e.k, e.p, start)
	})
	return out, nil
}

// Code draws K uniform random coefficients from rng and returns the
// resulting coded piece. The all-zero coding vector is a legal (if useless)
// outcome and is never resampled.
func (e *Encoder) Code(rng RandomSource) ([]byte, error) {
	cv := make([]byte, e.k)
	if err := fillRandom(rng, cv); err != nil {
		return nil, err
	}
	return e.CodeWithCodingVector(cv)
}

// accumulateRange computes dst[j] = sum_i cv[i] * pieces[i*p+offset+j] for
// j in [0, len(dst)), where offset is the absolute column accumulateRange's
// caller sliced dst from. This is the embarrassingly-parallel form of the
// Encoder/Recoder AXPY loop: each goroutine owns a disjoint byte range of
// the output and reads (never writes) the shared input matrix, so no
// synchronization beyond the fork-join barrier is needed.
func accumulateRange(dst []byte, pieces []byte, cv []byte, k, p, offset int) {
	for i := 0; i < k; i++ {
		if cv[i] == 0 {
			continue
		}
		src := pieces[i*p+offset : i*p+offset+len(dst)]
		gf.AXPY(dst, src, cv[i])
	}
}
