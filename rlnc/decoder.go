package rlnc

import (
	"github.com/perfogic/rlnc-sub000/gf"
	"github.com/perfogic/rlnc-sub000/internal/parallel"
	"github.com/perfogic/rlnc-sub000/internal/rlncerr"
)

// Decoder is an online Gauss-Jordan eliminator over GF(2^8): it ingests
// coded pieces one at a time, maintaining a K*(K+P) augmented matrix in
// reduced row-echelon form rather than just row-echelon form. Row i, once
// occupied, always carries its pivot at column i — row index equals pivot
// column by construction, so no separate permutation vector is needed, and
// "is this row in use" is a single bitmap lookup. Keeping the matrix in
// RREF (not just REF) means the symbol half already equals the decoded
// original pieces the instant rank reaches K: no back-substitution pass.
//
// A Decoder is mutable and must be driven by a single caller at a time; it
// does no internal locking.
type Decoder struct {
	k, p, l  int
	matrix   []byte // k*(k+p) bytes, row i valid iff occupied[i]
	occupied []bool
	rank     int
}

// NewDecoder prepares a Decoder for k pieces of p bytes reconstructing an
// original payload of l bytes.
//
// Fails with ErrInvalidPieceCount if k < 2, or ErrInvalidPieceLength if p
// is inconsistent with ceil(l/k): p < 1, p*k < l, or p > l.
func NewDecoder(k, p, l int) (*Decoder, error) {
	if k < 2 {
		return nil, rlncerr.New(rlncerr.InvalidPieceCount, "rlnc: piece count %d < 2", k)
	}
	if p < 1 || p*k < l || p > l {
		return nil, rlncerr.New(rlncerr.InvalidPieceLength, "rlnc: piece length %d inconsistent with k=%d, l=%d", p, k, l)
	}
	return &Decoder{
		k:        k,
		p:        p,
		l:        l,
		matrix:   make([]byte, k*(k+p)),
		occupied: make([]bool, k),
	}, nil
}

// IsAlreadyDecoded reports whether rank has reached K.
func (d *Decoder) IsAlreadyDecoded() bool { return d.rank == d.k }

// UsefulPieceCount returns the current rank r.
func (d *Decoder) UsefulPieceCount() int { return d.rank }

// RemainingPieceCount returns K - r, the number of further innovative
// pieces still needed.
func (d *Decoder) RemainingPieceCount() int { return d.k - d.rank }

func (d *Decoder) row(i int) []byte {
	stride := d.k + d.p
	return d.matrix[i*stride : (i+1)*stride]
}

// Decode ingests one coded piece, advancing the online RREF by at most one
// row.
//
// Fails with ErrInvalidPieceLength if piece isn't exactly K+P bytes,
// ErrReceivedAllPieces if rank is already K, or ErrPieceNotUseful if piece's
// coding vector lies in the span of what's already been accepted — in every
// failure case the Decoder's state is exactly what it was before the call.
// On success, rank increases by exactly one.
func (d *Decoder) Decode(piece []byte) error {
	stride := d.k + d.p
	if len(piece) != stride {
		return rlncerr.New(rlncerr.InvalidPieceLength, "rlnc: piece length %d, want %d", len(piece), stride)
	}
	if d.rank == d.k {
		return rlncerr.ErrReceivedAllPieces
	}

	working := make([]byte, stride)
	copy(working, piece)

	for c := 0; c < d.k; c++ {
		if working[c] == 0 {
			continue
		}
		if d.occupied[c] {
			gf.AXPY(working, d.row(c), working[c])
			continue
		}

		inv, err := gf.Inv(working[c])
		if err != nil {
			// working[c] != 0 here by construction, so gf.Inv cannot fail;
			// surfaced only to satisfy the compiler and future-proof gf.
			return err
		}
		gf.Scale(working, working, inv)
		// Clear working's entries in the pivot columns of rows already
		// occupied past c, so the installed row is zero in every pivot
		// column but its own.
		for j := c + 1; j < d.k; j++ {
			if d.occupied[j] && working[j] != 0 {
				gf.AXPY(working, d.row(j), working[j])
			}
		}
		d.eliminatePivotColumn(c, working)

		copy(d.row(c), working)
		d.occupied[c] = true
		d.rank++
		return nil
	}

	return rlncerr.ErrPieceNotUseful
}

// eliminatePivotColumn zeroes column c out of every other occupied row now
// that working carries a 1 there, preserving RREF. Each touched row is
// disjoint memory and working is read-only here, so this loop may run over
// row-chunks in parallel with no merge step (spec section 4.5).
func (d *Decoder) eliminatePivotColumn(c int, working []byte) {
	parallel.Range(d.k, func(start, end int) {
		for j := start; j < end; j++ {
			if j == c || !d.occupied[j] {
				continue
			}
			row := d.row(j)
			coeff := row[c]
			if coeff == 0 {
				continue
			}
			gf.AXPY(row, working, coeff)
		}
	})
}

// GetDecodedData reassembles the original payload from the symbol halves of
// rows 0..K-1, truncated to L bytes. Fails with ErrNotAllPiecesReceivedYet
// if rank < K.
func (d *Decoder) GetDecodedData() ([]byte, error) {
	if d.rank < d.k {
		return nil, rlncerr.ErrNotAllPiecesReceivedYet
	}
	out := make([]byte, d.k*d.p)
	for i := 0; i < d.k; i++ {
		copy(out[i*d.p:(i+1)*d.p], symbolVector(d.row(i), d.k))
	}
	return out[:d.l], nil
}
