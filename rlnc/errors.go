// Package rlnc implements Full Random Linear Network Coding over GF(2^8):
// an Encoder that mints coded pieces from an original payload, a Recoder
// that re-combines already-coded pieces without decoding, and a Decoder
// that reconstructs the payload from any K linearly independent coded
// pieces via online Gauss-Jordan elimination.
package rlnc

import "github.com/perfogic/rlnc-sub000/internal/rlncerr"

// Error is the error type every operation in this package returns. Compare
// against the sentinels below with errors.Is; Kind-equivalent errors from
// the gf package (e.g. ErrInvalidField) compare equal too.
type Error = rlncerr.Error

// Sentinels for the closed error taxonomy of spec section 7. errors.Is
// matches any Error sharing the same Kind, regardless of message text.
var (
	ErrEmptyData               = rlncerr.ErrEmptyData
	ErrDataTooLarge            = rlncerr.ErrDataTooLarge
	ErrInvalidPieceCount       = rlncerr.ErrInvalidPieceCount
	ErrInvalidPieceLength      = rlncerr.ErrInvalidPieceLength
	ErrInvalidCodingVector     = rlncerr.ErrInvalidCodingVector
	ErrPieceNotUseful          = rlncerr.ErrPieceNotUseful
	ErrReceivedAllPieces       = rlncerr.ErrReceivedAllPieces
	ErrNotAllPiecesReceivedYet = rlncerr.ErrNotAllPiecesReceivedYet
	ErrInvalidField            = rlncerr.ErrInvalidField
)
