// Package rlncerr holds the closed taxonomy of failure kinds shared by the
// gf and rlnc packages, so both can return errors callers compare with
// errors.Is without importing one another.
package rlncerr

import "fmt"

// Kind identifies one of the fixed set of ways a coding operation can fail.
type Kind int

const (
	EmptyData Kind = iota
	DataTooLarge
	InvalidPieceCount
	InvalidPieceLength
	InvalidCodingVector
	PieceNotUseful
	ReceivedAllPieces
	NotAllPiecesReceivedYet
	InvalidField
)

func (k Kind) String() string {
	switch k {
	case EmptyData:
		return "empty data"
	case DataTooLarge:
		return "data too large"
	case InvalidPieceCount:
		return "invalid piece count"
	case InvalidPieceLength:
		return "invalid piece length"
	case InvalidCodingVector:
		return "invalid coding vector"
	case PieceNotUseful:
		return "piece not useful"
	case ReceivedAllPieces:
		return "received all pieces"
	case NotAllPiecesReceivedYet:
		return "not all pieces received yet"
	case InvalidField:
		return "invalid field operation"
	default:
		return "unknown error kind"
	}
}

// Error is the single error type raised across this module. Two Errors are
// equivalent under errors.Is iff they share a Kind; the Msg carries
// call-specific detail and is not part of identity.
type Error struct {
	Kind Kind
	Msg  string
}

func (e *Error) Error() string {
	if e.Msg == "" {
		return e.Kind.String()
	}
	return e.Msg
}

// Is makes errors.Is(err, target) match whenever target is an *Error of the
// same Kind (such as the Err* sentinels below), regardless of message text.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// New builds a detailed Error of the given Kind.
func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// Sentinels for errors.Is comparisons; New(...) results compare equal to
// these via Error.Is regardless of message text.
var (
	ErrEmptyData               = &Error{Kind: EmptyData, Msg: EmptyData.String()}
	ErrDataTooLarge            = &Error{Kind: DataTooLarge, Msg: DataTooLarge.String()}
	ErrInvalidPieceCount       = &Error{Kind: InvalidPieceCount, Msg: InvalidPieceCount.String()}
	ErrInvalidPieceLength      = &Error{Kind: InvalidPieceLength, Msg: InvalidPieceLength.String()}
	ErrInvalidCodingVector     = &Error{Kind: InvalidCodingVector, Msg: InvalidCodingVector.String()}
	ErrPieceNotUseful          = &Error{Kind: PieceNotUseful, Msg: PieceNotUseful.String()}
	ErrReceivedAllPieces       = &Error{Kind: ReceivedAllPieces, Msg: ReceivedAllPieces.String()}
	ErrNotAllPiecesReceivedYet = &Error{Kind: NotAllPiecesReceivedYet, Msg: NotAllPiecesReceivedYet.String()}
	ErrInvalidField            = &Error{Kind: InvalidField, Msg: InvalidField.String()}
)
