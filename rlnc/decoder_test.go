package rlnc

import (
	"bytes"
	"errors"
	"math/rand"
	"testing"

	"github.com/perfogic/rlnc-sub000/internal/rankcheck"
)

// TestMinimalDecode is scenario S1.
func TestMinimalDecode(t *testing.T) {
	dec, err := NewDecoder(2, 2, 3)
	if err != nil {
		t.Fatal(err)
	}
	if err := dec.Decode([]byte{0x01, 0x00, 0x01, 0x02}); err != nil {
		t.Fatalf("first decode: %v", err)
	}
	if err := dec.Decode([]byte{0x00, 0x01, 0x03, 0x00}); err != nil {
		t.Fatalf("second decode: %v", err)
	}
	if !dec.IsAlreadyDecoded() {
		t.Fatal("expected full rank")
	}
	got, err := dec.GetDecodedData()
	if err != nil {
		t.Fatal(err)
	}
	if want := []byte{0x01, 0x02, 0x03}; !bytes.Equal(got, want) {
		t.Fatalf("got %x, want %x", got, want)
	}
}

// TestDependenceRejection is scenario S2.
func TestDependenceRejection(t *testing.T) {
	dec, err := NewDecoder(2, 2, 3)
	if err != nil {
		t.Fatal(err)
	}
	piece := []byte{0x01, 0x00, 0x01, 0x02}
	if err := dec.Decode(piece); err != nil {
		t.Fatalf("first decode: %v", err)
	}
	if err := dec.Decode(piece); !errors.Is(err, ErrPieceNotUseful) {
		t.Fatalf("got %v, want ErrPieceNotUseful", err)
	}
	if dec.UsefulPieceCount() != 1 {
		t.Fatalf("rank = %d, want 1", dec.UsefulPieceCount())
	}
}

// TestOverFeed is scenario S3.
func TestOverFeed(t *testing.T) {
	dec, err := NewDecoder(2, 2, 3)
	if err != nil {
		t.Fatal(err)
	}
	if err := dec.Decode([]byte{0x01, 0x00, 0x01, 0x02}); err != nil {
		t.Fatal(err)
	}
	if err := dec.Decode([]byte{0x00, 0x01, 0x03, 0x00}); err != nil {
		t.Fatal(err)
	}
	if err := dec.Decode([]byte{0x01, 0x01, 0x00, 0x00}); !errors.Is(err, ErrReceivedAllPieces) {
		t.Fatalf("got %v, want ErrReceivedAllPieces", err)
	}
}

// TestRecodeRoundTrip is scenario S4.
func TestRecodeRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(99))
	data := make([]byte, 1024)
	rng.Read(data)

	enc, err := NewEncoder(data, 4)
	if err != nil {
		t.Fatal(err)
	}
	if enc.PieceByteLen() != 256 {
		t.Fatalf("P = %d, want 256", enc.PieceByteLen())
	}

	stored := makeStoredPieces(t, enc, 6, rng)
	rec, err := NewRecoder(stored, 4, enc.PieceByteLen())
	if err != nil {
		t.Fatal(err)
	}

	dec, err := NewDecoder(4, enc.PieceByteLen(), len(data))
	if err != nil {
		t.Fatal(err)
	}

	accepted := 0
	for i := 0; i < 10 && !dec.IsAlreadyDecoded(); i++ {
		piece, err := rec.Recode(rng)
		if err != nil {
			t.Fatal(err)
		}
		if err := dec.Decode(piece); err == nil {
			accepted++
		} else if !errors.Is(err, ErrPieceNotUseful) {
			t.Fatalf("unexpected decode error: %v", err)
		}
	}
	if !dec.IsAlreadyDecoded() {
		t.Fatalf("decoder did not reach full rank after 10 recoded pieces (accepted %d)", accepted)
	}
	got, err := dec.GetDecodedData()
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, data) {
		t.Fatal("decoded data does not match original")
	}
}

// TestRankMonotonicAndBoundedByK is testable property 3.
func TestRankMonotonicAndBoundedByK(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	k := 5
	data := make([]byte, 500)
	rng.Read(data)
	enc, err := NewEncoder(data, k)
	if err != nil {
		t.Fatal(err)
	}
	dec, err := NewDecoder(k, enc.PieceByteLen(), len(data))
	if err != nil {
		t.Fatal(err)
	}

	prevRank := 0
	for i := 0; i < 50; i++ {
		piece, err := enc.Code(rng)
		if err != nil {
			t.Fatal(err)
		}
		err = dec.Decode(piece)
		rank := dec.UsefulPieceCount()
		if rank < prevRank || rank > prevRank+1 {
			t.Fatalf("rank jumped from %d to %d in one decode", prevRank, rank)
		}
		if rank > k {
			t.Fatalf("rank %d exceeds k=%d", rank, k)
		}
		if err == nil && rank != prevRank+1 {
			t.Fatalf("successful decode did not increase rank by exactly 1")
		}
		prevRank = rank
		if dec.IsAlreadyDecoded() {
			break
		}
	}
}

// TestDependentPieceLeavesStateUnchanged is testable property 4.
func TestDependentPieceLeavesStateUnchanged(t *testing.T) {
	rng := rand.New(rand.NewSource(6))
	k := 3
	data := make([]byte, 300)
	rng.Read(data)
	enc, err := NewEncoder(data, k)
	if err != nil {
		t.Fatal(err)
	}
	dec, err := NewDecoder(k, enc.PieceByteLen(), len(data))
	if err != nil {
		t.Fatal(err)
	}

	first, err := enc.CodeWithCodingVector([]byte{1, 0, 0})
	if err != nil {
		t.Fatal(err)
	}
	if err := dec.Decode(first); err != nil {
		t.Fatal(err)
	}
	before := dec.UsefulPieceCount()
	snapshot := append([]byte(nil), dec.matrix...)

	// [2,0,0] lies in the span of [1,0,0].
	dependent, err := enc.CodeWithCodingVector([]byte{2, 0, 0})
	if err != nil {
		t.Fatal(err)
	}
	if err := dec.Decode(dependent); !errors.Is(err, ErrPieceNotUseful) {
		t.Fatalf("got %v, want ErrPieceNotUseful", err)
	}
	if dec.UsefulPieceCount() != before {
		t.Fatalf("rank changed on a rejected piece: %d -> %d", before, dec.UsefulPieceCount())
	}
	if !bytes.Equal(dec.matrix, snapshot) {
		t.Fatal("matrix mutated by a rejected piece")
	}
}

// TestRankCheckOracleAgreesWithDecoder cross-checks the decoder's own rank
// bookkeeping against an independent SVD-based rank computation (the
// teacher's own isInnovative technique, repurposed as a test oracle).
func TestRankCheckOracleAgreesWithDecoder(t *testing.T) {
	rng := rand.New(rand.NewSource(13))
	k := 6
	data := make([]byte, 600)
	rng.Read(data)
	enc, err := NewEncoder(data, k)
	if err != nil {
		t.Fatal(err)
	}
	dec, err := NewDecoder(k, enc.PieceByteLen(), len(data))
	if err != nil {
		t.Fatal(err)
	}

	var accepted [][]byte
	for len(accepted) < k {
		piece, err := enc.Code(rng)
		if err != nil {
			t.Fatal(err)
		}
		cv := append([]byte(nil), codingVector(piece, k)...)
		err = dec.Decode(piece)
		if err == nil {
			accepted = append(accepted, cv)
		} else if !errors.Is(err, ErrPieceNotUseful) {
			t.Fatalf("unexpected error: %v", err)
		}
		if rank := rankcheck.Rank(accepted); rank != dec.UsefulPieceCount() {
			t.Fatalf("oracle rank %d != decoder rank %d", rank, dec.UsefulPieceCount())
		}
	}
}

func TestNewDecoderRejectsBadInput(t *testing.T) {
	if _, err := NewDecoder(1, 2, 2); !errors.Is(err, ErrInvalidPieceCount) {
		t.Fatalf("k=1: got %v", err)
	}
	if _, err := NewDecoder(2, 0, 2); !errors.Is(err, ErrInvalidPieceLength) {
		t.Fatalf("p=0: got %v", err)
	}
	if _, err := NewDecoder(2, 1, 10); !errors.Is(err, ErrInvalidPieceLength) {
		t.Fatalf("p*k<l: got %v", err)
	}
	if _, err := NewDecoder(2, 5, 2); !errors.Is(err, ErrInvalidPieceLength) {
		t.Fatalf("p>l: got %v", err)
	}
}

func TestDecodeRejectsWrongLength(t *testing.T) {
	dec, err := NewDecoder(2, 2, 3)
	if err != nil {
		t.Fatal(err)
	}
	if err := dec.Decode([]byte{1, 2, 3}); !errors.Is(err, ErrInvalidPieceLength) {
		t.Fatalf("got %v, want ErrInvalidPieceLength", err)
	}
}

func TestGetDecodedDataRejectsPartialRank(t *testing.T) {
	dec, err := NewDecoder(2, 2, 3)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := dec.GetDecodedData(); !errors.Is(err, ErrNotAllPiecesReceivedYet) {
		t.Fatalf("got %v, want ErrNotAllPiecesReceivedYet", err)
	}
}
