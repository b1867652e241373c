package rlnc

import (
	"bytes"
	"errors"
	"math/rand"
	"testing"
)

func makeStoredPieces(t *testing.T, enc *Encoder, n int, rng *rand.Rand) []byte {
	t.Helper()
	buf := make([]byte, 0, n*enc.CodedPieceByteLen())
	for i := 0; i < n; i++ {
		piece, err := enc.Code(rng)
		if err != nil {
			t.Fatalf("Code: %v", err)
		}
		buf = append(buf, piece...)
	}
	return buf
}

func TestNewRecoderRejectsBadInput(t *testing.T) {
	if _, err := NewRecoder([]byte{1, 2, 3, 4}, 1, 2); !errors.Is(err, ErrInvalidPieceCount) {
		t.Fatalf("k=1: got %v", err)
	}
	if _, err := NewRecoder(nil, 2, 2); !errors.Is(err, ErrEmptyData) {
		t.Fatalf("empty: got %v", err)
	}
	if _, err := NewRecoder([]byte{1, 2, 3}, 2, 2); !errors.Is(err, ErrInvalidPieceLength) {
		t.Fatalf("bad stride: got %v", err)
	}
}

// TestRecodeWithCodingVectorComposesCoefficients is testable property 6's
// Recoder analogue: new_cv = sum mix[i]*c_i, new_sym = sum mix[i]*s_i,
// equivalently a single AXPY pass per stored (K+P)-byte piece.
func TestRecodeWithCodingVectorComposesCoefficients(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	data := make([]byte, 256)
	rng.Read(data)
	enc, err := NewEncoder(data, 4)
	if err != nil {
		t.Fatal(err)
	}
	stored := makeStoredPieces(t, enc, 5, rng)
	rec, err := NewRecoder(stored, 4, enc.PieceByteLen())
	if err != nil {
		t.Fatal(err)
	}
	if rec.NumPieces() != 5 {
		t.Fatalf("NumPieces = %d, want 5", rec.NumPieces())
	}

	mix := make([]byte, 5)
	rng.Read(mix)
	out, err := rec.RecodeWithCodingVector(mix)
	if err != nil {
		t.Fatal(err)
	}

	stride := rec.CodedPieceByteLen()
	want := make([]byte, stride)
	for i := 0; i < 5; i++ {
		src := stored[i*stride : (i+1)*stride]
		for j := range want {
			want[j] ^= mulRef(mix[i], src[j])
		}
	}
	if !bytes.Equal(out, want) {
		t.Fatalf("recoded piece mismatch:\n got  %x\n want %x", out, want)
	}
}

func TestRecodeWithCodingVectorRejectsWrongLength(t *testing.T) {
	rng := rand.New(rand.NewSource(12))
	enc, _ := NewEncoder(make([]byte, 64), 4)
	stored := makeStoredPieces(t, enc, 3, rng)
	rec, err := NewRecoder(stored, 4, enc.PieceByteLen())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := rec.RecodeWithCodingVector([]byte{1, 2}); !errors.Is(err, ErrInvalidCodingVector) {
		t.Fatalf("got %v, want ErrInvalidCodingVector", err)
	}
}
