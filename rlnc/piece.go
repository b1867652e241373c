package rlnc

// A coded piece is a flat []byte of length K+P: the K-byte coding vector
// followed by the P-byte symbol vector (spec section 6). These two helpers
// are the only place that layout is named, so Encoder, Recoder, and Decoder
// all slice a coded piece identically.

// codingVector returns the K-byte coding-vector half of a coded piece.
func codingVector(piece []byte, k int) []byte {
	return piece[:k]
}

// symbolVector returns the P-byte symbol-vector half of a coded piece.
func symbolVector(piece []byte, k int) []byte {
	return piece[k:]
}
