package gf

import "github.com/templexxx/xor"

// Scale sets dst[i] = c * src[i] for every byte, overwriting dst. dst and
// src must have equal length.
func Scale(dst, src []byte, c byte) {
	if c == 0 {
		for i := range dst {
			dst[i] = 0
		}
		return
	}
	if c == 1 {
		copy(dst, src)
		return
	}
	row := mulTable[c]
	for i, s := range src {
		dst[i] = row[s]
	}
}

// AXPY folds a scaled copy of src into dst: dst[i] ^= c * src[i]. This is
// the field's fused multiply-add and the dominant cost of encoding,
// recoding, and decoding alike. The c==0 case is a no-op and the c==1 case
// degenerates to a plain XOR, which we hand to templexxx/xor's accelerated
// implementation instead of looping a byte at a time.
func AXPY(dst, src []byte, c byte) {
	if c == 0 {
		return
	}
	if c == 1 {
		xor.Bytes(dst, dst, src)
		return
	}
	row := mulTable[c]
	for i, s := range src {
		dst[i] ^= row[s]
	}
}
