package gf

// Field is GF(2^8) reduced modulo the primitive polynomial x^8+x^4+x^3+x^2+1
// (0x11D), generated by 0x02 — the same field klauspost/reedsolomon builds
// its own log/antilog tables over. The tables below are built once at
// package init and drive every Mul/Inv; mulTable folds them into a flat
// 256x256 product table so the hot path is a single indexed load, not two
// log lookups and a mod-255 add, per call.
const (
	polynomial = 0x11D
	generator  = 0x02 // doubling x each round below is multiplication by this
)

var (
	expTable [510]byte // exp[i] == exp[i+255] for all i, avoids a mod on lookup
	logTable [256]byte
	mulTable [256][256]byte
)

func init() {
	x := 1
	for i := 0; i < 255; i++ {
		expTable[i] = byte(x)
		logTable[x] = byte(i)
		x <<= 1
		if x&0x100 != 0 {
			x ^= polynomial
		}
	}
	for i := 255; i < len(expTable); i++ {
		expTable[i] = expTable[i-255]
	}
	for a := 0; a < 256; a++ {
		for b := 0; b < 256; b++ {
			mulTable[a][b] = slowMul(byte(a), byte(b))
		}
	}
}

// slowMul computes a*b from the log/antilog tables; used only to seed
// mulTable at init.
func slowMul(a, b byte) byte {
	if a == 0 || b == 0 {
		return 0
	}
	return expTable[int(logTable[a])+int(logTable[b])]
}
