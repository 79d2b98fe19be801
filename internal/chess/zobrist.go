// zobrist.go contains the fixed-seed random tables used to hash positions.
//
// The tables are populated once at init() from a fixed-seed PRNG and never
// mutated afterwards, per the construction-order requirement in the design
// notes (attack/zobrist/cuckoo tables must exist before the first Position).
package chess

import "math/rand"

var (
	zobristPiece  [NumPieces][NumSquares]uint64
	zobristCastle [16]uint64
	zobristEP     [8]uint64 // indexed by file; EP hash only depends on file
	zobristSide   uint64
)

func rand64(r *rand.Rand) uint64 {
	return uint64(r.Int63())<<32 ^ uint64(r.Int63())
}

func init() {
	r := rand.New(rand.NewSource(1070372))
	for p := Piece(0); p < NumPieces; p++ {
		for sq := Square(0); sq < NumSquares; sq++ {
			zobristPiece[p][sq] = rand64(r)
		}
	}
	for i := range zobristCastle {
		zobristCastle[i] = rand64(r)
	}
	for f := range zobristEP {
		zobristEP[f] = rand64(r)
	}
	zobristSide = rand64(r)
}
