// cuckoo.go implements the cuckoo-hash table of reversible single-piece
// moves used by Position.UpcomingRepetition to detect that some position
// in the search path can repeat without walking the whole history.
package chess

import "fmt"

const cuckooSize = 8192

var (
	cuckooHashes [cuckooSize]uint64
	cuckooMoves  [cuckooSize]Move
)

func cuckooH1(h uint64) int { return int(h & 0x1fff) }
func cuckooH2(h uint64) int { return int((h >> 16) & 0x1fff) }

// cuckooPieceTypes are the piece types whose single moves are always
// reversible (pawns are not, since they cannot move backwards).
var cuckooPieceTypes = [5]PieceType{Knight, Bishop, Rook, Queen, King}

func init() {
	count := 0
	for c := White; c <= Black; c++ {
		for _, pt := range cuckooPieceTypes {
			p := MakePiece(c, pt)
			for sq1 := Square(0); sq1 < 63; sq1++ {
				for sq2 := sq1 + 1; sq2 < 64; sq2++ {
					if Attacks(pt, sq1, EmptyBB)&sq2.Bitboard() == 0 {
						continue
					}
					mv := NewMove(sq1, sq2, Quiet)
					hash := zobristPiece[p][sq1] ^ zobristPiece[p][sq2] ^ zobristSide

					i := cuckooH1(hash)
					for {
						cuckooHashes[i], hash = hash, cuckooHashes[i]
						cuckooMoves[i], mv = mv, cuckooMoves[i]
						if mv.IsNull() {
							break
						}
						if i == cuckooH1(hash) {
							i = cuckooH2(hash)
						} else {
							i = cuckooH1(hash)
						}
					}
					count++
				}
			}
		}
	}
	// Self-check, not a magic constant to reproduce: this count is a
	// property of the attack tables above (how many square pairs a
	// knight/bishop/rook/queen/king can reversibly move between).
	if count != 3668 {
		panic(fmt.Sprintf("chess: cuckoo table expected 3668 entries, got %d", count))
	}
}

// cuckooLookup returns the (move, ok) pair stored for moveHash, trying
// both candidate slots.
func cuckooLookup(moveHash uint64) (Move, bool) {
	i := cuckooH1(moveHash)
	if cuckooHashes[i] != moveHash {
		i = cuckooH2(moveHash)
		if cuckooHashes[i] != moveHash {
			return Move{}, false
		}
	}
	return cuckooMoves[i], true
}
