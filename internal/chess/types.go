// Package chess implements bitboard-based board representation, magic
// sliding attacks, incremental make/unmake, move generation and static
// exchange evaluation for a standard chess position.
package chess

import "fmt"

// Square is a board square, 0..63 with a1=0, h8=63.
type Square int8

const (
	SquareA1 Square = iota
	SquareB1
	SquareC1
	SquareD1
	SquareE1
	SquareF1
	SquareG1
	SquareH1
	SquareA2
	SquareB2
	SquareC2
	SquareD2
	SquareE2
	SquareF2
	SquareG2
	SquareH2
	SquareA3
	SquareB3
	SquareC3
	SquareD3
	SquareE3
	SquareF3
	SquareG3
	SquareH3
	SquareA4
	SquareB4
	SquareC4
	SquareD4
	SquareE4
	SquareF4
	SquareG4
	SquareH4
	SquareA5
	SquareB5
	SquareC5
	SquareD5
	SquareE5
	SquareF5
	SquareG5
	SquareH5
	SquareA6
	SquareB6
	SquareC6
	SquareD6
	SquareE6
	SquareF6
	SquareG6
	SquareH6
	SquareA7
	SquareB7
	SquareC7
	SquareD7
	SquareE7
	SquareF7
	SquareG7
	SquareH7
	SquareA8
	SquareB8
	SquareC8
	SquareD8
	SquareE8
	SquareF8
	SquareG8
	SquareH8
	SquareNone Square = 64
)

// NumSquares is the number of squares on the board.
const NumSquares = 64

// File returns the file (0=a..7=h) of sq.
func (sq Square) File() int { return int(sq) & 7 }

// Rank returns the rank (0=1st..7=8th) of sq.
func (sq Square) Rank() int { return int(sq) >> 3 }

// RankFile builds a square from a rank and a file, both 0-based.
func RankFile(rank, file int) Square { return Square(rank<<3 | file) }

// Bitboard returns the singleton bitboard containing sq.
func (sq Square) Bitboard() Bitboard { return Bitboard(1) << uint(sq) }

// Relative mirrors sq vertically for Black's point of view.
func (sq Square) Relative(c Color) Square {
	if c == White {
		return sq
	}
	return sq ^ 56
}

// MirrorFile mirrors sq horizontally (a<->h).
func (sq Square) MirrorFile() Square { return sq ^ 7 }

func (sq Square) String() string {
	if sq < 0 || sq > 63 {
		return "-"
	}
	return string([]byte{byte('a' + sq.File()), byte('1' + sq.Rank())})
}

// Color identifies the side to move or the owner of a piece.
type Color int8

const (
	White Color = iota
	Black
	ColorNone
)

// NumColors is the number of colors.
const NumColors = 2

// Opposite returns the other color.
func (c Color) Opposite() Color { return c ^ 1 }

// Multiplier returns +1 for White and -1 for Black, used to flip
// side-relative scores into absolute (White's point of view) scores.
func (c Color) Multiplier() int32 {
	if c == White {
		return 1
	}
	return -1
}

func (c Color) String() string {
	if c == White {
		return "w"
	}
	return "b"
}

// PieceType is one of the six chess piece kinds.
type PieceType int8

const (
	Pawn PieceType = iota
	Knight
	Bishop
	Rook
	Queen
	King
	NoPieceType
)

// NumPieceTypes is the number of piece kinds.
const NumPieceTypes = 6

func (pt PieceType) String() string {
	return "pnbrqk?"[pt : pt+1]
}

// Piece is a (color, type) pair encoded as type + 6*color, plus NoPiece.
type Piece int8

const (
	WhitePawn Piece = iota
	WhiteKnight
	WhiteBishop
	WhiteRook
	WhiteQueen
	WhiteKing
	BlackPawn
	BlackKnight
	BlackBishop
	BlackRook
	BlackQueen
	BlackKing
	NoPiece
)

// NumPieces is the number of non-empty pieces.
const NumPieces = 12

// MakePiece builds a Piece from a color and a piece type.
func MakePiece(c Color, pt PieceType) Piece {
	if pt == NoPieceType {
		return NoPiece
	}
	return Piece(pt) + Piece(c)*6
}

// Color returns the color of the piece. Undefined for NoPiece.
func (p Piece) Color() Color { return Color(p / 6) }

// Type returns the piece type. Returns NoPieceType for NoPiece.
func (p Piece) Type() PieceType {
	if p == NoPiece {
		return NoPieceType
	}
	return PieceType(p % 6)
}

var pieceLetters = "PNBRQKpnbrqk."

func (p Piece) String() string {
	if p == NoPiece {
		return "."
	}
	return pieceLetters[p : p+1]
}

// MoveType is the 4-bit move-kind tag encoded in a Move.
type MoveType uint16

const (
	Quiet MoveType = iota
	Capture
	Castling
	EnPassant
	PromotionQuietKnight
	PromotionQuietBishop
	PromotionQuietRook
	PromotionQuietQueen
	PromotionCaptureKnight
	PromotionCaptureBishop
	PromotionCaptureRook
	PromotionCaptureQueen
)

// IsPromotion reports whether mt promotes a pawn.
func (mt MoveType) IsPromotion() bool { return mt >= PromotionQuietKnight }

// IsCapture reports whether mt removes an enemy piece from the board.
func (mt MoveType) IsCapture() bool {
	return mt == Capture || mt == EnPassant || mt >= PromotionCaptureKnight
}

// PromotionType returns the promoted-to piece type for a promotion move type.
func (mt MoveType) PromotionType() PieceType {
	switch mt {
	case PromotionQuietKnight, PromotionCaptureKnight:
		return Knight
	case PromotionQuietBishop, PromotionCaptureBishop:
		return Bishop
	case PromotionQuietRook, PromotionCaptureRook:
		return Rook
	case PromotionQuietQueen, PromotionCaptureQueen:
		return Queen
	default:
		return NoPieceType
	}
}

// Move is a 16-bit "from | to | type" move plus a transient ordering score
// that does not participate in equality or persistence.
type Move struct {
	bits  uint16
	score int32
}

// NewMove builds a move from its components.
func NewMove(from, to Square, mt MoveType) Move {
	return Move{bits: uint16(mt)<<12 | uint16(from)<<6 | uint16(to)}
}

// NullMove is the sentinel "no move" value (a1a1, Quiet).
var NullMove = Move{}

// From returns the origin square.
func (m Move) From() Square { return Square(m.bits >> 6 & 0x3f) }

// To returns the destination square.
func (m Move) To() Square { return Square(m.bits & 0x3f) }

// Type returns the move type.
func (m Move) Type() MoveType { return MoveType(m.bits >> 12) }

// Raw returns the 16-bit encoding.
func (m Move) Raw() uint16 { return m.bits }

// MoveFromRaw reconstructs a Move from its 16-bit encoding.
func MoveFromRaw(bits uint16) Move { return Move{bits: bits} }

// IsNull reports whether m is the null move sentinel.
func (m Move) IsNull() bool { return m.bits == 0 }

// Score returns the transient ordering score set by SetScore.
func (m Move) Score() int32 { return m.score }

// SetScore sets the transient ordering score used by the move picker.
func (m *Move) SetScore(s int32) { m.score = s }

// Equal compares the persisted 16-bit payload only; the score is transient.
func (m Move) Equal(o Move) bool { return m.bits == o.bits }

// UCI returns the move in UCI long algebraic notation.
func (m Move) UCI() string {
	if m.IsNull() {
		return "0000"
	}
	s := m.From().String() + m.To().String()
	if pt := m.Type().PromotionType(); pt != NoPieceType {
		s += string([]byte{"__nbrq"[pt]})
	}
	return s
}

func (m Move) String() string { return m.UCI() }

// CastlingRights is a 64-bit mask; bit i is set iff a rook-origin square
// still carries its castling right (four of the 64 bits are meaningful:
// a1/h1/a8/h8 for WhiteOOO/WhiteOO/BlackOOO/BlackOO in file order).
type CastlingRights uint64

const (
	CastleWhiteOO  CastlingRights = 1 << SquareH1
	CastleWhiteOOO CastlingRights = 1 << SquareA1
	CastleBlackOO  CastlingRights = 1 << SquareH8
	CastleBlackOOO CastlingRights = 1 << SquareA8
	CastleNone     CastlingRights = 0
	CastleAll                     = CastleWhiteOO | CastleWhiteOOO | CastleBlackOO | CastleBlackOOO
)

// Has reports whether all bits of sub are set.
func (c CastlingRights) Has(sub CastlingRights) bool { return c&sub == sub }

// Index maps the 16 possible (subset of 4 bits) combinations to 0..15 for
// Zobrist table lookup.
func (c CastlingRights) Index() int {
	idx := 0
	if c&CastleWhiteOO != 0 {
		idx |= 1
	}
	if c&CastleWhiteOOO != 0 {
		idx |= 2
	}
	if c&CastleBlackOO != 0 {
		idx |= 4
	}
	if c&CastleBlackOOO != 0 {
		idx |= 8
	}
	return idx
}

// Score is a centipawn/mate evaluation from the side-to-move's perspective.
type Score = int32

// Score constants, relative to the position where the score was computed.
const (
	ValueDraw     Score = 0
	ValueMate     Score = 32000
	ValueInfinite Score = 32001
	ValueNone     Score = 32002

	MaxPly = 246

	ValueMateInMaxPly    Score = ValueMate - MaxPly
	ValueMatedInMaxPly   Score = -ValueMateInMaxPly
	ValueTBWin           Score = ValueMate - 1000
	ValueTBWinInMaxPly   Score = ValueTBWin - MaxPly
	ValueTBLoss          Score = -ValueTBWin
	ValueTBLossInMaxPly  Score = -ValueTBWinInMaxPly
)

// PieceValue gives the classical material value of each piece type, used
// by SEE and by move-ordering scoring. Kings are given a large sentinel
// value so SEE never treats "winning the king" as a normal exchange.
var PieceValue = [NumPieceTypes]int32{100, 325, 325, 500, 1000, 30000}

func init() {
	if len(pieceLetters) != NumPieces+1 {
		panic(fmt.Sprintf("pieceLetters has wrong length: %d", len(pieceLetters)))
	}
}
