package chess

import (
	"fmt"
	"strconv"
	"strings"
)

// FENStartPos is the standard chess starting position in FEN.
const FENStartPos = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// ParseError is returned by FromFEN and move-notation parsing on malformed
// input. Kind is a short machine-readable category; Pos is the offending
// substring or field, included for diagnostics.
type ParseError struct {
	Kind string
	Pos  string
}

func (e *ParseError) Error() string { return fmt.Sprintf("chess: %s: %q", e.Kind, e.Pos) }

// StateInfo is the per-ply snapshot produced by MakeMove and consumed by
// UndoMove; one StateInfo exists per ply of search/game history.
type StateInfo struct {
	Captured      PieceType
	EPSquare      Square // SquareNone if not applicable
	Castling      CastlingRights
	FMR           int // fifty-move-rule half-move counter
	PliesFromNull int

	Hash        uint64
	PawnHash    uint64
	NonPawnHash [2]uint64

	Checkers Bitboard    // enemy pieces checking the side to move
	Pinners  [2]Bitboard // per color: enemy sliders pinning one of our pieces
	Blockers [2]Bitboard // per color: our pieces pinned to our own king

	Danger  Bitboard         // squares attacked by the side NOT to move
	Threats [NumPieceTypes]Bitboard // squares attacked by the side NOT to move, by attacker type

	move Move // the move that produced this state (NullMove for the root)
}

// Position is a mutable chess board: piece placement, side to move,
// castling/en-passant state, and enough history to make/unmake moves and
// detect repetitions.
type Position struct {
	byColor [NumColors]Bitboard
	byType  [NumPieceTypes]Bitboard
	board   [NumSquares]Piece

	SideToMove     Color
	FullMoveNumber int

	states []StateInfo
}

func (pos *Position) curr() *StateInfo { return &pos.states[len(pos.states)-1] }

// Ply returns the number of half-moves played since the root position the
// Position was constructed from (0 at the root).
func (pos *Position) Ply() int { return len(pos.states) - 1 }

// Clone returns an independent copy of pos: a search worker mutates its
// position in place via MakeMove/UndoMove, so each concurrent worker needs
// its own copy of the root position rather than sharing the one the UCI
// layer holds.
func (pos *Position) Clone() *Position {
	cp := *pos
	cp.states = make([]StateInfo, len(pos.states))
	copy(cp.states, pos.states)
	return &cp
}

// NewPosition returns a new position set up at the standard start position.
func NewPosition() *Position {
	pos, err := FromFEN(FENStartPos)
	if err != nil {
		panic("chess: start position FEN is malformed: " + err.Error())
	}
	return pos
}

// Occupancy returns the union of all occupied squares.
func (pos *Position) Occupancy() Bitboard { return pos.byColor[White] | pos.byColor[Black] }

// ByColor returns all squares occupied by pieces of color c.
func (pos *Position) ByColor(c Color) Bitboard { return pos.byColor[c] }

// ByType returns all squares occupied by pieces of type pt, any color.
func (pos *Position) ByType(pt PieceType) Bitboard { return pos.byType[pt] }

// ByPiece returns all squares occupied by pieces matching (c, pt).
func (pos *Position) ByPiece(c Color, pt PieceType) Bitboard { return pos.byColor[c] & pos.byType[pt] }

// PieceAt returns the piece sitting on sq, or NoPiece.
func (pos *Position) PieceAt(sq Square) Piece { return pos.board[sq] }

// King returns the square of c's king.
func (pos *Position) King(c Color) Square { return pos.ByPiece(c, King).AsSquare() }

// Hash returns the Zobrist key of the current position.
func (pos *Position) Hash() uint64 { return pos.curr().Hash }

// PawnHash returns the pawn-only partial Zobrist key.
func (pos *Position) PawnHash() uint64 { return pos.curr().PawnHash }

// NonPawnHash returns the non-pawn partial Zobrist key for color c.
func (pos *Position) NonPawnHash(c Color) uint64 { return pos.curr().NonPawnHash[c] }

// EPSquare returns the current en-passant target square, or SquareNone.
func (pos *Position) EPSquare() Square { return pos.curr().EPSquare }

// Castling returns the current castling rights.
func (pos *Position) Castling() CastlingRights { return pos.curr().Castling }

// Checkers returns the enemy pieces currently attacking the side to move's king.
func (pos *Position) Checkers() Bitboard { return pos.curr().Checkers }

// InCheck reports whether the side to move is in check.
func (pos *Position) InCheck() bool { return pos.curr().Checkers != 0 }

// Blockers returns c's pieces that are pinned to c's king.
func (pos *Position) Blockers(c Color) Bitboard { return pos.curr().Blockers[c] }

// Pinners returns the enemy sliders pinning one of c's pieces.
func (pos *Position) Pinners(c Color) Bitboard { return pos.curr().Pinners[c] }

// ThreatsBy returns the squares attacked by the side NOT to move, by pt.
func (pos *Position) ThreatsBy(pt PieceType) Bitboard { return pos.curr().Threats[pt] }

// FiftyMoveRule reports whether the 50-move rule currently applies.
func (pos *Position) FiftyMoveRule() bool { return pos.curr().FMR >= 100 }

// NonPawnMaterial reports whether c has any piece other than pawns/king.
func (pos *Position) NonPawnMaterial(c Color) bool {
	return pos.byColor[c]&^pos.byType[Pawn]&^pos.byType[King] != 0
}

// put places piece p on sq, updating bitboards/board but not the hash
// (callers are responsible for XOR-ing the appropriate Zobrist terms).
func (pos *Position) put(sq Square, p Piece) {
	pos.board[sq] = p
	bb := sq.Bitboard()
	pos.byColor[p.Color()] |= bb
	pos.byType[p.Type()] |= bb
}

// remove clears sq, which must currently hold p.
func (pos *Position) remove(sq Square, p Piece) {
	pos.board[sq] = NoPiece
	bb := ^sq.Bitboard()
	pos.byColor[p.Color()] &= bb
	pos.byType[p.Type()] &= bb
}

// pieceHashTerm returns the Zobrist term for piece p on sq; xorPieceHash
// folds it into the full/pawn/non-pawn partial hashes it contributes to.
func pieceHashTerm(p Piece, sq Square) uint64 { return zobristPiece[p][sq] }

func (pos *Position) xorPieceHash(st *StateInfo, p Piece, sq Square) {
	h := pieceHashTerm(p, sq)
	st.Hash ^= h
	if p.Type() == Pawn {
		st.PawnHash ^= h
	} else if p.Type() != King {
		st.NonPawnHash[p.Color()] ^= h
	}
}

// FromFEN parses fen in Forsyth-Edwards Notation.
func FromFEN(fen string) (*Position, error) {
	fields := strings.Fields(fen)
	if len(fields) != 6 {
		return nil, &ParseError{"fen-field-count", fen}
	}

	pos := &Position{states: make([]StateInfo, 1)}
	st := &pos.states[0]
	st.EPSquare = SquareNone

	ranks := strings.Split(fields[0], "/")
	if len(ranks) != 8 {
		return nil, &ParseError{"fen-rank-count", fields[0]}
	}
	for i := range pos.board {
		pos.board[i] = NoPiece
	}
	for i, rankStr := range ranks {
		rank := 7 - i
		file := 0
		for _, ch := range rankStr {
			if ch >= '1' && ch <= '8' {
				file += int(ch - '0')
				continue
			}
			pt, col, ok := pieceFromFENByte(byte(ch))
			if !ok {
				return nil, &ParseError{"fen-piece", string(ch)}
			}
			if file > 7 {
				return nil, &ParseError{"fen-rank-overflow", rankStr}
			}
			sq := RankFile(rank, file)
			p := MakePiece(col, pt)
			pos.put(sq, p)
			pos.xorPieceHash(st, p, sq)
			file++
		}
		if file != 8 {
			return nil, &ParseError{"fen-rank-length", rankStr}
		}
	}

	switch fields[1] {
	case "w":
		pos.SideToMove = White
	case "b":
		pos.SideToMove = Black
		st.Hash ^= zobristSide
	default:
		return nil, &ParseError{"fen-side", fields[1]}
	}

	if fields[2] != "-" {
		for _, ch := range fields[2] {
			switch ch {
			case 'K':
				st.Castling |= CastleWhiteOO
			case 'Q':
				st.Castling |= CastleWhiteOOO
			case 'k':
				st.Castling |= CastleBlackOO
			case 'q':
				st.Castling |= CastleBlackOOO
			default:
				return nil, &ParseError{"fen-castling", fields[2]}
			}
		}
	}
	st.Hash ^= zobristCastle[st.Castling.Index()]

	if fields[3] != "-" {
		sq, err := SquareFromString(fields[3])
		if err != nil {
			return nil, &ParseError{"fen-ep", fields[3]}
		}
		st.EPSquare = sq
		st.Hash ^= zobristEP[sq.File()]
	}

	fmr, err := strconv.Atoi(fields[4])
	if err != nil || fmr < 0 {
		return nil, &ParseError{"fen-halfmove", fields[4]}
	}
	st.FMR = fmr

	full, err := strconv.Atoi(fields[5])
	if err != nil || full < 1 {
		return nil, &ParseError{"fen-fullmove", fields[5]}
	}
	pos.FullMoveNumber = full

	if pos.ByPiece(White, King).Popcnt() != 1 || pos.ByPiece(Black, King).Popcnt() != 1 {
		return nil, &ParseError{"fen-king-count", fen}
	}

	pos.recomputeThreatState(st)
	return pos, nil
}

func pieceFromFENByte(ch byte) (PieceType, Color, bool) {
	col := White
	if ch >= 'a' && ch <= 'z' {
		col = Black
	}
	switch ch {
	case 'P', 'p':
		return Pawn, col, true
	case 'N', 'n':
		return Knight, col, true
	case 'B', 'b':
		return Bishop, col, true
	case 'R', 'r':
		return Rook, col, true
	case 'Q', 'q':
		return Queen, col, true
	case 'K', 'k':
		return King, col, true
	default:
		return NoPieceType, col, false
	}
}

// SquareFromString parses algebraic notation like "e4".
func SquareFromString(s string) (Square, error) {
	if len(s) != 2 || s[0] < 'a' || s[0] > 'h' || s[1] < '1' || s[1] > '8' {
		return SquareNone, &ParseError{"square", s}
	}
	return RankFile(int(s[1]-'1'), int(s[0]-'a')), nil
}

// ParseUCIMove parses a move in UCI long algebraic notation ("e2e4",
// "h7h8q") against pos's legal moves, the only reliable way to recover
// which MoveType a bare from/to/promotion-letter triple encodes (castling,
// en passant, and which of the four promotion move types all collapse to
// the same four or five characters).
func ParseUCIMove(pos *Position, s string) (Move, error) {
	if len(s) < 4 {
		return NullMove, &ParseError{"uci-move", s}
	}
	legal := pos.GenerateMoves(GenLegal, NewMoveBuffer())
	for _, m := range legal {
		if m.UCI() == s {
			return m, nil
		}
	}
	return NullMove, &ParseError{"uci-move", s}
}

// FEN formats the position in Forsyth-Edwards Notation.
func (pos *Position) FEN() string {
	var b strings.Builder
	for r := 7; r >= 0; r-- {
		empty := 0
		for f := 0; f < 8; f++ {
			p := pos.board[RankFile(r, f)]
			if p == NoPiece {
				empty++
				continue
			}
			if empty > 0 {
				b.WriteString(strconv.Itoa(empty))
				empty = 0
			}
			b.WriteString(p.String())
		}
		if empty > 0 {
			b.WriteString(strconv.Itoa(empty))
		}
		if r > 0 {
			b.WriteByte('/')
		}
	}
	b.WriteByte(' ')
	b.WriteString(pos.SideToMove.String())
	b.WriteByte(' ')
	st := pos.curr()
	if st.Castling == CastleNone {
		b.WriteByte('-')
	} else {
		if st.Castling.Has(CastleWhiteOO) {
			b.WriteByte('K')
		}
		if st.Castling.Has(CastleWhiteOOO) {
			b.WriteByte('Q')
		}
		if st.Castling.Has(CastleBlackOO) {
			b.WriteByte('k')
		}
		if st.Castling.Has(CastleBlackOOO) {
			b.WriteByte('q')
		}
	}
	b.WriteByte(' ')
	if st.EPSquare == SquareNone {
		b.WriteByte('-')
	} else {
		b.WriteString(st.EPSquare.String())
	}
	fmt.Fprintf(&b, " %d %d", st.FMR, pos.FullMoveNumber)
	return b.String()
}

func (pos *Position) String() string { return pos.FEN() }
