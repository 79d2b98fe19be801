package chess

func promotionRank(c Color) int {
	if c == White {
		return 7
	}
	return 0
}

// pawnSinglePush returns the square one step ahead of from for color c, or
// SquareNone if that would fall off the board.
func pawnSinglePush(from Square, c Color) Square {
	if c == White {
		if from.Rank() == 7 {
			return SquareNone
		}
		return from + 8
	}
	if from.Rank() == 0 {
		return SquareNone
	}
	return from - 8
}

// pawnQuietTargets returns the squares a pawn on from can push to (single
// and, if on its start rank and the path is clear, double), ignoring
// promotion-rank filtering.
func (pos *Position) pawnQuietTargets(from Square, c Color) Bitboard {
	occ := pos.Occupancy()
	one := pawnSinglePush(from, c)
	if one == SquareNone || occ.Has(one) {
		return 0
	}
	targets := one.Bitboard()
	startRank := 1
	if c == Black {
		startRank = 6
	}
	if from.Rank() == startRank {
		if two := pawnSinglePush(one, c); two != SquareNone && !occ.Has(two) {
			targets |= two.Bitboard()
		}
	}
	return targets
}

// isPseudoLegalCastle checks castling rights, an empty path between king and
// rook, and that the king does not start, pass through, or end on an
// attacked square.
func (pos *Position) isPseudoLegalCastle(from, to Square) bool {
	us := pos.SideToMove
	if from != pos.King(us) {
		return false
	}
	var right CastlingRights
	switch {
	case to.File() == 6 && us == White:
		right = CastleWhiteOO
	case to.File() == 2 && us == White:
		right = CastleWhiteOOO
	case to.File() == 6 && us == Black:
		right = CastleBlackOO
	case to.File() == 2 && us == Black:
		right = CastleBlackOOO
	default:
		return false
	}
	if !pos.Castling().Has(right) {
		return false
	}

	rookFrom, _ := castlingRookSquares(from, to)
	if pos.PieceAt(rookFrom) != MakePiece(us, Rook) {
		return false
	}

	occ := pos.Occupancy()
	if Between(from, rookFrom)&occ != 0 {
		return false
	}

	them := us.Opposite()
	occNoKingRook := occ &^ from.Bitboard() &^ rookFrom.Bitboard()
	kingPath := Between(from, to) | to.Bitboard() | from.Bitboard()
	return pos.attacksByColor(them, occNoKingRook)&kingPath == 0
}

// IsPseudoLegal reports whether m could be played in the current position
// ignoring whether it leaves the mover's own king in check. Used to
// validate moves recalled from the transposition table or entered by hand
// before the more expensive IsLegal check.
func (pos *Position) IsPseudoLegal(m Move) bool {
	if m.IsNull() {
		return false
	}
	us := pos.SideToMove
	them := us.Opposite()
	from, to, mt := m.From(), m.To(), m.Type()
	if from == to {
		return false
	}
	moving := pos.PieceAt(from)
	if moving == NoPiece || moving.Color() != us {
		return false
	}
	occ := pos.Occupancy()
	target := pos.PieceAt(to)

	switch mt {
	case Castling:
		return pos.isPseudoLegalCastle(from, to)

	case EnPassant:
		if moving.Type() != Pawn || to != pos.EPSquare() {
			return false
		}
		capSq := Square(int(to) ^ 8)
		cap := pos.PieceAt(capSq)
		return cap.Type() == Pawn && cap.Color() == them

	case PromotionQuietKnight, PromotionQuietBishop, PromotionQuietRook, PromotionQuietQueen:
		if moving.Type() != Pawn || target != NoPiece || to.Rank() != promotionRank(us) {
			return false
		}
		one := pawnSinglePush(from, us)
		return one == to

	case PromotionCaptureKnight, PromotionCaptureBishop, PromotionCaptureRook, PromotionCaptureQueen:
		if moving.Type() != Pawn || target == NoPiece || target.Color() != them || to.Rank() != promotionRank(us) {
			return false
		}
		return PawnAttacks(us, from)&to.Bitboard() != 0

	case Capture:
		if target == NoPiece || target.Color() != them {
			return false
		}
		if moving.Type() == Pawn {
			return to.Rank() != promotionRank(us) && PawnAttacks(us, from)&to.Bitboard() != 0
		}
		return Attacks(moving.Type(), from, occ)&to.Bitboard() != 0

	default: // Quiet
		if target != NoPiece {
			return false
		}
		if moving.Type() == Pawn {
			return to.Rank() != promotionRank(us) && pos.pawnQuietTargets(from, us)&to.Bitboard() != 0
		}
		return Attacks(moving.Type(), from, occ)&to.Bitboard() != 0
	}
}

// IsLegal reports whether a pseudo-legal m leaves the mover's own king safe.
// Callers must first establish m is pseudo-legal (e.g. via IsPseudoLegal, or
// because it came from GenerateMoves).
func (pos *Position) IsLegal(m Move) bool {
	us := pos.SideToMove
	them := us.Opposite()
	ksq := pos.King(us)
	from, to, mt := m.From(), m.To(), m.Type()

	if mt == Castling {
		return true
	}

	if mt == EnPassant {
		capSq := Square(int(to) ^ 8)
		occ := pos.Occupancy() &^ from.Bitboard() &^ capSq.Bitboard() | to.Bitboard()
		return pos.attackersTo(ksq, occ)&pos.byColor[them] == 0
	}

	if from == ksq {
		return pos.curr().Danger&to.Bitboard() == 0
	}

	if checkers := pos.Checkers(); checkers != 0 {
		if checkers.Popcnt() >= 2 {
			return false
		}
		checkerSq := checkers.AsSquare()
		allowed := checkerSq.Bitboard() | Between(ksq, checkerSq)
		if allowed&to.Bitboard() == 0 {
			return false
		}
	}

	if pos.Blockers(us)&from.Bitboard() == 0 {
		return true
	}
	return Line(ksq, from)&to.Bitboard() != 0
}

// discoveryBlockers returns mover's own pieces that currently block one of
// mover's sliders from checking the opposing king; used by GivesCheck.
func (pos *Position) discoveryBlockers(mover Color) Bitboard {
	them := mover.Opposite()
	ksq := pos.King(them)
	occ := pos.Occupancy()
	sliders := (RookAttacks(ksq, EmptyBB) & (pos.byType[Rook] | pos.byType[Queen])) |
		(BishopAttacks(ksq, EmptyBB) & (pos.byType[Bishop] | pos.byType[Queen]))
	snipers := sliders & pos.byColor[mover]

	var blockers Bitboard
	for s := snipers; s != 0; {
		sq2 := s.Pop()
		between := Between(ksq, sq2) & occ
		if between != 0 && between.Popcnt() == 1 && pos.PieceAt(between.AsSquare()).Color() == mover {
			blockers |= between
		}
	}
	return blockers
}

// GivesCheck reports whether playing the pseudo-legal move m would put the
// opponent's king in check.
func (pos *Position) GivesCheck(m Move) bool {
	us := pos.SideToMove
	them := us.Opposite()
	ksq := pos.King(them)
	from, to, mt := m.From(), m.To(), m.Type()
	moving := pos.PieceAt(from)

	pt := moving.Type()
	if mt.IsPromotion() {
		pt = mt.PromotionType()
	}

	occ := pos.Occupancy()&^from.Bitboard() | to.Bitboard()
	if mt == EnPassant {
		occ &^= Square(int(to) ^ 8).Bitboard()
	}

	var direct Bitboard
	if pt == Pawn {
		direct = PawnAttacks(us, to)
	} else {
		direct = Attacks(pt, to, occ)
	}
	if direct&ksq.Bitboard() != 0 {
		return true
	}

	if blockers := pos.discoveryBlockers(us); blockers&from.Bitboard() != 0 && Line(ksq, from)&to.Bitboard() == 0 {
		return true
	}

	switch mt {
	case Castling:
		_, rookTo := castlingRookSquares(from, to)
		return RookAttacks(rookTo, occ)&ksq.Bitboard() != 0
	case EnPassant:
		bq := pos.byType[Bishop] | pos.byType[Queen]
		rq := pos.byType[Rook] | pos.byType[Queen]
		return (BishopAttacks(ksq, occ)&bq&pos.byColor[us] != 0) || (RookAttacks(ksq, occ)&rq&pos.byColor[us] != 0)
	}
	return false
}
