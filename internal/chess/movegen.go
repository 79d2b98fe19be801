package chess

// MaxMoves bounds the number of legal moves any reachable chess position can
// have; callers size move buffers to this.
const MaxMoves = 256

// NewMoveBuffer returns a zero-length slice with MaxMoves of backing
// capacity, suitable for reuse across GenerateMoves calls in a search loop.
func NewMoveBuffer() []Move { return make([]Move, 0, MaxMoves) }

// GenStage selects which subset of legal moves GenerateMoves produces,
// matching the staged move picker's generation phases.
type GenStage int

const (
	GenNoisy GenStage = iota
	GenQuiets
	GenQuietChecks
	GenLegal
)

var nonPawnPieces = [5]PieceType{Knight, Bishop, Rook, Queen, King}

// GenerateMoves appends every legal move of the requested stage to buf
// (which is truncated to length 0 first) and returns the result.
func (pos *Position) GenerateMoves(stage GenStage, buf []Move) []Move {
	buf = buf[:0]
	switch stage {
	case GenNoisy:
		buf = pos.genPseudoNoisy(buf)
	case GenQuiets:
		buf = pos.genPseudoQuiets(buf)
	case GenQuietChecks:
		quiets := pos.genPseudoQuiets(nil)
		for _, m := range quiets {
			if pos.IsLegal(m) && pos.GivesCheck(m) {
				buf = append(buf, m)
			}
		}
		return buf
	case GenLegal:
		buf = pos.genPseudoNoisy(buf)
		buf = pos.genPseudoQuiets(buf)
	}

	out := buf[:0]
	for _, m := range buf {
		if pos.IsLegal(m) {
			out = append(out, m)
		}
	}
	return out
}

// genPseudoNoisy appends captures, en-passant captures, and all promotions
// (quiet pushes included — promotions are scored and staged as noisy moves
// regardless of whether the destination is occupied).
func (pos *Position) genPseudoNoisy(buf []Move) []Move {
	us := pos.SideToMove
	them := us.Opposite()
	occ := pos.Occupancy()
	promRank := promotionRank(us)

	for bb := pos.ByPiece(us, Pawn); bb != 0; {
		from := bb.Pop()

		for caps := PawnAttacks(us, from) & pos.byColor[them]; caps != 0; {
			to := caps.Pop()
			if to.Rank() == promRank {
				buf = appendPromotions(buf, from, to, true)
			} else {
				buf = append(buf, NewMove(from, to, Capture))
			}
		}

		if ep := pos.EPSquare(); ep != SquareNone && PawnAttacks(us, from)&ep.Bitboard() != 0 {
			buf = append(buf, NewMove(from, ep, EnPassant))
		}

		if to := pawnSinglePush(from, us); to != SquareNone && !occ.Has(to) && to.Rank() == promRank {
			buf = appendPromotions(buf, from, to, false)
		}
	}

	for _, pt := range nonPawnPieces {
		for bb := pos.ByPiece(us, pt); bb != 0; {
			from := bb.Pop()
			for toBB := Attacks(pt, from, occ) & pos.byColor[them]; toBB != 0; {
				buf = append(buf, NewMove(from, toBB.Pop(), Capture))
			}
		}
	}
	return buf
}

func appendPromotions(buf []Move, from, to Square, capture bool) []Move {
	if capture {
		return append(buf,
			NewMove(from, to, PromotionCaptureQueen),
			NewMove(from, to, PromotionCaptureRook),
			NewMove(from, to, PromotionCaptureBishop),
			NewMove(from, to, PromotionCaptureKnight))
	}
	return append(buf,
		NewMove(from, to, PromotionQuietQueen),
		NewMove(from, to, PromotionQuietRook),
		NewMove(from, to, PromotionQuietBishop),
		NewMove(from, to, PromotionQuietKnight))
}

// genPseudoQuiets appends non-capturing, non-promotion pawn pushes, quiet
// moves for the other piece types, and castling.
func (pos *Position) genPseudoQuiets(buf []Move) []Move {
	us := pos.SideToMove
	occ := pos.Occupancy()
	promRank := promotionRank(us)
	startRank := 1
	if us == Black {
		startRank = 6
	}

	for bb := pos.ByPiece(us, Pawn); bb != 0; {
		from := bb.Pop()
		to := pawnSinglePush(from, us)
		if to == SquareNone || occ.Has(to) || to.Rank() == promRank {
			continue
		}
		buf = append(buf, NewMove(from, to, Quiet))
		if from.Rank() == startRank {
			if to2 := pawnSinglePush(to, us); to2 != SquareNone && !occ.Has(to2) {
				buf = append(buf, NewMove(from, to2, Quiet))
			}
		}
	}

	for _, pt := range nonPawnPieces {
		for bb := pos.ByPiece(us, pt); bb != 0; {
			from := bb.Pop()
			for toBB := Attacks(pt, from, occ) &^ occ; toBB != 0; {
				buf = append(buf, NewMove(from, toBB.Pop(), Quiet))
			}
		}
	}

	if !pos.InCheck() {
		ksq := pos.King(us)
		rank := 0
		if us == Black {
			rank = 7
		}
		kingsideRight, queensideRight := CastleWhiteOO, CastleWhiteOOO
		if us == Black {
			kingsideRight, queensideRight = CastleBlackOO, CastleBlackOOO
		}
		if pos.Castling().Has(kingsideRight) {
			to := RankFile(rank, 6)
			if pos.isPseudoLegalCastle(ksq, to) {
				buf = append(buf, NewMove(ksq, to, Castling))
			}
		}
		if pos.Castling().Has(queensideRight) {
			to := RankFile(rank, 2)
			if pos.isPseudoLegalCastle(ksq, to) {
				buf = append(buf, NewMove(ksq, to, Castling))
			}
		}
	}
	return buf
}
