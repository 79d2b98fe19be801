package chess

// castlingRookSquares returns the rook's origin and destination for a
// Castling move encoded as king-from -> king-to (e1g1, e1c1, ...).
func castlingRookSquares(from, to Square) (rookFrom, rookTo Square) {
	rank := from.Rank()
	if to.File() == 6 {
		return RankFile(rank, 7), RankFile(rank, 5)
	}
	return RankFile(rank, 0), RankFile(rank, 3)
}

// CastlingRookSquares exposes castlingRookSquares for callers outside the
// package that need to mirror a castling move's rook displacement, such as
// the NNUE incremental-accumulator driver.
func CastlingRookSquares(from, to Square) (rookFrom, rookTo Square) {
	return castlingRookSquares(from, to)
}

// MakeMove applies m to the position, pushing a new StateInfo. m must be
// legal (callers generate moves via GenerateMoves or validate with
// IsPseudoLegal+IsLegal first).
func (pos *Position) MakeMove(m Move) {
	us := pos.SideToMove
	them := us.Opposite()
	prev := pos.curr()

	st := StateInfo{
		Hash:          prev.Hash,
		PawnHash:      prev.PawnHash,
		NonPawnHash:   prev.NonPawnHash,
		Castling:      prev.Castling,
		FMR:           prev.FMR + 1,
		PliesFromNull: prev.PliesFromNull + 1,
		EPSquare:      SquareNone,
		Captured:      NoPieceType,
		move:          m,
	}
	if prev.EPSquare != SquareNone {
		st.Hash ^= zobristEP[prev.EPSquare.File()]
	}

	from, to, mt := m.From(), m.To(), m.Type()
	moving := pos.PieceAt(from)
	movingType := moving.Type()

	if mt == Castling {
		rookFrom, rookTo := castlingRookSquares(from, to)
		rook := MakePiece(us, Rook)
		pos.remove(rookFrom, rook)
		pos.xorPieceHash(&st, rook, rookFrom)
		pos.put(rookTo, rook)
		pos.xorPieceHash(&st, rook, rookTo)
	}

	if mt.IsCapture() {
		capSq := to
		if mt == EnPassant {
			capSq = Square(int(to) ^ 8)
		}
		captured := pos.PieceAt(capSq)
		st.Captured = captured.Type()
		pos.remove(capSq, captured)
		pos.xorPieceHash(&st, captured, capSq)
		st.FMR = 0
	}

	pos.remove(from, moving)
	pos.xorPieceHash(&st, moving, from)

	placed := moving
	if mt.IsPromotion() {
		placed = MakePiece(us, mt.PromotionType())
	}
	pos.put(to, placed)
	pos.xorPieceHash(&st, placed, to)

	if movingType == Pawn {
		st.FMR = 0
	}

	if movingType == Pawn {
		diff := int(to) - int(from)
		if diff == 16 || diff == -16 {
			epSq := Square((int(from) + int(to)) / 2)
			if PawnAttacks(us, epSq)&pos.ByPiece(them, Pawn) != 0 {
				st.EPSquare = epSq
				st.Hash ^= zobristEP[epSq.File()]
			}
		}
	}

	if st.Castling != CastleNone {
		touched := castlingRightsMaskBySquare[from] | castlingRightsMaskBySquare[to]
		newCastling := st.Castling &^ touched
		if newCastling != st.Castling {
			st.Hash ^= zobristCastle[st.Castling.Index()]
			st.Castling = newCastling
			st.Hash ^= zobristCastle[st.Castling.Index()]
		}
	}

	st.Hash ^= zobristSide
	pos.SideToMove = them
	if us == Black {
		pos.FullMoveNumber++
	}

	pos.states = append(pos.states, st)
	pos.recomputeThreatState(&pos.states[len(pos.states)-1])
}

// UndoMove reverses the most recent MakeMove.
func (pos *Position) UndoMove() {
	st := pos.curr()
	m := st.move
	them := pos.SideToMove
	us := them.Opposite()

	from, to, mt := m.From(), m.To(), m.Type()
	placed := pos.PieceAt(to)

	moving := placed
	if mt.IsPromotion() {
		moving = MakePiece(us, Pawn)
	}

	pos.remove(to, placed)
	pos.put(from, moving)

	if mt.IsCapture() {
		capSq := to
		if mt == EnPassant {
			capSq = Square(int(to) ^ 8)
		}
		pos.put(capSq, MakePiece(them, st.Captured))
	}

	if mt == Castling {
		rookFrom, rookTo := castlingRookSquares(from, to)
		rook := MakePiece(us, Rook)
		pos.remove(rookTo, rook)
		pos.put(rookFrom, rook)
	}

	pos.SideToMove = us
	if us == Black {
		pos.FullMoveNumber--
	}
	pos.states = pos.states[:len(pos.states)-1]
}

// MakeNull plays a null move: the side to move passes, resetting the
// plies-from-null counter used by null-move search and repetition
// detection.
func (pos *Position) MakeNull() {
	prev := pos.curr()
	st := StateInfo{
		Hash:          prev.Hash,
		PawnHash:      prev.PawnHash,
		NonPawnHash:   prev.NonPawnHash,
		Castling:      prev.Castling,
		FMR:           prev.FMR + 1,
		PliesFromNull: 0,
		EPSquare:      SquareNone,
		Captured:      NoPieceType,
		move:          NullMove,
	}
	if prev.EPSquare != SquareNone {
		st.Hash ^= zobristEP[prev.EPSquare.File()]
	}
	st.Hash ^= zobristSide
	pos.SideToMove = pos.SideToMove.Opposite()
	pos.states = append(pos.states, st)
	pos.recomputeThreatState(&pos.states[len(pos.states)-1])
}

// UndoNull reverses the most recent MakeNull.
func (pos *Position) UndoNull() {
	pos.SideToMove = pos.SideToMove.Opposite()
	pos.states = pos.states[:len(pos.states)-1]
}

// KeyAfter returns an approximation of the Zobrist key the position would
// have after playing m, without actually making the move. Used to prefetch
// the transposition-table bucket one ply ahead of MakeMove.
func (pos *Position) KeyAfter(m Move) uint64 {
	st := pos.curr()
	k := st.Hash ^ zobristSide
	from, to, mt := m.From(), m.To(), m.Type()
	moving := pos.PieceAt(from)
	if mt.IsCapture() {
		capSq := to
		if mt == EnPassant {
			capSq = Square(int(to) ^ 8)
		}
		captured := pos.PieceAt(capSq)
		k ^= zobristPiece[captured][capSq]
	}
	return k ^ zobristPiece[moving][from] ^ zobristPiece[moving][to]
}
