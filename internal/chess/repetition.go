package chess

// IsRepetition reports whether the current position has already occurred
// earlier in the game: twice before the search root, or once since it
// (since a single prior occurrence since the root already forces a draw
// by repetition the root side must avoid or accept).
func (pos *Position) IsRepetition(ply int) bool {
	st := pos.curr()
	distance := st.PliesFromNull
	if st.FMR < distance {
		distance = st.FMR
	}

	idx := len(pos.states) - 1
	rep := 0
	for i := idx - 4; i >= 0 && i >= idx-distance; i -= 2 {
		if pos.states[i].Hash == st.Hash {
			if i > idx-ply {
				return true
			}
			rep++
			if rep == 2 {
				return true
			}
		}
	}
	return false
}

// IsDraw reports a fifty-move or repetition draw. It does not detect
// stalemate or insufficient material, which callers handle separately.
func (pos *Position) IsDraw(ply int) bool {
	return pos.curr().FMR > 99 || pos.IsRepetition(ply)
}

// UpcomingRepetition reports whether some reversible move available in the
// current position would recreate a position already seen earlier in the
// game, using the cuckoo table of reversible moves to avoid walking the
// full history. ply is the distance from the search root; positions beyond
// the root only count if they were already a repetition in the game proper.
func (pos *Position) UpcomingRepetition(ply int) bool {
	st := pos.curr()
	distance := st.PliesFromNull
	if st.FMR < distance {
		distance = st.FMR
	}
	if distance < 3 {
		return false
	}

	originalKey := st.Hash
	idx := len(pos.states) - 1

	for i := 3; i <= distance; i += 2 {
		histIdx := idx - i
		if histIdx < 0 {
			break
		}
		ancestor := &pos.states[histIdx]
		moveKey := originalKey ^ ancestor.Hash

		mv, ok := cuckooLookup(moveKey)
		if !ok {
			continue
		}

		s1, s2 := mv.From(), mv.To()
		// Between is strictly exclusive of both endpoints; the move's
		// destination must also be empty for the reversible move to be
		// playable right now.
		if (Between(s1, s2)|s2.Bitboard())&pos.Occupancy() != 0 {
			continue
		}

		pc := pos.PieceAt(s1)
		if pc == NoPiece {
			pc = pos.PieceAt(s2)
		}
		if pc.Color() != pos.SideToMove {
			continue
		}

		if ply > i {
			return true
		}

		// Beyond the search root a cuckoo hit only proves the move is
		// reversible, not that the resulting position is itself a
		// repetition; confirm the ancestor position recurred earlier in
		// the actual game before trusting it.
		for j := histIdx - 2; j >= 0; j -= 2 {
			if pos.states[j].Hash == ancestor.Hash {
				return true
			}
		}
	}
	return false
}
