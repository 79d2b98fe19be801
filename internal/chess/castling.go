package chess

// castlingRightsMaskBySquare maps a touched square (as a move's from or to)
// to the castling rights it invalidates: the corner rook squares invalidate
// their own side, and the king's home square invalidates both of its
// side's rights. All other squares invalidate nothing.
var castlingRightsMaskBySquare [NumSquares]CastlingRights

func init() {
	castlingRightsMaskBySquare[SquareA1] = CastleWhiteOOO
	castlingRightsMaskBySquare[SquareH1] = CastleWhiteOO
	castlingRightsMaskBySquare[SquareE1] = CastleWhiteOO | CastleWhiteOOO
	castlingRightsMaskBySquare[SquareA8] = CastleBlackOOO
	castlingRightsMaskBySquare[SquareH8] = CastleBlackOO
	castlingRightsMaskBySquare[SquareE8] = CastleBlackOO | CastleBlackOOO
}
