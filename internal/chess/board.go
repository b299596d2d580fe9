package chess

// BoardSize is the side length of the board.
const BoardSize = 8

// Piece codes are two letters: color ("w"/"b") plus kind ("P N B R Q K").
// An empty string is an empty square.
type Board [BoardSize][BoardSize]string

// Square addresses a board cell; row 0 is black's back rank.
type Square struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Colors.
const (
	White = "w"
	Black = "b"
)

// InitialBoard returns the standard starting position.
func InitialBoard() Board {
	var b Board
	b[0] = [BoardSize]string{"bR", "bN", "bB", "bQ", "bK", "bB", "bN", "bR"}
	b[7] = [BoardSize]string{"wR", "wN", "wB", "wQ", "wK", "wB", "wN", "wR"}
	for col := 0; col < BoardSize; col++ {
		b[1][col] = "bP"
		b[6][col] = "wP"
	}
	return b
}

// PieceColor returns "w", "b" or "" for an empty square.
func PieceColor(piece string) string {
	if piece == "" {
		return ""
	}
	return piece[:1]
}

// PieceKind returns the kind letter or "" for an empty square.
func PieceKind(piece string) string {
	if piece == "" {
		return ""
	}
	return piece[1:]
}

// InBounds reports whether the coordinates address a board cell.
func InBounds(row, col int) bool {
	return row >= 0 && row < BoardSize && col >= 0 && col < BoardSize
}

// pathClear checks that every square strictly between from and to is empty.
// Only meaningful for straight or diagonal lines.
func pathClear(b *Board, fr, fc, tr, tc int) bool {
	stepR, stepC := sign(tr-fr), sign(tc-fc)
	r, c := fr+stepR, fc+stepC
	for r != tr || c != tc {
		if b[r][c] != "" {
			return false
		}
		r += stepR
		c += stepC
	}
	return true
}

func sign(d int) int {
	switch {
	case d > 0:
		return 1
	case d < 0:
		return -1
	}
	return 0
}

func abs(d int) int {
	if d < 0 {
		return -d
	}
	return d
}

// LegalMove reports whether moving the piece at (fr,fc) to (tr,tc) is allowed
// for the given color under the simplified rule set: no check or pin
// awareness, no castling, no en-passant. The board is never modified.
func LegalMove(b *Board, fr, fc, tr, tc int, color string) bool {
	if !InBounds(fr, fc) || !InBounds(tr, tc) {
		return false
	}
	if fr == tr && fc == tc {
		return false
	}
	piece := b[fr][fc]
	if piece == "" || PieceColor(piece) != color {
		return false
	}
	target := b[tr][tc]
	if target != "" && PieceColor(target) == color {
		return false
	}
	dr, dc := tr-fr, tc-fc
	absDr, absDc := abs(dr), abs(dc)

	switch PieceKind(piece) {
	case "P":
		dir, startRow := -1, 6
		if color == Black {
			dir, startRow = 1, 1
		}
		if dc == 0 {
			if dr == dir && target == "" {
				return true
			}
			if fr == startRow && dr == 2*dir && target == "" {
				return b[fr+dir][fc] == ""
			}
			return false
		}
		return absDc == 1 && dr == dir && target != ""
	case "N":
		return (absDr == 1 && absDc == 2) || (absDr == 2 && absDc == 1)
	case "B":
		return absDr == absDc && pathClear(b, fr, fc, tr, tc)
	case "R":
		return (dr == 0 || dc == 0) && pathClear(b, fr, fc, tr, tc)
	case "Q":
		if absDr == absDc || dr == 0 || dc == 0 {
			return pathClear(b, fr, fc, tr, tc)
		}
		return false
	case "K":
		return max(absDr, absDc) == 1
	}
	return false
}

// LegalMoves enumerates every destination LegalMove allows from (row,col).
// Pure: identical inputs yield identical move lists and the board is left
// untouched. Used for client-side highlighting and by the move validator.
func LegalMoves(b *Board, row, col int, color string) []Square {
	var moves []Square
	for tr := 0; tr < BoardSize; tr++ {
		for tc := 0; tc < BoardSize; tc++ {
			if LegalMove(b, row, col, tr, tc, color) {
				moves = append(moves, Square{Row: tr, Col: tc})
			}
		}
	}
	return moves
}
