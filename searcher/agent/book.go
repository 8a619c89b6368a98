package agent

import (
	"github.com/samber/lo"
	"lukechampine.com/frand"

	"hive/game"
)

// openingAction picks uniformly among beetle, grasshopper and spider placements while either side has
// nothing on the board.
func openingAction(state *game.State) (game.Action, bool) {
	if state.PieceCount(game.P1) > 0 && state.PieceCount(game.P2) > 0 {
		return game.Action{}, false
	}
	book := lo.Filter(state.Actions(), func(a game.Action, _ int) bool {
		return a.IsPlace() && (a.Piece == game.Beetle || a.Piece == game.Grasshopper || a.Piece == game.Spider)
	})
	if len(book) == 0 {
		return game.Action{}, false
	}
	return book[frand.Intn(len(book))], true
}
