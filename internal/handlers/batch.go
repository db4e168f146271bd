package handlers

import (
	"fmt"
	"iter"
	"strings"

	"github.com/vancomm/minesweeper-api/internal/mines"
)

// byPiece yields the pieces of s around each sep together with their index.
func byPiece(s string, sep string) iter.Seq2[int, string] {
	return func(yield func(int, string) bool) {
		i := 0
		found := true
		var piece string
		for found {
			piece, s, found = strings.Cut(s, sep)
			if !yield(i, piece) {
				return
			}
			i += 1
		}
	}
}

// runBatch executes newline-separated "<command> <x> <y>" lines in order and
// stops at the first line that ends the game. Blank lines are skipped.
func runBatch(game *mines.Game, message string) error {
	for i, line := range byPiece(message, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if err := game.ExecuteLine(line); err != nil {
			return fmt.Errorf("line %d: %w", i+1, err)
		}
		if game.Ended() {
			break
		}
	}
	return nil
}
