package mines

import (
	"fmt"
	"math/rand/v2"
)

// Generate creates a covered game with mines placed uniformly at random.
func Generate(height, width, mines int, r *rand.Rand) (*Game, error) {
	params := GameParams{Height: height, Width: width, Mines: mines}
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return params.newGame(params.minePositions(r)), nil
}

// Layout creates a covered game with mines at the given linear positions
// (y*width + x).
func Layout(height, width int, positions []int) (*Game, error) {
	params := GameParams{Height: height, Width: width, Mines: len(positions)}
	if err := params.Validate(); err != nil {
		return nil, err
	}
	seen := make(map[int]bool, len(positions))
	for _, pos := range positions {
		if pos < 0 || pos >= params.Cells() {
			return nil, fmt.Errorf("%w: position %d is out of range", ErrInvalidLayout, pos)
		}
		if seen[pos] {
			return nil, fmt.Errorf("%w: position %d is repeated", ErrInvalidLayout, pos)
		}
		seen[pos] = true
	}
	return params.newGame(positions), nil
}

func (p GameParams) minePositions(r *rand.Rand) []int {
	/*
	 * Write down the list of possible mine locations, then pick n off
	 * the list at random, swapping each pick out of the live range.
	 */
	candidates := make([]int, p.Cells())
	for i := range candidates {
		candidates[i] = i
	}
	positions := make([]int, 0, p.Mines)
	k := len(candidates)
	for range p.Mines {
		i := r.IntN(k)
		positions = append(positions, candidates[i])
		k--
		candidates[i] = candidates[k]
	}
	return positions
}

func (p GameParams) newGame(positions []int) *Game {
	grid := newGrid(p.Height, p.Width)
	for _, pos := range positions {
		grid[pos/p.Width][pos%p.Width].Mine = true
	}
	for _, pos := range positions {
		for n := range p.neighbors(pos%p.Width, pos/p.Width) {
			if cell := &grid[n.Y][n.X]; !cell.Mine {
				cell.AdjacentMines++
			}
		}
	}
	return &Game{params: p, grid: grid}
}
