package mines

import (
	"fmt"
	"math"
	"strings"
)

// MaxCells bounds height*width so that boards fit in memory and every
// dimension fits a 32-bit database column.
const MaxCells = 1 << 20

type GameParams struct {
	Height, Width, Mines int
}

func (p GameParams) Unpack() (h int, w int, m int) {
	return p.Height, p.Width, p.Mines
}

func (p GameParams) Cells() int {
	return p.Height * p.Width
}

// Validate reports [ErrInvalidParameter] unless all dimensions are positive,
// the board has at most [MaxCells] cells and at least one cell is left free
// of mines.
func (p GameParams) Validate() error {
	if p.Height <= 0 || p.Width <= 0 || p.Mines <= 0 {
		return ErrInvalidParameter
	}
	if p.Width > math.MaxInt/p.Height || p.Cells() > MaxCells {
		return fmt.Errorf("%w: %dx%d", ErrBoardTooLarge, p.Height, p.Width)
	}
	if p.Mines >= p.Cells() {
		return fmt.Errorf(
			"%w: %d mines do not fit a %dx%d grid",
			ErrTooManyMines, p.Mines, p.Height, p.Width,
		)
	}
	return nil
}

func (p GameParams) Seed() string {
	return fmt.Sprintf("%d:%d:%d", p.Height, p.Width, p.Mines)
}

func ParseSeed(seed string) (*GameParams, error) {
	p := &GameParams{}
	sseed := strings.ReplaceAll(seed, ":", " ")
	n, err := fmt.Sscanf(sseed, "%d %d %d", &p.Height, &p.Width, &p.Mines)
	if n != 3 || err != nil {
		return nil, fmt.Errorf(
			`invalid game params seed (sseed = "%s", n = %d, err = %w)`,
			sseed, n, err,
		)
	}
	return p, nil
}

func (p GameParams) PointInBounds(x, y int) bool {
	return 0 <= x && x < p.Width && 0 <= y && y < p.Height
}
