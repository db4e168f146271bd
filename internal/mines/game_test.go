package mines

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRand() *rand.Rand {
	return rand.New(rand.NewPCG(1, 2))
}

func countMines(g Grid) (n int) {
	for _, row := range g {
		for _, cell := range row {
			if cell.Mine {
				n++
			}
		}
	}
	return
}

// checkCounters recomputes both aggregate counters from the grid.
func checkCounters(t *testing.T, g *Game) {
	t.Helper()
	var uncovered, flagged int
	for _, row := range g.Cells() {
		for _, cell := range row {
			if !cell.Mine && !cell.Covered {
				uncovered++
			}
			if cell.Mine && cell.Flag == FlagRed {
				flagged++
			}
		}
	}
	assert.Equal(t, uncovered, g.UncoveredCells(), "uncovered_cells")
	assert.Equal(t, flagged, g.MinesFlagged(), "mines_flagged")
}

func TestGenerate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		params GameParams
	}{
		{"1x2(1)", GameParams{Height: 1, Width: 2, Mines: 1}},
		{"5x7(8)", GameParams{Height: 5, Width: 7, Mines: 8}},
		{"6x5(9)", GameParams{Height: 6, Width: 5, Mines: 9}},
		{"9x9(10)", GameParams{Height: 9, Width: 9, Mines: 10}},
		{"16x30(99)", GameParams{Height: 16, Width: 30, Mines: 99}},
		{"10x10(99)", GameParams{Height: 10, Width: 10, Mines: 99}},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()
			h, w, m := test.params.Unpack()
			game, err := Generate(h, w, m, newRand())
			require.NoError(t, err)

			assert.Equal(t, h, game.Height())
			assert.Equal(t, w, game.Width())
			assert.Equal(t, m, game.Mines())
			assert.False(t, game.Ended())
			assert.Equal(t, ResultNone, game.Result())
			assert.Zero(t, game.MinesFlagged())
			assert.Zero(t, game.UncoveredCells())

			cells := game.Cells()
			require.Len(t, cells, h)
			total := 0
			for _, row := range cells {
				require.Len(t, row, w)
				for _, cell := range row {
					total++
					assert.True(t, cell.Covered)
					assert.Equal(t, FlagNone, cell.Flag)
				}
			}
			assert.Equal(t, h*w, total)
			assert.Equal(t, m, countMines(cells))
		})
	}
}

func TestGenerateAdjacency(t *testing.T) {
	t.Parallel()

	game, err := Generate(16, 30, 99, newRand())
	require.NoError(t, err)

	params := game.Params()
	cells := game.Cells()
	for y, row := range cells {
		for x, cell := range row {
			if cell.Mine {
				assert.Zero(t, cell.AdjacentMines, "mine at %d:%d", x, y)
				continue
			}
			want := 0
			for n := range params.neighbors(x, y) {
				if cells[n.Y][n.X].Mine {
					want++
				}
			}
			assert.Equal(t, want, cell.AdjacentMines, "cell at %d:%d", x, y)
		}
	}
}

func TestGenerateIsDeterministicForSeed(t *testing.T) {
	t.Parallel()

	a, err := Generate(9, 9, 10, rand.New(rand.NewPCG(7, 7)))
	require.NoError(t, err)
	b, err := Generate(9, 9, 10, rand.New(rand.NewPCG(7, 7)))
	require.NoError(t, err)

	assert.Equal(t, a.Cells(), b.Cells())
}

func TestGenerateInvalidParams(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name                 string
		height, width, mines int
		err                  error
	}{
		{"zero height", 0, 5, 1, ErrInvalidParameter},
		{"zero width", 10, 0, 1, ErrInvalidParameter},
		{"zero mines", 10, 5, 0, ErrInvalidParameter},
		{"negative height", -1, 5, 1, ErrInvalidParameter},
		{"negative mines", 3, 3, -2, ErrInvalidParameter},
		{"full board", 2, 2, 4, ErrTooManyMines},
		{"overfull board", 2, 2, 5, ErrTooManyMines},
		{"huge board", 100000, 100000, 1, ErrBoardTooLarge},
		{"one cell over", MaxCells + 1, 1, 1, ErrBoardTooLarge},
		{"overflowing cell count", 1<<62 + 1, 4, 1, ErrBoardTooLarge},
		{"overflowing max int", math.MaxInt, math.MaxInt, 1, ErrBoardTooLarge},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()
			game, err := Generate(test.height, test.width, test.mines, newRand())
			assert.ErrorIs(t, err, ErrInvalidParameter)
			assert.ErrorIs(t, err, test.err)
			assert.Nil(t, game)
		})
	}
}

func TestInvalidParamsMessages(t *testing.T) {
	t.Parallel()

	_, err := Generate(2, 2, 4, newRand())
	assert.EqualError(t, err, "number of mines must be less than the number of cells: 4 mines do not fit a 2x2 grid")

	_, err = Generate(1<<62+1, 4, 1, newRand())
	assert.EqualError(t, err, "board must not have more than 1048576 cells: 4611686018427387905x4")

	_, err = Layout(2, 2, []int{1, 1})
	assert.EqualError(t, err, "mine positions must be distinct cells of the board: position 1 is repeated")
}

func TestGenerateLargestBoard(t *testing.T) {
	t.Parallel()

	game, err := Generate(MaxCells/1024, 1024, 1, newRand())
	require.NoError(t, err)
	assert.Equal(t, MaxCells, game.Params().Cells())
}

func TestLayoutAdjacency(t *testing.T) {
	t.Parallel()

	// mines at y=1,x=2 and y=1,x=3
	game, err := Layout(4, 4, []int{6, 7})
	require.NoError(t, err)

	want := [][]int{
		{0, 1, 2, 2},
		{0, 1, 0, 0},
		{0, 1, 2, 2},
		{0, 0, 0, 0},
	}
	cells := game.Cells()
	for y := range want {
		for x := range want[y] {
			assert.Equal(t, want[y][x], cells[y][x].AdjacentMines, "cell at %d:%d", x, y)
		}
	}
	assert.True(t, cells[1][2].Mine)
	assert.True(t, cells[1][3].Mine)
	assert.Equal(t, 2, countMines(cells))
}

func TestLayoutInvalid(t *testing.T) {
	t.Parallel()

	_, err := Layout(2, 2, []int{1, 1})
	assert.ErrorIs(t, err, ErrInvalidParameter)

	_, err = Layout(2, 2, []int{4})
	assert.ErrorIs(t, err, ErrInvalidParameter)

	_, err = Layout(2, 2, nil)
	assert.ErrorIs(t, err, ErrInvalidParameter)

	_, err = Layout(1<<62+1, 4, []int{0})
	assert.ErrorIs(t, err, ErrBoardTooLarge)
}

func TestUncoverCascade(t *testing.T) {
	t.Parallel()

	// 4 rows, 3 columns, mine at y=2,x=1
	game, err := Layout(4, 3, []int{7})
	require.NoError(t, err)

	require.NoError(t, game.Uncover(0, 0))

	cells := game.Cells()
	for y := range 4 {
		for x := range 3 {
			if y < 2 {
				assert.False(t, cells[y][x].Covered, "cell at %d:%d", x, y)
			} else {
				assert.True(t, cells[y][x].Covered, "cell at %d:%d", x, y)
			}
		}
	}
	assert.Equal(t, 6, game.UncoveredCells())
	assert.False(t, game.Ended())
	checkCounters(t, game)
}

func TestUncoverNonZeroDoesNotCascade(t *testing.T) {
	t.Parallel()

	game, err := Layout(4, 3, []int{7})
	require.NoError(t, err)

	require.NoError(t, game.Uncover(0, 1))

	assert.Equal(t, 1, game.UncoveredCells())
	cell, err := game.Cell(0, 0)
	require.NoError(t, err)
	assert.True(t, cell.Covered)
}

func TestUncoverIsIdempotent(t *testing.T) {
	t.Parallel()

	game, err := Layout(4, 3, []int{7})
	require.NoError(t, err)

	require.NoError(t, game.Uncover(0, 0))
	before := game.Cells()
	uncovered := game.UncoveredCells()

	require.NoError(t, game.Uncover(0, 0))
	require.NoError(t, game.Uncover(1, 1))

	assert.Equal(t, uncovered, game.UncoveredCells())
	assert.Equal(t, before, game.Cells())
}

func TestFlagsBlockFloodFill(t *testing.T) {
	t.Parallel()

	t.Run("flagged cells stay covered", func(t *testing.T) {
		t.Parallel()
		// 5x5, single mine in the bottom right corner
		game, err := Layout(5, 5, []int{24})
		require.NoError(t, err)

		require.NoError(t, game.QuestionFlag(2, 2))
		require.NoError(t, game.RedFlag(0, 4))
		require.NoError(t, game.Uncover(0, 0))

		q, _ := game.Cell(2, 2)
		r, _ := game.Cell(0, 4)
		assert.True(t, q.Covered)
		assert.Equal(t, FlagQuestion, q.Flag)
		assert.True(t, r.Covered)
		assert.Equal(t, FlagRed, r.Flag)
		assert.Equal(t, 22, game.UncoveredCells())
		checkCounters(t, game)
	})

	t.Run("fill does not pass through flags", func(t *testing.T) {
		t.Parallel()
		// single row, mine at x=4
		game, err := Layout(1, 5, []int{4})
		require.NoError(t, err)

		require.NoError(t, game.RedFlag(1, 0))
		require.NoError(t, game.Uncover(0, 0))

		cells := game.Cells()
		assert.False(t, cells[0][0].Covered)
		assert.True(t, cells[0][1].Covered)
		assert.True(t, cells[0][2].Covered)
		assert.True(t, cells[0][3].Covered)
		assert.Equal(t, 1, game.UncoveredCells())
	})

	t.Run("direct uncover of a flagged cell is a no-op", func(t *testing.T) {
		t.Parallel()
		game, err := Layout(1, 5, []int{4})
		require.NoError(t, err)

		require.NoError(t, game.QuestionFlag(2, 0))
		require.NoError(t, game.Uncover(2, 0))

		cell, _ := game.Cell(2, 0)
		assert.True(t, cell.Covered)
		assert.Zero(t, game.UncoveredCells())
	})
}

func TestUncoverMineIsTerminal(t *testing.T) {
	t.Parallel()

	game, err := Layout(1, 5, []int{2})
	require.NoError(t, err)

	require.NoError(t, game.Uncover(4, 0))
	require.NoError(t, game.RedFlag(1, 0))
	require.NoError(t, game.Uncover(2, 0))

	assert.True(t, game.Ended())
	assert.Equal(t, ResultFailure, game.Result())
	assert.Equal(t, 2, game.UncoveredCells())
	assert.Zero(t, game.MinesFlagged())

	cell, _ := game.Cell(2, 0)
	assert.False(t, cell.Covered)

	before := game.Cells()
	for _, cmd := range []Command{Uncover, RedFlag, QuestionMark, DeleteFlag} {
		assert.ErrorIs(t, game.Execute(cmd, 0, 0), ErrGameEnded, cmd.String())
	}
	assert.Equal(t, before, game.Cells())
	assert.Equal(t, ResultFailure, game.Result())
}

func TestWinIsOrderIndependent(t *testing.T) {
	t.Parallel()

	t.Run("flag first", func(t *testing.T) {
		t.Parallel()
		game, err := Layout(5, 5, []int{24})
		require.NoError(t, err)

		require.NoError(t, game.RedFlag(4, 4))
		assert.False(t, game.Ended())
		require.NoError(t, game.Uncover(0, 0))

		assert.True(t, game.Ended())
		assert.Equal(t, ResultSuccess, game.Result())
		assert.Equal(t, 24, game.UncoveredCells())
		assert.Equal(t, 1, game.MinesFlagged())
	})

	t.Run("uncover first", func(t *testing.T) {
		t.Parallel()
		game, err := Layout(5, 5, []int{24})
		require.NoError(t, err)

		require.NoError(t, game.Uncover(0, 0))
		assert.False(t, game.Ended())
		assert.Equal(t, 24, game.UncoveredCells())
		require.NoError(t, game.RedFlag(4, 4))

		assert.True(t, game.Ended())
		assert.Equal(t, ResultSuccess, game.Result())
	})

	t.Run("flag between reveals", func(t *testing.T) {
		t.Parallel()
		game, err := Layout(1, 3, []int{0})
		require.NoError(t, err)

		require.NoError(t, game.RedFlag(0, 0))
		require.NoError(t, game.Uncover(1, 0))
		assert.False(t, game.Ended())
		require.NoError(t, game.Uncover(2, 0))

		assert.True(t, game.Ended())
		assert.Equal(t, ResultSuccess, game.Result())
	})
}

func TestEndedGameRejectsUpdates(t *testing.T) {
	t.Parallel()

	game, err := Layout(1, 2, []int{0})
	require.NoError(t, err)

	require.NoError(t, game.RedFlag(0, 0))
	require.NoError(t, game.Uncover(1, 0))
	require.True(t, game.Ended())

	assert.ErrorIs(t, game.DeleteFlag(0, 0), ErrGameEnded)
	assert.Equal(t, 1, game.MinesFlagged())

	// the ended check wins over coordinate validation
	assert.ErrorIs(t, game.Uncover(10, 10), ErrGameEnded)

	_, err = game.Cell(0, 0)
	assert.NoError(t, err)
}

func TestFlagAccounting(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		moves []Command
		x     int
		want  int
	}{
		{"red flag mine", []Command{RedFlag}, 0, 1},
		{"red flag mine twice", []Command{RedFlag, RedFlag}, 0, 1},
		{"red then question on mine", []Command{RedFlag, QuestionMark}, 0, 0},
		{"red then delete on mine", []Command{RedFlag, DeleteFlag}, 0, 0},
		{"question then delete on mine", []Command{QuestionMark, DeleteFlag}, 0, 0},
		{"question then red on mine", []Command{QuestionMark, RedFlag}, 0, 1},
		{"delete unflagged mine", []Command{DeleteFlag}, 0, 0},
		{"red flag safe cell", []Command{RedFlag}, 2, 0},
		{"red then question on safe cell", []Command{RedFlag, QuestionMark}, 2, 0},
		{"red then delete on safe cell", []Command{RedFlag, DeleteFlag}, 2, 0},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()
			// mines at x=0 and x=1 so a single flag never wins
			game, err := Layout(1, 4, []int{0, 1})
			require.NoError(t, err)
			for _, move := range test.moves {
				require.NoError(t, game.Execute(move, test.x, 0))
			}
			assert.Equal(t, test.want, game.MinesFlagged())
			assert.False(t, game.Ended())
			checkCounters(t, game)
		})
	}
}

func TestQuestionFlagDecrementsExactlyOnce(t *testing.T) {
	t.Parallel()

	game, err := Layout(1, 4, []int{0, 1})
	require.NoError(t, err)

	require.NoError(t, game.RedFlag(0, 0))
	require.NoError(t, game.RedFlag(1, 0))
	require.Equal(t, 2, game.MinesFlagged())

	require.NoError(t, game.QuestionFlag(0, 0))
	assert.Equal(t, 1, game.MinesFlagged())
	require.NoError(t, game.QuestionFlag(0, 0))
	assert.Equal(t, 1, game.MinesFlagged())
}

func TestFlagOnUncoveredCellIsNoop(t *testing.T) {
	t.Parallel()

	game, err := Layout(1, 4, []int{0, 1})
	require.NoError(t, err)

	require.NoError(t, game.Uncover(3, 0))
	for _, cmd := range []Command{RedFlag, QuestionMark, DeleteFlag} {
		require.NoError(t, game.Execute(cmd, 3, 0))
		cell, _ := game.Cell(3, 0)
		assert.Equal(t, FlagNone, cell.Flag, cmd.String())
		assert.False(t, cell.Covered)
	}
}

func TestInvalidCellCoordinate(t *testing.T) {
	t.Parallel()

	game, err := Layout(4, 5, []int{0})
	require.NoError(t, err)

	points := []Point{{-1, 0}, {0, -1}, {5, 0}, {0, 4}, {100, 4}, {3, 400}}
	for _, p := range points {
		for _, cmd := range []Command{Uncover, RedFlag, QuestionMark, DeleteFlag} {
			err := game.Execute(cmd, p.X, p.Y)
			assert.ErrorIs(t, err, ErrInvalidCellCoordinate)
		}
		_, err := game.Cell(p.X, p.Y)
		assert.ErrorIs(t, err, ErrInvalidCellCoordinate)
	}

	err = game.RedFlag(100, 4)
	assert.EqualError(t, err, "the given cell coordinate does not exist (100, 4)")

	assert.Zero(t, game.UncoveredCells())
	assert.False(t, game.Ended())
}

func TestCountersStayConsistent(t *testing.T) {
	t.Parallel()

	commands := []Command{Uncover, RedFlag, RedFlag, QuestionMark, DeleteFlag}
	for seed := range uint64(20) {
		r := rand.New(rand.NewPCG(seed, seed+1))
		game, err := Generate(8, 8, 10, r)
		require.NoError(t, err)

		for range 200 {
			if game.Ended() {
				break
			}
			cmd := commands[r.IntN(len(commands))]
			x, y := r.IntN(8), r.IntN(8)
			require.NoError(t, game.Execute(cmd, x, y))
			checkCounters(t, game)

			if game.Ended() && game.Result() == ResultSuccess {
				assert.Equal(t, game.Mines(), game.MinesFlagged())
				assert.Equal(t, 64-game.Mines(), game.UncoveredCells())
			}
			if game.Ended() && game.Result() == ResultFailure {
				cell, _ := game.Cell(x, y)
				assert.Equal(t, Uncover, cmd)
				assert.True(t, cell.Mine)
			}
		}
	}
}

func TestCellsReturnsCopy(t *testing.T) {
	t.Parallel()

	game, err := Layout(2, 2, []int{0})
	require.NoError(t, err)

	cells := game.Cells()
	cells[1][1].Covered = false
	cells[0][0].Flag = FlagRed

	cell, _ := game.Cell(1, 1)
	assert.True(t, cell.Covered)
	assert.Zero(t, game.MinesFlagged())
}
