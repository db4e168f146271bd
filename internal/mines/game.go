package mines

import (
	"bytes"
	"encoding/gob"
	"encoding/json"
	"fmt"
	"log/slog"
)

var Log *slog.Logger = slog.Default()

type Result uint8

const (
	ResultNone Result = iota
	ResultSuccess
	ResultFailure
)

func (r Result) String() string {
	switch r {
	case ResultSuccess:
		return "success"
	case ResultFailure:
		return "failure"
	default:
		return ""
	}
}

// [Result] implements [json.Marshaler]; an undecided game is rendered as null.
func (r Result) MarshalJSON() ([]byte, error) {
	if r == ResultNone {
		return []byte("null"), nil
	}
	return json.Marshal(r.String())
}

func (r *Result) UnmarshalJSON(b []byte) error {
	var s *string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	switch {
	case s == nil || *s == "":
		*r = ResultNone
	case *s == ResultSuccess.String():
		*r = ResultSuccess
	case *s == ResultFailure.String():
		*r = ResultFailure
	default:
		return fmt.Errorf("unknown result %q", *s)
	}
	return nil
}

// Game is not safe for concurrent use; callers serialize access to a game.
type Game struct {
	params         GameParams
	grid           Grid
	ended          bool
	result         Result
	minesFlagged   int
	uncoveredCells int
}

func (g *Game) Params() GameParams  { return g.params }
func (g *Game) Height() int         { return g.params.Height }
func (g *Game) Width() int          { return g.params.Width }
func (g *Game) Mines() int          { return g.params.Mines }
func (g *Game) Ended() bool         { return g.ended }
func (g *Game) Result() Result      { return g.result }
func (g *Game) MinesFlagged() int   { return g.minesFlagged }
func (g *Game) UncoveredCells() int { return g.uncoveredCells }

// Cells returns a copy of the grid.
func (g *Game) Cells() Grid {
	return g.grid.clone()
}

func (g *Game) Cell(x, y int) (Cell, error) {
	if !g.params.PointInBounds(x, y) {
		return Cell{}, coordinateError(x, y)
	}
	return g.grid[y][x], nil
}

func (g *Game) String() string {
	return g.grid.String()
}

// mutable returns the cell at x:y if the game still accepts moves.
func (g *Game) mutable(x, y int) (*Cell, error) {
	if g.ended {
		return nil, ErrGameEnded
	}
	if !g.params.PointInBounds(x, y) {
		return nil, coordinateError(x, y)
	}
	return &g.grid[y][x], nil
}

func (g *Game) Uncover(x, y int) error {
	cell, err := g.mutable(x, y)
	if err != nil {
		return err
	}
	if cell.Flagged() || !cell.Covered {
		return nil
	}

	cell.Covered = false
	if cell.Mine {
		/* Terminal: no cascade and no win check. */
		g.end(ResultFailure)
		return nil
	}

	g.uncoveredCells++
	if cell.AdjacentMines == 0 {
		g.floodFill(x, y)
	}
	g.checkWin()
	return nil
}

// floodFill opens the zero-count plateau around x:y. Flagged cells are left
// covered and the fill does not pass through them.
func (g *Game) floodFill(x, y int) {
	todo := []Point{{x, y}}
	for len(todo) > 0 {
		p := todo[len(todo)-1]
		todo = todo[:len(todo)-1]
		for n := range g.params.neighbors(p.X, p.Y) {
			cell := &g.grid[n.Y][n.X]
			if cell.Mine || !cell.Covered || cell.Flagged() {
				continue
			}
			cell.Covered = false
			g.uncoveredCells++
			if cell.AdjacentMines == 0 {
				todo = append(todo, n)
			}
		}
	}
}

func (g *Game) RedFlag(x, y int) error {
	cell, err := g.mutable(x, y)
	if err != nil {
		return err
	}
	if !cell.Covered || cell.Flag == FlagRed {
		return nil
	}
	cell.Flag = FlagRed
	if cell.Mine {
		g.minesFlagged++
		g.checkWin()
	}
	return nil
}

func (g *Game) QuestionFlag(x, y int) error {
	cell, err := g.mutable(x, y)
	if err != nil {
		return err
	}
	if cell.Covered {
		g.replaceFlag(cell, FlagQuestion)
	}
	return nil
}

func (g *Game) DeleteFlag(x, y int) error {
	cell, err := g.mutable(x, y)
	if err != nil {
		return err
	}
	if cell.Covered {
		g.replaceFlag(cell, FlagNone)
	}
	return nil
}

func (g *Game) replaceFlag(cell *Cell, flag Flag) {
	if cell.Flag == FlagRed && cell.Mine {
		g.minesFlagged--
	}
	cell.Flag = flag
}

func (g *Game) checkWin() {
	if g.minesFlagged == g.params.Mines &&
		g.uncoveredCells == g.params.Cells()-g.params.Mines {
		g.end(ResultSuccess)
	}
}

func (g *Game) end(result Result) {
	g.ended = true
	g.result = result
	Log.Debug("game ended", "seed", g.params.Seed(), "result", result.String())
}

type gameState struct {
	Params         GameParams
	Grid           Grid
	Ended          bool
	Result         Result
	MinesFlagged   int
	UncoveredCells int
}

// [Game] implements [gob.GobEncoder]
func (g *Game) GobEncode() ([]byte, error) {
	var buf bytes.Buffer
	err := gob.NewEncoder(&buf).Encode(gameState{
		Params:         g.params,
		Grid:           g.grid,
		Ended:          g.ended,
		Result:         g.result,
		MinesFlagged:   g.minesFlagged,
		UncoveredCells: g.uncoveredCells,
	})
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// [Game] implements [gob.GobDecoder]
func (g *Game) GobDecode(b []byte) error {
	var s gameState
	if err := gob.NewDecoder(bytes.NewReader(b)).Decode(&s); err != nil {
		return err
	}
	if len(s.Grid) != s.Params.Height {
		return AssertionError{"grid height does not match game params"}
	}
	for _, row := range s.Grid {
		if len(row) != s.Params.Width {
			return AssertionError{"grid width does not match game params"}
		}
	}
	*g = Game{
		params:         s.Params,
		grid:           s.Grid,
		ended:          s.Ended,
		result:         s.Result,
		minesFlagged:   s.MinesFlagged,
		uncoveredCells: s.UncoveredCells,
	}
	return nil
}

func DecodeGame(buf []byte) (*Game, error) {
	var game Game
	err := gob.NewDecoder(bytes.NewBuffer(buf)).Decode(&game)
	if err != nil {
		return nil, err
	}
	return &game, nil
}

func (g *Game) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	err := gob.NewEncoder(&buf).Encode(g)
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
