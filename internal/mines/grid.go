package mines

import (
	"bytes"
	"encoding/json"
	"fmt"
	"iter"
	"strconv"
	"strings"
)

type Flag uint8

const (
	FlagNone Flag = iota
	FlagRed
	FlagQuestion
)

func (f Flag) String() string {
	switch f {
	case FlagRed:
		return "red_flag"
	case FlagQuestion:
		return "question_mark_flag"
	default:
		return ""
	}
}

// [Flag] implements [json.Marshaler]; no flag is rendered as null.
func (f Flag) MarshalJSON() ([]byte, error) {
	if f == FlagNone {
		return []byte("null"), nil
	}
	return json.Marshal(f.String())
}

func (f *Flag) UnmarshalJSON(b []byte) error {
	var s *string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	switch {
	case s == nil || *s == "":
		*f = FlagNone
	case *s == FlagRed.String():
		*f = FlagRed
	case *s == FlagQuestion.String():
		*f = FlagQuestion
	default:
		return fmt.Errorf("unknown flag %q", *s)
	}
	return nil
}

type Cell struct {
	Mine          bool `json:"mine"`
	Covered       bool `json:"covered"`
	AdjacentMines int  `json:"adjacent_mine_count"`
	Flag          Flag `json:"flag"`
}

func (c Cell) Flagged() bool {
	return c.Flag != FlagNone
}

func (c Cell) String() string {
	switch {
	case c.Covered && c.Flag == FlagRed:
		return "*"
	case c.Covered && c.Flag == FlagQuestion:
		return "?"
	case c.Covered:
		return "#"
	case c.Mine:
		return "X"
	default:
		return strconv.Itoa(c.AdjacentMines)
	}
}

type Point struct {
	X, Y int
}

// Grid holds cells row-major: g[y][x].
type Grid [][]Cell

func newGrid(height, width int) Grid {
	g := make(Grid, height)
	for y := range g {
		g[y] = make([]Cell, width)
		for x := range g[y] {
			g[y][x] = Cell{Covered: true}
		}
	}
	return g
}

func (g Grid) clone() Grid {
	c := make(Grid, len(g))
	for y := range g {
		c[y] = make([]Cell, len(g[y]))
		copy(c[y], g[y])
	}
	return c
}

// [Grid] implements [json.Marshaler]. Cells are keyed by y, then by x, with
// keys in numeric order.
func (g Grid) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for y, row := range g {
		if y > 0 {
			buf.WriteByte(',')
		}
		buf.WriteString(strconv.Quote(strconv.Itoa(y)))
		buf.WriteString(":{")
		for x, cell := range row {
			if x > 0 {
				buf.WriteByte(',')
			}
			b, err := json.Marshal(cell)
			if err != nil {
				return nil, err
			}
			buf.WriteString(strconv.Quote(strconv.Itoa(x)))
			buf.WriteByte(':')
			buf.Write(b)
		}
		buf.WriteByte('}')
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (g *Grid) UnmarshalJSON(b []byte) error {
	var rows map[int]map[int]Cell
	if err := json.Unmarshal(b, &rows); err != nil {
		return err
	}
	grid := make(Grid, len(rows))
	for y := range grid {
		cols, ok := rows[y]
		if !ok {
			return fmt.Errorf("grid is missing row %d", y)
		}
		grid[y] = make([]Cell, len(cols))
		for x := range grid[y] {
			cell, ok := cols[x]
			if !ok {
				return fmt.Errorf("grid is missing cell %d:%d", x, y)
			}
			grid[y][x] = cell
		}
	}
	*g = grid
	return nil
}

func (g Grid) String() string {
	var b strings.Builder
	for _, row := range g {
		for x, cell := range row {
			if x > 0 {
				fmt.Fprint(&b, " ")
			}
			fmt.Fprint(&b, cell.String())
		}
		fmt.Fprint(&b, "\n")
	}
	return b.String()
}

// neighbors yields the Moore neighborhood of x:y clipped to the grid.
func (p GameParams) neighbors(x, y int) iter.Seq[Point] {
	return func(yield func(Point) bool) {
		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				if dx == 0 && dy == 0 {
					continue
				}
				xx, yy := x+dx, y+dy
				if !p.PointInBounds(xx, yy) {
					continue
				}
				if !yield(Point{xx, yy}) {
					return
				}
			}
		}
	}
}
