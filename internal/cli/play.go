package cli

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vancomm/minesweeper-api/internal/mines"
)

type PlayOptions struct {
	*RootOptions
	Height int
	Width  int
	Mines  int
	Seed   uint64
	Layout []int
}

func NewPlayCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &PlayOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play a game in the terminal",
		Long: `Play a game in the terminal.

Moves are read from stdin, one per line, as "<command> <x> <y>" where command
is one of ` + strings.Join(mines.Commands(), ", ") + `.
The board is printed after every move:
  #  covered
  *  red flag
  ?  question mark
  X  uncovered mine

Example:
  minesweeper play --height 9 --width 9 --mines 10
  minesweeper play --height 2 --width 3 --layout 0`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			game, err := opts.newGame()
			if err != nil {
				return err
			}
			return play(game, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}

	cmd.Flags().IntVar(&opts.Height, "height", 9, "number of rows")
	cmd.Flags().IntVar(&opts.Width, "width", 9, "number of columns")
	cmd.Flags().IntVar(&opts.Mines, "mines", 10, "number of mines")
	cmd.Flags().Uint64Var(&opts.Seed, "seed", 0, "random seed (0 picks one)")
	cmd.Flags().IntSliceVar(&opts.Layout, "layout", nil, "mine positions (y*width + x); overrides --mines and --seed")

	return cmd
}

func (opts *PlayOptions) newGame() (*mines.Game, error) {
	if len(opts.Layout) > 0 {
		return mines.Layout(opts.Height, opts.Width, opts.Layout)
	}
	seed := opts.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}
	opts.Logger.Debug("new game", slog.Uint64("seed", seed))
	return mines.Generate(opts.Height, opts.Width, opts.Mines, rand.New(rand.NewPCG(seed, seed)))
}

func printBoard(w io.Writer, game *mines.Game) {
	fmt.Fprintf(w, "%s\n", game)
}

// play runs moves from r until the game ends or input runs out.
func play(game *mines.Game, r io.Reader, w io.Writer) error {
	printBoard(w, game)

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if err := game.ExecuteLine(line); err != nil {
			fmt.Fprintf(w, "error: %v\n", err)
			continue
		}
		printBoard(w, game)
		if game.Ended() {
			fmt.Fprintf(w, "game over: %s\n", game.Result())
			return nil
		}
	}
	return scanner.Err()
}
