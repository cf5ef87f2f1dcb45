package main

import (
	"fmt"
	"math/rand/v2"

	"github.com/spf13/cobra"

	"github.com/vancomm/minesweeper-engine/internal/mines"
)

type generateOptions struct {
	level  string
	params string
	row    int
	col    int
	seed   uint64
	player bool
}

func (o generateOptions) gameParams() (mines.GameParams, error) {
	if o.params != "" {
		p, err := mines.ParseSeed(o.params)
		if err != nil {
			return mines.GameParams{}, err
		}
		return p, p.Validate()
	}
	level, err := mines.ParseLevel(o.level)
	if err != nil {
		return mines.GameParams{}, err
	}
	return mines.LevelParams(level, mines.GameParams{})
}

func newGenerateCmd() *cobra.Command {
	var opts generateOptions

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Lay out a board around a first click",
		Example: `  mines generate --level medium --row 3 --col 7
  mines generate --params 5:8:10 --seed 42 --player`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			params, err := opts.gameParams()
			if err != nil {
				return err
			}

			seed := opts.seed
			if seed == 0 {
				seed = rand.Uint64()
			}
			rnd := rand.New(rand.NewPCG(seed, seed))
			first := mines.Point{Row: opts.row, Col: opts.col}
			out := cmd.OutOrStdout()

			if !opts.player {
				board, err := mines.Generate(params, first, rnd)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "seed %d, params %s\n", seed, params.Seed())
				fmt.Fprint(out, board.String())
				return nil
			}

			g, err := mines.NewGame(params)
			if err != nil {
				return err
			}
			if _, err := g.CellState(first); err != nil {
				return err
			}
			g, res := g.Reveal(first, rnd)
			fmt.Fprintf(out, "seed %d, params %s, %s, %d revealed\n",
				seed, params.Seed(), g.Status(), len(res.Revealed))
			fmt.Fprint(out, g.PlayerGrid().ToString(params.Columns))
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.level, "level", "l", string(mines.Easy), "easy, medium or hard")
	f.StringVarP(&opts.params, "params", "p", "", "custom rows:columns:mines, overrides --level")
	f.IntVar(&opts.row, "row", 0, "row of the first click")
	f.IntVar(&opts.col, "col", 0, "column of the first click")
	f.Uint64Var(&opts.seed, "seed", 0, "random seed, 0 picks one")
	f.BoolVar(&opts.player, "player", false, "print the grid as the player sees it")

	return cmd
}
