// Command analyze prints quick, human-readable statistics about the board
// files in a configs directory. For each board it summarizes the layout
// (snake and ladder counts, longest drop and climb) and then plays many
// seeded games between two computer players to estimate game length,
// first-player advantage and how often each hazard fires.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/wricardo/snakes-ladders/game/engine"
)

// maxRollsPerGame stops a simulated game that never finishes
const maxRollsPerGame = 10000

// Stats aggregates the outcome of a batch of simulated games.
type Stats struct {
	Games        int
	Unfinished   int
	Player1Wins  int
	TotalRolls   int
	MinRolls     int
	MaxRolls     int
	Snakes       int
	Ladders      int
	Forfeits     int
	Overshoots   int
	HazardCounts map[int]int
}

// AverageRolls returns the mean number of rolls per finished game.
func (s Stats) AverageRolls() float64 {
	finished := s.Games - s.Unfinished
	if finished == 0 {
		return 0
	}
	return float64(s.TotalRolls) / float64(finished)
}

// Player1WinRate returns the share of finished games won by the first player.
func (s Stats) Player1WinRate() float64 {
	finished := s.Games - s.Unfinished
	if finished == 0 {
		return 0
	}
	return float64(s.Player1Wins) / float64(finished)
}

// simulate plays games on config with a die seeded from seed.
func simulate(config *engine.BoardConfig, games int, seed uint64) (Stats, error) {
	stats := Stats{Games: games, HazardCounts: map[int]int{}}
	die := engine.NewSeededDie(seed)

	for g := 0; g < games; g++ {
		// A fresh engine per game keeps the roll history from growing across games
		eng, err := engine.NewEngine(config, engine.WithPlayerKinds(engine.Computer, engine.Computer))
		if err != nil {
			return stats, err
		}

		rolls := 0
		for !eng.IsTerminal() && rolls < maxRollsPerGame {
			outcome, err := eng.ApplyRoll(die.Roll())
			if err != nil {
				return stats, fmt.Errorf("game %d roll %d: %w", g+1, rolls+1, err)
			}
			rolls++

			switch outcome.Kind {
			case engine.HazardTriggered:
				stats.Snakes++
				stats.HazardCounts[outcome.HazardFrom]++
			case engine.ShortcutTriggered:
				stats.Ladders++
				stats.HazardCounts[outcome.HazardFrom]++
			case engine.Forfeited:
				stats.Forfeits++
			case engine.RejectedOvershoot:
				stats.Overshoots++
			}
		}

		if !eng.IsTerminal() {
			stats.Unfinished++
			continue
		}

		stats.TotalRolls += rolls
		if stats.MinRolls == 0 || rolls < stats.MinRolls {
			stats.MinRolls = rolls
		}
		if rolls > stats.MaxRolls {
			stats.MaxRolls = rolls
		}
		if eng.Winner() == engine.Player1 {
			stats.Player1Wins++
		}
	}

	return stats, nil
}

// longest returns the edge with the largest distance, or zeros for an empty map
func longest(edges map[int]int) (from, to int) {
	best := 0
	keys := make([]int, 0, len(edges))
	for k := range edges {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	for _, k := range keys {
		if d := abs(edges[k] - k); d > best {
			best, from, to = d, k, edges[k]
		}
	}
	return from, to
}

// busiest lists the n hazard cells touched most often, ties broken by cell number
func busiest(counts map[int]int, n int) []int {
	cells := make([]int, 0, len(counts))
	for cell := range counts {
		cells = append(cells, cell)
	}
	sort.Slice(cells, func(i, j int) bool {
		if counts[cells[i]] != counts[cells[j]] {
			return counts[cells[i]] > counts[cells[j]]
		}
		return cells[i] < cells[j]
	})
	if len(cells) > n {
		cells = cells[:n]
	}
	return cells
}

// analyzeConfig loads one board file and writes its report to w.
func analyzeConfig(w io.Writer, path string, games int, seed uint64) error {
	config, err := engine.LoadBoardConfig(path)
	if err != nil {
		fmt.Fprintf(w, "Error loading board: %v\n", err)
		return err
	}

	fmt.Fprintf(w, "Name: %s\n", config.Name)
	fmt.Fprintf(w, "Board: %d x %d (finish at %d)\n", config.Size, config.Size, config.Cells())
	fmt.Fprintf(w, "Snakes: %d, Ladders: %d\n", engine.CountSnakes(config), engine.CountLadders(config))

	if from, to := longest(config.Snakes); from != 0 {
		fmt.Fprintf(w, "Longest snake: %d -> %d (%d cells)\n", from, to, from-to)
	}
	if from, to := longest(config.Ladders); from != 0 {
		fmt.Fprintf(w, "Longest ladder: %d -> %d (%d cells)\n", from, to, to-from)
	}

	if games <= 0 {
		return nil
	}

	stats, err := simulate(config, games, seed)
	if err != nil {
		fmt.Fprintf(w, "Simulation failed: %v\n", err)
		return err
	}

	fmt.Fprintf(w, "Simulated %d games (seed %d)\n", stats.Games, seed)
	fmt.Fprintf(w, "  Rolls per game: avg %.1f, min %d, max %d\n", stats.AverageRolls(), stats.MinRolls, stats.MaxRolls)
	fmt.Fprintf(w, "  Player 1 win rate: %.1f%%\n", stats.Player1WinRate()*100)
	fmt.Fprintf(w, "  Snakes hit: %d, ladders climbed: %d\n", stats.Snakes, stats.Ladders)
	fmt.Fprintf(w, "  Three-six forfeits: %d, overshoots: %d\n", stats.Forfeits, stats.Overshoots)

	if top := busiest(stats.HazardCounts, 3); len(top) > 0 {
		parts := make([]string, 0, len(top))
		for _, cell := range top {
			parts = append(parts, fmt.Sprintf("%d (%d)", cell, stats.HazardCounts[cell]))
		}
		fmt.Fprintf(w, "  Busiest cells: %s\n", strings.Join(parts, ", "))
	}

	if stats.Unfinished > 0 {
		fmt.Fprintf(w, "⚠️  WARNING: %d games did not finish within %d rolls\n", stats.Unfinished, maxRollsPerGame)
	} else {
		fmt.Fprintf(w, "✅ Every simulated game finished\n")
	}

	return nil
}

// boardFiles lists the board files in dir in name order
func boardFiles(dir string) ([]string, error) {
	var files []string
	for _, pattern := range []string{"*.yaml", "*.yml", "*.json"} {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return nil, err
		}
		files = append(files, matches...)
	}
	sort.Strings(files)
	return files, nil
}

func run(ctx context.Context, cmd *cli.Command) error {
	dir := cmd.String("dir")
	files, err := boardFiles(dir)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no board files found in %s", dir)
	}

	w := cmd.Root().Writer
	if w == nil {
		w = os.Stdout
	}

	failed := 0
	for _, file := range files {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		fmt.Fprintf(w, "\n=== Analyzing %s ===\n", filepath.Base(file))
		if err := analyzeConfig(w, file, int(cmd.Int("games")), uint64(cmd.Uint("seed"))); err != nil {
			failed++
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d boards could not be analyzed", failed, len(files))
	}
	return nil
}

func newCommand() *cli.Command {
	return &cli.Command{
		Name:  "analyze",
		Usage: "simulate games on every board file and print statistics",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "dir", Value: "configs", Usage: "directory containing board files"},
			&cli.IntFlag{Name: "games", Value: 1000, Usage: "games to simulate per board (0 skips simulation)"},
			&cli.UintFlag{Name: "seed", Value: 1, Usage: "seed for the simulated die"},
		},
		Action: run,
	}
}

func main() {
	if err := newCommand().Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
