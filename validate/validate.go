// Command validate checks the board files in a configs directory
// (default ../configs). For every *.yaml, *.yml and *.json file it checks:
//   - the file parses as YAML or JSON
//   - the board passes engine.ValidateBoardConfig (size, win rule, hazard ranges, no chaining)
//   - the finish cell is reachable from the start cell
//   - no reachable cell is a trap from which the finish can never be reached
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/wricardo/snakes-ladders/game/engine"
)

// ValidationResult captures the outcome of validating a single file.
// If Valid is true, Errors contains informational messages; otherwise it
// accumulates the validation errors that were found.
type ValidationResult struct {
	File   string
	Valid  bool
	Errors []string
}

func (r *ValidationResult) fail(format string, args ...any) {
	r.Valid = false
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

func (r *ValidationResult) info(format string, args ...any) {
	r.Errors = append(r.Errors, "✓ "+fmt.Sprintf(format, args...))
}

// validateConfig loads and validates a single board file.
func validateConfig(filePath string) ValidationResult {
	result := ValidationResult{
		File:   filepath.Base(filePath),
		Valid:  true,
		Errors: []string{},
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		result.fail("Failed to read file: %v", err)
		return result
	}

	config, err := engine.DecodeBoardConfig(data, filepath.Ext(filePath))
	if err != nil {
		result.fail("Invalid board file: %v", err)
		return result
	}

	if err := engine.ValidateBoardConfig(config); err != nil {
		result.fail("%v", err)
		return result
	}

	result.info("Board %q: %dx%d, %d snakes, %d ladders", config.Name, config.Size, config.Size,
		engine.CountSnakes(config), engine.CountLadders(config))

	connectivity := validateConnectivity(config)
	result.Errors = append(result.Errors, connectivity.Errors...)
	if !connectivity.Valid {
		result.Valid = false
	}

	return result
}

// landing resolves the cell a token ends on after touching cell
func landing(config *engine.BoardConfig, cell int) int {
	if dest, ok := config.Ladders[cell]; ok {
		return dest
	}
	if dest, ok := config.Snakes[cell]; ok {
		return dest
	}
	return cell
}

// successors lists the cells reachable with one single-die move from cell.
// Bonus rolls after a six only add distance, so 1..6 covers every first step.
func successors(config *engine.BoardConfig, cell int) []int {
	total := config.Cells()
	next := make([]int, 0, engine.MaxDie)
	for die := engine.MinDie; die <= engine.MaxDie; die++ {
		target := cell + die
		if target > total {
			break
		}
		next = append(next, landing(config, target))
	}
	return next
}

// validateConnectivity walks the board graph from the start cell and checks
// that the finish is reachable and that no reachable cell is a dead end.
func validateConnectivity(config *engine.BoardConfig) ValidationResult {
	result := ValidationResult{
		Valid:  true,
		Errors: []string{},
	}

	if config == nil || config.Size <= 0 {
		result.fail("Cannot validate connectivity: empty board")
		return result
	}

	total := config.Cells()

	// Forward flood fill from the start cell
	reachable := map[int]bool{engine.StartCell: true}
	queue := []int{engine.StartCell}
	for len(queue) > 0 {
		cell := queue[0]
		queue = queue[1:]
		for _, next := range successors(config, cell) {
			if !reachable[next] {
				reachable[next] = true
				queue = append(queue, next)
			}
		}
	}

	if !reachable[total] {
		result.fail("Connectivity failure: finish cell %d unreachable from cell %d", total, engine.StartCell)
		return result
	}

	// Backward fill from the finish over the reversed edges
	predecessors := make(map[int][]int, total)
	for cell := range reachable {
		for _, next := range successors(config, cell) {
			predecessors[next] = append(predecessors[next], cell)
		}
	}
	canFinish := map[int]bool{total: true}
	queue = []int{total}
	for len(queue) > 0 {
		cell := queue[0]
		queue = queue[1:]
		for _, prev := range predecessors[cell] {
			if !canFinish[prev] {
				canFinish[prev] = true
				queue = append(queue, prev)
			}
		}
	}

	var traps []int
	for cell := range reachable {
		if !canFinish[cell] {
			traps = append(traps, cell)
		}
	}
	sort.Ints(traps)

	if len(traps) > 0 {
		result.fail("Connectivity failure: %d reachable cells can never reach the finish", len(traps))
		for _, cell := range traps {
			result.Errors = append(result.Errors, fmt.Sprintf("Trap: cell %d", cell))
		}
		return result
	}

	result.info("Connectivity: finish %d reachable, %d/%d cells visitable", total, len(reachable), total)
	return result
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

// main validates every board file in the directory given as the first
// argument, printing a concise report and exiting non-zero if any is invalid.
func main() {
	configDir := "../configs"
	if len(os.Args) > 1 {
		configDir = os.Args[1]
	}

	files, err := boardFiles(configDir)
	if err != nil {
		fmt.Printf("Error finding config files: %v\n", err)
		os.Exit(1)
	}
	if len(files) == 0 {
		fmt.Printf("No board files found in %s\n", configDir)
		os.Exit(1)
	}

	allValid := true
	for _, file := range files {
		result := validateConfig(file)

		fmt.Printf("\n%s %s\n", strings.Repeat("=", 20), result.File)

		if result.Valid {
			fmt.Println("✅ VALID")
			for _, info := range result.Errors {
				fmt.Println("  " + info)
			}
		} else {
			fmt.Println("❌ INVALID")
			allValid = false
			for _, err := range result.Errors {
				if !strings.HasPrefix(err, "✓") {
					fmt.Println("  ❌ " + err)
				}
			}
		}
	}

	fmt.Printf("\n%s\n", strings.Repeat("=", 40))
	if allValid {
		fmt.Println("✅ All configurations are valid!")
	} else {
		fmt.Println("❌ Some configurations have errors")
		os.Exit(1)
	}
}
