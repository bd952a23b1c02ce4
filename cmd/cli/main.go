package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"renju/internal/config"
	"renju/internal/domain"
)

const helpText = `Enter moves as: row col (1-15)
Commands:
  help  Show this message
  quit  Exit the game

Opening rules:
  After the 3rd move, White may swap colors.
  On the 5th move, Black places two candidates and White removes one.`

// parseMove reads "row col" with 1-based coordinates.
func parseMove(text string) (domain.Point, bool) {
	parts := strings.Fields(text)
	if len(parts) != 2 {
		return domain.Point{}, false
	}
	row, err := strconv.Atoi(parts[0])
	if err != nil {
		return domain.Point{}, false
	}
	col, err := strconv.Atoi(parts[1])
	if err != nil {
		return domain.Point{}, false
	}
	return domain.Point{Row: row - 1, Col: col - 1}, true
}

func main() {
	configPath := flag.String("config", "data/game_config.json", "path to the game config file")
	ruleset := flag.String("ruleset", "", "rule set: renju or freestyle (overrides config)")
	flag.Parse()

	if err := config.LoadGameConfig(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "config: using defaults: %v\n", err)
	}
	rules := config.GetRuleSet()
	if *ruleset != "" {
		rules = config.ParseRuleSet(*ruleset)
	}

	game := domain.NewGame(config.GetBoardSize(), rules, config.GetHistoryDir())
	scanner := bufio.NewScanner(os.Stdin)

	fmt.Println("Renju")
	fmt.Println(helpText)

	for {
		fmt.Println("\n" + game.Board.Render())
		if game.Status != domain.StatusPlaying {
			fmt.Printf("\nGame over: %s.\n", game.Status)
			if len(game.WinningPoints) > 0 {
				coords := make([]string, 0, len(game.WinningPoints))
				for _, pt := range game.WinningPoints {
					coords = append(coords, fmt.Sprintf("(%d,%d)", pt.Row+1, pt.Col+1))
				}
				fmt.Printf("Winning line: %s\n", strings.Join(coords, ", "))
			}
			if err := game.SaveHistory(); err != nil {
				fmt.Fprintf(os.Stderr, "history: %v\n", err)
			} else {
				fmt.Printf("Game history saved to %s.\n", game.HistoryPath())
			}
			return
		}

		if game.SwapPending() {
			line, ok := prompt(scanner, "White may swap colors. Swap? (y/n) > ")
			if !ok {
				return
			}
			swap := line == "y" || line == "yes"
			fmt.Println(game.DecideSwap(swap))
			continue
		}

		if game.CandidateRemovalRequired() {
			line, ok := prompt(scanner, "White remove one candidate (row col) > ")
			if !ok || line == "quit" || line == "exit" {
				fmt.Println("Goodbye!")
				return
			}
			if line == "help" || line == "?" {
				fmt.Println(helpText)
				continue
			}
			point, ok := parseMove(line)
			if !ok {
				fmt.Println("Invalid input. Type 'help' for instructions.")
				continue
			}
			fmt.Println(game.RemoveCandidate(point).Message)
			continue
		}

		candidateNote := ""
		if game.InCandidatePlacement() {
			candidateNote = fmt.Sprintf(" (candidate %d of 2)", len(game.CandidatePoints)+1)
		}
		line, ok := prompt(scanner, fmt.Sprintf("%s [%s] to move%s > ", game.CurrentPlayer, game.CurrentCell(), candidateNote))
		if !ok || line == "quit" || line == "exit" {
			fmt.Println("Goodbye!")
			return
		}
		if line == "help" || line == "?" {
			fmt.Println(helpText)
			continue
		}
		point, ok := parseMove(line)
		if !ok {
			fmt.Println("Invalid input. Type 'help' for instructions.")
			continue
		}
		fmt.Println(game.PlaceMove(point).Message)
	}
}

// prompt prints a prompt and reads one trimmed, lowercased line. The
// second return is false once stdin is exhausted.
func prompt(scanner *bufio.Scanner, text string) (string, bool) {
	fmt.Print(text)
	if !scanner.Scan() {
		return "", false
	}
	return strings.ToLower(strings.TrimSpace(scanner.Text())), true
}
