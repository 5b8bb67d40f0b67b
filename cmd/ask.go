package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/urfave/cli/v3"

	"github.com/sqlsage/sqlsage/internal/errors"
	"github.com/sqlsage/sqlsage/internal/types"
)

const maxPreviewRows = 10

// askPipeline is the slice of the pipeline the ask command needs
type askPipeline interface {
	Ask(ctx context.Context, question string) (types.Answer, error)
}

func AskCommand() *cli.Command {
	return &cli.Command{
		Name:        "ask",
		Usage:       "Ask a business question and print SQL, results, and insights",
		Description: `Translate a natural language question into SQL, execute it against the configured database, and print the generated query, a result preview, and the narrative insights.`,
		ArgsUsage:   " <question>",
		Flags: append(configFlags(),
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Print the full answer as JSON",
			},
		),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			args := cmd.Args()
			if args.Len() == 0 {
				return fmt.Errorf("expected a question argument, got none")
			}
			question := strings.Join(args.Slice(), " ")

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			return runAsk(withConfig(ctx, cfg), question, cmd.Bool("json"))
		},
	}
}

func runAsk(ctx context.Context, question string, asJSON bool) error {
	return runAskWithPipeline(ctx, nil, question, asJSON)
}

func runAskWithPipeline(ctx context.Context, p askPipeline, question string, asJSON bool) error {
	// Initialize the pipeline if not provided (for testing)
	if p == nil {
		cfg := getConfigFromContext(ctx)
		if cfg == nil {
			return errors.New(errors.ErrTypeConfig, "configuration not available")
		}

		realPipeline, cleanup, err := initializePipeline(ctx, cfg)
		if err != nil {
			return err
		}

		defer cleanup()

		p = realPipeline
	}

	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(os.Stderr))
	s.Suffix = " Analyzing your question..."
	s.Start()

	answer, err := p.Ask(ctx, question)

	s.Stop()

	if err != nil {
		return err
	}

	if asJSON {
		data, err := json.MarshalIndent(answer, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal answer: %w", err)
		}

		fmt.Println(string(data))

		return nil
	}

	printAnswer(answer)

	return nil
}

func printAnswer(answer types.Answer) {
	fmt.Printf("Question: %s\n", answer.Question)
	fmt.Printf("\nSQL Query:\n  %s\n", answer.SQLQuery)

	if answer.Results.Success {
		fmt.Printf("\nResults: %d rows\n", answer.Results.RowCount)
		printResultPreview(answer.Results)
	} else {
		fmt.Printf("\nQuery failed: %s\n", answer.Results.Error)
	}

	fmt.Printf("\nInsights:\n%s\n", answer.Insights)
}

// printResultPreview renders up to maxPreviewRows rows as an aligned table
func printResultPreview(result types.QueryResult) {
	if len(result.Columns) == 0 || len(result.Rows) == 0 {
		return
	}

	shown := len(result.Rows)
	if shown > maxPreviewRows {
		shown = maxPreviewRows
	}

	widths := make([]int, len(result.Columns))
	for i, col := range result.Columns {
		widths[i] = len(col)
	}

	cells := make([][]string, shown)

	for r := 0; r < shown; r++ {
		cells[r] = make([]string, len(result.Columns))
		for i, col := range result.Columns {
			cell := formatCell(result.Rows[r][col])
			cells[r][i] = cell

			if len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	fmt.Printf("\n")

	for i, col := range result.Columns {
		if i > 0 {
			fmt.Printf("  ")
		}

		fmt.Printf("%-*s", widths[i], col)
	}

	fmt.Printf("\n")

	for r := 0; r < shown; r++ {
		for i := range result.Columns {
			if i > 0 {
				fmt.Printf("  ")
			}

			fmt.Printf("%-*s", widths[i], cells[r][i])
		}

		fmt.Printf("\n")
	}

	if result.RowCount > shown {
		fmt.Printf("  ... and %d more rows\n", result.RowCount-shown)
	}
}

func formatCell(value any) string {
	if value == nil {
		return "NULL"
	}

	return fmt.Sprintf("%v", value)
}
