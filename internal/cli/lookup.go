package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"runtime"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/ppiankov/sc2bot/internal/pipeline"
	"github.com/ppiankov/sc2bot/internal/worker"
)

var (
	concurrency   int
	termsFile     string
	lookupTimeout time.Duration
)

// lookupCmd represents the lookup command
var lookupCmd = &cobra.Command{
	Use:   "lookup [term...]",
	Short: "Look up units or abilities on Liquipedia",
	Long: `Lookup fetches the Liquipedia page for each term and prints the
rendered infobox, exactly as the bot would reply to !unit. Terms are
processed in parallel and printed in the order given.

Example:
  sc2bot lookup "siege tank" marine
  sc2bot lookup --file units.txt --concurrency 2`,
	RunE: runLookup,
}

func init() {
	rootCmd.AddCommand(lookupCmd)

	lookupCmd.Flags().IntVar(&concurrency, "concurrency", runtime.NumCPU(), "number of concurrent workers")
	lookupCmd.Flags().StringVar(&termsFile, "file", "", "read terms from file (one per line)")
	lookupCmd.Flags().DurationVar(&lookupTimeout, "timeout", 5*time.Minute, "total timeout for all lookups")
}

func runLookup(cmd *cobra.Command, args []string) error {
	terms := args
	if termsFile != "" {
		fromFile, err := worker.ReadTermsFromFile(termsFile)
		if err != nil {
			return fmt.Errorf("read terms: %w", err)
		}
		terms = append(terms, fromFile...)
	}
	if len(terms) == 0 {
		return errors.New("no terms given: pass terms as arguments or use --file")
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), lookupTimeout)
	defer cancel()

	failed := lookupTerms(ctx, cmd.OutOrStdout(), pipeline.NewPipeline(cfg), terms, concurrency)
	if failed > 0 {
		return fmt.Errorf("%d of %d lookups failed", failed, len(terms))
	}
	return nil
}

// lookupTerms prints one block per term, in order, and returns the number of failures.
// A missing article is reported but not counted as a failure.
func lookupTerms(ctx context.Context, out io.Writer, lookuper worker.Lookuper, terms []string, workers int) int {
	log.Debug().Int("terms", len(terms)).Int("workers", workers).Msg("starting lookups")

	results := worker.NewBatchProcessor(lookuper, workers).ProcessTerms(ctx, terms)

	failed := 0
	for i, res := range results {
		if i > 0 {
			fmt.Fprintln(out)
		}
		switch {
		case errors.Is(res.Error, pipeline.ErrNotFound):
			fmt.Fprintf(out, "No article found for **%s**\n", res.Term)
		case res.Error != nil:
			failed++
			log.Error().Err(res.Error).Str("term", res.Term).Msg("lookup failed")
			fmt.Fprintf(out, "Lookup failed for **%s**\n", res.Term)
		default:
			fmt.Fprintln(out, res.Result.Text())
		}
	}
	return failed
}
