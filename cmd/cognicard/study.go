package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"cognicard/internal/client"
	"cognicard/internal/domain/models/library"
	librarySvc "cognicard/internal/domain/services/library"
)

var (
	importFront  int
	importBack   int
	importHeader string
	statsJSON    bool
	streakTZ     string
	searchLimit  int
	searchOffset int
)

func init() {
	rootCmd.AddCommand(importCmd, statsCmd, streakCmd, searchCmd)

	importCmd.Flags().IntVar(&importFront, "front", -1, "zero-based column holding the card front (default: detect)")
	importCmd.Flags().IntVar(&importBack, "back", -1, "zero-based column holding the card back (default: detect)")
	importCmd.Flags().StringVar(&importHeader, "header", "auto", "whether the first row is a header: auto, yes or no")

	statsCmd.Flags().BoolVar(&statsJSON, "json", false, "print statistics as JSON")

	streakCmd.Flags().StringVar(&streakTZ, "tz", "", "IANA time zone for counting days (default: local zone)")

	searchCmd.Flags().IntVar(&searchLimit, "limit", 20, "maximum results")
	searchCmd.Flags().IntVar(&searchOffset, "offset", 0, "results to skip")
}

var importCmd = &cobra.Command{
	Use:   "import <deck-path> <file.csv|->",
	Short: "Import cards into a deck from CSV",
	Long: `Import cards from a CSV file (or stdin with "-").

Columns are detected from a header row such as "question,answer" or
"term,definition"; without one, the first column is the front and the second the back.

Examples:
  cognicard import "Spanish Basics" words.csv
  cat vocab.csv | cognicard import Vocab - --front 1 --back 0 --header no`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := importOptions()
		if err != nil {
			return err
		}

		ws, err := loadWorkspace(cmd.Context())
		if err != nil {
			return err
		}
		node, err := ws.ResolvePath(args[0])
		if err != nil {
			return err
		}
		if node.Kind != library.NodeDeck {
			return fmt.Errorf("%s is a folder; import into a deck", node.Name)
		}

		var in io.Reader = os.Stdin
		if args[1] != "-" {
			f, err := os.Open(args[1])
			if err != nil {
				return err
			}
			defer f.Close()
			in = f
		}

		result, err := api.ImportCSV(cmd.Context(), node.ID, in, opts)
		if err != nil {
			return err
		}
		printImport(cmd.OutOrStdout(), node.Name, result)
		return nil
	},
}

func importOptions() (client.ImportOptions, error) {
	var opts client.ImportOptions
	if importFront >= 0 {
		opts.FrontColumn = &importFront
	}
	if importBack >= 0 {
		opts.BackColumn = &importBack
	}
	switch strings.ToLower(importHeader) {
	case "auto", "":
	case "yes", "true":
		v := true
		opts.HasHeader = &v
	case "no", "false":
		v := false
		opts.HasHeader = &v
	default:
		return opts, fmt.Errorf("--header must be auto, yes or no (got %q)", importHeader)
	}
	return opts, nil
}

func printImport(w io.Writer, deckName string, result *librarySvc.ImportResult) {
	s := result.Summary
	fmt.Fprintf(w, "imported %d of %d rows into %s", s.Created, s.TotalRows, deckName)
	if s.Skipped > 0 {
		fmt.Fprintf(w, " (%d blank skipped)", s.Skipped)
	}
	fmt.Fprintln(w)
	for _, e := range result.Errors {
		fmt.Fprintf(w, "  line %d: %s\n", e.Row, e.Error)
	}
}

var statsCmd = &cobra.Command{
	Use:   "stats <deck-path>",
	Short: "Show study statistics for a deck",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ws, err := loadWorkspace(cmd.Context())
		if err != nil {
			return err
		}
		node, err := ws.ResolvePath(args[0])
		if err != nil {
			return err
		}
		if node.Kind != library.NodeDeck {
			return fmt.Errorf("%s is a folder; stats are per deck", node.Name)
		}

		stats, err := api.DeckStats(cmd.Context(), node.ID)
		if err != nil {
			return err
		}
		if statsJSON {
			return json.NewEncoder(cmd.OutOrStdout()).Encode(stats)
		}

		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintf(tw, "Deck:\t%s\n", node.Name)
		fmt.Fprintf(tw, "Attempts:\t%d\n", stats.Attempts)
		fmt.Fprintf(tw, "Accuracy:\t%.0f%% (%d/%d cards)\n", stats.Accuracy*100, stats.CardsCorrect, stats.CardsSeen)
		if stats.BestDurationMS != nil {
			fmt.Fprintf(tw, "Best time:\t%s\n", (time.Duration(*stats.BestDurationMS) * time.Millisecond).Round(time.Second))
		}
		if stats.LastStudiedAt != nil {
			fmt.Fprintf(tw, "Last studied:\t%s\n", stats.LastStudiedAt.Local().Format("2006-01-02 15:04"))
		}
		return tw.Flush()
	},
}

var streakCmd = &cobra.Command{
	Use:   "streak",
	Short: "Show your study streak",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		tz := streakTZ
		if tz == "" {
			tz = localZoneName()
		}
		streak, err := api.Streak(cmd.Context(), tz)
		if err != nil {
			return err
		}
		if streak.LastStudyDay == nil {
			fmt.Fprintln(cmd.OutOrStdout(), "No study sessions yet.")
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "current streak: %d %s (longest %d), last studied %s\n",
			streak.Current, days(streak.Current), streak.Longest, *streak.LastStudyDay)
		return nil
	},
}

// localZoneName returns the IANA name of the local zone, or "" when it has none
func localZoneName() string {
	if tz := os.Getenv("TZ"); tz != "" {
		return tz
	}
	if name := time.Local.String(); name != "Local" {
		return name
	}
	return ""
}

func days(n int) string {
	if n == 1 {
		return "day"
	}
	return "days"
}

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search deck names and card text",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		results, err := api.Search(cmd.Context(), strings.Join(args, " "), searchLimit, searchOffset)
		if err != nil {
			return err
		}
		if len(results.Results) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "no matches")
			return nil
		}

		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "KIND\tTITLE\tSNIPPET")
		for _, r := range results.Results {
			fmt.Fprintf(tw, "%s\t%s\t%s\n", r.Kind, truncate(r.Title, 40), truncate(r.Snippet, 60))
		}
		if err := tw.Flush(); err != nil {
			return err
		}
		if results.HasMore {
			fmt.Fprintf(cmd.OutOrStdout(), "... %d more (use --offset %d)\n",
				results.TotalCount-results.Offset-len(results.Results), results.Offset+len(results.Results))
		}
		return nil
	},
}

func truncate(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
