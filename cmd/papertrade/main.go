package main

import (
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/zappabad/papertrade/internal/config"
	"github.com/zappabad/papertrade/internal/series"
	"github.com/zappabad/papertrade/internal/session"
	"github.com/zappabad/papertrade/tui"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cfg := config.Load()

	var (
		dataPath   string
		players    int
		cash       float64
		runSeconds int
	)

	rootCmd := &cobra.Command{
		Use:   "papertrade",
		Short: "Step through a price series and practice trading decisions",
		Long: `papertrade replays a historical price series day by day. Trading is only
allowed at predefined decision points; between them the clock just advances.
Up to four players share the same series and compete on cash, position and
realized performance.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("data") {
				cfg.DataPath = dataPath
			}
			if cmd.Flags().Changed("players") {
				cfg.Session.Players = players
			}
			if cmd.Flags().Changed("cash") {
				cfg.Session.StartingCash = cash
			}
			if cmd.Flags().Changed("duration") {
				cfg.Session.RunFor = time.Duration(runSeconds) * time.Second
			}
			return runSimulator(cfg)
		},
	}

	rootCmd.Flags().StringVar(&dataPath, "data", "", "CSV series file (Date,Price,Breakpoint); built-in sample if omitted")
	rootCmd.Flags().IntVar(&players, "players", cfg.Session.Players, "number of players (1-4)")
	rootCmd.Flags().Float64Var(&cash, "cash", cfg.Session.StartingCash, "starting cash per player")
	rootCmd.Flags().IntVar(&runSeconds, "duration", int(cfg.Session.RunFor/time.Second), "auto-play duration for the full series, in seconds")

	rootCmd.AddCommand(newValidateCmd())

	return rootCmd
}

func runSimulator(cfg config.Config) error {
	s, err := loadSeries(cfg.DataPath)
	if err != nil {
		return err
	}

	// bubbletea owns the terminal; route logs to a file or drop them.
	if cfg.LogFile != "" {
		f, err := tea.LogToFile(cfg.LogFile, "papertrade")
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer f.Close()
	}

	sess := session.New(s, cfg.Session)
	p := tea.NewProgram(tui.NewModel(sess), tea.WithAltScreen())
	_, err = p.Run()
	return err
}

func loadSeries(path string) (*series.Series, error) {
	if path == "" {
		return series.Sample(), nil
	}
	return series.LoadFile(path)
}

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate FILE",
		Short: "Check a CSV series file and print a summary",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := series.LoadFile(args[0])
			if err != nil {
				return err
			}

			first, last := s.At(0), s.At(s.LastIndex())
			lo, hi := first.Price, first.Price
			for i := 1; i < s.Len(); i++ {
				if p := s.Price(i); p < lo {
					lo = p
				} else if p > hi {
					hi = p
				}
			}

			fmt.Printf("%s: OK\n", args[0])
			fmt.Printf("  rows:        %d (%s .. %s)\n", s.Len(),
				first.Date.Format("2006-01-02"), last.Date.Format("2006-01-02"))
			fmt.Printf("  price range: %.2f - %.2f\n", lo, hi)
			fmt.Printf("  breakpoints: %d at %v\n", len(s.Breakpoints()), s.Breakpoints())
			return nil
		},
	}
}
