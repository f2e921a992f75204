// Package main prints the ranked value bet list.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"text/tabwriter"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/yourusername/matchboard/internal/client"
	"github.com/yourusername/matchboard/internal/config"
	"github.com/yourusername/matchboard/internal/database"
	"github.com/yourusername/matchboard/internal/models"
	"github.com/yourusername/matchboard/internal/repository"
	"github.com/yourusername/matchboard/internal/selector"
)

var (
	configFile string
	serverURL  string
	asJSON     bool
	limit      int
	minOdds    float64
	timeout    time.Duration
)

func init() {
	rootCmd.Flags().StringVarP(&configFile, "config", "c", "./config/config.yaml", "Path to configuration file")
	rootCmd.Flags().StringVar(&serverURL, "server", "", "Read from a running dashboard instead of the database")
	rootCmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON instead of a table")
	rootCmd.Flags().IntVarP(&limit, "limit", "n", 0, "Print at most n value bets")
	rootCmd.Flags().Float64Var(&minOdds, "min-odds", 0, "Override the configured odds threshold (database mode only)")
	rootCmd.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "Overall timeout")
}

var rootCmd = &cobra.Command{
	Use:          "value-bets",
	Short:        "Print the ranked value bet list",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if limit < 0 {
			return fmt.Errorf("limit must not be negative")
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
		defer cancel()

		var (
			bets []models.ValueBet
			err  error
		)
		if serverURL != "" {
			bets, err = fromServer(ctx)
		} else {
			bets, err = fromDatabase(ctx)
		}
		if err != nil {
			return err
		}

		if limit > 0 && limit < len(bets) {
			bets = bets[:limit]
		}
		if asJSON {
			return printJSON(cmd.OutOrStdout(), bets)
		}
		return printTable(cmd.OutOrStdout(), bets)
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetLevel(logrus.WarnLevel)
	return l
}

func fromServer(ctx context.Context) ([]models.ValueBet, error) {
	c, err := client.New(serverURL, client.DefaultConfig(), quietLogger())
	if err != nil {
		return nil, err
	}
	defer c.Close()

	return c.ValueBets(ctx, limit)
}

func fromDatabase(ctx context.Context) ([]models.ValueBet, error) {
	cfg, err := config.LoadWithDefaults(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := config.LoadSecretsFromEnv(ctx, cfg); err != nil {
		return nil, fmt.Errorf("failed to load secrets: %w", err)
	}
	if err := config.Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	db, err := database.NewDB(ctx, &cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	repos, err := repository.NewRepositories(db)
	if err != nil {
		return nil, err
	}

	snap, err := repos.Snapshot.LoadSnapshot(ctx)
	if err != nil {
		return nil, err
	}

	threshold := cfg.ValueBets.MinOdds
	if minOdds > 0 {
		threshold = minOdds
	}
	selection, err := selector.New(selector.Options{MinOdds: threshold}).Select(snap)
	if err != nil {
		return nil, err
	}
	return selection.Candidates, nil
}

func printJSON(w io.Writer, bets []models.ValueBet) error {
	if bets == nil {
		bets = []models.ValueBet{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(map[string][]models.ValueBet{"valueBets": bets})
}

func printTable(w io.Writer, bets []models.ValueBet) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tDATE\tHOME\tAWAY\tRANKS\tODDS\tPROB %\tH2H")
	for i, b := range bets {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s-%s\t%.2f / %.2f\t%.1f / %.1f\t%d-%d\n",
			i+1,
			formatKickoff(b),
			b.HomeTeam,
			b.AwayTeam,
			b.HomeStanding.Rank,
			b.AwayStanding.Rank,
			b.HomeOdds,
			b.AwayOdds,
			b.HomeWinProbability,
			b.AwayWinProbability,
			b.HomeWinsVsAway,
			b.AwayWinsVsHome,
		)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "%d value bets\n", len(bets))
	return err
}

func formatKickoff(b models.ValueBet) string {
	if b.MatchDate == nil {
		return "-"
	}
	out := b.MatchDate.Format("2006-01-02")
	if b.MatchTime != nil && *b.MatchTime != "" {
		out += " " + *b.MatchTime
	}
	return out
}
