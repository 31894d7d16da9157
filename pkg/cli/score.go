package cli

import (
	"context"
	"fmt"
	"log/slog"

	urfave "github.com/urfave/cli/v3"

	"github.com/scisight/interdisc/pkg/config"
	"github.com/scisight/interdisc/pkg/data"
	"github.com/scisight/interdisc/pkg/interdisc"
)

var (
	paperIDsFlag = &urfave.StringFlag{
		Name:  "paper",
		Usage: "Paper ID, JSON list, or comma-separated list of paper IDs",
	}

	authorIDsFlag = &urfave.StringFlag{
		Name:  "author",
		Usage: "Author ID, JSON list, or comma-separated list of author IDs",
	}

	scoreCmd = &urfave.Command{
		Name:   "score",
		Usage:  "Compute integrator and broadcast scores for papers or authors",
		Action: cmdScore,
		Flags: []urfave.Flag{
			paperIDsFlag,
			authorIDsFlag,
		},
	}
)

func cmdScore(ctx context.Context, cmd *urfave.Command) error {
	papers := cmd.String(paperIDsFlag.Name)
	authors := cmd.String(authorIDsFlag.Name)
	if (papers == "") == (authors == "") {
		return fmt.Errorf("exactly one of --%s or --%s is required",
			paperIDsFlag.Name, authorIDsFlag.Name)
	}

	arg := papers
	if arg == "" {
		arg = authors
	}
	ids, err := data.ParseIDs(arg)
	if err != nil {
		return fmt.Errorf("parsing IDs: %w", err)
	}

	cfg := getConfig(cmd).Config

	store, err := openStore(cfg)
	if err != nil {
		return fmt.Errorf("opening citation store: %w", err)
	}
	defer store.Close()

	scorer, err := newScorer(cfg, store)
	if err != nil {
		return err
	}

	var scores *interdisc.Scores
	if papers != "" {
		slog.Debug("scoring papers", "count", len(ids))
		scores, err = scorer.ScoresFromPaperIDs(ctx, ids)
	} else {
		slog.Debug("scoring authors", "count", len(ids))
		scores, err = scorer.ScoresFromAuthorIDs(ctx, ids)
	}
	if err != nil {
		return fmt.Errorf("computing scores: %w", err)
	}

	return encode(cmd, scores)
}

func newScorer(cfg *config.Config, store *data.Store) (*interdisc.Scorer, error) {
	m, err := interdisc.Load(cfg.Matrix.MatrixFile, cfg.Matrix.VenueIDsFile, cfg.Matrix.Delimiter)
	if err != nil {
		return nil, fmt.Errorf("loading venue matrix: %w", err)
	}

	scorer, err := interdisc.NewScorer(store, m, store.VenueColumns(), cfg.Store.BatchSize)
	if err != nil {
		return nil, fmt.Errorf("building scorer: %w", err)
	}
	return scorer, nil
}
