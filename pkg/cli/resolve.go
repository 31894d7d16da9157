package cli

import (
	"context"
	"fmt"

	urfave "github.com/urfave/cli/v3"
)

var (
	titleFlag = &urfave.StringFlag{
		Name:     "title",
		Usage:    "Paper title to resolve (case-insensitive, partial match)",
		Required: true,
	}

	fieldPaperFlag = &urfave.StringFlag{
		Name:     "paper",
		Usage:    "Paper ID",
		Required: true,
	}

	resolveCmd = &urfave.Command{
		Name:   "resolve",
		Usage:  "Resolve a paper title to its paper ID",
		Action: cmdResolveTitle,
		Flags: []urfave.Flag{
			titleFlag,
		},
	}

	fieldsCmd = &urfave.Command{
		Name:   "fields",
		Usage:  "Show the dominant top-level field of study for a paper",
		Action: cmdPaperField,
		Flags: []urfave.Flag{
			fieldPaperFlag,
		},
	}
)

type titleResult struct {
	Title   string `json:"title" yaml:"title"`
	PaperID string `json:"paper_id,omitempty" yaml:"paper_id,omitempty"`
	Found   bool   `json:"found" yaml:"found"`
}

func cmdResolveTitle(ctx context.Context, cmd *urfave.Command) error {
	title := cmd.String(titleFlag.Name)

	store, err := openStore(getConfig(cmd).Config)
	if err != nil {
		return fmt.Errorf("opening citation store: %w", err)
	}
	defer store.Close()

	id, err := store.ResolveTitle(ctx, title)
	if err != nil {
		return fmt.Errorf("resolving title: %w", err)
	}

	return encode(cmd, &titleResult{
		Title:   title,
		PaperID: id,
		Found:   id != "",
	})
}

func cmdPaperField(ctx context.Context, cmd *urfave.Command) error {
	paperID := cmd.String(fieldPaperFlag.Name)

	store, err := openStore(getConfig(cmd).Config)
	if err != nil {
		return fmt.Errorf("opening citation store: %w", err)
	}
	defer store.Close()

	field, err := store.SingleFieldForPaper(ctx, paperID)
	if err != nil {
		return fmt.Errorf("resolving paper field: %w", err)
	}
	if field == nil {
		return encode(cmd, map[string]any{"paper_id": paperID, "found": false})
	}

	return encode(cmd, field)
}
