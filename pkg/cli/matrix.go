package cli

import (
	"context"
	"fmt"

	urfave "github.com/urfave/cli/v3"

	"github.com/scisight/interdisc/pkg/interdisc"
)

var (
	matrixCmd = &urfave.Command{
		Name:            "matrix",
		Usage:           "Venue citation matrix operations",
		HideHelpCommand: true,
		Commands: []*urfave.Command{
			{
				Name:   "info",
				Usage:  "Load the configured matrix and print its dimensions",
				Action: cmdMatrixInfo,
			},
		},
	}
)

type matrixInfo struct {
	MatrixFile   string `json:"matrix_file" yaml:"matrix_file"`
	VenueIDsFile string `json:"venue_ids_file" yaml:"venue_ids_file"`
	Venues       int    `json:"venues" yaml:"venues"`
	Nonzeros     int    `json:"nonzeros" yaml:"nonzeros"`
}

func cmdMatrixInfo(ctx context.Context, cmd *urfave.Command) error {
	cfg := getConfig(cmd).Config

	m, err := interdisc.Load(cfg.Matrix.MatrixFile, cfg.Matrix.VenueIDsFile, cfg.Matrix.Delimiter)
	if err != nil {
		return fmt.Errorf("loading venue matrix: %w", err)
	}

	return encode(cmd, &matrixInfo{
		MatrixFile:   cfg.Matrix.MatrixFile,
		VenueIDsFile: cfg.Matrix.VenueIDsFile,
		Venues:       m.N(),
		Nonzeros:     m.NNZ(),
	})
}
