package main

import (
	"context"
	"os"

	"github.com/google/uuid"
	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/fabian-z/yaffsrestore/internal/nand"
)

func newExtractCmd(logLevel, logFormat *string) *cobra.Command {
	geo := nand.DefaultGeometry()

	cmd := &cobra.Command{
		Use:   "extract <data-dump> <oob-dump> <output-dir>",
		Short: "Run the full two-phase reconstruction",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := newLogger(*logLevel, *logFormat)
			if err != nil {
				return err
			}
			return runExtract(cmd.Context(), args[0], args[1], args[2], geo, logger)
		},
	}

	cmd.Flags().IntVar(&geo.PageSize, "page-size", geo.PageSize, "data bytes per page")
	cmd.Flags().IntVar(&geo.OOBSize, "oob-size", geo.OOBSize, "out-of-band bytes per page")
	cmd.Flags().IntVar(&geo.BlockPages, "block-pages", geo.BlockPages, "pages per erase block")
	cmd.Flags().IntVar(&geo.MaxPages, "max-pages", geo.MaxPages, "upper bound on pages scanned")
	cmd.Flags().IntVar(&geo.MaxObjects, "max-objects", geo.MaxObjects, "upper bound on object ids")

	return cmd
}

func runExtract(ctx context.Context, dataPath, oobPath, outDir string, geo nand.Geometry, logger zerolog.Logger) error {
	dataFile, err := os.Open(dataPath)
	if err != nil {
		return errors.Wrapf(err, "open data dump %q", dataPath)
	}
	defer dataFile.Close()

	oobFile, err := os.Open(oobPath)
	if err != nil {
		return errors.Wrapf(err, "open oob dump %q", oobPath)
	}
	defer oobFile.Close()

	runID := uuid.New().String()
	logger = logger.With().Str("run_id", runID).Logger()

	_, err = nand.Reconstruct(ctx, dataFile, oobFile, geo, afero.NewOsFs(), outDir, logger)
	return err
}

func newLogger(level, format string) (zerolog.Logger, error) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.Logger{}, errors.Wrapf(err, "invalid --log-level %q", level)
	}

	useConsole := format == "console" || (format == "auto" && isatty.IsTerminal(os.Stderr.Fd()))

	w := os.Stderr
	logger := zerolog.New(w).Level(lvl).With().Timestamp().Logger()
	if useConsole {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: w}).Level(lvl).With().Timestamp().Logger()
	}
	return logger, nil
}
