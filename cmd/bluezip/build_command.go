package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/FlashpointProject/bluezip/internal/archive"
	"github.com/FlashpointProject/bluezip/internal/config"
	"github.com/FlashpointProject/bluezip/internal/curation"
	"github.com/FlashpointProject/bluezip/internal/flashpoint"
	"github.com/FlashpointProject/bluezip/internal/pipeline"
	"github.com/FlashpointProject/bluezip/internal/services/sevenzip"
	"github.com/FlashpointProject/bluezip/internal/services/trrntzip"
)

func newBuildCommand(ctx *commandContext) *cobra.Command {
	var batch bool
	var convert bool
	var output string
	var htdocs string

	cmd := &cobra.Command{
		Use:   "build PATH",
		Short: "Package curations and record them in the revision ledger",
		Long: `Build packages one curation, or with --batch every recognized entry of a
directory, into a canonical archive and records the result in the revision
ledger. --convert treats submissions as raw content trees and reads title
and platform from the Flashpoint launcher database.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			path, err := config.ExpandPath(args[0])
			if err != nil {
				return fmt.Errorf("resolve path: %w", err)
			}

			distDir := cfg.Paths.DistDir
			if output != "" {
				if distDir, err = config.ExpandPath(output); err != nil {
					return fmt.Errorf("resolve output dir: %w", err)
				}
				if err := os.MkdirAll(distDir, 0o755); err != nil {
					return fmt.Errorf("create output dir: %w", err)
				}
			}

			htdocsRoot := ""
			if htdocs != "" {
				if htdocsRoot, err = config.ExpandPath(htdocs); err != nil {
					return fmt.Errorf("resolve htdocs root: %w", err)
				}
			}

			store, err := ctx.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer store.Close()

			extractor, err := sevenzip.New(cfg.SevenZipBinary())
			if err != nil {
				return err
			}
			packager, err := trrntzip.New(cfg.TrrntzipBinary())
			if err != nil {
				return err
			}

			var lookup curation.MetadataLookup
			if cfg.Flashpoint.DatabasePath != "" {
				fp, err := flashpoint.Open(cfg.Flashpoint.DatabasePath)
				if err != nil {
					return err
				}
				defer fp.Close()
				lookup = fp.Lookup
			} else if convert {
				return fmt.Errorf("--convert requires flashpoint.database_path to be configured")
			}

			processor, err := pipeline.New(pipeline.Options{
				Store:      store,
				Loader:     curation.NewLoader(extractor, lookup, cfg.Paths.StagingDir),
				Normalizer: archive.NewNormalizer(packager, distDir),
				Console:    ctx.terminal(),
				Logger:     logger,
				StagingDir: cfg.Paths.StagingDir,
				HtdocsRoot: htdocsRoot,
				FromDB:     convert,
			})
			if err != nil {
				return err
			}
			return processor.Run(cmd.Context(), path, batch)
		},
	}

	cmd.Flags().BoolVarP(&batch, "batch", "b", false, "Process every recognized entry of PATH")
	cmd.Flags().BoolVar(&convert, "convert", false, "Treat submissions as raw content; metadata from the launcher database")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Destination directory for packaged archives")
	cmd.Flags().StringVar(&htdocs, "htdocs", "", "Deployed file tree to scan for obsolete files")
	return cmd
}
