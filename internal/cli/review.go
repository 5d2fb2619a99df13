package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"irmend/internal/backends"
	"irmend/internal/cache"
	"irmend/internal/config"
	"irmend/internal/ir"
	"irmend/internal/logging"
	"irmend/internal/output"
	"irmend/internal/repair"
	"irmend/internal/review"
)

var (
	flagFormat     string
	flagOut        string
	flagSave       bool
	flagSaveTo     string
	flagNoBackends bool
	flagNoCache    bool
	flagLogLevel   string
)

func addReviewFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&flagFormat, "format", "", "Output format (text, json, markdown)")
	cmd.Flags().StringVar(&flagOut, "out", "", "Report output file path (default: stdout)")
	cmd.Flags().BoolVar(&flagSave, "save", false, "Save the repaired document back to the input path")
	cmd.Flags().StringVar(&flagSaveTo, "save-to", "", "Save the repaired document to this path")
	cmd.Flags().BoolVar(&flagNoBackends, "no-backends", false, "Skip external repair backends, local repair only")
	cmd.Flags().BoolVar(&flagNoCache, "no-cache", false, "Disable the repair result cache")
	cmd.Flags().StringVar(&flagLogLevel, "log-level", "", "Log level (debug, info, warn, error)")
}

func buildOverrides() map[string]string {
	m := make(map[string]string)
	if flagFormat != "" {
		m["format"] = flagFormat
	}
	if flagLogLevel != "" {
		m["logLevel"] = flagLogLevel
	}
	if flagNoCache {
		m["cache"] = "false"
	}
	return m
}

// buildService assembles the review service from effective config.
func buildService(cfg config.Config) (*review.Service, *zap.Logger, error) {
	log, err := logging.New(cfg.LogLevel)
	if err != nil {
		return nil, nil, err
	}

	var chain []backends.RepairBackend
	if !flagNoBackends {
		chain = backends.FromConfig(cfg.Backends, log)
	}
	c := cache.New(cfg.Cache.Enabled)

	return review.NewService(repair.NewChain(chain, c, log), log), log, nil
}

var reviewCmd = &cobra.Command{
	Use:   "review <document.json>",
	Short: "Review a document tree",
	Long:  "Validate every chart and table block of a document tree, repair malformed blocks, and print a review report.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(buildOverrides())
		if err != nil {
			return err
		}

		svc, _, err := buildService(cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitCode = ExitRuntimeError
			return nil
		}

		path := args[0]
		doc, err := ir.Load(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitCode = ExitRuntimeError
			return nil
		}

		savePath := flagSaveTo
		if savePath == "" && flagSave {
			savePath = path
		}
		saveOnRepair := false
		if savePath == "" && cfg.SaveOnRepair {
			savePath = path
			saveOnRepair = true
		}

		start := time.Now()
		stats, err := svc.ReviewDocument(context.Background(), doc, review.Options{
			SavePath:     savePath,
			SaveOnRepair: saveOnRepair,
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitCode = ExitRuntimeError
			return nil
		}

		report := review.BuildReport(doc, stats, path, version, time.Since(start))
		if err := output.WriteReport(&report, cfg.Format, flagOut); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing output: %v\n", err)
			exitCode = ExitRuntimeError
			return nil
		}

		// A rejected credential outranks failed blocks: the run is not
		// trustworthy until the backend chain is configured correctly.
		if err := svc.AuthError(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitCode = ExitAuthError
			return nil
		}
		if stats.Failed > 0 {
			exitCode = ExitFailedBlocks
		}
		return nil
	},
}

func init() {
	addReviewFlags(reviewCmd)
}
