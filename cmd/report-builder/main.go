package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"

	"github.com/ministryofjustice/pamo-utilities/config"
	"github.com/ministryofjustice/pamo-utilities/core"
	"github.com/ministryofjustice/pamo-utilities/stats"

	// Database drivers for sql sources

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
)

func main() {
	if err := run(os.Stdout, os.Args[1:]); err != nil {
		slog.Error("Build failed", "error", err)
		os.Exit(1)
	}
}

func run(output io.Writer, args []string) error {
	flags := flag.NewFlagSet("report-builder", flag.ContinueOnError)
	flags.SetOutput(output)

	configFile := flags.String("config", "./report_config.toml", "Path to report configuration (TOML or YAML)")
	baseDir := flags.String("base-dir", "", "Base directory for relative paths (defaults to the config file's directory)")
	s3Bucket := flags.String("s3-bucket", "", "S3 bucket name for publishing the workbook")
	s3Prefix := flags.String("s3-prefix", "reports", "S3 prefix for the published workbook (supports $date: expressions)")

	if err := flags.Parse(args); err != nil {
		return err
	}

	// Initialize structured logger
	logger := slog.New(slog.NewTextHandler(output, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	slog.Info("Loading report configuration", "file", *configFile)
	cfg, err := config.Load(*configFile)
	if err != nil {
		return err
	}

	dir := *baseDir
	if dir == "" {
		abs, err := filepath.Abs(*configFile)
		if err != nil {
			return fmt.Errorf("failed to resolve config path: %w", err)
		}
		dir = filepath.Dir(abs)
	}

	slog.Info("Building workbook", "output", cfg.Workbook.Output, "sheets", len(cfg.Sheets))
	outputPath, err := core.BuildConfig(cfg, stats.Sources(), dir)
	if err != nil {
		return fmt.Errorf("build workbook: %w", err)
	}
	slog.Info("Successfully built", "path", outputPath)

	if *s3Bucket != "" {
		slog.Info("Starting S3 upload", "bucket", *s3Bucket, "prefix", *s3Prefix)
		awsCfg, err := awsconfig.LoadDefaultConfig(context.TODO())
		if err != nil {
			return fmt.Errorf("unable to load AWS SDK config for S3: %w", err)
		}

		publisher := core.NewS3Publisher(awsCfg, *s3Bucket, *s3Prefix)
		if err := publisher.Publish(outputPath); err != nil {
			return fmt.Errorf("failed to publish workbook to s3: %w", err)
		}
		slog.Info("Successfully uploaded to S3")
	}

	return nil
}
