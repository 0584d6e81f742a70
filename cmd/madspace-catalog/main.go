package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/madspace-uw/madspace/internal/config"
	"github.com/madspace-uw/madspace/internal/firebase"
	"github.com/madspace-uw/madspace/internal/importer"
	"github.com/madspace-uw/madspace/internal/logger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const (
	sourceLocal  = "local"
	sourceBucket = "bucket"
)

var (
	source       string
	dir          string
	importPrefix string
	exportPrefix string
	dryRun       bool
)

var rootCmd = &cobra.Command{
	Use:           "madspace-catalog",
	Short:         "Manage the MADSPACE course catalog",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import catalog files into Firestore",
	Long: `Read JSON or YAML catalog files and bulk-write their departments and
courses to Firestore.

Sources:
  local  - files under --dir (default ./catalog)
  bucket - files under --prefix in the Firebase Storage bucket

Invalid courses are skipped with a warning. Review counts and ratings of
existing courses are never overwritten.`,
	RunE: runImport,
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the Firestore catalog to the Storage bucket as JSON",
	RunE:  runExport,
}

func init() {
	config.LoadDotEnv("madspace-catalog")
	log.SetPrefix("[madspace-catalog] ")

	importCmd.Flags().StringVar(&source, "source", sourceLocal, "where to read catalog files from (local|bucket)")
	importCmd.Flags().StringVar(&dir, "dir", "catalog", "local directory holding catalog files")
	importCmd.Flags().StringVar(&importPrefix, "prefix", "catalog", "storage folder holding catalog files")
	importCmd.Flags().BoolVar(&dryRun, "dry-run", false, "parse and report without writing to Firestore")

	exportCmd.Flags().StringVar(&exportPrefix, "prefix", "exports", "storage folder to write the export to")

	rootCmd.AddCommand(importCmd, exportCmd)
}

// clients holds everything a subcommand needs and closes it afterwards.
type clients struct {
	service *importer.Service
	db      *firebase.Firestore
	log     *zap.Logger
}

func setup(ctx context.Context, needBucket bool) (*clients, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	zlog, err := logger.New(cfg.Environment, cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}

	app, err := firebase.NewApp(ctx, cfg.FirebaseConfig, cfg.StorageBucket)
	if err != nil {
		return nil, err
	}

	db, err := firebase.NewFirestore(ctx, app)
	if err != nil {
		return nil, err
	}

	var bucket importer.Bucket
	if needBucket {
		storage, err := firebase.NewCloudStorage(ctx, app, cfg.StorageBucket, zlog)
		if err != nil {
			db.Close()
			return nil, err
		}
		bucket = storage
	}

	return &clients{
		service: importer.NewService(db, bucket, zlog),
		db:      db,
		log:     zlog,
	}, nil
}

func (c *clients) close() {
	c.db.Close()
	c.log.Sync()
}

func runImport(cmd *cobra.Command, args []string) error {
	if source != sourceLocal && source != sourceBucket {
		return fmt.Errorf("invalid --source %q (options: local, bucket)", source)
	}

	c, err := setup(cmd.Context(), source == sourceBucket)
	if err != nil {
		return err
	}
	defer c.close()

	var result importer.Result
	if source == sourceBucket {
		result, err = c.service.ImportBucket(cmd.Context(), importPrefix, dryRun)
	} else {
		result, err = c.service.ImportDir(cmd.Context(), dir, dryRun)
	}
	if err != nil {
		return err
	}

	verb := "imported"
	if result.DryRun {
		verb = "would import"
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s %d departments and %d courses from %d files (%d skipped)\n",
		verb, result.Departments, result.Courses, result.Files, len(result.Warnings))
	return nil
}

func runExport(cmd *cobra.Command, args []string) error {
	c, err := setup(cmd.Context(), true)
	if err != nil {
		return err
	}
	defer c.close()

	object, err := c.service.Export(cmd.Context(), exportPrefix)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "exported catalog to %s\n", object)
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		log.Printf("error: %v", err)
		stop()
		os.Exit(1)
	}
}
