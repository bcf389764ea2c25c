package admin

import (
	"context"
	"fmt"

	"github.com/copydesk/copydesk/internal/backup"
	"github.com/copydesk/copydesk/internal/config"
	"github.com/copydesk/copydesk/internal/database"
	"github.com/copydesk/copydesk/internal/repository"
	"github.com/copydesk/copydesk/internal/storage"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
)

// BackupCmd returns the backup command group
func BackupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Workspace backup operations",
		Long:  "Export workspace documents and patterns to S3-compatible storage",
	}

	cmd.AddCommand(backupExportCmd())
	cmd.AddCommand(backupListCmd())

	return cmd
}

func backupExportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export <workspace-id>",
		Short: "Export a workspace snapshot to storage",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			exporter, pool, err := buildExporter(ctx)
			if err != nil {
				return err
			}
			defer pool.Close()

			key, err := exporter.Export(ctx, args[0])
			if err != nil {
				return fmt.Errorf("export failed: %w", err)
			}

			fmt.Printf("exported workspace %s to %s\n", args[0], key)
			return nil
		},
	}
}

func backupListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list <workspace-id>",
		Short: "List stored exports for a workspace",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			exporter, pool, err := buildExporter(ctx)
			if err != nil {
				return err
			}
			defer pool.Close()

			keys, err := exporter.List(ctx, args[0])
			if err != nil {
				return fmt.Errorf("list failed: %w", err)
			}

			if len(keys) == 0 {
				fmt.Println("no exports found")
				return nil
			}
			for _, key := range keys {
				fmt.Println(key)
			}
			return nil
		},
	}
}

func buildExporter(ctx context.Context) (*backup.Exporter, *pgxpool.Pool, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	if !cfg.HasS3() {
		return nil, nil, fmt.Errorf("backup storage not configured: S3_ENDPOINT, S3_ACCESS_KEY_ID and S3_SECRET_ACCESS_KEY required")
	}

	pool, err := database.NewPool(ctx, database.Config{URL: cfg.DatabaseURL})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	s3Client, err := storage.NewS3Client(ctx, storage.S3ClientConfig{
		Endpoint:        cfg.S3Endpoint,
		Region:          cfg.S3Region,
		AccessKeyID:     cfg.S3AccessKey,
		SecretAccessKey: cfg.S3SecretKey,
		Bucket:          cfg.S3Bucket,
		UsePathStyle:    true,
	})
	if err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("failed to create S3 client: %w", err)
	}
	if err := s3Client.EnsureBucket(ctx); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("failed to ensure S3 bucket: %w", err)
	}

	exporter := backup.NewExporter(
		s3Client,
		repository.NewWorkspaceRepository(pool),
		repository.NewDocumentRepository(pool),
		repository.NewPatternRepository(pool),
	)
	return exporter, pool, nil
}
