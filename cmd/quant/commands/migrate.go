package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/c0ughman/nasdaqst/backend/pkg/config"
	"github.com/c0ughman/nasdaqst/backend/pkg/database"
)

// migrateCmd represents the migrate command
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "DB 스키마 적용",
	Long: `내장된 migrations/*.sql 을 순서대로 적용합니다.
모든 구문은 IF NOT EXISTS 이므로 반복 실행해도 안전합니다.

Example:
  go run ./cmd/quant migrate`,
	RunE: runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	db, err := database.New(cfg)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	applied, err := db.Migrate(ctx)
	if err != nil {
		return err
	}

	PrintSuccess("Migrations applied")
	PrintList(applied)
	return nil
}
