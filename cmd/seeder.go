package cmd

import (
	"context"
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/frahmantamala/pos-identity/pkg/logger"
)

var seedBusinessID string

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the module catalog",
	Long:  `Seed the module catalog and optionally provision the default roles of a business.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		lg := logger.Init(cfg.Observability.Logging.Level, cfg.Observability.Logging.Format)

		app, err := newApplication(cfg, lg)
		if err != nil {
			log.Fatalf("failed to init application: %v", err)
		}
		defer app.Close()

		ctx := context.Background()

		result, err := app.Modules.SeedModules(ctx)
		if err != nil {
			log.Fatalf("failed to seed modules: %v", err)
		}
		fmt.Printf("Modules %s (%d)\n", result.Message, result.Count)

		if seedBusinessID == "" {
			return
		}

		if err := app.Roles.CreateDefaultRoles(ctx, seedBusinessID); err != nil {
			log.Fatalf("failed to create default roles: %v", err)
		}
		fmt.Println("Created default roles for business:", seedBusinessID)
	},
}

func init() {
	seedCmd.Flags().StringVar(&seedBusinessID, "business", "", "Business id to provision default roles for")
}
