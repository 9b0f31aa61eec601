package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"workpay-backend/internal/adapters/persistence/models"
	"workpay-backend/internal/adapters/persistence/repositories"
	"workpay-backend/internal/config"
	"workpay-backend/internal/core/services"

	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var Version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:          "workpayctl",
		Short:        "WorkPay operations tool",
		Version:      Version,
		SilenceUsage: true,
	}

	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(seedCmd())
	rootCmd.AddCommand(evaluateCmd())
	rootCmd.AddCommand(cleanupTokensCmd())

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// openDB loads configuration and connects to the configured database
func openDB() (*gorm.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return config.ConnectDatabase(cfg)
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update all tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDB()
			if err != nil {
				return err
			}
			defer config.CloseDatabase()

			if err := models.AutoMigrate(db); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
			fmt.Println("Migration completed")
			return nil
		},
	}
}

func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Create the bootstrap admin account if missing",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDB()
			if err != nil {
				return err
			}
			defer config.CloseDatabase()

			return config.NewSeeder(db).Run()
		},
	}
}

func evaluateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "evaluate [user-id...]",
		Short: "Run achievement evaluation for users",
		Long: `Run achievement evaluation for the given users, or for every user
when --all is set. Badges already held are never awarded twice.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			all, _ := cmd.Flags().GetBool("all")
			if !all && len(args) == 0 {
				return fmt.Errorf("give at least one user id or --all")
			}

			db, err := openDB()
			if err != nil {
				return err
			}
			defer config.CloseDatabase()

			userRepo := repositories.NewUserRepository(db)
			svc := services.NewAchievementService(db, userRepo,
				repositories.NewTaskRepository(db), repositories.NewAchievementRepository(db))

			ids, err := userIDs(cmd.Context(), userRepo, args, all)
			if err != nil {
				return err
			}

			for _, id := range ids {
				result, err := svc.Evaluate(cmd.Context(), id)
				if err != nil {
					return fmt.Errorf("evaluate user %d: %w", id, err)
				}
				fmt.Printf("user %d: %d new badges %v, %d points\n",
					id, len(result.NewAchievements), result.NewAchievements, result.TotalPoints)
			}
			return nil
		},
	}

	cmd.Flags().Bool("all", false, "Evaluate every user")

	return cmd
}

func userIDs(ctx context.Context, userRepo repositories.UserRepository, args []string, all bool) ([]uint, error) {
	if !all {
		ids := make([]uint, 0, len(args))
		for _, arg := range args {
			id, err := strconv.ParseUint(arg, 10, 32)
			if err != nil || id == 0 {
				return nil, fmt.Errorf("invalid user id %q", arg)
			}
			ids = append(ids, uint(id))
		}
		return ids, nil
	}

	var ids []uint
	for offset := 0; ; offset += 100 {
		users, _, err := userRepo.List(ctx, offset, 100)
		if err != nil {
			return nil, fmt.Errorf("list users: %w", err)
		}
		for _, u := range users {
			ids = append(ids, u.ID)
		}
		if len(users) < 100 {
			return ids, nil
		}
	}
}

func cleanupTokensCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cleanup-tokens",
		Short: "Delete expired and revoked refresh tokens now",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDB()
			if err != nil {
				return err
			}
			defer config.CloseDatabase()

			cron := services.NewCronService(repositories.NewRefreshTokenRepository(db), config.DefaultTokenCleanupSpec)
			n, err := cron.CleanupTokens(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Printf("Removed %d refresh tokens\n", n)
			return nil
		},
	}
}
