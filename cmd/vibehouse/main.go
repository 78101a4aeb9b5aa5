package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"vibehouse/internal/config"
	"vibehouse/internal/logging"
	"vibehouse/internal/model"
	"vibehouse/internal/repository"
	"vibehouse/internal/service"
	"vibehouse/internal/utils"

	"github.com/spf13/cobra"
)

var (
	outputFormat string
	location     string
	projectID    string
)

func main() {
	var rootCmd = &cobra.Command{
		Use:   "vibehouse",
		Short: "Vibehouse - turn a home description into priced design options",
		Long: `Vibehouse parses a free-text description of a home, generates three
design options and prices each with structural, MEP and cost estimates.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", formatTable, "Output format (table, json, yaml)")

	// Parse command
	var parseCmd = &cobra.Command{
		Use:   "parse <vibe text>",
		Short: "Extract structured requirements from a vibe description",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runParse,
	}
	rootCmd.AddCommand(parseCmd)

	// Generate command
	var generateCmd = &cobra.Command{
		Use:   "generate <vibe text>",
		Short: "Generate and price three design options",
		Long: `Generate runs the full pipeline. Without --project nothing is stored;
with --project the twelve artifacts are saved to the configured database.`,
		Args: cobra.MinimumNArgs(1),
		RunE: runGenerate,
	}
	generateCmd.Flags().StringVarP(&location, "location", "l", "", "City for regional cost multipliers")
	generateCmd.Flags().StringVarP(&projectID, "project", "p", "", "Project ID to save the artifacts under")
	rootCmd.AddCommand(generateCmd)

	if err := rootCmd.Execute(); err != nil {
		utils.PrintError("Error: %v", err)
		os.Exit(1)
	}
}

func runParse(cmd *cobra.Command, args []string) error {
	if err := validateFormat(outputFormat); err != nil {
		return err
	}
	spec := service.NewVibeParser().Parse(strings.Join(args, " "))

	if outputFormat != formatTable {
		return writeStructured(cmd.OutOrStdout(), outputFormat, spec)
	}
	utils.PrintTitle("Parsed vibe")
	renderRequirements(cmd.OutOrStdout(), spec)
	return nil
}

func runGenerate(cmd *cobra.Command, args []string) error {
	if err := validateFormat(outputFormat); err != nil {
		return err
	}
	vibeText := strings.Join(args, " ")

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	logger := logging.New(cfg.Logging.Level, cfg.Logging.Format)
	ranker := service.NewBudgetRanker(cfg.Ranking.WeightBudget, cfg.Ranking.WeightEfficiency, cfg.Ranking.WeightStyle)

	loc := location
	if loc == "" {
		loc = cfg.Pipeline.DefaultLocation
	}

	if projectID == "" {
		pipeline := service.NewPipelineOrchestrator(nil, ranker, cfg.Pipeline.DefaultLocation, logger)
		spec, bundles := pipeline.Evaluate(vibeText, loc)
		preview := &model.PreviewResponse{Requirements: spec, Options: bundles}

		if outputFormat != formatTable {
			return writeStructured(cmd.OutOrStdout(), outputFormat, preview)
		}
		utils.PrintTitle("Design options")
		utils.PrintInfo("Location: %s", displayLocation(loc))
		renderPreview(cmd.OutOrStdout(), preview, ranker)
		utils.PrintSeparator()
		if fitting := withinBudget(preview.Options); fitting == 0 {
			utils.PrintWarning("No option fits the %s - %s budget",
				utils.FormatUSD(float64(spec.BudgetRange.Low)), utils.FormatUSD(float64(spec.BudgetRange.High)))
		} else {
			utils.PrintSuccess("%d of %d options fit the budget", fitting, len(preview.Options))
		}
		return nil
	}

	return saveRun(cmd, cfg, ranker, vibeText, loc)
}

// designStore is the subset both repository implementations share
type designStore interface {
	service.DesignRepository
	Close() error
}

func openStore(cfg *config.Config) (designStore, error) {
	if cfg.Database.Driver == config.DriverPostgres {
		repo, err := repository.NewPostgresRepository(cfg.GetPostgreSQLDSN(), 2, 1)
		if err != nil {
			return nil, err
		}
		if cfg.Database.AutoMigrate {
			if err := repo.Migrate(context.Background()); err != nil {
				repo.Close()
				return nil, fmt.Errorf("migrate: %w", err)
			}
		}
		return repo, nil
	}
	repo, err := repository.NewSQLiteRepository(cfg.Database.SQLitePath)
	if err != nil {
		return nil, err
	}
	return repo, nil
}

func saveRun(cmd *cobra.Command, cfg *config.Config, ranker *service.BudgetRanker, vibeText, loc string) error {
	repo, err := openStore(cfg)
	if err != nil {
		return fmt.Errorf("failed to open %s store: %w", cfg.Database.Driver, err)
	}
	defer repo.Close()

	if outputFormat == formatTable {
		utils.PrintInfo("Saving to %s store for project %s", cfg.Database.Driver, projectID)
	}

	logger := logging.New(cfg.Logging.Level, cfg.Logging.Format)
	pipeline := service.NewPipelineOrchestrator(repo, ranker, cfg.Pipeline.DefaultLocation, logger)
	designService := service.NewDesignService(repo, pipeline,
		service.RetryPolicy{Attempts: cfg.Pipeline.RetryCount, Delay: cfg.Pipeline.RetryDelay},
		cfg.Pipeline.SimilarLimit, logger)

	response, err := designService.Submit(context.Background(), &model.VibeRequest{
		ProjectID:       projectID,
		VibeDescription: vibeText,
		Location:        loc,
	})
	if err != nil {
		return err
	}

	if outputFormat != formatTable {
		return writeStructured(cmd.OutOrStdout(), outputFormat, response)
	}
	renderArtifacts(cmd.OutOrStdout(), response)
	if response.Attempts > 1 {
		utils.PrintWarning("Saved after %d attempts", response.Attempts)
	}
	utils.PrintSuccess("Saved run %s (%d artifacts)", response.RunID, response.Total)
	return nil
}
