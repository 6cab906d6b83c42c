package cmd

import (
	"context"
	_ "embed"
	"os"
	"strings"

	"ipwarden/internal/config"
	"ipwarden/internal/extractor"
	"ipwarden/internal/pangolin"
	"ipwarden/internal/rules"
	"ipwarden/internal/scanner"
	"ipwarden/internal/state"
	"ipwarden/internal/sweep"
	logg "ipwarden/pkg/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (

	//go:embed version.txt
	version string

	runCmd = &cobra.Command{
		Use:   "run",
		Short: "run one allow-list sweep",
		Run:   run,
	}
)

func run(_ *cobra.Command, _ []string) {
	ctx := context.Background()
	cfg := resolveConfig()

	logger := logg.New(cfg.Logger).Desugar()
	zap.ReplaceGlobals(logger)

	if err := cfg.Warden.Validate(); err != nil {
		fatalf(logger, "one or more required settings are missing: %s", err)
	}

	ext, err := buildExtractor(cfg)
	if err != nil {
		fatalf(logger, "unable to load extractor profile: %s", err)
	}

	client := pangolin.NewClient(
		cfg.Warden.APIURL,
		cfg.Warden.APIToken,
		cfg.Warden.ResourceID,
		cfg.Warden.RequestTimeout(),
	)

	sw := sweep.New(
		state.NewStore(cfg.Warden.StatePath),
		scanner.New(cfg.Warden.LogPath),
		ext,
		rules.NewManager(client, cfg.Warden.TTL()),
	)

	zap.S().Infof("ipwarden %s starting sweep", strings.TrimSpace(version))
	if err := sw.Run(ctx); err != nil {
		fatalf(logger, "sweep aborted: %s", err)
	}

	logger.Sync()
}

func buildExtractor(cfg *config.Config) (*extractor.Extractor, error) {
	if cfg.Warden.ExtractorProfile == "" {
		return extractor.New(), nil
	}
	return extractor.NewFromProfile(cfg.Warden.ExtractorProfile)
}

// fatalf logs, flushes, and exits non-zero.
func fatalf(logger *zap.Logger, format string, args ...any) {
	zap.S().Errorf(format, args...)
	logger.Sync()
	os.Exit(1)
}

func init() {
	rootCmd.AddCommand(runCmd)
}
