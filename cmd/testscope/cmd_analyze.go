package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/agusespa/testscope/internal/advisor"
	"github.com/agusespa/testscope/internal/analyzer"
	"github.com/agusespa/testscope/internal/corpus"
	"github.com/agusespa/testscope/internal/extractor"
	"github.com/agusespa/testscope/internal/git"
	"github.com/agusespa/testscope/internal/llm"
	"github.com/agusespa/testscope/internal/logging"
	"github.com/agusespa/testscope/internal/parser"
	"github.com/agusespa/testscope/internal/pipeline"
	"github.com/agusespa/testscope/internal/registry"
	"github.com/agusespa/testscope/internal/report"
	"github.com/agusespa/testscope/pkg/config"
	"github.com/agusespa/testscope/pkg/spinner"
)

var (
	flagConfig  string
	flagRepo    string
	flagBase    string
	flagHead    string
	flagFormat  string
	flagLogLvl  string
	flagVerbose bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze a revision range and select impacted tests",
	RunE:  runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVarP(&flagConfig, "config", "c", "testscope.yaml", "path to configuration file")
	analyzeCmd.Flags().StringVar(&flagRepo, "repo", "", "repository path (overrides config)")
	analyzeCmd.Flags().StringVar(&flagBase, "base", "origin/main", "base revision")
	analyzeCmd.Flags().StringVar(&flagHead, "head", "HEAD", "head revision")
	analyzeCmd.Flags().StringVarP(&flagFormat, "format", "f", "text", "output format: text, json or paths")
	analyzeCmd.Flags().StringVar(&flagLogLvl, "log-level", "", "log level (overrides config)")
	analyzeCmd.Flags().BoolVarP(&flagVerbose, "verbose", "v", false, "shorthand for --log-level debug")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig(flagConfig)
	if err != nil {
		return fmt.Errorf("failed to load config from %s: %w", flagConfig, err)
	}
	if flagRepo != "" {
		cfg.Repo = flagRepo
		if cfg.Corpus.Root == "" || cfg.Corpus.Root == "." {
			cfg.Corpus.Root = flagRepo
		}
	}

	levelName := cfg.Log.Level
	if flagLogLvl != "" {
		levelName = flagLogLvl
	}
	if flagVerbose {
		levelName = "debug"
	}
	level, err := logging.ParseLevel(levelName)
	if err != nil {
		return err
	}
	logging.Init(level, cfg.Log.Format, os.Stderr)

	ctx := cmd.Context()

	repo, err := git.Open(ctx, cfg.Repo)
	if err != nil {
		return err
	}

	reg, err := registry.New(cfg.FeatureDefinitions())
	if err != nil {
		return fmt.Errorf("invalid feature registry: %w", err)
	}

	testCorpus, err := corpus.NewAdapter(cfg.Corpus.Root, corpus.Framework(cfg.Corpus.Framework))
	if err != nil {
		return err
	}

	parsers := parser.NewRegistry()
	extract := extractor.New(parsers, repo,
		extractor.WithWorkers(cfg.Engine.ParseWorkers),
		extractor.WithFileTimeout(time.Duration(cfg.Engine.FileTimeoutSeconds)*time.Second))

	params := pipeline.Params{
		Analyzer:        analyzer.New(repo),
		Extractor:       extract,
		Registry:        reg,
		Corpus:          testCorpus,
		Source:          repo,
		StrategyIDs:     cfg.Engine.Strategies,
		Weights:         cfg.Engine.Weights,
		StrategyTimeout: time.Duration(cfg.Engine.StrategyTimeoutSeconds) * time.Second,
	}

	if cfg.Advisor.Enabled {
		provider, err := llm.NewProvider(llm.ProviderConfig{
			Type:    llm.ProviderType(cfg.Advisor.Provider),
			Model:   cfg.Advisor.Model,
			BaseURL: cfg.Advisor.BaseURL,
			APIKey:  cfg.Advisor.APIKey,
		})
		if err != nil {
			return fmt.Errorf("failed to create advisor provider: %w", err)
		}
		params.Advisor = advisor.New(provider, time.Duration(cfg.Advisor.TimeoutSeconds)*time.Second)
	}

	var spin *spinner.Spinner
	if flagFormat == "text" {
		spin = spinner.New("Analyzing changes and matching tests...")
		spin.Start()
	}

	result, err := pipeline.New(params).Run(ctx, flagBase, flagHead)
	if spin != nil {
		spin.Stop()
	}
	if err != nil {
		return err
	}

	switch flagFormat {
	case "json":
		data, err := report.JSON(result)
		if err != nil {
			return err
		}
		fmt.Println(string(data))
	case "paths":
		fmt.Print(report.PathList(result))
	default:
		fmt.Print(report.Text(result))
	}
	return nil
}
