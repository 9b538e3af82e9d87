package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"contra/cmd/contra/experience"
	"contra/cmd/contra/ui"
	"contra/internal/api"
	"contra/internal/config"
	"contra/internal/conversation"
	"contra/internal/engine"
	"contra/internal/logging"
	"contra/internal/status"
	"contra/internal/types"
)

var (
	// Global flags
	configPath string
	baseURL    string
	toneFlag   string
	expertise  string
	verbose    bool

	logger *zap.Logger
	cfg    config.Config
)

// rootCmd launches the interactive experience client.
var rootCmd = &cobra.Command{
	Use:   "contra",
	Short: "CONTRA - multi-modal topic experiences in your terminal",
	Long: `CONTRA turns any topic into a multi-modal experience: a tone-adaptive
narrative, generated image references, terminal charts, source citations,
and a follow-up conversation.

Run without arguments to start the interactive interface.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		applyFlags(&cfg)

		// The interactive UI owns the terminal, so its logs go to a file.
		toFile := cmd.CalledAs() == "contra"
		logger, err = logging.New(cfg.Logging.Level, toFile, logging.DefaultLogPath())
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return experience.Run(cfg, logger)
	},
}

// generateCmd runs one generation and prints the result, no UI.
var generateCmd = &cobra.Command{
	Use:   "generate [topic]",
	Short: "Generate one topic experience and print it",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runGenerate,
}

// statusCmd prints the backend health report.
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check backend service health",
	RunE:  runStatus,
}

// relatedCmd prints follow-up topic suggestions.
var relatedCmd = &cobra.Command{
	Use:   "related [topic]",
	Short: "Suggest related topics",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runRelated,
}

func applyFlags(cfg *config.Config) {
	if baseURL != "" {
		cfg.Backend.BaseURL = baseURL
	}
	if toneFlag != "" {
		cfg.Content.DefaultTone = types.ParseTone(toneFlag)
	}
	if expertise != "" {
		cfg.Content.DefaultExpertise = types.ParseExpertiseLevel(expertise)
	}
	if verbose {
		cfg.Logging.Level = "debug"
	}
}

func runGenerate(cmd *cobra.Command, args []string) error {
	topic := strings.Join(args, " ")
	styles := ui.DefaultStyles()

	client := api.NewClient(cfg.Backend, logger)
	eng := engine.New(client, nil, logger)

	req := cfg.DefaultRequest(topic)
	fmt.Fprintf(os.Stderr, "Generating %s experience of %s...\n",
		req.Tone, types.FormatTitle(strings.TrimSpace(topic)))

	outcome := eng.Submit(cmd.Context(), req)
	if outcome.Err != nil {
		return outcome.Err
	}
	printSections(styles, outcome)
	return nil
}

func printSections(s ui.Styles, outcome engine.Outcome) {
	sec := outcome.Sections
	fmt.Println(s.Title.Render(sec.Title) + " " + s.Badge.Render(string(sec.Tone)))
	fmt.Println()

	if sec.Narrative.Fallback != "" {
		fmt.Println(s.Muted.Render(sec.Narrative.Fallback))
	} else {
		if q := sec.Narrative.View.PullQuote; q != "" {
			fmt.Println(s.PullQuote.Render(q))
			fmt.Println()
		}
		for _, block := range sec.Narrative.View.Blocks {
			if block.Heading != "" {
				fmt.Println(s.SectionHeading.Render(block.Heading))
			}
			for _, line := range block.Lines {
				fmt.Println(line)
			}
			fmt.Println()
		}
		if so := sec.Narrative.View.SignOff; so != "" {
			fmt.Println(s.Subtitle.Render(so))
		}
	}

	if sec.Bullets.Present {
		fmt.Println(s.SectionHeading.Render("Key Points"))
		for i, item := range sec.Bullets.View.Items {
			marker := sec.Bullets.View.Marker
			if sec.Bullets.View.Ordered {
				marker = fmt.Sprintf("%d.", i+1)
			}
			fmt.Printf("  %s %s\n", s.BulletMarker.Render(marker), item.Text)
		}
		fmt.Println()
	}

	if len(sec.Images.View.Cards) > 0 {
		fmt.Println(s.SectionHeading.Render("Images"))
		for _, card := range sec.Images.View.Cards {
			fmt.Println("  " + s.Reference.Render(card.URL))
			fmt.Println("  " + s.Caption.Render(card.Caption))
		}
		fmt.Println()
	} else if sec.Images.View.Empty != "" {
		fmt.Println(s.Muted.Render(sec.Images.View.Empty))
		fmt.Println()
	}

	for _, panel := range []struct {
		heading, empty string
		lines, links   []string
	}{
		{sec.Sources.View.Encyclopedia.Heading, sec.Sources.View.Encyclopedia.Empty, sec.Sources.View.Encyclopedia.Lines, sec.Sources.View.Encyclopedia.Links},
		{sec.Sources.View.News.Heading, sec.Sources.View.News.Empty, sec.Sources.View.News.Lines, sec.Sources.View.News.Links},
		{sec.Sources.View.Categories.Heading, sec.Sources.View.Categories.Empty, sec.Sources.View.Categories.Lines, sec.Sources.View.Categories.Links},
	} {
		fmt.Println(s.PanelHeading.Render(panel.heading))
		if len(panel.lines) == 0 {
			fmt.Println("  " + s.Muted.Render(panel.empty))
			continue
		}
		for _, line := range panel.lines {
			fmt.Println("  " + line)
		}
		for _, link := range panel.links {
			fmt.Println("  " + s.Reference.Render(conversation.FormatReference(link)))
		}
	}
}

func runStatus(cmd *cobra.Command, args []string) error {
	styles := ui.DefaultStyles()
	client := api.NewClient(cfg.Backend, logger)

	ctx, cancel := context.WithTimeout(cmd.Context(), 15*time.Second)
	defer cancel()
	report := status.Probe(ctx, client, logger)

	overall := report.Overall
	if overall == "" {
		overall = "ok"
	}
	if report.Degraded() {
		fmt.Println(styles.Warning.Render("Backend: " + overall))
	} else {
		fmt.Println(styles.Success.Render("Backend: " + overall))
	}
	for _, svc := range report.Services {
		mark := styles.Success.Render("✓")
		if !svc.Available {
			mark = styles.Error.Render("✗")
		}
		line := fmt.Sprintf("%s %s", mark, svc.Name)
		if svc.Message != "" {
			line += styles.Muted.Render(": " + svc.Message)
		}
		fmt.Println(line)
	}
	for _, w := range status.Warnings(report) {
		fmt.Println(styles.Warning.Render("⚠ " + w))
	}
	return nil
}

func runRelated(cmd *cobra.Command, args []string) error {
	styles := ui.DefaultStyles()
	client := api.NewClient(cfg.Backend, logger)

	ctx, cancel := context.WithTimeout(cmd.Context(), 15*time.Second)
	defer cancel()
	topics, err := client.RelatedTopics(ctx, strings.Join(args, " "))
	if err != nil {
		return err
	}
	if len(topics) == 0 {
		fmt.Println(styles.Muted.Render("No suggestions."))
		return nil
	}
	for _, t := range topics {
		fmt.Println("  " + styles.BulletMarker.Render("•") + " " + t)
	}
	return nil
}

func main() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to YAML config file")
	rootCmd.PersistentFlags().StringVar(&baseURL, "base-url", "", "backend base URL (overrides config)")
	rootCmd.PersistentFlags().StringVar(&toneFlag, "tone", "", "default narrative tone (dramatic, poetic, humorous, technical, simple, informative)")
	rootCmd.PersistentFlags().StringVar(&expertise, "expertise", "", "target expertise level (beginner, intermediate, advanced)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(relatedCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
