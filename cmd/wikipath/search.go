package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"wikipath/internal/config"
	"wikipath/internal/crawler"
	"wikipath/internal/models"
	"wikipath/internal/telemetry"
	"wikipath/internal/wiki"
)

const progressEvery = 1000

type searchOptions struct {
	start  string
	target string
}

func bindSearchFlags(flags *pflag.FlagSet, opts *searchOptions) {
	flags.StringVar(&opts.start, "start", "", "title of the article to start from")
	flags.StringVar(&opts.target, "target", "", "title of the article to reach")
}

func newSearchCommand(v *viper.Viper) *cobra.Command {
	opts := &searchOptions{}
	cmd := &cobra.Command{
		Use:   "search [api-url]",
		Short: "Search for the shortest link path (interactive without --start/--target)",
		Example: `  wikipath search --start "Finland" --target "Kebab"
  wikipath search https://fi.wikipedia.org/w/api.php`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(cmd, v, opts, args)
		},
	}
	bindSearchFlags(cmd.Flags(), opts)
	return cmd
}

func runSearch(cmd *cobra.Command, v *viper.Viper, opts *searchOptions, args []string) error {
	if (opts.start == "") != (opts.target == "") {
		return fmt.Errorf("%w: --start and --target must be given together", config.ErrInvalid)
	}

	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	env, err := loadEnvironment(v, args)
	if err != nil {
		return err
	}
	defer func() { _ = env.log.Sync() }()

	client, err := env.connect(ctx, out)
	if err != nil {
		return err
	}
	sinks, err := env.openSinks(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err := sinks.Close(); err != nil {
			env.log.Warn("closing sinks failed", zap.Error(err))
		}
	}()

	if env.cfg.Metrics.Enabled {
		telemetry.StartServer(ctx, env.cfg.Metrics.Addr, env.log)
	}

	r := env.newRunner(client, sinks)
	search := func(ctx context.Context, start, target models.Title) error {
		res, err := r.search(ctx, start, target, crawler.WithObserver(newProgressObserver(out, progressEvery)))
		if res != nil {
			printResult(out, res)
		}
		return err
	}

	if opts.start == "" {
		return newPrompter(cmd.InOrStdin(), out).loop(ctx, client, search)
	}

	start, err := resolveExact(ctx, client, opts.start)
	if err != nil {
		return err
	}
	target, err := resolveExact(ctx, client, opts.target)
	if err != nil {
		return err
	}
	return search(ctx, start, target)
}

// resolveExact resolves a title given on the command line, where there is
// no one to pick among suggestions.
func resolveExact(ctx context.Context, resolve titleResolver, input string) (models.Title, error) {
	title, err := resolve.ResolveTitle(ctx, input)
	var ambiguous *wiki.AmbiguousTitleError
	if errors.As(err, &ambiguous) {
		return "", fmt.Errorf("%w: %w", config.ErrInvalid, err)
	}
	return title, err
}
