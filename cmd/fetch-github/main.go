package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/alecthomas/kong"
	"github.com/dustin/go-humanize"
	"github.com/gertd/go-pluralize"
	"go.uber.org/zap"

	"github.com/vukan322/folio/internal/artifact"
	"github.com/vukan322/folio/internal/config"
	"github.com/vukan322/folio/internal/core"
	"github.com/vukan322/folio/internal/i18n"
	"github.com/vukan322/folio/internal/logger"
	"github.com/vukan322/folio/internal/providers"
	githubprovider "github.com/vukan322/folio/internal/providers/github"
	"github.com/vukan322/folio/internal/render"
)

type cli struct {
	User    string        `help:"GitHub account to aggregate." default:"${user}"`
	Out     string        `help:"Output JSON document." default:"${out}" type:"path"`
	Card    string        `help:"Also render an SVG stats card to this path." type:"path"`
	Lang    string        `help:"Locale for the SVG card labels (en, fr, fr-FR...)." default:"${lang}"`
	TZ      string        `name:"tz" help:"Time zone commits are bucketed into weekdays with." default:"Local"`
	Timeout time.Duration `help:"Deadline for the whole run." default:"2m"`
	APIURL  string        `name:"api-url" help:"GitHub REST API base URL." default:"${api}" hidden:""`
}

func main() {
	cfg := config.Load()

	var args cli
	kong.Parse(&args,
		kong.Name("fetch-github"),
		kong.Description("Aggregate GitHub profile, language and weekday statistics into a static JSON document."),
		kong.Vars{
			"user": cfg.GitHub.Username,
			"out":  cfg.GitHub.Output,
			"lang": cfg.Lang,
			"api":  cfg.GitHub.BaseURL,
		},
	)

	cfg.GitHub.Username = args.User
	cfg.GitHub.Output = args.Out
	cfg.GitHub.BaseURL = args.APIURL
	cfg.Lang = args.Lang

	if err := cfg.ValidateGitHub(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	loc, err := time.LoadLocation(args.TZ)
	if err != nil {
		log.Errorw("invalid time zone", "tz", args.TZ, "error", err)
		log.Sync()
		os.Exit(1)
	}

	if cfg.GitHub.Token == "" {
		log.Warn("GITHUB_TOKEN not set, using unauthenticated GitHub API (rate limited)")
	}

	provider := githubprovider.New(cfg.GitHub.Token,
		githubprovider.WithBaseURL(cfg.GitHub.BaseURL),
		githubprovider.WithHTTPClient(&http.Client{Timeout: cfg.HTTPTimeout}),
		githubprovider.WithLogger(log.With("provider", "github")),
		githubprovider.WithLocation(loc),
	)

	ctx, cancel := context.WithTimeout(context.Background(), args.Timeout)
	defer cancel()

	stats, err := run(ctx, provider, args, i18n.Negotiate(cfg.Lang), log)
	if err != nil {
		log.Errorw("github aggregation failed", "user", args.User, "error", err)
		log.Sync()
		cancel()
		os.Exit(1)
	}

	fmt.Printf(
		"fetch-github: wrote %s for %q: %s followers, %s stars, %s\n",
		cfg.GitHub.Output,
		cfg.GitHub.Username,
		humanize.Comma(int64(stats.Profile.Followers)),
		humanize.Comma(int64(stats.Profile.TotalStars)),
		pluralize.NewClient().Pluralize("language", len(stats.Languages), true),
	)
}

// run performs one aggregation and writes its artifacts. Nothing is written
// when the aggregation itself fails.
func run(ctx context.Context, p providers.StatsProvider, args cli, lang i18n.Lang, log *zap.SugaredLogger) (core.GitHubStats, error) {
	log.Infow("fetching github data", "user", args.User)

	stats, err := p.Fetch(ctx, args.User)
	if err != nil {
		return core.GitHubStats{}, fmt.Errorf("provider %s failed: %w", p.Name(), err)
	}

	if err := artifact.WriteJSON(args.Out, stats); err != nil {
		return core.GitHubStats{}, err
	}

	if args.Card != "" {
		svg, err := render.StatsCard(stats, lang)
		if err != nil {
			return core.GitHubStats{}, err
		}
		if err := artifact.WriteFile(args.Card, svg); err != nil {
			return core.GitHubStats{}, err
		}
	}

	return stats, nil
}
