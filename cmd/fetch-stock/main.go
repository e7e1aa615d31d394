package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/alecthomas/kong"
	"go.uber.org/zap"

	"github.com/vukan322/folio/internal/artifact"
	"github.com/vukan322/folio/internal/config"
	"github.com/vukan322/folio/internal/core"
	"github.com/vukan322/folio/internal/logger"
	"github.com/vukan322/folio/internal/providers"
	"github.com/vukan322/folio/internal/providers/demo"
	"github.com/vukan322/folio/internal/providers/yahoo"
	"github.com/vukan322/folio/internal/render"
)

type cli struct {
	Symbol   string        `help:"Ticker symbol to quote." default:"${symbol}"`
	Label    string        `help:"Display name written into the snapshot." default:"${label}"`
	Out      string        `help:"Output JSON document." default:"${out}" type:"path"`
	SVG      string        `name:"svg" help:"Also render a sparkline SVG to this path." type:"path"`
	Timeout  time.Duration `help:"Deadline for the whole run, retries included." default:"1m"`
	QuoteURL string        `name:"quote-url" help:"Quote endpoint." default:"${quoteURL}" hidden:""`
}

func main() {
	cfg := config.Load()

	var args cli
	kong.Parse(&args,
		kong.Name("fetch-stock"),
		kong.Description("Write the latest index quote to a static JSON document, falling back to demo data."),
		kong.Vars{
			"symbol":   cfg.Stock.Symbol,
			"label":    cfg.Stock.Label,
			"out":      cfg.Stock.Output,
			"quoteURL": cfg.Stock.QuoteURL,
		},
	)

	cfg.Stock.Symbol = args.Symbol
	cfg.Stock.Label = args.Label
	cfg.Stock.Output = args.Out
	cfg.Stock.QuoteURL = args.QuoteURL

	if err := cfg.ValidateStock(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), args.Timeout)
	defer cancel()

	live := yahoo.New(cfg.Stock.Symbol, cfg.Stock.Label,
		yahoo.WithQuoteURL(cfg.Stock.QuoteURL),
		yahoo.WithHTTPClient(&http.Client{Timeout: cfg.HTTPTimeout}),
		yahoo.WithLogger(log.With("provider", "yahoo")),
	)
	fallback := demo.New(cfg.Stock.Label)

	snap, source, err := run(ctx, live, fallback, args, log)
	if err != nil {
		// The site keeps serving the previous snapshot; a failed run is not
		// worth failing the build over.
		log.Errorw("stock snapshot not written", "error", err)
		return
	}

	fmt.Printf("fetch-stock: wrote %s via %s: %s %s (%s%%)\n",
		args.Out, source, snap.Symbol, snap.Price, snap.ChangePercent)
}

// run resolves a snapshot from primary or fallback and writes it out. It
// returns the snapshot and the name of the provider that produced it.
func run(ctx context.Context, primary, fallback providers.QuoteProvider, args cli, log *zap.SugaredLogger) (core.StockSnapshot, string, error) {
	log.Infow("fetching stock data", "symbol", args.Symbol)

	snap, source, err := providers.QuoteWithFallback(ctx, primary, fallback, log)
	if err != nil {
		return core.StockSnapshot{}, source, err
	}

	if err := artifact.WriteJSON(args.Out, snap); err != nil {
		return core.StockSnapshot{}, source, err
	}

	if args.SVG != "" {
		svg, err := render.Sparkline(snap)
		if err != nil {
			return core.StockSnapshot{}, source, err
		}
		if err := artifact.WriteFile(args.SVG, svg); err != nil {
			return core.StockSnapshot{}, source, err
		}
	}

	log.Infow("stock snapshot written", "path", args.Out, "source", source, "price", snap.Price)
	return snap, source, nil
}
