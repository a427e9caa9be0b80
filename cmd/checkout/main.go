// Command checkout prices scan strings from the command line.
//
// Each argument is one scan; without arguments one scan per line is read
// from stdin. One total is printed per scan, -1 when a symbol is unknown.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"

	"github.com/noah-isme/toko-pricing/internal/checkout"
	"github.com/noah-isme/toko-pricing/internal/config"
	"github.com/noah-isme/toko-pricing/internal/obs"
	"github.com/noah-isme/toko-pricing/internal/pricebook"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	book := flag.String("pricebook", cfg.PricebookPath, "path to a JSON pricebook; empty uses the built-in one")
	verbose := flag.Bool("v", false, "log pricing details to stderr")
	flag.Parse()

	level := "warn"
	if *verbose {
		level = "debug"
	}
	logger := obs.NewLoggerTo(os.Stderr, "console", level)

	if err := run(context.Background(), *book, flag.Args(), os.Stdin, os.Stdout, logger); err != nil {
		logger.Error().Err(err).Msg("checkout failed")
		os.Exit(1)
	}
}

func run(ctx context.Context, path string, args []string, in io.Reader, out io.Writer, logger zerolog.Logger) error {
	book, err := pricebook.Load(path)
	if err != nil {
		return err
	}
	svc := checkout.NewService(book, nil, logger)

	if len(args) > 0 {
		for _, skus := range args {
			if _, err := fmt.Fprintln(out, svc.Total(ctx, skus)); err != nil {
				return err
			}
		}
		return nil
	}

	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		skus := strings.TrimRight(scanner.Text(), "\r")
		if _, err := fmt.Fprintln(out, svc.Total(ctx, skus)); err != nil {
			return err
		}
	}
	return scanner.Err()
}
