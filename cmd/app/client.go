package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/synapsemed/synapse/internal/client"
	"github.com/synapsemed/synapse/internal/models"
)

func runSearch(ctx context.Context, cmd *cli.Command) error {
	query := strings.Join(cmd.Args().Slice(), " ")
	if strings.TrimSpace(query) == "" {
		return fmt.Errorf("search: query argument is required")
	}

	c := client.New(cmd.String("server"), cmd.Duration("timeout"))
	results, err := c.Search(ctx, client.Params{
		Text:     query,
		Type:     cmd.String("type"),
		Category: cmd.String("category"),
	})
	if err != nil {
		return err
	}
	printResults(os.Stdout, results)
	return nil
}

func runLookup(ctx context.Context, cmd *cli.Command) error {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	settled := make(chan struct{}, 1)
	ctrl := client.NewController(
		client.New(cmd.String("server"), cmd.Duration("timeout")),
		client.WithDebounce(cmd.Duration("debounce")),
		client.WithLogger(logger),
		client.WithObserver(func(s client.Snapshot) {
			switch s.State {
			case client.StateDisplayed, client.StateEmpty, client.StateError:
				fmt.Fprintf(os.Stdout, "== %q: %s\n", s.Query, s.State)
				printResults(os.Stdout, s.Results)
				select {
				case settled <- struct{}{}:
				default:
				}
			}
		}),
	)
	defer ctrl.Close()

	ctrl.SetFilters(cmd.String("type"), cmd.String("category"))
	ctrl.Focus()

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		ctrl.SetQuery(scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("lookup: read input: %w", err)
	}

	// Wait for the last query to finish unless nothing is pending.
	for {
		switch ctrl.Snapshot().State {
		case client.StateDebouncing, client.StateLoading:
		default:
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-settled:
		case <-time.After(50 * time.Millisecond):
		}
	}
}

func printResults(w io.Writer, results []models.Record) {
	if len(results) == 0 {
		fmt.Fprintln(w, "no results")
		return
	}
	for _, r := range results {
		secondary := r.Author
		if r.Class != "" {
			secondary = r.Class
		}
		if r.Difficulty != "" {
			secondary = r.Difficulty
		}
		if secondary != "" {
			fmt.Fprintf(w, "%-8s %4d  %s (%s) [%s]\n", r.Kind, r.ID, r.Label, secondary, r.Category)
			continue
		}
		fmt.Fprintf(w, "%-8s %4d  %s [%s]\n", r.Kind, r.ID, r.Label, r.Category)
	}
}
