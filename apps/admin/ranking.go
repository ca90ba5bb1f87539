package main

import (
	"context"
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/pkg/errors"
)

// printRanking prints the top of the population as a table on a terminal, as JSON otherwise.
func (cli *commandLine) printRanking(ctx context.Context, limit int, college, department string) error {
	entries, err := cli.rankingSvc.Top(ctx, limit, college, department)
	if err != nil {
		return errors.Wrap(err, "ranking researchers")
	}
	if !isTerminalFunc(cli.outFd) {
		return cli.printJSON(entries)
	}

	w := tabwriter.NewWriter(cli.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "RANK\tNAME\tCOLLEGE\tDEPARTMENT\tSCORE")
	for _, e := range entries {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%.2f\n", e.Rank, displayName(e.NameEn, e.NameAr), e.College, e.Department, e.Score)
	}
	return w.Flush()
}

// printLeaderboard prints the leaderboard of a single criterion.
func (cli *commandLine) printLeaderboard(ctx context.Context, criterion string, limit int) error {
	board, err := cli.rankingSvc.Criterion(ctx, criterion)
	if err != nil {
		return errors.Wrapf(err, "ranking on %q", criterion)
	}
	board.Entries = board.Entries[:minInt(len(board.Entries), cli.rankingSvc.Limit(limit))]
	if !isTerminalFunc(cli.outFd) {
		return cli.printJSON(board)
	}

	w := tabwriter.NewWriter(cli.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, board.Label)
	fmt.Fprintln(w, "RANK\tNAME\tDEPARTMENT\tVALUE")
	for _, e := range board.Entries {
		fmt.Fprintf(w, "%d\t%s\t%s\t%g\n", e.Rank, displayName(e.NameEn, e.NameAr), e.Department, e.Value)
	}
	return w.Flush()
}

func (cli *commandLine) printJSON(v interface{}) error {
	enc := json.NewEncoder(cli.out)
	enc.SetIndent("", "  ")
	return errors.Wrap(enc.Encode(v), "encoding json")
}

func displayName(nameEn, nameAr string) string {
	if nameEn != "" {
		return nameEn
	}
	return nameAr
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
