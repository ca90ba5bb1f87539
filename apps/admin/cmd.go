package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io"

	"golang.org/x/term"

	"github.com/academia/scipoints/core"
	"github.com/academia/scipoints/core/ranking"
	"github.com/academia/scipoints/core/researcher"
)

var (
	isTerminalFunc = term.IsTerminal // mockable

	errHelp = errors.New("help provided")
)

type commandLine struct {
	db            *sql.DB
	researcherSvc *researcher.Service
	rankingSvc    *ranking.Service
	mailSvc       core.EmailService
	out           io.Writer
	outFd         int
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  migrate COMMAND [ARGS] - run a goose migration command (up, down, status, ...)")
	fmt.Fprintln(cli.out, "  ranking [-limit N] [-college NAME [-department NAME]] [-criterion NAME] - print the leaderboard")
	fmt.Fprintln(cli.out, "  sendreport -researcher ID - email the points report of a researcher")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}
	ctx := context.Background()

	rankingCmd := flag.NewFlagSet("ranking", flag.ContinueOnError)
	rankingCmd.SetOutput(cli.out)
	rankingLimit := rankingCmd.Int("limit", 0, "Number of researchers to print. Defaults to the configured limit.")
	rankingCollege := rankingCmd.String("college", "", "Only rank the researchers of this college.")
	rankingDept := rankingCmd.String("department", "", "Only rank the researchers of this department of -college.")
	rankingCriterion := rankingCmd.String("criterion", "", "Rank on a single criterion instead of the total score.")

	sendReportCmd := flag.NewFlagSet("sendreport", flag.ContinueOnError)
	sendReportCmd.SetOutput(cli.out)
	sendReportID := sendReportCmd.String("researcher", "", "The researcher's ID.")

	switch args[1] {
	case "migrate":
		if len(args) < 3 {
			cli.printUsage()
			return errHelp
		}
		return cli.migrate(args[2:])
	case "ranking":
		if err := rankingCmd.Parse(args[2:]); err != nil {
			return errHelp
		}
		college, department := core.CleanString(*rankingCollege), core.CleanString(*rankingDept)
		if *rankingLimit < 0 || (department != "" && college == "") {
			rankingCmd.Usage()
			return errHelp
		}
		if *rankingCriterion != "" {
			return cli.printLeaderboard(ctx, *rankingCriterion, *rankingLimit)
		}
		return cli.printRanking(ctx, *rankingLimit, college, department)
	case "sendreport":
		if err := sendReportCmd.Parse(args[2:]); err != nil {
			return errHelp
		}
		if *sendReportID == "" {
			sendReportCmd.Usage()
			return errHelp
		}
		return cli.sendReport(ctx, *sendReportID)
	default:
		cli.printUsage()
		return errHelp
	}
}
