package main

import (
	"fmt"
	"log"
	"os"

	"github.com/academia/scipoints/core"
	"github.com/academia/scipoints/core/activity"
	"github.com/academia/scipoints/core/points"
	"github.com/academia/scipoints/core/ranking"
	"github.com/academia/scipoints/core/researcher"
	appfs "github.com/academia/scipoints/fs"
	emailsvc "github.com/academia/scipoints/services/email"
	logsvc "github.com/academia/scipoints/services/logger"
	"github.com/academia/scipoints/storage/database"
	sqlxrepos "github.com/academia/scipoints/storage/database/sqlx"
)

func main() {
	conf := core.NewConfig()

	logger := logsvc.NewRollbarLogger(
		log.New(os.Stderr, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	logger.Enable(!conf.Debug)

	// set up DB
	db, err := database.Open(conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("opening database: %v", err), err)
	}

	// set up services
	table, err := points.NewTableFromConfig(conf, appfs.FS)
	if err != nil {
		logger.Fatal(fmt.Sprintf("loading points weights: %v", err), err)
	}
	var mailSvc core.EmailService
	if conf.Debug {
		mailSvc = emailsvc.NewConsoleService(conf, logger)
	} else {
		mailSvc = emailsvc.NewSendgridService(conf, logger)
	}
	rSvc := researcher.NewService(sqlxrepos.NewResearcherRepository(db))
	aSvc := activity.NewService(sqlxrepos.NewActivityRepository(db))

	core.ParseEmailTemplates(appfs.FS, conf, logger)

	// start CLI
	cli := commandLine{
		db:            db.DB,
		researcherSvc: rSvc,
		rankingSvc:    ranking.NewService(rSvc, aSvc, points.NewAggregator(table), logger, conf.Ranking),
		mailSvc:       mailSvc,
		out:           os.Stdout,
		outFd:         int(os.Stdout.Fd()),
	}
	err = cli.run(os.Args)
	if cErr := db.Close(); cErr != nil {
		logger.Error("closing database", cErr)
	}
	if err != nil {
		if err != errHelp {
			logger.Error(fmt.Sprintf("error: %v", err), err)
		}
		os.Exit(1)
	}
}
