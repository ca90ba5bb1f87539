package dig_container

import (
	"fmt"
	"log"
	"os"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"go.uber.org/dig"

	echoapi "github.com/academia/scipoints/apps/api/echo"
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

type DBLoggerParam struct {
	dig.In
	Logger core.Logger `name:"dbLogger"`
}

func newLogger(conf *core.Config) core.Logger {
	stdLogger := log.New(os.Stdout, "API : ", log.LstdFlags)
	logger := logsvc.NewRollbarLogger(stdLogger, conf)
	logger.Enable(!conf.Debug)
	return logger
}

func newDBLogger(conf *core.Config) core.Logger {
	stdLogger := log.New(os.Stdout, "DB : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	logger := logsvc.NewRollbarLogger(stdLogger, conf)
	logger.Enable(!conf.Debug)
	return logger
}

func newDB(conf *core.Config, loggerParam DBLoggerParam) (*sqlx.DB, core.DBExecutor) {
	setUp := func() (*sqlx.DB, error) {
		if err := database.CreateIfNotExist(conf); err != nil {
			return nil, err
		}

		db, err := database.Open(conf)
		if err != nil {
			return nil, err
		}

		if err = database.Migrate(db); err != nil {
			return nil, err
		}
		return db, nil
	}

	db, err := setUp()
	if err != nil {
		loggerParam.Logger.Fatal(fmt.Sprintf("setting up database: %v", err), err)
	}
	return db, db
}

func newEmailService(conf *core.Config, logger core.Logger) core.EmailService {
	if conf.Debug {
		return emailsvc.NewConsoleService(conf, logger)
	}
	return emailsvc.NewSendgridService(conf, logger)
}

func newTranslator() ut.Translator {
	return core.NewTranslator()
}

func newPointsTable(conf *core.Config) (*points.Table, error) {
	return points.NewTableFromConfig(conf, appfs.FS)
}

func newRankingService(
	rSvc *researcher.Service,
	aSvc *activity.Service,
	aggregator *points.Aggregator,
	logger core.Logger,
	conf *core.Config,
) *ranking.Service {
	return ranking.NewService(rSvc, aSvc, aggregator, logger, conf.Ranking)
}

func newServerDeps(
	conf *core.Config,
	logger core.Logger,
	validate *validator.Validate,
	translator ut.Translator,
	rSvc *researcher.Service,
	aSvc *activity.Service,
	rankSvc *ranking.Service,
) echoapi.ServerDeps {
	return echoapi.ServerDeps{
		Conf:          conf,
		Logger:        logger,
		Validate:      validate,
		Translator:    translator,
		ResearcherSvc: rSvc,
		ActivitySvc:   aSvc,
		RankingSvc:    rankSvc,
	}
}

// New returns a new dependency injection dig.Container
func New() *dig.Container {
	c := dig.New()

	must(c.Provide(core.NewConfig))
	must(c.Provide(newLogger))
	must(c.Provide(newDBLogger, dig.Name("dbLogger")))
	must(c.Provide(newDB))
	must(c.Provide(newEmailService))
	must(c.Provide(sqlxrepos.NewResearcherRepository, dig.As(new(researcher.Repository))))
	must(c.Provide(sqlxrepos.NewActivityRepository, dig.As(new(activity.Repository))))
	must(c.Provide(validator.New))
	must(c.Provide(newTranslator))
	must(c.Provide(researcher.NewService))
	must(c.Provide(activity.NewService))
	must(c.Provide(newPointsTable))
	must(c.Provide(points.NewAggregator))
	must(c.Provide(newRankingService))
	must(c.Provide(newServerDeps))
	must(c.Provide(echoapi.NewServer))

	return c
}

// must exits program if err happened
func must(err error) {
	if err != nil {
		log.Fatal(errors.Wrap(err, "failed to provide dependency").Error())
	}
}
