package main

import (
	"fmt"
	"log"
	"os"

	"github.com/hsandamith/School-Management-System/core"
	"github.com/hsandamith/School-Management-System/core/guardian"
	"github.com/hsandamith/School-Management-System/core/library"
	emailsvc "github.com/hsandamith/School-Management-System/services/email"
	logsvc "github.com/hsandamith/School-Management-System/services/logger"
	"github.com/hsandamith/School-Management-System/storage/database"
	sqlxrepos "github.com/hsandamith/School-Management-System/storage/database/sqlx"
)

func main() {
	conf, err := core.NewConfig()
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	zl := logsvc.NewZerolog(os.Stderr, conf).With().Str("component", "admin").Logger()
	logger := logsvc.NewRollbarLogger(zl, conf)
	logger.Enable(!conf.Debug && conf.RollbarToken != "")
	defer logger.Close()

	// set up DB
	db, err := database.Open(conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("opening database: %v", err), err)
	}
	defer db.Close()

	var mailSvc core.EmailService
	if conf.Debug || conf.SendgridAPIKey == "" {
		mailSvc = emailsvc.NewConsoleService(conf, logger)
	} else {
		mailSvc = emailsvc.NewSendgridService(conf, logger)
	}

	// start CLI
	cli := commandLine{
		conf:        conf,
		logger:      logger,
		db:          db,
		out:         os.Stdout,
		librarySvc:  library.NewService(conf, db, sqlxrepos.NewLibraryRepository(db), core.NewValidator(core.NewTranslator())),
		guardianSvc: guardian.NewService(db, sqlxrepos.NewGuardianRepository(db)),
		mailSvc:     mailSvc,
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Error(fmt.Sprintf("error: %v", err), err)
		}
		_ = db.Close()
		os.Exit(1)
	}
}
