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

	echoapi "github.com/hsandamith/School-Management-System/apps/api/echo"
	"github.com/hsandamith/School-Management-System/core"
	"github.com/hsandamith/School-Management-System/core/class"
	"github.com/hsandamith/School-Management-System/core/dashboard"
	"github.com/hsandamith/School-Management-System/core/guardian"
	"github.com/hsandamith/School-Management-System/core/library"
	"github.com/hsandamith/School-Management-System/core/payroll"
	"github.com/hsandamith/School-Management-System/core/pupil"
	"github.com/hsandamith/School-Management-System/core/staff"
	emailsvc "github.com/hsandamith/School-Management-System/services/email"
	logsvc "github.com/hsandamith/School-Management-System/services/logger"
	"github.com/hsandamith/School-Management-System/storage/database"
	sqlxrepos "github.com/hsandamith/School-Management-System/storage/database/sqlx"
)

type DBLoggerParam struct {
	dig.In
	Logger core.Logger `name:"dbLogger"`
}

type serverParams struct {
	dig.In

	Conf       *core.Config
	Logger     core.Logger
	Validate   *validator.Validate
	Translator ut.Translator

	ClassSvc     class.ServiceInterface
	GuardianSvc  guardian.ServiceInterface
	PupilSvc     pupil.ServiceInterface
	LibrarySvc   library.ServiceInterface
	StaffSvc     staff.ServiceInterface
	PayrollSvc   payroll.ServiceInterface
	DashboardSvc dashboard.ServiceInterface
}

func newRollbarLogger(conf *core.Config, component string) *logsvc.RollbarLogger {
	zl := logsvc.NewZerolog(os.Stdout, conf).With().Str("component", component).Logger()
	logger := logsvc.NewRollbarLogger(zl, conf)
	logger.Enable(!conf.Debug && conf.RollbarToken != "")
	return logger
}

func newLogger(conf *core.Config) core.Logger {
	return newRollbarLogger(conf, "api")
}

func newDBLogger(conf *core.Config) core.Logger {
	return newRollbarLogger(conf, "db")
}

// newDB exposes the same pool as *sqlx.DB (for closing) and as core.DB (for services).
func newDB(conf *core.Config, loggerParam DBLoggerParam) (*sqlx.DB, core.DB, core.DBExecutor) {
	setUp := func() (*sqlx.DB, error) {
		if conf.Database.AutoCreate {
			if err := database.CreateIfNotExist(conf); err != nil {
				return nil, err
			}
		}

		db, err := database.Open(conf)
		if err != nil {
			return nil, err
		}

		if err = database.Migrate(db); err != nil {
			_ = db.Close()
			return nil, err
		}
		return db, nil
	}

	db, err := setUp()
	if err != nil {
		loggerParam.Logger.Fatal(fmt.Sprintf("setting up database: %v", err), err)
	}
	return db, db, db
}

func newEmailService(conf *core.Config, logger core.Logger) core.EmailService {
	if conf.Debug || conf.SendgridAPIKey == "" {
		return emailsvc.NewConsoleService(conf, logger)
	}
	return emailsvc.NewSendgridService(conf, logger)
}

func newServer(p serverParams) *echoapi.Server {
	return echoapi.NewServer(echoapi.ServerDeps{
		Conf:         p.Conf,
		Logger:       p.Logger,
		Validate:     p.Validate,
		Translator:   p.Translator,
		ClassSvc:     p.ClassSvc,
		GuardianSvc:  p.GuardianSvc,
		PupilSvc:     p.PupilSvc,
		LibrarySvc:   p.LibrarySvc,
		StaffSvc:     p.StaffSvc,
		PayrollSvc:   p.PayrollSvc,
		DashboardSvc: p.DashboardSvc,
	})
}

// New returns a new dependency injection dig.Container
func New() *dig.Container {
	c := dig.New()

	must(c.Provide(core.NewConfig))
	must(c.Provide(newLogger))
	must(c.Provide(newDBLogger, dig.Name("dbLogger")))
	must(c.Provide(newDB))
	must(c.Provide(newEmailService))
	must(c.Provide(core.NewTranslator))
	must(c.Provide(core.NewValidator))

	// repositories
	must(c.Provide(sqlxrepos.NewClassRepository, dig.As(new(class.Repository))))
	must(c.Provide(sqlxrepos.NewGuardianRepository, dig.As(new(guardian.Repository))))
	must(c.Provide(sqlxrepos.NewPupilRepository, dig.As(new(pupil.Repository))))
	must(c.Provide(sqlxrepos.NewLibraryRepository, dig.As(new(library.Repository))))
	must(c.Provide(sqlxrepos.NewStaffRepository, dig.As(new(staff.Repository))))
	must(c.Provide(sqlxrepos.NewPayrollRepository, dig.As(new(payroll.Repository))))
	must(c.Provide(sqlxrepos.NewDashboardRepository, dig.As(new(dashboard.Repository))))

	// services
	must(c.Provide(class.NewService, dig.As(new(class.ServiceInterface))))
	must(c.Provide(guardian.NewService, dig.As(new(guardian.ServiceInterface))))
	must(c.Provide(pupil.NewService, dig.As(new(pupil.ServiceInterface))))
	must(c.Provide(library.NewService, dig.As(new(library.ServiceInterface))))
	must(c.Provide(staff.NewService, dig.As(new(staff.ServiceInterface))))
	must(c.Provide(payroll.NewService, dig.As(new(payroll.ServiceInterface))))
	must(c.Provide(dashboard.NewService, dig.As(new(dashboard.ServiceInterface))))

	must(c.Provide(newServer))

	return c
}

// must exits program if err happened
func must(err error) {
	if err != nil {
		log.Fatal(errors.Wrap(err, "failed to provide dependency").Error())
	}
}
