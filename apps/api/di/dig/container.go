package dig_container

import (
	"context"
	"fmt"
	"log"
	"os"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"go.uber.org/dig"

	echoapi "github.com/trezcool/ratiba/apps/api/echo"
	"github.com/trezcool/ratiba/core"
	"github.com/trezcool/ratiba/core/dashboard"
	"github.com/trezcool/ratiba/core/schedule"
	"github.com/trezcool/ratiba/core/teacher"
	"github.com/trezcool/ratiba/core/user"
	emailsvc "github.com/trezcool/ratiba/services/email"
	logsvc "github.com/trezcool/ratiba/services/logger"
	metricsvc "github.com/trezcool/ratiba/services/metrics"
	notifysvc "github.com/trezcool/ratiba/services/notify"
	"github.com/trezcool/ratiba/storage/database"
	inmemdb "github.com/trezcool/ratiba/storage/database/inmem"
	pgdb "github.com/trezcool/ratiba/storage/database/postgres"
	redisdb "github.com/trezcool/ratiba/storage/database/redis"
	"github.com/trezcool/ratiba/storage/records"
)

type (
	// Closer releases the connection held by the store backend.
	Closer func() error

	DBLoggerParam struct {
		dig.In
		Logger core.Logger `name:"dbLogger"`
	}

	serverParams struct {
		dig.In
		Conf         *core.Config
		Logger       core.Logger
		Validate     *validator.Validate
		Translator   ut.Translator
		Metrics      *metricsvc.Metrics
		UserSvc      *user.Service
		TeacherSvc   *teacher.Service
		ScheduleSvc  *schedule.Service
		DashboardSvc *dashboard.Service
	}
)

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

// newBackend opens the store backend picked by conf.Store.Engine.
func newBackend(conf *core.Config, loggerParam DBLoggerParam) (records.Backend, Closer) {
	logger := loggerParam.Logger
	ctx := context.Background()

	switch conf.Store.Engine {
	case core.StoreMemory, "":
		logger.Info("using the in-memory store")
		return inmemdb.NewDB(), func() error { return nil }

	case core.StoreRedis:
		client, err := redisdb.Open(ctx, conf.Redis)
		if err != nil {
			logger.Fatal(fmt.Sprintf("setting up redis: %v", err), err)
		}
		logger.Info(fmt.Sprintf("using redis at %s", conf.Redis.Addr))
		return redisdb.NewDB(client, conf.Redis.KeyPrefix), client.Close

	case core.StorePostgres:
		db, err := database.Open(ctx, conf.Database)
		if err != nil {
			logger.Fatal(fmt.Sprintf("setting up database: %v", err), err)
		}
		if err = database.Migrate(db.DB); err != nil {
			logger.Fatal(fmt.Sprintf("migrating database: %v", err), err)
		}
		logger.Info(fmt.Sprintf("using postgres at %s", conf.Database.Address()))
		return pgdb.NewDB(db), db.Close
	}

	logger.Fatal(fmt.Sprintf("unknown store engine %q", conf.Store.Engine))
	return nil, nil
}

func newStore(backend records.Backend) core.RecordStore {
	return records.NewStore(backend)
}

func newUserRepository(store core.RecordStore) user.Repository {
	return records.NewUserRepository(store)
}

func newTeacherRepository(store core.RecordStore) teacher.Repository {
	return records.NewTeacherRepository(store)
}

func newSessionRepository(store core.RecordStore) schedule.Repository {
	return records.NewSessionRepository(store)
}

func newMetrics() *metricsvc.Metrics {
	return metricsvc.New("ratiba")
}

func newEmailService(conf *core.Config, logger core.Logger) core.EmailService {
	if conf.Debug {
		return emailsvc.NewConsoleService(log.New(os.Stdout, "", 0), logger, conf)
	}
	return emailsvc.NewSendgridService(logger, conf)
}

func newUserService(conf *core.Config, repo user.Repository, validate *validator.Validate, mailSvc core.EmailService) *user.Service {
	return user.NewService(repo, validate, mailSvc, user.ServiceOptions{
		SecretKey:            conf.SecretKey,
		PasswordResetTimeout: conf.PasswordResetTimeoutDelta,
		FrontendBaseURL:      conf.FrontendBaseURL,
	})
}

func newNotifier(
	teachers teacher.Repository,
	mailSvc core.EmailService,
	logger core.Logger,
	metrics *metricsvc.Metrics,
) schedule.Notifier {
	return notifysvc.New(teachers, mailSvc, logger, metrics)
}

func newScheduleService(
	conf *core.Config,
	repo schedule.Repository,
	validate *validator.Validate,
	notifier schedule.Notifier,
) *schedule.Service {
	return schedule.NewService(repo, validate,
		schedule.WithNotifier(notifier),
		schedule.WithConflictRejection(conf.Schedule.RejectConflicts),
	)
}

func newDashboardService(
	sessions schedule.Repository,
	teachers teacher.Repository,
	users user.Repository,
) *dashboard.Service {
	return dashboard.NewService(sessions, teachers, users)
}

func newServer(p serverParams) *echoapi.Server {
	return echoapi.NewServer(&echoapi.Options{
		Conf:         p.Conf,
		Logger:       p.Logger,
		Validate:     p.Validate,
		Translator:   p.Translator,
		Metrics:      p.Metrics,
		UserSvc:      p.UserSvc,
		TeacherSvc:   p.TeacherSvc,
		ScheduleSvc:  p.ScheduleSvc,
		DashboardSvc: p.DashboardSvc,
	})
}

func provideRepositories(c *dig.Container) {
	must(c.Provide(newUserRepository))
	must(c.Provide(newTeacherRepository))
	must(c.Provide(newSessionRepository))
}

// New returns a new dependency injection dig.Container
func New() *dig.Container {
	c := dig.New()

	must(c.Provide(core.NewConfig))
	must(c.Provide(newLogger))
	must(c.Provide(newDBLogger, dig.Name("dbLogger")))
	must(c.Provide(validator.New))
	must(c.Provide(core.NewTranslator))

	// storage
	must(c.Provide(newBackend))
	must(c.Provide(newStore))
	provideRepositories(c)

	// services
	must(c.Provide(newMetrics))
	must(c.Provide(newEmailService))
	must(c.Provide(newNotifier))
	must(c.Provide(newUserService))
	must(c.Provide(teacher.NewService))
	must(c.Provide(newScheduleService))
	must(c.Provide(newDashboardService))
	must(c.Provide(newServer))

	return c
}

// Init registers the validators and seeds the store when configured to.
func Init(c *dig.Container) error {
	return c.Invoke(func(
		conf *core.Config,
		logger core.Logger,
		validate *validator.Validate,
		translator ut.Translator,
		store core.RecordStore,
	) error {
		core.InitValidators(validate, translator)
		user.InitValidators(validate, translator)
		schedule.InitValidators(validate, translator)

		if !conf.Store.Seed {
			return nil
		}
		seeded, err := records.SeedDefaults(context.Background(), store)
		if err != nil {
			return errors.Wrap(err, "seeding store")
		}
		if len(seeded) > 0 {
			logger.Info(fmt.Sprintf("seeded %v", seeded))
		}
		return nil
	})
}

// must exits program if err happened
func must(err error) {
	if err != nil {
		log.Fatal(errors.Wrap(err, "failed to provide dependency").Error())
	}
}
