// Package wire provides dependency injection for the blotter application.
// It creates singleton services with lazy initialization.
package wire

import (
	"context"
	"database/sql"
	"io"
	"log"
	"os"
	"sync"

	"golang.org/x/crypto/bcrypt"

	cliadapter "github.com/example/blotter/internal/adapters/cli"
	"github.com/example/blotter/internal/adapters/peerfile"
	"github.com/example/blotter/internal/adapters/sqlite"
	"github.com/example/blotter/internal/app"
	"github.com/example/blotter/internal/config"
	"github.com/example/blotter/internal/ctxutil"
	"github.com/example/blotter/internal/db"
	"github.com/example/blotter/internal/live"
	"github.com/example/blotter/internal/logger"
	"github.com/example/blotter/internal/metrics"
	"github.com/example/blotter/internal/ports/primary"
)

var (
	cfg *config.Config

	appDB     *sql.DB
	appLogger *logger.Logger
	appHub    *live.Hub
	appStats  *metrics.Metrics
	store     *sqlite.Store
	runtime   app.Runtime

	caseService         primary.CaseService
	personService       primary.PersonService
	partyService        primary.PartyService
	respondentService   primary.RespondentService
	summonsService      primary.SummonsService
	hearingService      primary.HearingService
	mediationService    primary.MediationService
	kpformService       primary.KPFormService
	officerService      primary.OfficerService
	notificationService primary.NotificationService
	templateService     primary.TemplateService
	bootstrapService    primary.BootstrapService

	once sync.Once
)

// Configure sets the configuration used on first initialization. Calls after
// the first service lookup have no effect.
func Configure(c *config.Config) {
	cfg = c
}

// Config returns the effective configuration, loading it from the working
// directory when Configure was never called.
func Config() *config.Config {
	if cfg == nil {
		dir, _ := os.Getwd()
		loaded, err := config.Load(dir)
		if err != nil {
			log.Fatalf("failed to load configuration: %v", err)
		}
		cfg = loaded
	}
	return cfg
}

// DB returns the migrated shared database handle.
func DB() *sql.DB {
	once.Do(initServices)
	return appDB
}

// Logger returns the application logger.
func Logger() *logger.Logger {
	once.Do(initServices)
	return appLogger
}

// Hub returns the live-view hub that committed writes publish to.
func Hub() *live.Hub {
	once.Do(initServices)
	return appHub
}

// Metrics returns the process metrics registry.
func Metrics() *metrics.Metrics {
	once.Do(initServices)
	return appStats
}

// CaseService returns the singleton CaseService instance.
func CaseService() primary.CaseService {
	once.Do(initServices)
	return caseService
}

// PersonService returns the singleton PersonService instance.
func PersonService() primary.PersonService {
	once.Do(initServices)
	return personService
}

// PartyService returns the singleton PartyService instance.
func PartyService() primary.PartyService {
	once.Do(initServices)
	return partyService
}

// RespondentService returns the singleton RespondentService instance.
func RespondentService() primary.RespondentService {
	once.Do(initServices)
	return respondentService
}

// SummonsService returns the singleton SummonsService instance.
func SummonsService() primary.SummonsService {
	once.Do(initServices)
	return summonsService
}

// HearingService returns the singleton HearingService instance.
func HearingService() primary.HearingService {
	once.Do(initServices)
	return hearingService
}

// MediationService returns the singleton MediationService instance.
func MediationService() primary.MediationService {
	once.Do(initServices)
	return mediationService
}

// KPFormService returns the singleton KPFormService instance.
func KPFormService() primary.KPFormService {
	once.Do(initServices)
	return kpformService
}

// OfficerService returns the singleton OfficerService instance.
func OfficerService() primary.OfficerService {
	once.Do(initServices)
	return officerService
}

// NotificationService returns the singleton NotificationService instance.
func NotificationService() primary.NotificationService {
	once.Do(initServices)
	return notificationService
}

// TemplateService returns the singleton TemplateService instance.
func TemplateService() primary.TemplateService {
	once.Do(initServices)
	return templateService
}

// BootstrapService returns the singleton BootstrapService instance.
func BootstrapService() primary.BootstrapService {
	once.Do(initServices)
	return bootstrapService
}

// SyncService returns a SyncService reading the peer snapshot at peerPath.
// Each call creates a new service since the peer differs per invocation.
func SyncService(peerPath string) primary.SyncService {
	once.Do(initServices)
	return app.NewSyncService(runtime, peerfile.NewStore(peerPath), app.SyncRepos{
		Cases:       store.Cases,
		Persons:     store.Persons,
		Officers:    store.Officers,
		Respondents: store.Respondents,
		Hearings:    store.Hearings,
		Summons:     store.Summons,
		Users:       store.Users,
	})
}

// CaseAdapter returns a new CaseAdapter writing to stdout.
// Each call creates a new adapter (adapters are stateless translators).
func CaseAdapter() *cliadapter.CaseAdapter {
	return CaseAdapterWithOutput(os.Stdout)
}

// CaseAdapterWithOutput returns a new CaseAdapter writing to the given output.
// This variant allows testing or alternate output destinations.
func CaseAdapterWithOutput(out io.Writer) *cliadapter.CaseAdapter {
	once.Do(initServices)
	return cliadapter.NewCaseAdapter(caseService, out)
}

// ActorContext returns ctx carrying the configured actor. The actor is linked to
// the user account of the same name when one exists.
func ActorContext(ctx context.Context) context.Context {
	once.Do(initServices)
	c := Config()
	actor := ctxutil.Actor{Name: c.Actor, Role: c.ActorRole()}
	if u, err := store.Users.GetByUsername(ctx, c.Actor); err == nil {
		actor.UserID = &u.ID
		actor.Role = u.Role
	}
	return ctxutil.WithActor(ctx, actor)
}

// Close flushes the logger and closes the shared database handle.
func Close() error {
	if appLogger != nil {
		appLogger.Sync()
	}
	return db.CloseShared()
}

// initServices initializes all services and their dependencies.
// This is called once via sync.Once.
func initServices() {
	c := Config()

	l, err := logger.New(c.LogMode)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	appLogger = l
	appStats = metrics.New()
	appHub = live.NewHub(appLogger)

	// Get database connection; migrations run before it is returned.
	database, err := db.Shared(context.Background(), db.Options{
		Path:                    c.DBPath,
		AllowDestructiveRebuild: c.AllowDestructiveRebuild,
		Logger:                  appLogger,
		Metrics:                 appStats,
	})
	if err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}
	appDB = database

	// Create repository adapters (secondary ports) over the shared handle.
	store = sqlite.NewStore(database, sqlite.Options{
		Publisher: appHub,
		Logger:    appLogger,
		Metrics:   appStats,
	})

	// Create effect executor with injected repositories
	runtime = app.Runtime{
		Tx:      store.Tx,
		Exec:    app.NewEffectExecutor(store.Audit, store.Notifications, store.Sms, appLogger, appStats),
		Log:     appLogger,
		Metrics: appStats,
	}

	// Create services (primary ports implementation)
	caseService = app.NewCaseService(runtime, app.CaseRepos{
		Cases:         store.Cases,
		Officers:      store.Officers,
		Resolutions:   store.Resolutions,
		Templates:     store.Templates,
		Respondents:   store.Respondents,
		Summons:       store.Summons,
		Hearings:      store.Hearings,
		Notifications: store.Notifications,
		Audit:         store.Audit,
	}, appHub)
	personService = app.NewPersonService(runtime, store.Persons, store.Cases, store.Audit)
	partyService = app.NewPartyService(runtime, store.Cases, store.Persons, store.Suspects, store.Witnesses, store.Evidence)
	respondentService = app.NewRespondentService(runtime, store.Cases, store.Persons, store.Respondents, store.Statements)
	summonsService = app.NewSummonsService(runtime, store.Cases, store.Persons, store.Respondents, store.Summons)
	hearingService = app.NewHearingService(runtime, store.Cases, store.Hearings)
	mediationService = app.NewMediationService(runtime, store.Cases, store.Mediations)
	kpformService = app.NewKPFormService(runtime, store.Cases, store.KPForms)
	officerService = app.NewOfficerService(runtime, store.Officers, store.Cases)
	notificationService = app.NewNotificationService(runtime, store.Notifications, store.Sms)
	templateService = app.NewTemplateService(runtime, store.Templates)
	bootstrapService = app.NewBootstrapService(runtime, store.Statuses, store.Users, app.AdminSeed{
		Username: c.AdminUsername,
		Password: c.AdminPassword,
		Cost:     bcrypt.DefaultCost,
	})
}
