package di

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/ca-srg/habitflow/domain"
	"github.com/ca-srg/habitflow/domain/repository"
	"github.com/ca-srg/habitflow/infrastructure/config"
	"github.com/ca-srg/habitflow/infrastructure/logging"
	infraRepo "github.com/ca-srg/habitflow/infrastructure/repository"
	"github.com/ca-srg/habitflow/infrastructure/service"
	"github.com/ca-srg/habitflow/interface/cli"
	"github.com/ca-srg/habitflow/interface/controller"
	"github.com/ca-srg/habitflow/usecase/impl"
	usecase "github.com/ca-srg/habitflow/usecase/interface"
)

// Container is the dependency injection container
type Container struct {
	// Configuration
	config        *config.AppConfig
	configRepo    repository.ConfigRepository
	configService usecase.ConfigService

	// Repositories
	habitStore  *infraRepo.SQLiteHabitRepository
	metricsRepo repository.MetricsRepository
	csvWriter   repository.CSVWriterRepository

	// Services
	timezoneService repository.TimezoneService
	clock           service.Clock

	// Use Cases
	catchUpProcessor  usecase.CatchUpProcessor
	catchUpService    usecase.CatchUpService
	completionService usecase.CompletionService
	habitService      usecase.HabitService
	csvExportService  usecase.CSVExportService

	// Controllers
	schedulerController *controller.SchedulerController

	// Logging
	loggerFactory *logging.LoggerFactoryImpl
	logger        domain.Logger

	// Options
	debugMode bool
	configDir string
}

// ContainerOption is a function that configures the container
type ContainerOption func(*Container)

// WithDebugMode sets the debug mode
func WithDebugMode(debug bool) ContainerOption {
	return func(c *Container) {
		c.debugMode = debug
	}
}

// WithConfigDir reads and writes config.json under dir instead of ~/.config/habitflow
func WithConfigDir(dir string) ContainerOption {
	return func(c *Container) {
		c.configDir = dir
	}
}

// NewContainer creates a new DI container
func NewContainer(opts ...ContainerOption) (*Container, error) {
	container := &Container{}

	for _, opt := range opts {
		opt(container)
	}

	if err := container.initConfig(); err != nil {
		return nil, fmt.Errorf("failed to initialize config: %w", err)
	}

	if err := container.initLogging(); err != nil {
		return nil, fmt.Errorf("failed to initialize logging: %w", err)
	}

	if err := container.initDomainServices(); err != nil {
		return nil, fmt.Errorf("failed to initialize domain services: %w", err)
	}

	if err := container.initRepositories(); err != nil {
		return nil, fmt.Errorf("failed to initialize repositories: %w", err)
	}

	container.initUseCases()
	container.initControllers()

	return container, nil
}

// initConfig loads configuration; a broken file never stops the CLI
func (c *Container) initConfig() error {
	if c.configDir != "" {
		c.configRepo = infraRepo.NewJSONConfigRepositoryAt(c.configDir)
	} else {
		c.configRepo = infraRepo.NewJSONConfigRepository()
	}

	// Logging is not configured yet
	configService, err := impl.NewConfigService(c.configRepo, &logging.NoOpLogger{})
	if err != nil {
		return fmt.Errorf("failed to create config service: %w", err)
	}
	c.configService = configService

	if err := configService.EnsureConfigExists(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Failed to create config file: %v\n", err)
	}

	cfg := configService.GetConfig()
	if c.debugMode {
		if cfg.Logging == nil {
			cfg.Logging = &config.LoggingConfig{Level: "debug"}
		}
		cfg.Logging.Level = "debug"
		cfg.Logging.Debug = true
	}

	c.config = cfg
	return nil
}

// initLogging initializes logging components
func (c *Container) initLogging() error {
	if c.config.Logging == nil {
		c.config.Logging = &config.LoggingConfig{Level: "warn"}
	}

	c.loggerFactory = logging.NewLoggerFactory(c.config.Logging)
	c.logger = c.loggerFactory.CreateLogger("habitflow")
	return nil
}

// initDomainServices initializes the timezone service and the clock
func (c *Container) initDomainServices() error {
	c.timezoneService = service.NewTimezoneServiceImpl(c.loggerFactory.CreateLogger("timezone"))

	clock, err := service.NewClock(c.config.Now)
	if err != nil {
		return err
	}
	if _, fixed := clock.(*service.FixedClock); fixed {
		c.logger.Warn(context.Background(), "Clock override active",
			domain.NewField("now", c.config.Now))
	}
	c.clock = clock
	return nil
}

// initRepositories opens the habit store and the metrics sink
func (c *Container) initRepositories() error {
	store, err := infraRepo.NewSQLiteHabitRepository(
		config.ExpandPath(c.config.Database.Path), c.config.Database.BusyTimeoutMs)
	if err != nil {
		return err
	}
	c.habitStore = store

	c.metricsRepo = infraRepo.NewNoOpMetricsRepository()
	if c.config.Prometheus != nil && c.config.Prometheus.RemoteWriteURL != "" {
		metricsRepo, err := infraRepo.NewPrometheusMetricsRepository(c.config.Prometheus)
		if err != nil {
			// Gauges are best effort
			c.logger.Warn(context.Background(), "Prometheus remote write disabled",
				domain.ErrorField(err))
		} else {
			c.metricsRepo = metricsRepo
		}
	}

	c.csvWriter = infraRepo.NewCSVWriterRepository(c.loggerFactory.CreateLogger("csv"))
	return nil
}

// initUseCases initializes use case implementations
func (c *Container) initUseCases() {
	c.catchUpProcessor = impl.NewCatchUpProcessor(c.config.CatchUp.MaxCatchUpDays, c.timezoneService)

	catchUp := impl.NewCatchUpService(
		c.habitStore,
		c.metricsRepo,
		c.timezoneService,
		c.catchUpProcessor,
		c.config.CatchUp,
		c.loggerFactory.CreateLogger("catchup"),
	)
	c.catchUpService = catchUp

	c.completionService = impl.NewCompletionService(
		c.habitStore,
		catchUp,
		c.timezoneService,
		c.config.CatchUp,
		c.loggerFactory.CreateLogger("completion"),
	)

	c.habitService = impl.NewHabitService(
		c.habitStore,
		c.habitStore,
		c.timezoneService,
		c.loggerFactory.CreateLogger("habit"),
	)

	c.csvExportService = impl.NewCSVExportService(
		c.habitStore,
		c.habitStore,
		c.csvWriter,
		c.timezoneService,
		c.config.CSVExport,
		c.loggerFactory.CreateLogger("export"),
	)
}

// initControllers initializes the scheduler for serve mode
func (c *Container) initControllers() {
	loc, _ := c.timezoneService.LoadLocation(c.config.Timezone)
	c.schedulerController = controller.NewSchedulerController(
		c.catchUpService,
		c.config,
		loc,
		c.clock.Now,
		c.loggerFactory.CreateLogger("scheduler"),
	)
}

// Services bundles the use cases for the command line
func (c *Container) Services() *cli.Services {
	return &cli.Services{
		Habits:     c.habitService,
		CatchUp:    c.catchUpService,
		Completion: c.completionService,
		Export:     c.csvExportService,
		Config:     c.configService,
		Scheduler:  c.schedulerController,
		Now:        c.clock.Now,
	}
}

// GetConfig returns the application configuration
func (c *Container) GetConfig() *config.AppConfig {
	return c.config
}

// GetConfigService returns the config service
func (c *Container) GetConfigService() usecase.ConfigService {
	return c.configService
}

// GetCatchUpService returns the catch-up service
func (c *Container) GetCatchUpService() usecase.CatchUpService {
	return c.catchUpService
}

// GetSchedulerController returns the scheduler controller
func (c *Container) GetSchedulerController() *controller.SchedulerController {
	return c.schedulerController
}

// GetTimezoneService returns the timezone service
func (c *Container) GetTimezoneService() repository.TimezoneService {
	return c.timezoneService
}

// GetLogger returns the main logger
func (c *Container) GetLogger() domain.Logger {
	return c.logger
}

// CreateLogger creates a logger for a specific component
func (c *Container) CreateLogger(component string) domain.Logger {
	return c.loggerFactory.CreateLogger(component)
}

// Close releases the store, the metrics client and buffered log clients
func (c *Container) Close() error {
	var errs []error
	if c.metricsRepo != nil {
		if err := c.metricsRepo.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close metrics: %w", err))
		}
	}
	if c.habitStore != nil {
		if err := c.habitStore.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close store: %w", err))
		}
	}
	if c.loggerFactory != nil {
		done := make(chan struct{})
		go func() {
			_ = c.loggerFactory.Shutdown()
			close(done)
		}()
		select {
		case <-done:
		case <-time.After(5 * time.Second):
			errs = append(errs, errors.New("timed out flushing logs"))
		}
	}
	return errors.Join(errs...)
}
