// Package serve contains the command that runs the simulation server.
package serve

import (
	"context"
	"fmt"
	"net/http"
	_ "net/http/pprof" //nolint:gosec // by design
	"os"
	"os/signal"
	"runtime"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	otlpruntime "go.opentelemetry.io/contrib/instrumentation/runtime"

	"github.com/pobstone/racesim/log"
	"github.com/pobstone/racesim/pkg/config"
	"github.com/pobstone/racesim/pkg/events"
	"github.com/pobstone/racesim/pkg/model"
	"github.com/pobstone/racesim/pkg/race"
	"github.com/pobstone/racesim/pkg/sessions"
	"github.com/pobstone/racesim/pkg/utils"
	"github.com/pobstone/racesim/pkg/web"
)

//nolint:funlen // by design
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "starts the simulation server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return startServer()
		},
	}
	cmd.Flags().StringVarP(&config.HTTPAddr,
		"http-addr",
		"a",
		"localhost:8080",
		"HTTP API listen address")
	cmd.Flags().StringVar(&config.RaceFile,
		"race-file",
		"",
		"race definition file (yaml), empty uses the built-in circuit")
	cmd.Flags().BoolVar(&config.AutoStart,
		"auto-start",
		true,
		"start a session on boot")
	cmd.Flags().Float64Var(&config.SpeedMultiplier,
		"speed",
		1.0,
		"initial simulation time scale (0.1 - 10)")
	cmd.Flags().StringVar(&config.NatsURL,
		"nats-url",
		"",
		"NATS server URL for event publishing, empty disables publishing")
	cmd.Flags().StringVar(&config.LogLevel,
		"log-level",
		"info",
		"controls the log level (debug, info, warn, error, fatal)")
	cmd.Flags().StringVar(&config.LogFormat,
		"log-format",
		"json",
		"controls the log output format")
	cmd.Flags().StringVar(&config.LogFilters,
		"log-filters",
		"",
		"zapfilter rules applied to named loggers")
	cmd.Flags().BoolVar(&config.EnableTelemetry,
		"enable-telemetry",
		false,
		"enables telemetry")
	cmd.Flags().StringVar(&config.TelemetryEndpoint,
		"telemetry-endpoint",
		"localhost:4317",
		"Endpoint that receives open telemetry data")
	cmd.Flags().IntVar(&config.ProfilingPort,
		"profiling-port",
		0,
		"port to use for providing profiling data")
	return cmd
}

func parseLogLevel(l string, defaultVal log.Level) log.Level {
	level, err := log.ParseLevel(l)
	if err != nil {
		return defaultVal
	}
	return level
}

func setupLogger() {
	var logger *log.Logger
	switch {
	case config.LogFilters != "":
		logger = log.NewWithFilters(
			os.Stderr,
			parseLogLevel(config.LogLevel, log.InfoLevel),
			config.LogFilters,
			log.WithCaller(true),
			log.AddCallerSkip(1))
	case config.LogFormat == "json":
		logger = log.New(
			os.Stderr,
			parseLogLevel(config.LogLevel, log.InfoLevel),
			log.WithCaller(true),
			log.AddCallerSkip(1))
	default:
		logger = log.DevLogger(
			os.Stderr,
			parseLogLevel(config.LogLevel, log.DebugLevel),
			log.WithCaller(true),
			log.AddCallerSkip(1))
	}
	log.ResetDefault(logger)
}

//nolint:funlen,cyclop // by design
func startServer() error {
	setupLogger()

	var telemetry *config.Telemetry
	if config.ProfilingPort > 0 {
		log.Info("Starting profiling server on port", log.Int("port", config.ProfilingPort))
		go func() {
			//nolint:gosec // by design
			err := http.ListenAndServe(
				fmt.Sprintf("localhost:%d", config.ProfilingPort),
				nil)
			if err != nil {
				log.Error("Profiling server stopped", log.ErrorField(err))
			}
		}()
	}

	waitForRequiredServices()

	if config.EnableTelemetry {
		log.Info("Enabling telemetry")
		var err error
		if telemetry, err = config.SetupTelemetry(context.Background()); err != nil {
			log.Warn("Could not setup telemetry", log.ErrorField(err))
		}
		err = otlpruntime.Start(otlpruntime.WithMinimumReadMemStatsInterval(time.Second))
		if err != nil {
			log.Warn("Could not start runtime metrics", log.ErrorField(err))
		}
	}

	publisher, err := setupPublisher()
	if err != nil {
		return err
	}
	registry := sessions.NewRegistry(sessions.WithPublisher(publisher))

	if config.AutoStart {
		def, defErr := loadDefinition()
		if defErr != nil {
			return defErr
		}
		session, startErr := registry.Create(def,
			race.WithSpeedMultiplier(config.SpeedMultiplier))
		if startErr != nil {
			return startErr
		}
		log.Info("default session started",
			log.String("key", session.Key),
			log.String("race", def.Name))
	}

	server := web.NewServer(registry)
	go func() {
		if srvErr := server.ListenAndServe(config.HTTPAddr); srvErr != nil {
			log.Fatal("server could not be started", log.ErrorField(srvErr))
		}
	}()
	setupGoRoutinesDump()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	v := <-sigChan
	log.Debug("Got signal ", log.Any("signal", v))

	registry.Clear()
	publisher.Close()
	if telemetry != nil {
		telemetry.Shutdown()
	}
	log.Info("Server terminated")
	return nil
}

func loadDefinition() (*model.RaceDefinition, error) {
	if config.RaceFile == "" {
		return model.DefaultDefinition(), nil
	}
	log.Info("loading race definition", log.String("file", config.RaceFile))
	return model.LoadRaceDefinition(config.RaceFile)
}

func setupPublisher() (events.Publisher, error) {
	if config.NatsURL == "" {
		return events.NopPublisher{}, nil
	}
	log.Info("connecting event broker", log.String("url", config.NatsURL))
	return events.NewNatsPublisher(config.NatsURL)
}

func setupGoRoutinesDump() {
	go func() {
		sigs := make(chan os.Signal, 1)
		signal.Notify(sigs, syscall.SIGQUIT)
		buf := make([]byte, 1<<20)
		for {
			<-sigs
			stacklen := runtime.Stack(buf, true)
			fmt.Printf("=== received SIGQUIT ===\n*** goroutine dump...\n%s\n*** end\n",
				buf[:stacklen])
		}
	}()
}

func waitForRequiredServices() {
	timeout, err := time.ParseDuration(config.WaitForServices)
	if err != nil {
		log.Warn("Invalid duration value. Setting default 60s", log.ErrorField(err))
		timeout = 60 * time.Second
	}

	wg := sync.WaitGroup{}
	checkTCP := func(addr string) {
		if err = utils.WaitForTCP(addr, timeout); err != nil {
			log.Fatal("required services not ready", log.ErrorField(err))
		}
		wg.Done()
	}

	if natsAddr := utils.ExtractFromNatsURL(config.NatsURL); natsAddr != "" {
		wg.Add(1)
		go checkTCP(natsAddr)
	}
	log.Debug("Waiting for connection checks to return")
	wg.Wait()
	log.Debug("Required services are available")
}
