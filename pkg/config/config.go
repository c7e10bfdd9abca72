package config

// this holds the resolved configuration values from CLI
var (
	RaceFile          string  // path to a race definition file (yaml), empty = built-in default
	HTTPAddr          string  // listen addr for the HTTP API
	NatsURL           string  // NATS server URL, empty disables publishing
	WaitForServices   string  // duration to wait for other services to be ready
	LogLevel          string  // sets the log level (zap log level values)
	LogFormat         string  // text vs json
	LogFilters        string  // zapfilter rules for namespaced loggers
	EnableTelemetry   bool    // enable telemetry
	TelemetryEndpoint string  // endpoint for telemetry
	ProfilingPort     int     // port for profiling
	SpeedMultiplier   float64 // initial simulation time scale
	AutoStart         bool    // start the default session on boot
)
