package config

// this holds the resolved configuration values from CLI
var (
	CacheFile      string  // path of the bbolt database holding computed frame sequences
	SourceURL      string  // base URL of the timing service API
	LogLevel       string  // sets the log level (zap log level values)
	LogFormat      string  // text vs json
	LogFilters     string  // zapfilter rules for per-subsystem log levels
	Workers        int     // extraction worker budget (0 means number of CPU cores)
	DriverTimeout  string  // per-driver extraction timeout
	SourceRetries  int     // max retries for transient source errors
	NightThreshold float64 // solar elevation (degrees) below which a frame is night
	StintGapPolicy string  // how to handle tyre stint gaps: repair or flag
)
