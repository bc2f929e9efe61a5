package envvar

const (
	// DefaultRiskEnv is the environment variable used to determine the environment
	DefaultRiskEnv = "DEFAULTRISK_ENV"

	// DefaultRiskServerHTTPPort is the environment variable used to determine the HTTP port
	DefaultRiskServerHTTPPort = "DEFAULTRISK_SERVER_HTTP_PORT"

	// DefaultRiskServerGRPCPort is the environment variable used to determine the gRPC port
	DefaultRiskServerGRPCPort = "DEFAULTRISK_SERVER_GRPC_PORT"

	// DefaultRiskLogLevel is the environment variable used to override the log level
	DefaultRiskLogLevel = "DEFAULTRISK_LOG_LEVEL"
)
