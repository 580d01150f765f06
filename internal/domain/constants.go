package domain

// File permissions constants
const (
	// DirectoryPermissions is the default permission for directories (rwxr-xr-x)
	DirectoryPermissions = 0o755
	// FilePermissions is the permission for data files (rw-r--r--)
	FilePermissions = 0o644
	// SecureFilePermissions is the permission for sensitive files (rw-------)
	SecureFilePermissions = 0o600
)

// HTTP methods accepted by the calculation service.
const (
	MethodPost = "POST"
	MethodGet  = "GET"
)

// Storage backends
const (
	BackendMemory   = "memory"
	BackendFile     = "file"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
)

// Defaults
const (
	DefaultEndpoint       = "http://localhost:8080/calculate"
	DefaultTimeoutSeconds = 10
	DefaultStorageKey     = "weblab_results_history"
	DefaultListenAddr     = "127.0.0.1:8090"
	DefaultMaxSessions    = 1000
	DefaultYMin           = -3
	DefaultYMax           = 5
	DefaultRadius         = 2
)

// DefaultXValues are the X choices offered by the form.
var DefaultXValues = []float64{-2, -1.5, -1, -0.5, 0, 0.5, 1, 1.5, 2}

// DefaultRValues are the radius choices offered by the form.
var DefaultRValues = []float64{1, 1.5, 2, 2.5, 3}

// Query parameter names shared by the form, the transport and shareable links.
const (
	ParamX = "x"
	ParamY = "y"
	ParamR = "r"
)

// TransportErrorPrefix distinguishes transport failures from validation messages.
const TransportErrorPrefix = "Error: "
