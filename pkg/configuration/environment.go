package configuration

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/fleetdock/fleetdock/pkg/logging"
)

const Production = "production"

var singleton = sync.OnceValue(func() *Configuration {
	c := &Configuration{}
	if err := c.load([]string{".env", ".env.local"}); err != nil {
		c.Unload()
		panic(err)
	}
	return c
})

func LoadEnv(envFiles []string) (int, error) {
	existingFiles := make([]string, 0, len(envFiles))
	for _, file := range envFiles {
		if _, err := os.Stat(file); err == nil {
			existingFiles = append(existingFiles, file)
		}
	}
	if len(existingFiles) == 0 {
		return 0, nil
	}
	return len(existingFiles), godotenv.Load(existingFiles...)
}

type DatabaseOptions struct {
	Opts     string `env:"-"`
	Name     string `env:"DB_NAME" envDefault:"fleetdock"`
	Host     string `env:"DB_HOST" envDefault:"localhost"`
	Port     string `env:"DB_PORT" envDefault:"5432"`
	User     string `env:"DB_USER" envDefault:"postgres"`
	Password string `env:"DB_PASSWORD" envDefault:"postgres"`
}

func (d *DatabaseOptions) ConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s dbname=%s password=%s sslmode=disable",
		d.Host, d.Port, d.User, d.Name, d.Password,
	)
}

type OpenAIOptions struct {
	Key   string `env:"OPENAI_KEY"`
	Model string `env:"OPENAI_MODEL" envDefault:"gpt-4o"`
}

type DriveOptions struct {
	CredentialsPath string `env:"DRIVE_CREDENTIALS_PATH"`
	CredentialsJSON string `env:"DRIVE_CREDENTIALS_JSON"`
	FolderID        string `env:"DRIVE_FOLDER_ID"`
	UploadWorkers   int    `env:"DRIVE_UPLOAD_WORKERS" envDefault:"4"`
}

func (d *DriveOptions) Configured() bool {
	return d.CredentialsPath != "" || d.CredentialsJSON != ""
}

// BatchOptions tune the document batch upload pipeline. The inter-unit delay
// is a deliberate rate limit on the analyze endpoint, not a lock.
type BatchOptions struct {
	InterUnitDelay    time.Duration `env:"BATCH_INTER_UNIT_DELAY" envDefault:"1s"`
	MaxUploadSize     int64         `env:"BATCH_MAX_UPLOAD_SIZE" envDefault:"33554432"`
	AllowedExtensions string        `env:"BATCH_ALLOWED_EXTENSIONS" envDefault:".pdf,.png,.jpg,.jpeg"`
	MaxUnits          int           `env:"BATCH_MAX_UNITS" envDefault:"20"`
}

func (b *BatchOptions) Extensions() []string {
	parts := strings.Split(b.AllowedExtensions, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.ToLower(strings.TrimSpace(p))
		if p == "" {
			continue
		}
		if !strings.HasPrefix(p, ".") {
			p = "." + p
		}
		out = append(out, p)
	}
	return out
}

func (b *BatchOptions) Validate() error {
	if b.InterUnitDelay < 0 {
		return fmt.Errorf("batch inter-unit delay must be non-negative, got %s", b.InterUnitDelay)
	}
	if b.MaxUploadSize <= 0 {
		return fmt.Errorf("batch max upload size must be positive, got %d", b.MaxUploadSize)
	}
	if len(b.Extensions()) == 0 {
		return fmt.Errorf("batch allowed extensions must not be empty")
	}
	return nil
}

type PrometheusOptions struct {
	Enabled bool   `env:"PROMETHEUS_METRICS_ENABLED" envDefault:"false"`
	Path    string `env:"PROMETHEUS_METRICS_PATH" envDefault:"/debug/prometheus"`
}

type OpenTelemetryOptions struct {
	Enabled     bool   `env:"OTEL_ENABLED" envDefault:"false"`
	Endpoint    string `env:"OTEL_ENDPOINT" envDefault:"localhost:4318"`
	ServiceName string `env:"OTEL_SERVICE_NAME" envDefault:"fleetdock"`
}

type Configuration struct {
	Database      DatabaseOptions
	OpenAI        OpenAIOptions
	Drive         DriveOptions
	Batch         BatchOptions
	Prometheus    PrometheusOptions
	OpenTelemetry OpenTelemetryOptions

	ServerPort       int    `env:"PORT" envDefault:"3200"`
	GoAppEnvironment string `env:"GO_APP_ENV" envDefault:"development"`
	SocketAddress    string `env:"-"`
	Domain           string `env:"DOMAIN" envDefault:"localhost"`
	PageSize         int    `env:"PAGE_SIZE" envDefault:"25"`
	MaxPageSize      int    `env:"MAX_PAGE_SIZE" envDefault:"100"`
	LogLevel         string `env:"LOG_LEVEL" envDefault:"error"`
	LogPath          string `env:"LOG_PATH" envDefault:"./logs/app.log"`
	// Incoming header carrying the request id; a uuidv4 is generated when absent.
	RequestIDHeader string `env:"REQUEST_ID_HEADER" envDefault:"X-Request-ID"`
	// Incoming header carrying the real client IP behind a proxy.
	RealIPHeader string `env:"REAL_IP_HEADER" envDefault:"X-Real-IP"`
	// Header set by the fronting proxy identifying the acting user.
	ActorHeader string `env:"ACTOR_HEADER" envDefault:"X-Acting-User"`

	logFile *os.File
	logger  *logrus.Logger
}

func (c *Configuration) Logger() *logrus.Logger {
	return c.logger
}

func (c *Configuration) LogrusLogLevel() logrus.Level {
	switch c.LogLevel {
	case "silent":
		return logrus.PanicLevel
	case "error":
		return logrus.ErrorLevel
	case "warn":
		return logrus.WarnLevel
	case "info":
		return logrus.InfoLevel
	case "debug":
		return logrus.DebugLevel
	default:
		return logrus.ErrorLevel
	}
}

func Use() *Configuration {
	return singleton()
}

func (c *Configuration) load(envFiles []string) error {
	n, err := LoadEnv(envFiles)
	if err != nil {
		return err
	}
	if n == 0 {
		wd, _ := os.Getwd()
		log.Println("No .env files found. Tried:")
		for _, file := range envFiles {
			log.Println(filepath.Join(wd, file))
		}
	}
	if err := env.Parse(c); err != nil {
		return err
	}

	if err := c.Batch.Validate(); err != nil {
		return fmt.Errorf("batch configuration error: %w", err)
	}

	f, logger, err := logging.FileLogger(c.LogrusLogLevel(), c.LogPath)
	if err != nil {
		return err
	}
	c.logFile = f
	c.logger = logger

	c.Database.Opts = c.Database.ConnectionString()
	if c.GoAppEnvironment == Production {
		c.SocketAddress = fmt.Sprintf(":%d", c.ServerPort)
	} else {
		c.SocketAddress = fmt.Sprintf("localhost:%d", c.ServerPort)
	}

	return nil
}

// Unload handles a graceful shutdown.
func (c *Configuration) Unload() {
	if c.logFile != nil {
		if err := c.logFile.Close(); err != nil {
			log.Printf("Failed to close log file: %v", err)
		}
	}
}
