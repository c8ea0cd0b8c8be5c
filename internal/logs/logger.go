package logs

import (
	"os"

	"github.com/sirupsen/logrus"
)

// Logger is the application-wide logger. It works with defaults before Init
// so library code and tests can log without setup.
var Logger = logrus.New()

// Options configures the logger from the application config.
type Options struct {
	Level  string // trace|debug|info|warn|error|fatal
	Format string // text|json
}

// Init applies level and format to the shared logger.
func Init(opts Options) {
	switch opts.Level {
	case "trace":
		Logger.SetLevel(logrus.TraceLevel)
	case "debug":
		Logger.SetLevel(logrus.DebugLevel)
	case "warn", "warning":
		Logger.SetLevel(logrus.WarnLevel)
	case "error":
		Logger.SetLevel(logrus.ErrorLevel)
	case "fatal":
		Logger.SetLevel(logrus.FatalLevel)
	default:
		Logger.SetLevel(logrus.InfoLevel)
	}

	if opts.Format == "json" {
		Logger.SetFormatter(&logrus.JSONFormatter{})
	}

	Logger.SetOutput(os.Stdout)
}
