package flags

import (
	"fmt"
	"os"

	"code.cloudfoundry.org/lager/v3"
	"code.cloudfoundry.org/permstore/pkg/ioutilx"
	"code.cloudfoundry.org/permstore/pkg/logx"
	"code.cloudfoundry.org/permstore/pkg/logx/lagerx"
)

type LogLevel string

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelError LogLevel = "error"
	LogLevelFatal LogLevel = "fatal"
)

type LagerFlag struct {
	LogLevel LogLevel `long:"log-level" default:"info" choice:"debug" choice:"info" choice:"error" choice:"fatal" description:"Minimum level of logs to see."`
	LogFile  string   `long:"log-file" description:"File that logs are appended to in addition to stderr"`
}

func (f LagerFlag) MinLevel() lager.LogLevel {
	switch f.LogLevel {
	case LogLevelDebug:
		return lager.DEBUG
	case LogLevelInfo:
		return lager.INFO
	case LogLevelError:
		return lager.ERROR
	case LogLevelFatal:
		return lager.FATAL
	default:
		panic(fmt.Sprintf("unknown log level: %s", f.LogLevel))
	}
}

// Logger writes to stderr, leaving stdout to command output. The log file,
// when set, stays open for the life of the process.
func (f LagerFlag) Logger(component string) (logx.Logger, error) {
	minLevel := f.MinLevel()

	logger := lager.NewLogger(component)
	logger.RegisterSink(lager.NewReconfigurableSink(lager.NewWriterSink(os.Stderr, lager.DEBUG), minLevel))

	if f.LogFile != "" {
		file, err := ioutilx.OpenLogFile(f.LogFile)
		if err != nil {
			logger.Error(failedToOpenLogFile, err, lager.Data{"path": f.LogFile})
			return nil, err
		}

		logger.RegisterSink(lager.NewWriterSink(file, minLevel))
	}

	return lagerx.NewLogger(logger), nil
}
