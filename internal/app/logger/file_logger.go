package logger

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"searchbot/internal/app/helpers"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
)

const (
	PrefixError   = "ERROR!"
	PrefixWarning = "WARNING!"
)

type LoggerInterface interface {
	Println(message ...any)
	Printf(format string, args ...any)
}

type FileLogger struct {
	path         string
	isSilent     bool
	timeLocation *time.Location
	locker       *sync.Mutex
}

func NewFileLogger(fileName string, isSilent bool, timeLocation *time.Location) FileLogger {
	if !strings.HasSuffix(fileName, ".log") {
		fileName = helpers.ConcatStrings(fileName, ".log")
	}

	if timeLocation == nil {
		timeLocation = time.UTC
	}

	logsDir := filepath.Join(helpers.GetRootDirOrWorkDir(), "logs")
	if err := os.MkdirAll(logsDir, 0755); err != nil {
		fmt.Println("Unable to initialize logger:", err)
	}

	return FileLogger{
		path:         filepath.Join(logsDir, fileName),
		isSilent:     isSilent,
		timeLocation: timeLocation,
		locker:       new(sync.Mutex),
	}
}

func (l FileLogger) Println(message ...any) {
	l.locker.Lock()
	defer l.locker.Unlock()

	if !l.isSilent {
		l.echo(message...)
	}

	timestampPrefix := helpers.ConcatStrings("[", helpers.TimeToDatabase(time.Now().In(l.timeLocation)), "]: ")

	logFile, err := os.OpenFile(l.path, os.O_APPEND|os.O_WRONLY|os.O_CREATE, 0644)
	if err != nil {
		// losing the file must not stop the bot, the line goes to stderr instead
		log.New(os.Stderr, timestampPrefix, 0).Println(append([]any{"Unable to open log file:", err, "-"}, message...)...)
		return
	}

	defer logFile.Close()

	log.New(logFile, timestampPrefix, 0).Println(message...)
}

// Printf makes the logger usable where a printf-style logger is expected (e.g. cron).
func (l FileLogger) Printf(format string, args ...any) {
	l.Println(fmt.Sprintf(format, args...))
}

// Print message to stdout, highlighting errors and warnings.
func (l FileLogger) echo(message ...any) {
	if len(message) == 0 {
		fmt.Println()
		return
	}

	first, _ := message[0].(string)

	switch {
	case strings.HasPrefix(first, PrefixError):
		color.New(color.FgRed).Println(message...)
	case strings.HasPrefix(first, PrefixWarning):
		color.New(color.FgYellow).Println(message...)
	default:
		fmt.Println(message...)
	}
}
