// Package logger holds the process-wide zerolog logger. Call Init once from
// main; everything else calls Get or receives the logger as a dependency.
package logger

import (
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

const defaultService = "expense-api"

type Options struct {
	// Level accepts trace, debug, info, warn (or warning), error. Anything
	// else means info.
	Level string
	// Pretty switches to zerolog's console writer for local development.
	Pretty bool
	// Output defaults to os.Stdout.
	Output io.Writer
	// Service is stamped on every entry; defaults to "expense-api".
	Service string
}

var (
	mu       sync.Mutex
	once     sync.Once
	instance zerolog.Logger
	ready    bool
)

// Init builds the logger on its first call and returns it. Later calls
// ignore their options and return the existing logger.
func Init(opts Options) zerolog.Logger {
	mu.Lock()
	defer mu.Unlock()

	once.Do(func() {
		instance = build(opts)
		ready = true
	})
	return instance
}

// Get panics before Init.
func Get() zerolog.Logger {
	mu.Lock()
	defer mu.Unlock()

	if !ready {
		panic("logger: Get called before Init")
	}
	return instance
}

// Reset lets tests call Init again.
func Reset() {
	mu.Lock()
	defer mu.Unlock()

	once = sync.Once{}
	instance = zerolog.Logger{}
	ready = false
}

func build(opts Options) zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339Nano

	out := opts.Output
	if out == nil {
		out = os.Stdout
	}
	if opts.Pretty {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	service := opts.Service
	if service == "" {
		service = defaultService
	}

	lvl := parseLevel(opts.Level)
	zerolog.SetGlobalLevel(lvl)

	return zerolog.New(out).
		Level(lvl).
		With().
		Timestamp().
		Str("service", service).
		Caller().
		Logger()
}

func parseLevel(s string) zerolog.Level {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "warning" {
		s = "warn"
	}
	// An empty string parses to NoLevel, which falls outside the range too.
	lvl, err := zerolog.ParseLevel(s)
	if err != nil || lvl < zerolog.TraceLevel || lvl > zerolog.ErrorLevel {
		return zerolog.InfoLevel
	}
	return lvl
}
