package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/ajkula/GoLayoutView/config"
	"github.com/ajkula/GoLayoutView/domain/port/outbound"
)

type LogLevel int

const (
	LevelError LogLevel = iota
	LevelWarn
	LevelInfo
	LevelDebug
)

// represents a single log entry to be processed asynchronously
type LogMessage struct {
	Level LogLevel
	Msg   string
	Args  []any
	Time  time.Time
}

// implements the Logger interface using Go's structured logging (slog)
// with asynchronous processing to avoid blocking hot paths
type SlogAdapter struct {
	logger    *slog.Logger
	logChan   chan LogMessage
	ctx       context.Context
	cancel    context.CancelFunc
	done      chan struct{}
	slogLevel *slog.LevelVar
}

func NewSlogAdapter(cfg *config.Config) outbound.Logger {
	ctx, cancel := context.WithCancel(context.Background())

	// LevelVar allows dynamic level changes
	levelVar := &slog.LevelVar{}
	levelVar.Set(parseSlogLevel(cfg.Logging.Level))

	handlerOpts := &slog.HandlerOptions{
		Level: levelVar,
	}

	out := resolveOutput(cfg)

	var handler slog.Handler
	if strings.EqualFold(cfg.Logging.Format, "text") {
		handler = slog.NewTextHandler(out, handlerOpts)
	} else {
		handler = slog.NewJSONHandler(out, handlerOpts)
	}

	channelSize := cfg.Logging.ChannelSize
	if channelSize <= 0 {
		channelSize = 1000
	}

	adapter := &SlogAdapter{
		logger:    slog.New(handler),
		logChan:   make(chan LogMessage, channelSize),
		ctx:       ctx,
		cancel:    cancel,
		done:      make(chan struct{}),
		slogLevel: levelVar,
	}

	go adapter.processLogs()

	return adapter
}

// resolveOutput selects the log destination from the configuration
func resolveOutput(cfg *config.Config) io.Writer {
	switch strings.ToLower(cfg.Logging.Output) {
	case "stderr":
		return os.Stderr
	case "file":
		if cfg.Logging.FilePath != "" {
			f, err := os.OpenFile(cfg.Logging.FilePath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
			if err == nil {
				return f
			}
		}
		// unusable file destination, keep logs visible
		return os.Stdout
	default:
		return os.Stdout
	}
}

// updates the slog level dynamically
func (s *SlogAdapter) UpdateLevel(logLvl string) {
	normalizedLevel := strings.ToLower(logLvl)

	s.slogLevel.Set(parseSlogLevel(normalizedLevel))

	s.Info("Logger level updated dynamically", "new_level", normalizedLevel)
}

// handles messages asynchronously
func (s *SlogAdapter) processLogs() {
	defer close(s.done)

	for {
		select {
		case msg := <-s.logChan:
			s.writeLog(msg)
		case <-s.ctx.Done():
			for len(s.logChan) > 0 {
				msg := <-s.logChan
				s.writeLog(msg)
			}
			return
		}
	}
}

// converts string level to slog.Level
func parseSlogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// performs the logging operation
func (s *SlogAdapter) writeLog(msg LogMessage) {
	switch msg.Level {
	case LevelError:
		s.logger.Error(msg.Msg, msg.Args...)
	case LevelWarn:
		s.logger.Warn(msg.Msg, msg.Args...)
	case LevelInfo:
		s.logger.Info(msg.Msg, msg.Args...)
	case LevelDebug:
		s.logger.Debug(msg.Msg, msg.Args...)
	}
}

func (s *SlogAdapter) sendLog(level LogLevel, msg string, args ...any) {
	if s.ctx.Err() != nil {
		return
	}

	select {
	case s.logChan <- LogMessage{
		Level: level,
		Msg:   msg,
		Args:  args,
		Time:  time.Now(),
	}:
	default:
		// chan full
	}
}

func (s *SlogAdapter) shouldLog(level LogLevel) bool {
	switch s.slogLevel.Level() {
	case slog.LevelError:
		return level == LevelError
	case slog.LevelWarn:
		return level <= LevelWarn
	case slog.LevelInfo:
		return level <= LevelInfo
	case slog.LevelDebug:
		return level <= LevelDebug
	default:
		return level <= LevelInfo
	}
}

func (s *SlogAdapter) Error(msg string, args ...any) {
	if !s.shouldLog(LevelError) {
		return
	}
	s.sendLog(LevelError, msg, args...)
}

func (s *SlogAdapter) Warn(msg string, args ...any) {
	if !s.shouldLog(LevelWarn) {
		return
	}
	s.sendLog(LevelWarn, msg, args...)
}

func (s *SlogAdapter) Info(msg string, args ...any) {
	if !s.shouldLog(LevelInfo) {
		return
	}
	s.sendLog(LevelInfo, msg, args...)
}

func (s *SlogAdapter) Debug(msg string, args ...any) {
	if !s.shouldLog(LevelDebug) {
		return
	}
	s.sendLog(LevelDebug, msg, args...)
}

// Shutdown drains buffered entries then stops the processing goroutine
func (s *SlogAdapter) Shutdown() {
	s.cancel()

	select {
	case <-s.done:
	case <-time.After(2 * time.Second):
	}
}
