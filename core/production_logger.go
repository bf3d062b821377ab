package core

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"
)

// ProductionLogger is a JSON or human-readable structured logger suitable
// for production use, built by NewProductionLogger. Executor and RunStore
// default to NoOpLogger; they use a ProductionLogger only when one is
// passed to them explicitly.
type ProductionLogger struct {
	level     string
	debug     bool
	component string
	format    string
	output    io.Writer
}

// LoggingConfig controls ProductionLogger construction. Values default from
// environment variables so a binary embedding this module needs no code
// change to get JSON logs in production:
//
//	AGENTGRAPH_LOG_LEVEL  debug|info|warn|error (default "info")
//	AGENTGRAPH_LOG_FORMAT json|text              (default "text")
//
// Only the level "debug" changes what is written: it enables Debug
// entries. Info, Warn and Error entries are written at every level.
type LoggingConfig struct {
	Level  string
	Format string
	Output io.Writer
}

// DefaultLoggingConfig reads LoggingConfig from the environment, falling
// back to human-readable INFO logging on stdout.
func DefaultLoggingConfig() LoggingConfig {
	level := os.Getenv("AGENTGRAPH_LOG_LEVEL")
	if level == "" {
		level = "info"
	}
	format := os.Getenv("AGENTGRAPH_LOG_FORMAT")
	if format == "" {
		format = "text"
	}
	return LoggingConfig{Level: level, Format: format, Output: os.Stdout}
}

// NewProductionLogger builds a ComponentAwareLogger from cfg.
func NewProductionLogger(cfg LoggingConfig) ComponentAwareLogger {
	output := cfg.Output
	if output == nil {
		output = os.Stdout
	}
	return &ProductionLogger{
		level:     strings.ToLower(cfg.Level),
		debug:     strings.ToLower(cfg.Level) == "debug",
		component: "agentgraph",
		format:    cfg.Format,
		output:    output,
	}
}

// WithComponent returns a logger that tags every entry with component.
func (p *ProductionLogger) WithComponent(component string) Logger {
	clone := *p
	clone.component = component
	return &clone
}

func (p *ProductionLogger) Info(msg string, fields map[string]interface{}) {
	p.logEvent(nil, "INFO", msg, fields)
}
func (p *ProductionLogger) Warn(msg string, fields map[string]interface{}) {
	p.logEvent(nil, "WARN", msg, fields)
}
func (p *ProductionLogger) Error(msg string, fields map[string]interface{}) {
	p.logEvent(nil, "ERROR", msg, fields)
}
func (p *ProductionLogger) Debug(msg string, fields map[string]interface{}) {
	if p.debug {
		p.logEvent(nil, "DEBUG", msg, fields)
	}
}

func (p *ProductionLogger) InfoWithContext(ctx context.Context, msg string, fields map[string]interface{}) {
	p.logEvent(ctx, "INFO", msg, fields)
}
func (p *ProductionLogger) WarnWithContext(ctx context.Context, msg string, fields map[string]interface{}) {
	p.logEvent(ctx, "WARN", msg, fields)
}
func (p *ProductionLogger) ErrorWithContext(ctx context.Context, msg string, fields map[string]interface{}) {
	p.logEvent(ctx, "ERROR", msg, fields)
}
func (p *ProductionLogger) DebugWithContext(ctx context.Context, msg string, fields map[string]interface{}) {
	if p.debug {
		p.logEvent(ctx, "DEBUG", msg, fields)
	}
}

func (p *ProductionLogger) logEvent(ctx context.Context, level, msg string, fields map[string]interface{}) {
	_ = ctx // reserved for future trace-correlation fields
	timestamp := time.Now().Format(time.RFC3339)

	if p.format == "json" {
		entry := map[string]interface{}{
			"timestamp": timestamp,
			"level":     level,
			"component": p.component,
			"message":   msg,
		}
		for k, v := range fields {
			entry[k] = v
		}
		if data, err := json.Marshal(entry); err == nil {
			fmt.Fprintln(p.output, string(data))
		}
		return
	}

	var fieldStr strings.Builder
	for k, v := range fields {
		fieldStr.WriteString(fmt.Sprintf(" %s=%v", k, v))
	}
	fmt.Fprintf(p.output, "%s [%s] [%s] %s%s\n", timestamp, level, p.component, msg, fieldStr.String())
}

var _ ComponentAwareLogger = (*ProductionLogger)(nil)
