package domain

import (
	"fmt"
	"time"
)

// LogLevel grades build log entries.
type LogLevel int

const (
	LogInfo LogLevel = iota
	LogWarning
)

func (l LogLevel) String() string {
	if l == LogWarning {
		return "WARNING"
	}
	return "INFO"
}

// LogEntry is one mission build log record.
type LogEntry struct {
	Level   LogLevel
	Time    time.Time
	Message string
}

// BuildLog records what happened while a mission was planned. Degraded-mode
// events (sequencer fallback, unconstrained transit) weaken safety
// guarantees, so they are recorded here as warnings rather than only
// written to the process log.
type BuildLog struct {
	Entries []LogEntry
}

func (b *BuildLog) Infof(format string, args ...any) {
	b.append(LogInfo, format, args...)
}

func (b *BuildLog) Warnf(format string, args ...any) {
	b.append(LogWarning, format, args...)
}

func (b *BuildLog) append(level LogLevel, format string, args ...any) {
	b.Entries = append(b.Entries, LogEntry{
		Level:   level,
		Time:    time.Now(),
		Message: fmt.Sprintf(format, args...),
	})
}

// Warnings returns the messages of all warning-level entries.
func (b *BuildLog) Warnings() []string {
	var out []string
	for _, e := range b.Entries {
		if e.Level == LogWarning {
			out = append(out, e.Message)
		}
	}
	return out
}
