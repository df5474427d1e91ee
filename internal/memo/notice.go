package memo

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type Level string

const (
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Notice is a user-facing message raised while processing a session.
type Notice struct {
	Level   Level  `json:"level"`
	Source  string `json:"source"`
	Message string `json:"message"`
}

// Notifier receives notices. Implementations must be safe for concurrent use.
type Notifier interface {
	Notify(Notice)
}

// Notice sources.
const (
	SourceInput     = "input"
	SourceDocument  = "document"
	SourceWebsite   = "website"
	SourceSecrets   = "secrets"
	SourceGenerator = "generator"
)

func (l Level) zerologLevel() zerolog.Level {
	switch l {
	case LevelError:
		return zerolog.ErrorLevel
	case LevelWarning:
		return zerolog.WarnLevel
	}
	return zerolog.InfoLevel
}

func notify(n Notifier, level Level, source, msg string) {
	log.WithLevel(level.zerologLevel()).Str("source", source).Msg(msg)
	if n != nil {
		n.Notify(Notice{Level: level, Source: source, Message: msg})
	}
}
