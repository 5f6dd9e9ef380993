package entry

import (
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Morgan-Stanley/binlog/errors"
)

// Severity classifies events. The values are spaced so intermediate
// levels can be added without renumbering; NoLogs sorts above every real
// level and disables logging when used as a session minimum.
type Severity uint16

const (
	Trace    Severity = 32
	Debug    Severity = 64
	Info     Severity = 96
	Warning  Severity = 128
	Error    Severity = 160
	Critical Severity = 192
	NoLogs   Severity = 255
)

// String returns the four-letter display form of the severity.
func (s Severity) String() string {
	switch s {
	case Trace:
		return "TRAC"
	case Debug:
		return "DEBG"
	case Info:
		return "INFO"
	case Warning:
		return "WARN"
	case Error:
		return "ERRO"
	case Critical:
		return "CRIT"
	case NoLogs:
		return "NONE"
	default:
		return "UNKN"
	}
}

// ParseSeverity converts a case-insensitive severity name to its value.
func ParseSeverity(name string) (Severity, error) {
	switch strings.ToLower(name) {
	case "trace":
		return Trace, nil
	case "debug":
		return Debug, nil
	case "info":
		return Info, nil
	case "warning", "warn":
		return Warning, nil
	case "error":
		return Error, nil
	case "critical":
		return Critical, nil
	case "no_logs", "none":
		return NoLogs, nil
	}
	return 0, errors.WrapInvalid(errors.ErrInvalidConfig, "Severity", "ParseSeverity", "unknown severity "+name)
}

// UnmarshalYAML implements yaml.Unmarshaler so severities can be given
// by name in configuration files.
func (s *Severity) UnmarshalYAML(value *yaml.Node) error {
	var name string
	if err := value.Decode(&name); err != nil {
		return err
	}
	sev, err := ParseSeverity(name)
	if err != nil {
		return err
	}
	*s = sev
	return nil
}
