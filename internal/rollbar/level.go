package rollbar

// Level identifies the severity of one reported event.
type Level string

// Supported severities.
const (
	LevelDebug    Level = "debug"
	LevelInfo     Level = "info"
	LevelWarning  Level = "warning"
	LevelError    Level = "error"
	LevelCritical Level = "critical"
)

// Valid reports whether the level is a supported severity.
// Params: none.
// Returns: true for supported levels.
func (l Level) Valid() bool {
	switch l {
	case LevelDebug, LevelInfo, LevelWarning, LevelError, LevelCritical:
		return true
	default:
		return false
	}
}
