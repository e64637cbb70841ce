package primerplus

import "fmt"

// ConfigError is a fatal rule-table problem: a duplicate primer3 key
// emitted by two tunables or an out-of-range level index. It always
// aborts a run before any engine call.
type ConfigError struct {
	Key string
	Msg string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config error for %s: %s", e.Key, e.Msg)
}

// FormatError reports a persisted input that is missing a required
// field. Fatal for the operation that requested the input.
type FormatError struct {
	Path string
	Key  string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("%s: missing or invalid %q", e.Path, e.Key)
}
