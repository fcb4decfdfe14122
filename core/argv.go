package core

import (
	"strings"
)

// ArgScanner walks a command line one argument at a time. It supports the
// flag shapes the tools share: boolean switches, single-value flags, and
// greedy multi-value flags that consume arguments until the next option.
type ArgScanner struct {
	args []string
	pos  int
}

// NewArgScanner returns a scanner over args (typically os.Args[1:]).
func NewArgScanner(args []string) *ArgScanner {
	return &ArgScanner{args: args, pos: -1}
}

// Next advances to the next argument and returns it.
func (s *ArgScanner) Next() (string, bool) {
	if s.pos+1 >= len(s.args) {
		return "", false
	}
	s.pos++
	return s.args[s.pos], true
}

// Raw consumes the argument after the current flag without checking it.
// An absent argument yields "".
func (s *ArgScanner) Raw() string {
	v, _ := s.Next()
	return v
}

// Value consumes the argument after flag. The value may itself start with
// "-"; only an absent or empty value is an error.
func (s *ArgScanner) Value(flag string) (string, error) {
	v, ok := s.Next()
	if !ok || v == "" {
		return "", ErrInvalidArgument("Missing value for %s", flag)
	}
	return v, nil
}

// Many consumes every following argument up to (not including) the next one
// that starts with "-". At least one value is required.
func (s *ArgScanner) Many(flag string) ([]string, error) {
	var items []string
	for s.pos+1 < len(s.args) && !IsOption(s.args[s.pos+1]) {
		s.pos++
		items = append(items, s.args[s.pos])
	}
	if len(items) == 0 {
		return nil, ErrInvalidArgument("Missing files for %s", flag)
	}
	return items, nil
}

// IsOption reports whether arg looks like a flag.
func IsOption(arg string) bool {
	return strings.HasPrefix(arg, "-")
}

// ErrUnknownOption returns the usage error for an unrecognized flag.
func ErrUnknownOption(arg string) *ConfigError {
	return ErrInvalidArgument("Unknown option: %s", arg)
}
