package ffmpeg

import "strings"

// levelNames are ffmpeg's -loglevel names.
var levelNames = map[string]bool{
	"quiet":   true,
	"panic":   true,
	"fatal":   true,
	"error":   true,
	"warning": true,
	"info":    true,
	"verbose": true,
	"debug":   true,
	"trace":   true,
}

// ParseLogLevel extracts the log level from an ffmpeg output line. With
// -loglevel level+info lines look like "[info] message", or
// "[component @ 0x...] [level] message" for component logs. The level
// bracket is stripped from the returned message; a component prefix is
// kept. Lines with no recognizable level come back as info.
func ParseLogLevel(line string) (level, msg string) {
	if len(line) < 3 || line[0] != '[' {
		return "info", line
	}

	end := strings.Index(line, "] ")
	if end == -1 {
		return "info", line
	}

	if name := line[1:end]; levelNames[name] {
		return name, line[end+2:]
	}

	// First bracket is a component tag; the level may follow it
	component := line[:end+2]
	rest := line[end+2:]
	if len(rest) > 2 && rest[0] == '[' {
		if next := strings.Index(rest, "] "); next != -1 {
			if name := rest[1:next]; levelNames[name] {
				return name, component + rest[next+2:]
			}
		}
	}

	return "info", line
}
