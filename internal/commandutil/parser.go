package commandutil

import (
	"strings"
	"unicode"
)

// Parse splits a command line into a canonical command and its argument
// tail. Command tokens are matched case-insensitively against aliases.
func Parse(line string, aliases map[string]string) (command string, arg string) {
	head, tail := splitFirst(line)
	if head == "" {
		return "", ""
	}
	return normalize(head, aliases), tail
}

// SplitArg splits an argument tail into its first word and the rest, as in
// "/set spectrum center-left".
func SplitArg(arg string) (first string, rest string) {
	return splitFirst(arg)
}

// IsCommand reports whether line looks like a slash command.
func IsCommand(line string) bool {
	return strings.HasPrefix(strings.TrimSpace(line), "/")
}

func splitFirst(line string) (string, string) {
	line = strings.TrimSpace(line)
	if line == "" {
		return "", ""
	}
	splitAt := strings.IndexFunc(line, unicode.IsSpace)
	if splitAt == -1 {
		return line, ""
	}
	return line[:splitAt], strings.TrimSpace(line[splitAt+1:])
}

func normalize(cmd string, aliases map[string]string) string {
	if len(aliases) == 0 {
		return cmd
	}
	if normalized, ok := aliases[strings.ToLower(cmd)]; ok {
		return normalized
	}
	return cmd
}
