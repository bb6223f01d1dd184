package cli

import (
	"strings"

	"github.com/google/shlex"
)

// Tokenize splits one command line. The live UART path only ever sees
// plain space-separated ASCII (no quoting on a physical terminal), so it
// takes the cheap strings.Fields path; scripted/self-test fixtures that
// want quoted multi-word tokens go through shlex.Split.
func Tokenize(line string) []string {
	return strings.Fields(line)
}

// TokenizeShell parses line with shell-style quoting rules, for
// self-test/scripted-CLI fixtures that need to embed spaces in a single
// token (e.g. a quoted user first/last name during `admin users add`).
func TokenizeShell(line string) ([]string, error) {
	return shlex.Split(line)
}
