// Package config implements the configuration compiler: a pure
// function from configuration file text to a compiled Configuration —
// commands, prelude, interpreter, a rebuilt automaton, and the set of
// sequences no installed rule can ever fire.
package config

import (
	"regexp"
	"strings"

	"horsetab/automaton"
	herrors "horsetab/errors"
	"horsetab/logging"
	"horsetab/model"
)

// commandLine matches a command line: two or more dot/dash characters,
// whitespace, then an arbitrary action string.
var commandLine = regexp.MustCompile(`^([.-]{2,})\s+(.+)$`)

// Configuration is the compiled result of a configuration file.
type Configuration struct {
	Commands             []model.Command
	Prelude              string
	InterpreterArgv      []string // nil means "use the default platform shell"
	Automaton            *automaton.Automaton
	UnreachableSequences []string
}

// DefaultInterpreter is used when the prelude carries no #! directive.
var DefaultInterpreter = []string{"/bin/sh"}

// Compile parses the text of a configuration file and builds a
// Configuration. It never returns an error: unrecognized lines always
// become prelude; there is no config-compile syntax error, only the
// command/prelude split.
func Compile(text string) *Configuration {
	lines := splitLines(text)

	var commands []model.Command
	var preludeLines []string

	for _, raw := range lines {
		line := strings.TrimSpace(raw)

		if line == "" {
			preludeLines = append(preludeLines, raw)
			continue
		}
		if strings.HasPrefix(line, "#") && !strings.HasPrefix(line, "#!") {
			// Comment line, dropped.
			continue
		}
		if m := commandLine.FindStringSubmatch(line); m != nil {
			action := strings.TrimSpace(m[2])
			if action == "" {
				// Whitespace-only action: not a usable rule, falls
				// through to prelude instead.
				logging.Default().Warnw("skipping degenerate command line", "error", herrors.ErrEmptyAction, "sequence", m[1])
				preludeLines = append(preludeLines, raw)
				continue
			}
			commands = append(commands, model.Command{
				Sequence: m[1],
				Action:   action,
			})
			continue
		}
		preludeLines = append(preludeLines, raw)
	}

	prelude := strings.Join(preludeLines, "\n")
	interpreter := detectInterpreter(prelude)

	at := automaton.New()
	for i, c := range commands {
		at.Insert(c.Sequence, i)
	}

	unreachable := findUnreachable(commands)

	return &Configuration{
		Commands:             commands,
		Prelude:              prelude,
		InterpreterArgv:      interpreter,
		Automaton:            at,
		UnreachableSequences: unreachable,
	}
}

// splitLines splits on '\n', tolerating a trailing newline without
// producing a spurious empty final line (so round-tripping serialized
// output is stable).
func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	lines := strings.Split(text, "\n")
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// detectInterpreter inspects the prelude's first line for a #!
// directive. Returns nil (use DefaultInterpreter) when absent.
func detectInterpreter(prelude string) []string {
	trimmed := strings.TrimSpace(prelude)
	if !strings.HasPrefix(trimmed, "#!") {
		return nil
	}
	firstLine, _, _ := strings.Cut(trimmed, "\n")
	rest := strings.TrimPrefix(firstLine, "#!")
	fields := strings.Fields(rest)
	if len(fields) == 0 {
		return nil
	}
	return fields
}

// findUnreachable builds a scratch automaton from the command
// sequences and, for each rule, resets and replays its own sequence,
// reporting it unreachable unless the final Put includes its own ID.
func findUnreachable(commands []model.Command) []string {
	if len(commands) == 0 {
		return nil
	}

	at := automaton.New()
	for i, c := range commands {
		at.Insert(c.Sequence, i)
	}

	var unreachable []string
	for i, c := range commands {
		at.Reset()
		var last []int
		for j := 0; j < len(c.Sequence); j++ {
			last = at.Put(model.CharInstruction(c.Sequence[j]))
		}
		if !containsInt(last, i) {
			unreachable = append(unreachable, c.Sequence)
		}
	}
	return unreachable
}

func containsInt(s []int, v int) bool {
	for _, x := range s {
		if x == v {
			return true
		}
	}
	return false
}

// Serialize renders commands back into the "sequence SP action" line
// format the compiler itself accepts, so Compile(Serialize(cmds)) round
// trips and GET /current-installed-commands has something to return.
func Serialize(commands []model.Command) string {
	lines := make([]string, len(commands))
	for i, c := range commands {
		lines[i] = c.Sequence + " " + c.Action
	}
	return strings.Join(lines, "\n")
}

// Interpreter returns the Configuration's resolved interpreter argv,
// falling back to DefaultInterpreter when no #! directive was present.
func (c *Configuration) Interpreter() []string {
	if len(c.InterpreterArgv) > 0 {
		return c.InterpreterArgv
	}
	return DefaultInterpreter
}
