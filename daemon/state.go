package daemon

import (
	"sync"

	"horsetab/automaton"
	"horsetab/config"
	"horsetab/model"
)

// state is the single mutable bundle the coordinator owns: the
// installed commands, prelude, resolved interpreter, and the automaton
// built from them. Exactly one lock protects it; the dispatcher only
// holds it for the duration of one Put call and one snapshot copy.
type state struct {
	mu sync.Mutex

	commands    []model.Command
	prelude     string
	interpreter []string
	automaton   *automaton.Automaton
}

func newState() *state {
	return &state{automaton: automaton.New()}
}

// install atomically swaps in a freshly compiled configuration.
func (s *state) install(cfg *config.Configuration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.commands = cfg.Commands
	s.prelude = cfg.Prelude
	s.interpreter = cfg.Interpreter()
	s.automaton = cfg.Automaton
}

// put feeds one instruction to the automaton under the lock and
// returns a snapshot of the matched commands (by value, so the caller
// can act on them after releasing the lock without racing a concurrent
// reinstall) plus the prelude and interpreter installed at that moment.
// matched is nil when nothing matched.
func (s *state) put(instr model.Instruction) (matched []model.Command, prelude string, interpreter []string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ruleIDs := s.automaton.Put(instr)
	if len(ruleIDs) == 0 {
		return nil, "", nil
	}

	out := make([]model.Command, 0, len(ruleIDs))
	for _, id := range ruleIDs {
		if id >= 0 && id < len(s.commands) {
			out = append(out, s.commands[id])
		}
	}
	return out, s.prelude, s.interpreter
}

// snapshotCommands returns a copy of the currently installed commands,
// for GET /current-installed-commands.
func (s *state) snapshotCommands() []model.Command {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Command, len(s.commands))
	copy(out, s.commands)
	return out
}
