// Package daemon wires together the automaton, process manager, and
// event bus into the running service: a single background dispatcher
// that owns the shared state lock, an executor that hands matched
// commands to the process manager, and the HTTP control surface.
// Instructions enter through Feed and InjectSequence; the package does
// not capture mouse events or run the click classifier itself.
package daemon

import (
	"context"
	"os"
	"time"

	"horsetab/config"
	"horsetab/errors"
	"horsetab/eventbus"
	"horsetab/logging"
	"horsetab/model"
	"horsetab/process"
)

// metricsPollInterval governs how often the gauges that have no single
// natural update point (subscriber count, running process count) are
// refreshed.
const metricsPollInterval = 2 * time.Second

// dispatchResult is what the dispatcher hands to the executor: a
// snapshot of the commands a sequence matched, taken under the state
// lock so a concurrent reinstall can't change it out from under the
// executor.
type dispatchResult struct {
	commands    []model.Command
	prelude     string
	interpreter []string
}

// Coordinator owns the daemon's shared state and the goroutines that
// move instructions from input to dispatch to execution. Its two
// channels are unbuffered-in-spirit but given a small buffer so a
// burst of clicks never blocks the input source.
type Coordinator struct {
	state   *state
	procs   *process.Manager
	bus     *eventbus.Bus
	metrics *Metrics

	instructions chan model.Instruction
	results      chan dispatchResult

	configPath string
}

// New builds a Coordinator with fresh process manager, event bus, and
// metrics. Call Run to start its background goroutines, then Listen on
// the bus and mount the HTTP surface separately.
func New(configPath string) *Coordinator {
	return &Coordinator{
		state:        newState(),
		procs:        process.NewManager(),
		bus:          eventbus.NewBus(),
		metrics:      NewMetrics(),
		instructions: make(chan model.Instruction, 64),
		results:      make(chan dispatchResult, 64),
		configPath:   configPath,
	}
}

// Bus exposes the event bus so cmd/serve can Listen it and mount its
// port in the HTTP surface.
func (c *Coordinator) Bus() *eventbus.Bus { return c.bus }

// Metrics exposes the coordinator's Prometheus registry for /metrics.
func (c *Coordinator) Metrics() *Metrics { return c.metrics }

// Processes exposes the process manager for GET /ps.
func (c *Coordinator) Processes() *process.Manager { return c.procs }

// Run starts the bus writer, the dispatcher, and the executor
// goroutines. It returns immediately; the goroutines run until ctx is
// cancelled.
func (c *Coordinator) Run(ctx context.Context) {
	go c.bus.Run()
	go c.dispatchLoop(ctx)
	go c.executeLoop(ctx)
	go c.pollGauges(ctx)
}

// pollGauges refreshes the metrics that have no single write site
// (subscriber count changes inside the bus, process count changes on
// both spawn and reap).
func (c *Coordinator) pollGauges(ctx context.Context) {
	ticker := time.NewTicker(metricsPollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.metrics.SubscribersGauge.Set(float64(c.bus.SubscriberCount()))
			c.metrics.ProcessesRunning.Set(float64(len(c.procs.Snapshot())))
		}
	}
}

// Feed enqueues one instruction for dispatch, as produced by the
// classifier from a mouse click edge or by InjectSequence.
func (c *Coordinator) Feed(instr model.Instruction) {
	c.instructions <- instr
}

// InjectSequence feeds a literal dot/dash string as a standalone
// sequence: a reset, one Char instruction per byte, then a trailing
// reset, matching what the classifier would produce for a typed
// sequence.
func (c *Coordinator) InjectSequence(seq string) {
	c.Feed(model.ResetInstruction())
	for i := 0; i < len(seq); i++ {
		c.Feed(model.CharInstruction(seq[i]))
	}
	c.Feed(model.ResetInstruction())
}

// dispatchLoop consumes instructions, advances the automaton under the
// state lock, emits the corresponding bus events, and forwards any
// match to the executor.
func (c *Coordinator) dispatchLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			logging.Default().Infow("dispatcher stopping", "reason", errors.ErrDaemonShuttingDown)
			return
		case instr := <-c.instructions:
			c.bus.Emit(instructionEvent(instr))

			matched, prelude, interpreter := c.state.put(instr)
			if len(matched) == 0 {
				continue
			}

			c.metrics.AutomatonMatches.Inc()
			c.bus.Emit(model.Event{Type: model.FoundResults})

			c.results <- dispatchResult{
				commands:    matched,
				prelude:     prelude,
				interpreter: interpreter,
			}
		}
	}
}

// executeLoop consumes matched results and spawns one child per
// matched command via the process manager. Spawn failures are logged,
// never fatal to the loop: one bad command must not wedge the daemon.
func (c *Coordinator) executeLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			logging.Default().Infow("executor stopping", "reason", errors.ErrDaemonShuttingDown)
			return
		case res := <-c.results:
			for _, cmd := range res.commands {
				if _, err := c.procs.Spawn(res.prelude, cmd.Action, res.interpreter); err != nil {
					logging.Default().Errorw("spawn failed", "action", cmd.Action, "error", err)
					continue
				}
				c.metrics.CommandsDispatched.Inc()
			}
		}
	}
}

// instructionEvent maps a classifier instruction to its bus event.
func instructionEvent(instr model.Instruction) model.Event {
	if instr.Kind == model.Reset {
		return model.Event{Type: model.SequenceReset}
	}
	return model.Event{Type: model.SequenceItem, Char: instr.Char}
}

// Reinstall compiles text into a new Configuration and atomically
// swaps it into the state, reporting any sequences it renders
// unreachable.
func (c *Coordinator) Reinstall(text string) *config.Configuration {
	cfg := config.Compile(text)
	c.state.install(cfg)
	c.metrics.UnreachableOnInstal.Set(float64(len(cfg.UnreachableSequences)))
	return cfg
}

// CurrentCommands returns the presently installed commands.
func (c *Coordinator) CurrentCommands() []model.Command {
	return c.state.snapshotCommands()
}

// LoadOrInit reads the config file at path, creating it with a
// commented header and a couple of example rules if it doesn't exist
// yet, then compiles and installs it.
func (c *Coordinator) LoadOrInit(path string) (*config.Configuration, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		if werr := os.WriteFile(path, []byte(defaultConfigTemplate), 0o644); werr != nil {
			return nil, errors.WrapSentinel(errors.ErrConfigNotWritable, "write default config", werr)
		}
		data = []byte(defaultConfigTemplate)
	} else if err != nil {
		return nil, errors.WrapSentinel(errors.ErrConfigNotReadable, "read config", err)
	}

	return c.Reinstall(string(data)), nil
}

// defaultConfigTemplate seeds a fresh ~/.horsetab.conf on first run.
const defaultConfigTemplate = `# horsetab command configuration.
# Each rule line is a dot/dash sequence, whitespace, then a shell
# command: e.g. ".-  notify-send hello" fires on dot-dash.
#
# Lines starting with '#' (like this header) are comments and are
# ignored, except a leading '#!' interpreter line. Other lines that
# aren't rules become a shared prelude run before every matched command.

..  notify-send "horsetab: double dot"
.-  notify-send "horsetab: dot dash"
`
