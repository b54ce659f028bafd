// Package errors provides predefined sentinel errors for common failure cases.
package errors

// Config errors.
var (
	// ErrConfigNotReadable indicates the config file could not be opened.
	ErrConfigNotReadable = &HorsetabError{
		Kind:   ErrConfigIO,
		Detail: "config file could not be read",
	}

	// ErrConfigNotWritable indicates the config file could not be written.
	ErrConfigNotWritable = &HorsetabError{
		Kind:   ErrConfigIO,
		Detail: "config file could not be written",
	}
)

// Automaton/compiler errors.
var (
	// ErrEmptySequence indicates a rule sequence shorter than two characters.
	ErrEmptySequence = &HorsetabError{
		Kind:   ErrInvalidConfig,
		Detail: "sequence must be at least two characters of '.' or '-'",
	}

	// ErrEmptyAction indicates a rule with a blank command string.
	ErrEmptyAction = &HorsetabError{
		Kind:   ErrInvalidConfig,
		Detail: "command action must not be empty",
	}
)

// Process manager errors.
var (
	// ErrInterpreterMissing indicates the resolved interpreter binary is not on PATH.
	ErrInterpreterMissing = &HorsetabError{
		Kind:   ErrSpawn,
		Detail: "interpreter not found",
	}

	// ErrTempScriptWrite indicates the temporary script file could not be created.
	ErrTempScriptWrite = &HorsetabError{
		Kind:   ErrSpawn,
		Detail: "could not write temporary script",
	}
)

// Event bus errors.
var (
	// ErrUnknownAction indicates a TCP subscription handshake the server doesn't recognize.
	ErrUnknownAction = &HorsetabError{
		Kind:   ErrProtocol,
		Detail: "unknown subscription action",
	}

	// ErrSubscriberGone indicates a write to a subscriber's socket failed.
	ErrSubscriberGone = &HorsetabError{
		Kind:   ErrSubscriberWrite,
		Detail: "subscriber connection closed",
	}
)

// Coordinator errors.
var (
	// ErrDaemonShuttingDown indicates a send on a channel whose consumer has exited.
	ErrDaemonShuttingDown = &HorsetabError{
		Kind:   ErrChannelClosed,
		Detail: "daemon is shutting down",
	}
)
