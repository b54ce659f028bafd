// Package process implements the daemon's process manager: it spawns
// a child for a dispatched command, logs its stdout and stderr
// line-by-line, tracks it in a table while it runs, and reaps it once
// its output streams and exit status are collected.
package process

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sys/unix"

	herrors "horsetab/errors"
	"horsetab/logging"
	"horsetab/model"
)

// TempFileGracePeriod is how long after spawn the temporary script is
// kept around before deletion, long enough that the interpreter has
// had time to open it.
const TempFileGracePeriod = 10 * time.Second

// drainDelay is how long the table keeps a finished record visible
// after its exit is logged, so a `ps` racing the reap still sees it.
const drainDelay = 200 * time.Millisecond

type tracked struct {
	pid       int
	cmdLine   string
	startTime time.Time
	endTime   time.Time
	status    model.ProcessStatus
}

// Manager tracks every currently running (and briefly, just-exited)
// child process spawned for a dispatched command.
type Manager struct {
	mu    sync.Mutex
	procs map[int]*tracked
}

// NewManager creates an empty process manager.
func NewManager() *Manager {
	return &Manager{procs: make(map[int]*tracked)}
}

// Spawn composes the script from prelude+action, writes it to a
// uniquely named temporary file, starts it under interpreterArgv (or
// directly, if interpreterArgv is empty, relying on a #! line), and
// returns once the child has started. It never blocks on the child's
// completion — stream supervision and reaping happen on background
// goroutines, so dispatch never stalls.
func (m *Manager) Spawn(prelude, action string, interpreterArgv []string) (int, error) {
	script := prelude + "\n" + action + "\n"

	scriptPath, err := writeScript(script)
	if err != nil {
		return 0, herrors.WrapSentinel(herrors.ErrTempScriptWrite, "write script", err)
	}

	var cmd *exec.Cmd
	if len(interpreterArgv) > 0 {
		args := append(append([]string{}, interpreterArgv[1:]...), scriptPath)
		cmd = exec.Command(interpreterArgv[0], args...)
	} else {
		cmd = exec.Command(scriptPath)
	}

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		os.Remove(scriptPath)
		return 0, herrors.Wrap(err, herrors.ErrSpawn, "stdout pipe")
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		os.Remove(scriptPath)
		return 0, herrors.Wrap(err, herrors.ErrSpawn, "stderr pipe")
	}

	if err := cmd.Start(); err != nil {
		os.Remove(scriptPath)
		return 0, herrors.WrapSentinel(herrors.ErrInterpreterMissing, "start", err)
	}

	// Schedule the script's deletion after the grace period; by then
	// the interpreter has opened the file (or failed to, in which case
	// it's cleaned up regardless).
	time.AfterFunc(TempFileGracePeriod, func() { os.Remove(scriptPath) })

	pid := cmd.Process.Pid
	now := time.Now()

	m.mu.Lock()
	m.procs[pid] = &tracked{
		pid:       pid,
		cmdLine:   action,
		startTime: now,
		status:    model.ProcessStatus{Running: true},
	}
	m.mu.Unlock()

	log := logging.WithPID(logging.Default(), pid)
	log.Infow("process started", "command", action)

	var wg sync.WaitGroup
	wg.Add(2)
	go copyStream(&wg, "stdout", pid, stdout, os.Stdout)
	go copyStream(&wg, "stderr", pid, stderr, os.Stderr)

	go m.supervise(cmd, pid, now, &wg)

	return pid, nil
}

// supervise waits for the stream copiers and the child's exit, records
// the final status, logs completion, and removes the table entry after
// a short drain so a concurrent ps still observes the terminal state.
func (m *Manager) supervise(cmd *exec.Cmd, pid int, start time.Time, streams *sync.WaitGroup) {
	streams.Wait()
	waitErr := cmd.Wait()

	status := statusFromError(waitErr)
	end := time.Now()

	m.mu.Lock()
	if t, ok := m.procs[pid]; ok {
		t.endTime = end
		t.status = status
	}
	m.mu.Unlock()

	log := logging.WithPID(logging.Default(), pid)
	log.Infof("Done in %ds (%s)", int(end.Sub(start).Seconds()), status)

	time.AfterFunc(drainDelay, func() {
		m.mu.Lock()
		delete(m.procs, pid)
		m.mu.Unlock()
	})
}

// statusFromError decodes an exec.Cmd.Wait error into a ProcessStatus,
// distinguishing a plain exit code from a signal-terminated child via
// golang.org/x/sys/unix's WaitStatus helpers.
func statusFromError(err error) model.ProcessStatus {
	if err == nil {
		return model.ProcessStatus{ExitCode: 0}
	}
	exitErr, ok := err.(*exec.ExitError)
	if !ok {
		return model.ProcessStatus{ExitCode: -1}
	}
	if ws, ok := exitErr.Sys().(syscall.WaitStatus); ok {
		if ws.Signaled() {
			return model.ProcessStatus{Signal: unix.SignalName(ws.Signal())}
		}
		return model.ProcessStatus{ExitCode: ws.ExitStatus()}
	}
	return model.ProcessStatus{ExitCode: exitErr.ExitCode()}
}

// copyStream reads lines from r and writes each to w prefixed with a
// header naming the stream, timestamp, and right-aligned PID.
func copyStream(wg *sync.WaitGroup, name string, pid int, r io.Reader, w io.Writer) {
	defer wg.Done()
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		fmt.Fprintf(w, "[%s %s %6d] %s\n", name, time.Now().Format("2006-01-02 15:04:05"), pid, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		logging.WithPID(logging.Default(), pid).Warnw("stream read error", "stream", name, "error", err)
	}
}

// writeScript writes script to a freshly created, uniquely named,
// executable temporary file and returns its path.
func writeScript(script string) (string, error) {
	name := filepath.Join(os.TempDir(), "horsetab-"+uuid.NewString()+".sh")
	if err := os.WriteFile(name, []byte(script), 0o700); err != nil {
		return "", err
	}
	return name, nil
}

// Snapshot returns the current process table as a slice of
// model.Process, for JSON responses or custom rendering.
func (m *Manager) Snapshot() []model.Process {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]model.Process, 0, len(m.procs))
	for _, t := range m.procs {
		p := model.Process{
			PID:       t.pid,
			Command:   t.cmdLine,
			StartTime: t.startTime,
			EndTime:   t.endTime,
			Status:    t.status,
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PID < out[j].PID })
	return out
}

// FormatInformation renders the process table as a four-column
// PID | TIME (s) | STATUS | COMMAND listing.
func (m *Manager) FormatInformation() string {
	procs := m.Snapshot()

	var buf strings.Builder
	w := tabwriter.NewWriter(&buf, 0, 8, 2, ' ', 0)
	fmt.Fprintln(w, "PID\tTIME (s)\tSTATUS\tCOMMAND")
	now := time.Now()
	for _, p := range procs {
		end := now
		if !p.EndTime.IsZero() {
			end = p.EndTime
		}
		elapsed := int(end.Sub(p.StartTime).Seconds())
		fmt.Fprintf(w, "%d\t%d\t%s\t%s\n", p.PID, elapsed, p.Status, p.Command)
	}
	w.Flush()
	return buf.String()
}
