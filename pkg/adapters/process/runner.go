package process

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/aretw0/textsum/internal/logging"
	"github.com/aretw0/textsum/pkg/domain"
)

// EnvPrefix prefixes every invocation argument exported to the child process.
const EnvPrefix = "TEXTSUM_ARG_"

const defaultGracePeriod = 5 * time.Second

// Runner executes the external framework command configured for a stage.
// Stage parameters are passed as environment variables, never as command-line flags,
// so configuration values cannot inject arguments.
type Runner struct {
	baseDir     string
	gracePeriod time.Duration
	logger      *slog.Logger
}

// RunnerOption configures the runner.
type RunnerOption func(*Runner)

// WithBaseDir sets the working directory for executed processes.
func WithBaseDir(dir string) RunnerOption {
	return func(r *Runner) {
		r.baseDir = dir
	}
}

// WithGracePeriod sets how long a cancelled process may take to exit after the
// interrupt before it is killed.
func WithGracePeriod(d time.Duration) RunnerOption {
	return func(r *Runner) {
		r.gracePeriod = d
	}
}

// WithLogger sets the logger receiving the child's output, one record per line.
func WithLogger(logger *slog.Logger) RunnerOption {
	return func(r *Runner) {
		r.logger = logger
	}
}

// NewRunner creates a new Process Runner.
func NewRunner(opts ...RunnerOption) *Runner {
	r := &Runner{
		gracePeriod: defaultGracePeriod,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = logging.NewNop()
	}
	return r
}

// Execute runs inv.Framework to completion. A non-zero exit, a failure to start, or
// cancellation of ctx is returned as an error; the captured output is returned either way.
func (r *Runner) Execute(ctx context.Context, inv domain.Invocation) (domain.InvocationResult, error) {
	if !inv.Framework.Enabled() {
		return domain.InvocationResult{}, errors.New("no framework command configured")
	}

	cmd := exec.CommandContext(ctx, inv.Framework.Command, inv.Framework.Args...)
	cmd.Dir = r.baseDir
	cmd.Env = append(os.Environ(), Environ(inv)...)
	cmd.WaitDelay = r.gracePeriod
	// Ask politely first; WaitDelay escalates to Kill.
	cmd.Cancel = func() error {
		if runtime.GOOS == "windows" {
			return cmd.Process.Kill()
		}
		return cmd.Process.Signal(os.Interrupt)
	}

	var stdout, stderr bytes.Buffer
	logger := r.logger.With("command", inv.Framework.Command)
	outLog := newLineLogger(logger, slog.LevelInfo)
	errLog := newLineLogger(logger, slog.LevelWarn)
	cmd.Stdout = io.MultiWriter(&stdout, outLog)
	cmd.Stderr = io.MultiWriter(&stderr, errLog)

	err := cmd.Run()
	outLog.Flush()
	errLog.Flush()

	result := domain.InvocationResult{
		Stdout:   strings.TrimSpace(stdout.String()),
		Stderr:   strings.TrimSpace(stderr.String()),
		ExitCode: cmd.ProcessState.ExitCode(),
	}
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return result, fmt.Errorf("execution cancelled: %w", ctxErr)
		}
		return result, fmt.Errorf("execution failed: %w. Stderr: %s", err, tail(result.Stderr, 2048))
	}
	return result, nil
}

// Environ renders the invocation arguments and the framework env as KEY=VALUE pairs, sorted by key.
// Primitives are formatted directly; maps and slices are JSON encoded.
func Environ(inv domain.Invocation) []string {
	env := make([]string, 0, len(inv.Args)+len(inv.Framework.Env))
	for k, v := range inv.Framework.Env {
		env = append(env, k+"="+v)
	}
	for k, v := range inv.Args {
		var val string
		switch v.(type) {
		case string, int, int64, float64, bool:
			val = fmt.Sprintf("%v", v)
		case nil:
			val = ""
		default:
			if inJSON, err := json.Marshal(v); err == nil {
				val = string(inJSON)
			} else {
				val = fmt.Sprintf("%v", v)
			}
		}
		env = append(env, EnvPrefix+strings.ToUpper(k)+"="+val)
	}
	sort.Strings(env)
	return env
}

func tail(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return "..." + s[len(s)-n:]
}

// lineLogger is an io.Writer that emits one log record per complete line.
type lineLogger struct {
	mu     sync.Mutex
	logger *slog.Logger
	level  slog.Level
	buf    bytes.Buffer
}

func newLineLogger(logger *slog.Logger, level slog.Level) *lineLogger {
	return &lineLogger{logger: logger, level: level}
}

func (l *lineLogger) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.buf.Write(p)
	for {
		line, err := l.buf.ReadString('\n')
		if err != nil {
			// Incomplete line: keep it for the next write.
			l.buf.Reset()
			l.buf.WriteString(line)
			break
		}
		l.emit(line)
	}
	return len(p), nil
}

// Flush logs any trailing partial line.
func (l *lineLogger) Flush() {
	l.mu.Lock()
	defer l.mu.Unlock()
	sc := bufio.NewScanner(&l.buf)
	for sc.Scan() {
		l.emit(sc.Text())
	}
	l.buf.Reset()
}

func (l *lineLogger) emit(line string) {
	line = strings.TrimRight(line, "\r\n")
	if line == "" {
		return
	}
	l.logger.Log(context.Background(), l.level, line)
}
