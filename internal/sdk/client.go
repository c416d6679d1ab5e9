// Package sdk drives the Mini Program CI SDK through its command-line entry
// point and filters its verbose output.
package sdk

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/google/shlex"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// DefaultCommand is the SDK entry point used when none is configured.
const DefaultCommand = "npx miniprogram-ci"

// Client performs SDK operations.
type Client interface {
	Upload(ctx context.Context, req UploadRequest) (*Result, error)
	Preview(ctx context.Context, req PreviewRequest) (*Result, error)
	PackNpm(ctx context.Context, req PackNpmRequest) (*Result, error)
}

// Sink receives filtered output while the SDK runs. Calls are serialized.
type Sink interface {
	// Progress receives summarized lines.
	Progress(msg string)
	// Output receives lines that pass through unchanged, e.g. a terminal QR code.
	Output(line string)
}

// Result summarizes a finished SDK run.
type Result struct {
	// Lines holds every line kept by FilterOutput, in arrival order.
	Lines    []Line
	Duration time.Duration
}

// ExitError reports a non-zero SDK exit.
type ExitError struct {
	Action   string
	ExitCode int
	// Stderr is the last non-empty stderr line, if any.
	Stderr string
}

func (e *ExitError) Error() string {
	if e.Stderr != "" {
		return fmt.Sprintf("%s exited with code %d: %s", e.Action, e.ExitCode, e.Stderr)
	}
	return fmt.Sprintf("%s exited with code %d", e.Action, e.ExitCode)
}

// CLIClient runs the SDK as a child process.
type CLIClient struct {
	argv    []string
	env     []string
	timeout time.Duration
	sink    Sink
	logger  *zap.Logger
}

var _ Client = (*CLIClient)(nil)

// Option configures a CLIClient.
type Option func(*CLIClient)

// WithTimeout bounds each SDK run. Zero disables the limit.
func WithTimeout(d time.Duration) Option {
	return func(c *CLIClient) { c.timeout = d }
}

// WithSink routes filtered output to s.
func WithSink(s Sink) Option {
	return func(c *CLIClient) { c.sink = s }
}

// WithEnv adds environment variables to the child process.
func WithEnv(env ...string) Option {
	return func(c *CLIClient) { c.env = append(c.env, env...) }
}

// WithLogger sets the diagnostic logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *CLIClient) {
		if l != nil {
			c.logger = l
		}
	}
}

// New returns a client running argv plus the operation arguments.
func New(argv []string, opts ...Option) (*CLIClient, error) {
	if len(argv) == 0 || argv[0] == "" {
		return nil, errors.New("sdk command is empty")
	}
	c := &CLIClient{
		argv:   append([]string(nil), argv...),
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// NewFromCommandLine splits a shell-style command line such as
// "npx miniprogram-ci" and returns a client for it.
func NewFromCommandLine(command string, opts ...Option) (*CLIClient, error) {
	if strings.TrimSpace(command) == "" {
		command = DefaultCommand
	}
	argv, err := shlex.Split(command)
	if err != nil {
		return nil, fmt.Errorf("parsing sdk command %q: %w", command, err)
	}
	return New(argv, opts...)
}

// Command returns the configured SDK command line.
func (c *CLIClient) Command() string {
	return strings.Join(c.argv, " ")
}

// Upload uploads a version.
func (c *CLIClient) Upload(ctx context.Context, req UploadRequest) (*Result, error) {
	return c.run(ctx, "upload", req.args())
}

// Preview builds a preview QR code.
func (c *CLIClient) Preview(ctx context.Context, req PreviewRequest) (*Result, error) {
	return c.run(ctx, "preview", req.args())
}

// PackNpm builds miniprogram_npm.
func (c *CLIClient) PackNpm(ctx context.Context, req PackNpmRequest) (*Result, error) {
	return c.run(ctx, "pack-npm", req.args())
}

func (c *CLIClient) run(ctx context.Context, action string, args []string) (*Result, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	cmdArgs := append(append([]string{}, c.argv[1:]...), args...)
	cmd := exec.CommandContext(ctx, c.argv[0], cmdArgs...)
	cmd.Env = append(os.Environ(), c.env...)
	cmd.WaitDelay = 5 * time.Second

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("creating stdout pipe: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, fmt.Errorf("creating stderr pipe: %w", err)
	}

	c.logger.Debug("running sdk", zap.String("action", action), zap.Strings("argv", redact(cmd.Args)))

	start := time.Now()
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("starting %s: %w", c.argv[0], err)
	}

	collector := &collector{sink: c.sink}
	var g errgroup.Group
	g.Go(func() error { return collector.consume(stdout, false) })
	g.Go(func() error { return collector.consume(stderr, true) })
	scanErr := g.Wait()
	waitErr := cmd.Wait()

	result := &Result{Lines: collector.lines, Duration: time.Since(start)}

	if ctxErr := ctx.Err(); ctxErr != nil {
		return result, fmt.Errorf("%s aborted: %w", action, ctxErr)
	}
	if waitErr != nil {
		var exitErr *exec.ExitError
		if errors.As(waitErr, &exitErr) {
			return result, &ExitError{Action: action, ExitCode: exitErr.ExitCode(), Stderr: collector.lastStderr}
		}
		return result, fmt.Errorf("%s: %w", action, waitErr)
	}
	if scanErr != nil {
		return result, fmt.Errorf("reading %s output: %w", action, scanErr)
	}

	c.logger.Debug("sdk finished", zap.String("action", action), zap.Duration("duration", result.Duration))
	return result, nil
}

// maxLineSize bounds a single line of SDK output.
const maxLineSize = 1024 * 1024

// collector filters lines from both pipes and forwards them to the sink.
type collector struct {
	mu         sync.Mutex
	sink       Sink
	lines      []Line
	lastStderr string
}

// consume reads r to EOF. After a scan error, such as a line over the
// buffer limit, the rest is discarded so the child never blocks on a full pipe.
func (c *collector) consume(r io.Reader, isStderr bool) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)
	for scanner.Scan() {
		c.handle(strings.TrimRight(scanner.Text(), "\r"), isStderr)
	}
	if err := scanner.Err(); err != nil {
		_, _ = io.Copy(io.Discard, r)
		return err
	}
	return nil
}

func (c *collector) handle(raw string, isStderr bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if isStderr && strings.TrimSpace(raw) != "" {
		c.lastStderr = strings.TrimSpace(raw)
	}

	line, ok := FilterOutput(raw)
	if !ok {
		return
	}
	c.lines = append(c.lines, line)

	if c.sink == nil {
		return
	}
	if line.Summary {
		c.sink.Progress(line.Text)
	} else {
		c.sink.Output(line.Text)
	}
}

// redact hides the private key path from debug logs.
func redact(argv []string) []string {
	out := append([]string(nil), argv...)
	for i := 0; i < len(out)-1; i++ {
		if out[i] == "--pkp" {
			out[i+1] = "<private key>"
		}
	}
	return out
}
