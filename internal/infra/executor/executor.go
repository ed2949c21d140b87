package executor

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"time"

	"github.com/samber/lo"
	"k8s.io/klog/v2"
	kexec "k8s.io/utils/exec"

	"github.com/enginrect/ovs-bridge-agent/internal/domain"
	"github.com/enginrect/ovs-bridge-agent/internal/infra/metrics"
)

// Executor runs one command and returns its stdout. Failures are reported as
// *domain.ExternalToolError.
type Executor interface {
	Run(ctx context.Context, argv []string) (string, error)
}

// SubprocessExecutor runs commands as child processes. The zero value uses
// the host's exec.
type SubprocessExecutor struct {
	Exec kexec.Interface
}

func NewSubprocessExecutor() SubprocessExecutor {
	return SubprocessExecutor{Exec: kexec.New()}
}

func (s SubprocessExecutor) Run(ctx context.Context, argv []string) (string, error) {
	if len(argv) == 0 {
		return "", &domain.ExternalToolError{Err: errors.New("empty command")}
	}
	runner := s.Exec
	if runner == nil {
		runner = kexec.New()
	}

	tool := toolName(argv)
	start := time.Now()
	cmd := runner.CommandContext(ctx, argv[0], argv[1:]...)
	var out, errb bytes.Buffer
	cmd.SetStdout(&out)
	cmd.SetStderr(&errb)
	err := cmd.Run()
	elapsed := time.Since(start)

	if err != nil {
		if ctx.Err() != nil {
			err = ctx.Err()
		}
		metrics.RecordToolCall(tool, failureResult(ctx), elapsed)
		klog.V(4).Infof("Command %q failed after %s: %v", strings.Join(argv, " "), elapsed, err)
		return "", &domain.ExternalToolError{Argv: argv, Stderr: errb.String(), Err: err}
	}
	metrics.RecordToolCall(tool, metrics.ResultSuccess, elapsed)
	klog.V(5).Infof("Command %q succeeded in %s", strings.Join(argv, " "), elapsed)
	return out.String(), nil
}

// toolName picks the control tool out of argv, skipping any root helper.
func toolName(argv []string) string {
	known := []string{domain.VsctlCommand, domain.OfctlCommand, domain.XeCommand}
	return lo.FindOrElse(lo.Map(argv, func(a string, _ int) string { return filepath.Base(a) }), filepath.Base(argv[0]), func(a string) bool {
		return lo.Contains(known, a)
	})
}

// Helper to create a timeout context
func WithTimeout(parent context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	return context.WithTimeout(parent, d)
}

// failureResult labels a failed call. Only an expired deadline counts as a
// timeout; a cancelled caller is an ordinary failure.
func failureResult(ctx context.Context) string {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return metrics.ResultTimeout
	}
	return metrics.ResultFailure
}
