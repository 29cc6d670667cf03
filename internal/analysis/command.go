package analysis

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/vk/vesselbatch/internal/ctxlog"
)

// Command runs an external analysis program once per item.
//
// Arguments may contain the placeholders {row}, {primary}, {associated},
// {results}, {catalog} and {mode}. Graph datasets add {graph_type},
// {delimiter}, {filter_cliques}, {smooth_centerlines} and {key:NAME} for each
// configured attribute key. The program reports progress by printing lines to
// stdout:
//
//	status: Skeletonizing...
//	regions: 3
//	space: 12.5
//
// A "space" line declares that the item needs that many more gigabytes of
// free space; if the program then exits with an error the item fails with an
// InsufficientSpaceError.
type Command struct {
	Args []string
	Dir  string
	Env  []string
}

// Analyze implements Analyzer.
func (c *Command) Analyze(ctx context.Context, job Job, rep Reporter) error {
	if len(c.Args) == 0 {
		return errors.New("analysis command is empty")
	}
	logger := ctxlog.FromContext(ctx).With("row", job.Row)

	args := c.expand(job)
	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	cmd.Dir = c.Dir
	cmd.Env = append(os.Environ(), c.Env...)

	var stderr tailBuffer
	cmd.Stderr = &stderr
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("failed to attach to analysis output: %w", err)
	}

	logger.Debug("Starting analysis command.", "args", args)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start analysis command: %w", err)
	}

	var requiredGB float64
	scanner := bufio.NewScanner(stdout)
	for scanner.Scan() {
		key, value, ok := strings.Cut(scanner.Text(), ":")
		if !ok {
			continue
		}
		value = strings.TrimSpace(value)
		switch strings.TrimSpace(strings.ToLower(key)) {
		case "status":
			rep.Status(value)
		case "regions":
			if n, err := strconv.Atoi(value); err == nil {
				rep.Regions(n)
			}
		case "space":
			if gb, err := strconv.ParseFloat(value, 64); err == nil {
				requiredGB = gb
			}
		}
	}

	if err := cmd.Wait(); err != nil {
		if requiredGB > 0 {
			return &InsufficientSpaceError{RequiredGB: requiredGB, Path: job.ResultsDir}
		}
		return fmt.Errorf("analysis command failed: %w: %s", err, stderr.String())
	}
	return nil
}

func (c *Command) expand(job Job) []string {
	g := job.Graph
	pairs := []string{
		"{row}", strconv.Itoa(job.Row),
		"{primary}", job.Primary,
		"{associated}", job.Associated,
		"{results}", job.ResultsDir,
		"{catalog}", job.Catalog.SourcePath(),
		"{mode}", job.Mode.String(),
		"{graph_type}", g.Type,
		"{delimiter}", g.Delimiter,
		"{filter_cliques}", strconv.FormatBool(g.FilterCliques),
		"{smooth_centerlines}", strconv.FormatBool(g.SmoothCenterlines),
	}
	for _, k := range AttributeKeys {
		pairs = append(pairs, "{key:"+k+"}", g.Keys[k])
	}
	r := strings.NewReplacer(pairs...)
	out := make([]string, len(c.Args))
	for i, a := range c.Args {
		out[i] = r.Replace(a)
	}
	return out
}

// tailBuffer keeps the last few kilobytes written to it.
type tailBuffer struct {
	buf []byte
}

const tailLimit = 4 << 10

func (t *tailBuffer) Write(p []byte) (int, error) {
	t.buf = append(t.buf, p...)
	if len(t.buf) > tailLimit {
		t.buf = t.buf[len(t.buf)-tailLimit:]
	}
	return len(p), nil
}

func (t *tailBuffer) String() string {
	return strings.TrimSpace(string(t.buf))
}
