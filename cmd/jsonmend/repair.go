package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kingpin/v2"
	"github.com/tidwall/gjson"
	"golang.org/x/sync/errgroup"

	"github.com/leofalp/jsonmend/core/repair"
	"github.com/leofalp/jsonmend/internal/utils"
	"github.com/leofalp/jsonmend/providers/observability"
)

const stdinName = "-"

// repairCommand repairs each input and prints the formatted result.
type repairCommand struct {
	cli      *cli
	files    []string
	inPlace  bool
	query    string
	explain  bool
	fallback bool
	jobs     int
}

// repaired is the outcome for one input, kept in input order.
type repaired struct {
	source string
	text   string
	err    error
}

func addRepairCommand(app *kingpin.Application, c *cli) {
	cmd := &repairCommand{cli: c}
	clause := app.Command("repair", "Repair JSON read from files (or stdin) and print it formatted.").Action(cmd.run)
	clause.Flag("in-place", "Rewrite each file with its repaired JSON.").Short('i').BoolVar(&cmd.inPlace)
	clause.Flag("query", "gjson path selecting the part of the repaired document to print.").Short('q').StringVar(&cmd.query)
	clause.Flag("explain", "Print every strategy attempt to stderr.").BoolVar(&cmd.explain)
	clause.Flag("fallback", "Try the jsonrepair library when every built-in strategy fails.").BoolVar(&cmd.fallback)
	clause.Flag("jobs", "Files repaired concurrently. Zero uses the configured value.").Short('j').IntVar(&cmd.jobs)
	clause.Arg("file", "Files to repair. Stdin is read when none are given.").ExistingFilesVar(&cmd.files)
}

func (cmd *repairCommand) run(_ *kingpin.ParseContext) error {
	if cmd.inPlace && len(cmd.files) == 0 {
		return errors.New("--in-place needs at least one file")
	}
	if cmd.inPlace && cmd.query != "" {
		return errors.New("--in-place cannot be combined with --query")
	}

	rt, err := cmd.cli.setup()
	if err != nil {
		return err
	}
	defer rt.shutdown(cmd.cli)

	pipeline := rt.pipeline(cmd.fallback)
	jobs := cmd.jobs
	if jobs <= 0 {
		jobs = rt.cfg.Repair.Jobs
	}

	sources := cmd.files
	if len(sources) == 0 {
		sources = []string{stdinName}
	}

	results := make([]repaired, len(sources))
	g, ctx := errgroup.WithContext(cmd.cli.ctx)
	g.SetLimit(jobs)
	for i, source := range sources {
		g.Go(func() error {
			res, err := cmd.repairSource(ctx, pipeline, rt.observer, source)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	failed := 0
	for _, res := range results {
		if res.err != nil {
			failed++
			fmt.Fprintf(cmd.cli.stderr, "%s: %v\n", res.source, res.err)
			if errors.Is(res.err, repair.ErrUnrepairable) && res.text != "" {
				fmt.Fprintf(cmd.cli.stderr, "  best attempt: %s\n", utils.TruncateStringDefault(res.text))
			}
		}
		if !cmd.inPlace && res.text != "" {
			fmt.Fprintln(cmd.cli.stdout, res.text)
		}
	}

	if failed > 0 {
		return fmt.Errorf("%w: %d of %d", errUnrepaired, failed, len(sources))
	}
	return nil
}

// repairSource returns an error only for I/O failures. Repair and query
// failures are carried in the result so the other inputs still run. An
// unrepaired input keeps its best attempt in the result text, and in-place
// mode writes that best attempt back like the editor command does.
func (cmd *repairCommand) repairSource(ctx context.Context, pipeline *repair.Pipeline, observer observability.Provider, source string) (repaired, error) {
	out := repaired{source: source}

	data, err := cmd.read(source)
	if err != nil {
		return out, err
	}

	result := pipeline.Repair(ctx, string(data))
	if cmd.explain {
		cmd.printAttempts(source, result)
	}

	out.text, out.err = result.Format()
	if out.err == nil && cmd.query != "" {
		selected := gjson.Get(out.text, cmd.query)
		if !selected.Exists() {
			out.text, out.err = "", fmt.Errorf("query %q matched nothing", cmd.query)
			return out, nil
		}
		out.text = selected.Raw
	}

	if cmd.inPlace && out.text != "" {
		info, err := os.Stat(source)
		if err != nil {
			return out, err
		}
		if err := os.WriteFile(source, []byte(out.text+"\n"), info.Mode().Perm()); err != nil {
			return out, fmt.Errorf("write %s: %w", source, err)
		}
		observer.Info(ctx, "file rewritten",
			observability.String(observability.AttrInputSource, source),
			observability.String(observability.AttrRepairStrategy, result.Strategy),
			observability.Bool(observability.AttrRepairParsed, result.OK),
		)
	}
	return out, nil
}

func (cmd *repairCommand) read(source string) ([]byte, error) {
	if source == stdinName {
		data, err := io.ReadAll(cmd.cli.stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(source)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", source, err)
	}
	return data, nil
}

func (cmd *repairCommand) printAttempts(source string, result repair.Result) {
	for _, attempt := range result.Attempts {
		status := "ok"
		if attempt.Err != nil {
			status = attempt.Err.Error()
		}
		fmt.Fprintf(cmd.cli.stderr, "%s: %-20s %s\n", source, attempt.Strategy, status)
	}
}
