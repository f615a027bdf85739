package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/conn-castle/spatialfill/internal/batch"
	"github.com/conn-castle/spatialfill/internal/document"
	"github.com/conn-castle/spatialfill/internal/lock"
	"github.com/conn-castle/spatialfill/internal/messages"
	"github.com/conn-castle/spatialfill/internal/report"
	"github.com/conn-castle/spatialfill/internal/summary"
)

// progressLineStep is how often plain progress lines are printed when stderr is
// not a terminal.
const progressLineStep = 500

// runFlags are the flags shared by the mutating commands.
type runFlags struct {
	yes         bool
	report      string
	format      string
	diff        bool
	diffLines   int
	metricsPath string
}

func (f *runFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVarP(&f.yes, "yes", "y", false, messages.FlagYes)
	cmd.Flags().StringVar(&f.report, "report", "", messages.FlagReport)
	cmd.Flags().StringVar(&f.format, "format", string(report.FormatText), messages.FlagFormat)
	cmd.Flags().BoolVar(&f.diff, "diff", false, messages.FlagDiff)
	cmd.Flags().IntVar(&f.diffLines, "diff-lines", report.DefaultDiffMaxLines, messages.FlagDiffLines)
	cmd.Flags().StringVar(&f.metricsPath, "metrics-textfile", "", messages.FlagMetrics)
}

// runPlan is a validated execute run waiting for confirmation.
type runPlan struct {
	title   string
	execute func(ctx context.Context, progress batch.ProgressFunc) (*summary.ProcessingSummary, error)
}

// prepareFunc converts the profile into a runPlan against an open model.
type prepareFunc func(ctx context.Context, env *runEnv, store document.Store, coord *batch.Coordinator) (runPlan, error)

// snapshotter is implemented by stores that can return their whole model.
type snapshotter interface {
	Snapshot() document.File
}

// runExecute drives one mutating command: the model stays locked from open until
// the summary is written.
func runExecute(cmd *cobra.Command, opts *rootOptions, flags *runFlags, prepare prepareFunc) error {
	format, err := report.ParseFormat(flags.format)
	if err != nil {
		return err
	}
	env, err := loadEnv(opts, true)
	if err != nil {
		return err
	}
	defer env.close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	out := cmd.OutOrStdout()
	errOut := cmd.ErrOrStderr()
	return lock.With(ctx, env.modelPath, func() (err error) {
		store, coord, err := env.open()
		if err != nil {
			return err
		}
		defer func() {
			if closeErr := store.Close(); closeErr != nil && err == nil {
				err = fmt.Errorf(messages.CLIModelCloseFmt, closeErr)
			}
		}()

		plan, err := prepare(ctx, env, store, coord)
		if err != nil {
			return err
		}
		if !flags.yes && isInteractive() {
			ok, err := confirmFunc(plan.title)
			if err != nil {
				return err
			}
			if !ok {
				_, _ = fmt.Fprintln(out, messages.ConfirmDeclined)
				return nil
			}
		}

		var before document.File
		snap, canSnap := store.(snapshotter)
		if flags.diff {
			if !canSnap {
				return fmt.Errorf(messages.CLISnapshotUnsupported)
			}
			before = snap.Snapshot()
		}

		progress, done := progressFor(errOut, opts.quiet)
		s, runErr := plan.execute(ctx, progress)
		done()
		if s == nil {
			return runErr
		}

		if !opts.quiet {
			if err := report.WriteProcessing(out, s, format); err != nil {
				return err
			}
		}
		_, _ = fmt.Fprintln(errOut, report.StatusLine(s))
		if flags.report != "" {
			if err := report.Export(flags.report, s); err != nil {
				return err
			}
		}
		if flags.diff && s.State == summary.StateCompleted {
			rendered, _, err := report.ModelDiff(env.modelPath, before, snap.Snapshot(), flags.diffLines)
			if err != nil {
				return err
			}
			_, _ = io.WriteString(out, rendered)
		}
		if err := env.writeMetrics(flags.metricsPath); err != nil {
			return err
		}
		return runErr
	})
}

// progressFor picks a progress renderer for w. The returned func ends the output.
func progressFor(w io.Writer, quiet bool) (batch.ProgressFunc, func()) {
	if quiet {
		return nil, func() {}
	}
	if isTerminalWriter(w) {
		bar := report.NewBar(w, terminalWidth(w))
		return bar.Update, bar.Done
	}
	return report.Lines(w, progressLineStep), func() {}
}
