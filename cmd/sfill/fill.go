package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/conn-castle/spatialfill/internal/batch"
	"github.com/conn-castle/spatialfill/internal/config"
	"github.com/conn-castle/spatialfill/internal/document"
	"github.com/conn-castle/spatialfill/internal/messages"
	"github.com/conn-castle/spatialfill/internal/summary"
)

func newFillCmd(opts *rootOptions) *cobra.Command {
	flags := &runFlags{}
	cmd := &cobra.Command{
		Use:   messages.FillUse,
		Short: messages.FillShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExecute(cmd, opts, flags, prepareFill)
		},
	}
	flags.register(cmd)
	return cmd
}

func prepareFill(ctx context.Context, env *runEnv, store document.Store, coord *batch.Coordinator) (runPlan, error) {
	levels, err := store.Levels(ctx)
	if err != nil {
		return runPlan{}, err
	}
	cfg, ws := env.profile.FillConfig(levels)
	if err := config.Rejection(ws); err != nil {
		return runPlan{}, err
	}
	return runPlan{
		title: fmt.Sprintf(messages.FillConfirmTitleFmt, operationNames(cfg.Operations), env.modelPath),
		execute: func(ctx context.Context, progress batch.ProgressFunc) (*summary.ProcessingSummary, error) {
			return coord.ExecuteFill(ctx, cfg, progress)
		},
	}, nil
}

func operationNames(specs []batch.OperationSpec) string {
	names := make([]string, 0, len(specs))
	for _, spec := range specs {
		names = append(names, string(spec.Kind))
	}
	return strings.Join(names, ", ")
}
