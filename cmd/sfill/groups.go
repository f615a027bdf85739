package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/conn-castle/spatialfill/internal/batch"
	"github.com/conn-castle/spatialfill/internal/config"
	"github.com/conn-castle/spatialfill/internal/document"
	"github.com/conn-castle/spatialfill/internal/messages"
	"github.com/conn-castle/spatialfill/internal/summary"
)

func newGroupsCmd(opts *rootOptions) *cobra.Command {
	flags := &runFlags{}
	cmd := &cobra.Command{
		Use:   messages.GroupsUse,
		Short: messages.GroupsShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExecute(cmd, opts, flags, prepareGroups)
		},
	}
	flags.register(cmd)
	return cmd
}

func prepareGroups(ctx context.Context, env *runEnv, store document.Store, coord *batch.Coordinator) (runPlan, error) {
	templates, err := store.GroupTemplates(ctx)
	if err != nil {
		return runPlan{}, err
	}
	req, ws := env.profile.GroupRequest(templates)
	if err := config.Rejection(ws); err != nil {
		return runPlan{}, err
	}
	return runPlan{
		title: fmt.Sprintf(messages.GroupsConfirmTitleFmt, req.Property, env.modelPath),
		execute: func(ctx context.Context, progress batch.ProgressFunc) (*summary.ProcessingSummary, error) {
			return coord.ExecuteGroupPropagate(ctx, req, progress)
		},
	}, nil
}
