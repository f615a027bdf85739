package main

import (
	"github.com/spf13/cobra"

	"github.com/conn-castle/spatialfill/internal/messages"
)

const (
	flagProfile  = "profile"
	flagModel    = "model"
	flagLogLevel = "log-level"
	flagQuiet    = "quiet"
)

// rootOptions are the persistent flags shared by every command.
type rootOptions struct {
	profile  string
	model    string
	logLevel string
	quiet    bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:           messages.RootUse,
		Short:         messages.RootShort,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.profile, flagProfile, "", messages.FlagProfile)
	flags.StringVar(&opts.model, flagModel, "", messages.FlagModel)
	flags.StringVar(&opts.logLevel, flagLogLevel, "", messages.FlagLogLevel)
	flags.BoolVarP(&opts.quiet, flagQuiet, "q", false, messages.FlagQuiet)

	cmd.AddCommand(
		newPreviewCmd(opts),
		newFillCmd(opts),
		newGroupsCmd(opts),
		newInitCmd(opts),
		newDoctorCmd(opts),
		newConvertCmd(),
		newFieldsCmd(),
	)
	return cmd
}
