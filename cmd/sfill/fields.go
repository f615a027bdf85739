package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/conn-castle/spatialfill/internal/config"
	"github.com/conn-castle/spatialfill/internal/messages"
)

func newFieldsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   messages.FieldsUse,
		Short: messages.FieldsShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			for _, f := range config.Fields() {
				_, _ = fmt.Fprintf(out, messages.FieldsLineFmt, f.Key, f.Type, f.Description)
				for _, opt := range f.Options {
					_, _ = fmt.Fprintf(out, messages.FieldsOptionFmt, "", "", opt.Value, opt.Description)
				}
			}
			return nil
		},
	}
}
