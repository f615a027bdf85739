package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/conn-castle/spatialfill/internal/config"
	"github.com/conn-castle/spatialfill/internal/document"
	"github.com/conn-castle/spatialfill/internal/messages"
)

func newConvertCmd() *cobra.Command {
	return &cobra.Command{
		Use:   messages.ConvertUse,
		Short: messages.ConvertShort,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			in, err := config.ExpandPath(args[0])
			if err != nil {
				return err
			}
			out, err := config.ExpandPath(args[1])
			if err != nil {
				return err
			}
			if _, statErr := os.Stat(out); statErr == nil {
				return fmt.Errorf(messages.ConvertExistsFmt, out)
			} else if !errors.Is(statErr, fs.ErrNotExist) {
				return statErr
			}
			f, err := document.LoadFile(in)
			if err != nil {
				return err
			}
			db, err := document.OpenSQLite(out)
			if err != nil {
				return err
			}
			defer func() {
				if closeErr := db.Close(); closeErr != nil && err == nil {
					err = fmt.Errorf(messages.CLIModelCloseFmt, closeErr)
				}
			}()
			if err := db.Import(cmd.Context(), f); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), messages.ConvertDoneFmt, len(f.Elements), in, out)
			return nil
		},
	}
}
