package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/conn-castle/spatialfill/internal/config"
	"github.com/conn-castle/spatialfill/internal/messages"
	"github.com/conn-castle/spatialfill/internal/report"
	"github.com/conn-castle/spatialfill/internal/wizard"
)

var newWizardUI = func() wizard.UI { return wizard.NewHuhUI() }

func newInitCmd(opts *rootOptions) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   messages.InitUse,
		Short: messages.InitShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			out := cmd.OutOrStdout()
			if strings.TrimSpace(opts.model) == "" {
				return fmt.Errorf(messages.InitModelRequired)
			}
			profilePath, err := resolveProfilePath(opts.profile)
			if err != nil {
				return err
			}
			modelPath, err := config.ExpandPath(opts.model)
			if err != nil {
				return err
			}
			store, err := openStore(modelPath)
			if err != nil {
				return err
			}
			defer func() {
				if closeErr := store.Close(); closeErr != nil && err == nil {
					err = fmt.Errorf(messages.CLIModelCloseFmt, closeErr)
				}
			}()

			ui := newWizardUI()
			data, err := wizard.Run(cmd.Context(), store, ui, wizard.Options{
				DocumentPath: documentPathFor(profilePath, modelPath),
				ProfilePath:  profilePath,
			})
			if errors.Is(err, wizard.ErrCancelled) {
				_, _ = fmt.Fprintln(out, messages.InitCancelled)
				return nil
			}
			if err != nil {
				return err
			}

			if existing, readErr := os.ReadFile(profilePath); readErr == nil && !force {
				diff, _ := report.UnifiedDiff(profilePath+" (current)", profilePath+" (new)", string(existing), string(data), report.DefaultDiffMaxLines)
				_, _ = io.WriteString(out, diff)
				replace := false
				if err := ui.Confirm(fmt.Sprintf(messages.InitReplaceTitleFmt, profilePath), &replace); err != nil && !errors.Is(err, wizard.ErrCancelled) {
					return err
				}
				if !replace {
					_, _ = fmt.Fprintln(out, messages.InitCancelled)
					return nil
				}
			}
			if err := os.WriteFile(profilePath, data, 0o644); err != nil {
				return fmt.Errorf(messages.InitWriteFmt, profilePath, err)
			}
			_, _ = fmt.Fprintf(out, messages.InitWrittenFmt, profilePath)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, messages.InitFlagForce)
	return cmd
}

// documentPathFor writes modelPath relative to the profile's directory when the
// model sits beneath it.
func documentPathFor(profilePath string, modelPath string) string {
	absProfile, err := filepath.Abs(profilePath)
	if err != nil {
		return modelPath
	}
	absModel, err := filepath.Abs(modelPath)
	if err != nil {
		return modelPath
	}
	rel, err := filepath.Rel(filepath.Dir(absProfile), absModel)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return absModel
	}
	return filepath.ToSlash(rel)
}
