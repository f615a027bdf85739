package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/conn-castle/spatialfill/internal/messages"
	"github.com/conn-castle/spatialfill/internal/report"
	"github.com/conn-castle/spatialfill/internal/summary"
	"github.com/conn-castle/spatialfill/internal/warnings"
)

func newPreviewCmd(opts *rootOptions) *cobra.Command {
	var format, reportPath, metricsPath string
	cmd := &cobra.Command{
		Use:   messages.PreviewUse,
		Short: messages.PreviewShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			f, err := report.ParseFormat(format)
			if err != nil {
				return err
			}
			env, err := loadEnv(opts, false)
			if err != nil {
				return err
			}
			defer env.close()
			store, coord, err := env.open()
			if err != nil {
				return err
			}
			defer func() {
				if closeErr := store.Close(); closeErr != nil && err == nil {
					err = fmt.Errorf(messages.CLIModelCloseFmt, closeErr)
				}
			}()

			ctx := cmd.Context()
			levels, err := store.Levels(ctx)
			if err != nil {
				return err
			}
			fillCfg, fillWarnings := env.profile.FillConfig(levels)
			withGroups := strings.TrimSpace(env.profile.Groups.Property) != ""
			withFill := len(fillCfg.Operations) > 0 || !withGroups

			var fillPreview, groupPreview *summary.PreviewSummary
			g, gctx := errgroup.WithContext(ctx)
			if withFill {
				g.Go(func() error {
					p, err := coord.PreviewFill(gctx, fillCfg)
					if err != nil {
						return err
					}
					p.Warn(fillWarnings...)
					fillPreview = p
					return nil
				})
			}
			if withGroups {
				g.Go(func() error {
					templates, err := store.GroupTemplates(gctx)
					if err != nil {
						return err
					}
					req, ws := env.profile.GroupRequest(templates)
					p, err := coord.PreviewGroupPropagate(gctx, req)
					if err != nil {
						return err
					}
					p.Warn(ws...)
					groupPreview = p
					return nil
				})
			}
			if err := g.Wait(); err != nil {
				return err
			}

			noiseMode := env.profile.Warnings.NoiseMode
			if opts.quiet {
				noiseMode = warnings.NoiseModeQuiet
			}
			out := cmd.OutOrStdout()
			for _, p := range []*summary.PreviewSummary{fillPreview, groupPreview} {
				if p == nil {
					continue
				}
				if err := report.WritePreview(out, p, f, noiseMode); err != nil {
					return err
				}
			}
			if reportPath != "" {
				if fillPreview != nil {
					if err := report.Export(reportPath, fillPreview); err != nil {
						return err
					}
				}
				if groupPreview != nil {
					if err := report.Export(groupReportPath(reportPath, fillPreview != nil), groupPreview); err != nil {
						return err
					}
				}
			}
			return env.writeMetrics(metricsPath)
		},
	}
	cmd.Flags().StringVar(&format, "format", string(report.FormatText), messages.FlagFormat)
	cmd.Flags().StringVar(&reportPath, "report", "", messages.FlagReport)
	cmd.Flags().StringVar(&metricsPath, "metrics-textfile", "", messages.FlagMetrics)
	return cmd
}

// groupReportPath names the group preview export. It shares path unless a fill
// preview is exported there too, in which case ".groups" goes before the extension.
func groupReportPath(path string, shared bool) string {
	if !shared {
		return path
	}
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + messages.GroupsReportSuffix + ext
}
