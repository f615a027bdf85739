package main

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/conn-castle/spatialfill/internal/doctor"
	"github.com/conn-castle/spatialfill/internal/messages"
)

func newDoctorCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   messages.DoctorUse,
		Short: messages.DoctorShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			profilePath, err := resolveProfilePath(opts.profile)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(out, messages.DoctorHealthCheckFmt, profilePath)

			results, profile := doctor.CheckProfile(profilePath)
			if profile != nil {
				modelPath, err := profile.ModelPath(filepath.Dir(profilePath), opts.model)
				if err != nil {
					results = append(results, doctor.Result{
						Status:         doctor.StatusFail,
						CheckName:      messages.DoctorCheckNameModel,
						Message:        err.Error(),
						Recommendation: messages.DoctorModelOpenRecommend,
					})
				} else {
					modelResults, store := doctor.CheckModel(modelPath)
					results = append(results, modelResults...)
					if store != nil {
						results = append(results, doctor.CheckFill(cmd.Context(), profile, store)...)
						results = append(results, doctor.CheckGroups(cmd.Context(), profile, store)...)
						_ = store.Close()
					}
				}
			}

			for _, r := range results {
				printResult(out, r)
			}
			if doctor.HasFailure(results) {
				_, _ = fmt.Fprintln(out, color.RedString(messages.DoctorFailureSummary))
				return fmt.Errorf(messages.DoctorFailureError)
			}
			_, _ = fmt.Fprintln(out, color.GreenString(messages.DoctorSuccessSummary))
			return nil
		},
	}
}

func printResult(out io.Writer, r doctor.Result) {
	var status string
	switch r.Status {
	case doctor.StatusOK:
		status = color.GreenString(messages.DoctorStatusOKLabel)
	case doctor.StatusWarn:
		status = color.YellowString(messages.DoctorStatusWarnLabel)
	case doctor.StatusFail:
		status = color.RedString(messages.DoctorStatusFailLabel)
	}

	_, _ = fmt.Fprintf(out, messages.DoctorResultLineFmt, status, r.CheckName, r.Message)
	if r.Recommendation != "" {
		printRecommendation(out, r.Recommendation)
	}
}

// printRecommendation renders a multi-line recommendation with consistent indentation.
func printRecommendation(out io.Writer, recommendation string) {
	for i, line := range strings.Split(recommendation, "\n") {
		switch {
		case i == 0:
			_, _ = fmt.Fprintf(out, "%s%s\n", messages.DoctorRecommendationPrefix, line)
		case line == "":
			_, _ = fmt.Fprintln(out, strings.TrimRight(messages.DoctorRecommendationIndent, " "))
		default:
			_, _ = fmt.Fprintf(out, "%s%s\n", messages.DoctorRecommendationIndent, line)
		}
	}
}
