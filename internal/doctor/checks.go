package doctor

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/conn-castle/spatialfill/internal/batch"
	"github.com/conn-castle/spatialfill/internal/config"
	"github.com/conn-castle/spatialfill/internal/document"
	"github.com/conn-castle/spatialfill/internal/host"
	"github.com/conn-castle/spatialfill/internal/messages"
	"github.com/conn-castle/spatialfill/internal/model"
)

var (
	loadProfileFunc        = config.LoadProfile
	loadProfileLenientFunc = config.LoadProfileLenient
	openModelFunc          = document.Open
)

// CheckProfile loads the profile at path. When strict loading fails validation but
// lenient loading succeeds, it reports the failure and still returns the lenient
// profile so the model checks can run.
func CheckProfile(path string) ([]Result, *config.Profile) {
	p, err := loadProfileFunc(path)
	if err == nil {
		return []Result{{
			Status:    StatusOK,
			CheckName: messages.DoctorCheckNameProfile,
			Message:   fmt.Sprintf(messages.DoctorProfileLoadedFmt, path),
		}}, p
	}
	if !errors.Is(err, config.ErrConfigValidation) {
		return []Result{{
			Status:         StatusFail,
			CheckName:      messages.DoctorCheckNameProfile,
			Message:        fmt.Sprintf(messages.DoctorProfileLoadFailedFmt, err),
			Recommendation: messages.DoctorProfileLoadRecommend,
		}}, nil
	}

	lenient, lenientErr := loadProfileLenientFunc(path)
	if lenientErr != nil {
		return []Result{{
			Status:         StatusFail,
			CheckName:      messages.DoctorCheckNameProfile,
			Message:        fmt.Sprintf(messages.DoctorProfileLoadFailedFmt, lenientErr),
			Recommendation: messages.DoctorProfileLoadRecommend,
		}}, nil
	}
	result := Result{
		Status:         StatusFail,
		CheckName:      messages.DoctorCheckNameProfile,
		Message:        fmt.Sprintf(messages.DoctorProfileLoadFailedFmt, err),
		Recommendation: messages.DoctorProfileFieldsRecommend,
	}
	if unknown, keysErr := profileUnknownKeys(path); keysErr == nil && len(unknown) > 0 {
		result.Recommendation = unknownKeyRecommendation(path, unknown)
	}
	return []Result{result}, lenient
}

// CheckModel opens the model at path and checks that its host version is supported.
// The returned store is nil when the model cannot be used.
func CheckModel(path string) ([]Result, document.Store) {
	store, err := openModelFunc(path)
	if err != nil {
		return []Result{{
			Status:         StatusFail,
			CheckName:      messages.DoctorCheckNameModel,
			Message:        fmt.Sprintf(messages.DoctorModelOpenFailedFmt, err),
			Recommendation: messages.DoctorModelOpenRecommend,
		}}, nil
	}
	version := store.HostVersion()
	if _, err := host.ForVersion(version); err != nil {
		_ = store.Close()
		return []Result{{
			Status:         StatusFail,
			CheckName:      messages.DoctorCheckNameModel,
			Message:        err.Error(),
			Recommendation: fmt.Sprintf(messages.DoctorHostVersionRecommendFmt, host.MinVersion),
		}}, nil
	}
	results := []Result{{
		Status:    StatusOK,
		CheckName: messages.DoctorCheckNameModel,
		Message:   fmt.Sprintf(messages.DoctorModelOpenedFmt, path, version),
	}}
	if version > host.LatestVersion {
		results = append(results, Result{
			Status:    StatusWarn,
			CheckName: messages.DoctorCheckNameModel,
			Message:   fmt.Sprintf(messages.DoctorHostVersionNewerFmt, version, host.LatestVersion),
		})
	}
	return results, store
}

// CheckFill reports band and category problems for the fill operations of p.
func CheckFill(ctx context.Context, p *config.Profile, r document.Reader) []Result {
	levels, err := r.Levels(ctx)
	if err != nil {
		return []Result{readFailure(messages.DoctorCheckNameFill, err)}
	}
	cfg, ws := p.FillConfig(levels)
	var results []Result
	for _, w := range ws {
		results = append(results, Result{
			Status:         StatusFail,
			CheckName:      messages.DoctorCheckNameFill,
			Message:        w.Message,
			Recommendation: w.Fix,
		})
	}
	if len(cfg.Operations) == 0 {
		return append(results, Result{
			Status:    StatusOK,
			CheckName: messages.DoctorCheckNameFill,
			Message:   messages.DoctorFillNotConfigured,
		})
	}
	if cfg.Band != nil {
		results = append(results, Result{
			Status:    StatusOK,
			CheckName: messages.DoctorCheckNameFill,
			Message:   fmt.Sprintf(messages.DoctorBandFmt, cfg.Band.Base.Name, cfg.Band.Top.Name),
		})
	}
	for _, cat := range cfg.Categories {
		els, err := r.ElementsByCategory(ctx, cat)
		if err != nil {
			results = append(results, readFailure(messages.DoctorCheckNameFill, err))
			continue
		}
		if len(els) == 0 {
			results = append(results, Result{
				Status:         StatusWarn,
				CheckName:      messages.DoctorCheckNameFill,
				Message:        fmt.Sprintf(messages.DoctorCategoryEmptyFmt, cat),
				Recommendation: messages.DoctorCategoryEmptyRecommend,
			})
			continue
		}
		results = append(results, Result{
			Status:    StatusOK,
			CheckName: messages.DoctorCheckNameFill,
			Message:   fmt.Sprintf(messages.DoctorCategoryCountFmt, cat, len(els)),
		})
		schema, err := r.PropertySchema(ctx, cat)
		if err != nil {
			results = append(results, readFailure(messages.DoctorCheckNameFill, err))
			continue
		}
		results = append(results, checkTargets(cat, schema, cfg.Operations)...)
	}
	return results
}

// checkTargets warns about target properties the category schema does not declare
// or declares read-only. Categories without a declared schema are not checked.
func checkTargets(cat model.Category, schema []model.PropertyDef, specs []batch.OperationSpec) []Result {
	if len(schema) == 0 {
		return nil
	}
	declared := make(map[string]model.PropertyDef, len(schema))
	for _, def := range schema {
		declared[def.Name] = def
	}
	var results []Result
	for _, spec := range specs {
		for _, target := range spec.Targets {
			def, ok := declared[target]
			switch {
			case !ok:
				results = append(results, Result{
					Status:         StatusWarn,
					CheckName:      messages.DoctorCheckNameFill,
					Message:        fmt.Sprintf(messages.DoctorTargetUndeclaredFmt, spec.Kind, target, cat),
					Recommendation: messages.DoctorTargetRecommend,
				})
			case def.ReadOnly:
				results = append(results, Result{
					Status:         StatusWarn,
					CheckName:      messages.DoctorCheckNameFill,
					Message:        fmt.Sprintf(messages.DoctorTargetReadOnlyFmt, spec.Kind, target, cat),
					Recommendation: messages.DoctorTargetRecommend,
				})
			}
		}
	}
	return results
}

// CheckGroups reports whether group propagation can find its templates.
func CheckGroups(ctx context.Context, p *config.Profile, r document.Reader) []Result {
	if strings.TrimSpace(p.Groups.Property) == "" {
		return []Result{{
			Status:    StatusOK,
			CheckName: messages.DoctorCheckNameGroups,
			Message:   messages.DoctorGroupsNotConfigured,
		}}
	}
	templates, err := r.GroupTemplates(ctx)
	if err != nil {
		return []Result{readFailure(messages.DoctorCheckNameGroups, err)}
	}
	instances, err := r.GroupInstances(ctx)
	if err != nil {
		return []Result{readFailure(messages.DoctorCheckNameGroups, err)}
	}
	req, ws := p.GroupRequest(templates)
	var results []Result
	for _, w := range ws {
		results = append(results, Result{
			Status:         StatusFail,
			CheckName:      messages.DoctorCheckNameGroups,
			Message:        w.Message,
			Recommendation: w.Fix,
		})
	}
	if len(templates) == 0 {
		return append(results, Result{
			Status:    StatusWarn,
			CheckName: messages.DoctorCheckNameGroups,
			Message:   messages.DoctorGroupsNoTemplates,
		})
	}
	selected := len(templates)
	if len(req.TemplateIDs) > 0 {
		selected = len(req.TemplateIDs)
	}
	return append(results, Result{
		Status:    StatusOK,
		CheckName: messages.DoctorCheckNameGroups,
		Message:   fmt.Sprintf(messages.DoctorGroupsFoundFmt, req.Property, selected, len(instances)),
	})
}

func readFailure(check string, err error) Result {
	return Result{
		Status:    StatusFail,
		CheckName: check,
		Message:   fmt.Sprintf(messages.DoctorReadFailedFmt, err),
	}
}
