// Package wizard builds a fill profile interactively from the contents of a model.
package wizard

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/conn-castle/spatialfill/internal/config"
	"github.com/conn-castle/spatialfill/internal/document"
	"github.com/conn-castle/spatialfill/internal/messages"
	"github.com/conn-castle/spatialfill/internal/model"
	"github.com/conn-castle/spatialfill/internal/summary"
)

// ErrCancelled is returned when the user aborts a prompt.
var ErrCancelled = errors.New("wizard cancelled")

// scanCategories are the categories offered for scanning, in prompt order.
var scanCategories = []model.Category{
	model.CategoryFurniture,
	model.CategoryCasework,
	model.CategoryDoors,
	model.CategoryWindows,
	model.CategoryPlumbingFixtures,
	model.CategorySpecialtyEquipment,
	model.CategoryGenericModels,
	model.CategoryMechanicalEquipment,
	model.CategoryLightingFixtures,
	model.CategoryElectricalFixtures,
	model.CategoryCurtainPanels,
}

// defaultTargets are the suggested target properties per operation.
var defaultTargets = map[summary.Operation]string{
	summary.OpLevel:      "Level",
	summary.OpRoomName:   "Room Name",
	summary.OpRoomNumber: "Room Number",
	summary.OpGroupID:    "Group",
}

// Options locate the model the profile is written for.
type Options struct {
	// DocumentPath is written to document.path as given.
	DocumentPath string
	// ProfilePath names the profile in validation errors.
	ProfilePath string
}

// Run asks for the profile settings, offering only what r contains, and returns
// the encoded profile. The result always passes strict profile loading.
func Run(ctx context.Context, r document.Reader, ui UI, opts Options) ([]byte, error) {
	c := newChoices(opts.DocumentPath)

	available, err := populatedCategories(ctx, r)
	if err != nil {
		return nil, err
	}
	if len(available) == 0 {
		return nil, fmt.Errorf(messages.WizardNoElements)
	}
	c.Categories = append([]string(nil), available...)
	if err := ui.MultiSelect(messages.WizardCategoriesTitle, available, &c.Categories); err != nil {
		return nil, err
	}

	ops := make([]string, 0, len(summary.FillOperations()))
	for _, op := range summary.FillOperations() {
		ops = append(ops, string(op))
	}
	var selected []string
	if err := ui.MultiSelect(messages.WizardOperationsTitle, ops, &selected); err != nil {
		return nil, err
	}
	for _, name := range selected {
		op := summary.Operation(name)
		target := defaultTargets[op]
		if err := ui.Input(fmt.Sprintf(messages.WizardTargetTitleFmt, op), &target); err != nil {
			return nil, err
		}
		c.setTargets(op, target)
	}

	if c.has(summary.OpLevel) {
		if err := askBand(ctx, r, ui, c); err != nil {
			return nil, err
		}
	}
	if err := ui.Confirm(messages.WizardOverwriteTitle, &c.Overwrite); err != nil {
		return nil, err
	}
	if err := ui.Input(messages.WizardGroupPropertyTitle, &c.GroupProperty); err != nil {
		return nil, err
	}

	data, err := c.encode()
	if err != nil {
		return nil, err
	}
	if _, err := config.ParseProfile(data, opts.ProfilePath); err != nil {
		return nil, err
	}
	return data, nil
}

// populatedCategories returns the scan categories that have at least one element.
func populatedCategories(ctx context.Context, r document.Reader) ([]string, error) {
	var out []string
	for _, cat := range scanCategories {
		els, err := r.ElementsByCategory(ctx, cat)
		if err != nil {
			return nil, err
		}
		if len(els) > 0 {
			out = append(out, string(cat))
		}
	}
	return out, nil
}

func askBand(ctx context.Context, r document.Reader, ui UI, c *choices) error {
	levels, err := r.Levels(ctx)
	if err != nil {
		return err
	}
	if len(levels) < 2 {
		return fmt.Errorf(messages.WizardBandLevelsFmt, len(levels))
	}
	names := make([]string, 0, len(levels))
	for _, l := range levels {
		names = append(names, l.Name)
	}
	c.BandBase, c.BandTop = names[0], names[1]
	if err := ui.Select(messages.WizardBandBaseTitle, names, &c.BandBase); err != nil {
		return err
	}
	if err := ui.Select(messages.WizardBandTopTitle, names, &c.BandTop); err != nil {
		return err
	}
	if strings.TrimSpace(c.BandBase) == strings.TrimSpace(c.BandTop) {
		return fmt.Errorf(messages.WizardBandSameFmt, c.BandBase)
	}
	return nil
}
