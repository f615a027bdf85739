package summary

// SkipReason explains why an element was not mutated. Skips are expected outcomes,
// distinct from failures.
type SkipReason string

// Closed set of skip reasons.
const (
	SkipNoBoundingBox       SkipReason = "NoBoundingBox"
	SkipBelowBand           SkipReason = "BelowBand"
	SkipAboveBand           SkipReason = "AboveBand"
	SkipNoLocation          SkipReason = "NoLocation"
	SkipNoRoomFound         SkipReason = "NoRoomFound"
	SkipParameterMissing    SkipReason = "ParameterMissing"
	SkipParameterReadOnly   SkipReason = "ParameterReadOnly"
	SkipValueExists         SkipReason = "ValueExists"
	SkipNestedGroup         SkipReason = "NestedGroup"
	SkipGroupsSkippedNoName SkipReason = "GroupsSkippedNoName"
	SkipNotInGroup          SkipReason = "NotInGroup"
)

// SkipReasons lists every skip reason in report order.
func SkipReasons() []SkipReason {
	return []SkipReason{
		SkipNoBoundingBox,
		SkipBelowBand,
		SkipAboveBand,
		SkipNoLocation,
		SkipNoRoomFound,
		SkipParameterMissing,
		SkipParameterReadOnly,
		SkipValueExists,
		SkipNestedGroup,
		SkipGroupsSkippedNoName,
		SkipNotInGroup,
	}
}

// FailureKind classifies a failed write.
type FailureKind string

const (
	// FailureCoercion means the value could not be converted to the property's storage kind.
	FailureCoercion FailureKind = "CoercionFailed"
	// FailureHost means the document rejected the write.
	FailureHost FailureKind = "HostError"
)

// Operation is one independent fill operation.
type Operation string

// Fill operations in application order, plus the group propagation pass.
const (
	OpLevel          Operation = "level"
	OpRoomName       Operation = "room_name"
	OpRoomNumber     Operation = "room_number"
	OpGroupID        Operation = "group_id"
	OpGroupPropagate Operation = "group_propagate"
)

// FillOperations lists the fill operations in the order they are applied to an element.
func FillOperations() []Operation {
	return []Operation{OpLevel, OpRoomName, OpRoomNumber, OpGroupID}
}

// Known reports whether op is a fill operation.
func (op Operation) Known() bool {
	for _, known := range FillOperations() {
		if op == known {
			return true
		}
	}
	return false
}

// State is a coordinator run state.
type State string

// Run states.
const (
	StateIdle       State = "Idle"
	StateValidating State = "Validating"
	StatePreview    State = "Preview"
	StateExecuting  State = "Executing"
	StateCompleted  State = "Completed"
	StateRolledBack State = "RolledBack"
)
