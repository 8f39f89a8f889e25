package actions

import (
	"github.com/google/uuid"
)

const (
	mergeKindNameConstant              = "merge"
	releaseKindNameConstant            = "release"
	moveTagKindNameConstant            = "move-tag"
	checkDiffsKindNameConstant         = "check-diffs"
	checkNonActualTagsKindNameConstant = "check-tags"
	unknownKindNameConstant            = "unknown"
	mergeKindDescriptionConstant       = "Merge branches"
	releaseKindDescriptionConstant     = "Make a release"
	moveTagKindDescriptionConstant     = "Move tag on master branch to latest commit"
	checkDiffsKindDescription          = "Check diff between branches"
	checkNonActualTagsKindDescription  = "Find tags not on last commit in master branch"
)

// Kind identifies one of the supported operation types.
type Kind int

// Supported operation kinds. Values are part of the persisted result format
// and must stay stable.
const (
	KindMerge              Kind = 0
	KindRelease            Kind = 1
	KindMoveTag            Kind = 3
	KindCheckDiffs         Kind = 100
	KindCheckNonActualTags Kind = 101
)

// KindDescriptions maps every supported kind to its display description.
var KindDescriptions = map[Kind]string{
	KindMerge:              mergeKindDescriptionConstant,
	KindRelease:            releaseKindDescriptionConstant,
	KindMoveTag:            moveTagKindDescriptionConstant,
	KindCheckDiffs:         checkDiffsKindDescription,
	KindCheckNonActualTags: checkNonActualTagsKindDescription,
}

// WritableKinds lists the kinds that mutate remote repositories.
var WritableKinds = []Kind{KindMerge, KindRelease, KindMoveTag}

// String returns the short command-style name of the kind.
func (kind Kind) String() string {
	switch kind {
	case KindMerge:
		return mergeKindNameConstant
	case KindRelease:
		return releaseKindNameConstant
	case KindMoveTag:
		return moveTagKindNameConstant
	case KindCheckDiffs:
		return checkDiffsKindNameConstant
	case KindCheckNonActualTags:
		return checkNonActualTagsKindNameConstant
	default:
		return unknownKindNameConstant
	}
}

// Description returns the human-readable operation description.
func (kind Kind) Description() string {
	description, exists := KindDescriptions[kind]
	if !exists {
		return unknownKindNameConstant
	}
	return description
}

// Action is one configured operation over an ordered project list. Parameters
// and the project list are fixed at construction.
type Action interface {
	// ActionID returns the opaque identity assigned at construction.
	ActionID() string

	// ActionKind returns the operation kind tag.
	ActionKind() Kind

	// TargetProjects returns the project identifiers in iteration order.
	TargetProjects() []int
}

type actionBase struct {
	identifier string
	kind       Kind
	projects   []int
}

func newActionBase(kind Kind, projects []int) actionBase {
	duplicatedProjects := make([]int, len(projects))
	copy(duplicatedProjects, projects)
	return actionBase{identifier: uuid.NewString(), kind: kind, projects: duplicatedProjects}
}

// ActionID returns the opaque identity assigned at construction.
func (base actionBase) ActionID() string {
	return base.identifier
}

// ActionKind returns the operation kind tag.
func (base actionBase) ActionKind() Kind {
	return base.kind
}

// TargetProjects returns a copy of the project identifiers in iteration order.
func (base actionBase) TargetProjects() []int {
	duplicatedProjects := make([]int, len(base.projects))
	copy(duplicatedProjects, base.projects)
	return duplicatedProjects
}

// MergeParameters configures a branch merge across projects.
type MergeParameters struct {
	SourceBranch string `mapstructure:"source" yaml:"source"`
	TargetBranch string `mapstructure:"target" yaml:"target"`
	Name         string `mapstructure:"name" yaml:"name"`
}

// MergeAction merges a source branch into a target branch per project.
type MergeAction struct {
	actionBase
	Parameters MergeParameters
}

// NewMergeAction constructs a merge action.
func NewMergeAction(projects []int, parameters MergeParameters) MergeAction {
	return MergeAction{actionBase: newActionBase(KindMerge, projects), Parameters: parameters}
}

// ReleaseParameters configures a release (test→master merge plus optional tag).
type ReleaseParameters struct {
	Version            string `mapstructure:"version" yaml:"version"`
	SetVersionTagAfter bool   `mapstructure:"set_version_tag_after" yaml:"set_version_tag_after"`
	MergeRequestName   string `mapstructure:"merge_request_name" yaml:"merge_request_name"`
}

// ReleaseAction cuts a release across projects.
type ReleaseAction struct {
	actionBase
	Parameters ReleaseParameters
}

// NewReleaseAction constructs a release action.
func NewReleaseAction(projects []int, parameters ReleaseParameters) ReleaseAction {
	return ReleaseAction{actionBase: newActionBase(KindRelease, projects), Parameters: parameters}
}

// MoveTagParameters configures moving a tag to the master head commit.
type MoveTagParameters struct {
	Name             string `mapstructure:"name" yaml:"name"`
	CreateIfNotExist bool   `mapstructure:"create_if_not_exist" yaml:"create_if_not_exist"`
}

// MoveTagAction moves a release tag to the latest master commit per project.
type MoveTagAction struct {
	actionBase
	Parameters MoveTagParameters
}

// NewMoveTagAction constructs a move-tag action.
func NewMoveTagAction(projects []int, parameters MoveTagParameters) MoveTagAction {
	return MoveTagAction{actionBase: newActionBase(KindMoveTag, projects), Parameters: parameters}
}

// CheckDiffsParameters configures a read-only branch comparison.
type CheckDiffsParameters struct {
	SourceBranch string `mapstructure:"source" yaml:"source"`
	TargetBranch string `mapstructure:"target" yaml:"target"`
}

// CheckDiffsAction reports which projects carry differences between branches.
type CheckDiffsAction struct {
	actionBase
	Parameters CheckDiffsParameters
}

// NewCheckDiffsAction constructs a check-diffs action.
func NewCheckDiffsAction(projects []int, parameters CheckDiffsParameters) CheckDiffsAction {
	return CheckDiffsAction{actionBase: newActionBase(KindCheckDiffs, projects), Parameters: parameters}
}

// CheckNonActualTagsParameters configures a read-only tag drift audit.
type CheckNonActualTagsParameters struct {
	Name string `mapstructure:"name" yaml:"name"`
}

// CheckNonActualTagsAction finds tags that drifted off the master head.
type CheckNonActualTagsAction struct {
	actionBase
	Parameters CheckNonActualTagsParameters
}

// NewCheckNonActualTagsAction constructs a check-non-actual-tags action.
func NewCheckNonActualTagsAction(projects []int, parameters CheckNonActualTagsParameters) CheckNonActualTagsAction {
	return CheckNonActualTagsAction{actionBase: newActionBase(KindCheckNonActualTags, projects), Parameters: parameters}
}
