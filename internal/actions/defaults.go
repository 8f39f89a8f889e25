package actions

import (
	"fmt"
	"strings"

	"github.com/temirov/branchops/internal/gitlab"
)

const templatePlaceholderFormatConstant = "{%d}"

// Settings carries the user-configurable templates used to prefill action
// parameters.
type Settings struct {
	MergeRequestNameTemplate        string `mapstructure:"merge_request_name_template"        yaml:"merge_request_name_template"`
	ReleaseTagNameTemplate          string `mapstructure:"release_tag_name_template"          yaml:"release_tag_name_template"`
	ReleaseMergeRequestNameTemplate string `mapstructure:"release_merge_request_name_template" yaml:"release_merge_request_name_template"`
}

// DefaultParameters returns the prefilled parameter set for the kind, or nil
// when the kind has no defaults.
func DefaultParameters(kind Kind, settings Settings) any {
	switch kind {
	case KindMerge:
		return MergeParameters{
			SourceBranch: gitlab.DefaultBranchTest,
			TargetBranch: gitlab.DefaultBranchDevelop,
			Name:         formatTemplate(settings.MergeRequestNameTemplate, gitlab.DefaultBranchTest, gitlab.DefaultBranchDevelop),
		}
	case KindRelease:
		return ReleaseParameters{
			SetVersionTagAfter: true,
			Version:            settings.ReleaseTagNameTemplate,
			MergeRequestName:   formatTemplate(settings.ReleaseMergeRequestNameTemplate, settings.ReleaseTagNameTemplate),
		}
	case KindMoveTag:
		return MoveTagParameters{
			CreateIfNotExist: false,
			Name:             settings.ReleaseTagNameTemplate,
		}
	case KindCheckDiffs:
		return CheckDiffsParameters{
			SourceBranch: gitlab.DefaultBranchMaster,
			TargetBranch: gitlab.DefaultBranchTest,
		}
	case KindCheckNonActualTags:
		return CheckNonActualTagsParameters{
			Name: settings.ReleaseTagNameTemplate,
		}
	default:
		return nil
	}
}

// formatTemplate substitutes indexed placeholders of the form {0}, {1} with
// the provided values.
func formatTemplate(template string, values ...string) string {
	formatted := template
	for valueIndex, value := range values {
		placeholder := fmt.Sprintf(templatePlaceholderFormatConstant, valueIndex)
		formatted = strings.ReplaceAll(formatted, placeholder, value)
	}
	return formatted
}
