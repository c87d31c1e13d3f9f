package models

import "strings"

// AgeGroup is the category label carried by a cattle record.
type AgeGroup string

const (
	AgeGroupCalf   AgeGroup = "calf"
	AgeGroupHeifer AgeGroup = "heifer"
	AgeGroupCow    AgeGroup = "cow"
	AgeGroupSteer  AgeGroup = "steer"
	AgeGroupBull   AgeGroup = "bull"

	// Labels used by the herd records imported from the Spanish-speaking farms.
	AgeGroupTernero AgeGroup = "ternero"
	AgeGroupNovilla AgeGroup = "novilla"
	AgeGroupVaca    AgeGroup = "vaca"
	AgeGroupNovillo AgeGroup = "novillo"
	AgeGroupToro    AgeGroup = "toro"
)

var knownAgeGroups = map[AgeGroup]bool{
	AgeGroupCalf:    true,
	AgeGroupHeifer:  true,
	AgeGroupCow:     true,
	AgeGroupSteer:   false,
	AgeGroupBull:    false,
	AgeGroupTernero: true,
	AgeGroupNovilla: true,
	AgeGroupVaca:    true,
	AgeGroupNovillo: false,
	AgeGroupToro:    false,
}

// TrimAgeGroup keeps the label as the client wrote it, minus surrounding
// spaces. This is the stored form.
func TrimAgeGroup(raw string) AgeGroup {
	return AgeGroup(strings.TrimSpace(raw))
}

// NormalizeAgeGroup lower-cases and trims a raw label for comparisons.
func NormalizeAgeGroup(raw string) AgeGroup {
	return AgeGroup(strings.ToLower(strings.TrimSpace(raw)))
}

// IsKnown reports whether the label belongs to the supported set.
func (a AgeGroup) IsKnown() bool {
	_, ok := knownAgeGroups[NormalizeAgeGroup(string(a))]
	return ok
}

// CanProduce reports whether products may be recorded for this age group.
// Unknown labels are treated as producing; validation rejects them earlier.
func (a AgeGroup) CanProduce() bool {
	producing, ok := knownAgeGroups[NormalizeAgeGroup(string(a))]
	return !ok || producing
}

// AgeGroupLabels lists the supported labels, for error messages.
func AgeGroupLabels() []string {
	return []string{
		string(AgeGroupCalf), string(AgeGroupHeifer), string(AgeGroupCow), string(AgeGroupSteer), string(AgeGroupBull),
		string(AgeGroupTernero), string(AgeGroupNovilla), string(AgeGroupVaca), string(AgeGroupNovillo), string(AgeGroupToro),
	}
}

// NonProducingAgeGroups lists the labels for which products are rejected.
func NonProducingAgeGroups() []AgeGroup {
	var groups []AgeGroup
	for _, label := range AgeGroupLabels() {
		if !knownAgeGroups[AgeGroup(label)] {
			groups = append(groups, AgeGroup(label))
		}
	}
	return groups
}
