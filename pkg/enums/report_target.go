package enums

import "fmt"

// ReportTargetType tags which entity a report complains about.
type ReportTargetType string

const (
	ReportTargetUser        ReportTargetType = "user"
	ReportTargetOrder       ReportTargetType = "order"
	ReportTargetMasterpiece ReportTargetType = "masterpiece"
)

var validReportTargetTypes = []ReportTargetType{
	ReportTargetUser,
	ReportTargetOrder,
	ReportTargetMasterpiece,
}

// String implements fmt.Stringer.
func (t ReportTargetType) String() string {
	return string(t)
}

// IsValid reports whether the value is a known ReportTargetType.
func (t ReportTargetType) IsValid() bool {
	for _, candidate := range validReportTargetTypes {
		if candidate == t {
			return true
		}
	}
	return false
}

// ParseReportTargetType converts raw input into a ReportTargetType.
func ParseReportTargetType(value string) (ReportTargetType, error) {
	for _, candidate := range validReportTargetTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid report target type %q", value)
}
