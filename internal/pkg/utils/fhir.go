package utils

import (
	"fmt"
	"net/url"
	"strings"

	"patient-console/internal/pkg/constvars"
	"patient-console/internal/pkg/fhir_dto"
)

// GetFullName flattens the first HumanName into "Given ... Family".
func GetFullName(names []fhir_dto.HumanName) string {
	if len(names) == 0 {
		return ""
	}
	name := names[0]
	if name.Text != "" {
		return name.Text
	}
	parts := append([]string{}, name.Given...)
	if name.Family != "" {
		parts = append(parts, name.Family)
	}
	return strings.Join(parts, " ")
}

// BuildSearchQuery encodes raw key=value criteria into a query string,
// passing keys and values through unmodified apart from URL escaping.
func BuildSearchQuery(criteria []string, count int) string {
	values := url.Values{}
	for _, criterion := range criteria {
		key, value, found := strings.Cut(criterion, "=")
		if !found {
			continue
		}
		values.Add(key, value)
	}
	if count > 0 {
		values.Set(constvars.FhirSearchParamCount, fmt.Sprintf("%d", count))
	}
	return values.Encode()
}

// PatientReference renders the local reference used in search filters,
// e.g. "Patient/123".
func PatientReference(patientID string) string {
	return fmt.Sprintf("%s/%s", constvars.ResourcePatient, patientID)
}
