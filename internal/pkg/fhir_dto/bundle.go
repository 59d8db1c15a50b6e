package fhir_dto

import (
	"encoding/json"
	"patient-console/internal/pkg/constvars"
)

type FHIRBundle struct {
	ResourceType string        `json:"resourceType"`
	ID           string        `json:"id,omitempty"`
	Type         string        `json:"type,omitempty"`
	Total        *int          `json:"total,omitempty"`
	Link         []BundleLink  `json:"link,omitempty"`
	Entry        []BundleEntry `json:"entry,omitempty"`
}

type BundleLink struct {
	Relation string `json:"relation"`
	Url      string `json:"url"`
}

type BundleEntry struct {
	FullUrl  string          `json:"fullUrl,omitempty"`
	Resource json.RawMessage `json:"resource"`
}

// NextLink returns the continuation URL of the bundle, if the server provided one.
func (b *FHIRBundle) NextLink() (string, bool) {
	for _, link := range b.Link {
		if link.Relation == constvars.FhirBundleLinkRelationNext && link.Url != "" {
			return link.Url, true
		}
	}
	return "", false
}

// PatientSearchPage is one decoded page of a Patient search. Next is empty
// when the server exposed no continuation link.
type PatientSearchPage struct {
	Patients []Patient
	Total    *int
	Next     string
}
