package fhir_dto

type Encounter struct {
	ID           string    `json:"id,omitempty"`
	ResourceType string    `json:"resourceType,omitempty"`
	Status       string    `json:"status,omitempty"`
	Class        Coding    `json:"class,omitempty"`
	Subject      Reference `json:"subject,omitempty"`
}
