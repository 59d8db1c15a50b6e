package contracts

import "context"

type EncounterFhirClient interface {
	CountEncountersByPatientID(ctx context.Context, patientID string) (int, error)
}
