package contracts

import (
	"context"
	"patient-console/internal/pkg/dto/requests"
	"patient-console/internal/pkg/fhir_dto"
)

type PatientUsecase interface {
	FindPatients(ctx context.Context, request *requests.FindPatientsRequest) ([]fhir_dto.Patient, error)
	CreatePatient(ctx context.Context, request *requests.CreatePatientRequest) (*fhir_dto.Patient, error)
	GetPatientByID(ctx context.Context, patientID string) (*fhir_dto.Patient, error)
	UpdatePatient(ctx context.Context, request *requests.UpdatePatientRequest) (*fhir_dto.Patient, error)
	DeletePatient(ctx context.Context, patientID string) error
}

type PatientFhirClient interface {
	CreatePatient(ctx context.Context, request *fhir_dto.Patient) (*fhir_dto.Patient, error)
	UpdatePatient(ctx context.Context, request *fhir_dto.Patient) (*fhir_dto.Patient, error)
	FindPatientByID(ctx context.Context, patientID string) (*fhir_dto.Patient, error)
	DeletePatient(ctx context.Context, patientID string) error
	SearchPatients(ctx context.Context, criteria []string, pageSize int) (*fhir_dto.PatientSearchPage, error)
	SearchPatientsByURL(ctx context.Context, pageURL string) (*fhir_dto.PatientSearchPage, error)
}
