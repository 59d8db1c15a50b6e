package patients

import (
	"context"
	"patient-console/internal/app/contracts"
	"patient-console/internal/pkg/constvars"
	"patient-console/internal/pkg/dto/requests"
	"patient-console/internal/pkg/exceptions"
	"patient-console/internal/pkg/fhir_dto"
	"patient-console/internal/pkg/utils"

	"go.uber.org/zap"
)

type patientUsecase struct {
	PatientFhirClient   contracts.PatientFhirClient
	EncounterFhirClient contracts.EncounterFhirClient
	Log                 *zap.Logger
	PageSize            int
}

func NewPatientUsecase(
	patientFhirClient contracts.PatientFhirClient,
	encounterFhirClient contracts.EncounterFhirClient,
	logger *zap.Logger,
	pageSize int,
) contracts.PatientUsecase {
	return &patientUsecase{
		PatientFhirClient:   patientFhirClient,
		EncounterFhirClient: encounterFhirClient,
		Log:                 logger,
		PageSize:            pageSize,
	}
}

// FindPatients walks the paged search results in server order, optionally
// keeping only patients that have at least one Encounter, until MaxResults
// patients are collected or the pages run out. At most one page is held in
// memory at a time.
func (uc *patientUsecase) FindPatients(ctx context.Context, request *requests.FindPatientsRequest) ([]fhir_dto.Patient, error) {
	err := utils.ValidateStruct(request)
	if err != nil {
		return nil, exceptions.ErrInputValidation(err)
	}

	requestID := utils.RequestIDFromContext(ctx)
	uc.Log.Info("patientUsecase.FindPatients called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Strings(constvars.LoggingCriteriaKey, request.Criteria),
		zap.Int("max_results", request.MaxResults),
		zap.Bool("require_encounter", request.RequireEncounter),
	)

	page, err := uc.PatientFhirClient.SearchPatients(ctx, request.Criteria, uc.PageSize)
	if err != nil {
		return nil, err
	}

	collected := make([]fhir_dto.Patient, 0, request.MaxResults)
	pageNumber := 1

	for page != nil {
		uc.Log.Info("patientUsecase.FindPatients scanning page",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Int(constvars.LoggingPageNumberKey, pageNumber),
			zap.Int(constvars.LoggingPageSizeKey, len(page.Patients)),
			zap.Int(constvars.LoggingAcceptedCountKey, len(collected)),
		)

		for _, patient := range page.Patients {
			if request.RequireEncounter {
				total, err := uc.EncounterFhirClient.CountEncountersByPatientID(ctx, patient.ID)
				if err != nil {
					return nil, err
				}
				if total == 0 {
					continue
				}
			}

			collected = append(collected, patient)
			if len(collected) == request.MaxResults {
				uc.Log.Info("patientUsecase.FindPatients reached max results",
					zap.String(constvars.LoggingRequestIDKey, requestID),
					zap.Int(constvars.LoggingAcceptedCountKey, len(collected)),
				)
				return collected, nil
			}
		}

		if page.Next == "" {
			break
		}

		page, err = uc.PatientFhirClient.SearchPatientsByURL(ctx, page.Next)
		if err != nil {
			return nil, err
		}
		pageNumber++
	}

	uc.Log.Info("patientUsecase.FindPatients exhausted search results",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int(constvars.LoggingAcceptedCountKey, len(collected)),
	)
	return collected, nil
}

func (uc *patientUsecase) CreatePatient(ctx context.Context, request *requests.CreatePatientRequest) (*fhir_dto.Patient, error) {
	err := utils.ValidateStruct(request)
	if err != nil {
		return nil, exceptions.ErrInputValidation(err)
	}

	patient := &fhir_dto.Patient{
		ResourceType: constvars.ResourcePatient,
		Active:       true,
		Name: []fhir_dto.HumanName{
			{
				Use:    "official",
				Family: request.Family,
				Given:  request.Given,
			},
		},
		BirthDate: request.BirthDate,
	}

	return uc.PatientFhirClient.CreatePatient(ctx, patient)
}

func (uc *patientUsecase) GetPatientByID(ctx context.Context, patientID string) (*fhir_dto.Patient, error) {
	return uc.PatientFhirClient.FindPatientByID(ctx, patientID)
}

// UpdatePatient fetches the current resource, applies the requested local
// mutations, and submits it back as a full replacement.
func (uc *patientUsecase) UpdatePatient(ctx context.Context, request *requests.UpdatePatientRequest) (*fhir_dto.Patient, error) {
	err := utils.ValidateStruct(request)
	if err != nil {
		return nil, exceptions.ErrInputValidation(err)
	}

	patient, err := uc.PatientFhirClient.FindPatientByID(ctx, request.PatientID)
	if err != nil {
		return nil, err
	}
	if patient == nil {
		return nil, exceptions.ErrNoDataFHIRResource(nil, constvars.ResourcePatient)
	}

	if request.Gender != "" {
		patient.Gender = request.Gender
	}
	if request.Phone != "" {
		patient.Telecom = append(patient.Telecom, fhir_dto.ContactPoint{
			System: constvars.FhirContactPointSystemPhone,
			Value:  request.Phone,
			Use:    constvars.FhirContactPointUseMobile,
		})
	}

	return uc.PatientFhirClient.UpdatePatient(ctx, patient)
}

func (uc *patientUsecase) DeletePatient(ctx context.Context, patientID string) error {
	return uc.PatientFhirClient.DeletePatient(ctx, patientID)
}
