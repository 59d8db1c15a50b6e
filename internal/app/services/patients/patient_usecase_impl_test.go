package patients

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"patient-console/internal/pkg/dto/requests"
	"patient-console/internal/pkg/fhir_dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockPatientFhirClient struct {
	pages             map[string]*fhir_dto.PatientSearchPage
	firstPage         *fhir_dto.PatientSearchPage
	searchErr         error
	continuationErr   error
	searchCalls       int
	continuationCalls int
}

func (m *mockPatientFhirClient) CreatePatient(ctx context.Context, request *fhir_dto.Patient) (*fhir_dto.Patient, error) {
	return request, nil
}

func (m *mockPatientFhirClient) UpdatePatient(ctx context.Context, request *fhir_dto.Patient) (*fhir_dto.Patient, error) {
	return request, nil
}

func (m *mockPatientFhirClient) FindPatientByID(ctx context.Context, patientID string) (*fhir_dto.Patient, error) {
	return nil, nil
}

func (m *mockPatientFhirClient) DeletePatient(ctx context.Context, patientID string) error {
	return nil
}

func (m *mockPatientFhirClient) SearchPatients(ctx context.Context, criteria []string, pageSize int) (*fhir_dto.PatientSearchPage, error) {
	m.searchCalls++
	if m.searchErr != nil {
		return nil, m.searchErr
	}
	return m.firstPage, nil
}

func (m *mockPatientFhirClient) SearchPatientsByURL(ctx context.Context, pageURL string) (*fhir_dto.PatientSearchPage, error) {
	m.continuationCalls++
	if m.continuationErr != nil {
		return nil, m.continuationErr
	}
	page, ok := m.pages[pageURL]
	if !ok {
		return nil, fmt.Errorf("unexpected continuation url: %s", pageURL)
	}
	return page, nil
}

type mockEncounterFhirClient struct {
	countsByPatientID map[string]int
	countErr          error
	countCalls        int
}

func (m *mockEncounterFhirClient) CountEncountersByPatientID(ctx context.Context, patientID string) (int, error) {
	m.countCalls++
	if m.countErr != nil {
		return 0, m.countErr
	}
	return m.countsByPatientID[patientID], nil
}

func makePatients(ids ...string) []fhir_dto.Patient {
	patients := make([]fhir_dto.Patient, len(ids))
	for i, id := range ids {
		patients[i] = fhir_dto.Patient{
			ID:           id,
			ResourceType: "Patient",
			Name:         []fhir_dto.HumanName{{Family: "Coody", Given: []string{id}}},
		}
	}
	return patients
}

func patientIDs(patients []fhir_dto.Patient) []string {
	ids := make([]string, len(patients))
	for i, patient := range patients {
		ids[i] = patient.ID
	}
	return ids
}

func TestFindPatients(t *testing.T) {
	t.Run("returns all matches from a single page in order", func(t *testing.T) {
		patientClient := &mockPatientFhirClient{
			firstPage: &fhir_dto.PatientSearchPage{Patients: makePatients("p1", "p2", "p3")},
		}
		uc := NewPatientUsecase(patientClient, &mockEncounterFhirClient{}, zap.NewNop(), 20)

		found, err := uc.FindPatients(context.Background(), &requests.FindPatientsRequest{
			Criteria:   []string{"name=Coody"},
			MaxResults: 5,
		})

		require.NoError(t, err)
		assert.Equal(t, []string{"p1", "p2", "p3"}, patientIDs(found))
		assert.Equal(t, 0, patientClient.continuationCalls, "no continuation link, no continuation call")
	})

	t.Run("never returns more than max results", func(t *testing.T) {
		patientClient := &mockPatientFhirClient{
			firstPage: &fhir_dto.PatientSearchPage{
				Patients: makePatients("p1", "p2", "p3", "p4", "p5"),
				Next:     "http://fhir.test/page2",
			},
		}
		uc := NewPatientUsecase(patientClient, &mockEncounterFhirClient{}, zap.NewNop(), 20)

		found, err := uc.FindPatients(context.Background(), &requests.FindPatientsRequest{
			Criteria:   []string{"name=Coody"},
			MaxResults: 3,
		})

		require.NoError(t, err)
		assert.Equal(t, []string{"p1", "p2", "p3"}, patientIDs(found))
		assert.Equal(t, 0, patientClient.continuationCalls, "first page satisfied max results")
	})

	t.Run("walks continuation pages until max results reached", func(t *testing.T) {
		patientClient := &mockPatientFhirClient{
			firstPage: &fhir_dto.PatientSearchPage{
				Patients: makePatients("p1", "p2"),
				Next:     "http://fhir.test/page2",
			},
			pages: map[string]*fhir_dto.PatientSearchPage{
				"http://fhir.test/page2": {
					Patients: makePatients("p3", "p4", "p5"),
					Next:     "http://fhir.test/page3",
				},
			},
		}
		uc := NewPatientUsecase(patientClient, &mockEncounterFhirClient{}, zap.NewNop(), 2)

		found, err := uc.FindPatients(context.Background(), &requests.FindPatientsRequest{
			Criteria:   []string{"name=Coody"},
			MaxResults: 4,
		})

		require.NoError(t, err)
		assert.Equal(t, []string{"p1", "p2", "p3", "p4"}, patientIDs(found))
		assert.Equal(t, 1, patientClient.continuationCalls, "page 3 never needed")
	})

	t.Run("returns partial list when pages run out", func(t *testing.T) {
		patientClient := &mockPatientFhirClient{
			firstPage: &fhir_dto.PatientSearchPage{Patients: makePatients("p1", "p2")},
		}
		uc := NewPatientUsecase(patientClient, &mockEncounterFhirClient{}, zap.NewNop(), 20)

		found, err := uc.FindPatients(context.Background(), &requests.FindPatientsRequest{
			Criteria:   []string{"name=Coody"},
			MaxResults: 5,
		})

		require.NoError(t, err)
		assert.Len(t, found, 2)
	})

	t.Run("treats an absent first page as zero matches", func(t *testing.T) {
		patientClient := &mockPatientFhirClient{firstPage: nil}
		uc := NewPatientUsecase(patientClient, &mockEncounterFhirClient{}, zap.NewNop(), 20)

		found, err := uc.FindPatients(context.Background(), &requests.FindPatientsRequest{
			Criteria:   []string{"name=Coody"},
			MaxResults: 5,
		})

		require.NoError(t, err)
		assert.Empty(t, found)
	})

	t.Run("keeps only patients with encounters", func(t *testing.T) {
		patientClient := &mockPatientFhirClient{
			firstPage: &fhir_dto.PatientSearchPage{
				Patients: makePatients("p1", "p2", "p3", "p4", "p5"),
				Next:     "http://fhir.test/page2",
			},
		}
		encounterClient := &mockEncounterFhirClient{
			countsByPatientID: map[string]int{"p2": 1, "p4": 3},
		}
		uc := NewPatientUsecase(patientClient, encounterClient, zap.NewNop(), 20)

		found, err := uc.FindPatients(context.Background(), &requests.FindPatientsRequest{
			Criteria:         []string{"name=mark"},
			MaxResults:       2,
			RequireEncounter: true,
		})

		require.NoError(t, err)
		assert.Equal(t, []string{"p2", "p4"}, patientIDs(found))
		assert.Equal(t, 0, patientClient.continuationCalls, "page 2 never fetched")
		assert.Equal(t, 4, encounterClient.countCalls, "one existence check per scanned entry")
	})

	t.Run("propagates initial search failures", func(t *testing.T) {
		searchErr := errors.New("connection refused")
		patientClient := &mockPatientFhirClient{searchErr: searchErr}
		uc := NewPatientUsecase(patientClient, &mockEncounterFhirClient{}, zap.NewNop(), 20)

		found, err := uc.FindPatients(context.Background(), &requests.FindPatientsRequest{
			Criteria:   []string{"name=Coody"},
			MaxResults: 5,
		})

		assert.ErrorIs(t, err, searchErr)
		assert.Nil(t, found)
	})

	t.Run("propagates continuation failures and discards partial results", func(t *testing.T) {
		continuationErr := errors.New("server error")
		patientClient := &mockPatientFhirClient{
			firstPage: &fhir_dto.PatientSearchPage{
				Patients: makePatients("p1"),
				Next:     "http://fhir.test/page2",
			},
			continuationErr: continuationErr,
		}
		uc := NewPatientUsecase(patientClient, &mockEncounterFhirClient{}, zap.NewNop(), 20)

		found, err := uc.FindPatients(context.Background(), &requests.FindPatientsRequest{
			Criteria:   []string{"name=Coody"},
			MaxResults: 5,
		})

		assert.ErrorIs(t, err, continuationErr)
		assert.Nil(t, found)
	})

	t.Run("propagates encounter check failures", func(t *testing.T) {
		countErr := errors.New("encounter search failed")
		patientClient := &mockPatientFhirClient{
			firstPage: &fhir_dto.PatientSearchPage{Patients: makePatients("p1")},
		}
		encounterClient := &mockEncounterFhirClient{countErr: countErr}
		uc := NewPatientUsecase(patientClient, encounterClient, zap.NewNop(), 20)

		found, err := uc.FindPatients(context.Background(), &requests.FindPatientsRequest{
			Criteria:         []string{"name=Coody"},
			MaxResults:       5,
			RequireEncounter: true,
		})

		assert.ErrorIs(t, err, countErr)
		assert.Nil(t, found)
	})

	t.Run("rejects max results below one", func(t *testing.T) {
		patientClient := &mockPatientFhirClient{}
		uc := NewPatientUsecase(patientClient, &mockEncounterFhirClient{}, zap.NewNop(), 20)

		found, err := uc.FindPatients(context.Background(), &requests.FindPatientsRequest{
			Criteria:   []string{"name=Coody"},
			MaxResults: 0,
		})

		assert.Error(t, err)
		assert.Nil(t, found)
		assert.Equal(t, 0, patientClient.searchCalls, "invalid request never reaches the server")
	})

	t.Run("rejects criteria without key=value shape", func(t *testing.T) {
		patientClient := &mockPatientFhirClient{}
		uc := NewPatientUsecase(patientClient, &mockEncounterFhirClient{}, zap.NewNop(), 20)

		found, err := uc.FindPatients(context.Background(), &requests.FindPatientsRequest{
			Criteria:   []string{"name"},
			MaxResults: 5,
		})

		assert.Error(t, err)
		assert.Nil(t, found)
		assert.Equal(t, 0, patientClient.searchCalls)
	})
}

func TestCreatePatient(t *testing.T) {
	t.Run("builds the resource from the request", func(t *testing.T) {
		uc := NewPatientUsecase(&mockPatientFhirClient{}, &mockEncounterFhirClient{}, zap.NewNop(), 20)

		created, err := uc.CreatePatient(context.Background(), &requests.CreatePatientRequest{
			Given:     []string{"Harry", "James"},
			Family:    "Coody",
			BirthDate: "1980-04-01",
		})

		require.NoError(t, err)
		assert.Equal(t, "Patient", created.ResourceType)
		require.Len(t, created.Name, 1)
		assert.Equal(t, "Coody", created.Name[0].Family)
		assert.Equal(t, []string{"Harry", "James"}, created.Name[0].Given)
		assert.Equal(t, "1980-04-01", created.BirthDate)
		assert.True(t, created.Active)
	})

	t.Run("rejects a malformed birth date", func(t *testing.T) {
		uc := NewPatientUsecase(&mockPatientFhirClient{}, &mockEncounterFhirClient{}, zap.NewNop(), 20)

		created, err := uc.CreatePatient(context.Background(), &requests.CreatePatientRequest{
			Given:     []string{"Harry"},
			Family:    "Coody",
			BirthDate: "01-04-1980",
		})

		assert.Error(t, err)
		assert.Nil(t, created)
	})
}

func TestUpdatePatient(t *testing.T) {
	t.Run("applies gender and phone to the fetched resource", func(t *testing.T) {
		existing := &fhir_dto.Patient{
			ID:           "p1",
			ResourceType: "Patient",
			Name:         []fhir_dto.HumanName{{Family: "Coody", Given: []string{"Harry"}}},
		}
		patientClient := &updateRecordingClient{existing: existing}
		uc := NewPatientUsecase(patientClient, &mockEncounterFhirClient{}, zap.NewNop(), 20)

		updated, err := uc.UpdatePatient(context.Background(), &requests.UpdatePatientRequest{
			PatientID: "p1",
			Gender:    "female",
			Phone:     "+15551234567",
		})

		require.NoError(t, err)
		assert.Equal(t, "female", updated.Gender)
		require.Len(t, updated.Telecom, 1)
		assert.Equal(t, "phone", updated.Telecom[0].System)
		assert.Equal(t, "+15551234567", updated.Telecom[0].Value)
	})

	t.Run("fails when the patient does not exist", func(t *testing.T) {
		patientClient := &updateRecordingClient{existing: nil}
		uc := NewPatientUsecase(patientClient, &mockEncounterFhirClient{}, zap.NewNop(), 20)

		updated, err := uc.UpdatePatient(context.Background(), &requests.UpdatePatientRequest{
			PatientID: "missing",
		})

		assert.Error(t, err)
		assert.Nil(t, updated)
	})
}

type updateRecordingClient struct {
	mockPatientFhirClient
	existing *fhir_dto.Patient
}

func (c *updateRecordingClient) FindPatientByID(ctx context.Context, patientID string) (*fhir_dto.Patient, error) {
	return c.existing, nil
}

func (c *updateRecordingClient) UpdatePatient(ctx context.Context, request *fhir_dto.Patient) (*fhir_dto.Patient, error) {
	return request, nil
}
