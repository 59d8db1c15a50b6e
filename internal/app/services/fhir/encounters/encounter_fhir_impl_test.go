package encounters

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"patient-console/internal/pkg/fhir_dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestCountEncountersByPatientID(t *testing.T) {
	t.Run("uses a count-only search scoped to the patient", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/fhir/Encounter", r.URL.Path)

			query := r.URL.Query()
			assert.Equal(t, "Patient/p1", query.Get("patient"))
			assert.Equal(t, "count", query.Get("_summary"))

			total := 3
			w.Header().Set("Content-Type", "application/fhir+json")
			require.NoError(t, json.NewEncoder(w).Encode(fhir_dto.FHIRBundle{
				ResourceType: "Bundle",
				Type:         "searchset",
				Total:        &total,
			}))
		}))
		defer server.Close()

		client := NewEncounterFhirClient(server.URL+"/fhir", server.Client(), zap.NewNop())

		total, err := client.CountEncountersByPatientID(context.Background(), "p1")
		require.NoError(t, err)
		assert.Equal(t, 3, total)
	})

	t.Run("falls back to counting entries when total is omitted", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/fhir+json")
			require.NoError(t, json.NewEncoder(w).Encode(fhir_dto.FHIRBundle{
				ResourceType: "Bundle",
				Type:         "searchset",
				Entry: []fhir_dto.BundleEntry{
					{Resource: json.RawMessage(`{"resourceType":"Encounter","id":"e1"}`)},
					{Resource: json.RawMessage(`{"resourceType":"Encounter","id":"e2"}`)},
				},
			}))
		}))
		defer server.Close()

		client := NewEncounterFhirClient(server.URL+"/fhir", server.Client(), zap.NewNop())

		total, err := client.CountEncountersByPatientID(context.Background(), "p1")
		require.NoError(t, err)
		assert.Equal(t, 2, total)
	})

	t.Run("reports server failures", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			require.NoError(t, json.NewEncoder(w).Encode(fhir_dto.OperationOutcome{
				ResourceType: "OperationOutcome",
				Issue:        []fhir_dto.OperationOutcomeIssue{{Severity: "fatal", Code: "exception"}},
			}))
		}))
		defer server.Close()

		client := NewEncounterFhirClient(server.URL+"/fhir", server.Client(), zap.NewNop())

		_, err := client.CountEncountersByPatientID(context.Background(), "p1")
		assert.Error(t, err)
	})
}
