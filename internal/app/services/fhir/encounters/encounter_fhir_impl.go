package encounters

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"patient-console/internal/app/contracts"
	"patient-console/internal/pkg/constvars"
	"patient-console/internal/pkg/exceptions"
	"patient-console/internal/pkg/fhir_dto"
	"patient-console/internal/pkg/utils"

	"go.uber.org/zap"
)

type encounterFhirClient struct {
	BaseUrl    string
	HTTPClient *http.Client
	Log        *zap.Logger
}

func NewEncounterFhirClient(baseUrl string, httpClient *http.Client, logger *zap.Logger) contracts.EncounterFhirClient {
	return &encounterFhirClient{
		BaseUrl:    baseUrl + "/" + constvars.ResourceEncounter,
		HTTPClient: httpClient,
		Log:        logger,
	}
}

// CountEncountersByPatientID asks the server for a count-only bundle of the
// encounters referencing the patient. Only existence matters to callers.
func (c *encounterFhirClient) CountEncountersByPatientID(ctx context.Context, patientID string) (int, error) {
	requestID := utils.RequestIDFromContext(ctx)
	c.Log.Info("encounterFhirClient.CountEncountersByPatientID called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingPatientIDKey, patientID),
	)

	values := url.Values{}
	values.Set(constvars.FhirSearchParamPatient, utils.PatientReference(patientID))
	values.Set(constvars.FhirSearchParamSummary, constvars.FhirSummaryCount)
	searchURL := fmt.Sprintf("%s?%s", c.BaseUrl, values.Encode())

	req, err := http.NewRequestWithContext(ctx, constvars.MethodGet, searchURL, nil)
	if err != nil {
		c.Log.Error("encounterFhirClient.CountEncountersByPatientID error creating HTTP request",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return 0, exceptions.ErrCreateHTTPRequest(err)
	}
	req.Header.Set(constvars.HeaderAccept, constvars.MIMEApplicationFHIRJSON)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		c.Log.Error("encounterFhirClient.CountEncountersByPatientID error sending HTTP request",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return 0, exceptions.ErrSendHTTPRequest(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != constvars.StatusOK {
		bodyBytes, err := io.ReadAll(resp.Body)
		if err != nil {
			c.Log.Error("encounterFhirClient.CountEncountersByPatientID error reading response body",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.Error(err),
			)
			return 0, exceptions.ErrSearchFHIRResource(err, constvars.ResourceEncounter)
		}

		fhirErr := fmt.Errorf("unexpected status code %d", resp.StatusCode)
		var outcome fhir_dto.OperationOutcome
		if err := json.Unmarshal(bodyBytes, &outcome); err == nil && len(outcome.Issue) > 0 {
			fhirErr = fmt.Errorf("%s", outcome.Issue[0].Diagnostics)
		}
		c.Log.Error("encounterFhirClient.CountEncountersByPatientID FHIR error",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(fhirErr),
		)
		return 0, exceptions.ErrSearchFHIRResource(fhirErr, constvars.ResourceEncounter)
	}

	var bundle fhir_dto.FHIRBundle
	err = json.NewDecoder(resp.Body).Decode(&bundle)
	if err != nil {
		c.Log.Error("encounterFhirClient.CountEncountersByPatientID error decoding bundle",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return 0, exceptions.ErrDecodeResponse(err, constvars.ResourceBundle)
	}

	// Some servers omit total even for _summary=count; fall back to the
	// number of entries so the existence check still works.
	total := len(bundle.Entry)
	if bundle.Total != nil {
		total = *bundle.Total
	}

	c.Log.Info("encounterFhirClient.CountEncountersByPatientID succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingPatientIDKey, patientID),
		zap.Int(constvars.LoggingEncounterTotal, total),
	)
	return total, nil
}
