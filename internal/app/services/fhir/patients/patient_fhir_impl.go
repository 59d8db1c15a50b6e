package patients

import (
	"bytes"
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

type patientFhirClient struct {
	BaseUrl    string
	HTTPClient *http.Client
	Log        *zap.Logger
}

func NewPatientFhirClient(baseUrl string, httpClient *http.Client, logger *zap.Logger) contracts.PatientFhirClient {
	return &patientFhirClient{
		BaseUrl:    baseUrl + "/" + constvars.ResourcePatient,
		HTTPClient: httpClient,
		Log:        logger,
	}
}

func (c *patientFhirClient) CreatePatient(ctx context.Context, request *fhir_dto.Patient) (*fhir_dto.Patient, error) {
	requestID := utils.RequestIDFromContext(ctx)
	c.Log.Info("patientFhirClient.CreatePatient called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)

	requestJSON, err := json.Marshal(request)
	if err != nil {
		c.Log.Error("patientFhirClient.CreatePatient error marshaling JSON",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, exceptions.ErrCannotMarshalJSON(err)
	}

	req, err := http.NewRequestWithContext(ctx, constvars.MethodPost, c.BaseUrl, bytes.NewBuffer(requestJSON))
	if err != nil {
		c.Log.Error("patientFhirClient.CreatePatient error creating HTTP request",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, exceptions.ErrCreateHTTPRequest(err)
	}
	req.Header.Set(constvars.HeaderContentType, constvars.MIMEApplicationFHIRJSON)
	req.Header.Set(constvars.HeaderAccept, constvars.MIMEApplicationFHIRJSON)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		c.Log.Error("patientFhirClient.CreatePatient error sending HTTP request",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, exceptions.ErrSendHTTPRequest(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != constvars.StatusCreated && resp.StatusCode != constvars.StatusOK {
		return nil, c.outcomeError(requestID, "patientFhirClient.CreatePatient", resp, exceptions.ErrCreateFHIRResource)
	}

	patientFhir := new(fhir_dto.Patient)
	err = json.NewDecoder(resp.Body).Decode(patientFhir)
	if err != nil {
		c.Log.Error("patientFhirClient.CreatePatient error decoding response",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, exceptions.ErrDecodeResponse(err, constvars.ResourcePatient)
	}

	c.Log.Info("patientFhirClient.CreatePatient succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingPatientIDKey, patientFhir.ID),
	)
	return patientFhir, nil
}

func (c *patientFhirClient) FindPatientByID(ctx context.Context, patientID string) (*fhir_dto.Patient, error) {
	requestID := utils.RequestIDFromContext(ctx)
	c.Log.Info("patientFhirClient.FindPatientByID called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingPatientIDKey, patientID),
	)

	req, err := http.NewRequestWithContext(ctx, constvars.MethodGet, fmt.Sprintf("%s/%s", c.BaseUrl, patientID), nil)
	if err != nil {
		c.Log.Error("patientFhirClient.FindPatientByID error creating HTTP request",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, exceptions.ErrCreateHTTPRequest(err)
	}
	req.Header.Set(constvars.HeaderAccept, constvars.MIMEApplicationFHIRJSON)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		c.Log.Error("patientFhirClient.FindPatientByID error sending HTTP request",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, exceptions.ErrSendHTTPRequest(err)
	}
	defer resp.Body.Close()

	// Absence is not an error: a missing or deleted patient yields no result.
	if resp.StatusCode == constvars.StatusNotFound || resp.StatusCode == constvars.StatusGone {
		c.Log.Info("patientFhirClient.FindPatientByID patient not found",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingPatientIDKey, patientID),
		)
		return nil, nil
	}

	if resp.StatusCode != constvars.StatusOK {
		return nil, c.outcomeError(requestID, "patientFhirClient.FindPatientByID", resp, exceptions.ErrGetFHIRResource)
	}

	patientFhir := new(fhir_dto.Patient)
	err = json.NewDecoder(resp.Body).Decode(patientFhir)
	if err != nil {
		c.Log.Error("patientFhirClient.FindPatientByID error decoding response",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, exceptions.ErrDecodeResponse(err, constvars.ResourcePatient)
	}

	c.Log.Info("patientFhirClient.FindPatientByID succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingPatientIDKey, patientFhir.ID),
	)
	return patientFhir, nil
}

func (c *patientFhirClient) UpdatePatient(ctx context.Context, request *fhir_dto.Patient) (*fhir_dto.Patient, error) {
	requestID := utils.RequestIDFromContext(ctx)
	c.Log.Info("patientFhirClient.UpdatePatient called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingPatientIDKey, request.ID),
	)

	if request.ID == "" {
		err := fmt.Errorf("patient has no id")
		return nil, exceptions.ErrUpdateFHIRResource(err, constvars.ResourcePatient)
	}

	requestJSON, err := json.Marshal(request)
	if err != nil {
		c.Log.Error("patientFhirClient.UpdatePatient error marshaling JSON",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, exceptions.ErrCannotMarshalJSON(err)
	}

	req, err := http.NewRequestWithContext(ctx, constvars.MethodPut, fmt.Sprintf("%s/%s", c.BaseUrl, request.ID), bytes.NewBuffer(requestJSON))
	if err != nil {
		c.Log.Error("patientFhirClient.UpdatePatient error creating HTTP request",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, exceptions.ErrCreateHTTPRequest(err)
	}
	req.Header.Set(constvars.HeaderContentType, constvars.MIMEApplicationFHIRJSON)
	req.Header.Set(constvars.HeaderAccept, constvars.MIMEApplicationFHIRJSON)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		c.Log.Error("patientFhirClient.UpdatePatient error sending HTTP request",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, exceptions.ErrSendHTTPRequest(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != constvars.StatusOK && resp.StatusCode != constvars.StatusCreated {
		return nil, c.outcomeError(requestID, "patientFhirClient.UpdatePatient", resp, exceptions.ErrUpdateFHIRResource)
	}

	patientFhir := new(fhir_dto.Patient)
	err = json.NewDecoder(resp.Body).Decode(patientFhir)
	if err != nil {
		c.Log.Error("patientFhirClient.UpdatePatient error decoding response",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, exceptions.ErrDecodeResponse(err, constvars.ResourcePatient)
	}

	c.Log.Info("patientFhirClient.UpdatePatient succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingPatientIDKey, patientFhir.ID),
	)
	return patientFhir, nil
}

func (c *patientFhirClient) DeletePatient(ctx context.Context, patientID string) error {
	requestID := utils.RequestIDFromContext(ctx)
	c.Log.Info("patientFhirClient.DeletePatient called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingPatientIDKey, patientID),
	)

	req, err := http.NewRequestWithContext(ctx, constvars.MethodDelete, fmt.Sprintf("%s/%s", c.BaseUrl, patientID), nil)
	if err != nil {
		c.Log.Error("patientFhirClient.DeletePatient error creating HTTP request",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return exceptions.ErrCreateHTTPRequest(err)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		c.Log.Error("patientFhirClient.DeletePatient error sending HTTP request",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return exceptions.ErrSendHTTPRequest(err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case constvars.StatusOK, constvars.StatusAccepted, constvars.StatusNoContent:
	case constvars.StatusNotFound, constvars.StatusGone:
		// Already gone, nothing left to delete.
		c.Log.Info("patientFhirClient.DeletePatient patient already gone",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingPatientIDKey, patientID),
		)
	default:
		return c.outcomeError(requestID, "patientFhirClient.DeletePatient", resp, exceptions.ErrDeleteFHIRResource)
	}

	c.Log.Info("patientFhirClient.DeletePatient succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingPatientIDKey, patientID),
	)
	return nil
}

func (c *patientFhirClient) SearchPatients(ctx context.Context, criteria []string, pageSize int) (*fhir_dto.PatientSearchPage, error) {
	requestID := utils.RequestIDFromContext(ctx)
	c.Log.Info("patientFhirClient.SearchPatients called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Strings(constvars.LoggingCriteriaKey, criteria),
	)

	searchURL := c.BaseUrl
	if query := utils.BuildSearchQuery(criteria, pageSize); query != "" {
		searchURL += "?" + query
	}

	return c.fetchSearchPage(ctx, requestID, searchURL)
}

func (c *patientFhirClient) SearchPatientsByURL(ctx context.Context, pageURL string) (*fhir_dto.PatientSearchPage, error) {
	requestID := utils.RequestIDFromContext(ctx)
	c.Log.Info("patientFhirClient.SearchPatientsByURL called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingSearchURLKey, pageURL),
	)

	// The continuation URL comes from the server's bundle, check it parses
	// before issuing the request.
	if _, err := url.Parse(pageURL); err != nil {
		return nil, exceptions.ErrInvalidSearchPageURL(err)
	}

	return c.fetchSearchPage(ctx, requestID, pageURL)
}

func (c *patientFhirClient) fetchSearchPage(ctx context.Context, requestID, searchURL string) (*fhir_dto.PatientSearchPage, error) {
	req, err := http.NewRequestWithContext(ctx, constvars.MethodGet, searchURL, nil)
	if err != nil {
		c.Log.Error("patientFhirClient.fetchSearchPage error creating HTTP request",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, exceptions.ErrCreateHTTPRequest(err)
	}
	req.Header.Set(constvars.HeaderAccept, constvars.MIMEApplicationFHIRJSON)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		c.Log.Error("patientFhirClient.fetchSearchPage error sending HTTP request",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, exceptions.ErrSendHTTPRequest(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != constvars.StatusOK {
		return nil, c.outcomeError(requestID, "patientFhirClient.fetchSearchPage", resp, exceptions.ErrSearchFHIRResource)
	}

	var bundle fhir_dto.FHIRBundle
	err = json.NewDecoder(resp.Body).Decode(&bundle)
	if err != nil {
		c.Log.Error("patientFhirClient.fetchSearchPage error decoding bundle",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, exceptions.ErrDecodeResponse(err, constvars.ResourceBundle)
	}

	page := &fhir_dto.PatientSearchPage{
		Patients: make([]fhir_dto.Patient, 0, len(bundle.Entry)),
		Total:    bundle.Total,
	}
	for _, entry := range bundle.Entry {
		var patient fhir_dto.Patient
		err = json.Unmarshal(entry.Resource, &patient)
		if err != nil {
			c.Log.Error("patientFhirClient.fetchSearchPage error decoding entry",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.Error(err),
			)
			return nil, exceptions.ErrDecodeResponse(err, constvars.ResourcePatient)
		}
		if patient.ResourceType != "" && patient.ResourceType != constvars.ResourcePatient {
			continue
		}
		page.Patients = append(page.Patients, patient)
	}
	if next, ok := bundle.NextLink(); ok {
		page.Next = next
	}

	c.Log.Info("patientFhirClient.fetchSearchPage succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int(constvars.LoggingPageSizeKey, len(page.Patients)),
	)
	return page, nil
}

// outcomeError reads a non-success response body, surfaces the first
// OperationOutcome issue when the server sent one, and wraps it with wrap.
func (c *patientFhirClient) outcomeError(requestID, operation string, resp *http.Response, wrap func(error, string) *exceptions.CustomError) error {
	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		c.Log.Error(operation+" error reading response body",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return wrap(err, constvars.ResourcePatient)
	}

	fhirErr := fmt.Errorf("unexpected status code %d", resp.StatusCode)
	var outcome fhir_dto.OperationOutcome
	if err := json.Unmarshal(bodyBytes, &outcome); err == nil && len(outcome.Issue) > 0 {
		fhirErr = fmt.Errorf("%s", outcome.Issue[0].Diagnostics)
	}

	c.Log.Error(operation+" FHIR error",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Error(fhirErr),
	)
	return wrap(fhirErr, constvars.ResourcePatient)
}
