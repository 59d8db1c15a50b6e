package constvars

// Client-facing messages, safe to print on the console.
const (
	ErrClientCannotProcessRequest          = "We cannot process your request right now, please try again later"
	ErrClientSomethingWrongWithApplication = "Something went wrong with the application"
)

// Developer messages, logged and attached to CustomError.
const (
	ErrDevValidationFailed     = "Request validation failed"
	ErrDevCannotMarshalJSON    = "Failed to marshal JSON"
	ErrDevCreateHTTPRequest    = "Failed to create HTTP request"
	ErrDevSendHTTPRequest      = "Failed to send HTTP request"
	ErrDevInvalidSearchPageURL = "Search continuation URL is not a valid URL"

	ErrDevFhirCreateResource   = "Failed to create FHIR resource: %s"
	ErrDevFhirGetResource      = "Failed to get FHIR resource: %s"
	ErrDevFhirSearchResource   = "Failed to search FHIR resource: %s"
	ErrDevFhirUpdateResource   = "Failed to update FHIR resource: %s"
	ErrDevFhirDeleteResource   = "Failed to delete FHIR resource: %s"
	ErrDevFhirDecodeResponse   = "Failed to decode FHIR response for resource: %s"
	ErrDevFhirResourceNotFound = "FHIR resource not found: %s"
)
