package constvars

const (
	LoggingRequestIDKey     = "request_id"
	LoggingPatientIDKey     = "patient_id"
	LoggingPatientCountKey  = "patient_count"
	LoggingEncounterTotal   = "encounter_total"
	LoggingPageNumberKey    = "page_number"
	LoggingPageSizeKey      = "page_size"
	LoggingAcceptedCountKey = "accepted_count"
	LoggingCriteriaKey      = "criteria"
	LoggingSearchURLKey     = "search_url"
	LoggingResourceKey      = "resource"
)
