package constvars

const (
	ResourcePatient   = "Patient"
	ResourceEncounter = "Encounter"
	ResourceBundle    = "Bundle"
)

const (
	FhirSearchParamCount   = "_count"
	FhirSearchParamSummary = "_summary"
	FhirSearchParamPatient = "patient"

	FhirSummaryCount = "count"
)

const (
	FhirBundleLinkRelationNext = "next"
	FhirBundleLinkRelationSelf = "self"
)

const (
	FhirGenderMale    = "male"
	FhirGenderFemale  = "female"
	FhirGenderOther   = "other"
	FhirGenderUnknown = "unknown"
)

const (
	FhirContactPointSystemPhone = "phone"
	FhirContactPointSystemEmail = "email"
	FhirContactPointUseMobile   = "mobile"
	FhirContactPointUseHome     = "home"
)
