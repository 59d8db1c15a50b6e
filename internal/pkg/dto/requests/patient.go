package requests

type FindPatientsRequest struct {
	Criteria         []string `validate:"dive,search_criterion"`
	MaxResults       int      `validate:"required,gte=1"`
	RequireEncounter bool
}

type CreatePatientRequest struct {
	Given     []string `validate:"required,min=1,dive,required"`
	Family    string   `validate:"required"`
	BirthDate string   `validate:"required,datetime=2006-01-02"`
}

type UpdatePatientRequest struct {
	PatientID string `validate:"required"`
	Gender    string `validate:"omitempty,oneof=male female other unknown"`
	Phone     string
}
