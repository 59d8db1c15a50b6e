package config

type (
	InternalConfig struct {
		App  App
		FHIR FHIR
	}

	DriverConfig struct {
		Logger Logger
	}

	App struct {
		Env     string
		Version string
	}

	FHIR struct {
		BaseUrl                 string
		PageSize                int
		RequestTimeoutInSeconds int
	}

	Logger struct {
		Level               string
		OutputFileName      string
		OutputErrorFileName string
	}
)
