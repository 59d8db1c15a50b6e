package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"patient-console/internal/app/config"
	"patient-console/internal/app/contracts"
	"patient-console/internal/app/drivers/logger"
	"patient-console/internal/app/services/fhir/encounters"
	fhirpatients "patient-console/internal/app/services/fhir/patients"
	"patient-console/internal/app/services/patients"
	"patient-console/internal/pkg/dto/requests"
	"patient-console/internal/pkg/exceptions"
	"patient-console/internal/pkg/fhir_dto"
	"patient-console/internal/pkg/utils"

	json "github.com/goccy/go-json"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli"
)

// App name and usage.
const Name = "patient-console"
const Usage = "Search and manage Patient resources on a FHIR server"

func main() {
	app := setUpApp()
	if err := app.Run(os.Args); err != nil {
		if customErr, ok := err.(*exceptions.CustomError); ok {
			log.Errorf("%s: %s", customErr.ClientMessage, customErr.DevMessage)
		} else {
			log.Error(err)
		}
		os.Exit(1)
	}
}

func setUpApp() *cli.App {
	driverConfig := config.NewDriverConfig()
	internalConfig := config.NewInternalConfig()

	logger.InitLogger(internalConfig)
	zapLogger := logger.NewZapLogger(driverConfig, internalConfig)

	httpClient := &http.Client{
		Timeout: time.Duration(internalConfig.FHIR.RequestTimeoutInSeconds) * time.Second,
	}

	patientFhirClient := fhirpatients.NewPatientFhirClient(internalConfig.FHIR.BaseUrl, httpClient, zapLogger)
	encounterFhirClient := encounters.NewEncounterFhirClient(internalConfig.FHIR.BaseUrl, httpClient, zapLogger)
	patientUsecase := patients.NewPatientUsecase(patientFhirClient, encounterFhirClient, zapLogger, internalConfig.FHIR.PageSize)

	app := cli.NewApp()
	app.Name = Name
	app.Usage = Usage
	app.Version = internalConfig.App.Version

	var criteria cli.StringSlice
	var given cli.StringSlice
	var maxResults int
	var requireEncounter, keep bool
	var family, birthDate, gender, phone string

	app.Commands = []cli.Command{
		{
			Name:  "search",
			Usage: "Search patients, walking result pages until enough matches are collected",
			Flags: []cli.Flag{
				cli.StringSliceFlag{
					Name:  "criteria, c",
					Usage: "FHIR search filter as key=value, repeatable (e.g. -c name=Coody)",
					Value: &criteria,
				},
				cli.IntFlag{
					Name:        "max-results, n",
					Usage:       "Stop after collecting this many patients",
					Value:       5,
					Destination: &maxResults,
				},
				cli.BoolFlag{
					Name:        "require-encounter",
					Usage:       "Only keep patients that have at least one Encounter",
					Destination: &requireEncounter,
				},
			},
			Action: func(c *cli.Context) error {
				ctx := utils.WithRequestID(context.Background())
				found, err := patientUsecase.FindPatients(ctx, &requests.FindPatientsRequest{
					Criteria:         c.StringSlice("criteria"),
					MaxResults:       maxResults,
					RequireEncounter: requireEncounter,
				})
				if err != nil {
					return err
				}

				fmt.Fprintf(c.App.Writer, "Found %d patient(s)\n", len(found))
				for _, patient := range found {
					printPatientSummary(c.App.Writer, &patient)
				}
				return nil
			},
		},
		{
			Name:  "demo",
			Usage: "Run the full sequential flow: search, create, read, update, delete",
			Flags: []cli.Flag{
				cli.StringSliceFlag{
					Name:  "given",
					Usage: "Given name(s) for the created patient, repeatable",
					Value: &given,
				},
				cli.StringFlag{
					Name:        "family",
					Usage:       "Family name for the created patient",
					Value:       "Coody",
					Destination: &family,
				},
				cli.StringFlag{
					Name:        "birthdate",
					Usage:       "Birth date for the created patient (YYYY-MM-DD)",
					Value:       "1980-04-01",
					Destination: &birthDate,
				},
				cli.StringFlag{
					Name:        "gender",
					Usage:       "Administrative gender set during the update step",
					Value:       "female",
					Destination: &gender,
				},
				cli.StringFlag{
					Name:        "phone",
					Usage:       "Phone contact point appended during the update step",
					Value:       "+15551234567",
					Destination: &phone,
				},
				cli.IntFlag{
					Name:        "max-results, n",
					Usage:       "Result cap for the search step",
					Value:       5,
					Destination: &maxResults,
				},
				cli.BoolFlag{
					Name:        "require-encounter",
					Usage:       "Only keep patients that have at least one Encounter in the search step",
					Destination: &requireEncounter,
				},
				cli.BoolFlag{
					Name:        "keep",
					Usage:       "Keep the created patient instead of deleting it at the end",
					Destination: &keep,
				},
			},
			Action: func(c *cli.Context) error {
				givenNames := c.StringSlice("given")
				if len(givenNames) == 0 {
					givenNames = []string{"Harry"}
				}
				return runDemo(c, patientUsecase, demoOptions{
					Given:            givenNames,
					Family:           family,
					BirthDate:        birthDate,
					Gender:           gender,
					Phone:            phone,
					MaxResults:       maxResults,
					RequireEncounter: requireEncounter,
					Keep:             keep,
				})
			},
		},
	}

	return app
}

type demoOptions struct {
	Given            []string
	Family           string
	BirthDate        string
	Gender           string
	Phone            string
	MaxResults       int
	RequireEncounter bool
	Keep             bool
}

func runDemo(c *cli.Context, patientUsecase contracts.PatientUsecase, opts demoOptions) error {
	ctx := utils.WithRequestID(context.Background())

	fmt.Fprintf(c.App.Writer, "Searching patients with name=%s ...\n", opts.Family)
	found, err := patientUsecase.FindPatients(ctx, &requests.FindPatientsRequest{
		Criteria:         []string{"name=" + opts.Family},
		MaxResults:       opts.MaxResults,
		RequireEncounter: opts.RequireEncounter,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "Found %d patient(s)\n", len(found))
	for _, patient := range found {
		printPatientSummary(c.App.Writer, &patient)
	}

	fmt.Fprintln(c.App.Writer, "Creating patient ...")
	created, err := patientUsecase.CreatePatient(ctx, &requests.CreatePatientRequest{
		Given:     opts.Given,
		Family:    opts.Family,
		BirthDate: opts.BirthDate,
	})
	if err != nil {
		return err
	}
	printPatientResource(c.App.Writer, created)

	fmt.Fprintf(c.App.Writer, "Reading patient %s back ...\n", created.ID)
	fetched, err := patientUsecase.GetPatientByID(ctx, created.ID)
	if err != nil {
		return err
	}
	if fetched == nil {
		return fmt.Errorf("patient %s not found after create", created.ID)
	}
	printPatientResource(c.App.Writer, fetched)

	fmt.Fprintf(c.App.Writer, "Updating patient %s ...\n", fetched.ID)
	updated, err := patientUsecase.UpdatePatient(ctx, &requests.UpdatePatientRequest{
		PatientID: fetched.ID,
		Gender:    opts.Gender,
		Phone:     opts.Phone,
	})
	if err != nil {
		return err
	}
	printPatientResource(c.App.Writer, updated)

	if opts.Keep {
		fmt.Fprintf(c.App.Writer, "Keeping patient %s\n", updated.ID)
		return nil
	}

	fmt.Fprintf(c.App.Writer, "Deleting patient %s ...\n", updated.ID)
	err = patientUsecase.DeletePatient(ctx, updated.ID)
	if err != nil {
		return err
	}
	fmt.Fprintln(c.App.Writer, "Done")
	return nil
}

func printPatientSummary(w io.Writer, patient *fhir_dto.Patient) {
	fmt.Fprintf(w, "  - %s (%s, born %s, id %s)\n",
		utils.GetFullName(patient.Name), patient.Gender, patient.BirthDate, patient.ID)
}

func printPatientResource(w io.Writer, patient *fhir_dto.Patient) {
	encoded, err := json.MarshalIndent(patient, "", "  ")
	if err != nil {
		fmt.Fprintf(w, "  <unprintable patient: %v>\n", err)
		return
	}
	fmt.Fprintf(w, "%s\n", encoded)
}
