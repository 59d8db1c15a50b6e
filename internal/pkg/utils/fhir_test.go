package utils

import (
	"net/url"
	"testing"

	"patient-console/internal/pkg/fhir_dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetFullName(t *testing.T) {
	t.Run("prefers the text rendering", func(t *testing.T) {
		names := []fhir_dto.HumanName{{Text: "Harry Coody", Family: "Other", Given: []string{"X"}}}
		assert.Equal(t, "Harry Coody", GetFullName(names))
	})

	t.Run("joins given and family names", func(t *testing.T) {
		names := []fhir_dto.HumanName{{Family: "Coody", Given: []string{"Harry", "James"}}}
		assert.Equal(t, "Harry James Coody", GetFullName(names))
	})

	t.Run("handles an unnamed patient", func(t *testing.T) {
		assert.Equal(t, "", GetFullName(nil))
	})
}

func TestBuildSearchQuery(t *testing.T) {
	t.Run("encodes criteria and page size", func(t *testing.T) {
		query := BuildSearchQuery([]string{"name=Coody", "gender=female"}, 20)

		values, err := url.ParseQuery(query)
		require.NoError(t, err)
		assert.Equal(t, "Coody", values.Get("name"))
		assert.Equal(t, "female", values.Get("gender"))
		assert.Equal(t, "20", values.Get("_count"))
	})

	t.Run("keeps equals signs inside values", func(t *testing.T) {
		query := BuildSearchQuery([]string{"identifier=http://example.com|a=b"}, 0)

		values, err := url.ParseQuery(query)
		require.NoError(t, err)
		assert.Equal(t, "http://example.com|a=b", values.Get("identifier"))
	})

	t.Run("skips malformed criteria", func(t *testing.T) {
		query := BuildSearchQuery([]string{"name"}, 0)
		assert.Equal(t, "", query)
	})
}

func TestPatientReference(t *testing.T) {
	assert.Equal(t, "Patient/abc-123", PatientReference("abc-123"))
}
