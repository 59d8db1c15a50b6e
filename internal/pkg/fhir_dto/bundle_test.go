package fhir_dto

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNextLink(t *testing.T) {
	t.Run("returns the next relation url", func(t *testing.T) {
		bundle := FHIRBundle{
			Link: []BundleLink{
				{Relation: "self", Url: "https://fhir.example.com/Patient?name=Coody"},
				{Relation: "next", Url: "https://fhir.example.com/Patient?page=2"},
			},
		}

		next, ok := bundle.NextLink()
		assert.True(t, ok)
		assert.Equal(t, "https://fhir.example.com/Patient?page=2", next)
	})

	t.Run("reports absence on the last page", func(t *testing.T) {
		bundle := FHIRBundle{
			Link: []BundleLink{
				{Relation: "self", Url: "https://fhir.example.com/Patient?page=3"},
			},
		}

		next, ok := bundle.NextLink()
		assert.False(t, ok)
		assert.Empty(t, next)
	})

	t.Run("ignores a next link with an empty url", func(t *testing.T) {
		bundle := FHIRBundle{
			Link: []BundleLink{{Relation: "next", Url: ""}},
		}

		_, ok := bundle.NextLink()
		assert.False(t, ok)
	})
}
