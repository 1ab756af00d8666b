package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type sampleRequest struct {
	Address string `json:"address" validate:"required"`
	Input   string `json:"input" validate:"max=5"`
}

func TestValidate_TranslatesFieldErrors(t *testing.T) {
	err := Validate(sampleRequest{Input: "too long"})

	issues := issuesOf(t, err)
	assert.Equal(t, []string{
		"`address` is required.",
		"`input` must be at most 5 characters.",
	}, issues)
}

func TestValidate_OK(t *testing.T) {
	assert.NoError(t, Validate(sampleRequest{Address: "Main St", Input: "abc"}))
}
