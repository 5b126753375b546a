package validators

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type ratingPayload struct {
	Rating float64 `validate:"required,rating_value"`
}

type genderPayload struct {
	Gender string `validate:"required,gender"`
}

type idPayload struct {
	ID string `validate:"object_id"`
}

func TestValidateRatingValue(t *testing.T) {
	for _, rating := range []float64{1, 2, 3, 4, 5} {
		assert.Empty(t, ValidateStruct(ratingPayload{Rating: rating}), "rating %v should pass", rating)
	}

	for _, rating := range []float64{0.5, 3.5, 5.5, 6, -1} {
		errs := ValidateStruct(ratingPayload{Rating: rating})
		require.NotEmpty(t, errs, "rating %v should fail", rating)
		assert.Equal(t, "Rating must be a whole number between 1 and 5", errs[0].Message)
	}
}

func TestValidateGender(t *testing.T) {
	for _, gender := range []string{"Unisex", "Male", "Female", "All Gender"} {
		assert.Empty(t, ValidateStruct(genderPayload{Gender: gender}))
	}

	errs := ValidateStruct(genderPayload{Gender: "other"})
	require.NotEmpty(t, errs)
	assert.Equal(t, "Gender", errs[0].Field)
}

func TestValidateObjectID(t *testing.T) {
	assert.Empty(t, ValidateStruct(idPayload{ID: "507f1f77bcf86cd799439011"}))
	// Empty is left to the required tag.
	assert.Empty(t, ValidateStruct(idPayload{ID: ""}))

	errs := ValidateStruct(idPayload{ID: "not-hex"})
	require.NotEmpty(t, errs)
	assert.Equal(t, "Invalid ID format", errs[0].Message)
}

func TestValidationErrorsToMap(t *testing.T) {
	errs := ValidateStruct(genderPayload{})
	require.NotEmpty(t, errs)

	details := errs.ToMap()
	assert.Contains(t, details, "Gender")
	assert.NotEmpty(t, errs.Error())
}
