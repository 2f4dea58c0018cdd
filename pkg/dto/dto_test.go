package dto_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/PrjctQ/qcore/pkg/apierror"
	"github.com/PrjctQ/qcore/pkg/dto"
	"github.com/PrjctQ/qcore/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDTO(t *testing.T, omitFields ...string) *dto.DTO {
	t.Helper()

	s, err := schema.New(schema.Config{
		IDField:         "id",
		CreatedAtField:  "created_at",
		UpdatedAtField:  "updated_at",
		SoftDeleteField: "is_deleted",
		Fields: map[string]string{
			"id":         "omitempty",
			"email":      "required,email",
			"password":   "required,min=8",
			"created_at": "omitempty",
			"updated_at": "omitempty",
			"is_deleted": "omitempty",
		},
	})
	require.NoError(t, err)
	return dto.New(s, omitFields...)
}

func TestToCreateDTO_NeverContainsAutoFields(t *testing.T) {
	d := newTestDTO(t)

	data, err := d.ToCreateDTO(map[string]any{
		"id":         7,
		"email":      "test@email.com",
		"password":   "password123",
		"created_at": "2026-01-01T00:00:00Z",
		"is_deleted": true,
	})

	require.NoError(t, err)
	assert.NotContains(t, data, "id")
	assert.NotContains(t, data, "created_at")
	assert.NotContains(t, data, "updated_at")
	assert.NotContains(t, data, "is_deleted")
}

func TestToUpdateDTO_EmptyInputRejectedBeforeValidation(t *testing.T) {
	d := newTestDTO(t)

	_, err := d.ToUpdateDTO(map[string]any{})

	var apiErr *apierror.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, apierror.CodeBadRequest, apiErr.Code)
}

func TestToUpdateDTO_InjectsUpdatedAt(t *testing.T) {
	d := newTestDTO(t)

	before := time.Now().UTC()
	data, err := d.ToUpdateDTO(map[string]any{
		"email": "new@email.com",
	})
	require.NoError(t, err)

	injected, ok := data["updated_at"].(time.Time)
	require.True(t, ok, "updated_at should be injected as time.Time")
	assert.False(t, injected.Before(before))
}

func TestToUpdateDTO_DoesNotMutateInput(t *testing.T) {
	d := newTestDTO(t)

	input := map[string]any{"email": "new@email.com"}
	_, err := d.ToUpdateDTO(input)
	require.NoError(t, err)

	// The injected timestamp must land in the returned patch, not in the
	// caller's map.
	assert.Equal(t, map[string]any{"email": "new@email.com"}, input)
}

func TestToJSON_OmitsSensitiveFields(t *testing.T) {
	d := newTestDTO(t, "password")

	out := d.ToJSON(map[string]any{
		"id":       1,
		"email":    "test@email.com",
		"password": "hashed-secret",
	})

	assert.NotContains(t, out, "password")
	assert.Equal(t, "test@email.com", out["email"])
}

func TestToJSON_IdentityByDefault(t *testing.T) {
	d := newTestDTO(t)

	in := map[string]any{"id": 1, "email": "test@email.com"}
	out := d.ToJSON(in)

	assert.Equal(t, in, out)
}
