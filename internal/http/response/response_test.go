package response

import (
	"testing"

	"github.com/go-playground/validator"
	"github.com/stretchr/testify/assert"
)

func TestOKWithData(t *testing.T) {
	data := map[string]string{"key": "value"}
	resp := OKWithData(data)

	assert.Equal(t, StatusOK, resp.Status)
	assert.Empty(t, resp.Error)
	assert.Equal(t, data, resp.Data)
}

func TestError(t *testing.T) {
	msg := "something went wrong"
	resp := Error(msg)

	assert.Equal(t, StatusError, resp.Status)
	assert.Equal(t, msg, resp.Error)
}

func TestValidationError(t *testing.T) {
	type TestStruct struct {
		NewPlanID int    `validate:"required"`
		Limit     int    `validate:"max=100"`
		Offset    int    `validate:"gt=0"`
		Code      string `validate:"numeric"`
	}

	v := validator.New()
	err := v.Struct(TestStruct{Limit: 500, Offset: -1, Code: "abc"})
	assert.Error(t, err)

	resp := ValidationError(err.(validator.ValidationErrors))

	assert.Equal(t, StatusError, resp.Status)
	assert.Contains(t, resp.Error, "field NewPlanID is a required field")
	assert.Contains(t, resp.Error, "field Limit must be at most 100")
	assert.Contains(t, resp.Error, "field Offset must be greater than 0")
	assert.Contains(t, resp.Error, "field Code can contain only numbers")
}
