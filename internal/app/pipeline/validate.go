package pipeline

import (
	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"

	apperrors "whisper-offline/internal/app/errors"
	"whisper-offline/internal/app/model"
)

var fieldLabels = map[string]string{
	"ModelPath":       "model path",
	"InputPath":       "input media path",
	"TranscriberPath": "transcriber path",
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Registration only fails for an empty tag or nil func.
	_ = v.RegisterValidation("notblank", validators.NotBlank)
	return v
}

// ValidateRequest checks that every path of req is present and not blank.
func ValidateRequest(req model.PipelineRequest) error {
	return validateWith(newValidator(), req)
}

func validateWith(v *validator.Validate, req model.PipelineRequest) error {
	err := v.Struct(req)
	if err == nil {
		return nil
	}

	if verrs, ok := err.(validator.ValidationErrors); ok && len(verrs) > 0 {
		field := verrs[0].Field()
		if label, ok := fieldLabels[field]; ok {
			field = label
		}
		return apperrors.RequiredField(field)
	}
	return apperrors.Wrap(err, apperrors.ErrInvalidRequest.Error())
}
