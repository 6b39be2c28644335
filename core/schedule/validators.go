package schedule

import (
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/Eddy-Prime/SE-Complete-Project/core"
)

var (
	timeSlotTag  = "timeslot"
	timeSlotText = "{0} must look like 09:00 - 12:00"
)

func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(timeSlotTag, timeSlotValidation)
	core.RegisterCustomTranslation(validate, translator, timeSlotTag, timeSlotText)
}

func timeSlotValidation(fl validator.FieldLevel) bool {
	_, ok := parseSlot(fl.Field().String())
	return ok
}
