package wizard

import (
	"fmt"
	"reflect"
	"strings"
	"time"
	"tour-composer-service/internal/domain"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

const notBlankTag = "notblank"

// Validator checks wizard step payloads and renders English field messages.
type Validator struct {
	v     *validator.Validate
	trans ut.Translator
}

func NewValidator() *Validator {
	v := validator.New()

	// Register the english error messages for validation errors.
	_en := en.New()
	uni := ut.New(_en, _en)
	trans, _ := uni.GetTranslator("en")
	_ = en_translations.RegisterDefaultTranslations(v, trans)

	// Use JSON tag names for errors instead of Go struct names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = v.RegisterValidation(notBlankTag, func(fl validator.FieldLevel) bool {
		if s, ok := fl.Field().Interface().(string); ok {
			return strings.TrimSpace(s) != ""
		}
		return false
	})
	_ = v.RegisterTranslation(notBlankTag, trans,
		func(ut.Translator) error { return nil },
		func(_ ut.Translator, fe validator.FieldError) string {
			return fe.Field() + " cannot be blank"
		},
	)

	return &Validator{v: v, trans: trans}
}

// BasicInfo validates step 1.
func (val *Validator) BasicInfo(info domain.TourBasicInfo) error {
	verr := domain.NewValidationError(nil)
	val.collect(verr, "", info)
	if verr.Empty() {
		return nil
	}
	return verr
}

// Schedules validates step 2. Departure dates are compared as calendar days
// against now; today is allowed.
func (val *Validator) Schedules(schedules []domain.TourSchedule, now time.Time) error {
	verr := domain.NewValidationError(nil)
	if len(schedules) == 0 {
		verr.Add("schedules", "at least one schedule is required")
		return verr
	}

	y, m, d := now.Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, now.Location())

	for i, s := range schedules {
		prefix := fmt.Sprintf("schedules[%d].", i)
		val.collect(verr, prefix, s)

		if s.DepartureDate.IsZero() {
			continue
		}
		dy, dm, dd := s.DepartureDate.Date()
		if time.Date(dy, dm, dd, 0, 0, 0, 0, now.Location()).Before(today) {
			verr.Add(prefix+"departure_date", "departure date must not be in the past")
		}
	}

	if verr.Empty() {
		return nil
	}
	return verr
}

func (val *Validator) collect(verr *domain.ValidationError, prefix string, s any) {
	err := val.v.Struct(s)
	if err == nil {
		return
	}

	vErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		verr.Add(strings.TrimSuffix(prefix, "."), err.Error())
		return
	}
	for _, fe := range vErrs {
		verr.Add(prefix+fe.Field(), fe.Translate(val.trans))
	}
}
