package validator

import (
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/nyaruka/phonenumbers"
)

var (
	licensePattern = regexp.MustCompile(`^[0-9]{7,8}$`)
	rfcPattern     = regexp.MustCompile(`^[A-Z&Ñ0-9]{10,13}$`)
	hhmmPattern    = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)
)

type CustomValidator struct {
	validator   *validator.Validate
	phoneRegion string
}

// NewValidator builds the request validator. phoneRegion is the ISO region
// used for numbers written without a country code; "MX" when empty.
func NewValidator(phoneRegion string) *CustomValidator {
	if phoneRegion == "" {
		phoneRegion = "MX"
	}
	cv := &CustomValidator{
		validator:   validator.New(),
		phoneRegion: strings.ToUpper(phoneRegion),
	}

	// Report json names so field errors line up with request bodies.
	cv.validator.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	_ = cv.validator.RegisterValidation("license", func(fl validator.FieldLevel) bool {
		return licensePattern.MatchString(fl.Field().String())
	})
	_ = cv.validator.RegisterValidation("rfc", func(fl validator.FieldLevel) bool {
		return rfcPattern.MatchString(strings.ToUpper(fl.Field().String()))
	})
	_ = cv.validator.RegisterValidation("hhmm", func(fl validator.FieldLevel) bool {
		return hhmmPattern.MatchString(fl.Field().String())
	})
	_ = cv.validator.RegisterValidation("phone", cv.validPhone)

	return cv
}

func (cv *CustomValidator) validPhone(fl validator.FieldLevel) bool {
	raw := strings.TrimSpace(fl.Field().String())
	if len(raw) < 10 || len(raw) > 15 {
		return false
	}
	num, err := phonenumbers.Parse(raw, cv.phoneRegion)
	if err != nil {
		return false
	}
	return phonenumbers.IsPossibleNumber(num)
}

func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

func (cv *CustomValidator) FormatValidationErrors(err error) map[string]string {
	errors := make(map[string]string)

	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		for _, e := range validationErrors {
			field := e.Field()
			switch e.Tag() {
			case "required":
				errors[field] = field + " is required"
			case "email":
				errors[field] = field + " must be a valid email address"
			case "min":
				errors[field] = field + " must be at least " + e.Param() + " characters"
			case "max":
				errors[field] = field + " must be at most " + e.Param() + " characters"
			case "gt":
				errors[field] = field + " must be greater than " + e.Param()
			case "gte":
				errors[field] = field + " must be greater than or equal to " + e.Param()
			case "lte":
				errors[field] = field + " must be less than or equal to " + e.Param()
			case "oneof":
				errors[field] = field + " must be one of: " + e.Param()
			case "eqfield":
				errors[field] = field + " must match " + e.Param()
			case "datetime":
				errors[field] = field + " must use the format " + e.Param()
			case "license":
				errors[field] = field + " must be 7 or 8 digits"
			case "rfc":
				errors[field] = field + " must be a 10 to 13 character RFC"
			case "hhmm":
				errors[field] = field + " must be a time in HH:MM format"
			case "phone":
				errors[field] = field + " must be a valid phone number"
			default:
				errors[field] = field + " is invalid"
			}
		}
	}

	return errors
}
