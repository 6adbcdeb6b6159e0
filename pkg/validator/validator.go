package validator

import (
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
)

// AudioExtensions lists the upload extensions accepted by the file picker
var AudioExtensions = []string{".wav", ".mp3", ".m4a"}

// CustomValidator implements echo.Validator using go-playground/validator
type CustomValidator struct {
	v *validator.Validate
}

// New creates a new CustomValidator instance
func New() *CustomValidator {
	v := validator.New()
	_ = v.RegisterValidation("audiofile", validateAudioFile)
	return &CustomValidator{v: v}
}

// Validate performs struct validation
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.v.Struct(i)
}

// IsAudioFile reports whether name carries one of the accepted audio extensions
func IsAudioFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, allowed := range AudioExtensions {
		if ext == allowed {
			return true
		}
	}
	return false
}

func validateAudioFile(fl validator.FieldLevel) bool {
	return IsAudioFile(fl.Field().String())
}
