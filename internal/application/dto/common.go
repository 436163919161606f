package dto

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/jhoicas/honey-inventory/internal/domain"
)

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		// Los errores usan el nombre JSON del campo, que es el que ve el cliente.
		validate.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return f.Name
			}
			return name
		})
	})
	return validate
}

// Validate ejecuta las reglas `validate:` de un request. El primer campo inválido se
// devuelve como *domain.ValidationError (errors.Is(err, domain.ErrInvalidInput) == true).
func Validate(in any) error {
	err := validatorInstance().Struct(in)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	fe := verrs[0]
	msg := fe.Tag()
	if fe.Param() != "" {
		msg += "=" + fe.Param()
	}
	return domain.NewValidationError(fe.Field(), msg)
}

// ValidationFields devuelve todos los campos inválidos (campo -> regla), estilo ProcessValidationErrors.
func ValidationFields(in any) map[string]string {
	err := validatorInstance().Struct(in)
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}
	out := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		out[fe.Field()] = fe.Tag()
	}
	return out
}
