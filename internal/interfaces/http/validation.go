package http

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/parts-ledger/internal/application/dto"
)

// bodyValidator valida los DTO de entrada con las etiquetas `validate` y reporta los campos por su nombre JSON.
type bodyValidator struct {
	v *validator.Validate
}

func newBodyValidator() *bodyValidator {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &bodyValidator{v: v}
}

// validate devuelve los campos inválidos (campo → regla), o nil si el body es válido.
func (b *bodyValidator) validate(in any) (map[string]string, error) {
	err := b.v.Struct(in)
	if err == nil {
		return nil, nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil, err
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fieldPath(fe)] = fe.Tag()
	}
	return fields, nil
}

// fieldPath "ReceiveInput.position.aisle" → "position.aisle".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

// parseBody decodifica y valida el body. Si responde un error, devuelve ok=false.
func (b *bodyValidator) parseBody(c *fiber.Ctx, in any) (ok bool, err error) {
	if err := c.BodyParser(in); err != nil {
		return false, invalidBody(c)
	}
	fields, err := b.validate(in)
	if err != nil {
		return false, err
	}
	if len(fields) > 0 {
		return false, c.Status(fiber.StatusBadRequest).JSON(dto.ValidationErrorResponse{
			ErrorResponse: dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"},
			Fields:        fields,
		})
	}
	return true, nil
}
