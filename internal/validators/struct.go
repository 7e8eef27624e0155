package validators

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/lilpaf/Super-Barber-sub000/internal/httperr"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Struct validates v's `validate` tags and reports the first failure as a
// business validation error keyed by the field name.
func Struct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}

	fe := verrs[0]
	return httperr.Invalid(
		"invalid_"+toSnake(fe.Field()),
		fe.Field(),
		fmt.Sprintf("%s failed the %q rule.", fe.Field(), fe.Tag()),
	)
}

func toSnake(s string) string {
	var b strings.Builder
	for i, r := range s {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			r += 'a' - 'A'
		}
		b.WriteRune(r)
	}
	return b.String()
}
