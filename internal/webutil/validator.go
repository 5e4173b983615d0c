package webutil

import (
	"fmt"
	"log"
	"reflect"
	"strings"

	"github.com/go-playground/locales/pt_BR"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	pt_br_translations "github.com/go-playground/validator/v10/translations/pt_BR"

	"petshop_saas_api/internal/model"
)

// Validator é a instância compartilhada por toda a aplicação.
var Validator *validator.Validate

// Trans traduz as mensagens de validação para pt-BR.
var Trans ut.Translator

func init() {
	Validator = validator.New()

	// Usa o nome do tag json nas mensagens, não o nome do campo Go.
	Validator.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	ptBR := pt_BR.New()
	uni := ut.New(ptBR, ptBR)
	var found bool
	Trans, found = uni.GetTranslator("pt_BR")
	if !found {
		log.Fatal("pt_BR translator not found")
	}

	if err := pt_br_translations.RegisterDefaultTranslations(Validator, Trans); err != nil {
		log.Fatal(err)
	}
}

// NewValidationErrorResponse agrega os erros de validação em um AppError.
func NewValidationErrorResponse(errs validator.ValidationErrors) *model.AppError {
	var fields []string
	var messages []string

	for _, err := range errs {
		fields = append(fields, err.Field())
		if msg := err.Translate(Trans); msg != "" {
			messages = append(messages, msg)
		} else {
			messages = append(messages, fmt.Sprintf("validação do campo '%s' falhou na regra '%s'", err.Field(), err.Tag()))
		}
	}

	return model.NewAppError(
		"VALIDATION_ERROR",
		strings.Join(messages, "; "),
		strings.Join(fields, ","),
		model.ErrInvalidInput,
	)
}
