package quiz

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Registration is the input for creating an account.
type Registration struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Email    string `json:"email" validate:"required,email,max=100"`
	Password string `json:"password" validate:"required,min=6,max=72"`
	Role     Role   `json:"role" validate:"omitempty,oneof=user admin"`
}

// UserUpdate changes an account's username or email. Nil fields are kept.
type UserUpdate struct {
	Username *string `json:"username" validate:"omitempty,min=3,max=50"`
	Email    *string `json:"email" validate:"omitempty,email,max=100"`
}

type SubjectInput struct {
	Name        string `json:"name" validate:"required,max=200"`
	Description string `json:"description"`
}

type ChapterInput struct {
	SubjectID   int64  `json:"subject_id" validate:"required,gt=0"`
	Name        string `json:"name" validate:"required,max=200"`
	Description string `json:"description"`
}

type QuizInput struct {
	ChapterID   int64  `json:"chapter_id" validate:"required,gt=0"`
	Title       string `json:"title" validate:"required,max=200"`
	Description string `json:"description"`
	TimeLimit   int    `json:"time_limit" validate:"gte=0,lte=1440"`
	IsActive    *bool  `json:"is_active"`
}

type QuestionInput struct {
	Prompt        string `json:"question" validate:"required"`
	OptionA       string `json:"option_a" validate:"required,max=255"`
	OptionB       string `json:"option_b" validate:"required,max=255"`
	OptionC       string `json:"option_c" validate:"required,max=255"`
	OptionD       string `json:"option_d" validate:"required,max=255"`
	CorrectAnswer string `json:"correct_answer" validate:"required,oneof=A B C D"`
	Points        int    `json:"points" validate:"gte=0"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return field.Name
		}
		return name
	})
	return v
}

func validateStruct(input any) error {
	err := validate.Struct(input)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		first := fieldErrs[0]
		return invalid(first.Field(), describeFieldError(first))
	}
	return invalid("", err.Error())
}

func describeFieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "oneof":
		return "must be one of " + fe.Param()
	case "min":
		return "must be at least " + fe.Param() + " characters"
	case "max":
		return "must be at most " + fe.Param() + " characters"
	case "gt":
		return "must be greater than " + fe.Param()
	case "gte":
		return "must be at least " + fe.Param()
	case "lte":
		return "must be at most " + fe.Param()
	default:
		return "is invalid"
	}
}
