package services

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	domainagg "github.com/yungbote/coachdesk-backend/internal/domain/aggregates"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func structValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// validateInput runs struct tags on v and turns the first failure into a CodeValidation error.
// A missing course title always reports the coach-facing title message.
func validateInput(op string, v any) error {
	err := structValidator().Struct(v)
	if err == nil {
		return nil
	}
	var ves validator.ValidationErrors
	if !errors.As(err, &ves) || len(ves) == 0 {
		return domainagg.NewError(domainagg.CodeValidation, op, "invalid input", err)
	}
	fe := ves[0]
	if fe.Tag() == "required" && isCourseTitleField(fe.Namespace()) {
		return domainagg.NewError(domainagg.CodeValidation, op, domainagg.MsgCourseTitleRequired, err)
	}
	return domainagg.NewError(domainagg.CodeValidation, op, fieldMessage(fe), err)
}

func isCourseTitleField(ns string) bool {
	parts := strings.Split(ns, ".")
	return len(parts) == 2 && parts[1] == "Title"
}

func fieldMessage(fe validator.FieldError) string {
	field := fieldPath(fe.Namespace())
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}

// fieldPath drops the root struct name and lower-cases segments: CourseContent.Modules[0].Title -> modules[0].title.
func fieldPath(ns string) string {
	parts := strings.Split(ns, ".")
	if len(parts) > 1 {
		parts = parts[1:]
	}
	for i, p := range parts {
		if p == "" {
			continue
		}
		parts[i] = strings.ToLower(p[:1]) + p[1:]
	}
	return strings.Join(parts, ".")
}
