package classifications

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

func (c *CreateCommand) validate() error {
	if err := validateStruct(c); err != nil {
		return err
	}
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalid)
	}
	if c.Code != nil && strings.TrimSpace(*c.Code) == "" {
		return fmt.Errorf("%w: code cannot be blank", ErrInvalid)
	}
	return validateMetadata(c.Metadata)
}

func (c *UpdateCommand) validate() error {
	if err := validateStruct(c); err != nil {
		return err
	}
	if c.Name != nil && strings.TrimSpace(*c.Name) == "" {
		return fmt.Errorf("%w: name cannot be blank", ErrInvalid)
	}
	if c.Code != nil && strings.TrimSpace(*c.Code) == "" {
		return fmt.Errorf("%w: code cannot be blank", ErrInvalid)
	}
	return validateMetadata(c.Metadata)
}

func validateStruct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}

	msgs := make([]string, len(verrs))
	for i, fe := range verrs {
		msgs[i] = fieldMessage(fe)
	}
	return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(msgs, "; "))
}

func fieldMessage(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field())
	if field == "sortorder" {
		field = "sort_order"
	}

	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(fe.Param(), " ", ", "))
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed %s", field, fe.Tag())
	}
}

// maxCodeLength matches the width of the code column.
const maxCodeLength = 100

// checkCodeLength bounds a normalized code, including one derived from a name.
func checkCodeLength(code string) error {
	if len(code) > maxCodeLength {
		return fmt.Errorf("%w: code must be at most %d characters", ErrInvalid, maxCodeLength)
	}
	return nil
}

// validateMetadata requires metadata, when present, to be a JSON object or null.
func validateMetadata(raw json.RawMessage) error {
	if len(raw) == 0 {
		return nil
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return fmt.Errorf("%w: metadata: %w", ErrInvalid, err)
	}
	switch v.(type) {
	case nil, map[string]any:
		return nil
	default:
		return fmt.Errorf("%w: metadata must be an object", ErrInvalid)
	}
}
