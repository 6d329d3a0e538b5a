package questions

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

func (c *CreateCommand) validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return fmt.Errorf("%w: %w", ErrInvalid, err)
		}
		msgs := make([]string, len(verrs))
		for i, fe := range verrs {
			msgs[i] = fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag())
		}
		return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(msgs, "; "))
	}

	if strings.TrimSpace(c.QuestionText) == "" {
		return fmt.Errorf("%w: question_text is required", ErrInvalid)
	}

	if len(c.Options) > 0 {
		var opts []json.RawMessage
		if err := json.Unmarshal(c.Options, &opts); err != nil {
			return fmt.Errorf("%w: options must be an array", ErrInvalid)
		}
	}

	return nil
}
