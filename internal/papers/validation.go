package papers

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
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
			msgs[i] = fmt.Sprintf("%s failed %s", fe.Namespace(), fe.Tag())
		}
		return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(msgs, "; "))
	}

	seen := make(map[uuid.UUID]bool, len(c.QuestionIDs))
	for _, id := range c.QuestionIDs {
		if id == uuid.Nil {
			return fmt.Errorf("%w: question_id contains a nil id", ErrInvalid)
		}
		if seen[id] {
			return fmt.Errorf("%w: question %s listed twice", ErrInvalid, id)
		}
		seen[id] = true
	}

	return nil
}
