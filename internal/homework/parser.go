package homework

import (
	"errors"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	apperrors "homework-status-bot/internal/common/errors"
)

// ErrNoHomeworks means the response carried no submissions for the window.
// It is a skip signal for the caller, not a failure.
var ErrNoHomeworks = errors.New("no homeworks in response")

const messageTemplate = `Изменился статус проверки работы "%s". %s`

const responseSchemaJSON = `{
	"type": "object",
	"properties": {
		"homeworks": {
			"type": ["array", "null"],
			"items": {
				"type": "object",
				"properties": {
					"homework_name": {"type": ["string", "null"]},
					"status": {"type": ["string", "null"]}
				}
			}
		}
	}
}`

var responseSchema = mustSchema(responseSchemaJSON)

func mustSchema(src string) *gojsonschema.Schema {
	s, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(src))
	if err != nil {
		panic(fmt.Sprintf("homework: invalid response schema: %v", err))
	}
	return s
}

// ValidateResponse checks the decoded API body against the documented shape.
func ValidateResponse(body map[string]interface{}) error {
	if body == nil {
		return apperrors.NewAPIResponseInvalidError("empty response body", nil)
	}

	result, err := responseSchema.Validate(gojsonschema.NewGoLoader(body))
	if err != nil {
		return apperrors.NewAPIResponseInvalidError("schema validation error", err)
	}
	if !result.Valid() {
		errs := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			errs[i] = desc.String()
		}
		return apperrors.NewAPIResponseInvalidError(strings.Join(errs, "; "), nil)
	}
	return nil
}

// ExtractLatest returns the most recent submission (element zero of
// homeworks). An absent or empty list yields ErrNoHomeworks.
func ExtractLatest(body map[string]interface{}) (Submission, error) {
	if err := ValidateResponse(body); err != nil {
		return nil, err
	}

	raw, ok := body[FieldHomeworks]
	if !ok || raw == nil {
		return nil, ErrNoHomeworks
	}
	list, ok := raw.([]interface{})
	if !ok {
		return nil, apperrors.NewAPIResponseInvalidError("homeworks is not a list", nil)
	}
	if len(list) == 0 {
		return nil, ErrNoHomeworks
	}

	first, ok := list[0].(map[string]interface{})
	if !ok {
		return nil, apperrors.NewAPIResponseInvalidError("homeworks[0] is not an object", nil)
	}

	submission := Submission(first)
	status, ok := submission.Status()
	if !ok {
		return nil, apperrors.NewStatusMissingError()
	}
	if _, err := Verdict(status); err != nil {
		return nil, err
	}
	return submission, nil
}

// Verdict looks up the chat text for a status code.
func Verdict(status string) (string, error) {
	verdict, ok := Verdicts[status]
	if !ok {
		return "", apperrors.NewUnexpectedStatusError(status)
	}
	return verdict, nil
}

// FormatStatus renders the chat message for a submission.
func FormatStatus(s Submission) (string, error) {
	status, ok := s.Status()
	if !ok {
		return "", apperrors.NewStatusMissingError()
	}
	verdict, err := Verdict(status)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf(messageTemplate, s.Name(), verdict), nil
}
