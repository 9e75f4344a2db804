package homework

import "reflect"

const (
	FieldHomeworks = "homeworks"
	FieldName      = "homework_name"
	FieldStatus    = "status"
)

const (
	StatusApproved  = "approved"
	StatusReviewing = "reviewing"
	StatusRejected  = "rejected"
)

// Verdicts maps every documented review status to the text shown in the chat.
var Verdicts = map[string]string{
	StatusApproved:  "Работа проверена: ревьюеру всё понравилось. Ура!",
	StatusReviewing: "Работа взята на проверку ревьюером.",
	StatusRejected:  "Работа проверена, в ней нашлись ошибки.",
}

// Submission is one homework record exactly as the API returned it. Two
// submissions are the same only if every field is the same.
type Submission map[string]interface{}

// Name returns the homework_name field, or "" when it is absent.
func (s Submission) Name() string {
	name, _ := s[FieldName].(string)
	return name
}

// Status returns the status field and whether it was present and a string.
func (s Submission) Status() (string, bool) {
	status, ok := s[FieldStatus].(string)
	return status, ok
}

// Equal reports structural equality of the whole record. A nil submission
// equals only another nil submission.
func (s Submission) Equal(other Submission) bool {
	if s == nil || other == nil {
		return s == nil && other == nil
	}
	return reflect.DeepEqual(map[string]interface{}(s), map[string]interface{}(other))
}
