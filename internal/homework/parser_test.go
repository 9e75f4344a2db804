package homework

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "homework-status-bot/internal/common/errors"
)

// decode mimics what the status API client hands over: a generic JSON object.
func decode(t *testing.T, raw string) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(raw), &body))
	return body
}

func TestExtractLatest_ReturnsFirstElement(t *testing.T) {
	body := decode(t, `{
		"homeworks": [
			{"id": 2, "homework_name": "task2", "status": "reviewing"},
			{"id": 1, "homework_name": "task1", "status": "approved"}
		],
		"current_date": 1700000000
	}`)

	got, err := ExtractLatest(body)
	require.NoError(t, err)

	assert.Equal(t, "task2", got.Name())
	status, ok := got.Status()
	assert.True(t, ok)
	assert.Equal(t, StatusReviewing, status)
	assert.Equal(t, float64(2), got["id"])
}

func TestExtractLatest_NoHomeworks(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"absent list", `{"current_date": 1700000000}`},
		{"null list", `{"homeworks": null}`},
		{"empty list", `{"homeworks": []}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractLatest(decode(t, tt.raw))
			assert.Nil(t, got)
			assert.True(t, errors.Is(err, ErrNoHomeworks))
		})
	}
}

func TestExtractLatest_InvalidShape(t *testing.T) {
	tests := []struct {
		name string
		body map[string]interface{}
	}{
		{"nil body", nil},
		{"homeworks not a list", decode(t, `{"homeworks": "oops"}`)},
		{"element not an object", decode(t, `{"homeworks": [42]}`)},
		{"status not a string", decode(t, `{"homeworks": [{"homework_name": "x", "status": 7}]}`)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ExtractLatest(tt.body)
			require.Error(t, err)
			assert.True(t, errors.Is(err, apperrors.ErrAPIResponseInvalid), err.Error())
		})
	}
}

func TestExtractLatest_UnexpectedStatus(t *testing.T) {
	body := decode(t, `{"homeworks": [{"homework_name": "task1", "status": "on_hold"}]}`)

	got, err := ExtractLatest(body)

	assert.Nil(t, got)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrUnexpectedStatus))
	assert.Contains(t, err.Error(), "on_hold")
}

func TestExtractLatest_MissingStatus(t *testing.T) {
	for _, raw := range []string{
		`{"homeworks": [{"homework_name": "task1"}]}`,
		`{"homeworks": [{"homework_name": "task1", "status": null}]}`,
	} {
		_, err := ExtractLatest(decode(t, raw))
		require.Error(t, err)
		assert.True(t, errors.Is(err, apperrors.ErrStatusMissing))
	}
}

func TestFormatStatus_KnownCodes(t *testing.T) {
	tests := []struct {
		status string
		want   string
	}{
		{StatusApproved, `Изменился статус проверки работы "task1". Работа проверена: ревьюеру всё понравилось. Ура!`},
		{StatusReviewing, `Изменился статус проверки работы "task1". Работа взята на проверку ревьюером.`},
		{StatusRejected, `Изменился статус проверки работы "task1". Работа проверена, в ней нашлись ошибки.`},
	}

	for _, tt := range tests {
		t.Run(tt.status, func(t *testing.T) {
			got, err := FormatStatus(Submission{FieldName: "task1", FieldStatus: tt.status})
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Contains(t, got, Verdicts[tt.status])
		})
	}
}

func TestFormatStatus_Errors(t *testing.T) {
	_, err := FormatStatus(Submission{FieldName: "task1"})
	assert.True(t, errors.Is(err, apperrors.ErrStatusMissing))

	_, err = FormatStatus(Submission{FieldName: "task1", FieldStatus: "lost"})
	assert.True(t, errors.Is(err, apperrors.ErrUnexpectedStatus))
}

func TestVerdicts_ExactlyThree(t *testing.T) {
	assert.Len(t, Verdicts, 3)
	assert.Equal(t, "Работа проверена: ревьюеру всё понравилось. Ура!", Verdicts[StatusApproved])
}

func TestSubmission_Equal(t *testing.T) {
	a := Submission{FieldName: "task1", FieldStatus: "reviewing", "id": float64(1)}
	b := Submission{FieldName: "task1", FieldStatus: "reviewing", "id": float64(1)}
	c := Submission{FieldName: "task1", FieldStatus: "approved", "id": float64(1)}
	d := Submission{FieldName: "task1", FieldStatus: "reviewing", "id": float64(1), "reviewer_comment": "ok"}

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
	assert.False(t, a.Equal(d), "any extra field counts as a change")
	assert.False(t, a.Equal(nil))
	assert.False(t, Submission(nil).Equal(a))
	assert.True(t, Submission(nil).Equal(nil))
}
