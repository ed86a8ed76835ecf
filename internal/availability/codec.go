package availability

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/boddenberg/agenda-bfa-go/internal/domain"
)

// Decode turns a persisted working-hours value into a WeeklySchedule.
//
//   - absent, null or "" -> default template
//   - any other string (legacy free-text hours) -> default template, all days
//     closed; the text is dropped
//   - a seven-entry array -> adopted as stored
//   - anything else decodable -> default template
//
// An error is returned only when raw is not valid JSON.
func Decode(raw []byte) (domain.WeeklySchedule, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return domain.DefaultWeeklySchedule(), nil
	}

	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, fmt.Errorf("decode legacy working hours: %w", err)
		}
		return legacyFallback(), nil
	case '[':
		var w domain.WeeklySchedule
		if err := json.Unmarshal(raw, &w); err != nil {
			var typeErr *json.UnmarshalTypeError
			if errors.As(err, &typeErr) {
				return domain.DefaultWeeklySchedule(), nil
			}
			return nil, fmt.Errorf("decode working hours: %w", err)
		}
		if len(w) != domain.DaysPerWeek {
			return domain.DefaultWeeklySchedule(), nil
		}
		return w, nil
	}

	if !json.Valid(raw) {
		return nil, fmt.Errorf("decode working hours: invalid JSON")
	}
	return domain.DefaultWeeklySchedule(), nil
}

// Encode serializes a schedule in the stored array format.
func Encode(w domain.WeeklySchedule) ([]byte, error) {
	return json.Marshal(w)
}

func legacyFallback() domain.WeeklySchedule {
	w := domain.DefaultWeeklySchedule()
	for i := range w {
		w[i].IsOpen = false
	}
	return w
}
