package availability_test

import (
	"encoding/json"
	"testing"

	"github.com/boddenberg/agenda-bfa-go/internal/availability"
	"github.com/boddenberg/agenda-bfa-go/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recorder collects every snapshot handed to OnChange.
type recorder struct {
	calls []domain.WeeklySchedule
}

func (r *recorder) onChange(w domain.WeeklySchedule) { r.calls = append(r.calls, w) }

func (r *recorder) last(t *testing.T) domain.WeeklySchedule {
	t.Helper()
	require.NotEmpty(t, r.calls, "expected onChange to be called")
	return r.calls[len(r.calls)-1]
}

func TestNew_DefaultTemplate(t *testing.T) {
	m := availability.New(nil, nil)
	w := m.Schedule()

	require.Len(t, w, 7)
	for i, d := range w {
		assert.Equal(t, domain.DayKeys[i], d.Day)
		assert.Equal(t, domain.DayLabels[i], d.DayLabel)
		assert.False(t, d.IsOpen, d.Day)
		require.Len(t, d.TimeSlots, 1)
		if i < 5 {
			assert.Equal(t, domain.TimeSlot{Start: "08:00", End: "18:00"}, d.TimeSlots[0])
		} else {
			assert.Equal(t, domain.TimeSlot{Start: "09:00", End: "17:00"}, d.TimeSlots[0])
		}
	}
	assert.Equal(t, "monday", w[0].Day)
	assert.Equal(t, "sunday", w[6].Day)
}

func TestSetDayOpen_OnlyTouchesFlag(t *testing.T) {
	rec := &recorder{}
	m := availability.New(nil, rec.onChange)

	m.SetDayOpen(2, true)

	w := rec.last(t)
	assert.True(t, w[2].IsOpen)
	assert.Equal(t, domain.DefaultWeeklySchedule()[2].TimeSlots, w[2].TimeSlots)
	for i, d := range w {
		if i != 2 {
			assert.False(t, d.IsOpen)
		}
	}
}

func TestSetSlotTime_NoValidation(t *testing.T) {
	rec := &recorder{}
	m := availability.New(nil, rec.onChange)

	m.SetSlotTime(0, 0, availability.FieldStart, "19:00")
	m.SetSlotTime(0, 0, availability.FieldEnd, "07:00")

	w := rec.last(t)
	assert.Equal(t, domain.TimeSlot{Start: "19:00", End: "07:00"}, w[0].TimeSlots[0])
	assert.Len(t, rec.calls, 2)
}

func TestSetSlotTime_UnknownFieldDoesNotEmit(t *testing.T) {
	rec := &recorder{}
	m := availability.New(nil, rec.onChange)

	m.SetSlotTime(0, 0, availability.SlotField("middle"), "12:00")

	assert.Empty(t, rec.calls)
	assert.Equal(t, domain.DefaultWeeklySchedule(), m.Schedule())
}

func TestReset_EmitsReplacement(t *testing.T) {
	rec := &recorder{}
	m := availability.New(nil, rec.onChange)

	w := domain.DefaultWeeklySchedule()
	w[6].IsOpen = true
	m.Reset(w)
	w[6].IsOpen = false

	require.Len(t, rec.calls, 1)
	assert.True(t, rec.calls[0][6].IsOpen, "Reset must copy its input")
	assert.True(t, m.Day(6).IsOpen)
}

func TestAddSlot_AppendsDefaultRange(t *testing.T) {
	rec := &recorder{}
	m := availability.New(nil, rec.onChange)

	m.AddSlot(0)
	m.AddSlot(0)

	w := rec.last(t)
	require.Len(t, w[0].TimeSlots, 3)
	assert.Equal(t, domain.TimeSlot{Start: "13:00", End: "18:00"}, w[0].TimeSlots[1])
	assert.Equal(t, domain.TimeSlot{Start: "13:00", End: "18:00"}, w[0].TimeSlots[2])
	assert.True(t, m.IsLastSlot(0, 2))
	assert.False(t, m.IsLastSlot(0, 1))
}

func TestRemoveSlot_LastSlotProtected(t *testing.T) {
	rec := &recorder{}
	m := availability.New(nil, rec.onChange)

	m.RemoveSlot(3, 0)

	assert.Len(t, m.Day(3).TimeSlots, 1)
	assert.False(t, m.CanRemoveSlot(3))
	assert.Empty(t, rec.calls, "a no-op must not emit")
}

func TestRemoveSlot_RemovesByIndex(t *testing.T) {
	rec := &recorder{}
	m := availability.New(nil, rec.onChange)
	m.AddSlot(1)
	m.SetSlotTime(1, 1, availability.FieldStart, "14:00")
	m.AddSlot(1)

	m.RemoveSlot(1, 1)

	w := rec.last(t)
	require.Len(t, w[1].TimeSlots, 2)
	assert.Equal(t, "08:00", w[1].TimeSlots[0].Start)
	assert.Equal(t, "13:00", w[1].TimeSlots[1].Start)
}

func TestCopyDayToAll(t *testing.T) {
	rec := &recorder{}
	m := availability.New(nil, rec.onChange)
	m.SetDayOpen(4, true)
	m.AddSlot(4)
	m.SetSlotTime(4, 0, availability.FieldEnd, "12:00")

	m.CopyDayToAll(4)

	w := rec.last(t)
	require.Len(t, w, 7)
	for i, d := range w {
		assert.Equal(t, w[4].IsOpen, d.IsOpen)
		assert.Equal(t, w[4].TimeSlots, d.TimeSlots)
		assert.Equal(t, domain.DayKeys[i], d.Day)
		assert.Equal(t, domain.DayLabels[i], d.DayLabel)
	}

	// copies are deep: editing one day leaves the others alone
	m.SetSlotTime(0, 0, availability.FieldStart, "10:00")
	w = m.Schedule()
	assert.Equal(t, "10:00", w[0].TimeSlots[0].Start)
	assert.Equal(t, "08:00", w[1].TimeSlots[0].Start)
}

func TestOnChange_ReceivesFullIndependentSnapshot(t *testing.T) {
	rec := &recorder{}
	m := availability.New(nil, rec.onChange)

	m.SetDayOpen(0, true)
	first := rec.last(t)
	require.Len(t, first, 7)

	first[0].TimeSlots[0].Start = "00:00"
	assert.Equal(t, "08:00", m.Day(0).TimeSlots[0].Start)

	m.AddSlot(0)
	assert.Len(t, rec.calls[0][0].TimeSlots, 1, "earlier snapshots are not mutated")
}

func TestMutations_KeepSevenDaysInOrder(t *testing.T) {
	m := availability.New(nil, nil)
	m.AddSlot(6)
	m.RemoveSlot(6, 0)
	m.CopyDayToAll(6)
	m.SetDayOpen(0, true)

	w := m.Schedule()
	require.Len(t, w, 7)
	for i, d := range w {
		assert.Equal(t, domain.DayKeys[i], d.Day)
	}
}

func TestRoundTrip(t *testing.T) {
	m := availability.New(nil, nil)
	m.SetDayOpen(0, true)
	m.AddSlot(0)
	m.SetSlotTime(0, 1, availability.FieldStart, "14:30")
	m.SetDayOpen(5, true)

	raw, err := availability.Encode(m.Schedule())
	require.NoError(t, err)

	again, err := availability.NewFromStored(raw, nil)
	require.NoError(t, err)
	assert.Equal(t, m.Schedule(), again.Schedule())
}

func TestEncode_FieldNames(t *testing.T) {
	raw, err := availability.Encode(domain.DefaultWeeklySchedule())
	require.NoError(t, err)

	var generic []map[string]any
	require.NoError(t, json.Unmarshal(raw, &generic))
	require.Len(t, generic, 7)
	for _, k := range []string{"day", "dayLabel", "isOpen", "timeSlots"} {
		assert.Contains(t, generic[0], k)
	}
	slots := generic[0]["timeSlots"].([]any)
	assert.Equal(t, map[string]any{"start": "08:00", "end": "18:00"}, slots[0])
}

func TestDecode_LegacyStringFallsBackClosed(t *testing.T) {
	w, err := availability.Decode([]byte(`"Seg a Sex 9h às 18h"`))
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultWeeklySchedule(), w)
	for _, d := range w {
		assert.False(t, d.IsOpen)
	}
}

func TestDecode_EmptyValues(t *testing.T) {
	for _, raw := range []string{"", "null", `""`, "  "} {
		w, err := availability.Decode([]byte(raw))
		require.NoError(t, err, raw)
		assert.Equal(t, domain.DefaultWeeklySchedule(), w, raw)
	}
}

func TestDecode_AdoptsStoredArray(t *testing.T) {
	stored := domain.DefaultWeeklySchedule()
	stored[2].IsOpen = true
	stored[2].TimeSlots = append(stored[2].TimeSlots, domain.TimeSlot{Start: "17:00", End: "16:00"})
	raw, err := json.Marshal(stored)
	require.NoError(t, err)

	w, err := availability.Decode(raw)
	require.NoError(t, err)
	assert.Equal(t, stored, w)
}

func TestDecode_WrongShapes(t *testing.T) {
	w, err := availability.Decode([]byte(`[{"day":"monday"}]`))
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultWeeklySchedule(), w)

	w, err = availability.Decode([]byte(`{"monday":{"open":"09:00"}}`))
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultWeeklySchedule(), w)

	for _, raw := range []string{
		`[1,2,3,4,5,6,7]`,
		`["a"]`,
		`[{"isOpen":"yes"},{},{},{},{},{},{}]`,
		`[{"timeSlots":"09:00-18:00"}]`,
	} {
		w, err = availability.Decode([]byte(raw))
		require.NoError(t, err, raw)
		assert.Equal(t, domain.DefaultWeeklySchedule(), w, raw)
	}

	_, err = availability.Decode([]byte(`[{"day":`))
	assert.Error(t, err)
}

func TestApply_ValidatesIndices(t *testing.T) {
	m := availability.New(nil, nil)

	err := m.Apply(availability.Op{Kind: availability.OpAddSlot, Day: 7})
	var verr *domain.ErrValidation
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "day", verr.Field)

	err = m.Apply(availability.Op{Kind: availability.OpRemoveSlot, Day: 0, Slot: 3})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "slot", verr.Field)

	err = m.Apply(availability.Op{Kind: availability.OpSetSlotTime, Day: 0, Slot: 0, Field: "middle"})
	require.ErrorAs(t, err, &verr)

	err = m.Apply(availability.Op{Kind: "rename"})
	require.ErrorAs(t, err, &verr)

	require.NoError(t, m.Apply(availability.Op{Kind: availability.OpSetDayOpen, Day: 6, IsOpen: true}))
	assert.True(t, m.Day(6).IsOpen)
}
