// Package availability holds the weekly working-hours template shared by
// stores, professionals and business settings, and the edits the dashboards
// apply to it.
//
// Every edit hands the whole updated schedule to the OnChange callback, never
// a diff, so whoever persists it always writes a complete snapshot.
package availability

import "github.com/boddenberg/agenda-bfa-go/internal/domain"

// OnChange receives a deep copy of the full schedule after each edit.
type OnChange func(domain.WeeklySchedule)

// Model is a single-writer, in-memory WeeklySchedule. It is not safe for
// concurrent use.
//
// Day and slot indices out of range are programmer errors and are not
// checked here.
type Model struct {
	days     domain.WeeklySchedule
	onChange OnChange
}

// New adopts initial verbatim, or the default template when initial is nil.
// onChange may be nil.
func New(initial domain.WeeklySchedule, onChange OnChange) *Model {
	if initial == nil {
		initial = domain.DefaultWeeklySchedule()
	}
	return &Model{days: initial.Clone(), onChange: onChange}
}

// NewFromStored decodes a persisted value (see Decode) and wraps it.
func NewFromStored(raw []byte, onChange OnChange) (*Model, error) {
	w, err := Decode(raw)
	if err != nil {
		return nil, err
	}
	return New(w, onChange), nil
}

// Schedule returns a deep copy of the current schedule.
func (m *Model) Schedule() domain.WeeklySchedule {
	return m.days.Clone()
}

// Day returns a copy of one day.
func (m *Model) Day(day int) domain.DaySchedule {
	return m.days[day : day+1].Clone()[0]
}

// Reset replaces the whole schedule with a copy of w. The caller is
// expected to have checked its shape.
func (m *Model) Reset(w domain.WeeklySchedule) {
	m.days = w.Clone()
	m.emit()
}

// SetDayOpen sets the open flag of one day. Slots are kept as they are.
func (m *Model) SetDayOpen(day int, isOpen bool) {
	m.days[day].IsOpen = isOpen
	m.emit()
}

// SetSlotTime sets the start or end of one slot. Inverted or overlapping
// ranges are stored as given.
func (m *Model) SetSlotTime(day, slot int, field SlotField, value string) {
	switch field {
	case FieldStart:
		m.days[day].TimeSlots[slot].Start = value
	case FieldEnd:
		m.days[day].TimeSlots[slot].End = value
	default:
		return
	}
	m.emit()
}

// AddSlot appends a 13:00–18:00 slot to the day, overlapping or not.
func (m *Model) AddSlot(day int) {
	m.days[day].TimeSlots = append(m.days[day].TimeSlots, domain.TimeSlot{
		Start: domain.NewSlotStart,
		End:   domain.NewSlotEnd,
	})
	m.emit()
}

// RemoveSlot deletes one slot unless it is the only one left on the day,
// in which case nothing changes.
func (m *Model) RemoveSlot(day, slot int) {
	slots := m.days[day].TimeSlots
	if len(slots) <= 1 {
		return
	}
	next := make([]domain.TimeSlot, 0, len(slots)-1)
	next = append(next, slots[:slot]...)
	next = append(next, slots[slot+1:]...)
	m.days[day].TimeSlots = next
	m.emit()
}

// CopyDayToAll overwrites the open flag and slot list of every day with a
// copy of the source day. Day keys and labels are left alone.
func (m *Model) CopyDayToAll(source int) {
	src := m.days[source]
	for i := range m.days {
		m.days[i].IsOpen = src.IsOpen
		m.days[i].TimeSlots = append([]domain.TimeSlot(nil), src.TimeSlots...)
	}
	m.emit()
}

// IsLastSlot reports whether slot is the last entry of the day. The add-slot
// control is only offered next to that entry.
func (m *Model) IsLastSlot(day, slot int) bool {
	return slot == len(m.days[day].TimeSlots)-1
}

// CanRemoveSlot reports whether RemoveSlot would change the day.
func (m *Model) CanRemoveSlot(day int) bool {
	return len(m.days[day].TimeSlots) > 1
}

func (m *Model) emit() {
	if m.onChange != nil {
		m.onChange(m.days.Clone())
	}
}
