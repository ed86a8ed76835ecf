package domain

import "encoding/json"

// ============================================================
// Working hours — weekly availability template
// ============================================================

// DaysPerWeek is the fixed length of a WeeklySchedule.
const DaysPerWeek = 7

// Default slot values.
const (
	WeekdayOpen   = "08:00"
	WeekdayClose  = "18:00"
	WeekendOpen   = "09:00"
	WeekendClose  = "17:00"
	NewSlotStart  = "13:00"
	NewSlotEnd    = "18:00"
	SlotFieldFrom = "start"
	SlotFieldTo   = "end"
)

// DayKeys are the machine keys of each day, Monday first.
var DayKeys = [DaysPerWeek]string{
	"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday",
}

// DayLabels are the display labels shown by the front end.
var DayLabels = [DaysPerWeek]string{
	"Segunda-feira", "Terça-feira", "Quarta-feira", "Quinta-feira", "Sexta-feira", "Sábado", "Domingo",
}

// TimeSlot is one contiguous open range inside a day, as "HH:MM" 24h text.
// start < end is expected but not enforced.
type TimeSlot struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// DaySchedule is the open flag and slot list of one day of the week.
type DaySchedule struct {
	Day       string     `json:"day"`
	DayLabel  string     `json:"dayLabel"`
	IsOpen    bool       `json:"isOpen"`
	TimeSlots []TimeSlot `json:"timeSlots"`
}

// WeeklySchedule holds exactly seven days, Monday to Sunday. It is stored
// as one JSON array per business, store or professional.
type WeeklySchedule []DaySchedule

// Clone returns a deep copy; slot slices are never shared.
func (w WeeklySchedule) Clone() WeeklySchedule {
	if w == nil {
		return nil
	}
	out := make(WeeklySchedule, len(w))
	for i, d := range w {
		out[i] = d
		out[i].TimeSlots = cloneSlots(d.TimeSlots)
	}
	return out
}

func cloneSlots(s []TimeSlot) []TimeSlot {
	if s == nil {
		return nil
	}
	out := make([]TimeSlot, len(s))
	copy(out, s)
	return out
}

// DefaultWeeklySchedule returns the template used when nothing is stored:
// Monday–Friday 08:00–18:00, Saturday and Sunday 09:00–17:00, every day closed.
func DefaultWeeklySchedule() WeeklySchedule {
	w := make(WeeklySchedule, DaysPerWeek)
	for i := 0; i < DaysPerWeek; i++ {
		slot := TimeSlot{Start: WeekdayOpen, End: WeekdayClose}
		if i >= 5 {
			slot = TimeSlot{Start: WeekendOpen, End: WeekendClose}
		}
		w[i] = DaySchedule{
			Day:       DayKeys[i],
			DayLabel:  DayLabels[i],
			IsOpen:    false,
			TimeSlots: []TimeSlot{slot},
		}
	}
	return w
}

// DayIndex resolves a day key ("monday") to its index in a WeeklySchedule.
func DayIndex(key string) (int, bool) {
	for i, k := range DayKeys {
		if k == key {
			return i, true
		}
	}
	return 0, false
}

// ============================================================
// Schedule owners
// ============================================================

// OwnerKind names the entity a WeeklySchedule belongs to.
type OwnerKind string

const (
	OwnerStore        OwnerKind = "store"
	OwnerProfessional OwnerKind = "professional"
	OwnerBusiness     OwnerKind = "business"
)

// Valid reports whether k is a known owner kind.
func (k OwnerKind) Valid() bool {
	switch k {
	case OwnerStore, OwnerProfessional, OwnerBusiness:
		return true
	}
	return false
}

// ScheduleOwner keys a stored schedule.
type ScheduleOwner struct {
	Kind OwnerKind `json:"kind"`
	ID   string    `json:"id"`
}

// StoredSchedule is the persisted working-hours value of an owner, exactly
// as read from the backend. Raw may be null, a legacy string, or an array.
type StoredSchedule struct {
	Owner      ScheduleOwner
	BusinessID string
	ProfileID  string // professionals only: the profile allowed to edit it
	Raw        json.RawMessage
}

// ScheduleResponse is the body returned by the working-hours endpoints.
type ScheduleResponse struct {
	Owner    ScheduleOwner  `json:"owner"`
	Schedule WeeklySchedule `json:"schedule"`
	Warnings []string       `json:"warnings,omitempty"`
}

// AvailabilityOverview groups every schedule of one business.
type AvailabilityOverview struct {
	BusinessID    string             `json:"businessId"`
	Business      *ScheduleResponse  `json:"business"`
	Stores        []ScheduleResponse `json:"stores"`
	Professionals []ScheduleResponse `json:"professionals"`
}
