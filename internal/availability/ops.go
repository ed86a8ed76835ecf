package availability

import (
	"fmt"

	"github.com/boddenberg/agenda-bfa-go/internal/domain"
)

// SlotField selects which end of a slot SetSlotTime edits.
type SlotField string

const (
	FieldStart SlotField = domain.SlotFieldFrom
	FieldEnd   SlotField = domain.SlotFieldTo
)

// OpKind names one model edit. The values double as metric labels.
type OpKind string

const (
	OpSetDayOpen   OpKind = "set_day_open"
	OpSetSlotTime  OpKind = "set_slot_time"
	OpAddSlot      OpKind = "add_slot"
	OpRemoveSlot   OpKind = "remove_slot"
	OpCopyDayToAll OpKind = "copy_day_to_all"
)

// Op is a serializable model edit, as received from the dashboards.
type Op struct {
	Kind   OpKind    `json:"op"`
	Day    int       `json:"day"`
	Slot   int       `json:"slot,omitempty"`
	IsOpen bool      `json:"isOpen,omitempty"`
	Field  SlotField `json:"field,omitempty"`
	Value  string    `json:"value,omitempty"`
}

// Validate checks that the op's indices point inside m. The model itself
// does not bounds check, so callers fed by untrusted input run this first.
func (op Op) Validate(m *Model) error {
	if op.Day < 0 || op.Day >= len(m.days) {
		return &domain.ErrValidation{Field: "day", Message: fmt.Sprintf("dia fora do intervalo 0-%d", len(m.days)-1)}
	}
	switch op.Kind {
	case OpSetDayOpen, OpAddSlot, OpCopyDayToAll:
		return nil
	case OpSetSlotTime, OpRemoveSlot:
		if n := len(m.days[op.Day].TimeSlots); op.Slot < 0 || op.Slot >= n {
			return &domain.ErrValidation{Field: "slot", Message: "horário inexistente"}
		}
		if op.Kind == OpSetSlotTime && op.Field != FieldStart && op.Field != FieldEnd {
			return &domain.ErrValidation{Field: "field", Message: "campo deve ser 'start' ou 'end'"}
		}
		return nil
	}
	return &domain.ErrValidation{Field: "op", Message: fmt.Sprintf("operação desconhecida: %q", op.Kind)}
}

// Apply validates op and runs it against m.
func (m *Model) Apply(op Op) error {
	if err := op.Validate(m); err != nil {
		return err
	}
	switch op.Kind {
	case OpSetDayOpen:
		m.SetDayOpen(op.Day, op.IsOpen)
	case OpSetSlotTime:
		m.SetSlotTime(op.Day, op.Slot, op.Field, op.Value)
	case OpAddSlot:
		m.AddSlot(op.Day)
	case OpRemoveSlot:
		m.RemoveSlot(op.Day, op.Slot)
	case OpCopyDayToAll:
		m.CopyDayToAll(op.Day)
	}
	return nil
}
