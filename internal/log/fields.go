package log

// Canonical field name constants for structured logging.
const (
	FieldComponent = "component"
	FieldEvent     = "event"
	FieldCause     = "cause"

	// Scheduling fields
	FieldTick      = "tick"
	FieldDueTick   = "due_tick"
	FieldClamped   = "clamped_to"
	FieldOldState  = "old_state"
	FieldNewState  = "new_state"
	FieldScheduler = "scheduler"

	// Stream fields
	FieldKind     = "kind"
	FieldProducer = "producer_id"
	FieldOperator = "operator"
)
