package core

type Step string

const (
	StepAwaitingItem Step = "AWAITING_ITEM"
	StepAwaitingNote Step = "AWAITING_NOTE"
)

// Session is the serialized form of an in-progress schedule modification.
type Session struct {
	Step        Step    `json:"step"`
	Day         string  `json:"day"`
	CurrentItem string  `json:"currentItem"`
	CurrentNote string  `json:"currentNote"`
	NewItem     *string `json:"newItem,omitempty"`
}
