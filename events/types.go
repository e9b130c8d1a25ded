package events

// EventType represents the type of physics event
type EventType int

const (
	// EventContactBegin signals a body pair started touching this step
	// Trigger: Manager contact diff | Payload: *ContactPayload
	EventContactBegin EventType = iota

	// EventContactEnd signals a body pair separated this step
	// Trigger: Manager contact diff | Payload: *ContactPayload
	EventContactEnd

	// EventClothTorn signals links were removed from a cloth
	// Trigger: Manager.TearCloth | Payload: *ClothTornPayload
	EventClothTorn

	// EventCatchUp signals an oversized step consumed leftover frame time
	// Trigger: Manager.Update at the step cap | Payload: *CatchUpPayload
	EventCatchUp

	eventTypeCount
)

var eventNames = [eventTypeCount]string{
	EventContactBegin: "ContactBegin",
	EventContactEnd:   "ContactEnd",
	EventClothTorn:    "ClothTorn",
	EventCatchUp:      "CatchUp",
}

func (t EventType) String() string {
	if t < 0 || t >= eventTypeCount {
		return "Unknown"
	}
	return eventNames[t]
}

// Event is a single queued physics event
type Event struct {
	Type    EventType
	Payload any
	Step    uint64 // fixed step counter at emission
}
