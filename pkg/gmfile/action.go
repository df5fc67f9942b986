// SPDX-License-Identifier: MPL-2.0

package gmfile

// Event types in archive order.
const (
	EventCreate EventType = iota
	EventDestroy
	EventAlarm
	EventStep
	EventCollision
	EventKeyboard
	EventMouse
	EventOther
	EventDraw
	EventKeyPress
	EventKeyRelease
	EventTrigger
)

// Action argument kinds. Kinds from ArgSprite to ArgTimeline, except
// ArgColor, hold a reference to a resource.
const (
	ArgExpression ArgKind = iota
	ArgString
	ArgBoth
	ArgBoolean
	ArgMenu
	ArgSprite
	ArgSound
	ArgBackground
	ArgPath
	ArgScript
	ArgObject
	ArgRoom
	ArgFont
	ArgColor
	ArgTimeline
	ArgFontString
)

const (
	// AppliesSelf runs the action on the calling instance.
	AppliesSelf AppliesTo = iota
	// AppliesOther runs the action on the other instance of a collision.
	AppliesOther
	// AppliesObject runs the action on all instances of Action.AppliesObject.
	AppliesObject
)

type (
	// EventType is the main category of an object event.
	EventType uint8

	// ArgKind is the type of one action argument.
	ArgKind uint8

	// AppliesTo selects which instances an action runs on.
	AppliesTo uint8

	// Argument is one action argument. Resource-typed arguments use Ref,
	// all others use Value.
	Argument struct {
		Kind  ArgKind `cbor:"kind"`
		Value string  `cbor:"value,omitempty"`
		Ref   Ref     `cbor:"ref"`
	}

	// Action is one drag-and-drop action.
	Action struct {
		LibID         int        `cbor:"lib"`
		ActionID      int        `cbor:"action"`
		AppliesTo     AppliesTo  `cbor:"appliesTo"`
		AppliesObject Ref        `cbor:"appliesObject"`
		Relative      bool       `cbor:"relative"`
		Not           bool       `cbor:"not"`
		Arguments     []Argument `cbor:"args"`
	}

	// Event is one event handler of an object. Num is the event sub-number
	// (alarm index, key code, ...); collision events use Other instead.
	Event struct {
		Type    EventType `cbor:"type"`
		Num     int       `cbor:"num"`
		Other   Ref       `cbor:"other"`
		Actions []Action  `cbor:"actions"`
	}
)

var eventTypeNames = []string{
	"create", "destroy", "alarm", "step", "collision", "keyboard",
	"mouse", "other", "draw", "keypress", "keyrelease", "trigger",
}

// String returns the event type's XML name.
func (t EventType) String() string {
	if int(t) < len(eventTypeNames) {
		return eventTypeNames[t]
	}
	return "unknown"
}

// ParseEventType is the inverse of EventType.String.
func ParseEventType(s string) (EventType, bool) {
	for i, name := range eventTypeNames {
		if name == s {
			return EventType(i), true
		}
	}
	return 0, false
}

var argKindNames = []string{
	"expression", "string", "both", "boolean", "menu", "sprite", "sound",
	"background", "path", "script", "object", "room", "font", "color",
	"timeline", "fontstring",
}

// String returns the argument kind's XML name.
func (k ArgKind) String() string {
	if int(k) < len(argKindNames) {
		return argKindNames[k]
	}
	return "unknown"
}

// ParseArgKind is the inverse of ArgKind.String.
func ParseArgKind(s string) (ArgKind, bool) {
	for i, name := range argKindNames {
		if name == s {
			return ArgKind(i), true
		}
	}
	return 0, false
}

// ResourceKind returns the kind referenced by a resource-typed argument.
func (k ArgKind) ResourceKind() (Kind, bool) {
	switch k {
	case ArgSprite:
		return KindSprite, true
	case ArgSound:
		return KindSound, true
	case ArgBackground:
		return KindBackground, true
	case ArgPath:
		return KindPath, true
	case ArgScript:
		return KindScript, true
	case ArgObject:
		return KindObject, true
	case ArgRoom:
		return KindRoom, true
	case ArgFont:
		return KindFont, true
	case ArgTimeline:
		return KindTimeline, true
	default:
		return 0, false
	}
}
