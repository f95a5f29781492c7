package event

import "fmt"

// Kind identifies a domain event type.
type Kind uint8

const (
	KindKeyPress Kind = iota + 1
	KindKeyRelease
	KindButtonPress
	KindButtonRelease
	KindMotion
	KindEnter
	KindLeave
	KindFocusIn
	KindFocusOut
	KindCreate
	KindDestroy
	KindUnmap
	KindMap
	KindMapRequest
	KindConfigureNotify
	KindConfigureRequest
	KindPropertyChange
	KindClientMessage
	KindOutputChange
)

var kindNames = map[Kind]string{
	KindKeyPress:         "KeyPress",
	KindKeyRelease:       "KeyRelease",
	KindButtonPress:      "ButtonPress",
	KindButtonRelease:    "ButtonRelease",
	KindMotion:           "Motion",
	KindEnter:            "Enter",
	KindLeave:            "Leave",
	KindFocusIn:          "FocusIn",
	KindFocusOut:         "FocusOut",
	KindCreate:           "Create",
	KindDestroy:          "Destroy",
	KindUnmap:            "Unmap",
	KindMap:              "Map",
	KindMapRequest:       "MapRequest",
	KindConfigureNotify:  "ConfigureNotify",
	KindConfigureRequest: "ConfigureRequest",
	KindPropertyChange:   "PropertyChange",
	KindClientMessage:    "ClientMessage",
	KindOutputChange:     "OutputChange",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// Class is the outcome of classifying a wire event tag.
type Class uint8

const (
	// ClassUnknown tags are logged and discarded.
	ClassUnknown Class = iota
	// ClassIgnored tags are defined by the protocol but not consumed.
	ClassIgnored
	// ClassHandled tags decode into a domain event.
	ClassHandled
)

func (c Class) String() string {
	switch c {
	case ClassHandled:
		return "handled"
	case ClassIgnored:
		return "ignored"
	default:
		return "unknown"
	}
}

// Core protocol event tags. The values are fixed by the X11 protocol.
const (
	tagKeyPress         uint8 = 2
	tagKeyRelease       uint8 = 3
	tagButtonPress      uint8 = 4
	tagButtonRelease    uint8 = 5
	tagMotionNotify     uint8 = 6
	tagEnterNotify      uint8 = 7
	tagLeaveNotify      uint8 = 8
	tagFocusIn          uint8 = 9
	tagFocusOut         uint8 = 10
	tagKeymapNotify     uint8 = 11
	tagExpose           uint8 = 12
	tagGraphicsExposure uint8 = 13
	tagNoExposure       uint8 = 14
	tagVisibilityNotify uint8 = 15
	tagCreateNotify     uint8 = 16
	tagDestroyNotify    uint8 = 17
	tagUnmapNotify      uint8 = 18
	tagMapNotify        uint8 = 19
	tagMapRequest       uint8 = 20
	tagReparentNotify   uint8 = 21
	tagConfigureNotify  uint8 = 22
	tagConfigureRequest uint8 = 23
	tagGravityNotify    uint8 = 24
	tagResizeRequest    uint8 = 25
	tagCirculateNotify  uint8 = 26
	tagCirculateRequest uint8 = 27
	tagPropertyNotify   uint8 = 28
	tagSelectionClear   uint8 = 29
	tagSelectionRequest uint8 = 30
	tagSelectionNotify  uint8 = 31
	tagColormapNotify   uint8 = 32
	tagClientMessage    uint8 = 33
	tagMappingNotify    uint8 = 34
	tagGeGeneric        uint8 = 35
)

// Output extension event offsets from the server-assigned base code.
const (
	outputScreenChangeOffset uint8 = 0
	outputNotifyOffset       uint8 = 1
)

// sendEventBit is set on the tag of events delivered via SendEvent.
const sendEventBit = 0x80

var coreKinds = map[uint8]Kind{
	tagKeyPress:         KindKeyPress,
	tagKeyRelease:       KindKeyRelease,
	tagButtonPress:      KindButtonPress,
	tagButtonRelease:    KindButtonRelease,
	tagMotionNotify:     KindMotion,
	tagEnterNotify:      KindEnter,
	tagLeaveNotify:      KindLeave,
	tagFocusIn:          KindFocusIn,
	tagFocusOut:         KindFocusOut,
	tagCreateNotify:     KindCreate,
	tagDestroyNotify:    KindDestroy,
	tagUnmapNotify:      KindUnmap,
	tagMapNotify:        KindMap,
	tagMapRequest:       KindMapRequest,
	tagConfigureNotify:  KindConfigureNotify,
	tagConfigureRequest: KindConfigureRequest,
	tagPropertyNotify:   KindPropertyChange,
	tagClientMessage:    KindClientMessage,
}

var ignoredTags = map[uint8]struct{}{
	tagKeymapNotify:     {},
	tagExpose:           {},
	tagGraphicsExposure: {},
	tagNoExposure:       {},
	tagVisibilityNotify: {},
	tagReparentNotify:   {},
	tagGravityNotify:    {},
	tagResizeRequest:    {},
	tagCirculateNotify:  {},
	tagCirculateRequest: {},
	tagSelectionClear:   {},
	tagSelectionRequest: {},
	tagSelectionNotify:  {},
	tagColormapNotify:   {},
	tagMappingNotify:    {},
	tagGeGeneric:        {},
}

// Classify maps a wire response tag to a domain kind. base is the first
// event code the server assigned to the output extension. A zero base
// means the extension is absent and its events are never recognized.
func Classify(tag, base uint8) (Kind, Class) {
	tag &^= sendEventBit
	if base != 0 {
		switch tag {
		case base + outputScreenChangeOffset, base + outputNotifyOffset:
			return KindOutputChange, ClassHandled
		}
	}
	if k, ok := coreKinds[tag]; ok {
		return k, ClassHandled
	}
	if _, ok := ignoredTags[tag]; ok {
		return 0, ClassIgnored
	}
	return 0, ClassUnknown
}
