package tui

type EventType int

const (
	EventSpin EventType = iota
	EventBar
	EventText
	EventDone
)

type Event struct {
	eventType EventType
	text      string
	percent   float64
}

func NewEventSpin(text string) Event {
	return Event{
		eventType: EventSpin,
		text:      text,
	}
}

// NewEventBar clamps percent to 0..1
func NewEventBar(text string, percent float64) Event {
	if percent < 0 {
		percent = 0
	}
	if percent > 1 {
		percent = 1
	}
	return Event{
		eventType: EventBar,
		text:      text,
		percent:   percent,
	}
}

func NewEventText(text string) Event {
	return Event{
		eventType: EventText,
		text:      text,
	}
}

// NewEventDone ends the ui with a final message
func NewEventDone(text string) Event {
	return Event{
		eventType: EventDone,
		text:      text,
	}
}

func (e Event) Type() EventType  { return e.eventType }
func (e Event) Text() string     { return e.text }
func (e Event) Percent() float64 { return e.percent }
