package watermark

// Phase identifies a processing stage reported while a document is watermarked.
type Phase string

const (
	PhaseFontDownload Phase = "font-download"
	PhaseFontSource   Phase = "font-source"
	PhaseFontEmbed    Phase = "font-embed"
	PhaseWatermark    Phase = "watermark"
	PhaseSave         Phase = "save"
)

// Event is one progress notification. Message is free text intended for
// humans; it carries no structured payload and is safe to localize upstream.
type Event struct {
	Phase   Phase
	Message string
}

// StatusFunc receives progress events during an operation. A nil StatusFunc
// is valid and discards all events.
type StatusFunc func(Event)

func (f StatusFunc) emit(phase Phase, message string) {
	if f != nil {
		f(Event{Phase: phase, Message: message})
	}
}

// ChanStatus adapts a channel into a StatusFunc. Sends block, so the channel
// should be buffered or drained by a consumer for the whole operation.
func ChanStatus(ch chan<- Event) StatusFunc {
	return func(e Event) {
		ch <- e
	}
}
