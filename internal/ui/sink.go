package ui

// Sink is the rendering surface the controllers talk to. The host shell
// (the Telegram WebView bridge in production, a recorder in tests) decides
// how toasts, dialogs and redraw requests are shown.
type Sink interface {
	// Toast shows a short transient message.
	Toast(text string)
	// Dialog shows a blocking message the user must dismiss.
	Dialog(title, text string)
	// Invalidate asks the host to redraw the given screen.
	Invalidate(screen string)
}

// NopSink discards everything; useful as a default.
type NopSink struct{}

func (NopSink) Toast(string)          {}
func (NopSink) Dialog(string, string) {}
func (NopSink) Invalidate(string)     {}
