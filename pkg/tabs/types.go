package tabs

// Record is the registry's view of one tab.
type Record struct {
	ID      string `json:"id"`
	URL     string `json:"url"`
	Title   string `json:"title"`
	Favicon string `json:"favicon,omitempty"`
}

// View is the content-host handle for one tab. Commands are
// fire-and-forget; their outcome arrives later as an Event.
type View interface {
	LoadURL(url string)
	GoBack()
	GoForward()
	Reload()

	// URL returns the location the view currently shows.
	URL() string
	// Title returns the current page title.
	Title() string
}

// EventType identifies a host event.
type EventType string

const (
	EventNavigationCommitted EventType = "navigation_committed"
	EventTitleChanged        EventType = "title_changed"
	EventFaviconDiscovered   EventType = "favicon_discovered"
	EventNavigationFailed    EventType = "navigation_failed"
)

// Event is emitted by a view and folded into the registry.
type Event struct {
	Type       EventType
	URL        string
	Title      string
	Candidates []string
	Reason     string
}

// NavigationCommitted reports that the view now shows url.
func NavigationCommitted(url string) Event {
	return Event{Type: EventNavigationCommitted, URL: url}
}

// TitleChanged reports a new page title.
func TitleChanged(title string) Event {
	return Event{Type: EventTitleChanged, Title: title}
}

// FaviconDiscovered reports favicon candidates in document order.
func FaviconDiscovered(candidates ...string) Event {
	return Event{Type: EventFaviconDiscovered, Candidates: candidates}
}

// NavigationFailed reports that loading url did not commit.
func NavigationFailed(url, reason string) Event {
	return Event{Type: EventNavigationFailed, URL: url, Reason: reason}
}
