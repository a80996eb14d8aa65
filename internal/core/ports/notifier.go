package ports

// NoticeLevel classifies a user-facing message.
type NoticeLevel string

const (
	NoticeSuccess NoticeLevel = "success"
	NoticeInfo    NoticeLevel = "info"
	NoticeError   NoticeLevel = "error"
)

// Notice is a message surfaced to the user.
type Notice struct {
	Level   NoticeLevel
	Message string
}

// Notifier surfaces notices to the user (toasts in a browser, lines on a
// terminal).
type Notifier interface {
	Notify(n Notice)
}

// Route is a logical navigation target.
type Route string

const (
	RouteHome  Route = "/"
	RouteLogin Route = "/login"
	RouteVote  Route = "/vote"
)

// Navigator moves the presentation layer to another view.
type Navigator interface {
	Navigate(to Route)
}
