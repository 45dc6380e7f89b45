// Package ui defines the port surface the storefront logic drives. Concrete
// rendering (DOM, terminal, tests) plugs in behind these interfaces.
package ui

// Page names the navigation targets the flows redirect to.
type Page string

const (
	PageHome  Page = "index"
	PageLogin Page = "login"
	PageAdmin Page = "admin"
	PageCart  Page = "cart"
)

// Notifier surfaces foreground feedback to the user.
type Notifier interface {
	Success(message string)
	Error(message string)
}

// Navigator requests a page change, e.g. the login redirect after an
// anonymous add-to-cart.
type Navigator interface {
	GoTo(page Page)
}

// CountDisplay is one rendered cart badge. The session manager broadcasts to
// every registered display and hides them at zero.
type CountDisplay interface {
	SetCount(total int)
	Hide()
}

// NopNotifier discards all feedback.
type NopNotifier struct{}

func (NopNotifier) Success(string) {}
func (NopNotifier) Error(string)   {}

// NopNavigator ignores navigation requests.
type NopNavigator struct{}

func (NopNavigator) GoTo(Page) {}
