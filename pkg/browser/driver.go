package browser

import "context"

// RawElement is an opaque handle to one matched page element. The captured
// HTML is a snapshot; it is only valid for the extraction iteration that
// produced it.
type RawElement struct {
	// HTML is the element's outer HTML at capture time.
	HTML string
	// Index is the element's position in the query result.
	Index int
}

// Driver abstracts the live browser session. The scraping core depends on
// this interface so tests run against a fake without a browser.
type Driver interface {
	// Navigate loads the given URL and waits for the page to settle.
	Navigate(ctx context.Context, url string) error

	// QueryAll tries each selector in order and returns the elements matched
	// by the first selector that yields any. An empty result is not an error.
	QueryAll(ctx context.Context, selectors []string) ([]RawElement, error)

	// Evaluate runs a JavaScript expression and unmarshals the result into out.
	// Pass nil to discard the result.
	Evaluate(ctx context.Context, js string, out interface{}) error

	// ScrollToBottom scrolls the window to the bottom of the document.
	ScrollToBottom(ctx context.Context) error

	// BodyText returns the visible text of the document body.
	BodyText(ctx context.Context) (string, error)

	// Location returns the page's current URL.
	Location(ctx context.Context) (string, error)

	// Close tears down the session. Safe to call more than once.
	Close() error
}
