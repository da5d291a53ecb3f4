package twitter

import (
	"context"
	"fmt"

	"campaignscraper/pkg/browser"
)

// fakeDriver simulates a browser session for loop and restriction tests.
// Each QueryAll call consumes the next element page; each Navigate and
// BodyText call consumes the next queued body text.
type fakeDriver struct {
	pages     [][]browser.RawElement
	pageIndex int

	bodies    []string
	bodyIndex int

	navigations  []string
	navigateErrs []error

	scrolls int
	closed  bool

	evalResults map[string]interface{}
}

func elementsOf(htmls ...string) []browser.RawElement {
	els := make([]browser.RawElement, len(htmls))
	for i, h := range htmls {
		els[i] = browser.RawElement{HTML: h, Index: i}
	}
	return els
}

func (f *fakeDriver) Navigate(ctx context.Context, url string) error {
	f.navigations = append(f.navigations, url)
	if n := len(f.navigations) - 1; n < len(f.navigateErrs) {
		return f.navigateErrs[n]
	}
	return nil
}

func (f *fakeDriver) QueryAll(ctx context.Context, selectors []string) ([]browser.RawElement, error) {
	if f.pageIndex >= len(f.pages) {
		return nil, nil
	}
	page := f.pages[f.pageIndex]
	f.pageIndex++
	return page, nil
}

func (f *fakeDriver) Evaluate(ctx context.Context, js string, out interface{}) error {
	if f.evalResults == nil {
		return nil
	}
	if v, ok := f.evalResults[js]; ok {
		if b, ok := out.(*bool); ok {
			*b = v.(bool)
		}
	}
	return nil
}

func (f *fakeDriver) ScrollToBottom(ctx context.Context) error {
	f.scrolls++
	return nil
}

func (f *fakeDriver) BodyText(ctx context.Context) (string, error) {
	if len(f.bodies) == 0 {
		return "", nil
	}
	if f.bodyIndex >= len(f.bodies) {
		return f.bodies[len(f.bodies)-1], nil
	}
	body := f.bodies[f.bodyIndex]
	f.bodyIndex++
	return body, nil
}

func (f *fakeDriver) Location(ctx context.Context) (string, error) {
	if len(f.navigations) == 0 {
		return "", nil
	}
	return f.navigations[len(f.navigations)-1], nil
}

func (f *fakeDriver) Close() error {
	f.closed = true
	return nil
}

// postHTML builds a minimal post element fixture.
func postHTML(text, datetime string) string {
	return fmt.Sprintf(
		`<article role="article"><div data-testid="tweetText">%s</div><a href="/u/status/1"><time datetime="%s"></time></a></article>`,
		text, datetime,
	)
}
