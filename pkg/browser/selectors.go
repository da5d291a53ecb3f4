package browser

// Selectors holds the ordered CSS selector lists the scraper tries against
// the page. The lists are data, not contract: the page's markup changes
// between layouts, so each list is tried in order and the first selector
// that matches anything wins.
type Selectors struct {
	// Posts locate whole post containers on a profile page.
	Posts []string
	// Text locate the post body text inside a container.
	Text []string
	// Metrics locate engagement counters inside a container, keyed by
	// metric name.
	Metrics map[string][]string
	// Links locate anchors inside a container.
	Links []string
	// DismissOverlay locate close buttons for login overlays.
	DismissOverlay []string
}

// DefaultSelectors covers the current desktop layout plus older and mobile
// variants.
func DefaultSelectors() Selectors {
	return Selectors{
		Posts: []string{
			`[data-testid="tweet"]`,
			`article[role="article"]`,
			`[data-testid="tweetText"]`,
			`.tweet`,
			`.r-1loqt21`,
		},
		Text: []string{
			`[data-testid="tweetText"]`,
			`.tweet-text`,
			`[lang]`,
			`span`,
		},
		Metrics: map[string][]string{
			"likes":    {`[data-testid="like"]`, `[data-testid="unlike"]`},
			"retweets": {`[data-testid="retweet"]`, `[data-testid="unretweet"]`},
			"replies":  {`[data-testid="reply"]`},
		},
		Links: []string{
			`a[href]`,
		},
		DismissOverlay: []string{
			`[aria-label="Close"]`,
		},
	}
}
