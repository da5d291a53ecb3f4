package api

// WireMessage is the ingestion API's message schema.
type WireMessage struct {
	SourceName      string                 `json:"source_name"`
	SourceType      string                 `json:"source_type"`
	SourceURL       string                 `json:"source_url"`
	Content         string                 `json:"content"`
	URL             string                 `json:"url,omitempty"`
	PublishedAt     string                 `json:"published_at"`
	MessageType     string                 `json:"message_type"`
	GeographicScope string                 `json:"geographic_scope"`
	Metadata        map[string]interface{} `json:"metadata"`
	RawData         map[string]interface{} `json:"raw_data"`
}

// bulkRequest is the POST /api/v1/messages/bulk body.
type bulkRequest struct {
	Messages []WireMessage `json:"messages"`
}

// BulkResponse is the ingestion API's reply to a bulk submission.
type BulkResponse struct {
	ImportedCount int           `json:"imported_count"`
	SkippedCount  int           `json:"skipped_count"`
	Errors        []interface{} `json:"errors"`
}

// Party is the ingestion API's party resource.
type Party struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Active bool   `json:"active"`
}
