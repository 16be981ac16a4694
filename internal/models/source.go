// ABOUTME: SourceCitation identifies which chunk grounded an answer
// ABOUTME: Serialized as {"text": ..., "url": ...|null} for clients
package models

// SourceCitation is a display label with an optional link
type SourceCitation struct {
	Text string  `json:"text"`
	URL  *string `json:"url"`
}

// NewSourceCitation creates a citation, leaving URL nil when link is empty
func NewSourceCitation(text, link string) SourceCitation {
	c := SourceCitation{Text: text}
	if link != "" {
		c.URL = &link
	}
	return c
}

// Link returns the citation URL or an empty string
func (c SourceCitation) Link() string {
	if c.URL == nil {
		return ""
	}
	return *c.URL
}
