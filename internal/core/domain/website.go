package domain

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"
)

// Hero is the headline section of a generated site.
type Hero struct {
	Headline      string `json:"headline"`
	Subheading    string `json:"subheading"`
	CTAButtonText string `json:"cta_button_text,omitempty"`
}

// About is the company description section.
type About struct {
	Title string `json:"title,omitempty"`
	Text  string `json:"text,omitempty"`
}

// Service is one entry of the ordered services list.
type Service struct {
	Name        string `json:"name"        validate:"required"`
	Description string `json:"description"`
}

// SiteContent is the document produced by the AI generator and edited by users.
// Top-level fields this client does not know about are kept in Extra and written
// back unchanged on save.
type SiteContent struct {
	Title    string    `json:"title"    validate:"required"`
	Hero     Hero      `json:"hero"`
	About    About     `json:"about"`
	Services []Service `json:"services" validate:"dive"`

	Extra map[string]json.RawMessage `json:"-"`
}

var knownContentFields = []string{"title", "hero", "about", "services"}

func (c *SiteContent) UnmarshalJSON(b []byte) error {
	type plain SiteContent
	var p plain
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	for _, k := range knownContentFields {
		delete(raw, k)
	}
	if len(raw) > 0 {
		p.Extra = raw
	}

	*c = SiteContent(p)
	return nil
}

func (c SiteContent) MarshalJSON() ([]byte, error) {
	type plain SiteContent
	b, err := json.Marshal(plain(c))
	if err != nil || len(c.Extra) == 0 {
		return b, err
	}

	merged := make(map[string]json.RawMessage, len(c.Extra)+len(knownContentFields))
	if err := json.Unmarshal(b, &merged); err != nil {
		return nil, err
	}
	for k, v := range c.Extra {
		if _, known := merged[k]; !known {
			merged[k] = v
		}
	}
	return json.Marshal(merged)
}

// Website is a generated site document as stored by the backend.
type Website struct {
	ID        string      `json:"_id"`
	OwnerID   string      `json:"owner_id"`
	Content   SiteContent `json:"content"`
	CreatedAt Timestamp   `json:"created_at"`
	UpdatedAt Timestamp   `json:"updated_at"`
}

// Timestamp decodes the date formats the backend emits: RFC 3339 and the
// RFC 1123 form produced by Flask's JSON encoder.
type Timestamp struct {
	time.Time
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	http.TimeFormat,
	time.RFC1123,
	time.RFC1123Z,
	"2006-01-02T15:04:05.999999",
	"2006-01-02 15:04:05.999999",
}

func (t *Timestamp) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "null" || s == `""` {
		t.Time = time.Time{}
		return nil
	}

	var raw string
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			t.Time = parsed.UTC()
			return nil
		}
	}
	return &time.ParseError{Layout: time.RFC3339, Value: raw, Message: ": unsupported timestamp format"}
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.UTC().Format(time.RFC3339))
}
