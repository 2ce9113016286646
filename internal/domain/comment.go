package domain

import (
	"encoding/json"
	"time"
)

var commentTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
}

// UnmarshalJSON never fails: fields that do not decode are left empty so a
// stray comment cannot make a whole post unreadable. createdAt accepts RFC
// 3339, space-separated timestamps and epoch milliseconds.
func (c *Comment) UnmarshalJSON(data []byte) error {
	*c = Comment{}
	var raw struct {
		User      json.RawMessage `json:"user"`
		Text      json.RawMessage `json:"text"`
		CreatedAt json.RawMessage `json:"createdAt"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil
	}
	_ = json.Unmarshal(raw.User, &c.User)
	_ = json.Unmarshal(raw.Text, &c.Text)
	c.CreatedAt = parseCommentTime(raw.CreatedAt)
	return nil
}

func parseCommentTime(raw json.RawMessage) *time.Time {
	if len(raw) == 0 {
		return nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		for _, layout := range commentTimeLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				t = t.UTC()
				return &t
			}
		}
		return nil
	}
	var ms float64
	if err := json.Unmarshal(raw, &ms); err == nil {
		t := time.UnixMilli(int64(ms)).UTC()
		return &t
	}
	return nil
}
