package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Ref is an identifier the catalog API sends either as a bare string or as a
// populated document ({"_id": "...", "name": "..."}).
type Ref struct {
	ID   string
	Name string
}

func (r *Ref) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*r = Ref{}
		return nil
	}

	switch b[0] {
	case '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*r = Ref{ID: normalizeID(s)}
		return nil
	case '{':
		var doc struct {
			MongoID string `json:"_id"`
			ID      string `json:"id"`
			Name    string `json:"name"`
		}
		if err := json.Unmarshal(b, &doc); err != nil {
			return err
		}
		r.ID = normalizeID(doc.MongoID)
		if r.ID == "" {
			r.ID = normalizeID(doc.ID)
		}
		r.Name = doc.Name
		return nil
	default:
		return fmt.Errorf("unsupported reference value: %s", string(b))
	}
}

func (r Ref) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.ID)
}

// RawSelection is an option identifier picked in the console. The console has sent
// every one of these shapes over time:
//
//	"64f0..."
//	{"optionId": "64f0...", "name": "Red"}
//	{"optionId": {"_id": "64f0...", "name": "Red"}}
//	{"_id": "64f0...", "color": "Red"}
type RawSelection struct {
	OptionID string `json:"optionId"`
	Name     string `json:"name,omitempty"`
}

func (s *RawSelection) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] != '{' {
		var ref Ref
		if err := ref.UnmarshalJSON(b); err != nil {
			return err
		}
		*s = RawSelection{OptionID: ref.ID}
		return nil
	}

	var doc struct {
		OptionID Ref    `json:"optionId"`
		MongoID  string `json:"_id"`
		ID       string `json:"id"`
		Name     string `json:"name"`
		Color    string `json:"color"`
	}
	if err := json.Unmarshal(b, &doc); err != nil {
		return err
	}

	s.OptionID = doc.OptionID.ID
	if s.OptionID == "" {
		s.OptionID = normalizeID(doc.MongoID)
	}
	if s.OptionID == "" {
		s.OptionID = normalizeID(doc.ID)
	}
	s.Name = firstNonEmpty(doc.Name, doc.OptionID.Name, doc.Color)
	return nil
}

// UnmarshalJSON accepts the selected-option ids either bare or populated, the
// same way product documents come back from the catalog. It marshals as bare ids.
func (o *SelectedOption) UnmarshalJSON(b []byte) error {
	var doc struct {
		MongoID  string   `json:"_id"`
		ID       string   `json:"id"`
		OptionID Ref      `json:"optionId"`
		Images   []string `json:"images"`
	}
	if err := json.Unmarshal(b, &doc); err != nil {
		return err
	}
	*o = SelectedOption{
		ID:       firstNonEmpty(normalizeID(doc.ID), normalizeID(doc.MongoID)),
		OptionID: doc.OptionID.ID,
		Images:   doc.Images,
	}
	return nil
}

func (c *ProductConfiguration) UnmarshalJSON(b []byte) error {
	var doc struct {
		ConfigurationID Ref              `json:"configurationId"`
		SelectedOptions []SelectedOption `json:"selectedOptions"`
	}
	if err := json.Unmarshal(b, &doc); err != nil {
		return err
	}
	*c = ProductConfiguration{
		ConfigurationID: doc.ConfigurationID.ID,
		SelectedOptions: doc.SelectedOptions,
	}
	return nil
}

// normalizeID drops the placeholder values the console produced for unset ids
func normalizeID(id string) string {
	id = strings.TrimSpace(id)
	if id == "undefined" || id == "null" {
		return ""
	}
	return id
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
