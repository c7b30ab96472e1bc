package models

import "strings"

// Urgency section names used by the suggestions payload.
const (
	UrgencyHigh           = "High Urgency"
	UrgencyMedium         = "Medium Urgency"
	UrgencyLow            = "Low Urgency"
	SectionConsiderations = "Considerations"
)

type Suggestion struct {
	Item        string `json:"item"`
	Description string `json:"description"`
}

type Note struct {
	Note string `json:"note"`
}

// Headline is the first sentence of the note.
func (n Note) Headline() string {
	head, _, _ := strings.Cut(n.Note, ".")
	return head
}

// Suggestions groups AI restocking suggestions by urgency.
type Suggestions struct {
	High           []Suggestion `json:"High Urgency,omitempty"`
	Medium         []Suggestion `json:"Medium Urgency,omitempty"`
	Low            []Suggestion `json:"Low Urgency,omitempty"`
	Considerations []Note       `json:"Considerations,omitempty"`
}

// Empty reports whether no section carries any entry.
func (s Suggestions) Empty() bool {
	return len(s.High) == 0 && len(s.Medium) == 0 && len(s.Low) == 0 && len(s.Considerations) == 0
}

// Sections returns the non-empty urgency sections in display order.
func (s Suggestions) Sections() []SuggestionSection {
	var out []SuggestionSection
	for _, sec := range []SuggestionSection{
		{Name: UrgencyHigh, Items: s.High},
		{Name: UrgencyMedium, Items: s.Medium},
		{Name: UrgencyLow, Items: s.Low},
	} {
		if len(sec.Items) > 0 {
			out = append(out, sec)
		}
	}
	return out
}

type SuggestionSection struct {
	Name  string       `json:"name"`
	Items []Suggestion `json:"items"`
}
