package models

// MatchedSubstring marks the part of a prediction that matched the query
type MatchedSubstring struct {
	Offset int `json:"offset"`
	Length int `json:"length"`
}

// PlaceCandidate is one prediction returned by the places provider. It is only
// meaningful for the query that produced it.
type PlaceCandidate struct {
	PlaceID       string             `json:"place_id"`
	Description   string             `json:"description"`
	MainText      string             `json:"main_text"`
	SecondaryText string             `json:"secondary_text"`
	Matches       []MatchedSubstring `json:"matches,omitempty"`
}

// Highlight splits MainText into alternating plain and matched parts. The
// boolean on each part is true for matched text.
func (p PlaceCandidate) Highlight() []TextPart {
	runes := []rune(p.MainText)
	var parts []TextPart
	pos := 0
	for _, m := range p.Matches {
		if m.Length <= 0 {
			continue
		}
		start, end := m.Offset, m.Offset+m.Length
		if start < pos || start > len(runes) {
			continue
		}
		if end > len(runes) {
			end = len(runes)
		}
		if start > pos {
			parts = append(parts, TextPart{Text: string(runes[pos:start])})
		}
		if end > start {
			parts = append(parts, TextPart{Text: string(runes[start:end]), Matched: true})
		}
		pos = end
	}
	if pos < len(runes) {
		parts = append(parts, TextPart{Text: string(runes[pos:])})
	}
	return parts
}

// TextPart is a run of text for highlighting
type TextPart struct {
	Text    string
	Matched bool
}
