package conversation

import "strings"

// AssessmentState is the loosely-typed triage state returned by the remote
// agent via custom_outputs. Beyond the accessors below its shape is opaque;
// unknown fields are carried through persistence untouched and missing
// fields degrade to "no data".
type AssessmentState map[string]any

// SymptomEntry is one extracted symptom or risk factor with optional details.
type SymptomEntry struct {
	Symptom string   `json:"symptom"`
	Details []string `json:"details,omitempty"`
}

// Result returns the agent's result status string, or "" when absent.
func (s AssessmentState) Result() string {
	if s == nil {
		return ""
	}
	if v, ok := s["result"].(string); ok {
		return v
	}
	return ""
}

// ResultPending reports whether the result is absent or still the pending
// sentinel (compared case-insensitively).
func (s AssessmentState) ResultPending() bool {
	result := strings.TrimSpace(s.Result())
	return result == "" || strings.EqualFold(result, ResultPending)
}

// PresentSymptoms returns the extracted present symptoms, or nil.
func (s AssessmentState) PresentSymptoms() []SymptomEntry {
	return s.entries("present_symptoms")
}

// AbsentSymptoms returns the symptoms the agent ruled out, or nil.
func (s AssessmentState) AbsentSymptoms() []SymptomEntry {
	return s.entries("absent_symptoms")
}

// RiskFactors returns the extracted risk factors, or nil.
func (s AssessmentState) RiskFactors() []SymptomEntry {
	return s.entries("risk_factors")
}

// entries pulls a symptom list out of the raw state. Entries that are not
// maps, or maps without a symptom name, are skipped rather than rejected.
func (s AssessmentState) entries(key string) []SymptomEntry {
	if s == nil {
		return nil
	}
	raw, ok := s[key].([]any)
	if !ok || len(raw) == 0 {
		return nil
	}

	out := make([]SymptomEntry, 0, len(raw))
	for _, item := range raw {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		name, ok := m["symptom"].(string)
		if !ok || name == "" {
			continue
		}
		entry := SymptomEntry{Symptom: name}
		if details, ok := m["details"].([]any); ok {
			for _, d := range details {
				if text, ok := d.(string); ok {
					entry.Details = append(entry.Details, text)
				}
			}
		}
		out = append(out, entry)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
