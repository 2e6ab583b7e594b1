package domain

import (
	"encoding/json"
	"fmt"
)

// StringList is a JSON string array that also accepts a bare string, which older
// payloads used for single-valued fields such as a task assignee.
type StringList []string

func (l *StringList) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*l = nil
		return nil
	}
	var one string
	if err := json.Unmarshal(data, &one); err == nil {
		if one == "" {
			*l = StringList{}
		} else {
			*l = StringList{one}
		}
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return fmt.Errorf("string list: %w", err)
	}
	*l = many
	return nil
}

// Dedup drops repeated and empty values keeping first occurrences.
func (l StringList) Dedup() StringList {
	if l == nil {
		return nil
	}
	seen := make(map[string]struct{}, len(l))
	out := make(StringList, 0, len(l))
	for _, v := range l {
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

func (l StringList) Contains(v string) bool {
	for _, x := range l {
		if x == v {
			return true
		}
	}
	return false
}
