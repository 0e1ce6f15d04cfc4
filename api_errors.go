package resdeck

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/resdeck/resdeck/forms"
)

// apiError maps a non-success backend response to the error taxonomy.
// 404 becomes ErrNotFound; everything else is decoded as the backend's
// field-keyed error body.
func apiError(status int, body []byte) error {
	if status == http.StatusNotFound {
		return ErrNotFound
	}
	return fieldErrors(body)
}

// fieldErrors decodes the backend's dynamic error bodies — {"field":
// ["msg", ...]}, {"field": "msg"}, {"detail": "..."}, {"error": "..."} —
// into one structured shape. Bodies that are not JSON objects collapse to a
// single non-field message.
func fieldErrors(body []byte) *forms.ValidationError {
	ve := &forms.ValidationError{}

	var raw map[string]any
	if err := json.Unmarshal(body, &raw); err != nil || len(raw) == 0 {
		ve.Add(forms.NonFieldKey, "Request failed.")
		return ve
	}

	for field, val := range raw {
		// The backend uses two spellings for non-field errors.
		if field == "error" || field == "non_field_errors" {
			field = forms.NonFieldKey
		}
		switch v := val.(type) {
		case string:
			ve.Add(field, v)
		case []any:
			for _, item := range v {
				if s, ok := item.(string); ok {
					ve.Add(field, s)
				} else {
					ve.Add(field, fmt.Sprintf("%v", item))
				}
			}
		default:
			ve.Add(field, fmt.Sprintf("%v", v))
		}
	}
	return ve
}
