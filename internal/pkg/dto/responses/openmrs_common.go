package responses

import (
	"bytes"

	"github.com/goccy/go-json"
)

// ListResponse is the envelope OpenMRS wraps every search result in. A body
// without results decodes to an empty list.
type ListResponse[T any] struct {
	Results []T `json:"results"`
}

// ResourceRef is a reference to another OpenMRS resource. Depending on the
// requested view it arrives either as a bare uuid string or as an object, and
// it is always written back as the uuid.
type ResourceRef struct {
	UUID    string `json:"uuid"`
	Display string `json:"display,omitempty"`
	Name    string `json:"name,omitempty"`
}

func (r *ResourceRef) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*r = ResourceRef{}
		return nil
	}
	if trimmed[0] == '"' {
		var uuid string
		if err := json.Unmarshal(trimmed, &uuid); err != nil {
			return err
		}
		*r = ResourceRef{UUID: uuid}
		return nil
	}

	type resourceRef ResourceRef
	var ref resourceRef
	if err := json.Unmarshal(trimmed, &ref); err != nil {
		return err
	}
	*r = ResourceRef(ref)
	return nil
}

func (r ResourceRef) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.UUID)
}

func (r ResourceRef) IsZero() bool {
	return r.UUID == "" && r.Display == "" && r.Name == ""
}

// Label is the human readable name of the reference.
func (r ResourceRef) Label() string {
	if r.Name != "" {
		return r.Name
	}
	return r.Display
}
