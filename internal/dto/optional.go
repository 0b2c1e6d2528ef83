package dto

import "encoding/json"

// OptionalString различает отсутствующий ключ, null и строку.
// UnmarshalJSON вызывается только для присутствующего ключа.
type OptionalString struct {
	Set   bool
	Value *string
}

func (o *OptionalString) UnmarshalJSON(data []byte) error {
	o.Set = true
	if string(data) == "null" {
		o.Value = nil
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	o.Value = &s
	return nil
}
