package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
)

// LocationList is stored as a jsonb column.
type LocationList []GBPLocation

func (l LocationList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (l *LocationList) Scan(src interface{}) error {
	if src == nil {
		*l = nil
		return nil
	}
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return errors.New("unsupported type for LocationList")
	}
}

// Contains reports whether name matches one of the listed locations.
func (l LocationList) Contains(name string) bool {
	for _, loc := range l {
		if loc.Name == name {
			return true
		}
	}
	return false
}
