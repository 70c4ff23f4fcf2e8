package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/google/uuid"
)

// ID is a restaurant identifier. Historical documents mixed JSON strings and
// JSON numbers for ids, so the original representation is remembered and
// reproduced on write. All comparisons use the decimal string form.
type ID struct {
	value   string
	numeric bool
}

// StringID wraps a plain string identifier.
func StringID(value string) ID {
	return ID{value: value}
}

// NewRestaurantID returns a freshly generated UUIDv4 identifier.
func NewRestaurantID() ID {
	return ID{value: uuid.NewString()}
}

// ParseID converts a decoded store value (string or numeric) into an ID.
func ParseID(value any) ID {
	switch v := value.(type) {
	case nil:
		return ID{}
	case string:
		return ID{value: v}
	case json.Number:
		return ID{value: v.String(), numeric: true}
	case int:
		return ID{value: strconv.FormatInt(int64(v), 10), numeric: true}
	case int32:
		return ID{value: strconv.FormatInt(int64(v), 10), numeric: true}
	case int64:
		return ID{value: strconv.FormatInt(v, 10), numeric: true}
	case float64:
		return ID{value: strconv.FormatFloat(v, 'f', -1, 64), numeric: true}
	default:
		return ID{value: fmt.Sprintf("%v", v)}
	}
}

func (id ID) String() string {
	return id.value
}

func (id ID) IsZero() bool {
	return id.value == ""
}

// Numeric reports whether the id was parsed from a JSON/BSON number.
func (id ID) Numeric() bool {
	return id.numeric
}

func (id ID) MarshalJSON() ([]byte, error) {
	if id.numeric {
		return []byte(id.value), nil
	}
	return json.Marshal(id.value)
}

func (id *ID) UnmarshalJSON(data []byte) error {
	token := bytes.TrimSpace(data)
	if len(token) == 0 || bytes.Equal(token, []byte("null")) {
		*id = ID{}
		return nil
	}
	if token[0] == '"' {
		var value string
		if err := json.Unmarshal(token, &value); err != nil {
			return err
		}
		*id = ID{value: value}
		return nil
	}
	var number json.Number
	if err := json.Unmarshal(token, &number); err != nil {
		return fmt.Errorf("id must be a string or a number")
	}
	*id = ID{value: number.String(), numeric: true}
	return nil
}

// Restaurant is one pickable entry in the catalog document.
type Restaurant struct {
	ID                  ID       `json:"id"`
	Name                string   `json:"name"`
	FoodTypes           []string `json:"foodTypes"`
	ServiceTypes        []string `json:"serviceTypes"`
	Profiles            []string `json:"profiles"`
	DietaryRestrictions []string `json:"dietaryRestrictions,omitempty"`
	OrderMethod         string   `json:"orderMethod,omitempty"`
	MenuLink            string   `json:"menuLink,omitempty"`
	Address             string   `json:"address,omitempty"`
	Phone               string   `json:"phone,omitempty"`
	Notes               string   `json:"notes,omitempty"`
}

func (r Restaurant) normalized() Restaurant {
	if r.Profiles == nil {
		r.Profiles = []string{}
	}
	return r
}
