package model

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// OptInt is a non-negative integer that may be unset. Unset renders blank
// and scores as zero; it is distinct from an explicit 0.
type OptInt struct {
	N   int
	Set bool
}

// NewOptInt returns a set value, clamping negatives to zero.
func NewOptInt(n int) OptInt {
	if n < 0 {
		n = 0
	}
	return OptInt{N: n, Set: true}
}

// Unset is the blank value.
var Unset = OptInt{}

// Value coerces to an int for scoring: unset and negative both become 0.
func (o OptInt) Value() int {
	if !o.Set || o.N < 0 {
		return 0
	}
	return o.N
}

func (o OptInt) String() string {
	if !o.Set {
		return ""
	}
	return strconv.Itoa(o.N)
}

// ParseOptInt reads user input. Blank is unset; non-numeric input is
// rejected; negatives clamp to zero.
func ParseOptInt(s string) (OptInt, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Unset, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return Unset, fmt.Errorf("not a whole number: %q", s)
	}
	return NewOptInt(n), nil
}

func (o *OptInt) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: expected a number", value.Line)
	}
	if value.Tag == "!!null" {
		*o = Unset
		return nil
	}
	v, err := ParseOptInt(value.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", value.Line, err)
	}
	*o = v
	return nil
}

func (o OptInt) MarshalYAML() (interface{}, error) {
	if !o.Set {
		return "", nil
	}
	return o.N, nil
}

func (o OptInt) MarshalJSON() ([]byte, error) {
	if !o.Set {
		return []byte("null"), nil
	}
	return []byte(strconv.Itoa(o.N)), nil
}

func (o *OptInt) UnmarshalJSON(b []byte) error {
	s := string(b)
	if s == "null" {
		*o = Unset
		return nil
	}
	if strings.HasPrefix(s, `"`) {
		var str string
		if err := json.Unmarshal(b, &str); err != nil {
			return err
		}
		v, err := ParseOptInt(str)
		if err != nil {
			return err
		}
		*o = v
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("not a whole number: %s", s)
	}
	*o = NewOptInt(n)
	return nil
}
