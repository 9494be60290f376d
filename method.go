package hapt

import (
	"fmt"
	"strings"
)

// Method selects how an [Orderer] computes a cell ordering. Methods are
// only changed by the caller.
type Method uint8

const (
	// MethodNone keeps cells in mesh order.
	MethodNone Method = iota
	// MethodCentroid sorts cells by centroid depth on the CPU.
	MethodCentroid
	// MethodBitonic delegates to a bitonic key sort service.
	MethodBitonic
	// MethodQuick delegates to a quicksort key sort service.
	MethodQuick
	// MethodMPVO runs the Meshed Polyhedra Visibility Ordering.
	MethodMPVO
	numMethods
)

var methodNames = [numMethods]string{
	MethodNone:     "none",
	MethodCentroid: "centroid",
	MethodBitonic:  "bitonic",
	MethodQuick:    "quick",
	MethodMPVO:     "mpvo",
}

func (m Method) String() string {
	if m < numMethods {
		return methodNames[m]
	}
	return fmt.Sprintf("Method(%d)", uint8(m))
}

// Methods returns all valid methods.
func Methods() []Method {
	return []Method{MethodNone, MethodCentroid, MethodBitonic, MethodQuick, MethodMPVO}
}

// ParseMethod returns the method named s, ignoring case.
func ParseMethod(s string) (Method, error) {
	for m, name := range methodNames {
		if strings.EqualFold(s, name) {
			return Method(m), nil
		}
	}
	return 0, fmt.Errorf("hapt: unknown sort method %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (m Method) MarshalText() ([]byte, error) {
	if m >= numMethods {
		return nil, fmt.Errorf("hapt: invalid method %d", uint8(m))
	}
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Method) UnmarshalText(b []byte) error {
	parsed, err := ParseMethod(string(b))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

func (m Method) usesKeySorter() bool { return m == MethodBitonic || m == MethodQuick }
