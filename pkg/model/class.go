package model

import "fmt"

// SizeClass is the ordinal size scale of a worker. Larger is bigger.
type SizeClass int

const (
	SizeNone      SizeClass = 0
	SizeVeryShort SizeClass = 1
	SizeShort     SizeClass = 2
	SizeMedium    SizeClass = 3
	SizeTall      SizeClass = 4
)

var sizeNames = map[SizeClass]string{
	SizeNone:      "NONE",
	SizeVeryShort: "VERY_SHORT",
	SizeShort:     "SHORT",
	SizeMedium:    "MEDIUM",
	SizeTall:      "TALL",
}

// String returns the persisted enum name (e.g. "VERY_SHORT").
func (s SizeClass) String() string {
	if name, ok := sizeNames[s]; ok {
		return name
	}
	return fmt.Sprintf("SizeClass(%d)", int(s))
}

// ParseSizeClass converts an enum name to a SizeClass.
func ParseSizeClass(name string) (SizeClass, error) {
	for s, n := range sizeNames {
		if n == name {
			return s, nil
		}
	}
	return SizeNone, fmt.Errorf("unknown size class %q", name)
}

// MarshalText implements encoding.TextMarshaler (used by JSON and YAML).
func (s SizeClass) MarshalText() ([]byte, error) {
	name, ok := sizeNames[s]
	if !ok {
		return nil, fmt.Errorf("invalid size class %d", int(s))
	}
	return []byte(name), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *SizeClass) UnmarshalText(text []byte) error {
	v, err := ParseSizeClass(string(text))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// EnduranceClass is the ordinal endurance (stamina) scale of a worker.
type EnduranceClass int

const (
	EnduranceNone   EnduranceClass = 0
	EnduranceLow    EnduranceClass = 1
	EnduranceMedium EnduranceClass = 2
	EnduranceHigh   EnduranceClass = 3
)

var enduranceNames = map[EnduranceClass]string{
	EnduranceNone:   "NONE",
	EnduranceLow:    "LOW",
	EnduranceMedium: "MEDIUM",
	EnduranceHigh:   "HIGH",
}

// String returns the persisted enum name (e.g. "HIGH").
func (e EnduranceClass) String() string {
	if name, ok := enduranceNames[e]; ok {
		return name
	}
	return fmt.Sprintf("EnduranceClass(%d)", int(e))
}

// ParseEnduranceClass converts an enum name to an EnduranceClass.
func ParseEnduranceClass(name string) (EnduranceClass, error) {
	for e, n := range enduranceNames {
		if n == name {
			return e, nil
		}
	}
	return EnduranceNone, fmt.Errorf("unknown endurance class %q", name)
}

// MarshalText implements encoding.TextMarshaler.
func (e EnduranceClass) MarshalText() ([]byte, error) {
	name, ok := enduranceNames[e]
	if !ok {
		return nil, fmt.Errorf("invalid endurance class %d", int(e))
	}
	return []byte(name), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (e *EnduranceClass) UnmarshalText(text []byte) error {
	v, err := ParseEnduranceClass(string(text))
	if err != nil {
		return err
	}
	*e = v
	return nil
}
