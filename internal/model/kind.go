package model

import (
	"fmt"
	"strings"
)

// Kind is the closed set of element categories the core distinguishes.
type Kind int

const (
	KindOther Kind = iota
	KindWall
	KindLevel
	KindGroup
	KindGroupType
)

// String returns the lowercase name used in model files and messages.
func (k Kind) String() string {
	switch k {
	case KindOther:
		return "other"
	case KindWall:
		return "wall"
	case KindLevel:
		return "level"
	case KindGroup:
		return "group"
	case KindGroupType:
		return "group type"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Kinds returns every valid Kind in declaration order.
func Kinds() []Kind {
	return []Kind{KindOther, KindWall, KindLevel, KindGroup, KindGroupType}
}

// ParseKind converts a name produced by String back to a Kind.
func ParseKind(s string) (Kind, error) {
	norm := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "_", " ")
	for _, k := range Kinds() {
		if k.String() == norm {
			return k, nil
		}
	}
	return KindOther, fmt.Errorf("unknown element kind %q", s)
}
