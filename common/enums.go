// The only reason this package exists is because enums are needed both by
// configuration and by the scheduling core, and core packages must not depend
// on configuration. So enums live in a package of their own.
package common

//go:generate go tool go-enum --marshal --nocase --names --values --mustparse

// Padding policy applied when formatted text is shorter than the flap board.
// ENUM(extend, center, carry)
type Policy int

// Handling of input characters which cannot be mapped to the alphabet when
// the alphabet has no space to substitute them with.
// ENUM(reject, drop)
type UnmappedMode int

// Neighbour of a timeline entry to check feasibility against.
// ENUM(previous, next)
type Direction int

// Serialization of keyframe plans.
// ENUM(yaml, jsonl)
type PlanFormat int

func (p PlanFormat) Ext() string {
	switch p {
	case PlanFormatYaml:
		return ".yaml"
	case PlanFormatJsonl:
		return ".jsonl"
	default:
		// this should never happen
		panic("unsupported plan format requested")
	}
}
