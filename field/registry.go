package field

import "fmt"

// Invalidate identifies derived state that must be discarded when a field
// changes.
type Invalidate uint8

const (
	// InvalidateNone leaves derived state untouched.
	InvalidateNone Invalidate = iota
	// InvalidateSerial discards the serial-number reverse lookup.
	InvalidateSerial
	// InvalidateSpatial discards the cached spatial index of the active
	// coordinate set.
	InvalidateSpatial
)

// Descriptor describes one registered attribute field.
type Descriptor struct {
	// Name is the public field name used in data access calls.
	Name string
	// Key is the storage key in the column map. It equals Name for all
	// built-in fields but is kept distinct so derived fields can alias.
	Key string
	// Kind is the declared element kind.
	Kind Kind
	// Dims is 1 for flat columns and 2 for fixed-width row columns.
	Dims int
	// ReadOnly marks derived fields that reject direct assignment.
	ReadOnly bool
	// Invalidates names the derived cache cleared by a successful set.
	Invalidates Invalidate
}

// builtin is the static registry of known attribute fields.
var builtin = []Descriptor{
	{Name: "names", Key: "names", Kind: KindString, Dims: 1},
	{Name: "serials", Key: "serials", Kind: KindInt, Dims: 1, Invalidates: InvalidateSerial},
	{Name: "resnums", Key: "resnums", Kind: KindInt, Dims: 1},
	{Name: "resnames", Key: "resnames", Kind: KindString, Dims: 1},
	{Name: "chids", Key: "chids", Kind: KindString, Dims: 1},
	{Name: "segnames", Key: "segnames", Kind: KindString, Dims: 1},
	{Name: "elements", Key: "elements", Kind: KindString, Dims: 1},
	{Name: "altlocs", Key: "altlocs", Kind: KindString, Dims: 1},
	{Name: "icodes", Key: "icodes", Kind: KindString, Dims: 1},
	{Name: "secstrs", Key: "secstrs", Kind: KindString, Dims: 1},
	{Name: "charges", Key: "charges", Kind: KindFloat, Dims: 1},
	{Name: "masses", Key: "masses", Kind: KindFloat, Dims: 1},
	{Name: "radii", Key: "radii", Kind: KindFloat, Dims: 1},
	{Name: "betas", Key: "betas", Kind: KindFloat, Dims: 1},
	{Name: "occupancies", Key: "occupancies", Kind: KindFloat, Dims: 1},
	{Name: "hetero", Key: "hetero", Kind: KindBool, Dims: 1},
	{Name: "numbonds", Key: "numbonds", Kind: KindInt, Dims: 1, ReadOnly: true},
}

var byName = func() map[string]Descriptor {
	m := make(map[string]Descriptor, len(builtin))
	for _, d := range builtin {
		m[d.Name] = d
	}
	return m
}()

// Lookup returns the descriptor registered under name.
func Lookup(name string) (Descriptor, bool) {
	d, ok := byName[name]
	return d, ok
}

// Builtin returns the registered field descriptors.
func Builtin() []Descriptor {
	out := make([]Descriptor, len(builtin))
	copy(out, builtin)
	return out
}

// LabelError reports why a custom field label was rejected.
type LabelError struct {
	Label  string
	Reason string
}

func (e *LabelError) Error() string {
	return fmt.Sprintf("invalid label %q: %s", e.Label, e.Reason)
}

// ValidateLabel checks a custom field label against the attachment rules:
// it must start with a letter, contain only alphanumerics and underscore,
// not name a read-only built-in field, and not be reserved per the supplied
// check. A nil reserved check skips the reservation rule.
func ValidateLabel(label string, reserved func(string) bool) error {
	if label == "" {
		return &LabelError{Label: label, Reason: "label cannot be empty"}
	}
	first := label[0]
	if !isAlpha(first) {
		return &LabelError{Label: label, Reason: "label must start with a letter"}
	}
	for i := 1; i < len(label); i++ {
		c := label[i]
		if !isAlpha(c) && !isDigit(c) && c != '_' {
			return &LabelError{Label: label, Reason: "label may contain only alphanumeric characters and underscore"}
		}
	}
	if d, ok := byName[label]; ok && d.ReadOnly {
		return &LabelError{Label: label, Reason: "label names a read-only field"}
	}
	if reserved != nil && reserved(label) {
		return &LabelError{Label: label, Reason: "label is a reserved word"}
	}
	return nil
}

func isAlpha(c byte) bool { return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') }

func isDigit(c byte) bool { return c >= '0' && c <= '9' }
