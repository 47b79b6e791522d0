package output

// Result is a task result in one of a closed set of shapes. Use Classify to
// turn an arbitrary value into a Result and Text to flatten it.
type Result interface {
	result()
}

// RawText is a result that carries its designated raw text.
type RawText struct {
	Text string
}

// NamedField is a result whose text lives under one of the alternate field names.
type NamedField struct {
	Name string
	Text string
}

// Sequence is an ordered list of results.
type Sequence []Result

// Opaque is any other value. It is rendered with its default string form.
type Opaque struct {
	Value any
}

func (RawText) result()    {}
func (NamedField) result() {}
func (Sequence) result()   {}
func (Opaque) result()     {}

// RawField is the attribute name holding the designated raw text.
const RawField = "raw"

// AlternateFields lists the text attributes consulted after RawField, in priority order.
var AlternateFields = []string{"output", "final_output", "text", "content"}

// Attributes is a loosely typed result object, such as a decoded JSON task output.
type Attributes map[string]any
