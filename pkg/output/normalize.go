package output

import (
	"fmt"
	"reflect"
	"strings"
)

// SequenceSeparator joins the normalized elements of a Sequence.
const SequenceSeparator = "\n\n"

// Classify maps an arbitrary value onto a Result variant.
func Classify(v any) Result {
	switch x := v.(type) {
	case nil:
		return Opaque{}
	case Result:
		return x
	case Attributes:
		return classifyAttributes(x)
	case map[string]any:
		return classifyAttributes(Attributes(x))
	case []Result:
		return Sequence(x)
	case []any:
		seq := make(Sequence, len(x))
		for i, item := range x {
			seq[i] = Classify(item)
		}
		return seq
	case []string:
		seq := make(Sequence, len(x))
		for i, item := range x {
			seq[i] = Opaque{Value: item}
		}
		return seq
	default:
		return classifyList(v)
	}
}

// classifyList treats any other slice or array as a Sequence. Byte slices
// stay opaque.
func classifyList(v any) Result {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return Opaque{Value: v}
		}
		seq := make(Sequence, rv.Len())
		for i := range seq {
			seq[i] = Classify(rv.Index(i).Interface())
		}
		return seq
	}
	return Opaque{Value: v}
}

func classifyAttributes(attrs Attributes) Result {
	if text, ok := attrs[RawField].(string); ok {
		return RawText{Text: text}
	}
	for _, name := range AlternateFields {
		if text, ok := attrs[name].(string); ok {
			return NamedField{Name: name, Text: text}
		}
	}
	return Opaque{Value: map[string]any(attrs)}
}

// Text flattens a Result into a single string. It never fails.
func Text(r Result) string {
	switch x := r.(type) {
	case nil:
		return ""
	case RawText:
		return x.Text
	case NamedField:
		return x.Text
	case Sequence:
		parts := make([]string, len(x))
		for i, item := range x {
			parts[i] = Text(item)
		}
		return strings.Join(parts, SequenceSeparator)
	case Opaque:
		if x.Value == nil {
			return ""
		}
		return fmt.Sprint(x.Value)
	}
	return ""
}

// Normalize converts any task result value into plain text.
func Normalize(v any) string {
	return Text(Classify(v))
}
