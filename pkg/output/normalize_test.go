package output

import "testing"

func TestNormalizePrefersRaw(t *testing.T) {
	attrs := Attributes{
		"raw":          "raw text",
		"output":       "output text",
		"final_output": "final",
		"text":         "text",
		"content":      "content",
	}
	if got := Normalize(attrs); got != "raw text" {
		t.Fatalf("expected raw text, got %q", got)
	}
}

func TestNormalizeAlternateFieldOrder(t *testing.T) {
	cases := []struct {
		name  string
		attrs Attributes
		want  string
	}{
		{"output first", Attributes{"content": "c", "text": "t", "output": "o"}, "o"},
		{"final_output before text", Attributes{"content": "c", "text": "t", "final_output": "f"}, "f"},
		{"text before content", Attributes{"content": "c", "text": "t"}, "t"},
		{"content last", Attributes{"content": "c"}, "c"},
		{"non-string raw ignored", Attributes{"raw": 42, "text": "t"}, "t"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Normalize(tc.attrs); got != tc.want {
				t.Fatalf("got %q want %q", got, tc.want)
			}
		})
	}
}

func TestClassifyReportsFieldName(t *testing.T) {
	res := Classify(map[string]any{"final_output": "done"})
	field, ok := res.(NamedField)
	if !ok {
		t.Fatalf("expected NamedField, got %T", res)
	}
	if field.Name != "final_output" || field.Text != "done" {
		t.Fatalf("unexpected field: %+v", field)
	}
}

func TestNormalizeSequence(t *testing.T) {
	items := []any{
		Attributes{"raw": "first"},
		"second",
		Attributes{"content": "third"},
	}
	want := Normalize(items[0]) + "\n\n" + Normalize(items[1]) + "\n\n" + Normalize(items[2])
	if got := Normalize(items); got != want {
		t.Fatalf("got %q want %q", got, want)
	}
	if want != "first\n\nsecond\n\nthird" {
		t.Fatalf("unexpected element normalization: %q", want)
	}
}

func TestNormalizeNestedSequence(t *testing.T) {
	seq := Sequence{RawText{Text: "a"}, Sequence{RawText{Text: "b"}, Opaque{Value: 3}}}
	if got := Normalize(seq); got != "a\n\nb\n\n3" {
		t.Fatalf("got %q", got)
	}
}

func TestNormalizeFallbacks(t *testing.T) {
	if got := Normalize(nil); got != "" {
		t.Fatalf("nil should normalize to empty, got %q", got)
	}
	if got := Normalize(12.5); got != "12.5" {
		t.Fatalf("got %q", got)
	}
	if got := Normalize("plain"); got != "plain" {
		t.Fatalf("got %q", got)
	}
	if got := Normalize(Attributes{"score": 3}); got != "map[score:3]" {
		t.Fatalf("got %q", got)
	}
}

func TestTextNilResult(t *testing.T) {
	if got := Text(nil); got != "" {
		t.Fatalf("got %q", got)
	}
}

func TestNormalizeTypedSlices(t *testing.T) {
	cases := []struct {
		name  string
		value any
	}{
		{"attributes", []Attributes{{"raw": "first"}, {"output": "second"}}},
		{"maps", []map[string]any{{"text": "first"}, {"content": "second"}}},
		{"raw text", []RawText{{Text: "first"}, {Text: "second"}}},
		{"named fields", []NamedField{{Name: "text", Text: "first"}, {Name: "output", Text: "second"}}},
		{"array", [2]string{"first", "second"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Normalize(tc.value); got != "first\n\nsecond" {
				t.Fatalf("Normalize(%T) = %q", tc.value, got)
			}
		})
	}
}

func TestNormalizeByteSliceStaysOpaque(t *testing.T) {
	if got := Normalize([]byte("hi")); got != "[104 105]" {
		t.Fatalf("unexpected byte slice rendering %q", got)
	}
}
