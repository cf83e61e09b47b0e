package task

import (
	"reflect"
	"strings"
	"testing"
)

func sampleDocument() *Document {
	d := NewDocument()
	d.All = []*Task{
		{ID: 1, Text: "water plants", Desc: "balcony"},
		{ID: 2, Text: "call mom", Completed: true},
	}
	work := d.AddSection("Work")
	work.Tasks = []*Task{{ID: 3, Text: "Ship spec"}}
	d.AddSection("Home")
	d.AddSection("Alpha")
	return d
}

func TestDocumentRoundTrip(t *testing.T) {
	want := sampleDocument()
	data, err := Encode(want)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	got, err := Decode(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !reflect.DeepEqual(want, got) {
		t.Fatalf("round trip mismatch:\nwant %#v\ngot  %#v", want, got)
	}
	if names := got.SectionNames(); !reflect.DeepEqual(names, []string{"Work", "Home", "Alpha"}) {
		t.Fatalf("section order not preserved: %v", names)
	}
}

func TestEncodeEmptyDocument(t *testing.T) {
	data, err := Encode(nil)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if string(data) != `{"all":[],"sections":{}}` {
		t.Fatalf("unexpected empty document %s", data)
	}
}

func TestDecodeWireFormat(t *testing.T) {
	raw := `{"all":[{"id":1700000000000,"text":"a","completed":true,"desc":"d"}],"sections":{"Work":[{"id":5,"text":"b","completed":false,"desc":""}]}}`
	d, err := Decode([]byte(raw))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(d.All) != 1 || d.All[0].ID != 1700000000000 || !d.All[0].Completed || d.All[0].Desc != "d" {
		t.Fatalf("unexpected all collection %#v", d.All)
	}
	work, ok := d.Collection("Work")
	if !ok || len(work) != 1 || work[0].Text != "b" {
		t.Fatalf("unexpected Work collection %#v", work)
	}
}

func TestDecodeDefaults(t *testing.T) {
	for _, raw := range []string{"", "   ", "{}", `{"all":null}`, `{"sections":null}`} {
		d, err := Decode([]byte(raw))
		if err != nil {
			t.Fatalf("%q: unexpected error %v", raw, err)
		}
		if d.All == nil || len(d.All) != 0 || len(d.Sections) != 0 {
			t.Fatalf("%q: expected empty document, got %#v", raw, d)
		}
	}
}

func TestDecodeMissingDescription(t *testing.T) {
	d, err := Decode([]byte(`{"all":[{"id":1,"text":"a"}]}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if d.All[0].Desc != "" || d.All[0].Completed {
		t.Fatalf("expected defaults, got %#v", d.All[0])
	}
}

func TestDecodeMalformed(t *testing.T) {
	for _, raw := range []string{
		"{not json",
		"[]",
		`"all"`,
		`{"all":{}}`,
		`{"all":[{"text":"no id"}]}`,
		`{"all":[{"id":"1","text":"a"}]}`,
		`{"sections":[]}`,
		`{"sections":{"Work":[{"id":1,"text":3}]}}`,
		`{"sections":{"All":[]}}`,
		`{"sections":{"ALL":[{"id":1,"text":"a"}]}}`,
		`{"sections":{"":[]}}`,
	} {
		if _, err := Decode([]byte(raw)); err == nil {
			t.Fatalf("%q: expected error", raw)
		}
	}
}

func TestDocumentSections(t *testing.T) {
	d := sampleDocument()
	if !d.HasSection("Work") || d.HasSection("work") {
		t.Fatalf("section lookup should be case-sensitive")
	}
	if !d.RemoveSection("Home") {
		t.Fatalf("expected Home removed")
	}
	if d.RemoveSection("Home") {
		t.Fatalf("Home removed twice")
	}
	if _, ok := d.Collection("Home"); ok {
		t.Fatalf("Home should be gone")
	}
	if d.SetCollection("Home", nil) {
		t.Fatalf("set on missing section should fail")
	}
	if d.MaxID() != 3 {
		t.Fatalf("expected max id 3, got %d", d.MaxID())
	}
}

func TestDocumentCloneIsDeep(t *testing.T) {
	d := sampleDocument()
	cp := d.Clone()
	cp.All[0].Text = "changed"
	cp.Sections[0].Tasks = append(cp.Sections[0].Tasks, &Task{ID: 9, Text: "x"})
	if d.All[0].Text == "changed" || len(d.Sections[0].Tasks) != 1 {
		t.Fatalf("clone shares state with original")
	}
}

func TestMarshalEscapesSectionNames(t *testing.T) {
	d := NewDocument()
	d.AddSection(`a "quoted" name`)
	data, err := Encode(d)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if !strings.Contains(string(data), `"a \"quoted\" name":[]`) {
		t.Fatalf("section name not escaped: %s", data)
	}
	back, err := Decode(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !back.HasSection(`a "quoted" name`) {
		t.Fatalf("section lost in round trip")
	}
}
