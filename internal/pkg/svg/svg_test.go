package svg

import (
	"encoding/xml"
	"testing"
)

func TestMarshal(t *testing.T) {
	el := New("g", "id", "layer")
	el.Children = []Element{
		New("text", "x", "10").WithText("R<2"),
		New("line", "x1", "0"),
	}
	out, err := xml.Marshal(el)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	want := `<g id="layer"><text x="10">R&lt;2</text><line x1="0"></line></g>`
	if string(out) != want {
		t.Fatalf("Marshal() = %s, want %s", out, want)
	}
}

func TestNum(t *testing.T) {
	cases := map[float64]string{100: "100", -75: "-75", 0.5: "0.5", -33.333333333333336: "-33.333333333333336"}
	for in, want := range cases {
		if got := Num(in); got != want {
			t.Fatalf("Num(%v) = %q, want %q", in, got, want)
		}
	}
}

func TestGroup(t *testing.T) {
	g := NewGroup("pts")
	g.Append(New("circle"))
	g.Append(New("circle"))
	if len(g.Elements()) != 2 {
		t.Fatalf("Elements() = %d", len(g.Elements()))
	}
	if v, _ := g.Element().Attr("id"); v != "pts" {
		t.Fatalf("group id = %q", v)
	}
	g.Clear()
	if len(g.Elements()) != 0 {
		t.Fatal("Clear() left children")
	}
	if _, ok := New("a", "href").Attr("href"); ok {
		t.Fatal("dangling attribute name must be ignored")
	}
}
