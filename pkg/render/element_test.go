package render

import "testing"

func TestElementHTML(t *testing.T) {
	el := NewElement("a", map[string]string{"href": "/x", "class": "btn"})
	el.Attr("id", "link")
	el.Append("Go")
	el.Append(" <b>now</b>")

	want := `<a class="btn" href="/x" id="link">Go <b>now</b></a>`
	if got := el.HTML(); got != want {
		t.Errorf("got %s, want %s", got, want)
	}
	if el.Tag() != "a" || el.Content() != "Go <b>now</b>" {
		t.Errorf("tag %q content %q", el.Tag(), el.Content())
	}
}

func TestElementNeverSelfCloses(t *testing.T) {
	tests := []struct {
		tag  string
		want string
	}{
		{"input", "<input></input>"},
		{"img", "<img></img>"},
		{"div", "<div></div>"},
	}
	for _, tt := range tests {
		if got := NewElement(tt.tag, nil).HTML(); got != tt.want {
			t.Errorf("%s: got %s, want %s", tt.tag, got, tt.want)
		}
	}
}

func TestElementAttrs(t *testing.T) {
	el := NewElement("div", nil)
	el.Attr("title", "one")
	el.Attr("title", "two")
	if v, ok := el.GetAttr("title"); !ok || v != "two" {
		t.Errorf("title = %q, %v", v, ok)
	}
	if _, ok := el.GetAttr("missing"); ok {
		t.Error("missing attribute reported present")
	}

	el.AddClass("a")
	el.AddClass("b")
	if v, _ := el.GetAttr("class"); v != "a b" {
		t.Errorf("class = %q", v)
	}
}

func TestElementCopiesInitialAttrs(t *testing.T) {
	attrs := map[string]string{"id": "x"}
	el := NewElement("p", attrs)
	attrs["id"] = "y"
	if v, _ := el.GetAttr("id"); v != "x" {
		t.Errorf("id = %q, want x", v)
	}
}

func TestAttributeLists(t *testing.T) {
	std := StandardAttributes()
	std[0] = "mutated"
	if StandardAttributes()[0] == "mutated" {
		t.Error("StandardAttributes exposes the internal slice")
	}

	found := false
	for _, name := range EventAttributes() {
		if name == "onclick" {
			found = true
		}
	}
	if !found {
		t.Error("onclick missing from event attributes")
	}
}

func TestFormat(t *testing.T) {
	tests := []struct {
		format string
		in     string
		want   string
	}{
		{"", "a\nb", "a\nb"},
		{"text", "<i>x</i>", "<i>x</i>"},
		{"html", "<i>x</i>", "<i>x</i>"},
		{"nl2br", "a\nb\nc", "a<br>b<br>c"},
		{"unknown", "a\nb", "a\nb"},
		{"markdown", "**bold**", "<p><strong>bold</strong></p>\n"},
		{"markdown", "<span>raw</span>", "<p><span>raw</span></p>\n"},
	}
	for _, tt := range tests {
		if got := Format(tt.in, tt.format); got != tt.want {
			t.Errorf("Format(%q, %q) = %q, want %q", tt.in, tt.format, got, tt.want)
		}
	}
}
