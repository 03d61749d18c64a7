package render

import (
	"errors"
	"strings"
	"testing"

	"github.com/scrapsdev/scraps/pkg/space"
)

const colorList = "type ul\n" +
	"loop {{palette}}\n" +
	"scraps\n" +
	" {{key}}\n" +
	"  type li\n" +
	"  content {{value}}\n"

func TestLoopSources(t *testing.T) {
	tests := []struct {
		name string
		ctx  any
		want string
	}{
		{
			name: "slice",
			ctx:  map[string]any{"palette": []string{"red", "green", "blue"}},
			want: `<ul id="colors"><li id="colors-0">red</li><li id="colors-1">green</li><li id="colors-2">blue</li></ul>`,
		},
		{
			name: "any slice",
			ctx:  map[string]any{"palette": []any{"red", 2}},
			want: `<ul id="colors"><li id="colors-0">red</li><li id="colors-1">2</li></ul>`,
		},
		{
			name: "words",
			ctx:  map[string]any{"palette": "red  green\tblue"},
			want: `<ul id="colors"><li id="colors-0">red</li><li id="colors-1">green</li><li id="colors-2">blue</li></ul>`,
		},
		{
			name: "map in key order",
			ctx:  map[string]any{"palette": map[string]any{"b": "blue", "a": "amber"}},
			want: `<ul id="colors"><li id="colors-a">amber</li><li id="colors-b">blue</li></ul>`,
		},
		{
			name: "string map in key order",
			ctx:  map[string]any{"palette": map[string]string{"z": "zinc", "r": "rose"}},
			want: `<ul id="colors"><li id="colors-r">rose</li><li id="colors-z">zinc</li></ul>`,
		},
		{
			name: "space in declaration order",
			ctx:  map[string]any{"palette": space.MustParse("primary red\nsecondary green\n")},
			want: `<ul id="colors"><li id="colors-primary">red</li><li id="colors-secondary">green</li></ul>`,
		},
		{
			name: "missing source renders empty",
			ctx:  map[string]any{},
			want: `<ul id="colors"></ul>`,
		},
		{
			name: "empty slice renders empty",
			ctx:  map[string]any{"palette": []string{}},
			want: `<ul id="colors"></ul>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mustRender(t, mustScrap(t, "colors", colorList), tt.ctx)
			if got != tt.want {
				t.Errorf("got  %s\nwant %s", got, tt.want)
			}
		})
	}
}

func TestLoopInlineDeclarations(t *testing.T) {
	literal := mustScrap(t, "l", "loop one two\nscraps\n {{key}} {{value}}\n")
	if got := mustRender(t, literal, nil); got != `<div id="l"><div id="l-0">one</div><div id="l-1">two</div></div>` {
		t.Errorf("literal words: %s", got)
	}

	inline := mustScrap(t, "fruits",
		"type ul\nloop\n a Apple\n b Banana\nscraps\n item-{{key}}\n  type li\n  content {{value}}\n")
	want := `<ul id="fruits"><li id="fruits-item-a">Apple</li><li id="fruits-item-b">Banana</li></ul>`
	if got := mustRender(t, inline, nil); got != want {
		t.Errorf("inline space:\ngot  %s\nwant %s", got, want)
	}

	placeholder := mustScrap(t, "p", "loop {{items x y}}\nscraps\n {{key}} {{value}}\n")
	if got := mustRender(t, placeholder, map[string]any{}); got != `<div id="p"><div id="p-0">x</div><div id="p-1">y</div></div>` {
		t.Errorf("placeholder source: %s", got)
	}
}

func TestLoopBeatsContent(t *testing.T) {
	s := mustScrap(t, "l", "loop a\ncontent ignored\nscraps\n {{key}} {{value}}\n")
	if got := mustRender(t, s, nil); got != `<div id="l"><div id="l-0">a</div></div>` {
		t.Errorf("got %s", got)
	}
}

func TestLoopLocalShadowsOuter(t *testing.T) {
	s := mustScrap(t, "list", "loop {{items}}\nscraps\n {{key}}\n  content {{value}} of {{title}}\n")
	ctx := map[string]any{
		"value": "outer",
		"title": "Shelf",
		"items": []string{"a", "b"},
	}
	want := `<div id="list"><div id="list-0">a of Shelf</div><div id="list-1">b of Shelf</div></div>`
	if got := mustRender(t, s, ctx); got != want {
		t.Errorf("got  %s\nwant %s", got, want)
	}
}

func TestLoopCompositeValues(t *testing.T) {
	s := mustScrap(t, "people",
		"loop {{people}}\nscraps\n {{key}}\n  content {{value.name}} ({{value.role guest}})\n")
	ctx := map[string]any{
		"people": []any{
			map[string]any{"name": "Ada", "role": "admin"},
			map[string]any{"name": "Bob"},
		},
	}
	want := `<div id="people"><div id="people-0">Ada (admin)</div><div id="people-1">Bob (guest)</div></div>`
	if got := mustRender(t, s, ctx); got != want {
		t.Errorf("got  %s\nwant %s", got, want)
	}
}

func TestNestedLoops(t *testing.T) {
	s := mustScrap(t, "menu", "loop {{groups}}\n"+
		"scraps\n"+
		" {{key}}\n"+
		"  type ul\n"+
		"  loop {{value}}\n"+
		"  scraps\n"+
		"   item\n"+
		"    type li\n"+
		"    content {{value}}\n")
	ctx := map[string]any{
		"groups": map[string]any{
			"fruit": []string{"apple", "pear"},
			"veg":   []string{"kale"},
		},
	}

	got := mustRender(t, s, ctx)
	want := `<div id="menu">` +
		`<ul id="menu-fruit"><li id="menu-fruit-0-item">apple</li><li id="menu-fruit-1-item">pear</li></ul>` +
		`<ul id="menu-veg"><li id="menu-veg-0-item">kale</li></ul>` +
		`</div>`
	if got != want {
		t.Errorf("got  %s\nwant %s", got, want)
	}
}

func TestLoopExpansionErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		ctx  map[string]any
	}{
		{
			name: "value with spaces used as key",
			src:  "loop {{cities}}\nscraps\n {{value}}\n  content x\n",
			ctx:  map[string]any{"cities": []string{"Lisbon", "New York"}},
		},
		{
			name: "value with spaces used as a leaf key",
			src:  "loop {{shades}}\nscraps\n {{value}}\n",
			ctx:  map[string]any{"shades": []string{"light blue"}},
		},
		{
			name: "value with spaces inside a nested key",
			src:  "loop {{shades}}\nscraps\n {{key}}\n  style\n   {{value}} x\n",
			ctx:  map[string]any{"shades": []string{"a b"}},
		},
		{
			name: "multi-line value",
			src:  "loop {{notes}}\nscraps\n {{key}}\n  content {{value}}\n",
			ctx:  map[string]any{"notes": []string{"one\ntwo"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := mustScrap(t, "loop", tt.src).Render(tt.ctx)
			if err == nil {
				t.Fatal("expected an error")
			}
			if !errors.Is(err, ErrTemplateExpansion) {
				t.Errorf("error %v does not match ErrTemplateExpansion", err)
			}
			var expErr *TemplateExpansionError
			if !errors.As(err, &expErr) {
				t.Fatalf("error %T is not a *TemplateExpansionError", err)
			}
			if strings.Join(expErr.Path, "-") != "loop" {
				t.Errorf("path = %v", expErr.Path)
			}
			if expErr.Key == "" {
				t.Error("error does not name the loop item")
			}
		})
	}
}

func TestLoopErrorPropagatesFromChild(t *testing.T) {
	s := mustScrap(t, "outer", "scraps\n inner\n  loop {{xs}}\n  scraps\n   {{value}}\n    content x\n")
	_, err := s.Render(map[string]any{"xs": []string{"a b"}})
	var expErr *TemplateExpansionError
	if !errors.As(err, &expErr) {
		t.Fatalf("got %v, want a TemplateExpansionError", err)
	}
	if got := strings.Join(expErr.Path, "-"); got != "outer-inner" {
		t.Errorf("path = %s", got)
	}
}

func TestLoopIDsAreUnique(t *testing.T) {
	s := mustScrap(t, "list", "type ul\nloop red green blue\nscraps\n item\n  type li\n  content {{value}}\n")
	got := mustRender(t, s, nil)
	want := `<ul id="list">` +
		`<li id="list-0-item">red</li><li id="list-1-item">green</li><li id="list-2-item">blue</li>` +
		`</ul>`
	if got != want {
		t.Errorf("got  %s\nwant %s", got, want)
	}

	seen := make(map[string]bool)
	for _, part := range strings.Split(got, `id="`)[1:] {
		id := part[:strings.IndexByte(part, '"')]
		if seen[id] {
			t.Errorf("duplicate id %q", id)
		}
		seen[id] = true
	}
}

func TestMoldKeyed(t *testing.T) {
	tests := []struct {
		mold string
		want bool
	}{
		{"item\n content x\n", false},
		{"{{key}}\n content x\n", true},
		{"row-{{value.id}}\n content x\n", true},
		{"{{site}}\n content x\n", false},
		{"item\n content {{key}}\n", false},
	}
	for _, tt := range tests {
		if got := moldKeyed(space.MustParse(tt.mold)); got != tt.want {
			t.Errorf("moldKeyed(%q) = %v, want %v", tt.mold, got, tt.want)
		}
	}
}

func TestFillMoldTextBlock(t *testing.T) {
	scope := Layers{map[string]any{"key": "k", "value": "two words"}}
	got, err := fillMold("{{key}}\n content \n  {{value}} here\n  and {{value}}\n title {{value}}\n", scope)
	if err != nil {
		t.Fatal(err)
	}
	want := "k\n content \n  two words here\n  and two words\n title two words\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestFillMold(t *testing.T) {
	scope := Layers{
		map[string]any{"key": "k", "value": map[string]any{"n": "1"}},
		map[string]any{"site": "S"},
	}
	got, err := fillMold("{{key}}\n content {{value.n}} {{value}} {{site}} {{other}}\n", scope)
	if err != nil {
		t.Fatal(err)
	}
	want := "k\n content 1 {{value}} S {{other}}\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}
