package render

import (
	"errors"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/scrapsdev/scraps/pkg/space"
)

const homePage = "header\n" +
	" type h1\n" +
	" content Hello {{name Guest}}\n" +
	"secret\n" +
	" draft true\n" +
	" content hidden\n" +
	"box\n" +
	" style\n" +
	"  color {{accent red}}\n" +
	"  margin 0\n" +
	" scraps\n" +
	"  inner\n" +
	"   style\n" +
	"    padding 1em\n" +
	"footer\n" +
	" content bye\n"

func TestPageRender(t *testing.T) {
	page := NewPage(space.MustParse(homePage))

	got, err := page.Render(nil)
	if err != nil {
		t.Fatal(err)
	}
	want := "<!doctype html>\n" +
		"<h1 id=\"header\">Hello Guest</h1>\n" +
		"<div id=\"box\" style=\"color: red; margin: 0;\"><div id=\"box-inner\" style=\"padding: 1em;\"></div></div>\n" +
		"<div id=\"footer\">bye</div>\n"
	if got != want {
		t.Errorf("got\n%s\nwant\n%s", got, want)
	}
}

func TestPageDraftPosition(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{
			name: "first",
			src:  "draft\n draft true\n content no\na\n content A\nb\n content B\n",
			want: Doctype + "<div id=\"a\">A</div>\n<div id=\"b\">B</div>\n",
		},
		{
			name: "middle",
			src:  "a\n content A\ndraft\n draft true\n content no\nb\n content B\n",
			want: Doctype + "<div id=\"a\">A</div>\n<div id=\"b\">B</div>\n",
		},
		{
			name: "last",
			src:  "a\n content A\nb\n content B\ndraft\n draft true\n content no\n",
			want: Doctype + "<div id=\"a\">A</div>\n<div id=\"b\">B</div>\n",
		},
		{
			name: "only",
			src:  "draft\n draft true\n content no\n",
			want: Doctype,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewPage(space.MustParse(tt.src)).Render(nil)
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPageEmpty(t *testing.T) {
	got, err := NewPage(space.New()).Render(nil)
	if err != nil {
		t.Fatal(err)
	}
	if got != Doctype {
		t.Errorf("got %q, want just the doctype", got)
	}

	got, err = NewPage(nil).Render(nil)
	if err != nil || got != Doctype {
		t.Errorf("nil page: %q, %v", got, err)
	}
}

func TestPageDeterministic(t *testing.T) {
	page := NewPage(space.MustParse(homePage))
	ctx := map[string]any{"name": "Ada", "accent": "blue"}

	first, err := page.Render(ctx)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 5; i++ {
		again, err := page.Render(ctx)
		if err != nil {
			t.Fatal(err)
		}
		if again != first {
			t.Fatalf("render %d differs:\n%s\n%s", i, again, first)
		}
	}
}

func TestPageConcurrentRender(t *testing.T) {
	page := NewPage(space.MustParse(homePage + "list\n loop {{xs}}\n scraps\n  {{key}} {{value}}\n"))
	ctx := map[string]any{"xs": []string{"a", "b", "c"}}
	want, err := page.Render(ctx)
	if err != nil {
		t.Fatal(err)
	}

	var wg sync.WaitGroup
	errs := make(chan string, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := page.Render(ctx)
			if err != nil || got != want {
				errs <- got
			}
		}()
	}
	wg.Wait()
	close(errs)
	for got := range errs {
		t.Errorf("concurrent render diverged: %s", got)
	}
}

func TestPageRoundTrip(t *testing.T) {
	page := NewPage(space.MustParse(homePage))
	reparsed, err := space.Parse(page.Values().String())
	if err != nil {
		t.Fatal(err)
	}
	again := NewPage(reparsed)

	a, _ := page.Render(map[string]any{"name": "X"})
	b, _ := again.Render(map[string]any{"name": "X"})
	if a != b {
		t.Errorf("round trip changed output:\n%s\n%s", a, b)
	}
}

func TestPageAccessors(t *testing.T) {
	values := space.MustParse(homePage)
	page := NewPage(values)

	if n := len(page.Scraps()); n != 4 {
		t.Errorf("scraps = %d, want 4 including the draft", n)
	}
	if page.Scrap("secret") == nil || !page.Scrap("secret").IsDraft() {
		t.Error("secret should be a draft root")
	}
	if page.Scrap("nope") != nil {
		t.Error("unknown root should be nil")
	}

	values.Delete("footer")
	if page.Scrap("footer") == nil {
		t.Error("page should not see changes to its source")
	}

	clone := page.Clone()
	if !clone.Values().Equal(page.Values()) {
		t.Error("clone declarations differ")
	}
	if clone.Scrap("box") == page.Scrap("box") {
		t.Error("clone shares scraps with the original")
	}
}

func TestPageRenderError(t *testing.T) {
	page := NewPage(space.MustParse("list\n loop {{xs}}\n scraps\n  {{value}}\n   content x\n"))
	_, err := page.Render(map[string]any{"xs": []string{"two words"}})
	if !errors.Is(err, ErrTemplateExpansion) {
		t.Errorf("got %v, want a template expansion error", err)
	}
}

func TestPageStylesheet(t *testing.T) {
	page := NewPage(space.MustParse(homePage))
	got := page.Stylesheet(map[string]any{"accent": "teal"})
	want := "#box {\n  color: teal;\n  margin: 0;\n}\n" +
		"#box-inner {\n  padding: 1em;\n}\n"
	if got != want {
		t.Errorf("got\n%s\nwant\n%s", got, want)
	}
}

func TestRenderToWriterFlushes(t *testing.T) {
	page := NewPage(space.MustParse(homePage))

	var b strings.Builder
	w := &FlushableWriter{Writer: &b}
	if err := page.RenderToWriter(w, nil); err != nil {
		t.Fatal(err)
	}
	// doctype plus three non-draft roots
	if w.FlushCount != 4 {
		t.Errorf("flushes = %d, want 4", w.FlushCount)
	}
	want, _ := page.Render(nil)
	if b.String() != want {
		t.Errorf("streamed output differs from Render")
	}
}

func TestRenderToWriterResponseRecorder(t *testing.T) {
	page := NewPage(space.MustParse("p\n content hi\n"))
	rec := httptest.NewRecorder()
	if err := page.RenderToWriter(rec, nil); err != nil {
		t.Fatal(err)
	}
	if !rec.Flushed {
		t.Error("recorder was not flushed")
	}
	if rec.Body.String() != "<!doctype html>\n<div id=\"p\">hi</div>\n" {
		t.Errorf("body = %q", rec.Body.String())
	}
}
