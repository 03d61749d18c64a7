package dev

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/scrapsdev/scraps/internal/config"
)

// touch writes data and moves the modification time forward so the
// change is visible regardless of file system timestamp resolution.
func touch(t *testing.T, path, data string, offset time.Duration) {
	t.Helper()
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}
	mod := time.Now().Add(offset)
	if err := os.Chtimes(path, mod, mod); err != nil {
		t.Fatal(err)
	}
}

func startWatcher(t *testing.T, dir string) <-chan []Change {
	t.Helper()
	watcher := NewWatcher(WatcherConfig{
		Paths:    []string{dir},
		Debounce: 20 * time.Millisecond,
	})
	changes := make(chan []Change, 10)
	watcher.OnChange(func(c []Change) {
		changes <- c
	})

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go watcher.Start(ctx)

	// Wait for the initial scan.
	time.Sleep(100 * time.Millisecond)
	return changes
}

func waitChanges(t *testing.T, ch <-chan []Change) []Change {
	t.Helper()
	select {
	case c := <-ch:
		return c
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for change")
		return nil
	}
}

func TestWatcher_Modify(t *testing.T) {
	dir := t.TempDir()
	page := filepath.Join(dir, "index.space")
	touch(t, page, "title Home\n", -time.Hour)

	changes := startWatcher(t, dir)
	touch(t, page, "title Welcome\n", time.Second)

	got := waitChanges(t, changes)
	if len(got) != 1 {
		t.Fatalf("changes = %v, want 1", got)
	}
	if got[0].Path != page || got[0].Type != ChangePage || got[0].Removed {
		t.Errorf("change = %+v", got[0])
	}
}

func TestWatcher_NewAndRemovedFiles(t *testing.T) {
	dir := t.TempDir()
	old := filepath.Join(dir, "old.space")
	touch(t, old, "title Old\n", -time.Hour)

	changes := startWatcher(t, dir)

	touch(t, filepath.Join(dir, "new.space"), "title New\n", 0)
	if err := os.Remove(old); err != nil {
		t.Fatal(err)
	}

	// Both edits may land in one tick or two.
	seen := map[string]Change{}
	for len(seen) < 2 {
		for _, c := range waitChanges(t, changes) {
			seen[filepath.Base(c.Path)] = c
		}
	}
	if c := seen["new.space"]; c.Removed {
		t.Errorf("new.space reported as removed")
	}
	if c := seen["old.space"]; !c.Removed {
		t.Errorf("old.space not reported as removed")
	}
}

func TestWatcher_BatchSortedByPath(t *testing.T) {
	w := NewWatcher(WatcherConfig{Paths: []string{t.TempDir()}})
	dir := w.config.Paths[0]
	var batches [][]Change
	w.OnChange(func(c []Change) { batches = append(batches, c) })
	w.scanInitial()

	for _, name := range []string{"c.space", "a.space", "b.space"} {
		touch(t, filepath.Join(dir, name), "x y\n", 0)
	}
	w.checkForChanges()

	if len(batches) != 1 || len(batches[0]) != 3 {
		t.Fatalf("batches = %v", batches)
	}
	for i, want := range []string{"a.space", "b.space", "c.space"} {
		if got := filepath.Base(batches[0][i].Path); got != want {
			t.Errorf("batch[%d] = %s, want %s", i, got, want)
		}
	}

	// Nothing changed since the last tick.
	w.checkForChanges()
	if len(batches) != 1 {
		t.Errorf("unexpected second batch: %v", batches[1:])
	}
}

func TestWatcher_Ignore(t *testing.T) {
	w := NewWatcher(WatcherConfig{
		Ignore: []string{".git", "node_modules", "*.swp", "*~", "drafts/old"},
	})

	tests := []struct {
		path string
		want bool
	}{
		{"index.space", false},
		{"blog/post.space", false},
		{".git/config", true},
		{"node_modules/x/a.space", true},
		{"index.space.swp", true},
		{"index.space~", true},
		{"drafts/old/a.space", true},
		{"drafts/new/a.space", false},
	}
	for _, tt := range tests {
		if got := w.shouldIgnore(tt.path); got != tt.want {
			t.Errorf("shouldIgnore(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestWatcher_IgnoreOnlyBelowRoot(t *testing.T) {
	// The watched directory itself lives under a directory whose name is
	// an ignore pattern; its files must still be seen.
	parent := filepath.Join(t.TempDir(), "node_modules")
	if err := os.MkdirAll(parent, 0755); err != nil {
		t.Fatal(err)
	}
	touch(t, filepath.Join(parent, "index.space"), "title x\n", 0)

	w := NewWatcher(WatcherConfig{Paths: []string{parent}})
	var found []string
	w.walk(func(p string, _ os.FileInfo) { found = append(found, p) })
	if len(found) != 1 {
		t.Errorf("walk found %v, want index.space", found)
	}
}

func TestClassifyChange(t *testing.T) {
	w := NewWatcher(WatcherConfig{PageExt: ".page"})

	tests := []struct {
		path string
		want ChangeType
	}{
		{"/site/pages/index.page", ChangePage},
		{"/site/context.yaml", ChangeContext},
		{"/site/context.yml", ChangeContext},
		{"/site/data.json", ChangeContext},
		{"/site/scraps.json", ChangeConfig},
		{"/site/pages/index.space", ChangeOther},
		{"/site/logo.png", ChangeOther},
	}
	for _, tt := range tests {
		if got := w.classifyChange(tt.path); got != tt.want {
			t.Errorf("classifyChange(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestCollectWatchPaths(t *testing.T) {
	dir := t.TempDir()
	cfg := config.New()
	cfg.Context = "context.yaml"
	if err := cfg.SaveTo(filepath.Join(dir, config.ConfigFileName)); err != nil {
		t.Fatal(err)
	}

	got := CollectWatchPaths(cfg)
	want := []string{
		filepath.Join(dir, "pages"),
		filepath.Join(dir, "context.yaml"),
		filepath.Join(dir, config.ConfigFileName),
	}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Errorf("CollectWatchPaths() = %v, want %v", got, want)
	}
}

func dialReload(t *testing.T, rs *ReloadServer) *websocket.Conn {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(rs.HandleWebSocket))
	t.Cleanup(srv.Close)

	before := rs.ClientCount()
	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	deadline := time.Now().Add(2 * time.Second)
	for rs.ClientCount() == before {
		if time.Now().After(deadline) {
			t.Fatal("client never registered")
		}
		time.Sleep(5 * time.Millisecond)
	}
	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) ReloadMessage {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var msg ReloadMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		t.Fatalf("decode %q: %v", data, err)
	}
	return msg
}

func TestReloadServer_Broadcast(t *testing.T) {
	rs := NewReloadServer()
	defer rs.Close()
	conn := dialReload(t, rs)

	rs.NotifyReload("index")
	if msg := readMessage(t, conn); msg.Type != ReloadTypeFull || msg.Page != "index" {
		t.Errorf("reload message = %+v", msg)
	}

	rs.NotifyError("about", "E002: Invalid page file")
	if msg := readMessage(t, conn); msg.Type != ReloadTypeError || msg.Error != "E002: Invalid page file" {
		t.Errorf("error message = %+v", msg)
	}

	// A browser that connects late still sees the pending error.
	late := dialReload(t, rs)
	if msg := readMessage(t, late); msg.Type != ReloadTypeError || msg.Page != "about" {
		t.Errorf("replayed message = %+v", msg)
	}

	rs.ClearError()
	for _, c := range []*websocket.Conn{conn, late} {
		if msg := readMessage(t, c); msg.Type != ReloadTypeClear {
			t.Errorf("clear message = %+v", msg)
		}
	}
	if rs.ClientCount() != 2 {
		t.Errorf("ClientCount() = %d, want 2", rs.ClientCount())
	}
}

func TestReloadScript(t *testing.T) {
	if !strings.Contains(ReloadScript, ReloadPath) {
		t.Errorf("script does not connect to %s", ReloadPath)
	}
	if !strings.HasPrefix(ReloadScript, "<script>") {
		t.Error("script is not a script element")
	}
}

func newTestConfig(t *testing.T, reload bool) *config.Config {
	t.Helper()
	dir := t.TempDir()
	cfg := config.New()
	cfg.Dev.Reload = reload
	if err := cfg.SaveTo(filepath.Join(dir, config.ConfigFileName)); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(cfg.PagesPath(), 0755); err != nil {
		t.Fatal(err)
	}
	return cfg
}

func TestServer_PageChanges(t *testing.T) {
	cfg := newTestConfig(t, true)
	pages := cfg.PagesPath()

	reloads := 0
	s := NewServer(ServerOptions{
		Config:   cfg,
		OnReload: func(int) { reloads++ },
	})

	page := filepath.Join(pages, "index.space")
	touch(t, page, "title Home\n", 0)
	s.handleChanges([]Change{{Path: page, Type: ChangePage}})
	if reloads != 1 {
		t.Fatalf("reloads = %d, want 1", reloads)
	}

	// One extra leading space makes the second entry a bad indent.
	touch(t, page, "title Home\n  body x\n", 0)
	s.handleChanges([]Change{{Path: page, Type: ChangePage}})
	if reloads != 1 {
		t.Errorf("broken page triggered a reload")
	}
	pending := s.reload.lastErr
	if pending == nil {
		t.Fatal("no error sent to browsers")
	}
	if pending.Page != "index" || !strings.Contains(pending.Error, "E002") {
		t.Errorf("pending error = %+v", pending)
	}

	// Editing another page does not reload while index is broken.
	other := filepath.Join(pages, "about.space")
	touch(t, other, "title About\n", 0)
	s.handleChanges([]Change{{Path: other, Type: ChangePage}})
	if reloads != 1 {
		t.Errorf("reloaded while a page is broken")
	}

	touch(t, page, "title Home\nbody x\n", 0)
	s.handleChanges([]Change{{Path: page, Type: ChangePage}})
	if reloads != 2 {
		t.Errorf("reloads = %d, want 2 after fix", reloads)
	}
	if s.reload.lastErr != nil {
		t.Error("error not cleared after fix")
	}
}

func TestServer_ContextChanges(t *testing.T) {
	cfg := newTestConfig(t, true)
	pages := cfg.PagesPath()

	var loaded map[string]any
	s := NewServer(ServerOptions{
		Config:    cfg,
		OnContext: func(ctx map[string]any) { loaded = ctx },
	})

	ctxFile := filepath.Join(filepath.Dir(pages), "context.yaml")
	touch(t, ctxFile, "site:\n  name: Docs\n", 0)
	s.handleChanges([]Change{{Path: ctxFile, Type: ChangeContext}})

	site, ok := loaded["site"].(map[string]any)
	if !ok || site["name"] != "Docs" {
		t.Errorf("loaded context = %v", loaded)
	}

	touch(t, ctxFile, "site: [unclosed\n", 0)
	s.handleChanges([]Change{{Path: ctxFile, Type: ChangeContext}})
	if s.reload.lastErr == nil || !strings.Contains(s.reload.lastErr.Error, "E150") {
		t.Errorf("bad context not reported: %+v", s.reload.lastErr)
	}
}

func TestServer_ReloadDisabled(t *testing.T) {
	cfg := newTestConfig(t, false)
	pages := cfg.PagesPath()

	s := NewServer(ServerOptions{Config: cfg})
	if s.ReloadHandler() != nil {
		t.Error("ReloadHandler() should be nil with reload off")
	}
	if s.Script() != "" {
		t.Error("Script() should be empty with reload off")
	}

	// Must not panic without a reload server.
	page := filepath.Join(pages, "index.space")
	touch(t, page, "title\n  bad\n", 0)
	s.handleChanges([]Change{{Path: page, Type: ChangePage}})
}

func TestServer_StartStop(t *testing.T) {
	cfg := newTestConfig(t, true)
	cfg.Dev.Debounce = "10ms"

	s := NewServer(ServerOptions{Config: cfg})
	done := make(chan error, 1)
	go func() { done <- s.Start(context.Background()) }()

	deadline := time.Now().Add(2 * time.Second)
	for !s.watcher.IsRunning() {
		if time.Now().After(deadline) {
			t.Fatal("watcher never started")
		}
		time.Sleep(5 * time.Millisecond)
	}
	s.Stop()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Start() = %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Start did not return after Stop")
	}
}
