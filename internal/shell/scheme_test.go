package shell

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/FoxMoss/DoteWM/internal/protocol"
)

type fakeRequester struct {
	sent []protocol.Packet
	err  error
}

func (f *fakeRequester) Send(p protocol.Packet) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, p)
	return nil
}

func newTestHandler(t *testing.T) (*SchemeHandler, string) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	root := filepath.Join(dir, "noko")
	if err := os.MkdirAll(root, 0700); err != nil {
		t.Fatalf("mkdir root: %v", err)
	}
	req := &fakeRequester{}
	return NewSchemeHandler("noko", req), root
}

func TestServeURLReturnsFileAndRegistersReload(t *testing.T) {
	h, root := newTestHandler(t)
	if err := os.WriteFile(filepath.Join(root, "index.html"), []byte("<h1>hi</h1>"), 0644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	resp := h.ServeURL("noko://shell/index.html")
	if resp.Status != 200 || string(resp.Body) != "<h1>hi</h1>" {
		t.Fatalf("resp = %+v, want 200 with file contents", resp)
	}
	if resp.ContentType != "text/html" {
		t.Errorf("ContentType = %q, want text/html", resp.ContentType)
	}

	req := h.requester.(*fakeRequester)
	if len(req.sent) != 1 {
		t.Fatalf("expected one file_register_request, got %d", len(req.sent))
	}
	seg, ok := req.sent[0].Segments[0].(protocol.FileRegisterRequest)
	if !ok {
		t.Fatalf("sent segment = %+v, want FileRegisterRequest", req.sent[0].Segments[0])
	}
	if filepath.Base(seg.FilePath) != "index.html" {
		t.Errorf("registered path %q, want it to name index.html", seg.FilePath)
	}
}

func TestServeURLMissingFileReturns200NotFoundBody(t *testing.T) {
	h, _ := newTestHandler(t)

	resp := h.ServeURL("noko://shell/missing.html")
	if resp.Status != 200 {
		t.Fatalf("Status = %d, want 200 (miss is content-shaped, not status-coded)", resp.Status)
	}
	want := "noko://shell/missing.html not found."
	if string(resp.Body) != want {
		t.Fatalf("Body = %q, want %q", resp.Body, want)
	}
}

func TestServeURLRejectsPathEscape(t *testing.T) {
	h, root := newTestHandler(t)
	// A file that does exist just outside the root, to prove the escape is
	// actually being blocked rather than merely missing.
	if err := os.WriteFile(filepath.Join(filepath.Dir(root), "secret"), []byte("nope"), 0644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	resp := h.ServeURL("noko://shell/../secret")
	if resp.Status != 200 {
		t.Fatalf("Status = %d, want 200", resp.Status)
	}
	if string(resp.Body) == "nope" {
		t.Fatal("path escape served a file outside the scheme root")
	}
}

func TestServeURLWrongSchemeIsNotFound(t *testing.T) {
	h, root := newTestHandler(t)
	if err := os.WriteFile(filepath.Join(root, "index.html"), []byte("hi"), 0644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	resp := h.ServeURL("http://shell/index.html")
	if string(resp.Body) == "hi" {
		t.Fatal("expected a mismatched scheme to be treated as not found")
	}
}
