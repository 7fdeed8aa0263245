package shell

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/FoxMoss/DoteWM/internal/protocol"
)

// Requester is the narrow surface the scheme handler needs from the IPC
// bridge: fire-and-forget a file_register_request so a served file becomes
// hot-reloadable (§4.6's last sentence).
type Requester interface {
	Send(p protocol.Packet) error
}

// SchemeHandler answers <scheme>://<domain>/<rel-path> resource requests
// from the embedded web view by reading $XDG_CONFIG_HOME/<scheme>/<rel-path>
// (§4.6, §6.3). It is registered once per process with identical
// behavior everywhere, matching "identical registration in every process".
type SchemeHandler struct {
	scheme    string
	root      string
	requester Requester
}

// NewSchemeHandler builds a handler for scheme, resolving its file root via
// configRoot.
func NewSchemeHandler(scheme string, requester Requester) *SchemeHandler {
	return &SchemeHandler{scheme: scheme, root: configRoot(scheme), requester: requester}
}

// Response is what ServeURL hands back to the embedded browser's resource
// handler glue: an HTTP-shaped status/content-type/body triple. Status is
// always 200 per §4.6 — a miss is a 200 with a textual "not found"
// body, not a 404, matching original_source/src/minimal/scheme_handler.cc's
// NotFound() (an explicit, documented Open Question resolution rather than
// an oversight — see SPEC_FULL.md §5/§9(a)).
type Response struct {
	Status      int
	ContentType string
	Body        []byte
}

// ServeURL resolves rawURL against this handler's scheme and file root and
// returns the resource, or a not-found response if rawURL doesn't name an
// existing file under the root.
func (h *SchemeHandler) ServeURL(rawURL string) Response {
	u, err := url.Parse(rawURL)
	if err != nil || !strings.EqualFold(u.Scheme, h.scheme) {
		return notFound(rawURL)
	}

	relPath := strings.TrimPrefix(u.Path, "/")
	fullPath := filepath.Join(h.root, filepath.FromSlash(relPath))

	// filepath.Join cleans ".." segments away from the root prefix, but a
	// rel-path starting with enough ".." can still escape it; refuse those
	// rather than serving arbitrary filesystem content through the scheme.
	if fullPath != h.root && !strings.HasPrefix(fullPath, h.root+string(filepath.Separator)) {
		return notFound(rawURL)
	}

	body, err := os.ReadFile(fullPath)
	if err != nil {
		return notFound(rawURL)
	}

	if h.requester != nil {
		if err := h.requester.Send(protocol.Packet{
			Segments: []protocol.Segment{protocol.FileRegisterRequest{FilePath: fullPath}},
		}); err != nil {
			// Best-effort: a failed hot-reload registration never blocks
			// serving the file itself.
			_ = err
		}
	}

	return Response{Status: 200, ContentType: mimeForPath(fullPath), Body: body}
}

func notFound(rawURL string) Response {
	return Response{
		Status:      200,
		ContentType: defaultMIME,
		Body:        []byte(fmt.Sprintf("%s not found.", rawURL)),
	}
}
