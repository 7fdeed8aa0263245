package shell

import "strings"

// mimeByExtension is the small extension table §4.6/§6.3 calls for;
// anything not listed falls back to text/html, same as an unstyled HTML
// shell page being the safest default to hand an embedded web view.
var mimeByExtension = map[string]string{
	".html": "text/html",
	".htm":  "text/html",
	".css":  "text/css",
	".js":   "application/javascript",
	".json": "application/json",
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".gif":  "image/gif",
	".svg":  "image/svg+xml",
	".ico":  "image/x-icon",
	".woff": "font/woff",
	".woff2": "font/woff2",
	".ttf":  "font/ttf",
	".wasm": "application/wasm",
}

const defaultMIME = "text/html"

func mimeForPath(path string) string {
	idx := strings.LastIndexByte(path, '.')
	if idx < 0 {
		return defaultMIME
	}
	ext := strings.ToLower(path[idx:])
	if t, ok := mimeByExtension[ext]; ok {
		return t
	}
	return defaultMIME
}
