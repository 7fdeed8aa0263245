//go:build linux

package compositor

// The following block is C code and cgo directives bridging to libGL/libGLX
// for the operations Go has no portable binding for: opening a real Xlib
// connection and creating a core-profile GLX context against a framebuffer
// config chosen for texture compositing (BIND_TO_TEXTURE_RGBA support).
// Everything downstream of context creation goes through github.com/go-gl/gl
// instead of further cgo.
//
// #cgo linux LDFLAGS: -lGL -lX11
// #include <GL/glx.h>
// #include <X11/Xlib.h>
// #include <stdlib.h>
//
// typedef GLXContext (*createContextAttribsARBProc)(Display*, GLXFBConfig, GLXContext, Bool, const int*);
//
// static GLXContext noko_create_context(Display* dpy, GLXFBConfig cfg) {
//   createContextAttribsARBProc createContextAttribsARB =
//       (createContextAttribsARBProc)glXGetProcAddressARB((const GLubyte*)"glXCreateContextAttribsARB");
//   if (!createContextAttribsARB) {
//     return NULL;
//   }
//   int attribs[] = {
//       GLX_CONTEXT_MAJOR_VERSION_ARB, 3,
//       GLX_CONTEXT_MINOR_VERSION_ARB, 3,
//       GLX_CONTEXT_FLAGS_ARB, GLX_CONTEXT_FORWARD_COMPATIBLE_BIT_ARB,
//       0,
//   };
//   return createContextAttribsARB(dpy, cfg, NULL, 1, attribs);
// }
import "C"

import (
	"fmt"
	"unsafe"
)

// glxOpenDisplay opens a genuine Xlib connection to the same X display the
// jezek/xgb connection is already talking to (same $DISPLAY), purely so
// GLX has a real Display* to operate on. jezek/xgb is a pure-Go protocol
// implementation with no Xlib-compatible handle to hand out — its *xgb.Conn
// is a Go struct with nothing resembling Xlib's Display layout — so every
// GLX entry point here runs against this connection instead of the xgb one.
// The two connections address the same server independently; XIDs (window
// and pixmap ids) allocated on the xgb connection remain valid arguments to
// calls issued on this one, since X resource ids are server-global, not
// connection-local.
func glxOpenDisplay() (unsafe.Pointer, error) {
	dpy := C.XOpenDisplay(nil)
	if dpy == nil {
		return nil, fmt.Errorf("compositor: XOpenDisplay failed")
	}
	return unsafe.Pointer(dpy), nil
}

func glxCloseDisplay(displayPtr unsafe.Pointer) {
	C.XCloseDisplay((*C.Display)(displayPtr))
}

// glxCreateContext creates a forward-compatible OpenGL 3.3 core context
// against the given display/fbconfig pair, then makes it current on
// drawable. displayPtr is a real Xlib Display* from glxOpenDisplay; this
// file is the one place in the package that crosses into cgo to get GLX
// state into a form GLX understands.
func glxCreateContext(displayPtr unsafe.Pointer, fbConfig unsafe.Pointer, drawable uint32) (unsafe.Pointer, error) {
	dpy := (*C.Display)(displayPtr)
	cfg := C.GLXFBConfig(fbConfig)

	ctx := C.noko_create_context(dpy, cfg)
	if ctx == nil {
		return nil, fmt.Errorf("compositor: glXCreateContextAttribsARB failed")
	}
	if C.glXMakeCurrent(dpy, C.GLXDrawable(drawable), ctx) == 0 {
		return nil, fmt.Errorf("compositor: glXMakeCurrent failed")
	}
	return unsafe.Pointer(ctx), nil
}

func glxSwapBuffers(displayPtr unsafe.Pointer, drawable uint32) {
	C.glXSwapBuffers((*C.Display)(displayPtr), C.GLXDrawable(drawable))
}

func glxChooseFBConfig(displayPtr unsafe.Pointer, screen int) (unsafe.Pointer, int, error) {
	dpy := (*C.Display)(displayPtr)
	attribs := []C.int{
		C.GLX_BIND_TO_TEXTURE_RGBA_EXT, 1,
		C.GLX_BIND_TO_TEXTURE_TARGETS_EXT, C.GLX_TEXTURE_2D_BIT_EXT,
		C.GLX_RENDER_TYPE, C.GLX_RGBA_BIT,
		C.GLX_DRAWABLE_TYPE, C.GLX_PIXMAP_BIT,
		C.GLX_X_VISUAL_TYPE, C.GLX_TRUE_COLOR,
		C.GLX_X_RENDERABLE, 1,
		C.GLX_DOUBLEBUFFER, 1,
		C.GLX_RED_SIZE, 8, C.GLX_GREEN_SIZE, 8, C.GLX_BLUE_SIZE, 8, C.GLX_ALPHA_SIZE, 8,
		C.GLX_STENCIL_SIZE, 0, C.GLX_DEPTH_SIZE, 16,
		0,
	}
	var count C.int
	configs := C.glXChooseFBConfig(dpy, C.int(screen), &attribs[0], &count)
	if configs == nil || count == 0 {
		return nil, 0, fmt.Errorf("compositor: glXChooseFBConfig returned no configs")
	}
	return unsafe.Pointer(configs), int(count), nil
}
