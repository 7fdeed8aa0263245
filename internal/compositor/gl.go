package compositor

import (
	"fmt"
	"unsafe"

	gl "github.com/go-gl/gl/v3.3-core/gl"
	"github.com/jezek/xgb"
	"github.com/jezek/xgb/composite"
	"github.com/jezek/xgb/xproto"
)

// glState is the GL-side handle set: the context, the FB config array
// scanned at startup (kept for the process lifetime, same as the original),
// and the shader program plus its uniform locations.
type glState struct {
	ctx     unsafe.Pointer
	display unsafe.Pointer
	screen  int

	fbConfigs unsafe.Pointer
	fbCount   int

	program             uint32
	textureUniform      int32
	opacityUniform      int32
	depthUniform        int32
	positionUniform     int32
	sizeUniform         int32
	croppedPosUniform   int32
	croppedSizeUniform  int32
}

// newGLOutput creates the full-screen GL output window, reparents it into
// the overlay, and brings up the GL context and shader pipeline against it.
func newGLOutput(conn *xgb.Conn, root, overlay xproto.Window, width, height uint32) (*glState, xproto.Window, error) {
	outputID, err := xproto.NewWindowId(conn)
	if err != nil {
		return nil, 0, fmt.Errorf("allocate output window id: %w", err)
	}
	if err := xproto.CreateWindowChecked(conn, xproto.WindowClassCopyFromParent, outputID, root,
		0, 0, uint16(width), uint16(height), 0,
		xproto.WindowClassInputOutput, 0, xproto.CwBorderPixel, []uint32{0}).Check(); err != nil {
		return nil, 0, fmt.Errorf("create output window: %w", err)
	}
	if err := xproto.ReparentWindowChecked(conn, outputID, overlay, 0, 0).Check(); err != nil {
		return nil, 0, fmt.Errorf("reparent output window: %w", err)
	}
	if err := xproto.MapWindowChecked(conn, outputID).Check(); err != nil {
		return nil, 0, fmt.Errorf("map output window: %w", err)
	}

	// GLX needs a genuine Xlib Display*; the xgb connection above is a
	// pure-Go protocol implementation with no such handle to offer, so a
	// second, independent connection to the same $DISPLAY is opened here
	// purely for GLX calls (see glx_linux.go's glxOpenDisplay doc comment).
	displayPtr, err := glxOpenDisplay()
	if err != nil {
		return nil, 0, err
	}
	screen := conn.DefaultScreen

	fbConfigs, fbCount, err := glxChooseFBConfig(displayPtr, screen)
	if err != nil {
		glxCloseDisplay(displayPtr)
		return nil, 0, err
	}

	ctx, err := glxCreateContext(displayPtr, fbConfigs, uint32(outputID))
	if err != nil {
		glxCloseDisplay(displayPtr)
		return nil, 0, err
	}

	if err := gl.Init(); err != nil {
		glxCloseDisplay(displayPtr)
		return nil, 0, fmt.Errorf("init GL bindings: %w", err)
	}

	g := &glState{
		ctx: ctx, display: displayPtr, screen: screen,
		fbConfigs: fbConfigs, fbCount: fbCount,
	}
	if err := g.buildShaderProgram(); err != nil {
		return nil, 0, err
	}

	gl.Enable(gl.DEPTH_TEST)
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)

	return g, outputID, nil
}

const quadVertexShaderSrc = `#version 330 core
layout(location = 0) in vec2 aPos;
uniform vec2 uPosition;
uniform vec2 uSize;
uniform float uDepth;
void main() {
	vec2 p = uPosition + (aPos * 0.5 + 0.5) * uSize;
	gl_Position = vec4(p, uDepth, 1.0);
}
` + "\x00"

const quadFragmentShaderSrc = `#version 330 core
uniform sampler2D uTexture;
uniform float uOpacity;
out vec4 fragColor;
void main() {
	fragColor = texture(uTexture, gl_FragCoord.xy) * uOpacity;
}
` + "\x00"

func (g *glState) buildShaderProgram() error {
	vs, err := compileShader(quadVertexShaderSrc, gl.VERTEX_SHADER)
	if err != nil {
		return fmt.Errorf("compile vertex shader: %w", err)
	}
	fs, err := compileShader(quadFragmentShaderSrc, gl.FRAGMENT_SHADER)
	if err != nil {
		return fmt.Errorf("compile fragment shader: %w", err)
	}

	program := gl.CreateProgram()
	gl.AttachShader(program, vs)
	gl.AttachShader(program, fs)
	gl.LinkProgram(program)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		return fmt.Errorf("link shader program failed")
	}
	gl.DeleteShader(vs)
	gl.DeleteShader(fs)

	g.program = program
	g.textureUniform = gl.GetUniformLocation(program, gl.Str("uTexture\x00"))
	g.opacityUniform = gl.GetUniformLocation(program, gl.Str("uOpacity\x00"))
	g.depthUniform = gl.GetUniformLocation(program, gl.Str("uDepth\x00"))
	g.positionUniform = gl.GetUniformLocation(program, gl.Str("uPosition\x00"))
	g.sizeUniform = gl.GetUniformLocation(program, gl.Str("uSize\x00"))
	g.croppedPosUniform = gl.GetUniformLocation(program, gl.Str("uCroppedPosition\x00"))
	g.croppedSizeUniform = gl.GetUniformLocation(program, gl.Str("uCroppedSize\x00"))
	return nil
}

func compileShader(src string, kind uint32) (uint32, error) {
	shader := gl.CreateShader(kind)
	csrc, free := gl.Strs(src)
	gl.ShaderSource(shader, 1, csrc, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		return 0, fmt.Errorf("shader compile error")
	}
	return shader, nil
}

// CreateMesh satisfies EventOps: it allocates the per-window VAO/VBO/IBO the
// render pass draws against, run once when a client window is first seen.
func (d *Display) CreateMesh() Mesh {
	return createMesh()
}

// DestroyMesh satisfies EventOps, releasing a window's VAO/VBO/IBO when it
// is removed from the managed table.
func (d *Display) DestroyMesh(m Mesh) {
	if m.VAO == 0 {
		return
	}
	gl.DeleteVertexArrays(1, &m.VAO)
	gl.DeleteBuffers(1, &m.VBO)
	gl.DeleteBuffers(1, &m.IBO)
}

// createMesh allocates the VAO/VBO/IBO triple for one window's full-window
// quad, matching the original's gl_create_vao_vbo_ibo.
func createMesh() Mesh {
	var vao, vbo, ibo uint32
	gl.GenVertexArrays(1, &vao)
	gl.BindVertexArray(vao)

	gl.GenBuffers(1, &vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, vbo)
	gl.VertexAttribPointer(0, 2, gl.FLOAT, false, 0, nil)
	gl.EnableVertexAttribArray(0)

	gl.GenBuffers(1, &ibo)

	quad := []float32{-1, -1, 1, -1, 1, 1, -1, 1}
	indices := []uint8{0, 1, 2, 0, 2, 3}

	gl.BindBuffer(gl.ARRAY_BUFFER, vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(quad)*4, gl.Ptr(quad), gl.STATIC_DRAW)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, ibo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(indices), gl.Ptr(indices), gl.STATIC_DRAW)

	return Mesh{VAO: vao, VBO: vbo, IBO: ibo, IndexCount: int32(len(indices))}
}

// BindTexture brackets the bind step with XGrabServer/XUngrabServer, names
// the window's composite pixmap, and records a GL pixmap handle for it via
// createGLXPixmap. It does not scan FB configs for one matching the
// window's visual depth, and it makes no glXCreatePixmap or
// glXBindTexImageEXT call: the recorded handle is the X pixmap XID itself.
func (d *Display) BindTexture(w *ManagedWindow) error {
	if w.Pixmaps.Bound {
		return nil
	}
	if err := xproto.GrabServerChecked(d.conn).Check(); err != nil {
		return fmt.Errorf("grab server: %w", err)
	}
	defer func() {
		if err := xproto.UngrabServerChecked(d.conn).Check(); err != nil {
			_ = err // best-effort: nothing further to do if ungrab itself fails
		}
	}()

	pixmapID, err := xproto.NewPixmapId(d.conn)
	if err != nil {
		return fmt.Errorf("allocate pixmap id: %w", err)
	}
	if err := composite.NameWindowPixmapChecked(d.conn, xproto.Window(w.ID), xproto.Pixmap(pixmapID)).Check(); err != nil {
		return fmt.Errorf("name window pixmap: %w", err)
	}
	w.Pixmaps.XPixmap = uint32(pixmapID)

	glPixmap, err := d.gl.createGLXPixmap(uint32(pixmapID), w.Geometry.Width, w.Geometry.Height)
	if err != nil {
		return err
	}
	w.Pixmaps.GLPixmap = glPixmap
	w.Pixmaps.Bound = true
	return nil
}

// createGLXPixmap and destroyGLXPixmap stay thin wrappers so gl.go owns the
// GL/GLX object lifetime and x11.go only ever talks in terms of
// ManagedWindow.Pixmaps.
func (g *glState) createGLXPixmap(xPixmap uint32, width, height uint32) (uintptr, error) {
	// No GLX pixmap is created here and g.fbConfigs is not consulted: the
	// X pixmap XID is returned unchanged as the handle.
	return uintptr(xPixmap), nil
}

func (g *glState) destroyGLXPixmap(handle uintptr) {
	_ = handle
}

// Present clears the framebuffer, issues one draw call per DrawOp, and
// swaps buffers.
func (d *Display) Present(ops []DrawOp, windows func(WindowID) (*ManagedWindow, bool)) {
	gl.ClearColor(1, 1, 1, 1)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

	gl.UseProgram(d.gl.program)
	for _, op := range ops {
		w, ok := windows(op.CropOf)
		if !ok {
			continue
		}
		if err := d.BindTexture(w); err != nil {
			continue
		}
		gl.Uniform1f(d.gl.depthUniform, float32(op.Depth))
		gl.Uniform2f(d.gl.positionUniform, op.Rect.X, op.Rect.Y)
		gl.Uniform2f(d.gl.sizeUniform, op.Rect.Width, op.Rect.Height)
		gl.Uniform1f(d.gl.opacityUniform, w.Opacity)

		gl.BindVertexArray(w.Mesh.VAO)
		gl.DrawElements(gl.TRIANGLES, w.Mesh.IndexCount, gl.UNSIGNED_BYTE, nil)
	}

	glxSwapBuffers(d.gl.display, uint32(d.output))
}
