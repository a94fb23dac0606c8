// Package renderer draws a scene graph with OpenGL.
package renderer

import (
	"fmt"
	"image/color"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/panotour/internal/engine/camera"
	"github.com/Faultbox/panotour/internal/engine/scene"
	"github.com/Faultbox/panotour/internal/engine/shader"
	"github.com/Faultbox/panotour/internal/engine/texture"
	"github.com/Faultbox/panotour/internal/logger"
	"github.com/Faultbox/panotour/pkg/math"
)

const vertexShaderSource = `
#version 410 core

layout (location = 0) in vec3 aPos;
layout (location = 1) in vec2 aUV;

uniform mat4 uMVP;

out vec2 vUV;

void main() {
	gl_Position = uMVP * vec4(aPos, 1.0);
	vUV = aUV;
}
`

const fragmentShaderSource = `
#version 410 core

in vec2 vUV;

uniform sampler2D uMap;
uniform vec4 uColor;

out vec4 FragColor;

void main() {
	FragColor = texture(uMap, vUV) * uColor;
}
`

// Config holds renderer configuration.
type Config struct {
	Width  int
	Height int
}

type gpuMesh struct {
	vao   uint32
	vbo   [2]uint32
	ebo   uint32
	count int32
}

// Renderer handles all OpenGL rendering.
type Renderer struct {
	config Config

	program *shader.Program
	white   uint32

	meshes   map[*scene.Geometry]*gpuMesh
	textures map[*texture.Texture]uint32

	log *zap.Logger
}

// New creates a new renderer.
// IMPORTANT: Must be called AFTER OpenGL context is created!
func New(cfg Config) (*Renderer, error) {
	r := &Renderer{
		config:   cfg,
		meshes:   make(map[*scene.Geometry]*gpuMesh),
		textures: make(map[*texture.Texture]uint32),
		log:      logger.Named("renderer"),
	}

	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	r.log.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
	)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LEQUAL)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)

	var err error
	r.program, err = shader.Compile(vertexShaderSource, fragmentShaderSource)
	if err != nil {
		return nil, fmt.Errorf("failed to create shader program: %w", err)
	}

	// Untextured materials sample a white texel
	r.white = upload(texture.Solid("white", color.RGBA{R: 255, G: 255, B: 255, A: 255}))

	r.Resize(cfg.Width, cfg.Height)
	return r, nil
}

// Resize handles window resize.
func (r *Renderer) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	r.config.Width = width
	r.config.Height = height
	gl.Viewport(0, 0, int32(width), int32(height))
	r.log.Debug("renderer resized",
		zap.Int("width", width),
		zap.Int("height", height),
	)
}

// Render draws every visible mesh: opaque world meshes, then transparent
// world meshes, then the overlay layer.
func (r *Renderer) Render(s *scene.Scene, cam *camera.Perspective) error {
	bg := s.Background
	gl.ClearColor(bg.R, bg.G, bg.B, 1)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

	r.program.Use()
	r.program.SetInt("uMap", 0)
	gl.ActiveTexture(gl.TEXTURE0)

	viewProj := cam.ViewProjection()
	nodes := s.Nodes()

	gl.Enable(gl.DEPTH_TEST)
	gl.Disable(gl.BLEND)
	for _, m := range nodes {
		if m.Visible && m.Layer == scene.LayerWorld && !m.Material.Transparent {
			r.draw(m, viewProj.Mul(m.ModelMatrix()))
		}
	}

	gl.Enable(gl.BLEND)
	gl.DepthMask(false)
	for _, m := range nodes {
		if m.Visible && m.Layer == scene.LayerWorld && m.Material.Transparent {
			r.draw(m, viewProj.Mul(m.ModelMatrix()))
		}
	}

	gl.Disable(gl.DEPTH_TEST)
	for _, m := range nodes {
		if m.Visible && m.Layer == scene.LayerOverlay {
			r.draw(m, m.ModelMatrix())
		}
	}
	gl.DepthMask(true)

	gl.BindVertexArray(0)
	if code := gl.GetError(); code != gl.NO_ERROR {
		return fmt.Errorf("GL error 0x%x", code)
	}
	return nil
}

func (r *Renderer) draw(m *scene.Mesh, mvp math.Mat4) {
	if m.Geometry == nil || m.Material == nil {
		return
	}
	gm := r.meshes[m.Geometry]
	if gm == nil {
		gm = r.uploadGeometry(m.Geometry)
		r.meshes[m.Geometry] = gm
	}

	mat := m.Material
	switch mat.Side {
	case scene.FrontSide:
		gl.Enable(gl.CULL_FACE)
		gl.CullFace(gl.BACK)
	case scene.BackSide:
		gl.Enable(gl.CULL_FACE)
		gl.CullFace(gl.FRONT)
	default:
		gl.Disable(gl.CULL_FACE)
	}

	tex := r.white
	if mat.Map != nil {
		tex = r.texture(mat.Map)
	}
	gl.BindTexture(gl.TEXTURE_2D, tex)

	alpha := mat.Color.A
	if mat.Transparent {
		alpha *= mat.Opacity
	}
	r.program.SetMat4("uMVP", mvp)
	r.program.SetVec4("uColor", mat.Color.R, mat.Color.G, mat.Color.B, alpha)

	gl.BindVertexArray(gm.vao)
	gl.DrawElements(gl.TRIANGLES, gm.count, gl.UNSIGNED_INT, nil)
}

func (r *Renderer) texture(t *texture.Texture) uint32 {
	if id, ok := r.textures[t]; ok {
		return id
	}
	id := upload(t)
	r.textures[t] = id
	r.log.Debug("texture uploaded",
		zap.String("key", t.Key),
		zap.Int("width", t.Width),
		zap.Int("height", t.Height),
	)
	return id
}

func (r *Renderer) uploadGeometry(g *scene.Geometry) *gpuMesh {
	gm := &gpuMesh{count: int32(len(g.Indices))}

	gl.GenVertexArrays(1, &gm.vao)
	gl.BindVertexArray(gm.vao)

	gl.GenBuffers(2, &gm.vbo[0])
	gl.BindBuffer(gl.ARRAY_BUFFER, gm.vbo[0])
	gl.BufferData(gl.ARRAY_BUFFER, len(g.Positions)*4, gl.Ptr(g.Positions), gl.STATIC_DRAW)
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, 3*4, nil)
	gl.EnableVertexAttribArray(0)

	gl.BindBuffer(gl.ARRAY_BUFFER, gm.vbo[1])
	gl.BufferData(gl.ARRAY_BUFFER, len(g.UVs)*4, gl.Ptr(g.UVs), gl.STATIC_DRAW)
	gl.VertexAttribPointer(1, 2, gl.FLOAT, false, 2*4, nil)
	gl.EnableVertexAttribArray(1)

	gl.GenBuffers(1, &gm.ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, gm.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(g.Indices)*4, gl.Ptr(g.Indices), gl.STATIC_DRAW)

	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)

	r.log.Debug("geometry uploaded",
		zap.Uint32("vao", gm.vao),
		zap.Int("triangles", g.TriangleCount()),
	)
	return gm
}

// Release frees the GPU buffers of a removed mesh and its texture when the
// material owns it. Each mesh is expected to own its geometry.
func (r *Renderer) Release(m *scene.Mesh) {
	if m == nil {
		return
	}
	if m.Material != nil && m.Material.MapOwned && m.Material.Map != nil {
		r.ReleaseTexture(m.Material.Map)
	}
	if gm, ok := r.meshes[m.Geometry]; ok {
		deleteMesh(gm)
		delete(r.meshes, m.Geometry)
	}
}

// ReleaseTexture frees the GPU copy of a texture. The next draw that uses
// it uploads it again.
func (r *Renderer) ReleaseTexture(t *texture.Texture) {
	if id, ok := r.textures[t]; ok {
		gl.DeleteTextures(1, &id)
		delete(r.textures, t)
	}
}

// ReadPixels reads back the current framebuffer as RGBA, bottom row first.
// Call it after Render and before the buffers are swapped.
func (r *Renderer) ReadPixels() (pixels []byte, width, height int) {
	width, height = r.config.Width, r.config.Height
	pixels = make([]byte, width*height*4)
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, int32(width), int32(height), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))
	return pixels, width, height
}

// Close cleans up renderer resources.
func (r *Renderer) Close() {
	r.log.Info("closing renderer")
	for g, gm := range r.meshes {
		deleteMesh(gm)
		delete(r.meshes, g)
	}
	for t, id := range r.textures {
		gl.DeleteTextures(1, &id)
		delete(r.textures, t)
	}
	if r.white != 0 {
		gl.DeleteTextures(1, &r.white)
		r.white = 0
	}
	if r.program != nil {
		r.program.Delete()
	}
}

func deleteMesh(gm *gpuMesh) {
	gl.DeleteVertexArrays(1, &gm.vao)
	gl.DeleteBuffers(2, &gm.vbo[0])
	gl.DeleteBuffers(1, &gm.ebo)
}

func upload(t *texture.Texture) uint32 {
	var id uint32
	gl.GenTextures(1, &id)
	gl.BindTexture(gl.TEXTURE_2D, id)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR_MIPMAP_LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, int32(t.Width), int32(t.Height), 0,
		gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(t.Image.Pix))
	gl.GenerateMipmap(gl.TEXTURE_2D)
	gl.BindTexture(gl.TEXTURE_2D, 0)
	return id
}
