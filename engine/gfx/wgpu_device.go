package gfx

import (
	_ "embed"
	"errors"
	"fmt"
	"image"
	"log"
	"math"
	"runtime"
	"sync"

	"github.com/Carmen-Shannon/oxy-viewer/common"
	"github.com/cogentcore/webgpu/wgpu"
)

//go:embed shaders/color.wgsl
var colorShaderSource string

//go:embed shaders/textured.wgsl
var texturedShaderSource string

// vertex is the single vertex format of the device: clip-space position, linear color and texture coordinates.
type vertex struct {
	pos   [4]float32
	color [4]float32
	uv    [2]float32
}

const vertexStride = 40

type pipelineKind int

const (
	pipeLinesDepth pipelineKind = iota
	pipeLinesFlat
	pipeFill
	pipeClearColor
	pipeClearColorDepth
	pipeClearDepth
	pipeTextured
	pipelineCount
)

// batch is a contiguous vertex range drawn with one pipeline in one viewport.
type batch struct {
	kind     pipelineKind
	viewport common.PixelRect
	first    uint32
	count    uint32
	key      string
}

type deviceTexture struct {
	texture   *wgpu.Texture
	view      *wgpu.TextureView
	bindGroup *wgpu.BindGroup
	width     uint32
	height    uint32
}

func (t *deviceTexture) release() {
	if t.bindGroup != nil {
		t.bindGroup.Release()
	}
	if t.view != nil {
		t.view.Release()
	}
	if t.texture != nil {
		t.texture.Release()
	}
}

// wgpuDevice implements Device on top of WebGPU. Draw calls are recorded on the CPU and
// submitted in a single render pass by EndFrame.
type wgpuDevice struct {
	mu *sync.Mutex

	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	surface  *wgpu.Surface
	device   *wgpu.Device
	queue    *wgpu.Queue

	surfaceFormat        wgpu.TextureFormat
	textureFormat        wgpu.TextureFormat
	linearOutput         bool
	msaaTexture          *wgpu.Texture
	msaaTextureView      *wgpu.TextureView
	depthTexture         *wgpu.Texture
	depthTextureView     *wgpu.TextureView
	renderPassDescriptor *wgpu.RenderPassDescriptor

	presentMode          PresentMode
	sampleCount          MSAASampleCount
	forceFallbackAdapter bool

	pipelines       [pipelineCount]*wgpu.RenderPipeline
	textureLayout   *wgpu.BindGroupLayout
	sampler         *wgpu.Sampler
	textures        map[string]*deviceTexture
	vertexBuffer    *wgpu.Buffer
	vertexBufferCap uint64

	width, height int

	// Per-frame recording state
	vertices  []vertex
	batches   []batch
	viewport  common.PixelRect
	transform [16]float32
	depthTest bool
	inFrame   bool
}

var _ Device = &wgpuDevice{}

// NewWGPUDevice creates a WebGPU device rendering into the surface described by surfaceDescriptor.
// The calling goroutine is locked to its OS thread.
//
// Parameters:
//   - surfaceDescriptor: the platform surface descriptor, usually from the window
//   - width, height: the initial surface size in pixels
//   - options: functional options to configure the device
//
// Returns:
//   - Device: the device
//   - error: error if no adapter, device or pipeline could be created
func NewWGPUDevice(surfaceDescriptor *wgpu.SurfaceDescriptor, width, height int, options ...WGPUDeviceBuilderOption) (Device, error) {
	if surfaceDescriptor == nil {
		return nil, errors.New("gfx: nil surface descriptor")
	}
	runtime.LockOSThread()

	d := &wgpuDevice{
		mu:          &sync.Mutex{},
		presentMode: PresentModeVSync,
		sampleCount: MSAA4x,
		textures:    make(map[string]*deviceTexture),
	}
	for _, option := range options {
		option(d)
	}
	common.Identity(d.transform[:])

	d.instance = wgpu.CreateInstance(nil)
	d.surface = d.instance.CreateSurface(surfaceDescriptor)

	adapter, err := d.instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		ForceFallbackAdapter: d.forceFallbackAdapter,
		CompatibleSurface:    d.surface,
	})
	if err != nil {
		return nil, fmt.Errorf("request adapter: %w", err)
	}
	d.adapter = adapter

	device, err := adapter.RequestDevice(&wgpu.DeviceDescriptor{
		Label: "Viewer Device",
		RequiredLimits: &wgpu.RequiredLimits{
			Limits: wgpu.DefaultLimits(),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("request device: %w", err)
	}
	d.device = device
	d.queue = device.GetQueue()

	capabilities := d.surface.GetCapabilities(d.adapter)
	if len(capabilities.Formats) == 0 {
		return nil, errors.New("gfx: surface reports no formats")
	}
	d.surfaceFormat = capabilities.Formats[0]
	d.linearOutput = isSrgbFormat(d.surfaceFormat)
	d.textureFormat = wgpu.TextureFormatRGBA8Unorm
	if d.linearOutput {
		d.textureFormat = wgpu.TextureFormatRGBA8UnormSrgb
	}

	if err := d.createPipelines(); err != nil {
		d.Release()
		return nil, err
	}
	d.Resize(width, height)
	return d, nil
}

func (d *wgpuDevice) Resolution() (int, int) {
	return d.width, d.height
}

func (d *wgpuDevice) SetViewport(r common.PixelRect) {
	d.viewport = r
}

func (d *wgpuDevice) Viewport() common.PixelRect {
	return d.viewport
}

func (d *wgpuDevice) Clear(c common.Color, flags ClearFlags) {
	var kind pipelineKind
	switch {
	case flags&ClearColor != 0 && flags&ClearDepth != 0:
		kind = pipeClearColorDepth
	case flags&ClearColor != 0:
		kind = pipeClearColor
	case flags&ClearDepth != 0:
		kind = pipeClearDepth
	default:
		return
	}
	col := d.vertexColor(c)
	d.appendQuad(kind, "", [4]float32{-1, 1, 1, -1}, 1, col, [4]float32{})
}

func (d *wgpuDevice) SetTransform(m [16]float32) {
	d.transform = m
}

func (d *wgpuDevice) SetDepthTest(enabled bool) {
	d.depthTest = enabled
}

func (d *wgpuDevice) DrawLines(points [][3]float32, c common.Color) {
	n := len(points) &^ 1
	if n == 0 {
		return
	}
	kind := pipeLinesFlat
	if d.depthTest {
		kind = pipeLinesDepth
	}
	col := d.vertexColor(c)
	verts := make([]vertex, n)
	for i := 0; i < n; i++ {
		p := points[i]
		verts[i] = vertex{pos: common.TransformPoint(d.transform[:], p[0], p[1], p[2]), color: col}
	}
	d.appendVertices(kind, "", verts)
}

func (d *wgpuDevice) FillRect(r image.Rectangle, c common.Color) {
	ndc, ok := d.localToNDC(r)
	if !ok {
		return
	}
	d.appendQuad(pipeFill, "", ndc, 0, d.vertexColor(c), [4]float32{})
}

func (d *wgpuDevice) StrokeRect(r image.Rectangle, lineWidth float32, c common.Color) {
	for _, edge := range strokeRects(r, lineWidth) {
		d.FillRect(edge, c)
	}
}

func (d *wgpuDevice) UploadImage(key string, img *image.RGBA) error {
	if img == nil {
		return fmt.Errorf("upload %q: nil image", key)
	}
	staging := common.StagingFromRGBA(img)
	if staging.Width == 0 || staging.Height == 0 {
		return fmt.Errorf("upload %q: empty image", key)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	tex, ok := d.textures[key]
	if !ok || tex.width != staging.Width || tex.height != staging.Height {
		if ok {
			tex.release()
		}
		created, err := d.createTexture(key, staging.Width, staging.Height)
		if err != nil {
			delete(d.textures, key)
			return fmt.Errorf("upload %q: %w", key, err)
		}
		tex = created
		d.textures[key] = tex
	}

	d.queue.WriteTexture(
		&wgpu.ImageCopyTexture{
			Texture:  tex.texture,
			MipLevel: 0,
			Origin:   wgpu.Origin3D{},
			Aspect:   wgpu.TextureAspectAll,
		},
		staging.Pixels,
		&wgpu.TextureDataLayout{
			Offset:       0,
			BytesPerRow:  staging.Width * 4,
			RowsPerImage: staging.Height,
		},
		&wgpu.Extent3D{
			Width:              staging.Width,
			Height:             staging.Height,
			DepthOrArrayLayers: 1,
		},
	)
	return nil
}

func (d *wgpuDevice) DrawImage(key string, r image.Rectangle, alpha float32) {
	if alpha <= 0 {
		return
	}
	ndc, ok := d.localToNDC(r)
	if !ok {
		return
	}
	col := [4]float32{1, 1, 1, common.Clamp(alpha, 0, 1)}
	d.appendQuad(pipeTextured, key, ndc, 0, col, [4]float32{0, 0, 1, 1})
}

func (d *wgpuDevice) BeginFrame() error {
	if d.inFrame {
		return errors.New("gfx: previous frame not ended")
	}
	d.inFrame = true
	d.vertices = d.vertices[:0]
	d.batches = d.batches[:0]
	d.viewport = common.PixelRect{W: d.width, H: d.height}
	d.depthTest = false
	common.Identity(d.transform[:])
	return nil
}

func (d *wgpuDevice) EndFrame() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.inFrame {
		return errors.New("gfx: EndFrame without BeginFrame")
	}
	d.inFrame = false
	if d.width <= 0 || d.height <= 0 || d.renderPassDescriptor == nil {
		return nil
	}

	if len(d.vertices) > 0 {
		if err := d.ensureVertexBuffer(uint64(len(d.vertices)) * vertexStride); err != nil {
			return err
		}
		d.queue.WriteBuffer(d.vertexBuffer, 0, common.SliceToBytes(d.vertices))
	}

	surfaceTexture, err := d.surface.GetCurrentTexture()
	if err != nil {
		return fmt.Errorf("acquire surface texture: %w", err)
	}
	defer surfaceTexture.Release()

	view, err := surfaceTexture.CreateView(nil)
	if err != nil {
		return fmt.Errorf("create surface view: %w", err)
	}
	defer view.Release()

	encoder, err := d.device.CreateCommandEncoder(nil)
	if err != nil {
		return fmt.Errorf("create command encoder: %w", err)
	}
	defer encoder.Release()

	// With MSAA the multisampled texture is the attachment and the swapchain view resolves it.
	if d.sampleCount > 1 {
		d.renderPassDescriptor.ColorAttachments[0].ResolveTarget = view
	} else {
		d.renderPassDescriptor.ColorAttachments[0].View = view
	}
	pass := encoder.BeginRenderPass(d.renderPassDescriptor)

	surface := common.PixelRect{W: d.width, H: d.height}
	for _, b := range d.batches {
		vp := intersect(b.viewport, surface)
		if vp.Empty() || b.count == 0 {
			continue
		}
		if b.kind == pipeTextured {
			tex, ok := d.textures[b.key]
			if !ok {
				continue
			}
			pass.SetBindGroup(0, tex.bindGroup, nil)
		}
		top := vp.FlipY(d.height)
		pass.SetViewport(float32(top.X), float32(top.Y), float32(top.W), float32(top.H), 0, 1)
		pass.SetScissorRect(uint32(top.X), uint32(top.Y), uint32(top.W), uint32(top.H))
		pass.SetPipeline(d.pipelines[b.kind])
		pass.SetVertexBuffer(0, d.vertexBuffer, 0, wgpu.WholeSize)
		pass.Draw(b.count, 1, b.first, 0)
	}
	pass.End()
	pass.Release()

	commandBuffer, err := encoder.Finish(nil)
	if err != nil {
		return fmt.Errorf("finish command encoder: %w", err)
	}
	d.queue.Submit(commandBuffer)
	commandBuffer.Release()

	d.surface.Present()
	return nil
}

func (d *wgpuDevice) Resize(width, height int) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.width = width
	d.height = height
	if width <= 0 || height <= 0 {
		return
	}
	if err := d.configureSurface(); err != nil {
		log.Printf("[Renderer] surface configuration failed: %v", err)
		d.renderPassDescriptor = nil
	}
}

func (d *wgpuDevice) Release() {
	d.mu.Lock()
	defer d.mu.Unlock()

	for key, tex := range d.textures {
		tex.release()
		delete(d.textures, key)
	}
	for i, p := range d.pipelines {
		if p != nil {
			p.Release()
			d.pipelines[i] = nil
		}
	}
	d.releaseAttachments()
	if d.vertexBuffer != nil {
		d.vertexBuffer.Release()
		d.vertexBuffer = nil
	}
	if d.sampler != nil {
		d.sampler.Release()
		d.sampler = nil
	}
	if d.textureLayout != nil {
		d.textureLayout.Release()
		d.textureLayout = nil
	}
	if d.queue != nil {
		d.queue.Release()
		d.queue = nil
	}
	if d.device != nil {
		d.device.Release()
		d.device = nil
	}
	if d.adapter != nil {
		d.adapter.Release()
		d.adapter = nil
	}
	if d.surface != nil {
		d.surface.Release()
		d.surface = nil
	}
	if d.instance != nil {
		d.instance.Release()
		d.instance = nil
	}
}

// configureSurface (re)configures the swapchain and recreates the MSAA and depth attachments.
// Must be called with d.mu held.
func (d *wgpuDevice) configureSurface() error {
	presentMode := wgpu.PresentModeFifo
	if d.presentMode == PresentModeUncapped {
		presentMode = wgpu.PresentModeImmediate
	}
	capabilities := d.surface.GetCapabilities(d.adapter)
	d.surface.Configure(d.adapter, d.device, &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      d.surfaceFormat,
		Width:       uint32(d.width),
		Height:      uint32(d.height),
		PresentMode: presentMode,
		AlphaMode:   capabilities.AlphaModes[0],
	})

	d.releaseAttachments()
	count := uint32(d.sampleCount)
	msaaEnabled := count > 1
	size := wgpu.Extent3D{
		Width:              uint32(d.width),
		Height:             uint32(d.height),
		DepthOrArrayLayers: 1,
	}

	var err error
	if msaaEnabled {
		d.msaaTexture, err = d.device.CreateTexture(&wgpu.TextureDescriptor{
			Label:         "MSAA Texture",
			Size:          size,
			MipLevelCount: 1,
			SampleCount:   count,
			Dimension:     wgpu.TextureDimension2D,
			Format:        d.surfaceFormat,
			Usage:         wgpu.TextureUsageRenderAttachment,
		})
		if err != nil {
			return err
		}
		d.msaaTextureView, err = d.msaaTexture.CreateView(nil)
		if err != nil {
			return err
		}
	}

	d.depthTexture, err = d.device.CreateTexture(&wgpu.TextureDescriptor{
		Label:         "Depth Texture",
		Size:          size,
		MipLevelCount: 1,
		SampleCount:   count,
		Dimension:     wgpu.TextureDimension2D,
		Format:        wgpu.TextureFormatDepth24Plus,
		Usage:         wgpu.TextureUsageRenderAttachment,
	})
	if err != nil {
		return err
	}
	d.depthTextureView, err = d.depthTexture.CreateView(nil)
	if err != nil {
		return err
	}

	storeOp := wgpu.StoreOpStore
	if msaaEnabled {
		storeOp = wgpu.StoreOpDiscard
	}
	d.renderPassDescriptor = &wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{
			{
				View:       d.msaaTextureView,
				LoadOp:     wgpu.LoadOpClear,
				StoreOp:    storeOp,
				ClearValue: wgpu.Color{R: 0, G: 0, B: 0, A: 1},
			},
		},
		DepthStencilAttachment: &wgpu.RenderPassDepthStencilAttachment{
			View:            d.depthTextureView,
			DepthLoadOp:     wgpu.LoadOpClear,
			DepthStoreOp:    wgpu.StoreOpDiscard,
			DepthClearValue: 1.0,
		},
	}
	return nil
}

func (d *wgpuDevice) releaseAttachments() {
	if d.msaaTextureView != nil {
		d.msaaTextureView.Release()
		d.msaaTextureView = nil
	}
	if d.msaaTexture != nil {
		d.msaaTexture.Release()
		d.msaaTexture = nil
	}
	if d.depthTextureView != nil {
		d.depthTextureView.Release()
		d.depthTextureView = nil
	}
	if d.depthTexture != nil {
		d.depthTexture.Release()
		d.depthTexture = nil
	}
}

// createPipelines builds every pipeline the device draws with.
func (d *wgpuDevice) createPipelines() error {
	colorModule, err := d.device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          "color.wgsl",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: colorShaderSource},
	})
	if err != nil {
		return fmt.Errorf("create color shader: %w", err)
	}
	defer colorModule.Release()

	texturedModule, err := d.device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          "textured.wgsl",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: texturedShaderSource},
	})
	if err != nil {
		return fmt.Errorf("create textured shader: %w", err)
	}
	defer texturedModule.Release()

	d.textureLayout, err = d.device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "Image Bind Group Layout",
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: wgpu.ShaderStageFragment,
				Texture: wgpu.TextureBindingLayout{
					SampleType:    wgpu.TextureSampleTypeFloat,
					ViewDimension: wgpu.TextureViewDimension2D,
				},
			},
			{
				Binding:    1,
				Visibility: wgpu.ShaderStageFragment,
				Sampler: wgpu.SamplerBindingLayout{
					Type: wgpu.SamplerBindingTypeFiltering,
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("create image bind group layout: %w", err)
	}

	d.sampler, err = d.device.CreateSampler(&wgpu.SamplerDescriptor{
		Label:         "Image Sampler",
		AddressModeU:  wgpu.AddressModeClampToEdge,
		AddressModeV:  wgpu.AddressModeClampToEdge,
		AddressModeW:  wgpu.AddressModeClampToEdge,
		MagFilter:     wgpu.FilterModeLinear,
		MinFilter:     wgpu.FilterModeLinear,
		MipmapFilter:  wgpu.MipmapFilterModeLinear,
		LodMinClamp:   0,
		LodMaxClamp:   32,
		MaxAnisotropy: 1,
	})
	if err != nil {
		return fmt.Errorf("create image sampler: %w", err)
	}

	colorLayout, err := d.device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label: "Color Pipeline Layout",
	})
	if err != nil {
		return err
	}
	defer colorLayout.Release()

	texturedLayout, err := d.device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            "Textured Pipeline Layout",
		BindGroupLayouts: []*wgpu.BindGroupLayout{d.textureLayout},
	})
	if err != nil {
		return err
	}
	defer texturedLayout.Release()

	alphaBlend := &wgpu.BlendState{
		Color: wgpu.BlendComponent{
			SrcFactor: wgpu.BlendFactorSrcAlpha,
			DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
			Operation: wgpu.BlendOperationAdd,
		},
		Alpha: wgpu.BlendComponent{
			SrcFactor: wgpu.BlendFactorOne,
			DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
			Operation: wgpu.BlendOperationAdd,
		},
	}
	premultipliedBlend := &wgpu.BlendState{
		Color: wgpu.BlendComponent{
			SrcFactor: wgpu.BlendFactorOne,
			DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
			Operation: wgpu.BlendOperationAdd,
		},
		Alpha: wgpu.BlendComponent{
			SrcFactor: wgpu.BlendFactorOne,
			DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
			Operation: wgpu.BlendOperationAdd,
		},
	}

	specs := [pipelineCount]pipelineSpec{
		pipeLinesDepth:      {label: "Lines Depth", topology: wgpu.PrimitiveTopologyLineList, depthTest: true, depthWrite: true, writeMask: wgpu.ColorWriteMaskAll, blend: alphaBlend},
		pipeLinesFlat:       {label: "Lines", topology: wgpu.PrimitiveTopologyLineList, writeMask: wgpu.ColorWriteMaskAll, blend: alphaBlend},
		pipeFill:            {label: "Fill", topology: wgpu.PrimitiveTopologyTriangleList, writeMask: wgpu.ColorWriteMaskAll, blend: alphaBlend},
		pipeClearColor:      {label: "Clear Color", topology: wgpu.PrimitiveTopologyTriangleList, writeMask: wgpu.ColorWriteMaskAll},
		pipeClearColorDepth: {label: "Clear Color Depth", topology: wgpu.PrimitiveTopologyTriangleList, depthWrite: true, writeMask: wgpu.ColorWriteMaskAll},
		pipeClearDepth:      {label: "Clear Depth", topology: wgpu.PrimitiveTopologyTriangleList, depthWrite: true, writeMask: wgpu.ColorWriteMaskNone},
		pipeTextured:        {label: "Textured", topology: wgpu.PrimitiveTopologyTriangleList, writeMask: wgpu.ColorWriteMaskAll, blend: premultipliedBlend, textured: true},
	}
	for kind, spec := range specs {
		module, layout, entry := colorModule, colorLayout, "fs_color"
		if spec.textured {
			module, layout, entry = texturedModule, texturedLayout, "fs_textured"
		}
		p, err := d.createPipeline(spec, module, layout, entry)
		if err != nil {
			return fmt.Errorf("create %s pipeline: %w", spec.label, err)
		}
		d.pipelines[kind] = p
	}
	return nil
}

type pipelineSpec struct {
	label      string
	topology   wgpu.PrimitiveTopology
	depthTest  bool
	depthWrite bool
	writeMask  wgpu.ColorWriteMask
	blend      *wgpu.BlendState
	textured   bool
}

func (d *wgpuDevice) createPipeline(spec pipelineSpec, module *wgpu.ShaderModule, layout *wgpu.PipelineLayout, fragmentEntry string) (*wgpu.RenderPipeline, error) {
	depthCompare := wgpu.CompareFunctionLess
	if !spec.depthTest {
		depthCompare = wgpu.CompareFunctionAlways
	}
	return d.device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  spec.label + " Render Pipeline",
		Layout: layout,
		Vertex: wgpu.VertexState{
			Module:     module,
			EntryPoint: "vs_main",
			Buffers: []wgpu.VertexBufferLayout{
				{
					ArrayStride: vertexStride,
					StepMode:    wgpu.VertexStepModeVertex,
					Attributes: []wgpu.VertexAttribute{
						{Format: wgpu.VertexFormatFloat32x4, Offset: 0, ShaderLocation: 0},
						{Format: wgpu.VertexFormatFloat32x4, Offset: 16, ShaderLocation: 1},
						{Format: wgpu.VertexFormatFloat32x2, Offset: 32, ShaderLocation: 2},
					},
				},
			},
		},
		Fragment: &wgpu.FragmentState{
			Module:     module,
			EntryPoint: fragmentEntry,
			Targets: []wgpu.ColorTargetState{
				{
					Format:    d.surfaceFormat,
					WriteMask: spec.writeMask,
					Blend:     spec.blend,
				},
			},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  spec.topology,
			FrontFace: wgpu.FrontFaceCCW,
			CullMode:  wgpu.CullModeNone,
		},
		Multisample: wgpu.MultisampleState{
			Count: uint32(d.sampleCount),
			Mask:  0xFFFFFFFF,
		},
		DepthStencil: &wgpu.DepthStencilState{
			Format:            wgpu.TextureFormatDepth24Plus,
			DepthWriteEnabled: spec.depthWrite,
			DepthCompare:      depthCompare,
			StencilFront: wgpu.StencilFaceState{
				Compare: wgpu.CompareFunctionAlways,
			},
			StencilBack: wgpu.StencilFaceState{
				Compare: wgpu.CompareFunctionAlways,
			},
		},
	})
}

// createTexture allocates a sampled texture and its bind group. Must be called with d.mu held.
func (d *wgpuDevice) createTexture(key string, width, height uint32) (*deviceTexture, error) {
	tex, err := d.device.CreateTexture(&wgpu.TextureDescriptor{
		Label:     key + " Texture",
		Usage:     wgpu.TextureUsageTextureBinding | wgpu.TextureUsageCopyDst,
		Dimension: wgpu.TextureDimension2D,
		Size: wgpu.Extent3D{
			Width:              width,
			Height:             height,
			DepthOrArrayLayers: 1,
		},
		Format:        d.textureFormat,
		MipLevelCount: 1,
		SampleCount:   1,
	})
	if err != nil {
		return nil, err
	}
	out := &deviceTexture{texture: tex, width: width, height: height}

	out.view, err = tex.CreateView(nil)
	if err != nil {
		out.release()
		return nil, err
	}
	out.bindGroup, err = d.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  key + " Bind Group",
		Layout: d.textureLayout,
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, TextureView: out.view},
			{Binding: 1, Sampler: d.sampler},
		},
	})
	if err != nil {
		out.release()
		return nil, err
	}
	return out, nil
}

// ensureVertexBuffer grows the vertex buffer to hold size bytes. Must be called with d.mu held.
func (d *wgpuDevice) ensureVertexBuffer(size uint64) error {
	if d.vertexBuffer != nil && d.vertexBufferCap >= size {
		return nil
	}
	capacity := uint64(64 * 1024)
	for capacity < size {
		capacity *= 2
	}
	if d.vertexBuffer != nil {
		d.vertexBuffer.Release()
	}
	buf, err := d.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "Frame Vertex Buffer",
		Size:  capacity,
		Usage: wgpu.BufferUsageVertex | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		d.vertexBuffer = nil
		d.vertexBufferCap = 0
		return fmt.Errorf("create vertex buffer: %w", err)
	}
	d.vertexBuffer = buf
	d.vertexBufferCap = capacity
	return nil
}

// localToNDC converts a viewport-local top-left rectangle to normalized device coordinates
// returned as left, top, right, bottom.
func (d *wgpuDevice) localToNDC(r image.Rectangle) ([4]float32, bool) {
	vw, vh := float32(d.viewport.W), float32(d.viewport.H)
	if vw <= 0 || vh <= 0 || r.Empty() {
		return [4]float32{}, false
	}
	return [4]float32{
		2*float32(r.Min.X)/vw - 1,
		1 - 2*float32(r.Min.Y)/vh,
		2*float32(r.Max.X)/vw - 1,
		1 - 2*float32(r.Max.Y)/vh,
	}, true
}

// appendQuad appends two triangles covering ndc (left, top, right, bottom) at depth z.
// uv is given as u0, v0, u1, v1.
func (d *wgpuDevice) appendQuad(kind pipelineKind, key string, ndc [4]float32, z float32, col [4]float32, uv [4]float32) {
	l, t, r, b := ndc[0], ndc[1], ndc[2], ndc[3]
	tl := vertex{pos: [4]float32{l, t, z, 1}, color: col, uv: [2]float32{uv[0], uv[1]}}
	tr := vertex{pos: [4]float32{r, t, z, 1}, color: col, uv: [2]float32{uv[2], uv[1]}}
	bl := vertex{pos: [4]float32{l, b, z, 1}, color: col, uv: [2]float32{uv[0], uv[3]}}
	br := vertex{pos: [4]float32{r, b, z, 1}, color: col, uv: [2]float32{uv[2], uv[3]}}
	d.appendVertices(kind, key, []vertex{tl, bl, tr, tr, bl, br})
}

// appendVertices records verts, extending the previous batch when pipeline, viewport and texture match.
func (d *wgpuDevice) appendVertices(kind pipelineKind, key string, verts []vertex) {
	first := uint32(len(d.vertices))
	d.vertices = append(d.vertices, verts...)
	if n := len(d.batches); n > 0 {
		last := &d.batches[n-1]
		if last.kind == kind && last.key == key && last.viewport == d.viewport && last.first+last.count == first {
			last.count += uint32(len(verts))
			return
		}
	}
	d.batches = append(d.batches, batch{
		kind:     kind,
		viewport: d.viewport,
		first:    first,
		count:    uint32(len(verts)),
		key:      key,
	})
}

// vertexColor converts an 8-bit sRGB color to the shader's color space.
func (d *wgpuDevice) vertexColor(c common.Color) [4]float32 {
	f := c.Float()
	if d.linearOutput {
		for i := 0; i < 3; i++ {
			f[i] = srgbToLinear(f[i])
		}
	}
	return f
}

func srgbToLinear(v float32) float32 {
	if v <= 0.04045 {
		return v / 12.92
	}
	return float32(math.Pow((float64(v)+0.055)/1.055, 2.4))
}

func isSrgbFormat(f wgpu.TextureFormat) bool {
	switch f {
	case wgpu.TextureFormatRGBA8UnormSrgb, wgpu.TextureFormatBGRA8UnormSrgb:
		return true
	}
	return false
}

// intersect clips a to b; both use the same origin.
func intersect(a, b common.PixelRect) common.PixelRect {
	r := a.Rectangle().Intersect(b.Rectangle())
	return common.PixelRect{X: r.Min.X, Y: r.Min.Y, W: r.Dx(), H: r.Dy()}
}
