package wgpu

import (
	"fmt"
	"sync"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu"
)

// pipelineKey selects a blit pipeline variant.
type pipelineKey struct {
	format gputypes.TextureFormat
	blend  bool
}

// pipelineCache owns the blit shader, its layouts and samplers, and the
// render pipelines built from them. Pipelines are created on first use.
//
// pipelineCache is safe for concurrent use.
type pipelineCache struct {
	mu sync.Mutex

	device     *wgpu.Device
	shader     *wgpu.ShaderModule
	bindLayout *wgpu.BindGroupLayout
	layout     *wgpu.PipelineLayout
	nearest    *wgpu.Sampler
	linear     *wgpu.Sampler

	pipelines map[pipelineKey]*wgpu.RenderPipeline
}

func newPipelineCache(device *wgpu.Device) (*pipelineCache, error) {
	pc := &pipelineCache{
		device:    device,
		pipelines: make(map[pipelineKey]*wgpu.RenderPipeline),
	}
	if err := pc.init(); err != nil {
		pc.Release()
		return nil, err
	}
	return pc, nil
}

func (pc *pipelineCache) init() error {
	code, err := compileShader(blitShaderWGSL)
	if err != nil {
		return err
	}
	pc.shader, err = pc.device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label: "pixelcopy.blit",
		SPIRV: code,
	})
	if err != nil {
		return fmt.Errorf("wgpu: create shader module: %w", err)
	}

	pc.bindLayout, err = pc.device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "pixelcopy.blit",
		Entries: []gputypes.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: gputypes.ShaderStageFragment,
				Buffer:     &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform},
			},
			{
				Binding:    1,
				Visibility: gputypes.ShaderStageFragment,
				Sampler:    &gputypes.SamplerBindingLayout{Type: gputypes.SamplerBindingTypeFiltering},
			},
			{
				Binding:    2,
				Visibility: gputypes.ShaderStageFragment,
				Texture: &gputypes.TextureBindingLayout{
					SampleType:    gputypes.TextureSampleTypeFloat,
					ViewDimension: gputypes.TextureViewDimension2D,
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("wgpu: create bind group layout: %w", err)
	}

	pc.layout, err = pc.device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            "pixelcopy.blit",
		BindGroupLayouts: []*wgpu.BindGroupLayout{pc.bindLayout},
	})
	if err != nil {
		return fmt.Errorf("wgpu: create pipeline layout: %w", err)
	}

	if pc.nearest, err = pc.createSampler(gputypes.FilterModeNearest); err != nil {
		return err
	}
	if pc.linear, err = pc.createSampler(gputypes.FilterModeLinear); err != nil {
		return err
	}
	return nil
}

func (pc *pipelineCache) createSampler(filter gputypes.FilterMode) (*wgpu.Sampler, error) {
	s, err := pc.device.CreateSampler(&wgpu.SamplerDescriptor{
		Label:        "pixelcopy.sampler." + filter.String(),
		AddressModeU: gputypes.AddressModeClampToEdge,
		AddressModeV: gputypes.AddressModeClampToEdge,
		AddressModeW: gputypes.AddressModeClampToEdge,
		MagFilter:    filter,
		MinFilter:    filter,
		MipmapFilter: gputypes.FilterModeNearest,
		LodMaxClamp:  32,
	})
	if err != nil {
		return nil, fmt.Errorf("wgpu: create %v sampler: %w", filter, err)
	}
	return s, nil
}

// sampler returns the sampler for a quad filter. Undefined means nearest.
func (pc *pipelineCache) sampler(filter gputypes.FilterMode) *wgpu.Sampler {
	if filter == gputypes.FilterModeLinear {
		return pc.linear
	}
	return pc.nearest
}

// pipeline returns the blit pipeline for key, creating it if needed.
func (pc *pipelineCache) pipeline(key pipelineKey) (*wgpu.RenderPipeline, error) {
	pc.mu.Lock()
	defer pc.mu.Unlock()
	if p, ok := pc.pipelines[key]; ok {
		return p, nil
	}

	target := gputypes.ColorTargetState{
		Format:    key.format,
		WriteMask: gputypes.ColorWriteMaskAll,
	}
	if key.blend {
		blend := gputypes.BlendStatePremultiplied()
		target.Blend = &blend
	}
	p, err := pc.device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  fmt.Sprintf("pixelcopy.blit.%v", key.format),
		Layout: pc.layout,
		Vertex: wgpu.VertexState{
			Module:     pc.shader,
			EntryPoint: blitVertexEntry,
		},
		Primitive: gputypes.PrimitiveState{
			Topology: gputypes.PrimitiveTopologyTriangleList,
		},
		Multisample: gputypes.MultisampleState{Count: 1, Mask: ^uint64(0)},
		Fragment: &wgpu.FragmentState{
			Module:     pc.shader,
			EntryPoint: blitFragmentEntry,
			Targets:    []wgpu.ColorTargetState{target},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("wgpu: create blit pipeline for %v: %w", key.format, err)
	}
	pc.pipelines[key] = p
	return p, nil
}

// Release destroys every cached object.
func (pc *pipelineCache) Release() {
	pc.mu.Lock()
	defer pc.mu.Unlock()
	for k, p := range pc.pipelines {
		p.Release()
		delete(pc.pipelines, k)
	}
	if pc.linear != nil {
		pc.linear.Release()
		pc.linear = nil
	}
	if pc.nearest != nil {
		pc.nearest.Release()
		pc.nearest = nil
	}
	if pc.layout != nil {
		pc.layout.Release()
		pc.layout = nil
	}
	if pc.bindLayout != nil {
		pc.bindLayout.Release()
		pc.bindLayout = nil
	}
	if pc.shader != nil {
		pc.shader.Release()
		pc.shader = nil
	}
}
