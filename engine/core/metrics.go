package core

const AVG_COUNT int = 30

// frameSamples is satisfied by containers.RingQueue[float64]. The interface
// keeps core free of an import cycle with containers.
type frameSamples interface {
	Push(value float64)
	Each(fn func(float64))
	Len() int
}

// RenderMetrics accumulates per-frame render statistics and a rolling
// average of frame times.
type RenderMetrics struct {
	samples            frameSamples
	MSavg              float64
	Frames             int32
	AccumulatedFrameMS float64
	FPS                float64

	// Counters for the frame currently being recorded.
	DrawCalls      int
	ShaderSwitches int
	TextureBinds   int
	TextureReuses  int

	// Counters of the last completed frame.
	LastDrawCalls      int
	LastShaderSwitches int
	LastTextureBinds   int
	LastTextureReuses  int
}

// NewRenderMetrics creates metrics that average frame times over the given sample window.
func NewRenderMetrics(samples frameSamples) *RenderMetrics {
	return &RenderMetrics{samples: samples}
}

// AddDrawCalls records draw calls and shader switches issued during the frame.
func (m *RenderMetrics) AddDrawCalls(drawCalls, shaderSwitches int) {
	m.DrawCalls += drawCalls
	m.ShaderSwitches += shaderSwitches
}

// AddTextureStats records texture bind and reuse counts for the frame.
func (m *RenderMetrics) AddTextureStats(binds, reuses int) {
	m.TextureBinds += binds
	m.TextureReuses += reuses
}

// Update closes the current frame. frameElapsedTime is in seconds.
func (m *RenderMetrics) Update(frameElapsedTime float64) {
	// Calculate frame ms average
	frameMS := frameElapsedTime * 1000.0
	m.samples.Push(frameMS)
	total := 0.0
	m.samples.Each(func(v float64) { total += v })
	m.MSavg = total / float64(m.samples.Len())

	// Calculate Frames per second.
	m.AccumulatedFrameMS += frameMS
	if m.AccumulatedFrameMS > 1000 {
		m.FPS = float64(m.Frames)
		m.AccumulatedFrameMS -= 1000
		m.Frames = 0
	}

	// Count all Frames.
	m.Frames++

	m.LastDrawCalls, m.DrawCalls = m.DrawCalls, 0
	m.LastShaderSwitches, m.ShaderSwitches = m.ShaderSwitches, 0
	m.LastTextureBinds, m.TextureBinds = m.TextureBinds, 0
	m.LastTextureReuses, m.TextureReuses = m.TextureReuses, 0
}

func (m *RenderMetrics) FrameTime() float64 {
	return m.MSavg
}

func (m *RenderMetrics) Frame() (float64, float64) {
	return m.FPS, m.MSavg
}
