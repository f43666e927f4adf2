// Package profiler logs frame rate, Go heap and process statistics at a fixed interval.
package profiler

import (
	"log"
	"os"
	"runtime"
	"time"

	"github.com/shirou/gopsutil/v3/process"
)

// Sample is one interval's worth of statistics.
type Sample struct {
	FPS         float64
	HeapMB      float64
	AllocRateMB float64
	NumGC       uint32
	LastPauseUs uint64
	MaxPauseUs  uint64
	SysMB       float64

	// RSSMB and CPUPercent come from the OS and are zero when it cannot report them.
	RSSMB      float64
	CPUPercent float64
}

// Profiler tracks frame rate and memory statistics for performance monitoring.
type Profiler struct {
	frameCount     int
	lastTime       time.Time
	updateInterval time.Duration
	now            func() time.Time
	proc           *process.Process
	memStats       runtime.MemStats
	lastGCCount    uint32
	lastTotalAlloc uint64
	last           Sample
}

// ProfilerOption is a functional option for configuring a Profiler.
type ProfilerOption func(*Profiler)

// WithInterval sets how often statistics are sampled and logged. Defaults to 1 second.
//
// Parameters:
//   - d: the interval (ignored if not positive)
//
// Returns:
//   - ProfilerOption: option function to apply
func WithInterval(d time.Duration) ProfilerOption {
	return func(p *Profiler) {
		if d > 0 {
			p.updateInterval = d
		}
	}
}

// WithTimeSource replaces time.Now, for tests.
//
// Parameters:
//   - now: the clock
//
// Returns:
//   - ProfilerOption: option function to apply
func WithTimeSource(now func() time.Time) ProfilerOption {
	return func(p *Profiler) {
		p.now = now
	}
}

// NewProfiler creates a profiler for the current process.
//
// Parameters:
//   - options: functional options to configure the profiler
//
// Returns:
//   - *Profiler: the newly created profiler instance
func NewProfiler(options ...ProfilerOption) *Profiler {
	p := &Profiler{
		updateInterval: time.Second,
		now:            time.Now,
	}
	for _, option := range options {
		option(p)
	}
	p.lastTime = p.now()

	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		log.Printf("[Profiler] process stats unavailable: %v", err)
	} else {
		p.proc = proc
	}
	return p
}

// Tick should be called once per frame. When the interval has elapsed it samples and logs statistics.
//
// Returns:
//   - bool: true if stats were logged this tick, false otherwise
func (p *Profiler) Tick() bool {
	p.frameCount++
	currentTime := p.now()
	elapsed := currentTime.Sub(p.lastTime)
	if elapsed < p.updateInterval {
		return false
	}

	s := p.sample(elapsed)
	log.Printf("[Profiler] FPS: %.2f | Heap: %.2f MB | Alloc Rate: %.2f MB/s | GC: %d (last: %d µs, max: %d µs) | Sys: %.2f MB | RSS: %.2f MB | CPU: %.1f%%",
		s.FPS, s.HeapMB, s.AllocRateMB, s.NumGC, s.LastPauseUs, s.MaxPauseUs, s.SysMB, s.RSSMB, s.CPUPercent)

	p.last = s
	p.frameCount = 0
	p.lastTime = currentTime
	return true
}

// Last returns the most recently logged sample.
//
// Returns:
//   - Sample: the sample, zero before the first interval elapses
func (p *Profiler) Last() Sample {
	return p.last
}

func (p *Profiler) sample(elapsed time.Duration) Sample {
	runtime.ReadMemStats(&p.memStats)
	s := Sample{
		FPS:    float64(p.frameCount) / elapsed.Seconds(),
		HeapMB: float64(p.memStats.Alloc) / 1024 / 1024,
		SysMB:  float64(p.memStats.Sys) / 1024 / 1024,
		NumGC:  p.memStats.NumGC,
	}
	allocDelta := p.memStats.TotalAlloc - p.lastTotalAlloc
	s.AllocRateMB = float64(allocDelta) / 1024 / 1024 / elapsed.Seconds()

	// PauseNs is a circular buffer of the last 256 pauses.
	if gcCount := s.NumGC; gcCount > 0 {
		s.LastPauseUs = p.memStats.PauseNs[(gcCount-1)%256] / 1000
		startIdx := p.lastGCCount
		if gcCount-startIdx > 256 {
			startIdx = gcCount - 256
		}
		for i := startIdx; i < gcCount; i++ {
			s.MaxPauseUs = max(s.MaxPauseUs, p.memStats.PauseNs[i%256]/1000)
		}
	}
	p.lastGCCount = s.NumGC
	p.lastTotalAlloc = p.memStats.TotalAlloc

	if p.proc != nil {
		if mem, err := p.proc.MemoryInfo(); err == nil {
			s.RSSMB = float64(mem.RSS) / 1024 / 1024
		}
		if cpu, err := p.proc.CPUPercent(); err == nil {
			s.CPUPercent = cpu
		}
	}
	return s
}
