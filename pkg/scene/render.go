package scene

import (
	"fmt"
	"math"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/yoshipbr/yoshigo/pkg/core"
	"github.com/yoshipbr/yoshigo/pkg/integrator"
)

// RenderMode selects what a render's pixel loop writes: linear radiance,
// a normal visualization, or a depth buffer (§6/§7).
type RenderMode int

const (
	RenderModeRegular RenderMode = iota
	RenderModeNormals
	RenderModeDepth
)

// RenderInput is the plain, caller-constructed configuration a render
// reads once at BeginWork; there is no config file or CLI in the core.
type RenderInput struct {
	PixelCountX, PixelCountY int
	SamplesPerPixel          int
	MaxBounceCount           int

	FovY float64 // radians, one-sided (half-angle)

	EyePosition    core.Vec3
	EyeOrientation core.Quat

	Mode RenderMode

	// SampleLight/SampleBRDF select which surface-sampling MIS strategies
	// run; both false is treated as both true (§5.6).
	SampleLight bool
	SampleBRDF  bool
}

// Pixel is one entry of a render's output buffer: an accumulated radiance
// (or normal/depth encoding, per RenderMode) plus a null flag that stays
// true until the pixel's first sample lands.
type Pixel struct {
	Value core.Vec3
	Null  bool
}

// RenderState is a render's lifecycle state (§4).
type RenderState int32

const (
	RenderPending RenderState = iota
	RenderInitialized
	RenderWorking
	RenderFinished
	RenderTerminated
)

// Render owns a pixel array, the render input, a worker goroutine, and an
// interrupt lock (sync.RWMutex) guarding consistent intermediate snapshots
// of the pixel array while the worker is writing to it.
type Render struct {
	id    uuid.UUID
	scene *Scene
	input RenderInput

	mu     sync.RWMutex
	pixels []Pixel

	state atomic.Int32
	done  chan struct{}
}

func newRender(s *Scene, input RenderInput) *Render {
	if input.PixelCountX <= 0 || input.PixelCountY <= 0 {
		panic("scene: render input must have positive pixel counts")
	}
	r := &Render{
		id:     uuid.New(),
		scene:  s,
		input:  input,
		pixels: make([]Pixel, input.PixelCountX*input.PixelCountY),
		done:   make(chan struct{}),
	}
	for i := range r.pixels {
		r.pixels[i].Null = true
	}
	r.state.Store(int32(RenderPending))
	return r
}

func (r *Render) stateValue() RenderState {
	return RenderState(r.state.Load())
}

// Terminate asynchronously transitions the render to RenderTerminated; the
// pixel loop checks state at row and column granularity and bails.
func (r *Render) Terminate() {
	r.state.CompareAndSwap(int32(RenderWorking), int32(RenderTerminated))
	r.state.CompareAndSwap(int32(RenderInitialized), int32(RenderTerminated))
	r.state.CompareAndSwap(int32(RenderPending), int32(RenderTerminated))
}

// beginWork spawns the worker goroutine that runs the pixel loop.
func (r *Render) beginWork() {
	if !r.state.CompareAndSwap(int32(RenderPending), int32(RenderInitialized)) {
		panic("scene: render already started")
	}
	go func() {
		r.state.Store(int32(RenderWorking))
		runPixelLoop(r)
		r.state.CompareAndSwap(int32(RenderWorking), int32(RenderFinished))
		close(r.done)
	}()
}

// snapshot copies the current pixel buffer under the interrupt lock, safe
// to call concurrently with the worker mid-render.
func (r *Render) snapshot() []Pixel {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Pixel, len(r.pixels))
	copy(out, r.pixels)
	return out
}

func (r *Render) writePixel(idx int, p Pixel) {
	r.mu.Lock()
	r.pixels[idx] = p
	r.mu.Unlock()
}

// wait blocks until the render's worker goroutine has exited (finished or
// terminated), matching Destroy's requirement to join before freeing.
func (r *Render) wait() {
	<-r.done
}

// runPixelLoop drives the row-major per-pixel sampling loop (§5.7),
// parallelized across rows via the scene's job system. Work proceeds
// row-major; ParallelFor hands out ranges of rows (up to 256 rows per job)
// and a terminated render bails at row and column granularity.
func runPixelLoop(r *Render) {
	width, height := r.input.PixelCountX, r.input.PixelCountY
	aspect := float64(width) / float64(height)
	tanFovY := math.Tan(r.input.FovY)

	halfExtentX := tanFovY * aspect / float64(width)
	halfExtentY := tanFovY / float64(height)

	r.scene.jobs.ParallelFor(height, func(beginRow, endRow int) {
		for i := beginRow; i < endRow; i++ {
			if r.stateValue() == RenderTerminated {
				return
			}
			yFrac := 1 - 2*float64(i+1)/float64(height)
			yMid := tanFovY * yFrac

			sampler := core.NewRandomSampler(uint64(i)+1, uint64(r.input.SamplesPerPixel)+7)

			for j := 0; j < width; j++ {
				if r.stateValue() == RenderTerminated {
					return
				}
				xFrac := 2*float64(j+1)/float64(width) - 1
				xMid := tanFovY * aspect * xFrac

				p := samplePixel(r.scene, r.input, xMid, yMid, halfExtentX, halfExtentY, sampler)
				r.writePixel(i*width+j, p)
			}
		}
	})
}

// samplePixel draws SamplesPerPixel camera rays jittered by up to one pixel
// extent around (xMid, yMid) and averages their per-mode contribution.
func samplePixel(s *Scene, input RenderInput, xMid, yMid, halfExtentX, halfExtentY float64, sampler core.Sampler) Pixel {
	var sum core.Vec3
	spp := input.SamplesPerPixel
	if spp <= 0 {
		spp = 1
	}

	for n := 0; n < spp; n++ {
		jx, jy := sampler.Get2D()
		x := xMid + (jx*2-1)*halfExtentX
		y := yMid + (jy*2-1)*halfExtentY

		dirView := core.NewVec3(x, y, -1)
		dirWorld := input.EyeOrientation.RotateVec3(dirView)
		ray := core.NewRay(input.EyePosition, dirWorld)

		hit, ok := s.RayCastClosest(ray, math.MaxFloat64)

		switch input.Mode {
		case RenderModeNormals:
			if ok {
				sum = sum.Add(hit.Normal.Add(core.NewVec3(1, 1, 1)).Multiply(0.5))
			}
		case RenderModeDepth:
			if ok {
				dist := hit.T * dirWorld.Length()
				sum = sum.Add(core.NewVec3(dist, dist, dist))
			} else {
				sum = sum.Add(core.NewVec3(-1, -1, -1))
			}
		default:
			if ok {
				unitDir, safe := dirWorld.SafeNormalize()
				if !safe {
					continue
				}
				surf := integrator.SurfaceData{
					ShapeID:  hit.ShapeID,
					Material: hit.Material,
					Point:    hit.Point,
					Normal:   hit.Normal,
					Tangent:  hit.Tangent,
					Incoming: unitDir.Negate(),
				}
				l := integrator.SampleRadiance(s, surf, 0, input.MaxBounceCount, input.SampleLight, input.SampleBRDF, sampler)
				sum = sum.Add(l)
			}
		}
	}

	return Pixel{Value: sum.Multiply(1 / float64(spp)), Null: false}
}

func (r RenderState) String() string {
	switch r {
	case RenderPending:
		return "pending"
	case RenderInitialized:
		return "initialized"
	case RenderWorking:
		return "working"
	case RenderFinished:
		return "finished"
	case RenderTerminated:
		return "terminated"
	default:
		return fmt.Sprintf("RenderState(%d)", int32(r))
	}
}
