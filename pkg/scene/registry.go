package scene

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/yoshipbr/yoshigo/pkg/core"
)

// registry is the process-singleton scene table backing Scene_Create's
// opaque handles. Per DESIGN.md (following §10's design note), ownership
// is handed to the caller via the returned uuid.UUID; the registry itself
// only exists so the flat Scene_* functions below don't need a Scene
// pointer threaded through every call, mirroring the original source's
// free-function external interface (§6/§7).
var registry = struct {
	mu     sync.Mutex
	scenes map[uuid.UUID]*Scene
}{scenes: make(map[uuid.UUID]*Scene)}

func lookupScene(id uuid.UUID) *Scene {
	registry.mu.Lock()
	defer registry.mu.Unlock()
	s, ok := registry.scenes[id]
	if !ok {
		panic(fmt.Sprintf("scene: unknown scene id %s", id))
	}
	return s
}

// Scene_Create builds a Scene from def and registers it, returning an
// opaque handle. workerCount is forwarded to the scene's job system (0 =
// GOMAXPROCS); log may be nil for a no-op logger.
func Scene_Create(def SceneDef, workerCount int, log core.Logger) uuid.UUID {
	s := NewScene(def, workerCount, log)
	id := uuid.New()

	registry.mu.Lock()
	registry.scenes[id] = s
	registry.mu.Unlock()

	return id
}

// Scene_Destroy tears down the job system backing id's scene and removes
// it from the registry. Panics (a usage error, per §8) if id is unknown or
// if any render belonging to the scene is still live.
func Scene_Destroy(id uuid.UUID) {
	registry.mu.Lock()
	s, ok := registry.scenes[id]
	if !ok {
		registry.mu.Unlock()
		panic(fmt.Sprintf("scene: unknown scene id %s", id))
	}
	delete(registry.scenes, id)
	registry.mu.Unlock()

	s.rendersMu.Lock()
	live := len(s.renders)
	s.rendersMu.Unlock()
	if live != 0 {
		panic(fmt.Sprintf("scene: destroying scene %s with %d live render(s)", id, live))
	}

	s.jobs.Shutdown()
}

// Scene_GetBVHDepth returns the scene's BVH depth.
func Scene_GetBVHDepth(id uuid.UUID) int {
	return lookupScene(id).BVHDepth()
}

// Scene_Render performs a blocking render: it creates a render, runs it to
// completion, copies out the final buffer, and destroys the render before
// returning. This is the synchronous convenience wrapper around the async
// Scene_CreateRender/BeginWork/.../DestroyRender family below.
func Scene_Render(sceneID uuid.UUID, input RenderInput) []Pixel {
	renderID := Scene_CreateRender(sceneID, input)
	defer Scene_DestroyRender(sceneID, renderID)

	Scene_BeginWork(sceneID, renderID)
	return Scene_GetFinalOutput(sceneID, renderID)
}

// Scene_CreateRender allocates a new render against sceneID's pixel pool,
// in state RenderPending, and returns its handle.
func Scene_CreateRender(sceneID uuid.UUID, input RenderInput) uuid.UUID {
	s := lookupScene(sceneID)
	r := newRender(s, input)

	s.rendersMu.Lock()
	s.renders[r.id] = r
	s.rendersMu.Unlock()

	return r.id
}

func lookupRender(sceneID, renderID uuid.UUID) (*Scene, *Render) {
	s := lookupScene(sceneID)
	s.rendersMu.Lock()
	r, ok := s.renders[renderID]
	s.rendersMu.Unlock()
	if !ok {
		panic(fmt.Sprintf("scene: unknown render id %s", renderID))
	}
	return s, r
}

// Scene_BeginWork spawns the render's worker goroutine.
func Scene_BeginWork(sceneID, renderID uuid.UUID) {
	_, r := lookupRender(sceneID, renderID)
	r.beginWork()
}

// Scene_GetIntermediateOutput returns a consistent snapshot of the render's
// pixel buffer, safe to call while the worker is still writing to it.
func Scene_GetIntermediateOutput(sceneID, renderID uuid.UUID) []Pixel {
	_, r := lookupRender(sceneID, renderID)
	return r.snapshot()
}

// Scene_WorkFinished reports whether the render has finished (naturally or
// via termination).
func Scene_WorkFinished(sceneID, renderID uuid.UUID) bool {
	_, r := lookupRender(sceneID, renderID)
	switch r.stateValue() {
	case RenderFinished, RenderTerminated:
		return true
	default:
		return false
	}
}

// Scene_GetFinalOutput blocks until the render's worker has exited, then
// returns the final pixel buffer.
func Scene_GetFinalOutput(sceneID, renderID uuid.UUID) []Pixel {
	_, r := lookupRender(sceneID, renderID)
	r.wait()
	return r.snapshot()
}

// Scene_TerminateRender asynchronously requests the render stop early.
func Scene_TerminateRender(sceneID, renderID uuid.UUID) {
	_, r := lookupRender(sceneID, renderID)
	r.Terminate()
}

// Scene_DestroyRender joins the render's worker goroutine (terminating it
// first if still running) and removes it from the scene's render pool.
func Scene_DestroyRender(sceneID, renderID uuid.UUID) {
	s, r := lookupRender(sceneID, renderID)
	r.Terminate()
	r.wait()

	s.rendersMu.Lock()
	delete(s.renders, renderID)
	s.rendersMu.Unlock()
}

// DebugDrawVisitor is the out-of-core-scope debug-draw callback interface
// accepted by a future BVH/geometry inspector; the core defines the shape
// of the seam but ships no implementation (§7).
type DebugDrawVisitor interface {
	VisitAABB(min, max core.Vec3)
	VisitTriangle(v0, v1, v2 core.Vec3)
}
