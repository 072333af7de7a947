// Package rastermesh turns georeferenced raster grids into GPU-ready
// triangle meshes.
//
// # Overview
//
// A raster band (a DEM, a temperature field, any regular grid of samples)
// is converted into two flat vertex streams: float32 positions on an
// integer lattice and premultiplied RGBA colors from a color scale. The
// streams are drawn as a triangle list, or as a line strip in wireframe
// mode, by the layer package. Projection to the map happens in the vertex
// shader, so the mesh does not depend on the camera.
//
// # Quick Start
//
//	snap, err := source.LoadBand(ctx, "dem.json", 0)
//	if err != nil {
//	    return err
//	}
//	mesh, err := rastermesh.Build(ctx, snap.Request(rastermesh.DefaultStyle()))
//	if err != nil {
//	    return err
//	}
//	fmt.Println(mesh.VertexCount, mesh.Topology)
//
// # Pipeline
//
//	Grid + RenderStyle + domain/stops
//	        |
//	   ColorMapper          sample value -> RGBA
//	        |
//	   tessellate           cell -> 6 (solid) or 10 (wireframe) vertices
//	        |
//	   MeshBuffers          Positions []float32, Colors []float32
//	        |
//	   layer.Layer          GPU buffers, pipelines, draw
//
// Corner colors are shared: with Interpolated set, every corner averages
// the up to four cells touching it, so adjacent cells meet without seams.
// No-data cells produce fully transparent vertices; with InterpolateBounds
// set they are left out of corner averages instead.
//
// # Asynchronous Builds
//
// Build is a pure function and may run on any goroutine. Builder wraps an
// Executor (Inline or WorkerPool) and stamps each request with an
// increasing sequence number. The newest result wins: layer.Layer ignores
// results older than the mesh it holds, and keeps its mesh when a build
// fails.
//
//	pool := rastermesh.NewWorkerPool(0)
//	defer pool.Close()
//	b := rastermesh.NewBuilder(pool)
//	defer b.Close()
//
//	b.Request(ctx, req)
//	for res := range b.Results() {
//	    lyr.Apply(res)
//	}
//
// # Logging
//
// rastermesh is silent by default. Call SetLogger with a *slog.Logger to
// see build timings and layer lifecycle events.
//
// # Subpackages
//
//   - source: decoded raster input (JSON files, HTTP) and band selection
//   - layer: GPU state machine drawing meshes through wgpu HAL
//   - preview: CPU rasterization of meshes to images, for debugging
package rastermesh
