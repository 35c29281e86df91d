// SPDX-License-Identifier: EPL-2.0

package waveform

import (
	"image"
	"image/draw"
	"runtime"
	"sync"
)

// Waveform renders a scrollable waveform display for one audio file.
// It owns a tile cache and a fixed pool of render workers; viewport
// renders hand back a Task that resolves to the composed image.
type Waveform struct {
	path      string
	processor *Processor
	cache     *SegmentCache
	opts      StripOptions

	mu     sync.Mutex
	jobs   chan *renderJob
	closed bool
	wg     sync.WaitGroup

	peakMu sync.Mutex
	peaks  map[int]float64
}

type renderJob struct {
	key  SegmentKey
	task *Task
}

// New builds a Waveform for path reading decoded audio through chunks,
// initially sized for viewport. Render workers saturate all but one
// CPU so playback stays responsive.
func New(path string, chunks ChunkReader, viewport ViewportContext) *Waveform {
	w := &Waveform{
		path:      path,
		processor: NewProcessor(chunks),
		cache:     NewSegmentCache(viewport),
		jobs:      make(chan *renderJob, 64),
		peaks:     make(map[int]float64),
	}

	workers := runtime.NumCPU() - 1
	if workers < 1 {
		workers = 1
	}
	w.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go w.worker()
	}
	return w
}

func (w *Waveform) worker() {
	defer w.wg.Done()
	for job := range w.jobs {
		w.runJob(job)
	}
}

func (w *Waveform) runJob(job *renderJob) {
	if job.task.cancelled() {
		job.task.Cancel()
		return
	}
	img := w.renderSegment(job.key, job.task)
	job.task.complete(img, nil)
}

// renderSegment processes the 10 second chunk containing the tile and
// cuts the tile's pixel window out of it. The full-chunk strip also
// seeds the amplitude peak used to scale every tile at this zoom
// level, so neighboring tiles agree on vertical scale.
func (w *Waveform) renderSegment(key SegmentKey, task *Task) image.Image {
	opts := w.opts.withDefaults()

	chunkIndex := int(key.StartSeconds / opts.ChunkSeconds)
	chunkStart := float64(chunkIndex) * opts.ChunkSeconds
	chunkWidth := int(opts.ChunkSeconds * float64(key.PixelsPerSecond))

	strip := w.processor.PixelStrip(w.path, chunkIndex, chunkWidth, opts)
	if task.cancelled() {
		return nil
	}

	peak := w.peakFor(key.PixelsPerSecond, strip)

	offset := int((key.StartSeconds - chunkStart) * float64(key.PixelsPerSecond))
	tile := make([]float64, SegmentWidthPx)
	for i := 0; i < SegmentWidthPx && offset+i < len(strip); i++ {
		if offset+i < 0 {
			continue
		}
		tile[i] = strip[offset+i]
	}

	return renderTile(tile, key, PixelScale(key.HeightPx, peak))
}

// peakFor returns the rendering peak for a zoom level, computing it
// from the first full-chunk strip seen at that level.
func (w *Waveform) peakFor(pps int, strip []float64) float64 {
	w.peakMu.Lock()
	defer w.peakMu.Unlock()

	if peak, ok := w.peaks[pps]; ok {
		return peak
	}
	skip := pps / 2
	if skip < 1 {
		skip = 1
	}
	peak := RenderingPeak(strip, skip)
	w.peaks[pps] = peak
	return peak
}

// RenderViewport returns a task resolving to the composed image of the
// visible timeline slice. Tiles come from the cache where possible;
// misses are scheduled on the render pool, and tiles adjacent to the
// viewport are prefetched with the scroll direction favored.
func (w *Waveform) RenderViewport(viewport ViewportContext) *Task {
	w.cache.UpdateViewport(viewport)

	keys := visibleSegments(viewport)
	tasks := make([]*Task, len(keys))
	for i, key := range keys {
		tasks[i] = w.tileTask(key)
	}

	w.prefetch(viewport, keys)

	result := newTask()
	go w.compose(result, viewport, tasks)
	return result
}

// tileTask returns the cached task for key, scheduling a render on a
// miss.
func (w *Waveform) tileTask(key SegmentKey) *Task {
	if task := w.cache.Get(key); task != nil {
		return task
	}

	task := newTask()
	w.cache.Put(key, task)
	w.dispatch(&renderJob{key: key, task: task})
	return task
}

// dispatch hands a job to the pool, falling back to a dedicated
// goroutine when the queue is full so callers never block.
func (w *Waveform) dispatch(job *renderJob) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		job.task.Cancel()
		return
	}
	select {
	case w.jobs <- job:
	default:
		go w.runJob(job)
	}
}

// prefetch schedules tiles beyond the viewport edges, two in the
// scroll direction and one behind.
func (w *Waveform) prefetch(viewport ViewportContext, visible []SegmentKey) {
	if len(visible) == 0 {
		return
	}

	ahead, behind := 2, 1
	if viewport.Direction == ScrollBackward {
		ahead, behind = behind, ahead
	}

	next := visible[len(visible)-1].EndSeconds()
	for i := 0; i < ahead; i++ {
		key := SegmentKey{StartSeconds: next, PixelsPerSecond: viewport.PixelsPerSecond, HeightPx: viewport.HeightPx}
		w.tileTask(key)
		next = key.EndSeconds()
	}

	prev := visible[0]
	for i := 0; i < behind; i++ {
		start := prev.StartSeconds - prev.Duration()
		if start < 0 {
			break
		}
		prev = SegmentKey{StartSeconds: start, PixelsPerSecond: viewport.PixelsPerSecond, HeightPx: viewport.HeightPx}
		w.tileTask(prev)
	}
}

// compose waits for each tile and draws it into the viewport image in
// order. Cancelled tiles leave their slot blank rather than failing
// the whole composition.
func (w *Waveform) compose(result *Task, viewport ViewportContext, tasks []*Task) {
	img := image.NewRGBA(image.Rect(0, 0, viewport.WidthPx, viewport.HeightPx))
	draw.Draw(img, img.Bounds(), image.NewUniform(backgroundColor), image.Point{}, draw.Src)

	x := 0
	for _, task := range tasks {
		select {
		case <-task.Done():
		case <-result.ctx.Done():
			result.complete(nil, nil)
			return
		}
		tile, err := task.Image()
		if err == nil && tile != nil {
			r := image.Rect(x, 0, x+SegmentWidthPx, viewport.HeightPx)
			draw.Draw(img, r, tile, image.Point{}, draw.Src)
		}
		x += SegmentWidthPx
	}

	result.complete(img, nil)
}

// visibleSegments lists the tile keys covering the viewport, stepping
// a tile's duration at a time from the viewport start.
func visibleSegments(viewport ViewportContext) []SegmentKey {
	if viewport.PixelsPerSecond <= 0 {
		return nil
	}

	var keys []SegmentKey
	start := viewport.StartSeconds
	for start < viewport.EndSeconds {
		key := SegmentKey{
			StartSeconds:    start,
			PixelsPerSecond: viewport.PixelsPerSecond,
			HeightPx:        viewport.HeightPx,
		}
		keys = append(keys, key)
		start += key.Duration()
	}
	return keys
}

// Close cancels all cached work and stops the render pool.
func (w *Waveform) Close() {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	w.closed = true
	close(w.jobs)
	w.mu.Unlock()

	w.cache.Clear()
	w.wg.Wait()
}
