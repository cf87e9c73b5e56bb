package flowsim

// PipeVessel is the ordered FIFO of chunks stored inside one pipe, with two
// ends: Port A is the front of the deque, Port B is the back. A chunk that
// enters at A and is never drained from A will, eventually, exit at B in
// the same order it entered.
type PipeVessel struct {
	chunks        []FluidChunk
	volume        float64
	minChunkVolume float64
}

func NewPipeVessel(minChunkVolume float64) *PipeVessel {
	return &PipeVessel{minChunkVolume: minChunkVolume}
}

func (v *PipeVessel) Volume() float64 { return v.volume }

func (v *PipeVessel) Chunks() []FluidChunk { return v.chunks }

// AverageComposition returns the volume-weighted mix of every chunk
// currently stored, or the zero composition if the vessel is empty.
func (v *PipeVessel) AverageComposition() FluidComposition {
	if len(v.chunks) == 0 {
		return FluidComposition{}
	}
	mixed := v.chunks[0].Fluid()
	acc := ChunkFromComposition(mixed)
	acc.SetVolume(v.chunks[0].Volume())
	for _, c := range v.chunks[1:] {
		acc = MixChunks(acc, c)
	}
	return acc.Fluid()
}

// Fill pushes chunk onto the end named by port. A zero-volume chunk is a
// no-op. If the adjacent chunk at that end is smaller than minChunkVolume,
// the incoming chunk is merged with it instead of creating a new entry —
// this keeps the deque from accumulating a long tail of near-empty chunks.
func (v *PipeVessel) Fill(port PortTag, chunk FluidChunk) {
	if chunk.Volume() <= 0 {
		return
	}

	v.volume += chunk.Volume()

	switch port {
	case PortA:
		if len(v.chunks) > 0 && v.chunks[0].Volume() < v.minChunkVolume {
			v.chunks[0] = MixChunks(chunk, v.chunks[0])
			return
		}
		v.chunks = append([]FluidChunk{chunk}, v.chunks...)
	case PortB:
		if len(v.chunks) > 0 && v.chunks[len(v.chunks)-1].Volume() < v.minChunkVolume {
			v.chunks[len(v.chunks)-1] = MixChunks(v.chunks[len(v.chunks)-1], chunk)
			return
		}
		v.chunks = append(v.chunks, chunk)
	}
}

// Drain removes up to volume worth of fluid from the end named by port,
// oldest-at-that-end first, splitting the final chunk if the requested
// volume falls in the middle of it. Over-draining empties the vessel and
// stops; the returned chunks never total more than volume.
func (v *PipeVessel) Drain(port PortTag, volume float64) []FluidChunk {
	if volume <= 0 {
		return nil
	}

	var drained []FluidChunk
	remaining := volume

	for remaining > 1e-15 && len(v.chunks) > 0 {
		var idx int
		switch port {
		case PortA:
			idx = 0
		case PortB:
			idx = len(v.chunks) - 1
		}
		c := v.chunks[idx]

		if c.Volume() <= remaining {
			drained = append(drained, c)
			remaining -= c.Volume()
			v.volume -= c.Volume()
			v.removeAt(idx)
			continue
		}

		// A single chunk is internally homogeneous (Mix is commutative), so
		// there is no directional "near half"/"far half" — splitting off
		// `remaining` volume and leaving the rest behind is correct
		// regardless of which port we're draining from.
		taken := SplitOffByVolume(&c, remaining)
		drained = append(drained, taken)
		v.volume -= taken.Volume()
		v.chunks[idx] = c
		remaining = 0
	}

	return drained
}

func (v *PipeVessel) removeAt(idx int) {
	v.chunks = append(v.chunks[:idx], v.chunks[idx+1:]...)
}

// ReservoirVessel is a single well-mixed chunk (or none) used as a per-tick
// staging area at a junction. It has no ordering, unlike PipeVessel.
type ReservoirVessel struct {
	chunk *FluidChunk
}

func (r *ReservoirVessel) Volume() float64 {
	if r.chunk == nil {
		return 0
	}
	return r.chunk.Volume()
}

func (r *ReservoirVessel) Fill(chunk FluidChunk) {
	if chunk.Volume() <= 0 {
		return
	}
	if r.chunk == nil {
		c := chunk
		r.chunk = &c
		return
	}
	mixed := MixChunks(*r.chunk, chunk)
	r.chunk = &mixed
}

// Drain removes up to volume from the reservoir's single chunk.
func (r *ReservoirVessel) Drain(volume float64) FluidChunk {
	if r.chunk == nil || volume <= 0 {
		return FluidChunk{}
	}
	if volume >= r.chunk.Volume() {
		taken := *r.chunk
		r.chunk = nil
		return taken
	}
	taken := SplitOffByVolume(r.chunk, volume)
	return taken
}

// Reset clears the reservoir for the next tick.
func (r *ReservoirVessel) Reset() {
	r.chunk = nil
}
