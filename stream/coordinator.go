// SPDX-License-Identifier: EPL-2.0

package stream

import (
	"errors"
	"fmt"
	"log/slog"
)

// RenderFunc processes one block. in holds frames × input channels samples
// (frames silent samples in output-only mode), out holds frames × output
// channels samples and is cleared before the call.
type RenderFunc func(in, out []float32, frames int)

// Coordinator owns the hardware streams of one engine.
//
// Open, Start and Stop must not be called concurrently; the caller
// serialises them. Stats may be called from any goroutine.
type Coordinator struct {
	backend Backend
	cfg     Config
	log     *slog.Logger

	out Stream
	in  Stream
	neg Negotiated

	render  RenderFunc
	ring    *ring
	adapter *blockAdapter
	inBlock []float32
	silent  []float32
	// cushion is in input frames.
	cushion int
	// primed is only touched by the output thread while running.
	primed bool

	fullyOpened bool
	stats       counters
}

// NewCoordinator returns a coordinator for cfg on backend. A nil logger uses
// slog.Default().
func NewCoordinator(backend Backend, cfg Config, logger *slog.Logger) *Coordinator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Coordinator{
		backend: backend,
		cfg:     cfg,
		log:     logger.With("component", "stream", "backend", backend.Name()),
	}
}

// Open opens the output stream and, in full-duplex mode, an input stream
// matched to it. Buffers for the render path are allocated here. On failure
// nothing stays open.
func (c *Coordinator) Open(render RenderFunc) (Negotiated, error) {
	if c.out != nil {
		return Negotiated{}, ErrAlreadyOpen
	}
	if err := c.cfg.Validate(); err != nil {
		return Negotiated{}, err
	}

	out, err := c.backend.Open(c.cfg.request(Output), c.onOutput)
	if err != nil {
		return Negotiated{}, &StreamError{Op: "open", Direction: Output, Err: err}
	}

	var in Stream
	if c.cfg.HasInput {
		req := c.cfg.request(Input)
		req.SampleRate = out.SampleRate()
		req.FramesPerCallback = out.FramesPerCallback()
		req.BufferCapacity = out.BufferCapacity()
		req.BufferSize = out.BufferSize()

		in, err = c.backend.Open(req, c.onInput)
		if err != nil {
			c.closeQuietly(out)
			return Negotiated{}, &StreamError{Op: "open", Direction: Input, Err: err}
		}
		if in.SampleRate() != out.SampleRate() {
			c.closeQuietly(in)
			c.closeQuietly(out)
			return Negotiated{}, &StreamError{
				Op:        "open",
				Direction: Input,
				Err:       fmt.Errorf("input rate %d Hz does not match output rate %d Hz", in.SampleRate(), out.SampleRate()),
			}
		}
	}

	c.out, c.in = out, in
	c.render = render
	c.negotiate()
	c.allocate()
	c.fullyOpened = true

	c.log.Info("streams opened",
		"full_duplex", c.neg.FullDuplex,
		"sample_rate", c.neg.SampleRate,
		"frames_per_block", c.neg.FramesPerBlock,
		"in_channels", c.neg.InputChannels,
		"out_channels", c.neg.OutputChannels,
		"out_burst", c.neg.Output.FramesPerBurst,
		"out_capacity", c.neg.Output.BufferCapacity,
		"sharing", c.neg.Output.SharingMode,
	)
	return c.neg, nil
}

func (c *Coordinator) negotiate() {
	out := InfoOf(c.out)
	block := out.FramesPerCallback
	if block <= 0 {
		block = out.FramesPerBurst
	}
	if block <= 0 {
		block = c.cfg.FramesPerCallback
	}

	c.neg = Negotiated{
		SampleRate:     out.SampleRate,
		FramesPerBlock: block,
		OutputChannels: out.ChannelCount,
		Output:         out,
	}
	if c.in != nil {
		c.neg.FullDuplex = true
		c.neg.Input = InfoOf(c.in)
		c.neg.InputChannels = c.neg.Input.ChannelCount
	}
}

func (c *Coordinator) allocate() {
	block := c.neg.FramesPerBlock
	c.adapter = newBlockAdapter(block*c.neg.OutputChannels, c.renderBlock)
	c.primed = false

	if !c.neg.FullDuplex {
		c.silent = make([]float32, block)
		return
	}

	inBurst := max(c.neg.Input.FramesPerBurst, 1)
	outBurst := max(c.neg.Output.FramesPerBurst, 1)
	c.cushion = c.cfg.InputBurstsCushion * inBurst
	c.ring = newRing(max(inBurst, outBurst, block)*(4+c.cfg.InputBurstsCushion), c.neg.InputChannels)
	c.inBlock = make([]float32, block*c.neg.InputChannels)
}

func (c *Coordinator) release() {
	c.out, c.in = nil, nil
	c.render = nil
	c.ring = nil
	c.adapter = nil
	c.inBlock = nil
	c.silent = nil
	c.fullyOpened = false
}

// onInput runs on the input thread.
func (c *Coordinator) onInput(buf []float32, frames int) {
	rb := c.ring
	if rb == nil {
		return
	}
	if written := rb.write(buf[:frames*rb.channels]); written < frames {
		c.stats.overflows.Add(1)
		c.stats.discarded.Add(uint64(frames - written))
	}
}

// onOutput runs on the output thread.
func (c *Coordinator) onOutput(buf []float32, frames int) {
	a := c.adapter
	if a == nil {
		clear(buf)
		return
	}
	a.fill(buf[:frames*c.neg.OutputChannels])
}

// renderBlock produces one block of output.
func (c *Coordinator) renderBlock(out []float32) {
	block := c.neg.FramesPerBlock
	clear(out)

	if !c.neg.FullDuplex {
		clear(c.silent)
		c.render(c.silent, out, block)
		c.stats.blocks.Add(1)
		return
	}

	need := block + c.cushion
	avail := c.ring.available()
	if !c.primed {
		if avail < need {
			c.stats.priming.Add(1)
			return
		}
		c.primed = true
	}
	if avail-need > block {
		dropped := c.ring.discard(avail - need)
		c.stats.discarded.Add(uint64(dropped))
	}

	got := c.ring.read(c.inBlock)
	if got < block {
		clear(c.inBlock[got*c.neg.InputChannels:])
		c.stats.underruns.Add(1)
	}
	c.render(c.inBlock, out, block)
	c.stats.blocks.Add(1)
}

// Start starts the input stream, then the output stream. If the output fails
// to start the input is stopped again.
func (c *Coordinator) Start() error {
	if c.out == nil {
		return ErrNotOpen
	}
	c.primed = false
	c.adapter.reset()

	if c.in != nil {
		if err := c.in.Start(); err != nil {
			return &StreamError{Op: "start", Direction: Input, Err: err}
		}
	}
	if err := c.out.Start(); err != nil {
		startErr := &StreamError{Op: "start", Direction: Output, Err: err}
		if c.in != nil {
			if stopErr := c.in.Stop(); stopErr != nil {
				return errors.Join(startErr, &StreamError{Op: "stop", Direction: Input, Err: stopErr})
			}
		}
		return startErr
	}
	return nil
}

// Stop stops and closes the output, then the input. Both directions are
// always attempted; every failure is returned joined. The render buffers are
// released. Stop on a closed coordinator returns nil.
func (c *Coordinator) Stop() error {
	if c.out == nil && c.in == nil {
		return nil
	}

	var errs []error
	for _, s := range []Stream{c.out, c.in} {
		if s == nil {
			continue
		}
		if err := s.Stop(); err != nil {
			errs = append(errs, &StreamError{Op: "stop", Direction: s.Direction(), Err: err})
		}
		if err := s.Close(); err != nil {
			errs = append(errs, &StreamError{Op: "close", Direction: s.Direction(), Err: err})
		}
	}
	c.release()

	err := errors.Join(errs...)
	if err != nil {
		c.log.Error("streams stopped with errors", "err", err)
	} else {
		c.log.Info("streams closed")
	}
	return err
}

// FullyOpened reports whether every stream the config asks for is open.
func (c *Coordinator) FullyOpened() bool {
	return c.fullyOpened
}

// Negotiated returns the values from the last successful Open.
func (c *Coordinator) Negotiated() Negotiated {
	return c.neg
}

// Stats returns the cumulative counters.
func (c *Coordinator) Stats() Stats {
	return c.stats.snapshot()
}

func (c *Coordinator) closeQuietly(s Stream) {
	if err := s.Close(); err != nil {
		c.log.Warn("close after failed open", "direction", s.Direction(), "err", err)
	}
}
