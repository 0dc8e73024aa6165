// SPDX-License-Identifier: EPL-2.0

// Package ldsp is a low-latency duplex audio harness.
//
// An [LDSP] instance opens an output stream, and optionally an input
// stream, on a hardware backend and drives a user [render.Sketch] once per
// fixed-size audio block. The two hardware streams are clocked
// independently; the stream coordinator reconciles them through a
// lock-free ring so that the sketch sees matching input and output blocks,
// as if the callback were a plain synchronous function call.
//
// Control input (four sliders, multi-touch slots and buttons) is written
// from any goroutine through atomic cells and published to the sketch once
// per block.
//
// # Quick Start
//
//	inst, err := ldsp.New(ldsp.Options{
//		Backend: headless.New(headless.Options{}, nil),
//		Sketch:  sine,
//		Stream:  stream.DefaultConfig(),
//	})
//	if err != nil {
//		return err
//	}
//	defer inst.Close()
//
//	if err := inst.Start(); err != nil {
//		return err
//	}
//	inst.SetSlider0(0.5)
//
// # Packages
//
//   - ctrl: slider and touch aggregation
//   - render: the per-block context and the sketch hooks
//   - stream: the full-duplex coordinator and the backend interface
//   - engine: the Idle, Initialized and Running lifecycle
//   - backend/malgo, backend/oto, backend/headless: hardware backends
//   - sample, files: asset loading for sketches
//   - sketches: built-in sketches
//   - observe: OpenTelemetry metrics
//   - config: YAML configuration for cmd/ldsp
//
// # Thread Safety
//
// Start, Stop and Close may be called from any goroutine and never run
// concurrently with each other. The control setters never block and may be
// called while the engine is running. Sketch hooks run on the audio thread
// and must not block or allocate in Render.
package ldsp
