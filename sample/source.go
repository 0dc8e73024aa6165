// SPDX-License-Identifier: EPL-2.0

package sample

import (
	"io"
	"path/filepath"
	"strings"
	"sync"
)

// Source is a stream of interleaved float32 samples in [-1, 1].
type Source interface {
	// SampleRate of the stream in Hz.
	SampleRate() int
	// Channels count, 1 for mono, 2 for stereo.
	Channels() int
	// ReadSamples fills dst with interleaved samples and returns the number
	// of values written, not frames. It returns io.EOF once the stream is
	// finished, possibly together with a final partial read.
	ReadSamples(dst []float32) (n int, err error)
	Close() error
}

// Decoder constructs a Source from an encoded input.
type Decoder interface {
	Decode(r io.Reader) (Source, error)
}

// DecoderFunc adapts a function to a Decoder.
type DecoderFunc func(r io.Reader) (Source, error)

func (f DecoderFunc) Decode(r io.Reader) (Source, error) { return f(r) }

// Registry maps format keys, usually file extensions without the dot, to
// decoders. It is safe for concurrent use.
type Registry struct {
	mu     sync.RWMutex
	codecs map[string]Decoder
}

func NewRegistry() *Registry {
	return &Registry{codecs: make(map[string]Decoder)}
}

// Register binds format to d. Keys are case-insensitive.
func (r *Registry) Register(format string, d Decoder) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.codecs[strings.ToLower(format)] = d
}

func (r *Registry) Get(format string) (Decoder, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	d, ok := r.codecs[strings.ToLower(format)]
	return d, ok
}

// ForPath returns the decoder registered for the extension of name.
func (r *Registry) ForPath(name string) (Decoder, bool) {
	return r.Get(FormatOf(name))
}

// FormatOf returns the lower-case extension of name without the dot.
func FormatOf(name string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
}

var (
	defaultOnce     sync.Once
	defaultRegistry *Registry
)

// DefaultRegistry returns a process-wide registry with every built-in
// decoder registered.
func DefaultRegistry() *Registry {
	defaultOnce.Do(func() {
		r := NewRegistry()
		r.Register("wav", WavDecoder{})
		r.Register("wave", WavDecoder{})
		r.Register("aif", AiffDecoder{})
		r.Register("aiff", AiffDecoder{})
		r.Register("mp3", Mp3Decoder{})
		r.Register("ogg", VorbisDecoder{})
		r.Register("oga", VorbisDecoder{})
		defaultRegistry = r
	})
	return defaultRegistry
}
