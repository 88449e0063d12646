package narrate

import (
	"fmt"
	"io"
	"slices"
)

// Sink receives rendered narration, one line per call.
type Sink interface {
	Narrate(line string)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(line string)

func (f SinkFunc) Narrate(line string) { f(line) }

// Discard drops every line.
var Discard Sink = SinkFunc(func(string) {})

// WriterSink writes each line followed by a newline.
type WriterSink struct {
	w io.Writer
}

func NewWriterSink(w io.Writer) *WriterSink {
	return &WriterSink{w: w}
}

func (s *WriterSink) Narrate(line string) {
	fmt.Fprintln(s.w, line)
}

// Recorder keeps every line it receives.
type Recorder struct {
	lines []string
}

func (r *Recorder) Narrate(line string) {
	r.lines = append(r.lines, line)
}

// Lines returns a copy of the recorded lines.
func (r *Recorder) Lines() []string {
	return slices.Clone(r.lines)
}

func (r *Recorder) Reset() {
	r.lines = nil
}

// Tee fans every line out to each sink in order.
func Tee(sinks ...Sink) Sink {
	return SinkFunc(func(line string) {
		for _, s := range sinks {
			s.Narrate(line)
		}
	})
}
