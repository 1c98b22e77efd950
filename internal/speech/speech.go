// Package speech defines the boundary to the speech-synthesis engine.
// Synthesis is fire-and-forget: the subsystem hands over short prompts and
// never waits for playback.
package speech

import (
	"fmt"
	"io"
)

// Speaker voices a short prompt to the user.
type Speaker interface {
	Speak(text string)
}

// ConsoleSpeaker writes prompts to a writer instead of synthesizing audio.
// Used when no TTS engine is attached.
type ConsoleSpeaker struct {
	w io.Writer
}

var _ Speaker = (*ConsoleSpeaker)(nil)

func NewConsoleSpeaker(w io.Writer) *ConsoleSpeaker {
	return &ConsoleSpeaker{w: w}
}

func (s *ConsoleSpeaker) Speak(text string) {
	fmt.Fprintf(s.w, "[voice] %s\n", text)
}

// NopSpeaker discards all prompts.
type NopSpeaker struct{}

var _ Speaker = NopSpeaker{}

func (NopSpeaker) Speak(string) {}
