// Package midi implements the engine's typed MIDI event model and the
// tick-sorted MidiStack scheduler queue. The event type hierarchy is
// adapted from vst3go's pkg/midi/events.go; raw byte decoding is delegated
// to gitlab.com/gomidi/midi/v2 in decode.go.
package midi

import "fmt"

// EventType identifies the kind of a decoded MIDI event.
type EventType uint8

const (
	EventTypeNoteOff EventType = iota
	EventTypeNoteOn
	EventTypePolyPressure
	EventTypeControlChange
	EventTypeProgramChange
	EventTypeChannelPressure
	EventTypePitchBend
	EventTypeSystemExclusive
	EventTypeClock
	EventTypeStart
	EventTypeStop
	EventTypeContinue
)

// Event is any decoded MIDI message (Channel is the MIDI channel 0-15; for
// SysEx it is unused). Events carry no time of their own; EventAt binds one
// to its wall-clock time and tick.
type Event interface {
	Type() EventType
	Channel() uint8
	String() string
}

// BaseEvent carries the channel shared by channel-voice messages.
type BaseEvent struct {
	EventChannel uint8
}

func (e BaseEvent) Channel() uint8 { return e.EventChannel }

type NoteOnEvent struct {
	BaseEvent
	NoteNumber uint8
	Velocity   uint8
}

func (e NoteOnEvent) Type() EventType { return EventTypeNoteOn }
func (e NoteOnEvent) String() string {
	return fmt.Sprintf("NoteOn{ch:%d, note:%d, vel:%d}", e.EventChannel, e.NoteNumber, e.Velocity)
}

type NoteOffEvent struct {
	BaseEvent
	NoteNumber uint8
	Velocity   uint8
}

func (e NoteOffEvent) Type() EventType { return EventTypeNoteOff }
func (e NoteOffEvent) String() string {
	return fmt.Sprintf("NoteOff{ch:%d, note:%d, vel:%d}", e.EventChannel, e.NoteNumber, e.Velocity)
}

// Track CC numbers with engine-level meaning (others pass through to the
// instrument untouched).
const (
	CCMute   uint8 = 0x01
	CCVolume uint8 = 0x02
	CCPan    uint8 = 0x03
)

type ControlChangeEvent struct {
	BaseEvent
	Controller uint8
	Value      uint8
}

func (e ControlChangeEvent) Type() EventType { return EventTypeControlChange }
func (e ControlChangeEvent) String() string {
	return fmt.Sprintf("CC{ch:%d, ctrl:%d, val:%d}", e.EventChannel, e.Controller, e.Value)
}

type PitchBendEvent struct {
	BaseEvent
	Value int16 // -8192..8191, 0 is center
}

func (e PitchBendEvent) Type() EventType { return EventTypePitchBend }
func (e PitchBendEvent) String() string {
	return fmt.Sprintf("PitchBend{ch:%d, val:%d}", e.EventChannel, e.Value)
}

type PolyPressureEvent struct {
	BaseEvent
	NoteNumber uint8
	Pressure   uint8
}

func (e PolyPressureEvent) Type() EventType { return EventTypePolyPressure }
func (e PolyPressureEvent) String() string {
	return fmt.Sprintf("PolyPressure{ch:%d, note:%d, pressure:%d}", e.EventChannel, e.NoteNumber, e.Pressure)
}

type ChannelPressureEvent struct {
	BaseEvent
	Pressure uint8
}

func (e ChannelPressureEvent) Type() EventType { return EventTypeChannelPressure }
func (e ChannelPressureEvent) String() string {
	return fmt.Sprintf("ChannelPressure{ch:%d, pressure:%d}", e.EventChannel, e.Pressure)
}

type ProgramChangeEvent struct {
	BaseEvent
	Program uint8
}

func (e ProgramChangeEvent) Type() EventType { return EventTypeProgramChange }
func (e ProgramChangeEvent) String() string {
	return fmt.Sprintf("ProgramChange{ch:%d, prog:%d}", e.EventChannel, e.Program)
}

// SysExInstruction identifies the leading byte of a soir_internal_controls
// payload.
type SysExInstruction uint8

const (
	SysExUnknown SysExInstruction = iota
	SysExUpdateControls
	SysExSamplerPlay
	SysExSamplerStop
)

// SysExEvent is a System Exclusive message on the reserved
// soir_internal_controls channel: the first payload byte is the
// instruction, the remainder is a UTF-8 JSON body.
type SysExEvent struct {
	Instruction SysExInstruction
	Payload     []byte // JSON body, instruction byte stripped
}

func (e SysExEvent) Type() EventType  { return EventTypeSystemExclusive }
func (e SysExEvent) Channel() uint8   { return 0 }
func (e SysExEvent) String() string {
	return fmt.Sprintf("SysEx{instr:%d, len:%d}", e.Instruction, len(e.Payload))
}

// NoteNumberToName formats a MIDI note number for logging, e.g. 60 -> "C4".
func NoteNumberToName(note uint8) string {
	names := []string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}
	octave := int(note/12) - 1
	return fmt.Sprintf("%s%d", names[note%12], octave)
}
