package midi

import "gitlab.com/gomidi/midi/v2"

// DecodeMessages decodes a byte payload that may carry one or more raw MIDI
// messages back-to-back into the engine's typed Event representation. This
// is the concrete domain-stack edge behind PushMidiEvents: the frontend and
// attached controllers are only assumed to deliver raw MIDI bytes.
func DecodeMessages(data []byte) []Event {
	var events []Event

	for len(data) > 0 {
		msg, rest, ok := splitMessage(data)
		if !ok {
			break
		}
		data = rest

		if e := decodeOne(msg); e != nil {
			events = append(events, e)
		}
	}

	return events
}

// splitMessage isolates the next complete MIDI message at the head of data,
// returning it along with the remaining bytes.
func splitMessage(data []byte) (msg, rest []byte, ok bool) {
	if len(data) == 0 {
		return nil, nil, false
	}

	status := data[0]
	if status == 0xF0 { // SysEx runs until 0xF7
		for i := 1; i < len(data); i++ {
			if data[i] == 0xF7 {
				return data[:i+1], data[i+1:], true
			}
		}
		return data, nil, true
	}

	n := midi.Message(data).Len()
	if n <= 0 || n > len(data) {
		return nil, nil, false
	}
	return data[:n], data[n:], true
}

func decodeOne(raw []byte) Event {
	if len(raw) >= 2 && raw[0] == 0xF0 {
		payload := raw[1:]
		if len(payload) > 0 && payload[len(payload)-1] == 0xF7 {
			payload = payload[:len(payload)-1]
		}
		if len(payload) == 0 {
			return SysExEvent{Instruction: SysExUnknown}
		}
		return SysExEvent{Instruction: SysExInstruction(payload[0]), Payload: payload[1:]}
	}

	m := midi.Message(raw)

	var ch, key, velocity, controller, value, program, pressure uint8
	var absPitch int16

	switch {
	case m.GetNoteOn(&ch, &key, &velocity):
		if velocity == 0 {
			return NoteOffEvent{BaseEvent: BaseEvent{EventChannel: ch}, NoteNumber: key, Velocity: 0}
		}
		return NoteOnEvent{BaseEvent: BaseEvent{EventChannel: ch}, NoteNumber: key, Velocity: velocity}
	case m.GetNoteOff(&ch, &key, &velocity):
		return NoteOffEvent{BaseEvent: BaseEvent{EventChannel: ch}, NoteNumber: key, Velocity: velocity}
	case m.GetControlChange(&ch, &controller, &value):
		return ControlChangeEvent{BaseEvent: BaseEvent{EventChannel: ch}, Controller: controller, Value: value}
	case m.GetPitchBend(&ch, &absPitch, nil):
		return PitchBendEvent{BaseEvent: BaseEvent{EventChannel: ch}, Value: absPitch}
	case m.GetProgramChange(&ch, &program):
		return ProgramChangeEvent{BaseEvent: BaseEvent{EventChannel: ch}, Program: program}
	case m.GetAfterTouch(&ch, &pressure):
		return ChannelPressureEvent{BaseEvent: BaseEvent{EventChannel: ch}, Pressure: pressure}
	case m.GetPolyAfterTouch(&ch, &key, &pressure):
		return PolyPressureEvent{BaseEvent: BaseEvent{EventChannel: ch}, NoteNumber: key, Pressure: pressure}
	default:
		return nil
	}
}
