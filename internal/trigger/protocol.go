// Package trigger reads button presses from the pad's serial link.
//
// The pad sends one message per line. "BTN_<n>" reports a press of
// button n, counted from 1. Status lines from the firmware and anything
// else unknown are ignored.
package trigger

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrMalformed is returned for a BTN_ line without a positive number.
var ErrMalformed = errors.New("malformed button message")

// MessageKind classifies a line from the pad.
type MessageKind int

const (
	MessageIgnored MessageKind = iota
	MessagePress
	MessageStatus
)

const (
	pressPrefix  = "BTN_"
	statusPrefix = "ESP32_STATUS"
)

// Message is one parsed line. Index is the zero-based slot of a press.
type Message struct {
	Kind  MessageKind
	Index int
	Raw   string
}

// ParseLine decodes a single line. Surrounding whitespace is ignored.
func ParseLine(line string) (Message, error) {
	msg := strings.TrimSpace(line)
	switch {
	case msg == "":
		return Message{Kind: MessageIgnored}, nil
	case strings.HasPrefix(msg, pressPrefix):
		n, err := strconv.Atoi(msg[len(pressPrefix):])
		if err != nil || n <= 0 {
			return Message{Raw: msg}, fmt.Errorf("%w: %q", ErrMalformed, msg)
		}
		return Message{Kind: MessagePress, Index: n - 1, Raw: msg}, nil
	case strings.HasPrefix(msg, statusPrefix):
		return Message{Kind: MessageStatus, Raw: msg}, nil
	default:
		return Message{Kind: MessageIgnored, Raw: msg}, nil
	}
}
