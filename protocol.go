// protocol.go
// Wire format of the relay. Everything is newline-terminated UTF-8 text,
// no length prefixes or other framing:
//
//	server -> joining client:      LOGIN:<id>
//	server -> all except sender:   MESSAGE:<id> <text>
//	server -> sender:              ACK:MESSAGE
//
// Client lines are opaque payload; the relay never parses them.

package main

import "strconv"

// ackMessage confirms receipt of a line to its own sender.
var ackMessage = []byte("ACK:MESSAGE\n")

func loginMessage(id uint64) []byte {
	return []byte("LOGIN:" + strconv.FormatUint(id, 10) + "\n")
}

func wrapMessage(id uint64, line string) []byte {
	return []byte("MESSAGE:" + strconv.FormatUint(id, 10) + " " + line + "\n")
}
