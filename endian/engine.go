// Package endian provides byte order engines for the COPY binary encoder.
//
// It combines the ByteOrder and AppendByteOrder interfaces of encoding/binary
// into one Engine interface, and exposes the host's native byte order. The
// COPY binary stream produced by this module writes length prefixes and
// narrow integer payloads in network order but wide payloads (int64, float32,
// float64, timestamps) in host order, so the encoder needs both engines side
// by side.
package endian

import (
	"encoding/binary"
	"unsafe"
)

// Engine is a byte order that supports both in-place writes and appends.
// binary.LittleEndian and binary.BigEndian satisfy it.
type Engine interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

// Native returns the engine matching the host's byte order.
func Native() Engine {
	// 0x0100 is stored with the 0x01 byte first only on big-endian hosts.
	var probe uint16 = 0x0100
	b := (*[2]byte)(unsafe.Pointer(&probe))
	if b[0] == 0x01 {
		return binary.BigEndian
	}

	return binary.LittleEndian
}

// IsLittleEndian reports whether the host is little-endian.
func IsLittleEndian() bool {
	return Native() == binary.LittleEndian
}

// IsBigEndian reports whether the host is big-endian.
func IsBigEndian() bool {
	return Native() == binary.BigEndian
}

// Little returns the little-endian engine.
func Little() Engine {
	return binary.LittleEndian
}

// Big returns the big-endian engine.
func Big() Engine {
	return binary.BigEndian
}
