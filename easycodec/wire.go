package easycodec

import (
	"encoding/binary"
	"math"

	"golang.org/x/exp/constraints"
)

// Wire format constants.
const (
	// MaxRecords is the largest record count a decoder accepts.
	MaxRecords = 128
	// MinLength is the input length at or below which decoding yields an empty container.
	MinLength = 20

	magicLen    = 4
	versionLen  = 4
	reservedLen = 8
	headerLen   = magicLen + versionLen + reservedLen
	int32Size   = 4

	// key type + key len + value type + value len
	recordOverhead = 4 * int32Size
)

var (
	magic    = [magicLen]byte{'c', 'm', 'e', 'c'}
	version  = [versionLen]byte{'v', '1', '.', '0'}
	reserved = [reservedLen]byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff}
)

// header returns the fixed 16-byte prefix of every marshaled container.
func header() [headerLen]byte {
	var h [headerLen]byte
	copy(h[:], magic[:])
	copy(h[magicLen:], version[:])
	copy(h[magicLen+versionLen:], reserved[:])
	return h
}

// appendLE appends v as a 4-byte little-endian field.
func appendLE[T constraints.Integer](b []byte, v T) []byte {
	return binary.LittleEndian.AppendUint32(b, uint32(int32(v)))
}

// fitsInt32 reports whether v can be stored in a signed 4-byte field.
func fitsInt32[T constraints.Integer](v T) bool {
	if v < 0 {
		return int64(v) >= math.MinInt32
	}
	return uint64(v) <= math.MaxInt32
}
