package store

import "encoding/binary"

// uint64ToBytes converts a uint64 to big endian bytes so that journal
// keys sort in sequence order.
func uint64ToBytes(v uint64) []byte {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], v)

	return buf[:]
}

func bytesToUint64(b []byte) uint64 {
	return binary.BigEndian.Uint64(b)
}
