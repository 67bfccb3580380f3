package ppcfuzz

// palette holds the values general purpose registers start from. They sit
// on the width boundaries where carry, overflow and sign handling differ.
var palette = [...]uint64{
	0x0000000000000000, // all zeros
	0xffffffffffffffff, // all ones
	0x0000000000000001,
	0x1111111111111111, // low bit of each nibble
	0x8888888888888888, // high bit of each nibble
	0x00000000ffffffff,
	0xffffffff00000000,
	0x0000000100000000, // 2^32
	0x00000000ffffff80, // int8 min
	0x000000000000007f, // int8 max
	0x00000000000000ff, // uint8 max
	0x00000000ffff8000, // int16 min
	0x0000000000007fff, // int16 max
	0x000000000000ffff, // uint16 max
	0x0000000080000000, // int32 min
	0x000000007fffffff, // int32 max
	0x00000000ffffffff, // uint32 max
	0x8000000000000000, // int64 min
	0x7fffffffffffffff, // int64 max
	0xffffffffffffffff, // uint64 max
	0x0001020304050607,
	0x0706050403020100,
	0x00ff00ff00ff00ff,
	0xff00ff00ff00ff00,
	0xa5a5a5a5a5a5a5a5,
}

// Palette returns the register start values.
func Palette() []uint64 {
	return append([]uint64(nil), palette[:]...)
}

// inPalette reports whether v is one of the start values.
func inPalette(v uint64) bool {
	for _, p := range palette {
		if p == v {
			return true
		}
	}
	return false
}
