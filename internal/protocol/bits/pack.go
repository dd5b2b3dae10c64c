package bits

// putBits ORs the low width bits of v into buf starting at bit offset off,
// counted from the most significant bit of buf[0].
func putBits(buf []byte, off, width int, v uint32) {
	for width > 0 {
		used := off % 8
		n := min(8-used, width)
		chunk := byte(v>>(width-n)) & (0xFF >> (8 - n))
		buf[off/8] |= chunk << (8 - used - n)
		off += n
		width -= n
	}
}

// getBits reads width bits from buf starting at bit offset off.
func getBits(buf []byte, off, width int) uint32 {
	var v uint32
	for width > 0 {
		used := off % 8
		n := min(8-used, width)
		chunk := (buf[off/8] >> (8 - used - n)) & (0xFF >> (8 - n))
		v = v<<n | uint32(chunk)
		off += n
		width -= n
	}
	return v
}
