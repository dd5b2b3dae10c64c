package checksum

// crc16PUS is the packet error control CRC of ECSS-E-ST-70-41C, generator
// 0x1021 with the syndrome preset to 0xFFFF. The digest is sent big endian.
type crc16PUS struct{}

const crc16PUSSeed uint16 = 0xFFFF

var crc16PUSTable = func() [256]uint16 {
	var lut [256]uint16
	// Contribution of each input bit to the next syndrome.
	terms := [8]uint16{0x1021, 0x2042, 0x4084, 0x8108, 0x1231, 0x2462, 0x48C4, 0x9188}
	for i := range lut {
		var v uint16
		for bit, term := range terms {
			if i&(1<<bit) != 0 {
				v ^= term
			}
		}
		lut[i] = v
	}
	return lut
}()

func (crc16PUS) Name() string        { return KindCRC16PUS }
func (crc16PUS) Description() string { return "PUS CRC16" }
func (crc16PUS) DigestSize() int     { return 2 }

func (crc16PUS) Compute(data []byte) []byte {
	s := crc16PUSUpdate(crc16PUSSeed, data)
	return []byte{byte(s >> 8), byte(s)}
}

func (crc16PUS) Verify(data []byte) bool {
	return crc16PUSUpdate(crc16PUSSeed, data) == 0
}

func crc16PUSUpdate(syndrome uint16, data []byte) uint16 {
	for _, b := range data {
		syndrome = syndrome<<8 ^ crc16PUSTable[byte(syndrome>>8)^b]
	}
	return syndrome
}
