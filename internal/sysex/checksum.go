package sysex

// Checksum computes the Roland checksum over the address and data bytes of a
// data-set message: the low seven bits of the byte sum, complemented so that
// sum+checksum is a multiple of 0x80.
func Checksum(addrAndData []byte) byte {
	var sum int
	for _, b := range addrAndData {
		sum += int(b)
	}
	return byte((0x80 - (sum % 0x80)) % 0x80)
}
