package codec

import "fmt"

// SOH is the field separator used by the FIX tag=value wire format.
const SOH = 0x01

// CalcChecksum sums every byte in buf modulo 256, following the reference
// implementation's calc_checksum: the trailing CheckSum field itself is
// never included in the sum, so callers must pass only the bytes that
// precede it (BeginString through the last body field's terminating SOH).
func CalcChecksum(buf []byte) int {
	sum := 0
	for _, b := range buf {
		sum += int(b)
	}
	return sum % 256
}

// FormatChecksum renders a checksum as the fixed three-digit decimal
// string FIX requires (tag 10 is always exactly three digits, zero
// padded).
func FormatChecksum(sum int) string {
	return fmt.Sprintf("%03d", sum)
}
