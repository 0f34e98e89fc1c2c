// Package mix provides audio mixing operations.
package mix

// Sum adds multiple buffers together into dst, which is cleared first. A
// source longer than dst is truncated to dst's length. The engine's own
// per-track summation uses audiobuf.Buffer.AddFrom, not Sum.
func Sum(buffers [][]float32, dst []float32) {
	length := len(dst)

	for i := 0; i < length; i++ {
		dst[i] = 0
	}

	for _, buffer := range buffers {
		bufLen := len(buffer)
		if bufLen > length {
			bufLen = length
		}

		for i := 0; i < bufLen; i++ {
			dst[i] += buffer[i]
		}
	}
}
