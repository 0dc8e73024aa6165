// SPDX-License-Identifier: EPL-2.0

package sample

import (
	"bytes"
	"io"
)

// intScale returns the divisor mapping a signed integer sample of the
// given bit depth to [-1, 1).
func intScale(bitDepth int) float32 {
	switch bitDepth {
	case 8:
		return 1 << 7
	case 24:
		return 1 << 23
	case 32:
		return 1 << 31
	default:
		return 1 << 15
	}
}

// floatToInt16 clamps x to [-1, 1] and scales it to int16.
func floatToInt16(x float32) int16 {
	if x > 1 {
		x = 1
	} else if x < -1 {
		x = -1
	}
	return int16(x * 32767)
}

// cubic is a Catmull-Rom interpolation between y1 and y2 at 0 <= x <= 1.
func cubic(y0, y1, y2, y3, x float32) float32 {
	a0 := -0.5*y0 + 1.5*y1 - 1.5*y2 + 0.5*y3
	a1 := y0 - 2.5*y1 + 2*y2 - 0.5*y3
	a2 := -0.5*y0 + 0.5*y2
	return ((a0*x+a1)*x+a2)*x + y1
}

// readSeeker returns r as an io.ReadSeeker, buffering it in memory when
// it is not one already.
func readSeeker(r io.Reader) (io.ReadSeeker, error) {
	if rs, ok := r.(io.ReadSeeker); ok {
		return rs, nil
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return bytes.NewReader(data), nil
}
