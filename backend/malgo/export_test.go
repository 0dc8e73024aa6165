// SPDX-License-Identifier: EPL-2.0

package malgo

import "unsafe"

func unsafeBytes(f []float32) []byte {
	return unsafe.Slice((*byte)(unsafe.Pointer(&f[0])), len(f)*4)
}
