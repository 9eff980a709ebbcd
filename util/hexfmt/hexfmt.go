/*
 * DCPU-16 - Convert words to hex strings.
 *
 * Copyright 2024, Richard Cornwell
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in
 * all copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 */

package hexfmt

import "strings"

var hexMap = "0123456789abcdef"

// FormatWords writes each word as four zero-padded hex digits, space
// separated.
func FormatWords(str *strings.Builder, words []uint16) {
	for _, word := range words {
		shift := 12
		for range 4 {
			str.WriteByte(hexMap[(word>>shift)&0xf])
			shift -= 4
		}
		str.WriteByte(' ')
	}
}

// Word formats a single word as four zero-padded hex digits.
func Word(word uint16) string {
	var b strings.Builder
	shift := 12
	for range 4 {
		b.WriteByte(hexMap[(word>>shift)&0xf])
		shift -= 4
	}
	return b.String()
}
