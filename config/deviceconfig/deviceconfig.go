/*
 * DCPU-16 - Device attach flag parser.
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

// Package deviceconfig parses the emulator's repeatable -d/--device flag
// into specifications a main program can use to build and attach devices,
// without hard-coding which device models exist.
package deviceconfig

import (
	"errors"
	"fmt"
	"strings"
)

// Spec is one -d flag's worth of device configuration:
// -d name[:key=val[,key=val...]]
type Spec struct {
	Name    string
	Options map[string]string
}

// Parse splits one -d flag value into a device Spec.
func Parse(flag string) (Spec, error) {
	name, rest, hasOpts := strings.Cut(flag, ":")
	name = strings.TrimSpace(name)
	if name == "" {
		return Spec{}, errors.New("deviceconfig: empty device name")
	}

	spec := Spec{Name: strings.ToLower(name), Options: map[string]string{}}
	if !hasOpts || rest == "" {
		return spec, nil
	}

	for _, pair := range strings.Split(rest, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		key, val, ok := strings.Cut(pair, "=")
		if !ok {
			return Spec{}, fmt.Errorf("deviceconfig: option %q missing '='", pair)
		}
		key = strings.TrimSpace(key)
		if key == "" {
			return Spec{}, fmt.Errorf("deviceconfig: empty option name in %q", pair)
		}
		spec.Options[key] = strings.TrimSpace(val)
	}
	return spec, nil
}

// ParseAll parses every -d flag value collected by the command line.
func ParseAll(flags []string) ([]Spec, error) {
	specs := make([]Spec, 0, len(flags))
	for _, flag := range flags {
		spec, err := Parse(flag)
		if err != nil {
			return nil, err
		}
		specs = append(specs, spec)
	}
	return specs, nil
}
