//go:build !(tinygo && baremetal)

package main

// This sample drives the real flash controller and only makes sense on the
// chip.  The hosted build exists so the module builds cleanly as a whole.
func main() {
	print("flctest runs on the device; build it with the tinygo toolchain\n")
}
