//go:build !(tinygo && baremetal)

package halt

// Forever never returns.  There is no watchdog to kick a hosted process, so
// this just parks the goroutine; tests that need to observe a halt swap the
// engine's fault hook rather than call this.
func Forever() {
	select {}
}
