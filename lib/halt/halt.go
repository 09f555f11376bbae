// Package halt is the fault target for the flash engine.  Once a
// precondition check has failed under the hardened posture there is nothing
// software can repair: a half-unlocked, half-flushed controller must not be
// allowed to limp forward, so the only defined behavior is to stop until the
// watchdog resets the part.
package halt
