package trust

import "testing"

func TestSetLevelCascades(t *testing.T) {
	defer SetLevel(ErrorMask)

	// selecting a level turns on everything less verbose than it
	SetLevel(WarnMask)
	l := Level()
	if l&WarnMask == 0 || l&InfoMask == 0 || l&DebugMask == 0 {
		t.Errorf("expected warn to cascade to info and debug, got %x", l)
	}
	if l&ErrorMask != 0 {
		t.Errorf("did not expect error mask to be on, got %x", l)
	}

	prev := SetLevel(ErrorMask)
	if prev != WarnMask|InfoMask|DebugMask {
		t.Errorf("expected previous mask back from SetLevel, got %x", prev)
	}
}

func TestFatalfAlwaysExits(t *testing.T) {
	SetLevel(Nothing)
	defer SetLevel(ErrorMask)

	code := -1
	old := exit
	exit = func(c int) { code = c }
	defer func() { exit = old }()

	Fatalf(3, "unrecoverable")
	if code != 3 {
		t.Errorf("expected Fatalf to exit with 3 even when everything is masked, got %d", code)
	}
}
