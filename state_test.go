package bindit

import "testing"

func TestAdapterState_String_Idle(t *testing.T) {
	if s := StateIdle.String(); s != "idle" {
		t.Errorf("expected 'idle', got %q", s)
	}
}

func TestAdapterState_String_Composing(t *testing.T) {
	if s := StateComposing.String(); s != "composing" {
		t.Errorf("expected 'composing', got %q", s)
	}
}

func TestAdapterState_String_Unknown(t *testing.T) {
	unknown := AdapterState(999)
	if s := unknown.String(); s != "unknown" {
		t.Errorf("expected 'unknown', got %q", s)
	}
}

func TestAdapterState_Values(t *testing.T) {
	// Verify iota ordering
	if StateIdle != 0 {
		t.Errorf("expected StateIdle=0, got %d", StateIdle)
	}
	if StateComposing != 1 {
		t.Errorf("expected StateComposing=1, got %d", StateComposing)
	}
}
