package procenv

import "testing"

// asPrivileged forces the privilege check for the duration of a test.
func asPrivileged(t *testing.T, state bool) {
	t.Helper()
	old := privileged
	privileged = func() bool { return state }
	t.Cleanup(func() { privileged = old })
}

func TestReadVariable(t *testing.T) {
	t.Run("set variable is found", func(t *testing.T) {
		t.Setenv("BEDROCK_TEST_VAR", "squeamish ossifrage")
		v, ok := ReadVariable("BEDROCK_TEST_VAR")
		if !ok || v != "squeamish ossifrage" {
			t.Errorf("ReadVariable = (%q, %v), want (\"squeamish ossifrage\", true)", v, ok)
		}
	})

	t.Run("unset variable is not found", func(t *testing.T) {
		v, ok := ReadVariable("BEDROCK_TEST_UNSET_VAR")
		if ok || v != "" {
			t.Errorf("ReadVariable = (%q, %v), want (\"\", false)", v, ok)
		}
	})

	t.Run("empty value is still found", func(t *testing.T) {
		t.Setenv("BEDROCK_TEST_EMPTY", "")
		v, ok := ReadVariable("BEDROCK_TEST_EMPTY")
		if !ok || v != "" {
			t.Errorf("ReadVariable = (%q, %v), want (\"\", true)", v, ok)
		}
	})

	t.Run("privileged process sees nothing", func(t *testing.T) {
		t.Setenv("BEDROCK_TEST_VAR", "secret-path")
		asPrivileged(t, true)
		v, ok := ReadVariable("BEDROCK_TEST_VAR")
		if ok || v != "" {
			t.Errorf("ReadVariable under privilege = (%q, %v), want (\"\", false)", v, ok)
		}
	})
}

func TestReadVariableSize(t *testing.T) {
	t.Run("numeric value parses", func(t *testing.T) {
		t.Setenv("BEDROCK_TEST_SZ", "123")
		if got := ReadVariableSize("BEDROCK_TEST_SZ", 7); got != 123 {
			t.Errorf("ReadVariableSize = %d, want 123", got)
		}
	})

	t.Run("unset yields default", func(t *testing.T) {
		if got := ReadVariableSize("BEDROCK_TEST_SZ_UNSET", 7); got != 7 {
			t.Errorf("ReadVariableSize = %d, want 7", got)
		}
	})

	t.Run("zero is a valid value not a default", func(t *testing.T) {
		t.Setenv("BEDROCK_TEST_SZ", "0")
		if got := ReadVariableSize("BEDROCK_TEST_SZ", 7); got != 0 {
			t.Errorf("ReadVariableSize = %d, want 0", got)
		}
	})

	t.Run("malformed yields default", func(t *testing.T) {
		for _, bad := range []string{"12x", "x12", " 12", "12 ", "1.5", ""} {
			t.Setenv("BEDROCK_TEST_SZ", bad)
			if got := ReadVariableSize("BEDROCK_TEST_SZ", 7); got != 7 {
				t.Errorf("ReadVariableSize(%q) = %d, want 7", bad, got)
			}
		}
	})

	t.Run("negative yields default", func(t *testing.T) {
		t.Setenv("BEDROCK_TEST_SZ", "-5")
		if got := ReadVariableSize("BEDROCK_TEST_SZ", 7); got != 7 {
			t.Errorf("ReadVariableSize = %d, want 7", got)
		}
	})

	t.Run("overflow yields default", func(t *testing.T) {
		t.Setenv("BEDROCK_TEST_SZ", "99999999999999999999999999")
		if got := ReadVariableSize("BEDROCK_TEST_SZ", 7); got != 7 {
			t.Errorf("ReadVariableSize = %d, want 7", got)
		}
	})

	t.Run("privileged process gets default regardless", func(t *testing.T) {
		t.Setenv("BEDROCK_TEST_SZ", "123")
		asPrivileged(t, true)
		if got := ReadVariableSize("BEDROCK_TEST_SZ", 7); got != 7 {
			t.Errorf("ReadVariableSize under privilege = %d, want 7", got)
		}
	})
}

func TestRunningPrivileged(t *testing.T) {
	// A test binary is never installed setuid, so the real check must come
	// back false here; anything else would have refused every environment
	// read in this suite.
	if RunningPrivileged() {
		t.Error("RunningPrivileged() = true for an ordinary test process")
	}
}

func TestProcessID(t *testing.T) {
	if ProcessID() == 0 {
		t.Error("ProcessID() = 0, want a real PID on hosted platforms")
	}
}
