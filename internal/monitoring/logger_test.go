package monitoring

import (
	"fmt"
	"testing"
)

func TestSetLogger(t *testing.T) {
	original := Logf
	defer func() { Logf = original }()

	called := false
	SetLogger(func(format string, v ...interface{}) {
		called = true
	})
	Logf("test message")
	if !called {
		t.Error("Custom logger was not called")
	}

	called = false
	SetLogger(nil)
	Logf("test message")
	if called {
		t.Error("No-op logger should not have triggered callback")
	}
}

func TestTagged(t *testing.T) {
	original := Logf
	defer func() { Logf = original }()

	var got string
	SetLogger(func(format string, v ...interface{}) {
		got = fmt.Sprintf(format, v...)
	})

	logf := Tagged("ldmrs-1")
	logf("connected to %s", "10.0.0.1:12002")

	if got != "[ldmrs-1] connected to 10.0.0.1:12002" {
		t.Errorf("Tagged output = %q", got)
	}

	// A replacement installed after Tagged was created still receives output.
	var later string
	SetLogger(func(format string, v ...interface{}) {
		later = fmt.Sprintf(format, v...)
	})
	logf("again")
	if later != "[ldmrs-1] again" {
		t.Errorf("Tagged did not follow SetLogger, got %q", later)
	}
}
