package errors

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"testing"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{
			name:     "nil error",
			err:      nil,
			expected: "",
		},
		{
			name:     "simple error",
			err:      errors.New("event not found"),
			expected: "Error: event not found",
		},
		{
			name:     "input error",
			err:      Invalidf("invalid date %q", "2024-13-01"),
			expected: `Error: invalid date "2024-13-01"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Format(tt.err)
			if result != tt.expected {
				t.Errorf("Format(%v) = %q, want %q", tt.err, result, tt.expected)
			}
		})
	}
}

func TestFormatf(t *testing.T) {
	got := Formatf("failed to load %s", "config")
	if got != "Error: failed to load config" {
		t.Errorf("Formatf() = %q", got)
	}
}

func TestExitCode(t *testing.T) {
	wrapped := fmt.Errorf("todo add: %w", Invalidf("title cannot be empty"))

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, 0},
		{"plain", errors.New("disk full"), 1},
		{"input", Invalidf("bad"), 2},
		{"wrapped input", wrapped, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExitCode(tt.err); got != tt.want {
				t.Errorf("ExitCode() = %d, want %d", got, tt.want)
			}
		})
	}

	if !IsInput(wrapped) {
		t.Error("IsInput() lost the wrapped InputError")
	}
}

func TestInvalid(t *testing.T) {
	if Invalid(nil) != nil {
		t.Error("Invalid(nil) should be nil")
	}

	cause := errors.New("connection string must not contain a password")
	err := Invalid(cause)
	if !IsInput(err) {
		t.Error("Invalid() did not mark the error as input")
	}
	if !errors.Is(err, cause) {
		t.Error("Invalid() hid the cause from errors.Is")
	}
	if err.Error() != cause.Error() {
		t.Errorf("Error() = %q", err.Error())
	}
}

// TestFatal tests the Fatal function using exec helper process
func TestFatal(t *testing.T) {
	if os.Getenv("GO_TEST_FATAL") == "1" {
		Fatal(Invalidf("unknown recurrence %q", "HOURLY"))
		return
	}

	cmd := exec.Command(os.Args[0], "-test.run=TestFatal$")
	cmd.Env = append(os.Environ(), "GO_TEST_FATAL=1")
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	err := cmd.Run()
	if e, ok := err.(*exec.ExitError); ok && !e.Success() {
		if e.ExitCode() != 2 {
			t.Errorf("Fatal() exit code = %d, want 2", e.ExitCode())
		}
		if !strings.Contains(stderr.String(), `Error: unknown recurrence "HOURLY"`) {
			t.Errorf("Fatal() stderr = %q", stderr.String())
		}
	} else {
		t.Errorf("Fatal() did not exit with error: %v", err)
	}
}

// TestFatal_NilError tests that Fatal does nothing when passed a nil error
func TestFatal_NilError(t *testing.T) {
	if os.Getenv("GO_TEST_FATAL_NIL") == "1" {
		Fatal(nil)
		os.Exit(0)
	}

	cmd := exec.Command(os.Args[0], "-test.run=TestFatal_NilError")
	cmd.Env = append(os.Environ(), "GO_TEST_FATAL_NIL=1")

	if err := cmd.Run(); err != nil {
		t.Errorf("Fatal(nil) should not exit, but got error: %v", err)
	}
}
