package id

import (
	"strings"
	"testing"
)

func TestNewJobIDUnique(t *testing.T) {
	t.Parallel()

	seen := make(map[JobID]struct{})
	for i := 0; i < 100; i++ {
		jid := NewJobID()
		if jid.IsZero() {
			t.Fatal("NewJobID returned zero id")
		}
		if _, dup := seen[jid]; dup {
			t.Fatalf("duplicate job id %s", jid)
		}
		seen[jid] = struct{}{}
	}
}

func TestParseJobID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid uuid", NewJobID().String(), false},
		{"empty", "", true},
		{"garbage", "not-a-job-id", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parsed, err := ParseJobID(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseJobID(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err == nil && parsed.String() != tt.input {
				t.Fatalf("got %q, want %q", parsed, tt.input)
			}
		})
	}
}

func TestNewWorkerID(t *testing.T) {
	t.Parallel()

	w1 := NewWorkerID(1)
	w2 := NewWorkerID(2)

	if w1 == w2 {
		t.Fatalf("expected distinct ids, got %s twice", w1)
	}
	if !strings.HasPrefix(w1.String(), "worker-") {
		t.Fatalf("unexpected worker id format: %s", w1)
	}
}
