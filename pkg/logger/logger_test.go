package logger

import "testing"

func TestNew(t *testing.T) {
	tests := []struct {
		name        string
		development bool
		level       string
		wantErr     bool
	}{
		{name: "development debug", development: true, level: "debug"},
		{name: "production info", level: "info"},
		{name: "invalid level", level: "loud", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := New(tt.development, tt.level)
			if (err != nil) != tt.wantErr {
				t.Fatalf("New() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && logger == nil {
				t.Fatal("expected logger")
			}
		})
	}
}
