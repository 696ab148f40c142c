package errors

import "testing"

func TestValidatePanelName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"simple", "main", false},
		{"dashed", "Labels-left-1", false},
		{"unicode", "Überschrift", false},

		{"empty", "", true},
		{"too long", string(make([]byte, 300)), true},
		{"separator", "a/b", true},
		{"control char", "foo\x01bar", true},
		{"newline", "foo\nbar", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePanelName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePanelName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidInput) {
				t.Errorf("expected INVALID_INPUT, got %v", err)
			}
		})
	}
}

func TestValidatePath(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"relative", "data/matrix.csv", false},
		{"absolute", "/tmp/matrix.csv", false},
		{"empty", "", true},
		{"traversal", "../secret.csv", true},
		{"backslash", "data\\matrix.csv", true},
		{"null byte", "a\x00b", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePath(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePath(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}
