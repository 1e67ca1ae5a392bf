package cowfs

import (
	"strings"
	"testing"
)

func TestHashBytes(t *testing.T) {
	tests := []struct {
		name string
		data string
		want string
	}{
		{
			name: "empty input",
			data: "",
			want: "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855",
		},
		{
			name: "hello world",
			data: "hello world",
			want: "b94d27b9934d3e08a52e52d7da7dabfac484efe37a5380ee9088f7ace2efcde9",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HashBytes([]byte(tt.data)); got != tt.want {
				t.Errorf("HashBytes(%q) = %s, want %s", tt.data, got, tt.want)
			}
		})
	}
}

func TestHashReaderMatchesHashBytes(t *testing.T) {
	data := "some longer content spanning a reader"
	fromReader, err := HashReader(strings.NewReader(data))
	if err != nil {
		t.Fatalf("HashReader failed: %v", err)
	}
	if fromReader != HashBytes([]byte(data)) {
		t.Error("HashReader and HashBytes disagree on identical content")
	}
}
