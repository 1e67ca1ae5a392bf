package cowfs

import "testing"

func TestFindDelta(t *testing.T) {
	tests := []struct {
		name      string
		oldData   string
		newData   string
		wantStart int64
		wantSize  int64
	}{
		{
			name:      "identical buffers",
			oldData:   "hello",
			newData:   "hello",
			wantStart: 0,
			wantSize:  0,
		},
		{
			name:      "both empty",
			oldData:   "",
			newData:   "",
			wantStart: 0,
			wantSize:  0,
		},
		{
			name:      "tail change",
			oldData:   "hello",
			newData:   "help!",
			wantStart: 3,
			wantSize:  2,
		},
		{
			name:      "pure append",
			oldData:   "hello",
			newData:   "hello world",
			wantStart: 5,
			wantSize:  6,
		},
		{
			name:      "pure truncation is a no-op window",
			oldData:   "hello",
			newData:   "hel",
			wantStart: 3,
			wantSize:  0,
		},
		{
			name:      "change at start",
			oldData:   "hello",
			newData:   "jello",
			wantStart: 0,
			wantSize:  1,
		},
		{
			name:      "change in middle with common suffix",
			oldData:   "abcdef",
			newData:   "abXYef",
			wantStart: 2,
			wantSize:  2,
		},
		{
			name:      "complete replacement",
			oldData:   "aaaa",
			newData:   "bbbb",
			wantStart: 0,
			wantSize:  4,
		},
		{
			name:      "write into empty",
			oldData:   "",
			newData:   "data",
			wantStart: 0,
			wantSize:  4,
		},
		{
			name:      "shorter with changed prefix",
			oldData:   "abcdef",
			newData:   "Xbc",
			wantStart: 0,
			wantSize:  3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, size := findDelta([]byte(tt.oldData), []byte(tt.newData))
			if start != tt.wantStart || size != tt.wantSize {
				t.Errorf("findDelta(%q, %q) = (%d, %d), want (%d, %d)",
					tt.oldData, tt.newData, start, size, tt.wantStart, tt.wantSize)
			}
		})
	}
}

func TestFindDeltaWindowBound(t *testing.T) {
	// The reported window must always fit inside the new buffer.
	pairs := [][2]string{
		{"abc", "a"},
		{"a", "abc"},
		{"same middle same", "same MIDDLE same"},
		{"xyz", "xyzxyz"},
	}
	for _, pair := range pairs {
		start, size := findDelta([]byte(pair[0]), []byte(pair[1]))
		if start+size > int64(len(pair[1])) {
			t.Errorf("findDelta(%q, %q) window [%d,+%d) exceeds new buffer length %d",
				pair[0], pair[1], start, size, len(pair[1]))
		}
	}
}
