package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompileDateFormat(t *testing.T) {
	tests := []struct {
		format string
		want   string
	}{
		{"Y-m-d", "2006 01 02"},
		{"d/m/Y H:i:s", "02 01 2006 15 04 05"},
		{"D, j M y", "Mon 2 Jan 06"},
		{"l F jS", ""}, // S has no Go equivalent
		{`Y-m-d\TH:i:sP`, "2006 01 02 15 04 05 -07:00"},
		{"g:i a", "3 04 pm"},
		{"H:i:s.v", "15 04 05 .000"},
		{"c", "2006 01 02 15 04 05 -07:00"},
		{"Y_n_j", "2006 1 2"},
		{`\J\a\n Y`, "2006"},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			f, err := compileDateFormat(tt.format)
			if tt.want == "" {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, f.layout())
		})
	}
}

func TestCompileDateFormat_Rejects(t *testing.T) {
	for _, format := range []string{"", `Y\`, "Y-m-d N", `c\`} {
		_, err := compileDateFormat(format)
		assert.Error(t, err, format)
	}
}

func TestMatchesDateFormat(t *testing.T) {
	tests := []struct {
		value  string
		format string
		want   bool
	}{
		{"2023-02-28", "Y-m-d", true},
		{"Tue, 28 Feb 2023 10:00:00 +0100", "r", true},
		{"Wed, 28 Feb 2023 10:00:00 +0100", "r", false},
		{"2023-02-28T10:00:00+01:00", "c", true},
		{"2:05 pm", "g:i a", true},
		{"10:00:00.123", "H:i:s.v", true},
		{"10:00:00.12", "H:i:s.v", false},
		{"2023-02-30", "Y-m-d", false},
		{"2023-13-01", "Y-m-d", false},
		{" 2023-02-28", "Y-m-d", false},
		{"2023-02-28", "Y-m-d N", false},

		// literals next to or spelling Go layout elements
		{"2023_5_7", "Y_n_j", true},
		{"2023_05_07", "Y_n_j", false},
		{"Jan 2023", `\J\a\n Y`, true},
		{"Feb 2023", `\J\a\n Y`, false},
		{"MST 10:30", `\M\S\T H:i`, true},
		{"PM 2023", `\P\M Y`, true},
		{"2023-02-28 2", "Y-m-d 2", true},
		{"2023-02-28 3", "Y-m-d 2", false},
	}

	for _, tt := range tests {
		t.Run(tt.format+" "+tt.value, func(t *testing.T) {
			assert.Equal(t, tt.want, matchesDateFormat(tt.value, tt.format))
		})
	}
}
