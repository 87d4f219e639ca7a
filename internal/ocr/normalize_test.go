package ocr

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "empty",
			in:   "",
			want: "",
		},
		{
			name: "crlf to lf",
			in:   "Course Code: CS 101\r\nInstructor: Dr. Doe\r\n",
			want: "Course Code: CS 101\nInstructor: Dr. Doe",
		},
		{
			name: "bare cr to lf",
			in:   "line one\rline two",
			want: "line one\nline two",
		},
		{
			name: "tabs become single spaces",
			in:   "Office\tHours:\t\tMWF 2-3pm",
			want: "Office Hours: MWF 2-3pm",
		},
		{
			name: "runs of spaces collapse",
			in:   "Course    Code:   CS 101",
			want: "Course Code: CS 101",
		},
		{
			name: "ruled lines stripped",
			in:   "Name: Jane Doe\n______\nEmail: jdoe@u.edu\n----\nend",
			want: "Name: Jane Doe\n\nEmail: jdoe@u.edu\n\nend",
		},
		{
			name: "blank line runs collapse to one",
			in:   "top\n\n\n\n\nbottom",
			want: "top\n\nbottom",
		},
		{
			name: "trailing spaces trimmed per line",
			in:   "left   \nright  ",
			want: "left\nright",
		},
		{
			name: "surrounding whitespace trimmed",
			in:   "\n\n  Course Code: CS 101  \n\n",
			want: "Course Code: CS 101",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

func TestNormalize_ShortDashRunKept(t *testing.T) {
	// Only runs of three or more are treated as ruled lines; a compact
	// "A - B" separator is real content.
	assert.Equal(t, "50% - Exams", Normalize("50% - Exams"))
}
