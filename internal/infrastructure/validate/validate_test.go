package validate

import (
	"strings"
	"testing"
)

func TestRoomCodeField(t *testing.T) {
	v := Field("roomId", Required(), LengthBetween(4, 8), Alphanumeric())

	cases := []struct {
		in      string
		wantErr bool
	}{
		{"ABCD", false},
		{"abcd1234", false},
		{"", true},
		{"   ", true},
		{"ABC", true},
		{"ABCDEFGHI", true},
		{"AB-CD", true},
		{"ÄBCD", true},
	}

	for _, tc := range cases {
		err := v(tc.in)
		if (err != nil) != tc.wantErr {
			t.Fatalf("validate(%q) err=%v, wantErr=%v", tc.in, err, tc.wantErr)
		}
		if err != nil && !strings.HasPrefix(err.Error(), "roomId") {
			t.Fatalf("error %q not labelled with field name", err)
		}
	}
}

func TestOneOf(t *testing.T) {
	v := OneOf("offer", "answer", "ice-candidate")
	if err := v("answer"); err != nil {
		t.Fatalf("OneOf(answer): %v", err)
	}
	if err := v("bye"); err == nil {
		t.Fatalf("OneOf(bye) accepted")
	}
}
