package agent

import "testing"

func TestIsAffirmative(t *testing.T) {
	tests := []struct {
		msg  string
		want bool
	}{
		{"yes", true},
		{"Yes!", true},
		{"yeah", true},
		{"yep", true},
		{"yup", true},
		{"confirm", true},
		{"Confirmed.", true},
		{"looks good", true},
		{"Sounds good!", true},
		{"perfect", true},
		{"do it", true},
		{"go ahead", true},
		{"proceed", true},
		{"sure", true},
		{"ok", true},
		{"Okay", true},
		{"yes please", true},
		{"ok do it", true},
		{"sure, sounds good", true},

		{"", false},
		{"no", false},
		{"no thanks", false},
		{"don't do it", false},
		{"not yet", false},
		{"wait, change the title first", false},
		{"cancel that", false},
		{"ok, cancel that", false},
		{"sure, stop", false},
		{"yes but wait", false},
		{"hold on", false},
		{"what events are coming up?", false},
		{"yesterday's event went well", false},
		{"can you show me the members?", false},
		{"update Jon's role to admin", false},
	}
	for _, tt := range tests {
		if got := IsAffirmative(tt.msg); got != tt.want {
			t.Errorf("IsAffirmative(%q) = %v, want %v", tt.msg, got, tt.want)
		}
	}
}
