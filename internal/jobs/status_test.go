package jobs

import "testing"

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to Status
		want     bool
	}{
		{StatusPending, StatusReviewed, true},
		{StatusPending, StatusAccepted, true},
		{StatusPending, StatusRejected, true},
		{StatusReviewed, StatusAccepted, true},
		{StatusReviewed, StatusRejected, true},
		{StatusReviewed, StatusPending, false},
		{StatusAccepted, StatusRejected, false},
		{StatusAccepted, StatusPending, false},
		{StatusRejected, StatusAccepted, false},
		{StatusRejected, StatusReviewed, false},
		{StatusPending, StatusPending, false},
	}
	for _, c := range cases {
		if got := CanTransition(c.from, c.to); got != c.want {
			t.Errorf("CanTransition(%s, %s) = %v, want %v", c.from, c.to, got, c.want)
		}
	}
}

func TestValidStatus(t *testing.T) {
	for _, s := range []Status{StatusPending, StatusReviewed, StatusAccepted, StatusRejected} {
		if !ValidStatus(s) {
			t.Errorf("ValidStatus(%s) = false", s)
		}
	}
	for _, s := range []Status{"", "open", "PENDING", "done"} {
		if ValidStatus(s) {
			t.Errorf("ValidStatus(%q) = true", s)
		}
	}
}
