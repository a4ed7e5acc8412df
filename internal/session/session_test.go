package session

import "testing"

func TestState(t *testing.T) {
	t.Parallel()

	var s State
	if s.LoggedIn() {
		t.Fatal("zero State is logged in")
	}

	s.Login("", "")
	if !s.LoggedIn() {
		t.Fatal("empty submission did not log in")
	}

	s.Login("analyst", "whatever")
	if s.User() != "analyst" {
		t.Errorf("User = %q, want analyst", s.User())
	}

	s.Logout()
	if s.LoggedIn() || s.User() != "" {
		t.Fatalf("after Logout: loggedIn=%v user=%q", s.LoggedIn(), s.User())
	}
}
