package enums

import "testing"

func TestParseActivityAction(t *testing.T) {
	tests := []struct {
		in      string
		want    ActivityAction
		wantErr bool
	}{
		{in: "PURCHASE", want: ActivityActionPurchase},
		{in: " generate ", want: ActivityActionGenerate},
		{in: "update_profile", want: ActivityActionUpdateProfile},
		{in: "REFUND", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		got, err := ParseActivityAction(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Fatalf("ParseActivityAction(%q) expected error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Fatalf("ParseActivityAction(%q) unexpected error: %v", tt.in, err)
		}
		if got != tt.want {
			t.Fatalf("ParseActivityAction(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestActivityActionsIsACopy(t *testing.T) {
	all := ActivityActions()
	if len(all) != 6 {
		t.Fatalf("expected 6 actions, got %d", len(all))
	}
	all[0] = "MUTATED"
	if ActivityActions()[0] != ActivityActionLogin {
		t.Fatal("ActivityActions must not expose the backing slice")
	}
}

func TestAuthProvider(t *testing.T) {
	p, err := ParseAuthProvider(" Google ")
	if err != nil || p != AuthProviderGoogle {
		t.Fatalf("expected google provider, got %q (%v)", p, err)
	}
	if p.UsesPassword() {
		t.Fatal("google accounts carry no password")
	}
	if !AuthProviderEmail.UsesPassword() {
		t.Fatal("email accounts carry a password")
	}
	if _, err := ParseAuthProvider("github"); err == nil {
		t.Fatal("expected error for unknown provider")
	}
}

func TestGenerationEnums(t *testing.T) {
	if !StoryTypeShortVideo.IsValid() || StoryType("Poem").IsValid() {
		t.Fatal("story type validation mismatch")
	}
	if !MoodHorror.IsValid() || Mood("Angry").IsValid() {
		t.Fatal("mood validation mismatch")
	}
	if !LanguageUrdu.IsValid() || Language("French").IsValid() {
		t.Fatal("language validation mismatch")
	}
	if !LengthLong.IsValid() || Length("Epic").IsValid() {
		t.Fatal("length validation mismatch")
	}
	mode, err := ParseGenMode("")
	if err != nil || mode != GenModeNew {
		t.Fatalf("empty mode should default to new, got %q (%v)", mode, err)
	}
	if _, err := ParseGenMode("remix"); err == nil {
		t.Fatal("expected error for unknown mode")
	}
}
