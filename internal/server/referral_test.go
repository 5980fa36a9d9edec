package server

import (
	"strings"
	"testing"
)

func TestNewReferralCode(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		code := newReferralCode()
		if len(code) != 10 || !strings.HasPrefix(code, "BW") {
			t.Fatalf("newReferralCode() = %q, want BW prefix and length 10", code)
		}
		if code != strings.ToUpper(code) {
			t.Fatalf("newReferralCode() = %q, want uppercase", code)
		}
		seen[code] = true
	}
	if len(seen) < 100 {
		t.Errorf("got %d distinct codes out of 100", len(seen))
	}
}

func TestCouponCode(t *testing.T) {
	code := couponCode(10, 123456789, false)
	parts := strings.Split(code, "-")
	if len(parts) != 3 {
		t.Fatalf("couponCode() = %q, want 3 dash-separated parts", code)
	}
	if parts[0] != "BW10" || parts[1] != "123456789" || parts[2] == "" {
		t.Errorf("couponCode() = %q", code)
	}

	withSuffix := couponCode(10, 123456789, true)
	if len(strings.Split(withSuffix, "-")) != 4 {
		t.Errorf("couponCode(withSuffix) = %q, want 4 parts", withSuffix)
	}
}

func TestMilestonesFor(t *testing.T) {
	tests := []struct {
		count        int
		wantPercents []int
	}{
		{0, nil},
		{1, []int{3}},
		{2, []int{3}},
		{3, []int{3, 5}},
		{4, []int{3, 5}},
		{5, []int{3, 5, 10}},
		{10, []int{3, 5, 10, 15}},
		{100, []int{3, 5, 10, 15}},
	}
	for _, tt := range tests {
		ms := milestonesFor(tt.count)
		if len(ms) != len(tt.wantPercents) {
			t.Errorf("milestonesFor(%d) returned %d milestones, want %d", tt.count, len(ms), len(tt.wantPercents))
			continue
		}
		for i, m := range ms {
			if m.Percent != tt.wantPercents[i] {
				t.Errorf("milestonesFor(%d)[%d].Percent = %d, want %d", tt.count, i, m.Percent, tt.wantPercents[i])
			}
		}
	}
}

func TestReferralLink(t *testing.T) {
	s := Server{BotUsername: "buywise_bot"}
	want := "https://t.me/buywise_bot?start=BWABCD1234"
	if got := s.referralLink("BWABCD1234"); got != want {
		t.Errorf("referralLink() = %q, want %q", got, want)
	}
}
