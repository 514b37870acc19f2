package game

import (
	"errors"
	"testing"
)

func TestValidateSubmission(t *testing.T) {
	ok := HoleSubmission{HoleNumber: 1, WolfID: 1, WinnerIDs: []int64{1}}
	if err := ValidateSubmission(ok); err != nil {
		t.Fatalf("expected valid submission, got %v", err)
	}
	empty := ok
	empty.WinnerIDs = []int64{}
	if err := ValidateSubmission(empty); err != nil {
		t.Fatalf("expected empty winner list to be accepted, got %v", err)
	}

	cases := []struct {
		name  string
		mut   func(*HoleSubmission)
		field string
	}{
		{"hole zero", func(s *HoleSubmission) { s.HoleNumber = 0 }, "holeNumber"},
		{"hole nineteen", func(s *HoleSubmission) { s.HoleNumber = 19 }, "holeNumber"},
		{"missing wolf", func(s *HoleSubmission) { s.WolfID = 0 }, "wolfId"},
		{"missing winners", func(s *HoleSubmission) { s.WinnerIDs = nil }, "winnerIds"},
		{"bad winner id", func(s *HoleSubmission) { s.WinnerIDs = []int64{1, -2} }, "winnerIds"},
		{"bad partner id", func(s *HoleSubmission) { p := int64(0); s.PartnerID = &p }, "partnerId"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := ok
			tc.mut(&s)
			err := ValidateSubmission(s)
			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if ve.Field != tc.field {
				t.Fatalf("expected field %s, got %s (%s)", tc.field, ve.Field, ve.Message)
			}
		})
	}
}

func TestValidateNewPlayer(t *testing.T) {
	p := NewPlayer{Name: "  Alice  ", Handicap: 12}
	if err := ValidateNewPlayer(&p); err != nil {
		t.Fatalf("expected valid player, got %v", err)
	}
	if p.Name != "Alice" {
		t.Fatalf("expected trimmed name, got %q", p.Name)
	}

	blank := NewPlayer{Name: "   "}
	err := ValidateNewPlayer(&blank)
	var ve *ValidationError
	if !errors.As(err, &ve) || ve.Field != "name" {
		t.Fatalf("expected name validation error, got %v", err)
	}
}
