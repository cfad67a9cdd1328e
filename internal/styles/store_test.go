package styles

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func openTemp(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "styles.json")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	return s, path
}

func TestStore_AddPersistsInOrder(t *testing.T) {
	s, path := openTemp(t)

	for _, st := range []Style{{"mech", 3}, {"bio", 5}, {"sky", 1}} {
		if err := s.Add(st.Name, st.Weight); err != nil {
			t.Fatalf("Add(%s) failed: %v", st.Name, err)
		}
	}
	// Overwriting keeps the original position
	if err := s.Add("mech", 4); err != nil {
		t.Fatalf("Add overwrite failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read styles file: %v", err)
	}
	if got := string(data); got != `{"mech": 4, "bio": 5, "sky": 1}` {
		t.Errorf("unexpected file content: %s", got)
	}

	reopened, err := Open(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	list := reopened.List()
	want := []Style{{"mech", 4}, {"bio", 5}, {"sky", 1}}
	if len(list) != len(want) {
		t.Fatalf("expected %v, got %v", want, list)
	}
	for i := range want {
		if list[i] != want[i] {
			t.Errorf("style %d: expected %v, got %v", i, want[i], list[i])
		}
	}
}

func TestStore_AddRejectsNonPositive(t *testing.T) {
	s, _ := openTemp(t)
	for _, w := range []int{0, -2} {
		if err := s.Add("bio", w); !errors.Is(err, ErrInvalidWeight) {
			t.Errorf("Add with weight %d: expected ErrInvalidWeight, got %v", w, err)
		}
	}
	if len(s.List()) != 0 {
		t.Errorf("expected no styles after rejected adds")
	}
}

func TestStore_Delete(t *testing.T) {
	s, _ := openTemp(t)
	_ = s.Add("a", 1)
	_ = s.Add("b", 2)
	_ = s.Add("c", 3)

	weight, err := s.Delete("b")
	if err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if weight != 2 {
		t.Errorf("expected deleted weight 2, got %d", weight)
	}
	if _, err := s.Delete("b"); !errors.Is(err, ErrUnknownStyle) {
		t.Errorf("expected ErrUnknownStyle, got %v", err)
	}

	// Index stays consistent after removal
	if _, err := s.Edit("c", 9); err != nil {
		t.Fatalf("Edit after delete failed: %v", err)
	}
	list := s.List()
	if len(list) != 2 || list[1] != (Style{"c", 9}) {
		t.Errorf("unexpected list after delete: %v", list)
	}
}

func TestStore_Edit(t *testing.T) {
	s, _ := openTemp(t)
	_ = s.Add("bio", 5)

	old, err := s.Edit("bio", 7)
	if err != nil {
		t.Fatalf("Edit failed: %v", err)
	}
	if old != 5 {
		t.Errorf("expected old weight 5, got %d", old)
	}
	if _, err := s.Edit("mech", 1); !errors.Is(err, ErrUnknownStyle) {
		t.Errorf("expected ErrUnknownStyle, got %v", err)
	}
	if _, err := s.Edit("bio", 0); !errors.Is(err, ErrInvalidWeight) {
		t.Errorf("expected ErrInvalidWeight, got %v", err)
	}
}

func TestStore_Scale(t *testing.T) {
	s, _ := openTemp(t)
	_ = s.Add("a", 5)
	_ = s.Add("b", 3)
	_ = s.Add("c", 1)

	if err := s.Scale(0.5); err != nil {
		t.Fatalf("Scale failed: %v", err)
	}
	// 2.5 -> 2, 1.5 -> 2, 0.5 -> 0
	want := []int{2, 2, 0}
	for i, st := range s.List() {
		if st.Weight != want[i] {
			t.Errorf("%s: expected %d, got %d", st.Name, want[i], st.Weight)
		}
	}

	for _, f := range []float64{0, -1} {
		if err := s.Scale(f); !errors.Is(err, ErrInvalidFactor) {
			t.Errorf("Scale(%v): expected ErrInvalidFactor, got %v", f, err)
		}
	}
}

func TestStore_Roll(t *testing.T) {
	s, _ := Open("")
	_ = s.Add("bio", 2)
	_ = s.Add("mech", 3)
	_ = s.Add("sky", 5)

	tests := []struct {
		roll int
		want string
	}{
		{0, "bio"},
		{1, "bio"},
		{2, "mech"},
		{4, "mech"},
		{5, "sky"},
		{9, "sky"},
	}

	for _, tt := range tests {
		var gotN int
		s.WithRand(func(n int) int {
			gotN = n
			return tt.roll
		})
		got, err := s.Roll()
		if err != nil {
			t.Fatalf("Roll failed: %v", err)
		}
		if gotN != 10 {
			t.Errorf("expected draw over total weight 10, got %d", gotN)
		}
		if got != tt.want {
			t.Errorf("roll %d: expected %s, got %s", tt.roll, tt.want, got)
		}
	}
}

func TestStore_RollEmpty(t *testing.T) {
	s, _ := Open("")
	if _, err := s.Roll(); !errors.Is(err, ErrEmpty) {
		t.Errorf("expected ErrEmpty, got %v", err)
	}
}

func TestStore_RollDistribution(t *testing.T) {
	s, _ := Open("")
	_ = s.Add("rare", 1)
	_ = s.Add("common", 99)

	counts := map[string]int{}
	for i := 0; i < 2000; i++ {
		name, err := s.Roll()
		if err != nil {
			t.Fatalf("Roll failed: %v", err)
		}
		counts[name]++
	}
	if counts["common"] < counts["rare"] {
		t.Errorf("weights not respected: %v", counts)
	}
}

func TestOpen_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "styles.json")
	if err := os.WriteFile(path, []byte(`["not", "an", "object"]`), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	_, err := Open(path)
	if err == nil || !strings.Contains(err.Error(), "decode styles") {
		t.Errorf("expected decode error, got %v", err)
	}
}

func TestOpen_ReadsOriginalFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "styles.json")
	if err := os.WriteFile(path, []byte(`{"zerg rush": 2, "macro": 10}`), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if s.Total() != 12 {
		t.Errorf("expected total 12, got %d", s.Total())
	}
	if list := s.List(); list[0].Name != "zerg rush" {
		t.Errorf("expected file order to be kept, got %v", list)
	}
}

func TestStore_ScaleOverflow(t *testing.T) {
	tests := []struct {
		name    string
		weights []int
		factor  float64
	}{
		{"single weight past range", []int{100}, 1e300},
		{"exactly 2^63", []int{1 << 62}, 2},
		{"total past range", []int{1 << 61, 1 << 61, 1 << 61}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _ := Open("")
			for i, w := range tt.weights {
				if err := s.Add(string(rune('a'+i)), w); err != nil {
					t.Fatalf("Add failed: %v", err)
				}
			}

			if err := s.Scale(tt.factor); !errors.Is(err, ErrInvalidFactor) {
				t.Errorf("expected ErrInvalidFactor, got %v", err)
			}
			for i, st := range s.List() {
				if st.Weight != tt.weights[i] {
					t.Errorf("weight of %s changed to %d", st.Name, st.Weight)
				}
			}
		})
	}
}

func TestStore_TotalOverflow(t *testing.T) {
	s, _ := Open("")
	if err := s.Add("a", math.MaxInt); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	if err := s.Add("b", 2); !errors.Is(err, ErrInvalidWeight) {
		t.Errorf("expected ErrInvalidWeight for an overflowing add, got %v", err)
	}
	if err := s.Add("a", math.MaxInt-1); err != nil {
		t.Errorf("overwriting the only style should not count its old weight: %v", err)
	}

	if err := s.Add("b", 1); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if _, err := s.Edit("b", 2); !errors.Is(err, ErrInvalidWeight) {
		t.Errorf("expected ErrInvalidWeight for an overflowing edit, got %v", err)
	}

	if s.Total() != math.MaxInt {
		t.Errorf("expected total math.MaxInt, got %d", s.Total())
	}
	if _, err := s.Roll(); err != nil {
		t.Errorf("Roll failed: %v", err)
	}
}
