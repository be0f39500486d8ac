package allocator

import (
	"strings"
	"testing"

	"github.com/me/rota/pkg/model"
)

func newTestSuggestion(job *model.Job) *Suggestion {
	return NewSuggestion(job, testLogger())
}

func TestSuggestion_AddIsIdempotent(t *testing.T) {
	s := newTestSuggestion(&model.Job{Name: "Bell"})
	a := worker("A", model.SizeTall, model.EnduranceHigh)

	if !s.Add(a, "first") {
		t.Fatal("first Add returned false")
	}
	if s.Add(a, "second") {
		t.Error("second Add should be a no-op")
	}
	s.Move(a, TierMin, TierMed, "promote")
	if s.Add(a, "after move") {
		t.Error("Add should not re-add a worker held in a higher tier")
	}
	if s.Len() != 1 {
		t.Errorf("Len = %d, want 1", s.Len())
	}
}

func TestSuggestion_IdentityByName(t *testing.T) {
	s := newTestSuggestion(&model.Job{Name: "Bell"})
	s.Add(worker("A", model.SizeTall, model.EnduranceHigh), "first")
	// A distinct record with the same name is the same worker.
	if s.Add(worker("A", model.SizeShort, model.EnduranceLow), "copy") {
		t.Error("Add accepted a second record named A")
	}
}

func TestSuggestion_MoveAndRemove(t *testing.T) {
	s := newTestSuggestion(&model.Job{Name: "Bell"})
	a := worker("A", model.SizeTall, model.EnduranceHigh)
	b := worker("B", model.SizeTall, model.EnduranceHigh)
	s.Add(a, "")
	s.Add(b, "")

	if s.Move(a, TierMed, TierMax, "not in med") {
		t.Error("Move from a tier not holding the worker should be a no-op")
	}
	if !s.Move(a, TierMin, TierMed, "") {
		t.Fatal("Move min->med failed")
	}
	if tier, ok := s.Contains(a); !ok || tier != TierMed {
		t.Errorf("Contains(A) = %v,%v, want med,true", tier, ok)
	}
	if !equalNames(s.Tier(TierMin), "B") {
		t.Errorf("min = %v, want [B]", names(s.Tier(TierMin)))
	}

	if !s.Remove(a, "") {
		t.Fatal("Remove failed")
	}
	if _, ok := s.Contains(a); ok {
		t.Error("A still present after Remove")
	}
	if s.Remove(a, "") {
		t.Error("second Remove should report false")
	}
}

func TestSuggestion_TierReturnsCopy(t *testing.T) {
	s := newTestSuggestion(&model.Job{Name: "Bell"})
	s.Add(worker("A", model.SizeTall, model.EnduranceHigh), "")
	got := s.Tier(TierMin)
	got[0] = worker("Z", model.SizeNone, model.EnduranceNone)
	if !equalNames(s.Tier(TierMin), "A") {
		t.Error("mutating Tier() result changed the suggestion")
	}
}

func TestSuggestion_BestScansMinMedMax(t *testing.T) {
	s := newTestSuggestion(&model.Job{Name: "Bell"})
	if s.Best() != nil {
		t.Fatal("Best on empty suggestion should be nil")
	}
	p := worker("P", model.SizeTall, model.EnduranceHigh)
	q := worker("Q", model.SizeTall, model.EnduranceHigh)
	s.Add(p, "")
	s.Add(q, "")
	s.Move(p, TierMin, TierMax, "")
	if got := s.Best(); got.Name != "Q" {
		t.Errorf("Best = %s, want Q (min before max)", got.Name)
	}
	s.Remove(q, "")
	if got := s.Best(); got.Name != "P" {
		t.Errorf("Best = %s, want P", got.Name)
	}
}

func TestSuggestion_SingleCharges(t *testing.T) {
	s := newTestSuggestion(&model.Job{Name: "Bell"})
	p := worker("P", model.SizeTall, model.EnduranceHigh)
	q := worker("Q", model.SizeTall, model.EnduranceHigh)
	s.Add(p, "")
	s.Add(q, "")
	s.Move(p, TierMin, TierMed, "")
	s.Move(q, TierMin, TierMed, "")

	s.single()
	if !equalNames(s.Chosen, "P") {
		t.Fatalf("Chosen = %v, want [P]", names(s.Chosen))
	}
	if p.JobsAssigned != 1 || q.JobsAssigned != 0 {
		t.Errorf("JobsAssigned P=%d Q=%d, want 1/0", p.JobsAssigned, q.JobsAssigned)
	}
}

func TestSuggestion_SingleEmpty(t *testing.T) {
	s := newTestSuggestion(&model.Job{Name: "Bell"})
	s.single()
	if len(s.Chosen) != 0 {
		t.Errorf("Chosen = %v, want empty", names(s.Chosen))
	}
	if a := s.Assignment(); a.Job != "Bell" || len(a.Workers) != 0 {
		t.Errorf("Assignment = %+v", a)
	}
}

func TestSuggestion_String(t *testing.T) {
	s := newTestSuggestion(&model.Job{Name: "Bell"})
	s.Add(worker("A", model.SizeTall, model.EnduranceHigh), "")
	out := s.String()
	for _, want := range []string{"Job Name: Bell", "min_suggest=[A]", "med_suggest=[]", "chosen=[]"} {
		if !strings.Contains(out, want) {
			t.Errorf("String() missing %q:\n%s", want, out)
		}
	}
}
