package views

import "testing"

func TestPaginator_Paging(t *testing.T) {
	p := NewPaginator(10)
	p.SetTotal(25)

	if got := p.TotalPages(); got != 3 {
		t.Errorf("TotalPages() = %d, want 3", got)
	}
	if !p.NextPage() || p.Cursor() != 10 || p.CurrentPage() != 2 {
		t.Errorf("after NextPage: cursor=%d page=%d", p.Cursor(), p.CurrentPage())
	}
	p.NextPage()
	if p.NextPage() {
		t.Error("NextPage past the end should fail")
	}
	start, end := p.VisibleRange()
	if start != 20 || end != 25 {
		t.Errorf("VisibleRange() = %d,%d, want 20,25", start, end)
	}
	if !p.PrevPage() || p.Cursor() != 10 {
		t.Errorf("after PrevPage: cursor=%d", p.Cursor())
	}
}

func TestPaginator_CursorFollowsPage(t *testing.T) {
	p := NewPaginator(2)
	p.SetTotal(3)

	p.CursorDown()
	p.CursorDown()
	if p.CurrentPage() != 2 {
		t.Errorf("CurrentPage() = %d, want 2", p.CurrentPage())
	}
	if p.CursorDown() {
		t.Error("CursorDown past the end should fail")
	}

	p.SetTotal(1)
	if p.Cursor() != 0 || p.CurrentPage() != 1 {
		t.Errorf("after shrink: cursor=%d page=%d", p.Cursor(), p.CurrentPage())
	}
}
