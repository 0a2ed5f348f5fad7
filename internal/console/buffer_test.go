package console

import (
	"fmt"
	"testing"
)

func TestBuffer_AppendAndSnapshot(t *testing.T) {
	b := New()

	b.Append("starting")
	b.Append("[ERR] boom")

	snap := b.Snapshot()
	if len(snap) != 2 {
		t.Fatalf("Snapshot returned %d entries, want 2", len(snap))
	}
	if snap[0].Text != "starting" || snap[0].IsErr {
		t.Errorf("first entry = %+v, want plain 'starting'", snap[0])
	}
	if snap[1].Text != "[ERR] boom" || !snap[1].IsErr {
		t.Errorf("second entry = %+v, want error-classified line", snap[1])
	}
	if snap[0].Seq+1 != snap[1].Seq {
		t.Errorf("sequence numbers %d, %d are not contiguous", snap[0].Seq, snap[1].Seq)
	}
}

func TestBuffer_Bound(t *testing.T) {
	b := New()

	total := Capacity + 37
	for i := 1; i <= total; i++ {
		b.Append(fmt.Sprintf("L%d", i))
	}

	if b.Len() != Capacity {
		t.Fatalf("Len = %d, want %d", b.Len(), Capacity)
	}

	snap := b.Snapshot()
	if len(snap) != Capacity {
		t.Fatalf("Snapshot length = %d, want %d", len(snap), Capacity)
	}

	// The retained entries are exactly the last Capacity lines, in order,
	// with contiguous sequence numbers.
	for i, e := range snap {
		wantLine := fmt.Sprintf("L%d", total-Capacity+i+1)
		if e.Text != wantLine {
			t.Fatalf("entry %d = %q, want %q", i, e.Text, wantLine)
		}
		if i > 0 && e.Seq != snap[i-1].Seq+1 {
			t.Fatalf("entry %d has seq %d, previous %d", i, e.Seq, snap[i-1].Seq)
		}
	}
}

func TestBuffer_EvictionOrder(t *testing.T) {
	b := New()

	for i := 1; i <= Capacity+5; i++ {
		b.Append(fmt.Sprintf("L%d", i))
	}

	snap := b.Snapshot()
	if snap[0].Text != "L6" {
		t.Errorf("oldest retained entry = %q, want L6", snap[0].Text)
	}
	if last := snap[len(snap)-1].Text; last != fmt.Sprintf("L%d", Capacity+5) {
		t.Errorf("newest retained entry = %q, want L%d", last, Capacity+5)
	}
}

func TestBuffer_ClearKeepsSequence(t *testing.T) {
	b := New()

	b.Append("one")
	last := b.Append("two")

	b.Clear()
	if b.Len() != 0 {
		t.Fatalf("Len after Clear = %d, want 0", b.Len())
	}

	next := b.Append("three")
	if next.Seq <= last.Seq {
		t.Errorf("seq after Clear = %d, want greater than %d", next.Seq, last.Seq)
	}
}

func TestBuffer_SnapshotIsCopy(t *testing.T) {
	b := New()
	b.Append("one")

	snap := b.Snapshot()
	b.Append("two")

	if len(snap) != 1 || snap[0].Text != "one" {
		t.Errorf("snapshot mutated by later append: %+v", snap)
	}
}
