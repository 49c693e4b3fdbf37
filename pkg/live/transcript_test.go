package live

import (
	"reflect"
	"testing"
)

func TestTurnAssembler_UserCommitsBeforeModel(t *testing.T) {
	var a turnAssembler
	a.AppendUser("he")
	a.AppendModel("hi")
	a.AppendUser("llo")
	a.FlushTurn()

	want := []Entry{
		{Speaker: SpeakerUser, Text: "hello"},
		{Speaker: SpeakerModel, Text: "hi"},
	}
	if got := a.Entries(); !reflect.DeepEqual(got, want) {
		t.Fatalf("entries=%+v, want %+v", got, want)
	}
}

func TestTurnAssembler_EmptySidesSkipped(t *testing.T) {
	var a turnAssembler
	a.AppendModel("only the model spoke")
	a.FlushTurn()
	a.FlushTurn() // nothing pending

	got := a.Entries()
	if len(got) != 1 || got[0].Speaker != SpeakerModel {
		t.Fatalf("entries=%+v", got)
	}
}

func TestTurnAssembler_EntriesAreImmutableCopies(t *testing.T) {
	var a turnAssembler
	a.AppendUser("one")
	a.FlushTurn()

	first := a.Entries()
	first[0].Text = "mutated"

	a.AppendUser("two")
	a.FlushTurn()

	got := a.Entries()
	if got[0].Text != "one" || got[1].Text != "two" {
		t.Fatalf("entries=%+v", got)
	}
}
