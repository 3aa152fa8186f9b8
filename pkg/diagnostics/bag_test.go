package diagnostics

import "testing"

func TestBagKeepsReportOrder(t *testing.T) {
	var bag Bag
	bag.ReportUndefinedName(Span{Start: 4, Length: 1}, "x")
	bag.ReportUndefinedBinaryOperator(Span{Start: 0, Length: 5}, "+", "Boolean", "Int")
	bag.ReportCannotConvertImplicitly(Span{}, "Int64", "Int8")

	items := bag.Items()
	if len(items) != 3 || bag.Len() != 3 {
		t.Fatalf("expected 3 diagnostics, got %d", len(items))
	}
	want := []Kind{UndefinedSymbol, UndefinedOperator, CannotConvert}
	for i, kind := range want {
		if items[i].Kind != kind {
			t.Fatalf("diagnostic %d: expected %s, got %s", i, kind, items[i].Kind)
		}
	}
	if items[0].Message != "Symbol 'x' doesn't exist." {
		t.Fatalf("unexpected message %q", items[0].Message)
	}
	if got := Describe("main.json", items[0]); got != "main.json:4+1: Symbol 'x' doesn't exist." {
		t.Fatalf("unexpected description %q", got)
	}
}

func TestBagItemsIsACopy(t *testing.T) {
	var bag Bag
	bag.ReportThisNotAllowed(Span{})
	items := bag.Items()
	items[0].Message = "changed"
	if bag.Items()[0].Message == "changed" {
		t.Fatalf("Items must not alias the bag")
	}
}
