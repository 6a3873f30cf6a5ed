package scan

import "testing"

func TestAggregatorAppendOrder(t *testing.T) {
	agg := NewAggregator()
	if agg.Len() != 0 {
		t.Fatalf("new aggregator should be empty, got %d", agg.Len())
	}

	first := AccountRecord{HostName: "WEB01", Name: "SvcBackup", Kind: KindService}
	second := AccountRecord{HostName: "WEB01", Name: "NightlyReport", Kind: KindTask}
	third := AccountRecord{HostName: "DB01", Name: "SvcSQL", Kind: KindService}

	agg.Append(first, second)
	agg.Append(third)

	all := agg.All()
	if len(all) != 3 {
		t.Fatalf("expected 3 records, got %d", len(all))
	}
	if all[0] != first || all[1] != second || all[2] != third {
		t.Errorf("records out of arrival order: %+v", all)
	}
}

func TestAggregatorAppendEmpty(t *testing.T) {
	agg := NewAggregator()
	agg.Append()
	if agg.Len() != 0 {
		t.Errorf("appending nothing should leave aggregator empty, got %d", agg.Len())
	}
}
