package bus

import (
	"encoding/json"
	"testing"
	"time"
)

func TestAnalyzedEventRoundTrip(t *testing.T) {
	event := AnalyzedEvent{
		SessionID:     "sess-rt",
		ScamDetected:  true,
		ItemCount:     3,
		TotalMessages: 5,
		Fallback:      false,
		AnalyzedAt:    time.Date(2026, 4, 2, 12, 0, 0, 0, time.UTC),
	}

	data, err := json.Marshal(event)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var decoded AnalyzedEvent
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if decoded != event {
		t.Errorf("round trip mismatch: got %+v, want %+v", decoded, event)
	}
}

func TestReportedEventFieldNames(t *testing.T) {
	data, err := json.Marshal(ReportedEvent{SessionID: "sess-1", ItemCount: 2})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	for _, key := range []string{"session_id", "item_count", "reported_at"} {
		if _, ok := raw[key]; !ok {
			t.Errorf("missing field %q in %s", key, data)
		}
	}
}
