package models

import (
	"encoding/json"
	"testing"
	"time"
)

func TestInstant_UnmarshalEpochMillis(t *testing.T) {
	var got Instant
	if err := json.Unmarshal([]byte(`1700000000000`), &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !got.Equal(time.UnixMilli(1700000000000)) {
		t.Fatalf("got %v", got.Time)
	}
}

func TestInstant_FractionalMillisKeepPrecision(t *testing.T) {
	var got Instant
	if err := json.Unmarshal([]byte(`1700000000000.5`), &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	want := time.UnixMilli(1700000000000).Add(500 * time.Microsecond)
	if !got.Equal(want) {
		t.Fatalf("got %v, want %v", got.Time, want)
	}
}

func TestInstant_RejectsOutOfRangeEpoch(t *testing.T) {
	for _, body := range []string{`1e19`, `-1e19`, `9223372036854775808`, `1e400`} {
		t.Run(body, func(t *testing.T) {
			var got Instant
			if err := json.Unmarshal([]byte(body), &got); err == nil {
				t.Fatalf("expected error, got %v", got.Time)
			}
		})
	}
}

func TestInstant_NullIsZero(t *testing.T) {
	got := Instant{Time: time.Now()}
	if err := json.Unmarshal([]byte(`null`), &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !got.IsZero() {
		t.Fatalf("expected zero time, got %v", got.Time)
	}
}

func TestHistoricalSeries_BadTimestampFailsDecode(t *testing.T) {
	var hs HistoricalSeries
	err := json.Unmarshal([]byte(`{"timestamps":[1e19],"moisture":[1],"light":[1],"temperature":[1],"humidity":[1]}`), &hs)
	if err == nil {
		t.Fatalf("expected error for out-of-range timestamp")
	}
}
