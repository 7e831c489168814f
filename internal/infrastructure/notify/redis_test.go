package notify

import (
	"testing"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/valyala/bytebufferpool"

	"github.com/sonam-git/quiniela-sub001/internal/usecase"
)

func TestEncodeEventWritesIntoBuffer(t *testing.T) {
	event := usecase.Event{
		Type:       usecase.EventResultsUpdated,
		WeekNumber: 36,
		Year:       2026,
		Payload:    map[string]any{"updatedSubmissions": 3},
		OccurredAt: time.Date(2026, time.September, 1, 12, 0, 0, 0, time.UTC),
	}

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	if err := encodeEvent(buf, event); err != nil {
		t.Fatalf("encodeEvent: %v", err)
	}
	if buf.Len() == 0 {
		t.Fatal("buffer empty after encoding")
	}

	var got usecase.Event
	if err := sonic.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if got.Type != event.Type || got.WeekNumber != 36 || got.Year != 2026 {
		t.Fatalf("round-tripped event = %+v", got)
	}
}

func TestEncodeEventReusedBuffer(t *testing.T) {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	if err := encodeEvent(buf, usecase.Event{Type: usecase.EventScheduleCreated}); err != nil {
		t.Fatalf("first encode: %v", err)
	}
	buf.Reset()
	if err := encodeEvent(buf, usecase.Event{Type: usecase.EventWeekSettled}); err != nil {
		t.Fatalf("second encode: %v", err)
	}

	var got usecase.Event
	if err := sonic.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if got.Type != usecase.EventWeekSettled {
		t.Fatalf("type = %q, want %q", got.Type, usecase.EventWeekSettled)
	}
}
