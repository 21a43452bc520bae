package rawdata

import (
	"errors"
	"testing"
)

func TestDecodeResponse_Array(t *testing.T) {
	t.Parallel()

	resp, err := DecodeResponse([]byte(`[{"id":123,"title":"U12B"},"noise"]`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Kind != KindArray {
		t.Fatalf("expected array kind, got=%d", resp.Kind)
	}
	records := resp.Records()
	if len(records) != 1 {
		t.Fatalf("expected one object record, got=%d", len(records))
	}
	if records[0]["title"] != "U12B" {
		t.Fatalf("unexpected record: %#v", records[0])
	}
}

func TestDecodeResponse_ObjectOfNamedArrays(t *testing.T) {
	t.Parallel()

	resp, err := DecodeResponse([]byte(`{"meta":{"total":2},"upcoming":[{"a":1}],"games":[{"b":2}],"empty":[]}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	lists := resp.Lists()
	if len(lists) != 2 {
		t.Fatalf("expected two non-empty lists, got=%d", len(lists))
	}
	if lists[0].Key != "games" || lists[1].Key != "upcoming" {
		t.Fatalf("expected lexical key order, got=%s,%s", lists[0].Key, lists[1].Key)
	}
	if !resp.HasData() {
		t.Fatalf("expected HasData=true")
	}
	if got := len(resp.Records()); got != 2 {
		t.Fatalf("expected two records, got=%d", got)
	}
}

func TestDecodeResponse_ObjectWithoutLists(t *testing.T) {
	t.Parallel()

	resp, err := DecodeResponse([]byte(`{"id":10776,"title":"2025-26","games":[]}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.HasData() {
		t.Fatalf("expected no data for object with only empty lists")
	}
	records := resp.Records()
	if len(records) != 1 || records[0]["title"] != "2025-26" {
		t.Fatalf("expected the object itself as the only record, got=%#v", records)
	}
}

func TestDecodeResponse_Scalar(t *testing.T) {
	t.Parallel()

	_, err := DecodeResponse([]byte(`"maintenance"`))
	if !errors.Is(err, ErrUnsupportedShape) {
		t.Fatalf("expected ErrUnsupportedShape, got %v", err)
	}
	if _, err := DecodeResponse([]byte(`{broken`)); err == nil {
		t.Fatalf("expected decode error for malformed json")
	}
}

func TestPayloadKey(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		payload Payload
		want    string
	}{
		{name: "endpoint", payload: Payload{Endpoint: "standings", SeasonID: "10776"}, want: "standings_10776"},
		{name: "page", payload: Payload{Endpoint: "schedules", SeasonID: "10776", PageOffset: Offset(20)}, want: "schedules_10776_20"},
		{name: "merged crawl", payload: Payload{Endpoint: "schedules", SeasonID: "10776", Paginated: true}, want: "schedules_10776_paginated"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.payload.Key(); got != tt.want {
				t.Fatalf("unexpected key: got=%s want=%s", got, tt.want)
			}
		})
	}
}
