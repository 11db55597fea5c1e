package broker

import (
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
)

func TestDecodeMessage(t *testing.T) {
	t.Parallel()

	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	cases := map[string]struct {
		msg        kafka.Message
		entity     string
		action     string
		resourceID string
	}{
		"json event wins over topic": {
			msg:        kafka.Message{Topic: "nomade.cars.updated", Value: []byte(`{"entity":"onekey_account","action":"Created","resourceId":"a-1"}`), Time: at},
			entity:     "accounts",
			action:     "created",
			resourceID: "a-1",
		},
		"id fallback and topic inference": {
			msg:        kafka.Message{Topic: "nomade.car_location.deleted", Value: []byte(`{"id":"7"}`), Time: at},
			entity:     "car-locations",
			action:     "deleted",
			resourceID: "7",
		},
		"non json payload": {
			msg:    kafka.Message{Topic: "airports.updated", Value: []byte("plain"), Time: at},
			entity: "airports",
			action: "updated",
		},
		"bare topic": {
			msg:    kafka.Message{Topic: "packages", Value: []byte(`{}`), Time: at},
			entity: "packages",
			action: "unknown",
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got := decodeMessage(tc.msg)
			if got.Entity != tc.entity || got.Action != tc.action || got.ResourceID != tc.resourceID {
				t.Fatalf("decodeMessage() = %q/%q/%q, want %q/%q/%q", got.Entity, got.Action, got.ResourceID, tc.entity, tc.action, tc.resourceID)
			}
			if !got.Timestamp.Equal(at) {
				t.Fatalf("timestamp = %v, want %v", got.Timestamp, at)
			}
		})
	}
}

func TestStartKafkaConsumersWithoutBrokers(t *testing.T) {
	t.Parallel()

	wait := StartKafkaConsumers(t.Context(), nil, nil, "admin", []string{"nomade.cars"}, nil)
	wait()
}
