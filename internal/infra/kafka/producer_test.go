package kafka

import (
	"testing"

	"github.com/tablehive/backoffice/internal/infra/config"
)

func TestProducer_TopicName(t *testing.T) {
	tests := []struct {
		name      string
		prefix    string
		eventType string
		want      string
	}{
		{"with prefix", "backoffice", "audit.recorded", "backoffice.audit.recorded"},
		{"no prefix", "", "audit.recorded", "audit.recorded"},
		{"already prefixed", "backoffice", "backoffice.audit.recorded", "backoffice.audit.recorded"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &Producer{cfg: config.KafkaSettings{TopicPrefix: tt.prefix}}
			if got := p.TopicName(tt.eventType); got != tt.want {
				t.Fatalf("TopicName(%q) = %q, want %q", tt.eventType, got, tt.want)
			}
		})
	}
}
