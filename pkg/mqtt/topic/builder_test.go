package topic

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTopicBuilder(t *testing.T) {
	b := NewTopicBuilder("/assistoff/v1/")

	assert.Equal(t, "assistoff/v1/status/cmdr-jameson", b.Status("cmdr-jameson"))
	assert.Equal(t, "assistoff/v1/correction/cmdr-jameson", b.Correction("cmdr-jameson"))
}
