package topic

import (
	"fmt"
	"strings"
)

// Topic segments published by assistoff. Subscribers depend on these values.
const (
	// SuffixStatus carries every parsed status record.
	// Structure: {root}/status/{clientID}
	SuffixStatus = "status"

	// SuffixCorrection carries every corrective key press.
	// Structure: {root}/correction/{clientID}
	SuffixCorrection = "correction"
)

// TopicBuilder constructs topic strings below a fixed root.
type TopicBuilder struct {
	root string
}

// NewTopicBuilder creates a builder; surrounding slashes of root are dropped.
func NewTopicBuilder(root string) *TopicBuilder {
	return &TopicBuilder{root: strings.Trim(root, "/")}
}

// Status returns the status topic of one client.
func (b *TopicBuilder) Status(clientID string) string {
	return b.build(SuffixStatus, clientID)
}

// Correction returns the correction topic of one client.
func (b *TopicBuilder) Correction(clientID string) string {
	return b.build(SuffixCorrection, clientID)
}

// build is a private helper to construct the final topic string.
// Pattern: {root}/{suffix}/{identifier}
func (b *TopicBuilder) build(suffix, id string) string {
	return fmt.Sprintf("%s/%s/%s", b.root, suffix, id)
}
