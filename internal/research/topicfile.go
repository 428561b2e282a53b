// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package research

import (
	"fmt"
	"os"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/insight-engine/pkg/types"
)

// TopicFile is the on-disk form of a batch request: a list of topics
// with optional context hints. Operators keep recurring research sets in
// these files instead of retyping them.
// Implements: prd011-topic-research R5.1.
type TopicFile struct {
	Topics []TopicRequest `yaml:"topics"`
}

// ReadTopicFile loads and validates a YAML topics file.
func ReadTopicFile(path string) ([]TopicRequest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading topics file: %w", err)
	}

	var tf TopicFile
	if err := yaml.Unmarshal(data, &tf); err != nil {
		return nil, fmt.Errorf("parsing topics file: %w", err)
	}
	if len(tf.Topics) == 0 {
		return nil, fmt.Errorf("topics file %s lists no topics", path)
	}
	for i, req := range tf.Topics {
		if strings.TrimSpace(req.Topic) == "" {
			return nil, fmt.Errorf("topics file %s: entry %d has an empty topic", path, i+1)
		}
	}
	return tf.Topics, nil
}

// WriteTopicFile saves a batch request set for later reuse.
func WriteTopicFile(path string, requests []TopicRequest) error {
	data, err := yaml.Marshal(&TopicFile{Topics: requests})
	if err != nil {
		return fmt.Errorf("marshaling topics file: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// WriteReport saves a finished batch report as YAML.
func WriteReport(path string, report *types.BatchReport) error {
	data, err := yaml.Marshal(report)
	if err != nil {
		return fmt.Errorf("marshaling report: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
