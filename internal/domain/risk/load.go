package risk

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadFile reads a YAML mapping of rsid -> entry.
//
//	rs4977574:
//	  gene: CDKN2A/B
//	  variant: Heart Disease Risk
//	  significance: Pathogenic (High Risk)
//	  description: ...
//	  genotypes:
//	    GG: Low Risk
//	    AA: High Risk
func LoadFile(path string) (*KnowledgeBase, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Decode(data)
}

// Decode parses YAML knowledge base data.
func Decode(data []byte) (*KnowledgeBase, error) {
	var entries map[string]Entry
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("decoding knowledge base: %w", err)
	}
	return New(entries)
}

// Load returns the file at path, or Builtin when path is empty.
func Load(path string) (*KnowledgeBase, error) {
	if path == "" {
		return Builtin(), nil
	}
	return LoadFile(path)
}
