package main

import (
	"encoding/base64"
	"fmt"
	"io"

	"github.com/danmuck/binfmt/internal/protocol/codec"
	"gopkg.in/yaml.v3"
)

const binaryTag = "!!binary"

// recordNode renders rec as a YAML mapping in field order. Binary values
// are tagged !!binary so they read back as bytes.
func recordNode(rec *codec.Record) (*yaml.Node, error) {
	m := &yaml.Node{Kind: yaml.MappingNode}
	for _, key := range rec.Keys() {
		v, _ := rec.Get(key)
		k := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key}
		val := &yaml.Node{}
		if b, ok := v.([]byte); ok {
			val.Kind = yaml.ScalarNode
			val.Tag = binaryTag
			val.Value = base64.StdEncoding.EncodeToString(b)
		} else if err := val.Encode(v); err != nil {
			return nil, fmt.Errorf("field %q: %w", key, err)
		}
		m.Content = append(m.Content, k, val)
	}
	return m, nil
}

func writeRecord(w io.Writer, rec *codec.Record) error {
	node, err := recordNode(rec)
	if err != nil {
		return err
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(node); err != nil {
		return err
	}
	return enc.Close()
}

// readRecord parses a top-level YAML mapping into a record, keeping the
// document's key order.
func readRecord(data []byte) (*codec.Record, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse record: %w", err)
	}
	m := &doc
	if m.Kind == yaml.DocumentNode && len(m.Content) == 1 {
		m = m.Content[0]
	}
	if m.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("parse record: input is not a YAML mapping")
	}

	rec := codec.NewRecord()
	for i := 0; i+1 < len(m.Content); i += 2 {
		k, val := m.Content[i], m.Content[i+1]
		var v any
		if err := val.Decode(&v); err != nil {
			return nil, fmt.Errorf("parse record: field %q: %w", k.Value, err)
		}
		if s, ok := v.(string); ok && val.ShortTag() == binaryTag {
			v = []byte(s)
		}
		rec.Set(k.Value, v)
	}
	return rec, nil
}
