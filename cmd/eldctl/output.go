package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"gopkg.in/yaml.v3"
)

const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
)

// printer writes command results in the selected format. Text output is
// produced by the command's own render func; json and yaml encode the value.
type printer struct {
	w      io.Writer
	format string
}

func newPrinter(w io.Writer, format string) (*printer, error) {
	switch format {
	case formatText, formatJSON, formatYAML:
		return &printer{w: w, format: format}, nil
	}
	return nil, fmt.Errorf("unknown output format %q: want text, json or yaml", format)
}

// print emits v. text is called only for the text format and receives a
// tabwriter that is flushed afterwards.
func (p *printer) print(v any, text func(w io.Writer) error) error {
	switch p.format {
	case formatJSON:
		enc := json.NewEncoder(p.w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case formatYAML:
		return p.yaml(v)
	}
	tw := tabwriter.NewWriter(p.w, 0, 4, 2, ' ', 0)
	if err := text(tw); err != nil {
		return err
	}
	return tw.Flush()
}

// yaml re-encodes the JSON form of v so field names and custom marshalers
// (dates, points) match the json output. Decoding into a yaml.Node keeps
// the key order.
func (p *printer) yaml(v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	var node yaml.Node
	if err := yaml.Unmarshal(raw, &node); err != nil {
		return err
	}
	blockStyle(&node)
	enc := yaml.NewEncoder(p.w)
	enc.SetIndent(2)
	if err := enc.Encode(&node); err != nil {
		return err
	}
	return enc.Close()
}

// message prints a one-line confirmation in text mode and v otherwise.
func (p *printer) message(v any, format string, args ...any) error {
	return p.print(v, func(w io.Writer) error {
		_, err := fmt.Fprintf(w, format+"\n", args...)
		return err
	})
}

// blockStyle drops the flow and quoting styles the JSON input carried.
func blockStyle(n *yaml.Node) {
	n.Style = 0
	for _, c := range n.Content {
		blockStyle(c)
	}
}
