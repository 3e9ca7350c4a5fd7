package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/docker/go-units"
	"gopkg.in/yaml.v3"
)

// Mode selects which rendering of the tag data gets printed.
type Mode string

const (
	// ModeBrief prints one line per tag.
	ModeBrief Mode = "brief"
	// ModeDetailed adds one line per architecture, with digest and size.
	ModeDetailed Mode = "detailed"
	// ModeRaw passes the registry's response bodies through untouched.
	ModeRaw Mode = "raw"
	// ModeStructured prints one YAML document per repository.
	ModeStructured Mode = "structured"
)

// ParseMode maps a --report argument onto a Mode, ignoring case.
func ParseMode(value string) (Mode, error) {
	switch mode := Mode(strings.ToLower(value)); mode {
	case ModeBrief, ModeDetailed, ModeRaw, ModeStructured:
		return mode, nil
	}
	return "", fmt.Errorf("unsupported report mode %q (expected one of brief, detailed, raw, structured)", value)
}

// HumanSize renders a byte count the way the reports show sizes: decimal
// units with four significant digits ("33.23MB"), or "?" when the registry
// did not report one.
func HumanSize(size int64) string {
	if size <= 0 {
		return "?"
	}
	return units.HumanSize(float64(size))
}

// WriteBrief prints one "<repository>:<tag> <size> [arch:life, ...]" line
// per record, in the order given.
func WriteBrief(w io.Writer, repository string, records []Record) error {
	for _, record := range records {
		if _, err := fmt.Fprintf(w, "%s:%s %s %s\n", repository, record.Name, HumanSize(record.Size), archSummary(record.Architectures)); err != nil {
			return err
		}
	}
	return nil
}

func archSummary(arches []ArchEntry) string {
	parts := make([]string, 0, len(arches))
	for _, arch := range arches {
		parts = append(parts, fmt.Sprintf("%s:%s", arch.Name, arch.Life))
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// WriteDetailed prints a header line per record followed by one indented
// line per architecture carrying its digest and individual size.
func WriteDetailed(w io.Writer, repository string, records []Record) error {
	for _, record := range records {
		if _, err := fmt.Fprintf(w, "%s:%s %s\n", repository, record.Name, HumanSize(record.Size)); err != nil {
			return err
		}
		for _, arch := range record.Architectures {
			digest := string(arch.Digest)
			if digest == "" {
				digest = "?"
			}
			if _, err := fmt.Fprintf(w, "  %s:%s %s %s %s\n", arch.Name, arch.Life, arch.OS, digest, HumanSize(arch.Size)); err != nil {
				return err
			}
		}
	}
	return nil
}

// WriteStructured emits every record of the repository as a single YAML
// document, sizes in raw bytes, for consumption by other tooling.
func WriteStructured(w io.Writer, repository string, records []Record) error {
	document := struct {
		Repository string   `yaml:"repository"`
		Tags       []Record `yaml:"tags"`
	}{
		Repository: repository,
		Tags:       records,
	}
	out, err := yaml.Marshal(document)
	if err != nil {
		return err
	}
	_, err = w.Write(out)
	return err
}
