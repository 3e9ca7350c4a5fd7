// Package report turns registry tag data into the printable reports of the
// docker-tags command.
package report

import (
	"time"

	"github.com/opencontainers/go-digest"

	"github.com/rangerelf/docker-tags/hub"
)

// Life says whether the registry confirmed that an architecture's image is
// currently retrievable. The values are the glyphs the reports print.
type Life string

const (
	// LifeAlive means the registry reported the image as active.
	LifeAlive Life = "L"
	// LifeUnknown means the registry did not confirm availability. That is
	// not an error, just the absence of a signal.
	LifeUnknown Life = "?"
)

// statusActive is how the registry marks an image whose layers are pullable.
const statusActive = "active"

// Record is the report's view of one tag.
type Record struct {
	Name          string      `yaml:"name"`
	Size          int64       `yaml:"size,omitempty"`
	LastUpdated   *time.Time  `yaml:"last_updated,omitempty"`
	Architectures []ArchEntry `yaml:"architectures"`
}

// ArchEntry is the report's view of one architecture of one tag. Name is the
// display form, the variant folded in ("arm/v7"), which is also the form the
// default exclusion list uses.
type ArchEntry struct {
	Name    string        `yaml:"architecture"`
	Variant string        `yaml:"variant,omitempty"`
	OS      string        `yaml:"os,omitempty"`
	Digest  digest.Digest `yaml:"digest,omitempty"`
	Size    int64         `yaml:"size,omitempty"`
	Life    Life          `yaml:"life"`
}

// NewRecord maps one registry tag onto a Record, keeping the registry's
// architecture order and dropping nothing; hiding architectures is
// FilterArchitectures' job. A non-nil images overrides the image summaries
// embedded in the tag, for callers that fetched the fresher per-tag details.
func NewRecord(tag hub.Tag, images []hub.Image) Record {
	if images == nil {
		images = tag.Images
	}
	record := Record{
		Name:          tag.Name,
		Size:          tag.FullSize,
		LastUpdated:   tag.LastUpdated,
		Architectures: make([]ArchEntry, 0, len(images)),
	}
	for _, image := range images {
		record.Architectures = append(record.Architectures, ArchEntry{
			Name:    archName(image.Architecture, image.Variant),
			Variant: image.Variant,
			OS:      image.OS,
			Digest:  image.Digest,
			Size:    image.Size,
			Life:    lifeOf(image),
		})
	}
	return record
}

func archName(architecture, variant string) string {
	if variant == "" {
		return architecture
	}
	return architecture + "/" + variant
}

func lifeOf(image hub.Image) Life {
	if image.Status == statusActive {
		return LifeAlive
	}
	return LifeUnknown
}
