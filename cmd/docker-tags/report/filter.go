package report

import "slices"

// excludedByDefault lists the architectures hidden from reports unless the
// caller asks for everything. Matched against the display name, so the arm
// entries are variant-specific.
var excludedByDefault = []string{"386", "arm/v5", "arm/v6", "arm/v7", "ppc64le", "s390x"}

// FilterArchitectures returns records with the default-excluded
// architectures removed, along with the distinct excluded names that were
// actually present, in the order they were first seen. includeAll passes
// everything through and reports nothing omitted. Records are never dropped,
// even when filtering leaves them without architectures, and the input slice
// is left alone.
func FilterArchitectures(records []Record, includeAll bool) ([]Record, []string) {
	if includeAll {
		return records, nil
	}
	filtered := make([]Record, 0, len(records))
	omitted := []string{}
	seen := map[string]bool{}
	for _, record := range records {
		kept := make([]ArchEntry, 0, len(record.Architectures))
		for _, arch := range record.Architectures {
			if !slices.Contains(excludedByDefault, arch.Name) {
				kept = append(kept, arch)
				continue
			}
			if !seen[arch.Name] {
				seen[arch.Name] = true
				omitted = append(omitted, arch.Name)
			}
		}
		record.Architectures = kept
		filtered = append(filtered, record)
	}
	return filtered, omitted
}
