package genome

// MarkerRecord is one data line of a raw genotype file.
// All fields stay text; chromosome labels like "X" or "MT" are common.
type MarkerRecord struct {
	RSID       string `json:"rsid" yaml:"rsid"`
	Chromosome string `json:"chromosome" yaml:"chromosome"`
	Position   string `json:"position" yaml:"position"`
	Genotype   string `json:"genotype" yaml:"genotype"`
}

// MarkerTable keeps records in file order. Treat it as read-only after Parse.
type MarkerTable []MarkerRecord

// Head returns at most n records from the start of the table.
func (t MarkerTable) Head(n int) []MarkerRecord {
	if n > len(t) {
		n = len(t)
	}
	if n < 0 {
		n = 0
	}
	out := make([]MarkerRecord, n)
	copy(out, t[:n])
	return out
}

// FirstGenotypes maps every distinct rsid to the genotype of its first occurrence.
func (t MarkerTable) FirstGenotypes() map[string]string {
	out := make(map[string]string, len(t))
	for _, rec := range t {
		if _, seen := out[rec.RSID]; seen {
			continue
		}
		out[rec.RSID] = rec.Genotype
	}
	return out
}
