package opcount

import "time"

// Result holds the counts of one translation unit.
type Result struct {
	Path        string `json:"path" toon:"path"`
	Flops       int    `json:"flops" toon:"flops"`
	Memops      int    `json:"memops" toon:"memops"`
	FlopsSites  []Site `json:"flops_sites,omitempty" toon:"flops_sites,omitempty"`
	MemopsSites []Site `json:"memops_sites,omitempty" toon:"memops_sites,omitempty"`
	Dump        string `json:"-" toon:"-"`
}

// Summary totals the counts across every analyzed file.
type Summary struct {
	TotalFiles int `json:"total_files" toon:"total_files"`
	Flops      int `json:"flops" toon:"flops"`
	Memops     int `json:"memops" toon:"memops"`
}

// Analysis is the operation count of a set of files.
type Analysis struct {
	GeneratedAt time.Time `json:"generated_at" toon:"generated_at"`
	Files       []*Result `json:"files" toon:"files"`
	Summary     Summary   `json:"summary" toon:"summary"`
}

// CalculateSummary computes the totals.
func (a *Analysis) CalculateSummary() {
	s := Summary{TotalFiles: len(a.Files)}
	for _, f := range a.Files {
		s.Flops += f.Flops
		s.Memops += f.Memops
	}
	a.Summary = s
}
