package domain

// Source is a single reference backing a research artifact
type Source struct {
	URI   string `json:"uri"`
	Title string `json:"title"`
}

// Artifact is the result of researching one subject
type Artifact struct {
	Summary string   `json:"summary"`
	Sources []Source `json:"sources"`
}
