package review

// Stats counts terminal block outcomes for one review session. Counters are
// reset at the start of every ReviewDocument call, so concurrent sessions
// each get their own totals.
type Stats struct {
	Total           int `json:"total"`
	Valid           int `json:"valid"`
	RepairedLocal   int `json:"repairedLocal"`
	RepairedBackend int `json:"repairedBackend"`
	Failed          int `json:"failed"`
}

// RepairedTotal is the derived sum of both repair tiers.
func (s Stats) RepairedTotal() int {
	return s.RepairedLocal + s.RepairedBackend
}
