package domain

// SearchData is the payload of a search response.
type SearchData struct {
	Results []PhotoResult `json:"results"`
	Message string        `json:"message,omitempty"`
}

// SearchResponse is the envelope returned by the search endpoint.
// Data is nil when the endpoint omits it.
type SearchResponse struct {
	Success bool        `json:"success"`
	Data    *SearchData `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// Results returns data.results, or nil when either level is absent.
func (r *SearchResponse) Results() []PhotoResult {
	if r == nil || r.Data == nil {
		return nil
	}
	return r.Data.Results
}
