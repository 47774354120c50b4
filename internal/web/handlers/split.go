package handlers

import (
	"net/http"

	"github.com/coltype/internal/engine"
	"github.com/coltype/internal/phone"
	"github.com/coltype/internal/suffix"
)

// SplitHandler serves the company and phone splitters
type SplitHandler struct {
	Engine *engine.Engine
}

// SplitRequest is the body of both split endpoints. Values wins when both
// Value and Values are set; Region only applies to phone numbers.
type SplitRequest struct {
	Value  *string `json:"value,omitempty" validate:"required_without=Values"`
	Values []any   `json:"values,omitempty"`
	Region string  `json:"region,omitempty" validate:"omitempty,len=2,alpha"`
}

// inputs returns the values to split and whether a list was sent
func (req SplitRequest) inputs() ([]string, bool) {
	if req.Values != nil {
		return stringify(req.Values), true
	}
	return []string{*req.Value}, false
}

// CompanyResults is the reply to a list of company names
type CompanyResults struct {
	Results []suffix.Split `json:"results"`
}

// PhoneResults is the reply to a list of phone numbers
type PhoneResults struct {
	Results []phone.Split `json:"results"`
}

// Company handles POST /api/split/company
func (h *SplitHandler) Company(w http.ResponseWriter, r *http.Request) {
	var req SplitRequest
	if !decodeJSON(w, r, &req) || !validRequest(w, req) {
		return
	}
	values, list := req.inputs()

	results := make([]suffix.Split, len(values))
	for i, v := range values {
		results[i] = h.Engine.SplitCompany(v)
	}

	if list {
		writeJSON(w, http.StatusOK, CompanyResults{Results: results})
		return
	}
	writeJSON(w, http.StatusOK, results[0])
}

// Phone handles POST /api/split/phone
func (h *SplitHandler) Phone(w http.ResponseWriter, r *http.Request) {
	var req SplitRequest
	if !decodeJSON(w, r, &req) || !validRequest(w, req) {
		return
	}
	values, list := req.inputs()

	results := make([]phone.Split, len(values))
	for i, v := range values {
		results[i] = h.Engine.SplitPhone(v, req.Region)
	}

	if list {
		writeJSON(w, http.StatusOK, PhoneResults{Results: results})
		return
	}
	writeJSON(w, http.StatusOK, results[0])
}
