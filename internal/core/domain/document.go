package domain

import (
	"encoding/json"
	"time"
)

type DocumentCategory string

const (
	CategoryRule         DocumentCategory = "RULE"
	CategoryProposedRule DocumentCategory = "PRORULE"
	CategoryNotice       DocumentCategory = "NOTICE"
	CategoryPresidential DocumentCategory = "PRESDOCU"
)

// AllCategories lists every document kind fetched during a sync run.
func AllCategories() []DocumentCategory {
	return []DocumentCategory{
		CategoryRule,
		CategoryProposedRule,
		CategoryNotice,
		CategoryPresidential,
	}
}

// Label returns the human-readable kind used in notification titles.
func (c DocumentCategory) Label() string {
	switch c {
	case CategoryRule:
		return "Rule"
	case CategoryProposedRule:
		return "Proposed Rule"
	case CategoryNotice:
		return "Notice"
	case CategoryPresidential:
		return "Presidential Document"
	default:
		return "Document"
	}
}

// RegulatoryDocument is one Federal Register entry. DocumentNumber is the
// natural key; a document is written once on first sight and never mutated.
type RegulatoryDocument struct {
	DocumentNumber  string           `json:"document_number"`
	Category        DocumentCategory `json:"category"`
	Subcategory     string           `json:"subcategory,omitempty"`
	Title           string           `json:"title"`
	Abstract        string           `json:"abstract,omitempty"`
	ActionText      string           `json:"action_text,omitempty"`
	DatesText       string           `json:"dates_text,omitempty"`
	EffectiveDate   *time.Time       `json:"effective_date,omitempty"`
	PublicationDate time.Time        `json:"publication_date"`
	AgencyNames     []string         `json:"agency_names"`
	Topics          []string         `json:"topics,omitempty"`
	IsSignificant   bool             `json:"is_significant"`
	CFRReferences   json.RawMessage  `json:"cfr_references,omitempty"`
	DocketIDs       json.RawMessage  `json:"docket_ids,omitempty"`
	HTMLURL         string           `json:"html_url"`
	PDFURL          string           `json:"pdf_url,omitempty"`
	FullTextURL     string           `json:"full_text_url,omitempty"`
	RawTextURL      string           `json:"raw_text_url,omitempty"`
	PageLength      int              `json:"page_length"`
	CommentsCloseOn *time.Time       `json:"comments_close_on,omitempty"`
	CommentURL      string           `json:"comment_url,omitempty"`
	StartPage       int              `json:"start_page,omitempty"`
	EndPage         int              `json:"end_page,omitempty"`
}
