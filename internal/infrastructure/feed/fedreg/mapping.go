package fedreg

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/tmoody1973/hakivo-sync/internal/core/domain"
)

// wireFields is the field set requested from the API; it mirrors what the
// mapping below consumes so responses stay small.
var wireFields = []string{
	"document_number",
	"type",
	"subtype",
	"title",
	"abstract",
	"action",
	"dates",
	"effective_on",
	"publication_date",
	"agency_names",
	"topics",
	"significant",
	"cfr_references",
	"docket_ids",
	"html_url",
	"pdf_url",
	"full_text_xml_url",
	"raw_text_url",
	"page_length",
	"comments_close_on",
	"comment_url",
	"start_page",
	"end_page",
}

type pageResponse struct {
	Count      int          `json:"count"`
	TotalPages int          `json:"total_pages"`
	Results    []wireRecord `json:"results"`
}

// wireRecord is one feed entry as published by the API. Field names on the
// wire differ from the internal model; toDomain performs the mapping.
type wireRecord struct {
	DocumentNumber  string          `json:"document_number"`
	Subtype         string          `json:"subtype"`
	Title           string          `json:"title"`
	Abstract        string          `json:"abstract"`
	Action          string          `json:"action"`
	Dates           string          `json:"dates"`
	EffectiveOn     string          `json:"effective_on"`
	PublicationDate string          `json:"publication_date"`
	AgencyNames     []string        `json:"agency_names"`
	Topics          []string        `json:"topics"`
	Significant     bool            `json:"significant"`
	CFRReferences   json.RawMessage `json:"cfr_references"`
	DocketIDs       json.RawMessage `json:"docket_ids"`
	HTMLURL         string          `json:"html_url"`
	PDFURL          string          `json:"pdf_url"`
	FullTextXMLURL  string          `json:"full_text_xml_url"`
	RawTextURL      string          `json:"raw_text_url"`
	PageLength      int             `json:"page_length"`
	CommentsCloseOn string          `json:"comments_close_on"`
	CommentURL      string          `json:"comment_url"`
	StartPage       int             `json:"start_page"`
	EndPage         int             `json:"end_page"`
}

func (r wireRecord) toDomain(category domain.DocumentCategory) (domain.RegulatoryDocument, error) {
	if r.DocumentNumber == "" {
		return domain.RegulatoryDocument{}, fmt.Errorf("missing document_number")
	}
	if r.HTMLURL == "" {
		return domain.RegulatoryDocument{}, fmt.Errorf("missing html_url for %s", r.DocumentNumber)
	}

	publishedAt, err := time.Parse(dateLayout, r.PublicationDate)
	if err != nil {
		return domain.RegulatoryDocument{}, fmt.Errorf("parse publication_date %q: %w", r.PublicationDate, err)
	}

	doc := domain.RegulatoryDocument{
		DocumentNumber:  r.DocumentNumber,
		Category:        category,
		Subcategory:     r.Subtype,
		Title:           r.Title,
		Abstract:        r.Abstract,
		ActionText:      r.Action,
		DatesText:       r.Dates,
		PublicationDate: publishedAt,
		AgencyNames:     r.AgencyNames,
		Topics:          r.Topics,
		IsSignificant:   r.Significant,
		CFRReferences:   r.CFRReferences,
		DocketIDs:       r.DocketIDs,
		HTMLURL:         r.HTMLURL,
		PDFURL:          r.PDFURL,
		FullTextURL:     r.FullTextXMLURL,
		RawTextURL:      r.RawTextURL,
		PageLength:      r.PageLength,
		CommentURL:      r.CommentURL,
		StartPage:       r.StartPage,
		EndPage:         r.EndPage,
	}
	if r.AgencyNames == nil {
		doc.AgencyNames = []string{}
	}

	if r.EffectiveOn != "" {
		effective, err := time.Parse(dateLayout, r.EffectiveOn)
		if err != nil {
			return domain.RegulatoryDocument{}, fmt.Errorf("parse effective_on %q: %w", r.EffectiveOn, err)
		}
		doc.EffectiveDate = &effective
	}
	if r.CommentsCloseOn != "" {
		closes, err := time.Parse(dateLayout, r.CommentsCloseOn)
		if err != nil {
			return domain.RegulatoryDocument{}, fmt.Errorf("parse comments_close_on %q: %w", r.CommentsCloseOn, err)
		}
		doc.CommentsCloseOn = &closes
	}
	return doc, nil
}
