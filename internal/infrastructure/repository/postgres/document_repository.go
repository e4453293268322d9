package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/tmoody1973/hakivo-sync/internal/core/domain"
)

type DocumentRepository struct {
	db *sql.DB
}

func NewDocumentRepository(db *sql.DB) *DocumentRepository {
	return &DocumentRepository{db: db}
}

func (r *DocumentRepository) Exists(ctx context.Context, documentNumber string) (bool, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT EXISTS (SELECT 1 FROM documents WHERE document_number = $1)
`, documentNumber)

	var exists bool
	if err := row.Scan(&exists); err != nil {
		return false, fmt.Errorf("check document exists: %w", err)
	}
	return exists, nil
}

// Insert writes the document unless its natural key is already present. The
// ON CONFLICT clause makes the write atomic against concurrent runs; the
// return value reports whether this call stored the row.
func (r *DocumentRepository) Insert(ctx context.Context, doc domain.RegulatoryDocument) (bool, error) {
	agenciesJSON, err := json.Marshal(doc.AgencyNames)
	if err != nil {
		return false, fmt.Errorf("marshal agency names: %w", err)
	}
	topicsJSON, err := json.Marshal(doc.Topics)
	if err != nil {
		return false, fmt.Errorf("marshal topics: %w", err)
	}

	result, err := r.db.ExecContext(ctx, `
INSERT INTO documents (
	document_number, category, subcategory, title, abstract, action_text, dates_text,
	effective_date, publication_date, agency_names, topics, is_significant,
	cfr_references, docket_ids, html_url, pdf_url, full_text_url, raw_text_url,
	page_length, comments_close_on, comment_url, start_page, end_page
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22,$23)
ON CONFLICT (document_number) DO NOTHING
`,
		doc.DocumentNumber, string(doc.Category), doc.Subcategory, doc.Title, doc.Abstract,
		doc.ActionText, doc.DatesText, doc.EffectiveDate, doc.PublicationDate,
		agenciesJSON, topicsJSON, doc.IsSignificant,
		rawJSONOrNil(doc.CFRReferences), rawJSONOrNil(doc.DocketIDs),
		doc.HTMLURL, doc.PDFURL, doc.FullTextURL, doc.RawTextURL,
		doc.PageLength, doc.CommentsCloseOn, doc.CommentURL, doc.StartPage, doc.EndPage,
	)
	if err != nil {
		return false, fmt.Errorf("insert document: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("insert document rows affected: %w", err)
	}
	return rows > 0, nil
}

func rawJSONOrNil(raw json.RawMessage) any {
	if len(raw) == 0 {
		return nil
	}
	return []byte(raw)
}
