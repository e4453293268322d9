package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/tmoody1973/hakivo-sync/internal/core/domain"
)

func newDocumentRepoWithMock(t *testing.T) (*DocumentRepository, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	return &DocumentRepository{db: db}, mock, func() { _ = db.Close() }
}

func testDocument() domain.RegulatoryDocument {
	return domain.RegulatoryDocument{
		DocumentNumber:  "2026-00042",
		Category:        domain.CategoryRule,
		Title:           "Air Quality Standards Revision",
		PublicationDate: time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC),
		AgencyNames:     []string{"Environmental Protection Agency"},
		HTMLURL:         "https://www.federalregister.gov/d/2026-00042",
	}
}

func TestExistsReturnsTrueForStoredDocument(t *testing.T) {
	repo, mock, done := newDocumentRepoWithMock(t)
	defer done()

	mock.ExpectQuery("SELECT EXISTS").
		WithArgs("2026-00042").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	exists, err := repo.Exists(context.Background(), "2026-00042")
	if err != nil {
		t.Fatalf("Exists() error = %v", err)
	}
	if !exists {
		t.Fatalf("expected true")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestInsertReportsNewRow(t *testing.T) {
	repo, mock, done := newDocumentRepoWithMock(t)
	defer done()

	mock.ExpectExec("INSERT INTO documents").
		WillReturnResult(sqlmock.NewResult(0, 1))

	inserted, err := repo.Insert(context.Background(), testDocument())
	if err != nil {
		t.Fatalf("Insert() error = %v", err)
	}
	if !inserted {
		t.Fatalf("expected inserted=true for a new document")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestInsertReportsDuplicateOnConflict(t *testing.T) {
	repo, mock, done := newDocumentRepoWithMock(t)
	defer done()

	// ON CONFLICT DO NOTHING swallows the duplicate; zero rows affected is
	// how the repository learns another run already stored the document.
	mock.ExpectExec("INSERT INTO documents").
		WillReturnResult(sqlmock.NewResult(0, 0))

	inserted, err := repo.Insert(context.Background(), testDocument())
	if err != nil {
		t.Fatalf("Insert() error = %v", err)
	}
	if inserted {
		t.Fatalf("expected inserted=false for a duplicate document")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}
