package parser

import (
	"context"
	"errors"
	"testing"

	"github.com/budget-automation/statement-categorizer/internal/common"
	"github.com/budget-automation/statement-categorizer/internal/extract"
	"github.com/budget-automation/statement-categorizer/internal/llm"
)

type mockClient struct {
	generate func(req llm.GenerateRequest) ([]byte, error)
	calls    int
}

func (m *mockClient) GenerateStructured(_ context.Context, req llm.GenerateRequest) ([]byte, error) {
	m.calls++
	return m.generate(req)
}

func (m *mockClient) CheckConnection(context.Context) bool { return true }
func (m *mockClient) Close()                               {}

// respondPerPage returns canned responses keyed by the page text embedded in
// the prompt.
func respondPerPage(pages map[string]string, errPages map[string]error) func(llm.GenerateRequest) ([]byte, error) {
	return func(req llm.GenerateRequest) ([]byte, error) {
		for page, resp := range pages {
			if len(req.Prompt) >= len(page) && req.Prompt[len(req.Prompt)-len(page):] == page {
				return []byte(resp), nil
			}
		}
		for page, err := range errPages {
			if len(req.Prompt) >= len(page) && req.Prompt[len(req.Prompt)-len(page):] == page {
				return nil, err
			}
		}
		return []byte(`{"transactions":[]}`), nil
	}
}

func TestParseCollapsesDuplicatesAcrossPages(t *testing.T) {
	client := &mockClient{generate: respondPerPage(map[string]string{
		"page1": `{"transactions":[
			{"date":"2024-03-15","description":"SAFEWAY #123","amount":42.50},
			{"date":"2024-03-16","description":"SHELL OIL","amount":30.00}
		]}`,
		"page2": `{"transactions":[
			{"date":"2024-03-16","description":"SHELL OIL","amount":30.00},
			{"date":"2024-03-17","description":"NETFLIX.COM","amount":15.49}
		]}`,
	}, nil)}

	p := New(client, Config{StatementYear: 2024}, nil)
	txs, err := p.Parse(context.Background(), extract.Document{
		Name:  "statement.pdf",
		Pages: []string{"page1", "page2"},
	})
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(txs) != 3 {
		t.Fatalf("got %d transactions, want 3 (duplicate collapsed): %+v", len(txs), txs)
	}
	// First-seen order survives dedup.
	wantOrder := []string{"SAFEWAY #123", "SHELL OIL", "NETFLIX.COM"}
	for i, want := range wantOrder {
		if txs[i].Description != want {
			t.Errorf("txs[%d] = %q, want %q", i, txs[i].Description, want)
		}
	}
}

func TestParseDropsInvalidCandidates(t *testing.T) {
	client := &mockClient{generate: respondPerPage(map[string]string{
		"page1": `{"transactions":[
			{"date":"2024-03-15","description":"SAFEWAY #123","amount":42.50},
			{"date":"not a date","description":"MYSTERY","amount":1.00},
			{"date":"2024-03-15","description":"Total Purchases","amount":500.00},
			{"date":"2024-03-15","description":"   ","amount":2.00}
		]}`,
	}, nil)}

	p := New(client, Config{StatementYear: 2024}, nil)
	txs, err := p.Parse(context.Background(), extract.Document{Name: "s.pdf", Pages: []string{"page1"}})
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(txs) != 1 || txs[0].Description != "SAFEWAY #123" {
		t.Errorf("got %+v, want only SAFEWAY #123", txs)
	}
}

func TestParseSkipsFailedPages(t *testing.T) {
	client := &mockClient{generate: respondPerPage(
		map[string]string{
			"page2": `{"transactions":[{"date":"2024-03-16","description":"SHELL OIL","amount":30.00}]}`,
		},
		map[string]error{
			"page1": common.ErrSchemaViolation,
		},
	)}

	p := New(client, Config{StatementYear: 2024}, nil)
	txs, err := p.Parse(context.Background(), extract.Document{Name: "s.pdf", Pages: []string{"page1", "page2"}})
	if err != nil {
		t.Fatalf("one failed page must not abort the document: %v", err)
	}
	if len(txs) != 1 {
		t.Errorf("got %d transactions, want 1", len(txs))
	}
}

func TestParseAllPagesFailed(t *testing.T) {
	client := &mockClient{generate: func(llm.GenerateRequest) ([]byte, error) {
		return nil, common.ErrBackendUnavailable
	}}

	p := New(client, Config{StatementYear: 2024}, nil)
	_, err := p.Parse(context.Background(), extract.Document{Name: "s.pdf", Pages: []string{"a", "b"}})
	if !errors.Is(err, common.ErrBackendUnavailable) {
		t.Errorf("error = %v, want ErrBackendUnavailable", err)
	}
	if client.calls != 2 {
		t.Errorf("calls = %d, want 2 (every page attempted)", client.calls)
	}
}

func TestParseEmptyDocument(t *testing.T) {
	client := &mockClient{generate: func(llm.GenerateRequest) ([]byte, error) {
		t.Fatal("no inference call expected for a document with no pages")
		return nil, nil
	}}

	p := New(client, Config{}, nil)
	txs, err := p.Parse(context.Background(), extract.Document{Name: "empty.pdf"})
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(txs) != 0 {
		t.Errorf("got %d transactions, want 0", len(txs))
	}
}
