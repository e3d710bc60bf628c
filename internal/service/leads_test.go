package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/tmc/langchaingo/llms"

	"github.com/octobees/crm-leads/internal/dto"
	"github.com/octobees/crm-leads/internal/entity"
	"github.com/octobees/crm-leads/internal/repository"
	"github.com/octobees/crm-leads/internal/service/scoring"
)

type stubLeadsRepository struct {
	leads       map[int64]*entity.Lead
	nextID      int64
	bulk        []entity.Lead
	scoreWrites int
}

func newStubLeadsRepository() *stubLeadsRepository {
	return &stubLeadsRepository{leads: map[int64]*entity.Lead{}, nextID: 1}
}

func (s *stubLeadsRepository) Create(ctx context.Context, lead *entity.Lead) error {
	lead.ID = s.nextID
	s.nextID++
	copied := *lead
	s.leads[lead.ID] = &copied
	return nil
}

func (s *stubLeadsRepository) BulkInsert(ctx context.Context, leads []entity.Lead) (int, error) {
	s.bulk = append(s.bulk, leads...)
	for i := range leads {
		lead := leads[i]
		lead.ID = s.nextID
		s.nextID++
		s.leads[lead.ID] = &lead
	}
	return len(leads), nil
}

func (s *stubLeadsRepository) GetByID(ctx context.Context, id int64) (*entity.Lead, error) {
	lead, ok := s.leads[id]
	if !ok {
		return nil, repository.ErrLeadNotFound
	}
	copied := *lead
	return &copied, nil
}

func (s *stubLeadsRepository) List(ctx context.Context, filter dto.ListFilter) ([]entity.Lead, error) {
	var result []entity.Lead
	for _, lead := range s.leads {
		if filter.MinScore != nil && (lead.AIScore == nil || *lead.AIScore < *filter.MinScore) {
			continue
		}
		result = append(result, *lead)
	}
	return result, nil
}

func (s *stubLeadsRepository) Delete(ctx context.Context, id int64) error {
	if _, ok := s.leads[id]; !ok {
		return repository.ErrLeadNotFound
	}
	delete(s.leads, id)
	return nil
}

func (s *stubLeadsRepository) DeleteAll(ctx context.Context) (int64, error) {
	count := int64(len(s.leads))
	s.leads = map[int64]*entity.Lead{}
	return count, nil
}

func (s *stubLeadsRepository) UpdateScore(ctx context.Context, id int64, score int, justification, nextAction string) error {
	lead, ok := s.leads[id]
	if !ok {
		return repository.ErrLeadNotFound
	}
	lead.AIScore = &score
	lead.AIJustification = &justification
	lead.AINextAction = &nextAction
	s.scoreWrites++
	return nil
}

func (s *stubLeadsRepository) FilterOptions(ctx context.Context) (dto.FilterOptions, error) {
	return dto.FilterOptions{Industries: []string{}, Locations: []string{}}, nil
}

type stubModel struct {
	response string
	err      error
}

func (m *stubModel) GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &llms.ContentResponse{Choices: []*llms.ContentChoice{{Content: m.response}}}, nil
}

func (m *stubModel) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	return m.response, nil
}

func csvRow(fields map[int]string) string {
	row := make([]string, 24)
	for idx, value := range fields {
		row[idx] = value
	}
	return strings.Join(row, ",")
}

func TestImportLeadsCSV(t *testing.T) {
	repo := newStubLeadsRepository()
	svc := NewLeadsService(repo, scoring.NewEngine(nil, nil))

	csv := csvRow(map[int]string{
		0: "uuid-1",
		1: "Acme Consulting",
		2: "Berlin",
		3: "Consulting",
		7: "acme.com",
		9: "jane.doe@acme.com",
	}) + "\n" + csvRow(map[int]string{
		1: "nan",
		2: "nan",
		9: "nan",
	}) + "\n"

	added, err := svc.ImportLeadsCSV(context.Background(), strings.NewReader(csv))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if added != 2 {
		t.Fatalf("expected 2 leads added, got %d", added)
	}

	first := repo.bulk[0]
	if first.CompanyName != "Acme Consulting" || first.Location != "Berlin" || first.Industry != "Consulting" {
		t.Fatalf("unexpected mapped fields: %+v", first)
	}
	if first.ContactName != "Jane Doe" {
		t.Fatalf("expected contact name derived from email, got %q", first.ContactName)
	}
	if first.Notes != "" {
		t.Fatalf("expected empty notes, got %q", first.Notes)
	}

	second := repo.bulk[1]
	if second.CompanyName != "" || second.ContactEmail != "" || second.ContactName != "" {
		t.Fatalf("expected nan values normalized to empty, got %+v", second)
	}
}

func TestImportLeadsCSV_ShortRowsTolerated(t *testing.T) {
	repo := newStubLeadsRepository()
	svc := NewLeadsService(repo, scoring.NewEngine(nil, nil))

	added, err := svc.ImportLeadsCSV(context.Background(), strings.NewReader("x,Acme,Berlin\n"))
	if err != nil {
		t.Fatalf("unexpected error for short row: %v", err)
	}
	if added != 1 {
		t.Fatalf("expected 1 lead added, got %d", added)
	}
	if repo.bulk[0].CompanyName != "Acme" || repo.bulk[0].Website != "" {
		t.Fatalf("unexpected mapping for short row: %+v", repo.bulk[0])
	}
}

func TestContactNameFromEmail(t *testing.T) {
	cases := map[string]string{
		"jane.doe@acme.com": "Jane Doe",
		"j.p.morgan@bank.io": "J P Morgan",
		"single@acme.com":   "Single",
		"":                  "",
		"no-at-sign":        "",
	}
	for email, want := range cases {
		if got := contactNameFromEmail(email); got != want {
			t.Fatalf("contactNameFromEmail(%q) = %q, want %q", email, got, want)
		}
	}
}

func TestCreateLead_PhoneNormalized(t *testing.T) {
	repo := newStubLeadsRepository()
	svc := NewLeadsService(repo, scoring.NewEngine(nil, nil))

	lead, err := svc.CreateLead(context.Background(), dto.CreateLeadRequest{
		CompanyName:  "Acme",
		ContactPhone: "(202) 456-1111",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if lead.ID == 0 {
		t.Fatalf("expected generated id")
	}
	if lead.ContactPhone != "+12024561111" {
		t.Fatalf("expected E.164 phone, got %q", lead.ContactPhone)
	}
}

func TestCreateLead_UnparseablePhoneKeptVerbatim(t *testing.T) {
	repo := newStubLeadsRepository()
	svc := NewLeadsService(repo, scoring.NewEngine(nil, nil))

	lead, err := svc.CreateLead(context.Background(), dto.CreateLeadRequest{ContactPhone: "ext. 12"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if lead.ContactPhone != "ext. 12" {
		t.Fatalf("expected verbatim phone, got %q", lead.ContactPhone)
	}
}

func TestScoreLead_WritesBackAllFields(t *testing.T) {
	repo := newStubLeadsRepository()
	repo.leads[5] = &entity.Lead{ID: 5, CompanyName: "Acme", ContactEmail: "a@acme.com"}

	engine := scoring.NewEngine(&stubModel{response: "SCORE: 90\nJUSTIFICATION: Great.\nNEXT_ACTION: Call."}, scoring.NewSummarizer(nil))
	svc := NewLeadsService(repo, engine)

	resp, err := svc.ScoreLead(context.Background(), 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.LeadID != 5 || resp.Score != 90 || resp.Justification != "Great." || resp.NextAction != "Call." {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if resp.WebsiteAnalyzed {
		t.Fatalf("expected website_analyzed=false without a website")
	}

	stored := repo.leads[5]
	if stored.AIScore == nil || *stored.AIScore != 90 {
		t.Fatalf("expected score persisted, got %+v", stored.AIScore)
	}
	if stored.AIJustification == nil || stored.AINextAction == nil {
		t.Fatalf("expected all three fields persisted")
	}
	if repo.scoreWrites != 1 {
		t.Fatalf("expected a single write-back, got %d", repo.scoreWrites)
	}
}

func TestScoreLead_UnknownLead(t *testing.T) {
	svc := NewLeadsService(newStubLeadsRepository(), scoring.NewEngine(&stubModel{response: "x"}, nil))
	if _, err := svc.ScoreLead(context.Background(), 404); !errors.Is(err, repository.ErrLeadNotFound) {
		t.Fatalf("expected ErrLeadNotFound, got %v", err)
	}
}

func TestScoreLead_ModelFailureLeavesLeadUntouched(t *testing.T) {
	repo := newStubLeadsRepository()
	repo.leads[1] = &entity.Lead{ID: 1, CompanyName: "Acme"}

	engine := scoring.NewEngine(&stubModel{err: errors.New("api down")}, scoring.NewSummarizer(nil))
	svc := NewLeadsService(repo, engine)

	if _, err := svc.ScoreLead(context.Background(), 1); err == nil {
		t.Fatalf("expected error from model failure")
	}
	if repo.scoreWrites != 0 {
		t.Fatalf("expected no partial persistence, got %d writes", repo.scoreWrites)
	}
	if repo.leads[1].AIScore != nil {
		t.Fatalf("expected ai fields untouched after failure")
	}
}

func TestMinScoreFilterSemantics(t *testing.T) {
	repo := newStubLeadsRepository()
	for i, score := range []int{10, 60, 90} {
		s := score
		id := int64(i + 1)
		repo.leads[id] = &entity.Lead{ID: id, AIScore: &s}
	}
	svc := NewLeadsService(repo, scoring.NewEngine(nil, nil))

	min := 50
	leads, err := svc.ListLeads(context.Background(), dto.ListFilter{MinScore: &min})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(leads) != 2 {
		t.Fatalf("expected 2 leads at or above 50, got %d", len(leads))
	}
	for _, lead := range leads {
		if *lead.AIScore < 50 {
			t.Fatalf("lead below threshold returned: %d", *lead.AIScore)
		}
	}
}

func TestClearAllIdempotent(t *testing.T) {
	repo := newStubLeadsRepository()
	repo.leads[1] = &entity.Lead{ID: 1}
	svc := NewLeadsService(repo, scoring.NewEngine(nil, nil))

	first, err := svc.ClearAll(context.Background())
	if err != nil || first != 1 {
		t.Fatalf("expected 1 deleted, got %d (err %v)", first, err)
	}
	second, err := svc.ClearAll(context.Background())
	if err != nil || second != 0 {
		t.Fatalf("expected 0 deleted on second call, got %d (err %v)", second, err)
	}
}
