package service

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/nyaruka/phonenumbers"

	"github.com/octobees/crm-leads/internal/dto"
	"github.com/octobees/crm-leads/internal/entity"
	"github.com/octobees/crm-leads/internal/repository"
	"github.com/octobees/crm-leads/internal/service/scoring"
)

// The upload CSV carries no header and a fixed positional layout. Only a
// handful of columns are meaningful; the rest are ignored.
const (
	csvColCompanyName  = 1
	csvColLocation     = 2
	csvColIndustry     = 3
	csvColWebsite      = 7
	csvColContactEmail = 9
	csvColNotes        = 19
)

const defaultPhoneRegion = "US"

// LeadsService exposes lead CRUD, CSV ingestion and the scoring entry point.
type LeadsService struct {
	repo   repository.LeadsRepository
	engine *scoring.Engine
}

// NewLeadsService creates a new instance of LeadsService.
func NewLeadsService(repo repository.LeadsRepository, engine *scoring.Engine) *LeadsService {
	return &LeadsService{repo: repo, engine: engine}
}

// ImportLeadsCSV ingests leads from a headerless positional CSV and returns
// the number of records added.
func (s *LeadsService) ImportLeadsCSV(ctx context.Context, r io.Reader) (int, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	var leads []entity.Lead
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return 0, fmt.Errorf("read csv row: %w", err)
		}

		email := cleanValue(column(row, csvColContactEmail))
		leads = append(leads, entity.Lead{
			CompanyName:  cleanValue(column(row, csvColCompanyName)),
			Industry:     cleanValue(column(row, csvColIndustry)),
			Location:     cleanValue(column(row, csvColLocation)),
			ContactName:  contactNameFromEmail(email),
			ContactEmail: email,
			Website:      cleanValue(column(row, csvColWebsite)),
			Notes:        cleanValue(column(row, csvColNotes)),
		})
	}

	added, err := s.repo.BulkInsert(ctx, leads)
	if err != nil {
		return 0, err
	}

	log.Printf("csv upload: %d leads added", added)
	return added, nil
}

// CreateLead persists a single lead from an API payload. The contact phone is
// normalized to E.164 when it parses as a valid number and kept verbatim
// otherwise.
func (s *LeadsService) CreateLead(ctx context.Context, req dto.CreateLeadRequest) (*entity.Lead, error) {
	lead := &entity.Lead{
		CompanyName:  strings.TrimSpace(req.CompanyName),
		Industry:     strings.TrimSpace(req.Industry),
		Location:     strings.TrimSpace(req.Location),
		ContactName:  strings.TrimSpace(req.ContactName),
		ContactEmail: strings.TrimSpace(req.ContactEmail),
		ContactPhone: normalizePhone(req.ContactPhone),
		Revenue:      strings.TrimSpace(req.Revenue),
		Employees:    strings.TrimSpace(req.Employees),
		Website:      strings.TrimSpace(req.Website),
		Notes:        req.Notes,
	}

	if err := s.repo.Create(ctx, lead); err != nil {
		return nil, err
	}
	return lead, nil
}

// ListLeads returns leads matching the filter.
func (s *LeadsService) ListLeads(ctx context.Context, filter dto.ListFilter) ([]entity.Lead, error) {
	return s.repo.List(ctx, filter)
}

// GetLead fetches a single lead by id.
func (s *LeadsService) GetLead(ctx context.Context, id int64) (*entity.Lead, error) {
	return s.repo.GetByID(ctx, id)
}

// DeleteLead removes a lead by id.
func (s *LeadsService) DeleteLead(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

// ClearAll deletes every lead and reports the number removed.
func (s *LeadsService) ClearAll(ctx context.Context) (int64, error) {
	return s.repo.DeleteAll(ctx)
}

// FilterOptions returns the distinct industries and locations present.
func (s *LeadsService) FilterOptions(ctx context.Context) (dto.FilterOptions, error) {
	return s.repo.FilterOptions(ctx)
}

// ScoreLead runs the scoring pipeline for the lead and writes the three AI
// fields back in a single update. Any failure aborts without partial writes.
func (s *LeadsService) ScoreLead(ctx context.Context, id int64) (dto.ScoreResponse, error) {
	lead, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return dto.ScoreResponse{}, err
	}

	result, err := s.engine.ScoreLead(ctx, lead)
	if err != nil {
		return dto.ScoreResponse{}, err
	}

	if err := s.repo.UpdateScore(ctx, id, result.Score, result.Justification, result.NextAction); err != nil {
		return dto.ScoreResponse{}, err
	}

	return dto.ScoreResponse{
		LeadID:          id,
		Score:           result.Score,
		Justification:   result.Justification,
		NextAction:      result.NextAction,
		WebsiteAnalyzed: result.WebsiteAnalyzed,
	}, nil
}

func column(row []string, idx int) string {
	if idx >= len(row) {
		return ""
	}
	return row[idx]
}

func cleanValue(value string) string {
	value = strings.TrimSpace(value)
	if strings.EqualFold(value, "nan") {
		return ""
	}
	return value
}

// contactNameFromEmail derives a display name from the email's local part:
// jane.doe@acme.com becomes "Jane Doe".
func contactNameFromEmail(email string) string {
	if email == "" || !strings.Contains(email, "@") {
		return ""
	}
	local := strings.SplitN(email, "@", 2)[0]
	return titleCase(strings.ReplaceAll(local, ".", " "))
}

func titleCase(value string) string {
	parts := strings.Fields(value)
	for i, p := range parts {
		lower := strings.ToLower(p)
		parts[i] = strings.ToUpper(lower[:1]) + lower[1:]
	}
	return strings.Join(parts, " ")
}

func normalizePhone(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	number, err := phonenumbers.Parse(raw, defaultPhoneRegion)
	if err != nil || !phonenumbers.IsValidNumber(number) {
		return raw
	}
	return phonenumbers.Format(number, phonenumbers.E164)
}
